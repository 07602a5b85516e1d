package editor

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tecoline/gteco/pkg/doc"
	"github.com/tecoline/gteco/pkg/edcore"
)

// profile is the YAML startup configuration. All fields are optional.
type profile struct {
	EDFlags     *int64          `yaml:"ed-flags"`
	MemoryLimit *int64          `yaml:"memory-limit"`
	EolMode     string          `yaml:"eol-mode"`
	Palette     map[int64]int64 `yaml:"palette"`
}

// applyProfile loads the profile at path, or the default profile when path is
// empty, and applies it to the interpreter. A missing default profile is not
// an error.
func applyProfile(ip *edcore.Interp, path string) error {
	explicit := path != ""
	if !explicit {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(dir, "gteco", "profile.yaml")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return err
	}
	var pf profile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logger.Println("loaded profile", path)

	if pf.EDFlags != nil {
		ip.SetEDFlags(*pf.EDFlags)
	}
	if pf.MemoryLimit != nil {
		if *pf.MemoryLimit < 0 {
			return fmt.Errorf("%s: negative memory-limit", path)
		}
		ip.SetMemLimit(*pf.MemoryLimit)
	}
	if pf.EolMode != "" {
		mode, err := parseEolMode(pf.EolMode)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		ip.View().SetEolMode(mode)
	}
	for entry, rgb := range pf.Palette {
		ip.SetPalette(entry, rgb)
	}
	return nil
}

func parseEolMode(s string) (doc.EolMode, error) {
	switch s {
	case "crlf":
		return doc.EolCRLF, nil
	case "cr":
		return doc.EolCR, nil
	case "lf":
		return doc.EolLF, nil
	}
	return 0, fmt.Errorf("invalid eol-mode %q", s)
}
