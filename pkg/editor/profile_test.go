package editor

import (
	"strings"
	"testing"

	"github.com/tecoline/gteco/pkg/doc"
	"github.com/tecoline/gteco/pkg/edcore"
	"github.com/tecoline/gteco/pkg/prog/progtest"
	"github.com/tecoline/gteco/pkg/testutil"
	"github.com/tecoline/gteco/pkg/tt"
)

type msgUI struct{ messages []string }

func (u *msgUI) Message(s string) { u.messages = append(u.messages, s) }
func (u *msgUI) Info(string)      {}

func TestApplyProfile(t *testing.T) {
	testutil.InTempDir(t)
	progtest.MustWriteFile(t, "profile.yaml",
		"ed-flags: 48\nmemory-limit: 1024\neol-mode: crlf\npalette:\n  1: 255\n")
	ui := &msgUI{}
	ip := edcore.New(doc.NewView(), ui)
	if err := applyProfile(ip, "profile.yaml"); err != nil {
		t.Fatal(err)
	}
	if got := ip.EDFlags(); got != 48 {
		t.Errorf("ed flags = %d, want 48", got)
	}
	if got := ip.View().EolMode(); got != doc.EolCRLF {
		t.Errorf("eol mode = %v, want %v", got, doc.EolCRLF)
	}
	if err := ip.Execute("2EJ="); err != nil {
		t.Fatal(err)
	}
	if got := ui.messages[len(ui.messages)-1]; got != "1024" {
		t.Errorf("memory limit = %q, want %q", got, "1024")
	}
}

func TestApplyProfileNegativeMemoryLimit(t *testing.T) {
	testutil.InTempDir(t)
	progtest.MustWriteFile(t, "profile.yaml", "memory-limit: -1\n")
	ip := edcore.New(doc.NewView(), edcore.DiscardUI{})
	err := applyProfile(ip, "profile.yaml")
	if err == nil || !strings.Contains(err.Error(), "negative memory-limit") {
		t.Errorf("error = %v, want negative memory-limit", err)
	}
}

func TestApplyProfileInvalidYAML(t *testing.T) {
	testutil.InTempDir(t)
	progtest.MustWriteFile(t, "profile.yaml", "ed-flags: [\n")
	ip := edcore.New(doc.NewView(), edcore.DiscardUI{})
	if err := applyProfile(ip, "profile.yaml"); err == nil {
		t.Error("invalid YAML accepted")
	}
}

func TestApplyProfileInvalidEolMode(t *testing.T) {
	testutil.InTempDir(t)
	progtest.MustWriteFile(t, "profile.yaml", "eol-mode: mac\n")
	ip := edcore.New(doc.NewView(), edcore.DiscardUI{})
	err := applyProfile(ip, "profile.yaml")
	if err == nil || !strings.Contains(err.Error(), "invalid eol-mode") {
		t.Errorf("error = %v, want invalid eol-mode", err)
	}
}

func TestApplyProfileMissingExplicit(t *testing.T) {
	testutil.InTempDir(t)
	ip := edcore.New(doc.NewView(), edcore.DiscardUI{})
	if err := applyProfile(ip, "nope.yaml"); err == nil {
		t.Error("missing explicit profile accepted")
	}
}

func TestApplyProfileMissingDefault(t *testing.T) {
	dir := testutil.InTempDir(t)
	testutil.Setenv(t, "XDG_CONFIG_HOME", dir)
	ip := edcore.New(doc.NewView(), edcore.DiscardUI{})
	if err := applyProfile(ip, ""); err != nil {
		t.Errorf("missing default profile = %v, want nil", err)
	}
}

func TestParseEolMode(t *testing.T) {
	tt.Test(t, tt.Fn("parseEolMode", parseEolMode).ArgsFmt("(%q)"), tt.Table{
		tt.Args("crlf").Rets(doc.EolCRLF, nil),
		tt.Args("cr").Rets(doc.EolCR, nil),
		tt.Args("lf").Rets(doc.EolLF, nil),
		tt.Args("mac").Rets(doc.EolMode(0), tt.Any),
	})
}
