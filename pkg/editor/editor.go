// Package editor ties the interpreter core to the process: flag handling,
// profile loading, batch script execution and the interactive command line.
package editor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tecoline/gteco/pkg/doc"
	"github.com/tecoline/gteco/pkg/edcore"
	"github.com/tecoline/gteco/pkg/logutil"
	"github.com/tecoline/gteco/pkg/prog"
	"github.com/tecoline/gteco/pkg/store"
	"github.com/tecoline/gteco/pkg/sys"
)

var logger = logutil.GetLogger("[editor] ")

// Program is the editor subprogram. It is the fallback of the composite and
// runs unless another subprogram claimed the invocation.
type Program struct{}

func (p Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if f.Eval && len(args) == 0 {
		return prog.BadUsage("-eval requires an argument")
	}

	view := doc.NewView()
	ui := &termUI{out: fds[1], batch: true}
	ip := edcore.New(view, ui)

	if !f.NoProfile {
		if err := applyProfile(ip, f.Profile); err != nil {
			fmt.Fprintln(fds[2], "profile:", err)
		}
	}

	switch {
	case f.Eval:
		return batch(fds, ip, func() error { return ip.Execute(args[0]) })
	case len(args) > 0:
		return batch(fds, ip, func() error {
			for _, path := range args {
				if err := ip.ExecuteFile(path); err != nil {
					return err
				}
			}
			return nil
		})
	case !sys.IsATTY(fds[0].Fd()):
		src, err := io.ReadAll(fds[0])
		if err != nil {
			return err
		}
		return batch(fds, ip, func() error { return ip.Execute(string(src)) })
	}

	st, cleanup := openHistory(fds[2], f.DB)
	defer cleanup()
	if st != nil {
		ip.SetHistory(historyRecorder{st})
	}
	ui.batch = false
	if b := ui.banner; b != "" {
		ui.banner = ""
		ui.Info(b)
	}
	return interact(fds, ip, ui)
}

// batch runs a script to completion, mapping a quit command to the process
// exit code and rendering errors with their traceback.
func batch(fds [3]*os.File, ip *edcore.Interp, run func() error) error {
	err := run()
	if code, ok := edcore.IsQuit(err); ok {
		return prog.Exit(code)
	}
	if err != nil {
		if e, ok := err.(*edcore.Error); ok {
			fmt.Fprintln(fds[2], e.Show(""))
			return prog.Exit(2)
		}
		return err
	}
	return nil
}

// openHistory opens the command history database. Failure to open it only
// loses persistence, never the session.
func openHistory(stderr *os.File, path string) (store.DBStore, func()) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, func() {}
		}
		path = filepath.Join(dir, "gteco", "db.bolt")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintln(stderr, "history disabled:", err)
		return nil, func() {}
	}
	st, err := store.NewStore(path)
	if err != nil {
		fmt.Fprintln(stderr, "history disabled:", err)
		return nil, func() {}
	}
	return st, func() { st.Close() }
}

type historyRecorder struct{ st store.Store }

func (h historyRecorder) AddCmd(cmd string) error {
	_, err := h.st.AddCmd(cmd)
	return err
}

// termUI prints interpreter messages to the terminal. The banner is shown
// only when it changes, and not at all during batch runs, so that scripts
// write only their own output.
type termUI struct {
	out    *os.File
	banner string
	batch  bool
	// pending is set while the command line is echoed mid-line, so messages
	// break to a fresh line first.
	pending bool
}

func (u *termUI) Message(s string) {
	if u.pending {
		fmt.Fprint(u.out, "\r\n")
		u.pending = false
	}
	fmt.Fprint(u.out, s, "\r\n")
}

func (u *termUI) Info(s string) {
	if s == u.banner {
		return
	}
	u.banner = s
	if u.batch {
		return
	}
	if u.pending {
		fmt.Fprint(u.out, "\r\n")
		u.pending = false
	}
	fmt.Fprintf(u.out, "-- %s --\r\n", s)
}
