package editor

import (
	"fmt"
	"os"
	"syscall"

	"github.com/tecoline/gteco/pkg/edcore"
	"github.com/tecoline/gteco/pkg/prog"
	"github.com/tecoline/gteco/pkg/sys"
)

// interact runs the interactive command line: the terminal is put in raw
// mode and every key press goes to the interpreter, which executes it
// immediately and reports whether it was absorbed.
func interact(fds [3]*os.File, ip *edcore.Interp, ui *termUI) error {
	restore, err := setupTerminal(fds[0])
	if err != nil {
		return err
	}
	defer restore()

	ip.SetInteractive(true)

	sigCh := sys.NotifySignals()
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGINT:
				ip.Interrupt()
			case syscall.SIGTERM, syscall.SIGHUP:
				restore()
				os.Exit(0)
			}
		}
	}()

	fmt.Fprint(fds[1], "*")
	ui.pending = true
	var echo []int // rendered width of each command-line character

	buf := make([]byte, 1)
	for {
		n, err := fds[0].Read(buf)
		if err != nil || n == 0 {
			return nil
		}
		c := buf[0]

		if c == 0x7F || c == 0x08 {
			before := len(ip.Cmdline())
			ip.CmdlineRubout()
			if len(ip.Cmdline()) < before {
				w := echo[len(echo)-1]
				echo = echo[:len(echo)-1]
				for ; w > 0; w-- {
					fmt.Fprint(fds[1], "\b \b")
				}
			}
			continue
		}

		before := len(ip.Cmdline())
		err = ip.CmdlineKey(c)
		if code, ok := edcore.IsQuit(err); ok {
			fmt.Fprint(fds[1], "\r\n")
			return prog.Exit(code)
		}
		if err != nil {
			// The key was rejected and its effects rolled back.
			fmt.Fprint(fds[1], "\a")
			if e, ok := err.(*edcore.Error); ok {
				ui.Message(e.Show(""))
			} else {
				ui.Message(err.Error())
			}
			redraw(fds[1], ip, ui, &echo)
			continue
		}
		switch after := len(ip.Cmdline()); {
		case after == 0 && before > 0:
			// The line was accepted and reset.
			fmt.Fprint(fds[1], "\r\n*")
			ui.pending = true
			echo = echo[:0]
		case after == before+1:
			echo = append(echo, echoKey(fds[1], c))
			ui.pending = true
		default:
			// The command line was rewritten by } editing.
			redraw(fds[1], ip, ui, &echo)
		}
	}
}

// redraw reprints the prompt and the whole command line, after a message
// broke the echoed line or after the line changed under us.
func redraw(out *os.File, ip *edcore.Interp, ui *termUI, echo *[]int) {
	if ui.pending {
		fmt.Fprint(out, "\r\n")
	}
	fmt.Fprint(out, "*")
	*echo = (*echo)[:0]
	for _, c := range []byte(ip.Cmdline()) {
		*echo = append(*echo, echoKey(out, c))
	}
	ui.pending = true
}

// echoKey prints a typed character, control characters in caret notation,
// and returns the rendered width.
func echoKey(out *os.File, c byte) int {
	switch {
	case c == 0x1B:
		fmt.Fprint(out, "$")
		return 1
	case c < 0x20 || c == 0x7F:
		fmt.Fprintf(out, "^%c", c^0x40)
		return 2
	default:
		fmt.Fprintf(out, "%c", c)
		return 1
	}
}

// setupTerminal puts the terminal in raw enough a mode for key-at-a-time
// input, returning a function restoring the saved attributes.
func setupTerminal(in *os.File) (func(), error) {
	fd := int(in.Fd())
	term, err := sys.TermiosForFd(fd)
	if err != nil {
		return nil, fmt.Errorf("get terminal attributes: %w", err)
	}
	saved := term.Copy()
	term.SetICanon(false)
	term.SetEcho(false)
	term.SetVMin(1)
	term.SetVTime(0)
	if err := term.ApplyToFd(fd); err != nil {
		return nil, fmt.Errorf("set terminal attributes: %w", err)
	}
	return func() { saved.ApplyToFd(fd) }, nil
}
