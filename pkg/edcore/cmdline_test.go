package edcore

import (
	"testing"

	"github.com/tecoline/gteco/pkg/doc"
)

func interactiveInterp() (*Interp, *collectUI) {
	ip, ui := testInterp()
	ip.SetInteractive(true)
	return ip, ui
}

func typeKeys(t *testing.T, ip *Interp, keys string) {
	t.Helper()
	for i := 0; i < len(keys); i++ {
		if err := ip.CmdlineKey(keys[i]); err != nil {
			t.Fatalf("key %q of %q rejected: %v", keys[i], keys, err)
		}
	}
}

type recordingHistory struct{ cmds []string }

func (h *recordingHistory) AddCmd(cmd string) error {
	h.cmds = append(h.cmds, cmd)
	return nil
}

func TestCmdlineAccept(t *testing.T) {
	ip, _ := interactiveInterp()
	h := &recordingHistory{}
	ip.SetHistory(h)

	typeKeys(t, ip, "Ihi\x1b\x1b\x1b")
	if got := ip.Cmdline(); got != "" {
		t.Errorf("Cmdline = %q, want empty", got)
	}
	if got := ip.LastCmdline(); got != "Ihi\x1b\x1b\x1b" {
		t.Errorf("LastCmdline = %q, want %q", got, "Ihi\x1b\x1b\x1b")
	}
	if got := bufText(ip); got != "hi" {
		t.Errorf("buffer = %q, want %q", got, "hi")
	}
	if len(h.cmds) != 1 || h.cmds[0] != "Ihi\x1b\x1b\x1b" {
		t.Errorf("history = %q, want the accepted line", h.cmds)
	}
	// The * register mirrors the last command line.
	if got := strReg(ip, "*"); got != "Ihi\x1b\x1b\x1b" {
		t.Errorf("register * = %q, want the accepted line", got)
	}
}

func TestCmdlineBlankNotRecorded(t *testing.T) {
	ip, _ := interactiveInterp()
	h := &recordingHistory{}
	ip.SetHistory(h)
	typeKeys(t, ip, " \x1b\x1b")
	if len(h.cmds) != 0 {
		t.Errorf("history = %q, want none", h.cmds)
	}
}

func TestCmdlineRuboutUndoesEverything(t *testing.T) {
	ip, _ := interactiveInterp()
	typeKeys(t, ip, "Iabc\x1b-2D")
	if got := bufText(ip); got != "a" {
		t.Fatalf("buffer = %q, want %q", got, "a")
	}
	for ip.Cmdline() != "" {
		ip.CmdlineRubout()
	}
	if got := bufText(ip); got != "" {
		t.Errorf("buffer = %q, want empty", got)
	}
	if got := dot(ip); got != 0 {
		t.Errorf("dot = %d, want 0", got)
	}
}

func TestCmdlinePartialRubout(t *testing.T) {
	ip, _ := interactiveInterp()
	typeKeys(t, ip, "2<I a\x1b>")
	if got := bufText(ip); got != " a a" {
		t.Fatalf("buffer = %q, want %q", got, " a a")
	}
	// Rubbing out the > also undoes the loop's second iteration.
	ip.CmdlineRubout()
	if got := bufText(ip); got != " a" {
		t.Errorf("buffer = %q, want %q", got, " a")
	}
	if got := ip.Cmdline(); got != "2<I a\x1b" {
		t.Errorf("Cmdline = %q, want %q", got, "2<I a\x1b")
	}
}

func TestCmdlineRejectsFailingKey(t *testing.T) {
	ip, _ := interactiveInterp()
	err := ip.CmdlineKey('D')
	if err == nil {
		t.Fatal("deleting in an empty buffer succeeded")
	}
	if e, ok := err.(*Error); !ok || e.Kind != KindRange {
		t.Errorf("error = %v, want kind %q", err, KindRange)
	}
	if got := ip.Cmdline(); got != "" {
		t.Errorf("Cmdline = %q, want empty", got)
	}
	// The interpreter still works afterwards.
	typeKeys(t, ip, "Ix\x1b")
	if got := bufText(ip); got != "x" {
		t.Errorf("buffer = %q, want %q", got, "x")
	}
}

func TestCmdlineQuit(t *testing.T) {
	ip, _ := interactiveInterp()
	typeKeys(t, ip, "E")
	err := ip.CmdlineKey('X')
	code, ok := IsQuit(err)
	if !ok || code != 0 {
		t.Errorf("EX -> (%d, %v), want (0, true)", code, ok)
	}
}

func TestCmdlineStarSave(t *testing.T) {
	ip, ui := interactiveInterp()
	typeKeys(t, ip, "Ix\x1b\x1b\x1b")
	typeKeys(t, ip, "*a")
	if got := strReg(ip, "A"); got != "Ix\x1b\x1b\x1b" {
		t.Errorf("register A = %q, want the last command line", got)
	}
	if got := ui.lastMessage(); got != "command line saved to register A" {
		t.Errorf("message = %q", got)
	}
}

func TestCmdlineEditRoundTrip(t *testing.T) {
	ip, _ := interactiveInterp()
	typeKeys(t, ip, "1UA{")
	if ip.curReg == nil || ip.curReg.name != cmdlineRegName {
		t.Fatal("{ did not open the command-line register")
	}
	if got := bufText(ip); got != "1UA" {
		t.Errorf("register buffer = %q, want %q", got, "1UA")
	}
	typeKeys(t, ip, "}")
	if got := ip.Cmdline(); got != "1UA" {
		t.Errorf("Cmdline = %q, want %q", got, "1UA")
	}
	if ip.curReg != nil {
		t.Error("} left a register current")
	}
	if got := intReg(ip, "A"); got != 1 {
		t.Errorf("register A = %d, want 1", got)
	}
}

func TestCmdlineOpenOnlyInteractive(t *testing.T) {
	ip, _ := testInterp()
	if kind := execKind(t, ip, "{"); kind != KindSyntax {
		t.Errorf("kind = %q, want %q", kind, KindSyntax)
	}
}

func TestCmdlineCloseWithoutOpen(t *testing.T) {
	ip, _ := interactiveInterp()
	if err := ip.CmdlineKey('}'); err == nil {
		t.Fatal("} accepted without {")
	}
	if got := ip.Cmdline(); got != "" {
		t.Errorf("Cmdline = %q, want empty", got)
	}
}

func TestCmdlineMatchesBatch(t *testing.T) {
	src := "Ifoo bar\x1b 0J W 2D"
	typed, _ := interactiveInterp()
	typeKeys(t, typed, src)

	batch := New(doc.NewView(), DiscardUI{})
	mustExec(t, batch, src)

	if g, w := bufText(typed), bufText(batch); g != w {
		t.Errorf("typed buffer = %q, batch buffer = %q", g, w)
	}
	if g, w := dot(typed), dot(batch); g != w {
		t.Errorf("typed dot = %d, batch dot = %d", g, w)
	}
}
