package edcore

import (
	"testing"

	"github.com/tecoline/gteco/pkg/doc"
)

// collectUI records interpreter messages for inspection.
type collectUI struct {
	messages []string
	infos    []string
}

func (u *collectUI) Message(s string) { u.messages = append(u.messages, s) }
func (u *collectUI) Info(s string)    { u.infos = append(u.infos, s) }

func (u *collectUI) lastMessage() string {
	if len(u.messages) == 0 {
		return ""
	}
	return u.messages[len(u.messages)-1]
}

func testInterp() (*Interp, *collectUI) {
	ui := &collectUI{}
	return New(doc.NewView(), ui), ui
}

func mustExec(t *testing.T, ip *Interp, src string) {
	t.Helper()
	if err := ip.Execute(src); err != nil {
		t.Fatalf("Execute(%q) -> %v", src, err)
	}
}

// execKind runs src and returns the kind of the resulting error, or "" when
// execution succeeded.
func execKind(t *testing.T, ip *Interp, src string) string {
	t.Helper()
	err := ip.Execute(src)
	if err == nil {
		return ""
	}
	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("Execute(%q) -> %v, want *Error", src, err)
	}
	return e.Kind
}

func bufText(ip *Interp) string {
	return string(ip.view.CharacterPointer())
}

func dot(ip *Interp) int64 {
	return ip.view.CurrentPos()
}

// topNum evaluates pending operators and pops the topmost value, so that the
// digits of the next command do not extend it.
func topNum(t *testing.T, ip *Interp) int64 {
	t.Helper()
	if err := ip.expr.Eval(); err != nil {
		t.Fatal(err)
	}
	n, ok := ip.expr.PopNum()
	if !ok {
		t.Fatal("no value on the expression stack")
	}
	return n
}

func intReg(ip *Interp, name string) int64 {
	return ip.globals.get(name).integer
}

func strReg(ip *Interp, name string) string {
	return ip.globals.get(name).stringValue(ip)
}

func TestInsertMoveDelete(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, "Ihello world\x1b")
	if got := bufText(ip); got != "hello world" {
		t.Errorf("buffer = %q, want %q", got, "hello world")
	}
	mustExec(t, ip, "0J 5C 3D")
	if got := bufText(ip); got != "hellorld" {
		t.Errorf("buffer = %q, want %q", got, "hellorld")
	}
	if got := dot(ip); got != 5 {
		t.Errorf("dot = %d, want 5", got)
	}
}

func TestExtractWholeBuffer(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, "Iabc\ndef\x1b")
	mustExec(t, ip, "HXA")
	if got := strReg(ip, "A"); got != "abc\ndef" {
		t.Errorf("register A = %q, want %q", got, "abc\ndef")
	}
}

func TestLoopIncrement(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, "5<%B>")
	if got := intReg(ip, "B"); got != 5 {
		t.Errorf("register B = %d, want 5", got)
	}
}

func TestConditionalBranches(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, `5"N 1UX | 2UX '`)
	if got := intReg(ip, "X"); got != 1 {
		t.Errorf("register X = %d, want 1", got)
	}
	mustExec(t, ip, `0"N 1UY | 2UY '`)
	if got := intReg(ip, "Y"); got != 2 {
		t.Errorf("register Y = %d, want 2", got)
	}
}

func TestStringBuildingFromRegister(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, "@\x15[Y]/foo/")
	mustExec(t, ip, "@\x15[X]/A\x05Q[Y]B/")
	if got := strReg(ip, "X"); got != "AfooB" {
		t.Errorf("register X = %q, want %q", got, "AfooB")
	}
}

func TestMacroReturnValues(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, "@\x15[M]/5\x1b\x1b/M[M]")
	if got := topNum(t, ip); got != 5 {
		t.Errorf("top of stack = %d, want 5", got)
	}
}
