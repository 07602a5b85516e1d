package edcore

import (
	"testing"

	"github.com/tecoline/gteco/pkg/doc"
)

func TestEDFlags(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, "ED")
	if got := topNum(t, ip); got != 16 {
		t.Errorf("ED = %d, want 16", got)
	}
	mustExec(t, ip, "3ED ED")
	if got := topNum(t, ip); got != 3 {
		t.Errorf("ED = %d, want 3", got)
	}
	// Two arguments form an and mask and an or mask.
	mustExec(t, ip, "16ED 15,32ED ED")
	if got := topNum(t, ip); got != 32 {
		t.Errorf("ED = %d, want 32", got)
	}
}

func TestEJReads(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, "0EJ")
	if got := topNum(t, ip); got != 1 {
		t.Errorf("0EJ = %d, want 1", got)
	}
	mustExec(t, ip, "1EJ")
	if got := topNum(t, ip); got != 1 {
		t.Errorf("1EJ = %d, want 1", got)
	}
	mustExec(t, ip, "2EJ")
	if got := topNum(t, ip); got != 500<<20 {
		t.Errorf("2EJ = %d, want %d", got, 500<<20)
	}
	if kind := execKind(t, ip, "3EJ"); kind != KindRange {
		t.Errorf("kind = %q, want %q", kind, KindRange)
	}
	if kind := execKind(t, ip, "9EJ"); kind != KindRange {
		t.Errorf("kind = %q, want %q", kind, KindRange)
	}
}

func TestEJMemoryLimit(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, "1073741824,2EJ 2EJ")
	if got := topNum(t, ip); got != 1<<30 {
		t.Errorf("2EJ = %d, want %d", got, 1<<30)
	}
	if kind := execKind(t, ip, "-5,2EJ"); kind != KindRange {
		t.Errorf("kind = %q, want %q", kind, KindRange)
	}
}

func TestEJPalette(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, "255,1,3EJ")
	if got := ip.palette[1]; got != 255 {
		t.Errorf("palette[1] = %d, want 255", got)
	}
	if kind := execKind(t, ip, "1,9EJ"); kind != KindRange {
		t.Errorf("kind = %q, want %q", kind, KindRange)
	}
}

func TestEOLMode(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, "EL")
	if got := topNum(t, ip); got != int64(doc.EolLF) {
		t.Errorf("EL = %d, want %d", got, doc.EolLF)
	}
	mustExec(t, ip, "0EL EL")
	if got := topNum(t, ip); got != int64(doc.EolCRLF) {
		t.Errorf("EL = %d, want %d", got, doc.EolCRLF)
	}
	if kind := execKind(t, ip, "5EL"); kind != KindRange {
		t.Errorf("kind = %q, want %q", kind, KindRange)
	}
}

func TestEOLModeConvert(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, "Ia\nb\n\x1b")
	mustExec(t, ip, ":0EL")
	if got := bufText(ip); got != "a\r\nb\r\n" {
		t.Errorf("buffer = %q, want %q", got, "a\r\nb\r\n")
	}
	mustExec(t, ip, ":2EL")
	if got := bufText(ip); got != "a\nb\n" {
		t.Errorf("buffer = %q, want %q", got, "a\nb\n")
	}
}

func TestQuit(t *testing.T) {
	ip, _ := testInterp()
	err := ip.Execute("5EX")
	if code, ok := IsQuit(err); !ok || code != 5 {
		t.Errorf("5EX -> (%d, %v), want (5, true)", code, ok)
	}
	err = ip.Execute("EX")
	if code, ok := IsQuit(err); !ok || code != 0 {
		t.Errorf("EX -> (%d, %v), want (0, true)", code, ok)
	}
}

func TestQuitWithUnsavedChanges(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, "Ix\x1b")
	if kind := execKind(t, ip, "EX"); kind != KindFile {
		t.Errorf("kind = %q, want %q", kind, KindFile)
	}
	err := ip.Execute(":EX")
	if code, ok := IsQuit(err); !ok || code != 0 {
		t.Errorf(":EX -> (%d, %v), want (0, true)", code, ok)
	}
}

func TestQuitHook(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, "48ED \x150UZ\x1b")
	ip.Execute("EX")
	if got := intReg(ip, "Z"); got != int64(HookQuit) {
		t.Errorf("register Z = %d, want %d", got, HookQuit)
	}
}

func TestSendMessage(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, "Iabc\x1b")
	mustExec(t, ip, "ESGETLENGTH\x1b\x1b")
	if got := topNum(t, ip); got != 3 {
		t.Errorf("GETLENGTH = %d, want 3", got)
	}
	mustExec(t, ip, "1ESGETCHARAT\x1b\x1b")
	if got := topNum(t, ip); got != 'b' {
		t.Errorf("GETCHARAT = %d, want %d", got, 'b')
	}
	mustExec(t, ip, "ESSETTEXT\x1bhello\x1b")
	if got := bufText(ip); got != "hello" {
		t.Errorf("buffer = %q, want %q", got, "hello")
	}
	// Names fold case and accept the SCI_ prefix.
	mustExec(t, ip, "ESsci_getlength\x1b\x1b")
	if got := topNum(t, ip); got != 5 {
		t.Errorf("sci_getlength = %d, want 5", got)
	}
}

func TestSendUnknownMessage(t *testing.T) {
	ip, _ := testInterp()
	if kind := execKind(t, ip, "ESNOPE\x1b\x1b"); kind != KindSyntax {
		t.Errorf("kind = %q, want %q", kind, KindSyntax)
	}
}

func TestUnknownECommand(t *testing.T) {
	ip, _ := testInterp()
	if kind := execKind(t, ip, "EZ"); kind != KindSyntax {
		t.Errorf("kind = %q, want %q", kind, KindSyntax)
	}
}
