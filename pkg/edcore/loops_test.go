package edcore

import "testing"

func TestLoopCounts(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, "5<%B>")
	if got := intReg(ip, "B"); got != 5 {
		t.Errorf("register B = %d, want 5", got)
	}
}

func TestLoopZeroSkipsBody(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, "0<%B>")
	if got := intReg(ip, "B"); got != 0 {
		t.Errorf("register B = %d, want 0", got)
	}
}

func TestLoopNesting(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, "3<2<%B>>")
	if got := intReg(ip, "B"); got != 6 {
		t.Errorf("register B = %d, want 6", got)
	}
}

func TestLoopBreak(t *testing.T) {
	// An infinite loop left when the counter register reaches 3.
	ip, _ := testInterp()
	mustExec(t, ip, `<%B QB-3"E 0; '>`)
	if got := intReg(ip, "B"); got != 3 {
		t.Errorf("register B = %d, want 3", got)
	}
}

func TestLoopPassThrough(t *testing.T) {
	// A pass-through loop keeps the expression stack across iterations, so it
	// can accumulate a value.
	ip, _ := testInterp()
	mustExec(t, ip, "5,2:<+1>")
	if got := topNum(t, ip); got != 7 {
		t.Errorf("top of stack = %d, want 7", got)
	}
}

func TestLoopErrors(t *testing.T) {
	ip, _ := testInterp()
	if kind := execKind(t, ip, ">"); kind != KindSyntax {
		t.Errorf("kind = %q, want %q", kind, KindSyntax)
	}
	if kind := execKind(t, ip, "0;"); kind != KindSyntax {
		t.Errorf("kind = %q, want %q", kind, KindSyntax)
	}
	if kind := execKind(t, ip, "<%B"); kind != KindUntermLoop {
		t.Errorf("kind = %q, want %q", kind, KindUntermLoop)
	}
}

func TestLoopRestart(t *testing.T) {
	// F< jumps back to the loop start without touching the counter.
	ip, _ := testInterp()
	mustExec(t, ip, `3<%C-2"E F< '>`)
	if got := intReg(ip, "C"); got != 4 {
		t.Errorf("register C = %d, want 4", got)
	}
}

func TestLoopSkipToEnd(t *testing.T) {
	// F> skips the rest of the body but still runs the loop end, so the
	// iteration count is unaffected.
	ip, _ := testInterp()
	mustExec(t, ip, "2<%D F> %E>")
	if got := intReg(ip, "D"); got != 2 {
		t.Errorf("register D = %d, want 2", got)
	}
	if got := intReg(ip, "E"); got != 0 {
		t.Errorf("register E = %d, want 0", got)
	}
}

func TestLoopBreakInverted(t *testing.T) {
	// :; leaves the loop on success instead of failure.
	ip, _ := testInterp()
	mustExec(t, ip, `<%B-3"E -1:; | 0:; '>`)
	if got := intReg(ip, "B"); got != 3 {
		t.Errorf("register B = %d, want 3", got)
	}
}
