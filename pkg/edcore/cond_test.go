package edcore

import (
	"testing"

	"github.com/tecoline/gteco/pkg/tt"
)

func TestCondTest(t *testing.T) {
	tt.Test(t, tt.Fn("condTest", condTest).ArgsFmt("(%q, %d)"), tt.Table{
		tt.Args(byte('A'), int64('x')).Rets(true),
		tt.Args(byte('A'), int64('1')).Rets(false),
		tt.Args(byte('C'), int64('_')).Rets(true),
		tt.Args(byte('C'), int64('$')).Rets(true),
		tt.Args(byte('C'), int64('-')).Rets(false),
		tt.Args(byte('D'), int64('7')).Rets(true),
		tt.Args(byte('D'), int64('x')).Rets(false),
		tt.Args(byte('I'), int64('/')).Rets(true),
		tt.Args(byte('I'), int64('\\')).Rets(true),
		tt.Args(byte('I'), int64('x')).Rets(false),
		tt.Args(byte('S'), int64(-1)).Rets(true),
		tt.Args(byte('T'), int64(1)).Rets(false),
		tt.Args(byte('E'), int64(0)).Rets(true),
		tt.Args(byte('='), int64(1)).Rets(false),
		tt.Args(byte('G'), int64(1)).Rets(true),
		tt.Args(byte('>'), int64(0)).Rets(false),
		tt.Args(byte('L'), int64(-1)).Rets(true),
		tt.Args(byte('<'), int64(0)).Rets(false),
		tt.Args(byte('N'), int64(2)).Rets(true),
		tt.Args(byte('N'), int64(0)).Rets(false),
		tt.Args(byte('R'), int64('5')).Rets(true),
		tt.Args(byte('R'), int64('.')).Rets(false),
		tt.Args(byte('V'), int64('a')).Rets(true),
		tt.Args(byte('V'), int64('A')).Rets(false),
		tt.Args(byte('W'), int64('A')).Rets(true),
		tt.Args(byte('W'), int64('a')).Rets(false),
	})
}

func TestConditionalElse(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, `0"N 1UX | 2UX '`)
	if got := intReg(ip, "X"); got != 2 {
		t.Errorf("register X = %d, want 2", got)
	}
	// The else part is skipped when the first branch ran.
	mustExec(t, ip, `1"N 3UX | 4UX '`)
	if got := intReg(ip, "X"); got != 3 {
		t.Errorf("register X = %d, want 3", got)
	}
}

func TestConditionalNesting(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, `0"N 1"N 1UX ' 2UX | 3UX '`)
	if got := intReg(ip, "X"); got != 3 {
		t.Errorf("register X = %d, want 3", got)
	}
	mustExec(t, ip, `1"N 0"N 4UY | 5UY ' | 6UY '`)
	if got := intReg(ip, "Y"); got != 5 {
		t.Errorf("register Y = %d, want 5", got)
	}
}

func TestConditionalNoArgsTest(t *testing.T) {
	ip, _ := testInterp()
	mustExec(t, ip, `"~ 1UX '`)
	if got := intReg(ip, "X"); got != 1 {
		t.Errorf("register X = %d, want 1", got)
	}
	// The tested value stays on the stack, so the else branch can use it.
	mustExec(t, ip, `5"~ 2UX | UX '`)
	if got := intReg(ip, "X"); got != 5 {
		t.Errorf("register X = %d, want 5", got)
	}
}

func TestConditionalErrors(t *testing.T) {
	cases := []struct{ src, kind string }{
		{`5"Z 1UX '`, KindSyntax},
		{`"N 1UX '`, KindArgExpected},
		{`0"N 1UX`, KindUntermCmd},
	}
	for _, c := range cases {
		ip, _ := testInterp()
		if kind := execKind(t, ip, c.src); kind != c.kind {
			t.Errorf("%q -> kind %q, want %q", c.src, kind, c.kind)
		}
	}
}

func TestFlowSkipPastConditionalEnd(t *testing.T) {
	// F' leaves the conditional from inside the executed branch.
	ip, _ := testInterp()
	mustExec(t, ip, `1"N F' 1UZ ' 2UZ`)
	if got := intReg(ip, "Z"); got != 2 {
		t.Errorf("register Z = %d, want 2", got)
	}
}

func TestFlowSkipToElse(t *testing.T) {
	// F| jumps from the executed branch into the else part.
	ip, _ := testInterp()
	mustExec(t, ip, `1"N 1UW F| 2UW | 3UW '`)
	if got := intReg(ip, "W"); got != 3 {
		t.Errorf("register W = %d, want 3", got)
	}
}
