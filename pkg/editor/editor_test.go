package editor

import (
	"testing"

	"github.com/tecoline/gteco/pkg/prog/progtest"
	"github.com/tecoline/gteco/pkg/testutil"
)

func TestEval(t *testing.T) {
	f := progtest.Setup(t)
	exit := progtest.Run(f, Program{}, "-no-profile", "-eval", "5=")
	if exit != 0 {
		t.Errorf("exit = %d, want 0", exit)
	}
	f.TestOut(t, 1, "5\r\n")
}

func TestEvalRequiresArgument(t *testing.T) {
	f := progtest.Setup(t)
	exit := progtest.Run(f, Program{}, "-no-profile", "-eval")
	if exit != 2 {
		t.Errorf("exit = %d, want 2", exit)
	}
	f.TestOutSnippet(t, 2, "-eval requires an argument")
}

func TestEvalQuitCode(t *testing.T) {
	f := progtest.Setup(t)
	exit := progtest.Run(f, Program{}, "-no-profile", "-eval", "7EX")
	if exit != 7 {
		t.Errorf("exit = %d, want 7", exit)
	}
}

func TestEvalError(t *testing.T) {
	f := progtest.Setup(t)
	exit := progtest.Run(f, Program{}, "-no-profile", "-eval", "`")
	if exit != 2 {
		t.Errorf("exit = %d, want 2", exit)
	}
	f.TestOutSnippet(t, 2, "syntax error")
}

func TestScriptFile(t *testing.T) {
	testutil.InTempDir(t)
	progtest.MustWriteFile(t, "s.teco", "Ihi\x1b HT")
	f := progtest.Setup(t)
	exit := progtest.Run(f, Program{}, "-no-profile", "s.teco")
	if exit != 0 {
		t.Errorf("exit = %d, want 0", exit)
	}
	f.TestOut(t, 1, "hi\r\n")
}

func TestMissingScriptFile(t *testing.T) {
	testutil.InTempDir(t)
	f := progtest.Setup(t)
	exit := progtest.Run(f, Program{}, "-no-profile", "nope.teco")
	if exit != 2 {
		t.Errorf("exit = %d, want 2", exit)
	}
	f.TestOutSnippet(t, 2, "file error")
}

func TestStdinBatch(t *testing.T) {
	// Stdin is /dev/null, so the editor runs a batch of zero commands.
	f := progtest.Setup(t)
	exit := progtest.Run(f, Program{}, "-no-profile")
	if exit != 0 {
		t.Errorf("exit = %d, want 0", exit)
	}
	f.TestOut(t, 1, "")
}

func TestProfileFlag(t *testing.T) {
	testutil.InTempDir(t)
	progtest.MustWriteFile(t, "profile.yaml", "ed-flags: 48\n")
	f := progtest.Setup(t)
	exit := progtest.Run(f, Program{},
		"-profile", "profile.yaml", "-eval", "ED=")
	if exit != 0 {
		t.Errorf("exit = %d, want 0", exit)
	}
	f.TestOut(t, 1, "48\r\n")
}

func TestBrokenProfileStillRuns(t *testing.T) {
	testutil.InTempDir(t)
	f := progtest.Setup(t)
	exit := progtest.Run(f, Program{},
		"-profile", "nope.yaml", "-eval", "5=")
	if exit != 0 {
		t.Errorf("exit = %d, want 0", exit)
	}
	f.TestOut(t, 1, "5\r\n")
	f.TestOutSnippet(t, 2, "profile:")
}
