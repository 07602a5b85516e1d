package edcore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tecoline/gteco/pkg/testutil"
)

func TestChangeDirectory(t *testing.T) {
	dir := testutil.InTempDir(t)
	if err := os.Mkdir("sub", 0o755); err != nil {
		t.Fatal(err)
	}
	ip, _ := testInterp()
	mustExec(t, ip, "FGsub\x1b G$")
	want := filepath.Join(dir, "sub")
	if got := bufText(ip); got != want {
		t.Errorf("working directory = %q, want %q", got, want)
	}
}

func TestChangeDirectoryMissing(t *testing.T) {
	testutil.InTempDir(t)
	ip, _ := testInterp()
	if kind := execKind(t, ip, "FGnope\x1b"); kind != KindFile {
		t.Errorf("kind = %q, want %q", kind, KindFile)
	}
}

func TestChangeDirectoryHome(t *testing.T) {
	home := testutil.InTempDir(t)
	testutil.Setenv(t, "HOME", home)
	if err := os.Mkdir("elsewhere", 0o755); err != nil {
		t.Fatal(err)
	}
	ip, _ := testInterp()
	mustExec(t, ip, "FGelsewhere\x1b FG\x1b G$")
	if got := bufText(ip); got != home {
		t.Errorf("working directory = %q, want %q", got, home)
	}
}

func TestUnknownFCommand(t *testing.T) {
	ip, _ := testInterp()
	if kind := execKind(t, ip, "F?"); kind != KindSyntax {
		t.Errorf("kind = %q, want %q", kind, KindSyntax)
	}
}
