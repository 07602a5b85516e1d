package editor

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"

	"github.com/tecoline/gteco/pkg/prog"
	"github.com/tecoline/gteco/pkg/store"
	"github.com/tecoline/gteco/pkg/testutil"
)

func readUntil(t *testing.T, f *os.File, sub string) string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	var out []byte
	buf := make([]byte, 512)
	for !strings.Contains(string(out), sub) {
		f.SetReadDeadline(deadline)
		n, err := f.Read(buf)
		out = append(out, buf[:n]...)
		if err != nil {
			t.Fatalf("waiting for %q: %v (got %q)", sub, err, out)
		}
	}
	return string(out)
}

func TestInteract(t *testing.T) {
	testutil.InTempDir(t)
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("open pty: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	exitCh := make(chan int, 1)
	go func() {
		exitCh <- prog.Run([3]*os.File{tty, tty, tty},
			[]string{"gteco", "-no-profile", "-db", "db.bolt"}, Program{})
	}()

	readUntil(t, ptmx, "*")
	ptmx.Write([]byte("5=\x1b\x1b"))
	// The = command reports the value, and the accepted line brings a fresh
	// prompt.
	readUntil(t, ptmx, "5")
	readUntil(t, ptmx, "*")
	ptmx.Write([]byte("EX"))

	select {
	case exit := <-exitCh:
		if exit != 0 {
			t.Errorf("exit = %d, want 0", exit)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("session did not terminate")
	}

	// The accepted command line went to the history database.
	st, err := store.NewStore("db.bolt")
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if seq, _ := st.NextCmdSeq(); seq != 2 {
		t.Errorf("NextCmdSeq = %d, want 2", seq)
	}
	if cmd, err := st.Cmd(1); err != nil || cmd != "5=\x1b\x1b" {
		t.Errorf("Cmd(1) = (%q, %v), want the typed line", cmd, err)
	}
}

func TestInteractRubout(t *testing.T) {
	testutil.InTempDir(t)
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("open pty: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	exitCh := make(chan int, 1)
	go func() {
		exitCh <- prog.Run([3]*os.File{tty, tty, tty},
			[]string{"gteco", "-no-profile", "-db", "db.bolt"}, Program{})
	}()

	readUntil(t, ptmx, "*")
	// Type 6, rub it out, then print 7 instead.
	ptmx.Write([]byte("6\x7f7=\x1b\x1b"))
	out := readUntil(t, ptmx, "7\r\n")
	if strings.Contains(out, "6\r\n") {
		t.Errorf("output %q contains the rubbed-out value", out)
	}
	ptmx.Write([]byte("EX"))
	select {
	case <-exitCh:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not terminate")
	}
}
