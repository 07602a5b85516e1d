// Package progtest provides a fixture for testing subprograms against their
// file descriptors and exit codes.
package progtest

import (
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/tecoline/gteco/pkg/prog"
)

// Fixture captures the output of a subprogram run.
type Fixture struct {
	pipes [2]*pipe
	dones []chan struct{}
}

type pipe struct {
	r, w *os.File

	mu  sync.Mutex
	buf strings.Builder
}

func newPipe(t *testing.T) (*pipe, chan struct{}) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	p := &pipe{r: r, w: w}
	done := make(chan struct{})
	go func() {
		defer close(done)
		b := make([]byte, 4096)
		for {
			n, err := r.Read(b)
			p.mu.Lock()
			p.buf.Write(b[:n])
			p.mu.Unlock()
			if err != nil {
				return
			}
		}
	}()
	return p, done
}

// Setup sets up a test fixture. The fixture is cleaned up in t.Cleanup.
func Setup(t *testing.T) *Fixture {
	f := &Fixture{}
	for i := range f.pipes {
		p, done := newPipe(t)
		f.pipes[i] = p
		f.dones = append(f.dones, done)
	}
	t.Cleanup(f.drain)
	return f
}

// Fds returns the file descriptor triple to pass to prog.Run. Stdin is
// /dev/null.
func (f *Fixture) Fds() [3]*os.File {
	devNull, _ := os.Open(os.DevNull)
	return [3]*os.File{devNull, f.pipes[0].w, f.pipes[1].w}
}

func (f *Fixture) drain() {
	for i, p := range f.pipes {
		p.w.Close()
		<-f.dones[i]
		p.r.Close()
	}
}

func (f *Fixture) output(i int) string {
	f.pipes[i].w.Close()
	<-f.dones[i]
	f.pipes[i].mu.Lock()
	defer f.pipes[i].mu.Unlock()
	return f.pipes[i].buf.String()
}

// TestOut checks that the output on the given fd (1 or 2) is exactly wantOut.
func (f *Fixture) TestOut(t *testing.T, fd int, wantOut string) {
	t.Helper()
	if out := f.output(fd - 1); out != wantOut {
		t.Errorf("got out %q, want %q", out, wantOut)
	}
}

// TestOutSnippet checks that the output on the given fd contains the snippet.
func (f *Fixture) TestOutSnippet(t *testing.T, fd int, wantOutSnippet string) {
	t.Helper()
	if out := f.output(fd - 1); !strings.Contains(out, wantOutSnippet) {
		t.Errorf("got out %q, want string containing %q", out, wantOutSnippet)
	}
}

// Gteco prepends "gteco" to the arguments, forming the argument list to pass
// to prog.Run.
func Gteco(args ...string) []string {
	return append([]string{"gteco"}, args...)
}

// Run runs the program with the given arguments, returning its exit code.
func Run(f *Fixture, p prog.Program, args ...string) int {
	return prog.Run(f.Fds(), Gteco(args...), p)
}

// MustWriteFile writes a file for a test, failing it on error.
func MustWriteFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(name, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
