// Package undo implements the invertible operation log that backs
// character-wise rubout of the command line.
//
// Every side effect of executing a command-line character is recorded as a
// token that reverts it. Tokens are tagged with the position of the character
// being executed; rubbing out to a position pops and runs all tokens at or
// after it, newest first.
package undo

import "github.com/tecoline/gteco/pkg/logutil"

var logger = logutil.GetLogger("[undo] ")

// A Token undoes one recorded side effect when run.
type Token interface {
	Run() error
}

type funcToken func()

func (f funcToken) Run() error { f(); return nil }

// Log is the invertible operation log. Recording only happens while Enabled
// is true; batch execution leaves the log disabled so pushes cost nothing.
type Log struct {
	Enabled bool

	mark    int
	entries []entry
}

type entry struct {
	mark  int
	token Token
}

// SetMark sets the position tag for subsequently pushed tokens. It is called
// once per command-line character before the character is executed.
func (l *Log) SetMark(pos int) {
	l.mark = pos
}

// Mark returns the current position tag.
func (l *Log) Mark() int { return l.mark }

// Push records a token at the current mark. It is a no-op when the log is
// disabled.
func (l *Log) Push(t Token) {
	if !l.Enabled {
		return
	}
	l.entries = append(l.entries, entry{l.mark, t})
}

// PushFunc records a closure at the current mark. It is a no-op when the log
// is disabled.
func (l *Log) PushFunc(f func()) {
	if !l.Enabled {
		return
	}
	l.entries = append(l.entries, entry{l.mark, funcToken(f)})
}

// Rubout pops and runs tokens tagged at or after pos, newest first. A token
// whose Run fails is logged and discarded, and the rubout continues.
func (l *Log) Rubout(pos int) {
	for len(l.entries) > 0 {
		top := l.entries[len(l.entries)-1]
		if top.mark < pos {
			break
		}
		l.entries = l.entries[:len(l.entries)-1]
		if err := top.token.Run(); err != nil {
			logger.Println("rubout token failed:", err)
		}
	}
	if l.mark > pos {
		l.mark = pos
	}
}

// Clear discards all recorded tokens without running them. It is called when
// a command line is accepted, at which point its effects become permanent.
func (l *Log) Clear() {
	l.entries = l.entries[:0]
	l.mark = 0
}

// Len returns the number of recorded tokens.
func (l *Log) Len() int { return len(l.entries) }

// PushVar records the current value of a variable so that rubout restores
// it. It returns the pointer for easier chaining with an assignment.
func PushVar[T any](l *Log, p *T) *T {
	if l.Enabled {
		old := *p
		l.PushFunc(func() { *p = old })
	}
	return p
}

// SetVar assigns v through p after recording the old value.
func SetVar[T any](l *Log, p *T, v T) {
	*PushVar(l, p) = v
}
