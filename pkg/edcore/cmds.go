package edcore

import (
	"strconv"

	"github.com/tecoline/gteco/pkg/doc"
)

// recordUndo reports whether effects should push undo tokens. Editing a
// register of a non-undo table (macro locals) is never recorded.
func (ip *Interp) recordUndo() bool {
	return ip.log.Enabled && (ip.curReg == nil || ip.curReg.table.mustUndo)
}

// withDoc runs f with the given document installed, restoring the previous
// one afterwards.
func (ip *Interp) withDoc(id doc.DocumentID, f func()) {
	cur := ip.view.CurrentDoc()
	if cur == id {
		f()
		return
	}
	ip.view.SetDocPointer(id)
	f()
	ip.view.SetDocPointer(cur)
}

// pushViewUndo arranges for the most recent modification group of the
// current document to be reverted on rubout.
func (ip *Interp) pushViewUndo() {
	if !ip.recordUndo() {
		return
	}
	id := ip.view.CurrentDoc()
	ip.log.PushFunc(func() {
		ip.withDoc(id, func() { ip.view.Undo() })
	})
}

// moveTo moves the caret, arranging for rubout to move it back.
func (ip *Interp) moveTo(pos int64) {
	if ip.recordUndo() {
		id := ip.view.CurrentDoc()
		old := ip.view.CurrentPos()
		ip.log.PushFunc(func() {
			ip.withDoc(id, func() { ip.view.GotoPos(old) })
		})
	}
	ip.view.GotoPos(pos)
}

// failCmd reports a failed command: with a colon modifier it pushes the
// failure code, otherwise it raises err.
func (ip *Interp) failCmd(colon bool, err *Error) error {
	if colon {
		ip.expr.Push(0)
		return nil
	}
	return err
}

func (ip *Interp) succeedCmd(colon bool) {
	if colon {
		ip.expr.Push(-1)
	}
}

func (ip *Interp) cmdMove(dir int64) error {
	colon := ip.takeColon()
	n, err := ip.popNum(1)
	if err != nil {
		return err
	}
	pos := ip.view.CurrentPos() + dir*n
	if pos < 0 || pos > ip.view.Length() {
		return ip.failCmd(colon, newError(KindMove, "target %d outside buffer", pos))
	}
	ip.moveTo(pos)
	ip.succeedCmd(colon)
	return nil
}

func (ip *Interp) cmdLineMove() error {
	colon := ip.takeColon()
	n, err := ip.popNum(1)
	if err != nil {
		return err
	}
	line := ip.view.LineFromPosition(ip.view.CurrentPos()) + n
	if line < 0 || line >= ip.view.LineCount() {
		return ip.failCmd(colon, newError(KindMove, "line %d outside buffer", line))
	}
	ip.moveTo(ip.view.PositionFromLine(line))
	ip.succeedCmd(colon)
	return nil
}

func (ip *Interp) cmdJump() error {
	colon := ip.takeColon()
	n, err := ip.popNum(0)
	if err != nil {
		return err
	}
	if n < 0 || n > ip.view.Length() {
		return ip.failCmd(colon, newError(KindMove, "target %d outside buffer", n))
	}
	ip.moveTo(n)
	ip.succeedCmd(colon)
	return nil
}

func (ip *Interp) cmdWordMove() error {
	colon := ip.takeColon()
	n, err := ip.popNum(1)
	if err != nil {
		return err
	}
	pos := ip.view.CurrentPos()
	for ; n > 0; n-- {
		pos = ip.view.WordRightEnd(pos)
	}
	for ; n < 0; n++ {
		pos = ip.view.WordLeftEnd(pos)
	}
	ip.moveTo(pos)
	ip.succeedCmd(colon)
	return nil
}

func (ip *Interp) cmdCharAt() error {
	n, err := ip.popNum(0)
	if err != nil {
		return err
	}
	pos := ip.view.CurrentPos() + n
	if pos < 0 || pos >= ip.view.Length() {
		return newError(KindRange, "no character at %d", pos)
	}
	ip.expr.Push(int64(ip.view.CharAt(pos)))
	return nil
}

func (ip *Interp) cmdDeleteChars() error {
	colon := ip.takeColon()
	n, err := ip.popNum(1)
	if err != nil {
		return err
	}
	dot := ip.view.CurrentPos()
	from, to := dot, dot+n
	if n < 0 {
		from, to = dot+n, dot
	}
	if from < 0 || to > ip.view.Length() {
		return ip.failCmd(colon, newError(KindRange, "deletion outside buffer"))
	}
	ip.view.DeleteRange(from, to-from)
	ip.pushViewUndo()
	ip.succeedCmd(colon)
	return nil
}

// lineArgRange resolves the argument convention shared by K and T: two args
// name a byte range, one arg counts lines from the caret.
func (ip *Interp) lineArgRange() (from, to int64, err error) {
	if ip.expr.Args() >= 2 {
		to, err = ip.popNum(0)
		if err != nil {
			return
		}
		from, err = ip.popNum(0)
		if err != nil {
			return
		}
		if from > to {
			from, to = to, from
		}
		if from < 0 || to > ip.view.Length() {
			return 0, 0, newError(KindRange, "range %d,%d outside buffer", from, to)
		}
		return from, to, nil
	}
	var n int64
	n, err = ip.popNum(1)
	if err != nil {
		return
	}
	dot := ip.view.CurrentPos()
	line := ip.view.LineFromPosition(dot) + n
	if line < 0 || line > ip.view.LineCount() {
		return 0, 0, newError(KindRange, "line %d outside buffer", line)
	}
	bound := ip.view.PositionFromLine(line)
	if n >= 0 {
		return dot, bound, nil
	}
	return bound, dot, nil
}

func (ip *Interp) cmdKillLines() error {
	colon := ip.takeColon()
	from, to, err := ip.lineArgRange()
	if err != nil {
		if e, ok := err.(*Error); ok {
			return ip.failCmd(colon, e)
		}
		return err
	}
	ip.view.DeleteRange(from, to-from)
	ip.pushViewUndo()
	ip.succeedCmd(colon)
	return nil
}

func (ip *Interp) cmdType() error {
	from, to, err := ip.lineArgRange()
	if err != nil {
		return err
	}
	ip.ui.Message(string(ip.view.TextRange(from, to)))
	return nil
}

func (ip *Interp) cmdDeleteWords() error {
	n, err := ip.popNum(1)
	if err != nil {
		return err
	}
	if n < 0 {
		return newError(KindRange, "negative word deletion")
	}
	ip.view.BeginUndoAction()
	for ; n > 0; n-- {
		ip.view.DelWordRightEnd()
	}
	ip.view.EndUndoAction()
	ip.pushViewUndo()
	return nil
}

// cmdYank replaces the whole buffer with nothing.
func (ip *Interp) cmdYank() error {
	ip.view.ClearAll()
	ip.pushViewUndo()
	ip.dirtify()
	return nil
}

// cmdBackslash converts between the number stack and buffer text. With an
// argument the number is inserted at the caret; without one, digits at the
// caret are read and their value pushed.
func (ip *Interp) cmdBackslash() error {
	if ip.expr.Args() > 0 {
		n, err := ip.popNum(0)
		if err != nil {
			return err
		}
		return ip.insertText([]byte(strconv.FormatInt(n, int(ip.expr.Radix()))))
	}
	buf := ip.view.CharacterPointer()
	pos := ip.view.CurrentPos()
	i := pos
	sign := int64(1)
	if i < int64(len(buf)) && (buf[i] == '-' || buf[i] == '+') {
		if buf[i] == '-' {
			sign = -1
		}
		i++
	}
	radix := ip.expr.Radix()
	var val int64
	start := i
	for i < int64(len(buf)) {
		d := digitValue(buf[i])
		if d < 0 || d >= radix {
			break
		}
		val = val*radix + d
		i++
	}
	if i == start {
		ip.expr.Push(0)
		return nil
	}
	ip.moveTo(i)
	ip.expr.Push(sign * val)
	return nil
}

func digitValue(c byte) int64 {
	switch {
	case '0' <= c && c <= '9':
		return int64(c - '0')
	case 'a' <= c && c <= 'z':
		return int64(c-'a') + 10
	case 'A' <= c && c <= 'Z':
		return int64(c-'A') + 10
	}
	return -1
}

func (ip *Interp) cmdPrint() error {
	if ip.expr.Args() == 0 {
		return newError(KindArgExpected, "argument expected before =")
	}
	n, err := ip.popNum(0)
	if err != nil {
		return err
	}
	ip.ui.Message(strconv.FormatInt(n, int(ip.expr.Radix())))
	return nil
}

// donePrint shows the string argument of ^A in the message area.
func donePrint(ip *Interp, s string) (state, error) {
	ip.takeColon()
	if !ip.beginExec() {
		return ip.states.start, nil
	}
	ip.ui.Message(s)
	return ip.states.start, nil
}

func (ip *Interp) cmdRadix() error {
	if ip.expr.Args() == 0 {
		ip.expr.Push(ip.expr.Radix())
		return nil
	}
	n, err := ip.popNum(10)
	if err != nil {
		return err
	}
	if !ip.expr.SetRadix(n) {
		return newError(KindRange, "invalid radix %d", n)
	}
	return nil
}

// cmdCtrlC raises an interruption interactively; in batch mode it terminates
// the session like EX.
func (ip *Interp) cmdCtrlC() error {
	if ip.log.Enabled {
		return newError(KindInterrupted, "")
	}
	return quitSignal{code: 0}
}
