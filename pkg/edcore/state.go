package edcore

import "github.com/tecoline/gteco/pkg/expr"

// escChar is the command terminator and string terminator by default.
const escChar = 0x1B

// state is one node of the hierarchical parser. input consumes a character
// and returns the next state, or nil to stay. When a transition happens, the
// new state is immediately fed a NUL so it can initialize and possibly chain
// further; states therefore treat c == 0 as "just entered".
type state interface {
	input(ip *Interp, c byte) (state, error)
}

// macroEnder is implemented by states that accept the end of a macro while
// active. Any other non-start state at end of macro is an unterminated
// command.
type macroEnder interface {
	endOfMacro(ip *Interp) error
}

// input feeds one character to the current state and follows transition
// chains until the machine settles.
func (ip *Interp) input(c byte) error {
	for {
		next, err := ip.state.input(ip, c)
		if err != nil {
			return err
		}
		if next == nil || next == ip.state {
			return nil
		}
		ip.state = next
		c = 0
	}
}

// states holds the singleton state nodes. They are allocated once per
// interpreter so states can be compared by pointer.
type states struct {
	start    *startState
	escape   *escapeState
	caret    *caretState
	charCode *charCodeState
	cond     *condState
	label    *labelState
	eCmd     *eCommandState
	fCmd     *fCommandState

	insert      *expectStringState
	indent      *expectStringState
	search      *expectStringState
	gotoArg     *expectStringState
	printStr    *expectStringState
	ctlUStr     *expectStringState
	eqFile      *expectStringState
	ebFile      *expectStringState
	ewFile      *expectStringState
	epctFile    *expectStringState
	emFile      *expectStringState
	eiText      *expectStringState
	fgDir       *expectStringState
	esMsg       *expectStringState
	esArg       *expectStringState

	getQ    *expectQRegState
	setQ    *expectQRegState
	incrQ   *expectQRegState
	macroQ  *expectQRegState
	extractQ *expectQRegState
	copyQ   *expectQRegState
	pushQ   *expectQRegState
	popQ    *expectQRegState
	ctlUQ   *expectQRegState
	eqQ     *expectQRegState
	epctQ   *expectQRegState
}

func newStates() *states {
	st := &states{
		start:    &startState{},
		escape:   &escapeState{},
		caret:    &caretState{},
		charCode: &charCodeState{},
		cond:     &condState{},
		label:    &labelState{},
		eCmd:     &eCommandState{},
		fCmd:     &fCommandState{},
	}

	st.insert = &expectStringState{building: true, process: processInsert, done: doneInsert}
	st.indent = &expectStringState{building: true, process: processInsert, done: doneInsert, initial: initialIndent}
	st.search = &expectStringState{building: true, done: doneSearch}
	st.gotoArg = &expectStringState{building: true, done: doneGoto}
	st.printStr = &expectStringState{building: true, done: donePrint}
	st.ctlUStr = &expectStringState{building: true, done: doneCtlU}
	st.eqFile = &expectStringState{building: true, done: doneEQ}
	st.ebFile = &expectStringState{building: true, done: doneEB}
	st.ewFile = &expectStringState{building: true, done: doneEW}
	st.epctFile = &expectStringState{building: true, done: doneEPercent}
	st.emFile = &expectStringState{building: true, done: doneEM}
	st.eiText = &expectStringState{building: false, process: processInsert, done: doneInsert}
	st.fgDir = &expectStringState{building: true, done: doneFG}
	st.esMsg = &expectStringState{building: false, done: doneESMsg}
	st.esArg = &expectStringState{building: true, done: doneESArg}

	st.getQ = &expectQRegState{done: doneGetQ}
	st.setQ = &expectQRegState{done: doneSetQ}
	st.incrQ = &expectQRegState{done: doneIncrQ}
	st.macroQ = &expectQRegState{done: doneMacroQ}
	st.extractQ = &expectQRegState{done: doneExtractQ}
	st.copyQ = &expectQRegState{done: doneCopyQ}
	st.pushQ = &expectQRegState{done: donePushQ}
	st.popQ = &expectQRegState{done: donePopQ}
	st.ctlUQ = &expectQRegState{done: doneCtlUQ}
	st.eqQ = &expectQRegState{done: doneEQQ}
	st.epctQ = &expectQRegState{done: doneEPercentQ}
	return st
}

// caretState handles the two-character ^x spelling of control commands. A
// few caret sequences are operators in their own right and never map to a
// control code.
type caretState struct{}

func (s *caretState) input(ip *Interp, c byte) (state, error) {
	if c == 0 {
		return nil, nil
	}
	switch c {
	case '*':
		if ip.beginExec() {
			if err := ip.pushOperator(expr.OpPow); err != nil {
				return nil, err
			}
		}
		return ip.states.start, nil
	case '/':
		if ip.beginExec() {
			if err := ip.pushOperator(expr.OpMod); err != nil {
				return nil, err
			}
		}
		return ip.states.start, nil
	case '#':
		if ip.beginExec() {
			if err := ip.pushOperator(expr.OpXor); err != nil {
				return nil, err
			}
		}
		return ip.states.start, nil
	}
	if c < '?' || c > 'z' {
		return nil, newError(KindSyntax, "invalid character %q after ^", c)
	}
	ctrl := upperByte(c) ^ 0x40
	ip.state = ip.states.start
	return ip.states.start.input(ip, ctrl)
}

// charCodeState implements ^^c, pushing the code of the next character.
type charCodeState struct{}

func (s *charCodeState) input(ip *Interp, c byte) (state, error) {
	if c == 0 {
		return nil, nil
	}
	if ip.beginExec() {
		ip.expr.Push(int64(c))
	}
	return ip.states.start, nil
}

func upperByte(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func isDigitByte(c byte) bool { return '0' <= c && c <= '9' }

func isAlphaByte(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// pushOperator applies a binary operator, translating engine errors into
// command errors.
func (ip *Interp) pushOperator(op expr.Op) error {
	if err := ip.expr.PushCalc(op); err != nil {
		return translateExprErr(err)
	}
	return nil
}

func translateExprErr(err error) error {
	switch err {
	case nil:
		return nil
	case expr.ErrDivideByZero:
		return newError(KindDivideByZero, "")
	case expr.ErrMissingBrace:
		return newError(KindUntermBrace, "")
	}
	return newError(KindSyntax, "%v", err)
}
