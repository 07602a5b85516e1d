package edcore

import "github.com/tecoline/gteco/pkg/expr"

// startState is the top of the parser hierarchy. Every command begins here;
// sub-states return here when their arguments are complete.
type startState struct{}

func (s *startState) input(ip *Interp, c byte) (state, error) {
	switch c {
	case 0:
		return nil, nil
	case ' ', '\n', '\r', '\v', '\f':
		return nil, nil
	case escChar:
		if !ip.beginExec() {
			return nil, nil
		}
		return ip.states.escape, nil
	case '!':
		return ip.states.label, nil
	case '"':
		return ip.states.cond, nil
	case '\'':
		return nil, ip.condEnd()
	case '|':
		return nil, ip.condElse()
	case '<':
		return nil, ip.loopStart()
	case '>':
		return nil, ip.loopEnd()
	case ';':
		return nil, ip.loopBreak()
	case '^':
		return ip.states.caret, nil
	case 0x1E: // ^^
		return ip.states.charCode, nil
	case ':':
		ip.modColon = true
		return nil, nil
	case '@':
		ip.modAt = true
		return nil, nil
	case '{':
		return nil, ip.cmdlineOpen()
	case '}':
		return nil, ip.cmdlineClose()
	case '\t':
		return ip.states.indent, nil
	case '_':
		ip.modColon = true
		return ip.states.search, nil
	case '[':
		return ip.states.pushQ, nil
	case ']':
		return ip.states.popQ, nil
	case 0x15: // ^U
		return ip.states.ctlUQ, nil
	case 0x01: // ^A
		return ip.states.printStr, nil
	case 0x0F: // ^O
		if ip.beginExec() {
			ip.expr.SetRadix(8)
		}
		return nil, nil
	case 0x04: // ^D
		if ip.beginExec() {
			ip.expr.SetRadix(10)
		}
		return nil, nil
	case 0x12: // ^R
		if ip.beginExec() {
			return nil, ip.cmdRadix()
		}
		return nil, nil
	case 0x1F: // ^_
		if ip.beginExec() {
			n, err := ip.popNum(0)
			if err != nil {
				return nil, err
			}
			ip.expr.Push(^n)
		}
		return nil, nil
	case 0x03: // ^C
		if ip.beginExec() {
			return nil, ip.cmdCtrlC()
		}
		return nil, nil
	}

	if isDigitByte(c) {
		if ip.beginExec() {
			ip.expr.AddDigit(int64(c - '0'))
		}
		return nil, nil
	}

	switch upperByte(c) {
	case 'E':
		return ip.states.eCmd, nil
	case 'F':
		return ip.states.fCmd, nil
	case 'O':
		return ip.states.gotoArg, nil
	case 'I':
		return ip.states.insert, nil
	case 'S':
		return ip.states.search, nil
	case 'Q':
		return ip.states.getQ, nil
	case 'U':
		return ip.states.setQ, nil
	case '%':
		return ip.states.incrQ, nil
	case 'M':
		return ip.states.macroQ, nil
	case 'X':
		return ip.states.extractQ, nil
	case 'G':
		return ip.states.copyQ, nil
	}

	if !ip.beginExec() {
		// Unknown commands are syntax errors even when nothing executes.
		switch upperByte(c) {
		case '+', '-', '*', '/', '&', '#', '(', ')', ',', '.', '\\', '=',
			'Z', 'B', 'H', 'C', 'R', 'L', 'J', 'W', 'A', 'D', 'K', 'V', 'Y', 'T':
			return nil, nil
		}
		return nil, newError(KindSyntax, "unknown command %q", c)
	}
	return nil, s.execute(ip, c)
}

// execute runs the single-character commands that have no sub-state. Only
// called when side effects are live.
func (s *startState) execute(ip *Interp, c byte) error {
	switch c {
	case '+':
		if ip.expr.Args() > 0 {
			return ip.pushOperator(expr.OpAdd)
		}
		return nil
	case '-':
		if ip.expr.Args() > 0 {
			return ip.pushOperator(expr.OpSub)
		}
		ip.expr.SetNumSign(-ip.expr.NumSign())
		return nil
	case '*':
		return ip.pushOperator(expr.OpMul)
	case '/':
		return ip.pushOperator(expr.OpDiv)
	case '&':
		return ip.pushOperator(expr.OpAnd)
	case '#':
		return ip.pushOperator(expr.OpOr)
	case '(':
		if ip.expr.NumSign() < 0 {
			// -(...) multiplies the bracketed value by -1.
			ip.expr.SetNumSign(1)
			ip.expr.Push(-1)
			if err := ip.pushOperator(expr.OpMul); err != nil {
				return err
			}
		}
		ip.expr.BraceOpen()
		return nil
	case ')':
		return translateExprErr(ip.expr.BraceClose())
	case ',':
		if ip.expr.Args() == 0 {
			return newError(KindArgExpected, "argument expected before ,")
		}
		ip.expr.PushSep()
		return nil
	case '.':
		ip.expr.Push(ip.view.CurrentPos())
		return nil
	case 'Z', 'z':
		ip.expr.Push(ip.view.Length())
		return nil
	case 'B', 'b':
		ip.expr.Push(0)
		return nil
	case 'H', 'h':
		ip.expr.Push(0)
		ip.expr.PushSep()
		ip.expr.Push(ip.view.Length())
		return nil
	case '\\':
		return ip.cmdBackslash()
	case '=':
		return ip.cmdPrint()
	case 'C', 'c':
		return ip.cmdMove(1)
	case 'R', 'r':
		return ip.cmdMove(-1)
	case 'L', 'l':
		return ip.cmdLineMove()
	case 'J', 'j':
		return ip.cmdJump()
	case 'W', 'w':
		return ip.cmdWordMove()
	case 'A', 'a':
		return ip.cmdCharAt()
	case 'D', 'd':
		return ip.cmdDeleteChars()
	case 'K', 'k':
		return ip.cmdKillLines()
	case 'V', 'v':
		return ip.cmdDeleteWords()
	case 'Y', 'y':
		return ip.cmdYank()
	case 'T', 't':
		return ip.cmdType()
	}
	return newError(KindSyntax, "unknown command %q", c)
}

// popNum evaluates and pops one argument, with a default.
func (ip *Interp) popNum(def int64) (int64, error) {
	n, err := ip.expr.PopNumCalc(def)
	if err != nil {
		return 0, translateExprErr(err)
	}
	return n, nil
}

// takeColon consumes the pending : modifier.
func (ip *Interp) takeColon() bool {
	m := ip.modColon
	ip.modColon = false
	return m
}

// takeAt consumes the pending @ modifier.
func (ip *Interp) takeAt() bool {
	m := ip.modAt
	ip.modAt = false
	return m
}
