package edcore

import "strings"

// condTests is the set of valid conditional test characters. The test is
// validated even when skipped, so a bad conditional fails on parse.
const condTests = "~ACDISTFUE=G>L<NRVW"

// condState consumes the test character after a ".
type condState struct{}

func (s *condState) input(ip *Interp, c byte) (state, error) {
	if c == 0 {
		return nil, nil
	}
	t := upperByte(c)
	if !strings.ContainsRune(condTests, rune(t)) {
		return nil, newError(KindSyntax, "invalid conditional \"%c", c)
	}
	if ip.mode == ModeParseOnlyCond {
		ip.nestLevel++
		return ip.states.start, nil
	}
	if ip.mode == ModeParseOnlyLoop || !ip.beginExec() {
		return ip.states.start, nil
	}

	var ok bool
	if t == '~' {
		ok = ip.expr.Args() == 0
	} else {
		if err := ip.expr.Eval(); err != nil {
			return nil, translateExprErr(err)
		}
		n, found := ip.expr.PopNum()
		if !found {
			return nil, newError(KindArgExpected, "argument expected before \"%c", t)
		}
		ok = condTest(t, n)
	}
	if !ok {
		ip.mode = ModeParseOnlyCond
		ip.nestLevel = 1
		ip.skipElse = false
	}
	return ip.states.start, nil
}

func condTest(t byte, n int64) bool {
	c := byte(n)
	switch t {
	case 'A':
		return isAlphaByte(c)
	case 'C':
		return isAlphaByte(c) || isDigitByte(c) || c == '.' || c == '$' || c == '_'
	case 'D':
		return isDigitByte(c)
	case 'I':
		return c == '/' || c == '\\'
	case 'S', 'T':
		return n < 0
	case 'F', 'U':
		return n == 0
	case 'E', '=':
		return n == 0
	case 'G', '>':
		return n > 0
	case 'L', '<':
		return n < 0
	case 'N':
		return n != 0
	case 'R':
		return isAlphaByte(c) || isDigitByte(c)
	case 'V':
		return 'a' <= c && c <= 'z'
	case 'W':
		return 'A' <= c && c <= 'Z'
	}
	return false
}

// condElse handles |. In the executed branch it skips ahead to the end of
// the conditional; while skipping a false branch it is where execution
// resumes.
func (ip *Interp) condElse() error {
	switch ip.mode {
	case ModeParseOnlyLoop:
		return nil
	case ModeParseOnlyCond:
		if ip.nestLevel == 1 && !ip.skipElse {
			ip.mode = ModeNormal
			ip.nestLevel = 0
		}
		return nil
	}
	if !ip.beginExec() {
		return nil
	}
	ip.mode = ModeParseOnlyCond
	ip.nestLevel = 1
	ip.skipElse = true
	return nil
}

// condEnd handles '. In normal execution the end of a conditional is
// invisible.
func (ip *Interp) condEnd() error {
	if ip.mode != ModeParseOnlyCond {
		return nil
	}
	ip.nestLevel--
	if ip.nestLevel == 0 {
		ip.mode = ModeNormal
		ip.skipElse = false
	}
	return nil
}
