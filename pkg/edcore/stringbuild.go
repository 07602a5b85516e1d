package edcore

import (
	"strconv"
	"strings"
)

// sbState tracks where the string-building machine is within a multi
// character construct.
type sbState int

const (
	sbStart sbState = iota
	sbQuote
	sbLower
	sbUpper
	sbExt
	sbExtReg
)

// Case conversion modes. The once modes affect the next character only; the
// locked modes, entered by doubling ^V or ^W, affect the rest of the string.
type caseMode int

const (
	caseNone caseMode = iota
	caseLowerLock
	caseUpperLock
)

// sbMachine interprets string-building constructs inside string arguments:
// ^Q and ^R quote the next character, ^V and ^W convert case, and ^E
// interpolates Q-register contents in several formats.
type sbMachine struct {
	st   sbState
	mode caseMode
	ext  byte
	qsp  qspMachine
}

func (m *sbMachine) reset() { *m = sbMachine{} }

// pending reports whether the machine is inside a construct, in which case
// terminator detection must wait.
func (m *sbMachine) pending() bool { return m.st != sbStart }

func (m *sbMachine) feed(ip *Interp, c byte) (string, error) {
	switch m.st {
	case sbQuote:
		m.st = sbStart
		return string(c), nil

	case sbLower:
		m.st = sbStart
		if c == 0x16 {
			m.mode = caseLowerLock
			return "", nil
		}
		return strings.ToLower(string(c)), nil

	case sbUpper:
		m.st = sbStart
		if c == 0x17 {
			m.mode = caseUpperLock
			return "", nil
		}
		return strings.ToUpper(string(c)), nil

	case sbExt:
		switch upperByte(c) {
		case 'Q', 'U', '\\', '@', 'N':
			m.ext = upperByte(c)
			m.st = sbExtReg
			m.qsp.reset()
			return "", nil
		}
		return "", newError(KindSyntax, "invalid string building construct ^E%c", c)

	case sbExtReg:
		spec, complete, err := m.qsp.feed(c)
		if err != nil {
			return "", err
		}
		if !complete {
			return "", nil
		}
		m.st = sbStart
		if !ip.beginExec() {
			return "", nil
		}
		return m.expand(ip, spec)
	}

	switch c {
	case 0x11, 0x12: // ^Q ^R
		m.st = sbQuote
		return "", nil
	case 0x16: // ^V
		m.st = sbLower
		return "", nil
	case 0x17: // ^W
		m.st = sbUpper
		return "", nil
	case 0x05: // ^E
		m.st = sbExt
		return "", nil
	}
	switch m.mode {
	case caseLowerLock:
		return strings.ToLower(string(c)), nil
	case caseUpperLock:
		return strings.ToUpper(string(c)), nil
	}
	return string(c), nil
}

// expand interpolates a register per the pending ^E construct.
func (m *sbMachine) expand(ip *Interp, spec qregSpec) (string, error) {
	reg, err := ip.lookupQReg(spec)
	if err != nil {
		return "", err
	}
	switch m.ext {
	case 'Q':
		return reg.stringValue(ip), nil
	case 'U':
		return string(byte(reg.integer)), nil
	case '\\':
		return strconv.FormatInt(reg.integer, int(ip.expr.Radix())), nil
	case '@':
		return shellQuote(reg.stringValue(ip)), nil
	case 'N':
		return globEscape(reg.stringValue(ip)), nil
	}
	return "", nil
}

// shellQuote wraps s in single quotes for interpolation into a command line.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// globEscape backslash-escapes glob metacharacters, so a filename can be
// interpolated into a pattern literally.
func globEscape(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
