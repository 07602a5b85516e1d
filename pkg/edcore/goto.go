package edcore

import "strings"

// labelState accumulates a !label! definition. Labels are recorded wherever
// they are parsed, so a pending goto can land in code that was skipped.
type labelState struct{}

func (s *labelState) input(ip *Interp, c byte) (state, error) {
	if c == 0 {
		ip.str = ""
		return nil, nil
	}
	if c != '!' {
		ip.str += string(c)
		return nil, nil
	}
	label := ip.str
	if !ip.execDisabled {
		if _, ok := ip.gotoTable[label]; !ok {
			ip.gotoTable[label] = ip.pc
		}
		if ip.skipLabel == label {
			ip.skipLabel = ""
		}
	}
	return ip.states.start, nil
}

// doneGoto executes O. The string is a comma-separated label list; the
// argument selects the label, starting at 1. Out-of-range selections do
// nothing.
func doneGoto(ip *Interp, arg string) (state, error) {
	ip.takeColon()
	if !ip.beginExec() {
		return ip.states.start, nil
	}
	n, err := ip.popNum(1)
	if err != nil {
		return nil, err
	}
	labels := strings.Split(arg, ",")
	if n < 1 || n > int64(len(labels)) {
		return ip.states.start, nil
	}
	label := strings.TrimSpace(labels[n-1])
	if label == "" {
		return ip.states.start, nil
	}
	if pos, ok := ip.gotoTable[label]; ok {
		ip.pc = pos
		return ip.states.start, nil
	}
	// Not seen yet. Skip forward until the label definition is parsed; if
	// the frame ends first, the label does not exist.
	ip.skipLabel = label
	return ip.states.start, nil
}
