package edcore

// escapeState is entered on a single escape. A second escape returns from
// the current macro with whatever arguments are on the stack; any other
// character discards the arguments and is executed normally.
type escapeState struct{}

func (s *escapeState) input(ip *Interp, c byte) (state, error) {
	if c == 0 {
		return nil, nil
	}
	if c == escChar {
		if err := ip.expr.Eval(); err != nil {
			return nil, translateExprErr(err)
		}
		var args []int64
		for {
			n, ok := ip.expr.PopNum()
			if !ok {
				break
			}
			args = append([]int64{n}, args...)
		}
		return nil, returnSignal{args: args}
	}
	if err := ip.expr.DiscardArgs(); err != nil {
		return nil, translateExprErr(err)
	}
	ip.modColon, ip.modAt = false, false
	ip.state = ip.states.start
	return ip.states.start.input(ip, c)
}

// A macro may end after a single escape; the pending arguments are simply
// dropped.
func (s *escapeState) endOfMacro(ip *Interp) error {
	ip.state = ip.states.start
	return translateExprErr(ip.expr.DiscardArgs())
}
