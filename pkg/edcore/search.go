package edcore

import "bytes"

// doneSearch executes S and _ once the pattern is complete. The pattern and
// the outcome are kept in the _ register, so an argument-less ; can react to
// the last search and an empty pattern repeats it.
func doneSearch(ip *Interp, pattern string) (state, error) {
	colon := ip.takeColon()
	if !ip.beginExec() {
		return ip.states.start, nil
	}
	n, err := ip.popNum(1)
	if err != nil {
		return nil, err
	}
	reg := ip.globals.get("_")
	if pattern == "" {
		pattern = reg.stringValue(ip)
		if pattern == "" {
			return nil, newError(KindArgExpected, "no previous search pattern")
		}
	} else if err := reg.setString(ip, pattern); err != nil {
		return nil, err
	}

	pos, found := ip.searchBuffer([]byte(pattern), n)
	code := int64(0)
	if found {
		code = -1
	}
	if err := reg.setInteger(ip, code); err != nil {
		return nil, err
	}
	if found {
		ip.moveTo(pos)
	}
	switch {
	case colon:
		ip.expr.Push(code)
	case !found:
		ip.ui.Message("search failed: " + pattern)
	}
	return ip.states.start, nil
}

// searchBuffer finds the n-th occurrence of pat from the caret, backwards
// for negative n. On success it returns the position after the match (before
// it when searching backwards).
func (ip *Interp) searchBuffer(pat []byte, n int64) (int64, bool) {
	if n == 0 || len(pat) == 0 {
		return 0, false
	}
	buf := ip.view.CharacterPointer()
	dot := ip.view.CurrentPos()
	if n > 0 {
		from := dot
		for ; n > 0; n-- {
			i := bytes.Index(buf[from:], pat)
			if i < 0 {
				return 0, false
			}
			from += int64(i) + int64(len(pat))
		}
		return from, true
	}
	to := dot
	for ; n < 0; n++ {
		i := bytes.LastIndex(buf[:to], pat)
		if i < 0 {
			return 0, false
		}
		to = int64(i)
	}
	return to, true
}
