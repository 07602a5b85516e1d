package edcore

// insertText inserts at the caret, moving the caret past the insertion, and
// marks the buffer dirty.
func (ip *Interp) insertText(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	ip.view.AddText(b)
	ip.pushViewUndo()
	ip.dirtify()
	return nil
}

// processInsert applies each chunk of an insertion string as soon as it is
// complete, so typed text appears immediately.
func processInsert(ip *Interp, chunk string) error {
	return ip.insertText([]byte(chunk))
}

// doneInsert finishes I and friends. The text itself was already inserted
// incrementally; an I with a numeric argument and no string inserts the
// character with that code.
func doneInsert(ip *Interp, s string) (state, error) {
	ip.takeColon()
	if !ip.beginExec() {
		return ip.states.start, nil
	}
	if s == "" && ip.expr.Args() > 0 {
		n, err := ip.popNum(0)
		if err != nil {
			return nil, err
		}
		if err := ip.insertText([]byte{byte(n)}); err != nil {
			return nil, err
		}
	}
	return ip.states.start, nil
}

// initialIndent starts a tab insertion by inserting the indentation
// character before the string argument.
func initialIndent(ip *Interp) error {
	if ip.view.UseTabs() {
		return ip.insertText([]byte{'\t'})
	}
	n := ip.view.TabWidth()
	sp := make([]byte, n)
	for i := range sp {
		sp[i] = ' '
	}
	return ip.insertText(sp)
}
