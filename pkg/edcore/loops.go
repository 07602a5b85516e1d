package edcore

// loopStart handles <. A zero iteration count skips the body without ever
// pushing a loop context.
func (ip *Interp) loopStart() error {
	switch ip.mode {
	case ModeParseOnlyLoop:
		ip.nestLevel++
		return nil
	case ModeParseOnlyCond:
		return nil
	}
	if !ip.beginExec() {
		if ip.execDisabled {
			// Syntax check: parse the body as a skipped loop, so that a
			// missing > is reported at the end of the frame.
			ip.mode = ModeParseOnlyLoop
			ip.nestLevel = 1
		}
		return nil
	}
	passThrough := ip.takeColon()
	counter, err := ip.popNum(-1)
	if err != nil {
		return err
	}
	if counter == 0 {
		ip.mode = ModeParseOnlyLoop
		ip.nestLevel = 1
		return nil
	}
	ip.loopStack = append(ip.loopStack, loopCtx{
		pc: ip.pc, counter: counter, passThrough: passThrough,
	})
	return nil
}

// loopEnd handles >. While skipping a loop it only counts nesting; the
// loopSkipExec flag makes the final > execute as well, so that a loop-start
// jump landing on a skip still terminates the loop properly.
func (ip *Interp) loopEnd() error {
	switch ip.mode {
	case ModeParseOnlyLoop:
		ip.nestLevel--
		if ip.nestLevel > 0 {
			return nil
		}
		ip.mode = ModeNormal
		if !ip.loopSkipExec {
			return nil
		}
		ip.loopSkipExec = false
	case ModeParseOnlyCond:
		return nil
	}
	if !ip.beginExec() {
		return nil
	}
	if len(ip.loopStack) <= ip.loopFP {
		return newError(KindSyntax, "loop end without loop start")
	}
	ctx := &ip.loopStack[len(ip.loopStack)-1]
	if ctx.counter > 0 {
		ctx.counter--
	}
	if !ctx.passThrough {
		if err := ip.expr.DiscardArgs(); err != nil {
			return translateExprErr(err)
		}
	}
	if ctx.counter != 0 {
		ip.pc = ctx.pc
		return nil
	}
	ip.loopStack = ip.loopStack[:len(ip.loopStack)-1]
	return nil
}

// loopBreak handles ;. Without an argument it tests the search register, so
// a bare ; after a failed search leaves the loop.
func (ip *Interp) loopBreak() error {
	if ip.mode != ModeNormal || !ip.beginExec() {
		return nil
	}
	invert := ip.takeColon()
	var n int64
	if ip.expr.Args() > 0 {
		var err error
		n, err = ip.popNum(0)
		if err != nil {
			return err
		}
	} else {
		n = ip.globals.get("_").integer
	}
	leave := n >= 0
	if invert {
		leave = !leave
	}
	if !leave {
		return nil
	}
	if len(ip.loopStack) <= ip.loopFP {
		return newError(KindSyntax, "; outside loop")
	}
	if err := ip.expr.DiscardArgs(); err != nil {
		return translateExprErr(err)
	}
	ip.loopStack = ip.loopStack[:len(ip.loopStack)-1]
	ip.mode = ModeParseOnlyLoop
	ip.nestLevel = 1
	return nil
}
