package edcore

import "strings"

// cmdlineRegName is the register that holds the command line during { }
// editing.
const cmdlineRegName = "\x1b"

// Cmdline returns the command line typed so far.
func (ip *Interp) Cmdline() string { return string(ip.cmdline) }

// LastCmdline returns the last accepted command line.
func (ip *Interp) LastCmdline() string { return string(ip.lastCmdline) }

// CmdlineKey feeds one typed character to the interpreter. The character is
// executed immediately; if it raises an error, all its effects are reverted,
// the character is rejected and the error returned for display. A nil return
// means the character was absorbed into the command line.
func (ip *Interp) CmdlineKey(c byte) error {
	if ip.starPending {
		ip.starPending = false
		reg := ip.globals.get(string(upperByte(c)))
		if err := reg.setString(ip, string(ip.lastCmdline)); err != nil {
			return err
		}
		ip.ui.Message("command line saved to register " + reg.name)
		return nil
	}
	if len(ip.cmdline) == 0 && c == '*' {
		ip.starPending = true
		return nil
	}

	pos := len(ip.cmdline)
	ip.log.SetMark(pos)
	snap := ip.takeSnapshot()
	ip.log.PushFunc(func() { ip.restoreSnapshot(snap) })
	ip.cmdline = append(ip.cmdline, c)
	ip.src = string(ip.cmdline)

	err := ip.runCmdline()
	if err == nil {
		if ip.newCmdline != nil {
			s := *ip.newCmdline
			ip.newCmdline = nil
			return ip.replaceCmdline(s)
		}
		return nil
	}
	if _, ok := err.(returnSignal); ok {
		ip.acceptCmdline()
		return nil
	}
	if _, ok := IsQuit(err); ok {
		return err
	}
	ip.log.Rubout(pos)
	ip.cmdline = ip.cmdline[:pos]
	ip.src = string(ip.cmdline)
	return err
}

// CmdlineRubout removes the last typed character, reverting its effects.
func (ip *Interp) CmdlineRubout() {
	if ip.starPending {
		ip.starPending = false
		return
	}
	if len(ip.cmdline) == 0 {
		return
	}
	pos := len(ip.cmdline) - 1
	ip.log.Rubout(pos)
	ip.cmdline = ip.cmdline[:pos]
	ip.src = string(ip.cmdline)
}

// runCmdline executes command-line characters from the program counter up to
// the end of what was typed. Loops jumping backwards re-execute earlier
// characters, so a single key press can run many steps.
func (ip *Interp) runCmdline() error {
	for ip.pc < len(ip.src) {
		if err := ip.checkStep(); err != nil {
			return err
		}
		c := ip.src[ip.pc]
		ip.pc++
		if err := ip.input(c); err != nil {
			if e, ok := err.(*Error); ok {
				e.attachPos(ip.pc - 1)
				e.addFrame("command line", ip.src, maxInt(ip.pc-1, 0))
			}
			return err
		}
	}
	return nil
}

// acceptCmdline finalizes the command line after a double escape: its
// effects become permanent, the undo log is dropped and the interpreter is
// reset for the next line.
func (ip *Interp) acceptCmdline() {
	cmd := string(ip.cmdline)
	if strings.Trim(cmd, string(rune(escChar))+" \t\n") != "" {
		if err := ip.history.AddCmd(cmd); err != nil {
			logger.Println("recording history failed:", err)
		}
	}
	ip.lastCmdline = append(ip.lastCmdline[:0], ip.cmdline...)
	ip.cmdline = ip.cmdline[:0]
	ip.src, ip.pc = "", 0
	ip.state = ip.states.start
	ip.mode, ip.skipElse, ip.nestLevel = ModeNormal, false, 0
	ip.loopSkipExec = false
	ip.modColon, ip.modAt = false, false
	ip.loopStack = ip.loopStack[:0]
	ip.loopFP = 0
	ip.gotoTable = make(map[string]int)
	ip.skipLabel = ""
	if err := ip.expr.BraceReturn(0, nil); err != nil {
		logger.Println("accept:", err)
	}
	if err := ip.expr.DiscardArgs(); err != nil {
		logger.Println("accept:", err)
	}
	ip.log.Clear()
	ip.acceptSavepoints()
}

// cmdlineOpen implements {: the command line so far moves into a register
// and becomes the edit target, where the ordinary editing commands apply.
func (ip *Interp) cmdlineOpen() error {
	if !ip.beginExec() {
		return nil
	}
	if ip.name != "" || !ip.log.Enabled {
		return newError(KindSyntax, "{ only works on the interactive command line")
	}
	reg := ip.globals.get(cmdlineRegName)
	if err := reg.setString(ip, string(ip.cmdline[:len(ip.cmdline)-1])); err != nil {
		return err
	}
	return ip.editQReg(reg)
}

// cmdlineClose implements }: the edited register contents replace the
// command line and are re-executed.
func (ip *Interp) cmdlineClose() error {
	if !ip.beginExec() {
		return nil
	}
	if ip.curReg == nil || ip.curReg.name != cmdlineRegName {
		return newError(KindSyntax, "} without {")
	}
	s := ip.curReg.stringValue(ip)
	if ip.recordUndo() {
		prev := ip.view.CurrentDoc()
		ip.log.PushFunc(func() { ip.view.SetDocPointer(prev) })
	}
	ip.view.SetDocPointer(ip.ring.cur.docID)
	ip.curReg = nil
	ip.ring.updateInfo()
	ip.newCmdline = &s
	return nil
}

// replaceCmdline swaps in a new command line: the shared prefix stays, the
// diverging tail is rubbed out and the replacement is typed back in. An
// error in the replayed tail stops the replay at the offending character.
func (ip *Interp) replaceCmdline(s string) error {
	old := string(ip.cmdline)
	common := 0
	for common < len(old) && common < len(s) && old[common] == s[common] {
		common++
	}
	ip.log.Rubout(common)
	ip.cmdline = ip.cmdline[:common]
	ip.src = string(ip.cmdline)
	for i := common; i < len(s); i++ {
		if err := ip.CmdlineKey(s[i]); err != nil {
			return err
		}
	}
	return nil
}
