package edcore

import (
	"os"

	"github.com/tecoline/gteco/pkg/doc"
	"github.com/tecoline/gteco/pkg/undo"
)

// eCommandState dispatches the second character of an E command.
type eCommandState struct{}

func (s *eCommandState) input(ip *Interp, c byte) (state, error) {
	if c == 0 {
		return nil, nil
	}
	switch upperByte(c) {
	case 'B':
		return ip.states.ebFile, nil
	case 'W':
		return ip.states.ewFile, nil
	case 'Q':
		return ip.states.eqQ, nil
	case '%':
		return ip.states.epctQ, nil
	case 'M':
		return ip.states.emFile, nil
	case 'I':
		return ip.states.eiText, nil
	case 'S':
		return ip.states.esMsg, nil
	case 'D':
		if ip.beginExec() {
			return ip.states.start, ip.cmdEDFlags()
		}
		return ip.states.start, nil
	case 'J':
		if ip.beginExec() {
			return ip.states.start, ip.cmdEJProperties()
		}
		return ip.states.start, nil
	case 'L':
		if ip.beginExec() {
			return ip.states.start, ip.cmdEOLMode()
		}
		return ip.states.start, nil
	case 'F':
		if ip.beginExec() {
			return ip.states.start, ip.cmdCloseBuffer()
		}
		return ip.states.start, nil
	case 'X':
		if ip.beginExec() {
			return ip.states.start, ip.cmdQuit()
		}
		return ip.states.start, nil
	}
	return nil, newError(KindSyntax, "unknown command E%c", c)
}

// cmdEDFlags reads or updates the ED flag bitmap. Two arguments give an and
// mask and an or mask, so single bits can be toggled without reading first.
func (ip *Interp) cmdEDFlags() error {
	ip.takeColon()
	switch {
	case ip.expr.Args() >= 2:
		or, err := ip.popNum(0)
		if err != nil {
			return err
		}
		and, err := ip.popNum(0)
		if err != nil {
			return err
		}
		undo.SetVar(ip.log, &ip.edFlags, ip.edFlags&and|or)
	case ip.expr.Args() == 1:
		n, err := ip.popNum(0)
		if err != nil {
			return err
		}
		undo.SetVar(ip.log, &ip.edFlags, n)
	default:
		ip.expr.Push(ip.edFlags)
	}
	return nil
}

// cmdEJProperties reads or sets the numbered environment properties.
func (ip *Interp) cmdEJProperties() error {
	ip.takeColon()
	if ip.expr.Args() >= 2 {
		prop, err := ip.popNum(0)
		if err != nil {
			return err
		}
		switch prop {
		case 2:
			v, err := ip.popNum(0)
			if err != nil {
				return err
			}
			if v < 0 {
				return newError(KindRange, "negative memory limit")
			}
			undo.SetVar(ip.log, &ip.memLimit, v)
			return nil
		case 3:
			// Palette assignments take effect immediately on the terminal
			// and cannot be rubbed out.
			entry, err := ip.popNum(0)
			if err != nil {
				return err
			}
			rgb, err := ip.popNum(0)
			if err != nil {
				return err
			}
			ip.palette[entry] = rgb
			return nil
		}
		return newError(KindRange, "property %d is read-only", prop)
	}
	prop, err := ip.popNum(0)
	if err != nil {
		return err
	}
	switch prop {
	case 0:
		ip.expr.Push(ip.uiID)
	case 1:
		ip.expr.Push(int64(len(ip.ring.bufs)))
	case 2:
		ip.expr.Push(ip.memLimit)
	case 3:
		return newError(KindRange, "property 3 is write-only")
	default:
		return newError(KindRange, "unknown property %d", prop)
	}
	return nil
}

// cmdEOLMode reads or sets the line-ending mode. The colon form converts
// existing line endings in the buffer as well.
func (ip *Interp) cmdEOLMode() error {
	convert := ip.takeColon()
	if ip.expr.Args() == 0 {
		ip.expr.Push(int64(ip.view.EolMode()))
		return nil
	}
	n, err := ip.popNum(0)
	if err != nil {
		return err
	}
	if n < 0 || n > 2 {
		return newError(KindRange, "invalid line ending mode %d", n)
	}
	mode := doc.EolMode(n)
	old := ip.view.EolMode()
	if ip.recordUndo() {
		id := ip.view.CurrentDoc()
		ip.log.PushFunc(func() {
			ip.withDoc(id, func() { ip.view.SetEolMode(old) })
		})
	}
	ip.view.SetEolMode(mode)
	if !convert || mode == old {
		return nil
	}
	ip.convertEols(mode)
	return nil
}

// convertEols rewrites every line ending in the buffer to the given mode as
// one undo group.
func (ip *Interp) convertEols(mode doc.EolMode) {
	eol := mode.Bytes()
	ip.view.BeginUndoAction()
	for pos := int64(0); pos < ip.view.Length(); {
		c := ip.view.CharAt(pos)
		if c != '\r' && c != '\n' {
			pos++
			continue
		}
		n := int64(1)
		if c == '\r' && ip.view.CharAt(pos+1) == '\n' {
			n = 2
		}
		ip.view.DeleteRange(pos, n)
		ip.view.InsertText(pos, eol)
		pos += int64(len(eol))
	}
	ip.view.EndUndoAction()
	ip.pushViewUndo()
	ip.dirtify()
}

// cmdCloseBuffer removes the current buffer from the ring. A dirty buffer
// is only closed when forced with a negative argument or a colon.
func (ip *Interp) cmdCloseBuffer() error {
	force := ip.takeColon()
	if ip.expr.Args() > 0 {
		n, err := ip.popNum(0)
		if err != nil {
			return err
		}
		force = force || n < 0
	}
	if ip.curReg != nil {
		return newError(KindRegEdited, "close while editing register %s", ip.curReg.name)
	}
	return ip.ring.closeCurrent(force)
}

// cmdQuit terminates the session. Unsaved buffers hold it back unless
// forced.
func (ip *Interp) cmdQuit() error {
	force := ip.takeColon()
	code, err := ip.popNum(0)
	if err != nil {
		return err
	}
	if !force {
		for _, b := range ip.ring.bufs {
			if b.dirty {
				return newError(KindFile, "buffer %s has unsaved changes", b.display())
			}
		}
	}
	ip.ring.runHook(HookQuit)
	return quitSignal{code: int(code)}
}

func doneEB(ip *Interp, fname string) (state, error) {
	ip.takeColon()
	if !ip.beginExec() {
		return ip.states.start, nil
	}
	if fname != "" {
		if err := ip.ring.edit(fname); err != nil {
			return nil, err
		}
		return ip.states.start, nil
	}
	n, err := ip.popNum(0)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		ip.ui.Message(ip.ring.list())
		return ip.states.start, nil
	}
	if err := ip.ring.editID(int(n)); err != nil {
		return nil, err
	}
	return ip.states.start, nil
}

func doneEW(ip *Interp, fname string) (state, error) {
	ip.takeColon()
	if !ip.beginExec() {
		return ip.states.start, nil
	}
	if err := ip.ring.save(fname); err != nil {
		return nil, err
	}
	return ip.states.start, nil
}

// doneEQQ and doneEPercentQ capture the register of EQ and E% before the
// file name argument is collected.
func doneEQQ(ip *Interp, spec qregSpec) (state, error) {
	return ip.states.eqFile, nil
}

func doneEPercentQ(ip *Interp, spec qregSpec) (state, error) {
	return ip.states.epctFile, nil
}

func doneEQ(ip *Interp, fname string) (state, error) {
	ip.takeColon()
	if !ip.beginExec() {
		return ip.states.start, nil
	}
	reg, err := ip.lookupQReg(ip.pendingSpec)
	if err != nil {
		return nil, err
	}
	if fname == "" {
		if err := ip.editQReg(reg); err != nil {
			return nil, err
		}
		return ip.states.start, nil
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, newError(KindFile, "%v", err)
	}
	if err := reg.setString(ip, string(data)); err != nil {
		return nil, err
	}
	return ip.states.start, nil
}

func doneEPercent(ip *Interp, fname string) (state, error) {
	ip.takeColon()
	if !ip.beginExec() {
		return ip.states.start, nil
	}
	if fname == "" {
		return nil, newError(KindFile, "file name expected")
	}
	reg, err := ip.lookupQReg(ip.pendingSpec)
	if err != nil {
		return nil, err
	}
	if err := ip.saveFile(fname, []byte(reg.stringValue(ip))); err != nil {
		return nil, err
	}
	return ip.states.start, nil
}

func doneEM(ip *Interp, fname string) (state, error) {
	ip.takeColon()
	if !ip.beginExec() {
		return ip.states.start, nil
	}
	if err := ip.ExecuteFile(fname); err != nil {
		return nil, err
	}
	return ip.states.start, nil
}

func doneESMsg(ip *Interp, name string) (state, error) {
	ip.esName = name
	return ip.states.esArg, nil
}

// doneESArg dispatches a raw message to the view. The effects of modifying
// messages sent this way are not recorded for rubout.
func doneESArg(ip *Interp, arg string) (state, error) {
	ip.takeColon()
	if !ip.beginExec() {
		return ip.states.start, nil
	}
	msg, ok := doc.LookupMessage(ip.esName)
	if !ok {
		return nil, newError(KindSyntax, "unknown message %q", ip.esName)
	}
	w, err := ip.popNum(0)
	if err != nil {
		return nil, err
	}
	l, err := ip.popNum(0)
	if err != nil {
		return nil, err
	}
	ip.expr.Push(ip.view.Send(msg, w, l, arg))
	return ip.states.start, nil
}
