package edcore

import (
	"os"
	"strings"
	"sync/atomic"

	"github.com/tecoline/gteco/pkg/doc"
	"github.com/tecoline/gteco/pkg/sys"
)

// frame is the per-macro parser and executor state saved around a nested
// execution. Document, register and expression state deliberately stay
// live across frames.
type frame struct {
	src          string
	name         string
	pc           int
	state        state
	mode         Mode
	skipElse     bool
	nestLevel    int
	loopSkipExec bool
	modColon     bool
	modAt        bool
	str          string
	esName       string
	escapeChar   byte
	strNesting   int
	sb           sbMachine
	qsp          qspMachine
	pendingSpec  qregSpec
	loopFP       int
	gotoTable    map[string]int
	skipLabel    string
	locals       *QRegTable
}

func (ip *Interp) saveFrame() frame {
	return frame{
		src: ip.src, name: ip.name, pc: ip.pc, state: ip.state,
		mode: ip.mode, skipElse: ip.skipElse, nestLevel: ip.nestLevel,
		loopSkipExec: ip.loopSkipExec,
		modColon:     ip.modColon, modAt: ip.modAt,
		str: ip.str, esName: ip.esName,
		escapeChar: ip.escapeChar, strNesting: ip.strNesting,
		sb: ip.sb, qsp: ip.qsp, pendingSpec: ip.pendingSpec,
		loopFP: ip.loopFP, gotoTable: ip.gotoTable, skipLabel: ip.skipLabel,
		locals: ip.locals,
	}
}

func (ip *Interp) restoreFrame(f frame) {
	ip.src, ip.name, ip.pc, ip.state = f.src, f.name, f.pc, f.state
	ip.mode, ip.skipElse, ip.nestLevel = f.mode, f.skipElse, f.nestLevel
	ip.loopSkipExec = f.loopSkipExec
	ip.modColon, ip.modAt = f.modColon, f.modAt
	ip.str, ip.esName = f.str, f.esName
	ip.escapeChar, ip.strNesting = f.escapeChar, f.strNesting
	ip.sb, ip.qsp, ip.pendingSpec = f.sb, f.qsp, f.pendingSpec
	ip.loopFP, ip.gotoTable, ip.skipLabel = f.loopFP, f.gotoTable, f.skipLabel
	ip.locals = f.locals
}

// executeMacro runs src as a nested frame. With ownLocals the frame gets a
// fresh local register table that is torn down on return.
func (ip *Interp) executeMacro(src, name string, ownLocals bool) error {
	return ip.executeFrame(src, name, 0, ownLocals)
}

func (ip *Interp) executeFrame(src, name string, startPC int, ownLocals bool) error {
	f := ip.saveFrame()
	ip.src, ip.name, ip.pc = src, name, startPC
	ip.state = ip.states.start
	ip.mode, ip.skipElse, ip.nestLevel = ModeNormal, false, 0
	ip.loopSkipExec = false
	ip.modColon, ip.modAt = false, false
	ip.str, ip.esName = "", ""
	ip.escapeChar, ip.strNesting = escChar, 0
	ip.sb, ip.qsp, ip.pendingSpec = sbMachine{}, qspMachine{}, qregSpec{}
	ip.gotoTable = make(map[string]int)
	ip.skipLabel = ""
	ip.loopFP = len(ip.loopStack)
	if ownLocals {
		ip.locals = newQRegTable(false)
	}
	braceLevel := ip.expr.BraceLevel()

	err := ip.run()
	if rs, ok := err.(returnSignal); ok {
		ip.loopStack = ip.loopStack[:ip.loopFP]
		err = translateExprErr(ip.expr.BraceReturn(braceLevel, rs.args))
	}
	if err == nil && ip.expr.BraceLevel() > braceLevel {
		err = newError(KindUntermBrace, "")
	}
	if ownLocals {
		if err == nil && ip.curReg != nil && ip.curReg.table == ip.locals {
			err = newError(KindRegEdited, "local register %s still being edited", ip.curReg.name)
		}
		for _, reg := range ip.locals.regs {
			if reg.docID != 0 && reg != ip.curReg && ip.view.CurrentDoc() != reg.docID {
				ip.view.ReleaseDocument(reg.docID)
			}
		}
	}
	if e, ok := err.(*Error); ok {
		e.addFrame(ip.name, ip.src, maxInt(ip.pc-1, 0))
	}
	ip.restoreFrame(f)
	return err
}

// run steps through the current frame's source until it is exhausted.
func (ip *Interp) run() error {
	for ip.pc < len(ip.src) {
		if err := ip.checkStep(); err != nil {
			return err
		}
		c := ip.src[ip.pc]
		ip.pc++
		if err := ip.input(c); err != nil {
			if e, ok := err.(*Error); ok {
				e.attachPos(ip.pc - 1)
			}
			return err
		}
	}
	return ip.endOfFrame()
}

// endOfFrame validates that the frame ended in an acceptable parse state.
func (ip *Interp) endOfFrame() error {
	if ip.mode == ModeParseOnlyLoop || len(ip.loopStack) > ip.loopFP {
		return newError(KindUntermLoop, "")
	}
	if ip.mode == ModeParseOnlyCond {
		return newError(KindUntermCmd, "unterminated conditional")
	}
	if ip.skipLabel != "" {
		return newError(KindLabelNotFound, "label %q not found", ip.skipLabel)
	}
	if ip.state != state(ip.states.start) {
		me, ok := ip.state.(macroEnder)
		if !ok {
			return newError(KindUntermCmd, "")
		}
		if err := me.endOfMacro(ip); err != nil {
			return err
		}
	}
	return nil
}

// checkStep polls for interruption on every step and probes memory use at a
// coarser interval, since getrusage is comparatively expensive.
func (ip *Interp) checkStep() error {
	if atomic.CompareAndSwapInt32(&ip.interrupted, 1, 0) {
		return newError(KindInterrupted, "")
	}
	ip.stepCount++
	if ip.memLimit > 0 && ip.stepCount%1024 == 0 {
		if rss := sys.MaxRSS(); rss > ip.memLimit {
			return newError(KindMemory, "%d bytes in use", rss)
		}
	}
	return nil
}

// Execute runs src as a batch script in the top-level frame.
func (ip *Interp) Execute(src string) error {
	return ip.executeFrame(src, "script", 0, false)
}

// ExecuteFile runs a script file. A leading #! line is skipped, with source
// positions still counted from the start of the file.
func (ip *Interp) ExecuteFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newError(KindFile, "%v", err)
	}
	src := string(data)
	start := 0
	if strings.HasPrefix(src, "#!") {
		if i := strings.IndexByte(src, '\n'); i >= 0 {
			start = i + 1
		} else {
			start = len(src)
		}
	}
	return ip.executeFrame(src, path, start, true)
}

// CheckSyntax parses src without executing it and reports the first error.
func CheckSyntax(src string) error {
	ip := New(doc.NewView(), DiscardUI{})
	ip.execDisabled = true
	return ip.Execute(src)
}
