// Package edcore implements the interpreter of the command language: the
// hierarchical parse states, the executor with its macro frames, Q-registers,
// the buffer ring and the command-line handling.
//
// The interpreter is driven one character at a time. Every character is both
// a parse event and an executable token; in interactive use each executed
// character records enough undo information to be rubbed out exactly.
package edcore

import (
	"os"
	"sync/atomic"

	"github.com/tecoline/gteco/pkg/doc"
	"github.com/tecoline/gteco/pkg/expr"
	"github.com/tecoline/gteco/pkg/logutil"
	"github.com/tecoline/gteco/pkg/undo"
)

var logger = logutil.GetLogger("[edcore] ")

// Mode selects how the state machine treats incoming characters.
type Mode int

// Execution modes. In the parse-only modes, only syntactic tokens matter;
// commands short-circuit before their side effects.
const (
	ModeNormal Mode = iota
	ModeParseOnlyLoop
	ModeParseOnlyCond
)

// UI is the message surface of the interpreter. The terminal frontend prints
// these; tests collect them.
type UI interface {
	// Message shows a line in the message area.
	Message(s string)
	// Info updates the banner naming the current edit target.
	Info(s string)
}

// DiscardUI is a UI that drops everything.
type DiscardUI struct{}

func (DiscardUI) Message(string) {}
func (DiscardUI) Info(string)    {}

// HookType identifies the lifecycle moment an editing hook runs at.
type HookType int64

// Hook types, pushed for the hook macro to inspect.
const (
	HookAdd   HookType = 1
	HookEdit  HookType = 2
	HookClose HookType = 3
	HookQuit  HookType = 4
)

// Default memory limit in bytes. EJ property 2 changes it; 0 disables.
const defaultMemLimit = 500 << 20

// Interp is the interpreter. It consolidates all state the language can
// observe or mutate, so that a command-line character's effects can be
// captured and reverted wholesale.
type Interp struct {
	view doc.View
	ui   UI

	log  *undo.Log
	expr *expr.Engine

	states *states

	// Current frame.
	src   string
	name  string
	pc    int
	state state

	mode      Mode
	skipElse  bool
	nestLevel int
	// loopSkipExec makes the loop-end command execute when a loop skip
	// finishes, which is how F> reaches and runs the loop end.
	loopSkipExec bool

	modColon bool
	modAt    bool

	// Pending string argument, the active terminator, and the sub-machines
	// that run inside string arguments.
	str        string
	esName     string
	escapeChar byte
	strNesting int
	sb         sbMachine
	qsp        qspMachine
	pendingSpec qregSpec

	loopStack []loopCtx
	loopFP    int

	gotoTable map[string]int
	skipLabel string

	globals *QRegTable
	locals  *QRegTable
	qstack  []qregSnapshot

	ring   *Ring
	curReg *QRegister // register being edited, nil if a buffer is current

	edFlags  int64
	memLimit int64
	uiID     int64
	palette  map[int64]int64

	// Set from a signal handler; polled at the head of every step.
	interrupted int32
	stepCount   int64

	// Syntax-check mode: beginExec never fires, so parsing has no effects.
	execDisabled bool

	cmdline      []byte
	lastCmdline  []byte
	starPending  bool
	newCmdline   *string
	history      HistoryRecorder
	savepoints   []*savepoint
	savepointSeq int
}

// HistoryRecorder persists accepted command lines. The zero implementation
// drops them.
type HistoryRecorder interface {
	AddCmd(cmd string) error
}

type discardHistory struct{}

func (discardHistory) AddCmd(string) error { return nil }

// loopCtx is one entry of the loop stack.
type loopCtx struct {
	pc          int
	counter     int64
	passThrough bool
}

// New creates an interpreter over the given view and UI. It starts with an
// unnamed empty buffer current.
func New(view doc.View, ui UI) *Interp {
	ip := &Interp{
		view:       view,
		ui:         ui,
		log:        &undo.Log{},
		expr:       expr.New(),
		escapeChar: escChar,
		gotoTable:  make(map[string]int),
		memLimit:   defaultMemLimit,
		edFlags:    16,
		uiID:       1,
		palette:    make(map[int64]int64),
		history:    discardHistory{},
	}
	ip.states = newStates()
	ip.state = ip.states.start
	ip.globals = newQRegTable(true)
	ip.globals.seedReserved()
	ip.locals = newQRegTable(true)
	ip.ring = newRing(ip)
	ip.ring.editUnnamed()
	return ip
}

// SetHistory installs a recorder for accepted command lines.
func (ip *Interp) SetHistory(h HistoryRecorder) { ip.history = h }

// SetInteractive enables undo recording. It must be called before any
// command is executed.
func (ip *Interp) SetInteractive(on bool) { ip.log.Enabled = on }

// View returns the document view the interpreter drives.
func (ip *Interp) View() doc.View { return ip.view }

// Ring returns the buffer ring.
func (ip *Interp) Ring() *Ring { return ip.ring }

// EDFlags returns the current ED flag bitmap.
func (ip *Interp) EDFlags() int64 { return ip.edFlags }

// SetEDFlags sets the ED flag bitmap.
func (ip *Interp) SetEDFlags(f int64) { ip.edFlags = f }

// SetMemLimit sets the memory limit in bytes; 0 disables the probe.
func (ip *Interp) SetMemLimit(n int64) { ip.memLimit = n }

// SetPalette assigns a palette entry, as 3EJ does.
func (ip *Interp) SetPalette(entry, rgb int64) { ip.palette[entry] = rgb }

// Interrupt flags an interrupt; the interpreter raises it at the next step.
// Safe to call from a signal handler goroutine.
func (ip *Interp) Interrupt() { atomic.StoreInt32(&ip.interrupted, 1) }

// beginExec reports whether command side effects should run. It is false in
// the parse-only modes, while skipping to a goto label, and in syntax-check
// mode.
func (ip *Interp) beginExec() bool {
	return ip.mode == ModeNormal && ip.skipLabel == "" && !ip.execDisabled
}

// snapshot captures all interpreter-scalar state observable by the language.
// Document, register and file state is reverted by dedicated undo tokens
// instead.
type snapshot struct {
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
	loopStack    []loopCtx
	loopFP       int
	gotoTable    map[string]int
	skipLabel    string
	expr         expr.Snapshot
	edFlags      int64
	memLimit     int64
	curReg       *QRegister
	locals       *QRegTable
	qstack       []qregSnapshot
}

func (ip *Interp) takeSnapshot() *snapshot {
	s := &snapshot{
		src: ip.src, name: ip.name, pc: ip.pc, state: ip.state,
		mode: ip.mode, skipElse: ip.skipElse, nestLevel: ip.nestLevel,
		loopSkipExec: ip.loopSkipExec,
		modColon:     ip.modColon, modAt: ip.modAt,
		str: ip.str, esName: ip.esName,
		escapeChar: ip.escapeChar, strNesting: ip.strNesting,
		sb: ip.sb, qsp: ip.qsp, pendingSpec: ip.pendingSpec,
		loopStack: append([]loopCtx(nil), ip.loopStack...),
		loopFP:    ip.loopFP,
		gotoTable: make(map[string]int, len(ip.gotoTable)),
		skipLabel: ip.skipLabel,
		expr:      ip.expr.Snapshot(),
		edFlags:   ip.edFlags, memLimit: ip.memLimit,
		curReg: ip.curReg, locals: ip.locals,
		qstack: append([]qregSnapshot(nil), ip.qstack...),
	}
	for k, v := range ip.gotoTable {
		s.gotoTable[k] = v
	}
	return s
}

func (ip *Interp) restoreSnapshot(s *snapshot) {
	ip.src, ip.name, ip.pc, ip.state = s.src, s.name, s.pc, s.state
	ip.mode, ip.skipElse, ip.nestLevel = s.mode, s.skipElse, s.nestLevel
	ip.loopSkipExec = s.loopSkipExec
	ip.modColon, ip.modAt = s.modColon, s.modAt
	ip.str, ip.esName = s.str, s.esName
	ip.escapeChar, ip.strNesting = s.escapeChar, s.strNesting
	ip.sb, ip.qsp, ip.pendingSpec = s.sb, s.qsp, s.pendingSpec
	ip.loopStack = append(ip.loopStack[:0], s.loopStack...)
	ip.loopFP = s.loopFP
	ip.gotoTable = make(map[string]int, len(s.gotoTable))
	for k, v := range s.gotoTable {
		ip.gotoTable[k] = v
	}
	ip.skipLabel = s.skipLabel
	ip.expr.Restore(s.expr)
	ip.edFlags, ip.memLimit = s.edFlags, s.memLimit
	ip.curReg, ip.locals = s.curReg, s.locals
	ip.qstack = append(ip.qstack[:0], s.qstack...)
}

// Getwd returns the working directory as the $ register reports it.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}
