package edcore

import (
	"os"
	"strings"

	"github.com/tecoline/gteco/pkg/doc"
	"github.com/tecoline/gteco/pkg/undo"
)

// qregSpec names a register: an optional local prefix and the register name.
// Single-character names are folded to upper case; long [name] forms are
// case-sensitive.
type qregSpec struct {
	local bool
	name  string
}

func (sp qregSpec) String() string {
	name := sp.name
	if len(name) > 1 {
		name = "[" + name + "]"
	}
	if sp.local {
		return "." + name
	}
	return name
}

// qspMachine parses a register specification character by character. It is
// used both by the command states that expect a register and by the ^E
// constructs of the string-building machine.
type qspMachine struct {
	active bool
	long   bool
	spec   qregSpec
}

func (m *qspMachine) reset() { *m = qspMachine{active: true} }

func (m *qspMachine) feed(c byte) (qregSpec, bool, error) {
	if m.long {
		if c == ']' {
			spec := m.spec
			m.active = false
			return spec, true, nil
		}
		m.spec.name += string(c)
		return qregSpec{}, false, nil
	}
	switch {
	case c == '.' && !m.spec.local:
		m.spec.local = true
	case c == '[':
		m.long = true
	case c < ' ' && c != escChar || c == 0x7F:
		return qregSpec{}, false, newError(KindInvalidQReg, "invalid register name character %q", c)
	default:
		m.spec.name = string(upperByte(c))
		spec := m.spec
		m.active = false
		return spec, true, nil
	}
	return qregSpec{}, false, nil
}

// QRegister is one register: an integer cell and a string cell. The string
// part lives in a document of the view, allocated on first use. Computed
// registers derive their string on every read and cannot be written.
type QRegister struct {
	name    string
	table   *QRegTable
	integer int64
	docID   doc.DocumentID
	getStr  func(ip *Interp) string
	readOnly bool
}

// QRegTable is a namespace of registers. Registers spring into existence
// when first named. The global table records undo; macro-local tables do
// not, since the whole table is dropped when the frame returns.
type QRegTable struct {
	regs     map[string]*QRegister
	mustUndo bool
}

func newQRegTable(mustUndo bool) *QRegTable {
	return &QRegTable{regs: make(map[string]*QRegister), mustUndo: mustUndo}
}

func (t *QRegTable) get(name string) *QRegister {
	if r, ok := t.regs[name]; ok {
		return r
	}
	r := &QRegister{name: name, table: t}
	t.regs[name] = r
	return r
}

// seedReserved installs the registers with special behavior: $ reports the
// working directory, $NAME mirrors the process environment, * holds the
// last accepted command line and _ the result of the last search.
func (t *QRegTable) seedReserved() {
	dollar := t.get("$")
	dollar.getStr = func(*Interp) string { return Getwd() }
	dollar.readOnly = true
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		r := t.get("$" + name)
		v := value
		r.getStr = func(*Interp) string { return v }
		r.readOnly = true
	}
	star := t.get("*")
	star.getStr = func(ip *Interp) string { return string(ip.lastCmdline) }
	star.readOnly = true
	t.get("_")
	t.get("0")
}

// lookupQReg resolves a register specification against the global or the
// current local table.
func (ip *Interp) lookupQReg(spec qregSpec) (*QRegister, error) {
	if spec.name == "" {
		return nil, newError(KindInvalidQReg, "empty register name")
	}
	if spec.local {
		return ip.locals.get(spec.name), nil
	}
	return ip.globals.get(spec.name), nil
}

// materialize allocates the register's document on first use.
func (r *QRegister) materialize(ip *Interp) {
	if r.docID != 0 {
		return
	}
	r.docID = ip.view.NewDocument()
	if ip.log.Enabled && r.table.mustUndo {
		ip.log.PushFunc(func() {
			ip.view.ReleaseDocument(r.docID)
			r.docID = 0
		})
	}
}

func (r *QRegister) stringValue(ip *Interp) string {
	if r.getStr != nil {
		return r.getStr(ip)
	}
	if r.docID == 0 {
		return ""
	}
	var s string
	ip.withDoc(r.docID, func() { s = string(ip.view.CharacterPointer()) })
	return s
}

func (r *QRegister) pushUndo(ip *Interp) {
	if !ip.log.Enabled || !r.table.mustUndo {
		return
	}
	id := r.docID
	ip.log.PushFunc(func() {
		ip.withDoc(id, func() { ip.view.Undo() })
	})
}

func (r *QRegister) setString(ip *Interp, s string) error {
	if r.readOnly || r.getStr != nil {
		return newError(KindInvalidQReg, "register %s is read-only", r.name)
	}
	r.materialize(ip)
	ip.withDoc(r.docID, func() { ip.view.SetText([]byte(s)) })
	r.pushUndo(ip)
	return nil
}

func (r *QRegister) appendString(ip *Interp, s string) error {
	if r.readOnly || r.getStr != nil {
		return newError(KindInvalidQReg, "register %s is read-only", r.name)
	}
	r.materialize(ip)
	ip.withDoc(r.docID, func() { ip.view.AppendText([]byte(s)) })
	r.pushUndo(ip)
	return nil
}

func (r *QRegister) setInteger(ip *Interp, n int64) error {
	if r.readOnly {
		return newError(KindInvalidQReg, "register %s is read-only", r.name)
	}
	if ip.log.Enabled && r.table.mustUndo {
		undo.SetVar(ip.log, &r.integer, n)
	} else {
		r.integer = n
	}
	return nil
}

// expectQRegState parses a register specification and hands it to the
// command's hook.
type expectQRegState struct {
	done func(ip *Interp, spec qregSpec) (state, error)
}

func (s *expectQRegState) input(ip *Interp, c byte) (state, error) {
	if c == 0 {
		ip.qsp.reset()
		return nil, nil
	}
	spec, complete, err := ip.qsp.feed(c)
	if err != nil {
		return nil, err
	}
	if !complete {
		return nil, nil
	}
	ip.pendingSpec = spec
	return s.done(ip, spec)
}

func doneGetQ(ip *Interp, spec qregSpec) (state, error) {
	colon := ip.takeColon()
	if !ip.beginExec() {
		return ip.states.start, nil
	}
	reg, err := ip.lookupQReg(spec)
	if err != nil {
		return nil, err
	}
	if colon {
		ip.expr.Push(int64(len(reg.stringValue(ip))))
	} else {
		ip.expr.Push(reg.integer)
	}
	return ip.states.start, nil
}

func doneSetQ(ip *Interp, spec qregSpec) (state, error) {
	ip.takeColon()
	if !ip.beginExec() {
		return ip.states.start, nil
	}
	if ip.expr.Args() == 0 {
		return nil, newError(KindArgExpected, "argument expected before U%s", spec)
	}
	n, err := ip.popNum(0)
	if err != nil {
		return nil, err
	}
	reg, err := ip.lookupQReg(spec)
	if err != nil {
		return nil, err
	}
	if err := reg.setInteger(ip, n); err != nil {
		return nil, err
	}
	return ip.states.start, nil
}

func doneIncrQ(ip *Interp, spec qregSpec) (state, error) {
	ip.takeColon()
	if !ip.beginExec() {
		return ip.states.start, nil
	}
	n, err := ip.popNum(1)
	if err != nil {
		return nil, err
	}
	reg, err := ip.lookupQReg(spec)
	if err != nil {
		return nil, err
	}
	v := reg.integer + n
	if err := reg.setInteger(ip, v); err != nil {
		return nil, err
	}
	ip.expr.Push(v)
	return ip.states.start, nil
}

func doneMacroQ(ip *Interp, spec qregSpec) (state, error) {
	sharedLocals := ip.takeColon()
	if !ip.beginExec() {
		return ip.states.start, nil
	}
	reg, err := ip.lookupQReg(spec)
	if err != nil {
		return nil, err
	}
	src := reg.stringValue(ip)
	if err := ip.executeMacro(src, "M"+spec.String(), !sharedLocals); err != nil {
		return nil, err
	}
	return ip.states.start, nil
}

func doneExtractQ(ip *Interp, spec qregSpec) (state, error) {
	appendMode := ip.takeColon()
	if !ip.beginExec() {
		return ip.states.start, nil
	}
	from, to, err := ip.lineArgRange()
	if err != nil {
		return nil, err
	}
	reg, err := ip.lookupQReg(spec)
	if err != nil {
		return nil, err
	}
	text := string(ip.view.TextRange(from, to))
	if appendMode {
		err = reg.appendString(ip, text)
	} else {
		err = reg.setString(ip, text)
	}
	if err != nil {
		return nil, err
	}
	return ip.states.start, nil
}

func doneCopyQ(ip *Interp, spec qregSpec) (state, error) {
	print := ip.takeColon()
	if !ip.beginExec() {
		return ip.states.start, nil
	}
	reg, err := ip.lookupQReg(spec)
	if err != nil {
		return nil, err
	}
	s := reg.stringValue(ip)
	if print {
		ip.ui.Message(s)
		return ip.states.start, nil
	}
	if err := ip.insertText([]byte(s)); err != nil {
		return nil, err
	}
	return ip.states.start, nil
}

// qregSnapshot is one entry of the register stack.
type qregSnapshot struct {
	integer int64
	str     string
}

func donePushQ(ip *Interp, spec qregSpec) (state, error) {
	ip.takeColon()
	if !ip.beginExec() {
		return ip.states.start, nil
	}
	reg, err := ip.lookupQReg(spec)
	if err != nil {
		return nil, err
	}
	ip.qstack = append(ip.qstack, qregSnapshot{
		integer: reg.integer,
		str:     reg.stringValue(ip),
	})
	return ip.states.start, nil
}

func donePopQ(ip *Interp, spec qregSpec) (state, error) {
	colon := ip.takeColon()
	if !ip.beginExec() {
		return ip.states.start, nil
	}
	if len(ip.qstack) == 0 {
		if colon {
			ip.expr.Push(0)
			return ip.states.start, nil
		}
		return nil, newError(KindStackEmpty, "")
	}
	top := ip.qstack[len(ip.qstack)-1]
	ip.qstack = ip.qstack[:len(ip.qstack)-1]
	reg, err := ip.lookupQReg(spec)
	if err != nil {
		return nil, err
	}
	if err := reg.setInteger(ip, top.integer); err != nil {
		return nil, err
	}
	if err := reg.setString(ip, top.str); err != nil {
		return nil, err
	}
	if colon {
		ip.expr.Push(-1)
	}
	return ip.states.start, nil
}

func doneCtlUQ(ip *Interp, spec qregSpec) (state, error) {
	// The colon modifier selects append mode and is consumed by the string
	// hook.
	return ip.states.ctlUStr, nil
}

func doneCtlU(ip *Interp, arg string) (state, error) {
	appendMode := ip.takeColon()
	if !ip.beginExec() {
		return ip.states.start, nil
	}
	reg, err := ip.lookupQReg(ip.pendingSpec)
	if err != nil {
		return nil, err
	}
	if appendMode {
		err = reg.appendString(ip, arg)
	} else {
		err = reg.setString(ip, arg)
	}
	if err != nil {
		return nil, err
	}
	return ip.states.start, nil
}

// editQReg makes a register the current edit target, as EQ with an empty
// file name does.
func (ip *Interp) editQReg(reg *QRegister) error {
	if reg.getStr != nil || reg.readOnly {
		return newError(KindInvalidQReg, "register %s cannot be edited", reg.name)
	}
	reg.materialize(ip)
	if ip.recordUndo() {
		prev := ip.view.CurrentDoc()
		ip.log.PushFunc(func() {
			ip.view.SetDocPointer(prev)
		})
	}
	ip.view.SetDocPointer(reg.docID)
	ip.curReg = reg
	ip.ui.Info("register " + reg.name)
	return nil
}
