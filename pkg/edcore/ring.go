package edcore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tecoline/gteco/pkg/doc"
	"github.com/tecoline/gteco/pkg/undo"
)

// Buffer is one entry of the buffer ring.
type Buffer struct {
	id       int
	filename string
	docID    doc.DocumentID
	dirty    bool
}

func (b *Buffer) display() string {
	if b.filename == "" {
		return "(Unnamed)"
	}
	return b.filename
}

// Ring is the ordered collection of open buffers. Exactly one buffer is
// current unless a register is being edited.
type Ring struct {
	ip     *Interp
	bufs   []*Buffer
	cur    *Buffer
	nextID int
}

func newRing(ip *Interp) *Ring {
	return &Ring{ip: ip, nextID: 1}
}

// Current returns the current buffer.
func (r *Ring) Current() *Buffer { return r.cur }

// Buffers returns the buffers in ring order.
func (r *Ring) Buffers() []*Buffer { return r.bufs }

func (r *Ring) addBuffer(filename string) *Buffer {
	b := &Buffer{
		id:       r.nextID,
		filename: filename,
		docID:    r.ip.view.NewDocument(),
	}
	r.nextID++
	r.bufs = append(r.bufs, b)
	if r.ip.log.Enabled {
		r.ip.log.PushFunc(func() { r.removeBuffer(b, true) })
	}
	return b
}

func (r *Ring) removeBuffer(b *Buffer, release bool) {
	for i, x := range r.bufs {
		if x == b {
			r.bufs = append(r.bufs[:i], r.bufs[i+1:]...)
			break
		}
	}
	if release && r.ip.view.CurrentDoc() != b.docID {
		r.ip.view.ReleaseDocument(b.docID)
	}
}

// switchTo makes b current. The previous target is restored on rubout.
func (r *Ring) switchTo(b *Buffer) {
	if r.ip.log.Enabled {
		prev := r.cur
		prevDoc := r.ip.view.CurrentDoc()
		r.ip.log.PushFunc(func() {
			r.cur = prev
			r.ip.view.SetDocPointer(prevDoc)
			r.updateInfo()
		})
	}
	r.cur = b
	r.ip.curReg = nil
	r.ip.view.SetDocPointer(b.docID)
	r.updateInfo()
}

func (r *Ring) updateInfo() {
	if r.cur == nil {
		return
	}
	name := r.cur.display()
	if r.cur.dirty {
		name += " *"
	}
	r.ip.ui.Info(name)
}

// editUnnamed installs a fresh unnamed buffer, as on startup and after the
// last buffer is closed.
func (r *Ring) editUnnamed() {
	r.switchTo(r.addBuffer(""))
}

// edit opens the file in a buffer and makes it current. An already open
// file is revisited, not read again.
func (r *Ring) edit(path string) error {
	for _, b := range r.bufs {
		if b.filename == path {
			r.switchTo(b)
			r.runHook(HookEdit)
			return nil
		}
	}
	// An empty unnamed pristine buffer is taken over instead of piling up.
	if b := r.cur; b != nil && b.filename == "" && !b.dirty &&
		r.ip.curReg == nil && r.ip.view.Length() == 0 {
		return r.loadInto(b, path)
	}
	b := r.addBuffer(path)
	if err := r.loadInto(b, path); err != nil {
		return err
	}
	return nil
}

func (r *Ring) loadInto(b *Buffer, path string) error {
	undo.SetVar(r.ip.log, &b.filename, path)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		r.ip.withDoc(b.docID, func() {
			r.ip.view.SetText(data)
			r.ip.view.SetEolMode(detectEol(data))
			r.ip.view.GotoPos(0)
		})
	case os.IsNotExist(err):
		r.ip.ui.Message("New file: " + path)
	default:
		return newError(KindFile, "%v", err)
	}
	r.switchTo(b)
	r.runHook(HookAdd)
	return nil
}

// editID makes the buffer with the given ring id current.
func (r *Ring) editID(id int) error {
	for _, b := range r.bufs {
		if b.id == id {
			r.switchTo(b)
			r.runHook(HookEdit)
			return nil
		}
	}
	return newError(KindFile, "no buffer %d", id)
}

// list renders the ring for the 0EB popup.
func (r *Ring) list() string {
	var sb strings.Builder
	for _, b := range r.bufs {
		marker := ' '
		if b == r.cur {
			marker = '*'
		}
		dirty := ""
		if b.dirty {
			dirty = " (modified)"
		}
		fmt.Fprintf(&sb, "%c%d %s%s\n", marker, b.id, b.display(), dirty)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// closeCurrent removes the current buffer. The following buffer, or the
// previous at the end of the ring, becomes current; closing the only buffer
// leaves a fresh unnamed one.
func (r *Ring) closeCurrent(force bool) error {
	b := r.cur
	if b.dirty && !force {
		return newError(KindFile, "buffer %s has unsaved changes", b.display())
	}
	r.runHook(HookClose)
	idx := 0
	for i, x := range r.bufs {
		if x == b {
			idx = i
			break
		}
	}
	if r.ip.log.Enabled {
		at := idx
		r.ip.log.PushFunc(func() {
			r.bufs = append(r.bufs[:at], append([]*Buffer{b}, r.bufs[at:]...)...)
		})
	}
	r.removeBuffer(b, !r.ip.log.Enabled)
	switch {
	case len(r.bufs) == 0:
		r.editUnnamed()
	case idx < len(r.bufs):
		r.switchTo(r.bufs[idx])
	default:
		r.switchTo(r.bufs[len(r.bufs)-1])
	}
	return nil
}

// save writes the current buffer out. A non-empty name renames the buffer.
func (r *Ring) save(fname string) error {
	if r.ip.curReg != nil {
		return newError(KindRegEdited, "save while editing register %s", r.ip.curReg.name)
	}
	b := r.cur
	target := fname
	if target == "" {
		target = b.filename
	}
	if target == "" {
		return newError(KindFile, "no file name")
	}
	if err := r.ip.saveFile(target, r.ip.view.CharacterPointer()); err != nil {
		return err
	}
	undo.SetVar(r.ip.log, &b.filename, target)
	undo.SetVar(r.ip.log, &b.dirty, false)
	r.updateInfo()
	return nil
}

// savepoint records a file moved aside before being overwritten, so rubout
// can restore the previous contents and acceptance can drop them.
type savepoint struct {
	orig  string
	moved string
}

// saveFile writes data to path. Interactively the previous file is first
// renamed to a hidden savepoint in the same directory, so the write can be
// rubbed out.
func (ip *Interp) saveFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	st, statErr := os.Stat(path)
	if statErr == nil {
		mode = st.Mode()
	}
	if ip.log.Enabled {
		if statErr == nil {
			ip.savepointSeq++
			moved := filepath.Join(filepath.Dir(path),
				fmt.Sprintf(".teco-%s-%d", filepath.Base(path), ip.savepointSeq))
			if err := os.Rename(path, moved); err != nil {
				return newError(KindFile, "%v", err)
			}
			sp := &savepoint{orig: path, moved: moved}
			ip.savepoints = append(ip.savepoints, sp)
			ip.log.PushFunc(func() {
				if err := os.Rename(sp.moved, sp.orig); err != nil {
					logger.Println("savepoint restore failed:", err)
				}
				ip.dropSavepoint(sp)
			})
		} else {
			ip.log.PushFunc(func() {
				if err := os.Remove(path); err != nil {
					logger.Println("save rubout failed:", err)
				}
			})
		}
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return newError(KindFile, "%v", err)
	}
	return nil
}

func (ip *Interp) dropSavepoint(sp *savepoint) {
	for i, x := range ip.savepoints {
		if x == sp {
			ip.savepoints = append(ip.savepoints[:i], ip.savepoints[i+1:]...)
			return
		}
	}
}

// acceptSavepoints deletes the moved-aside files once a command line is
// accepted and its writes become permanent.
func (ip *Interp) acceptSavepoints() {
	for _, sp := range ip.savepoints {
		if err := os.Remove(sp.moved); err != nil {
			logger.Println("savepoint cleanup failed:", err)
		}
	}
	ip.savepoints = nil
}

// runHook executes the hook macro from register 0 with the hook type as its
// argument. Hooks only run when enabled in the ED flags; a failing hook is
// reported but never fails the triggering command.
func (r *Ring) runHook(t HookType) {
	ip := r.ip
	if ip.edFlags&32 == 0 {
		return
	}
	reg, ok := ip.globals.regs["0"]
	if !ok {
		return
	}
	src := reg.stringValue(ip)
	if src == "" {
		return
	}
	ip.expr.Push(int64(t))
	if err := ip.executeMacro(src, "hook", true); err != nil {
		if e, ok := err.(*Error); ok {
			ip.ui.Message(e.Show(""))
		} else {
			ip.ui.Message(err.Error())
		}
	}
}

// dirtify marks the current buffer as modified. Register edits never dirty
// a buffer.
func (ip *Interp) dirtify() {
	if ip.curReg != nil {
		return
	}
	b := ip.ring.cur
	if b == nil || b.dirty {
		return
	}
	undo.SetVar(ip.log, &b.dirty, true)
	ip.ring.updateInfo()
}

func detectEol(data []byte) doc.EolMode {
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return doc.EolLF
		}
		if i+1 < len(data) && data[i+1] == '\n' {
			return doc.EolCRLF
		}
		return doc.EolCR
	}
	return doc.EolLF
}
