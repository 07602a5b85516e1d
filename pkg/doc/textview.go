package doc

import (
	"fmt"

	"github.com/tecoline/gteco/pkg/logutil"
)

var logger = logutil.GetLogger("[doc] ")

// TextView is the in-memory implementation of [View]. It keeps all allocated
// documents in an arena keyed by handle.
type TextView struct {
	docs map[DocumentID]*document
	next DocumentID
	cur  DocumentID
}

// NewView returns an empty TextView. No document is installed; callers must
// allocate one with NewDocument and install it with SetDocPointer before
// sending editing messages.
func NewView() *TextView {
	return &TextView{docs: make(map[DocumentID]*document)}
}

type document struct {
	buf      []byte
	dot      int64
	eol      EolMode
	useTabs  bool
	tabWidth int64

	groups  [][]change
	pending []change
	depth   int
}

// change records one modification: the bytes at pos were replaced. dot is
// the caret position before the change.
type change struct {
	pos      int64
	removed  []byte
	inserted []byte
	dot      int64
}

func (v *TextView) NewDocument() DocumentID {
	v.next++
	id := v.next
	v.docs[id] = &document{eol: EolLF, useTabs: true, tabWidth: 8}
	return id
}

func (v *TextView) ReleaseDocument(id DocumentID) {
	if id == v.cur {
		panic(fmt.Sprintf("release of installed document %d", id))
	}
	delete(v.docs, id)
}

func (v *TextView) SetDocPointer(id DocumentID) {
	if v.docs[id] == nil {
		panic(fmt.Sprintf("install of unknown document %d", id))
	}
	v.cur = id
}

func (v *TextView) CurrentDoc() DocumentID { return v.cur }

func (v *TextView) doc() *document {
	d := v.docs[v.cur]
	if d == nil {
		panic("no document installed")
	}
	return d
}

// record notes that length bytes at pos are about to be replaced by ins, and
// applies the replacement.
func (d *document) replace(pos, length int64, ins []byte) {
	ch := change{
		pos:      pos,
		removed:  append([]byte(nil), d.buf[pos:pos+length]...),
		inserted: append([]byte(nil), ins...),
		dot:      d.dot,
	}
	if d.depth > 0 {
		d.pending = append(d.pending, ch)
	} else {
		d.groups = append(d.groups, []change{ch})
	}
	d.buf = append(d.buf[:pos], append(append([]byte(nil), ins...), d.buf[pos+length:]...)...)
}

func (v *TextView) SetText(s []byte) {
	d := v.doc()
	d.replace(0, int64(len(d.buf)), s)
	d.dot = 0
}

func (v *TextView) ClearAll() {
	d := v.doc()
	d.replace(0, int64(len(d.buf)), nil)
	d.dot = 0
}

func (v *TextView) AddText(s []byte) {
	d := v.doc()
	d.replace(d.dot, 0, s)
	d.dot += int64(len(s))
}

func (v *TextView) AppendText(s []byte) {
	d := v.doc()
	d.replace(int64(len(d.buf)), 0, s)
}

func (v *TextView) InsertText(pos int64, s []byte) {
	d := v.doc()
	pos = d.clamp(pos)
	d.replace(pos, 0, s)
	if d.dot >= pos {
		d.dot += int64(len(s))
	}
}

func (v *TextView) DeleteRange(pos, length int64) {
	d := v.doc()
	pos = d.clamp(pos)
	if pos+length > int64(len(d.buf)) {
		length = int64(len(d.buf)) - pos
	}
	if length <= 0 {
		return
	}
	d.replace(pos, length, nil)
	switch {
	case d.dot >= pos+length:
		d.dot -= length
	case d.dot > pos:
		d.dot = pos
	}
}

func (v *TextView) CurrentPos() int64 { return v.doc().dot }

func (v *TextView) Length() int64 { return int64(len(v.doc().buf)) }

func (v *TextView) CharAt(pos int64) byte {
	d := v.doc()
	if pos < 0 || pos >= int64(len(d.buf)) {
		return 0
	}
	return d.buf[pos]
}

func (v *TextView) TextRange(from, to int64) []byte {
	d := v.doc()
	from, to = d.clamp(from), d.clamp(to)
	if from > to {
		from, to = to, from
	}
	return append([]byte(nil), d.buf[from:to]...)
}

func (v *TextView) CharacterPointer() []byte { return v.doc().buf }

func (v *TextView) GotoPos(pos int64) {
	d := v.doc()
	d.dot = d.clamp(pos)
}

func (v *TextView) GotoLine(line int64) {
	v.GotoPos(v.PositionFromLine(line))
}

func (v *TextView) LineFromPosition(pos int64) int64 {
	d := v.doc()
	pos = d.clamp(pos)
	var line int64
	for i := int64(0); i < pos; i++ {
		if d.eolAt(i) {
			line++
		}
	}
	return line
}

func (v *TextView) PositionFromLine(line int64) int64 {
	d := v.doc()
	if line <= 0 {
		return 0
	}
	for i := int64(0); i < int64(len(d.buf)); i++ {
		if d.eolAt(i) {
			line--
			if line == 0 {
				return i + d.eolLenAt(i)
			}
		}
	}
	return int64(len(d.buf))
}

func (v *TextView) LineCount() int64 {
	d := v.doc()
	var n int64 = 1
	for i := int64(0); i < int64(len(d.buf)); i++ {
		if d.eolAt(i) {
			n++
		}
	}
	return n
}

func (v *TextView) Column(pos int64) int64 {
	d := v.doc()
	pos = d.clamp(pos)
	start := v.PositionFromLine(v.LineFromPosition(pos))
	var col int64
	for i := start; i < pos; i++ {
		if d.buf[i] == '\t' {
			col += d.tabWidth - col%d.tabWidth
		} else {
			col++
		}
	}
	return col
}

// eolAt reports whether an end-of-line starts at position i. In a CRLF pair
// only the first byte counts.
func (d *document) eolAt(i int64) bool {
	switch d.buf[i] {
	case '\n':
		return i == 0 || d.buf[i-1] != '\r'
	case '\r':
		return true
	}
	return false
}

func (d *document) eolLenAt(i int64) int64 {
	if d.buf[i] == '\r' && i+1 < int64(len(d.buf)) && d.buf[i+1] == '\n' {
		return 2
	}
	return 1
}

func isWordChar(b byte) bool {
	return b == '_' ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

func (v *TextView) WordRightEnd(pos int64) int64 {
	d := v.doc()
	i := d.clamp(pos)
	for i < int64(len(d.buf)) && !isWordChar(d.buf[i]) {
		i++
	}
	for i < int64(len(d.buf)) && isWordChar(d.buf[i]) {
		i++
	}
	return i
}

func (v *TextView) WordLeftEnd(pos int64) int64 {
	d := v.doc()
	i := d.clamp(pos)
	for i > 0 && isWordChar(d.buf[i-1]) {
		i--
	}
	for i > 0 && !isWordChar(d.buf[i-1]) {
		i--
	}
	return i
}

func (v *TextView) DelWordRightEnd() {
	d := v.doc()
	end := v.WordRightEnd(d.dot)
	v.DeleteRange(d.dot, end-d.dot)
}

func (v *TextView) BeginUndoAction() {
	v.doc().depth++
}

func (v *TextView) EndUndoAction() {
	d := v.doc()
	if d.depth == 0 {
		logger.Println("unbalanced EndUndoAction")
		return
	}
	d.depth--
	if d.depth == 0 && len(d.pending) > 0 {
		d.groups = append(d.groups, d.pending)
		d.pending = nil
	}
}

func (v *TextView) Undo() {
	d := v.doc()
	if len(d.groups) == 0 {
		return
	}
	group := d.groups[len(d.groups)-1]
	d.groups = d.groups[:len(d.groups)-1]
	for i := len(group) - 1; i >= 0; i-- {
		ch := group[i]
		d.buf = append(d.buf[:ch.pos],
			append(append([]byte(nil), ch.removed...), d.buf[ch.pos+int64(len(ch.inserted)):]...)...)
		d.dot = ch.dot
	}
}

func (v *TextView) EolMode() EolMode { return v.doc().eol }

func (v *TextView) SetEolMode(m EolMode) { v.doc().eol = m }

func (v *TextView) SetUseTabs(b bool) { v.doc().useTabs = b }

func (v *TextView) UseTabs() bool { return v.doc().useTabs }

func (v *TextView) TabWidth() int64 { return v.doc().tabWidth }

func (d *document) clamp(pos int64) int64 {
	if pos < 0 {
		return 0
	}
	if pos > int64(len(d.buf)) {
		return int64(len(d.buf))
	}
	return pos
}
