// Package doc defines the message surface of the text-editing component and
// provides an in-memory implementation of it.
//
// The editor core never holds documents directly. It owns DocumentID handles
// and resolves them through a View, which keeps all documents alive and has
// exactly one of them installed as the target of editing messages at any
// time. This mirrors how a real editing widget exposes one visible document
// while others stay detached in the background.
package doc

// DocumentID is a handle to a document kept by a View. The zero value is
// invalid.
type DocumentID int32

// EolMode determines how line ends are represented in a document.
type EolMode int

// Supported end-of-line modes.
const (
	EolCRLF EolMode = 0
	EolCR   EolMode = 1
	EolLF   EolMode = 2
)

// Bytes returns the byte sequence that terminates a line in this mode.
func (m EolMode) Bytes() []byte {
	switch m {
	case EolCRLF:
		return []byte("\r\n")
	case EolCR:
		return []byte("\r")
	default:
		return []byte("\n")
	}
}

func (m EolMode) String() string {
	switch m {
	case EolCRLF:
		return "CRLF"
	case EolCR:
		return "CR"
	default:
		return "LF"
	}
}

// View is the contract to the text-editing component. Positions are byte
// offsets; lines are 0-based. Reading messages may be issued freely;
// modifying messages must be paired with an Undo push in the caller's
// operation log so that rubout reverts them.
type View interface {
	// NewDocument allocates a fresh empty document and returns its handle.
	NewDocument() DocumentID
	// ReleaseDocument frees a document. Releasing the installed document is
	// a programming error.
	ReleaseDocument(id DocumentID)
	// SetDocPointer installs the given document as the target of all
	// editing messages.
	SetDocPointer(id DocumentID)
	// CurrentDoc returns the installed document's handle.
	CurrentDoc() DocumentID

	SetText(s []byte)
	ClearAll()
	// AddText inserts at the caret and moves the caret past the insertion.
	AddText(s []byte)
	// AppendText inserts at the end without moving the caret.
	AppendText(s []byte)
	// InsertText inserts at pos without moving the caret, except that a
	// caret at or after pos shifts with the text.
	InsertText(pos int64, s []byte)
	DeleteRange(pos, length int64)

	CurrentPos() int64
	Length() int64
	CharAt(pos int64) byte
	TextRange(from, to int64) []byte
	// CharacterPointer returns the raw contents. The slice aliases the
	// document and is invalidated by the next modification.
	CharacterPointer() []byte

	GotoPos(pos int64)
	GotoLine(line int64)
	LineFromPosition(pos int64) int64
	PositionFromLine(line int64) int64
	LineCount() int64
	Column(pos int64) int64

	WordLeftEnd(pos int64) int64
	WordRightEnd(pos int64) int64
	DelWordRightEnd()

	// BeginUndoAction and EndUndoAction bracket modifications into one
	// atomic group for Undo. Groups nest; only the outermost pair counts.
	BeginUndoAction()
	EndUndoAction()
	// Undo reverts the most recent modification group of the installed
	// document.
	Undo()

	EolMode() EolMode
	SetEolMode(m EolMode)
	SetUseTabs(v bool)
	UseTabs() bool
	TabWidth() int64

	// Send dispatches a message by number, for callers that select the
	// operation at runtime. s is the string operand of messages that take
	// one; the return value is the result of reading messages and 0
	// otherwise.
	Send(msg Msg, w, l int64, s string) int64
}
