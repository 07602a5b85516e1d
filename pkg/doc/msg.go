package doc

import "strings"

// Msg numbers a View operation for runtime dispatch. The numbers are
// internal; callers obtain them from [LookupMessage].
type Msg int

// Messages accepted by Send.
const (
	MsgSetText Msg = 1 + iota
	MsgClearAll
	MsgAddText
	MsgAppendText
	MsgInsertText
	MsgDeleteRange
	MsgGetCurrentPos
	MsgGetLength
	MsgGetCharAt
	MsgGotoPos
	MsgGotoLine
	MsgLineFromPosition
	MsgPositionFromLine
	MsgGetLineCount
	MsgGetColumn
	MsgWordLeftEnd
	MsgWordRightEnd
	MsgDelWordRightEnd
	MsgBeginUndoAction
	MsgEndUndoAction
	MsgUndo
	MsgGetEolMode
	MsgSetEolMode
	MsgSetUseTabs
	MsgGetUseTabs
	MsgGetTabWidth
)

var msgNames = map[string]Msg{
	"SETTEXT":          MsgSetText,
	"CLEARALL":         MsgClearAll,
	"ADDTEXT":          MsgAddText,
	"APPENDTEXT":       MsgAppendText,
	"INSERTTEXT":       MsgInsertText,
	"DELETERANGE":      MsgDeleteRange,
	"GETCURRENTPOS":    MsgGetCurrentPos,
	"GETLENGTH":        MsgGetLength,
	"GETCHARAT":        MsgGetCharAt,
	"GOTOPOS":          MsgGotoPos,
	"GOTOLINE":         MsgGotoLine,
	"LINEFROMPOSITION": MsgLineFromPosition,
	"POSITIONFROMLINE": MsgPositionFromLine,
	"GETLINECOUNT":     MsgGetLineCount,
	"GETCOLUMN":        MsgGetColumn,
	"WORDLEFTEND":      MsgWordLeftEnd,
	"WORDRIGHTEND":     MsgWordRightEnd,
	"DELWORDRIGHTEND":  MsgDelWordRightEnd,
	"BEGINUNDOACTION":  MsgBeginUndoAction,
	"ENDUNDOACTION":    MsgEndUndoAction,
	"UNDO":             MsgUndo,
	"GETEOLMODE":       MsgGetEolMode,
	"SETEOLMODE":       MsgSetEolMode,
	"SETUSETABS":       MsgSetUseTabs,
	"GETUSETABS":       MsgGetUseTabs,
	"GETTABWIDTH":      MsgGetTabWidth,
}

// LookupMessage resolves a symbolic message name. Names are case-insensitive
// and may carry a "SCI_" prefix.
func LookupMessage(name string) (Msg, bool) {
	name = strings.ToUpper(name)
	name = strings.TrimPrefix(name, "SCI_")
	msg, ok := msgNames[name]
	return msg, ok
}

// MessageNames returns all symbolic message names, for completion.
func MessageNames() []string {
	names := make([]string, 0, len(msgNames))
	for name := range msgNames {
		names = append(names, name)
	}
	return names
}

func (v *TextView) Send(msg Msg, w, l int64, s string) int64 {
	switch msg {
	case MsgSetText:
		v.SetText([]byte(s))
	case MsgClearAll:
		v.ClearAll()
	case MsgAddText:
		v.AddText([]byte(s))
	case MsgAppendText:
		v.AppendText([]byte(s))
	case MsgInsertText:
		v.InsertText(w, []byte(s))
	case MsgDeleteRange:
		v.DeleteRange(w, l)
	case MsgGetCurrentPos:
		return v.CurrentPos()
	case MsgGetLength:
		return v.Length()
	case MsgGetCharAt:
		return int64(v.CharAt(w))
	case MsgGotoPos:
		v.GotoPos(w)
	case MsgGotoLine:
		v.GotoLine(w)
	case MsgLineFromPosition:
		return v.LineFromPosition(w)
	case MsgPositionFromLine:
		return v.PositionFromLine(w)
	case MsgGetLineCount:
		return v.LineCount()
	case MsgGetColumn:
		return v.Column(w)
	case MsgWordLeftEnd:
		return v.WordLeftEnd(w)
	case MsgWordRightEnd:
		return v.WordRightEnd(w)
	case MsgDelWordRightEnd:
		v.DelWordRightEnd()
	case MsgBeginUndoAction:
		v.BeginUndoAction()
	case MsgEndUndoAction:
		v.EndUndoAction()
	case MsgUndo:
		v.Undo()
	case MsgGetEolMode:
		return int64(v.EolMode())
	case MsgSetEolMode:
		v.SetEolMode(EolMode(w))
	case MsgSetUseTabs:
		v.SetUseTabs(w != 0)
	case MsgGetUseTabs:
		if v.UseTabs() {
			return 1
		}
	case MsgGetTabWidth:
		return v.TabWidth()
	}
	return 0
}
