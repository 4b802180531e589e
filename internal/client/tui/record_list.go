package tui

import (
	"github.com/gcla/gowid"
	"github.com/gcla/gowid/widgets/list"
)

// A RecordList is a scrollable list of Rows.
// It implements gowid.IWidget by delegating to its presentation.
type RecordList struct {
	presentation list.IWidget
	abstraction  *recordListAbstraction
}

// NewRecordList returns a new RecordList.
func NewRecordList(rows []*Row) *RecordList {
	abs := &recordListAbstraction{widgets: rows}

	return &RecordList{
		presentation: list.New(abs),
		abstraction:  abs,
	}
}

// Length returns the number of rows.
func (w *RecordList) Length() int {
	return w.abstraction.Length()
}

////////////////////
//                //
// Delegates      //
//                //
////////////////////

// Render implements gowid.IWidget
func (w *RecordList) Render(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.ICanvas {
	return w.presentation.Render(size, focus, app)
}

// RenderSize implements gowid.IWidget
func (w *RecordList) RenderSize(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.IRenderBox {
	return w.presentation.RenderSize(size, focus, app)
}

// UserInput implements gowid.IWidget
func (w *RecordList) UserInput(ev any, size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) bool {
	return w.presentation.UserInput(ev, size, focus, app)
}

// Selectable implements gowid.IWidget
func (w *RecordList) Selectable() bool {
	return w.presentation.Selectable()
}

////////////////////
//                //
// Abstraction    //
//                //
////////////////////

// A recordListAbstraction is a list of Rows to interract with.
// It implements list.IWalker interface.
type recordListAbstraction struct {
	widgets []*Row
	focus   list.ListPos
}

func (w *recordListAbstraction) First() list.IWalkerPosition {
	if len(w.widgets) == 0 {
		return nil
	}
	return list.ListPos(0)
}

func (w *recordListAbstraction) Last() list.IWalkerPosition {
	if len(w.widgets) == 0 {
		return nil
	}
	return list.ListPos(len(w.widgets) - 1)
}

func (w *recordListAbstraction) Length() int {
	return len(w.widgets)
}

func (w *recordListAbstraction) At(pos list.IWalkerPosition) gowid.IWidget {
	var res gowid.IWidget
	ipos := int(pos.(list.ListPos))
	if ipos >= 0 && ipos < w.Length() {
		res = w.widgets[ipos]
	}
	return res
}

func (w *recordListAbstraction) Focus() list.IWalkerPosition {
	return w.focus
}

func (w *recordListAbstraction) SetFocus(focus list.IWalkerPosition, app gowid.IApp) {
	w.focus = focus.(list.ListPos)
}

func (w *recordListAbstraction) Next(ipos list.IWalkerPosition) list.IWalkerPosition {
	pos := ipos.(list.ListPos)
	if int(pos) == w.Length()-1 {
		return list.ListPos(-1)
	}
	return pos + 1
}

func (w *recordListAbstraction) Previous(ipos list.IWalkerPosition) list.IWalkerPosition {
	pos := ipos.(list.ListPos)
	if pos-1 == -1 {
		return list.ListPos(-1)
	}
	return pos - 1
}
