package tui

import (
	"strconv"

	"github.com/gcla/gowid"
	"github.com/gcla/gowid/widgets/button"
	"github.com/gcla/gowid/widgets/columns"
	"github.com/gcla/gowid/widgets/styled"
	"github.com/gcla/gowid/widgets/text"
	"github.com/mdouchement/dma/pkg/libdma"
)

const (
	idWidth     = 8
	actionWidth = 10
)

// A Row is the graphical representation of a libdma.Record.
type Row struct {
	ID           int64
	presentation gowid.IWidget
	abstraction  libdma.Record
}

// NewRow returns a new Row with its Update and Delete actions.
func NewRow(r libdma.Record, update, remove func(r libdma.Record)) *Row {
	return &Row{
		ID: r.ID,
		presentation: columns.New([]gowid.IContainerWidget{
			cell(text.New(strconv.FormatInt(r.ID, 10)), gowid.RenderWithUnits{U: idWidth}),
			cell(text.New(r.Data), gowid.RenderWithWeight{W: 4}),
			cell(text.New(r.Username), gowid.RenderWithWeight{W: 1}),
			cell(newButton("Update", func() { update(r) }), gowid.RenderWithUnits{U: actionWidth}),
			cell(newButton("Delete", func() { remove(r) }), gowid.RenderWithUnits{U: actionWidth}),
		}),
		abstraction: r,
	}
}

// Record returns the displayed record.
func (w *Row) Record() libdma.Record {
	return w.abstraction
}

func header() gowid.IWidget {
	return styled.New(
		columns.New([]gowid.IContainerWidget{
			cell(text.New("ID"), gowid.RenderWithUnits{U: idWidth}),
			cell(text.New("Data"), gowid.RenderWithWeight{W: 4}),
			cell(text.New("Username"), gowid.RenderWithWeight{W: 1}),
			cell(text.New(""), gowid.RenderWithUnits{U: 2 * actionWidth}),
		}),
		gowid.MakePaletteRef("header"),
	)
}

////////////////////
//                //
// Delegates      //
//                //
////////////////////

// Render implements gowid.IWidget
func (w *Row) Render(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.ICanvas {
	return w.presentation.Render(size, focus, app)
}

// RenderSize implements gowid.IWidget
func (w *Row) RenderSize(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.IRenderBox {
	return w.presentation.RenderSize(size, focus, app)
}

// UserInput implements gowid.IWidget
func (w *Row) UserInput(ev any, size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) bool {
	return w.presentation.UserInput(ev, size, focus, app)
}

// Selectable implements gowid.IWidget
func (w *Row) Selectable() bool {
	return w.presentation.Selectable()
}

////////////////////
//                //
// Helpers        //
//                //
////////////////////

// newButton returns a button calling fn on the UI goroutine when clicked.
func newButton(label string, fn func()) gowid.IWidget {
	b := button.New(text.New(label))
	b.OnClick(gowid.WidgetCallback{Name: "cb", WidgetChangedFunction: func(app gowid.IApp, iw gowid.IWidget) {
		fn()
	}})

	return styled.NewExt(b, gowid.MakePaletteRef("normal"), gowid.MakePaletteRef("focused"))
}

func buttons(ws ...gowid.IWidget) gowid.IWidget {
	cells := make([]gowid.IContainerWidget, 0, 2*len(ws)+1)
	for _, w := range ws {
		cells = append(cells,
			cell(w, gowid.RenderFixed{}),
			cell(text.New(" "), gowid.RenderWithUnits{U: 1}),
		)
	}
	cells = append(cells, cell(text.New(""), gowid.RenderWithWeight{W: 1}))

	return columns.New(cells)
}

func cell(w gowid.IWidget, d gowid.IWidgetDimension) gowid.IContainerWidget {
	return &gowid.ContainerWidget{IWidget: w, D: d}
}

func flow(w gowid.IWidget) gowid.IContainerWidget {
	return cell(w, gowid.RenderFlow{})
}
