// Package tui is the text-based interface of the dma client.
package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bep/debounce"
	"github.com/gcla/gowid"
	"github.com/gcla/gowid/widgets/edit"
	"github.com/gcla/gowid/widgets/framed"
	"github.com/gcla/gowid/widgets/null"
	"github.com/gcla/gowid/widgets/pile"
	"github.com/gcla/gowid/widgets/styled"
	"github.com/gcla/gowid/widgets/text"
	"github.com/gdamore/tcell/v2"
	"github.com/mdouchement/dma/internal/client/app"
	"github.com/mdouchement/dma/pkg/libdma"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const statusDelay = 4 * time.Second

// A TUI is a text-based interface.
type TUI struct {
	App    *gowid.App
	client *app.App
	log    *logrus.Logger

	pane   *framed.Widget
	banner *text.Widget
	status *text.Widget
	clear  func(func())

	credential *edit.Widget
	guestName  *edit.Widget
	input      *edit.Widget
	update     *edit.Widget

	built   bool
	layout  layoutKey
	message string
}

// layoutKey identifies what the main pane displays.
type layoutKey struct {
	screen  app.Screen
	guest   bool
	update  bool
	records []libdma.Record
}

func (k layoutKey) equal(o layoutKey) bool {
	return k.screen == o.screen && k.guest == o.guest && k.update == o.update && slices.Equal(k.records, o.records)
}

// New returns a new TUI rendering the given application.
func New(client *app.App, log *logrus.Logger) (*TUI, error) {
	ui := &TUI{
		client:     client,
		log:        log,
		pane:       framed.NewUnicode(null.New()),
		banner:     text.New(""),
		status:     text.New(""),
		clear:      debounce.New(statusDelay),
		credential: edit.New(edit.Options{Caption: "Credential: "}),
		guestName:  edit.New(edit.Options{Caption: "Guest name: "}),
		input:      edit.New(edit.Options{Caption: "Data: "}),
		update:     edit.New(edit.Options{Caption: "Data: "}),
	}

	application, err := gowid.NewApp(layout(ui))
	if err != nil {
		return ui, errors.Wrap(err, "could not create application widgets")
	}
	ui.App = application

	client.OnChange(func() {
		ui.App.Run(gowid.RunFunction(ui.refresh)) // nolint:errcheck
	})
	ui.refresh(ui.App)

	return ui, nil
}

// Run starts the application and thus the event loop.
func (ui *TUI) Run() {
	ui.App.MainLoop(gowid.UnhandledInputFunc(ui.unhandled))
}

// Cleanup cleans the application properly (in case of panic).
func (ui *TUI) Cleanup() {
	ui.App.GetScreen().Fini() // Cleanup tcell screen's objects
}

// DisplayStatus displays a message in the status bar (aka notifications).
// It must be called from the UI goroutine.
func (ui *TUI) DisplayStatus(message string, app gowid.IApp) {
	ui.message = message
	ui.status.SetText(message, app)
	if message == "" {
		return
	}

	ui.clear(func() {
		ui.run(func(app gowid.IApp) {
			ui.message = ""
			ui.status.SetText("", app)
		})
	})
}

// run executes fn on the UI goroutine.
func (ui *TUI) run(fn func(app gowid.IApp)) {
	ui.App.Run(gowid.RunFunction(fn)) // nolint:errcheck
}

// refresh renders the current application state.
func (ui *TUI) refresh(app gowid.IApp) {
	s := ui.client.State()
	debug(ui.log, "refresh", s)

	key := layoutKey{
		screen:  s.Screen,
		guest:   s.GuestFieldVisible,
		update:  s.Update.Open,
		records: s.Records,
	}
	if !ui.built || !ui.layout.equal(key) {
		title, w := ui.screen(s)
		ui.pane.SetTitle(title, app)
		ui.pane.SetSubWidget(w, app)
		ui.layout = key
		ui.built = true
	}

	banner := fmt.Sprintf("Welcome, %s!", s.Username)
	if s.Guest {
		banner += " (guest)"
	}
	ui.banner.SetText(banner, app)

	message := s.Status
	if s.Err != nil {
		message = s.Err.Error()
	}
	if message != ui.message {
		ui.DisplayStatus(message, app)
	}
}

////////////////////
//                //
// Layout         //
//                //
////////////////////

func layout(ui *TUI) gowid.AppArgs {
	main := pile.New([]gowid.IContainerWidget{
		&gowid.ContainerWidget{
			IWidget: styled.New(ui.pane, gowid.MakePaletteRef("mainpane")),
			D:       gowid.RenderWithWeight{W: 20},
		},
		&gowid.ContainerWidget{
			IWidget: styled.New(framed.NewUnicode(ui.status), gowid.MakePaletteRef("mainpane")),
			D:       gowid.RenderWithUnits{U: 3},
		},
	})

	return gowid.AppArgs{
		View: main,
		Palette: &gowid.Palette{
			"mainpane": gowid.MakePaletteEntry(gowid.ColorLightGray, gowid.ColorBlack),
			"header":   gowid.MakePaletteEntry(gowid.ColorBlack, gowid.ColorLightGray),
			// Buttons style
			"normal":  gowid.MakePaletteEntry(gowid.ColorLightGray, gowid.ColorBlack),
			"focused": gowid.MakePaletteEntry(gowid.ColorBlack, gowid.ColorRed),
		},
		Log: ui.log,
	}
}

func (ui *TUI) screen(s app.State) (string, gowid.IWidget) {
	switch {
	case s.Screen == app.Unauthenticated:
		return "Sign in", ui.loginScreen(s)
	case s.Update.Open:
		return fmt.Sprintf("Update record #%d", s.Update.ID), ui.updateScreen()
	default:
		return "Data", ui.dataScreen(s)
	}
}

func (ui *TUI) loginScreen(s app.State) gowid.IWidget {
	widgets := []gowid.IContainerWidget{
		flow(text.New("Paste your Google ID token, or continue as a guest.")),
		flow(text.New("")),
		flow(ui.credential),
		flow(buttons(newButton("Sign in with Google", ui.signInFederated))),
		flow(text.New("")),
		flow(buttons(newButton("Guest Login", func() {
			go ui.client.ToggleGuestField()
		}))),
	}

	if s.GuestFieldVisible {
		widgets = append(widgets,
			flow(ui.guestName),
			flow(buttons(newButton("Login", ui.signInGuest))),
		)
	}

	widgets = append(widgets, cell(null.New(), gowid.RenderWithWeight{W: 1}))
	return pile.New(widgets)
}

func (ui *TUI) dataScreen(s app.State) gowid.IWidget {
	var table gowid.IWidget = text.New("No data yet.")
	if len(s.Records) > 0 {
		rows := make([]*Row, 0, len(s.Records))
		for _, r := range s.Records {
			rows = append(rows, NewRow(r, ui.openUpdate, ui.delete))
		}
		table = NewRecordList(rows)
	}

	return pile.New([]gowid.IContainerWidget{
		flow(ui.banner),
		flow(text.New("")),
		flow(ui.input),
		flow(buttons(
			newButton("Insert Data", ui.insert),
			newButton("Export to Excel", func() {
				go ui.client.ExportSpreadsheet("") // nolint:errcheck
			}),
			newButton("Export to PDF", func() {
				go ui.client.ExportDocument("") // nolint:errcheck
			}),
			newButton("Sign out", func() {
				go ui.client.SignOut()
			}),
		)),
		flow(text.New("")),
		flow(header()),
		cell(table, gowid.RenderWithWeight{W: 1}),
	})
}

func (ui *TUI) updateScreen() gowid.IWidget {
	return pile.New([]gowid.IContainerWidget{
		flow(ui.update),
		flow(text.New("")),
		flow(buttons(
			newButton("Update", ui.submitUpdate),
			newButton("Cancel", func() {
				go ui.client.CancelUpdate()
			}),
		)),
		cell(null.New(), gowid.RenderWithWeight{W: 1}),
	})
}

////////////////////
//                //
// Actions        //
//                //
////////////////////

// Actions are triggered from the UI goroutine: widgets are read there,
// then the application is called from another goroutine because it performs network calls.

func (ui *TUI) signInFederated() {
	credential := strings.TrimSpace(ui.credential.Text())
	go func() {
		if err := ui.client.SignInFederated(credential); err == nil {
			ui.run(func(app gowid.IApp) {
				ui.credential.SetText("", app)
			})
		}
	}()
}

func (ui *TUI) signInGuest() {
	name := ui.guestName.Text()
	go func() {
		ui.client.SetGuestName(name)
		if err := ui.client.SignInGuest(name); err == nil {
			ui.run(func(app gowid.IApp) {
				ui.guestName.SetText("", app)
			})
		}
	}()
}

func (ui *TUI) insert() {
	data := ui.input.Text()
	go func() {
		ui.client.SetInput(data)
		if err := ui.client.Insert(); err == nil {
			ui.run(func(app gowid.IApp) {
				ui.input.SetText("", app)
			})
		}
	}()
}

func (ui *TUI) openUpdate(r libdma.Record) {
	ui.update.SetText(r.Data, ui.App)
	go ui.client.OpenUpdate(r.ID, r.Data) // nolint:errcheck
}

func (ui *TUI) submitUpdate() {
	data := ui.update.Text()
	go func() {
		ui.client.SetUpdateData(data)
		ui.client.SubmitUpdate() // nolint:errcheck
	}()
}

func (ui *TUI) delete(r libdma.Record) {
	go ui.client.Delete(r.ID) // nolint:errcheck
}

////////////////////
//                //
// Events         //
//                //
////////////////////

func (ui *TUI) unhandled(app gowid.IApp, ev any) bool {
	evk, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}

	handled := false

	switch evk.Key() {
	case tcell.KeyCtrlQ:
		handled = true
		app.Quit()
	case tcell.KeyCtrlR:
		handled = true
		go ui.client.Fetch() // nolint:errcheck
	}

	return handled
}
