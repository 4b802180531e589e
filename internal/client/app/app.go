// Package app holds the client application state and the operations driving the dma API.
// It is independent of any rendering so that both the text UI and the CLI use it.
package app

import (
	"strings"
	"sync"

	"github.com/mdouchement/dma/internal/export"
	"github.com/mdouchement/dma/pkg/libdma"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// A Screen is a state of the application.
type Screen int

// Screens.
const (
	Unauthenticated Screen = iota
	Authenticated
)

func (s Screen) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

var (
	// ErrEmptyGuestName is returned when a guest signs in with a blank name.
	ErrEmptyGuestName = errors.New("please enter a guest name")
	// ErrEmptyData is returned when blank data is submitted.
	ErrEmptyData = errors.New("please enter data")
	// ErrUnauthenticated is returned when an operation requires to be signed in.
	ErrUnauthenticated = errors.New("please sign in first")
	// ErrNoUpdateInProgress is returned when an update is submitted without being opened.
	ErrNoUpdateInProgress = errors.New("no update in progress")
)

type (
	// An Identifier extracts the identity from a federated sign-in credential.
	Identifier func(credential string) (libdma.Identity, error)

	// An UpdateForm is the state of the update modal.
	UpdateForm struct {
		Open bool
		ID   int64
		Data string
	}

	// A State is a snapshot of the application state used for rendering.
	State struct {
		Screen            Screen
		Username          string
		Guest             bool
		Records           []libdma.Record
		Input             string
		GuestName         string
		GuestFieldVisible bool
		Update            UpdateForm
		// Err is the last failure, displayed to the user until the next successful operation.
		Err error
		// Status is the last confirmation message.
		Status string
	}

	// An App is the client application.
	App struct {
		api      libdma.Client
		identify Identifier
		log      logrus.FieldLogger
		onChange func()
		signOut  func() error

		mu    sync.Mutex
		state State
	}

	// An Option configures an App.
	Option func(*App)
)

// WithIdentifier sets the credential identifier (libdma.DecodeCredential by default).
func WithIdentifier(fn Identifier) Option {
	return func(a *App) {
		a.identify = fn
	}
}

// WithLogger sets the logger used to report failures.
func WithLogger(log logrus.FieldLogger) Option {
	return func(a *App) {
		a.log = log
	}
}

// WithSignOut sets the function called when the user signs out (e.g. forgetting a stored session).
func WithSignOut(fn func() error) Option {
	return func(a *App) {
		a.signOut = fn
	}
}

// New returns a new App in the Unauthenticated screen.
func New(api libdma.Client, opts ...Option) *App {
	a := &App{
		api:      api,
		identify: libdma.DecodeCredential,
		log:      logrus.StandardLogger(),
		onChange: func() {},
		signOut:  func() error { return nil },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// OnChange registers the function called after each state change.
// It is called outside of any lock and may be called from any goroutine.
func (a *App) OnChange(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onChange = fn
}

// State returns a snapshot of the current state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.state
	s.Records = append([]libdma.Record(nil), a.state.Records...)
	return s
}

// update applies fn to the state under lock and notifies the change.
func (a *App) update(fn func(s *State)) {
	a.mu.Lock()
	fn(&a.state)
	notify := a.onChange
	a.mu.Unlock()

	notify()
}

// fail records err as the visible error and logs it.
func (a *App) fail(err error, message string) error {
	a.log.WithError(err).Error(message)
	a.update(func(s *State) {
		s.Err = errors.Wrap(err, strings.ToLower(message))
		s.Status = ""
	})
	return err
}

func (a *App) authenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Screen == Authenticated
}

//
// Form fields
//

// ToggleGuestField shows or hides the guest name entry.
func (a *App) ToggleGuestField() {
	a.update(func(s *State) {
		s.GuestFieldVisible = !s.GuestFieldVisible
	})
}

// SetGuestName sets the guest name entry.
func (a *App) SetGuestName(name string) {
	a.update(func(s *State) {
		s.GuestName = name
	})
}

// SetInput sets the data entry of the insert form.
func (a *App) SetInput(data string) {
	a.update(func(s *State) {
		s.Input = data
	})
}

// SetUpdateData sets the data entry of the update modal.
func (a *App) SetUpdateData(data string) {
	a.update(func(s *State) {
		s.Update.Data = data
	})
}

//
// Authentication
//

// SignInFederated signs in with the given identity provider credential and fetches the records.
func (a *App) SignInFederated(credential string) error {
	identity, err := a.identify(credential)
	if err != nil {
		return a.fail(err, "Error signing in")
	}

	a.signIn(identity.Name, false)
	return a.Fetch()
}

// SignInGuest signs in with the given self-supplied name and fetches the records.
// Blank names are rejected.
func (a *App) SignInGuest(name string) error {
	if strings.TrimSpace(name) == "" {
		a.update(func(s *State) {
			s.Err = ErrEmptyGuestName
		})
		return ErrEmptyGuestName
	}

	a.signIn(name, true)
	return a.Fetch()
}

// Resume restores a previous sign-in without fetching the records.
func (a *App) Resume(username string, guest bool) {
	a.signIn(username, guest)
}

func (a *App) signIn(username string, guest bool) {
	a.update(func(s *State) {
		s.Screen = Authenticated
		s.Username = username
		s.Guest = guest
		s.GuestName = ""
		s.GuestFieldVisible = false
		s.Err = nil
	})
}

// SignOut goes back to the Unauthenticated screen and clears the local state.
func (a *App) SignOut() {
	a.update(func(s *State) {
		*s = State{}
	})

	if err := a.signOut(); err != nil {
		a.log.WithError(err).Error("Error signing out")
	}
}

//
// Records
//

// Fetch replaces the local records by the remote ones.
// On failure, the local records are kept.
func (a *App) Fetch() error {
	if !a.authenticated() {
		return ErrUnauthenticated
	}

	records, err := a.api.Records()
	if err != nil {
		return a.fail(err, "Error fetching data")
	}

	a.update(func(s *State) {
		s.Records = records
		s.Err = nil
	})
	return nil
}

// Insert submits the data entry of the insert form.
// On success, the entry is cleared and the records are fetched.
func (a *App) Insert() error {
	if !a.authenticated() {
		return ErrUnauthenticated
	}

	s := a.State()
	if strings.TrimSpace(s.Input) == "" {
		a.update(func(s *State) {
			s.Err = ErrEmptyData
		})
		return ErrEmptyData
	}

	record, err := a.api.Insert(s.Input, s.Username)
	if err != nil {
		return a.fail(err, "Error submitting data")
	}
	a.log.WithField("id", record.ID).Debug("Data inserted")

	a.update(func(s *State) {
		s.Input = ""
		s.Status = "Data inserted"
	})
	return a.Fetch()
}

// OpenUpdate opens the update modal pre-filled with the given record.
func (a *App) OpenUpdate(id int64, data string) error {
	if !a.authenticated() {
		return ErrUnauthenticated
	}

	a.update(func(s *State) {
		s.Update = UpdateForm{Open: true, ID: id, Data: data}
	})
	return nil
}

// CancelUpdate closes the update modal.
func (a *App) CancelUpdate() {
	a.update(func(s *State) {
		s.Update.Open = false
	})
}

// SubmitUpdate sends the data of the update modal.
// On success, the modal is closed and cleared and the records are fetched.
// On failure, the modal stays open.
func (a *App) SubmitUpdate() error {
	if !a.authenticated() {
		return ErrUnauthenticated
	}

	form := a.State().Update
	if !form.Open {
		return ErrNoUpdateInProgress
	}
	if strings.TrimSpace(form.Data) == "" {
		a.update(func(s *State) {
			s.Err = ErrEmptyData
		})
		return ErrEmptyData
	}

	if err := a.api.Update(form.ID, form.Data); err != nil {
		return a.fail(err, "Error updating data")
	}

	a.update(func(s *State) {
		s.Update = UpdateForm{}
		s.Status = "Data updated"
	})
	return a.Fetch()
}

// Delete removes the given record and fetches the records.
func (a *App) Delete(id int64) error {
	if !a.authenticated() {
		return ErrUnauthenticated
	}

	if err := a.api.Delete(id); err != nil {
		return a.fail(err, "Error deleting data")
	}

	a.update(func(s *State) {
		s.Status = "Data deleted"
	})
	return a.Fetch()
}

//
// Export
//

// ExportSpreadsheet writes the local records in the given XLSX file.
func (a *App) ExportSpreadsheet(filename string) error {
	if !a.authenticated() {
		return ErrUnauthenticated
	}
	if filename == "" {
		filename = export.SpreadsheetFilename
	}

	if err := export.SpreadsheetFile(filename, a.State().Records); err != nil {
		return a.fail(err, "Error exporting spreadsheet")
	}

	a.update(func(s *State) {
		s.Status = "Exported to " + filename
	})
	return nil
}

// ExportDocument writes the local records in the given PDF file.
func (a *App) ExportDocument(filename string) error {
	if !a.authenticated() {
		return ErrUnauthenticated
	}
	if filename == "" {
		filename = export.DocumentFilename
	}

	if err := export.DocumentFile(filename, a.State().Records); err != nil {
		return a.fail(err, "Error exporting document")
	}

	a.update(func(s *State) {
		s.Status = "Exported to " + filename
	})
	return nil
}
