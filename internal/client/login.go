package client

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mdouchement/dma/internal/client/app"
	"github.com/mdouchement/dma/internal/logger"
	"github.com/mdouchement/dma/pkg/libdma"
	"github.com/pkg/errors"
)

// Login signs in as a guest or with a federated credential and stores the session.
// Missing values are prompted.
func Login(cfg Config, guest, credential string) error {
	var err error

	if guest == "" && credential == "" {
		guest, err = readline.Line("Guest name (empty to sign in with Google): ")
		if err != nil {
			return errors.Wrap(err, "could not read guest name from stdin")
		}

		if strings.TrimSpace(guest) == "" {
			credential, err = readline.Line("Google ID token: ")
			if err != nil {
				return errors.Wrap(err, "could not read credential from stdin")
			}
		}
	}

	//
	//

	client, err := libdma.NewDefaultClient(cfg.APIURL)
	if err != nil {
		return errors.Wrap(err, "could not reach dma endpoint")
	}

	a := app.New(client,
		app.WithIdentifier(cfg.Identifier()),
		app.WithLogger(logger.MustFile(Logfile)),
	)

	session := Session{Endpoint: client.Endpoint()}
	if credential != "" {
		err = a.SignInFederated(strings.TrimSpace(credential))
		session.Credential = strings.TrimSpace(credential)
	} else {
		err = a.SignInGuest(guest)
	}
	if err != nil {
		return errors.Wrap(err, "could not login")
	}

	state := a.State()
	session.Username = state.Username
	session.Guest = state.Guest

	fmt.Printf("Signed in as %s (%d records)\n", session.Username, len(state.Records))
	return SaveSession(cfg, session)
}
