package client

import (
	"fmt"
	"runtime"

	"github.com/mdouchement/dma/internal/client/tui"
	"github.com/mdouchement/dma/internal/logger"
)

// UI runs the text-based dma application.
// A stored session is resumed, otherwise the application starts on the sign-in screen.
func UI(cfg Config) error {
	log := logger.MustFile(Logfile)

	defer func() {
		if r := recover(); r != nil {
			var err error
			switch r := r.(type) {
			case error:
				err = r
			default:
				err = fmt.Errorf("%v", r)
			}
			stack := make([]byte, 4<<10)
			length := runtime.Stack(stack, true)

			log.Printf("[PANIC RECOVER] %s %s\n", err, stack[:length])
		}
	}()

	session := Session{Endpoint: cfg.APIURL}
	if s, err := LoadSession(cfg); err == nil {
		session = s
	}

	a, err := open(cfg, session, log)
	if err != nil {
		return err
	}

	//
	//

	ui, err := tui.New(a, log)
	if err != nil {
		return err
	}
	defer ui.Cleanup()

	go a.Fetch() // nolint:errcheck
	ui.Run()
	return nil
}
