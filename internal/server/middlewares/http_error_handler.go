package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mdouchement/dma/internal/dmaerror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// HTTPErrorHandler returns a handler that formats rendered errors.
func HTTPErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var herr *echo.HTTPError
		var derr *dmaerror.Error
		switch {
		case errors.As(err, &derr):
			status := dmaerror.StatusCode(derr)
			if status < 500 {
				_ = c.JSON(status, derr)
				return
			}

			id := identifier()
			log.WithField("error_id", id).Errorf("%s", derr)
			_ = c.JSON(status, derr)
		case errors.As(err, &herr):
			if herr.Internal != nil {
				log.Debugf("Error [ECHO]: %s", herr.Internal)
			}
			_ = c.JSON(herr.Code, echo.Map{
				"error": echo.Map{
					"message": herr.Message,
				},
			})
		default:
			internal(log, err, c)
		}
	}
}

func internal(log logrus.FieldLogger, err error, c echo.Context) {
	id := identifier()
	log.WithField("error_id", id).Errorf("%+v", err)

	_ = c.JSON(http.StatusInternalServerError, echo.Map{
		"error": echo.Map{
			"message": fmt.Sprintf("Unexpected error (id: %s)", id),
		},
	})
}

func identifier() string {
	return uuid.Must(uuid.NewV4()).String()
}
