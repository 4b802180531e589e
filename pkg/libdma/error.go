package libdma

import (
	"io"
	"strconv"
	"strings"

	"github.com/valyala/fastjson"
)

// An APIError reprensents an HTTP error returned by the dma server.
type APIError struct {
	StatusCode int
	Message    string
}

func parseAPIError(r io.Reader, code int) error {
	payload, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	apierr := &APIError{StatusCode: code}
	if v, err := fastjson.ParseBytes(payload); err == nil {
		apierr.Message = string(v.GetStringBytes("error", "message"))
	}
	if apierr.Message == "" {
		apierr.Message = strings.TrimSpace(string(payload))
	}
	return apierr
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "unexpected status code " + strconv.Itoa(e.StatusCode)
	}
	return e.Message
}
