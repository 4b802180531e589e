package libdma

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// DefaultTimeout is the timeout of the default HTTP client.
const DefaultTimeout = 30 * time.Second

type (
	// A Client defines all interactions that can be performed on a dma server.
	Client interface {
		// Endpoint returns the base URL of the API (e.g. https://dma.nas.lan/api).
		Endpoint() string
		// CreateTable ensures the records table exists on the server side.
		CreateTable() error
		// Records returns all the records.
		Records() ([]Record, error)
		// Insert creates a new record and returns it with its generated id.
		Insert(data, username string) (Record, error)
		// Update replaces the data of the given record.
		Update(id int64, data string) error
		// Delete removes the given record.
		Delete(id int64) error
	}

	p      map[string]any
	client struct {
		http     *http.Client
		endpoint string
	}
)

// NewDefaultClient returns a new Client with default HTTP client.
func NewDefaultClient(endpoint string) (Client, error) {
	return NewClient(&http.Client{Timeout: DefaultTimeout}, endpoint)
}

// NewClient returns a new Client.
func NewClient(c *http.Client, endpoint string) (Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse endpoint")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("unsupported endpoint scheme: %q", u.Scheme)
	}
	return &client{endpoint: endpoint, http: c}, nil
}

func (c *client) Endpoint() string {
	return c.endpoint
}

func (c *client) CreateTable() error {
	res, err := c.do(http.MethodGet, "/create-table", nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	return nil
}

func (c *client) Records() ([]Record, error) {
	res, err := c.do(http.MethodGet, "/data", nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	//
	// Process response
	records := make([]Record, 0)
	dec := json.NewDecoder(res.Body)
	return records, errors.Wrap(dec.Decode(&records), "could not parse response")
}

func (c *client) Insert(data, username string) (Record, error) {
	var record Record
	res, err := c.do(http.MethodPost, "/data", p{"data": data, "username": username})
	if err != nil {
		return record, err
	}
	defer res.Body.Close()

	//
	// Process response
	dec := json.NewDecoder(res.Body)
	return record, errors.Wrap(dec.Decode(&record), "could not parse response")
}

func (c *client) Update(id int64, data string) error {
	res, err := c.do(http.MethodPut, path.Join("/data", strconv.FormatInt(id, 10)), p{"data": data})
	if err != nil {
		return err
	}
	defer res.Body.Close()

	return nil
}

func (c *client) Delete(id int64) error {
	res, err := c.do(http.MethodDelete, path.Join("/data", strconv.FormatInt(id, 10)), nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	return nil
}

// do performs the request and returns the response when its status code is a success.
func (c *client) do(method, route string, params p) (*http.Response, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse endpoint")
	}
	u.Path = path.Join(u.Path, route)

	//
	// Build request
	var body io.Reader
	if params != nil {
		payload, err := json.Marshal(params)
		if err != nil {
			return nil, errors.Wrap(err, "could not serialize params")
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "could not build request")
	}
	req.Close = true
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}
	req.Header.Add("Accept", "application/json")

	//
	// Perform request
	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "could not perform request")
	}

	if res.StatusCode >= 400 {
		defer res.Body.Close()
		return nil, parseAPIError(res.Body, res.StatusCode)
	}

	return res, nil
}
