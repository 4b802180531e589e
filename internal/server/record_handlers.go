package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/dma/internal/database"
	"github.com/mdouchement/dma/internal/dmaerror"
	"github.com/mdouchement/dma/internal/model"
	"github.com/sirupsen/logrus"
)

type (
	// record contains all record handlers.
	record struct {
		db       database.Client
		log      logrus.FieldLogger
		basePath string
	}

	insertParams struct {
		Data     string `json:"data"`
		Username string `json:"username"`
	}

	updateParams struct {
		Data string `json:"data"`
	}
)

func (p insertParams) valid() bool {
	return strings.TrimSpace(p.Data) != "" && strings.TrimSpace(p.Username) != ""
}

func (p updateParams) valid() bool {
	return strings.TrimSpace(p.Data) != ""
}

///// CreateTable
////
//

// CreateTable ensures the records table exists.
func (h *record) CreateTable(c echo.Context) error {
	if err := h.db.Init(); err != nil {
		return dmaerror.Internal(err, "Error creating table")
	}

	return c.String(http.StatusOK, "Table created or already exists")
}

///// List
////
//

// List renders all the records.
func (h *record) List(c echo.Context) error {
	records, err := h.db.FindRecords()
	if err != nil {
		return dmaerror.Internal(err, "Error fetching data")
	}

	return c.JSON(http.StatusOK, records)
}

///// Insert
////
//

// Insert creates a new record.
// The created record is rendered when the client accepts JSON.
func (h *record) Insert(c echo.Context) error {
	var params insertParams
	if err := bind(c, &params); err != nil {
		return err
	}
	if !params.valid() {
		return dmaerror.BadRequest("Invalid request body.")
	}

	record := model.NewRecord(params.Data, params.Username)
	if err := h.db.InsertRecord(record); err != nil {
		return dmaerror.Internal(err, "Error inserting data")
	}
	h.log.WithFields(logrus.Fields{"id": record.ID, "username": record.Username}).Info("Data inserted")

	c.Response().Header().Set(echo.HeaderLocation, h.basePath+"/data/"+strconv.FormatInt(record.ID, 10))
	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) {
		return c.JSON(http.StatusOK, record)
	}
	return c.String(http.StatusOK, "Data inserted")
}

///// Update
////
//

// Update replaces the data of the given record.
// Updating an unknown record is not an error.
func (h *record) Update(c echo.Context) error {
	id, err := recordID(c)
	if err != nil {
		return err
	}

	var params updateParams
	if err = bind(c, &params); err != nil {
		return err
	}
	if !params.valid() {
		return dmaerror.BadRequest("Invalid request body.")
	}

	n, err := h.db.UpdateRecordData(id, params.Data)
	if err != nil {
		return dmaerror.Internal(err, "Error updating data")
	}
	log := h.log.WithFields(logrus.Fields{"id": id, "rows": n})
	if n == 0 {
		log.Debug("No record matched")
	} else {
		log.Info("Data updated")
	}

	return c.String(http.StatusOK, "Data updated")
}

///// Delete
////
//

// Delete removes the given record.
// Deleting an unknown record is not an error.
func (h *record) Delete(c echo.Context) error {
	id, err := recordID(c)
	if err != nil {
		return err
	}

	n, err := h.db.DeleteRecord(id)
	if err != nil {
		return dmaerror.Internal(err, "Error deleting data")
	}
	log := h.log.WithFields(logrus.Fields{"id": id, "rows": n})
	if n == 0 {
		log.Debug("No record matched")
	} else {
		log.Info("Data deleted")
	}

	return c.String(http.StatusOK, "Data deleted")
}

//
//
//

func bind(c echo.Context, params any) error {
	if err := c.Bind(params); err != nil {
		if derr, ok := err.(*dmaerror.Error); ok {
			return derr
		}
		return dmaerror.BadRequest("Invalid request body.")
	}
	return nil
}

func recordID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, dmaerror.BadRequest("Invalid record id.")
	}
	return id, nil
}
