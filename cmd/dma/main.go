package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"runtime"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mdouchement/dma/internal/config"
	"github.com/mdouchement/dma/internal/database"
	"github.com/mdouchement/dma/internal/logger"
	"github.com/mdouchement/dma/internal/server"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg string
)

func main() {
	c := &coral.Command{
		Use:     "dma",
		Short:   "Data management API server",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    coral.ExactArgs(0),
	}
	initCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(initCmd)

	serverCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(serverCmd)

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func load() (config.Config, *logrus.Logger, error) {
	if err := config.LoadEnvFiles(".env"); err != nil {
		return config.Config{}, nil, err
	}

	konf, err := config.Load(cfg)
	if err != nil {
		return konf, nil, errors.Wrap(err, "could not load configuration")
	}

	l, err := logger.New(logger.Options{
		Level:    konf.Log.Level,
		Filename: konf.Log.File,
	})
	return konf, l, err
}

var (
	initCmd = &coral.Command{
		Use:   "init",
		Short: "Create the records table",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, l, err := load()
			if err != nil {
				return err
			}

			db, err := database.Open(konf.DatabaseOptions())
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			if err = db.Init(); err != nil {
				return err
			}

			l.WithField("driver", konf.Database.Driver).Info("Table created or already exists")
			return nil
		},
	}

	//
	//
	serverCmd = &coral.Command{
		Use:   "server",
		Short: "Start server",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, l, err := load()
			if err != nil {
				return err
			}

			db, err := database.Open(konf.DatabaseOptions())
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()
			l.WithField("driver", konf.Database.Driver).Info("Connected to the database")

			engine := server.EchoEngine(server.IOC{
				Version:       version,
				Database:      db,
				Logger:        l,
				BasePath:      konf.BasePath,
				AllowedOrigin: konf.FrontendURL,
			})
			server.PrintRoutes(engine)

			address := konf.Address
			message := "could not run server"
			l.Infof("Server listening on %s", address)
			parts := strings.Split(address, ":")
			if len(parts) == 2 && parts[0] == "unix" {
				socketFile := parts[1]
				if _, err := os.Stat(socketFile); err == nil {
					l.Infof("Removing existing %s", socketFile)
					os.Remove(socketFile)
				}
				defer os.Remove(socketFile)
				listener, err := net.Listen(parts[0], socketFile)
				if err != nil {
					return err
				}
				return errors.Wrap(engine.Server.Serve(listener), message)
			}

			if konf.TLSEnabled() {
				return errors.Wrap(engine.StartTLS(address, konf.TLS.Cert, konf.TLS.Key), message)
			}
			return errors.Wrap(engine.Start(address), message)
		},
	}
)
