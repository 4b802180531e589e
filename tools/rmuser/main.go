package main

import (
	"fmt"
	"log"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/q"
	"github.com/mdouchement/dma/internal/database"
	"github.com/mdouchement/dma/internal/model"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
)

func main() {
	c := &coral.Command{
		Use:   "rmuser DATABASE USERNAME",
		Short: "Remove all the records of a username from a storm dma database",
		Args:  coral.ExactArgs(2),
		RunE: func(_ *coral.Command, args []string) error {
			fmt.Println("Opening", args[0])
			db, err := storm.Open(args[0], database.StormCodec)
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			query := db.Select(q.Eq("Username", args[1]))

			n, err := query.Count(&model.Record{})
			if err != nil {
				return errors.Wrap(err, "count records")
			}
			if n == 0 {
				fmt.Println("No record for this username")
				return nil
			}
			fmt.Println("Records found:", n)

			err = query.Delete(&model.Record{})
			if err != nil && err != storm.ErrNotFound {
				return errors.Wrap(err, "delete records")
			}
			fmt.Println("Records removed")

			return nil
		},
	}

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}
