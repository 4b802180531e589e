package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/asdine/storm/v3"
	"github.com/mdouchement/dma/internal/database"
	"github.com/mdouchement/dma/internal/model"
	"github.com/mdouchement/dma/pkg/stormsql"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// go run tools/console/main.go dma.db " SELECT * FROM records WHERE username = 'george' ORDER BY id DESC LIMIT 10; "

func main() {
	c := &cobra.Command{
		Use:   "console DATABASE QUERY",
		Short: "SQL console for storm dma database",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			//
			//
			sc, err := stormsql.ParseSelect(args[1])
			if err != nil {
				return err
			}
			if sc.Tablename != model.Tablename {
				return errors.Errorf("unknown tablename: %s", sc.Tablename)
			}

			//
			//
			fmt.Println("Opening", args[0])
			db, err := storm.Open(args[0], database.StormCodec)
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			//
			// Prepare request
			//

			query := db.Select(sc.Matcher)
			if sc.Skip > 0 {
				query.Skip(sc.Skip)
			}
			if sc.Limit > 0 {
				query.Limit(sc.Limit)
			}
			if len(sc.OrderBy) > 0 {
				query.OrderBy(sc.OrderBy...)
				if sc.OrderByReversed {
					query.Reverse()
				}
			}

			// Execute

			if sc.Count {
				n, err := query.Count(&model.Record{})
				if err != nil {
					return errors.Wrap(err, "could not perform query")
				}

				fmt.Println("Count:", n)
				return nil
			}

			var records []*model.Record
			err = query.Find(&records)
			if err == storm.ErrNotFound {
				fmt.Println("[]")
				return nil
			}
			if err != nil {
				return errors.Wrap(err, "could not perform query")
			}

			jsondump(records)
			return nil
		},
	}

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func jsondump(v any) {
	d, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		panic(err)
	}
	fmt.Println(string(d))
}
