package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mdouchement/dma/internal/client"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg client.Config

	guest      string
	credential string
	output     string
)

func main() {
	c := &cobra.Command{
		Use:     "dmac",
		Short:   "Data management client",
		Version: fmt.Sprintf("%s - build %.7s @ %s", version, revision, date),
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) (err error) {
			_ = godotenv.Load() // Optional .env in the current directory
			cfg, err = client.LoadConfig()
			return err
		},
	}

	loginCmd.Flags().StringVarP(&guest, "guest", "g", "", "Sign in as a guest with the given name")
	loginCmd.Flags().StringVarP(&credential, "credential", "", "", "Sign in with the given Google ID token")
	loginCmd.MarkFlagsMutuallyExclusive("guest", "credential")
	c.AddCommand(loginCmd)
	c.AddCommand(logoutCmd)
	c.AddCommand(createTableCmd)
	c.AddCommand(listCmd)
	c.AddCommand(insertCmd)
	c.AddCommand(updateCmd)
	c.AddCommand(deleteCmd)
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "Output file (DataTable.xlsx or DataTable.pdf by default)")
	c.AddCommand(exportCmd)
	c.AddCommand(uiCmd)

	if err := c.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var (
	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Sign in as a guest or with a Google ID token",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Login(cfg, guest, credential)
		},
	}

	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Forget the signed-in identity",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Logout()
		},
	}

	createTableCmd = &cobra.Command{
		Use:   "create-table",
		Short: "Create the records table on the server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.CreateTable(cfg)
		},
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List all the records",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			a, err := client.Open(cfg)
			if err != nil {
				return err
			}
			return client.List(a, os.Stdout)
		},
	}

	insertCmd = &cobra.Command{
		Use:   "insert DATA",
		Short: "Insert a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			a, err := client.Open(cfg)
			if err != nil {
				return err
			}
			return client.Insert(a, args[0])
		},
	}

	updateCmd = &cobra.Command{
		Use:   "update ID DATA",
		Short: "Update the data of a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := client.ParseID(args[0])
			if err != nil {
				return err
			}

			a, err := client.Open(cfg)
			if err != nil {
				return err
			}
			return client.Update(a, id, args[1])
		},
	}

	deleteCmd = &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := client.ParseID(args[0])
			if err != nil {
				return err
			}

			a, err := client.Open(cfg)
			if err != nil {
				return err
			}
			return client.Delete(a, id)
		},
	}

	exportCmd = &cobra.Command{
		Use:       "export xlsx|pdf",
		Short:     "Export all the records in a spreadsheet or a PDF document",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"xlsx", "pdf"},
		RunE: func(_ *cobra.Command, args []string) error {
			a, err := client.Open(cfg)
			if err != nil {
				return err
			}
			return client.Export(a, args[0], output)
		},
	}

	uiCmd = &cobra.Command{
		Use:   "ui",
		Short: "Text-based data management application",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.UI(cfg)
		},
	}
)
