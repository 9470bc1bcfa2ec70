package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"movieetl/internal/catalog"
)

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "schema",
		Short:       "Print the catalog DDL",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "-- schema version %d\n%s", catalog.SchemaVersion, catalog.SchemaSQL())
			return nil
		},
	}
}
