package main

import (
	"github.com/spf13/cobra"

	"github.com/reoring/fwconf"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the core schema",
	Long: `Print a JSON Schema describing the documents fwconf validate accepts.

Editors can use it for completion and inline checks. The projection is
approximate: cross-field rules and ID linking are not expressible in it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(cmd.OutOrStdout(), fwconf.JSONSchemaOf(coreSchema))
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
