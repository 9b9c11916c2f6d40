package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/fwconf/i18n"
)

var (
	verbose bool
	lang    string
)

// errInvalid is returned once every validation failure has been printed.
var errInvalid = errors.New("configuration is invalid")

var rootCmd = &cobra.Command{
	Use:   "fwconf",
	Short: "Validate device firmware configuration files",
	Long: `fwconf checks device configuration files the way the firmware build does:
every option is type checked and normalized, defaults are filled in, and IDs
are linked across the whole document.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		if lang != "" {
			i18n.SetLanguage(lang)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "", "message language (en, ja)")
}

// writeJSON prints v as indented JSON. The indenting encoder of go-json
// trips over schemas that carry both enum and default, so the compact
// encoding is indented in a second step.
func writeJSON(w io.Writer, v any) error {
	b, err := j.Marshal(v)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := j.Indent(&buf, b, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}
