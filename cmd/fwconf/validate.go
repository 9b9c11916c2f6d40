package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reoring/fwconf"
	"github.com/reoring/fwconf/idpass"
	jsonsrc "github.com/reoring/fwconf/source/json"
	yamlsrc "github.com/reoring/fwconf/source/yaml"
)

var validateFlags struct {
	format  string
	secrets string
	dump    bool
}

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a configuration file",
	Long: `Validate a configuration file against the core schema.

Every failure is printed with the path of the offending option. After a
successful validation the IDs of the document are linked; a reference to an
undeclared ID or to an ID of the wrong type is reported the same way.

Examples:
  # Validate a YAML config
  fwconf validate living_room.yaml

  # Use an explicit secrets file
  fwconf validate --secrets ../secrets.yaml living_room.yaml

  # Print the validated tree as JSON
  fwconf validate --dump living_room.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.format, "format", "", "input format: yaml, json (detected from the file extension if empty)")
	validateCmd.Flags().StringVar(&validateFlags.secrets, "secrets", "", "secrets file (default: secrets.yaml next to FILE)")
	validateCmd.Flags().BoolVar(&validateFlags.dump, "dump", false, "print the validated configuration as JSON")
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	raw, err := load(path, validateFlags.format, validateFlags.secrets)
	if err != nil {
		return err
	}
	out, err := check(cmd.Context(), raw, filepath.Dir(path))
	if err != nil {
		printInvalid(cmd.OutOrStdout(), err)
		return errInvalid
	}

	var summary deviceSummary
	if err := fwconf.Decode(out, &summary); err != nil {
		return err
	}
	slog.Info("configuration is valid",
		"name", summary.Device.Name,
		"platform", summary.Device.Platform,
		"log_level", summary.Logger.Level,
		"sensors", len(summary.Sensors))
	for _, s := range summary.Sensors {
		slog.Debug("sensor", "id", s.ID.Name, "platform", s.Platform, "name", s.Name)
	}

	if validateFlags.dump {
		return writeJSON(cmd.OutOrStdout(), out)
	}
	return nil
}

func load(path, format, secretsPath string) (any, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch format {
	case "json":
		return jsonsrc.LoadFile(path)
	case "yaml", "yml":
		secrets, err := loadSecrets(path, secretsPath)
		if err != nil {
			return nil, err
		}
		return yamlsrc.LoadFile(path, yamlsrc.WithSecrets(secrets))
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

func loadSecrets(configPath, secretsPath string) (map[string]any, error) {
	if secretsPath == "" {
		secretsPath = filepath.Join(filepath.Dir(configPath), "secrets.yaml")
		if _, err := os.Stat(secretsPath); errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
	}
	slog.Debug("loading secrets", "path", secretsPath)
	return yamlsrc.LoadSecrets(secretsPath)
}

// check validates raw against the core schema and links its IDs. The
// loaded integrations are the top-level keys of the document.
func check(ctx context.Context, raw any, dir string) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts := []fwconf.Option{fwconf.WithConfigDir(dir)}
	if m, ok := fwconf.AsMap(raw); ok {
		opts = append(opts, fwconf.WithIntegrations(m.Keys()...))
		if p := targetPlatform(m); p != "" {
			opts = append(opts, fwconf.WithTargetPlatform(p))
		}
	}
	out, err := fwconf.Validate(ctx, coreSchema, raw, opts...)
	if err != nil {
		return nil, err
	}
	res, err := idpass.Run(out)
	if err != nil {
		return nil, err
	}
	slog.Debug("ids linked", "declarations", len(res.Declarations), "uses", len(res.Uses))
	return out, nil
}

func targetPlatform(doc *fwconf.Map) string {
	dev, _ := doc.Get("esphome")
	m, ok := fwconf.AsMap(dev)
	if !ok {
		return ""
	}
	p, _ := m.Get("platform")
	s, _ := p.(string)
	if s == "" {
		return "esp32"
	}
	return strings.ToLower(s)
}

// printInvalid writes one line per validation failure.
func printInvalid(w io.Writer, err error) {
	errs := fwconf.Errors(err)
	for _, inv := range errs {
		where := inv.Path.String()
		if where == "" {
			where = "<root>"
		}
		line := fmt.Sprintf("%s: %s", where, inv.Message)
		if inv.Hint != "" {
			line += " (" + inv.Hint + ")"
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "%d error(s) found\n", len(errs))
}
