package cmd

import (
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rawbytedev/binmap/internal/config"
	"github.com/rawbytedev/binmap/pkg/schemafile"
)

// app carries the state the subcommands share once the root command has
// resolved flags and configuration.
type app struct {
	cfg        *config.Config
	log        *slog.Logger
	schemaPath string
	configPath string
	logLevel   string
}

// loadSchema parses the schema file named by --schema or the config file.
func (a *app) loadSchema() (*schemafile.File, error) {
	if a.schemaPath == "" {
		return nil, errors.New("no schema file: pass --schema or set schema in the config file")
	}
	f, err := schemafile.Load(a.schemaPath)
	if err != nil {
		return nil, err
	}
	a.log.Debug("loaded schema file", "path", a.schemaPath, "kinds", len(f.Kinds()))
	return f, nil
}

// kind resolves a record kind by name.
func (a *app) kind(name string) (*schemafile.Kind, error) {
	f, err := a.loadSchema()
	if err != nil {
		return nil, err
	}
	k, ok := f.Record(name)
	if !ok {
		return nil, errors.Errorf("schema file %s declares no record %q", a.schemaPath, name)
	}
	return k, nil
}

// NewRootCmd builds the binmap command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "binmap",
		Short: "binmap - fixed binary record layouts",
		Long: `binmap describes, decodes and encodes fixed-size binary records
declared in a YAML schema file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML file with CLI defaults")
	root.PersistentFlags().StringVarP(&a.schemaPath, "schema", "s", "", "schema file declaring record kinds")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newDescribeCmd(a), newDecodeCmd(a), newEncodeCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	a.cfg = config.DefaultConfig()
	if a.configPath != "" {
		cfg, err := config.LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.schemaPath == "" {
		a.schemaPath = a.cfg.Schema
	}
	levelName := a.logLevel
	if levelName == "" {
		levelName = a.cfg.Logging.Level
	}
	level, err := config.ParseLevel(levelName)
	if err != nil {
		return err
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
