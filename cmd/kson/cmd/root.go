// Package cmd implements the kson command line tool.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/reoring/kson"
)

const longRootDescription = `kson converts between JSON and KSON, a keyless encoding that writes
object fields positionally according to a schema. It can also infer
schemas from example JSON documents.
`

// app carries the state shared by every subcommand of one invocation.
type app struct {
	v   *viper.Viper
	log *zap.Logger
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "kson: %v\n", err)
		os.Exit(1)
	}
}

// NewRootCommand builds the kson command tree. Flags may also be set in a
// config file (--config) or through KSON_* environment variables, for
// example KSON_SCHEMA_ID.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), log: zap.NewNop()}

	root := &cobra.Command{
		Use:           "kson",
		Short:         "Convert between JSON and keyless schema-driven KSON",
		Long:          longRootDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}
	root.PersistentFlags().String("config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newIntrospectCommand(a), newVersionCommand())
	root.AddCommand(newConvertCommands(a)...)
	return root
}

// init loads the config file, binds flags and environment, and builds the
// logger.
func (a *app) init(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("KSON")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if cfg := a.v.GetString("config"); cfg != "" {
		a.v.SetConfigFile(cfg)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfg, err)
		}
	}
	if a.v.GetBool("verbose") {
		zc := zap.NewDevelopmentConfig()
		zc.OutputPaths = []string{"stderr"}
		l, err := zc.Build()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		a.log = l
	}
	a.log.Debug("config loaded", zap.String("command", cmd.Name()), zap.String("file", a.v.ConfigFileUsed()))
	return nil
}

func (a *app) newEngine() *kson.Engine {
	return kson.New(kson.WithLogger(a.log.Named("engine")))
}
