// Command toolbox serves the tool catalog site and inspects catalog files.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lmj0209/tool-website/internal/config"
	"github.com/lmj0209/tool-website/internal/observability"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "toolbox",
		Short:         "Browse a categorized catalog of tools",
		Long:          "toolbox loads a catalog of categorized tools from a JSON or YAML document and serves it as a filterable web page.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./toolbox.yaml)")
	root.PersistentFlags().String("data", "", "catalog location: a path, an http(s):// URL or gs://bucket/object")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	loadConfig := func(cmd *cobra.Command) (config.Config, error) {
		return config.Load(config.Options{File: cfgFile, Flags: cmd.Flags()})
	}

	serve := newServeCmd(loadConfig)
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())
	root.AddCommand(serve, newListCmd(loadConfig), newValidateCmd(loadConfig))
	return root
}

type configLoader func(cmd *cobra.Command) (config.Config, error)

// newLogger picks the production logger only when the environment says so.
func newLogger(cfg config.Config, outputs ...string) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return observability.NewLogger(cfg.Log.Level, outputs...)
	}
	return observability.NewDevelopmentLogger(cfg.Log.Level, outputs...)
}

// cliLogger logs to stderr so command output on stdout stays clean.
func cliLogger(cfg config.Config) *zap.Logger {
	logger, err := newLogger(cfg, "stderr")
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
