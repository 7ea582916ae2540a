package main

import (
	"github.com/pharmbio/scipipe-wrappers/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

// loadConfig reads the configuration and sets up logging from it
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	cfg.InitLogging()
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "wrapflow",
		Short: "Run bioinformatics tool wrappers from a workflow file",
		Long: `wrapflow reads rules from a workflow file (Wrapfile.yaml by default),
each naming a wrapper together with its inputs, outputs, params, threads and
log, and runs them as a scipipe workflow.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is ./wrapflow.yaml or $HOME/.wrapflow/wrapflow.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug messages")

	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newListCmd())
	return cmd
}
