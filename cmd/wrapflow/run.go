package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pharmbio/scipipe-wrappers/components"
	"github.com/pharmbio/scipipe-wrappers/config"
	"github.com/pharmbio/scipipe-wrappers/job"
	"github.com/pharmbio/scipipe-wrappers/shell"
	"github.com/pharmbio/scipipe-wrappers/wrappers"
	sp "github.com/scipipe/scipipe"
	"github.com/spf13/cobra"
)

type runOptions struct {
	snakefile string
	cores     int
	dryRun    bool
	plot      string
	until     string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the rules of a workflow file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("cores") {
				if opts.cores < 1 {
					return fmt.Errorf("--cores must be at least 1, got %d", opts.cores)
				}
				cfg.Cores = opts.cores
			}
			return runWorkflow(cmd.OutOrStdout(), cfg, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.snakefile, "snakefile", "s", job.DefaultWorkflowFile, "workflow file to run")
	cmd.Flags().IntVar(&opts.cores, "cores", 1, "max number of cores to use (default from config)")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "print the commands of each rule instead of running them")
	cmd.Flags().StringVar(&opts.plot, "plot", "", "write the workflow graph to this .dot file and nothing more")
	cmd.Flags().StringVar(&opts.until, "until", "", "only run the rules matching this regex, and the rules they depend on")
	return cmd
}

func runWorkflow(out io.Writer, cfg *config.Config, opts *runOptions) error {
	rules, err := job.Load(opts.snakefile)
	if err != nil {
		return err
	}
	if opts.dryRun {
		return printPlans(out, cfg, rules)
	}

	runnerFor := func(threads int) *shell.Runner {
		r := shell.NewRunner(cfg.ToolTable())
		r.Prefix = cfg.CommandPrefix(threads)
		return r
	}
	wf, err := components.NewRulesWorkflow("wrapflow", rules, cfg.Cores, runnerFor)
	if err != nil {
		return err
	}

	switch {
	case opts.plot != "":
		wf.PlotGraph(opts.plot)
		fmt.Fprintln(out, "Wrote workflow graph to:", opts.plot)
	case opts.until != "":
		wf.RunToRegex(opts.until)
	default:
		sp.Info.Printf("Running %d rules from %s on %d cores\n", len(rules.Rules), opts.snakefile, cfg.Cores)
		wf.Run()
	}
	return nil
}

// printPlans writes the commands of every rule, in declaration order, and
// the SLURM allocation they run in when one is configured
func printPlans(out io.Writer, cfg *config.Config, rules *job.Workflow) error {
	for _, rule := range rules.Rules {
		w, err := wrappers.Lookup(rule.Wrapper)
		if err != nil {
			return fmt.Errorf("rule %q: %w", rule.Name, err)
		}
		j := rule.Job()
		p, err := w.Plan(j)
		if err != nil {
			return fmt.Errorf("rule %q: %s: %w", rule.Name, w.Name(), err)
		}
		fmt.Fprintf(out, "rule %s (%s, threads: %d):\n", rule.Name, w.Name(), j.ThreadCount())
		if si, ok := cfg.SlurmInfo(j.ThreadCount()); ok {
			fmt.Fprintf(out, "    # each command runs under: %s...\n", si.AsSallocString())
		}
		for _, line := range strings.Split(p.String(), "\n") {
			fmt.Fprintf(out, "    %s\n", line)
		}
	}
	return nil
}
