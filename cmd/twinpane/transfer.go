package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bamsammich/twinpane/internal/conflict"
	"github.com/bamsammich/twinpane/internal/engine"
	"github.com/bamsammich/twinpane/internal/event"
	"github.com/bamsammich/twinpane/internal/filter"
	"github.com/bamsammich/twinpane/internal/job"
)

var errNeedYes = errors.New("refusing to delete without --yes when stdin is not a terminal")

// transferFlags are shared by copy and move.
type transferFlags struct {
	onConflict policyFlag
	bwLimit    string
	noTimes    bool
	noPerms    bool
}

func (f *transferFlags) apply(cmd *cobra.Command, cfg engine.Config) (engine.Config, error) {
	if cmd.Flags().Changed("bwlimit") {
		n, err := filter.ParseSize(f.bwLimit)
		if err != nil {
			return cfg, fmt.Errorf("invalid --bwlimit: %w", err)
		}
		cfg.BWLimit = n
	}
	if f.noTimes {
		cfg.PreserveTimes = false
	}
	if f.noPerms {
		cfg.PreserveMode = false
	}
	return cfg, nil
}

// decider picks how conflicts are answered: an explicit policy applies to
// the whole batch, otherwise the user is asked when stdin is a terminal.
func decider(policy conflict.Policy, interactive bool, cmd *cobra.Command) conflict.Decider {
	if policy == conflict.AskEach && interactive {
		return newPromptDecider(cmd.InOrStdin(), cmd.ErrOrStderr())
	}
	return conflict.Fixed(policy)
}

func newTransferCmd(g *globals, name string) *cobra.Command {
	kind := engine.Copy
	short := "Copy files and directories into a destination directory"
	if name == "move" {
		kind = engine.Move
		short = "Move files and directories into a destination directory"
	}

	var f transferFlags
	cmd := &cobra.Command{
		Use:   name + " [flags] <source>... <destination-dir>",
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, dst := args[:len(args)-1], args[len(args)-1]

			engCfg, err := f.apply(cmd, g.engineConfig())
			if err != nil {
				return err
			}
			policy := f.onConflict.or(g.settings.OnConflict)
			d := decider(policy, isTerminal(cmd.InOrStdin()), cmd)

			g.logger.Debug("starting "+name,
				"sources", sources,
				"dst", dst,
				"on_conflict", policy.String(),
				"bwlimit", engCfg.BWLimit,
			)
			return g.runJob(cmd, engCfg, "", func(m *job.Manager, obs event.Observer) (job.Handle, error) {
				return m.SubmitBatch(kind, sources, dst, d, obs)
			})
		},
	}
	cmd.Flags().Var(&f.onConflict, "on-conflict", "replace, skip, ask or cancel when a target exists")
	cmd.Flags().StringVar(&f.bwLimit, "bwlimit", "", "bandwidth limit (e.g. 100M, 1G)")
	cmd.Flags().BoolVar(&f.noTimes, "no-times", false, "don't preserve modification times")
	cmd.Flags().BoolVar(&f.noPerms, "no-perms", false, "don't preserve permission bits")
	return cmd
}

func newDeleteCmd(g *globals) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete [flags] <path>...",
		Short: "Delete files and directory trees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if !isTerminal(cmd.InOrStdin()) {
					return errNeedYes
				}
				q := fmt.Sprintf("Delete %d item(s)?", len(args))
				if !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), q) {
					return &exitError{code: exitCancelled}
				}
			}
			return g.runJob(cmd, g.engineConfig(), "", func(m *job.Manager, obs event.Observer) (job.Handle, error) {
				return m.Submit(engine.Request{Kind: engine.Delete, Sources: args}, obs), nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "don't ask for confirmation")
	return cmd
}
