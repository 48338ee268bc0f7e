package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bamsammich/twinpane/internal/event"
	"github.com/bamsammich/twinpane/internal/job"
	"github.com/bamsammich/twinpane/internal/search"
)

func newSearchCmd(g *globals) *cobra.Command {
	var (
		c           search.Criteria
		filterLines []string
		filterFile  string
	)
	cmd := &cobra.Command{
		Use:   "search [flags] <root>...",
		Short: "Find files by name, extension and content",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Roots = args
			c.SearchInContent = c.ContentSubstring != ""

			chain, err := buildChain(g.settings.Exclude, filterFile, filterLines, !c.CaseSensitive)
			if err != nil {
				return err
			}
			c.Exclude = chain

			var root string
			if len(args) == 1 {
				if abs, err := filepath.Abs(args[0]); err == nil {
					root = abs
				}
			}
			g.logger.Debug("starting search",
				"roots", c.Roots,
				"name", c.NamePattern,
				"ext", c.Extension,
				"content", c.SearchInContent,
			)
			return g.runJob(cmd, g.engineConfig(), root, func(m *job.Manager, obs event.Observer) (job.Handle, error) {
				return m.SubmitSearch(c, obs), nil
			})
		},
	}
	cmd.Flags().StringVarP(&c.NamePattern, "name", "n", "", "name substring, or glob when it contains * or ?")
	cmd.Flags().StringVarP(&c.Extension, "ext", "e", "", "extension: \".txt\" matches exactly, \"txt\" as a suffix")
	cmd.Flags().StringVarP(&c.ContentSubstring, "content", "c", "", "only files whose text contains STRING")
	cmd.Flags().BoolVar(&c.CaseSensitive, "case-sensitive", false, "match name and content case-sensitively")
	cmd.Flags().Var(&filterFlag{lines: &filterLines}, "exclude", "skip paths matching PATTERN (repeatable)")
	cmd.Flags().Var(&filterFlag{lines: &filterLines, include: true}, "include", "re-include paths matching PATTERN (repeatable, overrides config excludes)")
	cmd.Flags().StringVar(&filterFile, "exclude-from", "", "read filter rules from FILE")
	return cmd
}
