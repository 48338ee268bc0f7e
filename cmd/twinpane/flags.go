package main

import (
	"github.com/spf13/pflag"

	"github.com/bamsammich/twinpane/internal/conflict"
	"github.com/bamsammich/twinpane/internal/filter"
)

var (
	_ pflag.Value = (*policyFlag)(nil)
	_ pflag.Value = (*filterFlag)(nil)
)

// policyFlag is a pflag.Value for --on-conflict.
type policyFlag struct {
	policy conflict.Policy
	set    bool
}

func (f *policyFlag) String() string {
	if !f.set {
		return ""
	}
	return f.policy.String()
}

func (*policyFlag) Type() string { return "policy" }

func (f *policyFlag) Set(val string) error {
	p, err := conflict.ParsePolicy(val)
	if err != nil {
		return err
	}
	f.policy = p
	f.set = true
	return nil
}

// or returns the flag's policy, or def when the flag was not given.
func (f *policyFlag) or(def conflict.Policy) conflict.Policy {
	if f.set {
		return f.policy
	}
	return def
}

// filterFlag is a custom pflag.Value that preserves CLI ordering of
// --exclude and --include rules. Rules are compiled later, once case
// sensitivity is known.
type filterFlag struct {
	lines   *[]string
	include bool
}

func (*filterFlag) String() string { return "" }
func (*filterFlag) Type() string   { return "pattern" }

func (f *filterFlag) Set(val string) error {
	prefix := "- "
	if f.include {
		prefix = "+ "
	}
	*f.lines = append(*f.lines, prefix+val)
	return nil
}

// buildChain compiles flag rules, then file rules, then config excludes.
// The first matching rule wins, so a command-line --include can re-include
// what the config file excludes. It returns nil when no rule was given.
func buildChain(configExcludes []string, ruleFile string, lines []string, foldCase bool) (*filter.Chain, error) {
	chain := filter.NewChain()
	if foldCase {
		chain.FoldCase()
	}
	for _, l := range lines {
		if err := chain.AddRule(l); err != nil {
			return nil, err
		}
	}
	if ruleFile != "" {
		if err := chain.LoadFile(ruleFile); err != nil {
			return nil, err
		}
	}
	for _, p := range configExcludes {
		if err := chain.AddExclude(p); err != nil {
			return nil, err
		}
	}
	if chain.Empty() {
		return nil, nil //nolint:nilnil // no rules means no filtering
	}
	return chain, nil
}
