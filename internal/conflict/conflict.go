// Package conflict decides what happens when a batch copy or move would
// overwrite existing entries in the destination directory.
package conflict

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bamsammich/twinpane/internal/catalog"
)

// Policy is the batch-level answer to a set of conflicts.
type Policy int

const (
	ReplaceAll Policy = iota + 1
	SkipAll
	AskEach
	Cancel
)

func (p Policy) String() string {
	switch p {
	case ReplaceAll:
		return "replace"
	case SkipAll:
		return "skip"
	case AskEach:
		return "ask"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// ErrUnknownPolicy is returned by ParsePolicy.
var ErrUnknownPolicy = errors.New("unknown conflict policy")

// ParsePolicy parses the names printed by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "replace", "replace-all", "overwrite":
		return ReplaceAll, nil
	case "skip", "skip-all":
		return SkipAll, nil
	case "ask", "ask-each":
		return AskEach, nil
	case "cancel":
		return Cancel, nil
	default:
		return 0, fmt.Errorf("%w: %q (want replace, skip, ask or cancel)", ErrUnknownPolicy, s)
	}
}

// Decision is the answer for a single conflicting item.
type Decision int

const (
	Replace Decision = iota + 1
	Skip
	Stop // skip this and every remaining conflict
)

// Conflict is a source whose target already exists.
type Conflict struct {
	Existing catalog.FileEntry // what currently sits at Target
	Name     string
	Source   string
	Target   string
}

func (c Conflict) String() string {
	kind := "file"
	if c.Existing.IsDir {
		kind = "directory"
	}
	return fmt.Sprintf("%s already exists (%s, modified %s)",
		c.Target, kind, c.Existing.ModTime.Format("2006-01-02 15:04"))
}

// Plan partitions a batch before any I/O.
type Plan struct {
	DstDir      string
	Sources     []string // every source that is neither a self target nor a duplicate, in order
	Clear       []string
	Conflicting []Conflict
	SelfTargets []string // sources that already live at their target
	Duplicates  []string // sources whose target an earlier source in the batch already claims
}

// Target returns where src lands inside dstDir.
func Target(src, dstDir string) string {
	return filepath.Join(dstDir, filepath.Base(src))
}

// Scan computes the target of every source and partitions the batch. Only
// the first source bound for a target takes part; later ones sharing its
// name are set aside as Duplicates.
func Scan(sources []string, dstDir string) Plan {
	p := Plan{DstDir: dstDir}
	claimed := make(map[string]bool, len(sources))
	for _, src := range sources {
		target := Target(src, dstDir)
		if catalog.SamePath(src, target) {
			p.SelfTargets = append(p.SelfTargets, src)
			continue
		}
		key := catalog.Key(target)
		if claimed[key] {
			p.Duplicates = append(p.Duplicates, src)
			continue
		}
		claimed[key] = true
		p.Sources = append(p.Sources, src)

		existing, err := catalog.Stat(target)
		if err != nil {
			p.Clear = append(p.Clear, src)
			continue
		}
		p.Conflicting = append(p.Conflicting, Conflict{
			Name:     filepath.Base(src),
			Source:   src,
			Target:   target,
			Existing: existing,
		})
	}
	return p
}

// SkippedMessage is the error line recorded for a skipped conflict.
func SkippedMessage(name string) string {
	return name + ": already exists (skipped)"
}

// DuplicateMessage is the error line recorded for a source whose name is
// already taken by an earlier source in the same batch.
func DuplicateMessage(name string) string {
	return name + ": duplicate name in batch (skipped)"
}

func duplicateLines(p Plan) []string {
	var lines []string
	for _, src := range p.Duplicates {
		lines = append(lines, DuplicateMessage(filepath.Base(src)))
	}
	return lines
}

// Resolution is the batch handed to the job engine.
type Resolution struct {
	Sources   []string
	Skipped   []string // SkippedMessage and DuplicateMessage lines
	Cancelled bool     // the whole batch was cancelled before any I/O
}

// Empty reports whether there is nothing left to execute.
func (r Resolution) Empty() bool { return len(r.Sources) == 0 }
