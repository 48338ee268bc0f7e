package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bamsammich/twinpane/internal/conflict"
)

// maxListedConflicts bounds the conflicts listed before the batch question.
const maxListedConflicts = 5

// promptDecider asks the user on a terminal how to handle conflicts. End of
// input cancels the batch.
type promptDecider struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptDecider(in io.Reader, out io.Writer) *promptDecider {
	return &promptDecider{in: bufio.NewReader(in), out: out}
}

func (d *promptDecider) ask(question string) (string, bool) {
	fmt.Fprint(d.out, question)
	line, err := d.in.ReadString('\n')
	line = strings.ToLower(strings.TrimSpace(line))
	if err != nil && line == "" {
		fmt.Fprintln(d.out)
		return "", false
	}
	return line, true
}

func (d *promptDecider) DecideBatch(conflicts []conflict.Conflict) conflict.Policy {
	fmt.Fprintf(d.out, "%d item(s) already exist at the destination:\n", len(conflicts))
	for i, c := range conflicts {
		if i == maxListedConflicts {
			fmt.Fprintf(d.out, "  … and %d more\n", len(conflicts)-i)
			break
		}
		fmt.Fprintf(d.out, "  %s\n", c)
	}
	for {
		answer, ok := d.ask("[r]eplace all, [s]kip all, [a]sk each, [c]ancel? ")
		if !ok {
			return conflict.Cancel
		}
		switch answer {
		case "r", "replace":
			return conflict.ReplaceAll
		case "s", "skip":
			return conflict.SkipAll
		case "a", "ask":
			return conflict.AskEach
		case "c", "cancel":
			return conflict.Cancel
		}
	}
}

func (d *promptDecider) DecideItem(c conflict.Conflict) conflict.Decision {
	for {
		answer, ok := d.ask(fmt.Sprintf("%s\n  replace? [y]es, [n]o, [q]uit: ", c))
		if !ok {
			return conflict.Stop
		}
		switch answer {
		case "y", "yes":
			return conflict.Replace
		case "n", "no":
			return conflict.Skip
		case "q", "quit":
			return conflict.Stop
		}
	}
}

// confirm asks a yes/no question; anything but yes declines.
func confirm(in io.Reader, out io.Writer, question string) bool {
	d := newPromptDecider(in, out)
	answer, ok := d.ask(question + " [y/N] ")
	return ok && (answer == "y" || answer == "yes")
}
