package ui

import (
	"fmt"
	"strings"

	"github.com/bamsammich/twinpane/internal/event"
)

// MaxSummaryErrors is how many error lines a summary lists before folding
// the rest into a count.
const MaxSummaryErrors = 5

const cancelledMessage = "cancelled"

// OutcomeSummary renders a finished job as plain text: the final message,
// then up to MaxSummaryErrors error lines.
func OutcomeSummary(d event.Done) string {
	var b strings.Builder
	b.WriteString(d.Message)
	writeErrors(&b, d.Errors, plain, plain)
	return b.String()
}

// StyledSummary is OutcomeSummary with a colored status mark for terminals.
func StyledSummary(d event.Done) string {
	var mark string
	switch {
	case d.Message == cancelledMessage:
		mark = styleCancel.Render("–")
	case d.Success:
		mark = styleDone.Render("✓")
	default:
		mark = styleFailed.Render("✗")
	}

	var b strings.Builder
	b.WriteString(mark)
	b.WriteString("  ")
	b.WriteString(d.Message)
	writeErrors(&b, d.Errors, styleError.Render, styleDim.Render)
	return b.String()
}

func plain(s ...string) string { return strings.Join(s, " ") }

func writeErrors(b *strings.Builder, errs []string, render, dim func(...string) string) {
	for i, e := range errs {
		if i == MaxSummaryErrors {
			fmt.Fprintf(b, "\n   %s", dim(fmt.Sprintf("… and %d more", len(errs)-i)))
			return
		}
		b.WriteString("\n   ")
		b.WriteString(render(e))
	}
}
