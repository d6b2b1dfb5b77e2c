package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/cmdguard/cmdguard/internal/core"
)

// topN caps the error and warning lists in the console view. The full
// lists always land in the registry snapshot.
const topN = 10

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	errColor    = color.New(color.FgRed, color.Bold)
	warnColor   = color.New(color.FgYellow)
	okColor     = color.New(color.FgGreen)
)

// Render writes the human-readable summary. The format is
// presentation-only and not a stability contract.
func Render(w io.Writer, r *core.ValidationReport) {
	headerColor.Fprintln(w, "═══ cmdguard validation report ═══")
	fmt.Fprintf(w, "Run:        %s\n", r.RunID)
	fmt.Fprintf(w, "Documents:  %d (%d commands)\n", r.TotalDocuments, r.CommandDocuments)
	fmt.Fprintf(w, "Safety:     %s safe / %s caution / %s dangerous\n",
		okColor.Sprintf("%d", r.SafeCount),
		warnColor.Sprintf("%d", r.CautionCount),
		errColor.Sprintf("%d", r.DangerousCount))
	fmt.Fprintf(w, "Sandbox:    available=%v, blocks=%d, container tests=%d\n",
		r.SandboxAvailable, r.SandboxedBlocks, r.ContainerTests)
	fmt.Fprintf(w, "Rates:      success %.1f%%, errors %.1f%%, danger %.1f%%\n",
		SuccessRate(r), ErrorRate(r), DangerRate(r))
	fmt.Fprintf(w, "Quality:    avg %.1f/100\n", AverageQuality(r))
	fmt.Fprintf(w, "Grade:      %s\n", Grade(r))
	fmt.Fprintf(w, "Elapsed:    %s\n", r.Elapsed.Round(time.Millisecond))

	renderList(w, errColor, "Errors", r.Errors)
	renderList(w, warnColor, "Warnings", r.Warnings)
}

func renderList(w io.Writer, c *color.Color, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w)
	c.Fprintf(w, "%s (%d):\n", label, len(items))
	shown := items
	if len(shown) > topN {
		shown = shown[:topN]
	}
	for _, item := range shown {
		fmt.Fprintf(w, "  - %s\n", item)
	}
	if len(items) > topN {
		fmt.Fprintf(w, "  ... and %d more\n", len(items)-topN)
	}
}
