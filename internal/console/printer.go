package console

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cory-johannsen/diceroller/internal/dice"
	"github.com/cory-johannsen/diceroller/internal/preset"
	"github.com/cory-johannsen/diceroller/internal/stats"
)

// histogramWidth is the bar length of the most frequent bucket.
const histogramWidth = 50

// sparseAbove is the bucket count above which empty buckets are not printed.
const sparseAbove = 100

// Printer writes human-readable output. Write errors are ignored.
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter creates a Printer writing to out, colouring when color is true.
//
// Precondition: out must be non-nil.
func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color}
}

func (p *Printer) paint(color, text string) string {
	if !p.color {
		return text
	}
	return Colorize(color, text)
}

// Processing announces the formula about to be evaluated.
func (p *Printer) Processing(formula string) {
	fmt.Fprintf(p.out, "Processing formula : %s\n", formula)
}

// Result prints the final total, bare when resultOnly is set.
func (p *Printer) Result(total int32, resultOnly bool) {
	if resultOnly {
		fmt.Fprintf(p.out, "%d\n", total)
		return
	}
	fmt.Fprintf(p.out, "Final result: %s\n", p.paint(Bold, fmt.Sprint(total)))
}

// Tracer returns an Observer that prints the expanded formula, every d20
// draw and the resolved formula as an evaluation proceeds. A natural 20 is
// green and a natural 1 red.
func (p *Printer) Tracer() dice.Observer {
	return &tracer{p: p}
}

type tracer struct {
	p *Printer
}

func (t *tracer) Tokenized(seq dice.Sequence) {
	fmt.Fprintln(t.p.out, seq.String())
	fmt.Fprintln(t.p.out, "---Throwing dice---")
}

func (t *tracer) DieRolled(roll dice.DieRoll) {
	if roll.Faces != 20 || !roll.Random() {
		return
	}
	result := fmt.Sprintf(">%d<", roll.Result)
	switch {
	case roll.Critical():
		result = t.p.paint(Green, result)
	case roll.Fumble():
		result = t.p.paint(Red, result)
	}
	switch roll.Mode {
	case dice.ModeAdvantage, dice.ModeDisadvantage:
		fmt.Fprintf(t.p.out, "Throwing d20 with %s: {%d, %d} -> %s\n", roll.Mode, roll.Draws[0], roll.Draws[1], result)
	default:
		fmt.Fprintf(t.p.out, "Throwing d20 : %s\n", result)
	}
}

func (t *tracer) Resolved(seq dice.Sequence) {
	fmt.Fprintln(t.p.out, seq.String())
}

// Stats prints a percentage histogram of report followed by its moments.
// Empty buckets are omitted when there are more than sparseAbove of them.
func (p *Printer) Stats(report stats.Report) {
	fmt.Fprintf(p.out, "Statistics for %s (%d samples, %d workers, seed %d)\n",
		p.paint(Bold, report.Formula), report.Samples, report.Workers, report.Seed)

	var peak float64
	for _, b := range report.Buckets {
		peak = max(peak, b.Percent)
	}
	width := 1
	for _, b := range report.Buckets {
		width = max(width, len(fmt.Sprint(b.Value)))
	}
	sparse := len(report.Buckets) > sparseAbove
	for _, b := range report.Buckets {
		if sparse && b.Count == 0 {
			continue
		}
		bar := 0
		if peak > 0 {
			bar = int(b.Percent / peak * histogramWidth)
		}
		fmt.Fprintf(p.out, "%*d %6.2f%% %s\n", width, b.Value, b.Percent, p.paint(Cyan, strings.Repeat("#", bar)))
	}
	fmt.Fprintf(p.out, "Range: [%d, %d]\n", report.Min, report.Max)
	fmt.Fprintf(p.out, "Mean: %.3f\n", report.Mean)
	fmt.Fprintf(p.out, "StdDev: %.3f\n", report.StdDev)
}

// Presets prints a table of presets.
func (p *Printer) Presets(presets []preset.Preset) {
	if len(presets) == 0 {
		fmt.Fprintln(p.out, "No presets loaded.")
		return
	}
	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFORMULA\tMODE\tDESCRIPTION")
	for _, ps := range presets {
		mode := "-"
		switch {
		case ps.Advantage && ps.Disadvantage:
			mode = "advantage+disadvantage"
		case ps.Advantage:
			mode = "advantage"
		case ps.Disadvantage:
			mode = "disadvantage"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ps.Name, ps.Formula, mode, ps.Description)
	}
	tw.Flush()
}
