// Package report renders simulation results as text.
package report

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/MJE43/eclipse-combat/internal/catalog"
	"github.com/MJE43/eclipse-combat/internal/sim"
)

var hundred = decimal.NewFromInt(100)

// Percent formats a probability in [0,1] as a percentage with two decimals.
func Percent(p float64) string {
	return decimal.NewFromFloat(p).Mul(hundred).StringFixed(2) + "%"
}

// Average formats a survivor average with two decimals.
func Average(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Render writes the summary of a run. Adjustments, if any, are listed first
// so clamped fleets are visible next to their results.
func Render(w io.Writer, r *sim.Result, adjustments []catalog.Adjustment) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, a := range adjustments {
		fmt.Fprintf(tw, "note:\t%s limited to %d (%s cap, %d requested)\n", a.Name, a.Allowed, a.Category, a.Requested)
	}
	if len(adjustments) > 0 {
		fmt.Fprintln(tw)
	}

	fmt.Fprintf(tw, "engine:\t%s\n", r.EngineVersion)
	fmt.Fprintf(tw, "run:\t%s\n", r.RunID)
	fmt.Fprintf(tw, "seed:\t%s\n", r.Seed)
	fmt.Fprintf(tw, "attacker:\t%s\n", orNone(catalog.FormatComposition(r.Echo.Attacker)))
	fmt.Fprintf(tw, "defender:\t%s\n", orNone(catalog.FormatComposition(r.Echo.Defender)))
	fmt.Fprintf(tw, "trials:\t%s (%d workers, %s)\n", humanize.Comma(int64(r.Trials)), r.Workers, r.Elapsed.Round(time.Millisecond))
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "attacker wins\t%s\t%s\n", Percent(r.AttackerWinProbability), humanize.Comma(int64(r.AttackerWins)))
	fmt.Fprintf(tw, "defender wins\t%s\t%s\n", Percent(r.DefenderWinProbability), humanize.Comma(int64(r.DefenderWins)))
	if r.Draws > 0 {
		fmt.Fprintf(tw, "no winner\t%s\t%s\n", Percent(r.DrawProbability), humanize.Comma(int64(r.Draws)))
	}

	writeSurvivors(tw, "attacker", r.AttackerSurvivors)
	writeSurvivors(tw, "defender", r.DefenderSurvivors)

	return tw.Flush()
}

func writeSurvivors(w io.Writer, side string, survivors map[string]float64) {
	if len(survivors) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s survivors per win\n", side)
	for _, name := range slices.Sorted(maps.Keys(survivors)) {
		fmt.Fprintf(w, "  %s\t%s\n", name, Average(survivors[name]))
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
