package main

import (
	"fmt"
	"strings"
)

// rateScore labels a single tower score for display.
func rateScore(score int) string {
	switch {
	case score >= 150:
		return "HARD COUNTER"
	case score >= 110:
		return "Excellent"
	case score >= 80:
		return "Good"
	case score >= 50:
		return "Fill"
	case score > 0:
		return "Weak"
	default:
		return "AVOID"
	}
}

// FormatResult renders an assignment as plain text, one block per wave.
func FormatResult(res *Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Mode: %s  objective=%.1f  partitions=%d\n", res.Mode, res.Objective, res.Evaluated)
	for w := range res.Waves {
		wr := &res.Waves[w]
		b.WriteString("===================\n")
		fmt.Fprintf(&b, "Wave %d vs %s -> %.1f", w+1, wr.EnemyName, wr.Total)
		if w == res.Sacrifice {
			b.WriteString("  [sacrificed]")
		}
		b.WriteByte('\n')

		for _, ts := range wr.Towers {
			fmt.Fprintf(&b, "  %-20s %4d  %s\n", ts.Name, ts.Score, rateScore(ts.Score))
			for _, n := range ts.Notes {
				fmt.Fprintf(&b, "      - %s\n", n)
			}
		}
		if wr.Multiplier != 1 || wr.Bonus != 0 {
			fmt.Fprintf(&b, "  towers %d x%.2f + combos %.1f\n", wr.RawSum, wr.Multiplier, wr.Bonus)
		}
		for _, c := range wr.Combos {
			fmt.Fprintf(&b, "  * %s\n", c)
		}
	}
	return b.String()
}

// FormatLineups renders ranked lineups as plain text.
func FormatLineups(cat *Catalog, lineups []Lineup) string {
	var b strings.Builder
	for i, l := range lineups {
		names := make([]string, len(l.Towers))
		for j, id := range l.Towers {
			names[j] = id
			if t := cat.Tower(id); t != nil {
				names[j] = t.Name
			}
		}
		fmt.Fprintf(&b, "#%d  score=%d  %s\n", i+1, l.Score, strings.Join(names, ", "))
		for _, k := range []string{"combo", "chain", "diversity", "enemy", "preference"} {
			if v := l.Breakdown[k]; v > 0 {
				fmt.Fprintf(&b, "    %-10s %d\n", k, v)
			}
		}
		for _, c := range l.Combos {
			fmt.Fprintf(&b, "    * %s\n", c)
		}
	}
	return b.String()
}
