package topn

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/tymbaca/wordfreq/mapreduce"
)

// Top returns the n most frequent words, highest count first. Ties are
// broken alphabetically so the result is stable.
func Top(counts map[string]int, n int) []mapreduce.FinalCount {
	all := make([]mapreduce.FinalCount, 0, len(counts))
	for w, c := range counts {
		all = append(all, mapreduce.FinalCount{Word: w, Total: c})
	}

	slices.SortFunc(all, func(a, b mapreduce.FinalCount) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Word, b.Word)
	})

	if n < 0 {
		n = 0
	}
	if len(all) > n {
		all = all[:n]
	}

	return all
}

// Render draws top as a horizontal bar chart, the longest bar width
// characters wide. width must be positive.
//
//	the      ████████████████████ 4331
//	to       ██████████████ 4162
func Render(w io.Writer, title string, top []mapreduce.FinalCount, width int) error {
	if width < 1 {
		return fmt.Errorf("bar width must be positive, got %d", width)
	}

	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(top) == 0 {
		_, err := fmt.Fprintln(w, "(no words)")
		return err
	}

	maxTotal, wordWidth := 0, 0
	for _, fc := range top {
		maxTotal = max(maxTotal, fc.Total)
		wordWidth = max(wordWidth, len([]rune(fc.Word)))
	}

	for _, fc := range top {
		bar := 0
		if maxTotal > 0 {
			bar = fc.Total * width / maxTotal
		}
		if bar == 0 && fc.Total > 0 {
			bar = 1
		}

		pad := strings.Repeat(" ", wordWidth-len([]rune(fc.Word)))
		if _, err := fmt.Fprintf(w, "%s%s %s %d\n", fc.Word, pad, strings.Repeat("█", bar), fc.Total); err != nil {
			return err
		}
	}

	return nil
}
