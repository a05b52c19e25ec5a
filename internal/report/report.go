// Package report prints human-readable scan summaries.
package report

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"langscan/internal/collector"
)

const header = "CATEGORY"

// Summary writes one line per category with its message count, categories
// in collation order for tag, followed by the total.
func Summary(w io.Writer, res *collector.Result, tag language.Tag) error {
	categories := sortedCategories(res, tag)

	width := uniseg.StringWidth(header)
	for _, c := range categories {
		width = max(width, uniseg.StringWidth(c))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", pad(header, width), "MESSAGES")
	for _, c := range categories {
		fmt.Fprintf(&b, "%s  %d\n", pad(c, width), len(res.Categories[c]))
	}
	fmt.Fprintf(&b, "Total: %d\n", res.Count)

	_, err := io.WriteString(w, b.String())
	return err
}

// Items writes every pair as "[category] message", grouped by category in
// collation order.
func Items(w io.Writer, res *collector.Result, tag language.Tag) error {
	var b strings.Builder
	for _, c := range sortedCategories(res, tag) {
		for _, msg := range res.Categories[c] {
			fmt.Fprintf(&b, "[%s] %s\n", c, msg)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func sortedCategories(res *collector.Result, tag language.Tag) []string {
	categories := slices.Collect(maps.Keys(res.Categories))
	collate.New(tag, collate.IgnoreCase).SortStrings(categories)
	return categories
}

// pad right-pads s to width terminal cells.
func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(width-uniseg.StringWidth(s), 0))
}
