package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"movie-analyzer/internal/models"
)

const (
	barWidth  = 30
	maxRating = 10.0
)

// renderReport prints the movie line, its figures and the rating/ROI bars.
func renderReport(w io.Writer, r *models.MovieReport) {
	p := message.NewPrinter(language.English)
	m := r.Movie

	fmt.Fprintln(w, m.String())
	fmt.Fprintf(w, "Rating:      %.1f\n", m.Rating)
	if m.ROI != nil {
		fmt.Fprintf(w, "ROI:         %.2fx\n", *m.ROI)
	} else {
		fmt.Fprintln(w, "ROI:         n/a")
	}
	p.Fprintf(w, "Profit ($):  %.0f\n", m.Profit)
	fmt.Fprintf(w, "Verdict:     %s\n", r.Badge)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Rating  %s  %.1f / %.0f\n", bar(m.Rating, maxRating), m.Rating, maxRating)
	if m.ROI != nil {
		fmt.Fprintf(w, "ROI     %s  %.2f / %.2f\n", bar(*m.ROI, r.ROICap), *m.ROI, r.ROICap)
	}
}

// bar renders v against ceiling as a fixed-width gauge. Negative values are empty.
func bar(v, ceiling float64) string {
	filled := 0
	if ceiling > 0 && v > 0 {
		filled = int(math.Round(v / ceiling * barWidth))
	}
	if filled > barWidth {
		filled = barWidth
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled) + "]"
}

// renderTable writes an aligned plain-text table. Widths are display widths
// so titles with wide runes and the en dash in runtime labels stay aligned.
func renderTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if cw := runewidth.StringWidth(row[i]); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	writeRow := func(cells []string) {
		var sb strings.Builder
		for i := range widths {
			if i > 0 {
				sb.WriteString("  ")
			}
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
		}
		fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))
	}

	writeRow(headers)
	sep := make([]string, len(widths))
	for i, n := range widths {
		sep[i] = strings.Repeat("-", n)
	}
	writeRow(sep)
	for _, row := range rows {
		writeRow(row)
	}
}
