package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print dataset statistics, genre counts and hit share by runtime",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSummary(cmd.Context(), cmd.OutOrStdout(), app)
	},
}

func runSummary(ctx context.Context, w io.Writer, a *lookupApp) error {
	s, err := a.stats.Summary(ctx)
	if err != nil {
		return fmt.Errorf("summary: %w", err)
	}

	renderTable(w, []string{"METRIC", "VALUE"}, [][]string{
		{"Movies", strconv.Itoa(s.Rows)},
		{"Mean rating", formatOptional(s.MeanRating, "%.2f")},
		{"Median ROI", formatOptional(s.MedianROI, "%.2fx")},
		{"Mean profit", formatOptional(s.MeanProfitMillis, "$%.1fM")},
		{"Hit share", fmt.Sprintf("%.1f%%", s.HitSharePercent)},
		{"Rating cut", formatOptional(s.RatingThreshold, "%.2f")},
		{"ROI cut", formatOptional(s.ROIThreshold, "%.2fx")},
	})

	genres := make([][]string, 0, len(s.GenreCounts))
	for _, g := range s.GenreCounts {
		genres = append(genres, []string{g.Genre, strconv.Itoa(g.Count)})
	}
	fmt.Fprintln(w)
	renderTable(w, []string{"GENRE", "MOVIES"}, genres)

	shares, err := a.stats.HitShareByRuntime(ctx)
	if err != nil {
		return fmt.Errorf("hit share by runtime: %w", err)
	}

	rows := make([][]string, 0, len(shares))
	for _, hs := range shares {
		rows = append(rows, []string{
			hs.Group,
			strconv.Itoa(hs.Movies),
			strconv.Itoa(hs.Hits),
			fmt.Sprintf("%.1f%%", hs.SharePercent),
		})
	}
	fmt.Fprintln(w)
	renderTable(w, []string{"RUNTIME", "MOVIES", "HITS", "SHARE"}, rows)

	return nil
}

func formatOptional(v *float64, format string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf(format, *v)
}
