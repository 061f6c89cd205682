package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"movie-analyzer/internal/repository"
)

var titleCmd = &cobra.Command{
	Use:   "title <name>",
	Short: "Look up a dataset movie by title",
	Long:  "Case-insensitive exact title match. When several rows share a title the first one is used.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTitle(cmd.Context(), cmd.OutOrStdout(), app, strings.Join(args, " "))
	},
}

func runTitle(ctx context.Context, w io.Writer, a *lookupApp, title string) error {
	report, err := a.movies.Lookup(ctx, title)
	if err != nil {
		var nf *repository.NotFoundError
		if errors.As(err, &nf) {
			fmt.Fprintln(w, "This movie is not in the dataset.")
		}
		return fmt.Errorf("lookup %q: %w", title, err)
	}

	fmt.Fprintf(w, "Found: %s\n", report.Movie.Title)
	renderReport(w, report)
	return nil
}
