package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"movie-analyzer/internal/services"
)

var customMovie services.CustomMovie

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Classify a movie from budget, income and rating",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCheck(cmd.Context(), cmd.OutOrStdout(), app, customMovie)
	},
}

func init() {
	f := checkCmd.Flags()
	f.StringVar(&customMovie.Title, "title", services.DefaultCustomTitle, "movie title")
	f.Float64Var(&customMovie.Budget, "budget", 0, "production budget in USD")
	f.Float64Var(&customMovie.Income, "income", 0, "worldwide income in USD")
	f.Float64Var(&customMovie.Rating, "rating", 0, "rating between 0 and 10")
	_ = checkCmd.MarkFlagRequired("budget")
	_ = checkCmd.MarkFlagRequired("income")
	_ = checkCmd.MarkFlagRequired("rating")
}

func runCheck(ctx context.Context, w io.Writer, a *lookupApp, in services.CustomMovie) error {
	report, err := a.movies.CheckCustom(ctx, in)
	if err != nil {
		return fmt.Errorf("check movie: %w", err)
	}

	renderReport(w, report)
	return nil
}
