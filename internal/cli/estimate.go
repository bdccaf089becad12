package cli

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"readplan/internal/config"
	"readplan/internal/i18n"
	"readplan/internal/models"
	"readplan/internal/planner"
)

func newEstimateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Show the reading time needed for every book in a plan file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(cmd.OutOrStdout(), file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "plan file (YAML)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runEstimate(out io.Writer, file string) error {
	pf, err := config.LoadPlanFile(file)
	if err != nil {
		return err
	}
	plan, err := pf.Resolve(now())
	if err != nil {
		return fmt.Errorf("invalid plan file: %w", err)
	}
	loc, err := i18n.New(plan.Language)
	if err != nil {
		return err
	}

	projections := planner.Project(plan.Books, plan.Config.Speeds, plan.Config.DailyMinutes)

	t := newTable("Book", "Category", "Pages", "Pace", "Hours", "Days")
	var totalHours, totalDays float64
	for _, p := range projections {
		totalHours += p.Hours
		totalDays += p.Days
		t.Row(
			p.Book.Title,
			loc.T(p.Book.Category.MessageKey()),
			fmt.Sprint(p.Book.Pages),
			models.FormatPace(p.MinutesPerPage*60),
			fmt.Sprintf("%.1f", p.Hours),
			fmt.Sprintf("%.1f", math.Ceil(p.Days*10)/10),
		)
	}

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%d books, %d min/day", len(projections), plan.Config.DailyMinutes)))
	fmt.Fprintln(out, t.String())
	fmt.Fprintln(out, subtleStyle.Render(fmt.Sprintf("Total: %.1f h, %.0f reading days", totalHours, math.Ceil(totalDays))))
	return nil
}
