package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"readplan/internal/config"
	"readplan/internal/i18n"
	"readplan/internal/ics"
	"readplan/internal/models"
	"readplan/internal/planner"
)

type generateOptions struct {
	file   string
	output string
	lang   string
}

func newGenerateCmd(g *globals) *cobra.Command {
	opts := generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the reading calendar from a plan file",
		Long:  `Schedule the books of a YAML plan file into reading and review sessions and write them to an .ics file that any calendar application can import.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.OutOrStdout(), g.logger, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "plan file (YAML)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output .ics path (default reading_plan_<date>.ics)")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "event language, overrides the plan file (es, en)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runGenerate(out io.Writer, logger *zap.Logger, opts generateOptions) error {
	pf, err := config.LoadPlanFile(opts.file)
	if err != nil {
		return err
	}
	today := now()
	plan, err := pf.Resolve(today)
	if err != nil {
		return fmt.Errorf("invalid plan file: %w", err)
	}
	if opts.lang != "" {
		plan.Language = i18n.Match(opts.lang)
	}

	loc, err := i18n.New(plan.Language)
	if err != nil {
		return err
	}

	engine := planner.New(
		planner.WithLogger(logger),
		planner.WithTranslator(loc),
		planner.WithClock(now),
	)
	result, err := engine.Generate(plan.Books, plan.Config)
	if err != nil {
		return err
	}

	if len(result.Events) == 0 {
		fmt.Fprintln(out, warnStyle.Render(loc.T("no_events")))
		return nil
	}

	cal := ics.Calendar{
		Name:     loc.T("calendar_name", "year", plan.Config.StartDate.Year()),
		TimeZone: plan.TimeZone,
		Lang:     loc.Lang(),
		Events:   result.Events,
	}

	path := opts.output
	if path == "" {
		path = fmt.Sprintf("reading_plan_%s.ics", today.Format("20060102"))
	}
	if err := writeCalendar(path, cal); err != nil {
		return err
	}

	logger.Info("Calendar written", zap.String("path", path), zap.Int("events", len(cal.Events)))
	printSummary(out, loc, cal.Name, plan.Books, result)
	fmt.Fprintln(out, successStyle.Render(loc.T("plan_ready", "events", result.Stats.TotalEvents)))
	fmt.Fprintln(out, subtleStyle.Render(path))
	return nil
}

func writeCalendar(path string, cal ics.Calendar) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create calendar file: %w", err)
	}
	if err := ics.Render(f, cal); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write calendar file: %w", err)
	}
	return nil
}

// printSummary shows the statistics and the completion ledger
func printSummary(out io.Writer, loc *i18n.Localizer, name string, books []models.Book, plan planner.Plan) {
	stats := plan.Stats
	fmt.Fprintln(out, titleStyle.Render(name))
	fmt.Fprintln(out, loc.T("stats_summary",
		"events", stats.TotalEvents,
		"completed", stats.BooksCompleted,
		"hours", fmt.Sprintf("%.1f", stats.TotalBookHours),
		"days", stats.TotalDays,
	))
	fmt.Fprintln(out)

	if len(plan.Completed) == 0 {
		return
	}

	t := newTable("#", "Book", "Finished", "Hours")
	for i, c := range plan.Completed {
		t.Row(fmt.Sprint(i+1), c.Title, c.CompletedOn.Format("2006-01-02"), fmt.Sprintf("%.2f", c.Hours))
	}
	fmt.Fprintln(out, t.String())

	if len(plan.Completed) == len(books) {
		last := plan.Completed[len(plan.Completed)-1].CompletedOn
		fmt.Fprintln(out, successStyle.Render(loc.T("plan_finishes", "date", last.Format("2006-01-02"))))
	}
}
