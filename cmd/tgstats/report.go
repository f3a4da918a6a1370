package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tgstats/tgstats/internal/analyze"
	"github.com/tgstats/tgstats/internal/config"
	"github.com/tgstats/tgstats/internal/export"
	"github.com/tgstats/tgstats/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report <export.json>",
	Short: "Build an HTML statistics report from an export",
	Long: `Build an HTML report from a Telegram export file.

The report is written as report.html plus a report_files directory
of charts inside the output directory. Dates are inclusive on both
ends and interpreted as UTC.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

var (
	reportOut      string
	reportFrom     string
	reportTo       string
	reportFeatures []string
	reportChats    []int64
	reportTitle    string
	reportSerial   bool
)

func init() {
	f := reportCmd.Flags()
	f.StringVarP(&reportOut, "out", "o", "",
		"output directory for the report")
	f.StringVar(&reportFrom, "from", "",
		"first day to include (YYYY-MM-DD)")
	f.StringVar(&reportTo, "to", "",
		"last day to include (YYYY-MM-DD)")
	f.StringSliceVar(&reportFeatures, "features", nil,
		"statistics to compute (default: all)")
	f.Int64SliceVar(&reportChats, "chats", nil,
		"restrict to these chat ids")
	f.StringVar(&reportTitle, "title", "",
		"report page title")
	f.BoolVar(&reportSerial, "sequential", false,
		"scan chats one at a time")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyReportFlags(cmd, &cfg)

	sel, err := analyze.ParseSelection(cfg.Features)
	if err != nil {
		return err
	}
	tr, err := parseRange(reportFrom, reportTo)
	if err != nil {
		return err
	}

	chats, err := export.ParseExport(args[0])
	if err != nil {
		return err
	}
	chats = filterChats(chats, reportChats)
	if len(chats) == 0 {
		return fmt.Errorf("no chats to analyze")
	}

	var res *analyze.Result
	if cfg.Parallel {
		fmt.Println("Analyzing chats...")
		res, err = analyze.AnalyzeParallel(chats, sel, tr,
			printAnalyzeProgress)
		fmt.Println()
	} else {
		res, err = analyze.Analyze(chats, sel, tr)
	}
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.OutputDir, "report.html")
	meta := report.Meta{
		Title:     cfg.Title,
		Generated: time.Now().UTC(),
		Range:     tr,
		TopN:      cfg.TopN,
	}
	if err := report.Build(path, res, meta); err != nil {
		return err
	}
	fmt.Printf("Report written to %s\n", path)
	return nil
}

// applyReportFlags overrides config with explicitly set flags only.
func applyReportFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("out") {
		cfg.OutputDir = reportOut
	}
	if f.Changed("features") {
		cfg.Features = reportFeatures
	}
	if f.Changed("title") {
		cfg.Title = reportTitle
	}
	if f.Changed("sequential") {
		cfg.Parallel = !reportSerial
	}
}

// parseRange turns --from/--to day strings into an inclusive range.
// --to covers its whole day.
func parseRange(from, to string) (analyze.TimeRange, error) {
	var tr analyze.TimeRange
	if from != "" {
		t, err := time.ParseInLocation("2006-01-02", from, time.UTC)
		if err != nil {
			return tr, fmt.Errorf("invalid --from date %q", from)
		}
		tr.Start = t
	}
	if to != "" {
		t, err := time.ParseInLocation("2006-01-02", to, time.UTC)
		if err != nil {
			return tr, fmt.Errorf("invalid --to date %q", to)
		}
		tr.End = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if !tr.Start.IsZero() && !tr.End.IsZero() &&
		tr.End.Before(tr.Start) {
		return tr, fmt.Errorf("--to is before --from")
	}
	return tr, nil
}

func filterChats(chats []export.Chat, ids []int64) []export.Chat {
	if len(ids) == 0 {
		return chats
	}
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := chats[:0]
	for _, c := range chats {
		if want[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

func printAnalyzeProgress(done, total int) {
	fmt.Printf("\r  %d/%d chats (%.0f%%)",
		done, total, float64(done)/float64(total)*100)
}
