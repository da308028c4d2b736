package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typist/internal/config"
	"github.com/verte-zerg/typist/internal/export"
	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/stats"
	"github.com/verte-zerg/typist/internal/statsui"
	"github.com/verte-zerg/typist/internal/store"
	"github.com/verte-zerg/typist/internal/theme"
)

const defaultHistoryLimit = 20

var (
	statsDifficulty  string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	historyDifficulty string
	historyLimit      int
	historyFormat     string
	historyDays       int
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsDifficulty, "difficulty", "", "difficulty filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N tests")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a report instead of opening the stats browser")
	return cmd
}

func statsConfig() (model.StatsConfig, error) {
	cfg := model.StatsConfig{User: practiceUser, Last: statsLast, CurveWindow: statsCurveWindow}
	if statsDifficulty != "" {
		d, err := model.ParseDifficulty(statsDifficulty)
		if err != nil {
			return cfg, fmt.Errorf("invalid --difficulty: %w", err)
		}
		cfg.Difficulty = &d
	}
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if statsLast < 0 {
		return cfg, fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return cfg, fmt.Errorf("--curve-window must be >= 1")
	}
	return cfg, nil
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "user", &practiceUser, fileCfg.Practice.User)

	cfg, err := statsConfig()
	if err != nil {
		return err
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return renderPlainStats(cmd.Context(), cmd.OutOrStdout(), st, cfg)
	}

	styles := theme.NewManager().Current().Styles()
	if fileCfg.Theme.Name != nil {
		kind, err := theme.ParseKind(*fileCfg.Theme.Name)
		if err == nil && kind != theme.Custom {
			highContrast := fileCfg.Theme.HighContrast != nil && *fileCfg.Theme.HighContrast
			styles = theme.NewManager().Apply(kind, highContrast).Styles()
		}
	}
	m := statsui.NewModel(st, cfg, styles)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlainStats(ctx context.Context, w io.Writer, st *store.Store, cfg model.StatsConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return err
	}
	if err := stats.RenderSummary(w, cfg.User, report.Totals, report.Bests); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderTrend(w, report.Results, stats.TrendLength); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCurves(w, report.Results, cfg.CurveWindow); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or export test results",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyDifficulty, "difficulty", "", "difficulty filter")
	cmd.Flags().IntVar(&historyLimit, "limit", defaultHistoryLimit, "number of results (0 for all)")
	cmd.Flags().StringVar(&historyFormat, "format", "table", "output format (table, yaml, json)")
	cmd.Flags().IntVar(&historyDays, "days", 0, "only results from the last N days (0 for no cutoff)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "user", &practiceUser, fileCfg.Practice.User)
	if historyLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	if historyDays < 0 {
		return fmt.Errorf("--days must be >= 0")
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	results, err := loadHistory(context.Background(), st)
	if err != nil {
		return err
	}
	return writeHistory(cmd.OutOrStdout(), historyFormat, results)
}

func loadHistory(ctx context.Context, st *store.Store) ([]model.TestResult, error) {
	var diff *model.Difficulty
	if historyDifficulty != "" {
		d, err := model.ParseDifficulty(historyDifficulty)
		if err != nil {
			return nil, fmt.Errorf("invalid --difficulty: %w", err)
		}
		diff = &d
	}
	if historyDays > 0 {
		return recentHistory(ctx, st, diff)
	}
	if diff == nil {
		return st.History(ctx, practiceUser, historyLimit)
	}
	return st.HistoryByDifficulty(ctx, practiceUser, *diff, historyLimit)
}

func recentHistory(ctx context.Context, st *store.Store, diff *model.Difficulty) ([]model.TestResult, error) {
	recent, err := st.Recent(ctx, practiceUser, historyDays)
	if err != nil {
		return nil, err
	}
	results := recent[:0]
	for _, r := range recent {
		if diff != nil && r.Difficulty != *diff {
			continue
		}
		results = append(results, r)
		if historyLimit > 0 && len(results) == historyLimit {
			break
		}
	}
	return results, nil
}

func writeHistory(w io.Writer, format string, results []model.TestResult) error {
	if strings.EqualFold(strings.TrimSpace(format), "table") {
		return stats.RenderHistoryTable(w, results)
	}
	return export.Write(w, format, results)
}
