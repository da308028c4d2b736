// Package main provides the CLI entrypoint for typist.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typist/internal/config"
	"github.com/verte-zerg/typist/internal/engine"
	"github.com/verte-zerg/typist/internal/lesson"
	"github.com/verte-zerg/typist/internal/logging"
	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/sound"
	"github.com/verte-zerg/typist/internal/store"
	"github.com/verte-zerg/typist/internal/textpool"
	"github.com/verte-zerg/typist/internal/theme"
	"github.com/verte-zerg/typist/internal/tui"
)

const (
	defaultUser        = "Guest"
	defaultDifficulty  = "medium"
	defaultDuration    = 60
	defaultMode        = "standard"
	defaultLesson      = "home-row"
	defaultLevel       = 1
	defaultVolume      = sound.DefaultVolume
	defaultTheme       = "dark"
	defaultLogLevel    = "info"
	defaultLogFormat   = "text"
	defaultCurveWindow = 5
)

var (
	practiceUser       string
	practiceDifficulty string
	practiceDuration   int
	practiceMode       string
	practiceLesson     string
	practiceLevel      int
	practiceSentences  string

	soundEnabled    bool
	soundKeystrokes bool
	soundVolume     float64

	themeName         string
	themeHighContrast bool

	logLevel  string
	logFormat string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typist",
		Short:         "TUI typing speed trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&practiceUser, "user", defaultUser, "user profile")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", defaultLogFormat, "log format (text, json)")

	rootCmd.Flags().StringVar(&practiceDifficulty, "difficulty", defaultDifficulty, "difficulty (easy, medium, hard)")
	rootCmd.Flags().IntVar(&practiceDuration, "duration", defaultDuration, "test duration in seconds (0 disables the timer)")
	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "practice mode (standard, lesson)")
	rootCmd.Flags().StringVar(&practiceLesson, "lesson", defaultLesson, "lesson type (see: typist lessons)")
	rootCmd.Flags().IntVar(&practiceLevel, "level", defaultLevel, "lesson level (1-5)")
	rootCmd.Flags().StringVar(&practiceSentences, "sentences", "", "sentence file replacing the pool of the selected difficulty")
	rootCmd.Flags().BoolVar(&soundEnabled, "sound", true, "enable audio feedback")
	rootCmd.Flags().BoolVar(&soundKeystrokes, "keystrokes", false, "play a sound for every keystroke")
	rootCmd.Flags().Float64Var(&soundVolume, "volume", defaultVolume, "sound volume (0-1)")
	rootCmd.Flags().StringVar(&themeName, "theme", defaultTheme, "theme (light, dark, high-contrast, custom)")
	rootCmd.Flags().BoolVar(&themeHighContrast, "high-contrast", false, "boost contrast of the selected theme")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newLessonsCmd())
	rootCmd.AddCommand(newUsersCmd())
	rootCmd.AddCommand(newClearCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyPracticeConfig(cmd, fileCfg)

	engCfg, err := buildEngineConfig()
	if err != nil {
		return err
	}
	if soundVolume < 0 || soundVolume > 1 {
		return fmt.Errorf("--volume must be between 0 and 1")
	}

	themes, err := buildThemes(fileCfg.Theme)
	if err != nil {
		return err
	}

	logFile, err := logging.OpenFile(config.DefaultLogPath())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}()
	logger, err := newLogger(logFile, "tui")
	if err != nil {
		return err
	}

	opts := []engine.Option{engine.WithConfig(engCfg)}
	if practiceSentences != "" {
		sentences, err := loadSentences(practiceSentences)
		if err != nil {
			return err
		}
		logger.Info("loaded sentence pool", "difficulty", engCfg.Difficulty.String(), "count", len(sentences))
		opts = append(opts, engine.WithSentences(engCfg.Difficulty, sentences))
	}
	eng := engine.New(opts...)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if err := st.EnsureUser(context.Background(), practiceUser); err != nil {
		return fmt.Errorf("failed to prepare user: %w", err)
	}

	player := sound.NewPlayer(sound.NewBellSink(os.Stdout, logger))
	player.SetVolume(soundVolume)
	player.SetEnabled(soundEnabled)
	player.SetKeystrokeEnabled(soundEnabled && soundKeystrokes)

	logger.Info("starting practice",
		"user", practiceUser,
		"mode", engCfg.Mode.String(),
		"difficulty", engCfg.Difficulty.String(),
		"duration", engCfg.Duration,
	)
	m := tui.NewModel(tui.Options{
		User:     practiceUser,
		Engine:   eng,
		Recorder: st,
		Sound:    player,
		Themes:   themes,
		Logger:   logger,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func applyPracticeConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	applyStringConfig(cmd, "user", &practiceUser, fileCfg.Practice.User)
	applyStringConfig(cmd, "difficulty", &practiceDifficulty, fileCfg.Practice.Difficulty)
	applyIntConfig(cmd, "duration", &practiceDuration, fileCfg.Practice.Duration)
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyStringConfig(cmd, "lesson", &practiceLesson, fileCfg.Practice.Lesson)
	applyIntConfig(cmd, "level", &practiceLevel, fileCfg.Practice.Level)
	applyStringConfig(cmd, "sentences", &practiceSentences, fileCfg.Practice.Sentences)
	applyBoolConfig(cmd, "sound", &soundEnabled, fileCfg.Sound.Enabled)
	applyBoolConfig(cmd, "keystrokes", &soundKeystrokes, fileCfg.Sound.Keystrokes)
	applyFloatConfig(cmd, "volume", &soundVolume, fileCfg.Sound.Volume)
	applyStringConfig(cmd, "theme", &themeName, fileCfg.Theme.Name)
	applyBoolConfig(cmd, "high-contrast", &themeHighContrast, fileCfg.Theme.HighContrast)
	applyLogConfig(cmd, fileCfg)
}

func applyLogConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-format", &logFormat, fileCfg.Log.Format)
}

func buildEngineConfig() (engine.Config, error) {
	cfg := engine.DefaultConfig()
	d, err := model.ParseDifficulty(practiceDifficulty)
	if err != nil {
		return cfg, fmt.Errorf("invalid --difficulty: %w", err)
	}
	mode, err := model.ParseMode(practiceMode)
	if err != nil {
		return cfg, fmt.Errorf("invalid --mode: %w", err)
	}
	lt, err := lesson.ParseType(practiceLesson)
	if err != nil {
		return cfg, fmt.Errorf("invalid --lesson: %w", err)
	}
	if practiceDuration < 0 {
		return cfg, fmt.Errorf("--duration must be >= 0")
	}
	if practiceLevel < model.MinLessonLevel || practiceLevel > model.MaxLessonLevel {
		return cfg, fmt.Errorf("--level must be between %d and %d", model.MinLessonLevel, model.MaxLessonLevel)
	}
	cfg.Difficulty = d
	cfg.Mode = mode
	cfg.LessonType = lt
	cfg.LessonLevel = practiceLevel
	cfg.Duration = time.Duration(practiceDuration) * time.Second
	return cfg, nil
}

func buildThemes(tc config.ThemeConfig) (*theme.Manager, error) {
	kind, err := theme.ParseKind(themeName)
	if err != nil {
		return nil, fmt.Errorf("invalid --theme: %w", err)
	}
	themes := theme.NewManager()
	if tc.Custom != nil {
		c := tc.Custom
		if _, err := themes.SetCustom(theme.Palette{
			Foreground: c.Foreground,
			Accent:     c.Accent,
			Correct:    c.Correct,
			Incorrect:  c.Incorrect,
			Current:    c.Current,
			Remaining:  c.Remaining,
			Border:     c.Border,
			Success:    c.Success,
			Warning:    c.Warning,
			Error:      c.Error,
		}); err != nil {
			return nil, fmt.Errorf("invalid [theme.custom]: %w", err)
		}
	}
	themes.Apply(kind, themeHighContrast)
	return themes, nil
}

func newLogger(w *os.File, component string) (*slog.Logger, error) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	format, err := logging.ParseFormat(logFormat)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-format: %w", err)
	}
	return logging.New(logging.Options{Level: level, Format: format, Writer: w, Component: component}), nil
}

// resolveSentencesPath looks a bare name up in the sentences directory when
// it does not exist as given.
func resolveSentencesPath(name string) string {
	if _, err := os.Stat(name); err == nil || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	candidate := filepath.Join(config.DefaultSentencesDir(), name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	if filepath.Ext(name) == "" {
		withExt := candidate + ".txt"
		if _, err := os.Stat(withExt); err == nil {
			return withExt
		}
	}
	return name
}

func loadSentences(name string) ([]string, error) {
	path := resolveSentencesPath(name)
	sentences, err := textpool.LoadSentences(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentences from %s: %w", path, err)
	}
	typeable := textpool.FilterTypeable(sentences)
	if len(typeable) == 0 {
		return nil, fmt.Errorf("no typeable sentences in %s", path)
	}
	if skipped := len(sentences) - len(typeable); skipped > 0 {
		logErrf("Skipped %d sentences with characters outside printable ASCII\n", skipped)
	}
	return typeable, nil
}

func openStore() (*store.Store, func(), error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
