package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typist/internal/config"
	"github.com/verte-zerg/typist/internal/lesson"
	"github.com/verte-zerg/typist/internal/store"
)

var (
	clearAll bool
	clearYes bool
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeConfigTemplate(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeConfigTemplate creates the commented template unless path exists.
func writeConfigTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typist configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# user = %q            # Profile results are recorded under
# difficulty = %q     # easy, medium or hard
# duration = %d           # Test duration in seconds (0 disables the timer)
# mode = %q         # standard or lesson
# lesson = %q       # Lesson type, see: typist lessons
# level = %d               # Lesson level (1-5)
# sentences = "quotes.txt"  # Sentence file, looked up in %s

[sound]
# enabled = true
# keystrokes = false
# volume = %.1f

[theme]
# name = %q            # light, dark, high-contrast or custom
# high-contrast = false

# [theme.custom]
# foreground = "#f8f9fa"
# accent = "#007bff"
# correct = "#28a745"
# incorrect = "#dc3545"

[log]
# level = %q           # debug, info, warn or error
# format = %q          # text or json
`,
		defaultUser,
		defaultDifficulty,
		defaultDuration,
		defaultMode,
		defaultLesson,
		defaultLevel,
		config.DefaultSentencesDir(),
		defaultVolume,
		defaultTheme,
		defaultLogLevel,
		defaultLogFormat,
	)
}

func newLessonsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lessons",
		Short: "List lesson types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeLessons(cmd.OutOrStdout())
		},
	}
}

func writeLessons(w io.Writer) error {
	for _, t := range lesson.AllTypes() {
		if _, err := fmt.Fprintf(w, "%-16s %s\n%-16s %s\n", t.String(), lesson.Title(t), "", lesson.Description(t)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if chars := lesson.Chars(t); chars != "" {
			if _, err := fmt.Fprintf(w, "%-16s keys: %s\n", "", chars); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}
	return nil
}

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List user profiles",
		Args:  cobra.NoArgs,
		RunE:  runUsersCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a user profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runUsersCreateCmd,
	})
	return cmd
}

func runUsersCmd(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	users, err := st.ListUsers(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		logErrln("No users yet. Practice once or run: typist users create <name>")
		return nil
	}
	for _, u := range users {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), u); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runUsersCreateCmd(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	name := strings.TrimSpace(args[0])
	if err := st.CreateUser(context.Background(), name); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return fmt.Errorf("user %q already exists", name)
		}
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Created user %s\n", name); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete recorded results of the user (or everyone with --all)",
		Args:  cobra.NoArgs,
		RunE:  runClearCmd,
	}
	cmd.Flags().BoolVar(&clearAll, "all", false, "delete results of every user")
	cmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func runClearCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "user", &practiceUser, fileCfg.Practice.User)

	target := fmt.Sprintf("all results of %s", practiceUser)
	if clearAll {
		target = "all results of every user"
	}
	if !clearYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("Delete %s?", target))
		if err != nil {
			return err
		}
		if !ok {
			logErrln("Aborted.")
			return nil
		}
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	var n int64
	if clearAll {
		n, err = st.ClearAll(context.Background())
	} else {
		n, err = st.ClearUser(context.Background(), practiceUser)
	}
	if err != nil {
		return fmt.Errorf("failed to clear results: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d results\n", n); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s [y/N] ", question); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
