// Package store handles SQLite persistence of users and test results.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/typist/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

var (
	// ErrInvalidUser is returned for an empty user name.
	ErrInvalidUser = errors.New("invalid user name")
	// ErrUserExists is returned by CreateUser when the name is taken.
	ErrUserExists = errors.New("user already exists")
)

// timeLayout keeps a fixed fraction width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for users and their results.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS test_results (
			id INTEGER PRIMARY KEY,
			username TEXT NOT NULL,
			created_at TEXT NOT NULL,
			difficulty INTEGER NOT NULL,
			wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			elapsed_seconds INTEGER NOT NULL,
			correct_characters INTEGER NOT NULL,
			total_characters INTEGER NOT NULL,
			FOREIGN KEY (username) REFERENCES users(username)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_test_results_username ON test_results(username);`,
		`CREATE INDEX IF NOT EXISTS idx_test_results_created_at ON test_results(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_test_results_difficulty ON test_results(difficulty);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func normalizeUser(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidUser
	}
	return name, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func ensureUser(ctx context.Context, db execer, name string) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (username, created_at) VALUES (?, ?)`,
		name, time.Now().UTC().Format(timeLayout))
	return err
}

// CreateUser registers a new user.
func (s *Store) CreateUser(ctx context.Context, name string) error {
	name, err := normalizeUser(name)
	if err != nil {
		return err
	}
	exists, err := s.UserExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrUserExists, name)
	}
	return ensureUser(ctx, s.db, name)
}

// EnsureUser registers the user if it does not exist yet.
func (s *Store) EnsureUser(ctx context.Context, name string) error {
	name, err := normalizeUser(name)
	if err != nil {
		return err
	}
	return ensureUser(ctx, s.db, name)
}

// UserExists reports whether the user is registered.
func (s *Store) UserExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, strings.TrimSpace(name)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListUsers returns all user names in alphabetical order.
func (s *Store) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT username FROM users ORDER BY username ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var users []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		users = append(users, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// SaveResult stores a completed test, registering its user when needed.
func (s *Store) SaveResult(ctx context.Context, res model.TestResult) (id int64, err error) {
	user, err := normalizeUser(res.User)
	if err != nil {
		return 0, err
	}
	createdAt := res.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if err = ensureUser(ctx, tx, user); err != nil {
		return 0, err
	}
	out, err := tx.ExecContext(ctx,
		`INSERT INTO test_results (username, created_at, difficulty, wpm, accuracy, elapsed_seconds, correct_characters, total_characters)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user,
		createdAt.UTC().Format(timeLayout),
		int(res.Difficulty),
		res.WPM,
		res.Accuracy,
		res.ElapsedSeconds,
		res.CorrectCharacters,
		res.TotalCharacters,
	)
	if err != nil {
		return 0, err
	}
	if id, err = out.LastInsertId(); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

const resultColumns = `id, username, created_at, difficulty, wpm, accuracy, elapsed_seconds, correct_characters, total_characters`

// History returns the latest results of a user, newest first. A
// non-positive limit returns everything.
func (s *Store) History(ctx context.Context, user string, limit int) ([]model.TestResult, error) {
	query := `SELECT ` + resultColumns + ` FROM test_results WHERE username = ? ORDER BY created_at DESC, id DESC`
	args := []any{user}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryResults(ctx, query, args...)
}

// HistoryByDifficulty is History restricted to one difficulty.
func (s *Store) HistoryByDifficulty(ctx context.Context, user string, d model.Difficulty, limit int) ([]model.TestResult, error) {
	query := `SELECT ` + resultColumns + ` FROM test_results WHERE username = ? AND difficulty = ? ORDER BY created_at DESC, id DESC`
	args := []any{user, int(d)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryResults(ctx, query, args...)
}

// Recent returns results from the last days days, newest first.
func (s *Store) Recent(ctx context.Context, user string, days int) ([]model.TestResult, error) {
	since := time.Now().AddDate(0, 0, -days).UTC().Format(timeLayout)
	return s.queryResults(ctx,
		`SELECT `+resultColumns+` FROM test_results WHERE username = ? AND created_at >= ? ORDER BY created_at DESC, id DESC`,
		user, since)
}

// ListResults returns results filtered by the stats config, oldest first.
// Last keeps only the most recent N matches.
func (s *Store) ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.TestResult, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.User != "" {
		clauses = append(clauses, "username = ?")
		args = append(args, cfg.User)
	}
	if cfg.Difficulty != nil {
		clauses = append(clauses, "difficulty = ?")
		args = append(args, int(*cfg.Difficulty))
	}
	if cfg.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT %s FROM test_results WHERE %s ORDER BY created_at ASC, id ASC`,
		resultColumns, strings.Join(clauses, " AND "))
	results, err := s.queryResults(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(results) > cfg.Last {
		results = results[len(results)-cfg.Last:]
	}
	return results, nil
}

func (s *Store) queryResults(ctx context.Context, query string, args ...any) ([]model.TestResult, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.TestResult
	for rows.Next() {
		var res model.TestResult
		var createdAt string
		var difficulty int
		if err := rows.Scan(&res.ID, &res.User, &createdAt, &difficulty, &res.WPM, &res.Accuracy,
			&res.ElapsedSeconds, &res.CorrectCharacters, &res.TotalCharacters); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, err
		}
		res.CreatedAt = parsed
		res.Difficulty = model.Difficulty(difficulty)
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// UserStats aggregates every result of a user.
func (s *Store) UserStats(ctx context.Context, user string) (model.UserStats, error) {
	stats := model.UserStats{User: user}
	var avgWPM, bestWPM, avgAcc, bestAcc sql.NullFloat64
	var totalSeconds sql.NullInt64
	var last sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(wpm), MAX(wpm), AVG(accuracy), MAX(accuracy), SUM(elapsed_seconds), MAX(created_at)
		 FROM test_results WHERE username = ?`, user).
		Scan(&stats.TotalTests, &avgWPM, &bestWPM, &avgAcc, &bestAcc, &totalSeconds, &last)
	if err != nil {
		return model.UserStats{}, err
	}
	stats.AverageWPM = avgWPM.Float64
	stats.BestWPM = bestWPM.Float64
	stats.AverageAccuracy = avgAcc.Float64
	stats.BestAccuracy = bestAcc.Float64
	stats.TotalSeconds = int(totalSeconds.Int64)
	if last.Valid {
		parsed, err := time.Parse(timeLayout, last.String)
		if err != nil {
			return model.UserStats{}, err
		}
		stats.LastTestAt = parsed
	}
	return stats, nil
}

// PersonalBests returns the highest-WPM result per difficulty, ordered by
// difficulty. Ties go to the earlier result.
func (s *Store) PersonalBests(ctx context.Context, user string) ([]model.TestResult, error) {
	all, err := s.queryResults(ctx,
		`SELECT `+resultColumns+` FROM test_results WHERE username = ? ORDER BY difficulty ASC, wpm DESC, created_at ASC, id ASC`,
		user)
	if err != nil {
		return nil, err
	}
	var bests []model.TestResult
	for _, res := range all {
		if n := len(bests); n > 0 && bests[n-1].Difficulty == res.Difficulty {
			continue
		}
		bests = append(bests, res)
	}
	return bests, nil
}

// ClearUser deletes every result of a user and returns how many were removed.
func (s *Store) ClearUser(ctx context.Context, user string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM test_results WHERE username = ?`, user)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ClearAll deletes every result of every user.
func (s *Store) ClearAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM test_results`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
