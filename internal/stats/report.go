package stats

import (
	"context"
	"fmt"

	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	User    string
	Results []model.TestResult
	Summary Summary
	Totals  model.UserStats
	Bests   []model.TestResult
}

// BuildReport loads the filtered results of cfg.User along with the
// unfiltered aggregate and personal bests.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	results, err := st.ListResults(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list results: %w", err)
	}
	totals, err := st.UserStats(ctx, cfg.User)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load user stats: %w", err)
	}
	bests, err := st.PersonalBests(ctx, cfg.User)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load personal bests: %w", err)
	}
	return Report{
		User:    cfg.User,
		Results: results,
		Summary: Summarize(results),
		Totals:  totals,
		Bests:   bests,
	}, nil
}

// Window returns the last n results, or all of them when n is not positive.
func (r Report) Window(n int) []model.TestResult {
	if n <= 0 || len(r.Results) <= n {
		return r.Results
	}
	return r.Results[len(r.Results)-n:]
}
