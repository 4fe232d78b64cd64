package mcp

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/2beens/fitcoach/internal/fitness"
)

// documentLoader provides the current fitness document (for dependency injection and testing).
type documentLoader interface {
	Load(ctx context.Context) (*fitness.Document, error)
}

// contextService provides read-only fitness views. Used by Handler for testability.
type contextService interface {
	PersonalRecords(ctx context.Context) ([]PersonalRecord, error)
	Streak(ctx context.Context) (int, error)
	Progress(ctx context.Context) (*fitness.ProgressReport, error)
	TodayPlan(ctx context.Context, date string) (*fitness.DayPlan, error)
}

type PersonalRecord struct {
	Exercise string  `json:"exercise"`
	PR       float64 `json:"pr"`
	Target   int     `json:"target"`
}

// ContextService reads the document fresh on every call and never writes it.
type ContextService struct {
	store documentLoader
	now   func() time.Time
}

func NewContextService(store documentLoader) *ContextService {
	return &ContextService{
		store: store,
		now:   time.Now,
	}
}

// PersonalRecords returns all PRs sorted by exercise name, each with its next target.
func (s *ContextService) PersonalRecords(ctx context.Context) ([]PersonalRecord, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]PersonalRecord, 0, len(doc.PRs))
	for exercise, pr := range doc.PRs {
		target, _ := fitness.SuggestedTarget(doc.PRs, exercise)
		records = append(records, PersonalRecord{
			Exercise: exercise,
			PR:       pr,
			Target:   target,
		})
	}
	slices.SortFunc(records, func(a, b PersonalRecord) int {
		return strings.Compare(a.Exercise, b.Exercise)
	})

	return records, nil
}

func (s *ContextService) Streak(ctx context.Context) (int, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	return fitness.StreakFor(doc, s.now()), nil
}

func (s *ContextService) Progress(ctx context.Context) (*fitness.ProgressReport, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	report := fitness.Progress(doc, s.now())
	return &report, nil
}

// TodayPlan returns the plan for the given day (YYYY-MM-DD), or for today when date is empty.
func (s *ContextService) TodayPlan(ctx context.Context, date string) (*fitness.DayPlan, error) {
	day := s.now()
	if date != "" {
		parsed, err := fitness.ParseDate(date, day.Location())
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", date, err)
		}
		day = parsed
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	plan := fitness.PlanFor(day.Weekday(), doc.PRs)
	return &plan, nil
}
