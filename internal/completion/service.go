package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jyoon-lee/haruhealth/internal/program"
	"github.com/jyoon-lee/haruhealth/internal/sqlite"
)

// repository is the persistence surface the service needs. It is an
// interface so tests can substitute a failing fake.
type repository interface {
	Save(ctx context.Context, rec Record) error
	MarkPending(ctx context.Context, date, itemName string) error
	ClearPending(ctx context.Context, date, itemName string) error
	Pending(ctx context.Context) ([]Record, error)
	AppendHistory(ctx context.Context, rec Record) error
	DayCompletions(ctx context.Context, date string) (map[string]bool, error)
	RangeCompletions(ctx context.Context, from, to string) (map[string]map[string]bool, error)
}

// Service records completion changes and summarizes days for the calendar.
type Service struct {
	repo   repository
	logger *slog.Logger
}

// NewService creates a completion service backed by sqlite.
func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	return &Service{
		repo:   newRepository(db),
		logger: logger,
	}
}

// SetCompletion records that the user checked an item on or off for a day.
// The current-state write must succeed; the history append is replayed
// later via FlushPending if it fails, so a flaky history write never
// surfaces to the user as a lost checkmark.
func (s *Service) SetCompletion(ctx context.Context, date string, typ program.Type, item program.Item, completed bool) error {
	details, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal completion details: %w", err)
	}
	rec := Record{
		Date:      date,
		Type:      typ,
		ItemName:  item.Name,
		Completed: completed,
		Details:   details,
	}

	if err := s.repo.Save(ctx, rec); err != nil {
		return fmt.Errorf("set completion: %w", err)
	}

	if err := s.repo.AppendHistory(ctx, rec); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "completion history append failed, flagged for retry",
			slog.String("date", date), slog.String("item", item.Name), slog.Any("error", err))
		if err := s.repo.MarkPending(ctx, date, item.Name); err != nil {
			return fmt.Errorf("flag completion for retry: %w", err)
		}
	}
	return nil
}

// FlushPending replays history appends that failed earlier and reports how
// many were recovered. Records that fail again keep their flag.
func (s *Service) FlushPending(ctx context.Context) (int, error) {
	pending, err := s.repo.Pending(ctx)
	if err != nil {
		return 0, fmt.Errorf("flush pending completions: %w", err)
	}

	flushed := 0
	for _, rec := range pending {
		if err := s.repo.AppendHistory(ctx, rec); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "completion history replay failed",
				slog.String("date", rec.Date), slog.String("item", rec.ItemName), slog.Any("error", err))
			continue
		}
		if err := s.repo.ClearPending(ctx, rec.Date, rec.ItemName); err != nil {
			return flushed, fmt.Errorf("flush pending completions: %w", err)
		}
		flushed++
	}
	return flushed, nil
}

// DayCompletions returns the completed flag per item name for one day.
func (s *Service) DayCompletions(ctx context.Context, date string) (map[string]bool, error) {
	completions, err := s.repo.DayCompletions(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("day completions: %w", err)
	}
	return completions, nil
}

// RangeCompletions returns completion flags per date over [from, to].
func (s *Service) RangeCompletions(ctx context.Context, from, to string) (map[string]map[string]bool, error) {
	byDate, err := s.repo.RangeCompletions(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("range completions: %w", err)
	}
	return byDate, nil
}
