package program

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexedwards/scs/v2"
	"github.com/jyoon-lee/haruhealth/internal/contexthelpers"
	"github.com/jyoon-lee/haruhealth/internal/sqlite"
)

// recordStore is the backend tier of the resolver.
type recordStore interface {
	Latest(ctx context.Context, typ Type) (json.RawMessage, error)
	Append(ctx context.Context, typ Type, payload json.RawMessage) error
}

// surveyStore persists the survey-declared active days.
type surveyStore interface {
	ActiveDays(ctx context.Context) (ActiveDays, error)
	SetActiveDays(ctx context.Context, days ActiveDays) error
}

// Service resolves which source supplies the weekly program to display.
type Service struct {
	records recordStore
	survey  surveyStore
	cache   Cache
	logger  *slog.Logger
}

// NewService creates a program service backed by sqlite and the session
// cache.
func NewService(db *sqlite.Database, sessions *scs.SessionManager, logger *slog.Logger) *Service {
	return &Service{
		records: newRecordRepository(db, logger),
		survey:  newSurveyRepository(db),
		cache:   NewSessionCache(sessions),
		logger:  logger,
	}
}

// Resolve returns the weekly program for the given type together with the
// tier that supplied it. The tiers are strictly ordered and short-circuit:
//
//  1. explicit payload handed in by the caller, freshest possible data
//  2. per-user session cache (with a legacy unkeyed fallback)
//  3. latest stored backend record, written through to the cache on a hit
//  4. none: an all-empty week; the caller guides the user to the survey
//     instead of silently regenerating
//
// At most one backend query runs per resolution and a backend failure is
// treated like a miss. The only returned error is the context's own, so a
// caller abandoning the view can cancel an in-flight backend query.
func (s *Service) Resolve(ctx context.Context, typ Type, explicit json.RawMessage) (Resolution, error) {
	if err := ctx.Err(); err != nil {
		return Resolution{}, fmt.Errorf("resolve %s: %w", typ, err)
	}

	if len(explicit) > 0 {
		if week := Normalize(explicit); !week.Empty() {
			return Resolution{Program: week, Origin: TierExplicit}, nil
		}
	}

	if week, ok := s.cachedProgram(ctx, typ); ok {
		return Resolution{Program: week, Origin: TierCache}, nil
	}

	raw, err := s.records.Latest(ctx, typ)
	switch {
	case errors.Is(err, ErrNotFound):
		// Fall through to the none tier.
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Resolution{}, fmt.Errorf("resolve %s: %w", typ, ctxErr)
		}
		s.logger.LogAttrs(ctx, slog.LevelWarn, "backend recommendation lookup failed",
			slog.String("type", string(typ)), slog.Any("error", err))
	default:
		if week := Normalize(raw); !week.Empty() {
			s.WriteCache(ctx, typ, week)
			return Resolution{Program: week, Origin: TierBackend}, nil
		}
	}

	return Resolution{Program: NewWeekly(), Origin: TierNone}, nil
}

// cachedProgram consults the per-user cache entry, falling back to the
// legacy unkeyed entry written by pre-multi-user clients.
func (s *Service) cachedProgram(ctx context.Context, typ Type) (Weekly, bool) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	value, ok := s.cache.Get(ctx, CacheKey(userID))
	if !ok {
		value, ok = s.cache.Get(ctx, legacyCacheKey)
	}
	if !ok {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(value, &entry); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "discarding unreadable cache entry",
			slog.Any("error", err))
		return nil, false
	}

	week := Normalize(entry.program(typ))
	if week.Empty() {
		return nil, false
	}
	return week, true
}

// WriteCache persists a resolved program into the per-user cache entry so
// later lookups skip the backend tier. Metadata already present in the
// entry is kept.
func (s *Service) WriteCache(ctx context.Context, typ Type, week Weekly) {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	key := CacheKey(userID)

	var entry Entry
	if value, ok := s.cache.Get(ctx, key); ok {
		if err := json.Unmarshal(value, &entry); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "overwriting unreadable cache entry",
				slog.Any("error", err))
			entry = Entry{}
		}
	}

	payload, err := json.Marshal(week)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "marshal weekly program", slog.Any("error", err))
		return
	}
	entry.setProgram(typ, payload)

	value, err := json.Marshal(entry)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "marshal cache entry", slog.Any("error", err))
		return
	}
	s.cache.Set(ctx, key, value)
}

// StoreGenerated appends a freshly generated payload as the newest backend
// record for the user. The payload is stored verbatim; normalization
// happens on every read.
func (s *Service) StoreGenerated(ctx context.Context, typ Type, payload json.RawMessage) error {
	if !json.Valid(payload) {
		return fmt.Errorf("store %s payload: %w", typ, errors.New("invalid JSON"))
	}
	if err := s.records.Append(ctx, typ, payload); err != nil {
		return fmt.Errorf("store %s payload: %w", typ, err)
	}
	return nil
}

// ActiveDays returns the survey-declared training days.
func (s *Service) ActiveDays(ctx context.Context) (ActiveDays, error) {
	days, err := s.survey.ActiveDays(ctx)
	if err != nil {
		return nil, fmt.Errorf("get active days: %w", err)
	}
	return days, nil
}

// SetActiveDays stores the survey-declared training days.
func (s *Service) SetActiveDays(ctx context.Context, days ActiveDays) error {
	if err := s.survey.SetActiveDays(ctx, days); err != nil {
		return fmt.Errorf("set active days: %w", err)
	}
	return nil
}
