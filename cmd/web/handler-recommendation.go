package main

import (
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jyoon-lee/haruhealth/internal/errors"
	"github.com/jyoon-lee/haruhealth/internal/i18n"
	"github.com/jyoon-lee/haruhealth/internal/program"
	"github.com/jyoon-lee/haruhealth/internal/weekday"
)

type dayRecommendationResponse struct {
	Date    string         `json:"date"`
	Weekday weekday.Key    `json:"weekday"`
	Type    program.Type   `json:"type"`
	Origin  program.Tier   `json:"origin"`
	Active  bool           `json:"active"`
	Items   []program.Item `json:"items"`
	Message string         `json:"message,omitempty"`
}

type storeRecommendationRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type weeklyRecommendationResponse struct {
	Type   program.Type   `json:"type"`
	Origin program.Tier   `json:"origin"`
	Week   program.Weekly `json:"week"`
}

// parseTypeQuery reads the program type from the query string, defaulting
// to workout.
func (app *application) parseTypeQuery(w http.ResponseWriter, r *http.Request) (program.Type, bool) {
	raw := r.URL.Query().Get("type")
	if raw == "" {
		return program.TypeWorkout, true
	}
	typ, err := program.ParseType(raw)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "type must be workout or diet")
		return "", false
	}
	return typ, true
}

// recommendationGET resolves the program for a date and filters it down to
// what that day should display.
func (app *application) recommendationGET(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	date, ok := app.parseDateParam(w, r)
	if !ok {
		return
	}
	typ, ok := app.parseTypeQuery(w, r)
	if !ok {
		return
	}

	// The resolution and the survey are independent lookups.
	var (
		resolution program.Resolution
		surveyDays program.ActiveDays
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		resolution, err = app.programs.Resolve(gctx, typ, nil)
		return err
	})
	g.Go(func() error {
		var err error
		surveyDays, err = app.programs.ActiveDays(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		app.serverError(w, r, errors.Wrap(err, "gather recommendation data"))
		return
	}

	day := weekday.FromDate(date)
	display := program.ShouldDisplay(day, surveyDays, resolution.Program)

	resp := dayRecommendationResponse{
		Date:    date.Format(time.DateOnly),
		Weekday: day,
		Type:    typ,
		Origin:  resolution.Origin,
		Active:  program.IsActiveDay(day, surveyDays),
		Items:   []program.Item{},
	}
	switch {
	case resolution.Origin == program.TierNone:
		resp.Message = i18n.Translate(preferredLanguage(r), "recommendation.none")
	case !display:
		resp.Message = i18n.Translate(preferredLanguage(r), "recommendation.rest_day")
	default:
		resp.Items = resolution.Program[day]
	}

	app.writeJSON(w, r, http.StatusOK, resp)
}

// recommendationPOST accepts a freshly generated weekly payload, stores it
// as the newest backend record and primes the cache with its repaired form.
func (app *application) recommendationPOST(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req storeRecommendationRequest
	if !app.decodeJSONBody(w, r, &req) {
		return
	}
	typ, err := program.ParseType(req.Type)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "type must be workout or diet")
		return
	}
	if len(req.Payload) == 0 {
		app.clientError(w, r, http.StatusBadRequest, "payload is required")
		return
	}

	if err = app.programs.StoreGenerated(ctx, typ, req.Payload); err != nil {
		app.serverError(w, r, errors.Wrap(err, "store generated recommendation"))
		return
	}

	resolution, err := app.programs.Resolve(ctx, typ, req.Payload)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "resolve stored recommendation"))
		return
	}
	app.programs.WriteCache(ctx, typ, resolution.Program)

	app.writeJSON(w, r, http.StatusCreated, weeklyRecommendationResponse{
		Type:   typ,
		Origin: resolution.Origin,
		Week:   resolution.Program,
	})
}
