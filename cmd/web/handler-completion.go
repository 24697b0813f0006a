package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jyoon-lee/haruhealth/internal/completion"
	"github.com/jyoon-lee/haruhealth/internal/errors"
	"github.com/jyoon-lee/haruhealth/internal/i18n"
	"github.com/jyoon-lee/haruhealth/internal/program"
)

type setCompletionRequest struct {
	Type      string       `json:"type"`
	Item      program.Item `json:"item"`
	Completed bool         `json:"completed"`
}

type dayCompletionResponse struct {
	Date        string             `json:"date"`
	State       completion.State   `json:"state"`
	Summary     completion.Summary `json:"summary"`
	Completions map[string]bool    `json:"completions"`
	Label       string             `json:"label,omitempty"`
}

// completionsPOST records a checked or unchecked item for a day. Earlier
// writes still flagged for retry are replayed first so the history catches
// up as soon as the store recovers.
func (app *application) completionsPOST(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	date, ok := app.parseDateParam(w, r)
	if !ok {
		return
	}

	var req setCompletionRequest
	if !app.decodeJSONBody(w, r, &req) {
		return
	}
	typ, err := program.ParseType(req.Type)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "type must be workout or diet")
		return
	}
	if req.Item.Name == "" {
		app.clientError(w, r, http.StatusBadRequest, "item name is required")
		return
	}

	if flushed, err := app.completions.FlushPending(ctx); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "flush pending completions failed", errors.SlogError(err))
	} else if flushed > 0 {
		app.logger.LogAttrs(ctx, slog.LevelInfo, "replayed pending completion history",
			slog.Int("count", flushed))
	}

	dateStr := date.Format(time.DateOnly)
	if err := app.completions.SetCompletion(ctx, dateStr, typ, req.Item, req.Completed); err != nil {
		app.serverError(w, r, errors.Wrap(err, "set completion"))
		return
	}

	completions, err := app.completions.DayCompletions(ctx, dateStr)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "day completions"))
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"status":      "ok",
		"completions": completions,
	})
}

// completionsGET summarizes a day: which items are checked off and the
// tri-state rollup over the day's records. The rollup deliberately ignores
// the currently resolved plan, so a regenerated recommendation leaves past
// dates untouched.
func (app *application) completionsGET(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	date, ok := app.parseDateParam(w, r)
	if !ok {
		return
	}
	dateStr := date.Format(time.DateOnly)

	completions, err := app.completions.DayCompletions(ctx, dateStr)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "day completions"))
		return
	}

	summary := completion.Summarize(completions)
	resp := dayCompletionResponse{
		Date:        dateStr,
		State:       summary.State(),
		Summary:     summary,
		Completions: completions,
	}
	switch resp.State {
	case completion.StateComplete:
		resp.Label = i18n.Translate(preferredLanguage(r), "calendar.complete")
	case completion.StatePartial:
		resp.Label = i18n.Translate(preferredLanguage(r), "calendar.partial")
	case completion.StateEmpty:
	}

	app.writeJSON(w, r, http.StatusOK, resp)
}
