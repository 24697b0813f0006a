package main

import (
	"net/http"
	"time"

	"github.com/jyoon-lee/haruhealth/internal/completion"
	"github.com/jyoon-lee/haruhealth/internal/errors"
	"github.com/jyoon-lee/haruhealth/internal/weekday"
)

// maxCalendarDays caps the requested range at a little over a year.
const maxCalendarDays = 366

type calendarDay struct {
	Date      string           `json:"date"`
	Weekday   weekday.Key      `json:"weekday"`
	State     completion.State `json:"state"`
	Completed int              `json:"completed"`
	Total     int              `json:"total"`
}

type calendarResponse struct {
	From string        `json:"from"`
	To   string        `json:"to"`
	Days []calendarDay `json:"days"`
}

// calendarGET rolls up completion state per date over a range. Each day is
// aggregated purely from its completion records; the currently resolved
// plan plays no part, so regenerating a recommendation never rewrites the
// calendar's past.
func (app *application) calendarGET(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	from, err := time.Parse(time.DateOnly, r.URL.Query().Get("from"))
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "from must be a YYYY-MM-DD date")
		return
	}
	to, err := time.Parse(time.DateOnly, r.URL.Query().Get("to"))
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "to must be a YYYY-MM-DD date")
		return
	}
	if to.Before(from) {
		app.clientError(w, r, http.StatusBadRequest, "to must not be before from")
		return
	}
	if to.Sub(from) > maxCalendarDays*24*time.Hour {
		app.clientError(w, r, http.StatusBadRequest, "range is too large")
		return
	}

	completions, err := app.completions.RangeCompletions(
		ctx, from.Format(time.DateOnly), to.Format(time.DateOnly))
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "range completions"))
		return
	}

	resp := calendarResponse{
		From: from.Format(time.DateOnly),
		To:   to.Format(time.DateOnly),
		Days: []calendarDay{},
	}
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		dateStr := date.Format(time.DateOnly)
		summary := completion.Summarize(completions[dateStr])
		resp.Days = append(resp.Days, calendarDay{
			Date:      dateStr,
			Weekday:   weekday.FromDate(date),
			State:     summary.State(),
			Completed: summary.Completed,
			Total:     summary.Total,
		})
	}

	app.writeJSON(w, r, http.StatusOK, resp)
}
