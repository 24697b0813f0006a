package main

import (
	"log/slog"
	"net/http"

	"github.com/jyoon-lee/haruhealth/internal/errors"
	"github.com/jyoon-lee/haruhealth/internal/i18n"
	"github.com/jyoon-lee/haruhealth/internal/program"
	"github.com/jyoon-lee/haruhealth/internal/weekday"
)

type surveyDaysRequest struct {
	Days []string `json:"days"`
}

type surveyDaysResponse struct {
	Days []weekday.Key `json:"days"`
	// Defaulted is true when the user has not completed the survey and the
	// Monday/Wednesday/Friday defaults apply.
	Defaulted bool `json:"defaulted"`
	// Warning is set when parts of the submission were skipped.
	Warning string `json:"warning,omitempty"`
}

func activeDaysToList(days program.ActiveDays) []weekday.Key {
	selected := []weekday.Key{}
	for _, day := range weekday.Keys() {
		if days[day] {
			selected = append(selected, day)
		}
	}
	return selected
}

func (app *application) surveyDaysGET(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	days, err := app.programs.ActiveDays(ctx)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "get survey days"))
		return
	}

	resp := surveyDaysResponse{Days: activeDaysToList(days)}
	if len(resp.Days) == 0 {
		resp.Days = activeDaysToList(program.DefaultActiveDays())
		resp.Defaulted = true
	}
	app.writeJSON(w, r, http.StatusOK, resp)
}

// surveyDaysPOST stores the survey-declared training days. Day names are
// accepted in Korean or English, full or abbreviated. Unrecognized names
// are skipped with a warning rather than failing the whole submission,
// matching how the engine treats unknown day keys in generated payloads.
func (app *application) surveyDaysPOST(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req surveyDaysRequest
	if !app.decodeJSONBody(w, r, &req) {
		return
	}

	days := program.ActiveDays{}
	skipped := 0
	for _, name := range req.Days {
		day, err := weekday.Canonical(name)
		if err != nil {
			app.logger.LogAttrs(ctx, slog.LevelWarn, "skipping unrecognized survey day",
				slog.String("day", name))
			skipped++
			continue
		}
		days[day] = true
	}

	if err := app.programs.SetActiveDays(ctx, days); err != nil {
		app.serverError(w, r, errors.Wrap(err, "save survey days"))
		return
	}

	resp := surveyDaysResponse{Days: activeDaysToList(days)}
	if skipped > 0 {
		resp.Warning = i18n.Translate(preferredLanguage(r), "survey.day.unrecognized")
	}
	app.writeJSON(w, r, http.StatusOK, resp)
}
