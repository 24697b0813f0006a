package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jyoon-lee/haruhealth/internal/errors"
	"github.com/jyoon-lee/haruhealth/internal/i18n"
)

// writeJSON marshals v and writes it with the given status code.
func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "marshal response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(body); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "write response", errors.SlogError(err))
	}
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"error":"internal server error"}`))
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.logger.LogAttrs(r.Context(), slog.LevelDebug, "client error",
		slog.Int("status", status), slog.String("message", message))
	app.writeJSON(w, r, status, map[string]string{"error": message})
}

// decodeJSONBody decodes the request body into v, rejecting unknown shapes
// early with a 400.
func (app *application) decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

// parseDateParam parses the "date" path parameter from the request URL.
// On failure, sends HTTP 404 response automatically.
func (app *application) parseDateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	dateStr := r.PathValue("date")
	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		http.NotFound(w, r)
		return time.Time{}, false
	}
	return date, true
}

// preferredLanguage picks the response language from the Accept-Language
// header, defaulting to Korean.
func preferredLanguage(r *http.Request) i18n.Language {
	header := strings.ToLower(r.Header.Get("Accept-Language"))
	primary, _, _ := strings.Cut(header, ",")
	base, _, _ := strings.Cut(strings.TrimSpace(primary), "-")
	if lang := i18n.Language(base); i18n.IsSupported(lang) {
		return lang
	}
	return i18n.DefaultLanguage
}
