package main

import (
	"net/http"
)

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	var (
		base = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
				commonContext(app.timeout(next)))))
		}
		noAuth = func(next http.Handler) http.Handler {
			return app.recoverPanic(base(next))
		}
		session = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(app.sessionManager.LoadAndSave(
				app.authenticate(base(next)))))
		}
		mustSession = func(next http.Handler) http.Handler {
			return session(app.mustAuthenticate(next))
		}
	)

	mux.Handle("POST /api/session/start", session(http.HandlerFunc(app.sessionStartPOST)))
	mux.Handle("POST /api/session/logout", session(http.HandlerFunc(app.sessionLogoutPOST)))

	mux.Handle("GET /api/recommendations/{date}", mustSession(http.HandlerFunc(app.recommendationGET)))
	mux.Handle("POST /api/recommendations", mustSession(http.HandlerFunc(app.recommendationPOST)))

	mux.Handle("GET /api/survey/days", mustSession(http.HandlerFunc(app.surveyDaysGET)))
	mux.Handle("POST /api/survey/days", mustSession(http.HandlerFunc(app.surveyDaysPOST)))

	mux.Handle("GET /api/completions/{date}", mustSession(http.HandlerFunc(app.completionsGET)))
	mux.Handle("POST /api/completions/{date}", mustSession(http.HandlerFunc(app.completionsPOST)))

	mux.Handle("GET /api/calendar", mustSession(http.HandlerFunc(app.calendarGET)))

	mux.Handle("GET /api/healthy", noAuth(http.HandlerFunc(app.healthy)))

	return mux
}
