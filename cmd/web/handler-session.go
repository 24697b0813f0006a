package main

import (
	"net/http"

	"github.com/jyoon-lee/haruhealth/internal/contexthelpers"
	"github.com/jyoon-lee/haruhealth/internal/errors"
)

type sessionStartRequest struct {
	DisplayName string `json:"displayName"`
}

type sessionResponse struct {
	UserID      int64  `json:"userId"`
	DisplayName string `json:"displayName"`
}

// sessionStartPOST provisions a user for the device and binds it to the
// session. Calling it again on an established session is a no-op that
// returns the existing identity.
func (app *application) sessionStartPOST(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if userID := app.sessionManager.GetInt64(ctx, sessionKeyUserID); userID != 0 {
		displayName, err := app.db.LookupUser(ctx, userID)
		if err != nil {
			app.serverError(w, r, errors.Wrap(err, "lookup session user"))
			return
		}
		app.writeJSON(w, r, http.StatusOK, sessionResponse{UserID: userID, DisplayName: displayName})
		return
	}

	var req sessionStartRequest
	if r.ContentLength > 0 && !app.decodeJSONBody(w, r, &req) {
		return
	}
	if req.DisplayName == "" {
		req.DisplayName = "회원"
	}

	userID, err := app.db.CreateUser(ctx, req.DisplayName)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "create user"))
		return
	}

	// Renew the token on privilege change to prevent session fixation.
	if err = app.sessionManager.RenewToken(ctx); err != nil {
		app.serverError(w, r, errors.Wrap(err, "renew session token"))
		return
	}
	app.sessionManager.Put(ctx, sessionKeyUserID, userID)

	app.writeJSON(w, r, http.StatusCreated, sessionResponse{UserID: userID, DisplayName: req.DisplayName})
}

// sessionLogoutPOST destroys the session. The recommendation cache lives in
// the session, so logging out also clears it.
func (app *application) sessionLogoutPOST(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !contexthelpers.IsAuthenticated(ctx) {
		app.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	if err := app.sessionManager.Destroy(ctx); err != nil {
		app.serverError(w, r, errors.Wrap(err, "destroy session"))
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
