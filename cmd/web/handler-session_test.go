package main

import (
	"net/http"
	"testing"
)

func Test_application_session(t *testing.T) {
	ts := newTestServer(t)

	t.Run("protected routes require a session", func(t *testing.T) {
		if status := ts.get(t, "/api/recommendations/2026-09-01", nil); status != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", status, http.StatusUnauthorized)
		}
	})

	var userID int64

	t.Run("start provisions a user", func(t *testing.T) {
		var resp sessionResponse
		status := ts.post(t, "/api/session/start", sessionStartRequest{DisplayName: "지윤"}, &resp)
		if status != http.StatusCreated {
			t.Fatalf("status = %d, want %d", status, http.StatusCreated)
		}
		if resp.UserID == 0 {
			t.Error("user id is zero")
		}
		if resp.DisplayName != "지윤" {
			t.Errorf("display name = %q, want %q", resp.DisplayName, "지윤")
		}
		userID = resp.UserID
	})

	t.Run("repeated start keeps the identity", func(t *testing.T) {
		var resp sessionResponse
		status := ts.post(t, "/api/session/start", nil, &resp)
		if status != http.StatusOK {
			t.Fatalf("status = %d, want %d", status, http.StatusOK)
		}
		if resp.UserID != userID {
			t.Errorf("user id = %d, want %d", resp.UserID, userID)
		}
	})

	t.Run("logout ends the session", func(t *testing.T) {
		if status := ts.post(t, "/api/session/logout", nil, nil); status != http.StatusOK {
			t.Fatalf("logout status = %d", status)
		}
		if status := ts.get(t, "/api/recommendations/2026-09-01", nil); status != http.StatusUnauthorized {
			t.Errorf("status after logout = %d, want %d", status, http.StatusUnauthorized)
		}
	})
}
