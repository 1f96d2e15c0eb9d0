package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/auth"
)

func TestAuth(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := manager.Generate(&domain.User{ID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	testCases := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid token", header: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + token, wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token, wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotUser *domain.User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = GetUserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()

			Auth(manager)(next).ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rr.Code)
			}
			if tc.wantStatus == http.StatusOK {
				if gotUser == nil || gotUser.ID != "user-1" || gotUser.Username != "alice" {
					t.Fatalf("expected user-1 in context, got %+v", gotUser)
				}
			}
		})
	}
}

func TestGetUserFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := GetUserFromContext(req.Context()); ok {
		t.Fatalf("expected no user in a bare context")
	}
}
