package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rahulpandeyofficial/media-service/internal/utils/jwt"
)

func TestAuthMiddleware_RejectsWithoutDetail(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"empty token", "Bearer "},
		{"invalid token", "Bearer not-a-token"},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("Next handler should not be called for unauthenticated requests")
	})
	handler := AuthMiddleware("secret")(next)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/upload/video", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("Expected status 401, got %d", rec.Code)
			}

			var resp struct {
				Error string `json:"error"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode body: %v", err)
			}
			if resp.Error != "Unauthorized" {
				t.Fatalf("Expected error %q, got %q", "Unauthorized", resp.Error)
			}
		})
	}
}

func TestAuthMiddleware_PassesUserID(t *testing.T) {
	token, err := jwt.CreateToken("user-7", "secret")
	if err != nil {
		t.Fatalf("Failed to create token: %v", err)
	}

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		if !ok {
			t.Fatal("Expected user ID in context")
		}
		gotUserID = userID
	})

	req := httptest.NewRequest("POST", "/upload/video", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	AuthMiddleware("secret")(next).ServeHTTP(rec, req)

	if gotUserID != "user-7" {
		t.Fatalf("Expected user ID user-7, got %q", gotUserID)
	}
}
