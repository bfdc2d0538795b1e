package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireBotSecret(t *testing.T) {
	cases := []struct {
		name   string
		secret string
		header string
		want   int
	}{
		{"matching secret", "s3cret", "s3cret", http.StatusOK},
		{"wrong secret", "s3cret", "nope", http.StatusUnauthorized},
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"unconfigured secret rejects everything", "", "", http.StatusUnauthorized},
		{"unconfigured secret rejects non-empty header too", "", "anything", http.StatusUnauthorized},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/messages", nil)
			if tc.header != "" {
				req.Header.Set(SecretHeader, tc.header)
			}
			w := httptest.NewRecorder()

			RequireBotSecret(tc.secret)(next).ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}
