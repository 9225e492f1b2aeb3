package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestInputValidation(t *testing.T) {
	handler := InputValidation()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("normal request passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/followings/platforms/X/users/bob", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("code = %d, want 200", w.Code)
		}
	})

	t.Run("oversized authorization header rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", strings.Repeat("x", 9000))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("code = %d, want 400", w.Code)
		}
	})

	t.Run("oversized path rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/"+strings.Repeat("a", 3000), nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusRequestURITooLong {
			t.Errorf("code = %d, want 414", w.Code)
		}
	})
}
