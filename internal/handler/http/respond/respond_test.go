package respond

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, 201, map[string]string{"status": "created"})

	if w.Code != 201 {
		t.Errorf("code = %d, want 201", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["status"] != "created" {
		t.Errorf("body = %v", body)
	}
}

func TestJSON_NilBody(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, 204, nil)
	if w.Code != 204 {
		t.Errorf("code = %d, want 204", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", w.Body.String())
	}
}

func TestSafeError_SafeMessagePassedThrough(t *testing.T) {
	w := httptest.NewRecorder()
	SafeError(w, 400, errors.New("username is required"))

	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != "username is required" {
		t.Errorf("error = %q, want validation message passed through", body["error"])
	}
}

func TestSafeError_InternalMessageMasked(t *testing.T) {
	w := httptest.NewRecorder()
	SafeError(w, 500, errors.New("dial tcp 10.0.0.5:6379: connection refused"))

	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != "internal server error" {
		t.Errorf("error = %q, want generic message for 5xx", body["error"])
	}
}

func TestSafeErrorV2_AppError(t *testing.T) {
	w := httptest.NewRecorder()
	appErr := NewAppError(404, "user not found", errors.New("no rows"))
	SafeErrorV2(w, 500, appErr)

	if w.Code != 404 {
		t.Errorf("code = %d, want AppError code 404", w.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != "user not found" {
		t.Errorf("error = %q, want user message", body["error"])
	}
}
