package http

import (
	"net/http"
)

const (
	maxAuthHeaderBytes = 8192
	maxPathBytes       = 2048
	maxBodyBytes       = 10 << 20
)

// InputValidation caps request input sizes before any handler runs:
// Authorization header 8KB, URI path 2KB, body 10MB.
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.Header.Get("Authorization")) > maxAuthHeaderBytes {
				writeJSONError(w, http.StatusBadRequest, "authorization header too large")
				return
			}

			if len(r.URL.Path) > maxPathBytes {
				writeJSONError(w, http.StatusRequestURITooLong, "URI too long")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
