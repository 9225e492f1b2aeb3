package http

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Timeout bounds each request to the given duration and answers
// 504 Gateway Timeout when the handler overruns. A live fetch on a cache
// miss is the slow path this guards; the deadline also cancels the
// request context so downstream platform calls stop.
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()

			done := make(chan struct{})
			tw := &timeoutWriter{inner: w}

			go func() {
				next.ServeHTTP(tw, r.WithContext(ctx))
				close(done)
			}()

			select {
			case <-done:
			case <-ctx.Done():
				tw.timeout()
			}
		})
	}
}

// timeoutWriter serializes the race between the handler goroutine and the
// timeout path; whichever writes first wins, the other becomes a no-op.
type timeoutWriter struct {
	inner    http.ResponseWriter
	mu       sync.Mutex
	timedOut bool
	written  bool
}

func (w *timeoutWriter) Header() http.Header {
	return w.inner.Header()
}

func (w *timeoutWriter) WriteHeader(statusCode int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut || w.written {
		return
	}
	w.written = true
	w.inner.WriteHeader(statusCode)
}

func (w *timeoutWriter) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !w.written {
		w.written = true
		w.inner.WriteHeader(http.StatusOK)
	}
	return w.inner.Write(data)
}

func (w *timeoutWriter) timeout() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.timedOut = true
	if w.written {
		return
	}
	w.inner.Header().Set("Content-Type", "application/json")
	w.inner.WriteHeader(http.StatusGatewayTimeout)
	_, _ = w.inner.Write([]byte(`{"error":"request timeout"}`))
}
