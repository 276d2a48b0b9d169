package httpapi

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/MimeLyc/dreamsense/pkg/log"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}

// withRequestLog tags every request with an id and writes one access log line.
func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		duration := time.Since(start).Round(time.Millisecond)
		if rec.status >= http.StatusInternalServerError {
			log.Error("%s %s %d %s req=%s", r.Method, r.URL.Path, rec.status, duration, id)
			return
		}
		log.Info("%s %s %d %s req=%s", r.Method, r.URL.Path, rec.status, duration, id)
	})
}

// withRecovery turns a panic into a 500, unless the handler already
// started its response.
func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if err := recover(); err != nil {
				log.Error("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, err, debug.Stack())
				if rec.wroteHeader {
					return
				}
				writeError(rec, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(rec, r)
	})
}
