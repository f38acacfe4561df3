package audit

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	httputil "github.com/tata-ai/tata/pkg/http"
)

const (
	// maxBodySize is the maximum size of a response body to log
	maxBodySize = 64 * 1024
	// RequestIDHeader carries the audit request id back to the client
	RequestIDHeader = "X-Request-ID"
)

// isAPIPath checks if the path is an API endpoint
func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// HTTPMiddleware creates a middleware that audits mutating API requests
func HTTPMiddleware(service *AuditService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isAPIPath(r.URL.Path) || !isMutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			requestID := uuid.New()
			w.Header().Set(RequestIDHeader, requestID.String())

			r, resource := httputil.WithResourceHolder(r)
			rw := newResponseWriter(w)
			start := time.Now()
			next.ServeHTTP(rw, r)
			duration := time.Since(start)

			details := map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"query":      r.URL.RawQuery,
				"user_agent": r.UserAgent(),
				"duration":   duration.String(),
				"status":     rw.statusCode,
			}
			if rw.statusCode >= 400 && len(rw.body) > 0 {
				details["response_body"] = string(rw.body)
			}

			event := NewHTTPEvent(requestID, rw.statusCode)
			event.Details = details
			event.SourceIP = r.RemoteAddr
			event.AffectedResource = affectedResource(r.URL.Path)
			if resource.Type != "" {
				details["resource_type"] = resource.Type
				details["action"] = resource.Action
				if resource.ID != "" {
					details["resource_id"] = resource.ID
				}
				if len(resource.Body) > 0 {
					details["request_body"] = string(resource.Body)
				}
			}

			service.LogEventAsync(event)
		})
	}
}

// affectedResource strips the /api/v1 prefix: /api/v1/template-silos/import
// becomes template-silos/import
func affectedResource(path string) string {
	p := strings.TrimPrefix(path, "/api/")
	if i := strings.Index(p, "/"); i > 1 && p[0] == 'v' && p[1] >= '0' && p[1] <= '9' {
		p = p[i+1:]
	}
	return strings.TrimSuffix(p, "/")
}

// responseWriter is a wrapper around http.ResponseWriter that captures the status code and body
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	body       []byte
}

// newResponseWriter creates a new responseWriter
func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK, nil}
}

// WriteHeader captures the status code before writing it
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Write captures the response body before writing it
func (rw *responseWriter) Write(b []byte) (int, error) {
	if len(rw.body)+len(b) <= maxBodySize {
		rw.body = append(rw.body, b...)
	}
	return rw.ResponseWriter.Write(b)
}
