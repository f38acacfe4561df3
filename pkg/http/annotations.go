package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
)

// maxAnnotatedBody bounds the request body kept on a Resource
const maxAnnotatedBody = 64 * 1024

type resourceKey struct{}

// Resource represents the API resource a request acts on
type Resource struct {
	// Type is the type of resource (e.g. "template-silos", "snapshots")
	Type string
	// ID is the first path segment after the resource type, if any
	ID string
	// Action is "view", "create", "update" or "delete"
	Action string
	// Body is the request body when it is small enough to keep
	Body []byte
}

// WithResourceHolder returns a request carrying an empty Resource that
// ResourceMiddleware further down the chain fills in. The caller reads
// the holder after the handler returns.
func WithResourceHolder(r *http.Request) (*http.Request, *Resource) {
	holder := &Resource{}
	return r.WithContext(context.WithValue(r.Context(), resourceKey{}, holder)), holder
}

// ResourceFromContext retrieves the resource annotated on the request
func ResourceFromContext(r *http.Request) (Resource, bool) {
	holder, ok := r.Context().Value(resourceKey{}).(*Resource)
	if !ok || holder.Type == "" {
		return Resource{}, false
	}
	return *holder, true
}

// ResourceMiddleware creates a middleware that annotates requests with
// resource information
func ResourceMiddleware(resourceType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Assuming path format: /api/v1/{resourceType}/{id}
			parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
			var resourceID string
			for i, p := range parts {
				if p == resourceType && i+1 < len(parts) {
					resourceID = parts[i+1]
					break
				}
			}

			action := "view"
			switch r.Method {
			case http.MethodPost:
				action = "create"
			case http.MethodPut, http.MethodPatch:
				action = "update"
			case http.MethodDelete:
				action = "delete"
			}

			var body []byte
			if action == "create" || action == "update" {
				if r.Body != nil {
					raw, err := io.ReadAll(r.Body)
					r.Body.Close()
					r.Body = io.NopCloser(bytes.NewReader(raw))
					if err == nil && len(raw) <= maxAnnotatedBody {
						body = raw
					}
				}
			}

			resource := Resource{
				Type:   resourceType,
				ID:     resourceID,
				Action: action,
				Body:   body,
			}

			holder, ok := r.Context().Value(resourceKey{}).(*Resource)
			if !ok {
				r, holder = WithResourceHolder(r)
			}
			*holder = resource
			next.ServeHTTP(w, r)
		})
	}
}
