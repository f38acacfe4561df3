package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceMiddleware(t *testing.T) {
	var handlerBody string
	var seen Resource
	h := ResourceMiddleware("template-silos")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		handlerBody = string(b)
		seen, _ = ResourceFromContext(r)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/template-silos/import", strings.NewReader(`{"templates":{}}`))
	req, holder := WithResourceHolder(req)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, `{"templates":{}}`, handlerBody, "body is restored for the handler")
	assert.Equal(t, "template-silos", holder.Type)
	assert.Equal(t, "import", holder.ID)
	assert.Equal(t, "create", holder.Action)
	assert.Equal(t, `{"templates":{}}`, string(holder.Body))
	assert.Equal(t, *holder, seen)
}

func TestResourceMiddlewareWithoutHolder(t *testing.T) {
	var seen Resource
	var ok bool
	h := ResourceMiddleware("snapshots")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, ok = ResourceFromContext(r)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/snapshots", nil))
	require.True(t, ok)
	assert.Equal(t, Resource{Type: "snapshots", Action: "view"}, seen)
}

func TestResourceFromContextUnannotated(t *testing.T) {
	req, _ := WithResourceHolder(httptest.NewRequest(http.MethodGet, "/", nil))
	_, ok := ResourceFromContext(req)
	assert.False(t, ok)
}
