package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMatchWildcardRoute(t *testing.T) {
	t.Parallel()
	scenarios := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"/api/v1/jobs/abc", "/api/v1/jobs/*", true},
		{"/api/v1/jobs/abc/errors", "/api/v1/jobs/*/errors", true},
		{"/api/v1/jobs/abc/logs", "/api/v1/jobs/*/errors", false},
		{"/api/v1/jobs", "/api/v1/jobs/*", false},
		{"/swagger/index.html", "/swagger/*", true},
		{"/swagger/css/style.css", "/swagger/*", true},
		{"/other", "/swagger/*", false},
	}
	for _, sc := range scenarios {
		assert.Equal(t, sc.want, matchWildcardRoute(sc.path, sc.pattern), "%s vs %s", sc.path, sc.pattern)
	}
}

func TestRouterDispatch(t *testing.T) {
	t.Parallel()
	r := New(zap.NewNop().Sugar())
	r.GET("/api/v1/jobs", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("list"))
	})
	r.GET("/api/v1/jobs/*", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("get"))
	})

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/jobs")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/v1/jobs/some-id")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/nope")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Post(srv.URL+"/api/v1/jobs", "application/json", nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	resp.Body.Close()
}
