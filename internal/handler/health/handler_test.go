package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		path       string
		store      Pinger
		wantStatus int
		wantBody   string
	}{
		{"live", "/api/v1/health/live", pinger{}, http.StatusOK, `"UP"`},
		{"live ignores store", "/api/v1/health/live", pinger{errors.New("down")}, http.StatusOK, `"UP"`},
		{"ready", "/api/v1/health/ready", pinger{}, http.StatusOK, `"UP"`},
		{"not ready", "/api/v1/health/ready", pinger{errors.New("dial tcp: refused")}, http.StatusServiceUnavailable, `"DOWN"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			NewHandler(tt.store).RegisterRoutes(r.Group("/api/v1"))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.NotContains(t, w.Body.String(), "refused")
		})
	}
}
