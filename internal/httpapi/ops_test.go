package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/wordle-tls/internal/auth"
	"example.com/wordle-tls/internal/server"
)

type fixedSessions server.Stats

func (f fixedSessions) Stats() server.Stats { return server.Stats(f) }

type fixedCorpus struct{ targets, accepted int }

func (f fixedCorpus) Stats() (int, int) { return f.targets, f.accepted }

func newOps(t *testing.T) (http.Handler, *auth.Service) {
	t.Helper()
	svc := auth.NewService([]byte("test-secret"))
	h := &OpsHandler{
		Sessions: fixedSessions{Accepted: 3, Active: 1, Won: 2},
		Words:    fixedCorpus{targets: 59, accepted: 77},
	}
	return h.Routes(svc), svc
}

func TestHealth(t *testing.T) {
	routes, _ := newOps(t)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestStats(t *testing.T) {
	routes, svc := newOps(t)
	tok, err := svc.Sign("ops", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.EqualValues(t, 3, resp.Sessions.Accepted)
	assert.EqualValues(t, 2, resp.Sessions.Won)
	assert.Equal(t, WordsResponse{Targets: 59, Accepted: 77}, resp.Words)
}

func TestStats_Unauthorized(t *testing.T) {
	routes, _ := newOps(t)
	other, err := auth.Sign([]byte("other"), "ops", time.Hour)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":    "",
		"not bearer": "Basic abc",
		"bad token":  "Bearer " + other,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			routes.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			var e ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&e))
			assert.Equal(t, "unauthorized", e.Code)
		})
	}
}

func TestStats_MethodNotAllowed(t *testing.T) {
	routes, svc := newOps(t)
	tok, err := svc.Sign("ops", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}
