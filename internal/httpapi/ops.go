package httpapi

import (
	"log/slog"
	"net/http"

	"example.com/wordle-tls/internal/server"
)

// SessionStats is satisfied by *server.Dispatcher.
type SessionStats interface {
	Stats() server.Stats
}

// CorpusStats is satisfied by *words.Corpus.
type CorpusStats interface {
	Stats() (targets, accepted int)
}

type WordsResponse struct {
	Targets  int `json:"targets"`
	Accepted int `json:"accepted"`
}

type StatsResponse struct {
	Sessions server.Stats  `json:"sessions"`
	Words    WordsResponse `json:"words"`
}

// OpsHandler serves the operator surface: an open health check and
// token-protected counters.
type OpsHandler struct {
	Sessions SessionStats
	Words    CorpusStats
	Log      *slog.Logger
}

func (h *OpsHandler) Routes(v TokenVerifier) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.Health)
	mux.Handle("/api/stats", AuthMiddleware(v)(http.HandlerFunc(h.Stats)))
	return mux
}

func (h *OpsHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *OpsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	var resp StatsResponse
	resp.Sessions = h.Sessions.Stats()
	resp.Words.Targets, resp.Words.Accepted = h.Words.Stats()

	if h.Log != nil {
		op, _ := OperatorFromContext(r.Context())
		h.Log.Debug("stats requested", "operator", op)
	}
	writeJSON(w, http.StatusOK, resp)
}
