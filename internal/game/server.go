package game

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"example.com/digitduel/internal/httpapi"
	"github.com/gorilla/websocket"
)

type Config struct {
	SendBuffer     int
	PingInterval   time.Duration // pong wait is twice this
	ReadLimit      int64
	AllowedOrigins []string // empty or "*" => any origin
}

// ModeStats aggregates finished rounds for one mode.
type ModeStats struct {
	Mode       Mode    `json:"mode"`
	Games      int     `json:"games"`
	AvgGuesses float64 `json:"avgGuesses"`
}

type StatsProvider interface {
	ModeStats(ctx context.Context) ([]ModeStats, error)
}

// Deps are the collaborators of the HTTP surface. Archive and Stats are
// optional; their endpoints answer 503 when unset.
type Deps struct {
	Coordinator *Coordinator
	Archive     ArchiveReader
	Stats       StatsProvider
	Logger      *slog.Logger
}

type Server struct {
	cfg      Config
	coord    *Coordinator
	archive  ArchiveReader
	stats    StatsProvider
	log      *slog.Logger
	upgrader websocket.Upgrader
}

func NewServer(cfg Config, deps Deps) *Server {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 64
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 25 * time.Second
	}
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = 4096
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		cfg:     cfg,
		coord:   deps.Coordinator,
		archive: deps.Archive,
		stats:   deps.Stats,
		log:     log,
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	return s
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /api/lobby", s.handleLobby)
	mux.HandleFunc("GET /api/rooms/{code}", s.handleRoom)
	mux.HandleFunc("GET /api/results/recent", s.handleRecentResults)
	mux.HandleFunc("GET /api/results/{code}/{round}", s.handleResult)
	mux.HandleFunc("GET /api/stats", s.handleStats)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	for _, o := range s.cfg.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

func (s *Server) handleLobby(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, s.coord.Stats())
}

func (s *Server) handleRoom(w http.ResponseWriter, r *http.Request) {
	sum, ok := s.coord.Room(r.PathValue("code"))
	if !ok {
		httpapi.WriteError(w, http.StatusNotFound, "room_not_found", ErrRoomNotFound.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, sum)
}

func (s *Server) handleRecentResults(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		httpapi.WriteError(w, http.StatusServiceUnavailable, "archive_disabled", "result archive is not configured")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			httpapi.WriteError(w, http.StatusBadRequest, "bad_input", "limit must be a positive integer")
			return
		}
		limit = min(n, recentResultsMax)
	}

	recs, err := s.archive.Recent(r.Context(), limit)
	if err != nil {
		s.log.Error("load recent results", "err", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "internal", "storage error")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, recs)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		httpapi.WriteError(w, http.StatusServiceUnavailable, "archive_disabled", "result archive is not configured")
		return
	}

	round, err := strconv.Atoi(r.PathValue("round"))
	if err != nil || round <= 0 {
		httpapi.WriteError(w, http.StatusBadRequest, "bad_input", "round must be a positive integer")
		return
	}

	rec, ok, err := s.archive.Load(r.Context(), r.PathValue("code"), round)
	if err != nil {
		s.log.Error("load result", "code", r.PathValue("code"), "round", round, "err", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "internal", "storage error")
		return
	}
	if !ok {
		httpapi.WriteError(w, http.StatusNotFound, "result_not_found", "result not found")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, rec)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		httpapi.WriteError(w, http.StatusServiceUnavailable, "stats_disabled", "database is not configured")
		return
	}

	stats, err := s.stats.ModeStats(r.Context())
	if err != nil {
		s.log.Error("load stats", "err", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "internal", "storage error")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, stats)
}
