package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	orchestratorx "github.com/tanpawarit/promo-agent/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

const defaultMaxBodyBytes = 1 << 20

type Config struct {
	Addr           string        `envconfig:"ADDR" default:":8000"`
	JWTSecret      string        `envconfig:"JWT_SECRET" split_words:"true" required:"true"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" split_words:"true" default:"120s"`
	MaxBodyBytes   int64         `envconfig:"MAX_BODY_BYTES" split_words:"true" default:"1048576"`
}

// Runner answers one chat message.
type Runner interface {
	Run(ctx context.Context, message string, sessionID string, userID *int64) (contractx.Reply, error)
}

type ChatRequest struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

type ChatResponse struct {
	ChatID    string   `json:"chatId"`
	Reply     string   `json:"reply"`
	ToolsUsed []string `json:"tools_used"`
}

type Handler struct {
	runner         Runner
	locks          *sessionLocks
	requestTimeout time.Duration
	maxBodyBytes   int64
	newID          func() string
}

func NewHandler(runner Runner, cfg Config) (*Handler, error) {
	if runner == nil {
		return nil, errors.New("runner is required")
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	return &Handler{
		runner:         runner,
		locks:          newSessionLocks(),
		requestTimeout: cfg.RequestTimeout,
		maxBodyBytes:   maxBody,
		newID:          uuid.NewString,
	}, nil
}

// NewRouter mounts the chat routes behind auth plus an unauthenticated
// health check.
func NewRouter(h *Handler, auth *Authenticator) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)
		h.RegisterRoutes(r)
	})
	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.HandleChat)
}

func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, ErrMissingUserID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, errors.New("request body too large"))
			return
		}
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, errors.New("message is required"))
		return
	}
	req.ChatID = strings.TrimSpace(req.ChatID)
	if req.ChatID == "" {
		req.ChatID = h.newID()
	}

	ctx := r.Context()
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	release, err := h.locks.acquire(ctx, req.ChatID)
	if err != nil {
		log.Warn().Err(err).
			Str("session_id", req.ChatID).
			Int64("user_id", userID).
			Msg("session busy")
		writeError(w, http.StatusGatewayTimeout, errors.New("session is busy, try again"))
		return
	}
	reply, err := h.runner.Run(ctx, req.Message, req.ChatID, &userID)
	release()
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, orchestratorx.ErrInvalidMessage), errors.Is(err, orchestratorx.ErrInvalidSession):
			status = http.StatusBadRequest
		case errors.Is(err, context.DeadlineExceeded):
			status = http.StatusGatewayTimeout
		}
		log.Error().Err(err).
			Str("session_id", req.ChatID).
			Int64("user_id", userID).
			Msg("chat run failed")
		if status == http.StatusInternalServerError {
			err = errors.New("failed to process message")
		}
		writeError(w, status, err)
		return
	}

	toolsUsed := reply.ToolsUsed
	if toolsUsed == nil {
		toolsUsed = []string{}
	}
	writeJSON(w, http.StatusOK, ChatResponse{
		ChatID:    req.ChatID,
		Reply:     reply.Text,
		ToolsUsed: toolsUsed,
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("request_id", chiMiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("write response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
