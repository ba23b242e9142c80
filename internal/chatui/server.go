package chatui

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
	errx "github.com/Chative-restaurant-poc/server/internal/core/error"
	"github.com/Chative-restaurant-poc/server/internal/metrics"
	logx "github.com/Chative-restaurant-poc/server/pkg/logger"
)

//go:embed static/index.html
var indexHTML []byte

type Config struct {
	Addr string `envconfig:"CHATUI_ADDR" default:":8501"`
}

// Agent is the part of the ordering agent the chat UI talks to.
type Agent interface {
	Invoke(ctx context.Context, in model.QueryInput) (string, error)
	Transcript(ctx context.Context, sessionID string) ([]*schema.Message, error)
	Reset(ctx context.Context, sessionID string) error
}

// Message is one transcript entry as rendered by the page.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	SessionID string    `json:"session_id"`
	Reply     string    `json:"reply"`
	Messages  []Message `json:"messages"`
}

type TranscriptResponse struct {
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
}

// Server serves the single page, its websocket and a small JSON API.
type Server struct {
	agent    Agent
	metrics  *metrics.Collector
	upgrader websocket.Upgrader
	newID    func() string
}

// NewServer returns a Server backed by agent. m may be nil, in which case /metrics is not mounted.
func NewServer(agent Agent, m *metrics.Collector) *Server {
	return &Server{
		agent:   agent,
		metrics: m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		newID: uuid.NewString,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", s.Index)
	r.GET("/ws", s.WebSocket)

	api := r.Group("/api")
	{
		api.POST("/chat", s.Chat)
		api.GET("/sessions/:id", s.GetTranscript)
		api.DELETE("/sessions/:id", s.DeleteSession)
	}

	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	return r
}

func (s *Server) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// Chat runs one turn. A missing session id starts a new session.
func (s *Server) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errx.BadRequest(err))
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = s.newID()
	}

	reply, messages, err := s.turn(c.Request.Context(), sessionID, req.Message)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ChatResponse{SessionID: sessionID, Reply: reply, Messages: messages})
}

func (s *Server) GetTranscript(c *gin.Context) {
	sessionID := c.Param("id")
	history, err := s.agent.Transcript(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, TranscriptResponse{SessionID: sessionID, Messages: toMessages(history)})
}

func (s *Server) DeleteSession(c *gin.Context) {
	if err := s.agent.Reset(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// turn invokes the agent and returns the reply together with the updated transcript.
func (s *Server) turn(ctx context.Context, sessionID, text string) (string, []Message, error) {
	reply, err := s.agent.Invoke(ctx, model.QueryInput{ConversationID: sessionID, Query: text})
	if err != nil {
		return "", nil, err
	}
	history, err := s.agent.Transcript(ctx, sessionID)
	if err != nil {
		return "", nil, err
	}
	return reply, toMessages(history), nil
}

func toMessages(history []*schema.Message) []Message {
	out := make([]Message, 0, len(history))
	for _, m := range history {
		if m == nil {
			continue
		}
		out = append(out, Message{Role: string(m.Role), Content: m.Content})
	}
	return out
}

// statusOf treats input validation errors as client errors.
func statusOf(err error) int {
	if errors.Is(err, model.ErrInvalidSession) || errors.Is(err, model.ErrEmptyMessage) {
		return http.StatusBadRequest
	}
	return errx.StatusOf(err)
}

func writeError(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		logx.Error().Err(err).Str("path", c.FullPath()).Msg("chat request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
