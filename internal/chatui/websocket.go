package chatui

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	logx "github.com/Chative-restaurant-poc/server/pkg/logger"
)

const (
	maxFrameSize = 64 * 1024
	writeWait    = 10 * time.Second
)

// Inbound is a frame sent by the page.
type Inbound struct {
	Text string `json:"text"`
}

// Outbound is a frame sent to the page: the full transcript after a turn, or an error.
type Outbound struct {
	SessionID string    `json:"session_id,omitempty"`
	Messages  []Message `json:"messages,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// WebSocket upgrades the request and runs turns for the session named by the
// session query parameter, or a fresh one. The current transcript is sent on connect.
// Frames are handled one at a time so replies keep the order of the questions.
func (s *Server) WebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logx.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	sessionID := strings.TrimSpace(c.Query("session"))
	if sessionID == "" {
		sessionID = s.newID()
	}
	ctx := c.Request.Context()
	conn.SetReadLimit(maxFrameSize)

	history, err := s.agent.Transcript(ctx, sessionID)
	if err != nil {
		logx.Warn().Err(err).Str("conversation_id", sessionID).Msg("load transcript failed")
	}
	if err := write(conn, Outbound{SessionID: sessionID, Messages: toMessages(history)}); err != nil {
		return
	}

	for {
		var in Inbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logx.Warn().Err(err).Str("conversation_id", sessionID).Msg("websocket read failed")
			}
			return
		}

		out := Outbound{SessionID: sessionID}
		if _, messages, err := s.turn(ctx, sessionID, in.Text); err != nil {
			out.Error = err.Error()
		} else {
			out.Messages = messages
		}
		if err := write(conn, out); err != nil {
			logx.Warn().Err(err).Str("conversation_id", sessionID).Msg("websocket write failed")
			return
		}
	}
}

func write(conn *websocket.Conn, v Outbound) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}
