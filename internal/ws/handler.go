package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/GriffinCanCode/AppShelf/internal/api/command"
	"github.com/GriffinCanCode/AppShelf/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AppShelf/internal/shared/id"
	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	maxMessageSize = 1 << 20
	writeTimeout   = 10 * time.Second
)

// Frame types sent to clients
const (
	FrameSystem = "system"
	FramePong   = "pong"
	FrameReply  = "reply"
	FrameError  = "error"
)

// CommandPing is answered with a pong frame instead of being dispatched.
const CommandPing command.Kind = "ping"

// Frame is one server message.
type Frame struct {
	Type      string         `json:"type"`
	StreamID  string         `json:"stream_id,omitempty"`
	Message   string         `json:"message,omitempty"`
	Reply     *command.Reply `json:"reply,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// Handler runs command streams over WebSocket connections.
type Handler struct {
	dispatcher *command.Dispatcher
	metrics    *monitoring.Metrics
	logger     *zap.Logger
	upgrader   websocket.Upgrader
}

// NewHandler creates a new WebSocket handler
func NewHandler(dispatcher *command.Dispatcher, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
		upgrader: websocket.Upgrader{
			// The daemon listens on loopback only; the UI origin varies.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// HandleConnection upgrades the request and serves envelopes until the
// client disconnects. Commands on one stream run in arrival order.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	s := &stream{
		id:      id.NewStreamID(),
		conn:    conn,
		metrics: h.metrics,
	}
	logger := h.logger.With(zap.String("stream_id", s.id.String()))
	logger.Debug("stream opened")

	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
		defer h.metrics.WSConnections.Dec()
	}

	if err := s.send(Frame{Type: FrameSystem, Message: "connected", StreamID: s.id.String()}); err != nil {
		logger.Warn("stream greeting failed", zap.Error(err))
		return
	}

	// Commands outlive neither the connection nor the server request.
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("stream read failed", zap.Error(err))
			}
			break
		}
		s.count("in")

		var env command.Envelope
		if err := sonic.Unmarshal(data, &env); err != nil {
			if err := s.send(Frame{Type: FrameError, Message: "malformed envelope"}); err != nil {
				logger.Warn("stream write failed", zap.Error(err))
				break
			}
			continue
		}

		if env.Command == CommandPing {
			if err := s.send(Frame{Type: FramePong}); err != nil {
				logger.Warn("stream write failed", zap.Error(err))
				break
			}
			continue
		}
		if env.ID == "" {
			env.ID = id.NewCommandID().String()
		}

		reply := h.dispatcher.Handle(ctx, env)
		if err := s.send(Frame{Type: FrameReply, Reply: &reply}); err != nil {
			logger.Warn("stream write failed", zap.Error(err))
			break
		}
	}
	logger.Debug("stream closed")
}

type stream struct {
	id      id.StreamID
	conn    *websocket.Conn
	metrics *monitoring.Metrics
	mu      sync.Mutex
}

func (s *stream) send(f Frame) error {
	f.Timestamp = time.Now().Unix()

	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := s.conn.WriteJSON(f); err != nil {
		return err
	}
	s.count("out")
	return nil
}

func (s *stream) count(direction string) {
	if s.metrics != nil {
		s.metrics.WSMessages.WithLabelValues(direction).Inc()
	}
}
