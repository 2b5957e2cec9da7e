package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/coursely/coursely-backend/internal/config"
	"github.com/coursely/coursely-backend/internal/middleware"
	"github.com/coursely/coursely-backend/internal/model"
	"github.com/coursely/coursely-backend/internal/response"
	"github.com/coursely/coursely-backend/internal/service"
	"github.com/coursely/coursely-backend/internal/ws"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams graded attempts to the owning instructor in real time.
type WSHandler struct {
	rdb           *redis.Client
	resultService *service.ResultService
	log           zerolog.Logger
	upgrader      websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, resultService *service.ResultService, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:           rdb,
		resultService: resultService,
		log:           log.With().Str("component", "ws_handler").Logger(),
		upgrader:      buildUpgrader(allowedOrigins),
	}
}

// ResultsStream godoc
// WS /ws/v1/instructor/quizzes/:quiz_id/results
// Upgrades to WebSocket and relays graded attempts as they land.
func (h *WSHandler) ResultsStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	// Ownership is checked before the upgrade so an unauthorized client
	// never holds a socket.
	owner, err := h.resultService.IsInstructorOwnerOfQuiz(c.Request.Context(), claims.UserID, quizID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !owner {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Str("instructor_id", claims.UserID.String()).
		Str("quiz_id", quizID.String()).
		Logger()

	wsLog.Info().Msg("Instructor connected")

	channel := config.CacheKey.QuizResultsChannel(quizID.String())
	sub := h.rdb.Subscribe(c.Request.Context(), channel)
	defer sub.Close()

	h.relay(c.Request.Context(), conn, sub.Channel(), wsLog)
}

// relay pumps graded events to the peer until the connection or the event
// channel closes. The connection supports one concurrent writer only, so the
// read goroutine never writes: it signals pings over a channel and the select
// loop below issues every write.
func (h *WSHandler) relay(ctx context.Context, conn *websocket.Conn, events <-chan *redis.Message, wsLog zerolog.Logger) {
	done := make(chan struct{})
	pings := make(chan struct{}, 1)
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Connection closed")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				select {
				case pings <- struct{}{}:
				default: // a pong is already pending, coalesce
				}
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongMessage{Event: ws.EventPong}); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed, closing stream")
				return
			}
		case msg, ok := <-events:
			if !ok {
				return
			}
			var event model.GradedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				wsLog.Warn().Err(err).Msg("Malformed graded event")
				if err := ws.WriteError(conn, "malformed graded event"); err != nil {
					return
				}
				continue
			}
			if err := ws.WriteTyped(conn, ws.ResultMessage{Event: ws.EventResult, Result: &event}); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed, closing stream")
				return
			}
		}
	}
}
