package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/AtRiskMedia/pagebuilder-go/internal/application/services"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/services/editor"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/logging"
)

// Inbound live message types.
const (
	liveIntent = "intent"
	liveHover  = "hover"
)

// LiveMessage is one message sent by a canvas client.
type LiveMessage struct {
	Type     string          `json:"type"`
	Command  *editor.Command `json:"command,omitempty"`
	NodeID   string          `json:"nodeId,omitempty"`
	Hovering bool            `json:"hovering,omitempty"`
}

// LiveHandlers streams session updates to canvas clients over websockets
type LiveHandlers struct {
	editorService *services.EditorService
	hub           *messaging.LiveHub
	upgrader      websocket.Upgrader
	logger        *logging.ChanneledLogger
}

// NewLiveHandlers creates live handlers. allowedOrigins limits browser origins;
// requests without an Origin header are always accepted.
func NewLiveHandlers(editorService *services.EditorService, hub *messaging.LiveHub, allowedOrigins []string, logger *logging.ChanneledLogger) *LiveHandlers {
	return &LiveHandlers{
		editorService: editorService,
		hub:           hub,
		logger:        logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// GetLive upgrades to a websocket attached to an open session. The first message
// is the current state; later ones are state revisions, slide ticks and save
// notices.
func (h *LiveHandlers) GetLive(c *gin.Context) {
	pageID := c.Param("pageId")
	sess, err := h.editorService.Session(pageID)
	if err != nil {
		respondError(c, err)
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Live().Warn("Websocket upgrade failed", "pageId", pageID, "error", err.Error())
		return
	}

	client := messaging.NewLiveClient(conn, pageID)
	if err := h.hub.Register(client); err != nil {
		msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error())
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		conn.Close()
		return
	}

	st := sess.State()
	h.hub.SendTo(client, messaging.LiveEvent{
		Type:     messaging.EventState,
		Revision: st.Revision,
		Payload:  services.NewStateView(pageID, st),
	})

	go h.hub.WritePump(client)
	h.hub.ReadPump(client, func(raw []byte) {
		h.handleMessage(client, raw)
	})
}

func (h *LiveHandlers) handleMessage(client *messaging.LiveClient, raw []byte) {
	var msg LiveMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.sendError(client, "invalid message")
		return
	}

	switch msg.Type {
	case liveIntent:
		if msg.Command == nil {
			h.sendError(client, "intent message without command")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// The resulting state reaches every client through the session's publish.
		if _, err := h.editorService.DispatchCommand(ctx, client.PageID, *msg.Command); err != nil {
			h.sendError(client, err.Error())
		}
	case liveHover:
		if err := h.editorService.SetHover(client.PageID, msg.NodeID, msg.Hovering); err != nil {
			h.sendError(client, err.Error())
		}
	default:
		h.sendError(client, "unknown message type")
	}
}

func (h *LiveHandlers) sendError(client *messaging.LiveClient, msg string) {
	h.hub.SendTo(client, messaging.LiveEvent{
		Type:    messaging.EventError,
		Payload: map[string]string{"error": msg},
	})
}
