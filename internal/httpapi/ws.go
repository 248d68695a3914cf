package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/draftverse/draftroom/internal/broadcast"
	roomService "github.com/draftverse/draftroom/internal/services/room"
)

const wsWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type wsEvent struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// roomEvents upgrades the connection and forwards the room's broadcast
// stream to the socket. The stream is read-only; clients mutate state
// through the REST surface, so inbound frames are drained solely to
// detect disconnects.
func (a *API) roomEvents(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")

	if _, err := a.rooms.GetRoomState(r.Context(), &roomService.GetRoomStateInput{RoomID: roomID}); err != nil {
		a.writeServiceError(w, err)
		return
	}

	sub, err := a.broadcaster.Subscribe(r.Context(), &broadcast.SubscribeInput{RoomID: roomID})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		sub.Cancel()
		a.logger.Warn("websocket upgrade failed",
			zap.String("room_id", roomID),
			zap.Error(err))
		return
	}

	go func() {
		defer sub.Cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer conn.Close()

	for msg := range sub.Messages {
		frame, err := json.Marshal(wsEvent{Event: string(msg.Event), Payload: msg.Payload})
		if err != nil {
			continue
		}

		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
}
