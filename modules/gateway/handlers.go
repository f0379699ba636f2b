package gateway

import (
	"encoding/json"

	"github.com/example/realtime-chat-demo/modules/broadcast"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// handleWebSocket owns one connection for its whole lifetime: register
// with the hub, process frames sequentially, cascade cleanup on close.
func (m *Module) handleWebSocket(c *websocket.Conn) {
	connID := uuid.New().String()
	m.hub.Register(&broadcast.Client{ID: connID, Conn: c})

	sess := newSession(connID, m.presence, m.chat, m.hub, m.logger)
	sess.reply(broadcast.FrameConnected, connectedReply{ID: connID})

	m.logger.Info("WebSocket connected", "connID", connID)

	defer func() {
		m.hub.Unregister(connID)
		sess.close()
		_ = c.Close()
		m.logger.Info("WebSocket disconnected", "connID", connID)
	}()

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				m.logger.Warn("WebSocket read error", "connID", connID, "error", err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			sess.sendError("invalid frame")
			continue
		}
		dispatch(sess, frame)
	}
}

// dispatch routes one inbound frame to the session. A malformed payload
// produces an error notice only; it never tears down the connection or
// touches shared state.
func dispatch(sess *session, frame inboundFrame) {
	switch frame.Type {
	case frameIdentify:
		var p identifyPayload
		if !decode(sess, frame.Payload, &p) {
			return
		}
		sess.identify(p.Username)

	case frameCreateRoom:
		var p createRoomPayload
		if !decode(sess, frame.Payload, &p) {
			return
		}
		sess.createRoom(p.Name)

	case frameJoinRoom:
		var p joinRoomPayload
		if !decode(sess, frame.Payload, &p) {
			return
		}
		sess.joinRoom(p.RoomID)

	case frameSendMessage:
		var p sendMessagePayload
		if !decode(sess, frame.Payload, &p) {
			return
		}
		sess.sendMessage(p.RoomID, p.Content)

	case framePrivateMessage:
		var p privateMessagePayload
		if !decode(sess, frame.Payload, &p) {
			return
		}
		sess.sendPrivate(p.RecipientID, p.Content)

	case frameTyping:
		var p typingPayload
		if !decode(sess, frame.Payload, &p) {
			return
		}
		sess.setTyping(p.RoomID, p.IsTyping)

	case frameToggleReaction:
		var p toggleReactionPayload
		if !decode(sess, frame.Payload, &p) {
			return
		}
		sess.toggleReaction(p.RoomID, p.MessageID, p.Emoji)

	default:
		sess.sendError("unknown frame type: " + frame.Type)
	}
}

func decode(sess *session, raw json.RawMessage, dst any) bool {
	if len(raw) == 0 {
		sess.sendError("missing payload")
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		sess.sendError("invalid payload")
		return false
	}
	return true
}
