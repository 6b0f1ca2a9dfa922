package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/game"
	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/quiz"
)

// wsCommand is a control message sent by the screen over the WebSocket.
type wsCommand struct {
	Type   string `json:"type"` // answer | restart | tier
	Answer string `json:"answer,omitempty"`
	Tier   string `json:"tier,omitempty"`
}

// handleSessionWS drives a session over one WebSocket: the server pushes a
// frame on every state change and the client sends commands.
func handleSessionWS(logger *slog.Logger, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessionFrom(r)
		id := sessionIDFrom(r)
		log := logger.With("session_id", id)

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			log.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
		defer cancel()

		ch := broker.Subscribe(id)
		defer broker.Unsubscribe(id, ch)

		if err := wsjson.Write(ctx, conn, s.Frame()); err != nil {
			log.Debug("websocket write failed", "error", err)
			return
		}

		go func() {
			defer cancel()
			for {
				var cmd wsCommand
				if err := wsjson.Read(ctx, conn, &cmd); err != nil {
					log.Debug("websocket read ended", "error", err)
					return
				}
				if msg := applyCommand(s, cmd); msg != "" {
					if err := wsjson.Write(ctx, conn, ErrorResponse{Error: msg}); err != nil {
						log.Debug("websocket write failed", "error", err)
						return
					}
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				conn.Close(websocket.StatusNormalClosure, "")
				return
			case data, ok := <-ch:
				if !ok {
					conn.Close(websocket.StatusGoingAway, "session closed")
					return
				}
				if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
					log.Debug("websocket write failed", "error", err)
					return
				}
			}
		}
	}
}

// applyCommand returns a non-empty message when cmd is rejected.
func applyCommand(s *game.Session, cmd wsCommand) string {
	switch cmd.Type {
	case "answer":
		if accepted, _ := s.SubmitText(cmd.Answer); !accepted {
			return "session is not playing"
		}
	case "restart":
		s.Restart()
	case "tier":
		tier, err := quiz.ParseTier(cmd.Tier)
		if err != nil || cmd.Tier == "" {
			return "tier must be easy, medium or hard"
		}
		s.SetTier(tier)
	default:
		return "unknown command " + cmd.Type
	}
	return ""
}
