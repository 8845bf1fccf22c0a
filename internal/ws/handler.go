package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pchu/codenames-backend/internal/hub"
	"github.com/pchu/codenames-backend/internal/session"
	"github.com/pchu/codenames-backend/pkg/types"
)

// Handler upgrades a chat client connection and bridges it to the channel's
// session actor: inbound JSON becomes session messages, session outbound
// traffic is streamed back as ServerMessages.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "anonymous"
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.GetSession{Code: code, Reply: reply}
		s := <-reply
		if s == nil {
			http.Error(w, "channel not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan session.Outbound, 16)
		clientID := uuid.NewString()

		s.Inbox() <- session.Subscribe{ClientID: clientID, Name: name, Outbox: out}
		defer func() { s.Inbox() <- session.Unsubscribe{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for o := range out {
				payload, err := json.Marshal(toServerMessage(o))
				if err != nil {
					log.Warn("encoding server message", zap.Error(err))
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"bad json"}`))
				continue
			}

			msg, ok := toSessionMsg(cm, clientID, name)
			if !ok {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"unknown type"}`))
				continue
			}
			s.Inbox() <- msg
		}
	}
}

func toSessionMsg(m types.ClientMessage, clientID, name string) (session.Msg, bool) {
	switch m.Type {
	case "Command":
		return session.Command{ClientID: clientID, Name: name, Verb: m.Verb, Arg: m.Arg}, true
	case "Chat":
		return session.Chat{ClientID: clientID, Name: name, Text: m.Text}, true
	case "ReactionAdd":
		return session.Reaction{ClientID: clientID, Name: name, Emote: m.Emote}, true
	case "ReactionRemove":
		return session.Reaction{ClientID: clientID, Name: name, Emote: m.Emote, Removed: true}, true
	default:
		return nil, false
	}
}

func toServerMessage(o session.Outbound) types.ServerMessage {
	sm := types.ServerMessage{
		Type:      string(o.Type),
		Title:     o.Title,
		Body:      o.Body,
		Mention:   o.Mention,
		Image:     o.Image,
		Active:    string(o.Active),
		Countdown: o.Countdown,
	}
	if o.Clocks != nil {
		sm.Clocks = map[string]float64{}
		for team, secs := range o.Clocks {
			sm.Clocks[string(team)] = secs
		}
	}
	if o.Roster != nil {
		sm.Roster = map[string][]types.RosterMember{}
		for team, members := range o.Roster {
			for _, m := range members {
				sm.Roster[string(team)] = append(sm.Roster[string(team)],
					types.RosterMember{Name: m.Name, Spymaster: m.Spymaster})
			}
		}
	}
	return sm
}
