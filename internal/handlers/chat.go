package handlers

import (
	"context"
	"encoding/json"
	"html"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pixil98/go-realm/internal/events"
	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/session"
)

const (
	// maxChatLength bounds a single chat message.
	maxChatLength = 500
	// localChatRadius is the delivery range for local chat.
	localChatRadius = 50.0
)

// Chat types.
const (
	chatGlobal  = "global"
	chatLocal   = "local"
	chatPrivate = "private"
	chatGuild   = "guild"
)

// handleChat validates, sanitizes, and routes one chat message. The message
// body is HTML-escaped before it reaches any recipient.
func (h *Handler) handleChat(ctx context.Context, s *session.PlayerSession, data json.RawMessage) error {
	var p events.ChatPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return NewUserError("Invalid chat message")
	}
	if strings.TrimSpace(p.Message) == "" || len(p.Message) > maxChatLength {
		return NewUserError("Invalid chat message")
	}

	chatType := p.Type
	if chatType == "" {
		chatType = chatGlobal
	}

	msg := events.ChatMessagePayload{
		ID:         uuid.NewString(),
		SenderID:   s.ID(),
		SenderName: s.Username(),
		Message:    html.EscapeString(p.Message),
		Timestamp:  h.now().UnixMilli(),
		Type:       chatType,
	}

	switch chatType {
	case chatGlobal:
		h.router.Broadcast(encode(events.ChatMessage, msg))

	case chatLocal:
		pos, _ := s.Position()
		h.router.Nearby(pos, localChatRadius, encode(events.ChatMessage, msg))

	case chatPrivate:
		if p.TargetID == nil {
			return NewUserError("Target ID required for private messages")
		}
		target := h.registry.FindByPlayerID(*p.TargetID)
		if target == nil {
			return userError(game.ErrPlayerNotFound, "Player not found or offline")
		}
		msg.RecipientID = target.ID()
		msg.RecipientName = target.Username()

		frame := encode(events.ChatMessage, msg)
		_ = h.router.SendTo(target.ID(), frame)
		_ = h.router.SendTo(s.ID(), frame)

	case chatGuild:
		if s.GuildID() == "" {
			return userError(game.ErrNotInGuild, "You are not in a guild")
		}
		h.router.ToGuild(s.GuildID(), encode(events.ChatMessage, msg))

	default:
		return NewUserError("Unknown chat type")
	}

	slog.Debug("chat message delivered",
		"messageId", msg.ID,
		"type", msg.Type,
		"senderId", msg.SenderID,
	)
	return nil
}
