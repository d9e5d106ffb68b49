package service

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/VedantYeola/Wear-Story/internal/assistant"
	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
)

var greetingTurn = assistant.Turn{
	Role: assistant.RoleModel,
	Text: "Hi! I'm Lumi, your personal fashion assistant. Looking for something specific or need outfit inspiration?",
}

// StylistService keeps each session's conversation with the assistant.
type StylistService struct {
	sessions  *SessionManager
	catalog   Catalog
	assistant *assistant.Assistant
}

func NewStylistService(sessions *SessionManager, catalog Catalog, a *assistant.Assistant) *StylistService {
	return &StylistService{sessions: sessions, catalog: catalog, assistant: a}
}

// Messages returns the conversation so far, oldest first.
func (st *StylistService) Messages(ctx context.Context, sessionID string) []assistant.Turn {
	var out []assistant.Turn
	st.sessions.with(ctx, sessionID, func(s *Session) {
		out = slices.Clone(s.history)
	})
	return out
}

// Send asks the assistant and appends both turns. The session is not
// locked while the assistant is thinking.
func (st *StylistService) Send(ctx context.Context, sessionID, text string) (assistant.Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return assistant.Turn{}, apperrors.InvalidInput("message must not be empty")
	}

	var history []assistant.Turn
	st.sessions.with(ctx, sessionID, func(s *Session) {
		history = slices.Clone(s.history)
	})

	reply := assistant.Turn{
		Role: assistant.RoleModel,
		Text: st.assistant.Reply(ctx, text, st.catalog.Items(), history),
	}

	st.sessions.with(ctx, sessionID, func(s *Session) {
		s.history = append(s.history, assistant.Turn{Role: assistant.RoleUser, Text: text}, reply)
		if limit := st.sessions.cfg.MaxHistory; limit > 0 && len(s.history) > limit {
			s.history = slices.Clone(s.history[len(s.history)-limit:])
		}
	})
	return reply, nil
}

// Styling suggests what to wear with a catalog item.
func (st *StylistService) Styling(ctx context.Context, itemID int64) (string, error) {
	item, ok := st.catalog.Get(itemID)
	if !ok {
		return "", apperrors.NotFound("item", strconv.FormatInt(itemID, 10))
	}
	return st.assistant.Styling(ctx, item, st.catalog.Items()), nil
}

// MatchCategory maps a free-text query onto a known category, if any.
func (st *StylistService) MatchCategory(ctx context.Context, query string) (string, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false
	}
	return st.assistant.MatchCategory(ctx, query, st.catalog.Categories())
}
