package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VedantYeola/Wear-Story/internal/assistant"
	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
)

type stubGenerator struct {
	reply string
	err   error
	reqs  []assistant.GenerateRequest
}

func (g *stubGenerator) Generate(_ context.Context, req assistant.GenerateRequest) (string, error) {
	g.reqs = append(g.reqs, req)
	return g.reply, g.err
}

func newStylist(f *fixture, gen assistant.Generator) *StylistService {
	return NewStylistService(f.sessions, f.catalog, assistant.New(gen, nil, newTestLogger()))
}

func TestStylistService_SendAppendsBothTurns(t *testing.T) {
	f := newFixture(t)
	gen := &stubGenerator{reply: "Try the Silk Dress."}
	st := newStylist(f, gen)
	ctx := context.Background()

	reply, err := st.Send(ctx, "s1", "  something for dinner  ")
	require.NoError(t, err)
	assert.Equal(t, "Try the Silk Dress.", reply.Text)

	msgs := st.Messages(ctx, "s1")
	require.Len(t, msgs, 3)
	assert.Equal(t, greetingTurn, msgs[0])
	assert.Equal(t, assistant.Turn{Role: assistant.RoleUser, Text: "something for dinner"}, msgs[1])
	assert.Equal(t, assistant.RoleModel, msgs[2].Role)

	require.Len(t, gen.reqs, 1)
	assert.Equal(t, "something for dinner", gen.reqs[0].Prompt)
	assert.Equal(t, []assistant.Turn{greetingTurn}, gen.reqs[0].History)
}

func TestStylistService_SendFallsBackToRules(t *testing.T) {
	f := newFixture(t)
	st := newStylist(f, &stubGenerator{err: errors.New("quota exceeded")})

	reply, err := st.Send(context.Background(), "s1", "hello there")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "perfect look")
}

func TestStylistService_SendRejectsBlank(t *testing.T) {
	f := newFixture(t)
	st := newStylist(f, nil)

	_, err := st.Send(context.Background(), "s1", "   ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Len(t, st.Messages(context.Background(), "s1"), 1)
}

func TestStylistService_HistoryIsCapped(t *testing.T) {
	f := newFixture(t)
	f.sessions.cfg.MaxHistory = 4
	st := newStylist(f, &stubGenerator{reply: "ok"})
	ctx := context.Background()

	for i := range 5 {
		_, err := st.Send(ctx, "s1", fmt.Sprintf("question %d", i))
		require.NoError(t, err)
	}
	msgs := st.Messages(ctx, "s1")
	require.Len(t, msgs, 4)
	assert.Equal(t, "question 3", msgs[0].Text)
	assert.Equal(t, "question 4", msgs[2].Text)
}

func TestStylistService_Styling(t *testing.T) {
	f := newFixture(t)
	st := newStylist(f, nil)

	text, err := st.Styling(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, assistant.StylingFallback, text)

	_, err = st.Styling(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStylistService_MatchCategory(t *testing.T) {
	f := newFixture(t)

	got, ok := newStylist(f, &stubGenerator{reply: " Tops\n"}).MatchCategory(context.Background(), "summer shirt")
	assert.True(t, ok)
	assert.Equal(t, "Tops", got)

	_, ok = newStylist(f, &stubGenerator{reply: "Hats"}).MatchCategory(context.Background(), "a cap")
	assert.False(t, ok)

	gen := &stubGenerator{reply: "Tops"}
	_, ok = newStylist(f, gen).MatchCategory(context.Background(), "  ")
	assert.False(t, ok)
	assert.Empty(t, gen.reqs)
}
