package assistant

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/VedantYeola/Wear-Story/internal/domain"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func testItems() []domain.Item {
	return []domain.Item{
		{ID: 1, Name: "Minimalist Wool Coat", Category: "Outerwear", Price: decimal.RequireFromString("189.99"), Description: "Warm."},
		{ID: 2, Name: "Silk Evening Dress", Category: "Dresses", Price: decimal.RequireFromString("249.50"), Description: "Flowing."},
	}
}

func newTestAssistant(gen Generator) *Assistant {
	return New(gen, NewRuleBased(rand.New(rand.NewPCG(7, 7))), newTestLogger())
}

func TestAssistant_Reply_UsesGenerator(t *testing.T) {
	gen := new(mockGenerator)
	history := []Turn{{Role: RoleUser, Text: "hi"}, {Role: RoleModel, Text: "hello"}}

	gen.On("Generate", mock.Anything, mock.MatchedBy(func(req GenerateRequest) bool {
		return req.Prompt == "what goes with jeans?" &&
			len(req.History) == 2 &&
			req.System == SystemInstruction+"\n\nCurrent Product Catalog:\n"+
				"- Minimalist Wool Coat ($189.99): Warm.\n- Silk Evening Dress ($249.5): Flowing."
	})).Return("The coat, darling.", nil)

	reply := newTestAssistant(gen).Reply(context.Background(), "what goes with jeans?", testItems(), history)
	assert.Equal(t, "The coat, darling.", reply)
	gen.AssertExpectations(t)
}

func TestAssistant_Reply_FallsBackOnError(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))

	reply := newTestAssistant(gen).Reply(context.Background(), "hello", testItems(), nil)
	assert.Equal(t, greetingReply, reply)
}

func TestAssistant_Reply_NoGenerator(t *testing.T) {
	reply := newTestAssistant(nil).Reply(context.Background(), "a dress please", testItems(), nil)
	assert.Contains(t, reply, "Silk Evening Dress")
}

func TestAssistant_Styling(t *testing.T) {
	gen := new(mockGenerator)
	items := testItems()
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(req GenerateRequest) bool {
		return req.System == SystemInstruction &&
			strings.Contains(req.Prompt, "- Silk Evening Dress (Dresses)") &&
			!strings.Contains(req.Prompt, "- Minimalist Wool Coat (Outerwear)")
	})).Return("Pair it with the dress.", nil).Once()
	gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("timeout")).Once()

	a := newTestAssistant(gen)
	assert.Equal(t, "Pair it with the dress.", a.Styling(context.Background(), items[0], items))
	assert.Equal(t, StylingFallback, a.Styling(context.Background(), items[0], items))
	assert.Equal(t, StylingFallback, newTestAssistant(nil).Styling(context.Background(), items[0], items))
}

func TestAssistant_MatchCategory(t *testing.T) {
	cats := []string{"All", "Outerwear", "Dresses"}

	tests := []struct {
		name   string
		answer string
		err    error
		want   string
		wantOK bool
	}{
		{"exact", "Dresses", nil, "Dresses", true},
		{"trimmed", "  Outerwear\n", nil, "Outerwear", true},
		{"null", "null", nil, "", false},
		{"case differs", "dresses", nil, "", false},
		{"error", "", errors.New("boom"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(mockGenerator)
			gen.On("Generate", mock.Anything, mock.Anything).Return(tt.answer, tt.err)

			got, ok := newTestAssistant(gen).MatchCategory(context.Background(), "evening gown", cats)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := newTestAssistant(nil).MatchCategory(context.Background(), "gown", cats)
	assert.False(t, ok)
}

func TestAssistant_MatchCategoryPromptListsCategories(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(req GenerateRequest) bool {
		return strings.Contains(req.Prompt, `Available Categories: ["All","Tops","Say \"Hi\""]`)
	})).Return("Tops", nil)

	got, ok := newTestAssistant(gen).MatchCategory(context.Background(), "tee", []string{"All", "Tops", `Say "Hi"`})
	require.True(t, ok)
	assert.Equal(t, "Tops", got)
	gen.AssertExpectations(t)
}
