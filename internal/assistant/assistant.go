package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/VedantYeola/Wear-Story/internal/domain"
)

var fallbackTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_assistant_fallback_total",
		Help: "Assistant calls answered locally because the generator failed or is not configured.",
	},
	[]string{"operation"},
)

// SystemInstruction sets the stylist persona.
const SystemInstruction = `You are 'Lumi', a knowledgeable and chic AI personal stylist for the 'Wear-Story' clothing store.
Your goal is to help customers find the perfect outfit from our catalog.
Be friendly, concise, and helpful.
When suggesting items, ALWAYS refer to them by their exact names from the catalog provided.
If a user asks for something we don't have, politely suggest the closest alternative or explain we don't carry it.
Do not use markdown formatting for lists, just natural text or bullet points using hyphens.
Keep responses short (under 100 words) unless detailed advice is requested.`

// StylingFallback is returned when pairing advice cannot be generated.
const StylingFallback = "This piece is versatile! Try pairing it with our classic denim or a structured blazer for a complete look."

// Assistant fronts a Generator. Every failure degrades to a local answer;
// none is returned to the caller.
type Assistant struct {
	gen    Generator
	rules  *RuleBased
	logger *slog.Logger
}

// New builds an assistant. gen may be nil when no API key is configured.
func New(gen Generator, rules *RuleBased, logger *slog.Logger) *Assistant {
	if rules == nil {
		rules = NewRuleBased(nil)
	}
	return &Assistant{gen: gen, rules: rules, logger: logger}
}

// Reply answers message in the context of the catalog and prior turns.
func (a *Assistant) Reply(ctx context.Context, message string, items []domain.Item, history []Turn) string {
	if a.gen == nil {
		fallbackTotal.WithLabelValues("reply").Inc()
		return a.rules.Reply(message, items)
	}

	text, err := a.gen.Generate(ctx, GenerateRequest{
		System:  SystemInstruction + "\n\nCurrent Product Catalog:\n" + catalogContext(items),
		History: history,
		Prompt:  message,
	})
	if err != nil {
		fallbackTotal.WithLabelValues("reply").Inc()
		a.logger.WarnContext(ctx, "assistant reply failed, using rule-based answer",
			slog.String("error", err.Error()),
		)
		return a.rules.Reply(message, items)
	}
	return text
}

// Styling suggests one or two catalog items that pair with item.
func (a *Assistant) Styling(ctx context.Context, item domain.Item, items []domain.Item) string {
	if a.gen == nil {
		fallbackTotal.WithLabelValues("styling").Inc()
		return StylingFallback
	}

	var others strings.Builder
	for _, it := range items {
		if it.ID == item.ID {
			continue
		}
		fmt.Fprintf(&others, "- %s (%s)\n", it.Name, it.Category)
	}
	prompt := fmt.Sprintf(`I am viewing the "%s" (%s).
Description: %s

Here is the rest of the catalog:
%s
Suggest 1 or 2 specific items from the catalog that pair well with this to create a cohesive look.
Briefly explain the style vibe in 2 sentences. Be chic and encouraging.`,
		item.Name, item.Category, item.Description, others.String())

	text, err := a.gen.Generate(ctx, GenerateRequest{System: SystemInstruction, Prompt: prompt})
	if err != nil {
		fallbackTotal.WithLabelValues("styling").Inc()
		a.logger.WarnContext(ctx, "styling advice failed, using generic suggestion",
			slog.Int64("item_id", item.ID),
			slog.String("error", err.Error()),
		)
		return StylingFallback
	}
	return text
}

// MatchCategory asks the generator for the single category that best fits
// query. The answer counts only if it names one of categories exactly.
func (a *Assistant) MatchCategory(ctx context.Context, query string, categories []string) (string, bool) {
	if a.gen == nil {
		return "", false
	}

	list := quoteList(categories)
	prompt := fmt.Sprintf(`You are an AI classifier for a clothing store.
User Query: "%s"
Available Categories: %s

Task: Return ONLY the exact name of the single most relevant category from the list above.
If the query is unrelated to any category or too vague, return "null" (as a string).
Do not add markdown, quotes, or explanations. Just the category name.`, query, list)

	text, err := a.gen.Generate(ctx, GenerateRequest{Prompt: prompt})
	if err != nil {
		fallbackTotal.WithLabelValues("category_match").Inc()
		a.logger.WarnContext(ctx, "category match failed", slog.String("error", err.Error()))
		return "", false
	}

	text = strings.TrimSpace(text)
	for _, c := range categories {
		if c == text {
			return c, true
		}
	}
	return "", false
}

// quoteList renders names as a bracketed list of quoted strings.
func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
	}
	return "[" + strings.Join(quoted, ",") + "]"
}

// catalogContext renders one "- name ($price): description" line per item.
func catalogContext(items []domain.Item) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = fmt.Sprintf("- %s ($%s): %s", it.Name, it.Price.String(), it.Description)
	}
	return strings.Join(lines, "\n")
}
