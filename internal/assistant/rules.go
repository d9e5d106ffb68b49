package assistant

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/VedantYeola/Wear-Story/internal/domain"
)

const (
	greetingReply = "Hello! I'm ready to help you find your perfect look. Are you looking for shirts, dresses, jeans, shoes, or something else?"
	colourReply   = "That's a fantastic color! We have several items in that palette. Try filtering the main catalog by Category to narrow it down."
	genericReply  = "I'm loving your style direction! While I check our inventory for that specific request, I recommend browsing our 'Tops' and 'Dresses' sections for our latest arrivals."

	maxSuggestions = 3
)

var (
	greetingPattern = regexp.MustCompile(`\b(hi|hello|hey|greetings)\b`)
	colourPattern   = regexp.MustCompile(`red|blue|black|white|green|yellow|pink|purple`)
)

// keywordCategories maps shopper vocabulary onto catalog categories. The
// first keyword found in the query wins, so order matters.
var keywordCategories = []struct {
	keyword  string
	category string
}{
	{"shirt", "Tops"}, {"t-shirt", "Tops"}, {"top", "Tops"}, {"blouse", "Tops"}, {"tee", "Tops"},
	{"dress", "Dresses"}, {"gown", "Dresses"}, {"sundress", "Dresses"}, {"frock", "Dresses"},
	{"jeans", "Bottoms"}, {"jense", "Bottoms"}, {"denim", "Bottoms"}, {"pants", "Bottoms"},
	{"trousers", "Bottoms"}, {"skirt", "Bottoms"}, {"shorts", "Bottoms"},
	{"shoe", "Footwear"}, {"shoes", "Footwear"}, {"sneaker", "Footwear"}, {"boot", "Footwear"},
	{"heel", "Footwear"}, {"footwear", "Footwear"}, {"sandals", "Footwear"},
	{"jacket", "Jackets"}, {"blazer", "Jackets"}, {"windbreaker", "Jackets"}, {"parka", "Jackets"},
	{"sweater", "Knitwear"}, {"cardigan", "Knitwear"}, {"knit", "Knitwear"}, {"pullover", "Knitwear"},
	{"coat", "Outerwear"}, {"trench", "Outerwear"},
}

// RuleBased answers without any network call.
type RuleBased struct {
	rng *rand.Rand
}

// NewRuleBased uses rng to vary suggestions; nil picks a random seed.
func NewRuleBased(rng *rand.Rand) *RuleBased {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &RuleBased{rng: rng}
}

// Reply tries, in order: a greeting, up to three items matching the query,
// a colour hint and a generic nudge.
func (r *RuleBased) Reply(query string, items []domain.Item) string {
	q := strings.ToLower(query)

	if greetingPattern.MatchString(q) {
		return greetingReply
	}

	target := ""
	for _, kc := range keywordCategories {
		if strings.Contains(q, kc.keyword) {
			target = kc.category
			break
		}
	}

	var matches []string
	for _, it := range items {
		if matchesQuery(it, q, target) {
			matches = append(matches, it.Name)
		}
	}
	r.rng.Shuffle(len(matches), func(i, j int) { matches[i], matches[j] = matches[j], matches[i] })
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	if len(matches) > 0 {
		return fmt.Sprintf("For \"%s\", I picked out some stylish options: %s. Would you like to see more details on any of these?",
			query, strings.Join(matches, ", "))
	}

	if colourPattern.MatchString(q) {
		return colourReply
	}
	return genericReply
}

func matchesQuery(it domain.Item, q, target string) bool {
	if target != "" && it.Category == target {
		return true
	}
	if strings.Contains(q, strings.ToLower(it.Category)) || strings.Contains(strings.ToLower(it.Name), q) {
		return true
	}
	for _, tag := range it.Tags {
		if strings.Contains(q, tag) {
			return true
		}
	}
	return false
}
