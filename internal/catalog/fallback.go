package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/VedantYeola/Wear-Story/internal/domain"
)

// Fallback returns the bundled collection shown until the first successful
// fetch, and kept if every fetch fails.
func Fallback() []domain.Item {
	return domain.CloneItems(fallbackItems)
}

var fallbackItems = []domain.Item{
	{
		ID:          1,
		Name:        "Minimalist Wool Coat",
		Price:       decimal.RequireFromString("189.99"),
		Category:    "Outerwear",
		Image:       "https://picsum.photos/seed/coat1/600/800",
		Description: "Wrap yourself in sophisticated warmth with this timeless wool coat. The structured silhouette commands attention, while the premium wool blend offers a luxuriously soft touch against the winter chill.",
		Tags:        []string{"winter", "formal", "coat", "wool"},
		Rating:      4.8,
		Reviews:     128,
	},
	{
		ID:          2,
		Name:        "Silk Evening Dress",
		Price:       decimal.RequireFromString("249.50"),
		Category:    "Dresses",
		Image:       "https://picsum.photos/seed/dress2/600/800",
		Description: "Exude ethereal grace in this flowing silk evening dress. The fabric cascades like liquid moonlight, offering a cool, breathable embrace perfect for galas and starlit soirées.",
		Tags:        []string{"evening", "summer", "luxury", "silk"},
		Rating:      4.9,
		Reviews:     84,
	},
	{
		ID:          3,
		Name:        "Urban Denim Jacket",
		Price:       decimal.RequireFromString("89.00"),
		Category:    "Jackets",
		Image:       "https://picsum.photos/seed/jacket3/600/800",
		Description: "Redefine urban edge with this modern denim jacket. Crafted from rugged, stonewashed denim that softens with age, it's the ultimate layering piece for crisp mornings and cool city nights.",
		Tags:        []string{"casual", "streetwear", "denim"},
		Rating:      4.6,
		Reviews:     215,
	},
	{
		ID:          4,
		Name:        "Cashmere Turtleneck",
		Price:       decimal.RequireFromString("120.00"),
		Category:    "Knitwear",
		Image:       "https://picsum.photos/seed/sweater4/600/800",
		Description: "Indulge in the cloud-like embrace of pure cashmere. This turtleneck offers unparalleled softness and warmth, a cozy yet elegant staple that feels like a gentle hug on a cold day.",
		Tags:        []string{"winter", "cozy", "casual"},
		Rating:      4.9,
		Reviews:     62,
	},
	{
		ID:          5,
		Name:        "Tailored Linen Trousers",
		Price:       decimal.RequireFromString("95.00"),
		Category:    "Bottoms",
		Image:       "https://picsum.photos/seed/pant5/600/800",
		Description: "Experience the breezy freedom of these tailored linen trousers. The lightweight fabric dances with every step, keeping you cool and polished from sun-drenched offices to seaside weekends.",
		Tags:        []string{"summer", "formal", "office", "breathable"},
		Rating:      4.5,
		Reviews:     94,
	},
	{
		ID:          6,
		Name:        "Leather Chelsea Boots",
		Price:       decimal.RequireFromString("155.00"),
		Category:    "Footwear",
		Image:       "https://picsum.photos/seed/boot6/600/800",
		Description: "Step with confidence in these handcrafted leather Chelsea boots. The supple, full-grain leather molds to your foot, while the sturdy sole provides a grounded, rhythmic stride for any terrain.",
		Tags:        []string{"shoes", "leather", "winter", "casual"},
		Rating:      4.7,
		Reviews:     156,
	},
	{
		ID:          7,
		Name:        "Oversized Cotton Shirt",
		Price:       decimal.RequireFromString("65.00"),
		Category:    "Tops",
		Image:       "https://picsum.photos/seed/shirt7/600/800",
		Description: "Capture the essence of effortless chic with this oversized cotton shirt. The crisp, cool fabric rustles softly as you move, offering a blank canvas for endless styling possibilities.",
		Tags:        []string{"casual", "summer", "basics"},
		Rating:      4.4,
		Reviews:     302,
	},
	{
		ID:          8,
		Name:        "Bohemian Maxi Skirt",
		Price:       decimal.RequireFromString("78.00"),
		Category:    "Bottoms",
		Image:       "https://picsum.photos/seed/skirt8/600/800",
		Description: "Embrace bohemian whimsy with this vibrant maxi skirt. The intricate patterns tell a story of wanderlust, while the airy fabric swirls around your ankles, perfect for festival dancing or barefoot beach walks.",
		Tags:        []string{"summer", "boho", "casual"},
		Rating:      4.8,
		Reviews:     110,
	},
}
