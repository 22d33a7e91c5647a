package scenario

import "math/rand"

// fallbackHeadlines is the generic headline pool used when a round has no
// theory-specific news.
var fallbackHeadlines = []string{
	"Supplier capacity squeeze expected; spot prices rising",
	"Logistics slowdown at coastal ports; plan extra lead time",
	"Carbon audit upcoming; emissions visibility under scrutiny",
	"Regional demand uptick projected for premium SKUs",
	"Overtime regulations tightening; monitor hours",
	"Industry peers shifting to dual sourcing to hedge risk",
}

// headlineCount is how many fallback headlines a round surfaces.
const headlineCount = 2

// IndustryNews returns a seeded selection of generic industry headlines.
func IndustryNews(seed int64) []string {
	rng := rand.New(rand.NewSource(seed))
	shuffled := make([]string, len(fallbackHeadlines))
	copy(shuffled, fallbackHeadlines)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:headlineCount]
}
