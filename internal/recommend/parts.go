package recommend

import (
	"strings"

	"github.com/torqueup/assistant-api/internal/domain/entity"
)

// UnknownSeller is the display fallback when a part's seller has no profile.
const UnknownSeller = "Unknown seller"

// MatchParts returns up to MaxItems parts whose title contains the category
// token, case-insensitively, each annotated with the seller username. A
// plural token also matches its singular form, so "brakes" still finds
// "brake pads". The second return is the display title.
func MatchParts(category string, parts []entity.Part, profiles map[string]entity.SellerProfile) ([]entity.Part, string) {
	token := strings.ToLower(strings.TrimSpace(category))
	title := PartsTitle(token)
	if token == "" {
		return nil, title
	}
	singular := strings.TrimSuffix(token, "s")

	var items []entity.Part
	for _, p := range parts {
		t := strings.ToLower(p.Title)
		if !strings.Contains(t, token) && !(singular != "" && strings.Contains(t, singular)) {
			continue
		}
		if prof, ok := profiles[p.SellerID]; ok && prof.Username != "" {
			p.Seller = prof.Username
		} else {
			p.Seller = UnknownSeller
		}
		items = append(items, p)
		if len(items) == MaxItems {
			break
		}
	}
	return items, title
}

// PartsTitle builds the display title for a parts recommendation.
func PartsTitle(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return "Parts for Your Car"
	}
	return strings.ToUpper(token[:1]) + strings.ToLower(token[1:]) + " Parts for Your Car"
}
