package recommend

import (
	"fmt"
	"strings"

	"github.com/torqueup/assistant-api/internal/domain/entity"
)

// MaxItems caps every recommendation payload.
const MaxItems = 4

// CarsTitle is the display title of every cars recommendation.
const CarsTitle = "Perfect Cars for You"

// knownBrands is scanned in order; the first brand found in the context wins
// and later mentions are ignored.
var knownBrands = []string{
	"toyota", "honda", "nissan", "mazda", "mitsubishi", "suzuki", "subaru",
	"hyundai", "kia", "ford", "chevrolet", "volkswagen", "bmw", "mercedes",
	"audi", "lexus", "land rover", "jeep", "peugeot", "renault", "volvo",
	"ferrari", "lamborghini", "porsche", "tesla",
}

// budgetTier maps a spoken price range onto a listing price band. Tiers are
// an if/else-if chain: only the first tier whose phrasing matches applies.
// max < 0 means unbounded above.
type budgetTier struct {
	match    func(ctx string) bool
	min, max float64
}

var budgetTiers = []budgetTier{
	{
		match: func(c string) bool {
			return strings.Contains(c, "under 1,000,000") || strings.Contains(c, "below 1,000,000")
		},
		min: 0, max: 15000,
	},
	{
		match: func(c string) bool {
			return strings.Contains(c, "1,000,000") && strings.Contains(c, "2,000,000")
		},
		min: 15000, max: 25000,
	},
	{
		match: func(c string) bool {
			return strings.Contains(c, "2,000,000") && strings.Contains(c, "3,000,000")
		},
		min: 25000, max: 35000,
	},
	{
		match: func(c string) bool {
			return strings.Contains(c, "above 3,000,000") ||
				strings.Contains(c, "luxury") || strings.Contains(c, "expensive")
		},
		min: 35000, max: -1,
	},
}

func (t budgetTier) inBand(price float64) bool {
	if t.max < 0 {
		return price >= t.min
	}
	return price >= t.min && price < t.max
}

// keywordRule keeps vehicles matching keep when any keyword appears in the
// context. Rules within one pass are first-match-wins.
type keywordRule struct {
	keywords []string
	keep     func(v entity.Vehicle) bool
}

var usageRules = []keywordRule{
	{
		keywords: []string{"city", "commut"},
		keep: func(v entity.Vehicle) bool {
			body := strings.ToLower(v.BodyStyle)
			return body == "sedan" || body == "hatchback" ||
				strings.Contains(strings.ToLower(v.FuelConsumption), "efficient")
		},
	},
	{
		keywords: []string{"family", "trip"},
		keep: func(v entity.Vehicle) bool {
			body := strings.ToLower(v.BodyStyle)
			return v.SeatingCapacity >= 5 || body == "suv" || body == "sedan"
		},
	},
	{
		keywords: []string{"adventure", "off-road"},
		keep: func(v entity.Vehicle) bool {
			drive := strings.ToLower(v.Drivetrain)
			return strings.ToLower(v.BodyStyle) == "suv" || drive == "awd" || drive == "4wd"
		},
	},
	{
		keywords: []string{"business", "professional"},
		keep: func(v entity.Vehicle) bool {
			return strings.ToLower(v.BodyStyle) == "sedan" ||
				strings.ToLower(v.Category) == "luxury"
		},
	},
}

var sizeRules = []keywordRule{
	{
		keywords: []string{"compact"},
		keep: func(v entity.Vehicle) bool {
			body := strings.ToLower(v.BodyStyle)
			return body == "hatchback" || body == "compact"
		},
	},
	{
		keywords: []string{"large", "suv"},
		keep: func(v entity.Vehicle) bool {
			return strings.ToLower(v.BodyStyle) == "suv" || v.SeatingCapacity >= 7
		},
	},
}

// stage is one narrowing pass. apply reports whether the stage's pattern
// matched the context at all; keepOnEmpty names the fall-through policy: a
// matching stage whose narrowed set is empty becomes a no-op instead of
// emptying the candidates.
type stage struct {
	name        string
	keepOnEmpty bool
	apply       func(ctx string, in []entity.Vehicle) ([]entity.Vehicle, bool)
}

var stages = []stage{
	{name: "brand", keepOnEmpty: true, apply: brandStage},
	{name: "budget", apply: budgetStage},
	{name: "usage", apply: keywordStage(usageRules)},
	{name: "size", apply: keywordStage(sizeRules)},
}

func brandStage(ctx string, in []entity.Vehicle) ([]entity.Vehicle, bool) {
	brand := mentionedBrand(ctx)
	if brand == "" {
		return in, false
	}
	var out []entity.Vehicle
	for _, v := range in {
		if strings.Contains(strings.ToLower(v.Make), brand) {
			out = append(out, v)
		}
	}
	return out, true
}

func budgetStage(ctx string, in []entity.Vehicle) ([]entity.Vehicle, bool) {
	for _, tier := range budgetTiers {
		if !tier.match(ctx) {
			continue
		}
		var out []entity.Vehicle
		for _, v := range in {
			if tier.inBand(v.Price) {
				out = append(out, v)
			}
		}
		return out, true
	}
	return in, false
}

func keywordStage(rules []keywordRule) func(string, []entity.Vehicle) ([]entity.Vehicle, bool) {
	return func(ctx string, in []entity.Vehicle) ([]entity.Vehicle, bool) {
		for _, rule := range rules {
			if !containsAny(ctx, rule.keywords) {
				continue
			}
			var out []entity.Vehicle
			for _, v := range in {
				if rule.keep(v) {
					out = append(out, v)
				}
			}
			return out, true
		}
		return in, false
	}
}

// CarsResult is the outcome of the cars branch. Note, when set, is appended
// to the reply text (a requested brand had no inventory).
type CarsResult struct {
	Items []entity.Vehicle
	Title string
	Note  string
}

// FilterVehicles runs the ordered narrowing passes over the caller-supplied
// inventory snapshot and caps the result at MaxItems. The input is never
// mutated; the result is an order-preserving sub-sequence. An empty final
// set falls back to the head of the original list.
func FilterVehicles(ctx string, vehicles []entity.Vehicle) CarsResult {
	candidates := vehicles
	brandUnavailable := false

	for _, st := range stages {
		narrowed, matched := st.apply(ctx, candidates)
		if !matched {
			continue
		}
		if len(narrowed) == 0 && st.keepOnEmpty {
			if st.name == "brand" {
				brandUnavailable = true
			}
			continue
		}
		candidates = narrowed
	}

	var note string
	if brand := mentionedBrand(ctx); brand != "" && brandUnavailable {
		note = fmt.Sprintf(
			"Unfortunately, we don't have any %s vehicles in stock right now, but here are some other great options.",
			capitalizeWords(brand),
		)
	}
	if len(candidates) == 0 {
		candidates = vehicles
	}
	if len(candidates) > MaxItems {
		candidates = candidates[:MaxItems]
	}

	items := make([]entity.Vehicle, len(candidates))
	copy(items, candidates)
	return CarsResult{Items: items, Title: CarsTitle, Note: note}
}

// mentionedBrand returns the first recognized brand appearing in the
// context, or "".
func mentionedBrand(ctx string) string {
	for _, brand := range knownBrands {
		if strings.Contains(ctx, brand) {
			return brand
		}
	}
	return ""
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
