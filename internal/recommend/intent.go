package recommend

import (
	"regexp"
	"strings"
)

// The model is instructed to embed these sentinel markers in its reply when
// it wants the service to attach inventory recommendations.
const CarsMarker = "[RECOMMEND_CARS]"

var partsMarkerRe = regexp.MustCompile(`\[RECOMMEND_PARTS:([^\[\]]+)\]`)

// Branch says which recommendation path a classified reply takes.
type Branch int

const (
	BranchNone Branch = iota
	BranchCars
	BranchParts
)

// Intent is the classification of one model reply. Reply carries the display
// text with the marker removed; for BranchNone it is the input unmodified.
type Intent struct {
	Branch   Branch
	Category string
	Reply    string
}

// Classify scans the model reply for recommendation markers. The checks are
// mutually exclusive: the parts marker is only considered when the cars
// marker is absent, so at most one branch fires per turn. Stripping removes
// the first marker occurrence and nothing else, which keeps it idempotent
// and lets a stripped reply be reconstructed byte-for-byte.
func Classify(reply string) Intent {
	if i := strings.Index(reply, CarsMarker); i >= 0 {
		return Intent{
			Branch: BranchCars,
			Reply:  reply[:i] + reply[i+len(CarsMarker):],
		}
	}
	if loc := partsMarkerRe.FindStringSubmatchIndex(reply); loc != nil {
		category := strings.TrimSpace(reply[loc[2]:loc[3]])
		return Intent{
			Branch:   BranchParts,
			Category: category,
			Reply:    reply[:loc[0]] + reply[loc[1]:],
		}
	}
	return Intent{Branch: BranchNone, Reply: reply}
}
