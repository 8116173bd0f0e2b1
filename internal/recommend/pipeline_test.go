package recommend

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/torqueup/assistant-api/internal/domain/entity"
)

func fleet() []entity.Vehicle {
	return []entity.Vehicle{
		{ID: "v1", Make: "Toyota", Model: "Corolla", Price: 12000, BodyStyle: "sedan", Drivetrain: "fwd", SeatingCapacity: 5, FuelConsumption: "efficient 5.6L/100km"},
		{ID: "v2", Make: "Toyota", Model: "Land Cruiser", Price: 52000, BodyStyle: "suv", Drivetrain: "4wd", SeatingCapacity: 7},
		{ID: "v3", Make: "BMW", Model: "320i", Price: 31000, BodyStyle: "sedan", Drivetrain: "rwd", SeatingCapacity: 5, Category: "luxury"},
		{ID: "v4", Make: "Honda", Model: "Fit", Price: 9000, BodyStyle: "hatchback", Drivetrain: "fwd", SeatingCapacity: 5},
		{ID: "v5", Make: "Nissan", Model: "Patrol", Price: 48000, BodyStyle: "suv", Drivetrain: "4wd", SeatingCapacity: 8},
		{ID: "v6", Make: "Hyundai", Model: "Elantra", Price: 17000, BodyStyle: "sedan", Drivetrain: "fwd", SeatingCapacity: 5},
		{ID: "v7", Make: "Mazda", Model: "CX-5", Price: 27000, BodyStyle: "suv", Drivetrain: "awd", SeatingCapacity: 5},
		{ID: "v8", Make: "Kia", Model: "Picanto", Price: 8000, BodyStyle: "hatchback", Drivetrain: "fwd", SeatingCapacity: 4},
		{ID: "v9", Make: "Mercedes", Model: "E200", Price: 42000, BodyStyle: "sedan", Drivetrain: "rwd", SeatingCapacity: 5, Category: "luxury"},
		{ID: "v10", Make: "Ford", Model: "Ranger", Price: 34000, BodyStyle: "pickup", Drivetrain: "4wd", SeatingCapacity: 5},
	}
}

func ids(vs []entity.Vehicle) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.ID
	}
	return out
}

// No keywords at all: no pass narrows, result is the head of the original
// list with the constant title.
func TestNoKeywordsReturnsHeadOfList(t *testing.T) {
	res := FilterVehicles("i want a car", fleet())
	if got, want := ids(res.Items), []string{"v1", "v2", "v3", "v4"}; !reflect.DeepEqual(got, want) {
		t.Errorf("items = %v, want %v", got, want)
	}
	if res.Title != CarsTitle {
		t.Errorf("title = %q, want %q", res.Title, CarsTitle)
	}
	if res.Note != "" {
		t.Errorf("unexpected note %q", res.Note)
	}
}

func TestOutputCap(t *testing.T) {
	res := FilterVehicles("anything", fleet())
	if len(res.Items) > MaxItems {
		t.Fatalf("got %d items, cap is %d", len(res.Items), MaxItems)
	}

	short := fleet()[:2]
	res = FilterVehicles("i want a car", short)
	if len(res.Items) != 2 {
		t.Fatalf("short list: got %d items, want 2", len(res.Items))
	}
}

// Whichever recognized brand comes first in the internal brand list wins;
// the result is never a mix.
func TestBrandPriority(t *testing.T) {
	res := FilterVehicles("maybe a toyota, maybe a bmw", fleet())
	if len(res.Items) == 0 {
		t.Fatal("no items")
	}
	for _, v := range res.Items {
		if !strings.EqualFold(v.Make, "Toyota") {
			t.Errorf("mixed result: found make %q", v.Make)
		}
	}
}

func TestBrandWithZeroInventory(t *testing.T) {
	res := FilterVehicles("i love ferrari", fleet())
	if !strings.Contains(res.Note, "Ferrari") || !strings.Contains(res.Note, "don't have any") {
		t.Errorf("note = %q, want brand-unavailable sentence", res.Note)
	}
	if got, want := ids(res.Items), []string{"v1", "v2", "v3", "v4"}; !reflect.DeepEqual(got, want) {
		t.Errorf("items = %v, want head of unfiltered list %v", got, want)
	}
}

func TestBudgetTiersAreMutuallyExclusive(t *testing.T) {
	tests := []struct {
		context string
		min     float64
		max     float64 // exclusive; <0 means unbounded
	}{
		{"something under 1,000,000", 0, 15000},
		{"between 1,000,000 and 2,000,000", 15000, 25000},
		{"between 2,000,000 and 3,000,000", 25000, 35000},
		{"above 3,000,000 please", 35000, -1},
		{"a luxury car", 35000, -1},
	}

	for _, tt := range tests {
		t.Run(tt.context, func(t *testing.T) {
			res := FilterVehicles(tt.context, fleet())
			for _, v := range res.Items {
				if v.Price < tt.min {
					t.Errorf("%s: price %.0f below band [%.0f, %.0f)", v.ID, v.Price, tt.min, tt.max)
				}
				if tt.max >= 0 && v.Price >= tt.max {
					t.Errorf("%s: price %.0f above band [%.0f, %.0f)", v.ID, v.Price, tt.min, tt.max)
				}
			}
		})
	}
}

func TestUsagePassFirstMatchWins(t *testing.T) {
	// "city" appears before the family group is checked, so only the city
	// predicate applies even though "trip" is also present.
	res := FilterVehicles("city commuting and the occasional trip", fleet())
	for _, v := range res.Items {
		body := strings.ToLower(v.BodyStyle)
		efficient := strings.Contains(strings.ToLower(v.FuelConsumption), "efficient")
		if body != "sedan" && body != "hatchback" && !efficient {
			t.Errorf("%s: body %q does not satisfy the city predicate", v.ID, v.BodyStyle)
		}
	}
}

func TestAdventureKeepsOffRoaders(t *testing.T) {
	res := FilterVehicles("something for adventure", fleet())
	if len(res.Items) == 0 {
		t.Fatal("no items")
	}
	for _, v := range res.Items {
		drive := strings.ToLower(v.Drivetrain)
		if strings.ToLower(v.BodyStyle) != "suv" && drive != "awd" && drive != "4wd" {
			t.Errorf("%s: neither suv nor awd/4wd", v.ID)
		}
	}
}

func TestSizePassCompact(t *testing.T) {
	res := FilterVehicles("a compact car", fleet())
	for _, v := range res.Items {
		body := strings.ToLower(v.BodyStyle)
		if body != "hatchback" && body != "compact" {
			t.Errorf("%s: body %q, want hatchback/compact", v.ID, v.BodyStyle)
		}
	}
}

func TestStackedPasses(t *testing.T) {
	// Brand then budget: Toyotas under the first tier only.
	res := FilterVehicles("a toyota under 1,000,000", fleet())
	if got, want := ids(res.Items), []string{"v1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("items = %v, want %v", got, want)
	}
}

func TestEmptyAfterNarrowingFallsBackToOriginal(t *testing.T) {
	// Budget tier 1 over a fleet with nothing under 15000 empties the set;
	// the fallback reverts to the head of the original list.
	expensive := fleet()[1:3] // 52000 and 31000
	res := FilterVehicles("under 1,000,000", expensive)
	if got, want := ids(res.Items), []string{"v2", "v3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("items = %v, want %v", got, want)
	}
}

func TestInputIsNotMutated(t *testing.T) {
	original := fleet()
	snapshot := fmt.Sprintf("%v", original)
	FilterVehicles("a compact toyota for the city under 1,000,000", original)
	if fmt.Sprintf("%v", original) != snapshot {
		t.Error("input slice was mutated")
	}
}
