package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/torqueup/assistant-api/internal/domain/entity"
	"github.com/torqueup/assistant-api/internal/domain/repository"
)

type memoryVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[string]entity.Vehicle // key: vehicle ID
	order    []string                  // insertion order, so listings stay stable
	catalog  *entity.VehicleCatalog
}

// NewMemoryVehicleRepository creates an in-memory vehicle repository.
func NewMemoryVehicleRepository() repository.VehicleRepository {
	return &memoryVehicleRepository{
		vehicles: make(map[string]entity.Vehicle),
	}
}

// SaveMany upserts vehicles by ID.
func (m *memoryVehicleRepository) SaveMany(ctx context.Context, vehicles []entity.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, v := range vehicles {
		if _, exists := m.vehicles[v.ID]; !exists {
			m.order = append(m.order, v.ID)
		}
		m.vehicles[v.ID] = v
	}
	return nil
}

// GetByID looks a vehicle up by ID.
func (m *memoryVehicleRepository) GetByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, exists := m.vehicles[id]
	if !exists {
		return nil, fmt.Errorf("vehicle not found: %s", id)
	}
	return &v, nil
}

// Search finds vehicles whose make, model, body style, category or
// description matches the query. Direct substring hits come first; when
// nothing matches directly, a similarity score over normalized tokens picks
// close candidates (so "RAV 4" still finds "RAV4").
func (m *memoryVehicleRepository) Search(ctx context.Context, query string) ([]entity.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}
	compactQuery := normalizeAlphaNum(query)
	tokens := normalizeTokens(queryTokens(query))

	var results []entity.Vehicle
	var scored []scoredVehicle

	for _, id := range m.order {
		v := m.vehicles[id]
		name := strings.ToLower(v.Make + " " + v.Model)
		nameCompact := normalizeAlphaNum(name)
		bodyLower := strings.ToLower(v.BodyStyle)
		catLower := strings.ToLower(v.Category)
		descLower := strings.ToLower(v.Description)

		if strings.Contains(name, query) ||
			strings.Contains(bodyLower, query) ||
			strings.Contains(catLower, query) ||
			strings.Contains(descLower, query) ||
			(compactQuery != "" && strings.Contains(nameCompact, compactQuery)) ||
			matchTokens(tokens, name, nameCompact, bodyLower, catLower, descLower) {
			results = append(results, v)
			continue
		}

		score := similarityScore(tokens, compactQuery, name, nameCompact, catLower, descLower)
		if score >= 5 {
			scored = append(scored, scoredVehicle{Vehicle: v, Score: score})
		}
	}

	// No direct hit: fall back to the best-scored candidates only. A weak
	// score never surfaces random inventory.
	if len(results) == 0 && len(scored) > 0 {
		sort.Slice(scored, func(i, j int) bool {
			if scored[i].Score == scored[j].Score {
				return scored[i].Vehicle.Price < scored[j].Vehicle.Price
			}
			return scored[i].Score > scored[j].Score
		})
		for _, sv := range scored {
			if sv.Score >= 8 && len(results) < 6 {
				results = append(results, sv.Vehicle)
			}
		}
	}

	return results, nil
}

// GetAll returns every vehicle in insertion order.
func (m *memoryVehicleRepository) GetAll(ctx context.Context) ([]entity.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	vehicles := make([]entity.Vehicle, 0, len(m.order))
	for _, id := range m.order {
		vehicles = append(vehicles, m.vehicles[id])
	}
	return vehicles, nil
}

// ReplaceCatalog swaps the whole inventory for a new snapshot.
func (m *memoryVehicleRepository) ReplaceCatalog(ctx context.Context, catalog entity.VehicleCatalog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.vehicles = make(map[string]entity.Vehicle, len(catalog.Vehicles))
	m.order = m.order[:0]
	for _, v := range catalog.Vehicles {
		if _, exists := m.vehicles[v.ID]; !exists {
			m.order = append(m.order, v.ID)
		}
		m.vehicles[v.ID] = v
	}
	m.catalog = &catalog
	return nil
}

// GetCatalog returns the current snapshot.
func (m *memoryVehicleRepository) GetCatalog(ctx context.Context) (*entity.VehicleCatalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.catalog == nil {
		return nil, fmt.Errorf("catalog not found")
	}
	return m.catalog, nil
}

// Clear removes every vehicle.
func (m *memoryVehicleRepository) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.vehicles = make(map[string]entity.Vehicle)
	m.order = nil
	m.catalog = nil
	return nil
}

// Search helpers.

type scoredVehicle struct {
	Vehicle entity.Vehicle
	Score   int
}

func normalizeAlphaNum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(b.String())
}

func queryTokens(q string) []string {
	q = strings.ToLower(q)
	for _, sep := range []string{",", ".", "?", "!", ";", ":", "/", "\\", "-", "_"} {
		q = strings.ReplaceAll(q, sep, " ")
	}

	var tokens []string
	for _, f := range strings.Fields(q) {
		if len(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func normalizeTokens(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		if n := normalizeAlphaNum(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func matchTokens(tokens []string, parts ...string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, t := range tokens {
		for _, p := range parts {
			if strings.Contains(p, t) {
				return true
			}
		}
	}
	return false
}

func similarityScore(tokens []string, compactQuery, name, nameCompact, cat, desc string) int {
	score := 0
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if strings.Contains(name, t) || strings.Contains(nameCompact, t) {
			score += 4
			continue
		}
		if strings.Contains(cat, t) || strings.Contains(desc, t) {
			score += 2
		}
	}

	if compactQuery != "" {
		if lcs := longestCommonSubstringLength(compactQuery, nameCompact); lcs >= 3 {
			score += lcs
		}
	}
	return score
}

func longestCommonSubstringLength(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	dp := make([][]int, len(a)+1)
	for i := range dp {
		dp[i] = make([]int, len(b)+1)
	}
	maxLen := 0
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
				if dp[i][j] > maxLen {
					maxLen = dp[i][j]
				}
			}
		}
	}
	return maxLen
}
