package holdings

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/trogers1052/portfolio-service/internal/database"
	"github.com/trogers1052/portfolio-service/internal/models"
)

// LoadFile reads the holding definitions from a JSON file. The file
// order is the display order.
func LoadFile(path string) ([]models.Holding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holdings file: %w", err)
	}
	var hs []models.Holding
	if err := json.Unmarshal(data, &hs); err != nil {
		return nil, fmt.Errorf("failed to parse holdings file: %w", err)
	}
	if err := validate(hs); err != nil {
		return nil, err
	}
	return hs, nil
}

// LoadDatabase reads the holding definitions from PostgreSQL.
func LoadDatabase(db *database.DB) ([]models.Holding, error) {
	hs, err := db.GetAllHoldings()
	if err != nil {
		return nil, err
	}
	if err := validate(hs); err != nil {
		return nil, err
	}
	return hs, nil
}

// validate enforces the invariants the rest of the service relies on:
// at least one holding, unique symbols, non-negative quantities.
func validate(hs []models.Holding) error {
	if len(hs) == 0 {
		return fmt.Errorf("no holdings defined")
	}
	seen := make(map[string]struct{}, len(hs))
	for _, h := range hs {
		if h.Symbol == "" {
			return fmt.Errorf("holding %d has no symbol", h.ID)
		}
		if _, dup := seen[h.Symbol]; dup {
			return fmt.Errorf("duplicate holding symbol: %s", h.Symbol)
		}
		seen[h.Symbol] = struct{}{}
		if h.Quantity < 0 {
			return fmt.Errorf("holding %s has negative quantity", h.Symbol)
		}
	}
	return nil
}
