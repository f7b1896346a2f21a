package database

import (
	"database/sql"
	"fmt"

	"github.com/trogers1052/portfolio-service/internal/models"
)

// GetAllHoldings retrieves every holding definition, ordered by id.
// The order is significant: it is the display order of the portfolio.
func (db *DB) GetAllHoldings() ([]models.Holding, error) {
	query := `
		SELECT id, particulars, symbol, purchase_price, quantity,
		       investment, portfolio_percent, exchange, sector
		FROM holdings
		ORDER BY id ASC
	`
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []models.Holding
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holdings: %w", err)
	}
	return holdings, nil
}

// GetHoldingBySymbol retrieves one holding by its ticker symbol
func (db *DB) GetHoldingBySymbol(symbol string) (*models.Holding, error) {
	query := `
		SELECT id, particulars, symbol, purchase_price, quantity,
		       investment, portfolio_percent, exchange, sector
		FROM holdings
		WHERE symbol = $1
	`
	row := db.conn.QueryRow(query, symbol)
	h, err := scanHolding(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("holding not found: %s", symbol)
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// SeedHoldings inserts or updates the given holdings. This is an
// operator/setup path only; the service never writes holdings at
// runtime.
func (db *DB) SeedHoldings(holdings []models.Holding) error {
	query := `
		INSERT INTO holdings (
			id, particulars, symbol, purchase_price, quantity,
			investment, portfolio_percent, exchange, sector
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (symbol) DO UPDATE SET
			particulars = EXCLUDED.particulars,
			purchase_price = EXCLUDED.purchase_price,
			quantity = EXCLUDED.quantity,
			investment = EXCLUDED.investment,
			portfolio_percent = EXCLUDED.portfolio_percent,
			exchange = EXCLUDED.exchange,
			sector = EXCLUDED.sector
	`
	for _, h := range holdings {
		_, err := db.conn.Exec(query,
			h.ID, h.Particulars, h.Symbol, h.PurchasePrice, h.Quantity,
			h.Investment, h.PortfolioPercent, h.Exchange, h.Sector,
		)
		if err != nil {
			return fmt.Errorf("failed to seed holding %s: %w", h.Symbol, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHolding(r rowScanner) (models.Holding, error) {
	var h models.Holding
	var exchange, sector sql.NullString

	err := r.Scan(
		&h.ID, &h.Particulars, &h.Symbol, &h.PurchasePrice, &h.Quantity,
		&h.Investment, &h.PortfolioPercent, &exchange, &sector,
	)
	if err == sql.ErrNoRows {
		return h, err
	}
	if err != nil {
		return h, fmt.Errorf("failed to scan holding: %w", err)
	}

	if exchange.Valid {
		h.Exchange = exchange.String
	}
	if sector.Valid {
		h.Sector = sector.String
	}
	return h, nil
}
