package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"

	"broker_market/internal/domain"
	"broker_market/internal/domain/entity"
	"broker_market/pkg/errcodes"
)

type RulesRepository struct {
	db *sqlx.DB
}

func NewRulesRepository(db *sqlx.DB) *RulesRepository {
	return &RulesRepository{db: db}
}

// Load reads the single trading-rules document. The rules are one coherent
// constant block, so they live as a jsonb payload instead of columns.
func (r *RulesRepository) Load(ctx context.Context) (*entity.TradingRules, error) {
	query := `SELECT payload FROM trading_rules WHERE id = 1`

	var payload []byte
	if err := r.db.GetContext(ctx, &payload, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.RulesUnavailable, "trading rules not configured")
		}
		return nil, domain.WrapError(err, errcodes.RulesUnavailable, "failed to load trading rules")
	}

	var rules entity.TradingRules
	if err := json.Unmarshal(payload, &rules); err != nil {
		return nil, domain.WrapError(err, errcodes.RulesUnavailable, "failed to parse trading rules")
	}

	return &rules, nil
}
