package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"broker_market/internal/domain"
	"broker_market/internal/domain/entity"
	"broker_market/pkg/errcodes"
)

type ListingRepository struct {
	db *sqlx.DB
}

func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// ListingsForTemplate samples the current offers for one template. No rows is
// a valid answer; the valuation falls back to reference estimates then.
func (r *ListingRepository) ListingsForTemplate(ctx context.Context, templateID string) ([]entity.MarketListing, error) {
	query := `
		SELECT id, template_id, items, requirements_cost,
		       barter, vendor_owned, bundled
		FROM market_listings
		WHERE template_id = $1`

	var schemas []listingSchema
	if err := r.db.SelectContext(ctx, &schemas, query, templateID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to load listings")
	}

	listings := make([]entity.MarketListing, 0, len(schemas))
	for _, s := range schemas {
		listing, err := s.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to convert listing "+s.ID)
		}
		listings = append(listings, listing)
	}

	return listings, nil
}
