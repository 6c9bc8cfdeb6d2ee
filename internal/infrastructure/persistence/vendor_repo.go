package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"broker_market/internal/domain"
	"broker_market/internal/domain/entity"
	"broker_market/pkg/errcodes"
)

type VendorRepository struct {
	db *sqlx.DB
}

func NewVendorRepository(db *sqlx.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

// All loads the vendor catalog. Loaded once at startup; empty is fatal.
func (r *VendorRepository) All(ctx context.Context) ([]entity.Vendor, error) {
	query := `
		SELECT id, name, currency, payout_coefficient,
		       buys, refuses, locked, no_restrictions
		FROM vendors
		ORDER BY id`

	var schemas []vendorSchema
	if err := r.db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, domain.WrapError(err, errcodes.CatalogUnavailable, "failed to load vendors")
	}
	if len(schemas) == 0 {
		return nil, domain.NewError(errcodes.CatalogUnavailable, "vendor catalog is empty")
	}

	vendors := make([]entity.Vendor, 0, len(schemas))
	for _, s := range schemas {
		v, err := s.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.CatalogUnavailable, "failed to convert vendor "+s.ID)
		}
		vendors = append(vendors, v)
	}

	return vendors, nil
}
