package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"broker_market/internal/domain"
	"broker_market/internal/domain/entity"
	"broker_market/pkg/errcodes"
)

type TemplateRepository struct {
	db *sqlx.DB
}

func NewTemplateRepository(db *sqlx.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// All loads the whole template catalog. The engine loads it once at startup;
// an empty catalog is an error, nothing can be priced without it.
func (r *TemplateRepository) All(ctx context.Context) ([]entity.ItemTemplate, error) {
	query := `
		SELECT id, name, base_price, categories,
		       max_durability, max_usage, max_resource, max_units,
		       max_repair_resource, repair_cost, commission_modifier,
		       has_side_effects, has_assembled_form, valid
		FROM item_templates`

	var schemas []templateSchema
	if err := r.db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, domain.WrapError(err, errcodes.CatalogUnavailable, "failed to load templates")
	}
	if len(schemas) == 0 {
		return nil, domain.NewError(errcodes.CatalogUnavailable, "template catalog is empty")
	}

	templates := make([]entity.ItemTemplate, 0, len(schemas))
	for _, s := range schemas {
		tpl, err := s.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.CatalogUnavailable, "failed to convert template "+s.ID)
		}
		templates = append(templates, tpl)
	}

	return templates, nil
}

// ByID fetches one template.
func (r *TemplateRepository) ByID(ctx context.Context, templateID string) (*entity.ItemTemplate, error) {
	query := `
		SELECT id, name, base_price, categories,
		       max_durability, max_usage, max_resource, max_units,
		       max_repair_resource, repair_cost, commission_modifier,
		       has_side_effects, has_assembled_form, valid
		FROM item_templates
		WHERE id = $1`

	var schema templateSchema
	if err := r.db.GetContext(ctx, &schema, query, templateID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.TemplateNotFound, "template not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get template")
	}

	tpl, err := schema.toDomain()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to convert template")
	}
	return &tpl, nil
}
