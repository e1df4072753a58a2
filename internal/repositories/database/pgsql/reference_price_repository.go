package pgsql

import (
	"context"
	"errors"
	"strings"

	"github.com/facturave/facturave/internal/apperrors"
	"github.com/facturave/facturave/internal/core/domain"
	"github.com/facturave/facturave/internal/models"
	"github.com/facturave/facturave/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxReferencePriceRepository implements ports.ReferencePriceRepository. The
// product catalog owns these tables; this repository only reads them.
type PgxReferencePriceRepository struct {
	BaseRepository
}

func newPgxReferencePriceRepository(db *pgxpool.Pool) *PgxReferencePriceRepository {
	return &PgxReferencePriceRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// NewPgxReferencePriceRepository creates a new PgxReferencePriceRepository.
func NewPgxReferencePriceRepository(db *pgxpool.Pool) *PgxReferencePriceRepository {
	return newPgxReferencePriceRepository(db)
}

// GetReferencePrice retrieves the product's price row in the given currency.
func (r *PgxReferencePriceRepository) GetReferencePrice(ctx context.Context, companyID, productID, currencyCode string) (*domain.ReferencePrice, error) {
	query := `
		SELECT p.product_id, p.name, pp.price, pp.currency_code
		FROM product_prices pp
		JOIN products p ON p.product_id = pp.product_id
		WHERE p.company_id = $1 AND pp.product_id = $2 AND pp.currency_code = $3;
	`
	var m models.ReferencePrice
	err := r.Pool.QueryRow(ctx, query, companyID, productID, strings.ToUpper(currencyCode)).Scan(
		&m.ProductID, &m.ProductName, &m.Price, &m.CurrencyCode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("reference price not found for product " + productID)
		}
		return nil, apperrors.NewAppError(500, "failed to get reference price", err)
	}
	price := mapping.ToDomainReferencePrice(m, false)
	return &price, nil
}

// GetLegacyPrice retrieves the deprecated direct price column. Kept only as a
// compatibility fallback; callers receive it flagged Legacy.
func (r *PgxReferencePriceRepository) GetLegacyPrice(ctx context.Context, companyID, productID string) (*domain.ReferencePrice, error) {
	query := `
		SELECT product_id, name, price_legacy, legacy_currency_code
		FROM products
		WHERE company_id = $1 AND product_id = $2 AND price_legacy IS NOT NULL;
	`
	var m models.ReferencePrice
	err := r.Pool.QueryRow(ctx, query, companyID, productID).Scan(
		&m.ProductID, &m.ProductName, &m.Price, &m.CurrencyCode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no legacy price for product " + productID)
		}
		return nil, apperrors.NewAppError(500, "failed to get legacy price", err)
	}
	price := mapping.ToDomainReferencePrice(m, true)
	return &price, nil
}
