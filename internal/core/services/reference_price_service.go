package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/facturave/facturave/internal/apperrors"
	"github.com/facturave/facturave/internal/core/domain"
	"github.com/facturave/facturave/internal/core/ports"
)

// ReferencePriceService looks up product prices in the stable reference
// currency, falling back to the deprecated legacy price column when the
// catalog has no reference price row.
type ReferencePriceService struct {
	priceRepo ports.ReferencePriceRepository
}

// NewReferencePriceService creates a new ReferencePriceService.
func NewReferencePriceService(priceRepo ports.ReferencePriceRepository) *ReferencePriceService {
	return &ReferencePriceService{priceRepo: priceRepo}
}

// GetReferencePrice returns the authoritative reference price for the
// product. When none exists the deprecated legacy price is returned flagged
// as such; when that is also missing, ErrReferencePriceMissing.
func (s *ReferencePriceService) GetReferencePrice(ctx context.Context, companyID, productID, referenceCurrency string) (*domain.ReferencePrice, error) {
	price, err := s.priceRepo.GetReferencePrice(ctx, companyID, productID, referenceCurrency)
	if err == nil {
		return price, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	legacy, err := s.priceRepo.GetLegacyPrice(ctx, companyID, productID)
	if err == nil {
		slog.Warn("serving deprecated legacy price, product has no reference price",
			slog.String("company_id", companyID),
			slog.String("product_id", productID),
		)
		return legacy, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	return nil, fmt.Errorf("%w: product %s has no price in %s", apperrors.ErrReferencePriceMissing, productID, referenceCurrency)
}
