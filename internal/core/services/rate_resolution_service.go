package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/facturave/facturave/internal/apperrors"
	"github.com/facturave/facturave/internal/core/domain"
	"github.com/facturave/facturave/internal/core/ports"
	"github.com/facturave/facturave/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// feedRefreshTimeout bounds the opportunistic feed refresh inside Resolve.
// Resolution must degrade to historical fallback, never hang on the network.
const feedRefreshTimeout = 5 * time.Second

// RateResolutionService determines the rate in effect for a currency pair on
// a date. The fallback chain runs in strict priority order:
//
//  1. caller-supplied manual override (persisted, always wins)
//  2. active stored rate for the exact pair and date
//  3. active stored rate for the opposite direction, reused as stored
//  4. bounded feed refresh, then one retry of 2 and 3
//  5. most recent historical rate, direct then opposite direction
//
// Only when all five come up empty does it return ErrRateNotAvailable.
type RateResolutionService struct {
	rateRepo      ports.DailyRateRepository
	provider      ports.ExternalRateProvider
	cache         ports.RateCache
	localCurrency string
}

// NewRateResolutionService creates a new RateResolutionService.
func NewRateResolutionService(rateRepo ports.DailyRateRepository, provider ports.ExternalRateProvider, rateCache ports.RateCache, localCurrency string) *RateResolutionService {
	return &RateResolutionService{
		rateRepo:      rateRepo,
		provider:      provider,
		cache:         rateCache,
		localCurrency: localCurrency,
	}
}

// Resolve walks the fallback chain for the pair on rateDate. A non-nil manual
// override short-circuits the chain after being persisted as a MANUAL rate.
func (s *RateResolutionService) Resolve(ctx context.Context, companyID, fromCode, toCode string, rateDate time.Time, manual *dto.ManualRateOverride, actorUserID string) (*domain.ResolvedRate, error) {
	pair, err := validateCurrencyPair(fromCode, toCode)
	if err != nil {
		return nil, err
	}

	if manual != nil {
		return s.applyManualOverride(ctx, companyID, pair, rateDate, manual, actorUserID)
	}

	if cached, ok := s.cache.Get(companyID, pair, rateDate); ok {
		return cached, nil
	}

	if resolved, err := s.lookupStored(ctx, companyID, pair, rateDate); err == nil {
		s.cache.Put(companyID, pair, rateDate, *resolved)
		return resolved, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	// Nothing stored for the date. For pairs the feed can quote, try one
	// bounded refresh before falling back to history.
	if pair.Contains(s.localCurrency) {
		if resolved, ok := s.refreshAndRetry(ctx, companyID, pair, rateDate, actorUserID); ok {
			s.cache.Put(companyID, pair, rateDate, *resolved)
			return resolved, nil
		}
	}

	if latest, err := s.rateRepo.LatestRate(ctx, companyID, pair); err == nil {
		return toResolved(latest), nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if latest, err := s.rateRepo.LatestRate(ctx, companyID, pair.Inverse()); err == nil {
		return toResolved(latest), nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	return nil, fmt.Errorf("%w: no rate recorded for %s", apperrors.ErrRateNotAvailable, pair)
}

// Convert applies a resolved rate to an amount. Same-currency conversions
// return the amount unchanged at rate 1 without touching the rate store.
func (s *RateResolutionService) Convert(ctx context.Context, req dto.ConvertRequest, actorUserID string) (*domain.ConversionResult, error) {
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount cannot be negative", apperrors.ErrValidation)
	}

	rateDate := time.Now()
	if req.RateDate != nil {
		rateDate = *req.RateDate
	}

	pair := domain.NewCurrencyPair(req.FromCurrencyCode, req.ToCurrencyCode)
	if pair.BaseCurrencyCode == pair.TargetCurrencyCode {
		return &domain.ConversionResult{
			ConvertedAmount: req.Amount,
			Rate:            decimal.NewFromInt(1),
			RateDate:        rateDate,
			Source:          domain.RateSourceManual,
			InverseRate:     decimal.NewFromInt(1),
		}, nil
	}

	resolved, err := s.Resolve(ctx, req.CompanyID, pair.BaseCurrencyCode, pair.TargetCurrencyCode, rateDate, req.ManualRate, actorUserID)
	if err != nil {
		return nil, err
	}

	return &domain.ConversionResult{
		ConvertedAmount: roundHalfUp(req.Amount.Mul(resolved.Rate)),
		Rate:            resolved.Rate,
		RateDate:        resolved.RateDate,
		Source:          resolved.Source,
		InverseRate:     decimal.NewFromInt(1).DivRound(resolved.Rate, 8),
	}, nil
}

// applyManualOverride persists the caller's rate as a MANUAL entry and
// returns it. Manual overrides always supersede whatever is stored.
func (s *RateResolutionService) applyManualOverride(ctx context.Context, companyID string, pair domain.CurrencyPair, rateDate time.Time, manual *dto.ManualRateOverride, actorUserID string) (*domain.ResolvedRate, error) {
	if manual.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: manual rate must be positive", apperrors.ErrInvalidRate)
	}

	now := time.Now()
	saved, err := s.rateRepo.UpsertRate(ctx, domain.DailyRate{
		DailyRateID:        uuid.NewString(),
		CompanyID:          companyID,
		BaseCurrencyCode:   pair.BaseCurrencyCode,
		TargetCurrencyCode: pair.TargetCurrencyCode,
		RateDate:           rateDate,
		Rate:               manual.Rate,
		Source:             domain.RateSourceManual,
		IsActive:           true,
		Notes:              manual.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}, true)
	if err != nil {
		return nil, fmt.Errorf("failed to persist manual override: %w", err)
	}
	s.cache.Invalidate(companyID, pair, saved.RateDate)

	return toResolved(saved), nil
}

// lookupStored checks the exact pair and date, then the opposite direction.
// An opposite-direction hit is returned with its stored value unchanged: the
// store holds "units of target per unit of base" quotes that answer lookups
// in either direction, matching how the feed publishes them.
func (s *RateResolutionService) lookupStored(ctx context.Context, companyID string, pair domain.CurrencyPair, rateDate time.Time) (*domain.ResolvedRate, error) {
	direct, err := s.rateRepo.GetRate(ctx, companyID, pair, rateDate)
	if err == nil {
		return toResolved(direct), nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	inverse, err := s.rateRepo.GetRate(ctx, companyID, pair.Inverse(), rateDate)
	if err == nil {
		return toResolved(inverse), nil
	}
	return nil, err
}

// refreshAndRetry asks the feed for a current quote under a bounded timeout
// and stores a hit as an OFFICIAL rate for the date. Feed failures are logged
// and swallowed so resolution can fall back to history.
func (s *RateResolutionService) refreshAndRetry(ctx context.Context, companyID string, pair domain.CurrencyPair, rateDate time.Time, actorUserID string) (*domain.ResolvedRate, bool) {
	feedCtx, cancel := context.WithTimeout(ctx, feedRefreshTimeout)
	defer cancel()

	quote, err := s.provider.GetRate(feedCtx, pair.BaseCurrencyCode, pair.TargetCurrencyCode)
	if err != nil {
		slog.Warn("feed lookup failed during resolution, falling back to history",
			slog.String("pair", pair.String()),
			slog.String("error", err.Error()),
		)
		return nil, false
	}
	if quote.LessThanOrEqual(decimal.Zero) {
		return nil, false
	}

	now := time.Now()
	saved, err := s.rateRepo.UpsertRate(feedCtx, domain.DailyRate{
		DailyRateID:        uuid.NewString(),
		CompanyID:          companyID,
		BaseCurrencyCode:   pair.BaseCurrencyCode,
		TargetCurrencyCode: pair.TargetCurrencyCode,
		RateDate:           rateDate,
		Rate:               quote,
		Source:             domain.RateSourceOfficial,
		IsActive:           true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}, false)
	if err != nil {
		slog.Warn("failed to store feed rate during resolution",
			slog.String("pair", pair.String()),
			slog.String("error", err.Error()),
		)
		return nil, false
	}
	s.cache.Invalidate(companyID, pair, saved.RateDate)

	return toResolved(saved), true
}

func toResolved(rate *domain.DailyRate) *domain.ResolvedRate {
	return &domain.ResolvedRate{
		Rate:     rate.Rate,
		RateDate: rate.RateDate,
		Source:   rate.Source,
	}
}
