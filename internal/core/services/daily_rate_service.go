package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/facturave/facturave/internal/apperrors"
	"github.com/facturave/facturave/internal/core/domain"
	"github.com/facturave/facturave/internal/core/ports"
	"github.com/facturave/facturave/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyRateService owns the stored rate history: manual entries, feed syncs,
// history and audit reads. Every write goes through the repository's
// supersede upsert and is followed by a synchronous cache invalidation, so
// the read-through cache can never serve a superseded rate.
type DailyRateService struct {
	rateRepo       ports.DailyRateRepository
	provider       ports.ExternalRateProvider
	cache          ports.RateCache
	localCurrency  string
	syncCurrencies []string
}

// NewDailyRateService creates a new DailyRateService. syncCurrencies lists
// the foreign currencies pulled during a feed sync.
func NewDailyRateService(rateRepo ports.DailyRateRepository, provider ports.ExternalRateProvider, rateCache ports.RateCache, localCurrency string, syncCurrencies []string) *DailyRateService {
	return &DailyRateService{
		rateRepo:       rateRepo,
		provider:       provider,
		cache:          rateCache,
		localCurrency:  strings.ToUpper(localCurrency),
		syncCurrencies: syncCurrencies,
	}
}

func validateCurrencyPair(fromCode, toCode string) (domain.CurrencyPair, error) {
	pair := domain.NewCurrencyPair(fromCode, toCode)
	if len(pair.BaseCurrencyCode) != 3 || len(pair.TargetCurrencyCode) != 3 {
		return pair, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	if pair.BaseCurrencyCode == pair.TargetCurrencyCode {
		return pair, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}
	return pair, nil
}

// CreateManualRate persists a manual rate with its justification note,
// superseding any active rate for the same pair and date. Manual rates always
// win, so the upsert is issued with override semantics.
func (s *DailyRateService) CreateManualRate(ctx context.Context, req dto.CreateManualRateRequest, creatorUserID string) (*domain.DailyRate, error) {
	pair, err := validateCurrencyPair(req.FromCurrencyCode, req.ToCurrencyCode)
	if err != nil {
		return nil, err
	}
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: manual rate must be positive", apperrors.ErrInvalidRate)
	}

	now := time.Now()
	rate := domain.DailyRate{
		DailyRateID:        uuid.NewString(),
		CompanyID:          req.CompanyID,
		BaseCurrencyCode:   pair.BaseCurrencyCode,
		TargetCurrencyCode: pair.TargetCurrencyCode,
		RateDate:           req.RateDate,
		Rate:               req.Rate,
		Source:             domain.RateSourceManual,
		IsActive:           true,
		Notes:              req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	saved, err := s.rateRepo.UpsertRate(ctx, rate, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create manual rate: %w", err)
	}
	s.cache.Invalidate(req.CompanyID, pair, saved.RateDate)

	return saved, nil
}

// SyncProviderRates pulls current quotes from the external feed and stores
// new or changed ones as OFFICIAL rates for today. Per-currency failures are
// collected in the result rather than aborting the run.
func (s *DailyRateService) SyncProviderRates(ctx context.Context, companyID, actorUserID string, force bool) (*dto.SyncRatesResult, error) {
	result := &dto.SyncRatesResult{Timestamp: time.Now()}

	if force {
		if err := s.provider.Refresh(ctx); err != nil {
			slog.Warn("feed refresh failed, continuing with cached quotes", slog.String("error", err.Error()))
		}
	}

	today := time.Now()

	for _, code := range s.syncCurrencies {
		code = strings.ToUpper(code)
		if code == s.localCurrency {
			continue
		}
		pair := domain.NewCurrencyPair(s.localCurrency, code)

		quote, err := s.provider.GetRate(ctx, pair.BaseCurrencyCode, pair.TargetCurrencyCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				result.Skipped = append(result.Skipped, dto.SyncedRate{CurrencyCode: code, Reason: "not quoted by feed"})
				continue
			}
			result.Failed = append(result.Failed, dto.SyncedRate{CurrencyCode: code, Reason: err.Error()})
			result.TotalFailed++
			continue
		}
		if quote.LessThanOrEqual(decimal.Zero) {
			result.Failed = append(result.Failed, dto.SyncedRate{CurrencyCode: code, Reason: "feed returned non-positive rate"})
			result.TotalFailed++
			continue
		}

		action := "created"
		existing, err := s.rateRepo.GetRate(ctx, companyID, pair, today)
		if err == nil {
			if existing.Rate.Equal(quote) {
				result.Skipped = append(result.Skipped, dto.SyncedRate{CurrencyCode: code, Rate: quote, Reason: "rate unchanged"})
				continue
			}
			action = "superseded"
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			result.Failed = append(result.Failed, dto.SyncedRate{CurrencyCode: code, Reason: err.Error()})
			result.TotalFailed++
			continue
		}

		now := time.Now()
		rate := domain.DailyRate{
			DailyRateID:        uuid.NewString(),
			CompanyID:          companyID,
			BaseCurrencyCode:   pair.BaseCurrencyCode,
			TargetCurrencyCode: pair.TargetCurrencyCode,
			RateDate:           today,
			Rate:               quote,
			Source:             domain.RateSourceOfficial,
			IsActive:           true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorUserID,
			},
		}

		saved, err := s.rateRepo.UpsertRate(ctx, rate, false)
		if err != nil {
			result.Failed = append(result.Failed, dto.SyncedRate{CurrencyCode: code, Reason: err.Error()})
			result.TotalFailed++
			continue
		}
		s.cache.Invalidate(companyID, pair, saved.RateDate)

		result.Synced = append(result.Synced, dto.SyncedRate{CurrencyCode: code, Rate: saved.Rate, Action: action})
		result.TotalSynced++
	}

	slog.Info("feed sync completed",
		slog.String("company_id", companyID),
		slog.Int("synced", result.TotalSynced),
		slog.Int("failed", result.TotalFailed),
	)
	return result, nil
}

// GetRateForDate retrieves the active rate for the exact pair and date.
func (s *DailyRateService) GetRateForDate(ctx context.Context, companyID, fromCode, toCode string, rateDate time.Time) (*domain.DailyRate, error) {
	pair, err := validateCurrencyPair(fromCode, toCode)
	if err != nil {
		return nil, err
	}
	return s.rateRepo.GetRate(ctx, companyID, pair, rateDate)
}

// GetLatestRate retrieves the most recent active rate for the pair,
// irrespective of date. The returned RateDate signals staleness; it is never
// rewritten to "today".
func (s *DailyRateService) GetLatestRate(ctx context.Context, companyID, fromCode, toCode string) (*domain.DailyRate, error) {
	pair, err := validateCurrencyPair(fromCode, toCode)
	if err != nil {
		return nil, err
	}
	return s.rateRepo.LatestRate(ctx, companyID, pair)
}

// GetRateHistory lists active rates for the pair, newest first.
func (s *DailyRateService) GetRateHistory(ctx context.Context, companyID, fromCode, toCode string, filter ports.RateHistoryFilter) ([]domain.DailyRate, error) {
	pair, err := validateCurrencyPair(fromCode, toCode)
	if err != nil {
		return nil, err
	}
	return s.rateRepo.ListRateHistory(ctx, companyID, pair, filter)
}

// GetRateAudit lists every row ever written for the pair and date, including
// superseded ones.
func (s *DailyRateService) GetRateAudit(ctx context.Context, companyID, fromCode, toCode string, rateDate time.Time) ([]domain.DailyRate, error) {
	pair, err := validateCurrencyPair(fromCode, toCode)
	if err != nil {
		return nil, err
	}
	return s.rateRepo.ListRateAudit(ctx, companyID, pair, rateDate)
}

// ProviderStatus reports the external feed's availability.
func (s *DailyRateService) ProviderStatus(ctx context.Context) dto.ProviderStatusResponse {
	return dto.ProviderStatusResponse{
		Available:           s.provider.IsAvailable(ctx),
		LastUpdate:          s.provider.LastUpdate(),
		SupportedCurrencies: s.provider.SupportedCurrencies(),
	}
}
