package services_test

import (
	"context"
	"time"

	"github.com/facturave/facturave/internal/core/domain"
	"github.com/facturave/facturave/internal/core/ports"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock DailyRateRepository ---
type MockDailyRateRepository struct {
	mock.Mock
}

func (m *MockDailyRateRepository) GetRate(ctx context.Context, companyID string, pair domain.CurrencyPair, rateDate time.Time) (*domain.DailyRate, error) {
	args := m.Called(ctx, companyID, pair, rateDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyRate), args.Error(1)
}

func (m *MockDailyRateRepository) UpsertRate(ctx context.Context, rate domain.DailyRate, override bool) (*domain.DailyRate, error) {
	args := m.Called(ctx, rate, override)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyRate), args.Error(1)
}

func (m *MockDailyRateRepository) LatestRate(ctx context.Context, companyID string, pair domain.CurrencyPair) (*domain.DailyRate, error) {
	args := m.Called(ctx, companyID, pair)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyRate), args.Error(1)
}

func (m *MockDailyRateRepository) ListRateHistory(ctx context.Context, companyID string, pair domain.CurrencyPair, filter ports.RateHistoryFilter) ([]domain.DailyRate, error) {
	args := m.Called(ctx, companyID, pair, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyRate), args.Error(1)
}

func (m *MockDailyRateRepository) ListRateAudit(ctx context.Context, companyID string, pair domain.CurrencyPair, rateDate time.Time) ([]domain.DailyRate, error) {
	args := m.Called(ctx, companyID, pair, rateDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyRate), args.Error(1)
}

// --- Mock ExternalRateProvider ---
type MockExternalRateProvider struct {
	mock.Mock
}

func (m *MockExternalRateProvider) GetRate(ctx context.Context, fromCode, toCode string) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCode, toCode)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockExternalRateProvider) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockExternalRateProvider) IsAvailable(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockExternalRateProvider) LastUpdate() *time.Time {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*time.Time)
}

func (m *MockExternalRateProvider) SupportedCurrencies() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

// --- Mock RateCache ---
type MockRateCache struct {
	mock.Mock
}

func (m *MockRateCache) Get(companyID string, pair domain.CurrencyPair, rateDate time.Time) (*domain.ResolvedRate, bool) {
	args := m.Called(companyID, pair, rateDate)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.ResolvedRate), args.Bool(1)
}

func (m *MockRateCache) Put(companyID string, pair domain.CurrencyPair, rateDate time.Time, rate domain.ResolvedRate) {
	m.Called(companyID, pair, rateDate, rate)
}

func (m *MockRateCache) Invalidate(companyID string, pair domain.CurrencyPair, rateDate time.Time) {
	m.Called(companyID, pair, rateDate)
}

// --- Mock ReferencePriceRepository ---
type MockReferencePriceRepository struct {
	mock.Mock
}

func (m *MockReferencePriceRepository) GetReferencePrice(ctx context.Context, companyID, productID, currencyCode string) (*domain.ReferencePrice, error) {
	args := m.Called(ctx, companyID, productID, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReferencePrice), args.Error(1)
}

func (m *MockReferencePriceRepository) GetLegacyPrice(ctx context.Context, companyID, productID string) (*domain.ReferencePrice, error) {
	args := m.Called(ctx, companyID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReferencePrice), args.Error(1)
}
