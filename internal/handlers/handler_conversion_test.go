package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/facturave/facturave/internal/apperrors"
	"github.com/facturave/facturave/internal/core/domain"
	"github.com/facturave/facturave/internal/core/ports"
	portssvc "github.com/facturave/facturave/internal/core/ports/services"
	"github.com/facturave/facturave/internal/dto"
	"github.com/facturave/facturave/internal/handlers"
	"github.com/facturave/facturave/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateResolverService ---
type MockRateResolverService struct {
	mock.Mock
}

func (m *MockRateResolverService) Resolve(ctx context.Context, companyID, fromCode, toCode string, rateDate time.Time, manual *dto.ManualRateOverride, actorUserID string) (*domain.ResolvedRate, error) {
	args := m.Called(ctx, companyID, fromCode, toCode, rateDate, manual, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResolvedRate), args.Error(1)
}

func (m *MockRateResolverService) Convert(ctx context.Context, req dto.ConvertRequest, actorUserID string) (*domain.ConversionResult, error) {
	args := m.Called(ctx, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversionResult), args.Error(1)
}

var _ portssvc.RateResolverSvcFacade = (*MockRateResolverService)(nil)

// --- Mock DailyRateService ---
type MockDailyRateService struct {
	mock.Mock
}

func (m *MockDailyRateService) GetRateForDate(ctx context.Context, companyID, fromCode, toCode string, rateDate time.Time) (*domain.DailyRate, error) {
	args := m.Called(ctx, companyID, fromCode, toCode, rateDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyRate), args.Error(1)
}

func (m *MockDailyRateService) GetLatestRate(ctx context.Context, companyID, fromCode, toCode string) (*domain.DailyRate, error) {
	args := m.Called(ctx, companyID, fromCode, toCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyRate), args.Error(1)
}

func (m *MockDailyRateService) GetRateHistory(ctx context.Context, companyID, fromCode, toCode string, filter ports.RateHistoryFilter) ([]domain.DailyRate, error) {
	args := m.Called(ctx, companyID, fromCode, toCode, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyRate), args.Error(1)
}

func (m *MockDailyRateService) GetRateAudit(ctx context.Context, companyID, fromCode, toCode string, rateDate time.Time) ([]domain.DailyRate, error) {
	args := m.Called(ctx, companyID, fromCode, toCode, rateDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyRate), args.Error(1)
}

func (m *MockDailyRateService) ProviderStatus(ctx context.Context) dto.ProviderStatusResponse {
	args := m.Called(ctx)
	return args.Get(0).(dto.ProviderStatusResponse)
}

func (m *MockDailyRateService) CreateManualRate(ctx context.Context, req dto.CreateManualRateRequest, creatorUserID string) (*domain.DailyRate, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyRate), args.Error(1)
}

func (m *MockDailyRateService) SyncProviderRates(ctx context.Context, companyID, actorUserID string, force bool) (*dto.SyncRatesResult, error) {
	args := m.Called(ctx, companyID, actorUserID, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SyncRatesResult), args.Error(1)
}

var _ portssvc.DailyRateSvcFacade = (*MockDailyRateService)(nil)

// --- Mock InvoiceCalculationService ---
type MockInvoiceCalculationService struct {
	mock.Mock
}

func (m *MockInvoiceCalculationService) ComputeInvoice(ctx context.Context, req dto.ComputeInvoiceRequest, actorUserID string) (*domain.InvoiceComputation, error) {
	args := m.Called(ctx, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceComputation), args.Error(1)
}

var _ portssvc.InvoiceCalculationSvcFacade = (*MockInvoiceCalculationService)(nil)

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockResolver *MockRateResolverService
	mockRates    *MockDailyRateService
	mockInvoices *MockInvoiceCalculationService
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.mockResolver = new(MockRateResolverService)
	suite.mockRates = new(MockDailyRateService)
	suite.mockInvoices = new(MockInvoiceCalculationService)

	cfg := &config.Config{SyncRateLimit: "10-H"}
	services := &portssvc.ServiceContainer{
		DailyRate:          suite.mockRates,
		RateResolver:       suite.mockResolver,
		InvoiceCalculation: suite.mockInvoices,
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, services)
}

func (suite *HandlerTestSuite) postJSON(path string, payload any) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	suite.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) TestHealth() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestConvert_Success() {
	result := &domain.ConversionResult{
		ConvertedAmount: decimal.RequireFromString("3652.00"),
		Rate:            decimal.RequireFromString("36.52"),
		RateDate:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Source:          domain.RateSourceOfficial,
		InverseRate:     decimal.RequireFromString("0.02738226"),
	}

	suite.mockResolver.On("Convert", mock.Anything, mock.MatchedBy(func(r dto.ConvertRequest) bool {
		return r.CompanyID == "company-1" && r.FromCurrencyCode == "USD" && r.ToCurrencyCode == "VES"
	}), "user-1").Return(result, nil).Once()

	w := suite.postJSON("/api/v1/conversion", gin.H{
		"companyID":        "company-1",
		"amount":           "100.00",
		"fromCurrencyCode": "USD",
		"toCurrencyCode":   "VES",
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ConversionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.ConvertedAmount.Equal(result.ConvertedAmount))
	suite.mockResolver.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestConvert_RateNotAvailable() {
	suite.mockResolver.On("Convert", mock.Anything, mock.AnythingOfType("dto.ConvertRequest"), "user-1").
		Return(nil, apperrors.ErrRateNotAvailable).Once()

	w := suite.postJSON("/api/v1/conversion", gin.H{
		"companyID":        "company-1",
		"amount":           "100.00",
		"fromCurrencyCode": "USD",
		"toCurrencyCode":   "VES",
	})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlerTestSuite) TestConvert_BadPayload() {
	w := suite.postJSON("/api/v1/conversion", gin.H{
		"companyID": "company-1",
		// missing amount and currency codes
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockResolver.AssertNotCalled(suite.T(), "Convert", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateManualRate_Created() {
	saved := &domain.DailyRate{
		DailyRateID:        "rate-1",
		CompanyID:          "company-1",
		BaseCurrencyCode:   "USD",
		TargetCurrencyCode: "VES",
		RateDate:           time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Rate:               decimal.RequireFromString("36.52"),
		Source:             domain.RateSourceManual,
		IsActive:           true,
		Notes:              "board approved",
	}

	suite.mockRates.On("CreateManualRate", mock.Anything, mock.MatchedBy(func(r dto.CreateManualRateRequest) bool {
		return r.CompanyID == "company-1" && r.Notes == "board approved"
	}), "user-1").Return(saved, nil).Once()

	w := suite.postJSON("/api/v1/rates/manual", gin.H{
		"companyID":        "company-1",
		"fromCurrencyCode": "USD",
		"toCurrencyCode":   "VES",
		"rate":             "36.52",
		"rateDate":         "2025-03-10T00:00:00Z",
		"notes":            "board approved",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.DailyRateResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("rate-1", resp.DailyRateID)
	suite.Equal(domain.RateSourceManual, resp.Source)
}

func (suite *HandlerTestSuite) TestCreateManualRate_MissingNotesRejected() {
	w := suite.postJSON("/api/v1/rates/manual", gin.H{
		"companyID":        "company-1",
		"fromCurrencyCode": "USD",
		"toCurrencyCode":   "VES",
		"rate":             "36.52",
		"rateDate":         "2025-03-10T00:00:00Z",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRates.AssertNotCalled(suite.T(), "CreateManualRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestPreviewInvoice_MissingPrice() {
	suite.mockInvoices.On("ComputeInvoice", mock.Anything, mock.AnythingOfType("dto.ComputeInvoiceRequest"), "user-1").
		Return(nil, apperrors.ErrReferencePriceMissing).Once()

	w := suite.postJSON("/api/v1/invoices/preview", gin.H{
		"companyID":     "company-1",
		"paymentMethod": "transferencia",
		"lines": []gin.H{
			{"productID": "prod-1", "quantity": "1"},
		},
	})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlerTestSuite) TestSyncRates_RequiresCompanyID() {
	w := suite.postJSON("/api/v1/rates/sync", gin.H{})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRates.AssertNotCalled(suite.T(), "SyncProviderRates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
