package services_test

import (
	"testing"

	"github.com/facturave/facturave/internal/apperrors"
	"github.com/facturave/facturave/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TaxServiceTestSuite struct {
	suite.Suite
	service *services.TaxService
}

func (suite *TaxServiceTestSuite) SetupTest() {
	suite.service = services.NewTaxService("VES", []string{"efectivo", "cash"})
}

func (suite *TaxServiceTestSuite) TestComputeTaxes_CascadeWithSurcharge() {
	base := decimal.RequireFromString("1000.00")
	vatPercent := decimal.RequireFromString("16")
	surchargePercent := decimal.RequireFromString("3")

	breakdown, err := suite.service.ComputeTaxes(base, vatPercent, true, surchargePercent)

	suite.Require().NoError(err)
	suite.True(breakdown.VAT.Amount.Equal(decimal.RequireFromString("160.00")), "VAT was %s", breakdown.VAT.Amount)
	// Surcharge applies on the tax-inclusive amount, 1160.00, not on 1000.00.
	suite.True(breakdown.Surcharge.BaseAmount.Equal(decimal.RequireFromString("1160.00")))
	suite.True(breakdown.Surcharge.Amount.Equal(decimal.RequireFromString("34.80")), "surcharge was %s", breakdown.Surcharge.Amount)
	suite.False(breakdown.Surcharge.Exempt)
	suite.True(breakdown.Total.Equal(decimal.RequireFromString("1194.80")), "total was %s", breakdown.Total)
}

func (suite *TaxServiceTestSuite) TestComputeTaxes_SurchargeNotApplicable() {
	base := decimal.RequireFromString("1000.00")

	breakdown, err := suite.service.ComputeTaxes(base, decimal.RequireFromString("16"), false, decimal.RequireFromString("3"))

	suite.Require().NoError(err)
	suite.True(breakdown.Surcharge.Amount.IsZero())
	suite.True(breakdown.Surcharge.Exempt)
	suite.True(breakdown.Total.Equal(decimal.RequireFromString("1160.00")))
}

func (suite *TaxServiceTestSuite) TestComputeTaxes_RoundsHalfUpPerStage() {
	// 123.45 * 16% = 19.752, rounds to 19.75; surcharge base 143.20;
	// 143.20 * 3% = 4.296, rounds to 4.30.
	base := decimal.RequireFromString("123.45")

	breakdown, err := suite.service.ComputeTaxes(base, decimal.RequireFromString("16"), true, decimal.RequireFromString("3"))

	suite.Require().NoError(err)
	suite.True(breakdown.VAT.Amount.Equal(decimal.RequireFromString("19.75")), "VAT was %s", breakdown.VAT.Amount)
	suite.True(breakdown.Surcharge.Amount.Equal(decimal.RequireFromString("4.30")), "surcharge was %s", breakdown.Surcharge.Amount)
	suite.True(breakdown.Total.Equal(decimal.RequireFromString("147.50")), "total was %s", breakdown.Total)
}

func (suite *TaxServiceTestSuite) TestComputeTaxes_ZeroBase() {
	breakdown, err := suite.service.ComputeTaxes(decimal.Zero, decimal.RequireFromString("16"), true, decimal.RequireFromString("3"))

	suite.Require().NoError(err)
	suite.True(breakdown.VAT.Amount.IsZero())
	suite.True(breakdown.Surcharge.Amount.IsZero())
	suite.True(breakdown.Total.IsZero())
}

func (suite *TaxServiceTestSuite) TestComputeTaxes_NegativeBaseRejected() {
	_, err := suite.service.ComputeTaxes(decimal.RequireFromString("-1"), decimal.RequireFromString("16"), true, decimal.RequireFromString("3"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TaxServiceTestSuite) TestSurchargeApplicable_LocalCurrencyExempt() {
	suite.False(suite.service.SurchargeApplicable("VES", "transferencia"))
	suite.False(suite.service.SurchargeApplicable("ves", "zelle"))
}

func (suite *TaxServiceTestSuite) TestSurchargeApplicable_ExemptPaymentMethod() {
	suite.False(suite.service.SurchargeApplicable("USD", "efectivo"))
	suite.False(suite.service.SurchargeApplicable("USD", "Cash"))
	suite.False(suite.service.SurchargeApplicable("USD", " efectivo "))
}

func (suite *TaxServiceTestSuite) TestSurchargeApplicable_ForeignSettlement() {
	suite.True(suite.service.SurchargeApplicable("USD", "zelle"))
	suite.True(suite.service.SurchargeApplicable("EUR", "transferencia"))
}

func TestTaxServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaxServiceTestSuite))
}
