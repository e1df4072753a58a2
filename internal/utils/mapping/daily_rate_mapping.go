package mapping

import (
	"encoding/json"

	"github.com/facturave/facturave/internal/core/domain"
	"github.com/facturave/facturave/internal/models"
)

// ToModelDailyRate converts a domain DailyRate to a model DailyRate.
func ToModelDailyRate(d domain.DailyRate) models.DailyRate {
	var metadata []byte
	if len(d.Metadata) > 0 {
		metadata, _ = json.Marshal(d.Metadata)
	}
	return models.DailyRate{
		DailyRateID:        d.DailyRateID,
		CompanyID:          d.CompanyID,
		BaseCurrencyCode:   d.BaseCurrencyCode,
		TargetCurrencyCode: d.TargetCurrencyCode,
		RateDate:           d.RateDate,
		Rate:               d.Rate,
		Source:             string(d.Source),
		IsActive:           d.IsActive,
		Notes:              d.Notes,
		Metadata:           metadata,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// ToDomainDailyRate converts a model DailyRate to a domain DailyRate.
func ToDomainDailyRate(m models.DailyRate) domain.DailyRate {
	var metadata map[string]string
	if len(m.Metadata) > 0 {
		_ = json.Unmarshal(m.Metadata, &metadata)
	}
	return domain.DailyRate{
		DailyRateID:        m.DailyRateID,
		CompanyID:          m.CompanyID,
		BaseCurrencyCode:   m.BaseCurrencyCode,
		TargetCurrencyCode: m.TargetCurrencyCode,
		RateDate:           m.RateDate,
		Rate:               m.Rate,
		Source:             domain.RateSource(m.Source),
		IsActive:           m.IsActive,
		Notes:              m.Notes,
		Metadata:           metadata,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToDomainReferencePrice converts a model ReferencePrice to its domain form.
func ToDomainReferencePrice(m models.ReferencePrice, legacy bool) domain.ReferencePrice {
	return domain.ReferencePrice{
		ProductID:    m.ProductID,
		ProductName:  m.ProductName,
		Price:        m.Price,
		CurrencyCode: m.CurrencyCode,
		Legacy:       legacy,
	}
}
