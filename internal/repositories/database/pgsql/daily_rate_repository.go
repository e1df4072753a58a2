package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/facturave/facturave/internal/apperrors"
	"github.com/facturave/facturave/internal/core/domain"
	"github.com/facturave/facturave/internal/core/ports"
	"github.com/facturave/facturave/internal/models"
	"github.com/facturave/facturave/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dailyRateColumns = `
	daily_rate_id, company_id, base_currency_code, target_currency_code,
	rate_date, rate, source, is_active, notes, metadata,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxDailyRateRepository implements ports.DailyRateRepository using pgxpool.
type PgxDailyRateRepository struct {
	BaseRepository
}

func newPgxDailyRateRepository(db *pgxpool.Pool) *PgxDailyRateRepository {
	return &PgxDailyRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// NewPgxDailyRateRepository creates a new PgxDailyRateRepository.
func NewPgxDailyRateRepository(db *pgxpool.Pool) *PgxDailyRateRepository {
	return newPgxDailyRateRepository(db)
}

// normalizeRateDate truncates a timestamp to day granularity in UTC; rates are
// daily observations, never intraday.
func normalizeRateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetRate retrieves the active rate for the exact (company, pair, date).
func (r *PgxDailyRateRepository) GetRate(ctx context.Context, companyID string, pair domain.CurrencyPair, rateDate time.Time) (*domain.DailyRate, error) {
	query := `
		SELECT ` + dailyRateColumns + `
		FROM daily_rates
		WHERE company_id = $1 AND base_currency_code = $2 AND target_currency_code = $3
			AND rate_date = $4 AND is_active;
	`
	row := r.Pool.QueryRow(ctx, query,
		companyID, strings.ToUpper(pair.BaseCurrencyCode), strings.ToUpper(pair.TargetCurrencyCode),
		normalizeRateDate(rateDate),
	)
	return scanDailyRate(row)
}

// UpsertRate supersedes any active rate for the same (company, pair, date) and
// inserts the given rate as the new active row, in one transaction. A
// concurrent writer that wins the insert race is detected through the partial
// unique index; the losing call re-reads and returns the winning row, unless
// override is set, in which case the second attempt supersedes the winner.
func (r *PgxDailyRateRepository) UpsertRate(ctx context.Context, rate domain.DailyRate, override bool) (*domain.DailyRate, error) {
	base := strings.ToUpper(rate.BaseCurrencyCode)
	target := strings.ToUpper(rate.TargetCurrencyCode)
	if base == target {
		return nil, apperrors.NewValidationError("base and target currencies cannot be the same")
	}

	rate.BaseCurrencyCode = base
	rate.TargetCurrencyCode = target
	rate.RateDate = normalizeRateDate(rate.RateDate)
	rate.IsActive = true
	modelRate := mapping.ToModelDailyRate(rate)

	// One retry: the only recoverable failure is a unique violation from a
	// concurrent writer that inserted its active row between our UPDATE and
	// INSERT.
	for attempt := 0; attempt < 2; attempt++ {
		saved, err := r.trySupersede(ctx, modelRate)
		if err == nil {
			return saved, nil
		}
		if !isUniqueViolation(err) {
			return nil, apperrors.NewAppError(500, "failed to upsert daily rate", err)
		}
		if !override {
			// Lost the race: the winner's row is the active one, return it.
			winner, readErr := r.GetRate(ctx, rate.CompanyID, rate.Pair(), rate.RateDate)
			if readErr != nil {
				return nil, apperrors.NewAppError(500, "failed to re-read winning daily rate after conflict", readErr)
			}
			return winner, nil
		}
		// Override always wins: loop once more to supersede the winner.
	}
	return nil, apperrors.NewAppError(500, "failed to upsert daily rate after conflict retry", nil)
}

// trySupersede deactivates the current active row and inserts the new one
// inside a single transaction. Returns the raw insert error so the caller can
// inspect unique violations.
func (r *PgxDailyRateRepository) trySupersede(ctx context.Context, modelRate models.DailyRate) (*domain.DailyRate, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE daily_rates
		SET is_active = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE company_id = $3 AND base_currency_code = $4 AND target_currency_code = $5
			AND rate_date = $6 AND is_active`,
		modelRate.LastUpdatedAt, modelRate.LastUpdatedBy,
		modelRate.CompanyID, modelRate.BaseCurrencyCode, modelRate.TargetCurrencyCode,
		modelRate.RateDate,
	)
	if err != nil {
		_ = r.Rollback(ctx, tx)
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO daily_rates (
			daily_rate_id, company_id, base_currency_code, target_currency_code,
			rate_date, rate, source, is_active, notes, metadata,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		modelRate.DailyRateID, modelRate.CompanyID, modelRate.BaseCurrencyCode, modelRate.TargetCurrencyCode,
		modelRate.RateDate, modelRate.Rate, modelRate.Source, modelRate.IsActive, modelRate.Notes, nullableJSON(modelRate.Metadata),
		modelRate.CreatedAt, modelRate.CreatedBy, modelRate.LastUpdatedAt, modelRate.LastUpdatedBy,
	)
	if err != nil {
		_ = r.Rollback(ctx, tx)
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	saved := mapping.ToDomainDailyRate(modelRate)
	return &saved, nil
}

// LatestRate retrieves the most recent active rate for the pair, any date.
func (r *PgxDailyRateRepository) LatestRate(ctx context.Context, companyID string, pair domain.CurrencyPair) (*domain.DailyRate, error) {
	query := `
		SELECT ` + dailyRateColumns + `
		FROM daily_rates
		WHERE company_id = $1 AND base_currency_code = $2 AND target_currency_code = $3
			AND is_active
		ORDER BY rate_date DESC
		LIMIT 1;
	`
	row := r.Pool.QueryRow(ctx, query,
		companyID, strings.ToUpper(pair.BaseCurrencyCode), strings.ToUpper(pair.TargetCurrencyCode),
	)
	return scanDailyRate(row)
}

// ListRateHistory retrieves active rates for the pair ordered by date
// descending, optionally windowed.
func (r *PgxDailyRateRepository) ListRateHistory(ctx context.Context, companyID string, pair domain.CurrencyPair, filter ports.RateHistoryFilter) ([]domain.DailyRate, error) {
	query := `
		SELECT ` + dailyRateColumns + `
		FROM daily_rates
		WHERE company_id = $1 AND base_currency_code = $2 AND target_currency_code = $3
			AND is_active`
	args := []interface{}{
		companyID, strings.ToUpper(pair.BaseCurrencyCode), strings.ToUpper(pair.TargetCurrencyCode),
	}
	argNum := 4

	if !filter.StartDate.IsZero() {
		query += fmt.Sprintf(" AND rate_date >= $%d", argNum)
		args = append(args, normalizeRateDate(filter.StartDate))
		argNum++
	}
	if !filter.EndDate.IsZero() {
		query += fmt.Sprintf(" AND rate_date <= $%d", argNum)
		args = append(args, normalizeRateDate(filter.EndDate))
		argNum++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" ORDER BY rate_date DESC LIMIT $%d", argNum)
	args = append(args, limit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list rate history", err)
	}
	defer rows.Close()

	return collectDailyRates(rows)
}

// ListRateAudit retrieves every row ever written for (company, pair, date),
// superseded rows included, newest first.
func (r *PgxDailyRateRepository) ListRateAudit(ctx context.Context, companyID string, pair domain.CurrencyPair, rateDate time.Time) ([]domain.DailyRate, error) {
	query := `
		SELECT ` + dailyRateColumns + `
		FROM daily_rates
		WHERE company_id = $1 AND base_currency_code = $2 AND target_currency_code = $3
			AND rate_date = $4
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query,
		companyID, strings.ToUpper(pair.BaseCurrencyCode), strings.ToUpper(pair.TargetCurrencyCode),
		normalizeRateDate(rateDate),
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list rate audit trail", err)
	}
	defer rows.Close()

	return collectDailyRates(rows)
}

func scanDailyRate(row pgx.Row) (*domain.DailyRate, error) {
	var m models.DailyRate
	err := row.Scan(
		&m.DailyRateID, &m.CompanyID, &m.BaseCurrencyCode, &m.TargetCurrencyCode,
		&m.RateDate, &m.Rate, &m.Source, &m.IsActive, &m.Notes, &m.Metadata,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("daily rate not found")
		}
		return nil, apperrors.NewAppError(500, "failed to scan daily rate", err)
	}
	d := mapping.ToDomainDailyRate(m)
	return &d, nil
}

func collectDailyRates(rows pgx.Rows) ([]domain.DailyRate, error) {
	var rates []domain.DailyRate
	for rows.Next() {
		var m models.DailyRate
		err := rows.Scan(
			&m.DailyRateID, &m.CompanyID, &m.BaseCurrencyCode, &m.TargetCurrencyCode,
			&m.RateDate, &m.Rate, &m.Source, &m.IsActive, &m.Notes, &m.Metadata,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan daily rate", err)
		}
		rates = append(rates, mapping.ToDomainDailyRate(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating daily rates", err)
	}
	return rates, nil
}

// nullableJSON maps an empty metadata blob to NULL.
func nullableJSON(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}
