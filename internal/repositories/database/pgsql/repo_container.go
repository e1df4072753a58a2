package pgsql

import (
	"github.com/facturave/facturave/internal/core/ports"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositories constructs all pgsql-backed repositories over a shared pool.
func NewRepositories(dbPool *pgxpool.Pool) *ports.RepositoryProvider {
	return &ports.RepositoryProvider{
		DailyRateRepo:      newPgxDailyRateRepository(dbPool),
		ReferencePriceRepo: newPgxReferencePriceRepository(dbPool),
	}
}
