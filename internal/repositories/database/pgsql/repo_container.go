package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/tillworks/pos_ledger_app/internal/core/ports/repositories"
)

// NewRepositoryProvider builds every pgsql repository over one shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   newPgxAccountRepository(dbPool),
		LedgerRepo:    newPgxLedgerRepository(dbPool),
		ReportingRepo: newPgxReportingRepository(dbPool),
		UserRepo:      newPgxUserRepository(dbPool),
	}
}
