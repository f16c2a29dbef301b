package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/tallybeam/tallybeam/internal/core/ports/repositories"
)

// NewRepositoryProvider builds every PostgreSQL-backed repository on one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		UserRepo:        newPgxUserRepository(dbPool),
	}
}
