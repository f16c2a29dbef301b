package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Both the PostgreSQL and the bbolt stores build one.
type RepositoryProvider struct {
	AccountRepo     AccountRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	UserRepo        UserRepositoryFacade
}
