package services

import (
	portsrepo "github.com/tallybeam/tallybeam/internal/core/ports/repositories"
	portssvc "github.com/tallybeam/tallybeam/internal/core/ports/services"
)

// Collaborators are the outbound adapters the services call. Any of them may
// be nil; the operations that need a missing one fail with an internal error.
type Collaborators struct {
	Extractor portssvc.StructuredExtractor
	Renderer  portssvc.InvoiceRenderer
	Exporter  portssvc.LedgerExporter
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, collab Collaborators, opts ...Option) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The chart and the balance engine are used by the posting workflows, so they come first.
	container.Chart = NewChartOfAccountsService(repos.AccountRepo, opts...)
	container.Balance = NewBalanceService(repos.AccountRepo, repos.TransactionRepo, opts...)

	container.Account = NewAccountService(repos.AccountRepo, opts...)
	container.Transaction = NewTransactionService(repos.AccountRepo, repos.TransactionRepo, container.Balance, opts...)
	container.Invoice = NewInvoiceService(
		repos.TransactionRepo,
		container.Chart,
		container.Transaction,
		container.Balance,
		collab.Renderer,
		opts...,
	)
	container.User = NewUserService(repos.UserRepo, opts...)
	container.Parse = NewParseService(collab.Extractor, opts...)
	container.Export = NewExportService(repos.AccountRepo, repos.TransactionRepo, collab.Exporter, opts...)

	return container
}
