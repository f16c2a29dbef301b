package services

// ServiceContainer holds instances of all the application services.
// Handlers and CLI commands reach every operation through it.
type ServiceContainer struct {
	Chart       ChartOfAccountsSvc
	Account     AccountSvcFacade
	Balance     BalanceSvc
	Transaction TransactionSvcFacade
	Invoice     InvoiceSvcFacade
	User        UserSvcFacade
	Parse       ParseSvc
	Export      ExportSvc
}
