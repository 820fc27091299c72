package services

import (
	"time"

	portsrepo "github.com/tillworks/pos_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/tillworks/pos_ledger_app/internal/core/ports/services"
)

// NewServiceContainer wires every service against the repository provider.
// The ledger service doubles as the engine dependency of the transfer and
// cash box services so all balance mutations flow through one code path.
func NewServiceContainer(repos portsrepo.RepositoryProvider, jwtSecret string, tokenTTL time.Duration) *portssvc.ServiceContainer {
	ledgerSvc := NewLedgerService(repos.AccountRepo, repos.LedgerRepo)
	userSvc := NewUserService(repos.UserRepo)

	return &portssvc.ServiceContainer{
		Ledger:    ledgerSvc,
		Transfer:  NewTransferService(repos.AccountRepo, repos.LedgerRepo, ledgerSvc),
		CashBox:   NewCashBoxService(repos.AccountRepo, repos.LedgerRepo, ledgerSvc, userSvc),
		MoneyBox:  NewMoneyBoxService(repos.AccountRepo, repos.ReportingRepo, userSvc),
		Reporting: NewReportingService(repos.AccountRepo, repos.ReportingRepo),
		User:      userSvc,
		Token:     NewTokenService(userSvc, jwtSecret, tokenTTL),
	}
}
