package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tallybeam/tallybeam/internal/core/domain"
)

// SignedLineAmount returns the effect of a single line on an account of the given type.
//
// DEBIT to ASSET/EXPENSE and CREDIT to LIABILITY/EQUITY/REVENUE increase the balance.
// The opposite side decreases it.
func SignedLineAmount(line domain.TransactionLine, accountType domain.AccountType) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return line.Debit.Sub(line.Credit), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return line.Credit.Sub(line.Debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.AccountID)
	}
}

// AccountBalance sums the signed effect of every posted line referencing account.
// Transactions that are not posted are skipped.
func AccountBalance(account domain.Account, transactions []domain.Transaction) (decimal.Decimal, error) {
	balance := decimal.Zero
	for _, txn := range transactions {
		if !txn.IsPosted() {
			continue
		}
		for _, line := range txn.Lines {
			if line.AccountID != account.AccountID {
				continue
			}
			signed, err := SignedLineAmount(line, account.AccountType)
			if err != nil {
				return decimal.Zero, fmt.Errorf("transaction %s: %w", txn.TransactionID, err)
			}
			balance = balance.Add(signed)
		}
	}
	return balance, nil
}

// ValidateLine checks the amounts of a single line: both sides non-negative
// and at most one side non-zero.
func ValidateLine(line domain.TransactionLine) error {
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return fmt.Errorf("line for account %s has a negative amount", line.AccountID)
	}
	if line.Debit.IsPositive() && line.Credit.IsPositive() {
		return fmt.Errorf("line for account %s has both a debit and a credit", line.AccountID)
	}
	return nil
}
