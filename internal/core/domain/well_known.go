package domain

// WellKnownAccount names an account role the posting workflows depend on.
type WellKnownAccount int

const (
	AccountsReceivable WellKnownAccount = iota
	SalesRevenue
	Checking
)

var wellKnownAccounts = map[WellKnownAccount]struct {
	name        string
	accountType AccountType
}{
	AccountsReceivable: {"Accounts Receivable", Asset},
	SalesRevenue:       {"Sales Revenue", Revenue},
	Checking:           {"Checking Account", Asset},
}

// AccountName is the chart-of-accounts name that fills this role.
func (w WellKnownAccount) AccountName() string {
	return wellKnownAccounts[w].name
}

// AccountType is the classification the account filling this role must have.
func (w WellKnownAccount) AccountType() AccountType {
	return wellKnownAccounts[w].accountType
}

// Matches reports whether acc can fill this role.
func (w WellKnownAccount) Matches(acc Account) bool {
	return acc.IsActive && acc.Name == w.AccountName() && acc.AccountType == w.AccountType()
}

func (w WellKnownAccount) String() string {
	return w.AccountName()
}
