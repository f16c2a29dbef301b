package services

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tallybeam/tallybeam/internal/apperrors"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	portsrepo "github.com/tallybeam/tallybeam/internal/core/ports/repositories"
	portssvc "github.com/tallybeam/tallybeam/internal/core/ports/services"
	"gopkg.in/yaml.v3"
)

//go:embed default_chart.yaml
var defaultChartYAML []byte

// ChartEntry is one account of the default chart.
type ChartEntry struct {
	Number      string             `yaml:"number"`
	Name        string             `yaml:"name"`
	Type        domain.AccountType `yaml:"type"`
	Category    string             `yaml:"category"`
	Subcategory string             `yaml:"subcategory"`
	Description string             `yaml:"description"`
}

var loadDefaultChart = sync.OnceValues(func() ([]ChartEntry, error) {
	var file struct {
		Accounts []ChartEntry `yaml:"accounts"`
	}
	if err := yaml.Unmarshal(defaultChartYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse default chart of accounts: %w", err)
	}
	for _, e := range file.Accounts {
		if !e.Type.IsValid() {
			return nil, fmt.Errorf("default chart account %s has invalid type %q", e.Number, e.Type)
		}
	}
	return file.Accounts, nil
})

// DefaultChart returns the accounts seeded for a user with an empty chart, in seeding order.
func DefaultChart() ([]ChartEntry, error) {
	entries, err := loadDefaultChart()
	if err != nil {
		return nil, err
	}
	out := make([]ChartEntry, len(entries))
	copy(out, entries)
	return out, nil
}

type chartOfAccountsService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewChartOfAccountsService creates the chart initializer and well-known account resolver.
func NewChartOfAccountsService(accountRepo portsrepo.AccountRepositoryFacade, opts ...Option) portssvc.ChartOfAccountsSvc {
	return &chartOfAccountsService{
		BaseService: applyOptions(opts).base(),
		accountRepo: accountRepo,
	}
}

var _ portssvc.ChartOfAccountsSvc = (*chartOfAccountsService)(nil)

func (s *chartOfAccountsService) SetupDefaultChartOfAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	existing, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountFilter{UserID: userID})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts before seeding", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to check existing accounts: %w", err)
	}
	if len(existing) > 0 {
		s.LogDebug(ctx, "Chart of accounts already present, skipping seed",
			slog.String("user_id", userID), slog.Int("account_count", len(existing)))
		return existing, nil
	}

	entries, err := DefaultChart()
	if err != nil {
		return nil, err
	}

	now := s.Now()
	created := make([]domain.Account, 0, len(entries))
	for _, e := range entries {
		account := domain.Account{
			AccountID:     uuid.NewString(),
			UserID:        userID,
			AccountNumber: e.Number,
			Name:          e.Name,
			AccountType:   e.Type,
			Category:      e.Category,
			Subcategory:   e.Subcategory,
			Description:   e.Description,
			Balance:       decimal.Zero,
			IsActive:      true,
			IsDefault:     true, // CreateAccount leaves this false
			AuditFields:   domain.NewAuditFields(userID, now),
		}
		// No rollback: accounts saved before a failure stay in place and the
		// next call returns them as the existing chart.
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			s.LogError(ctx, err, "Failed to save default account",
				slog.String("user_id", userID), slog.String("account_number", e.Number))
			return nil, fmt.Errorf("failed to create default account %s: %w", e.Number, err)
		}
		created = append(created, account)
	}

	s.LogInfo(ctx, "Default chart of accounts created",
		slog.String("user_id", userID), slog.Int("account_count", len(created)))
	return created, nil
}

func (s *chartOfAccountsService) ResolveWellKnownAccounts(ctx context.Context, userID string, roles ...domain.WellKnownAccount) (map[domain.WellKnownAccount]domain.Account, error) {
	found, err := s.findRoles(ctx, userID, roles)
	if err != nil {
		return nil, err
	}
	if len(found) == len(roles) {
		return found, nil
	}

	if _, err := s.SetupDefaultChartOfAccounts(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to seed chart of accounts: %w", err)
	}
	found, err = s.findRoles(ctx, userID, roles)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, role := range roles {
		if _, ok := found[role]; !ok {
			missing = append(missing, role.AccountName())
		}
	}
	if len(missing) > 0 {
		s.LogWarn(ctx, "Required accounts missing after seeding",
			slog.String("user_id", userID), slog.String("missing", strings.Join(missing, ", ")))
		return nil, fmt.Errorf("%w: %s", apperrors.ErrRequiredAccountsNotFound, strings.Join(missing, ", "))
	}
	return found, nil
}

func (s *chartOfAccountsService) findRoles(ctx context.Context, userID string, roles []domain.WellKnownAccount) (map[domain.WellKnownAccount]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountFilter{UserID: userID, ActiveOnly: true})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	found := make(map[domain.WellKnownAccount]domain.Account, len(roles))
	for _, role := range roles {
		for _, acc := range accounts {
			if role.Matches(acc) {
				found[role] = acc
				break
			}
		}
	}
	return found, nil
}
