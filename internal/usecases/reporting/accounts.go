package reporting

import (
	"context"

	"github.com/vfg2006/ads-bridge/infrastructure/integrator/google"
	"github.com/vfg2006/ads-bridge/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-bridge/internal/domain"
	"github.com/vfg2006/ads-bridge/pkg/log"
)

// AccountsReport é o inventário unificado de contas acessíveis.
type AccountsReport struct {
	Status     domain.Status        `json:"status"`
	Accounts   []domain.Account     `json:"accounts"`
	Total      int                  `json:"total"`
	ByPlatform map[string]int       `json:"by_platform"`
	Errors     []domain.ReportError `json:"errors,omitempty"`
}

// CompareAccounts lista as contas acessíveis nas duas plataformas, contas
// Meta primeiro.
func (s *Service) CompareAccounts(ctx context.Context) (*AccountsReport, error) {
	report := &AccountsReport{
		Accounts:   []domain.Account{},
		ByPlatform: map[string]int{},
	}

	calls := []call{
		{platform: domain.PlatformMeta, tool: "get_ad_accounts", args: map[string]any{}},
		{platform: domain.PlatformGoogle, tool: "list_accessible_accounts", args: map[string]any{}},
	}

	outcomes, err := s.gather(ctx, calls)
	if err != nil {
		return nil, err
	}

	for _, o := range outcomes {
		if o.failure != nil {
			report.Errors = append(report.Errors, *o.failure)
			continue
		}
		if o.platform == domain.PlatformGoogle {
			report.Accounts = append(report.Accounts, google.NormalizeAccounts(o.payload)...)
		} else {
			report.Accounts = append(report.Accounts, meta.NormalizeAccounts(o.payload)...)
		}
	}

	report.Total = len(report.Accounts)
	for _, account := range report.Accounts {
		report.ByPlatform[string(account.Platform)]++
	}
	report.Status = domain.StatusFor(report.Total > 0, len(report.Errors) > 0)

	log.ForContext(ctx).WithFields(log.Fields{
		"accounts": report.Total,
		"errors":   len(report.Errors),
		"status":   report.Status,
	}).Info("reporting: account comparison finished")

	return report, nil
}
