package reporting

import (
	"context"
	"sort"

	"github.com/vfg2006/ads-bridge/internal/domain"
	"github.com/vfg2006/ads-bridge/pkg/log"
)

// TrendsRequest parametriza a série diária unificada.
type TrendsRequest struct {
	MetaAccountIDs        []string `json:"meta_account_ids,omitempty"`
	GoogleAccountIDs      []string `json:"google_account_ids,omitempty"`
	DateStart             string   `json:"date_start"`
	DateEnd               string   `json:"date_end"`
	GoogleLoginCustomerID string   `json:"google_login_customer_id,omitempty"`
	IncludeRaw            bool     `json:"include_raw,omitempty"`
}

// DailyTrendRow é o rollup de um dia, com as duas plataformas lado a lado.
type DailyTrendRow struct {
	Date     string              `json:"date"`
	Meta     domain.MetricTotals `json:"meta"`
	Google   domain.MetricTotals `json:"google"`
	Combined domain.MetricTotals `json:"combined"`
}

// TrendsReport é a série temporal dia a dia das duas plataformas.
type TrendsReport struct {
	Status         domain.Status        `json:"status"`
	NormalizedUnit string               `json:"normalized_unit"`
	DateStart      string               `json:"date_start"`
	DateEnd        string               `json:"date_end"`
	Days           []DailyTrendRow      `json:"days"`
	Errors         []domain.ReportError `json:"errors,omitempty"`
	Diagnostics    Diagnostics          `json:"diagnostics,omitempty"`
	RawResults     map[string]any       `json:"platform_results,omitempty"`
}

// CompareDailyTrends devolve a evolução diária de impressões, cliques, gasto
// e conversões, por plataforma e combinada.
func (s *Service) CompareDailyTrends(ctx context.Context, req TrendsRequest) (*TrendsReport, error) {
	report := &TrendsReport{
		NormalizedUnit: NormalizedUnit,
		DateStart:      req.DateStart,
		DateEnd:        req.DateEnd,
		Days:           []DailyTrendRow{},
	}

	dateRange := domain.DateRange{Start: req.DateStart, End: req.DateEnd}
	if err := dateRange.Validate(); err != nil {
		report.Status = domain.StatusError
		report.Errors = []domain.ReportError{domain.ValidationError(err.Error())}
		return report, nil
	}

	calls := insightCalls(req.MetaAccountIDs, req.GoogleAccountIDs,
		func(accountID string) map[string]any {
			return map[string]any{
				"account_id":     accountID,
				"time_range":     map[string]any{"since": req.DateStart, "until": req.DateEnd},
				"level":          "account",
				"time_increment": 1,
			}
		},
		func(accountID string) map[string]any {
			return googleSearchArgs(
				accountID,
				"customer",
				[]string{
					"customer.id",
					"customer.descriptive_name",
					"metrics.impressions",
					"metrics.clicks",
					"metrics.cost_micros",
					"metrics.conversions",
					"metrics.conversions_value",
					"segments.date",
				},
				dateCondition(dateRange),
				req.GoogleLoginCustomerID,
			)
		},
	)

	outcomes, err := s.gather(ctx, calls)
	if err != nil {
		return nil, err
	}

	rows, reportErrors := collectRows(ctx, outcomes)
	report.Errors = reportErrors
	report.Days = bucketByDay(rows)
	report.Status = domain.StatusFor(len(report.Days) > 0, len(reportErrors) > 0)
	report.Diagnostics = buildDiagnostics(outcomes)
	if req.IncludeRaw {
		report.RawResults = rawResults(outcomes)
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"days":   len(report.Days),
		"errors": len(report.Errors),
		"status": report.Status,
	}).Info("reporting: daily trends finished")

	return report, nil
}

func bucketByDay(rows []domain.MetricRow) []DailyTrendRow {
	byDay := map[string][]domain.MetricRow{}
	for _, row := range rows {
		if row.DateStart == "" {
			continue
		}
		byDay[row.DateStart] = append(byDay[row.DateStart], row)
	}

	dates := make([]string, 0, len(byDay))
	for date := range byDay {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	out := make([]DailyTrendRow, 0, len(dates))
	for _, date := range dates {
		dayRows := byDay[date]
		out = append(out, DailyTrendRow{
			Date:     date,
			Meta:     domain.SumRows(filterByPlatform(dayRows, domain.PlatformMeta)),
			Google:   domain.SumRows(filterByPlatform(dayRows, domain.PlatformGoogle)),
			Combined: domain.SumRows(dayRows),
		})
	}
	return out
}
