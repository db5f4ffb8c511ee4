package reporting

import (
	"context"

	"github.com/vfg2006/ads-bridge/internal/domain"
	"github.com/vfg2006/ads-bridge/pkg/log"
	"github.com/vfg2006/ads-bridge/pkg/utils"
)

// PeriodComparisonRequest compara dois intervalos arbitrários de datas.
type PeriodComparisonRequest struct {
	MetaAccountIDs        []string `json:"meta_account_ids,omitempty"`
	GoogleAccountIDs      []string `json:"google_account_ids,omitempty"`
	CurrentStart          string   `json:"current_start"`
	CurrentEnd            string   `json:"current_end"`
	PreviousStart         string   `json:"previous_start"`
	PreviousEnd           string   `json:"previous_end"`
	GoogleLoginCustomerID string   `json:"google_login_customer_id,omitempty"`
	IncludeRaw            bool     `json:"include_raw,omitempty"`
}

// PeriodSnapshot é o consolidado de um dos dois intervalos.
type PeriodSnapshot struct {
	DateStart string              `json:"date_start"`
	DateEnd   string              `json:"date_end"`
	Totals    domain.MetricTotals `json:"totals"`
	RowCount  int                 `json:"row_count"`
}

// MetricDelta é a variação de uma métrica entre os dois períodos. Pct fica
// nulo quando a base anterior é zero.
type MetricDelta struct {
	Current  float64  `json:"current"`
	Previous float64  `json:"previous"`
	Absolute float64  `json:"absolute"`
	Pct      *float64 `json:"pct"`
}

// PeriodComparisonReport é o relatório de comparação entre períodos.
type PeriodComparisonReport struct {
	Status         domain.Status          `json:"status"`
	NormalizedUnit string                 `json:"normalized_unit"`
	Current        PeriodSnapshot         `json:"current"`
	Previous       PeriodSnapshot         `json:"previous"`
	Deltas         map[string]MetricDelta `json:"deltas"`
	Errors         []domain.ReportError   `json:"errors,omitempty"`
	Diagnostics    Diagnostics            `json:"diagnostics,omitempty"`
	RawResults     map[string]any         `json:"platform_results,omitempty"`
}

// GetPeriodComparison consolida os dois intervalos e calcula as variações
// absolutas e percentuais das métricas principais.
func (s *Service) GetPeriodComparison(ctx context.Context, req PeriodComparisonRequest) (*PeriodComparisonReport, error) {
	report := &PeriodComparisonReport{
		NormalizedUnit: NormalizedUnit,
		Current:        PeriodSnapshot{DateStart: req.CurrentStart, DateEnd: req.CurrentEnd},
		Previous:       PeriodSnapshot{DateStart: req.PreviousStart, DateEnd: req.PreviousEnd},
		Deltas:         map[string]MetricDelta{},
	}

	currentRange := domain.DateRange{Start: req.CurrentStart, End: req.CurrentEnd}
	previousRange := domain.DateRange{Start: req.PreviousStart, End: req.PreviousEnd}
	for _, dr := range []domain.DateRange{currentRange, previousRange} {
		if err := dr.Validate(); err != nil {
			report.Status = domain.StatusError
			report.Errors = []domain.ReportError{domain.ValidationError(err.Error())}
			return report, nil
		}
	}

	current, err := s.periodSnapshot(ctx, req, currentRange, "current")
	if err != nil {
		return nil, err
	}
	previous, err := s.periodSnapshot(ctx, req, previousRange, "previous")
	if err != nil {
		return nil, err
	}

	report.Current.Totals = current.totals
	report.Current.RowCount = current.rowCount
	report.Previous.Totals = previous.totals
	report.Previous.RowCount = previous.rowCount
	report.Errors = append(current.errors, previous.errors...)
	report.Deltas = buildDeltas(current.totals, previous.totals)

	outcomes := append(current.outcomes, previous.outcomes...)
	report.Diagnostics = buildDiagnostics(outcomes)
	if req.IncludeRaw {
		report.RawResults = rawResults(outcomes)
	}

	hasRows := current.rowCount > 0 || previous.rowCount > 0
	report.Status = domain.StatusFor(hasRows, len(report.Errors) > 0)

	log.ForContext(ctx).WithFields(log.Fields{
		"current_rows":  current.rowCount,
		"previous_rows": previous.rowCount,
		"errors":        len(report.Errors),
		"status":        report.Status,
	}).Info("reporting: period comparison finished")

	return report, nil
}

type periodResult struct {
	totals   domain.MetricTotals
	rowCount int
	errors   []domain.ReportError
	outcomes []outcome
}

func (s *Service) periodSnapshot(ctx context.Context, req PeriodComparisonRequest, dateRange domain.DateRange, label string) (*periodResult, error) {
	calls := insightCalls(req.MetaAccountIDs, req.GoogleAccountIDs,
		func(accountID string) map[string]any {
			return map[string]any{
				"account_id": accountID,
				"time_range": map[string]any{"since": dateRange.Start, "until": dateRange.End},
				"level":      "account",
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
				},
				dateCondition(dateRange),
				req.GoogleLoginCustomerID,
			)
		},
	)

	// O group marca o período de cada chamada para os payloads brutos não
	// colidirem entre os dois intervalos da mesma conta.
	for i := range calls {
		calls[i].group = label
	}

	outcomes, err := s.gather(ctx, calls)
	if err != nil {
		return nil, err
	}

	rows, reportErrors := collectRows(ctx, outcomes)
	for i := range reportErrors {
		reportErrors[i].Source = label
	}

	return &periodResult{
		totals:   domain.SumRows(rows),
		rowCount: len(rows),
		errors:   reportErrors,
		outcomes: outcomes,
	}, nil
}

func buildDeltas(current, previous domain.MetricTotals) map[string]MetricDelta {
	return map[string]MetricDelta{
		"impressions":  metricDelta(float64(current.Impressions), float64(previous.Impressions)),
		"clicks":       metricDelta(float64(current.Clicks), float64(previous.Clicks)),
		"spend_micros": metricDelta(float64(current.SpendMicros), float64(previous.SpendMicros)),
		"conversions":  metricDelta(current.Conversions, previous.Conversions),
		"ctr":          metricDelta(current.CTR, previous.CTR),
		"cpc_micros":   metricDelta(float64(current.CPCMicros), float64(previous.CPCMicros)),
	}
}

func metricDelta(current, previous float64) MetricDelta {
	delta := MetricDelta{
		Current:  current,
		Previous: previous,
		Absolute: current - previous,
	}
	if previous != 0 {
		pct := utils.RoundWithTwoDecimalPlace((current - previous) / previous * 100)
		delta.Pct = &pct
	}
	return delta
}
