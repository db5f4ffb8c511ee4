package reporting

import (
	"context"
	"fmt"

	"github.com/vfg2006/ads-bridge/internal/domain"
	"github.com/vfg2006/ads-bridge/pkg/log"
	"github.com/vfg2006/ads-bridge/pkg/utils"
)

var (
	allowedAggregations = []string{"by_account", "by_platform", "summary", "top_campaigns", "total"}
	allowedLevels       = []string{"account", "campaign", "ad"}
	allowedSortMetrics  = []string{"clicks", "conversions", "impressions", "spend"}
)

// PerformanceRequest parametriza a visão unificada de performance.
type PerformanceRequest struct {
	MetaAccountIDs        []string `json:"meta_account_ids,omitempty"`
	GoogleAccountIDs      []string `json:"google_account_ids,omitempty"`
	DateStart             string   `json:"date_start"`
	DateEnd               string   `json:"date_end"`
	GoogleLoginCustomerID string   `json:"google_login_customer_id,omitempty"`
	Aggregation           string   `json:"aggregation,omitempty"`
	Level                 string   `json:"level,omitempty"`
	SortBy                string   `json:"sort_by,omitempty"`
	Limit                 int      `json:"limit,omitempty"`
	IncludeRaw            bool     `json:"include_raw,omitempty"`
}

func (r *PerformanceRequest) applyDefaults() {
	if r.Aggregation == "" {
		r.Aggregation = "by_platform"
	}
	if r.Level == "" {
		r.Level = "campaign"
	}
	if r.SortBy == "" {
		r.SortBy = "spend"
	}
	if r.Limit <= 0 {
		r.Limit = 10
	}
}

func (r *PerformanceRequest) validate() error {
	if err := (domain.DateRange{Start: r.DateStart, End: r.DateEnd}).Validate(); err != nil {
		return err
	}
	if !contains(allowedAggregations, r.Aggregation) {
		return fmt.Errorf("aggregation deve ser um de %v", allowedAggregations)
	}
	if !contains(allowedLevels, r.Level) {
		return fmt.Errorf("level deve ser um de %v", allowedLevels)
	}
	if !contains(allowedSortMetrics, r.SortBy) {
		return fmt.Errorf("sort_by deve ser um de %v", allowedSortMetrics)
	}
	return nil
}

// PlatformSplit é a fatia de gasto de uma plataforma no modo summary.
type PlatformSplit struct {
	SpendMicros int64   `json:"spend_micros"`
	Spend       string  `json:"spend"`
	Pct         float64 `json:"pct"`
}

// PerformanceSummary é a visão executiva: totais, divisão por plataforma e
// top campanhas de cada lado.
type PerformanceSummary struct {
	Totals        domain.MetricTotals      `json:"totals"`
	PlatformSplit map[string]PlatformSplit `json:"platform_split"`
	TopCampaigns  map[string][]ReportRow   `json:"top_campaigns"`
}

// PerformanceReport é o relatório unificado de performance.
type PerformanceReport struct {
	Status         domain.Status        `json:"status"`
	NormalizedUnit string               `json:"normalized_unit"`
	DateStart      string               `json:"date_start"`
	DateEnd        string               `json:"date_end"`
	Aggregation    string               `json:"aggregation"`
	SortBy         string               `json:"sort_by,omitempty"`
	Limit          int                  `json:"limit,omitempty"`
	Rows           []ReportRow          `json:"rows"`
	Summary        *PerformanceSummary  `json:"summary,omitempty"`
	SourceRowCount int                  `json:"source_row_count"`
	Errors         []domain.ReportError `json:"errors,omitempty"`
	Diagnostics    Diagnostics          `json:"diagnostics,omitempty"`
	RawResults     map[string]any       `json:"platform_results,omitempty"`
}

// ComparePerformance agrega a performance das duas plataformas no intervalo
// pedido, em qualquer um dos modos de rollup.
func (s *Service) ComparePerformance(ctx context.Context, req PerformanceRequest) (*PerformanceReport, error) {
	req.applyDefaults()

	report := &PerformanceReport{
		NormalizedUnit: NormalizedUnit,
		DateStart:      req.DateStart,
		DateEnd:        req.DateEnd,
		Aggregation:    req.Aggregation,
		Rows:           []ReportRow{},
	}

	if err := req.validate(); err != nil {
		report.Status = domain.StatusError
		report.Errors = []domain.ReportError{domain.ValidationError(err.Error())}
		return report, nil
	}

	dateRange := domain.DateRange{Start: req.DateStart, End: req.DateEnd}
	calls := insightCalls(req.MetaAccountIDs, req.GoogleAccountIDs,
		func(accountID string) map[string]any {
			return map[string]any{
				"account_id": accountID,
				"time_range": map[string]any{"since": req.DateStart, "until": req.DateEnd},
				"level":      req.Level,
			}
		},
		func(accountID string) map[string]any {
			return googleSearchArgs(
				accountID,
				googleResourceForLevel(req.Level),
				googlePerformanceFields(req.Level),
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
	report.SourceRowCount = len(rows)
	report.Diagnostics = buildDiagnostics(outcomes)
	if req.IncludeRaw {
		report.RawResults = rawResults(outcomes)
	}

	switch req.Aggregation {
	case "top_campaigns":
		report.SortBy = req.SortBy
		report.Limit = req.Limit
		report.Rows = rankCampaigns(rows, req.SortBy, req.Limit, true)
		report.Status = domain.StatusFor(len(report.Rows) > 0, len(reportErrors) > 0)

	case "summary":
		report.Summary = buildSummary(rows, req.SortBy)
		report.Status = domain.StatusFor(len(rows) > 0, len(reportErrors) > 0)

	default:
		report.Rows = aggregateRows(rows, req.Aggregation)
		if len(rows) == 0 {
			report.Rows = []ReportRow{}
		}
		report.Status = domain.StatusFor(len(rows) > 0, len(reportErrors) > 0)
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"aggregation": req.Aggregation,
		"rows":        len(report.Rows),
		"errors":      len(report.Errors),
		"status":      report.Status,
	}).Info("reporting: performance comparison finished")

	return report, nil
}

func buildSummary(rows []domain.MetricRow, sortBy string) *PerformanceSummary {
	totals := domain.SumRows(rows)

	metaRows := filterByPlatform(rows, domain.PlatformMeta)
	googleRows := filterByPlatform(rows, domain.PlatformGoogle)

	metaSpend := domain.SumRows(metaRows).SpendMicros
	googleSpend := domain.SumRows(googleRows).SpendMicros

	return &PerformanceSummary{
		Totals: totals,
		PlatformSplit: map[string]PlatformSplit{
			string(domain.PlatformMeta): {
				SpendMicros: metaSpend,
				Spend:       domain.MicrosToDisplay(metaSpend),
				Pct:         utils.RoundWithTwoDecimalPlace(domain.SafeDivide(float64(metaSpend), float64(totals.SpendMicros)) * 100),
			},
			string(domain.PlatformGoogle): {
				SpendMicros: googleSpend,
				Spend:       domain.MicrosToDisplay(googleSpend),
				Pct:         utils.RoundWithTwoDecimalPlace(domain.SafeDivide(float64(googleSpend), float64(totals.SpendMicros)) * 100),
			},
		},
		TopCampaigns: map[string][]ReportRow{
			string(domain.PlatformMeta):   rankCampaigns(metaRows, sortBy, 3, false),
			string(domain.PlatformGoogle): rankCampaigns(googleRows, sortBy, 3, false),
		},
	}
}

func googleResourceForLevel(level string) string {
	switch level {
	case "campaign":
		return "campaign"
	case "ad":
		return "ad_group_ad"
	default:
		return "customer"
	}
}

func googlePerformanceFields(level string) []string {
	fields := []string{
		"customer.id",
		"customer.descriptive_name",
	}
	switch level {
	case "campaign":
		fields = append(fields, "campaign.id", "campaign.name")
	case "ad":
		fields = append(fields, "campaign.id", "campaign.name", "ad_group_ad.ad.id", "ad_group_ad.ad.name")
	}
	fields = append(fields,
		"metrics.impressions",
		"metrics.clicks",
		"metrics.cost_micros",
		"metrics.conversions",
		"metrics.conversions_value",
		"segments.date",
	)
	return fields
}
