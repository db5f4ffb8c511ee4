package reporting

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vfg2006/ads-bridge/infrastructure/integrator/google"
	"github.com/vfg2006/ads-bridge/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-bridge/internal/domain"
	"github.com/vfg2006/ads-bridge/pkg/log"
	"github.com/vfg2006/ads-bridge/pkg/utils"
)

var allowedDimensions = []string{"age", "country", "device", "gender", "placement"}

// metaBreakdownKeys mapeia a dimensão unificada para o parâmetro de breakdown
// da Meta.
var metaBreakdownKeys = map[string]string{
	"age":       "age",
	"gender":    "gender",
	"device":    "device_platform",
	"country":   "country",
	"placement": "publisher_platform",
}

var googleBreakdownResources = map[string]string{
	"age":       "age_range_view",
	"gender":    "gender_view",
	"device":    "campaign",
	"country":   "geographic_view",
	"placement": "campaign",
}

var googleBreakdownFields = map[string][]string{
	"age": {
		"ad_group_criterion.age_range_type",
		"metrics.impressions",
		"metrics.clicks",
		"metrics.cost_micros",
		"metrics.conversions",
		"metrics.conversions_value",
		"customer.id",
		"customer.descriptive_name",
	},
	"gender": {
		"ad_group_criterion.gender.type",
		"metrics.impressions",
		"metrics.clicks",
		"metrics.cost_micros",
		"metrics.conversions",
		"metrics.conversions_value",
		"customer.id",
		"customer.descriptive_name",
	},
	"device": {
		"customer.id",
		"customer.descriptive_name",
		"campaign.id",
		"campaign.name",
		"metrics.impressions",
		"metrics.clicks",
		"metrics.cost_micros",
		"metrics.conversions",
		"metrics.conversions_value",
		"segments.device",
		"segments.date",
	},
	"country": {
		"geographic_view.country_criterion_id",
		"geographic_view.resource_name",
		"customer.id",
		"customer.descriptive_name",
		"metrics.impressions",
		"metrics.clicks",
		"metrics.cost_micros",
		"metrics.conversions",
		"metrics.conversions_value",
		"segments.date",
		"segments.geo_target_country",
	},
	"placement": {
		"customer.id",
		"customer.descriptive_name",
		"campaign.id",
		"campaign.name",
		"campaign.advertising_channel_type",
		"metrics.impressions",
		"metrics.clicks",
		"metrics.cost_micros",
		"metrics.conversions",
		"metrics.conversions_value",
		"segments.date",
	},
}

var ageSegmentOrder = map[string]int{
	"18-24": 1, "25-34": 2, "35-44": 3, "45-54": 4, "55-64": 5, "65+": 6, "unknown": 99,
}

var genderSegmentOrder = map[string]int{
	"male": 1, "female": 2, "unknown": 99,
}

var deviceSegmentOrder = map[string]int{
	"mobile": 1, "desktop": 2, "tablet": 3, "connected_tv": 4, "other": 5, "unknown": 99,
}

// BreakdownRequest parametriza a comparação por dimensão de segmentação.
type BreakdownRequest struct {
	MetaAccountIDs        []string `json:"meta_account_ids,omitempty"`
	GoogleAccountIDs      []string `json:"google_account_ids,omitempty"`
	DateStart             string   `json:"date_start"`
	DateEnd               string   `json:"date_end"`
	Dimension             string   `json:"dimension,omitempty"`
	GoogleLoginCustomerID string   `json:"google_login_customer_id,omitempty"`
	IncludeRaw            bool     `json:"include_raw,omitempty"`
}

// BreakdownSegment é um segmento da dimensão com as duas plataformas lado a
// lado. SharePct é a fatia do gasto combinado, presente apenas nas dimensões
// demográficas.
type BreakdownSegment struct {
	Segment  string              `json:"segment"`
	Meta     domain.MetricTotals `json:"meta"`
	Google   domain.MetricTotals `json:"google"`
	Combined domain.MetricTotals `json:"combined"`
	SharePct *float64            `json:"share_pct,omitempty"`
}

// BreakdownReport é o relatório de comparação por dimensão.
type BreakdownReport struct {
	Status         domain.Status        `json:"status"`
	NormalizedUnit string               `json:"normalized_unit"`
	Dimension      string               `json:"dimension"`
	DateStart      string               `json:"date_start"`
	DateEnd        string               `json:"date_end"`
	Segments       []BreakdownSegment   `json:"segments"`
	Errors         []domain.ReportError `json:"errors,omitempty"`
	Diagnostics    Diagnostics          `json:"diagnostics,omitempty"`
	RawResults     map[string]any       `json:"platform_results,omitempty"`
}

// GetBreakdown compara a performance das plataformas segmentada por idade,
// gênero, dispositivo, país ou placement.
func (s *Service) GetBreakdown(ctx context.Context, req BreakdownRequest) (*BreakdownReport, error) {
	if req.Dimension == "" {
		req.Dimension = "age"
	}

	report := &BreakdownReport{
		NormalizedUnit: NormalizedUnit,
		Dimension:      req.Dimension,
		DateStart:      req.DateStart,
		DateEnd:        req.DateEnd,
		Segments:       []BreakdownSegment{},
	}

	dateRange := domain.DateRange{Start: req.DateStart, End: req.DateEnd}
	if err := dateRange.Validate(); err != nil {
		report.Status = domain.StatusError
		report.Errors = []domain.ReportError{domain.ValidationError(err.Error())}
		return report, nil
	}
	if !contains(allowedDimensions, req.Dimension) {
		report.Status = domain.StatusError
		report.Errors = []domain.ReportError{
			domain.ValidationError(fmt.Sprintf("dimension deve ser um de %v", allowedDimensions)),
		}
		return report, nil
	}

	calls := insightCalls(req.MetaAccountIDs, req.GoogleAccountIDs,
		func(accountID string) map[string]any {
			return map[string]any{
				"account_id": accountID,
				"time_range": map[string]any{"since": req.DateStart, "until": req.DateEnd},
				"level":      "account",
				"breakdown":  metaBreakdownKeys[req.Dimension],
			}
		},
		func(accountID string) map[string]any {
			return googleSearchArgs(
				accountID,
				googleBreakdownResources[req.Dimension],
				googleBreakdownFields[req.Dimension],
				dateCondition(dateRange),
				req.GoogleLoginCustomerID,
			)
		},
	)

	outcomes, err := s.gather(ctx, calls)
	if err != nil {
		return nil, err
	}

	var rows []domain.MetricRow
	for _, o := range outcomes {
		if o.failure != nil {
			report.Errors = append(report.Errors, *o.failure)
			continue
		}
		rows = append(rows, segmentedRows(o, req.Dimension)...)
	}

	report.Segments = bucketBySegment(rows, req.Dimension)
	report.Status = domain.StatusFor(len(report.Segments) > 0, len(report.Errors) > 0)
	report.Diagnostics = buildDiagnostics(outcomes)
	if req.IncludeRaw {
		report.RawResults = rawResults(outcomes)
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"dimension": req.Dimension,
		"segments":  len(report.Segments),
		"errors":    len(report.Errors),
		"status":    report.Status,
	}).Info("reporting: breakdown comparison finished")

	return report, nil
}

// segmentedRows normaliza um payload de breakdown atribuindo a cada linha o
// rótulo unificado do segmento.
func segmentedRows(o outcome, dimension string) []domain.MetricRow {
	items := payloadRows(o.payload)
	rows := make([]domain.MetricRow, 0, len(items))

	for _, item := range items {
		var row domain.MetricRow
		if o.platform == domain.PlatformMeta {
			row = metaSegmentRow(item, dimension)
		} else {
			row = googleSegmentRow(item, dimension)
		}
		row.AccountID = o.accountID
		rows = append(rows, row)
	}

	return rows
}

func metaSegmentRow(item map[string]any, dimension string) domain.MetricRow {
	segment := meta.SegmentValue(item, metaBreakdownKeys[dimension])
	switch dimension {
	case "country":
		segment = strings.ToUpper(segment)
	case "gender", "device", "placement":
		segment = strings.ToLower(segment)
	}

	spendMicros := domain.SpendStringToMicros(stringField(item, "spend"))
	return domain.MetricRow{
		Platform:        domain.PlatformMeta,
		Segment:         segment,
		Impressions:     intField(item, "impressions"),
		Clicks:          intField(item, "clicks"),
		SpendMicros:     spendMicros,
		Spend:           domain.MicrosToDisplay(spendMicros),
		Conversions:     meta.Conversions(item),
		ConversionValue: meta.ConversionValue(item),
	}
}

func googleSegmentRow(item map[string]any, dimension string) domain.MetricRow {
	spendMicros := intField(item, "metrics.cost_micros")
	return domain.MetricRow{
		Platform:        domain.PlatformGoogle,
		Segment:         google.SegmentValue(item, dimension),
		Impressions:     intField(item, "metrics.impressions"),
		Clicks:          intField(item, "metrics.clicks"),
		SpendMicros:     spendMicros,
		Spend:           domain.MicrosToDisplay(spendMicros),
		Conversions:     floatField(item, "metrics.conversions"),
		ConversionValue: floatField(item, "metrics.conversions_value"),
	}
}

func bucketBySegment(rows []domain.MetricRow, dimension string) []BreakdownSegment {
	bySegment := map[string][]domain.MetricRow{}
	var totalSpend int64
	for _, row := range rows {
		bySegment[row.Segment] = append(bySegment[row.Segment], row)
		totalSpend += row.SpendMicros
	}

	keys := make([]string, 0, len(bySegment))
	for segment := range bySegment {
		keys = append(keys, segment)
	}
	sortSegments(keys, dimension)

	demographic := dimension == "age" || dimension == "gender"

	out := make([]BreakdownSegment, 0, len(keys))
	for _, segment := range keys {
		segmentRows := bySegment[segment]
		combined := domain.SumRows(segmentRows)

		entry := BreakdownSegment{
			Segment:  segment,
			Meta:     domain.SumRows(filterByPlatform(segmentRows, domain.PlatformMeta)),
			Google:   domain.SumRows(filterByPlatform(segmentRows, domain.PlatformGoogle)),
			Combined: combined,
		}
		if demographic {
			share := utils.RoundWithTwoDecimalPlace(
				domain.SafeDivide(float64(combined.SpendMicros), float64(totalSpend)) * 100)
			entry.SharePct = &share
		}
		out = append(out, entry)
	}

	return out
}

// sortSegments ordena os segmentos na ordem natural da dimensão: faixas
// etárias crescentes, gêneros fixos, dispositivos por relevância. Dimensões
// sem ordem natural ficam lexicográficas, com "unknown" por último.
func sortSegments(keys []string, dimension string) {
	var order map[string]int
	switch dimension {
	case "age":
		order = ageSegmentOrder
	case "gender":
		order = genderSegmentOrder
	case "device":
		order = deviceSegmentOrder
	}

	sort.Slice(keys, func(i, j int) bool {
		ri, rj := segmentRank(order, keys[i]), segmentRank(order, keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
}

func segmentRank(order map[string]int, segment string) int {
	if order == nil {
		if segment == "unknown" {
			return 99
		}
		return 98
	}
	if rank, ok := order[segment]; ok {
		return rank
	}
	return 98
}
