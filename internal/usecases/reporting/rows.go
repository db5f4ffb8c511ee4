package reporting

import (
	"sort"

	"github.com/vfg2006/ads-bridge/internal/domain"
)

// ReportRow é uma linha de rollup de qualquer modo de agregação. Campos que
// não se aplicam ao modo ficam vazios e fora do JSON.
type ReportRow struct {
	Aggregation  string          `json:"aggregation,omitempty"`
	Rank         int             `json:"rank,omitempty"`
	Platform     domain.Platform `json:"platform,omitempty"`
	AccountID    string          `json:"account_id,omitempty"`
	AccountName  string          `json:"account_name,omitempty"`
	CampaignID   string          `json:"campaign_id,omitempty"`
	CampaignName string          `json:"campaign_name,omitempty"`
	AdID         string          `json:"ad_id,omitempty"`
	AdName       string          `json:"ad_name,omitempty"`
	SortMetric   string          `json:"sort_metric,omitempty"`
	SortValue    float64         `json:"sort_value,omitempty"`
	domain.MetricTotals
}

var sortableMetrics = map[string]func(domain.MetricRow) float64{
	"spend":       func(r domain.MetricRow) float64 { return float64(r.SpendMicros) },
	"impressions": func(r domain.MetricRow) float64 { return float64(r.Impressions) },
	"clicks":      func(r domain.MetricRow) float64 { return float64(r.Clicks) },
	"conversions": func(r domain.MetricRow) float64 { return r.Conversions },
}

// aggregateRows colapsa linhas normalizadas no modo pedido, sempre
// recalculando as métricas derivadas sobre os totais somados.
func aggregateRows(rows []domain.MetricRow, aggregation string) []ReportRow {
	switch aggregation {
	case "total":
		return []ReportRow{{
			Aggregation:  "total",
			MetricTotals: domain.SumRows(rows),
		}}

	case "by_account":
		return aggregateByAccount(rows)

	default:
		return aggregateByPlatform(rows)
	}
}

func aggregateByAccount(rows []domain.MetricRow) []ReportRow {
	type accountKey struct {
		platform  domain.Platform
		accountID string
	}

	buckets := map[accountKey][]domain.MetricRow{}
	order := []accountKey{}
	for _, row := range rows {
		key := accountKey{platform: row.Platform, accountID: row.AccountID}
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], row)
	}

	out := make([]ReportRow, 0, len(order))
	for _, key := range order {
		bucket := buckets[key]
		out = append(out, ReportRow{
			Aggregation:  "by_account",
			Platform:     key.platform,
			AccountID:    key.accountID,
			AccountName:  bucket[0].AccountName,
			MetricTotals: domain.SumRows(bucket),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Platform != out[j].Platform {
			return out[i].Platform < out[j].Platform
		}
		return out[i].AccountName < out[j].AccountName
	})

	return out
}

func aggregateByPlatform(rows []domain.MetricRow) []ReportRow {
	out := make([]ReportRow, 0, 2)
	for _, platform := range []domain.Platform{domain.PlatformGoogle, domain.PlatformMeta} {
		bucket := filterByPlatform(rows, platform)
		if len(bucket) == 0 {
			continue
		}
		out = append(out, ReportRow{
			Aggregation:  "by_platform",
			Platform:     platform,
			MetricTotals: domain.SumRows(bucket),
		})
	}
	return out
}

// rankCampaigns ordena as linhas pelo sort_by em ordem decrescente e devolve
// as top limit, com rank sequencial quando withRank é verdadeiro.
func rankCampaigns(rows []domain.MetricRow, sortBy string, limit int, withRank bool) []ReportRow {
	metric := sortableMetrics[sortBy]

	ranked := make([]domain.MetricRow, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return metric(ranked[i]) > metric(ranked[j])
	})

	if limit < 0 {
		limit = 0
	}
	if limit < len(ranked) {
		ranked = ranked[:limit]
	}

	out := make([]ReportRow, 0, len(ranked))
	for index, row := range ranked {
		entry := ReportRow{
			Platform:     row.Platform,
			AccountID:    row.AccountID,
			AccountName:  row.AccountName,
			CampaignID:   row.CampaignID,
			CampaignName: row.CampaignName,
			AdID:         row.AdID,
			AdName:       row.AdName,
			MetricTotals: domain.SumRows([]domain.MetricRow{row}),
		}
		if withRank {
			entry.Rank = index + 1
			entry.SortMetric = sortBy
			entry.SortValue = metric(row)
		}
		out = append(out, entry)
	}

	return out
}

func filterByPlatform(rows []domain.MetricRow, platform domain.Platform) []domain.MetricRow {
	var out []domain.MetricRow
	for _, row := range rows {
		if row.Platform == platform {
			out = append(out, row)
		}
	}
	return out
}
