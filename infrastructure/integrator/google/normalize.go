// Package google normaliza payloads do Google Ads para o esquema unificado.
package google

import (
	"strconv"
	"strings"

	"github.com/vfg2006/ads-bridge/internal/domain"
)

var ageRangeLabels = map[string]string{
	"AGE_RANGE_18_24":        "18-24",
	"AGE_RANGE_25_34":        "25-34",
	"AGE_RANGE_35_44":        "35-44",
	"AGE_RANGE_45_54":        "45-54",
	"AGE_RANGE_55_64":        "55-64",
	"AGE_RANGE_65_UP":        "65+",
	"AGE_RANGE_UNDETERMINED": "unknown",
	"AGE_RANGE_UNSPECIFIED":  "unknown",
}

var genderLabels = map[string]string{
	"MALE":         "male",
	"FEMALE":       "female",
	"UNDETERMINED": "unknown",
}

var deviceLabels = map[string]string{
	"MOBILE":       "mobile",
	"DESKTOP":      "desktop",
	"TABLET":       "tablet",
	"CONNECTED_TV": "connected_tv",
	"OTHER":        "other",
}

// NormalizeInsights converte linhas de search_ads em MetricRows. Conversões e
// valor de conversão já chegam deduplicados pela plataforma; aqui só há
// coerção de tipos. O custo já vem em micros inteiros.
func NormalizeInsights(payload map[string]any) []domain.MetricRow {
	items, _ := payload["data"].([]any)

	rows := make([]domain.MetricRow, 0, len(items))
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		impressions := asInt(item["metrics.impressions"])
		clicks := asInt(item["metrics.clicks"])
		spendMicros := asInt(item["metrics.cost_micros"])
		conversions := asFloat(item["metrics.conversions"])
		conversionValue := asFloat(item["metrics.conversions_value"])

		date := asString(item["segments.date"])

		row := domain.MetricRow{
			Platform:        domain.PlatformGoogle,
			AccountID:       asString(item["customer.id"]),
			AccountName:     asString(item["customer.descriptive_name"]),
			CampaignID:      asString(item["campaign.id"]),
			CampaignName:    asString(item["campaign.name"]),
			AdID:            asString(item["ad_group_ad.ad.id"]),
			AdName:          asString(item["ad_group_ad.ad.name"]),
			DateStart:       date,
			DateStop:        date,
			Impressions:     impressions,
			Clicks:          clicks,
			SpendMicros:     spendMicros,
			Spend:           domain.MicrosToDisplay(spendMicros),
			Conversions:     conversions,
			ConversionValue: conversionValue,
		}
		row.DerivedMetrics = domain.ComputeDerivedMetrics(impressions, clicks, spendMicros, conversions, conversionValue)

		rows = append(rows, row)
	}

	return rows
}

// SegmentValue traduz o valor bruto do segmento para o rótulo unificado da
// dimensão pedida.
func SegmentValue(item map[string]any, dimension string) string {
	switch dimension {
	case "age":
		return labelOr(ageRangeLabels, asString(item["ad_group_criterion.age_range_type"]))
	case "gender":
		return labelOr(genderLabels, asString(item["ad_group_criterion.gender.type"]))
	case "device":
		return labelOr(deviceLabels, asString(item["segments.device"]))
	case "country":
		return countrySegment(item)
	case "placement":
		value := asString(item["campaign.advertising_channel_type"])
		if value == "" {
			return "unknown"
		}
		return strings.ToLower(value)
	default:
		return "unknown"
	}
}

func countrySegment(item map[string]any) string {
	raw := asString(item["segments.geo_target_country"])
	if raw == "" {
		raw = asString(item["geographic_view.country_criterion_id"])
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "unknown"
	}
	if idx := strings.LastIndex(raw, "/"); idx >= 0 {
		raw = raw[idx+1:]
	}
	return raw
}

func labelOr(labels map[string]string, raw string) string {
	if label, ok := labels[strings.ToUpper(raw)]; ok {
		return label
	}
	if raw == "" {
		return "unknown"
	}
	return strings.ToLower(raw)
}

func asString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return ""
	}
}

func asInt(v any) int64 {
	switch value := v.(type) {
	case float64:
		return int64(value)
	case string:
		parsed, _ := strconv.ParseInt(value, 10, 64)
		return parsed
	default:
		return 0
	}
}

func asFloat(v any) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case string:
		parsed, _ := strconv.ParseFloat(value, 64)
		return parsed
	default:
		return 0
	}
}
