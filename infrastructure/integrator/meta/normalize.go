// Package meta normaliza payloads do Meta Ads para o esquema unificado.
package meta

import (
	"strconv"

	"github.com/vfg2006/ads-bridge/internal/domain"
)

// Tipos de ação que contam como conversão. Uma mesma compra aparece sob tipos
// sobrepostos (purchase e omni_purchase), então o valor de compra é escolhido
// por prioridade — nunca somado.
var purchasePriority = []string{"omni_purchase", "purchase"}

var leadActionTypes = []string{"lead", "complete_registration"}

var conversionValuePriority = []string{
	"omni_purchase",
	"purchase",
	"offsite_conversion.fb_pixel_purchase",
}

// NormalizeInsights converte o payload bruto de get_insights em MetricRows.
// Linhas malformadas são ignoradas; o resultado depende apenas do payload.
func NormalizeInsights(payload map[string]any) []domain.MetricRow {
	items, _ := payload["data"].([]any)

	rows := make([]domain.MetricRow, 0, len(items))
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		impressions := asInt(item["impressions"])
		clicks := asInt(item["clicks"])
		spendMicros := domain.SpendStringToMicros(asString(item["spend"]))
		conversions := Conversions(item)
		conversionValue := ConversionValue(item)

		row := domain.MetricRow{
			Platform:        domain.PlatformMeta,
			AccountID:       asString(item["account_id"]),
			AccountName:     asString(item["account_name"]),
			CampaignID:      asString(item["campaign_id"]),
			CampaignName:    asString(item["campaign_name"]),
			AdID:            asString(item["ad_id"]),
			AdName:          asString(item["ad_name"]),
			DateStart:       asString(item["date_start"]),
			DateStop:        asString(item["date_stop"]),
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

// Conversions extrai a contagem de conversões da lista de actions: a compra é
// o primeiro tipo presente em purchasePriority (nunca a soma dos dois), mais
// as ações de lead somadas incondicionalmente.
func Conversions(item map[string]any) float64 {
	byType := actionsByType(item["actions"])

	var conversions float64
	for _, actionType := range purchasePriority {
		if value, ok := byType[actionType]; ok {
			conversions = value
			break
		}
	}

	for _, actionType := range leadActionTypes {
		conversions += byType[actionType]
	}

	return conversions
}

// ConversionValue escolhe o valor monetário de conversão por prioridade:
// o primeiro tipo com valor não-zero vence — os tipos são duplicatas do mesmo
// valor e jamais devem ser somados.
func ConversionValue(item map[string]any) float64 {
	byType := actionsByType(item["action_values"])

	for _, actionType := range conversionValuePriority {
		if value := byType[actionType]; value != 0 {
			return value
		}
	}

	return 0
}

func actionsByType(raw any) map[string]float64 {
	list, _ := raw.([]any)

	byType := make(map[string]float64, len(list))
	for _, entry := range list {
		action, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		byType[asString(action["action_type"])] = asFloat(action["value"])
	}

	return byType
}

// SegmentValue extrai o valor do breakdown pedido em uma linha de insights.
func SegmentValue(item map[string]any, breakdown string) string {
	if value := asString(item[breakdown]); value != "" {
		return value
	}
	return "unknown"
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
