package domain

import (
	"fmt"
	"strconv"

	"github.com/vfg2006/ads-bridge/pkg/utils"
)

// MicrosPerUnit é a representação de ponto fixo usada para valores monetários:
// 1.000.000 micros = 1 unidade da moeda.
const MicrosPerUnit = 1_000_000

// DerivedMetrics são as métricas derivadas, sempre recalculadas a partir das
// métricas base — nunca somadas ou transportadas entre agregações.
type DerivedMetrics struct {
	CTR                     float64 `json:"ctr"`
	CPCMicros               int64   `json:"cpc_micros"`
	CPMMicros               int64   `json:"cpm_micros"`
	CVR                     float64 `json:"cvr"`
	CostPerConversionMicros int64   `json:"cost_per_conversion_micros"`
	ROAS                    float64 `json:"roas"`
}

// MetricRow representa uma entrada de performance no esquema unificado,
// independente da plataforma de origem.
type MetricRow struct {
	Platform        Platform `json:"platform"`
	AccountID       string   `json:"account_id"`
	AccountName     string   `json:"account_name"`
	CampaignID      string   `json:"campaign_id,omitempty"`
	CampaignName    string   `json:"campaign_name,omitempty"`
	AdID            string   `json:"ad_id,omitempty"`
	AdName          string   `json:"ad_name,omitempty"`
	Segment         string   `json:"segment,omitempty"`
	DateStart       string   `json:"date_start"`
	DateStop        string   `json:"date_stop"`
	Impressions     int64    `json:"impressions"`
	Clicks          int64    `json:"clicks"`
	SpendMicros     int64    `json:"spend_micros"`
	Spend           string   `json:"spend"`
	Conversions     float64  `json:"conversions"`
	ConversionValue float64  `json:"conversion_value"`
	DerivedMetrics
}

// SafeDivide divide dois valores retornando 0 quando o denominador é zero,
// evitando NaN/Inf nas métricas derivadas.
func SafeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// SpendStringToMicros converte um valor monetário decimal (ex.: "12.34") para
// micros inteiros, truncando casas além da sexta decimal.
func SpendStringToMicros(spend string) int64 {
	if spend == "" {
		return 0
	}
	value, err := strconv.ParseFloat(spend, 64)
	if err != nil {
		return 0
	}
	return int64(value * MicrosPerUnit)
}

// MicrosToDisplay formata micros como valor decimal com duas casas ("12.34").
func MicrosToDisplay(micros int64) string {
	return fmt.Sprintf("%.2f", float64(micros)/MicrosPerUnit)
}

// ComputeDerivedMetrics recalcula todas as métricas derivadas a partir das
// métricas base. Qualquer denominador zero resulta em 0, nunca em NaN.
func ComputeDerivedMetrics(impressions, clicks, spendMicros int64, conversions, conversionValue float64) DerivedMetrics {
	spend := float64(spendMicros) / MicrosPerUnit

	costPerConversion := int64(0)
	if conversions > 0 {
		costPerConversion = int64(SafeDivide(float64(spendMicros), conversions))
	}

	return DerivedMetrics{
		CTR:                     utils.RoundWithTwoDecimalPlace(SafeDivide(float64(clicks), float64(impressions)) * 100),
		CPCMicros:               int64(SafeDivide(float64(spendMicros), float64(clicks))),
		CPMMicros:               int64(SafeDivide(float64(spendMicros), float64(impressions)) * 1000),
		CVR:                     utils.RoundWithTwoDecimalPlace(SafeDivide(conversions, float64(clicks)) * 100),
		CostPerConversionMicros: costPerConversion,
		ROAS:                    utils.RoundWithTwoDecimalPlace(SafeDivide(conversionValue, spend)),
	}
}

// MetricTotals são as métricas base somadas de um conjunto de linhas, com as
// derivadas recalculadas sobre os totais.
type MetricTotals struct {
	Impressions     int64   `json:"impressions"`
	Clicks          int64   `json:"clicks"`
	SpendMicros     int64   `json:"spend_micros"`
	Spend           string  `json:"spend"`
	Conversions     float64 `json:"conversions"`
	ConversionValue float64 `json:"conversion_value"`
	DerivedMetrics
}

// SumRows agrega as métricas base e recalcula as derivadas sobre os totais.
func SumRows(rows []MetricRow) MetricTotals {
	var totals MetricTotals
	for _, row := range rows {
		totals.Impressions += row.Impressions
		totals.Clicks += row.Clicks
		totals.SpendMicros += row.SpendMicros
		totals.Conversions += row.Conversions
		totals.ConversionValue += row.ConversionValue
	}

	totals.Spend = MicrosToDisplay(totals.SpendMicros)
	totals.Conversions = utils.RoundWithTwoDecimalPlace(totals.Conversions)
	totals.ConversionValue = utils.RoundWithTwoDecimalPlace(totals.ConversionValue)
	totals.DerivedMetrics = ComputeDerivedMetrics(
		totals.Impressions,
		totals.Clicks,
		totals.SpendMicros,
		totals.Conversions,
		totals.ConversionValue,
	)
	return totals
}
