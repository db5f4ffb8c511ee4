package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeDivide(t *testing.T) {
	tests := []struct {
		name        string
		numerator   float64
		denominator float64
		expected    float64
	}{
		{
			name:        "Denominador zero retorna zero, nunca NaN ou Inf",
			numerator:   10,
			denominator: 0,
			expected:    0,
		},
		{
			name:        "Zero dividido por zero retorna zero",
			numerator:   0,
			denominator: 0,
			expected:    0,
		},
		{
			name:        "Divisão normal",
			numerator:   10,
			denominator: 4,
			expected:    2.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafeDivide(tt.numerator, tt.denominator))
		})
	}
}

func TestSpendStringToMicros(t *testing.T) {
	tests := []struct {
		name     string
		spend    string
		expected int64
	}{
		{
			name:     "Valor decimal em unidades vira micros inteiros",
			spend:    "12.34",
			expected: 12_340_000,
		},
		{
			name:     "String vazia vira zero",
			spend:    "",
			expected: 0,
		},
		{
			name:     "Valor não numérico vira zero",
			spend:    "abc",
			expected: 0,
		},
		{
			name:     "Valor inteiro sem casas decimais",
			spend:    "100",
			expected: 100_000_000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SpendStringToMicros(tt.spend))
		})
	}
}

func TestMicrosToDisplay(t *testing.T) {
	assert.Equal(t, "12.34", MicrosToDisplay(12_340_000))
	assert.Equal(t, "0.00", MicrosToDisplay(0))
	assert.Equal(t, "1.50", MicrosToDisplay(1_500_000))
}

func TestComputeDerivedMetrics(t *testing.T) {
	tests := []struct {
		name            string
		impressions     int64
		clicks          int64
		spendMicros     int64
		conversions     float64
		conversionValue float64
		expected        DerivedMetrics
	}{
		{
			name:        "Todas as métricas zeradas produzem derivadas zeradas",
			impressions: 0, clicks: 0, spendMicros: 0, conversions: 0, conversionValue: 0,
			expected: DerivedMetrics{},
		},
		{
			name:        "ROAS de 2 em gasto e 10 em valor de conversão",
			impressions: 1000, clicks: 100, spendMicros: 2_000_000, conversions: 4, conversionValue: 10.0,
			expected: DerivedMetrics{
				CTR:                     10.0,
				CPCMicros:               20_000,
				CPMMicros:               2_000_000,
				CVR:                     4.0,
				CostPerConversionMicros: 500_000,
				ROAS:                    5.0,
			},
		},
		{
			name:        "Sem conversões o custo por conversão fica zero",
			impressions: 10_000, clicks: 100, spendMicros: 5_000_000, conversions: 0, conversionValue: 0,
			expected: DerivedMetrics{
				CTR:       1.0,
				CPCMicros: 50_000,
				CPMMicros: 500_000,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDerivedMetrics(tt.impressions, tt.clicks, tt.spendMicros, tt.conversions, tt.conversionValue)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSumRows(t *testing.T) {
	rows := []MetricRow{
		{
			Platform:    PlatformMeta,
			Impressions: 10_000, Clicks: 100, SpendMicros: 5_000_000,
		},
		{
			Platform:    PlatformGoogle,
			Impressions: 5_000, Clicks: 50, SpendMicros: 3_000_000,
		},
	}

	totals := SumRows(rows)

	assert.Equal(t, int64(15_000), totals.Impressions)
	assert.Equal(t, int64(150), totals.Clicks)
	assert.Equal(t, int64(8_000_000), totals.SpendMicros)
	assert.Equal(t, "8.00", totals.Spend)
	// Derivadas recalculadas sobre as bases somadas, nunca somadas entre si.
	assert.Equal(t, 1.0, totals.CTR)
}

func TestDateRangeValidate(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{name: "Intervalo válido", start: "2026-01-01", end: "2026-01-31", wantErr: false},
		{name: "Data inicial malformada", start: "01/01/2026", end: "2026-01-31", wantErr: true},
		{name: "Data final malformada", start: "2026-01-01", end: "31-01", wantErr: true},
		{name: "Início depois do fim", start: "2026-02-01", end: "2026-01-01", wantErr: true},
		{name: "Início igual ao fim", start: "2026-01-15", end: "2026-01-15", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DateRange{Start: tt.start, End: tt.end}.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name      string
		hasRows   bool
		hasErrors bool
		expected  Status
	}{
		{name: "Sem erros é ok mesmo sem linhas", hasRows: false, hasErrors: false, expected: StatusOK},
		{name: "Sem erros com linhas é ok", hasRows: true, hasErrors: false, expected: StatusOK},
		{name: "Erros com linhas é partial", hasRows: true, hasErrors: true, expected: StatusPartial},
		{name: "Erros sem linhas é error", hasRows: false, hasErrors: true, expected: StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusFor(tt.hasRows, tt.hasErrors))
		})
	}
}
