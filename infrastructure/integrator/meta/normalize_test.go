package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/ads-bridge/internal/domain"
)

func insightItem(actions []any, actionValues []any) map[string]any {
	return map[string]any{
		"account_id":    "act_123",
		"account_name":  "Loja A",
		"impressions":   "10000",
		"clicks":        "100",
		"spend":         "5.00",
		"actions":       actions,
		"action_values": actionValues,
		"date_start":    "2026-01-01",
		"date_stop":     "2026-01-31",
	}
}

func TestConversions(t *testing.T) {
	tests := []struct {
		name     string
		actions  []any
		expected float64
	}{
		{
			name: "Compra duplicada em purchase e omni_purchase conta uma única vez, pela prioridade",
			actions: []any{
				map[string]any{"action_type": "purchase", "value": "7"},
				map[string]any{"action_type": "omni_purchase", "value": "7"},
			},
			expected: 7,
		},
		{
			name: "Somente purchase quando omni_purchase está ausente",
			actions: []any{
				map[string]any{"action_type": "purchase", "value": "3"},
			},
			expected: 3,
		},
		{
			name: "Leads somam incondicionalmente sobre a compra",
			actions: []any{
				map[string]any{"action_type": "omni_purchase", "value": "2"},
				map[string]any{"action_type": "lead", "value": "5"},
				map[string]any{"action_type": "complete_registration", "value": "1"},
			},
			expected: 8,
		},
		{
			name:     "Sem actions retorna zero",
			actions:  nil,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := map[string]any{"actions": tt.actions}
			assert.Equal(t, tt.expected, Conversions(item))
		})
	}
}

func TestConversionValue(t *testing.T) {
	tests := []struct {
		name         string
		actionValues []any
		expected     float64
	}{
		{
			name: "Primeiro tipo com valor não-zero vence, nunca a soma",
			actionValues: []any{
				map[string]any{"action_type": "omni_purchase", "value": "150.50"},
				map[string]any{"action_type": "purchase", "value": "150.50"},
			},
			expected: 150.50,
		},
		{
			name: "Tipo prioritário zerado cede para o próximo",
			actionValues: []any{
				map[string]any{"action_type": "omni_purchase", "value": "0"},
				map[string]any{"action_type": "offsite_conversion.fb_pixel_purchase", "value": "99.90"},
			},
			expected: 99.90,
		},
		{
			name:         "Sem action_values retorna zero",
			actionValues: nil,
			expected:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := map[string]any{"action_values": tt.actionValues}
			assert.Equal(t, tt.expected, ConversionValue(item))
		})
	}
}

func TestNormalizeInsights(t *testing.T) {
	payload := map[string]any{
		"data": []any{
			insightItem(
				[]any{map[string]any{"action_type": "purchase", "value": "4"}},
				[]any{map[string]any{"action_type": "purchase", "value": "25.00"}},
			),
		},
	}

	rows := NormalizeInsights(payload)

	assert.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, domain.PlatformMeta, row.Platform)
	assert.Equal(t, "act_123", row.AccountID)
	assert.Equal(t, int64(10_000), row.Impressions)
	assert.Equal(t, int64(100), row.Clicks)
	assert.Equal(t, int64(5_000_000), row.SpendMicros)
	assert.Equal(t, "5.00", row.Spend)
	assert.Equal(t, 4.0, row.Conversions)
	assert.Equal(t, 25.0, row.ConversionValue)
	assert.Equal(t, 1.0, row.CTR)
	assert.Equal(t, int64(50_000), row.CPCMicros)
	// roas = 25.00 / 5.00
	assert.Equal(t, 5.0, row.ROAS)
}

func TestNormalizeInsightsEhPuro(t *testing.T) {
	payload := map[string]any{
		"data": []any{
			insightItem(
				[]any{map[string]any{"action_type": "omni_purchase", "value": "2"}},
				nil,
			),
		},
	}

	first := NormalizeInsights(payload)
	second := NormalizeInsights(payload)

	assert.Equal(t, first, second)
}

func TestNormalizeInsightsPayloadVazio(t *testing.T) {
	assert.Empty(t, NormalizeInsights(map[string]any{}))
	assert.Empty(t, NormalizeInsights(map[string]any{"data": []any{}}))
	assert.Empty(t, NormalizeInsights(map[string]any{"data": "garbage"}))
}

func TestNormalizeChangeEvents(t *testing.T) {
	payload := map[string]any{
		"data": []any{
			map[string]any{
				"event_time":            "2026-01-10T12:00:00+0000",
				"actor_name":            "Maria",
				"translated_event_type": "updated budget",
				"object_name":           "Campanha X",
			},
			map[string]any{
				// Campos alternativos de versões mais antigas da API.
				"created_time": "2026-01-09T08:00:00+0000",
				"actor":        "João",
			},
		},
	}

	events := NormalizeChangeEvents(payload, "act_123")

	assert.Len(t, events, 2)
	assert.Equal(t, "Maria", events[0].Actor)
	assert.Equal(t, "updated budget", events[0].Action)
	assert.Equal(t, "act_123", events[0].AccountID)

	assert.Equal(t, "2026-01-09T08:00:00+0000", events[1].Timestamp)
	assert.Equal(t, "João", events[1].Actor)
	assert.Equal(t, "unknown", events[1].Action)
}

func TestNormalizeAccounts(t *testing.T) {
	payload := map[string]any{
		"data": []any{
			map[string]any{"id": "act_1", "name": "Loja A", "account_status": "1", "currency": "BRL"},
			map[string]any{"id": "act_2"},
		},
	}

	accounts := NormalizeAccounts(payload)

	assert.Len(t, accounts, 2)
	assert.Equal(t, "Loja A", accounts[0].Name)
	assert.Equal(t, "BRL", accounts[0].Currency)
	assert.Equal(t, "Unknown", accounts[1].Name)
}
