package reporting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-bridge/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestGetPeriodComparison(t *testing.T) {
	service, metaMock, _ := newServiceWithMocks(t)

	// Uma chamada por período, distinguidas pelo time_range.
	metaMock.EXPECT().
		Call(gomock.Any(), "get_insights", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, args map[string]any) (map[string]any, error) {
			timeRange := args["time_range"].(map[string]any)
			if timeRange["since"] == "2026-02-01" {
				return metaInsightPayload("act_1", "20.00", 200, 20_000), nil
			}
			return metaInsightPayload("act_1", "10.00", 100, 10_000), nil
		}).
		Times(2)

	report, err := service.GetPeriodComparison(context.Background(), PeriodComparisonRequest{
		MetaAccountIDs: []string{"act_1"},
		CurrentStart:   "2026-02-01",
		CurrentEnd:     "2026-02-28",
		PreviousStart:  "2026-01-01",
		PreviousEnd:    "2026-01-31",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusOK, report.Status)

	assert.Equal(t, int64(20_000_000), report.Current.Totals.SpendMicros)
	assert.Equal(t, int64(10_000_000), report.Previous.Totals.SpendMicros)
	assert.Equal(t, 1, report.Current.RowCount)

	spend := report.Deltas["spend_micros"]
	assert.Equal(t, float64(10_000_000), spend.Absolute)
	require.NotNil(t, spend.Pct)
	assert.Equal(t, 100.0, *spend.Pct)

	clicks := report.Deltas["clicks"]
	assert.Equal(t, 200.0, clicks.Current)
	assert.Equal(t, 100.0, clicks.Previous)

	require.NotNil(t, report.Diagnostics)
	assert.Nil(t, report.RawResults)
}

func TestGetPeriodComparisonDiagnosticosERaw(t *testing.T) {
	service, metaMock, _ := newServiceWithMocks(t)

	metaMock.EXPECT().
		Call(gomock.Any(), "get_insights", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, args map[string]any) (map[string]any, error) {
			timeRange := args["time_range"].(map[string]any)
			if timeRange["since"] == "2026-02-01" {
				return metaInsightPayload("act_1", "20.00", 200, 20_000), nil
			}
			return map[string]any{"error": "token expired"}, nil
		}).
		Times(2)

	report, err := service.GetPeriodComparison(context.Background(), PeriodComparisonRequest{
		MetaAccountIDs: []string{"act_1"},
		CurrentStart:   "2026-02-01",
		CurrentEnd:     "2026-02-28",
		PreviousStart:  "2026-01-01",
		PreviousEnd:    "2026-01-31",
		IncludeRaw:     true,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPartial, report.Status)

	require.NotNil(t, report.Diagnostics)
	meta := report.Diagnostics[string(domain.PlatformMeta)]
	require.NotNil(t, meta)
	assert.Equal(t, 1, meta.AccountsQueried)
	assert.Equal(t, 1, meta.RowsReturned)
	assert.Equal(t, []string{"act_1"}, meta.AccountsWithErrors)

	// Os payloads brutos chegam separados por período da conta.
	require.NotNil(t, report.RawResults)
	accounts := report.RawResults[string(domain.PlatformMeta)].(map[string]any)["accounts"].(map[string]any)
	assert.Contains(t, accounts, "act_1:current")
	assert.Contains(t, accounts, "act_1:previous")
}

func TestGetPeriodComparisonErroRotuladoPorPeriodo(t *testing.T) {
	service, metaMock, _ := newServiceWithMocks(t)

	metaMock.EXPECT().
		Call(gomock.Any(), "get_insights", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, args map[string]any) (map[string]any, error) {
			timeRange := args["time_range"].(map[string]any)
			if timeRange["since"] == "2026-01-01" {
				return map[string]any{"error": "token expired"}, nil
			}
			return metaInsightPayload("act_1", "20.00", 200, 20_000), nil
		}).
		Times(2)

	report, err := service.GetPeriodComparison(context.Background(), PeriodComparisonRequest{
		MetaAccountIDs: []string{"act_1"},
		CurrentStart:   "2026-02-01",
		CurrentEnd:     "2026-02-28",
		PreviousStart:  "2026-01-01",
		PreviousEnd:    "2026-01-31",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPartial, report.Status)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "previous", report.Errors[0].Source)
	assert.Equal(t, "token expired", report.Errors[0].Message)
}

func TestMetricDelta(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		absolute float64
		pct      *float64
	}{
		{name: "Crescimento", current: 150, previous: 100, absolute: 50, pct: pctPtr(50)},
		{name: "Queda", current: 50, previous: 100, absolute: -50, pct: pctPtr(-50)},
		{name: "Base zero não tem percentual", current: 50, previous: 0, absolute: 50, pct: nil},
		{name: "Tudo zero", current: 0, previous: 0, absolute: 0, pct: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta := metricDelta(tt.current, tt.previous)

			assert.Equal(t, tt.absolute, delta.Absolute)
			if tt.pct == nil {
				assert.Nil(t, delta.Pct)
			} else {
				require.NotNil(t, delta.Pct)
				assert.Equal(t, *tt.pct, *delta.Pct)
			}
		})
	}
}

func pctPtr(v float64) *float64 {
	return &v
}
