package reporting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-bridge/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestGetBreakdownPorIdade(t *testing.T) {
	service, metaMock, googleMock := newServiceWithMocks(t)

	metaMock.EXPECT().
		Call(gomock.Any(), "get_insights", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, args map[string]any) (map[string]any, error) {
			assert.Equal(t, "age", args["breakdown"])
			return map[string]any{"data": []any{
				map[string]any{"age": "25-34", "spend": "30.00", "clicks": "300", "impressions": "30000"},
				map[string]any{"age": "18-24", "spend": "10.00", "clicks": "100", "impressions": "10000"},
			}}, nil
		})

	googleMock.EXPECT().
		Call(gomock.Any(), "search_ads", gomock.Any()).
		Return(map[string]any{"data": []any{
			map[string]any{
				"ad_group_criterion.age_range_type": "AGE_RANGE_25_34",
				"metrics.cost_micros":               float64(60_000_000),
				"metrics.clicks":                    float64(600),
				"metrics.impressions":               float64(60000),
			},
		}}, nil)

	report, err := service.GetBreakdown(context.Background(), BreakdownRequest{
		MetaAccountIDs:   []string{"act_1"},
		GoogleAccountIDs: []string{"901"},
		DateStart:        "2026-01-01",
		DateEnd:          "2026-01-31",
		Dimension:        "age",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusOK, report.Status)
	require.Len(t, report.Segments, 2)

	// Faixas etárias em ordem crescente, não por volume.
	first := report.Segments[0]
	assert.Equal(t, "18-24", first.Segment)
	assert.Equal(t, int64(10_000_000), first.Combined.SpendMicros)
	require.NotNil(t, first.SharePct)
	assert.Equal(t, 10.0, *first.SharePct)

	second := report.Segments[1]
	assert.Equal(t, "25-34", second.Segment)
	assert.Equal(t, int64(30_000_000), second.Meta.SpendMicros)
	assert.Equal(t, int64(60_000_000), second.Google.SpendMicros)
	assert.Equal(t, int64(90_000_000), second.Combined.SpendMicros)
	require.NotNil(t, second.SharePct)
	assert.Equal(t, 90.0, *second.SharePct)
}

func TestGetBreakdownPorPais(t *testing.T) {
	service, metaMock, _ := newServiceWithMocks(t)

	metaMock.EXPECT().
		Call(gomock.Any(), "get_insights", gomock.Any()).
		Return(map[string]any{"data": []any{
			map[string]any{"country": "br", "spend": "5.00"},
			map[string]any{"country": "ar", "spend": "3.00"},
			map[string]any{"spend": "1.00"},
		}}, nil)

	report, err := service.GetBreakdown(context.Background(), BreakdownRequest{
		MetaAccountIDs: []string{"act_1"},
		DateStart:      "2026-01-01",
		DateEnd:        "2026-01-31",
		Dimension:      "country",
	})

	require.NoError(t, err)
	require.Len(t, report.Segments, 3)

	// Lexicográfico, com unknown por último; sem share_pct fora das
	// dimensões demográficas.
	assert.Equal(t, "AR", report.Segments[0].Segment)
	assert.Equal(t, "BR", report.Segments[1].Segment)
	assert.Equal(t, "unknown", report.Segments[2].Segment)
	assert.Nil(t, report.Segments[0].SharePct)
}

func TestGetBreakdownDimensaoInvalida(t *testing.T) {
	service, _, _ := newServiceWithMocks(t)

	report, err := service.GetBreakdown(context.Background(), BreakdownRequest{
		DateStart: "2026-01-01",
		DateEnd:   "2026-01-31",
		Dimension: "zodiac_sign",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, report.Status)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "validation", report.Errors[0].Source)
}

func TestSortSegments(t *testing.T) {
	tests := []struct {
		name      string
		dimension string
		keys      []string
		expected  []string
	}{
		{
			name:      "Idade em ordem de faixa",
			dimension: "age",
			keys:      []string{"65+", "unknown", "18-24", "35-44"},
			expected:  []string{"18-24", "35-44", "65+", "unknown"},
		},
		{
			name:      "Gênero em ordem fixa",
			dimension: "gender",
			keys:      []string{"unknown", "female", "male"},
			expected:  []string{"male", "female", "unknown"},
		},
		{
			name:      "Dispositivo por relevância",
			dimension: "device",
			keys:      []string{"tablet", "desktop", "mobile", "connected_tv"},
			expected:  []string{"mobile", "desktop", "tablet", "connected_tv"},
		},
		{
			name:      "Placement lexicográfico com unknown no fim",
			dimension: "placement",
			keys:      []string{"unknown", "instagram", "facebook"},
			expected:  []string{"facebook", "instagram", "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sortSegments(tt.keys, tt.dimension)
			assert.Equal(t, tt.expected, tt.keys)
		})
	}
}
