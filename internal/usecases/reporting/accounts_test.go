package reporting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-bridge/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestCompareAccounts(t *testing.T) {
	service, metaMock, googleMock := newServiceWithMocks(t)

	metaMock.EXPECT().
		Call(gomock.Any(), "get_ad_accounts", gomock.Any()).
		Return(map[string]any{"data": []any{
			map[string]any{"id": "act_1", "name": "Loja", "account_status": "1", "currency": "BRL"},
			map[string]any{"id": "act_2", "name": "Filial"},
		}}, nil)

	googleMock.EXPECT().
		Call(gomock.Any(), "list_accessible_accounts", gomock.Any()).
		Return(map[string]any{"accounts": []any{
			map[string]any{"id": "901", "name": "Conta G", "is_manager": true, "level": float64(0)},
		}}, nil)

	report, err := service.CompareAccounts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.StatusOK, report.Status)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.ByPlatform[string(domain.PlatformMeta)])
	assert.Equal(t, 1, report.ByPlatform[string(domain.PlatformGoogle)])

	// Contas Meta primeiro, na ordem do payload.
	require.Len(t, report.Accounts, 3)
	assert.Equal(t, "act_1", report.Accounts[0].ID)
	assert.Equal(t, "BRL", report.Accounts[0].Currency)
	assert.Equal(t, "901", report.Accounts[2].ID)
	assert.True(t, report.Accounts[2].IsManager)
}

func TestCompareAccountsFalhaDeUmaPlataforma(t *testing.T) {
	service, metaMock, googleMock := newServiceWithMocks(t)

	metaMock.EXPECT().
		Call(gomock.Any(), "get_ad_accounts", gomock.Any()).
		Return(map[string]any{"error": "token expired"}, nil)

	googleMock.EXPECT().
		Call(gomock.Any(), "list_accessible_accounts", gomock.Any()).
		Return(map[string]any{"accounts": []any{
			map[string]any{"id": "901", "name": "Conta G"},
		}}, nil)

	report, err := service.CompareAccounts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPartial, report.Status)
	assert.Equal(t, 1, report.Total)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, domain.PlatformMeta, report.Errors[0].Platform)
}
