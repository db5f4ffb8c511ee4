package api

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/vfg2006/ads-bridge/internal/usecases/reporting"
)

// AppName e AppVersion identificam a bridge no handshake do protocolo.
const (
	AppName    = "ads-bridge"
	AppVersion = "1.0.0"
)

type emptyArgs struct{}

// NewMCPServer registra as sete operações de relatório como tools do
// protocolo. Cada handler devolve o relatório estruturado; apenas
// cancelamento de contexto vira erro de chamada.
func NewMCPServer(service *reporting.Service) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: AppName, Version: AppVersion},
		nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare_performance",
		Description: "Compare Meta + Google Ads performance for a date range, with by_platform, by_account, total, top_campaigns or summary aggregation.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args reporting.PerformanceRequest) (*mcp.CallToolResult, *reporting.PerformanceReport, error) {
		report, err := service.ComparePerformance(ctx, args)
		return nil, report, err
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare_daily_trends",
		Description: "Day-by-day performance trends across Meta and Google Ads, with per-platform and combined rollups.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args reporting.TrendsRequest) (*mcp.CallToolResult, *reporting.TrendsReport, error) {
		report, err := service.CompareDailyTrends(ctx, args)
		return nil, report, err
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_period_comparison",
		Description: "Compare two date ranges across both platforms with absolute and percentage deltas per metric.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args reporting.PeriodComparisonRequest) (*mcp.CallToolResult, *reporting.PeriodComparisonReport, error) {
		report, err := service.GetPeriodComparison(ctx, args)
		return nil, report, err
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_budget_analysis",
		Description: "Cross-platform budget analysis: allocation (spend split + ROAS over a date range) or pacing (in-month budget pacing and projected spend).",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args reporting.BudgetRequest) (*mcp.CallToolResult, *reporting.BudgetReport, error) {
		report, err := service.GetBudgetAnalysis(ctx, args)
		return nil, report, err
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare_accounts",
		Description: "List the ad accounts accessible on both platforms.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args emptyArgs) (*mcp.CallToolResult, *reporting.AccountsReport, error) {
		report, err := service.CompareAccounts(ctx)
		return nil, report, err
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_change_log",
		Description: "Unified change history across Meta and Google Ads accounts, most recent events first.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args reporting.ChangeLogRequest) (*mcp.CallToolResult, *reporting.ChangeLogReport, error) {
		report, err := service.GetChangeLog(ctx, args)
		return nil, report, err
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_breakdown",
		Description: "Compare Meta + Google performance side-by-side by age, gender, device, country or placement.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args reporting.BreakdownRequest) (*mcp.CallToolResult, *reporting.BreakdownReport, error) {
		report, err := service.GetBreakdown(ctx, args)
		return nil, report, err
	})

	return server
}
