package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vfg2006/ads-bridge/internal/domain"
	"github.com/vfg2006/ads-bridge/pkg/log"
	"github.com/vfg2006/ads-bridge/pkg/utils"
)

// Os budgets da Meta chegam em centavos; o fator converte para micros.
const metaCentsToMicros = 10_000

// BudgetRequest parametriza a análise de orçamento. Os campos date_* valem
// para o modo allocation; month_* valem para o modo pacing.
type BudgetRequest struct {
	MetaAccountIDs        []string `json:"meta_account_ids,omitempty"`
	GoogleAccountIDs      []string `json:"google_account_ids,omitempty"`
	AnalysisType          string   `json:"analysis_type,omitempty"`
	DateStart             string   `json:"date_start,omitempty"`
	DateEnd               string   `json:"date_end,omitempty"`
	MonthStart            string   `json:"month_start,omitempty"`
	MonthEnd              string   `json:"month_end,omitempty"`
	GoogleLoginCustomerID string   `json:"google_login_customer_id,omitempty"`
	IncludeRaw            bool     `json:"include_raw,omitempty"`
}

// PlatformAllocation é a fatia de uma plataforma na divisão de gasto.
type PlatformAllocation struct {
	SpendMicros int64   `json:"spend_micros"`
	Spend       string  `json:"spend"`
	Pct         float64 `json:"pct"`
	ROAS        float64 `json:"roas"`
}

// SpendAllocation é a divisão de gasto entre as plataformas no intervalo.
type SpendAllocation struct {
	Meta             PlatformAllocation `json:"meta"`
	Google           PlatformAllocation `json:"google"`
	TotalSpendMicros int64              `json:"total_spend_micros"`
	TotalSpend       string             `json:"total_spend"`
}

// AccountPacing é o pacing mensal de uma conta: orçamento, gasto acumulado,
// projeção e o veredito on_track/underspending/overspending.
type AccountPacing struct {
	Platform             domain.Platform `json:"platform"`
	AccountID            string          `json:"account_id"`
	AccountName          string          `json:"account_name"`
	BudgetMicros         int64           `json:"budget_micros"`
	Budget               string          `json:"budget"`
	SpentMicros          int64           `json:"spent_micros"`
	Spent                string          `json:"spent"`
	ProjectedSpendMicros int64           `json:"projected_spend_micros"`
	ProjectedSpend       string          `json:"projected_spend"`
	PacingPct            float64         `json:"pacing_pct"`
	Status               string          `json:"status"`
}

// PlatformPacingSummary agrega o pacing de todas as contas de uma plataforma.
type PlatformPacingSummary struct {
	TotalBudgetMicros int64   `json:"total_budget_micros"`
	TotalSpentMicros  int64   `json:"total_spent_micros"`
	OverallPacingPct  float64 `json:"overall_pacing_pct"`
}

// BudgetReport é o relatório de orçamento nos dois modos. Os campos de
// allocation e de pacing são mutuamente exclusivos.
type BudgetReport struct {
	Status         domain.Status        `json:"status"`
	NormalizedUnit string               `json:"normalized_unit"`
	AnalysisType   string               `json:"analysis_type"`
	Errors         []domain.ReportError `json:"errors,omitempty"`
	Diagnostics    Diagnostics          `json:"diagnostics,omitempty"`
	RawResults     map[string]any       `json:"platform_results,omitempty"`

	// allocation
	DateStart       string           `json:"date_start,omitempty"`
	DateEnd         string           `json:"date_end,omitempty"`
	SpendAllocation *SpendAllocation `json:"spend_allocation,omitempty"`
	Recommendation  string           `json:"recommendation,omitempty"`

	// pacing
	Month         string                           `json:"month,omitempty"`
	DaysElapsed   int                              `json:"days_elapsed,omitempty"`
	DaysRemaining int                              `json:"days_remaining,omitempty"`
	TotalDays     int                              `json:"total_days,omitempty"`
	Accounts      []AccountPacing                  `json:"accounts,omitempty"`
	Summary       map[string]PlatformPacingSummary `json:"summary,omitempty"`
}

// GetBudgetAnalysis analisa o orçamento nas duas plataformas: allocation
// divide o gasto e compara ROAS num intervalo; pacing projeta o gasto do mês
// contra o orçamento configurado nas campanhas.
func (s *Service) GetBudgetAnalysis(ctx context.Context, req BudgetRequest) (*BudgetReport, error) {
	if req.AnalysisType == "" {
		req.AnalysisType = "allocation"
	}

	report := &BudgetReport{
		NormalizedUnit: NormalizedUnit,
		AnalysisType:   req.AnalysisType,
	}

	switch req.AnalysisType {
	case "allocation":
		return s.budgetAllocation(ctx, req, report)
	case "pacing":
		return s.budgetPacing(ctx, req, report)
	default:
		report.Status = domain.StatusError
		report.Errors = []domain.ReportError{
			domain.ValidationError("analysis_type deve ser 'allocation' ou 'pacing'"),
		}
		return report, nil
	}
}

func (s *Service) budgetAllocation(ctx context.Context, req BudgetRequest, report *BudgetReport) (*BudgetReport, error) {
	report.DateStart = req.DateStart
	report.DateEnd = req.DateEnd

	dateRange := domain.DateRange{Start: req.DateStart, End: req.DateEnd}
	if err := dateRange.Validate(); err != nil {
		report.Status = domain.StatusError
		report.Errors = []domain.ReportError{domain.ValidationError(err.Error())}
		return report, nil
	}

	calls := insightCalls(req.MetaAccountIDs, req.GoogleAccountIDs,
		func(accountID string) map[string]any {
			return map[string]any{
				"account_id": accountID,
				"time_range": map[string]any{"since": req.DateStart, "until": req.DateEnd},
				"level":      "account",
			}
		},
		func(accountID string) map[string]any {
			return googleSearchArgs(
				accountID,
				"customer",
				[]string{
					"customer.id",
					"customer.descriptive_name",
					"metrics.impressions",
					"metrics.clicks",
					"metrics.cost_micros",
					"metrics.conversions",
					"metrics.conversions_value",
					"segments.date",
				},
				dateCondition(dateRange),
				req.GoogleLoginCustomerID,
			)
		},
	)

	outcomes, err := s.gather(ctx, calls)
	if err != nil {
		return nil, err
	}

	rows, reportErrors := collectRows(ctx, outcomes)
	report.Errors = reportErrors
	report.Diagnostics = buildDiagnostics(outcomes)
	if req.IncludeRaw {
		report.RawResults = rawResults(outcomes)
	}

	metaTotals := domain.SumRows(filterByPlatform(rows, domain.PlatformMeta))
	googleTotals := domain.SumRows(filterByPlatform(rows, domain.PlatformGoogle))
	totalSpend := metaTotals.SpendMicros + googleTotals.SpendMicros

	report.SpendAllocation = &SpendAllocation{
		Meta: PlatformAllocation{
			SpendMicros: metaTotals.SpendMicros,
			Spend:       domain.MicrosToDisplay(metaTotals.SpendMicros),
			Pct:         utils.RoundWithTwoDecimalPlace(domain.SafeDivide(float64(metaTotals.SpendMicros), float64(totalSpend)) * 100),
			ROAS:        metaTotals.ROAS,
		},
		Google: PlatformAllocation{
			SpendMicros: googleTotals.SpendMicros,
			Spend:       domain.MicrosToDisplay(googleTotals.SpendMicros),
			Pct:         utils.RoundWithTwoDecimalPlace(domain.SafeDivide(float64(googleTotals.SpendMicros), float64(totalSpend)) * 100),
			ROAS:        googleTotals.ROAS,
		},
		TotalSpendMicros: totalSpend,
		TotalSpend:       domain.MicrosToDisplay(totalSpend),
	}
	report.Recommendation = buildRecommendation(metaTotals.ROAS, googleTotals.ROAS)
	report.Status = domain.StatusFor(len(rows) > 0, len(reportErrors) > 0)

	log.ForContext(ctx).WithFields(log.Fields{
		"total_spend_micros": totalSpend,
		"errors":             len(report.Errors),
		"status":             report.Status,
	}).Info("reporting: budget allocation finished")

	return report, nil
}

// buildRecommendation compara o ROAS das plataformas com uma margem de 20%
// antes de sugerir realocação.
func buildRecommendation(metaROAS, googleROAS float64) string {
	switch {
	case metaROAS <= 0 && googleROAS <= 0:
		return "ROAS data is limited; keep current allocation until conversion value tracking improves."
	case metaROAS > googleROAS*1.2:
		return "Meta shows materially stronger ROAS; consider reallocating incremental budget toward Meta campaigns."
	case googleROAS > metaROAS*1.2:
		return "Google shows materially stronger ROAS; consider reallocating incremental budget toward Google campaigns."
	default:
		return "ROAS is relatively balanced; maintain current split and optimize within each platform."
	}
}

// monthWindow delimita a janela de pacing: do primeiro ao último dia do mês
// por padrão, com o "hoje" preso dentro da janela para meses passados ou
// futuros.
type monthWindow struct {
	start     time.Time
	end       time.Time
	today     time.Time
	totalDays int
	elapsed   int
	remaining int
}

func (s *Service) resolveMonthWindow(req BudgetRequest) (monthWindow, error) {
	now := s.now().UTC().Truncate(24 * time.Hour)

	var start time.Time
	if req.MonthStart != "" {
		parsed, err := time.Parse(time.DateOnly, req.MonthStart)
		if err != nil {
			return monthWindow{}, fmt.Errorf("month_start inválido: %s", req.MonthStart)
		}
		start = parsed
	} else {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	var end time.Time
	if req.MonthEnd != "" {
		parsed, err := time.Parse(time.DateOnly, req.MonthEnd)
		if err != nil {
			return monthWindow{}, fmt.Errorf("month_end inválido: %s", req.MonthEnd)
		}
		end = parsed
	} else {
		end = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, 1, -1)
	}

	if end.Before(start) {
		return monthWindow{}, fmt.Errorf("month_end %s anterior a month_start %s", req.MonthEnd, req.MonthStart)
	}

	today := now
	if today.Before(start) {
		today = start
	}
	if today.After(end) {
		today = end
	}

	totalDays := int(end.Sub(start).Hours()/24) + 1
	elapsed := int(today.Sub(start).Hours()/24) + 1
	remaining := totalDays - elapsed
	if remaining < 0 {
		remaining = 0
	}

	return monthWindow{
		start:     start,
		end:       end,
		today:     today,
		totalDays: totalDays,
		elapsed:   elapsed,
		remaining: remaining,
	}, nil
}

const (
	budgetGroupCampaigns = "campaigns"
	budgetGroupInsights  = "insights"
	budgetGroupBudgets   = "budgets"
	budgetGroupSpend     = "spend"
)

func (s *Service) budgetPacing(ctx context.Context, req BudgetRequest, report *BudgetReport) (*BudgetReport, error) {
	window, err := s.resolveMonthWindow(req)
	if err != nil {
		report.Status = domain.StatusError
		report.Errors = []domain.ReportError{domain.ValidationError(err.Error())}
		return report, nil
	}

	report.Month = window.start.Format("2006-01")
	report.DaysElapsed = window.elapsed
	report.DaysRemaining = window.remaining
	report.TotalDays = window.totalDays
	report.Accounts = []AccountPacing{}

	startStr := window.start.Format(time.DateOnly)
	todayStr := window.today.Format(time.DateOnly)

	calls := make([]call, 0, 2*(len(req.MetaAccountIDs)+len(req.GoogleAccountIDs)))
	for _, accountID := range req.MetaAccountIDs {
		calls = append(calls,
			call{
				platform:  domain.PlatformMeta,
				accountID: accountID,
				group:     budgetGroupCampaigns,
				tool:      "get_campaigns",
				args:      map[string]any{"account_id": accountID, "limit": 100},
			},
			call{
				platform:  domain.PlatformMeta,
				accountID: accountID,
				group:     budgetGroupInsights,
				tool:      "get_insights",
				args: map[string]any{
					"account_id": accountID,
					"time_range": map[string]any{"since": startStr, "until": todayStr},
					"level":      "account",
				},
			},
		)
	}
	for _, accountID := range req.GoogleAccountIDs {
		calls = append(calls,
			call{
				platform:  domain.PlatformGoogle,
				accountID: accountID,
				group:     budgetGroupBudgets,
				tool:      "search_ads",
				args: googleSearchArgs(accountID, "campaign_budget",
					[]string{
						"campaign_budget.amount_micros",
						"campaign_budget.total_amount_micros",
						"campaign.id",
						"campaign.name",
						"campaign.status",
					},
					[]string{"campaign.status = 'ENABLED'"},
					req.GoogleLoginCustomerID),
			},
			call{
				platform:  domain.PlatformGoogle,
				accountID: accountID,
				group:     budgetGroupSpend,
				tool:      "search_ads",
				args: googleSearchArgs(accountID, "customer",
					[]string{
						"customer.id",
						"customer.descriptive_name",
						"metrics.cost_micros",
						"segments.date",
					},
					dateCondition(domain.DateRange{Start: startStr, End: todayStr}),
					req.GoogleLoginCustomerID),
			},
		)
	}

	outcomes, err := s.gather(ctx, calls)
	if err != nil {
		return nil, err
	}

	byAccount := map[string]map[string]outcome{}
	for _, o := range outcomes {
		if o.failure != nil {
			report.Errors = append(report.Errors, *o.failure)
		}
		key := string(o.platform) + ":" + o.accountID
		if byAccount[key] == nil {
			byAccount[key] = map[string]outcome{}
		}
		byAccount[key][o.group] = o
	}

	for _, accountID := range req.MetaAccountIDs {
		group := byAccount[string(domain.PlatformMeta)+":"+accountID]
		campaigns, insights := group[budgetGroupCampaigns], group[budgetGroupInsights]
		if campaigns.failure != nil || insights.failure != nil {
			continue
		}

		budgetMicros := metaMonthlyBudgetMicros(payloadRows(campaigns.payload), window.totalDays)
		insightRows := payloadRows(insights.payload)
		spentMicros := metaSpentMicros(insightRows)

		accountName := ""
		if len(insightRows) > 0 {
			accountName = stringField(insightRows[0], "account_name")
		}

		report.Accounts = append(report.Accounts,
			buildAccountPacing(domain.PlatformMeta, accountID, accountName, budgetMicros, spentMicros, window))
	}

	for _, accountID := range req.GoogleAccountIDs {
		group := byAccount[string(domain.PlatformGoogle)+":"+accountID]
		budgets, spend := group[budgetGroupBudgets], group[budgetGroupSpend]
		if budgets.failure != nil || spend.failure != nil {
			continue
		}

		budgetMicros := googleMonthlyBudgetMicros(payloadRows(budgets.payload), window.totalDays)
		spendRows := payloadRows(spend.payload)
		spentMicros := googleSpentMicros(spendRows)

		accountName := ""
		if len(spendRows) > 0 {
			accountName = stringField(spendRows[0], "customer.descriptive_name")
		}

		report.Accounts = append(report.Accounts,
			buildAccountPacing(domain.PlatformGoogle, accountID, accountName, budgetMicros, spentMicros, window))
	}

	report.Summary = map[string]PlatformPacingSummary{
		string(domain.PlatformMeta):   platformPacingSummary(report.Accounts, domain.PlatformMeta, window),
		string(domain.PlatformGoogle): platformPacingSummary(report.Accounts, domain.PlatformGoogle, window),
	}
	report.Status = domain.StatusFor(len(report.Accounts) > 0, len(report.Errors) > 0)
	report.Diagnostics = buildDiagnostics(outcomes)
	if req.IncludeRaw {
		report.RawResults = rawResults(outcomes)
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"month":    report.Month,
		"accounts": len(report.Accounts),
		"errors":   len(report.Errors),
		"status":   report.Status,
	}).Info("reporting: budget pacing finished")

	return report, nil
}

func buildAccountPacing(platform domain.Platform, accountID, accountName string, budgetMicros, spentMicros int64, window monthWindow) AccountPacing {
	dailyAvg := int64(domain.SafeDivide(float64(spentMicros), float64(window.elapsed)))
	projected := dailyAvg * int64(window.totalDays)
	pacingPct := pacingPercent(spentMicros, budgetMicros, window)

	return AccountPacing{
		Platform:             platform,
		AccountID:            accountID,
		AccountName:          accountName,
		BudgetMicros:         budgetMicros,
		Budget:               domain.MicrosToDisplay(budgetMicros),
		SpentMicros:          spentMicros,
		Spent:                domain.MicrosToDisplay(spentMicros),
		ProjectedSpendMicros: projected,
		ProjectedSpend:       domain.MicrosToDisplay(projected),
		PacingPct:            pacingPct,
		Status:               pacingStatus(pacingPct),
	}
}

// pacingPercent compara o gasto acumulado com a fração do orçamento que
// deveria ter sido consumida até hoje.
func pacingPercent(spentMicros, budgetMicros int64, window monthWindow) float64 {
	expectedToDate := domain.SafeDivide(float64(budgetMicros*int64(window.elapsed)), float64(window.totalDays))
	if expectedToDate == 0 {
		return 0
	}
	return utils.RoundWithTwoDecimalPlace(float64(spentMicros) / expectedToDate * 100)
}

func pacingStatus(pacingPct float64) string {
	switch {
	case pacingPct >= 85 && pacingPct <= 115:
		return "on_track"
	case pacingPct < 85:
		return "underspending"
	default:
		return "overspending"
	}
}

func platformPacingSummary(accounts []AccountPacing, platform domain.Platform, window monthWindow) PlatformPacingSummary {
	var totalBudget, totalSpent int64
	for _, account := range accounts {
		if account.Platform != platform {
			continue
		}
		totalBudget += account.BudgetMicros
		totalSpent += account.SpentMicros
	}
	return PlatformPacingSummary{
		TotalBudgetMicros: totalBudget,
		TotalSpentMicros:  totalSpent,
		OverallPacingPct:  pacingPercent(totalSpent, totalBudget, window),
	}
}

// metaMonthlyBudgetMicros converte os budgets configurados nas campanhas
// ativas para a projeção mensal: daily_budget vale para todos os dias da
// janela, lifetime_budget entra uma única vez.
func metaMonthlyBudgetMicros(campaigns []map[string]any, totalDays int) int64 {
	var budget int64
	for _, campaign := range campaigns {
		if !isActiveMetaCampaign(campaign) {
			continue
		}
		if daily := intField(campaign, "daily_budget"); daily > 0 {
			budget += daily * metaCentsToMicros * int64(totalDays)
			continue
		}
		if lifetime := intField(campaign, "lifetime_budget"); lifetime > 0 {
			budget += lifetime * metaCentsToMicros
		}
	}
	return budget
}

func isActiveMetaCampaign(campaign map[string]any) bool {
	status := stringField(campaign, "status")
	if status == "" {
		status = stringField(campaign, "effective_status")
	}
	if status == "" {
		return true
	}
	status = strings.ToUpper(status)
	return status == "ACTIVE" || status == "ENABLED"
}

func googleMonthlyBudgetMicros(rows []map[string]any, totalDays int) int64 {
	var budget int64
	for _, row := range rows {
		if amount := intField(row, "campaign_budget.amount_micros"); amount > 0 {
			budget += amount * int64(totalDays)
			continue
		}
		if total := intField(row, "campaign_budget.total_amount_micros"); total > 0 {
			budget += total
		}
	}
	return budget
}

func metaSpentMicros(rows []map[string]any) int64 {
	var spent int64
	for _, row := range rows {
		spent += domain.SpendStringToMicros(stringField(row, "spend"))
	}
	return spent
}

func googleSpentMicros(rows []map[string]any) int64 {
	var spent int64
	for _, row := range rows {
		spent += intField(row, "metrics.cost_micros")
	}
	return spent
}
