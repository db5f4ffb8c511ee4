package reporting

import (
	"context"
	"fmt"
	"sync"

	"github.com/vfg2006/ads-bridge/infrastructure/integrator/google"
	"github.com/vfg2006/ads-bridge/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-bridge/internal/domain"
	"github.com/vfg2006/ads-bridge/pkg/log"
)

// call é uma chamada planejada para uma conta de uma plataforma. group separa
// chamadas paralelas para a mesma conta (ex.: budget consulta campanhas e
// insights da mesma conta).
type call struct {
	platform  domain.Platform
	accountID string
	group     string
	tool      string
	args      map[string]any
}

// outcome é o resultado classificado de uma chamada: sucesso com payload, ou
// uma entrada de erro atribuída a (plataforma, conta). Nunca ambos.
type outcome struct {
	call
	payload map[string]any
	failure *domain.ReportError
}

func (o outcome) raw() map[string]any {
	if o.failure != nil {
		return map[string]any{"error": o.failure.Message}
	}
	return o.payload
}

// gather dispara todas as chamadas concorrentemente e espera todas
// terminarem — uma falha individual nunca cancela as irmãs. Os resultados
// voltam na ordem de entrada, independente da ordem de término; isso é o que
// garante merges determinísticos. Apenas cancelamento de contexto retorna
// como erro.
func (s *Service) gather(ctx context.Context, calls []call) ([]outcome, error) {
	outcomes := make([]outcome, len(calls))

	wg := sync.WaitGroup{}
	for i := range calls {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = s.execute(ctx, calls[i])
		}(i)
	}
	wg.Wait()

	// Cancelamento propaga como erro; resultados parciais são descartados
	// para nunca virarem um relatório normal.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return outcomes, nil
}

// execute roda uma chamada e classifica o desfecho: falha de transporte
// (retry já esgotado pelo client), payload malformado, erro de aplicação
// reportado pela plataforma, ou sucesso.
func (s *Service) execute(ctx context.Context, c call) outcome {
	payload, err := s.callerFor(c.platform).Call(ctx, c.tool, c.args)

	switch {
	case err != nil:
		return outcome{call: c, failure: &domain.ReportError{
			Platform:  c.platform,
			AccountID: c.accountID,
			Message:   err.Error(),
		}}

	case payload == nil:
		return outcome{call: c, failure: &domain.ReportError{
			Platform:  c.platform,
			AccountID: c.accountID,
			Message:   fmt.Sprintf("Unexpected %s response: empty payload", c.platform),
		}}

	case payload["error"] != nil:
		return outcome{call: c, failure: &domain.ReportError{
			Platform:  c.platform,
			AccountID: c.accountID,
			Message:   fmt.Sprintf("%v", payload["error"]),
		}}

	default:
		return outcome{call: c, payload: payload}
	}
}

// insightCalls monta o plano de fan-out padrão das operações de performance:
// uma chamada por conta, contas Meta na ordem de entrada seguidas das contas
// Google na ordem de entrada.
func insightCalls(metaIDs, googleIDs []string, metaArgs, googleArgs func(accountID string) map[string]any) []call {
	calls := make([]call, 0, len(metaIDs)+len(googleIDs))

	for _, accountID := range metaIDs {
		calls = append(calls, call{
			platform:  domain.PlatformMeta,
			accountID: accountID,
			tool:      "get_insights",
			args:      metaArgs(accountID),
		})
	}

	for _, accountID := range googleIDs {
		calls = append(calls, call{
			platform:  domain.PlatformGoogle,
			accountID: accountID,
			tool:      "search_ads",
			args:      googleArgs(accountID),
		})
	}

	return calls
}

// collectRows normaliza os sucessos na ordem de entrada e acumula as entradas
// de erro em uma única lista ordenada entre plataformas.
func collectRows(ctx context.Context, outcomes []outcome) ([]domain.MetricRow, []domain.ReportError) {
	var rows []domain.MetricRow
	var reportErrors []domain.ReportError

	for _, o := range outcomes {
		if o.failure != nil {
			reportErrors = append(reportErrors, *o.failure)
			continue
		}

		normalized := normalizeInsights(o.platform, o.payload)
		if len(normalized) == 0 {
			log.ForContext(ctx).WithFields(log.Fields{
				"platform":   o.platform,
				"account_id": o.accountID,
			}).Debug("reporting: account returned no insight rows")
		}
		rows = append(rows, normalized...)
	}

	return rows, reportErrors
}

func normalizeInsights(platform domain.Platform, payload map[string]any) []domain.MetricRow {
	if platform == domain.PlatformGoogle {
		return google.NormalizeInsights(payload)
	}
	return meta.NormalizeInsights(payload)
}

// googleSearchArgs monta os argumentos de search_ads, incluindo o manager
// account quando informado.
func googleSearchArgs(accountID, resource string, fields []string, conditions []string, loginCustomerID string) map[string]any {
	args := map[string]any{
		"customer_id": accountID,
		"resource":    resource,
		"fields":      fields,
		"conditions":  conditions,
	}
	if loginCustomerID != "" {
		args["login_customer_id"] = loginCustomerID
	}
	return args
}

func dateCondition(dateRange domain.DateRange) []string {
	return []string{fmt.Sprintf("segments.date BETWEEN '%s' AND '%s'", dateRange.Start, dateRange.End)}
}
