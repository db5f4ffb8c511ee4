package reporting

import (
	"sort"

	"github.com/vfg2006/ads-bridge/internal/domain"
)

// chaves de payload que carregam linhas de dados, em qualquer plataforma.
var rowBearingKeys = []string{"data", "events", "recommendations", "accounts"}

// PlatformDiagnostics resume a cobertura da consulta em uma plataforma: é uma
// amostra de esquema, não um manifesto completo.
type PlatformDiagnostics struct {
	AccountsQueried    int      `json:"accounts_queried"`
	RowsReturned       int      `json:"rows_returned"`
	AccountsWithErrors []string `json:"accounts_with_errors"`
	SampleRowFields    []string `json:"sample_row_fields,omitempty"`
}

// Diagnostics agrupa o resumo de cobertura por plataforma.
type Diagnostics map[string]*PlatformDiagnostics

// buildDiagnostics deriva o bloco de diagnóstico dos outcomes de um fan-out.
func buildDiagnostics(outcomes []outcome) Diagnostics {
	diagnostics := Diagnostics{
		string(domain.PlatformMeta):   {AccountsWithErrors: []string{}},
		string(domain.PlatformGoogle): {AccountsWithErrors: []string{}},
	}

	seen := map[string]map[string]bool{
		string(domain.PlatformMeta):   {},
		string(domain.PlatformGoogle): {},
	}

	for _, o := range outcomes {
		entry := diagnostics[string(o.platform)]
		if entry == nil {
			continue
		}

		if !seen[string(o.platform)][o.accountID] {
			seen[string(o.platform)][o.accountID] = true
			entry.AccountsQueried++
		}

		if o.failure != nil || payloadHasError(o.payload) {
			if !contains(entry.AccountsWithErrors, o.accountID) {
				entry.AccountsWithErrors = append(entry.AccountsWithErrors, o.accountID)
			}
			if o.failure != nil {
				continue
			}
		}

		entry.RowsReturned += countPayloadRows(o.payload)
		if len(entry.SampleRowFields) == 0 {
			entry.SampleRowFields = sampleRowFields(o.payload)
		}
	}

	return diagnostics
}

// rawResults monta os payloads brutos por conta, anexados ao relatório apenas
// quando o chamador pede explicitamente.
func rawResults(outcomes []outcome) map[string]any {
	byPlatform := map[string]any{}

	for _, platform := range []domain.Platform{domain.PlatformMeta, domain.PlatformGoogle} {
		accounts := map[string]any{}
		for _, o := range outcomes {
			if o.platform != platform {
				continue
			}
			key := o.accountID
			if o.group != "" {
				key = o.accountID + ":" + o.group
			}
			accounts[key] = o.raw()
		}
		byPlatform[string(platform)] = map[string]any{"accounts": accounts}
	}

	return byPlatform
}

// countPayloadRows conta as linhas das chaves portadoras de dados, descendo
// um único nível de aninhamento.
func countPayloadRows(payload map[string]any) int {
	count := 0
	for _, key := range rowBearingKeys {
		if rows, ok := payload[key].([]any); ok {
			count += len(rows)
		}
	}

	if count > 0 {
		return count
	}

	for _, value := range payload {
		nested, ok := value.(map[string]any)
		if !ok {
			continue
		}
		for _, key := range rowBearingKeys {
			if rows, ok := nested[key].([]any); ok {
				count += len(rows)
			}
		}
	}

	return count
}

// payloadHasError detecta um erro reportado no topo do payload ou um nível
// abaixo.
func payloadHasError(payload map[string]any) bool {
	if payload == nil {
		return false
	}
	if _, ok := payload["error"]; ok {
		return true
	}
	for _, value := range payload {
		if nested, ok := value.(map[string]any); ok {
			if _, ok := nested["error"]; ok {
				return true
			}
		}
	}
	return false
}

// sampleRowFields devolve o conjunto ordenado de campos da primeira linha
// retornada.
func sampleRowFields(payload map[string]any) []string {
	for _, key := range rowBearingKeys {
		rows, ok := payload[key].([]any)
		if !ok || len(rows) == 0 {
			continue
		}
		row, ok := rows[0].(map[string]any)
		if !ok {
			continue
		}

		fields := make([]string, 0, len(row))
		for field := range row {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		return fields
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
