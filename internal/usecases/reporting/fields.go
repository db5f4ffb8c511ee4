package reporting

import (
	"fmt"
	"strconv"
)

// payloadRows extrai a lista "data" de um payload de upstream, ignorando
// entradas que não são objetos.
func payloadRows(payload map[string]any) []map[string]any {
	if payload == nil {
		return nil
	}
	data, ok := payload["data"].([]any)
	if !ok {
		return nil
	}

	rows := make([]map[string]any, 0, len(data))
	for _, item := range data {
		if row, ok := item.(map[string]any); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func stringField(row map[string]any, key string) string {
	value, ok := row[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func floatField(row map[string]any, key string) float64 {
	switch value := row[key].(type) {
	case float64:
		return value
	case int64:
		return float64(value)
	case int:
		return float64(value)
	case string:
		if value == "" {
			return 0
		}
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return 0
}

// intField coage os formatos numéricos que as plataformas retornam: inteiro,
// float de JSON ou string numérica.
func intField(row map[string]any, key string) int64 {
	switch value := row[key].(type) {
	case int64:
		return value
	case int:
		return int64(value)
	case float64:
		return int64(value)
	case string:
		if value == "" {
			return 0
		}
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return int64(parsed)
		}
	}
	return 0
}
