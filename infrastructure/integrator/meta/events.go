package meta

import "github.com/vfg2006/ads-bridge/internal/domain"

// NormalizeChangeEvents converte atividades de conta do Meta em eventos
// unificados. Os campos variam entre versões da API, então cada campo tem uma
// cadeia de fallbacks.
func NormalizeChangeEvents(payload map[string]any, accountID string) []domain.ChangeEvent {
	items, _ := payload["data"].([]any)

	events := make([]domain.ChangeEvent, 0, len(items))
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		events = append(events, domain.ChangeEvent{
			Platform:   domain.PlatformMeta,
			Timestamp:  firstString(item, "event_time", "created_time", "timestamp"),
			Actor:      firstString(item, "actor_name", "actor", "user_name"),
			Action:     firstStringOr("unknown", item, "translated_event_type", "event_type", "action"),
			ObjectType: firstString(item, "object_type", "entity_type"),
			ObjectName: firstString(item, "object_name", "entity_name", "object_id"),
			Details:    firstValue(item, "extra_data", "details"),
			AccountID:  accountID,
		})
	}

	return events
}

// NormalizeAccounts converte a listagem de contas do Meta.
func NormalizeAccounts(payload map[string]any) []domain.Account {
	items, _ := payload["data"].([]any)

	accounts := make([]domain.Account, 0, len(items))
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		name := asString(item["name"])
		if name == "" {
			name = "Unknown"
		}

		accounts = append(accounts, domain.Account{
			Platform: domain.PlatformMeta,
			ID:       asString(item["id"]),
			Name:     name,
			Status:   asString(item["account_status"]),
			Currency: asString(item["currency"]),
		})
	}

	return accounts
}

func firstString(item map[string]any, keys ...string) string {
	for _, key := range keys {
		if value := asString(item[key]); value != "" {
			return value
		}
	}
	return ""
}

func firstStringOr(fallback string, item map[string]any, keys ...string) string {
	if value := firstString(item, keys...); value != "" {
		return value
	}
	return fallback
}

func firstValue(item map[string]any, keys ...string) any {
	for _, key := range keys {
		if value, ok := item[key]; ok && value != nil {
			return value
		}
	}
	return nil
}
