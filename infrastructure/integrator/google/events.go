package google

import "github.com/vfg2006/ads-bridge/internal/domain"

// NormalizeChangeEvents converte change events do Google Ads em eventos
// unificados, tolerando tanto chaves planas quanto prefixadas por
// change_event.
func NormalizeChangeEvents(payload map[string]any, accountID string) []domain.ChangeEvent {
	items, _ := payload["data"].([]any)

	events := make([]domain.ChangeEvent, 0, len(items))
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		events = append(events, domain.ChangeEvent{
			Platform:   domain.PlatformGoogle,
			Timestamp:  firstString(item, "change_date_time", "change_event.change_date_time", "timestamp"),
			Actor:      firstString(item, "user_email", "change_event.user_email", "user"),
			Action:     firstStringOr("unknown", item, "resource_change_operation", "change_event.resource_change_operation", "operation"),
			ObjectType: firstString(item, "change_resource_type", "change_event.change_resource_type", "resource_type"),
			ObjectName: firstString(item, "change_resource_name", "change_event.change_resource_name", "resource_name"),
			AccountID:  accountID,
		})
	}

	return events
}

// NormalizeAccounts converte a listagem de contas acessíveis do Google Ads.
func NormalizeAccounts(payload map[string]any) []domain.Account {
	items, _ := payload["accounts"].([]any)

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

		isManager, _ := item["is_manager"].(bool)

		accounts = append(accounts, domain.Account{
			Platform:   domain.PlatformGoogle,
			ID:         asString(item["id"]),
			Name:       name,
			IsManager:  isManager,
			AccessType: asString(item["access_type"]),
			Level:      asInt(item["level"]),
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
