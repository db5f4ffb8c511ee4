package reporting

import (
	"context"
	"sort"
	"time"

	"github.com/vfg2006/ads-bridge/infrastructure/integrator/google"
	"github.com/vfg2006/ads-bridge/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-bridge/internal/domain"
	"github.com/vfg2006/ads-bridge/pkg/log"
)

// Formatos de timestamp que as plataformas retornam nos eventos.
var eventTimestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ChangeLogRequest parametriza o histórico unificado de alterações.
type ChangeLogRequest struct {
	MetaAccountIDs        []string `json:"meta_account_ids,omitempty"`
	GoogleAccountIDs      []string `json:"google_account_ids,omitempty"`
	DateStart             string   `json:"date_start"`
	DateEnd               string   `json:"date_end"`
	GoogleLoginCustomerID string   `json:"google_login_customer_id,omitempty"`
	Limit                 int      `json:"limit,omitempty"`
}

// ChangeLogReport é o histórico de alterações mesclado das duas plataformas,
// do evento mais recente ao mais antigo.
type ChangeLogReport struct {
	Status     domain.Status        `json:"status"`
	DateStart  string               `json:"date_start"`
	DateEnd    string               `json:"date_end"`
	Events     []domain.ChangeEvent `json:"events"`
	Count      int                  `json:"count"`
	ByPlatform map[string]int       `json:"by_platform"`
	Errors     []domain.ReportError `json:"errors,omitempty"`
}

// GetChangeLog mescla os eventos de alteração das duas plataformas em uma
// linha do tempo única, ordenada do mais recente para o mais antigo.
func (s *Service) GetChangeLog(ctx context.Context, req ChangeLogRequest) (*ChangeLogReport, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}

	report := &ChangeLogReport{
		DateStart:  req.DateStart,
		DateEnd:    req.DateEnd,
		Events:     []domain.ChangeEvent{},
		ByPlatform: map[string]int{},
	}

	dateRange := domain.DateRange{Start: req.DateStart, End: req.DateEnd}
	if err := dateRange.Validate(); err != nil {
		report.Status = domain.StatusError
		report.Errors = []domain.ReportError{domain.ValidationError(err.Error())}
		return report, nil
	}

	calls := make([]call, 0, len(req.MetaAccountIDs)+len(req.GoogleAccountIDs))
	for _, accountID := range req.MetaAccountIDs {
		calls = append(calls, call{
			platform:  domain.PlatformMeta,
			accountID: accountID,
			tool:      "get_account_activities",
			args: map[string]any{
				"account_id": accountID,
				"since":      req.DateStart,
				"until":      req.DateEnd,
				"limit":      req.Limit,
			},
		})
	}
	for _, accountID := range req.GoogleAccountIDs {
		args := map[string]any{
			"customer_id": accountID,
			"start_date":  req.DateStart,
			"end_date":    req.DateEnd,
			"limit":       req.Limit,
		}
		if req.GoogleLoginCustomerID != "" {
			args["login_customer_id"] = req.GoogleLoginCustomerID
		}
		calls = append(calls, call{
			platform:  domain.PlatformGoogle,
			accountID: accountID,
			tool:      "get_change_events",
			args:      args,
		})
	}

	outcomes, err := s.gather(ctx, calls)
	if err != nil {
		return nil, err
	}

	for _, o := range outcomes {
		if o.failure != nil {
			report.Errors = append(report.Errors, *o.failure)
			continue
		}
		if o.platform == domain.PlatformGoogle {
			report.Events = append(report.Events, google.NormalizeChangeEvents(o.payload, o.accountID)...)
		} else {
			report.Events = append(report.Events, meta.NormalizeChangeEvents(o.payload, o.accountID)...)
		}
	}

	sortEventsByRecency(report.Events)

	report.Count = len(report.Events)
	for _, event := range report.Events {
		report.ByPlatform[string(event.Platform)]++
	}
	report.Status = domain.StatusFor(len(report.Events) > 0, len(report.Errors) > 0)

	log.ForContext(ctx).WithFields(log.Fields{
		"events": report.Count,
		"errors": len(report.Errors),
		"status": report.Status,
	}).Info("reporting: change log finished")

	return report, nil
}

// sortEventsByRecency ordena do mais recente para o mais antigo. Timestamps
// que não parseiam em nenhum formato conhecido vão para o fim, ordenados
// lexicograficamente entre si.
func sortEventsByRecency(events []domain.ChangeEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		ti, okI := parseEventTimestamp(events[i].Timestamp)
		tj, okJ := parseEventTimestamp(events[j].Timestamp)

		if okI != okJ {
			return okI
		}
		if okI && !ti.Equal(tj) {
			return ti.After(tj)
		}
		return events[i].Timestamp > events[j].Timestamp
	})
}

func parseEventTimestamp(raw string) (time.Time, bool) {
	for _, layout := range eventTimestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
