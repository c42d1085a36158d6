package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/rogerio-castellano/stocktrack/internal/repo"
	"go.uber.org/zap"
)

// AlertView is an alert with the age-derived fields shown to operators.
type AlertView struct {
	models.Alert
	Elapsed string `json:"elapsed"`
	Overdue bool   `json:"overdue"`
	Urgency int    `json:"urgency"`
}

type AlertQuery struct {
	ProductID *int
	Kind      models.AlertKind
	Priority  models.AlertPriority
	Resolved  *bool
	Page      int
	PageSize  int
}

type AlertPage struct {
	Items      []AlertView
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

type ManualAlertInput struct {
	ProductID int
	Kind      models.AlertKind
	Priority  models.AlertPriority
	Message   string
}

func (in ManualAlertInput) validate() error {
	var errs ValidationErrors
	if !in.Kind.Valid() {
		errs = append(errs, FieldError{Field: "tipo_alerta", Description: "unknown alert kind"})
	}
	if in.Priority != "" && !in.Priority.Valid() {
		errs = append(errs, FieldError{Field: "prioridad", Description: "unknown priority"})
	}
	if strings.TrimSpace(in.Message) == "" {
		errs = append(errs, FieldError{Field: "mensaje", Description: "message is required"})
	}
	return errs.orNil()
}

// ResolveAlert closes an open alert, appending the comment to its message.
func (s *Service) ResolveAlert(ctx context.Context, id int, userID *int, comment string) (models.Alert, error) {
	var resolved models.Alert
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		a, err := r.Alerts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if a.Resolved {
			return ErrAlreadyResolved
		}

		now := s.now()
		a.Resolved = true
		a.ResolvedAt = &now
		a.ResponsibleID = userID
		if c := strings.TrimSpace(comment); c != "" {
			a.Message += "\n[RESUELTO] " + c
		}
		resolved, err = r.Alerts.Update(ctx, a)
		return err
	})
	if err != nil {
		return models.Alert{}, err
	}

	s.logger.Info("alert resolved", zap.Int("alert_id", id))
	return resolved, nil
}

// ReopenAlert marks a resolved alert open again, unless another open alert of the same kind exists.
func (s *Service) ReopenAlert(ctx context.Context, id int, reason string) (models.Alert, error) {
	var reopened models.Alert
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		a, err := r.Alerts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !a.Resolved {
			return ErrNotResolved
		}
		if _, err := r.Alerts.FindOpen(ctx, a.ProductID, a.Kind); err == nil {
			return ErrAlertExists
		} else if !errors.Is(err, repo.ErrAlertNotFound) {
			return err
		}

		a.Resolved = false
		a.ResolvedAt = nil
		a.ResponsibleID = nil
		if why := strings.TrimSpace(reason); why != "" {
			a.Message += "\n[REABIERTA] " + why
		}
		reopened, err = r.Alerts.Update(ctx, a)
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			return ErrAlertExists
		}
		return err
	})
	if err != nil {
		return models.Alert{}, err
	}

	s.logger.Info("alert reopened", zap.Int("alert_id", id))
	return reopened, nil
}

// CreateAlert raises an alert by hand. Priority defaults to medium.
func (s *Service) CreateAlert(ctx context.Context, in ManualAlertInput) (models.Alert, error) {
	if err := in.validate(); err != nil {
		return models.Alert{}, err
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}

	var created models.Alert
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		p, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if !p.Active {
			return repo.ErrProductNotFound
		}
		if _, err := r.Alerts.FindOpen(ctx, p.ID, in.Kind); err == nil {
			return ErrAlertExists
		} else if !errors.Is(err, repo.ErrAlertNotFound) {
			return err
		}

		created, err = r.Alerts.Create(ctx, models.Alert{
			ProductID: p.ID,
			Kind:      in.Kind,
			Priority:  in.Priority,
			Message:   strings.TrimSpace(in.Message),
			CreatedAt: s.now(),
		})
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			return ErrAlertExists
		}
		return err
	})
	if err != nil {
		return models.Alert{}, err
	}
	return created, nil
}

func (s *Service) GetAlert(ctx context.Context, id int) (AlertView, error) {
	a, err := s.store.Repos().Alerts.GetByID(ctx, id)
	if err != nil {
		return AlertView{}, err
	}
	return s.view(a, s.OverdueWindow(ctx)), nil
}

func (s *Service) view(a models.Alert, after time.Duration) AlertView {
	now := s.now()
	return AlertView{
		Alert:   a,
		Elapsed: a.Elapsed(now),
		Overdue: a.Overdue(now, after),
		Urgency: a.Urgency(now, after),
	}
}

// ListAlerts returns alerts ordered by priority, most severe first, then newest first.
func (s *Service) ListAlerts(ctx context.Context, q AlertQuery) (AlertPage, error) {
	if q.Kind != "" && !q.Kind.Valid() {
		return AlertPage{}, ValidationErrors{{Field: "tipo_alerta", Description: "unknown alert kind"}}
	}
	if q.Priority != "" && !q.Priority.Valid() {
		return AlertPage{}, ValidationErrors{{Field: "prioridad", Description: "unknown priority"}}
	}
	page, size := normalizePage(q.Page, q.PageSize)
	offset := (page - 1) * size

	f := repo.AlertFilter{ProductID: q.ProductID, Resolved: q.Resolved, Offset: &offset, Limit: &size}
	if q.Kind != "" {
		f.Kind = &q.Kind
	}
	if q.Priority != "" {
		f.Priority = &q.Priority
	}
	alerts, total, err := s.store.Repos().Alerts.Filter(ctx, f)
	if err != nil {
		return AlertPage{}, fmt.Errorf("list alerts: %w", err)
	}

	window := s.OverdueWindow(ctx)
	items := make([]AlertView, len(alerts))
	for i, a := range alerts {
		items[i] = s.view(a, window)
	}
	return AlertPage{Items: items, Total: total, Page: page, PageSize: size, TotalPages: totalPages(total, size)}, nil
}
