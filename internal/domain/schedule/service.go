package schedule

import (
	"context"
	"time"

	"hrms/internal/domain/audit"
	"hrms/internal/platform/querier"
)

type Service struct {
	DB    querier.TxBeginner
	Store *Store
}

func NewService(db querier.TxBeginner) *Service {
	return &Service{DB: db, Store: NewStore(db)}
}

func (s *Service) CreateTemplate(ctx context.Context, actor audit.Actor, tpl ShiftTemplate) (string, error) {
	if err := ValidateTemplate(tpl); err != nil {
		return "", err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	id, err := insertTemplate(ctx, tx, tpl)
	if err != nil {
		return "", err
	}
	if err := audit.Record(ctx, tx, actor.Entry("schedule.template.create", "shift_template", id, nil, tpl)); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Service) UpdateTemplate(ctx context.Context, actor audit.Actor, tpl ShiftTemplate) error {
	if err := ValidateTemplate(tpl); err != nil {
		return err
	}
	before, err := s.Store.GetTemplate(ctx, tpl.ID)
	if err != nil {
		return err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := updateTemplate(ctx, tx, tpl); err != nil {
		return err
	}
	if err := audit.Record(ctx, tx, actor.Entry("schedule.template.update", "shift_template", tpl.ID, before, tpl)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Assign schedules an employee for one date. The unique constraint on
// (employee, date) is the conflict check; a duplicate surfaces as
// ErrScheduleConflict.
func (s *Service) Assign(ctx context.Context, actor audit.Actor, sch Schedule) (string, error) {
	tpl, err := s.Store.GetTemplate(ctx, sch.ShiftTemplateID)
	if err != nil {
		return "", err
	}
	if !tpl.IsActive {
		return "", ErrTemplateIdle
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	id, err := insertSchedule(ctx, tx, sch)
	if err != nil {
		return "", err
	}
	if err := audit.Record(ctx, tx, actor.Entry("schedule.assign", "schedule", id, nil, sch)); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// AssignRange schedules an employee for every date in [from, to] that is not
// already taken. Existing days are skipped, not treated as errors.
func (s *Service) AssignRange(ctx context.Context, actor audit.Actor, employeeID, templateID string, from, to time.Time, notes string) ([]string, error) {
	if to.Before(from) {
		return nil, ErrEmptyDateSpan
	}
	tpl, err := s.Store.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !tpl.IsActive {
		return nil, ErrTemplateIdle
	}

	existing, err := s.Store.ListSchedules(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(existing))
	for _, sch := range existing {
		taken[sch.Date.Format(time.DateOnly)] = true
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var created []string
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if taken[day.Format(time.DateOnly)] {
			continue
		}
		sch := Schedule{EmployeeID: employeeID, ShiftTemplateID: templateID, Date: day, Notes: notes}
		id, err := insertSchedule(ctx, tx, sch)
		if err != nil {
			return nil, err
		}
		if err := audit.Record(ctx, tx, actor.Entry("schedule.assign", "schedule", id, nil, sch)); err != nil {
			return nil, err
		}
		created = append(created, id)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) Unassign(ctx context.Context, actor audit.Actor, scheduleID string) error {
	before, err := s.Store.GetSchedule(ctx, scheduleID)
	if err != nil {
		return err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := deleteSchedule(ctx, tx, scheduleID); err != nil {
		return err
	}
	if err := audit.Record(ctx, tx, actor.Entry("schedule.unassign", "schedule", scheduleID, before, nil)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
