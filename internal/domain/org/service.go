package org

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

func (s *Service) UpdateInstitution(ctx context.Context, actor audit.Actor, inst Institution) error {
	before, err := s.Store.GetInstitution(ctx)
	if err != nil {
		return err
	}
	inst.ID = before.ID

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := updateInstitution(ctx, tx, inst); err != nil {
		return err
	}
	if err := audit.Record(ctx, tx, actor.Entry("org.institution.update", "institution", inst.ID, before, inst)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Service) CreateDepartment(ctx context.Context, actor audit.Actor, dept Department) (string, error) {
	if dept.RequiredHeadcount < 0 {
		return "", ErrHeadcountNegative
	}
	if dept.ParentID != "" {
		parents, err := s.Store.ParentMap(ctx)
		if err != nil {
			return "", err
		}
		if _, ok := parents[dept.ParentID]; !ok {
			return "", ErrReferenceNotFound
		}
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	id, err := insertDepartment(ctx, tx, dept)
	if err != nil {
		return "", err
	}
	if err := audit.Record(ctx, tx, actor.Entry("org.department.create", "department", id, nil, dept)); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Service) UpdateDepartment(ctx context.Context, actor audit.Actor, dept Department) error {
	if dept.RequiredHeadcount < 0 {
		return ErrHeadcountNegative
	}
	before, err := s.Store.GetDepartment(ctx, dept.ID)
	if err != nil {
		return err
	}

	if dept.ParentID != before.ParentID {
		parents, err := s.Store.ParentMap(ctx)
		if err != nil {
			return err
		}
		if err := ValidateParentChange(parents, dept.ID, dept.ParentID); err != nil {
			return err
		}
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := updateDepartment(ctx, tx, dept); err != nil {
		return err
	}
	if err := audit.Record(ctx, tx, actor.Entry("org.department.update", "department", dept.ID, before, dept)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Service) CreatePosition(ctx context.Context, actor audit.Actor, pos Position) (string, error) {
	if err := ValidateSalaryRange(pos.SalaryMin, pos.SalaryMax); err != nil {
		return "", err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	id, err := insertPosition(ctx, tx, pos)
	if err != nil {
		return "", err
	}
	if err := audit.Record(ctx, tx, actor.Entry("org.position.create", "position", id, nil, pos)); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// AssignDepartment opens a new works-in assignment. A primary assignment
// closes the previous open primary in the same transaction.
func (s *Service) AssignDepartment(ctx context.Context, actor audit.Actor, asg DepartmentAssignment) (string, error) {
	if asg.StartDate.IsZero() {
		asg.StartDate = time.Now().UTC().Truncate(24 * time.Hour)
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	if asg.IsPrimary {
		if err := closePrimaryAssignments(ctx, tx, asg.EmployeeID, asg.StartDate); err != nil {
			return "", err
		}
	}

	id, err := insertAssignment(ctx, tx, asg)
	if err != nil {
		return "", err
	}
	if err := audit.Record(ctx, tx, actor.Entry("org.assignment.create", "department_assignment", id, nil, asg)); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}
