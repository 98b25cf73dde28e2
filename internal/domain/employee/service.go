package employee

import (
	"context"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/platform/querier"
)

type Service struct {
	DB    querier.TxBeginner
	Store *Store
}

func NewService(db querier.TxBeginner) *Service {
	return &Service{DB: db, Store: NewStore(db)}
}

// CreateInput carries everything needed to onboard an employee. The login
// account is created in the same transaction as the employee row.
type CreateInput struct {
	Employee Employee
	Password string
	Role     string
}

func (s *Service) Create(ctx context.Context, actor audit.Actor, in CreateInput) (string, error) {
	if in.Employee.ManagerID != "" {
		managers, err := s.Store.ManagerMap(ctx)
		if err != nil {
			return "", err
		}
		if _, ok := managers[in.Employee.ManagerID]; !ok {
			return "", ErrReferenceNotFound
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return "", err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	userID, err := auth.InsertUser(ctx, tx, in.Employee.Email, hash, in.Role)
	if err != nil {
		return "", err
	}
	in.Employee.UserID = userID

	id, err := insertEmployee(ctx, tx, in.Employee)
	if err != nil {
		return "", err
	}
	if err := audit.Record(ctx, tx, actor.Entry("employee.create", "employee", id, nil, in.Employee)); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Service) Update(ctx context.Context, actor audit.Actor, emp Employee) error {
	before, err := s.Store.GetEmployee(ctx, emp.ID)
	if err != nil {
		return err
	}

	if emp.ManagerID != before.ManagerID {
		managers, err := s.Store.ManagerMap(ctx)
		if err != nil {
			return err
		}
		if err := ValidateManagerChange(managers, emp.ID, emp.ManagerID); err != nil {
			return err
		}
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := updateEmployee(ctx, tx, emp); err != nil {
		return err
	}
	if err := audit.Record(ctx, tx, actor.Entry("employee.update", "employee", emp.ID, before, emp)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ReportingLine resolves the managers above an employee, nearest first.
func (s *Service) ReportingLine(ctx context.Context, employeeID string) ([]Employee, error) {
	if _, err := s.Store.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	managers, err := s.Store.ManagerMap(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := ManagerChain(managers, employeeID)
	if err != nil {
		return nil, err
	}

	chain := make([]Employee, 0, len(ids))
	for _, id := range ids {
		mgr, err := s.Store.GetEmployee(ctx, id)
		if err != nil {
			return nil, err
		}
		chain = append(chain, *mgr)
	}
	return chain, nil
}

// Deactivate retires an employee and their login without deleting history.
func (s *Service) Deactivate(ctx context.Context, actor audit.Actor, employeeID string) error {
	before, err := s.Store.GetEmployee(ctx, employeeID)
	if err != nil {
		return err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := setEmployeeStatus(ctx, tx, employeeID, StatusInactive); err != nil {
		return err
	}
	if err := auth.DeactivateUser(ctx, tx, before.UserID); err != nil {
		return err
	}
	if err := audit.Record(ctx, tx, actor.Entry("employee.deactivate", "employee", employeeID, before, nil)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
