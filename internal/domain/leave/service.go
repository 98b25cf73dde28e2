package leave

import (
	"context"
	"fmt"
	"strconv"
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

func (s *Service) CreateType(ctx context.Context, actor audit.Actor, lt Type) (string, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	id, err := insertType(ctx, tx, lt)
	if err != nil {
		return "", err
	}
	if err := audit.Record(ctx, tx, actor.Entry("leave.type.create", "leave_type", id, nil, lt)); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Service) UpdateType(ctx context.Context, actor audit.Actor, lt Type) error {
	before, err := s.Store.GetType(ctx, lt.ID)
	if err != nil {
		return err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := updateType(ctx, tx, lt); err != nil {
		return err
	}
	if err := audit.Record(ctx, tx, actor.Entry("leave.type.update", "leave_type", lt.ID, before, lt)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Submit files a pending request. The day count is derived from business
// days minus registered holidays; the balance check here is advisory, the
// binding check happens again at approval time.
func (s *Service) Submit(ctx context.Context, actor audit.Actor, req Request) (string, error) {
	lt, err := s.Store.GetType(ctx, req.LeaveTypeID)
	if err != nil {
		return "", err
	}
	if !lt.IsActive {
		return "", fmt.Errorf("%w: %s", ErrTypeInactive, lt.Name)
	}

	holidays, err := s.Store.Holidays(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return "", err
	}
	days, err := BusinessDays(req.StartDate, req.EndDate, holidays)
	if err != nil {
		return "", err
	}
	if days == 0 {
		return "", ErrNoWorkingDays
	}
	req.Days = days

	bal, err := getBalance(ctx, s.DB, req.EmployeeID, req.LeaveTypeID, req.StartDate.Year())
	if err != nil {
		return "", err
	}
	if days > Remaining(*lt, bal) {
		return "", fmt.Errorf("%w: requested %d, remaining %d", ErrInsufficientBalance, days, Remaining(*lt, bal))
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	id, err := insertRequest(ctx, tx, req)
	if err != nil {
		return "", err
	}
	if err := audit.Record(ctx, tx, actor.Entry("leave.request.submit", "leave_request", id, nil, req)); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// Approve decides a pending request. Both the request row and the balance
// row are locked before the remaining-balance check, so concurrent approvals
// of different requests against the same balance serialize; if the request
// no longer fits, nothing changes and the caller gets ErrInsufficientBalance.
func (s *Service) Approve(ctx context.Context, actor audit.Actor, requestID, approverID string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	before, err := getRequestForUpdate(ctx, tx, requestID)
	if err != nil {
		return err
	}
	if !CanTransition(before.Status, StatusApproved) {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, before.Status, StatusApproved)
	}

	lt, err := getType(ctx, tx, before.LeaveTypeID)
	if err != nil {
		return err
	}
	if !lt.IsActive {
		return fmt.Errorf("%w: %s", ErrTypeInactive, lt.Name)
	}

	year := before.StartDate.Year()
	bal, err := getBalanceForUpdate(ctx, tx, before.EmployeeID, before.LeaveTypeID, year)
	if err != nil {
		return err
	}
	if before.Days > Remaining(*lt, bal) {
		return fmt.Errorf("%w: requested %d, remaining %d", ErrInsufficientBalance, before.Days, Remaining(*lt, bal))
	}

	if err := setRequestStatus(ctx, tx, requestID, StatusApproved, approverID); err != nil {
		return err
	}
	if err := adjustUsedDays(ctx, tx, before.EmployeeID, before.LeaveTypeID, year, before.Days); err != nil {
		return err
	}

	after := *before
	after.Status = StatusApproved
	after.ApproverID = approverID
	if err := audit.Record(ctx, tx, actor.Entry("leave.request.approve", "leave_request", requestID, before, after)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Service) Reject(ctx context.Context, actor audit.Actor, requestID, approverID string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	before, err := getRequestForUpdate(ctx, tx, requestID)
	if err != nil {
		return err
	}
	if !CanTransition(before.Status, StatusRejected) {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, before.Status, StatusRejected)
	}

	if err := setRequestStatus(ctx, tx, requestID, StatusRejected, approverID); err != nil {
		return err
	}

	after := *before
	after.Status = StatusRejected
	after.ApproverID = approverID
	if err := audit.Record(ctx, tx, actor.Entry("leave.request.reject", "leave_request", requestID, before, after)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Cancel withdraws a request. Cancelling an approved request re-credits the
// balance exactly once; the row lock plus the status check make a repeated
// cancel a no-op rather than a double credit.
func (s *Service) Cancel(ctx context.Context, actor audit.Actor, requestID string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	before, err := getRequestForUpdate(ctx, tx, requestID)
	if err != nil {
		return err
	}
	if before.Status == StatusCancelled {
		return nil
	}
	if !CanTransition(before.Status, StatusCancelled) {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, before.Status, StatusCancelled)
	}

	if err := setRequestStatus(ctx, tx, requestID, StatusCancelled, before.ApproverID); err != nil {
		return err
	}
	if before.Status == StatusApproved {
		year := before.StartDate.Year()
		if err := adjustUsedDays(ctx, tx, before.EmployeeID, before.LeaveTypeID, year, -before.Days); err != nil {
			return err
		}
	}

	after := *before
	after.Status = StatusCancelled
	if err := audit.Record(ctx, tx, actor.Entry("leave.request.cancel", "leave_request", requestID, before, after)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Service) AddHoliday(ctx context.Context, actor audit.Actor, hol Holiday) (string, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	id, err := insertHoliday(ctx, tx, hol)
	if err != nil {
		return "", err
	}
	if err := audit.Record(ctx, tx, actor.Entry("leave.holiday.create", "holiday", id, nil, hol)); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Service) RemoveHoliday(ctx context.Context, actor audit.Actor, holidayID string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := deleteHoliday(ctx, tx, holidayID); err != nil {
		return err
	}
	if err := audit.Record(ctx, tx, actor.Entry("leave.holiday.delete", "holiday", holidayID, nil, nil)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// RunCarryForward rolls unused entitlement from fromYear into the next
// year for every active employee and carry-enabled type. Safe to re-run;
// the rollover overwrites rather than accumulates.
func (s *Service) RunCarryForward(ctx context.Context, actor audit.Actor, fromYear int) (int, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	rows, err := listCarryForwardRows(ctx, tx, fromYear)
	if err != nil {
		return 0, err
	}

	seeded := 0
	for _, row := range rows {
		carried := CarryForward(row.Type, row.Balance)
		if carried == 0 {
			continue
		}
		if err := upsertCarriedForward(ctx, tx, row.EmployeeID, row.Type.ID, fromYear+1, carried); err != nil {
			return 0, err
		}
		seeded++
	}
	if seeded > 0 {
		entry := actor.Entry("leave.carry_forward.run", "leave_balance", strconv.Itoa(fromYear), nil,
			map[string]any{"fromYear": fromYear, "seeded": seeded})
		if err := audit.Record(ctx, tx, entry); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return seeded, nil
}

// Balances surfaces the derived per-type balances for an employee.
func (s *Service) Balances(ctx context.Context, employeeID string, year int) ([]BalanceView, error) {
	if year == 0 {
		year = time.Now().UTC().Year()
	}
	return s.Store.Balances(ctx, employeeID, year)
}
