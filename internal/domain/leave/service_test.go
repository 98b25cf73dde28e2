package leave

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/internal/domain/audit"
)

func testActor() audit.Actor {
	return audit.Actor{UserID: "admin-1", RequestID: "test-req"}
}

var requestRowColumns = []string{
	"id", "employee_id", "leave_type_id", "name", "start_date", "end_date", "days",
	"reason", "status", "approver_id", "decided_at", "created_at", "updated_at",
}

func requestRow(mock pgxmock.PgxPoolIface, status string, days int) *pgxmock.Rows {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)
	return mock.NewRows(requestRowColumns).
		AddRow("req-1", "emp-1", "type-1", "Annual", start, end, days, "", status, "", nil, now, now)
}

func typeRow(mock pgxmock.PgxPoolIface, active bool) *pgxmock.Rows {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return mock.NewRows([]string{
		"id", "name", "description", "days_per_year", "is_paid", "requires_approval",
		"carry_forward_allowed", "max_carry_forward", "is_active", "created_at",
	}).AddRow("type-1", "Annual", "", 25, true, true, true, 5, active, created)
}

// expectLockedBalance mirrors the ensure-then-lock read the approval path
// performs on leave_balances.
func expectLockedBalance(mock pgxmock.PgxPoolIface, carried, used int) {
	mock.ExpectExec("INSERT INTO leave_balances").
		WithArgs("emp-1", "type-1", 2025).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery(`(?s)FROM leave_balances.*FOR UPDATE`).
		WithArgs("emp-1", "type-1", 2025).
		WillReturnRows(mock.NewRows([]string{"carried_forward", "used_days"}).AddRow(carried, used))
}

// An approval that no longer fits the balance must roll back without
// touching leave_balances.
func TestApproveOverBalanceLeavesBalanceUntouched(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE OF r").WithArgs("req-1").
		WillReturnRows(requestRow(mock, StatusPending, 20))
	mock.ExpectQuery("FROM leave_types").WithArgs("type-1").
		WillReturnRows(typeRow(mock, true))
	// 25 + 3 carried - 18 used leaves 10, the request wants 20.
	expectLockedBalance(mock, 3, 18)
	mock.ExpectRollback()

	svc := NewService(mock)
	err = svc.Approve(context.Background(), testActor(), "req-1", "mgr-1")
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Two approvals against the same balance serialize on the locked balance
// row. The second one acquires the lock only after the first committed its
// used_days increment, so it sees the consumed balance and fails instead of
// jointly overrunning the allocation.
func TestApproveAfterRivalApprovalSeesConsumedBalance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE OF r").WithArgs("req-1").
		WillReturnRows(requestRow(mock, StatusPending, 6))
	mock.ExpectQuery("FROM leave_types").WithArgs("type-1").
		WillReturnRows(typeRow(mock, true))
	// A rival request for 7 days was approved first: used_days is already 25
	// of the 28 allowed, leaving 3. This request wants 6.
	expectLockedBalance(mock, 3, 25)
	mock.ExpectRollback()

	svc := NewService(mock)
	err = svc.Approve(context.Background(), testActor(), "req-1", "mgr-1")
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveInactiveTypeIsConfigError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE OF r").WithArgs("req-1").
		WillReturnRows(requestRow(mock, StatusPending, 5))
	mock.ExpectQuery("FROM leave_types").WithArgs("type-1").
		WillReturnRows(typeRow(mock, false))
	mock.ExpectRollback()

	svc := NewService(mock)
	err = svc.Approve(context.Background(), testActor(), "req-1", "mgr-1")
	assert.ErrorIs(t, err, ErrTypeInactive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Cancelling an already cancelled request succeeds without writing anything,
// so the earlier re-credit cannot happen twice.
func TestCancelIsIdempotent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE OF r").WithArgs("req-1").
		WillReturnRows(requestRow(mock, StatusCancelled, 5))
	mock.ExpectRollback()

	svc := NewService(mock)
	err = svc.Cancel(context.Background(), testActor(), "req-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Cancelling an approved request restores used_days by exactly the days the
// request consumed.
func TestCancelApprovedRecreditsBalance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE OF r").WithArgs("req-1").
		WillReturnRows(requestRow(mock, StatusApproved, 5))
	mock.ExpectExec("UPDATE leave_requests").
		WithArgs(StatusCancelled, nil, "req-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO leave_balances").
		WithArgs("emp-1", "type-1", 2025, -5).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO audit_events").
		WithArgs("admin-1", "leave.request.cancel", "leave_request", "req-1",
			pgxmock.AnyArg(), pgxmock.AnyArg(), "test-req", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	svc := NewService(mock)
	err = svc.Cancel(context.Background(), testActor(), "req-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectDecidedRequestFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE OF r").WithArgs("req-1").
		WillReturnRows(requestRow(mock, StatusApproved, 5))
	mock.ExpectRollback()

	svc := NewService(mock)
	err = svc.Reject(context.Background(), testActor(), "req-1", "mgr-1")
	assert.ErrorIs(t, err, ErrBadTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}
