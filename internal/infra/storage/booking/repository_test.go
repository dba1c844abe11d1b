package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	return NewRepository(db), mock, func() { db.Close() }
}

func bookingRow() *sqlmock.Rows {
	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(bookingColumns).AddRow(
		int64(1),                  // id
		int64(1),                  // org_id
		int64(42),                 // user_id
		int64(10),                 // service_id
		int64(100),                // customer_vehicle_id
		int64(7),                  // wash_center_id
		int64(8),                  // employee_id
		nil,                       // fleet_vehicle_id
		now,                       // scheduled_start
		now.Add(30*time.Minute),   // scheduled_end
		"confirmed",               // status
		1500.0,                    // total_price
		nil,                       // address
		"Premium Wash",            // service_name
		"center",                  // service_type
		"Ivan",                    // customer_name
		"ivan@example.com",        // customer_email
		nil,                       // customer_phone
		"A001AA",                  // vehicle_plate
		"Toyota",                  // vehicle_brand
		"Camry",                   // vehicle_model
		nil,                       // notes
		nil,                       // cancellation_reason
		nil,                       // canceled_by
		nil,                       // canceled_at
		nil,                       // completed_at
		now,                       // created_at
		now,                       // updated_at
	)
}

func TestGetByID(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery("SELECT .+ FROM bookings WHERE id = ").
		WithArgs(int64(1)).
		WillReturnRows(bookingRow())

	b, err := repo.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ID != 1 || b.Status != domain.StatusConfirmed {
		t.Fatalf("unexpected booking: id=%d status=%s", b.ID, b.Status)
	}
	if b.WashCenterID == nil || *b.WashCenterID != 7 {
		t.Fatalf("expected wash_center_id=7, got %v", b.WashCenterID)
	}
	if b.FleetVehicleID != nil {
		t.Fatalf("expected nil fleet_vehicle_id")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery("SELECT .+ FROM bookings WHERE id = ").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(bookingColumns))

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestFindOverlapping_ForUpdate(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	window := domain.TimeRange{
		Start: time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 15, 10, 30, 0, 0, time.UTC),
	}

	// Check-then-reserve требует блокировки строк
	mock.ExpectQuery("SELECT .+ FROM bookings WHERE .+ FOR UPDATE$").
		WillReturnRows(bookingRow())

	list, err := repo.FindOverlapping(context.Background(), 7, window, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 overlapping booking, got %d", len(list))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindOverlapping_WithoutLock(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	window := domain.TimeRange{
		Start: time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 15, 10, 30, 0, 0, time.UTC),
	}

	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE .+scheduled_end > .+ ORDER BY scheduled_start ASC, id ASC$`).
		WillReturnRows(sqlmock.NewRows(bookingColumns))

	list, err := repo.FindOverlapping(context.Background(), 7, window, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no overlapping bookings, got %d", len(list))
	}
}

func TestUpdateStatusFrom_Guarded(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	// CAS: WHERE id AND status
	mock.ExpectExec("UPDATE bookings SET status = .+ WHERE id = .+ AND status = ").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatusFrom(context.Background(), 1, domain.StatusPending, domain.StatusConfirmed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStatusFrom_StatusConflict(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	// 0 строк, но бронь существует — статус изменён конкурентно
	mock.ExpectExec("UPDATE bookings SET status = ").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM bookings WHERE id = ").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	err := repo.UpdateStatusFrom(context.Background(), 1, domain.StatusPending, domain.StatusConfirmed)
	if !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict, got %v", err)
	}
}

func TestUpdateStatusFrom_NotFound(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	// 0 строк и брони нет
	mock.ExpectExec("UPDATE bookings SET status = ").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM bookings WHERE id = ").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	err := repo.UpdateStatusFrom(context.Background(), 99, domain.StatusPending, domain.StatusConfirmed)
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestCancel_SetsActorAndReason(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectExec("UPDATE bookings SET status = .+ cancellation_reason = .+ canceled_by = ").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Cancel(context.Background(), 1, domain.StatusConfirmed, domain.CanceledByCustomer, "plans changed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestComplete_SetsCompletedAt(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectExec("UPDATE bookings SET status = .+ completed_at = NOW()").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Complete(context.Background(), 1, domain.StatusInProgress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
