package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func newTestAppointment() *domain.Appointment {
	return &domain.Appointment{
		Customer: domain.Customer{
			Name:  "Иван Петров",
			Phone: "+79991234567",
		},
		VehicleID:                42,
		ServiceID:                7,
		Date:                     time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		StartTime:                "10:00",
		EndTime:                  "10:30",
		TechnicianID:             ptr.Ptr(int64(3)),
		Status:                   domain.StatusPending,
		EstimatedDurationMinutes: 30,
		EstimatedCost:            2500,
		ServiceName:              "Замена масла",
	}
}

func appointmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "customer_name", "customer_phone", "customer_email",
		"vehicle_id", "service_id", "appointment_date", "start_time", "end_time",
		"technician_id", "status", "estimated_duration_minutes", "estimated_cost",
		"service_name", "vehicle_brand", "vehicle_model", "license_plate", "notes",
		"confirmation_sent", "reminder_sent", "cancellation_reason", "cancelled_at",
		"created_at", "updated_at",
	})
}

func addAppointmentRow(rows *sqlmock.Rows, id int64, start, end string, status domain.AppointmentStatus) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		id, "Иван Петров", "+79991234567", nil,
		int64(42), int64(7), time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), start, end,
		int64(3), string(status), 30, 2500.0,
		"Замена масла", nil, nil, nil, nil,
		false, false, nil, nil,
		now, now,
	)
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO appointments").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(101), now, now))

	created, err := repo.Create(context.Background(), newTestAppointment())
	require.NoError(t, err)
	assert.Equal(t, int64(101), created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_SlotConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	// Пересечение интервалов ловит exclusion constraint
	mock.ExpectQuery("INSERT INTO appointments").
		WillReturnError(&pq.Error{Code: "23P01", Constraint: "appointments_no_overlap"})

	_, err = repo.Create(context.Background(), newTestAppointment())
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("SELECT .+ FROM appointments").
		WithArgs(int64(101)).
		WillReturnRows(addAppointmentRow(appointmentRows(), 101, "10:00", "10:30", domain.StatusConfirmed))

	got, err := repo.GetByID(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, int64(101), got.ID)
	assert.Equal(t, types.TimeString("10:00"), got.StartTime)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	require.NotNil(t, got.TechnicianID)
	assert.Equal(t, int64(3), *got.TechnicianID)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("SELECT .+ FROM appointments").
		WithArgs(int64(999)).
		WillReturnRows(appointmentRows())

	_, err = repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestRepository_GetByVehicleID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rows := appointmentRows()
	addAppointmentRow(rows, 101, "10:00", "10:30", domain.StatusConfirmed)
	addAppointmentRow(rows, 102, "14:00", "14:30", domain.StatusPending)

	mock.ExpectQuery("SELECT .+ FROM appointments").
		WithArgs(int64(42)).
		WillReturnRows(rows)

	got, err := repo.GetByVehicleID(context.Background(), 42, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(101), got[0].ID)
	assert.Equal(t, int64(102), got[1].ID)
}

func TestRepository_FindOverlapping(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rows := appointmentRows()
	addAppointmentRow(rows, 101, "10:00", "10:30", domain.StatusConfirmed)

	mock.ExpectQuery("SELECT .+ FROM appointments").
		WillReturnRows(rows)

	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	got, err := repo.FindOverlapping(context.Background(), 3, date, "10:15", "10:45")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(101), got[0].ID)
}

func TestRepository_FindOverlapping_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("SELECT .+ FROM appointments").
		WillReturnRows(appointmentRows())

	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	got, err := repo.FindOverlapping(context.Background(), 3, date, "11:00", "11:30")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec("UPDATE appointments").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateStatus(context.Background(), 101, domain.StatusInProgress)
	assert.NoError(t, err)
}

func TestRepository_UpdateStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec("UPDATE appointments").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateStatus(context.Background(), 999, domain.StatusInProgress)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestRepository_Confirm_SlotConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec("UPDATE appointments").
		WillReturnError(&pq.Error{Code: "23P01", Constraint: "appointments_no_overlap"})

	err = repo.Confirm(context.Background(), 101, 3)
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestRepository_Cancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec("UPDATE appointments").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Cancel(context.Background(), 101, "клиент перенес визит")
	assert.NoError(t, err)
}
