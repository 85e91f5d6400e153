package create_appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifications"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/servicecatalog"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/vehiclecatalog"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeAppointmentRepo struct {
	overlapping map[int64][]*domain.Appointment // technicianID -> пересечения
	created     []*domain.Appointment
	confirmed   []int64
	nextID      int64
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	f.nextID++
	appt.ID = f.nextID
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	f.created = append(f.created, appt)
	return appt, nil
}

func (f *fakeAppointmentRepo) FindOverlapping(_ context.Context, technicianID int64, _ time.Time, _, _ types.TimeString) ([]*domain.Appointment, error) {
	return f.overlapping[technicianID], nil
}

func (f *fakeAppointmentRepo) Confirm(_ context.Context, id int64, _ int64) error {
	f.confirmed = append(f.confirmed, id)
	return nil
}

type fakeScheduleRepo struct {
	schedules []*domain.TechnicianSchedule
	booked    []int64
}

func (f *fakeScheduleRepo) Query(_ context.Context, _, _ time.Time, _ []int64) ([]*domain.TechnicianSchedule, error) {
	return f.schedules, nil
}

func (f *fakeScheduleRepo) MarkBooked(_ context.Context, technicianID int64, _ time.Time, _, _ types.TimeString) error {
	f.booked = append(f.booked, technicianID)
	return nil
}

type fakeSettingsRepo struct {
	settings *domain.AppointmentSettings
}

func (f *fakeSettingsRepo) Get(_ context.Context) (*domain.AppointmentSettings, error) {
	if f.settings == nil {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	return f.settings, nil
}

type fakeCatalog struct {
	service *servicecatalog.MaintenanceService
	err     error
}

func (f *fakeCatalog) GetService(_ context.Context, _ int64) (*servicecatalog.MaintenanceService, error) {
	return f.service, f.err
}

type fakeVehicles struct {
	vehicle *vehiclecatalog.Vehicle
	err     error
}

func (f *fakeVehicles) GetVehicle(_ context.Context, _ int64) (*vehiclecatalog.Vehicle, error) {
	return f.vehicle, f.err
}

type fakeNotifier struct {
	mu            sync.Mutex
	confirmations []*notifications.ConfirmationMessage
}

func (f *fakeNotifier) SendConfirmation(_ context.Context, msg *notifications.ConfirmationMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations = append(f.confirmations, msg)
	return nil
}

type fakeReminders struct {
	scheduled []time.Time
}

func (f *fakeReminders) Schedule(_ context.Context, _ int64, dueAt time.Time) error {
	f.scheduled = append(f.scheduled, dueAt)
	return nil
}

// inlineTxManager выполняет функцию без реальной транзакции
type inlineTxManager struct{}

func (inlineTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type countingMetrics struct {
	conflicts int
}

func (m *countingMetrics) IncSlotConflicts(string) { m.conflicts++ }

var testNow = time.Date(2026, 9, 9, 12, 0, 0, 0, time.UTC)

type fixture struct {
	uc        *UseCase
	appts     *fakeAppointmentRepo
	scheds    *fakeScheduleRepo
	sets      *fakeSettingsRepo
	notifier  *fakeNotifier
	reminders *fakeReminders
	metrics   *countingMetrics
}

func newFixture(technicians ...int64) *fixture {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	schedules := make([]*domain.TechnicianSchedule, 0, len(technicians))
	for _, id := range technicians {
		schedules = append(schedules, &domain.TechnicianSchedule{
			TechnicianID: id,
			Date:         date,
			Shifts: []domain.Shift{
				{StartTime: "09:00", EndTime: "18:00", Status: domain.ShiftAvailable},
			},
		})
	}

	f := &fixture{
		appts:     &fakeAppointmentRepo{overlapping: map[int64][]*domain.Appointment{}},
		scheds:    &fakeScheduleRepo{schedules: schedules},
		sets:      &fakeSettingsRepo{},
		notifier:  &fakeNotifier{},
		reminders: &fakeReminders{},
		metrics:   &countingMetrics{},
	}

	catalog := &fakeCatalog{service: &servicecatalog.MaintenanceService{
		ID:                   7,
		Name:                 "Замена масла",
		DurationMinutes:      30,
		BasePrice:            2500,
		AvailableTechnicians: technicians,
	}}
	vehicles := &fakeVehicles{vehicle: &vehiclecatalog.Vehicle{
		ID:           42,
		Brand:        "Toyota",
		Model:        "Camry",
		LicensePlate: "А123БВ77",
	}}

	f.uc = NewUseCase(f.appts, f.scheds, f.sets, catalog, vehicles, f.notifier, f.reminders,
		inlineTxManager{}, noopLogger{}, f.metrics)
	f.uc.timeProvider = &fixedTime{now: testNow}
	return f
}

func validRequest() *Request {
	return &Request{
		UserID:        1,
		ServiceID:     7,
		VehicleID:     42,
		Date:          time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		StartTime:     "10:00",
		CustomerName:  "Иван Петров",
		CustomerPhone: "+79991234567",
	}
}

func TestExecute_CreatesPendingAppointment(t *testing.T) {
	f := newFixture(3)

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, int64(3), resp.TechnicianID)
	assert.Equal(t, types.TimeString("10:30"), resp.EndTime)
	assert.Equal(t, "Замена масла", resp.ServiceName)
	assert.Equal(t, 2500.0, resp.EstimatedCost)
	require.NotNil(t, resp.VehicleBrand)
	assert.Equal(t, "Toyota", *resp.VehicleBrand)
	assert.False(t, resp.ConfirmationSent)
	assert.Empty(t, f.appts.confirmed)

	// Напоминание за 24 часа: за сутки до 10:00 следующего дня
	require.Len(t, f.reminders.scheduled, 1)
	assert.Equal(t, time.Date(2026, 9, 9, 10, 0, 0, 0, time.UTC), f.reminders.scheduled[0])
}

func TestExecute_AutoConfirmation(t *testing.T) {
	f := newFixture(3)
	settings := domain.DefaultSettings()
	settings.AutoConfirmation = true
	f.sets.settings = settings

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.True(t, resp.ConfirmationSent)
	assert.Equal(t, []int64{resp.ID}, f.appts.confirmed)
	assert.Equal(t, []int64{3}, f.scheds.booked)
}

func TestExecute_RequestedTechnicianBusy(t *testing.T) {
	f := newFixture(3)
	f.appts.overlapping[3] = []*domain.Appointment{{ID: 99}}

	req := validRequest()
	req.TechnicianID = ptr.Ptr(int64(3))

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Equal(t, 1, f.metrics.conflicts)
}

func TestExecute_FallsBackToFreeTechnician(t *testing.T) {
	f := newFixture(3, 5)
	f.appts.overlapping[3] = []*domain.Appointment{{ID: 99}}

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.TechnicianID)
}

func TestExecute_TechnicianNotInPool(t *testing.T) {
	f := newFixture(3)

	req := validRequest()
	req.TechnicianID = ptr.Ptr(int64(77))

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTechnicianNotAvailable)
}

func TestExecute_NoTechnicianOnShift(t *testing.T) {
	f := newFixture(3)
	f.scheds.schedules = nil

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTechnicianNotAvailable)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	f := newFixture(3)
	f.uc.catalog = &fakeCatalog{err: servicecatalog.ErrServiceNotFound}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_VehicleNotFound(t *testing.T) {
	f := newFixture(3)
	f.uc.vehicles = &fakeVehicles{err: vehiclecatalog.ErrVehicleNotFound}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture(3)

	tests := []struct {
		name   string
		mutate func(*Request)
		want   error
	}{
		{"missing customer name", func(r *Request) { r.CustomerName = "" }, ErrInvalidInput},
		{"missing customer phone", func(r *Request) { r.CustomerPhone = "" }, ErrInvalidInput},
		{"bad start time", func(r *Request) { r.StartTime = "25:00" }, ErrInvalidInput},
		{"zero date", func(r *Request) { r.Date = time.Time{} }, ErrInvalidInput},
		{"date in past", func(r *Request) { r.Date = testNow.AddDate(0, 0, -2) }, ErrInvalidDate},
		{"date too far", func(r *Request) { r.Date = testNow.AddDate(0, 0, 60) }, ErrDateTooFarInFuture},
		{"off-grid start time", func(r *Request) { r.StartTime = "10:17" }, ErrInvalidTimeSlot},
		{"before working hours", func(r *Request) { r.StartTime = "08:00" }, ErrInvalidTimeSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// Бронь сегодняшнего слота раньше minHoursInAdvance отклоняется
func TestExecute_TooLateToBook(t *testing.T) {
	f := newFixture(3)
	today := time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC)
	for _, s := range f.scheds.schedules {
		s.Date = today
	}

	req := validRequest()
	req.Date = today
	req.StartTime = "13:00" // testNow 12:00, minHoursInAdvance 2

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

// Минимальный запас проверяется в абсолютном времени: запись на завтра
// сразу после полуночи не обходит minHoursInAdvance
func TestExecute_TooLateToBookAcrossMidnight(t *testing.T) {
	f := newFixture(3)
	f.uc.timeProvider = &fixedTime{now: time.Date(2026, 9, 9, 23, 30, 0, 0, time.UTC)}

	tomorrow := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	for _, s := range f.scheds.schedules {
		s.Date = tomorrow
	}

	req := validRequest()
	req.Date = tomorrow
	req.StartTime = "00:30" // до начала 1 час, minHoursInAdvance 2

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

// Работа, не умещающаяся до конца рабочего дня, отклоняется
func TestExecute_WorkDoesNotFitWorkingDay(t *testing.T) {
	f := newFixture(3)
	f.uc.catalog = &fakeCatalog{service: &servicecatalog.MaintenanceService{
		ID:                   7,
		Name:                 "Капитальный ремонт",
		DurationMinutes:      120,
		AvailableTechnicians: []int64{3},
	}}

	req := validRequest()
	req.StartTime = "17:00" // конец рабочего дня 18:00

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}
