package get_recommendations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/servicecatalog"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type stubAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (s *stubAppointmentRepo) GetWithFilter(_ context.Context, _ domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	return s.appointments, s.err
}

type stubScheduleRepo struct {
	schedules []*domain.TechnicianSchedule
	err       error
}

func (s *stubScheduleRepo) Query(_ context.Context, _, _ time.Time, _ []int64) ([]*domain.TechnicianSchedule, error) {
	return s.schedules, s.err
}

type stubSettingsRepo struct {
	settings *domain.AppointmentSettings
}

func (s *stubSettingsRepo) Get(_ context.Context) (*domain.AppointmentSettings, error) {
	if s.settings == nil {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	return s.settings, nil
}

type stubCatalog struct {
	service *servicecatalog.MaintenanceService
	err     error
}

func (s *stubCatalog) GetService(_ context.Context, _ int64) (*servicecatalog.MaintenanceService, error) {
	return s.service, s.err
}

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type recordingMetrics struct {
	served      []string
	empty       []string
	unavailable []string
}

func (m *recordingMetrics) IncRecommendationsServed(outcome string) { m.served = append(m.served, outcome) }
func (m *recordingMetrics) IncEmptyRecommendations(reason string)   { m.empty = append(m.empty, reason) }
func (m *recordingMetrics) IncScheduleDataUnavailable(op string)    { m.unavailable = append(m.unavailable, op) }

var testNow = time.Date(2026, 9, 9, 12, 0, 0, 0, time.UTC)

func testService(technicians ...int64) *servicecatalog.MaintenanceService {
	return &servicecatalog.MaintenanceService{
		ID:                   7,
		Name:                 "Замена масла",
		Category:             servicecatalog.CategoryRegular,
		DurationMinutes:      30,
		BasePrice:            2500,
		AvailableTechnicians: technicians,
	}
}

func scheduleFor(technicianID int64, date time.Time, shifts ...domain.Shift) *domain.TechnicianSchedule {
	return &domain.TechnicianSchedule{
		TechnicianID: technicianID,
		Date:         date,
		Shifts:       shifts,
	}
}

func newUseCase(
	appts *stubAppointmentRepo,
	scheds *stubScheduleRepo,
	sets *stubSettingsRepo,
	catalog *stubCatalog,
	metrics *recordingMetrics,
) *UseCase {
	uc := NewUseCase(appts, scheds, sets, catalog, noopLogger{}, metrics)
	uc.timeProvider = &fixedTime{now: testNow}
	return uc
}

// Смена 10:00-12:00, слот [10:00,10:30) занят: рекомендуются ровно
// три оставшихся слота смены
func TestExecute_BookedSlotExcluded(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	scheds := &stubScheduleRepo{schedules: []*domain.TechnicianSchedule{
		scheduleFor(1, date, domain.Shift{StartTime: "10:00", EndTime: "12:00", Status: domain.ShiftAvailable}),
	}}
	appts := &stubAppointmentRepo{appointments: []*domain.Appointment{
		{
			ID: 1, TechnicianID: ptr.Ptr(int64(1)), Date: date,
			StartTime: "10:00", EndTime: "10:30", Status: domain.StatusConfirmed,
		},
	}}
	metrics := &recordingMetrics{}
	uc := newUseCase(appts, scheds, &stubSettingsRepo{}, &stubCatalog{service: testService(1)}, metrics)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID:     7,
		PreferredDate: &date,
	})
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 3)

	assert.Equal(t, types.TimeString("10:30"), resp.Recommendations[0].StartTime)
	assert.Equal(t, types.TimeString("11:00"), resp.Recommendations[1].StartTime)
	assert.Equal(t, types.TimeString("11:30"), resp.Recommendations[2].StartTime)
	for _, rec := range resp.Recommendations {
		assert.Equal(t, int64(1), rec.TechnicianID)
		assert.NotEmpty(t, rec.Reasons)
	}
	assert.False(t, resp.DataUnavailable)
	assert.Equal(t, []string{"ok"}, metrics.served)
}

// Отмененная запись слот не занимает
func TestExecute_CancelledAppointmentDoesNotBlock(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	scheds := &stubScheduleRepo{schedules: []*domain.TechnicianSchedule{
		scheduleFor(1, date, domain.Shift{StartTime: "10:00", EndTime: "11:00", Status: domain.ShiftAvailable}),
	}}
	appts := &stubAppointmentRepo{appointments: []*domain.Appointment{
		{
			ID: 1, TechnicianID: ptr.Ptr(int64(1)), Date: date,
			StartTime: "10:00", EndTime: "10:30", Status: domain.StatusCancelled,
		},
	}}
	uc := newUseCase(appts, scheds, &stubSettingsRepo{}, &stubCatalog{service: testService(1)}, &recordingMetrics{})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 7, PreferredDate: &date})
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 2)
	assert.Equal(t, types.TimeString("10:00"), resp.Recommendations[0].StartTime)
}

// Предпочтительное время поднимает ближние слоты наверх выдачи
func TestExecute_PreferredTimeRanksFirst(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	scheds := &stubScheduleRepo{schedules: []*domain.TechnicianSchedule{
		scheduleFor(1, date, domain.Shift{StartTime: "09:00", EndTime: "18:00", Status: domain.ShiftAvailable}),
	}}
	uc := newUseCase(&stubAppointmentRepo{}, scheds, &stubSettingsRepo{}, &stubCatalog{service: testService(1)}, &recordingMetrics{})

	preferred := types.TimeString("14:00")
	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID:     7,
		PreferredDate: &date,
		PreferredTime: &preferred,
	})
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, domain.MaxRecommendations)

	// Верхний кандидат в пределах 30 минут от предпочтительного времени
	top := resp.Recommendations[0]
	assert.LessOrEqual(t, top.StartTime.DiffMinutes(preferred), 30)

	// Оценки не возрастают, при равенстве порядок хронологический
	for i := 1; i < len(resp.Recommendations); i++ {
		prev, cur := resp.Recommendations[i-1], resp.Recommendations[i]
		assert.GreaterOrEqual(t, prev.Score, cur.Score)
		if prev.Score == cur.Score {
			assert.True(t, prev.StartTime.IsBefore(cur.StartTime))
		}
	}
}

// Повторный запуск с теми же данными дает идентичную выдачу
func TestExecute_Deterministic(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	scheds := &stubScheduleRepo{schedules: []*domain.TechnicianSchedule{
		scheduleFor(1, date, domain.Shift{StartTime: "09:00", EndTime: "18:00", Status: domain.ShiftAvailable}),
		scheduleFor(2, date, domain.Shift{StartTime: "09:00", EndTime: "13:00", Status: domain.ShiftAvailable}),
	}}
	uc := newUseCase(&stubAppointmentRepo{}, scheds, &stubSettingsRepo{}, &stubCatalog{service: testService(1, 2)}, &recordingMetrics{})

	req := &Request{ServiceID: 7, PreferredDate: &date}
	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Recommendations, second.Recommendations)
}

// Недоступность хранилища расписаний деградирует выдачу до пустой
func TestExecute_ScheduleUnavailableDegrades(t *testing.T) {
	metrics := &recordingMetrics{}
	scheds := &stubScheduleRepo{err: errors.New("connection refused")}
	uc := newUseCase(&stubAppointmentRepo{}, scheds, &stubSettingsRepo{}, &stubCatalog{service: testService(1)}, metrics)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 7})
	require.NoError(t, err)
	assert.True(t, resp.DataUnavailable)
	assert.Empty(t, resp.Recommendations)
	assert.Equal(t, []string{"schedules"}, metrics.unavailable)
	assert.Equal(t, []string{"degraded"}, metrics.served)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	uc := newUseCase(&stubAppointmentRepo{}, &stubScheduleRepo{}, &stubSettingsRepo{},
		&stubCatalog{err: servicecatalog.ErrServiceNotFound}, &recordingMetrics{})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 404})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_NoTechnicians(t *testing.T) {
	metrics := &recordingMetrics{}
	uc := newUseCase(&stubAppointmentRepo{}, &stubScheduleRepo{}, &stubSettingsRepo{},
		&stubCatalog{service: testService()}, metrics)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 7})
	require.NoError(t, err)
	assert.Empty(t, resp.Recommendations)
	assert.Equal(t, []string{"no_technicians"}, metrics.empty)
}

// Слоты раньше minHoursInAdvance в тот же день отфильтровываются
func TestExecute_MinHoursInAdvanceFiltersSameDay(t *testing.T) {
	today := time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC) // testNow = 12:00 этого дня

	scheds := &stubScheduleRepo{schedules: []*domain.TechnicianSchedule{
		scheduleFor(1, today, domain.Shift{StartTime: "09:00", EndTime: "18:00", Status: domain.ShiftAvailable}),
	}}
	uc := newUseCase(&stubAppointmentRepo{}, scheds, &stubSettingsRepo{}, &stubCatalog{service: testService(1)}, &recordingMetrics{})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 7, PreferredDate: &today})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Recommendations)

	// minHoursInAdvance = 2: раньше 14:00 рекомендаций быть не должно
	for _, rec := range resp.Recommendations {
		assert.False(t, rec.StartTime.IsBefore("14:00"),
			"slot %s is inside the min-advance window", rec.StartTime)
	}
}

// Желаемая дата - мягкое предпочтение: если ее слоты заняты,
// в выдачу попадают свободные слоты соседних дней окна
func TestExecute_PreferredDaySoftFallsBackToNextDay(t *testing.T) {
	preferred := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	nextDay := preferred.AddDate(0, 0, 1)

	scheds := &stubScheduleRepo{schedules: []*domain.TechnicianSchedule{
		scheduleFor(1, preferred, domain.Shift{StartTime: "10:00", EndTime: "10:30", Status: domain.ShiftAvailable}),
		scheduleFor(1, nextDay, domain.Shift{StartTime: "10:00", EndTime: "11:00", Status: domain.ShiftAvailable}),
	}}
	// Единственный слот желаемого дня занят целиком
	appts := &stubAppointmentRepo{appointments: []*domain.Appointment{
		{
			ID: 1, TechnicianID: ptr.Ptr(int64(1)), Date: preferred,
			StartTime: "10:00", EndTime: "10:30", Status: domain.StatusConfirmed,
		},
	}}
	uc := newUseCase(appts, scheds, &stubSettingsRepo{}, &stubCatalog{service: testService(1)}, &recordingMetrics{})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 7, PreferredDate: &preferred})
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 2)

	for _, rec := range resp.Recommendations {
		assert.True(t, scheduling.SameDay(rec.Date, nextDay),
			"slot %s/%s must come from the next day", rec.Date.Format(domain.DateFormat), rec.StartTime)
	}
}

func TestExecute_PreferredDateInPast(t *testing.T) {
	past := testNow.AddDate(0, 0, -1)
	uc := newUseCase(&stubAppointmentRepo{}, &stubScheduleRepo{}, &stubSettingsRepo{},
		&stubCatalog{service: testService(1)}, &recordingMetrics{})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 7, PreferredDate: &past})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_PreferredDateTooFar(t *testing.T) {
	far := testNow.AddDate(0, 0, domain.DefaultMaxDaysInAdvance+1)
	uc := newUseCase(&stubAppointmentRepo{}, &stubScheduleRepo{}, &stubSettingsRepo{},
		&stubCatalog{service: testService(1)}, &recordingMetrics{})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 7, PreferredDate: &far})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

// У рекомендации есть альтернативные слоты того же дня в окне ±2 ширин слота
func TestExecute_AlternativeSlots(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	scheds := &stubScheduleRepo{schedules: []*domain.TechnicianSchedule{
		scheduleFor(1, date, domain.Shift{StartTime: "09:00", EndTime: "18:00", Status: domain.ShiftAvailable}),
	}}
	uc := newUseCase(&stubAppointmentRepo{}, scheds, &stubSettingsRepo{}, &stubCatalog{service: testService(1)}, &recordingMetrics{})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 7, PreferredDate: &date})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Recommendations)

	rec := resp.Recommendations[0]
	require.NotEmpty(t, rec.AlternativeSlots)
	assert.LessOrEqual(t, len(rec.AlternativeSlots), domain.MaxAlternativeSlots)

	recStart := absoluteTime(rec.Date, rec.StartTime)
	for _, alt := range rec.AlternativeSlots {
		diff := alt.StartTime.Sub(recStart)
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, time.Duration(domain.AlternativeSlotWidths*30)*time.Minute)
		assert.NotEqual(t, recStart, alt.StartTime)
	}
}

// Свободный по графику, но занятый записью механик не попадает в слот
func TestExecute_TechnicianPoolOrderStable(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	scheds := &stubScheduleRepo{schedules: []*domain.TechnicianSchedule{
		scheduleFor(2, date, domain.Shift{StartTime: "10:00", EndTime: "11:00", Status: domain.ShiftAvailable}),
		scheduleFor(5, date, domain.Shift{StartTime: "10:00", EndTime: "11:00", Status: domain.ShiftAvailable}),
	}}
	appts := &stubAppointmentRepo{appointments: []*domain.Appointment{
		{
			ID: 1, TechnicianID: ptr.Ptr(int64(2)), Date: date,
			StartTime: "10:00", EndTime: "10:30", Status: domain.StatusConfirmed,
		},
	}}
	uc := newUseCase(appts, scheds, &stubSettingsRepo{}, &stubCatalog{service: testService(2, 5)}, &recordingMetrics{})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 7, PreferredDate: &date})
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 2)

	for _, rec := range resp.Recommendations {
		switch rec.StartTime {
		case "10:00":
			// Механик 2 занят записью - рекомендуется следующий из пула
			assert.Equal(t, int64(5), rec.TechnicianID)
		case "10:30":
			// Оба свободны - берется первый по порядку пула услуги
			assert.Equal(t, int64(2), rec.TechnicianID)
		}
	}
}
