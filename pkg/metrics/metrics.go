package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus-метрик сервиса
type Metrics struct {
	// HTTP метрики
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Метрики работы с БД
	DBQueriesTotal  *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec
	DBConnections   *prometheus.GaugeVec

	// Метрики движка рекомендаций
	// RecommendationsServed считает выданные списки рекомендаций
	// ScheduleDataUnavailable считает деградации из-за недоступности хранилища
	// расписаний - отличает "нет данных" от "легитимно нет свободных слотов"
	RecommendationsServed   *prometheus.CounterVec
	EmptyRecommendations    *prometheus.CounterVec
	ScheduleDataUnavailable *prometheus.CounterVec
	SlotConflictsTotal      *prometheus.CounterVec
}

// New создает и регистрирует метрики сервиса
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		DBConnections: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: constLabels,
		}, []string{"state"}),

		RecommendationsServed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_recommendations_served_total",
			Help:        "Total number of recommendation lists served",
			ConstLabels: constLabels,
		}, []string{"outcome"}),

		EmptyRecommendations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_recommendations_empty_total",
			Help:        "Recommendation requests that returned no candidates",
			ConstLabels: constLabels,
		}, []string{"reason"}),

		ScheduleDataUnavailable: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "technician_schedule_unavailable_total",
			Help:        "Failures to fetch technician schedules from the store",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		SlotConflictsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_slot_conflicts_total",
			Help:        "Bookings rejected because the slot was already taken",
			ConstLabels: constLabels,
		}, []string{"operation"}),
	}
}

// IncRecommendationsServed инкрементирует счетчик выданных рекомендаций
func (m *Metrics) IncRecommendationsServed(outcome string) {
	m.RecommendationsServed.WithLabelValues(outcome).Inc()
}

// IncEmptyRecommendations инкрементирует счетчик пустых выдач
func (m *Metrics) IncEmptyRecommendations(reason string) {
	m.EmptyRecommendations.WithLabelValues(reason).Inc()
}

// IncScheduleDataUnavailable инкрементирует счетчик деградаций
// из-за недоступности данных расписаний
func (m *Metrics) IncScheduleDataUnavailable(operation string) {
	m.ScheduleDataUnavailable.WithLabelValues(operation).Inc()
}

// IncSlotConflicts инкрементирует счетчик конфликтов слотов
func (m *Metrics) IncSlotConflicts(operation string) {
	m.SlotConflictsTotal.WithLabelValues(operation).Inc()
}
