package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getRecommendationsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_recommendations"
	getSettingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_settings"
	getVehicleAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_vehicle_appointments"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_appointment_status"
	updateSettingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_settings"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/reminder"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	settingsRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/settings"
	notificationsClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/notifications"
	serviceCatalogClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/servicecatalog"
	vehicleCatalogClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/vehiclecatalog"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	settingsService "github.com/m04kA/SMC-AppointmentService/internal/service/settings"
	createAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	getRecommendationsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_recommendations"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Коллектор метрик создаем всегда: его используют usecases и сервисы,
	// флаг включает только HTTP endpoint и сбор метрик пула БД
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Подключаемся к Redis (очередь напоминаний)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to ping redis: %v", err)
	}
	log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	// Инициализируем интеграционных клиентов
	serviceClient := serviceCatalogClient.NewClient(
		cfg.ServiceCatalog.URL,
		time.Duration(cfg.ServiceCatalog.Timeout)*time.Second,
		log,
	)
	vehicleClient := vehicleCatalogClient.NewClient(
		cfg.VehicleCatalog.URL,
		time.Duration(cfg.VehicleCatalog.Timeout)*time.Second,
		log,
	)
	notifClient := notificationsClient.NewClient(
		cfg.Notifications.URL,
		time.Duration(cfg.Notifications.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ServiceCatalog=%s, VehicleCatalog=%s, Notifications=%s)",
		cfg.ServiceCatalog.URL, cfg.VehicleCatalog.URL, cfg.Notifications.URL)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
		settingsRepository    *settingsRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		settingsRepository = settingsRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		settingsRepository = settingsRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Очередь и воркер напоминаний
	reminderQueue := reminder.NewQueue(redisClient)
	reminderWorker := reminder.NewWorker(
		reminderQueue,
		appointmentRepository,
		notifClient,
		log,
		time.Duration(cfg.Redis.ReminderPollInterval)*time.Second,
	)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	go reminderWorker.Run(workerCtx)
	log.Info("Reminder worker started (poll interval=%ds)", cfg.Redis.ReminderPollInterval)

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		scheduleRepository,
		notifClient,
		reminderQueue,
		txMgr,
		log,
		metricsCollector,
	)
	settingsSvc := settingsService.NewService(
		settingsRepository,
		log,
	)

	// Инициализируем use cases
	getRecommendationsUseCase := getRecommendationsUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		settingsRepository,
		serviceClient,
		log,
		metricsCollector,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		settingsRepository,
		serviceClient,
		vehicleClient,
		notifClient,
		reminderQueue,
		txMgr,
		log,
		metricsCollector,
	)

	// Инициализируем handlers
	getRecommendations := getRecommendationsHandler.NewHandler(getRecommendationsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	getVehicleAppointments := getVehicleAppointmentsHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Рекомендации слотов для записи
	api.HandleFunc("/recommendations", getRecommendations.Handle).Methods(http.MethodGet)

	// Текущие настройки записи
	api.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи на обслуживание ---
	// Создание записи
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Обновление статуса записи
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// История записей автомобиля
	protected.HandleFunc("/vehicles/{vehicleId}/appointments", getVehicleAppointments.Handle).Methods(http.MethodGet)

	// --- Настройки (для администраторов) ---
	// Обновление настроек записи
	protected.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем воркер напоминаний
	stopWorker()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
