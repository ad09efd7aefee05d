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

	createAppointmentHandler "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/api/handlers/create_appointment"
	deleteAppointmentHandler "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/api/handlers/delete_appointment"
	getAppointmentHandler "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/api/handlers/get_available_slots"
	getQuotaStatusHandler "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/api/handlers/get_quota_status"
	getSalonAppointmentsHandler "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/api/handlers/get_salon_appointments"
	restoreAppointmentHandler "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/api/handlers/restore_appointment"
	setAppointmentStatusHandler "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/api/handlers/set_appointment_status"
	streamNotificationsHandler "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/api/handlers/stream_notifications"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/api/middleware"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/config"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/infra/events"
	appointmentRepo "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/infra/storage/appointment"
	salonRepo "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/infra/storage/salon"
	serviceRepo "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/infra/storage/service"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/notifier"
	appointmentsService "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/service/appointments"
	quotaService "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/service/quota"
	createAppointmentUC "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/usecase/get_available_slots"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/dbmetrics"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/logger"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/metrics"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/simpletxmanager"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/txmanager"
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

	log.Info("Starting kiagenda scheduling service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
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

	// Подключаемся к Redis (канал событий записей)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		cancelPing()
		log.Fatal("Failed to ping redis: %v", err)
	}
	cancelPing()
	log.Info("Successfully connected to redis (addr=%s)", cfg.Redis.Addr)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		salonRepository       *salonRepo.Repository
		serviceRepository     *serviceRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		salonRepository = salonRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		salonRepository = salonRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Канал событий записей
	publisher := events.NewPublisher(rdb, log)
	subscriber := events.NewSubscriber(rdb, log)

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		publisher,
		log,
	)
	quotaSvc := quotaService.NewService(
		appointmentRepository,
		salonRepository,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		salonRepository,
		serviceRepository,
		txMgr,
		publisher,
		quotaSvc,
		cfg.Booking.SlotStepMinutes,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		salonRepository,
		serviceRepository,
		cfg.Booking.SlotStepMinutes,
		log,
	)

	// Диспетчер уведомлений персонала
	dispatcher := notifier.New(
		subscriber,
		appointmentSvc,
		time.Duration(cfg.Notifications.PollIntervalSeconds)*time.Second,
		cfg.Notifications.DedupCacheSize,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	setAppointmentStatus := setAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	restoreAppointment := restoreAppointmentHandler.NewHandler(appointmentSvc, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentSvc, log)
	getSalonAppointments := getSalonAppointmentsHandler.NewHandler(appointmentSvc, log)
	getQuotaStatus := getQuotaStatusHandler.NewHandler(quotaSvc, log)
	streamNotifications := streamNotificationsHandler.NewHandler(dispatcher, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Получение доступных слотов салона
	api.HandleFunc("/salons/{salonId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Переход статуса записи
	protected.HandleFunc("/appointments/{appointmentId}/status", setAppointmentStatus.Handle).Methods(http.MethodPatch)

	// Восстановление мягко удалённой записи
	protected.HandleFunc("/appointments/{appointmentId}/restore", restoreAppointment.Handle).Methods(http.MethodPatch)

	// Мягкое удаление записи
	protected.HandleFunc("/appointments/{appointmentId}", deleteAppointment.Handle).Methods(http.MethodDelete)

	// --- Дашборд салона (для персонала) ---
	// Список записей салона
	protected.HandleFunc("/salons/{salonId}/appointments", getSalonAppointments.Handle).Methods(http.MethodGet)

	// Состояние месячной квоты
	protected.HandleFunc("/salons/{salonId}/quota", getQuotaStatus.Handle).Methods(http.MethodGet)

	// SSE поток уведомлений о pending записях
	protected.HandleFunc("/salons/{salonId}/notifications/stream", streamNotifications.Handle).Methods(http.MethodGet)

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
