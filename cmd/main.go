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

	cancelBookingHandler "github.com/m04kA/CWP-AllocationService/internal/api/handlers/cancel_booking"
	completeServiceHandler "github.com/m04kA/CWP-AllocationService/internal/api/handlers/complete_service"
	confirmBookingHandler "github.com/m04kA/CWP-AllocationService/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/CWP-AllocationService/internal/api/handlers/create_booking"
	deactivateResourceHandler "github.com/m04kA/CWP-AllocationService/internal/api/handlers/deactivate_resource"
	getAvailableSlotsHandler "github.com/m04kA/CWP-AllocationService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/CWP-AllocationService/internal/api/handlers/get_booking"
	getOrgBookingsHandler "github.com/m04kA/CWP-AllocationService/internal/api/handlers/get_org_bookings"
	getUserBookingsHandler "github.com/m04kA/CWP-AllocationService/internal/api/handlers/get_user_bookings"
	registerResourceHandler "github.com/m04kA/CWP-AllocationService/internal/api/handlers/register_resource"
	startServiceHandler "github.com/m04kA/CWP-AllocationService/internal/api/handlers/start_service"
	"github.com/m04kA/CWP-AllocationService/internal/api/middleware"
	"github.com/m04kA/CWP-AllocationService/internal/config"
	bookingRepo "github.com/m04kA/CWP-AllocationService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/CWP-AllocationService/internal/infra/storage/catalog"
	outboxRepo "github.com/m04kA/CWP-AllocationService/internal/infra/storage/outbox"
	resourceRepo "github.com/m04kA/CWP-AllocationService/internal/infra/storage/resource"
	vehicleRepo "github.com/m04kA/CWP-AllocationService/internal/infra/storage/vehicle"
	emailGatewayClient "github.com/m04kA/CWP-AllocationService/internal/integrations/emailgateway"
	smsGatewayClient "github.com/m04kA/CWP-AllocationService/internal/integrations/smsgateway"
	"github.com/m04kA/CWP-AllocationService/internal/notify"
	availabilityService "github.com/m04kA/CWP-AllocationService/internal/service/availability"
	bookingsService "github.com/m04kA/CWP-AllocationService/internal/service/bookings"
	resourcesService "github.com/m04kA/CWP-AllocationService/internal/service/resources"
	createBookingUC "github.com/m04kA/CWP-AllocationService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/CWP-AllocationService/internal/usecase/get_available_slots"
	"github.com/m04kA/CWP-AllocationService/pkg/dbmetrics"
	"github.com/m04kA/CWP-AllocationService/pkg/logger"
	"github.com/m04kA/CWP-AllocationService/pkg/metrics"
	"github.com/m04kA/CWP-AllocationService/pkg/simpletxmanager"
	"github.com/m04kA/CWP-AllocationService/pkg/txmanager"
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

	log.Info("Starting CWP-AllocationService...")
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

	// Инициализируем клиентов шлюзов уведомлений
	emailClient := emailGatewayClient.NewClient(
		cfg.Notifications.EmailGatewayURL,
		time.Duration(cfg.Notifications.EmailGatewayTimeout)*time.Second,
		log,
	)
	smsClient := smsGatewayClient.NewClient(
		cfg.Notifications.SMSGatewayURL,
		time.Duration(cfg.Notifications.SMSGatewayTimeout)*time.Second,
		log,
	)
	log.Info("Gateway clients initialized (email=%s timeout=%ds, sms=%s timeout=%ds)",
		cfg.Notifications.EmailGatewayURL, cfg.Notifications.EmailGatewayTimeout,
		cfg.Notifications.SMSGatewayURL, cfg.Notifications.SMSGatewayTimeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		resourceRepository *resourceRepo.Repository
		catalogRepository  *catalogRepo.Repository
		vehicleRepository  *vehicleRepo.Repository
		outboxRepository   *outboxRepo.Repository
		txMgr              *txmanager.TransactionManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		resourceRepository = resourceRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		vehicleRepository = vehicleRepo.NewRepository(wrappedDB)
		outboxRepository = outboxRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		resourceRepository = resourceRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		vehicleRepository = vehicleRepo.NewRepository(db)
		outboxRepository = outboxRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	if cfg.Allocator.SerializableAttempts > 0 {
		txMgr = txMgr.WithAttempts(cfg.Allocator.SerializableAttempts)
	}

	// Типизированный nil *metrics.Metrics в интерфейсе не равен nil,
	// поэтому наблюдатели передаются только при включенных метриках
	var allocObserver createBookingUC.MetricsObserver
	var dispatchObserver notify.MetricsObserver
	if cfg.Metrics.Enabled {
		allocObserver = metricsCollector
		dispatchObserver = metricsCollector
	}

	// Инициализируем сервисы
	availabilitySvc := availabilityService.NewService(
		bookingRepository,
		resourceRepository,
		cfg.Allocator.SlotGranularityMinutes,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		resourceRepository,
		outboxRepository,
		txMgr,
		log,
	)
	resourceSvc := resourcesService.NewService(
		resourceRepository,
		bookingRepository,
		txMgr,
		cfg.Registry.ForceDeactivate,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		resourceRepository,
		catalogRepository,
		vehicleRepository,
		outboxRepository,
		txMgr,
		allocObserver,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		availabilitySvc,
		resourceRepository,
		catalogRepository,
		log,
	)

	// Инициализируем доставку уведомлений
	dispatcher := notify.NewGatewayDispatcher(emailClient, smsClient, log)
	notifyWorker := notify.NewWorker(
		outboxRepository,
		dispatcher,
		dispatchObserver,
		log,
		time.Duration(cfg.Notifications.DrainInterval)*time.Second,
		cfg.Notifications.BatchSize,
		cfg.Notifications.MaxAttempts,
	)
	if err := notifyWorker.Start(); err != nil {
		log.Fatal("Failed to start notification worker: %v", err)
	}

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	startService := startServiceHandler.NewHandler(bookingSvc, log)
	completeService := completeServiceHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getOrgBookings := getOrgBookingsHandler.NewHandler(bookingSvc, log)
	registerResource := registerResourceHandler.NewHandler(resourceSvc, log)
	deactivateResource := deactivateResourceHandler.NewHandler(resourceSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
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

	// Доступные слоты ресурса на дату
	api.HandleFunc("/orgs/{orgId}/resources/{resourceId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования (аллокация ресурсов)
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Переходы жизненного цикла
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/start", startService.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeService.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление организацией ---
	// Список бронирований организации
	protected.HandleFunc("/orgs/{orgId}/bookings", getOrgBookings.Handle).Methods(http.MethodGet)

	// Регистрация и деактивация ресурсов
	protected.HandleFunc("/orgs/{orgId}/resources", registerResource.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/orgs/{orgId}/resources/{resourceId}/deactivate",
		deactivateResource.Handle).Methods(http.MethodPatch)

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

	// Останавливаем воркер уведомлений
	notifyWorker.Stop()

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
