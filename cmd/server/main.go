package main

import (
	"context"
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/application"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/auth"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/config"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/email"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/events"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/infrastructure/repository"
	handlers "github.com/AlexSafo-tech/motel-management-backend-sub000/internal/interfaces/http"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/scheduler"
	services "github.com/AlexSafo-tech/motel-management-backend-sub000/internal/service"
)

func main() {
	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.GetDBConnString())
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Error pinging database: %v", err)
	}

	app := fiber.New()

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
		ExposeHeaders:    "Content-Length",
		MaxAge:           86400,
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	clock := domain.RealClock{}

	// Optional integrations. Each one logs and stays nil when unconfigured
	// or unreachable; the services skip the side effect.
	var emailClient *email.Client
	if cfg.MailEnabled() {
		emailClient, err = email.NewClient(
			cfg.SMTPHost,
			cfg.SMTPPort,
			cfg.SMTPUser,
			cfg.SMTPPassword,
			cfg.SMTPFromName,
			cfg.SMTPFromEmail,
		)
		if err != nil {
			log.Printf("Warning: email client initialization failed: %v", err)
			emailClient = nil
		}
	}

	var publisher *events.Publisher
	if cfg.AMQPURL != "" {
		publisher, err = events.NewPublisher(cfg.AMQPURL, cfg.LifecycleQueue)
		if err != nil {
			log.Printf("Warning: event publisher initialization failed: %v", err)
			publisher = nil
		}
	}
	if publisher != nil {
		defer publisher.Close()
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	limiter := application.NewRateLimiter(rdb, cfg.LoginRateWindow, cfg.LoginRateLimit)

	// Staff and sessions
	staffRepo := repository.NewStaffRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, clock)
	staffService := application.NewStaffService(staffRepo, tokenRepo, tokenManager, limiter, clock, cfg.StorageTimeout)
	authHandler := handlers.NewAuthHandler(staffService)
	staffHandler := handlers.NewStaffHandler(staffService)

	// Periods
	periodRepo := repository.NewPeriodRepository(db)
	periodCache := application.NewPeriodCache(periodRepo, clock, cfg.PeriodCacheTTL)
	periodService := application.NewPeriodService(periodRepo, periodCache, clock, cfg.StorageTimeout)
	periodHandler := handlers.NewPeriodHandler(periodService)
	if err := periodCache.Refresh(context.Background()); err != nil {
		log.Printf("Warning: period cache warm-up failed: %v", err)
	}

	// Rooms
	roomRepo := repository.NewRoomRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	roomService := application.NewRoomService(roomRepo, reservationRepo, clock, publisher, cfg.StorageTimeout)
	roomHandler := handlers.NewRoomHandler(roomService)

	// Guests
	guestRepo := repository.NewGuestRepository(db)
	guestService := application.NewGuestService(guestRepo, reservationRepo, clock, cfg.StorageTimeout)
	guestHandler := handlers.NewGuestHandler(guestService)

	// Products and room service orders
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	productService := application.NewProductService(productRepo, clock, cfg.StorageTimeout)
	orderService := application.NewOrderService(orderRepo, productRepo, reservationRepo, clock, publisher, cfg.StorageTimeout)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)

	// Reservations
	reservationService := application.NewReservationService(
		reservationRepo,
		roomRepo,
		orderRepo,
		guestRepo,
		periodCache,
		application.NewRoomLocks(),
		application.NewStatusPolicy(cfg.PreBlockWindow),
		application.UUIDNumberGenerator{},
		clock,
		emailClient,
		publisher,
		cfg.ConflictFailOpen,
		cfg.StorageTimeout,
		cfg.NoShowGrace,
	)
	reservationHandler := handlers.NewReservationHandler(reservationService)

	// Dashboard
	dashboardRepo := repository.NewDashboardRepository(db)
	dashboardService := application.NewDashboardService(dashboardRepo, rdb, clock, cfg.DashboardCacheTTL, cfg.StorageTimeout)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// S3
	var s3Service *services.S3Service
	if cfg.S3Bucket != "" {
		s3Service, err = services.NewS3Service(context.Background(), cfg.AWSRegion, cfg.S3Bucket)
		if err != nil {
			log.Printf("Warning: S3 initialization failed: %v", err)
			s3Service = nil
		}
	}
	s3Handler := handlers.NewS3Handler(s3Service)

	if err := staffService.EnsureAdmin(context.Background(), cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Printf("Warning: admin bootstrap failed: %v", err)
	}

	sched, err := scheduler.New(reservationService, periodCache, staffService, cfg.NoShowSweep, cfg.PeriodCacheTTL)
	if err != nil {
		log.Fatalf("Error building scheduler: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	authRequired := handlers.RequireAuth(tokenManager)
	permTable := auth.DefaultPermissions()
	perm := func(p auth.Permission) fiber.Handler {
		return handlers.RequirePermission(permTable, p)
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", authRequired, authHandler.Me)

	staff := api.Group("/staff", authRequired, perm(auth.PermStaffManage))
	staff.Post("/", staffHandler.Create)
	staff.Get("/", staffHandler.List)
	staff.Get("/:id", staffHandler.Get)
	staff.Put("/:id", staffHandler.Update)
	staff.Delete("/:id", staffHandler.Delete)

	rooms := api.Group("/rooms", authRequired)
	rooms.Post("/", perm(auth.PermRoomsWrite), roomHandler.Create)
	rooms.Get("/", perm(auth.PermRoomsRead), roomHandler.List)
	rooms.Get("/availability", perm(auth.PermRoomsRead), roomHandler.Availability)
	rooms.Get("/:id", perm(auth.PermRoomsRead), roomHandler.Get)
	rooms.Put("/:id", perm(auth.PermRoomsWrite), roomHandler.Update)
	rooms.Patch("/:id/status", perm(auth.PermRoomsStatus), roomHandler.ChangeStatus)
	rooms.Post("/:id/cleaned", perm(auth.PermRoomsCleaned), roomHandler.MarkCleaned)
	rooms.Delete("/:id", perm(auth.PermRoomsWrite), roomHandler.Delete)

	periods := api.Group("/periods", authRequired)
	periods.Get("/", perm(auth.PermPeriodsRead), periodHandler.List)
	periods.Post("/", perm(auth.PermPeriodsWrite), periodHandler.Create)
	periods.Post("/refresh", perm(auth.PermPeriodsWrite), periodHandler.Refresh)
	periods.Put("/:code", perm(auth.PermPeriodsWrite), periodHandler.Update)

	guests := api.Group("/guests", authRequired)
	guests.Post("/", perm(auth.PermGuestsWrite), guestHandler.Create)
	guests.Get("/", perm(auth.PermGuestsRead), guestHandler.Search)
	guests.Get("/:id", perm(auth.PermGuestsRead), guestHandler.Get)
	guests.Get("/:id/history", perm(auth.PermGuestsRead), guestHandler.History)
	guests.Put("/:id", perm(auth.PermGuestsWrite), guestHandler.Update)
	guests.Delete("/:id", perm(auth.PermGuestsWrite), guestHandler.Delete)

	reservations := api.Group("/reservations", authRequired)
	reservations.Post("/", perm(auth.PermReservationsWrite), reservationHandler.Create)
	reservations.Post("/check", perm(auth.PermReservationsRead), reservationHandler.CheckConflicts)
	reservations.Get("/", perm(auth.PermReservationsRead), reservationHandler.List)
	reservations.Get("/number/:number", perm(auth.PermReservationsRead), reservationHandler.GetByNumber)
	reservations.Get("/:id", perm(auth.PermReservationsRead), reservationHandler.Get)
	reservations.Put("/:id", perm(auth.PermReservationsWrite), reservationHandler.Update)
	reservations.Patch("/:id/status", perm(auth.PermReservationsWrite), reservationHandler.ChangeStatus)
	reservations.Patch("/:id/payment", perm(auth.PermReservationsWrite), reservationHandler.RecordPayment)
	reservations.Post("/:id/check-in", perm(auth.PermReservationsWrite), reservationHandler.CheckIn)
	reservations.Post("/:id/check-out", perm(auth.PermReservationsWrite), reservationHandler.CheckOut)
	reservations.Post("/:id/cancel", perm(auth.PermReservationsWrite), reservationHandler.Cancel)

	products := api.Group("/products", authRequired)
	products.Post("/", perm(auth.PermProductsWrite), productHandler.Create)
	products.Get("/", perm(auth.PermProductsRead), productHandler.List)
	products.Get("/:id", perm(auth.PermProductsRead), productHandler.Get)
	products.Put("/:id", perm(auth.PermProductsWrite), productHandler.Update)
	products.Post("/:id/restock", perm(auth.PermProductsWrite), productHandler.Restock)
	products.Delete("/:id", perm(auth.PermProductsWrite), productHandler.Delete)

	orders := api.Group("/orders", authRequired)
	orders.Post("/", perm(auth.PermOrdersWrite), orderHandler.Create)
	orders.Get("/open", perm(auth.PermOrdersRead), orderHandler.ListOpen)
	orders.Get("/reservation/:id", perm(auth.PermOrdersRead), orderHandler.ListByReservation)
	orders.Get("/:id", perm(auth.PermOrdersRead), orderHandler.Get)
	orders.Post("/:id/deliver", perm(auth.PermOrdersWrite), orderHandler.Deliver)
	orders.Post("/:id/cancel", perm(auth.PermOrdersWrite), orderHandler.Cancel)

	dashboard := api.Group("/dashboard", authRequired)
	dashboard.Get("/summary", perm(auth.PermDashboardRead), dashboardHandler.Summary)

	uploads := api.Group("/uploads", authRequired)
	uploads.Post("/images", perm(auth.PermUploadsWrite), s3Handler.UploadImage)

	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
