package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"python_tutor_backend/internal/config"
	"python_tutor_backend/internal/controller"
	"python_tutor_backend/internal/middleware"
	"python_tutor_backend/internal/repository"
	"python_tutor_backend/internal/service"
	"python_tutor_backend/internal/util"
	"python_tutor_backend/pkg/configwatcher"
	"python_tutor_backend/pkg/database"
	"python_tutor_backend/pkg/logger"
	"python_tutor_backend/pkg/monitoring"
	"python_tutor_backend/pkg/security"
	"python_tutor_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configDir = "configs"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	origins         *security.OriginList
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	module       *repository.ModuleRepository
	lesson       *repository.LessonRepository
	progress     *repository.ProgressRepository
	feedback     *repository.FeedbackRepository
	announcement *repository.AnnouncementRepository
	message      *repository.MessageRepository
	activity     *repository.ActivityRepository
	resource     *repository.ResourceRepository
	dashboard    *repository.DashboardRepository
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	seed         *service.SeedService
	activity     *service.ActivityService
	course       *service.CourseService
	progress     *service.ProgressService
	feedback     *service.FeedbackService
	announcement *service.AnnouncementService
	message      *service.MessageService
	ai           *service.AIService
	analytics    *service.AnalyticsService
	storage      *service.StorageService
	resource     *service.ResourceService
	console      *service.ConsoleService
	hub          *service.NotificationHub
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	course       *controller.CourseController
	progress     *controller.ProgressController
	feedback     *controller.FeedbackController
	announcement *controller.AnnouncementController
	message      *controller.MessageController
	ai           *controller.AIController
	analytics    *controller.AnalyticsController
	resource     *controller.ResourceController
	console      *controller.ConsoleController
	notification *controller.NotificationController
	health       *controller.HealthController
}

// RegisterConfigCallback adds a hook run after every hot reload of the config file.
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		module:       repository.NewModuleRepository(db),
		lesson:       repository.NewLessonRepository(db),
		progress:     repository.NewProgressRepository(db),
		feedback:     repository.NewFeedbackRepository(db),
		announcement: repository.NewAnnouncementRepository(db),
		message:      repository.NewMessageRepository(db),
		activity:     repository.NewActivityRepository(db),
		resource:     repository.NewResourceRepository(db),
		dashboard:    repository.NewDashboardRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.hub = service.NewNotificationHub(rdb)
	go s.hub.Run()

	s.activity = service.NewActivityService(repos.activity)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.seed = service.NewSeedService(repos.user, repos.module, repos.lesson, repos.announcement)
	s.course = service.NewCourseService(repos.module, repos.lesson, rdb)
	s.progress = service.NewProgressService(repos.progress, repos.lesson, s.activity)
	s.feedback = service.NewFeedbackService(repos.feedback, repos.progress, repos.user)
	s.announcement = service.NewAnnouncementService(repos.announcement, s.hub)
	s.message = service.NewMessageService(repos.message, s.hub)
	s.ai = service.NewAIService(cfg.AI, s.activity, repos.user, repos.lesson)
	s.analytics = service.NewAnalyticsService(
		repos.user,
		repos.module,
		repos.lesson,
		repos.progress,
		repos.message,
		repos.activity,
		repos.dashboard,
	)
	s.storage = service.NewStorageService(cfg)
	s.resource = service.NewResourceService(repos.resource, s.storage)
	s.console = service.NewConsoleService(s.activity)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth, s.user, s.seed),
		user:         controller.NewUserController(s.user, s.hub),
		course:       controller.NewCourseController(s.course),
		progress:     controller.NewProgressController(s.progress),
		feedback:     controller.NewFeedbackController(s.feedback),
		announcement: controller.NewAnnouncementController(s.announcement),
		message:      controller.NewMessageController(s.message),
		ai:           controller.NewAIController(s.ai),
		analytics:    controller.NewAnalyticsController(s.analytics),
		resource:     controller.NewResourceController(s.resource),
		console:      controller.NewConsoleController(s.console),
		notification: controller.NewNotificationController(s.hub),
		health:       controller.NewHealthController(db, rdb, s.ai),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Log))
	router.Use(gin.Recovery())
	router.Use(security.CORS(a.origins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))

	if a.tracer != nil {
		router.Use(tracing.GinMiddleware(a.tracer))
	}

	router.Use(monitoring.MetricsMiddleware())
}

// watchConfig applies hot-reloadable settings: AI credentials and the CORS allow-list.
func (a *App) watchConfig(ctx context.Context) {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		if err := a.services.ai.Configure(cfg.AI); err != nil {
			logger.Log.Warn("AI provider reload failed", zap.Error(err))
		}
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		a.origins.Replace(cfg.CORS.Origins())
	})

	go func() {
		err := configwatcher.WatchConfig(ctx, configDir, func(cfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(cfg)
			}
		})
		if err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	if err := logger.InitLogger(cfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Log.Info("Logger initialized", zap.String("file", cfg.Log.File))

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Database migration failed", zap.Error(err))
		}
		logger.Log.Info("Database migrated")
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	app.Redis = rdb

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(app.services, db, rdb)

	if cfg.Seed {
		result, err := app.services.seed.Seed()
		if err != nil {
			logger.Log.Fatal("Seeding demo data failed", zap.Error(err))
		}
		logger.Log.Info("Demo data ready",
			zap.Int("lessons", result.LessonsCount),
			zap.Int("announcements", result.AnnouncementsCount),
		)
	}

	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	app.Router = router
	app.origins = security.NewOriginList(cfg.CORS.Origins())

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stopWatching := context.WithCancel(context.Background())
	defer stopWatching()
	a.watchConfig(ctx)

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	if a.services != nil && a.services.hub != nil {
		a.services.hub.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
