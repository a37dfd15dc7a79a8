package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trailforge_backend/internal/config"
	"trailforge_backend/internal/controller"
	"trailforge_backend/internal/repository"
	"trailforge_backend/internal/service"
	"trailforge_backend/pkg/database"
	"trailforge_backend/pkg/logger"
	"trailforge_backend/pkg/monitoring"
	"trailforge_backend/pkg/security"
	"trailforge_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	trail       *repository.TrailRepository
	module      *repository.ModuleRepository
	submission  *repository.SubmissionRepository
	skillLevel  *repository.SkillLevelRepository
	achievement *repository.AchievementRepository
	activity    *repository.ActivityRepository
	certificate *repository.CertificateRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	storage     *service.StorageService
	stats       *service.StatsService
	skillLevel  *service.SkillLevelService
	xp          *service.XPService
	achievement *service.AchievementService
	progression *service.ProgressionService
	review      *service.ReviewService
	learning    *service.LearningService
	activity    *service.ActivityService
	analytics   *service.AnalyticsService
	certificate *service.CertificateService
}

type controllers struct {
	auth        *controller.AuthController
	learning    *controller.LearningController
	review      *controller.ReviewController
	achievement *controller.AchievementController
	analytics   *controller.AnalyticsController
	user        *controller.UserController
	certificate *controller.CertificateController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热加载入口，逐个通知已注册的回调
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		trail:       repository.NewTrailRepository(db),
		module:      repository.NewModuleRepository(db),
		submission:  repository.NewSubmissionRepository(db),
		skillLevel:  repository.NewSkillLevelRepository(db),
		achievement: repository.NewAchievementRepository(db),
		activity:    repository.NewActivityRepository(db),
		certificate: repository.NewCertificateRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.activity = service.NewActivityService(repos.activity, repos.user)

	s.stats = service.NewStatsService(
		repos.user,
		repos.module,
		repos.submission,
		repos.trail,
		repos.certificate,
		repos.skillLevel,
	)
	s.skillLevel = service.NewSkillLevelService(
		repos.skillLevel,
		cfg.Engine.MaxRetries,
		time.Duration(cfg.Engine.RetryBackoffMs)*time.Millisecond,
	)
	s.xp = service.NewXPService(repos.user, repos.module)
	s.achievement = service.NewAchievementService(repos.achievement, repos.user, s.stats, rdb)

	// 有 Redis 时事件走发布订阅，否则退化为结构化日志
	var notifier service.Notifier = service.NewLogNotifier()
	if rdb != nil {
		notifier = service.NewRedisNotifier(rdb)
	}

	s.progression = service.NewProgressionService(db, s.skillLevel, s.xp, s.achievement, notifier)
	s.review = service.NewReviewService(repos.submission, repos.module, s.progression, db)
	s.learning = service.NewLearningService(repos.trail, repos.module, repos.submission, repos.skillLevel)
	s.analytics = service.NewAnalyticsService(repos.trail, repos.module, repos.submission, repos.certificate)
	s.certificate = service.NewCertificateService(repos.certificate, repos.trail, s.progression)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		learning:    controller.NewLearningController(s.learning, s.storage),
		review:      controller.NewReviewController(s.review),
		achievement: controller.NewAchievementController(s.achievement, s.stats, s.skillLevel),
		analytics:   controller.NewAnalyticsController(s.analytics),
		user:        controller.NewUserController(s.user, s.certificate),
		certificate: controller.NewCertificateController(s.certificate),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	corsPolicy := security.NewCORSPolicy(cfg.CORS.AllowedOrigins)
	limiter := security.NewRateLimiter(
		cfg.RateLimit.MaxRequests,
		time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute,
	)

	router.Use(corsPolicy.Middleware())
	router.Use(security.Secure())
	router.Use(limiter.Middleware())

	// 配置热加载只覆盖请求期读取的部分：CORS白名单和限流限额
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		corsPolicy.Update(newCfg.CORS.AllowedOrigins)
		limiter.Update(
			newCfg.RateLimit.MaxRequests,
			time.Duration(newCfg.RateLimit.WindowMinutes)*time.Minute,
		)
	})

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Redis 不可用时排行榜缓存与事件发布降级，不阻止启动
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, cache and pub/sub disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("trailforge", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, services, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	// 等待在途的成就评估落库，避免丢失已调度的解锁
	a.services.progression.WaitForEvaluations()

	logger.Log.Sync()
	log.Println("Server exiting")
}
