package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ishuri/school-console/internal/api"
	"github.com/ishuri/school-console/internal/auth"
	"github.com/ishuri/school-console/internal/handler"
	"github.com/ishuri/school-console/internal/loader"
	"github.com/ishuri/school-console/internal/service"
	"github.com/ishuri/school-console/pkg/config"
	"github.com/ishuri/school-console/pkg/logger"
	corsmiddleware "github.com/ishuri/school-console/pkg/middleware/cors"
	metricsmiddleware "github.com/ishuri/school-console/pkg/middleware/metrics"
	reqidmiddleware "github.com/ishuri/school-console/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()

	var tokenStore auth.TokenStore = auth.NewMemoryStore()
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		tokenStore = auth.NewRedisStore(client, cfg.Auth.TokenStorageKey)
	}

	backend := api.New(cfg.Backend.BaseURL, cfg.Backend.Timeout,
		api.WithTokenSource(auth.Source{Store: tokenStore}),
		api.WithLogger(logr),
		api.WithHooks(api.Hooks{
			ObserveRequest: func(method, path string, status int, duration time.Duration) {
				metrics.ObserveBackendFetch(method, path, duration)
			},
		}),
	)

	loaderCfg := loader.Config{
		Delay:       cfg.Loader.Delay,
		Concurrency: cfg.Loader.Concurrency,
		Logger:      logr,
		Hooks: loader.Hooks{
			OnFetch:    func() { metrics.RecordCacheLookup(false); metrics.RecordRowLoaded() },
			OnCacheHit: func() { metrics.RecordCacheLookup(true) },
		},
	}

	years := service.NewAcademicYearService(backend, logr)
	terms := service.NewTermService(backend, logr)
	grades := service.NewGradeService(backend, logr)
	classes := service.NewClassService(backend, loaderCfg, logr)
	students := service.NewStudentService(backend, backend, logr)
	tariffs := service.NewTariffService(backend, logr)
	billing := service.NewBillingService(backend, loaderCfg, logr)
	users := service.NewUserService(backend, logr)
	imports := service.NewImportService(backend, logr)
	exports := service.NewExportService(backend, logr)

	pages := handler.ListSettings{
		DefaultPageSize:  cfg.Views.DefaultPageSize,
		AllowedPageSizes: cfg.Views.AllowedPageSizes,
	}

	yearHandler := handler.NewAcademicYearHandler(years, pages)
	termHandler := handler.NewTermHandler(terms, pages)
	gradeHandler := handler.NewGradeHandler(grades, pages)
	classHandler := handler.NewClassHandler(classes, pages, logr)
	studentHandler := handler.NewStudentHandler(students, pages)
	tariffHandler := handler.NewTariffHandler(tariffs, pages)
	billingHandler := handler.NewBillingHandler(billing, logr)
	userHandler := handler.NewUserHandler(users, pages)
	importHandler := handler.NewImportHandler(imports)
	exportHandler := handler.NewExportHandler(exports, cfg.Export.Dir, logr)
	metricsHandler := handler.NewMetricsHandler(metrics)
	authHandler := handler.NewAuthHandler(tokenStore)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(metricsmiddleware.Middleware(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	v1 := r.Group(cfg.APIPrefix)
	{
		v1.GET("/session", authHandler.Session)
		v1.PUT("/session", authHandler.SetToken)
		v1.DELETE("/session", authHandler.ClearToken)

		v1.GET("/metrics/snapshot", metricsHandler.Snapshot)

		v1.GET("/academic-years", yearHandler.List)
		v1.GET("/academic-years/current", yearHandler.Current)
		v1.POST("/academic-years/preview", yearHandler.Preview)
		v1.POST("/academic-years", yearHandler.Create)
		v1.PUT("/academic-years/:id", yearHandler.Update)
		v1.DELETE("/academic-years/:id", yearHandler.Delete)
		v1.POST("/academic-years/:id/activate", yearHandler.Activate)
		v1.POST("/academic-years/:id/close", yearHandler.Close)

		v1.GET("/terms", termHandler.List)
		v1.POST("/terms", termHandler.Create)
		v1.PUT("/terms/:id", termHandler.Update)
		v1.DELETE("/terms/:id", termHandler.Delete)
		v1.POST("/terms/:id/activate", termHandler.Activate)
		v1.POST("/terms/:id/complete", termHandler.Complete)

		v1.GET("/grades", gradeHandler.List)
		v1.POST("/grades", gradeHandler.Create)
		v1.PUT("/grades/:id", gradeHandler.Update)
		v1.DELETE("/grades/:id", gradeHandler.Delete)
		v1.PUT("/grades/:id/active", gradeHandler.SetActive)
		v1.GET("/grades/statistics", gradeHandler.Statistics)
		v1.GET("/grades/:id/classes", classHandler.ByGrade)

		v1.GET("/classes", classHandler.List)
		v1.POST("/classes/load", classHandler.Load)
		v1.POST("/classes", classHandler.Create)
		v1.PUT("/classes/:id", classHandler.Update)
		v1.DELETE("/classes/:id", classHandler.Delete)
		v1.GET("/classes/:id/students", studentHandler.ByClass)
		v1.GET("/classes/:id/tariffs", tariffHandler.ClassTariffs)
		v1.PUT("/classes/:id/tariffs", tariffHandler.Assign)
		v1.DELETE("/classes/:id/tariffs/:tariffId", tariffHandler.Remove)
		v1.GET("/classes/:id/tariffs/:tariffId/progress", tariffHandler.PaymentProgress)

		v1.GET("/students", studentHandler.List)
		v1.POST("/students", studentHandler.Register)
		v1.PUT("/students/:id", studentHandler.Update)
		v1.POST("/students/:id/deactivate", studentHandler.Deactivate)
		v1.POST("/students/:id/promote", studentHandler.Promote)
		v1.POST("/students/bulk-promote", studentHandler.BulkPromote)
		v1.POST("/students/:id/transfer", studentHandler.Transfer)
		v1.POST("/students/:id/graduate", studentHandler.Graduate)
		v1.POST("/students/import/preview", importHandler.Preview)
		v1.POST("/students/import", importHandler.Submit)

		v1.GET("/tariffs", tariffHandler.List)
		v1.POST("/tariffs", tariffHandler.Create)
		v1.PUT("/tariffs/:id", tariffHandler.Update)
		v1.GET("/tariffs/statistics", tariffHandler.Stats)

		v1.POST("/billing/classes/:classId/open", billingHandler.OpenClass)
		v1.GET("/billing/classes/:classId", billingHandler.ClassDetails)
		v1.GET("/billing/rows", billingHandler.Rows)
		v1.GET("/billing/bills/:billId/items", billingHandler.BillItems)
		v1.POST("/billing/bills/:billId/payments", billingHandler.RecordPayment)
		v1.POST("/billing/bills/:billId/payment-form", billingHandler.PaymentForm)
		v1.POST("/billing/items/:itemId/payments", billingHandler.RecordItemPayment)
		v1.GET("/billing/overview", billingHandler.Overview)

		v1.GET("/users", userHandler.List)
		v1.GET("/users/roles", userHandler.Roles)
		v1.POST("/users", userHandler.Create)
		v1.PUT("/users/:id", userHandler.Update)
		v1.DELETE("/users/:id", userHandler.Delete)
		v1.PUT("/users/:id/active", userHandler.SetActive)
		v1.POST("/users/bulk", userHandler.BulkAction)
		v1.GET("/users/statistics", userHandler.Statistics)

		v1.GET("/export/classes/:classId/roster", exportHandler.ClassRoster)
		v1.POST("/export/statements", exportHandler.Statement)
		v1.POST("/export/receipts", exportHandler.Receipt)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("console gateway starting", "addr", addr, "env", cfg.Env, "backend", cfg.Backend.BaseURL)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
