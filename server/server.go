package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"resortadmin/database"
	"resortadmin/internal/config"
	"resortadmin/matcher"
	"resortadmin/server/handlers"
	"resortadmin/server/middleware"
	"resortadmin/server/services"
	"resortadmin/workbench"
)

// Server HTTP сервер панели администратора каталога курортов
type Server struct {
	config     *config.Config
	db         *database.ResortDB
	registry   *workbench.Registry
	httpServer *http.Server

	handlerOnce sync.Once
	httpHandler http.Handler

	reconcileHandler *handlers.ReconcileHandler
	workbenchHandler *handlers.WorkbenchHandler
	auditHandler     *handlers.AuditHandler
}

// NewServer создает сервер со всеми зависимостями
func NewServer(db *database.ResortDB, cfg *config.Config) *Server {
	registry := workbench.NewRegistry()

	reconcileService := services.NewReconcileServiceWithThreshold(db, cfg.SimilarityThreshold)

	client := matcher.NewClient(matcher.ClientConfig{
		BaseURL:   cfg.MatcherBaseURL,
		Timeout:   cfg.MatcherTimeout,
		RateLimit: rate.Limit(cfg.MatcherRatePerSec),
	})

	audit := &dbAuditSink{db: db}

	return &Server{
		config:           cfg,
		db:               db,
		registry:         registry,
		reconcileHandler: handlers.NewReconcileHandler(reconcileService),
		workbenchHandler: handlers.NewWorkbenchHandler(registry, client, audit),
		auditHandler:     handlers.NewAuditHandler(db),
	}
}

// ensureHTTPHandler собирает Gin роутер один раз
func (s *Server) ensureHTTPHandler() http.Handler {
	s.handlerOnce.Do(func() {
		s.httpHandler = s.buildHTTPHandler()
	})
	return s.httpHandler
}

// buildHTTPHandler собирает Gin роутер с middleware и маршрутами
func (s *Server) buildHTTPHandler() http.Handler {
	if ginMode := os.Getenv("GIN_MODE"); ginMode == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.GinRequestIDMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinGzipMiddleware())
	router.Use(middleware.GinLoggerMiddleware())
	router.Use(middleware.GinRecoveryMiddleware())

	handlers.RegisterSwaggerRoutes(router, "localhost:"+s.config.Port)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "resort-admin",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")

	// Сверка и импорт каталога (один эндпоинт, диспетчеризация по action)
	api.POST("/resorts/reconcile", s.reconcileHandler.HandleReconcile)

	// Воркбенч импорта
	workbenchAPI := api.Group("/workbench")
	{
		workbenchAPI.POST("/upload", s.workbenchHandler.HandleUpload)
		workbenchAPI.GET("/:id", s.workbenchHandler.HandleGet)
		workbenchAPI.GET("/:id/counts", s.workbenchHandler.HandleCounts)
		workbenchAPI.POST("/:id/rows/:index/edit", s.workbenchHandler.HandleEditField)
		workbenchAPI.POST("/:id/rows/:index/action", s.workbenchHandler.HandleSetAction)
		workbenchAPI.POST("/:id/check", s.workbenchHandler.HandleCheck)
		workbenchAPI.POST("/:id/push", s.workbenchHandler.HandlePush)
		workbenchAPI.GET("/:id/export", s.workbenchHandler.HandleExport)
		workbenchAPI.DELETE("/:id", s.workbenchHandler.HandleDelete)
	}

	// Журнал действий
	api.GET("/audit", s.auditHandler.HandleList)

	return router
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.ensureHTTPHandler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // Длинные сверки больших партий
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Сервер запускается на порту %s", s.config.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("не удалось запустить HTTP сервер на %s: %w", addr, err)
	}

	return nil
}

// ServeHTTP реализует http.Handler для тестов
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.ensureHTTPHandler().ServeHTTP(w, r)
}

// Shutdown останавливает HTTP сервер gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	log.Println("Initiating graceful shutdown...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка остановки сервера: %w", err)
	}

	log.Println("Graceful shutdown completed")
	return nil
}

// dbAuditSink пишет записи журнала в БД каталога.
// Ошибки записи логируются и глотаются: журнал не прерывает импорт.
type dbAuditSink struct {
	db *database.ResortDB
}

func (s *dbAuditSink) Record(ctx context.Context, action, entityType string, details map[string]interface{}) {
	payload, err := json.Marshal(details)
	if err != nil {
		log.Printf("⚠ Не удалось сериализовать запись журнала: %v", err)
		return
	}

	if err := s.db.AppendAudit(action, entityType, "", string(payload), "admin"); err != nil {
		log.Printf("⚠ Не удалось записать в журнал действий: %v", err)
	}
}
