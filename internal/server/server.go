package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carcarahealth/glica/internal/logger"
	"github.com/carcarahealth/glica/internal/services"
	"github.com/carcarahealth/glica/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server wires the HTTP API on top of the domain services.
type Server struct {
	reports     *services.ReportService
	history     *services.HistoryService
	adjustments *services.AdjustmentService
	handouts    *services.HandoutService
	sessions    session.Store

	engine *gin.Engine
}

// New builds the server with its routes registered.
func New(
	reports *services.ReportService,
	history *services.HistoryService,
	adjustments *services.AdjustmentService,
	handouts *services.HandoutService,
	sessions session.Store,
) *Server {
	s := &Server{
		reports:     reports,
		history:     history,
		adjustments: adjustments,
		handouts:    handouts,
		sessions:    sessions,
	}
	s.engine = s.setupRouter()
	return s
}

// Engine exposes the router, mostly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/reports", s.handleEvaluate)
		api.POST("/handouts", s.handleHandout)
		api.POST("/kinetics", s.handleKinetics)
		api.POST("/calculator", s.handleCalculator)
		api.GET("/meals/defaults", s.handleDefaultMeals)

		api.GET("/history", s.handleHistoryList)
		api.POST("/history", s.handleHistorySave)
		api.POST("/history/seed", s.handleHistorySeed)
		api.GET("/history/:id", s.handleHistoryGet)
		api.DELETE("/history/:id", s.handleHistoryDelete)
		api.POST("/history/:id/adjustment-plans", s.handleAdjustmentPlan)
		api.POST("/history/:id/adjustments", s.handleAdjustmentAppend)
		api.POST("/history/:id/handouts", s.handleEntryHandout)

		api.POST("/sessions", s.handleSessionCreate)
		api.GET("/sessions/:id", s.handleSessionGet)
		api.DELETE("/sessions/:id", s.handleSessionDelete)
		api.POST("/sessions/:id/intake", s.handleSessionIntake)
		api.POST("/sessions/:id/entry", s.handleSessionOpenEntry)
		api.POST("/sessions/:id/navigate", s.handleSessionNavigate)
		api.POST("/sessions/:id/home", s.handleSessionHome)
	}

	return router
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then shuts
// down gracefully.
func (s *Server) Run(port string) error {
	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}
