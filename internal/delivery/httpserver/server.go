package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/torqueup/assistant-api/config"
	"github.com/torqueup/assistant-api/internal/usecase"
)

// Server wraps the gin engine with graceful shutdown helpers.
type Server struct {
	cfg     *config.Config
	engine  *gin.Engine
	log     zerolog.Logger
	handler *Handler
}

// New constructs the HTTP server with default middleware and routes.
func New(
	cfg *config.Config,
	log zerolog.Logger,
	chatUC usecase.ChatUseCase,
	listingUC usecase.ListingUseCase,
	catalogUC usecase.CatalogUseCase,
) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(log))
	engine.Use(corsAllowAll())

	handler := NewHandler(cfg, log, chatUC, listingUC, catalogUC)
	registerRoutes(engine, cfg, handler)

	return &Server{
		cfg:     cfg,
		engine:  engine,
		log:     log,
		handler: handler,
	}
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the listener and shuts down gracefully when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr()).Msg("HTTP server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("HTTP server error")
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("Context cancelled, shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func registerRoutes(engine *gin.Engine, cfg *config.Config, h *Handler) {
	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": cfg.ServiceName,
			"status":  "ok",
		})
	})

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	engine.GET("/readyz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	engine.POST("/gemini-chat", h.Chat)

	v1 := engine.Group("/v1")
	{
		v1.GET("/vehicles", h.ListVehicles)
		v1.GET("/vehicles/search", h.SearchVehicles)
		v1.GET("/parts", h.SearchParts)
		v1.GET("/chat/history", h.ChatHistory)
		v1.DELETE("/chat/history", h.ClearChatHistory)

		admin := v1.Group("/admin", h.RequireAdmin)
		{
			admin.POST("/catalog", h.ImportCatalog)
			admin.GET("/imports", h.RecentImports)
		}
	}
}
