package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oulia/oulia/gateway/internal/application/usecase"
	"github.com/oulia/oulia/gateway/internal/infrastructure/monitoring"
	"github.com/oulia/oulia/gateway/internal/interfaces/http/handlers"
	"github.com/oulia/oulia/gateway/internal/interfaces/websocket"
)

// maxBodyBytes bounds request bodies; guest photos arrive inline.
const maxBodyBytes = 12 << 20

// Server HTTP服务器
type Server struct {
	server *http.Server
	router *gin.Engine
	logger *zap.Logger
}

// Config HTTP服务器配置
type Config struct {
	Host           string
	Port           int
	Mode           string // debug, release, test
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
	// RateLimitRPS <= 0 disables the guest route limiter.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Services are the use cases the API exposes.
type Services struct {
	Auth          *usecase.AuthUseCase
	Properties    *usecase.PropertyUseCase
	Conversations *usecase.ConversationUseCase
	Turns         *usecase.ChatTurnUseCase
	Translate     *usecase.TranslateUseCase
	Issues        *usecase.ReportIssueUseCase
	Tokens        TokenVerifier
	// Hub is optional; without it the live notification feed is not served.
	Hub *websocket.Hub
	// Health reports dependency state for /health. Optional.
	Health func(ctx context.Context) map[string]string
	// Monitor, when set, counts requests and serves /metrics.
	Monitor *monitoring.Monitor
}

// NewServer 创建HTTP服务器
func NewServer(cfg Config, svc Services, logger *zap.Logger) *Server {
	switch cfg.Mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(cfg.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logger))
	if svc.Monitor != nil {
		router.Use(countRequests(svc.Monitor))
	}
	router.Use(cors(cfg.AllowedOrigins))
	router.Use(func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		c.Next()
	})

	setupRoutes(router, cfg, svc, logger)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		router: router,
		logger: logger,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start 启动服务器
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server", zap.String("address", s.server.Addr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop 停止服务器
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// setupRoutes 设置路由
func setupRoutes(router *gin.Engine, cfg Config, svc Services, logger *zap.Logger) {
	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "ok", "time": time.Now().Unix()}
		if svc.Health != nil {
			body["components"] = svc.Health(c.Request.Context())
		}
		c.JSON(http.StatusOK, body)
	})
	if svc.Monitor != nil {
		router.GET("/metrics", gin.WrapH(svc.Monitor.PrometheusHandler()))
	}

	authHandler := handlers.NewAuthHandler(svc.Auth, logger)
	propertyHandler := handlers.NewPropertyHandler(svc.Properties, logger)
	chatHandler := handlers.NewChatHandler(svc.Conversations, svc.Turns, svc.Translate, svc.Issues, logger)
	host := requireHost(svc.Tokens, false)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/profile", host, authHandler.Profile)
	}

	api.GET("/properties/public/:propertyId", propertyHandler.GetPublic)

	props := api.Group("/properties", host)
	{
		props.POST("", propertyHandler.Create)
		props.GET("", propertyHandler.List)
		props.GET("/:id", propertyHandler.Get)
		props.PUT("/:id", propertyHandler.Update)
		props.DELETE("/:id", propertyHandler.Delete)

		props.POST("/:id/knowledge", propertyHandler.AddKnowledge)
		props.DELETE("/:id/knowledge/:itemId", propertyHandler.DeleteKnowledge)
		props.POST("/:id/services", propertyHandler.AddService)
		props.PUT("/:id/services/:serviceId", propertyHandler.UpdateService)
		props.DELETE("/:id/services/:serviceId", propertyHandler.DeleteService)
		props.POST("/:id/checkin", propertyHandler.AddCheckInStep)
		props.DELETE("/:id/checkin/:stepId", propertyHandler.DeleteCheckInStep)
		props.GET("/:id/issues", propertyHandler.ListIssues)
	}

	notes := api.Group("/notifications")
	{
		notes.GET("", host, propertyHandler.ListNotifications)
		notes.POST("/:id/read", host, propertyHandler.MarkNotificationRead)
		if svc.Hub != nil {
			notes.GET("/ws", requireHost(svc.Tokens, true), func(c *gin.Context) {
				svc.Hub.ServeWS(c.Writer, c.Request, c.GetString(handlers.ContextHostID))
			})
		}
	}

	// Guest routes are public, so they are rate limited per client IP.
	chat := api.Group("/chat")
	if cfg.RateLimitRPS > 0 {
		chat.Use(rateLimit(newIPLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)))
	}
	{
		chat.POST("/conversations/:id", chatHandler.StartConversation)
		chat.GET("/conversations/:id", chatHandler.History)
		chat.POST("/conversations/:id/messages", chatHandler.SendMessage)
		chat.POST("/translate", chatHandler.Translate)
		chat.POST("/issues/:propertyId", chatHandler.ReportIssue)
	}
}
