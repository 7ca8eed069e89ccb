package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/oulia/oulia/gateway/internal/application/usecase"
	"github.com/oulia/oulia/gateway/internal/domain/service"
	"github.com/oulia/oulia/gateway/internal/domain/valueobject"
	"github.com/oulia/oulia/gateway/internal/infrastructure/auth"
	"github.com/oulia/oulia/gateway/internal/infrastructure/config"
	"github.com/oulia/oulia/gateway/internal/infrastructure/eventbus"
	"github.com/oulia/oulia/gateway/internal/infrastructure/llm"
	"github.com/oulia/oulia/gateway/internal/infrastructure/llm/gemini"
	"github.com/oulia/oulia/gateway/internal/infrastructure/monitoring"
	"github.com/oulia/oulia/gateway/internal/infrastructure/persistence"
	"github.com/oulia/oulia/gateway/internal/infrastructure/qrcode"
	httpServer "github.com/oulia/oulia/gateway/internal/interfaces/http"
	"github.com/oulia/oulia/gateway/internal/interfaces/telegram"
	"github.com/oulia/oulia/gateway/internal/interfaces/websocket"
	"github.com/oulia/oulia/gateway/pkg/safego"
)

// eventBufferSize bounds queued notification events.
const eventBufferSize = 256

// App 应用程序
type App struct {
	// 配置
	config *config.Config
	logger *zap.Logger
	db     *gorm.DB

	// 仓储层
	repos persistence.Repositories

	// 基础设施
	model   service.LanguageModel
	breaker *llm.BreakerModel
	bus     *eventbus.InMemoryBus
	monitor *monitoring.Monitor
	jwt     *auth.JWT
	hub     *websocket.Hub
	alerts  *telegram.Notifier

	// 应用服务
	authUseCase         *usecase.AuthUseCase
	propertyUseCase     *usecase.PropertyUseCase
	conversationUseCase *usecase.ConversationUseCase
	chatTurnUseCase     *usecase.ChatTurnUseCase
	translateUseCase    *usecase.TranslateUseCase
	reportIssueUseCase  *usecase.ReportIssueUseCase

	httpServer *httpServer.Server
	cancelHub  context.CancelFunc
}

// NewApp 创建应用程序（依赖注入容器）
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	app, err := newCore(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := app.initInterfaces(); err != nil {
		app.closeDB()
		return nil, fmt.Errorf("failed to init interfaces: %w", err)
	}
	return app, nil
}

// NewAppCLI creates a lightweight app for one-shot commands (seed, doctor).
// Skips: HTTP server, WebSocket hub, Telegram alerts.
func NewAppCLI(cfg *config.Config, logger *zap.Logger) (*App, error) {
	return newCore(cfg, logger)
}

func newCore(cfg *config.Config, logger *zap.Logger) (*App, error) {
	app := &App{
		config: cfg,
		logger: logger,
	}

	if err := app.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}

	app.initInfrastructure()
	app.initApplicationServices()
	return app, nil
}

// initRepositories 初始化仓储层
func (app *App) initRepositories() error {
	app.logger.Info("Initializing repositories", zap.String("database", app.config.Database.Type))

	db, err := persistence.NewDBConnection(&app.config.Database, app.logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.db = db
	app.repos = persistence.NewGormRepositories(db)
	return nil
}

// initInfrastructure 初始化基础设施
func (app *App) initInfrastructure() {
	app.logger.Info("Initializing infrastructure")
	cfg := app.config

	generation := valueobject.DefaultModelConfig()
	if cfg.LLM.Model != "" {
		generation = valueobject.NewModelConfig(cfg.LLM.Model, cfg.LLM.MaxOutputTokens,
			cfg.LLM.Temperature, cfg.LLM.TopP, cfg.LLM.TopK)
	}

	provider := gemini.New(gemini.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		VisionModel: cfg.LLM.VisionModel,
		Generation:  generation,
		Media:       llm.NewMediaLoader(cfg.LLM.Timeout, cfg.LLM.MaxMediaBytes),
	}, app.logger)

	app.monitor = monitoring.NewMonitor(app.logger)
	app.breaker = llm.NewBreakerModel(provider, llm.BreakerConfig{
		MaxFailures: cfg.LLM.Breaker.MaxFailures,
		OpenTimeout: cfg.LLM.Breaker.OpenTimeout,
	}, app.logger)
	app.model = monitoring.NewMeteredModel(app.breaker, app.monitor)

	app.bus = eventbus.NewInMemoryBus(app.logger, eventBufferSize)
	app.bus.Subscribe(eventbus.EventTypeIssueReported, app.monitor.HandleIssueReported)

	app.jwt = auth.NewJWT(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
}

// engineConfig converts the engine section; unset keys keep their defaults.
func (app *App) engineConfig() service.EngineConfig {
	e := app.config.Engine
	tone, _ := valueobject.ParseTone(e.DefaultTone)
	return service.EngineConfig{
		HistoryLimit:         e.HistoryLimit,
		DefaultLanguage:      e.DefaultLanguage,
		DefaultGuestName:     e.DefaultGuestName,
		DefaultTone:          tone,
		DefaultPersonality:   e.DefaultPersonality,
		DefaultIssueCategory: e.DefaultIssueCategory,
		LLMTimeout:           app.config.LLM.Timeout,
	}.WithDefaults()
}

// initApplicationServices 初始化应用服务
func (app *App) initApplicationServices() {
	app.logger.Info("Initializing application services")

	engine := app.engineConfig()
	repos := app.repos

	app.authUseCase = usecase.NewAuthUseCase(
		repos.Hosts, auth.NewBcrypt(app.config.Auth.BcryptCost), app.jwt, nil, app.logger)

	app.propertyUseCase = usecase.NewPropertyUseCase(usecase.Repositories{
		Properties:    repos.Properties,
		Knowledge:     repos.Knowledge,
		Conversations: repos.Conversations,
		Issues:        repos.Issues,
		Notifications: repos.Notifications,
	}, qrcode.NewGenerator(qrcode.DefaultSize), app.config.Server.FrontendURL, engine, nil, app.logger)

	app.conversationUseCase = usecase.NewConversationUseCase(
		repos.Properties, repos.Conversations, repos.Messages, engine, nil, app.logger)

	app.chatTurnUseCase = usecase.NewChatTurnUseCase(
		repos.Conversations, repos.Messages, repos.Properties, repos.Knowledge,
		app.model, engine, nil, app.logger)

	app.translateUseCase = usecase.NewTranslateUseCase(app.model, engine, app.logger)

	app.reportIssueUseCase = usecase.NewReportIssueUseCase(
		repos.Properties, repos.Hosts, repos.Issues, repos.Notifications,
		app.bus, engine, nil, app.logger)
}

// initInterfaces 初始化接口层
func (app *App) initInterfaces() error {
	app.logger.Info("Initializing interfaces")
	cfg := app.config

	app.hub = websocket.NewHub(cfg.CORS.AllowedOrigins, app.logger)
	app.bus.Subscribe(eventbus.EventTypeIssueReported, app.hub.HandleIssueReported)
	app.monitor.SetLiveClients(app.hub.GetClientCount)

	if cfg.Telegram.Enabled() {
		notifier, err := telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.AlertChatID, app.logger)
		if err != nil {
			// Alerts are optional; the dashboard feed still works.
			app.logger.Warn("Telegram alerts disabled", zap.Error(err))
		} else {
			app.alerts = notifier
			app.bus.Subscribe(eventbus.EventTypeIssueReported, notifier.HandleIssueReported)
		}
	}

	rps := 0.0
	if cfg.RateLimit.Enabled {
		rps = cfg.RateLimit.RPS
	}

	app.httpServer = httpServer.NewServer(httpServer.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Mode:           cfg.Server.Mode,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RateLimitRPS:   rps,
		RateLimitBurst: cfg.RateLimit.Burst,
	}, httpServer.Services{
		Auth:          app.authUseCase,
		Properties:    app.propertyUseCase,
		Conversations: app.conversationUseCase,
		Turns:         app.chatTurnUseCase,
		Translate:     app.translateUseCase,
		Issues:        app.reportIssueUseCase,
		Tokens:        app.jwt,
		Hub:           app.hub,
		Health:        app.Health,
		Monitor:       app.monitor,
	}, app.logger)

	return nil
}

// Start 启动应用程序
func (app *App) Start(ctx context.Context) error {
	app.logger.Info("Starting application")

	hubCtx, cancel := context.WithCancel(ctx)
	app.cancelHub = cancel
	safego.Go(app.logger, "websocket-hub", func() { app.hub.Run(hubCtx) })

	// 启动HTTP服务器
	if err := app.httpServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	app.logger.Info("Application started successfully",
		zap.String("address", app.config.Server.Addr()),
		zap.Bool("telegram_alerts", app.alerts != nil),
	)
	return nil
}

// Stop 停止应用程序
func (app *App) Stop(ctx context.Context) error {
	app.logger.Info("Stopping application")

	// 停止HTTP服务器
	if app.httpServer != nil {
		if err := app.httpServer.Stop(ctx); err != nil {
			app.logger.Error("Failed to stop HTTP server", zap.Error(err))
		}
	}
	if app.cancelHub != nil {
		app.cancelHub()
	}

	// Drain pending notifications before the store goes away.
	app.bus.Close()
	app.closeDB()

	app.logger.Info("Application stopped successfully")
	return nil
}

// Close releases resources of an app built with NewAppCLI.
func (app *App) Close() {
	app.bus.Close()
	app.closeDB()
}

func (app *App) closeDB() {
	if app.db == nil {
		return
	}
	sqlDB, err := app.db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		app.logger.Error("Failed to close database connection", zap.Error(err))
	}
}

// Health reports the state of each dependency.
func (app *App) Health(ctx context.Context) map[string]string {
	status := map[string]string{
		"database":   "ok",
		"llm":        app.breaker.State(),
		"live_feeds": "0",
	}
	if err := persistence.Ping(app.db); err != nil {
		status["database"] = err.Error()
	}
	if app.hub != nil {
		status["live_feeds"] = fmt.Sprint(app.hub.GetClientCount())
	}
	return status
}

// Logger returns the application logger
func (app *App) Logger() *zap.Logger {
	return app.logger
}

// AppConfig returns the application config
func (app *App) AppConfig() *config.Config {
	return app.config
}

// Auth returns the host account use case (used by seed).
func (app *App) Auth() *usecase.AuthUseCase {
	return app.authUseCase
}

// Properties returns the property use case (used by seed).
func (app *App) Properties() *usecase.PropertyUseCase {
	return app.propertyUseCase
}

// Repositories exposes the stores (used by seed).
func (app *App) Repositories() persistence.Repositories {
	return app.repos
}

// Model returns the guarded language model (used by doctor).
func (app *App) Model() service.LanguageModel {
	return app.model
}
