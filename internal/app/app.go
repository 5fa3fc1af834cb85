package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "visaflow/docs"
	"visaflow/internal/config"
	"visaflow/internal/handlers"
	"visaflow/internal/metrics"
	"visaflow/internal/middleware"
	"visaflow/internal/pdf"
	"visaflow/internal/repositories"
	"visaflow/internal/routes"
	"visaflow/internal/services"
	"visaflow/internal/utils"
)

// Deps are the outbound integrations. Nil fields are replaced by no-ops.
type Deps struct {
	Notifier services.Notifier
	Email    services.EmailService
	Registry *prometheus.Registry
	// BcryptCost overrides bcrypt.DefaultCost (tests use bcrypt.MinCost).
	BcryptCost int
}

func Run() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := Deps{Registry: reg, Notifier: newNotifier(cfg)}
	if cfg.Email.SMTPHost != "" {
		deps.Email = services.NewEmailService(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPUser, cfg.Email.SMTPPassword, cfg.Email.FromEmail)
	}

	if cfg.SeedEnabled() {
		passwords := services.NewAuthService(0)
		if err := repositories.Seed(context.Background(), store, passwords.HashPassword); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	router, err := NewRouter(cfg, store, deps)
	if err != nil {
		log.Fatalf("router: %v", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[app] listening on %s (store=%s)", srv.Addr, cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[app] graceful shutdown failed: %v", err)
	}
}

// NewRouter wires services and handlers over store.
func NewRouter(cfg *config.Config, store *repositories.Store, deps Deps) (*gin.Engine, error) {
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		s, err := utils.RandomHex(32)
		if err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		secret = s
		log.Printf("[app] warning: auth.jwt_secret is empty, using a random secret; tokens will not survive a restart")
	}
	tokens := middleware.NewTokenManager(secret, cfg.Auth.TokenTTL)

	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := metrics.New(reg)

	// === Services ===
	passwords := services.NewAuthService(deps.BcryptCost)
	directory := services.NewDirectoryService(store.Agents, store.Team)
	clientService := services.NewClientService(store.Clients, m)
	leadService := services.NewLeadService(store.Leads, store.Team, clientService, deps.Notifier, m)
	agentService := services.NewAgentService(store.Agents)
	teamService := services.NewTeamService(store.Team, passwords, deps.Email)
	reportService := services.NewReportService(store.Leads, store.Clients, directory)
	authProvider := services.NewAuthProvider(store.Team, passwords)
	docs := pdf.NewDocumentGenerator(cfg.Files.RootDir, cfg.Files.FontPath)

	// === Gin ===
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())
	router.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.SetupRoutes(router, tokens, routes.Handlers{
		Auth:    handlers.NewAuthHandler(authProvider, teamService, tokens, m),
		Leads:   handlers.NewLeadHandler(leadService, directory),
		Clients: handlers.NewClientHandler(clientService, directory, docs),
		Agents:  handlers.NewAgentHandler(agentService, reportService),
		Team:    handlers.NewTeamHandler(teamService),
		Reports: handlers.NewReportHandler(reportService),
	})
	return router, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

func openStore(cfg *config.Config) (*repositories.Store, func(), error) {
	if cfg.Database.Driver != "postgres" {
		return repositories.NewMemoryStore(), func() {}, nil
	}
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := repositories.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	closeFn := func() {
		if err := db.Close(); err != nil {
			log.Printf("[app] close db: %v", err)
		}
	}
	return repositories.NewPostgresStore(db), closeFn, nil
}

func newNotifier(cfg *config.Config) services.Notifier {
	if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == 0 {
		return services.NoopNotifier()
	}
	tg, err := services.NewTelegramService(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		log.Printf("[app] warning: telegram disabled: %v", err)
		return services.NoopNotifier()
	}
	return tg
}
