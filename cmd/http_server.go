package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/almajalla/majalla/internal"
	"github.com/almajalla/majalla/internal/activitylog"
	activitylogPostgres "github.com/almajalla/majalla/internal/activitylog/postgres"
	"github.com/almajalla/majalla/internal/auth"
	authPostgres "github.com/almajalla/majalla/internal/auth/postgres"
	"github.com/almajalla/majalla/internal/category"
	categoryPostgres "github.com/almajalla/majalla/internal/category/postgres"
	"github.com/almajalla/majalla/internal/comment"
	commentPostgres "github.com/almajalla/majalla/internal/comment/postgres"
	"github.com/almajalla/majalla/internal/core/events"
	"github.com/almajalla/majalla/internal/publication"
	publicationPostgres "github.com/almajalla/majalla/internal/publication/postgres"
	"github.com/almajalla/majalla/internal/review"
	reviewPostgres "github.com/almajalla/majalla/internal/review/postgres"
	"github.com/almajalla/majalla/internal/roles"
	rolesPostgres "github.com/almajalla/majalla/internal/roles/postgres"
	"github.com/almajalla/majalla/internal/transport/rest"
	"github.com/almajalla/majalla/internal/user"
	userPostgres "github.com/almajalla/majalla/internal/user/postgres"
	"github.com/almajalla/majalla/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.InitWithConfig(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// gorm rides on the already pooled pgx connection
	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	bus := events.NewEventBus(log)

	// role store doubles as the authorization engine's role reader
	roleRepo := rolesPostgres.NewRoleRepository(gormDB)
	engine := auth.NewEngine(config.App.OwnerEmail, roleRepo, log)
	rbac := auth.NewRBACAuthorization(engine, log)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(gormDB), tokenGen, config.Security.BCryptCost)
	authHandler := auth.NewHandler(authService)

	userService := user.NewService(userPostgres.NewUserRepository(gormDB), roleRepo, engine, authService, log)

	activitySink := activitylog.NewService(activitylogPostgres.NewActivityRepository(gormDB), userService, log)
	activitySink.RegisterSubscriber(bus)
	recorder := activitylog.NewRecorder(bus, log)

	rolesService := roles.NewService(roleRepo, userService, engine, recorder, log)

	categoryRepo := categoryPostgres.NewCategoryRepository(gormDB)
	categoryService := category.NewService(categoryRepo, recorder, log)

	publicationRepo := publicationPostgres.NewPublicationRepository(gormDB)
	publicationService := publication.NewService(publicationRepo, recorder, log)

	commentService := comment.NewService(
		commentPostgres.NewCommentRepository(gormDB),
		publicationService,
		recorder,
		config.App.CommentReportAutoHide,
		log,
	)

	registry := review.NewRegistry()
	registry.Register(review.ItemTypeCategory, category.NewItemSource(categoryRepo))
	registry.Register(review.ItemTypePublication, publication.NewItemSource(publicationRepo))
	reviewService := review.NewService(reviewPostgres.NewReviewRepository(gormDB), registry, engine, recorder, log)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, rest.Handlers{
		Auth:        authHandler,
		User:        user.NewHandler(userService),
		Category:    category.NewHandler(categoryService),
		Publication: publication.NewHandler(publicationService),
		Comment:     comment.NewHandler(commentService),
		Roles:       roles.NewHandler(rolesService),
		Review:      review.NewHandler(reviewService),
		Activity:    activitylog.NewHandler(activitySink),
	}, rbac, config.Server.AllowedOrigins, log)

	return &Dependencies{
		Config: config,
		Logger: log,
		DB:     db,
		Router: router,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
