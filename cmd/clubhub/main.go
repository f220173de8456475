package main

import (
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/ymatsuda/clubhub/internal/config"
	"github.com/ymatsuda/clubhub/internal/logging"
	"github.com/ymatsuda/clubhub/internal/notion"
	"github.com/ymatsuda/clubhub/internal/service"
	"github.com/ymatsuda/clubhub/internal/store"
	"github.com/ymatsuda/clubhub/internal/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "reason", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	var opts []notion.Option
	if cfg.NotionBaseURL != "" {
		opts = append(opts, notion.WithBaseURL(cfg.NotionBaseURL))
	}
	if cfg.NotionTimeout > 0 {
		opts = append(opts, notion.WithTimeout(cfg.NotionTimeout))
	}
	client := notion.NewClient(cfg.NotionAPIKey, opts...)

	userStore := store.NewUserStore(client, cfg.UsersDatabaseID, logger)
	eventStore := store.NewEventStore(client, cfg.EventsDatabaseID, logger)
	locationStore := store.NewLocationStore(client, cfg.LocationsDatabaseID, logger)
	attendanceStore := store.NewAttendanceStore(client, cfg.AttendanceDatabaseID, logger)
	newsStore := store.NewNewsStore(client, cfg.NewsDatabaseID, logger)

	authService := service.NewAuthService(userStore, cfg.SharedPassword, logger)
	eventService := service.NewEventService(eventStore, locationStore, attendanceStore, userStore, logger)
	attendanceService := service.NewAttendanceService(attendanceStore, logger)
	userService := service.NewUserService(userStore, logger)
	locationService := service.NewLocationService(locationStore, logger)
	newsService := service.NewNewsService(newsStore)

	server := web.NewServer(
		authService,
		eventService,
		attendanceService,
		userService,
		locationService,
		newsService,
		logger,
		web.Options{MetricsEnabled: cfg.MetricsEnabled},
	)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
