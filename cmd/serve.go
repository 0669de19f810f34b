package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	config "task-board-system.com/task-board-system/internal/configs"
	"task-board-system.com/task-board-system/internal/events"
	httpapi "task-board-system.com/task-board-system/internal/http"
	repository "task-board-system.com/task-board-system/internal/repositories"
	"task-board-system.com/task-board-system/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the task board HTTP API and the notification fan-out dispatcher",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()

		database := config.NewDatabaseClient(cfg.DatabaseDSN)

		// The memory backend keeps single-node deployments free of a
		// Redis dependency; events then do not survive a restart.
		var queue events.Queue
		if cfg.EventsBackend == "memory" {
			queue = events.NewMemoryQueue(cfg.EventQueueSize)
		} else {
			redisClient := config.NewRedisClient(cfg.RedisAddr)
			defer redisClient.Close()
			queue = events.NewRedisQueue(redisClient, cfg.RedisEventsKey)
		}

		taskRepo := repository.NewTaskRepository(database)
		projectRepo := repository.NewProjectRepository(database)
		noteRepo := repository.NewNoteRepository(database)
		attachmentRepo := repository.NewAttachmentRepository(database)
		notificationRepo := repository.NewNotificationRepository(database)

		taskService := services.NewTaskService(taskRepo, projectRepo, queue)
		projectService := services.NewProjectService(projectRepo, taskRepo, noteRepo, attachmentRepo, queue)
		notificationService := services.NewNotificationService(notificationRepo)

		fanout := services.NewFanoutService(taskRepo, projectRepo, notificationRepo)
		dispatcher := services.NewDispatcher(queue, fanout, cfg.FanoutWorkers)

		e := echo.New()
		handler := httpapi.NewHandler(taskService, projectService, notificationService)
		httpapi.Register(e, handler, cfg.RateLimit)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			log.Printf("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		_ = e.Shutdown(shutdownCtx)
		dispatcher.Shutdown(shutdownCtx)

		log.Println("HTTP server and fan-out dispatcher shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
