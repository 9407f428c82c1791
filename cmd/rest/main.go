package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"note-service-be/internal/bootstrap"
	"note-service-be/internal/config"
	"note-service-be/internal/pkg/logger"
	"note-service-be/internal/server"
	"note-service-be/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(context.Background(), cfg.Tracing, sysLogger)

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(context.Background(), cfg, sysLogger)
	if err != nil {
		sysLogger.Error("Main", "Unable to connect to the note store", map[string]interface{}{
			"error":  err,
			"driver": cfg.Database.Driver,
		})
		_ = sysLogger.Sync()
		os.Exit(1)
	}

	// 4. Start Background Services
	if err := container.ConsumerService.Consume(context.Background()); err != nil {
		sysLogger.Warn("Main", "Note event consumer did not start", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		if err := srv.Run(); err != nil {
			sysLogger.Error("Main", "Server stopped", map[string]interface{}{"error": err})
		}
	}()

	// 6. Wait for SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	sysLogger.Info("Main", "Shutting down", map[string]interface{}{"signal": sig.String()})

	if err := srv.Shutdown(cfg.App.ShutdownTimeout); err != nil {
		sysLogger.Warn("Main", "HTTP shutdown incomplete", map[string]interface{}{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := container.Close(ctx); err != nil {
		sysLogger.Warn("Main", "Failed to release resources", map[string]interface{}{"error": err.Error()})
	}
	if err := shutdownTracer(ctx); err != nil {
		sysLogger.Warn("Main", "Failed to flush traces", map[string]interface{}{"error": err.Error()})
	}
}
