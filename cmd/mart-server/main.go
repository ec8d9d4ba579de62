package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinmart/clinmart/internal/config"
	"github.com/clinmart/clinmart/internal/domain/consolidation"
	"github.com/clinmart/clinmart/internal/domain/costsummary"
	"github.com/clinmart/clinmart/internal/domain/deptpivot"
	"github.com/clinmart/clinmart/internal/domain/firstvisit"
	"github.com/clinmart/clinmart/internal/domain/pipeline"
	"github.com/clinmart/clinmart/internal/domain/readmission"
	"github.com/clinmart/clinmart/internal/domain/runlog"
	"github.com/clinmart/clinmart/internal/domain/source"
	"github.com/clinmart/clinmart/internal/platform/auth"
	"github.com/clinmart/clinmart/internal/platform/db"
	"github.com/clinmart/clinmart/internal/platform/middleware"
	"github.com/clinmart/clinmart/internal/platform/reporting"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mart-server",
		Short: "Clinical data mart refresh service",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(refreshCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the mart API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run mart schema migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func refreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh [component...]",
		Short: "Rebuild mart tables from the raw snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			if !all && len(args) == 0 {
				return fmt.Errorf("name at least one component or pass --all")
			}

			logger := newLogger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			runner, _ := buildPipeline(pool, logger)

			if all {
				results, err := runner.RunAll(ctx)
				printResults(results)
				return err
			}
			for _, name := range args {
				result, err := runner.RunComponent(ctx, name)
				printResults([]pipeline.Result{result})
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("all", false, "Refresh every component in dependency order")
	return cmd
}

func printResults(results []pipeline.Result) {
	for _, r := range results {
		if r.Component == "" {
			continue
		}
		line := fmt.Sprintf("%-20s %-10s rows=%d took=%s",
			r.Component, r.Status, r.RowsWritten, r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
		if r.Error != "" {
			line += " error=" + r.Error
		}
		fmt.Println(line)
	}
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

// buildPipeline wires the refresh components in dependency order: the
// consolidator first, every derived table after it.
func buildPipeline(pool *pgxpool.Pool, logger zerolog.Logger) (*pipeline.Runner, runlog.Repository) {
	sourceRepo := source.NewRepo(pool)
	factRepo := consolidation.NewRepo(pool)
	runRepo := runlog.NewRepo(pool)

	components := []pipeline.Component{
		consolidation.NewService(sourceRepo, factRepo, logger),
		costsummary.NewService(factRepo, costsummary.NewRepo(pool), logger),
		firstvisit.NewService(factRepo, firstvisit.NewRepo(pool), logger),
		readmission.NewService(factRepo, readmission.NewRepo(pool), logger),
		deptpivot.NewService(factRepo, deptpivot.NewRepo(pool), logger),
	}

	return pipeline.NewRunner(runRepo, logger, components...), runRepo
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))

	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware([]byte(cfg.AuthJWTSecret)))
	}

	apiV1 := e.Group("/api/v1")

	runner, runRepo := buildPipeline(pool, logger)
	pipelineHandler := pipeline.NewHandler(runner, runRepo)
	pipelineHandler.RegisterRoutes(apiV1)

	reportingHandler := reporting.NewHandler(pool)
	reportingHandler.RegisterRoutes(apiV1)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
