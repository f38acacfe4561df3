package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/tata-ai/tata/cmd/common"
	_ "github.com/tata-ai/tata/docs" // swagger docs
	"github.com/tata-ai/tata/pkg/audit"
	backuphttp "github.com/tata-ai/tata/pkg/backups/http"
	backupservice "github.com/tata-ai/tata/pkg/backups/service"
	"github.com/tata-ai/tata/pkg/config"
	httputil "github.com/tata-ai/tata/pkg/http"
	"github.com/tata-ai/tata/pkg/logger"
	"github.com/tata-ai/tata/pkg/monitoring"
	monitoringhttp "github.com/tata-ai/tata/pkg/monitoring/http"
	notificationhttp "github.com/tata-ai/tata/pkg/notifications/http"
	notificationservice "github.com/tata-ai/tata/pkg/notifications/service"
	silohttp "github.com/tata-ai/tata/pkg/silo/http"
	siloservice "github.com/tata-ai/tata/pkg/silo/service"
	"github.com/tata-ai/tata/pkg/silo/store"
	"github.com/tata-ai/tata/pkg/version"
)

const shutdownTimeout = 10 * time.Second

// Server holds every service behind the HTTP API
type Server struct {
	config    *config.Config
	logger    *logger.Logger
	store     store.Store
	templates *siloservice.TemplateService
	notifier  *notificationservice.NotificationService
	monitor   monitoring.Service
	backups   *backupservice.BackupService
	audit     *audit.AuditService
	router    *chi.Mux
}

// NewServer opens the template store and builds the services and router.
// Background work does not begin until Start.
func NewServer(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Server, error) {
	st, err := store.Open(cfg.Store.Config, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open template store: %w", err)
	}

	var opts []siloservice.Option
	if cfg.Store.Strict {
		opts = append(opts, siloservice.WithStrictBands())
	}
	templates := siloservice.NewTemplateService(st, log, opts...)
	if cfg.Store.Seed {
		seeded, err := templates.SeedSamples(ctx)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to seed sample templates: %w", err)
		}
		if seeded {
			log.Info("Seeded sample templates", "driver", cfg.Store.Driver, "path", cfg.Store.Path)
		}
	}

	notifier, err := notificationservice.NewNotificationService(cfg.Notifications.SMTP, log)
	if err != nil {
		st.Close()
		return nil, err
	}

	monitor, err := monitoring.NewService(&cfg.Monitoring, notifier, log)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to create service monitor: %w", err)
	}

	backups, err := backupservice.NewBackupService(cfg.Snapshots, templates, notifier, log)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to create snapshot service: %w", err)
	}

	s := &Server{
		config:    cfg,
		logger:    log,
		store:     st,
		templates: templates,
		notifier:  notifier,
		monitor:   monitor,
		backups:   backups,
		audit:     audit.NewService(audit.DefaultConfig(), log),
	}
	s.router = s.setupRouter()
	return s, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", audit.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	r.Use(audit.HTTPMiddleware(s.audit))

	siloHandler := silohttp.NewHandler(s.templates)
	monitoringHandler := monitoringhttp.NewHandler(s.monitor)
	notificationHandler := notificationhttp.NewNotificationHandler(s.notifier)
	backupHandler := backuphttp.NewHandler(s.backups)
	auditHandler := audit.NewHandler(s.audit)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(httputil.ResourceMiddleware("template-silos"))
			siloHandler.RegisterRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(httputil.ResourceMiddleware("snapshots"))
			backupHandler.RegisterRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(httputil.ResourceMiddleware("monitoring"))
			monitoringHandler.RegisterRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(httputil.ResourceMiddleware("notifications"))
			notificationHandler.RegisterRoutes(r)
		})
		auditHandler.RegisterRoutes(r)
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	if s.config.Server.Dev {
		r.Mount("/debug", middleware.Profiler())
	}
	return r
}

// Start launches the service monitor and the snapshot scheduler when enabled
func (s *Server) Start(ctx context.Context) error {
	if s.config.Monitoring.Enabled {
		if err := s.monitor.Start(ctx); err != nil {
			return fmt.Errorf("failed to start service monitor: %w", err)
		}
	}
	if s.config.Snapshots.Enabled {
		s.backups.Start()
	}
	return nil
}

// Close stops background work and releases the store
func (s *Server) Close(ctx context.Context) error {
	var errs []error
	if err := s.monitor.Stop(); err != nil {
		errs = append(errs, err)
	}
	if err := s.backups.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("snapshot scheduler: %w", err))
	}
	s.audit.Close()
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("template store: %w", err))
	}
	return errors.Join(errs...)
}

// Command returns the serve command
func Command(rt *common.Runtime) *cobra.Command {
	var (
		port        int
		dev         bool
		tlsCertFile string
		tlsKeyFile  string
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the HTTP API server on the specified port.
For example:
  tata serve --port 8100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rt.Config
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("dev") {
				cfg.Server.Dev = dev
			}

			isTLS := tlsCertFile != "" && tlsKeyFile != ""
			if isTLS {
				if _, err := os.Stat(tlsCertFile); os.IsNotExist(err) {
					return fmt.Errorf("TLS certificate file not found: %s", tlsCertFile)
				}
				if _, err := os.Stat(tlsKeyFile); os.IsNotExist(err) {
					return fmt.Errorf("TLS key file not found: %s", tlsKeyFile)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt.Logger.Info("Starting server", "version", version.String())
			srv, err := NewServer(ctx, cfg, rt.Logger)
			if err != nil {
				return err
			}
			if err := srv.Start(ctx); err != nil {
				srv.Close(context.Background())
				return err
			}

			httpServer := &http.Server{
				Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
				Handler: srv.Handler(),
			}

			errCh := make(chan error, 1)
			go func() {
				if isTLS {
					rt.Logger.Info("HTTPS server listening", "port", cfg.Server.Port, "store", cfg.Store.Driver, "dev", cfg.Server.Dev)
					errCh <- httpServer.ListenAndServeTLS(tlsCertFile, tlsKeyFile)
				} else {
					rt.Logger.Info("HTTP server listening", "port", cfg.Server.Port, "store", cfg.Store.Driver, "dev", cfg.Server.Dev)
					errCh <- httpServer.ListenAndServe()
				}
			}()

			var serveErr error
			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr = fmt.Errorf("failed to start HTTP server: %w", err)
				}
			case <-ctx.Done():
				rt.Logger.Info("Shutting down server")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				rt.Logger.Error("HTTP server shutdown failed", "error", err)
			}
			if err := srv.Close(shutdownCtx); err != nil {
				rt.Logger.Error("Failed to release server resources", "error", err)
			}
			return serveErr
		},
	}

	serveCmd.Flags().IntVarP(&port, "port", "p", 8100, "Port to run the HTTP server on")
	serveCmd.Flags().BoolVar(&dev, "dev", false, "Run in development mode (mounts /debug profiling routes)")
	serveCmd.Flags().StringVar(&tlsCertFile, "tls-cert", "", "Path to TLS certificate file for HTTP server")
	serveCmd.Flags().StringVar(&tlsKeyFile, "tls-key", "", "Path to TLS key file for HTTP server")

	return serveCmd
}
