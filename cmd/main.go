package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"table-orders/internal/config"
	"table-orders/internal/database"
	"table-orders/internal/logger"
	"table-orders/internal/messaging"
	"table-orders/internal/models"
	"table-orders/internal/services/auth"
	"table-orders/internal/services/menu"
	"table-orders/internal/services/menusync"
	"table-orders/internal/services/order"
)

func main() {
	// Parse command line flags
	var (
		mode       = flag.String("mode", "server", "Service mode (server, menu-watch)")
		port       = flag.Int("port", 0, "HTTP port (overrides config)")
		configPath = flag.String("config", "config.yaml", "Path to config file")
		serverURL  = flag.String("server-url", "http://localhost:3000", "Order server base URL (menu-watch mode)")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port == 0 {
		*port = cfg.Server.Port
	}

	// Create logger
	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
		"port": *port,
	})

	// Set up graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "server":
		if err := runServer(ctx, cfg, log, *port); err != nil {
			log.Error("service_failed", "Server failed", requestID, err, nil)
			os.Exit(1)
		}
	case "menu-watch":
		if err := runMenuWatch(ctx, cfg, log, *serverURL); err != nil {
			log.Error("service_failed", "Menu watcher failed", requestID, err, nil)
			os.Exit(1)
		}
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runServer runs the combined order, menu and auth HTTP service
func runServer(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	// Initialize database
	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	// Run database migrations
	if err := db.RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize messaging
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

	publisher := messaging.NewPublisher(conn, log)

	// Initialize repositories, services and handlers
	menuRepo := menu.NewPostgresRepository(db)
	menuService := menu.NewService(menuRepo, publisher, log)
	menuHandler := menu.NewHandler(menuService, log)

	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, menuRepo, log)
	orderHandler := order.NewHandler(orderService, log)

	authRepo := auth.NewPostgresRepository(db)
	authService := auth.NewService(authRepo, log)
	authHandler := auth.NewHandler(authService, log)

	mux := http.NewServeMux()
	menuHandler.Register(mux)
	orderHandler.Register(mux)
	authHandler.Register(mux)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		if err := db.Ping(r.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"status": status})
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: withLogging(log, mux),
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server_listening", fmt.Sprintf("HTTP server listening on port %d", port), requestID, map[string]interface{}{
			"port": port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info("graceful_shutdown", "Shutting down HTTP server", requestID, nil)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// runMenuWatch runs a standalone catalog follower: it seeds from the HTTP
// endpoint, then applies broadcast snapshots, logging each accepted version.
func runMenuWatch(ctx context.Context, cfg *config.Config, log *logger.Logger, serverURL string) error {
	requestID := logger.GenerateRequestID()

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	hostname, _ := os.Hostname()
	subscriber := messaging.NewSubscriber(conn, log, fmt.Sprintf("menu-watch-%s", hostname))

	fetcher := &httpMenuFetcher{baseURL: serverURL, client: &http.Client{Timeout: 10 * time.Second}}
	syncer := menusync.New(fetcher, &subscriberStream{sub: subscriber}, log)

	unsubscribe := syncer.Subscribe(func(snapshot models.MenuSnapshot) {
		log.Info("menu_updated", "Catalog view updated", requestID, map[string]interface{}{
			"version":    snapshot.Version,
			"item_count": len(snapshot.Items),
		})
	})
	defer unsubscribe()

	if err := syncer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// httpMenuFetcher pulls the current catalog snapshot over HTTP
type httpMenuFetcher struct {
	baseURL string
	client  *http.Client
}

func (f *httpMenuFetcher) FetchMenu(ctx context.Context) (models.MenuSnapshot, error) {
	var snapshot models.MenuSnapshot

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/menu", nil)
	if err != nil {
		return snapshot, fmt.Errorf("failed to build menu request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return snapshot, fmt.Errorf("failed to fetch menu: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return snapshot, fmt.Errorf("menu request returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return snapshot, fmt.Errorf("failed to decode menu snapshot: %w", err)
	}
	return snapshot, nil
}

// subscriberStream adapts the RabbitMQ subscriber to the syncer's stream
type subscriberStream struct {
	sub *messaging.Subscriber
}

func (s *subscriberStream) Start(ctx context.Context, handler func(ctx context.Context, snapshot models.MenuSnapshot) error) error {
	return s.sub.Start(ctx, messaging.SnapshotHandler(handler))
}

// withLogging logs each HTTP request with its status code and duration
func withLogging(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		log.Debug("http_request", "Handled HTTP request", logger.GenerateRequestID(), map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}

// responseWriter captures the status code for request logging
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
