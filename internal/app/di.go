// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/keyvault/internal/config"
	"github.com/allisson/keyvault/internal/database"
	"github.com/allisson/keyvault/internal/http"
	"github.com/allisson/keyvault/internal/metrics"
	schemaHTTP "github.com/allisson/keyvault/internal/schema/http"
	vaultHTTP "github.com/allisson/keyvault/internal/vault/http"
	"github.com/allisson/keyvault/internal/vault/repository"
	mysqlRepository "github.com/allisson/keyvault/internal/vault/repository/mysql"
	postgresqlRepository "github.com/allisson/keyvault/internal/vault/repository/postgresql"
	vaultService "github.com/allisson/keyvault/internal/vault/service"
	vaultUseCase "github.com/allisson/keyvault/internal/vault/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Vault components
	keyStore      vaultService.KeyStore
	keyManager    vaultService.KeyManager
	vaultUC       vaultUseCase.VaultUseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	keyStoreInit        sync.Once
	keyManagerInit      sync.Once
	vaultUseCaseInit    sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.initErrors["db"] = err
			return
		}
		c.db = db
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is
// returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}

		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		c.businessMetrics = bm
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// KeyStore returns the key store selected by configuration, wrapped by an
// external KMS keeper when a keeper URI is configured.
func (c *Container) KeyStore() (vaultService.KeyStore, error) {
	c.keyStoreInit.Do(func() {
		store, err := c.initKeyStore()
		if err != nil {
			c.initErrors["keyStore"] = err
			return
		}
		c.keyStore = store
	})
	if storedErr, exists := c.initErrors["keyStore"]; exists {
		return nil, storedErr
	}
	return c.keyStore, nil
}

// KeyManager returns the persistent key manager instance.
func (c *Container) KeyManager() (vaultService.KeyManager, error) {
	c.keyManagerInit.Do(func() {
		store, err := c.KeyStore()
		if err != nil {
			c.initErrors["keyManager"] = fmt.Errorf("failed to get key store for key manager: %w", err)
			return
		}
		c.keyManager = vaultService.NewPersistentKeyManager(store, c.Logger())
	})
	if storedErr, exists := c.initErrors["keyManager"]; exists {
		return nil, storedErr
	}
	return c.keyManager, nil
}

// VaultUseCase returns the vault use case, decorated with metrics recording.
func (c *Container) VaultUseCase() (vaultUseCase.VaultUseCase, error) {
	c.vaultUseCaseInit.Do(func() {
		useCase, err := c.initVaultUseCase()
		if err != nil {
			c.initErrors["vaultUseCase"] = err
			return
		}
		c.vaultUC = useCase
	})
	if storedErr, exists := c.initErrors["vaultUseCase"]; exists {
		return nil, storedErr
	}
	return c.vaultUC, nil
}

// HTTPServer returns the API HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics HTTP server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initKeyStore selects the backing store for the key record and applies the
// optional keeper decorator.
func (c *Container) initKeyStore() (vaultService.KeyStore, error) {
	var backend repository.KeyStoreBackend

	switch c.config.KeyStoreBackend {
	case "memory":
		backend = repository.NewMemoryKeyStore()
	case "file":
		backend = repository.NewFileKeyStore(c.config.KeyStoreFilePath)
	case "postgres", "mysql":
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for key store: %w", err)
		}
		if c.config.KeyStoreBackend == "mysql" {
			backend = mysqlRepository.NewMySQLKeyStore(db)
		} else {
			backend = postgresqlRepository.NewPostgreSQLKeyStore(db)
		}
	default:
		return nil, fmt.Errorf("unsupported key store backend: %s", c.config.KeyStoreBackend)
	}

	if c.config.KeeperURI == "" {
		return backend, nil
	}

	keeper, err := repository.OpenKeeper(context.Background(), c.config.KeeperURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open keeper: %w", err)
	}

	return repository.NewKeeperKeyStore(backend, keeper), nil
}

// initVaultUseCase creates the vault use case with all its dependencies.
func (c *Container) initVaultUseCase() (vaultUseCase.VaultUseCase, error) {
	keyManager, err := c.KeyManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get key manager for vault use case: %w", err)
	}

	deriver := vaultService.NewFallbackDeriver(vaultService.Environment{
		Agent:    c.config.FallbackAgent,
		Locale:   c.config.FallbackLocale,
		Platform: c.config.FallbackPlatform,
	})

	useCase := vaultUseCase.NewVaultUseCase(
		keyManager,
		deriver,
		vaultService.NewEnvelopeCipher(),
		c.Logger(),
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for vault use case: %w", err)
	}

	return vaultUseCase.NewVaultUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	useCase, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for http server: %w", err)
	}

	opts := http.RouterOptions{
		CORSEnabled:      c.config.CORSEnabled,
		CORSAllowOrigins: c.config.CORSAllowOrigins,
		RateLimitEnabled: c.config.RateLimitEnabled,
		RateLimitRPS:     c.config.RateLimitRequestsPerSec,
		RateLimitBurst:   c.config.RateLimitBurst,
		MetricsNamespace: c.config.MetricsNamespace,
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}
	if provider != nil {
		opts.MeterProvider = provider.MeterProvider()
	}

	router := http.NewRouter(
		vaultHTTP.NewVaultHandler(useCase, logger),
		schemaHTTP.NewSchemaHandler(logger),
		logger,
		opts,
	)

	return http.NewServer(c.config.ServerHost, c.config.ServerPort, router, logger), nil
}
