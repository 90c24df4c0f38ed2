package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/app/service"
	"wallet_dashboard/internal/infrastructure/configloader"
	"wallet_dashboard/internal/infrastructure/favoritestore"
	"wallet_dashboard/internal/infrastructure/httpclient"
	"wallet_dashboard/internal/infrastructure/network/client"
	"wallet_dashboard/internal/infrastructure/restapi"
	"wallet_dashboard/internal/pkg/logger"
	"wallet_dashboard/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultConfigPath = "config/config.yml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.InitZap(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zapLogger.Sync() }()

	appLogger := logger.NewSlogAdapter()
	appLogger.Info("Configuration loaded", "path", cfgPath, "favorites_backend", cfg.Favorites.Backend)

	if cfg.Alchemy.APIKey == "" {
		appLogger.Warn("ALCHEMY_API_KEY is not set; balance and transfer lookups will fail")
	}
	if cfg.Moralis.APIKey == "" {
		appLogger.Warn("MORALIS_API_KEY is not set; contract prices will be unavailable")
	}

	metrics.MustRegisterMetrics()

	var limiter *rate.Limiter
	if cfg.Alchemy.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Alchemy.RateLimit), cfg.Alchemy.BurstLimit)
	}
	alchemyClient, err := client.NewAlchemyClient(
		ctx,
		client.AlchemyEndpoint(cfg.Alchemy.BaseURL, cfg.Alchemy.APIKey),
		time.Duration(cfg.Alchemy.RequestTimeoutMillis)*time.Millisecond,
		limiter,
		appLogger,
	)
	if err != nil {
		logger.Fatal("Failed to create Alchemy client", "error", err)
	}
	defer alchemyClient.Close()

	moralisClient := httpclient.NewMoralisClient(
		cfg.Moralis.BaseURL,
		cfg.Moralis.APIKey,
		cfg.Moralis.Chain,
		time.Duration(cfg.Moralis.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	coinGeckoClient := httpclient.NewCoinGeckoClient(
		cfg.CoinGecko.BaseURL,
		cfg.CoinGecko.APIKey,
		time.Duration(cfg.CoinGecko.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)

	favoritesStore, closeStore, err := newFavoritesStore(ctx, cfg.Favorites)
	if err != nil {
		logger.Fatal("Failed to initialize favorites store", "error", err)
	}
	defer closeStore()

	balanceResolver := service.NewBalanceResolver(alchemyClient, appLogger, cfg.Alchemy.MaxConcurrentRequests)
	transferReconciler := service.NewTransferReconciler(alchemyClient, appLogger)
	tokenPriceService := service.NewTokenPriceService(moralisClient, coinGeckoClient, appLogger, cfg)
	walletService := service.NewWalletService(balanceResolver, transferReconciler, tokenPriceService, appLogger)
	favoritesService := service.NewFavoritesService(favoritesStore, appLogger)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := restapi.SetupRouter(cfg.CORS, zapLogger, restapi.Handlers{
		Wallet:    restapi.NewWalletHandler(balanceResolver, transferReconciler, walletService, cfg.Transactions),
		Price:     restapi.NewPriceHandler(tokenPriceService),
		Favorites: restapi.NewFavoritesHandler(favoritesService),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting")
}

// newFavoritesStore builds the configured backend and a matching close func.
func newFavoritesStore(ctx context.Context, cfg configloader.FavoritesConfig) (port.FavoritesStore, func(), error) {
	switch cfg.Backend {
	case "redis":
		rdb, err := favoritestore.ConnectRedis(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return favoritestore.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil
	default:
		return favoritestore.NewMemoryStore(), func() {}, nil
	}
}
