package restapi

import (
	"net/http"
	"time"

	"wallet_dashboard/internal/infrastructure/configloader"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted by SetupRouter.
type Handlers struct {
	Wallet    *WalletHandler
	Price     *PriceHandler
	Favorites *FavoritesHandler
}

// SetupRouter builds the gin engine with middleware and all routes.
func SetupRouter(cfg configloader.CORSConfig, zapLogger *zap.Logger, h Handlers) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", UserIDHeader}
	corsConfig.MaxAge = 12 * time.Hour

	router.Use(cors.New(corsConfig))
	router.Use(ZapLoggerMiddleware(zapLogger))
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		wallets := v1.Group("/wallets/:address")
		wallets.GET("/balances", h.Wallet.GetBalances)
		wallets.GET("/transactions", h.Wallet.GetTransactions)
		wallets.GET("/portfolio", h.Wallet.GetPortfolio)

		v1.GET("/prices", h.Price.GetPrices)

		favorites := v1.Group("/favorites", RequireUser())
		favorites.GET("", h.Favorites.List)
		favorites.POST("", h.Favorites.Add)
		favorites.DELETE("", h.Favorites.Remove)
	}

	// Flat routes with the address in the query string, kept for existing dashboard clients.
	flat := router.Group("/api")
	{
		flat.GET("/wallet/balances", h.Wallet.GetBalances)
		flat.GET("/wallet/transactions", h.Wallet.GetTransactions)
		flat.GET("/prices", h.Price.GetPrices)

		favorites := flat.Group("/favorites", RequireUser())
		favorites.GET("", h.Favorites.List)
		favorites.POST("", h.Favorites.Add)
		favorites.DELETE("", h.Favorites.Remove)
	}

	return router
}
