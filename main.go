package main

import (
	"context"
	"time"

	"storefront-service/controllers"
	"storefront-service/database"
	"storefront-service/logger"
	"storefront-service/providers"
	"storefront-service/repository"
	"storefront-service/routes"
	"storefront-service/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger.Initialize(cfg.Environment)
	defer logger.Log.Sync()

	mongo, err := database.ConnectMongo(cfg.MongoURL, cfg.MongoDBName)
	if err != nil {
		logger.Log.Fatal("Could not connect to MongoDB", zap.Error(err))
	}
	defer mongo.Close()

	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := mongo.EnsureIndexes(indexCtx); err != nil {
		cancel()
		logger.Log.Fatal("Could not create indexes", zap.Error(err))
	}
	cancel()

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Log.Fatal("Could not connect to Redis", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewMongoUserRepository(mongo)
	productRepo := repository.NewMongoProductRepository(mongo)
	couponRepo := repository.NewMongoCouponRepository(mongo)
	orderRepo := repository.NewMongoOrderRepository(mongo)
	tokenStore := repository.NewRedisTokenStore(redisClient)
	productCache := repository.NewRedisProductCache(redisClient)

	// Services
	tokenService := services.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, tokenStore)
	cartService := services.NewCartService(userRepo, productRepo)
	couponService := services.NewCouponService(couponRepo)
	paymentProvider := providers.NewRazorpayProvider(cfg.ProviderKeyID, cfg.ProviderKeySecret)
	checkoutService := services.NewCheckoutService(
		paymentProvider, orderRepo, couponRepo, couponService,
		cfg.ProviderKeySecret, cfg.Currency,
	)
	analyticsService := services.NewAnalyticsService(userRepo, productRepo, orderRepo)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(r, routes.Controllers{
		Auth:      controllers.NewAuthController(userRepo, tokenService, cfg.Production()),
		Cart:      controllers.NewCartController(cartService, couponService),
		Coupon:    controllers.NewCouponController(couponService),
		Product:   controllers.NewProductController(productRepo, productCache),
		Payment:   controllers.NewPaymentController(checkoutService),
		Analytics: controllers.NewAnalyticsController(analyticsService),
	}, tokenService, userRepo)

	logger.Log.Info("Storefront service started", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatal("Error starting server", zap.Error(err))
	}
}
