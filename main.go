package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/JohnGabriel1998/Seven-Apparel-sub000/events"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/logging"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/mailer"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/middleware"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/models"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/payment"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/routes"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/store"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/store/gormstore"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/store/memstore"
)

func main() {
	_ = godotenv.Load()

	log := logging.New()
	defer log.Sync()
	log.Info("✅ Starting Seven Apparel API...")

	stores := initStores(log)
	bus := initBus(log)
	mail := mailer.NewFromEnv(log)

	gateway, err := payment.NewWalletGatewayFromEnv(log)
	if err != nil {
		log.Fatal("❌ Payment gateway configuration", zap.Error(err))
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(gin.Recovery())
	r.Use(middleware.Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.SetupRoutes(r, routes.Deps{
		Stores: stores,
		Pay:    gateway,
		Mail:   mail,
		Bus:    bus,
		Log:    log,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info("🚀 Server running", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		log.Fatal("❌ Failed to start server", zap.Error(err))
	}
}

// initStores picks the backend: Postgres by default, in-memory when
// STORE_BACKEND=memory (local dev without a database).
func initStores(log *zap.Logger) *store.Stores {
	if os.Getenv("STORE_BACKEND") == "memory" {
		log.Info("🧪 Using in-memory store backend")
		return memstore.New()
	}

	db := initDatabase(log)
	if err := db.AutoMigrate(
		&models.Product{},
		&models.Variant{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.StatusEntry{},
		&models.Review{},
	); err != nil {
		log.Fatal("❌ AutoMigrate failed", zap.Error(err))
	}
	return gormstore.New(db)
}

func initDatabase(log *zap.Logger) *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			log.Fatal("❌ DB connection failed", zap.Error(err))
		}
		return db
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect DB", zap.Error(err))
	}
	return db
}

// initBus: in-process hub by default, Redis pub/sub when REDIS_ADDR is set
// (needed once more than one API instance runs).
func initBus(log *zap.Logger) events.Bus {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		log.Info("📡 Using Redis event bus", zap.String("addr", addr))
		return events.NewRedisBus(addr, os.Getenv("REDIS_EVENTS_CHANNEL"), log)
	}
	return events.NewHub()
}
