package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	rd "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"barmenu-backend/config"
	"barmenu-backend/database"
	"barmenu-backend/middlewares"
	"barmenu-backend/models"
	"barmenu-backend/router"
	"barmenu-backend/services"
	"barmenu-backend/staff"
	"barmenu-backend/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	utils.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	autoMigrate(db)

	if err := database.SeedTables(db, cfg.TableCount); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed tables: %v", err)
	}

	middlewares.InitMetrics()
	services.InitMetrics()

	hub := staff.NewHub()

	var pusher services.WebPusher
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		pusher = &services.VAPIDPusher{
			PublicKey:  cfg.VAPIDPublicKey,
			PrivateKey: cfg.VAPIDPrivateKey,
			Subject:    cfg.VAPIDSubject,
		}
	} else {
		utils.InfoLogger.Println("VAPID keys not set, push delivery disabled")
	}
	notifier := services.NewNotifier(db, hub, pusher, cfg.PushTimeout)

	var numbers services.OrderNumberAllocator = services.CounterAllocator{}
	if cfg.RedisAddr != "" {
		rdb := rd.NewClient(&rd.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		numbers = services.RedisAllocator{Client: rdb}
		utils.InfoLogger.Printf("Order numbering via Redis at %s", cfg.RedisAddr)
	}

	r := router.Setup(db, hub, notifier, numbers, cfg)

	utils.InfoLogger.Printf("Listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.BarTable{},
		&models.Order{},
		&models.OrderItem{},
		&models.WaiterCall{},
		&models.PushSubscription{},
		&models.DayCounter{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
