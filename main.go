package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mailbox-locator/app/config"
	"github.com/mailbox-locator/app/controllers"
	"github.com/mailbox-locator/app/services"
	"github.com/mailbox-locator/internal/dataset"
	"github.com/mailbox-locator/internal/search"
	"github.com/mailbox-locator/routes"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	loadConfig()

	// 2. Khởi tạo logger
	logger := initLogger()
	defer logger.Sync()

	logger.Info("Starting Mailbox Locator Service")

	// 3. Cấu hình matcher
	matcherPath := getEnv("MATCHER_CONFIG", "config/matcher.yaml")
	if err := config.Load(matcherPath); err != nil {
		logger.Warn("Không đọc được cấu hình matcher, dùng mặc định", zap.String("path", matcherPath), zap.Error(err))
	}

	// 4. Nạp dataset gốc trước khi nhận request
	datasetPath := viper.GetString("dataset.path")
	base, err := dataset.LoadFile(datasetPath)
	if err != nil {
		logger.Fatal("Failed to load base dataset", zap.String("path", datasetPath), zap.Error(err))
	}
	logger.Info("Loaded base dataset", zap.String("path", datasetPath), zap.Int("records", len(base)))

	// 5. Khởi tạo store
	store, err := initStore(logger)
	if err != nil {
		logger.Fatal("Failed to initialize record store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Error closing record store", zap.Error(err))
		}
	}()

	// 6. Mirror Meilisearch (tùy chọn)
	opts := services.LockerOptions{
		Search:    config.C.SearchOptions(),
		CacheSize: config.C.Cache.Size,
		StoreKey:  viper.GetString("storage.key"),
	}
	if config.C.Mirror.Enabled {
		opts.Mirror = search.NewMeiliMirror(search.MirrorConfig{
			Host:      viper.GetString("meilisearch.url"),
			APIKey:    viper.GetString("meilisearch.master_key"),
			IndexName: config.C.Mirror.IndexName,
			BatchSize: config.C.Mirror.BatchSize,
		}, logger)
		logger.Info("Meilisearch mirror enabled", zap.String("host", viper.GetString("meilisearch.url")))
	}

	// 7. Khởi tạo service
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	lockerService, err := services.NewLockerService(ctx, base, store, opts, logger)
	cancel()
	if err != nil {
		logger.Fatal("Failed to initialize locker service", zap.Error(err))
	}
	defer lockerService.Close()

	// 8. Khởi tạo controllers
	lockerController := controllers.NewLockerController(lockerService, logger)
	customController := controllers.NewCustomController(lockerService, logger)

	// 9. Khởi tạo Gin router
	if viper.GetString("app.env") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// 10. Thiết lập routes
	routes.SetupAllRoutes(router, lockerController, customController, config.C.RateLimit)

	// 11. Khởi động server
	port := getEnv("APP_PORT", viper.GetString("app.port"))
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Mailbox Locator Service starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ShutdownTimeout())
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
}

// loadConfig load configuration từ file và env vars
func loadConfig() {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	// Set defaults
	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("dataset.path", "./data/clean_dataset.json")
	viper.SetDefault("storage.backend", "memory")
	viper.SetDefault("storage.key", services.DefaultStoreKey)
	viper.SetDefault("redis.url", "redis://localhost:6379")
	viper.SetDefault("mongo.url", "mongodb://localhost:27017/mailbox_locator")
	viper.SetDefault("sqlite.path", "./data/custom_records.db")
	viper.SetDefault("meilisearch.url", "http://meili:7700")
	viper.SetDefault("meilisearch.master_key", "")

	// DATASET_PATH, STORAGE_BACKEND, REDIS_URL...
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Cannot read config file: %v", err)
	}
}

// initLogger khởi tạo structured logger
func initLogger() *zap.Logger {
	env := getEnv("APP_ENV", viper.GetString("app.env"))

	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		log.Fatal("Cannot initialize logger:", err)
	}

	return logger
}

// initStore chọn backend lưu custom record theo storage.backend
func initStore(logger *zap.Logger) (services.IRecordStore, error) {
	backend := strings.ToLower(viper.GetString("storage.backend"))
	logger.Info("Initializing record store", zap.String("backend", backend))

	switch backend {
	case "memory", "":
		return services.NewMemoryStore(), nil
	case "redis":
		return services.NewRedisStore(viper.GetString("redis.url"), logger)
	case "mongo":
		db, err := initMongoDB(logger)
		if err != nil {
			return nil, err
		}
		return services.NewMongoStore(db, logger), nil
	case "sqlite":
		return services.NewSQLiteStore(viper.GetString("sqlite.path"), logger)
	case "hybrid":
		// Redis nhanh + SQLite bền
		primary, err := services.NewRedisStore(viper.GetString("redis.url"), logger)
		if err != nil {
			return nil, err
		}
		secondary, err := services.NewSQLiteStore(viper.GetString("sqlite.path"), logger)
		if err != nil {
			primary.Close()
			return nil, err
		}
		return services.NewHybridStore(primary, secondary, logger), nil
	}
	return nil, errors.New("unknown storage backend: " + backend)
}

// initMongoDB khởi tạo kết nối MongoDB
func initMongoDB(logger *zap.Logger) (*mongo.Database, error) {
	mongoURL := viper.GetString("mongo.url")

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, err
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	dbName := getEnv("MONGO_DB", "mailbox_locator")
	if name := databaseName(mongoURL); name != "" {
		dbName = name
	}

	db := client.Database(dbName)
	logger.Info("Connected to MongoDB", zap.String("database", dbName))

	return db, nil
}

// databaseName tên database trong connection string, rỗng nếu không có hoặc URI không hợp lệ
func databaseName(uri string) string {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return ""
	}
	return cs.Database
}

// getEnv lấy environment variable với default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
