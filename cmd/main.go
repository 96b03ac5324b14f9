package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/plank-app/plank-backend/internal/auth"
	"github.com/plank-app/plank-backend/internal/health"
	"github.com/plank-app/plank-backend/internal/pkg/middleware"
	"github.com/plank-app/plank-backend/internal/pkg/model"
	"github.com/plank-app/plank-backend/internal/privy"
	"github.com/plank-app/plank-backend/internal/user"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	setupViper()
	setupZerolog()

	db := setupDb()
	privyClient := setupPrivyClient()
	apiRouter := setupApiRouter(db, privyClient)

	port := viper.GetString("PORT")
	server := &http.Server{
		Addr:         port,
		Handler:      apiRouter,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info().Msgf("Server listening on %s", port)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func setupDb() *gorm.DB {
	dbUrl := viper.GetString("DB_URL")

	db, err := gorm.Open(postgres.Open(dbUrl), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	if err := db.AutoMigrate(&model.User{}); err != nil {
		log.Fatal().Err(err).Msg("Failed to synchronize models")
	}

	sqlDb, _ := db.DB()
	sqlDb.SetMaxOpenConns(50)
	sqlDb.SetConnMaxLifetime(time.Minute * 10)

	return db
}

func setupPrivyClient() *privy.Client {
	client, err := privy.NewClient(privy.Config{
		AppId:           viper.GetString("PRIVY_APP_ID"),
		AppSecret:       viper.GetString("PRIVY_APP_SECRET"),
		VerificationKey: viper.GetString("PRIVY_VERIFICATION_KEY"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Privy client")
	}
	return client
}

func setupApiRouter(db *gorm.DB, privyClient *privy.Client) *gin.Engine {
	apiRouter := gin.New()

	middleware.RegisterGlobalMiddleware(apiRouter)

	health.RegisterRoutes(apiRouter)
	auth.RegisterRoutes(apiRouter, privyClient, user.NewStore(db))

	return apiRouter
}

func setupViper() {
	viper.AutomaticEnv()
	viper.SetConfigFile("./.env")
	viper.SetDefault("PORT", ":3000")
	viper.SetDefault("FRONTEND_URL", "http://localhost:8080")

	// the .env file is optional, env vars alone are enough
	_ = viper.ReadInConfig()
}

func setupZerolog() {
	zerolog.LevelFieldName = "severity"
	zerolog.TimestampFieldName = "time"
	zerolog.TimeFieldFormat = time.RFC3339Nano
}
