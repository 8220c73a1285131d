package app

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"library_circulation/db"
	"library_circulation/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// shorthand aliases for handlers
type Ctx = gin.Context
type H = gin.H

// App bundles the process-wide dependencies.
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Config Config

	appSess *session.AppSessionStore
}

// Config is read from the environment.
type Config struct {
	RedisAddr  string
	RedisPwd   string
	WebOrigin  string
	SessionTTL time.Duration

	// SweepHour is the local hour of day the overdue sweep fires.
	SweepHour int

	// Seed credentials for the first manager account, optional.
	BootstrapEmail    string
	BootstrapPassword string
}

func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }

func MustNew() *App {
	cfg := loadConfig()

	dbConn := db.ConnectDB()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	r := gin.Default()
	useCORS(r, cfg.WebOrigin)

	return &App{
		Router: r, DB: dbConn, RDB: rdb, Config: cfg,
		appSess: session.NewAppSessionStore(rdb, cfg.SessionTTL),
	}
}

func (a *App) Close() { _ = a.RDB.Close() }

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}

	ttl := 24 * time.Hour
	if v := os.Getenv("SESSION_TTL_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			ttl = d
		}
	}

	sweepHour := 3
	if v := os.Getenv("SWEEP_HOUR"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			sweepHour = h
		}
	}

	return Config{
		RedisAddr:  get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:   os.Getenv("REDIS_PASSWORD"),
		WebOrigin:  get("WEB_ORIGIN", "http://localhost:5173"),
		SessionTTL: ttl,
		SweepHour:  sweepHour,

		BootstrapEmail:    os.Getenv("BOOTSTRAP_MANAGER_EMAIL"),
		BootstrapPassword: os.Getenv("BOOTSTRAP_MANAGER_PASSWORD"),
	}
}
