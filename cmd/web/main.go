package main

import (
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	_ "github.com/joho/godotenv/autoload"

	"startup-directory/pkg/common/config"
	"startup-directory/pkg/common/tracker"
	"startup-directory/pkg/core/auth"
	startupmodel "startup-directory/pkg/core/startup/model"
	startupdao "startup-directory/pkg/core/startup/repository/dao/impl"
	startupservice "startup-directory/pkg/core/startup/service"
	usermodel "startup-directory/pkg/core/user/model"
	userdao "startup-directory/pkg/core/user/repository/dao/impl"
	userservice "startup-directory/pkg/core/user/service"
	"startup-directory/pkg/web/router"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		hlog.Fatalf("Invalid configuration: %v", err)
	}

	db, err := cfg.InitDB()
	if err != nil {
		hlog.Fatalf("Failed to initialize database: %v", err)
	}
	if err := usermodel.AutoMigrate(db); err != nil {
		hlog.Fatalf("Failed to migrate users: %v", err)
	}
	if err := startupmodel.AutoMigrate(db); err != nil {
		hlog.Fatalf("Failed to migrate startups: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		hlog.Fatalf("Failed to get database handle: %v", err)
	}

	tokens, err := auth.NewTokenService(cfg.Middleware.JWT)
	if err != nil {
		hlog.Fatalf("Failed to initialize token service: %v", err)
	}

	users := userdao.NewGormUserRepository(db)
	startups := startupdao.NewGormStartupRepository(db)

	tr := tracker.New(cfg.Sentry.DSN, cfg.Env)
	defer tr.Flush(2 * time.Second)

	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(int(cfg.Middleware.Security.MaxBodySize)),
	)

	router.RegisterAPIs(h, cfg, router.Deps{
		Users:    userservice.NewUserService(users, tokens),
		Startups: startupservice.NewStartupService(startups, startupservice.OwnershipPolicy(cfg.Startup.OwnershipPolicy)),
		Verifier: auth.NewVerifier(tokens, users),
		Tokens:   tokens,
		DB:       sqlDB,
		Tracker:  tr,
	})

	h.Spin()
}
