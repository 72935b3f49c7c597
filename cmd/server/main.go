package main

import (
    "context"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/sirupsen/logrus"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/config"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/database"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/handler"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/middleware"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/queue"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/repository"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/router"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/worker"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()

    log := logrus.New()
    log.SetFormatter(&logrus.JSONFormatter{})

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.WithError(err).Fatal("database connection failed")
    }
    defer db.Close()

    rdb := config.NewRedisClient()

    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    squares := repository.NewSquareRepo(db)
    events := repository.NewEventRepo(db)
    slots := repository.NewMarketSlotRepo(db)
    products := repository.NewProductRepo(db)
    reservations := repository.NewReservationRepo(db)
    orders := repository.NewOrderRepo(db)
    checks := repository.NewReservationCheckRepo(db)

    auth := handler.NewAuthHandler(cfg, users, tokens)
    manager := handler.NewManagerHandler(db, squares, events, slots, products)
    booking := handler.NewReservationHandler(db, reservations, events, slots, squares, log)
    order := handler.NewOrderHandler(db, orders, reservations, log)
    check := handler.NewCheckHandler(checks, reservations)
    public := handler.NewPublicHandler(squares, events, slots)

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

    router.RegisterRoutes(e)
    router.RegisterAuth(e, auth, cfg.JWTSecret)
    // Public browse responses go through the Redis cache.
    router.RegisterPublic(e, public, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
    router.RegisterManager(e, manager, cfg.JWTSecret)
    router.RegisterBooking(e, booking, order, cfg.JWTSecret)
    router.RegisterChecks(e, check, cfg.JWTSecret)

    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    go func() {
        if err := queue.StartNotificationConsumer(log); err != nil {
            log.WithError(err).Warn("notification consumer exited")
        }
    }()

    sweeper := worker.NewSweeper(db, orders, reservations, log,
        time.Duration(cfg.UnpaidOrderTTLMin)*time.Minute,
        time.Duration(cfg.RetentionDays)*24*time.Hour,
        time.Duration(cfg.SweepIntervalMin)*time.Minute,
    )
    go sweeper.Run(ctx)

    addr := ":" + cfg.Port
    log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("server starting")
    if err := e.Start(addr); err != nil {
        log.WithError(err).Fatal("server stopped")
    }
}
