package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "tycoon-banking-engine/internal/adapter/http"
	"tycoon-banking-engine/internal/adapter/middleware"
	"tycoon-banking-engine/internal/adapter/repository/mysql"
	"tycoon-banking-engine/internal/config"
	"tycoon-banking-engine/internal/infrastructure/cache"
	"tycoon-banking-engine/internal/infrastructure/db"
	"tycoon-banking-engine/internal/infrastructure/observability"
	"tycoon-banking-engine/internal/usecase/banksettings"
	"tycoon-banking-engine/internal/usecase/depositops"
	"tycoon-banking-engine/internal/usecase/loanops"
	"tycoon-banking-engine/internal/usecase/origination"
	"tycoon-banking-engine/internal/usecase/tick"
	"tycoon-banking-engine/pkg/gametime"
	"tycoon-banking-engine/pkg/random"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	logger := observability.InitLogger(cfg.LogLevel, cfg.LogFormat)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	seed := cfg.RNGSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := random.NewSeeded(seed)

	u := mysql.NewGormUoW(gormDB)
	marker := cache.NewTickMarker(rdb, time.Duration(cfg.TickMarkerTTLSecs)*time.Second)
	metrics := observability.NewMetrics()
	clock := gametime.NewClock()

	origUC := origination.NewUsecase(u, origination.NewGenerator(rng)).WithClock(clock.Now)
	loanUC := loanops.NewUsecase(u).WithClock(clock.Now)
	depositUC := depositops.NewUsecase(u).WithClock(clock.Now)
	bankUC := banksettings.NewUsecase(u).WithClock(clock.Now)
	orch := tick.NewOrchestrator(u, marker, rng, logger)

	h := httpadp.NewHandler()
	tickH := httpadp.NewTickHandler(orch, origUC, clock, metrics)
	applicantH := httpadp.NewApplicantHandler(origUC)
	loanH := httpadp.NewLoanHandler(loanUC)
	depositH := httpadp.NewDepositHandler(depositUC)
	bankH := httpadp.NewBankHandler(bankUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)
	e.GET("/metrics", metrics.Handler())

	api := e.Group("/api/v1")
	api.Use(middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	api.POST("/ticks", tickH.RunTick)

	api.POST("/banks/:bank_id/applicants", applicantH.Generate)
	api.GET("/banks/:bank_id/applicants", applicantH.ListPending)
	api.POST("/applicants/:applicant_id/approve", applicantH.Approve)
	api.POST("/applicants/:applicant_id/reject", applicantH.Reject)

	api.GET("/banks/:bank_id/loans", loanH.ListOpen)
	api.GET("/loans/:loan_id", loanH.GetLoan)
	api.POST("/loans/:loan_id/payments", loanH.Pay)
	api.POST("/loans/:loan_id/payoff", loanH.PayOff)
	api.POST("/loans/:loan_id/write-off", loanH.WriteOff)
	api.POST("/loans/:loan_id/foreclose", loanH.Foreclose)

	api.POST("/deposits", depositH.Open)
	api.GET("/deposits/:account_id", depositH.Get)
	api.POST("/deposits/:account_id/deposits", depositH.Deposit)
	api.POST("/deposits/:account_id/withdrawals", depositH.Withdraw)
	api.POST("/deposits/:account_id/close", depositH.Close)

	api.GET("/banks/:bank_id/settings", bankH.GetSettings)
	api.PUT("/banks/:bank_id/settings", bankH.UpdateSettings)

	addr := ":" + cfg.AppPort
	logger.Info("listening", "addr", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
