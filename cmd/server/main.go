package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"canecycle/config"
	"canecycle/database"
	"canecycle/router"

	// Auth + Health
	authCtrlImp "canecycle/pkg/auth/controllerImp"
	healthCtrlImp "canecycle/pkg/health/controllerImp"

	// Bloc
	blocCtrlImp "canecycle/pkg/bloc/controllerImp"
	blocRepoImp "canecycle/pkg/bloc/repositoryImp"

	// Cycle engine
	cycleCtrlImp "canecycle/pkg/cycle/controllerImp"
	cycleRepoImp "canecycle/pkg/cycle/repositoryImp"
	cycleSvcImp "canecycle/pkg/cycle/serviceImp"

	// Observations + Activities
	actCtrlImp "canecycle/pkg/activity/controllerImp"
	actRepoImp "canecycle/pkg/activity/repositoryImp"
	obsCtrlImp "canecycle/pkg/observation/controllerImp"
	obsRepoImp "canecycle/pkg/observation/repositoryImp"

	// Metrics
	metricsSvcImp "canecycle/pkg/metrics/serviceImp"

	// Reference data
	"canecycle/pkg/growth"
	"canecycle/pkg/market"
	marketCtrlImp "canecycle/pkg/market/controllerImp"
	"canecycle/pkg/variety"
	varietyCtrlImp "canecycle/pkg/variety/controllerImp"
)

func main() {
	// 1) Config
	cfg := config.Load()

	// 2) DB (sqlite) + automigrate
	db := database.OpenSQLite(cfg.DBPath)

	// 3) Echo
	e := echo.New()
	e.Use(echoMiddleware.Recover())

	// 4) Reference data: growth stages, variety catalog, price bulletin
	stages, err := growth.LoadCSV(cfg.StageCSV)
	if err != nil {
		log.Printf("stage config warn: %v (using defaults)", err)
		stages = growth.Defaults()
	}
	catalog, err := variety.LoadXLSX(cfg.VarietyXLSX)
	if err != nil {
		log.Printf("variety catalog warn: %v (using builtin)", err)
		catalog = variety.Builtin()
	}
	prices := market.New(cfg.PriceURL)

	// 5) Repos
	blocRepo := blocRepoImp.New(db)
	cycleRepo := cycleRepoImp.New(db)
	obsRepo := obsRepoImp.New(db)
	actRepo := actRepoImp.New(db)

	// 6) Services
	metricsSvc := metricsSvcImp.New(cycleRepo, blocRepo, actRepo, obsRepo)
	cycleSvc := cycleSvcImp.New(cycleRepo, blocRepo, actRepo, obsRepo, metricsSvc, stages, catalog)

	// Totals are polled so edits from other mutation paths surface without
	// push-based invalidation; growth stages ride the same loop.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	metricsSvc.StartPolling(ctx, time.Duration(cfg.MetricsPollSec)*time.Second)
	go func() {
		tick := time.NewTicker(time.Hour)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				if err := cycleSvc.RefreshGrowthStages(); err != nil {
					log.Printf("growth refresh warn: %v", err)
				}
			}
		}
	}()

	// 7) Controllers
	blocCtrl := blocCtrlImp.New(blocRepo)
	cycleCtrl := cycleCtrlImp.New(cycleSvc, metricsSvc, cycleRepo, blocRepo)
	obsCtrl := obsCtrlImp.New(obsRepo, cycleRepo, blocRepo)
	actCtrl := actCtrlImp.New(actRepo, cycleRepo, blocRepo)
	varietyCtrl := varietyCtrlImp.New(catalog)
	marketCtrl := marketCtrlImp.New(prices)
	authCtrl := authCtrlImp.NewAuthController()
	hCtrl := healthCtrlImp.NewHealthCtrl(db)

	// 8) Router
	r := router.New(
		e,
		blocCtrl,
		cycleCtrl,
		obsCtrl,
		actCtrl,
		varietyCtrl,
		marketCtrl,
		authCtrl,
		hCtrl,
	)

	// 9) Start
	log.Printf("listening on :%s", cfg.Port)
	if err := r.Start(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
