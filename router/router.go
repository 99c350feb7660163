package router

import (
	"github.com/labstack/echo/v4"

	"canecycle/pkg/middleware"
)

func New(
	e *echo.Echo,
	blocCtrl interface {
		Create(echo.Context) error
		Get(echo.Context) error
		List(echo.Context) error
	},
	cycleCtrl interface {
		CreatePlantation(echo.Context) error
		CreateRatoon(echo.Context) error
		History(echo.Context) error
		Active(echo.Context) error
		Update(echo.Context) error
		Close(echo.Context) error
		ClosureValidation(echo.Context) error
		Totals(echo.Context) error
	},
	obsCtrl interface {
		Create(echo.Context) error
		List(echo.Context) error
		Patch(echo.Context) error
		Delete(echo.Context) error
	},
	actCtrl interface {
		Create(echo.Context) error
		List(echo.Context) error
		Patch(echo.Context) error
	},
	varietyCtrl interface{ List(echo.Context) error },
	marketCtrl interface{ Latest(echo.Context) error },
	authCtrl interface {
		DevLogin(echo.Context) error
		WhoAmI(echo.Context) error
	},
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.Use(middleware.DevLogin())
	api := e.Group("")

	api.GET("/whoami", authCtrl.WhoAmI)
	api.GET("/devlogin", authCtrl.DevLogin)
	e.GET("/health", healthCtrl.Health)

	api.POST("/blocs", blocCtrl.Create)
	api.GET("/blocs", blocCtrl.List)
	api.GET("/blocs/:id", blocCtrl.Get)

	api.POST("/blocs/:id/cycles", cycleCtrl.CreatePlantation)
	api.POST("/blocs/:id/cycles/ratoon", cycleCtrl.CreateRatoon)
	api.GET("/blocs/:id/cycles", cycleCtrl.History)
	api.GET("/blocs/:id/cycles/active", cycleCtrl.Active)

	api.PATCH("/cycles/:id", cycleCtrl.Update)
	api.POST("/cycles/:id/close", cycleCtrl.Close)
	api.GET("/cycles/:id/closure-validation", cycleCtrl.ClosureValidation)
	api.GET("/cycles/:id/totals", cycleCtrl.Totals)

	api.POST("/cycles/:id/observations", obsCtrl.Create)
	api.GET("/cycles/:id/observations", obsCtrl.List)
	api.PATCH("/observations/:id", obsCtrl.Patch)
	api.DELETE("/observations/:id", obsCtrl.Delete)

	api.POST("/cycles/:id/activities", actCtrl.Create)
	api.GET("/cycles/:id/activities", actCtrl.List)
	api.PATCH("/activities/:id", actCtrl.Patch)

	api.GET("/varieties", varietyCtrl.List)
	api.GET("/market/price", marketCtrl.Latest)

	return e
}
