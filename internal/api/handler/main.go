package handler

import (
	"net/http"

	"pointrally/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
		if err != nil {
			return nil, err
		}

		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)
		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated requests.

		p := groupPoint{cfg.Container}
		routesAPIv1.GET("/points/balance", p.GetBalance)
		routesAPIv1.GET("/points/history", p.GetHistory)

		d := groupDraw{cfg.Container}
		routesAPIv1.POST("/campaign/:campaign/draw", d.Play)
		routesAPIv1.GET("/campaign/:campaign/recent-wins", d.GetRecentWins)
		routesAPIv1.GET("/user/prizes", d.GetUserPrizes)
		routesAPIv1.GET("/user/draws", d.GetUserDraws)

		m := groupMission{cfg.Container}
		routesAPIv1.GET("/missions/today", m.GetTodayProgress)
		routesAPIv1.POST("/missions/:mission/claim", m.ClaimReward)
		routesAPIv1.GET("/missions/all-bonus", m.CheckAllBonus)
		routesAPIv1.POST("/missions/all-bonus/claim", m.ClaimAllBonus)
		routesAPIv1.POST("/events/:type", m.RecordEvent)

		b := groupBonus{cfg.Container}
		routesAPIv1.POST("/bonus/welcome/claim", b.ClaimWelcomeBonus)
		routesAPIv1.POST("/campaign/:campaign/stamp/:stamp", b.AcquireStamp)
		routesAPIv1.GET("/campaign/:campaign/stamps", b.GetUserStamps)
	}

	return r, nil
}
