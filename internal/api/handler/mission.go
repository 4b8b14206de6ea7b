package handler

import (
	"errors"

	"pointrally/internal/interfaces"
	"pointrally/internal/services"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupMission struct {
	container *do.Injector
}

func (gr *groupMission) GetTodayProgress(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceMission, err := do.Invoke[*services.ServiceMission](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	statuses, err := serviceMission.GetTodayProgress(ctx, userID)
	if err != nil {
		return restError(c, err)
	}

	return httpx.RestAbort(c, statuses, nil)
}

func (gr *groupMission) ClaimReward(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceMission, err := do.Invoke[*services.ServiceMission](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := serviceMission.ClaimReward(ctx, userID, c.Param("mission"))
	if err != nil {
		return restError(c, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"success":         true,
		"points_granted":  result.PointsGranted,
		"already_claimed": result.AlreadyClaimed,
	}, nil)
}

func (gr *groupMission) CheckAllBonus(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceMission, err := do.Invoke[*services.ServiceMission](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	bonus, err := serviceMission.CheckAllCompletedBonus(ctx, userID)
	if err != nil {
		return restError(c, err)
	}

	return httpx.RestAbort(c, bonus, nil)
}

func (gr *groupMission) ClaimAllBonus(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceMission, err := do.Invoke[*services.ServiceMission](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := serviceMission.ClaimAllCompletedBonus(ctx, userID)
	if err != nil {
		return restError(c, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"success":         true,
		"points_granted":  result.PointsGranted,
		"already_claimed": result.AlreadyClaimed,
	}, nil)
}

// RecordEvent is the entry point for external feature modules reporting
// discrete user actions ("user completed a quiz").
func (gr *groupMission) RecordEvent(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	missionType := c.Param("type")
	if missionType == "" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("missing event type"), errorx.Invalid))
	}

	limiter, err := do.Invoke[interfaces.Limiter](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := limiter.Allow(ctx, services.LimitKeyUserEvent(userID), redis_rate.PerMinute(services.EVENT_RATE_LIMIT_PER_MINUTE)); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.RateLimiting))
	}

	serviceMission, err := do.Invoke[*services.ServiceMission](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := serviceMission.RecordEvent(ctx, userID, missionType); err != nil {
		return restError(c, err)
	}

	return httpx.RestAbort(c, nil, nil)
}
