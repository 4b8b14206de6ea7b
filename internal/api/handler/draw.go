package handler

import (
	"errors"
	"strconv"

	"pointrally/internal/interfaces"
	"pointrally/internal/services"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupDraw struct {
	container *do.Injector
}

// Play returns rejections as success-shaped bodies with an error code
// so the client animation never has to special-case HTTP failures for
// an ordinary "not enough points" outcome.
func (gr *groupDraw) Play(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	limiter, err := do.Invoke[interfaces.Limiter](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := limiter.Allow(ctx, services.LimitKeyUserDraw(userID), redis_rate.PerMinute(services.DRAW_RATE_LIMIT_PER_MINUTE)); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.RateLimiting))
	}

	serviceDraw, err := do.Invoke[*services.ServiceDraw](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	outcome, err := serviceDraw.Play(ctx, userID, c.Param("campaign"))
	if err != nil {
		if code := rejectionCode(err); code != "" {
			return httpx.RestAbort(c, map[string]interface{}{
				"success":    false,
				"error_code": code,
			}, nil)
		}
		return restError(c, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"success":     true,
		"prize_name":  outcome.PrizeName,
		"is_winning":  outcome.IsWinning,
		"new_balance": outcome.BalanceAfter,
	}, nil)
}

func rejectionCode(err error) string {
	switch {
	case errors.Is(err, services.ErrInsufficientPoints):
		return "insufficient_points"
	case errors.Is(err, services.ErrCampaignNotFound):
		return "campaign_not_found"
	case errors.Is(err, services.ErrCampaignInactive):
		return "campaign_inactive"
	}
	return ""
}

func (gr *groupDraw) GetUserPrizes(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceDraw, err := do.Invoke[*services.ServiceDraw](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	prizes, err := serviceDraw.GetUserPrizes(ctx, userID, c.QueryParam("campaign"))
	if err != nil {
		return restError(c, err)
	}

	return httpx.RestAbort(c, prizes, nil)
}

func (gr *groupDraw) GetUserDraws(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceDraw, err := do.Invoke[*services.ServiceDraw](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	records, err := serviceDraw.GetUserDraws(ctx, userID, limit, offset)
	if err != nil {
		return restError(c, err)
	}

	return httpx.RestAbort(c, records, nil)
}

func (gr *groupDraw) GetRecentWins(c echo.Context) error {
	ctx := c.Request().Context()

	serviceDraw, err := do.Invoke[*services.ServiceDraw](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	wins, err := serviceDraw.GetRecentWins(ctx, c.Param("campaign"))
	if err != nil {
		return restError(c, err)
	}

	return httpx.RestAbort(c, wins, nil)
}
