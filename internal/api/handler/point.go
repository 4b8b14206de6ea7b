package handler

import (
	"strconv"

	"pointrally/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupPoint struct {
	container *do.Injector
}

func (gr *groupPoint) GetBalance(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	balance, err := serviceLedger.GetBalance(ctx, userID)
	if err != nil {
		return restError(c, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"current":         balance.CurrentPoints,
		"lifetime_earned": balance.LifetimeEarned,
		"lifetime_spent":  balance.LifetimeSpent,
	}, nil)
}

func (gr *groupPoint) GetHistory(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	transactions, err := serviceLedger.GetHistory(ctx, userID, limit, offset)
	if err != nil {
		return restError(c, err)
	}

	return httpx.RestAbort(c, transactions, nil)
}
