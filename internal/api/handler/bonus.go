package handler

import (
	"pointrally/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupBonus struct {
	container *do.Injector
}

func (gr *groupBonus) ClaimWelcomeBonus(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceBonus, err := do.Invoke[*services.ServiceBonus](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := serviceBonus.ClaimWelcomeBonus(ctx, userID)
	if err != nil {
		return restError(c, err)
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupBonus) AcquireStamp(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload struct {
		StampIndex int `json:"stamp_index"`
	}
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	serviceBonus, err := do.Invoke[*services.ServiceBonus](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := serviceBonus.AcquireStamp(ctx, userID, c.Param("campaign"), c.Param("stamp"), payload.StampIndex)
	if err != nil {
		return restError(c, err)
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupBonus) GetUserStamps(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceBonus, err := do.Invoke[*services.ServiceBonus](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	stamps, err := serviceBonus.GetUserStamps(ctx, userID, c.Param("campaign"))
	if err != nil {
		return restError(c, err)
	}

	return httpx.RestAbort(c, stamps, nil)
}
