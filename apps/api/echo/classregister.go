package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/register/core/classregister"
)

type classRegisterApi struct {
	svc *classregister.Service
}

func registerClassRegisterAPI(g *echo.Group, svc *classregister.Service) {
	api := classRegisterApi{svc: svc}

	rg := g.Group("/registers")
	rg.PUT("", api.save)
	rg.GET("/:form/:class/:year/:term", api.retrieve)
}

func (api *classRegisterApi) save(ctx echo.Context) error {
	var data classregister.Register
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Register")
	}

	reg, err := api.svc.Save(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving class register")
	}
	return ctx.JSON(http.StatusOK, reg)
}

func (api *classRegisterApi) retrieve(ctx echo.Context) error {
	form, err := intParam("form", ctx.Param("form"))
	if err != nil {
		return err
	}
	term, err := intParam("term", ctx.Param("term"))
	if err != nil {
		return err
	}
	key := classregister.Key{Form: form, ClassName: pathParam(ctx, "class"), AcademicYear: pathParam(ctx, "year"), Term: term}

	reg, err := api.svc.Get(ctx.Request().Context(), key)
	if err != nil {
		return errors.Wrap(err, "fetching class register")
	}
	return ctx.JSON(http.StatusOK, reg)
}
