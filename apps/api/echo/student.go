package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/register/core/student"
)

type studentApi struct {
	svc *student.Service
}

func registerStudentAPI(g *echo.Group, svc *student.Service) {
	api := studentApi{svc: svc}

	g.GET("/classes", api.queryClasses)
	g.GET("/classes/:form/:class/students", api.queryClassStudents)
}

func (api *studentApi) queryClasses(ctx echo.Context) error {
	classes, err := api.svc.Classes(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *studentApi) queryClassStudents(ctx echo.Context) error {
	form, err := intParam("form", ctx.Param("form"))
	if err != nil {
		return err
	}

	students, err := api.svc.ClassStudents(ctx.Request().Context(), form, pathParam(ctx, "class"))
	if err != nil {
		return errors.Wrap(err, "querying class students")
	}
	return ctx.JSON(http.StatusOK, students)
}
