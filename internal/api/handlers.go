package api

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abhisek/quizmark/internal/aggregate"
	"github.com/abhisek/quizmark/internal/analytics"
	"github.com/abhisek/quizmark/internal/ingest"
	"github.com/abhisek/quizmark/internal/standards"
	"github.com/abhisek/quizmark/internal/store"
)

// maxPayloadBytes caps POST /api/submissions bodies.
const maxPayloadBytes = 8 << 20

type handlers struct {
	svc      *analytics.Service
	importer *ingest.Importer
}

func registerAnalyticsAPI(g *echo.Group, h *handlers) {
	g.GET("/standards-over-time", h.standardsOverTime)
	g.GET("/predictions", h.predictions)
	g.GET("/predictions/:standard", h.prediction)
}

func registerReportsAPI(g *echo.Group, h *handlers) {
	g.GET("/test/:test_id", h.testReport)
	g.GET("/student/:student_id", h.studentReport)
}

func bindFilter(ctx echo.Context) (filterQuery, error) {
	var q filterQuery
	if err := ctx.Bind(&q); err != nil {
		return q, err
	}
	return q, ctx.Validate(&q)
}

// Handlers

func (h *handlers) standardsOverTime(ctx echo.Context) error {
	q, err := bindFilter(ctx)
	if err != nil {
		return err
	}
	f := store.Filter{ClassID: q.ClassID, StudentID: q.StudentID}
	ov, err := h.svc.Overview(ctx.Request().Context(), f, aggregate.ParseOrder(q.Order))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ov)
}

func (h *handlers) prediction(ctx echo.Context) error {
	q, err := bindFilter(ctx)
	if err != nil {
		return err
	}
	f := store.Filter{ClassID: q.ClassID, StudentID: q.StudentID}
	code := standards.StandardCode(ctx.Param("standard"))
	pr, err := h.svc.Prediction(ctx.Request().Context(), code, f)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, pr)
}

func (h *handlers) predictions(ctx echo.Context) error {
	q, err := bindFilter(ctx)
	if err != nil {
		return err
	}
	f := store.Filter{ClassID: q.ClassID, StudentID: q.StudentID}
	prs, err := h.svc.Predictions(ctx.Request().Context(), f)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"predictions": prs})
}

func (h *handlers) testReport(ctx echo.Context) error {
	rep, err := h.svc.TestReport(ctx.Request().Context(), ctx.Param("test_id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rep)
}

func (h *handlers) studentReport(ctx echo.Context) error {
	rep, err := h.svc.StudentReport(ctx.Request().Context(), ctx.Param("student_id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rep)
}

func (h *handlers) importSubmissions(ctx echo.Context) error {
	raw, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxPayloadBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "read request body").SetInternal(err)
	}
	p, err := ingest.Decode(raw)
	if err != nil {
		return err
	}
	sum, err := h.importer.Import(ctx.Request().Context(), p)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{
		"tests":       sum.Tests,
		"classes":     sum.Classes,
		"submissions": sum.Submissions,
		"duplicates":  sum.Duplicates,
		"rejected":    sum.RejectedIDs(),
	})
}
