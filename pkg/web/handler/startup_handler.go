package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	apperr "startup-directory/pkg/common/errors"
	"startup-directory/pkg/core/startup/service"
	"startup-directory/pkg/web/middleware"
	"startup-directory/pkg/web/model"
)

type StartupHandler struct {
	startups    *service.StartupService
	maxFileSize int64
}

func NewStartupHandler(startups *service.StartupService, maxFileSize int64) *StartupHandler {
	return &StartupHandler{startups: startups, maxFileSize: maxFileSize}
}

func (h *StartupHandler) Create(ctx context.Context, c *app.RequestContext) {
	in, _, err := h.readInput(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	startup, err := h.startups.Create(ctx, middleware.CurrentUserID(c), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(200, model.Success("Startup creation success", utils.H{"startup": model.NewStartupRes(startup)}))
}

// Update takes the id from the path, or from the body on the legacy route.
func (h *StartupHandler) Update(ctx context.Context, c *app.RequestContext) {
	in, src, err := h.readInput(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	id := c.Param("id")
	if id == "" {
		id, _ = src.lookup("id")
	}
	if id == "" {
		_ = c.Error(apperr.Validation([]apperr.Violation{{Field: "id", Message: "id is required"}}))
		return
	}

	startup, err := h.startups.Update(ctx, middleware.CurrentUserID(c), id, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(200, model.Success("Startup update success", utils.H{"startup": model.NewStartupRes(startup)}))
}

func (h *StartupHandler) Get(ctx context.Context, c *app.RequestContext) {
	startup, err := h.startups.Get(ctx, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(200, model.Success("Get startup on id success", utils.H{"startup": model.NewStartupRes(startup)}))
}

// ListMine returns the caller's startups.
func (h *StartupHandler) ListMine(ctx context.Context, c *app.RequestContext) {
	summaries, err := h.startups.ListByOwner(ctx, middleware.CurrentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(200, model.Success("Get startups success", utils.H{"startups": model.NewStartupSummaries(summaries)}))
}

func (h *StartupHandler) Dashboard(ctx context.Context, c *app.RequestContext) {
	cards, err := h.startups.ListDashboard(ctx)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(200, model.Success("All startups dashboard home", utils.H{"startups": model.NewDashboardCards(cards)}))
}

func (h *StartupHandler) Delete(ctx context.Context, c *app.RequestContext) {
	if err := h.startups.Delete(ctx, middleware.CurrentUserID(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(200, model.Success("Startup deleted successfully", nil))
}

// readInput rejects bad coercions and bad uploads together, before any
// store call is made.
func (h *StartupHandler) readInput(c *app.RequestContext) (service.Input, fieldSource, error) {
	src, form, err := requestFields(c)
	if err != nil {
		return service.Input{}, nil, err
	}

	in, violations := parseStartupInput(src)
	if form != nil {
		uploadViolations, err := readUploads(form, h.maxFileSize, &in)
		if err != nil {
			return service.Input{}, nil, err
		}
		violations = append(violations, uploadViolations...)
	}
	if len(violations) > 0 {
		return service.Input{}, nil, apperr.Validation(violations)
	}
	return in, src, nil
}
