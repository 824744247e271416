package entry

import (
	"errors"
	"strconv"

	"github.com/daybook-app/core/internal/middleware"
	"github.com/daybook-app/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	entries := rg.Group("/entries", authMW)

	entries.GET("", h.list)
	entries.POST("", h.create)
	entries.GET("/:id", h.get)
	entries.PATCH("/:id", h.update)
	entries.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid month or year")
		return
	}
	month, year := 0, 0
	if q.Month != nil {
		month = *q.Month
	}
	if q.Year != nil {
		year = *q.Year
	}

	entries, err := h.svc.List(middleware.CurrentUserID(c), month, year)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	items := make([]entryListItem, len(entries))
	for i, e := range entries {
		items[i] = entryListItem{ID: e.ID, Date: e.Date}
	}
	response.OK(c, items)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateEntryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry, persons, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), &dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, toResponse(entry, persons))
}

func (h *Handler) get(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	entry, persons, err := h.svc.Get(middleware.CurrentUserID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, toResponse(entry, persons))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}

	var dto UpdateEntryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry, persons, err := h.svc.Update(c.Request.Context(), middleware.CurrentUserID(c), id, &dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, toResponse(entry, persons))
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(middleware.CurrentUserID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "entry not found")
	case errors.Is(err, ErrForbidden):
		response.ForbiddenMsg(c, err.Error())
	case errors.Is(err, ErrValidation):
		response.UnprocessableEntity(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

func entryID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid entry id")
		return 0, false
	}
	return uint(id), true
}
