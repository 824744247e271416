package person

import (
	"errors"
	"strconv"

	"github.com/daybook-app/core/internal/middleware"
	"github.com/daybook-app/core/internal/pkg/pagination"
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
	persons := rg.Group("/persons", authMW)

	persons.GET("", h.list)
	persons.POST("", h.create)
	persons.GET("/:id", h.get)
	persons.PATCH("/:id", h.update)
	persons.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	persons, pag, err := h.svc.List(middleware.CurrentUserID(c), q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]personResponse, len(persons))
	for i, p := range persons {
		items[i] = toResponse(&p)
	}
	response.Paged(c, items, pag)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := personID(c)
	if !ok {
		return
	}
	p, err := h.svc.Get(middleware.CurrentUserID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, toResponse(p))
}

func (h *Handler) create(c *gin.Context) {
	var dto CreatePersonDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Create(middleware.CurrentUserID(c), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, toResponse(p))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := personID(c)
	if !ok {
		return
	}
	var dto UpdatePersonDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Update(middleware.CurrentUserID(c), id, &dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, toResponse(p))
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := personID(c)
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
	if errors.Is(err, ErrNotFound) {
		response.NotFoundMsg(c, "person not found")
		return
	}
	response.InternalError(c, err)
}

func personID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid person id")
		return 0, false
	}
	return uint(id), true
}
