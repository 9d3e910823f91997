package handler

import (
	"errors"
	"net/http"

	"github.com/Gehlin/Currency-calculator/internal/controller"
	"github.com/Gehlin/Currency-calculator/internal/model"
	"github.com/Gehlin/Currency-calculator/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionStore - то, что нужно хендлеру от реестра сессий
type SessionStore interface {
	Create() (string, *controller.Controller)
	Get(id string) (*controller.Controller, error)
	Delete(id string) error
}

type SessionHandler struct {
	store SessionStore
}

func NewSessionHandler(store SessionStore) *SessionHandler {
	return &SessionHandler{store: store}
}

func sessionResponse(id string, ctrl *controller.Controller) model.SessionResponse {
	state := ctrl.Snapshot()
	return model.SessionResponse{
		ID:      id,
		State:   state,
		Display: controller.Render(state),
	}
}

func (h *SessionHandler) lookup(c *gin.Context) (string, *controller.Controller, bool) {
	id := c.Param("id")
	ctrl, err := h.store.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Error:   "Session not found",
			Details: err.Error(),
		})
		return "", nil, false
	}
	return id, ctrl, true
}

func (h *SessionHandler) Create(c *gin.Context) {
	id, ctrl := h.store.Create()
	c.JSON(http.StatusCreated, sessionResponse(id, ctrl))
}

func (h *SessionHandler) Get(c *gin.Context) {
	id, ctrl, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse(id, ctrl))
}

// Update применяет изменения ввода. Смена валюты во время загрузки - 409.
func (h *SessionHandler) Update(c *gin.Context) {
	id, ctrl, ok := h.lookup(c)
	if !ok {
		return
	}

	var patch model.InputPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "Invalid request",
			Details: err.Error(),
		})
		return
	}

	change := controller.Change{Amount: patch.Amount}
	for _, f := range []struct {
		raw *string
		dst **model.Currency
	}{
		{patch.From, &change.From},
		{patch.To, &change.To},
	} {
		if f.raw == nil {
			continue
		}
		cur, err := model.ParseCurrency(*f.raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{
				Error:   "Invalid request",
				Details: err.Error(),
			})
			return
		}
		*f.dst = &cur
	}

	if err := ctrl.Apply(change); err != nil {
		if errors.Is(err, controller.ErrBusy) {
			c.JSON(http.StatusConflict, model.ErrorResponse{
				Error:   "Conversion in progress",
				Details: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "Update failed",
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, sessionResponse(id, ctrl))
}

func (h *SessionHandler) Clear(c *gin.Context) {
	id, ctrl, ok := h.lookup(c)
	if !ok {
		return
	}
	if !ctrl.Clear() {
		c.JSON(http.StatusConflict, model.ErrorResponse{
			Error:   "Clear unavailable",
			Message: "nothing to clear or conversion in progress",
		})
		return
	}
	c.JSON(http.StatusOK, sessionResponse(id, ctrl))
}

func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Param("id")); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, session.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, model.ErrorResponse{
			Error:   "Delete failed",
			Details: err.Error(),
		})
		return
	}
	c.Status(http.StatusNoContent)
}
