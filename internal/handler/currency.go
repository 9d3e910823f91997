package handler

import (
	"net/http"

	"github.com/Gehlin/Currency-calculator/internal/controller"
	"github.com/Gehlin/Currency-calculator/internal/model"
	"github.com/Gehlin/Currency-calculator/internal/service"

	"github.com/gin-gonic/gin"
)

type CurrencyHandler struct {
	currencyService service.CurrencyServiceInterface
}

func NewCurrencyHandler(currencyService service.CurrencyServiceInterface) *CurrencyHandler {
	return &CurrencyHandler{
		currencyService: currencyService,
	}
}

// Convert - разовый пересчёт без debounce, тот же конвейер что и у виджета.
// Ошибки суммы и сети возвращаются в state.error со статусом 200.
func (h *CurrencyHandler) Convert(c *gin.Context) {
	var req model.ConvertRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "Invalid request",
			Details: err.Error(),
		})
		return
	}
	from, err := model.ParseCurrency(req.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "Invalid request",
			Details: err.Error(),
		})
		return
	}
	to, err := model.ParseCurrency(req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "Invalid request",
			Details: err.Error(),
		})
		return
	}

	in := controller.Input{Amount: req.Amount, From: from, To: to}
	result, errMsg := controller.Evaluate(c.Request.Context(), h.currencyService, in)
	state := model.State{
		Amount: req.Amount,
		From:   from,
		To:     to,
		Result: result,
		Error:  errMsg,
	}
	c.JSON(http.StatusOK, model.ConvertResponse{
		State:   state,
		Display: controller.Render(state),
	})
}

// Currencies отдаёт список для селекторов
func (h *CurrencyHandler) Currencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"currencies":     h.currencyService.Currencies(),
		"default_source": model.DefaultSource,
		"default_target": model.DefaultTarget,
	})
}
