package controller

import (
	"fmt"

	"github.com/Gehlin/Currency-calculator/internal/model"

	"github.com/shopspring/decimal"
)

const (
	TextConverting = "Converting…"
	TextPrompt     = "Enter an amount to get started"
)

// Render - чистая функция State -> Display, без побочных эффектов.
func Render(s model.State) model.Display {
	d := model.Display{CanClear: !s.Loading && s.Amount != ""}
	switch {
	case s.Loading:
		d.Kind, d.Text = model.DisplayLoading, TextConverting
	case s.Error != "":
		d.Kind, d.Text = model.DisplayError, s.Error
	case s.Result != "":
		amount := s.Amount
		if amount == "" {
			amount = "0"
		}
		d.Kind = model.DisplayResult
		d.Text = fmt.Sprintf("%s %s = %s %s", amount, s.From, FormatResult(s.Result), s.To)
	default:
		d.Kind, d.Text = model.DisplayPrompt, TextPrompt
	}
	return d
}

// FormatResult округляет числовой результат до 2 знаков, нечисловой отдаёт как есть.
func FormatResult(raw string) string {
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return raw
	}
	return v.StringFixed(2)
}
