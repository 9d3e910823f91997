package controller

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/Gehlin/Currency-calculator/internal/model"
	"github.com/Gehlin/Currency-calculator/internal/service"
)

// Тексты ошибок, которые видит пользователь.
const (
	MsgInvalidAmount = "Invalid amount"
	MsgNetworkError  = "Network error"
	MsgUnexpected    = "Something went wrong"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrBusy          = errors.New("conversion in progress")
)

// Converter - внешний источник курсов (Frankfurter в проде, мок в тестах)
type Converter interface {
	Convert(ctx context.Context, amount float64, from, to model.Currency) (float64, error)
}

// Input - три поля, от которых зависит пересчёт
type Input struct {
	Amount string
	From   model.Currency
	To     model.Currency
}

// ParseAmount нормализует десятичную запятую и парсит число.
// empty == true, если после trim строка пустая.
func ParseAmount(text string) (value float64, empty bool, err error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, true, nil
	}
	normalized := strings.Replace(trimmed, ",", ".", 1)
	// ParseFloat понимает hex-float ("0x1p3"), для виджета это не число
	unsigned := strings.TrimLeft(normalized, "+-")
	if strings.HasPrefix(unsigned, "0x") || strings.HasPrefix(unsigned, "0X") {
		return 0, false, ErrInvalidAmount
	}
	value, err = strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, false, ErrInvalidAmount
	}
	return value, false, nil
}

// Evaluate выполняет один пересчёт: пустая сумма, парсинг, та же валюта или запрос к API.
// Ошибки не пробрасываются, а превращаются в текст для области вывода.
func Evaluate(ctx context.Context, conv Converter, in Input) (result, errMsg string) {
	defer func() {
		if r := recover(); r != nil {
			result, errMsg = "", panicMessage(r)
		}
	}()

	amount, empty, err := ParseAmount(in.Amount)
	if empty {
		return "", ""
	}
	if err != nil {
		return "", errorMessage(err)
	}
	if in.From == in.To {
		return service.FormatAmount(amount), ""
	}

	value, err := conv.Convert(ctx, amount, in.From, in.To)
	if err != nil {
		return "", errorMessage(err)
	}
	return service.FormatAmount(value), ""
}

func panicMessage(r any) string {
	switch v := r.(type) {
	case error:
		return errorMessage(v)
	case string:
		if v != "" {
			return v
		}
	}
	return MsgUnexpected
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return MsgInvalidAmount
	case errors.Is(err, service.ErrNetwork):
		return MsgNetworkError
	case err.Error() != "":
		return err.Error()
	default:
		return MsgUnexpected
	}
}
