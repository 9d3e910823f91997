package model

import (
	"errors"
	"fmt"
	"strings"
)

// Currency - код валюты из фиксированного набора виджета
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	CAD Currency = "CAD"
	INR Currency = "INR"
	SEK Currency = "SEK"
)

const (
	DefaultSource = EUR
	DefaultTarget = USD
)

var ErrUnsupportedCurrency = errors.New("unsupported currency")

// SupportedCurrencies in selector order.
func SupportedCurrencies() []Currency {
	return []Currency{USD, EUR, CAD, INR, SEK}
}

func (c Currency) Valid() bool {
	switch c {
	case USD, EUR, CAD, INR, SEK:
		return true
	}
	return false
}

func (c Currency) String() string { return string(c) }

// ParseCurrency принимает код в любом регистре
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, s)
	}
	return c, nil
}

// ConvertRequest - запрос на разовую конвертацию
type ConvertRequest struct {
	From   string `form:"from" binding:"required,len=3"`
	To     string `form:"to" binding:"required,len=3"`
	Amount string `form:"amount"`
}

// InputPatch - частичное обновление полей виджета
type InputPatch struct {
	Amount *string `json:"amount"`
	From   *string `json:"from"`
	To     *string `json:"to"`
}

// ConvertResponse - состояние и готовый текст для вывода
type ConvertResponse struct {
	State   State   `json:"state"`
	Display Display `json:"display"`
}

// SessionResponse - ответ API сессий
type SessionResponse struct {
	ID      string  `json:"id"`
	State   State   `json:"state"`
	Display Display `json:"display"`
}

// ErrorResponse - структура для ошибок
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}
