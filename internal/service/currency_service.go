package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Gehlin/Currency-calculator/internal/config"
	"github.com/Gehlin/Currency-calculator/internal/model"

	"go.uber.org/zap"
)

var (
	// ErrNetwork - API ответил статусом, отличным от 2xx
	ErrNetwork = errors.New("network error")
	// ErrRateMissing - в ответе нет курса для целевой валюты
	ErrRateMissing = errors.New("rate missing from response")
)

// CurrencyServiceInterface - интерфейс для тестирования
type CurrencyServiceInterface interface {
	Convert(ctx context.Context, amount float64, from, to model.Currency) (float64, error)
	Currencies() []model.Currency
}

// CurrencyService ходит в Frankfurter API (https://www.frankfurter.app).
type CurrencyService struct {
	baseURL    string
	logger     *zap.Logger
	httpClient *http.Client
}

func NewCurrencyService(cfg config.APIConfig, logger *zap.Logger) *CurrencyService {
	client := &http.Client{
		Timeout: cfg.Timeout,
	}
	return &CurrencyService{
		baseURL:    strings.TrimRight(cfg.CurrencyAPIURL, "/"),
		logger:     logger,
		httpClient: client,
	}
}

type latestResponse struct {
	Amount float64             `json:"amount"`
	Base   string              `json:"base"`
	Date   string              `json:"date"`
	Rates  map[string]*float64 `json:"rates"`
}

func (s *CurrencyService) Currencies() []model.Currency {
	return model.SupportedCurrencies()
}

// FormatAmount - кратчайшая десятичная запись: 1 -> "1", 1.5 -> "1.5"
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Convert возвращает amount, переведённый из from в to по последнему курсу.
// Один GET, без повторов.
func (s *CurrencyService) Convert(ctx context.Context, amount float64, from, to model.Currency) (float64, error) {
	q := url.Values{}
	q.Set("amount", FormatAmount(amount))
	q.Set("from", from.String())
	q.Set("to", to.String())
	apiURL := s.baseURL + "/latest?" + q.Encode()

	s.logger.Debug("Fetching conversion from Frankfurter",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.String("url", apiURL),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			s.logger.Debug("API request canceled",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			return 0, fmt.Errorf("API request canceled: %w", ctx.Err())
		}
		s.logger.Warn("API request failed",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
			zap.Error(err),
		)
		return 0, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		s.logger.Warn("API returned error status",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(body)),
		)
		return 0, ErrNetwork
	}

	var apiResponse latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		s.logger.Warn("Invalid JSON from Frankfurter",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
			zap.Error(err),
		)
		return 0, fmt.Errorf("invalid JSON response: %w", err)
	}

	rate := apiResponse.Rates[to.String()]
	if rate == nil {
		return 0, fmt.Errorf("%w: %s", ErrRateMissing, to)
	}
	value := *rate

	s.logger.Debug("Conversion fetched",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.Float64("amount", amount),
		zap.Float64("result", value),
	)
	return value, nil
}

var _ CurrencyServiceInterface = (*CurrencyService)(nil)
