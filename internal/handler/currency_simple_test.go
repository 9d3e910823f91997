package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gehlin/Currency-calculator/internal/model"
	"github.com/Gehlin/Currency-calculator/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockCurrencyService struct {
	// Конфигурация возвращаемых значений
	ShouldReturnError bool
	MockResult        float64
	MockError         error

	// Для отслеживания вызовов
	Called     bool
	LastFrom   model.Currency
	LastTo     model.Currency
	LastAmount float64
	CallCount  int
}

func (m *MockCurrencyService) Convert(ctx context.Context, amount float64, from, to model.Currency) (float64, error) {
	m.Called = true
	m.CallCount++
	m.LastFrom = from
	m.LastTo = to
	m.LastAmount = amount
	if m.ShouldReturnError {
		return 0, m.MockError
	}
	return m.MockResult, nil
}

func (m *MockCurrencyService) Currencies() []model.Currency {
	return model.SupportedCurrencies()
}

// setupTestRouter создаёт тестовый роутер с хендлером
func setupTestRouter(svc *MockCurrencyService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewCurrencyHandler(svc)
	router.GET("/convert", handler.Convert)
	router.GET("/currencies", handler.Currencies)

	return router
}

// performRequest выполняет тестовый запрос
func performRequest(router *gin.Engine, method, url string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeConvert(t *testing.T, w *httptest.ResponseRecorder) model.ConvertResponse {
	t.Helper()
	var response model.ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func TestCurrencyHandler_Convert_Success(t *testing.T) {
	mockService := &MockCurrencyService{MockResult: 10.85}
	router := setupTestRouter(mockService)

	w := performRequest(router, "GET", "/convert?from=EUR&to=USD&amount=10")

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeConvert(t, w)
	assert.Equal(t, "10.85", response.State.Result)
	assert.Empty(t, response.State.Error)
	assert.Equal(t, model.DisplayResult, response.Display.Kind)
	assert.Equal(t, "10 EUR = 10.85 USD", response.Display.Text)

	assert.True(t, mockService.Called)
	assert.Equal(t, model.EUR, mockService.LastFrom)
	assert.Equal(t, model.USD, mockService.LastTo)
	assert.Equal(t, 10.0, mockService.LastAmount)
}

func TestCurrencyHandler_Convert_CommaAmount(t *testing.T) {
	mockService := &MockCurrencyService{MockResult: 1.63}
	router := setupTestRouter(mockService)

	w := performRequest(router, "GET", "/convert?from=eur&to=usd&amount=1,5")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.5, mockService.LastAmount)
	assert.Equal(t, "1,5 EUR = 1.63 USD", decodeConvert(t, w).Display.Text)
}

func TestCurrencyHandler_Convert_SameCurrency(t *testing.T) {
	mockService := &MockCurrencyService{}
	router := setupTestRouter(mockService)

	w := performRequest(router, "GET", "/convert?from=EUR&to=EUR&amount=1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", decodeConvert(t, w).State.Result)
	assert.False(t, mockService.Called, "same currency must not hit the rate API")
}

func TestCurrencyHandler_Convert_NetworkError(t *testing.T) {
	mockService := &MockCurrencyService{ShouldReturnError: true, MockError: service.ErrNetwork}
	router := setupTestRouter(mockService)

	w := performRequest(router, "GET", "/convert?from=EUR&to=USD&amount=1")

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeConvert(t, w)
	assert.Equal(t, "Network error", response.State.Error)
	assert.Empty(t, response.State.Result)
	assert.Equal(t, model.DisplayError, response.Display.Kind)
}

func TestCurrencyHandler_Convert_InvalidAmount(t *testing.T) {
	mockService := &MockCurrencyService{}
	router := setupTestRouter(mockService)

	w := performRequest(router, "GET", "/convert?from=EUR&to=USD&amount=abc")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Invalid amount", decodeConvert(t, w).State.Error)
	assert.False(t, mockService.Called)
}

func TestCurrencyHandler_Convert_EmptyAmount(t *testing.T) {
	mockService := &MockCurrencyService{}
	router := setupTestRouter(mockService)

	w := performRequest(router, "GET", "/convert?from=EUR&to=USD")

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeConvert(t, w)
	assert.Empty(t, response.State.Result)
	assert.Empty(t, response.State.Error)
	assert.Equal(t, model.DisplayPrompt, response.Display.Kind)
}

func TestCurrencyHandler_Convert_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name string
		url  string
	}{
		{name: "MissingFrom", url: "/convert?to=EUR&amount=100"},
		{name: "MissingTo", url: "/convert?from=USD&amount=100"},
		{name: "ShortCode", url: "/convert?from=US&to=EUR&amount=100"},
		{name: "Unsupported", url: "/convert?from=GBP&to=EUR&amount=100"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockCurrencyService{}
			router := setupTestRouter(mockService)

			w := performRequest(router, "GET", tc.url)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var errorResponse model.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errorResponse))
			assert.Equal(t, "Invalid request", errorResponse.Error)
			assert.False(t, mockService.Called)
		})
	}
}

func TestCurrencyHandler_Currencies(t *testing.T) {
	router := setupTestRouter(&MockCurrencyService{})

	w := performRequest(router, "GET", "/currencies")

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Currencies    []string `json:"currencies"`
		DefaultSource string   `json:"default_source"`
		DefaultTarget string   `json:"default_target"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, []string{"USD", "EUR", "CAD", "INR", "SEK"}, response.Currencies)
	assert.Equal(t, "EUR", response.DefaultSource)
	assert.Equal(t, "USD", response.DefaultTarget)
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", HealthCheck)
	router.GET("/", Widget)

	w := performRequest(router, "GET", "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)

	w = performRequest(router, "GET", "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `aria-live`)
}

func TestWidget_PollingStopsWhenSettled(t *testing.T) {
	page := string(widgetPage)
	assert.Contains(t, page, "if (r.data.state.loading || Date.now() - lastChange < settleMs) poll();")
	assert.Contains(t, page, "lastChange = Date.now();")
}
