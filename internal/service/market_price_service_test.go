package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"tradeledger/internal/domain"
)

func TestMarketPriceService_GetLastClose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/ticker/price", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"50123.45"}`))
	}))
	defer server.Close()

	service := NewMarketPriceService(server.URL, 5*time.Second)

	price, err := service.GetLastClose(context.Background(), "BTCUSDT")

	assert.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromFloat(50123.45)))
}

func TestMarketPriceService_GetLastClose_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer server.Close()

	service := NewMarketPriceService(server.URL, 5*time.Second)

	_, err := service.GetLastClose(context.Background(), "NOSUCH")

	assert.ErrorIs(t, err, domain.ErrMarketData)
}

func TestMarketPriceService_GetLastClose_EmptyPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"BTCUSDT"}`))
	}))
	defer server.Close()

	service := NewMarketPriceService(server.URL, 5*time.Second)

	_, err := service.GetLastClose(context.Background(), "BTCUSDT")

	assert.ErrorIs(t, err, domain.ErrMarketData)
}

func TestMarketPriceService_GetLastClose_MalformedPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"not-a-number"}`))
	}))
	defer server.Close()

	service := NewMarketPriceService(server.URL, 5*time.Second)

	_, err := service.GetLastClose(context.Background(), "BTCUSDT")

	assert.ErrorIs(t, err, domain.ErrMarketData)
}

func TestMarketPriceService_GetLastClose_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"1"}`))
	}))
	defer server.Close()

	service := NewMarketPriceService(server.URL, 20*time.Millisecond)

	_, err := service.GetLastClose(context.Background(), "BTCUSDT")

	assert.ErrorIs(t, err, domain.ErrMarketData)
}

func TestMarketPriceService_GetLastClose_Unreachable(t *testing.T) {
	// Closed server: connection refused
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	service := NewMarketPriceService(server.URL, time.Second)

	_, err := service.GetLastClose(context.Background(), "BTCUSDT")

	assert.ErrorIs(t, err, domain.ErrMarketData)
}
