package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/pharma/backend/internal/application/catalog"
	identityapp "github.com/pharma/backend/internal/application/identity"
	partnerapp "github.com/pharma/backend/internal/application/partner"
	posapp "github.com/pharma/backend/internal/application/pos"
	reportapp "github.com/pharma/backend/internal/application/report"
	"github.com/pharma/backend/internal/infrastructure/auth"
	"github.com/pharma/backend/internal/infrastructure/cache"
	"github.com/pharma/backend/internal/infrastructure/config"
	"github.com/pharma/backend/internal/infrastructure/logger"
	"github.com/pharma/backend/internal/infrastructure/persistence"
	"github.com/pharma/backend/internal/interfaces/http/middleware"
	"github.com/pharma/backend/internal/interfaces/http/router"
)

func newTestServer(t *testing.T) (*gin.Engine, *persistence.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := persistence.NewMemoryStore()
	idempotency := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idempotency.Close() })

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "pharma-backend-test",
	})

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(logger.NewNop()),
		middleware.JWTAuth(jwtService, false),
	)

	r := router.NewRouter(engine)
	r.Register(NewSystemHandler(store, "test"))
	r.Register(NewAuthHandler(identityapp.NewAuthService(store, jwtService)))
	r.Register(NewUserHandler(identityapp.NewUserService(store)))
	r.Register(NewProductHandler(catalogapp.NewProductService(store)))
	r.Register(NewCategoryHandler(catalogapp.NewCategoryService(store)))
	r.Register(NewSupplierHandler(partnerapp.NewSupplierService(store)))
	r.Register(NewCustomerHandler(partnerapp.NewCustomerService(store)))
	r.Register(NewTransactionHandler(posapp.NewCheckoutService(store, idempotency, time.Hour, logger.NewNop())))
	r.Register(NewDashboardHandler(reportapp.NewDashboardService(store, time.UTC)))
	r.Setup()

	return engine, store
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func errorCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, recorder)
	errInfo, ok := body["error"].(map[string]any)
	require.True(t, ok, "response has no error object: %s", recorder.Body.String())
	return errInfo["code"].(string)
}

func TestProductEndpoints(t *testing.T) {
	engine, _ := newTestServer(t)

	createBody := map[string]any{
		"name":     "Paracetamol 500mg",
		"sku":      "MED-001",
		"category": "Pain Relief",
		"price":    25000,
		"stock":    40,
	}

	t.Run("create returns 201 with envelope", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/products", createBody, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		data := body["data"].(map[string]any)
		assert.Equal(t, float64(1), data["id"])
		assert.Equal(t, "MED-001", data["sku"])
	})

	t.Run("duplicate sku returns 409", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/products", createBody, nil)
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "ALREADY_EXISTS", errorCode(t, rec))
	})

	t.Run("missing fields return validation details", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/products", map[string]any{"price": 100}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/products/999", nil, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NOT_FOUND", errorCode(t, rec))
	})

	t.Run("malformed id returns 400", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/products/abc", nil, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPut, "/api/products/1", map[string]any{"price": 27500}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, 27500.0, data["price"])
		assert.Equal(t, "Paracetamol 500mg", data["name"])
	})

	t.Run("low stock route is not captured by id route", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/products/low-stock", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("delete returns 204 then 404", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodDelete, "/api/products/1", nil, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())

		rec = doRequest(t, engine, http.MethodDelete, "/api/products/1", nil, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTransactionEndpoints(t *testing.T) {
	engine, store := newTestServer(t)

	rec := doRequest(t, engine, http.MethodPost, "/api/products", map[string]any{
		"name":     "Paracetamol 500mg",
		"sku":      "MED-001",
		"category": "Pain Relief",
		"price":    25000,
		"stock":    10,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	checkout := map[string]any{
		"transactionId": "TRX-9001",
		"total":         75000,
		"items": []map[string]any{
			{"productId": 1, "quantity": 3, "price": 25000},
		},
	}

	t.Run("checkout returns 201 and decrements stock", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/transactions", checkout, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		product, err := store.GetProduct(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 7, product.Stock)
	})

	t.Run("total mismatch returns 422", func(t *testing.T) {
		bad := map[string]any{
			"transactionId": "TRX-9002",
			"total":         80000,
			"items": []map[string]any{
				{"productId": 1, "quantity": 3, "price": 25000},
			},
		}
		rec := doRequest(t, engine, http.MethodPost, "/api/transactions", bad, nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "TOTAL_MISMATCH", errorCode(t, rec))
	})

	t.Run("insufficient stock returns 422", func(t *testing.T) {
		oversell := map[string]any{
			"transactionId": "TRX-9003",
			"total":         500000,
			"items": []map[string]any{
				{"productId": 1, "quantity": 20, "price": 25000},
			},
		}
		rec := doRequest(t, engine, http.MethodPost, "/api/transactions", oversell, nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, rec))
	})

	t.Run("idempotent retry replays with 200", func(t *testing.T) {
		payload := map[string]any{
			"transactionId": "TRX-9004",
			"total":         25000,
			"items": []map[string]any{
				{"productId": 1, "quantity": 1, "price": 25000},
			},
		}
		headers := map[string]string{"Idempotency-Key": "retry-1"}

		rec := doRequest(t, engine, http.MethodPost, "/api/transactions", payload, headers)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doRequest(t, engine, http.MethodPost, "/api/transactions", payload, headers)
		require.Equal(t, http.StatusOK, rec.Code)

		product, err := store.GetProduct(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 6, product.Stock)
	})

	t.Run("items listing requires existing transaction", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/transactions/1/items", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, engine, http.MethodGet, "/api/transactions/999/items", nil, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("appending an item defaults the subtotal", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/transaction-items", map[string]any{
			"transactionId": 1,
			"productId":     1,
			"quantity":      2,
			"price":         25000,
		}, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, 50000.0, data["subtotal"])

		rec = doRequest(t, engine, http.MethodGet, "/api/transactions/1/items", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		items := decodeBody(t, rec)["data"].([]any)
		assert.Len(t, items, 2)
	})

	t.Run("appending to an unknown transaction is 404", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/transaction-items", map[string]any{
			"transactionId": 999,
			"productId":     1,
			"quantity":      1,
			"price":         25000,
		}, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("appending rejects a non-positive quantity", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/transaction-items", map[string]any{
			"transactionId": 1,
			"productId":     1,
			"quantity":      0,
			"price":         25000,
		}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthAndUserEndpoints(t *testing.T) {
	engine, _ := newTestServer(t)

	t.Run("created user response omits password", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/users", map[string]any{
			"username": "admin",
			"password": "password123",
			"fullName": "Admin Apotek",
			"role":     "admin",
		}, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, "admin", data["username"])
		_, hasPassword := data["password"]
		assert.False(t, hasPassword)
	})

	t.Run("login succeeds with tokens", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/auth/login", map[string]any{
			"username": "admin",
			"password": "password123",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		data := decodeBody(t, rec)["data"].(map[string]any)
		tokens := data["tokens"].(map[string]any)
		assert.NotEmpty(t, tokens["accessToken"])
	})

	t.Run("wrong password returns 401", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/auth/login", map[string]any{
			"username": "admin",
			"password": "wrong",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, rec))
	})
}

func TestUserRoutesRequireAdminRole(t *testing.T) {
	engine, _ := newTestServer(t)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "pharma-backend-test",
	})

	t.Run("staff token is forbidden", func(t *testing.T) {
		pair, err := jwtService.GenerateTokenPair(2, "kasir", "staff")
		require.NoError(t, err)

		rec := doRequest(t, engine, http.MethodGet, "/api/users", nil, map[string]string{
			"Authorization": "Bearer " + pair.AccessToken,
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FORBIDDEN", errorCode(t, rec))
	})

	t.Run("admin token passes", func(t *testing.T) {
		pair, err := jwtService.GenerateTokenPair(1, "admin", "admin")
		require.NoError(t, err)

		rec := doRequest(t, engine, http.MethodGet, "/api/users", nil, map[string]string{
			"Authorization": "Bearer " + pair.AccessToken,
		})
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestDashboardAndHealthEndpoints(t *testing.T) {
	engine, _ := newTestServer(t)

	t.Run("health is ok", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/health", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("stats on an empty store are zero", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/dashboard/stats", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, 0.0, data["totalSales"])
		assert.Nil(t, data["percentSalesChange"])
	})

	t.Run("sales rejects unknown period", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/dashboard/sales?period=hourly", nil, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("recent transactions validates limit", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/dashboard/recent-transactions?limit=0", nil, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("category share is empty without sales", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/dashboard/categories", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		data, ok := body["data"].([]any)
		require.True(t, ok)
		assert.Empty(t, data)
	})
}
