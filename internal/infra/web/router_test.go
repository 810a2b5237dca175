package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DioGolang/GoTraffic/internal/application/usecase/catalog"
	"github.com/DioGolang/GoTraffic/internal/application/usecase/order"
	"github.com/DioGolang/GoTraffic/internal/domain/entity"
	"github.com/DioGolang/GoTraffic/internal/infra/pool"
	"github.com/DioGolang/GoTraffic/internal/infra/web/handler"
	"github.com/DioGolang/GoTraffic/pkg/logger"
	"github.com/DioGolang/GoTraffic/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	health, err := handler.NewHealthHandler("order-service")
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	return NewRouter(RouterConfig{
		ServiceName: "order-service",
		Logger:      logger.NewNop(),
		Metrics:     metrics.NewPrometheusMetrics(reg, "order-service"),
		Orders:      handler.NewOrderHandler(order.NewIngestUseCase(nil, logger.NewNop())),
		Products:    handler.NewProductHandler(catalog.NewCatalog(catalog.DefaultSize)),
		Health:      health,
		MetricsView: metrics.Handler(reg),
		Pool:        pool.New(2),
	})
}

func TestRouter_PostOrder(t *testing.T) {
	//Arrange
	router := newTestRouter(t)
	body := `{"customerId":"7","items":[{"productId":1,"quantity":2,"price":3.5}]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	//Act
	router.ServeHTTP(rec, req)

	//Assert
	require.Equal(t, http.StatusCreated, rec.Code)
	var out order.IngestOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Accepted)
	assert.Equal(t, "7", out.CustomerID)
	assert.Equal(t, 1, out.Items)
}

func TestRouter_PostNonJSONStillAcknowledged(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("hello")))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_Products(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []entity.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, catalog.DefaultSize)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/3", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var p entity.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "3", p.ID)
	assert.Equal(t, "Mermaid's Mice Trio", p.Name)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "app_http_duration_seconds")
}
