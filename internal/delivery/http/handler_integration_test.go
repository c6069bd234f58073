package http

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/groceryai/backend/config"
	"github.com/groceryai/backend/internal/infrastructure/cartstore"
	"github.com/groceryai/backend/internal/infrastructure/referencedata"
	"github.com/groceryai/backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

var testNow = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

// setupTestRouter wires the real reference tables and an in-memory cart store
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
			MaxUploadBytes: 1 << 20,
			MaxImagePixels: 100 * 100,
		},
		Cart: config.CartConfig{
			Store: config.CartStoreMemory,
			TTL:   time.Hour,
		},
	}

	tables, err := referencedata.LoadDefault()
	require.NoError(t, err)

	store := cartstore.NewMemoryStore()
	t.Cleanup(func() { store.Close() })

	resolver := usecase.NewHalalStatusResolver(tables)
	comparator := usecase.NewPriceComparator(tables)
	assessor := usecase.NewExpiryAssessor()

	handler := NewHandler(Services{
		Scanner:    usecase.NewProductScanService(resolver, comparator, assessor),
		Resolver:   resolver,
		Comparator: comparator,
		Extractor:  usecase.NewDateTextExtractor(),
		Assessor:   assessor,
		Scorer:     usecase.NewFreshnessScorer(),
		Carts: usecase.NewCartService(store, resolver, comparator, usecase.CartServiceConfig{
			SessionTTL: cfg.Cart.TTL,
		}),
	}, HandlerConfig{
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		MaxImagePixels: cfg.Server.MaxImagePixels,
	})
	handler.now = func() time.Time { return testNow }

	return SetupRouter(cfg, handler)
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	}
	return w, response
}

func TestHealthCheckEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w, response := doJSON(t, router, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "groceryai-backend", response["service"])

	for _, method := range []string{"POST", "PUT", "DELETE"} {
		w, _ := doJSON(t, router, method, "/health", "")
		assert.Equal(t, http.StatusNotFound, w.Code, method)
	}
}

func TestHalalEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	t.Run("certified product", func(t *testing.T) {
		w, response := doJSON(t, router, "GET", "/api/v1/products/8801234567890/halal", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Al Safa Chicken Sausages", response["name"])
		assert.Equal(t, true, response["halal"])
		assert.Equal(t, "JAKIM", response["certificate"])
	})

	t.Run("unknown product", func(t *testing.T) {
		w, response := doJSON(t, router, "GET", "/api/v1/products/0000000000000/halal", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Unknown", response["name"])
		assert.Contains(t, response, "halal")
		assert.Nil(t, response["halal"])
		assert.NotContains(t, response, "certificate")
	})

	t.Run("invalid barcode", func(t *testing.T) {
		w, _ := doJSON(t, router, "GET", "/api/v1/products/12345/halal", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPriceEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	t.Run("deviation above market", func(t *testing.T) {
		w, response := doJSON(t, router, "GET", "/api/v1/products/8801234567893/price", "")
		require.Equal(t, http.StatusOK, w.Code)

		deviation := response["deviation"].(map[string]interface{})
		assert.InDelta(t, 4.7, deviation["percent"], 0.05)
		assert.Equal(t, "Above", deviation["direction"])
	})

	t.Run("no market data", func(t *testing.T) {
		w, response := doJSON(t, router, "GET", "/api/v1/products/0000000000000/price", "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, response["error"], "no market data")
	})
}

func TestScanEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	t.Run("with expiry", func(t *testing.T) {
		w, response := doJSON(t, router, "GET", "/api/v1/products/8801234567894?expiry=2024-06-09", "")
		require.Equal(t, http.StatusOK, w.Code)

		assert.Equal(t, true, response["priceAvailable"])
		expiry := response["expiry"].(map[string]interface{})
		assert.Equal(t, "Expired", expiry["status"])
		assert.Equal(t, float64(-1), expiry["daysRemaining"])
	})

	t.Run("unknown product", func(t *testing.T) {
		w, response := doJSON(t, router, "GET", "/api/v1/products/0000000000000", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, response["priceAvailable"])
		assert.NotContains(t, response, "deviation")
		assert.NotContains(t, response, "expiry")
	})

	t.Run("bad expiry", func(t *testing.T) {
		w, _ := doJSON(t, router, "GET", "/api/v1/products/8801234567894?expiry=tomorrow", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestExpiryEndpoints(t *testing.T) {
	router := setupTestRouter(t)

	t.Run("extract with parse", func(t *testing.T) {
		w, response := doJSON(t, router, "POST", "/api/v1/expiry/extract", `{"text":"BEST BEFORE: 12/06/2024"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, response["found"])
		assert.Equal(t, "12 06 2024", response["date"])
		assert.Equal(t, "day-month-year", response["family"])
		assert.Equal(t, "2024-06-12", response["parsedDate"])

		assessment := response["assessment"].(map[string]interface{})
		assert.Equal(t, "ExpiringSoon", assessment["status"])
	})

	t.Run("extract month name without parse", func(t *testing.T) {
		w, response := doJSON(t, router, "POST", "/api/v1/expiry/extract", `{"text":"Exp Jun 15, 2024"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Jun", response["date"])
		assert.NotContains(t, response, "parsedDate")
	})

	t.Run("extract nothing", func(t *testing.T) {
		w, response := doJSON(t, router, "POST", "/api/v1/expiry/extract", `{"text":"sugar, salt"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, response["found"])
	})

	t.Run("extract bad json", func(t *testing.T) {
		w, _ := doJSON(t, router, "POST", "/api/v1/expiry/extract", `{`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("assess", func(t *testing.T) {
		w, response := doJSON(t, router, "POST", "/api/v1/expiry/assess", `{"expiryDate":"2024-07-01"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Okay", response["status"])
		assert.Equal(t, float64(21), response["daysRemaining"])
	})

	t.Run("assess missing date", func(t *testing.T) {
		w, _ := doJSON(t, router, "POST", "/api/v1/expiry/assess", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFreshnessEndpoints(t *testing.T) {
	router := setupTestRouter(t)

	t.Run("score statistics", func(t *testing.T) {
		w, response := doJSON(t, router, "POST", "/api/v1/freshness/score", `{"channels":3,"brightness":160,"contrast":60}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(85), response["score"])
		assert.Equal(t, "Fresh", response["category"])
	})

	t.Run("score grayscale fallback", func(t *testing.T) {
		w, response := doJSON(t, router, "POST", "/api/v1/freshness/score", `{"channels":1,"brightness":160,"contrast":60}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(50), response["score"])
		assert.Equal(t, "Average", response["category"])
	})

	upload := func(t *testing.T, data []byte) (*httptest.ResponseRecorder, map[string]interface{}) {
		t.Helper()

		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("image", "produce.png")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest("POST", "/api/v1/freshness/image", &body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		return w, response
	}

	t.Run("score uploaded image", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
		img.SetNRGBA(0, 0, color.NRGBA{R: 90, G: 90, B: 90, A: 255})
		img.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, img))

		w, response := upload(t, buf.Bytes())
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "png", response["format"])

		// mean 172.5, std 82.5
		assessment := response["assessment"].(map[string]interface{})
		assert.Equal(t, "Fresh", assessment["category"])
	})

	t.Run("translucent image falls back to neutral score", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 200, 200, 200, 128
		}
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, img))

		w, response := upload(t, buf.Bytes())
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(4), response["stats"].(map[string]interface{})["channels"])

		assessment := response["assessment"].(map[string]interface{})
		assert.Equal(t, float64(50), assessment["score"])
		assert.Equal(t, "Average", assessment["category"])
	})

	t.Run("rejects oversized canvas", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 101, 100))))

		w, _ := upload(t, buf.Bytes())
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("rejects non image upload", func(t *testing.T) {
		w, _ := upload(t, []byte("plain text"))
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		w, _ := doJSON(t, router, "POST", "/api/v1/freshness/image", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCartFlow(t *testing.T) {
	router := setupTestRouter(t)

	w, response := doJSON(t, router, "POST", "/api/v1/carts", "")
	require.Equal(t, http.StatusCreated, w.Code)
	id := response["cart"].(map[string]interface{})["id"].(string)
	require.NotEmpty(t, id)
	base := "/api/v1/carts/" + id

	for _, barcode := range []string{"8801234567890", "8801234567893", "8801234567890"} {
		w, _ = doJSON(t, router, "POST", base+"/items", `{"barcode":"`+barcode+`","expiryDate":"2024-06-20"}`)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, response = doJSON(t, router, "GET", base, "")
	require.Equal(t, http.StatusOK, w.Code)
	summary := response["summary"].(map[string]interface{})
	assert.Equal(t, float64(3), summary["totalItems"])
	assert.Equal(t, float64(2), summary["halalItems"])
	assert.InDelta(t, 60.70, summary["totalPrice"], 1e-9)

	w, response = doJSON(t, router, "DELETE", base+"/items/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	items := response["cart"].(map[string]interface{})["items"].([]interface{})
	assert.Len(t, items, 2)

	w, _ = doJSON(t, router, "DELETE", base+"/items/5", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, router, "DELETE", base+"/items/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, response = doJSON(t, router, "POST", base+"/checkout", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), response["summary"].(map[string]interface{})["totalItems"])

	w, response = doJSON(t, router, "GET", base, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), response["summary"].(map[string]interface{})["totalItems"])
	assert.Equal(t, float64(0), response["cart"].(map[string]interface{})["savings"])
}

func TestCartErrors(t *testing.T) {
	router := setupTestRouter(t)

	w, _ := doJSON(t, router, "GET", "/api/v1/carts/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, response := doJSON(t, router, "POST", "/api/v1/carts", "")
	require.Equal(t, http.StatusCreated, w.Code)
	base := "/api/v1/carts/" + response["cart"].(map[string]interface{})["id"].(string)

	tests := []struct {
		name string
		body string
	}{
		{"bad barcode", `{"barcode":"123","expiryDate":"2024-06-20"}`},
		{"missing expiry", `{"barcode":"8801234567890"}`},
		{"bad expiry", `{"barcode":"8801234567890","expiryDate":"20/06/2024"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := doJSON(t, router, "POST", base+"/items", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	w, response = doJSON(t, router, "DELETE", base+"/items", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, response["cart"].(map[string]interface{})["items"])

	w, _ = doJSON(t, router, "DELETE", base, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = doJSON(t, router, "GET", base, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, router, "DELETE", base, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
