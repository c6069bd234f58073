package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/groceryai/backend/internal/domain"
	"github.com/groceryai/backend/internal/infrastructure/imagestats"
	"github.com/groceryai/backend/internal/usecase"
)

const version = "1.0.0"

// Services bundles the usecases exposed over HTTP
type Services struct {
	Scanner    *usecase.ProductScanService
	Resolver   *usecase.HalalStatusResolver
	Comparator *usecase.PriceComparator
	Extractor  *usecase.DateTextExtractor
	Assessor   *usecase.ExpiryAssessor
	Scorer     *usecase.FreshnessScorer
	Carts      *usecase.CartService
}

// HandlerConfig holds upload limits for the HTTP handlers
type HandlerConfig struct {
	MaxUploadBytes int64 // Compressed request body size
	MaxImagePixels int64 // Decoded width * height
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	services Services
	config   HandlerConfig
	now      func() time.Time
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services, config HandlerConfig) *Handler {
	return &Handler{
		services: services,
		config:   config,
		now:      time.Now,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "groceryai-backend",
		"version": version,
	})
}

// ScanProduct returns halal, price and optional expiry verdicts for a barcode
func (h *Handler) ScanProduct(c *gin.Context) {
	now := h.now()

	var expiry *time.Time
	if raw := c.Query("expiry"); raw != "" {
		t, err := parseDate(raw, now.Location())
		if err != nil {
			respondError(c, err)
			return
		}
		expiry = &t
	}

	scan, err := h.services.Scanner.Scan(c.Request.Context(), c.Param("barcode"), expiry, now)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scan)
}

// ResolveHalal returns the certification record for a barcode
func (h *Handler) ResolveHalal(c *gin.Context) {
	barcode := c.Param("barcode")
	if err := domain.ValidateBarcode(barcode); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.services.Resolver.Resolve(barcode))
}

// ComparePrice returns the price record and its deviation from the market average
func (h *Handler) ComparePrice(c *gin.Context) {
	barcode := c.Param("barcode")
	if err := domain.ValidateBarcode(barcode); err != nil {
		respondError(c, err)
		return
	}

	record := h.services.Comparator.Compare(barcode)
	deviation, err := h.services.Comparator.Deviation(record)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": err.Error(),
			"price": record,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"price":     record,
		"deviation": deviation,
	})
}

type extractRequest struct {
	Text string `json:"text"`
}

// ExtractExpiry finds an expiry date in OCR or label text and assesses it when it parses
func (h *Handler) ExtractExpiry(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrInvalidRequest)
		return
	}

	match, found := h.services.Extractor.Match(req.Text)
	if !found {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}

	resp := gin.H{
		"found":  true,
		"date":   match.Value,
		"family": match.Family,
	}

	now := h.now()
	if parsed, ok := h.services.Assessor.ParseDate(match, now.Location()); ok {
		resp["parsedDate"] = parsed.Format(domain.DateLayout)
		resp["assessment"] = h.services.Assessor.Assess(parsed, now)
	}
	c.JSON(http.StatusOK, resp)
}

type assessRequest struct {
	ExpiryDate string `json:"expiryDate" binding:"required"`
}

// AssessExpiry classifies a known expiry date against today
func (h *Handler) AssessExpiry(c *gin.Context) {
	var req assessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrInvalidRequest)
		return
	}

	now := h.now()
	expiry, err := parseDate(req.ExpiryDate, now.Location())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.services.Assessor.Assess(expiry, now))
}

type scoreRequest struct {
	Channels   int     `json:"channels" binding:"required"`
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
}

// ScoreFreshness rates precomputed image statistics
func (h *Handler) ScoreFreshness(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrInvalidRequest)
		return
	}

	c.JSON(http.StatusOK, h.services.Scorer.Score(domain.ImageStats{
		Channels:   req.Channels,
		Brightness: req.Brightness,
		Contrast:   req.Contrast,
	}))
}

// ScoreFreshnessImage computes statistics of an uploaded image and rates them
func (h *Handler) ScoreFreshnessImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.config.MaxUploadBytes)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
			return
		}
		respondError(c, domain.ErrInvalidRequest)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	stats, format, err := imagestats.Decode(file, h.config.MaxImagePixels)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"format":     format,
		"stats":      stats,
		"assessment": h.services.Scorer.Score(stats),
	})
}

// CreateCart starts a new shopping session
func (h *Handler) CreateCart(c *gin.Context) {
	cart, err := h.services.Carts.Create(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cartResponse(cart))
}

// GetCart returns the cart of a session with its totals
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.services.Carts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(cart))
}

type addItemRequest struct {
	Barcode    string `json:"barcode" binding:"required"`
	ExpiryDate string `json:"expiryDate" binding:"required"`
}

// AddCartItem adds a scanned product to the session's cart
func (h *Handler) AddCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrInvalidRequest)
		return
	}

	expiry, err := parseDate(req.ExpiryDate, h.now().Location())
	if err != nil {
		respondError(c, err)
		return
	}

	cart, err := h.services.Carts.AddItem(c.Request.Context(), c.Param("id"), req.Barcode, expiry)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(cart))
}

// RemoveCartItem removes the item at the given position
func (h *Handler) RemoveCartItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, domain.ErrInvalidRequest)
		return
	}

	cart, err := h.services.Carts.RemoveItem(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(cart))
}

// ClearCart removes every item from the cart
func (h *Handler) ClearCart(c *gin.Context) {
	cart, err := h.services.Carts.Clear(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(cart))
}

// Checkout completes the purchase and empties the cart
func (h *Handler) Checkout(c *gin.Context) {
	summary, err := h.services.Carts.Checkout(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// DeleteCart ends the session and discards its cart
func (h *Handler) DeleteCart(c *gin.Context) {
	if err := h.services.Carts.Close(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func cartResponse(cart *domain.Cart) gin.H {
	return gin.H{
		"cart":    cart,
		"summary": cart.Summary(),
	}
}

// parseDate reads a YYYY-MM-DD date at midnight in loc
func parseDate(raw string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(domain.DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, domain.ErrInvalidRequest
	}
	return t, nil
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidBarcode):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrCartNotFound), errors.Is(err, domain.ErrItemIndexOutOfRange):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNoMarketData):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrImageTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrUnsupportedImage):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrCartStoreUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
