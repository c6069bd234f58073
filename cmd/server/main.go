package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/groceryai/backend/config"
	httpDelivery "github.com/groceryai/backend/internal/delivery/http"
	"github.com/groceryai/backend/internal/domain"
	"github.com/groceryai/backend/internal/infrastructure/cartstore"
	"github.com/groceryai/backend/internal/infrastructure/referencedata"
	"github.com/groceryai/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting GroceryAI Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cart Store: %s (session TTL %s)", cfg.Cart.Store, cfg.Cart.TTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	// Reference tables are loaded once and shared read-only by every component
	tables, err := referencedata.Load(cfg.Reference.Path)
	if err != nil {
		log.Fatalf("Failed to load reference data: %v", err)
	}
	products, prices := tables.Len()
	log.Printf("Reference data: %d products, %d prices", products, prices)

	carts, err := newCartRepository(ctx, cfg.Cart)
	if err != nil {
		log.Fatalf("Failed to initialize cart store: %v", err)
	}
	defer carts.Close()

	// Initialize usecase layer
	resolver := usecase.NewHalalStatusResolver(tables)
	comparator := usecase.NewPriceComparator(tables)
	assessor := usecase.NewExpiryAssessor()

	handler := httpDelivery.NewHandler(httpDelivery.Services{
		Scanner:    usecase.NewProductScanService(resolver, comparator, assessor),
		Resolver:   resolver,
		Comparator: comparator,
		Extractor:  usecase.NewDateTextExtractor(),
		Assessor:   assessor,
		Scorer:     usecase.NewFreshnessScorer(),
		Carts: usecase.NewCartService(carts, resolver, comparator, usecase.CartServiceConfig{
			SessionTTL: cfg.Cart.TTL,
		}),
	}, httpDelivery.HandlerConfig{
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		MaxImagePixels: cfg.Server.MaxImagePixels,
	})

	log.Printf("Rate limit: %d requests/minute per IP", cfg.RateLimit.PerIP)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}

type cartRepository interface {
	domain.CartRepository
	io.Closer
}

// newCartRepository selects the cart backend; sessions never share a cart in either
func newCartRepository(ctx context.Context, cfg config.CartConfig) (cartRepository, error) {
	if cfg.Store == config.CartStoreRedis {
		return cartstore.NewRedisStore(ctx, cfg.RedisURL)
	}
	return cartstore.NewMemoryStore(), nil
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
