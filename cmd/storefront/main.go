package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ovenlight/storefront/internal/cart"
	"github.com/ovenlight/storefront/internal/catalog"
	"github.com/ovenlight/storefront/internal/checkout"
	"github.com/ovenlight/storefront/internal/httpapi"
	"github.com/ovenlight/storefront/internal/nav"
	"github.com/ovenlight/storefront/internal/notify"
	"github.com/ovenlight/storefront/internal/order"
	"github.com/ovenlight/storefront/internal/storage"
)

type Config struct {
	HTTPPort        string
	CatalogURL      string
	OrderServiceURL string
	StorageBackend  string
	RedisAddr       string
	RedisPassword   string
	MongoURI        string
	MongoDB         string
	KafkaBrokers    []string
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		CatalogURL:      getEnv("CATALOG_URL", "http://localhost:8001"),
		OrderServiceURL: getEnv("ORDER_SERVICE_URL", "http://localhost:8002"),
		StorageBackend:  getEnv("STORAGE_BACKEND", "redis"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "storefront"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func newStore(ctx context.Context, cfg *Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case "mongo":
		collection, err := storage.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return storage.NewMongoStore(collection), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		return storage.NewRedisStore(client), nil
	default:
		return nil, errors.New("STORAGE_BACKEND must be redis or mongo")
	}
}

// autoConfirmPrompt stands in for the host platform's payment popup:
// without a real UI attached, every payment proceeds.
type autoConfirmPrompt struct{}

func (autoConfirmPrompt) ConfirmPayment(_ context.Context, amount float64) (bool, error) {
	log.Printf("payment of %.2f auto-confirmed", amount)
	return true, nil
}

// logLinkOpener stands in for the host platform's external browser.
type logLinkOpener struct{}

func (logLinkOpener) OpenLink(url string) {
	log.Printf("payment link: %s", url)
}

type logProgress struct{}

func (logProgress) ShowProgress() { log.Println("submission started") }
func (logProgress) HideProgress() { log.Println("submission finished") }

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	store, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to set up cart storage: %v", err)
	}

	products := catalog.NewClient(cfg.CatalogURL)
	cartService := cart.NewService(store, products)
	cartService.Restore(ctx)

	form := checkout.NewForm()
	coordinator := nav.NewCoordinator(nav.DefaultStagger, nil)

	notifier := notify.NewKafkaNotifier(cfg.KafkaBrokers...)
	defer notifier.Close()

	submitter := order.NewSubmitter(order.Config{
		Cart:     cartService,
		Form:     form,
		Nav:      coordinator,
		Orders:   order.NewClient(cfg.OrderServiceURL),
		Notifier: notifier,
		Prompt:   autoConfirmPrompt{},
		Opener:   logLinkOpener{},
		Progress: logProgress{},
	})

	handler := httpapi.NewHandler(cartService, products, form, coordinator, submitter)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      handler.Routes(),
		ReadTimeout: 10 * time.Second,
		// Submissions wait on the order service and the payment prompt,
		// so the write deadline is generous.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
