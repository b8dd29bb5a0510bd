package routes

import (
	"context"
	"fmt"
	"log"
	"strconv"

	_ "payment_gateway/docs"
	"payment_gateway/internal/adapter/http/handlers"
	"payment_gateway/internal/adapter/persistence/memory"
	"payment_gateway/internal/adapter/persistence/repository"
	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/infrastructure/config"
	"payment_gateway/internal/infrastructure/database"
	"payment_gateway/internal/infrastructure/metrics"
	"payment_gateway/internal/infrastructure/notification"
	"payment_gateway/internal/infrastructure/payments"
	"payment_gateway/internal/infrastructure/webhooks"
	"payment_gateway/internal/usecase"
	"payment_gateway/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

// Run will start the server
func Run(cfg config.Config) {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if err := getRoutes(context.Background(), cfg); err != nil {
		log.Fatalf("Failed to wire the application: %v", err)
	}

	err := router.Run(":" + strconv.Itoa(cfg.Port))
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

// storage bundles the two repositories and their health check so the driver switch
// stays in one place.
type storage struct {
	payments interfaces.IPaymentRepository
	ledger   interfaces.IProcessedEventRepository
	health   interfaces.IHealthCheck
}

func newStorage(ctx context.Context, cfg config.StorageConfig) (storage, error) {
	switch cfg.Driver {
	case config.StorageMemory:
		log.Printf("[storage] driver=memory; records are lost on restart")
		return storage{
			payments: memory.NewPaymentRepository(),
			ledger:   memory.NewProcessedEventRepository(),
			health: interfaces.HealthCheckFunc(func(context.Context) entities.HealthStatus {
				return entities.SkippedCheck("memory storage driver")
			}),
		}, nil
	case config.StorageDynamoDB:
		ddb, err := database.ConnectDynamoDB(ctx, cfg)
		if err != nil {
			return storage{}, err
		}
		log.Printf("[storage] driver=dynamodb payments_table=%s processed_events_table=%s", cfg.PaymentsTable, cfg.ProcessedEventsTable)
		return storage{
			payments: repository.NewPaymentDynamoRepository(ddb, cfg.PaymentsTable),
			ledger:   repository.NewProcessedEventDynamoRepository(ddb, cfg.ProcessedEventsTable),
			health:   repository.NewTableHealthCheck(ddb, cfg.PaymentsTable, cfg.ProcessedEventsTable),
		}, nil
	default:
		return storage{}, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// newGateways returns the creation adapters and the status fetchers used for
// providers whose webhooks cannot be authenticated.
func newGateways(cfg config.Config) ([]interfaces.IPaymentGateway, map[entities.Provider]interfaces.IPaymentStatusFetcher) {
	if cfg.MockMode {
		log.Printf("[payment][gateway] mock mode enabled; no provider is called")
		var gateways []interfaces.IPaymentGateway
		for _, p := range entities.Providers() {
			gateways = append(gateways, payments.NewMockGateway(p, cfg.ReturnBaseURL))
		}
		return gateways, nil
	}

	mp := payments.NewMercadoPagoGateway(cfg.MercadoPago)
	abacate := payments.NewAbacatePayGateway(cfg.AbacatePay)
	gateways := []interfaces.IPaymentGateway{
		payments.NewStripeCheckoutGateway(cfg.Stripe),
		mp,
		abacate,
	}
	fetchers := map[entities.Provider]interfaces.IPaymentStatusFetcher{
		entities.ProviderPixBilling:    mp,
		entities.ProviderWalletBilling: abacate,
	}
	return gateways, fetchers
}

func getRoutes(ctx context.Context, cfg config.Config) error {
	store, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	counters := &metrics.Counters{}
	gateways, fetchers := newGateways(cfg)
	verifiers := []interfaces.IWebhookVerifier{
		webhooks.NewStripeVerifier(cfg.Stripe.WebhookSecret),
		webhooks.NewMercadoPagoVerifier(cfg.MercadoPago.WebhookSecret, cfg.MercadoPago.SentinelID),
		webhooks.NewAbacatePayVerifier(cfg.AbacatePay.WebhookSecret),
	}
	notifier := notification.NewNotifier(cfg.Email, store.payments)

	paymentUseCase := usecase.NewPaymentUseCase(gateways, store.payments, usecase.RetryPolicy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay,
		MaxDelay:    cfg.Retry.MaxDelay,
	}, counters)
	webhookUseCase := usecase.NewWebhookUseCase(verifiers, fetchers, store.ledger, store.payments, notifier, cfg.Storage.ClaimLease, counters)

	paymentHandler := handlers.NewPaymentHandler(paymentUseCase)
	webhookHandler := handlers.NewWebhookHandler(webhookUseCase)
	metricsHandler := handlers.NewMetricsHandler(counters)
	systemCheckHandler := handlers.NewSystemCheckHandler(usecase.NewSystemCheckUseCase(store.health, notification.NewHealthCheck(notifier), cfg.Email.Timeout))

	// Rotas publicas
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addMetricsRoutes(v1, metricsHandler)
	addSystemCheckRoutes(v1, systemCheckHandler)
	addPaymentRoutes(v1, paymentHandler, webhookHandler)
	return nil
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
