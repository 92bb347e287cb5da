package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"sleekinvoices/internal/assist"
	"sleekinvoices/internal/assist/claude"
	"sleekinvoices/internal/assist/openai"
	"sleekinvoices/internal/config"
	"sleekinvoices/internal/email/noop"
	"sleekinvoices/internal/email/ses"
	"sleekinvoices/internal/handler"
	"sleekinvoices/internal/payment/coinbase"
	"sleekinvoices/internal/payment/stripe"
	"sleekinvoices/internal/pdf"
	"sleekinvoices/internal/port"
	"sleekinvoices/internal/repository/postgres"
	"sleekinvoices/internal/router"
	"sleekinvoices/internal/service"
	s3storage "sleekinvoices/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Repositories
	tenantRepo := postgres.NewTenantRepo(db)
	userRepo := postgres.NewUserRepo(db)
	clientRepo := postgres.NewClientRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)
	estimateRepo := postgres.NewEstimateRepo(db)
	recurringRepo := postgres.NewRecurringRepo(db)
	paymentRepo := postgres.NewPaymentRepo(db)
	expenseRepo := postgres.NewExpenseRepo(db)
	templateRepo := postgres.NewTemplateRepo(db)
	statsRepo := postgres.NewStatsRepo(db)

	// Storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Email
	emailSender, err := newEmailSender(&cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}

	// Payment gateways
	cardGateway := stripe.NewGateway(cfg.Payments.StripeSecretKey, cfg.Payments.StripeWebhookSecret)
	cryptoGateway := coinbase.NewGateway(cfg.Payments.CoinbaseAPIKey, cfg.Payments.CoinbaseWebhookSecret)

	// Services
	authSvc := service.NewAuthService(userRepo, tenantRepo, cfg.JWT)
	clientSvc := service.NewClientService(clientRepo)
	renderer := pdf.NewRenderer()
	invoiceSvc := service.NewInvoiceService(invoiceRepo, clientRepo, paymentRepo, templateRepo,
		emailSender, renderer, cfg.Email.FrontendURL)
	estimateSvc := service.NewEstimateService(estimateRepo, clientRepo, templateRepo, invoiceSvc, renderer)
	recurringSvc := service.NewRecurringService(recurringRepo, invoiceSvc)
	paymentSvc := service.NewPaymentService(paymentRepo, invoiceRepo, clientRepo,
		cardGateway, cryptoGateway, emailSender, cfg.Payments.SuccessURL, cfg.Payments.CancelURL)
	expenseSvc := service.NewExpenseService(expenseRepo)
	templateSvc := service.NewTemplateService(templateRepo, s3Client, cfg.S3)
	statsSvc := service.NewStatsService(statsRepo)

	assistSvc, err := newAssistService(&cfg.Assist, clientRepo)
	if err != nil {
		return fmt.Errorf("failed to initialize assist service: %w", err)
	}

	// Handlers
	h := router.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Client:    handler.NewClientHandler(clientSvc),
		Invoice:   handler.NewInvoiceHandler(invoiceSvc, clientSvc),
		Estimate:  handler.NewEstimateHandler(estimateSvc),
		Recurring: handler.NewRecurringHandler(recurringSvc),
		Payment:   handler.NewPaymentHandler(paymentSvc),
		Expense:   handler.NewExpenseHandler(expenseSvc),
		Template:  handler.NewTemplateHandler(templateSvc),
		Stats:     handler.NewStatsHandler(statsSvc),
		Assist:    handler.NewAssistHandler(assistSvc),
		Health:    handler.NewHealthHandler(db),
	}

	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, h)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background generation of recurring invoices and the overdue sweep.
	worker := service.NewRecurringWorker(recurringSvc, invoiceSvc, service.RecurringWorkerConfig{
		PollInterval: time.Duration(cfg.Recurring.PollIntervalSecs) * time.Second,
		Concurrency:  cfg.Recurring.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		stop()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone
	log.Println("Shutdown complete")

	return nil
}

// newEmailSender selects the email provider from config. The noop sender logs
// outgoing mail instead of delivering it.
func newEmailSender(cfg *config.EmailConfig) (port.EmailSender, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName)
	default:
		return noop.NewNoopSender(), nil
	}
}

// newAssistService wires the LLM extraction providers. Returns nil when no
// provider has an API key, which disables the assist endpoints.
func newAssistService(cfg *config.AssistConfig, clientRepo port.ClientRepository) (service.AssistService, error) {
	assist.RegisterProvider("openai", func(pc *config.AssistProviderConfig) (port.InvoiceExtractor, error) {
		return openai.NewExtractor(pc), nil
	})
	assist.RegisterProvider("claude", func(pc *config.AssistProviderConfig) (port.InvoiceExtractor, error) {
		return claude.NewExtractor(pc), nil
	})

	if cfg.Primary.APIKey == "" {
		log.Println("assist: no primary provider API key set, invoice drafting disabled")
		return nil, nil
	}

	primary, err := assist.NewExtractor(&cfg.Primary)
	if err != nil {
		return nil, err
	}

	extractor := primary
	if secondary := cfg.SecondaryConfig(); secondary != nil && secondary.APIKey != "" {
		fallback, err := assist.NewExtractor(secondary)
		if err != nil {
			return nil, err
		}
		extractor = assist.NewFallbackExtractor(
			[]port.InvoiceExtractor{primary, fallback},
			[]string{cfg.Primary.Provider, secondary.Provider},
		)
	}

	return service.NewAssistService(extractor, clientRepo), nil
}
