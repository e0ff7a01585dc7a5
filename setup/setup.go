package setup

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogrig-server/auth"
	"blogrig-server/config"
	"blogrig-server/db"
	"blogrig-server/email"
	"blogrig-server/handlers"
	"blogrig-server/mrr"
	"blogrig-server/notify"
	"blogrig-server/routes"

	"github.com/jmoiron/sqlx"
)

const shutdownTimeout = 15 * time.Second

func MustInitDb(cfg *config.Config) *sqlx.DB {
	conn, err := db.Connect(cfg.DatabaseUrl, cfg.IsProduction())
	if err != nil {
		log.Fatal("Error initializing database: ", err)
	}

	err = db.MigrationsUp(conn, cfg.MigrationsDir)
	if err != nil {
		log.Fatal("Error running migrations: ", err)
	}

	return conn
}

// NewHandler registers the error notifier and wires the store, token
// service, marketplace client and email senders. Providers without
// credentials, or that fail to initialize, are left unset and their routes
// answer with a configuration error.
func NewHandler(cfg *config.Config, store db.Store) *handlers.Handler {
	notify.Register(notify.LogNotifier(cfg.IsDevelopment()))

	deps := handlers.Deps{
		Store:  store,
		Tokens: auth.NewTokenService(cfg.JwtSecret, cfg.JwtExpire),
		Config: cfg,
	}

	if cfg.Mrr.ApiKey != "" && cfg.Mrr.ApiSecret != "" {
		signer := mrr.NewSigner(cfg.Mrr.ApiKey, cfg.Mrr.ApiSecret)
		client := mrr.NewClient(cfg.Mrr.ApiUrl, signer, mrr.WithDebug(cfg.Mrr.Debug))
		deps.Mrr = mrr.NewService(client)
	} else {
		log.Println("MRR_API_KEY or MRR_API_SECRET not set, marketplace routes disabled")
	}

	if cfg.Ses.Region != "" {
		sesSender, err := email.NewSESSender(cfg.Ses.Region, cfg.Ses.AccessKeyId, cfg.Ses.SecretAccessKey)
		if err != nil {
			log.Printf("SES email disabled: %v\n", err)
		} else {
			deps.SES = sesSender
		}
	} else {
		log.Println("AWS_SES_REGION not set, SES email disabled")
	}

	if cfg.Smtp.Host != "" {
		smtpSender, err := email.NewSMTPSender(cfg.Smtp.Host, cfg.Smtp.Port, cfg.Smtp.User, cfg.Smtp.Pass)
		if err != nil {
			log.Printf("SMTP email disabled: %v\n", err)
		} else {
			deps.SMTP = smtpSender
		}
	} else {
		log.Println("SMTP_HOST not set, SMTP email disabled")
	}

	return handlers.New(deps)
}

func StartServer(cfg *config.Config, h *handlers.Handler) {
	if cfg.IsDevelopment() {
		log.Println("In development mode.")
	}

	r := routes.NewRouter(h, routes.Options{Development: cfg.IsDevelopment()})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	go startServer(srv)
	log.Println("Started server on port " + cfg.Port)

	sigTermChan := make(chan os.Signal, 1)
	signal.Notify(sigTermChan, syscall.SIGTERM, os.Interrupt)

	<-sigTermChan
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down server: %v\n", err)
	}
}

func startServer(srv *http.Server) {
	err := srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server on %s: %v", srv.Addr, err)
	}
}
