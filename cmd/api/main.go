package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"healside/internal/config"
	"healside/internal/db"
	"healside/internal/httpserver"
	"healside/internal/mailer"
	"healside/internal/notify"
	"healside/internal/payment"
	blogrepo "healside/internal/repository/blog"
	cartrepo "healside/internal/repository/cart"
	externalpostrepo "healside/internal/repository/externalpost"
	newsletterrepo "healside/internal/repository/newsletter"
	orderrepo "healside/internal/repository/order"
	productrepo "healside/internal/repository/product"
	reviewrepo "healside/internal/repository/review"
	userrepo "healside/internal/repository/user"
	wishlistrepo "healside/internal/repository/wishlist"
	authsvc "healside/internal/service/auth"
	blogsvc "healside/internal/service/blog"
	cartsvc "healside/internal/service/cart"
	checkoutsvc "healside/internal/service/checkout"
	feedsvc "healside/internal/service/feed"
	newslettersvc "healside/internal/service/newsletter"
	productsvc "healside/internal/service/product"
	reviewsvc "healside/internal/service/review"
	wishlistsvc "healside/internal/service/wishlist"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET must be set")
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	userRepo := userrepo.NewPostgres(dbpool, logger)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	reviewRepo := reviewrepo.NewPostgres(dbpool)
	wishlistRepo := wishlistrepo.NewPostgres(dbpool)
	newsletterRepo := newsletterrepo.NewPostgres(dbpool)
	blogRepo := blogrepo.NewPostgres(dbpool)
	externalPostRepo := externalpostrepo.NewPostgres(dbpool)

	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	}, logger)
	dispatcher := notify.NewDispatcher(mail, logger)
	dispatcher.Start()
	defer dispatcher.Stop()

	authService := authsvc.New(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	productService := productsvc.New(productRepo)
	cartService := cartsvc.New(cartRepo, productRepo)
	reviewService := reviewsvc.New(reviewRepo, productRepo)
	wishlistService := wishlistsvc.New(wishlistRepo, productRepo)
	newsletterService := newslettersvc.New(newsletterRepo)
	blogService := blogsvc.New(blogRepo)
	feedService := feedsvc.New(externalPostRepo, logger)

	verifiers := map[string]payment.Verifier{}
	var stripeClient *payment.Stripe
	if cfg.StripeSecretKey != "" {
		stripeClient = payment.NewStripe(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
		verifiers["stripe"] = stripeClient
	}
	var paypalClient *payment.PayPal
	if cfg.PayPalClientID != "" {
		paypalClient, err = payment.NewPayPal(cfg.PayPalClientID, cfg.PayPalClientSecret, !cfg.PayPalSandbox)
		if err != nil {
			logger.Fatalf("init paypal: %v", err)
		}
		verifiers["paypal"] = paypalClient
	}

	checkoutService := checkoutsvc.New(cartRepo, productService, orderRepo,
		verifiers, dispatcher, cfg.AdminEmail, logger)

	google := authsvc.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	apple, err := authsvc.NewApple(cfg.AppleClientID, cfg.AppleTeamID, cfg.AppleKeyID, cfg.ApplePrivateKey, cfg.AppleRedirectURL)
	if err != nil {
		logger.Fatalf("init apple sign-in: %v", err)
	}

	if cfg.FeedURL != "" {
		scheduler := cron.New()
		_, err := scheduler.AddFunc(cfg.FeedSyncSpec, func() {
			if _, err := feedService.Ingest(context.Background(), cfg.FeedURL, cfg.FeedSource); err != nil {
				logger.Printf("scheduled feed sync: %v", err)
			}
		})
		if err != nil {
			logger.Fatalf("feed sync schedule %q: %v", cfg.FeedSyncSpec, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Printf("feed sync scheduled (%s) for %s", cfg.FeedSyncSpec, cfg.FeedURL)
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Auth:        authService,
		Google:      google,
		Apple:       apple,
		Products:    productService,
		Carts:       cartService,
		Checkout:    checkoutService,
		Orders:      orderRepo,
		Users:       userRepo,
		Reviews:     reviewService,
		Wishlist:    wishlistService,
		Blog:        blogService,
		Feed:        feedService,
		Newsletter:  newsletterService,
		Stripe:      stripeClient,
		PayPal:      paypalClient,
		FeedURL:     cfg.FeedURL,
		FeedSource:  cfg.FeedSource,
		FrontendURL: cfg.FrontendURL,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
