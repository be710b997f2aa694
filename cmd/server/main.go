package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/saulo-duarte/strive/internal/config"
	"github.com/saulo-duarte/strive/internal/container"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx)
	if err != nil {
		config.Logger.WithError(err).Fatal("Failed to start application")
	}
	defer func() {
		if err := c.Close(); err != nil {
			config.Logger.WithError(err).Warn("Failed to release resources")
		}
	}()

	handler := c.Router()

	if c.Settings.OnLambda() {
		config.Logger.Info("Starting in Lambda mode")
		lambda.Start(httpadapter.New(handler).ProxyWithContext)
		return
	}

	srv := &http.Server{
		Addr:              c.Settings.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			config.Logger.WithError(err).Error("Graceful shutdown failed")
		}
	}()

	config.Logger.WithField("addr", srv.Addr).Info("HTTP server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		config.Logger.WithError(err).Fatal("HTTP server failed")
	}
}
