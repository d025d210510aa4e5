package main

import (
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"github.com/saulo-duarte/learnpath/internal/config"
	"github.com/saulo-duarte/learnpath/internal/container"
)

func main() {
	c := container.New()
	handler := c.Router()

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(httpadapter.NewV2(handler).ProxyWithContext)
		return
	}

	srv := &http.Server{
		Addr:              ":" + c.Settings.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	config.Log.WithField("port", c.Settings.Port).Info("Listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		config.Log.WithError(err).Fatal("Server stopped")
	}
}
