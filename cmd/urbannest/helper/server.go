package helper

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"k8s.io/klog/v2"

	"github.com/urbannest/urbannest/internal"
	"github.com/urbannest/urbannest/pkg/cleaner"
	"github.com/urbannest/urbannest/pkg/config"
	"github.com/urbannest/urbannest/pkg/objectstore"
)

// ServerRunner owns the HTTP server and the background cleaner lifecycle.
type ServerRunner struct {
	backendConfig *config.Config
}

func NewServerRunner(backendConfig *config.Config) *ServerRunner {
	return &ServerRunner{
		backendConfig: backendConfig,
	}
}

var (
	readHeaderTimeout = 10 * time.Second
	cancelTimeout     = 10 * time.Second
)

// StartCleaner launches the orphan attachment sweep when enabled. The
// returned stop function blocks until a running sweep finishes.
func (sr *ServerRunner) StartCleaner(store *objectstore.Client) func() {
	if !sr.backendConfig.Cleaner.Enable {
		return func() {}
	}
	cl := cleaner.New(store)
	if err := cl.Start(sr.backendConfig.Cleaner.Spec); err != nil {
		klog.Fatalf("start cleaner: %s", err)
	}
	klog.Info("attachment cleaner started: ", sr.backendConfig.Cleaner.Spec)
	return cl.Stop
}

// StartServer runs the HTTP server until SIGINT/SIGTERM, then shuts it down
// gracefully.
func (sr *ServerRunner) StartServer(store *objectstore.Client) {
	klog.Info("starting server")
	backend := internal.Register(store)

	// reference: https://gin-gonic.com/en/docs/examples/graceful-restart-or-stop
	srv := &http.Server{
		Addr:              sr.backendConfig.ServerAddr,
		Handler:           backend.R,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			klog.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with
	// a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	klog.Info("Shutdown Gin Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), cancelTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		klog.Info("Gin Server Shutdown:", err)
	}
	klog.Info("Gin Server exiting")
}
