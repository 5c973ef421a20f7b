package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// NewServer wraps the API routes in an http.Server with conservative
// timeouts. WebSocket connections are hijacked during the upgrade, so the
// read/write deadlines only govern the plain HTTP endpoints.
func (a *API) NewServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      a.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully within
// shutdownTimeout.
func (a *API) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := a.NewServer(addr)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info(ctx, "http server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info(ctx, "http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
