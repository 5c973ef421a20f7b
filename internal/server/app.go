// Package server initializes and runs the chat server application.
// It wires the database-backed repositories, the domain services, the
// in-memory chat hub and the HTTP/WebSocket endpoint, and handles
// graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/roomchat/internal/logging"
	"github.com/dmitrijs2005/roomchat/internal/server/auth"
	"github.com/dmitrijs2005/roomchat/internal/server/chat"
	"github.com/dmitrijs2005/roomchat/internal/server/config"
	"github.com/dmitrijs2005/roomchat/internal/server/httpapi"
	"github.com/dmitrijs2005/roomchat/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/roomchat/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	api    *httpapi.API
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout)

	rm, err := repomanager.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	userService := services.NewUserService(rm.Users(), cfg)
	roomService := services.NewRoomService(rm.Rooms())
	messageService := services.NewMessageService(rm.Messages())

	verifier := auth.NewTokenVerifier([]byte(cfg.SecretKey))
	hub := chat.NewHub(chat.NewRegistry(), logger)
	sessions := chat.NewSessionHandler(hub, verifier, roomService, messageService,
		cfg.HistoryLimit, logger)

	api := httpapi.NewAPI(userService, roomService, sessions, verifier, logger)

	return &App{config: cfg, logger: logger, api: api}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.api.Run(ctx, app.config.EndpointAddr, app.config.ShutdownTimeout); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

}
