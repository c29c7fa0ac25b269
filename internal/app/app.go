package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/twmb/franz-go/pkg/sr"
	"github.com/zzzuuusurp/faux-cart-copy/config"
	"github.com/zzzuuusurp/faux-cart-copy/internal/adapter/httphandler"
	"github.com/zzzuuusurp/faux-cart-copy/internal/adapter/kafka"
	"github.com/zzzuuusurp/faux-cart-copy/internal/adapter/storage"
	"github.com/zzzuuusurp/faux-cart-copy/internal/core/port"
	"github.com/zzzuuusurp/faux-cart-copy/internal/core/service"
	"github.com/zzzuuusurp/faux-cart-copy/pkg/schema"
)

type brokerAdapters struct {
	producer  kafka.CartEventsProducer
	processor *kafka.CartActivityProcessor
	view      *kafka.CartActivityView
}

type App struct {
	ctx          context.Context
	cfg          config.Config
	cartStorage  port.CartStorage
	storageClose func()
	broker       brokerAdapters
	brokerOn     bool
	service      *service.CartService
	httpServer   httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorage()
	app.initBrokerAdapters()
	app.initCoreService()
	app.initHTTPServer()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	switch app.cfg.Storage.Kind {
	case config.StorageKindKV:
		kv, err := storage.NewKVStorage(app.cfg.Storage.KVPath)
		if err != nil {
			app.fallDown(op, err)
		}
		app.cartStorage = kv
		app.storageClose = kv.Close
	case config.StorageKindSQL:
		sqldb, err := storage.NewSQLDB(app.ctx, app.cfg.Storage.SQLDB)
		if err != nil {
			app.fallDown(op, err)
		}
		app.cartStorage = storage.NewSQLStorage(sqldb)
		app.storageClose = sqldb.Close
	default:
		app.fallDown(op, fmt.Errorf(
			"unknown storage kind: %q", app.cfg.Storage.Kind,
		))
	}
}

func (app *App) initBrokerAdapters() {
	const op = "App.initBrokerAdapters"

	if !app.cfg.Broker.Enabled {
		return
	}

	ctx := app.ctx
	seedBrokers := app.cfg.Broker.SeedBrokers
	eventsTopic := app.cfg.Broker.Topics.CartEvents
	groupTable := app.cfg.Broker.Topics.ActivityGroupTable

	srClient, err := sr.NewClient(sr.URLs(app.cfg.Broker.SchemaRegistryURLs...))
	if err != nil {
		app.fallDown(op, err)
	}

	eventSerde, err := schema.NewSerdeCartEventV1(
		ctx,
		schema.SubjectOpt(eventsTopic+"-value"),
		schema.SchemaIdentifierOpt(schema.NewSchemaCreater(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	producer, err := kafka.NewCartEventsProducer(
		kafka.ProducerClientOpt(ctx, seedBrokers, eventsTopic),
		kafka.ProducerEncoderOpt(eventSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	processor, err := kafka.NewCartActivityProc(
		seedBrokers, eventsTopic, groupTable, eventSerde,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	view, err := kafka.NewCartActivityView(seedBrokers, groupTable)
	if err != nil {
		app.fallDown(op, err)
	}

	app.broker = brokerAdapters{producer, processor, view}
	app.brokerOn = true
}

func (app *App) initCoreService() {
	const op = "App.initCoreService"

	var events port.CartEventsProducer
	if app.brokerOn {
		events = app.broker.producer
	}

	s := service.New(app.cfg.ShopID, app.cartStorage, events)
	if err := s.Init(app.ctx); err != nil {
		app.fallDown(op, err)
	}
	app.service = s
}

func (app *App) initHTTPServer() {
	mux := http.NewServeMux()
	httphandler.RegisterCart(mux, app.service)
	httphandler.RegisterCartPage(mux, app.service)
	if app.brokerOn {
		httphandler.RegisterActivity(mux, app.broker.view)
	}

	handler := httphandler.AllowJSON(mux)
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

// Run starts the http server and, when the broker is enabled, the
// activity processor and view.
//
// Blocks current goroutine while components is preparing to ready state.
func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	if app.brokerOn {
		var wg sync.WaitGroup
		wg.Add(2)
		go app.broker.processor.Run(app.ctx, stopFn, &wg)
		go app.broker.view.Run(app.ctx, stopFn, &wg)
		wg.Wait()
	}

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	if app.brokerOn {
		app.broker.processor.Close()
		app.broker.producer.Close()
	}
	app.storageClose()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
