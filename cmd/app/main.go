package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/kaantopcuw/NightFlow/config"
	adminapp_category "github.com/kaantopcuw/NightFlow/internal/module/adminapp/category"
	"github.com/kaantopcuw/NightFlow/internal/module/adminapp/eventcatalog"
	checkinapp_ticket "github.com/kaantopcuw/NightFlow/internal/module/checkinapp/ticket"
	customerapp_ticket "github.com/kaantopcuw/NightFlow/internal/module/customerapp/ticket"
	internalMiddleware "github.com/kaantopcuw/NightFlow/internal/pkg/middleware"
	"github.com/kaantopcuw/NightFlow/migrations"
	"github.com/kaantopcuw/NightFlow/pkg/applogger"
	"github.com/kaantopcuw/NightFlow/pkg/kafka"
	"github.com/kaantopcuw/NightFlow/pkg/middleware"
	"github.com/kaantopcuw/NightFlow/pkg/monitoring"
	"github.com/kaantopcuw/NightFlow/pkg/postgresql"
	"github.com/kaantopcuw/NightFlow/pkg/pubsub"
	"github.com/kaantopcuw/NightFlow/pkg/redis"
	"github.com/kaantopcuw/NightFlow/pkg/server"
	"github.com/kaantopcuw/NightFlow/pkg/validator"
)

var c *config.Config

func init() {
	c = config.Get()
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := applogger.GetLogrus()

	mon := monitoring.NewOpenTelemetry(
		c.Application.Name,
		c.Application.Environment,
		c.Monitoring.OTLPEndpoint,
	)

	if c.Monitoring.Enabled {
		mon.Start(ctx)
	}

	validate := validator.Get()

	hc := http.DefaultClient

	psqldb := postgresql.GetDatabase()
	if err := psqldb.Ping(); err != nil {
		logger.WithContext(ctx).WithError(err).Error()
	}

	if err := migrations.Apply(ctx, psqldb); err != nil {
		logger.WithContext(ctx).WithError(err).Fatal("failed to apply database migrations")
	}

	publisher := pubsub.PublisherFromConfluentKafkaProducer(logger, kafka.NewProducer())

	rc := redis.GetClient()
	if err := rc.Ping(context.Background()).Err(); err != nil {
		logger.WithContext(ctx).WithError(err).Error()
	}

	userSession := internalMiddleware.NewUserSessionMiddleware()

	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(c.Application.Name),
		middleware.HTTPResponseTraceInjection,
		middleware.NewHTTPRequestLogger(logger, c.Application.Debug, http.StatusInternalServerError).Middleware,
	)

	// admin's app
	eventCatalogRepo := eventcatalog.NewEventCatalogRepository(c.EventCatalog.BaseURL, logger, hc)
	adminappCategoryRepo := adminapp_category.NewCategoryRepository(logger, psqldb)
	adminappCategoryCache := adminapp_category.NewCategoryCacheRepository(logger, rc, c.Cache.CategoryListTTL)
	adminappCategoryUseCase := adminapp_category.NewCategoryUseCase(adminapp_category.CategoryUseCaseProperty{
		Logger:                 logger,
		Timeout:                c.Application.Timeout,
		CategoryRepository:     adminappCategoryRepo,
		CategoryCache:          adminappCategoryCache,
		EventCatalogRepository: eventCatalogRepo,
	})
	adminapp_category.InitHTTPHandler(router, userSession, validate, adminappCategoryUseCase)

	// customer's app
	customerappCategoryRepo := customerapp_ticket.NewCategoryRepository(logger, psqldb)
	customerappTicketRepo := customerapp_ticket.NewTicketRepository(logger, psqldb)
	customerappTicketUseCase := customerapp_ticket.NewTicketUseCase(customerapp_ticket.TicketUseCaseProperty{
		Logger:             logger,
		Timeout:            c.Application.Timeout,
		ReservationTTL:     c.Reservation.TTL,
		CategoryRepository: customerappCategoryRepo,
		TicketRepository:   customerappTicketRepo,
		Publisher:          publisher,
	})
	customerapp_ticket.InitHTTPHandler(router, userSession, validate, customerappTicketUseCase)

	// checkin's app
	checkinappTicketRepo := checkinapp_ticket.NewTicketRepository(logger, psqldb)
	checkinappTicketUseCase := checkinapp_ticket.NewTicketUseCase(checkinapp_ticket.TicketUseCaseProperty{
		Logger:           logger,
		Timeout:          c.Application.Timeout,
		TicketRepository: checkinappTicketRepo,
	})
	checkinapp_ticket.InitHTTPHandler(router, checkinappTicketUseCase)

	sweeper := customerapp_ticket.NewSweeper(logger, c.Reservation.SweepInterval, customerappTicketUseCase)
	go sweeper.Run(ctx)

	handler := middleware.SetChain(
		router,
		cors.New(cors.Options{
			AllowedOrigins:   c.CORS.AllowedOrigins,
			AllowedMethods:   c.CORS.AllowedMethods,
			AllowedHeaders:   c.CORS.AllowedHeaders,
			ExposedHeaders:   c.CORS.ExposedHeaders,
			MaxAge:           c.CORS.MaxAge,
			AllowCredentials: c.CORS.AllowCredentials,
		}).Handler,
	)

	srv := &server.Server{
		Server: http.Server{
			Addr:    fmt.Sprintf(":%d", c.Application.Port),
			Handler: handler,
		},
		Logger: logger,
	}

	go func() {
		srv.ListenAndServe()
	}()

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)
	<-sigterm

	cancel()
	srv.Shutdown(context.Background())
	publisher.Close()
	psqldb.Close()
	rc.Close()
	if c.Monitoring.Enabled {
		mon.Stop(context.Background())
	}
}
