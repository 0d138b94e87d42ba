package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/meshopt-cloud.net/internal/core/ports/primary"
	"gitlab.com/meshopt-cloud.net/internal/core/ports/secondary"
	catalogsvc "gitlab.com/meshopt-cloud.net/internal/core/services/catalog"
	"gitlab.com/meshopt-cloud.net/internal/core/services/notification"
	"gitlab.com/meshopt-cloud.net/internal/core/services/submission"
	"gitlab.com/meshopt-cloud.net/internal/handlers/catalog"
	"gitlab.com/meshopt-cloud.net/internal/handlers/jobs"
	"gitlab.com/meshopt-cloud.net/internal/handlers/workitems"
	"gitlab.com/meshopt-cloud.net/internal/ws"
)

type ServiceProvider struct {
	catalogService      catalogsvc.ICatalogService
	submissionService   submission.ISubmissionService
	notificationService notification.INotificationService
	jobRepo             secondary.JobRepository
}

func NewServiceProvider(
	catalogService catalogsvc.ICatalogService,
	submissionService submission.ISubmissionService,
	notificationService notification.INotificationService,
	jobRepo secondary.JobRepository,
) *ServiceProvider {
	return &ServiceProvider{
		catalogService:      catalogService,
		submissionService:   submissionService,
		notificationService: notificationService,
		jobRepo:             jobRepo,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	hub             *ws.Hub
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, hub *ws.Hub, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		hub:             hub,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()
	catalog.NewCatalogHandler(s.ServiceProvider.catalogService, s.logger).RegisterRoutes(r)
	workitems.
		NewWorkItemHandler(s.ServiceProvider.submissionService, s.ServiceProvider.notificationService, s.logger).
		RegisterRoutes(r)
	jobs.NewJobHandler(s.ServiceProvider.jobRepo, s.ServiceProvider.notificationService, s.logger).RegisterRoutes(r)
	ws.NewHandler(s.hub, s.logger).RegisterRoutes(r)
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("public")))
	s.router = r
	return nil
}

func (s *Server) Start(ctx context.Context) {
	// Set up server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.srv = srv

	// Start the server in a goroutine
	go func() {
		s.logger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Shutting down http server...")
	if s.srv != nil {
		if err := s.srv.Shutdown(ctx); err != nil {
			s.logger.Error("Server forced to shutdown", "error", err)
		}
	}
	s.hub.Close()
}
