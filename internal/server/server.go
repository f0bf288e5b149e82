//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/lifecycle"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/session"
)

// Engine is the operator session the HTTP surface drives.
type Engine interface {
	Ready() bool

	ListOrders() session.Page[session.OrderView]
	LoadMoreOrders(ctx context.Context) (int, error)
	SearchOrders(ctx context.Context, query string) (int, error)
	ClearOrderSearch()
	GetOrder(ctx context.Context, id string) (session.OrderView, error)

	CreateOrder(ctx context.Context, actor string, in session.NewOrder) (session.OrderView, error)
	AdvanceOrder(ctx context.Context, actor, id string, target entity.Status, p lifecycle.Payload) (session.OrderView, error)
	RevertOrder(ctx context.Context, actor, id string, p lifecycle.Payload) (session.OrderView, error)
	CancelOrder(ctx context.Context, actor, id string, p lifecycle.Payload) (session.OrderView, error)
	RecordPayment(ctx context.Context, actor, id string, amount int64) (session.OrderView, error)
	CorrectPayment(ctx context.Context, actor, id string, amountPaid int64, note string) (session.OrderView, error)
	MarkNotified(ctx context.Context, actor, id string) (session.OrderView, error)
	MarkPrinted(ctx context.Context, actor, id string) (session.OrderView, error)

	ListClients() session.Page[*entity.Client]
	LoadMoreClients(ctx context.Context) (int, error)
	SearchClients(ctx context.Context, query string) (int, error)
	ClearClientSearch()
}

type UserRepo interface {
	ValidateUser(ctx context.Context, username, password string) (bool, error)
}

type Server struct {
	engine   Engine
	userRepo UserRepo
	log      *zap.Logger
	server   *http.Server
}

func New(engine Engine, userRepo UserRepo, logger *zap.Logger) *Server {
	return &Server{
		engine:   engine,
		userRepo: userRepo,
		log:      logger.With(zap.String("component", "http")),
	}
}

func (s *Server) Run(port string) error {
	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.log.Info("Server starting", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.log.Info("Shutting down server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.log.Info("HTTP server shutdown completed")
	return nil
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.accessLogMiddleware)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)

	api := router.NewRoute().Subrouter()
	api.Use(s.basicAuthMiddleware)

	api.HandleFunc("/orders", s.handleListOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders", s.handleCreateOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/more", s.handleLoadMoreOrders).Methods(http.MethodPost)
	api.HandleFunc("/orders/search", s.handleSearchOrders).Methods(http.MethodPost)
	api.HandleFunc("/orders/search", s.handleClearOrderSearch).Methods(http.MethodDelete)
	api.HandleFunc("/orders/{id}", s.handleGetOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}/advance", s.handleAdvanceOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}/revert", s.handleRevertOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}/cancel", s.handleCancelOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}/payments", s.handleRecordPayment).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}/payments", s.handleCorrectPayment).Methods(http.MethodPut)
	api.HandleFunc("/orders/{id}/flags/{flag}", s.handleSetFlag).Methods(http.MethodPost)

	api.HandleFunc("/clients", s.handleListClients).Methods(http.MethodGet)
	api.HandleFunc("/clients/more", s.handleLoadMoreClients).Methods(http.MethodPost)
	api.HandleFunc("/clients/search", s.handleSearchClients).Methods(http.MethodPost)
	api.HandleFunc("/clients/search", s.handleClearClientSearch).Methods(http.MethodDelete)

	return router
}

type actorKey struct{}

func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		valid, err := s.userRepo.ValidateUser(r.Context(), username, password)
		if err != nil {
			s.log.Error("Credential check failed", zap.String("username", username), zap.Error(err))
		}
		if err != nil || !valid {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, username)))
	})
}

func actor(r *http.Request) string {
	a, _ := r.Context().Value(actorKey{}).(string)
	return a
}
