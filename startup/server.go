package startup

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casbin/casbin"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/DaneshVerma/CitySettel/authorization"
	"github.com/DaneshVerma/CitySettel/casbinAuthorization"
	"github.com/DaneshVerma/CitySettel/domain"
	"github.com/DaneshVerma/CitySettel/handlers"
	application "github.com/DaneshVerma/CitySettel/service"
	"github.com/DaneshVerma/CitySettel/startup/config"
	"github.com/DaneshVerma/CitySettel/store"
)

type Server struct {
	config *config.Config
	logger *logrus.Logger
}

func NewServer(config *config.Config) *Server {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	return &Server{
		config: config,
		logger: logger,
	}
}

func (server *Server) Start() {
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     10,
		},
	}

	ctx := context.Background()
	exp, err := newExporter(server.config.JaegerAddress)
	if err != nil {
		log.Fatalf("Failed to Initialize Exporter: %v", err)
	}

	tp := newTraceProvider(exp)
	defer func() { _ = tp.Shutdown(ctx) }()
	otel.SetTracerProvider(tp)
	tracer := tp.Tracer("citysettle")

	mongoClient := server.initMongoClient(httpClient)
	defer func(mongoClient *mongo.Client, ctx context.Context) {
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}(mongoClient, ctx)

	tokenManager, err := authorization.NewTokenManager([]byte(server.config.JWTSecret), server.config.TokenLifetime)
	if err != nil {
		log.Fatal(err)
	}

	userStore := server.initUserStore(mongoClient, tracer)
	listingStore := server.initListingStore(mongoClient, tracer)
	comboStore := server.initComboStore(mongoClient, tracer)

	authenticate := authorization.Authenticate(tokenManager, userStore, server.logger)

	authService := application.NewAuthService(userStore, tokenManager, server.logger, tracer)
	userService := application.NewUserService(userStore, listingStore, server.logger, tracer)
	listingService := application.NewListingService(listingStore, userStore, server.logger, tracer)
	comboService := application.NewComboService(comboStore, listingStore, server.logger, tracer)
	adminService := application.NewAdminService(listingStore, userStore, server.logger, tracer)
	imageService := application.NewImageService(
		application.NewImageKitHost(server.config.ImageKitPrivateKey, httpClient, server.logger),
		server.logger, tracer)
	googleProvider := application.NewGoogleProvider(
		server.config.GoogleClientID, server.config.GoogleClientSecret, server.config.GoogleRedirectURL,
		httpClient, server.logger)

	authHandler := handlers.NewAuthHandler(authService, googleProvider, tokenManager, authenticate,
		server.config.Production(), server.logger, tracer)
	userHandler := handlers.NewUserHandler(userService, authenticate, server.logger, tracer)
	listingHandler := handlers.NewListingHandler(listingService, authenticate, server.logger, tracer)
	comboHandler := handlers.NewComboHandler(comboService, authenticate, server.logger, tracer)
	adminHandler := handlers.NewAdminHandler(adminService, authenticate, server.logger, tracer)
	imageHandler := handlers.NewImageHandler(imageService, authenticate, server.logger, tracer)

	enforcer, err := casbin.NewEnforcerSafe("./rbac_model.conf", "./policy.csv")
	if err != nil {
		log.Fatal(err)
	}

	router := mux.NewRouter()
	router.Use(MiddlewareContentTypeSet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", server.health).Methods(http.MethodGet)

	authHandler.Init(api.PathPrefix("/auth").Subrouter())
	listingHandler.Init(api.PathPrefix("/listings").Subrouter())
	comboHandler.Init(api.PathPrefix("/combos").Subrouter())
	userHandler.Init(api.PathPrefix("/user").Subrouter())
	adminHandler.Init(api.PathPrefix("/admin").Subrouter())
	imageHandler.Init(api.PathPrefix("/images").Subrouter())

	secured := casbinAuthorization.RoleMiddleware(enforcer, tokenManager, server.logger)(router)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   server.config.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(secured)

	server.serve(corsHandler)
}

func (server *Server) initMongoClient(httpClient *http.Client) *mongo.Client {
	client, err := store.GetClient(server.config.DBHost, server.config.DBPort, httpClient)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func (server *Server) initUserStore(client *mongo.Client, tracer trace.Tracer) domain.UserStore {
	return store.NewUserMongoDBStore(client, tracer)
}

func (server *Server) initListingStore(client *mongo.Client, tracer trace.Tracer) domain.ListingStore {
	return store.NewListingMongoDBStore(client, tracer)
}

func (server *Server) initComboStore(client *mongo.Client, tracer trace.Tracer) domain.ComboStore {
	return store.NewComboMongoDBStore(client, tracer)
}

func (server *Server) health(writer http.ResponseWriter, req *http.Request) {
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write([]byte(`{"status":"ok"}`))
}

func (server *Server) serve(handler http.Handler) {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", server.config.Port),
		Handler:      handler,
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	wait := time.Second * 15
	go func() {
		server.logger.WithField("port", server.config.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()

	c := make(chan os.Signal, 1)

	signal.Notify(c, os.Interrupt)
	signal.Notify(c, syscall.SIGTERM)

	<-c

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Error Shutting Down Server %s", err)
	}
	log.Println("Server Gracefully Stopped")
}

func newExporter(address string) (*jaeger.Exporter, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(address)))
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func newTraceProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("citysettle"),
		),
	)

	if err != nil {
		panic(err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)
}

func MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		rw.Header().Add("Content-Type", "application/json")
		rw.Header().Set("X-Content-Type-Options", "nosniff")
		rw.Header().Set("X-Frame-Options", "DENY")
		rw.Header().Set("Content-Security-Policy", "default-src 'self'")

		next.ServeHTTP(rw, h)
	})
}
