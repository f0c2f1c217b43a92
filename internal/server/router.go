package server

import (
	"log/slog"
	"net/http"

	_ "github.com/Houeta/employee-api/docs" // registers the swagger spec
	"github.com/Houeta/employee-api/internal/config"
	"github.com/Houeta/employee-api/internal/handlers"
	"github.com/Houeta/employee-api/internal/metrics"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter builds the REST API handler: employee routes, swagger UI, middleware and CORS.
func NewRouter(
	log *slog.Logger,
	appMetrics *metrics.Metrics,
	employeeHandler *handlers.EmployeeHandler,
	corsCfg config.CORSConfig,
) http.Handler {
	observe := Observe(log, appMetrics)

	router := mux.NewRouter()
	router.Use(RequestID)
	router.Use(observe)

	// mux skips middleware for requests that match no route.
	router.NotFoundHandler = RequestID(observe(http.NotFoundHandler()))
	router.MethodNotAllowedHandler = RequestID(observe(http.HandlerFunc(methodNotAllowed)))

	employeeHandler.Register(router)

	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
	))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: corsCfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	})

	return corsHandler.Handler(router)
}

func methodNotAllowed(writer http.ResponseWriter, _ *http.Request) {
	http.Error(writer, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
