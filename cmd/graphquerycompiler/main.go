// Package main wires the query compiler into an HTTP service: a chi
// router, cors middleware, a request-ID stamped on every response, and a
// single POST /v1/query/translate endpoint.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/basyx-graph/query-compiler/docs"
	"github.com/basyx-graph/query-compiler/internal/grapherrors"
	"github.com/basyx-graph/query-compiler/internal/graphqueryconfig"
	"github.com/basyx-graph/query-compiler/internal/graphquerylogger"
	"github.com/basyx-graph/query-compiler/internal/graphtranslate"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML/JSON/TOML configuration file")
	httpAddr := flag.String("http", "", "override the configured HTTP listen address (host:port)")
	queryFile := flag.String("query-file", "", "translate a single query document read from this path and exit")
	flag.Parse()

	cfg, err := graphqueryconfig.LoadConfig(*configPath)
	if err != nil {
		graphquerylogger.LogError("loading configuration", err)
		os.Exit(1)
	}

	if *httpAddr != "" {
		host, port, err := net.SplitHostPort(*httpAddr)
		if err != nil {
			graphquerylogger.LogError("parsing -http", err)
			os.Exit(1)
		}
		portNum, err := strconv.Atoi(port)
		if err != nil {
			graphquerylogger.LogError("parsing -http port", err)
			os.Exit(1)
		}
		cfg.Server.Host = host
		cfg.Server.Port = portNum
	}

	if *queryFile != "" {
		if err := translateFile(*queryFile); err != nil {
			graphquerylogger.LogError("translating "+*queryFile, err)
			os.Exit(1)
		}
		return
	}

	if err := runServer(cfg); err != nil {
		graphquerylogger.LogError("running server", err)
		os.Exit(1)
	}
}

func translateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading query file: %w", err)
	}
	out, err := graphtranslate.Translate(data)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runServer(cfg *graphqueryconfig.Config) error {
	router := newRouter()

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	graphquerylogger.LogInfo("listening on %s", cfg.Server.Addr())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Post("/v1/query/translate", handleTranslate)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

type translateResponse struct {
	Query string `json:"query"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleTranslate godoc
// @Summary      Translate an AASQL query into a Cypher-family query
// @Accept       json
// @Produce      json
// @Param        query body object true "AASQL query document"
// @Success      200 {object} translateResponse
// @Failure      400 {object} errorResponse
// @Failure      422 {object} errorResponse
// @Router       /v1/query/translate [post]
func handleTranslate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	query, err := graphtranslate.Translate(body)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, translateResponse{Query: query})
}

// statusFor maps the compiler's error taxonomy (§7) onto HTTP status
// codes: client-shaped failures are 400, compiler-internal rejections
// (Unsupported, SchemaViolation) are 422.
func statusFor(err error) int {
	var invalidQuery *grapherrors.InvalidQuery
	var invalidPath *grapherrors.InvalidPath
	if errors.As(err, &invalidQuery) || errors.As(err, &invalidPath) {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
