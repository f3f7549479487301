// Command reportservice is the report engine's HTTP entry point: it wires
// the envelope store, rule catalog, report store, and projection engine
// behind a chi router, following the donor's cmd/<service>/main.go shape.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	_ "github.com/openlend/reportengine/docs"
	"github.com/openlend/reportengine/internal/api"
	"github.com/openlend/reportengine/internal/config"
	"github.com/openlend/reportengine/internal/envelope"
	"github.com/openlend/reportengine/internal/reportstore"
	"github.com/openlend/reportengine/internal/rulecatalog"
)

func main() {
	config.PrintSplash("report-engine")

	cfgPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("reportservice: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	envelopes, err := envelope.Open(ctx, &cfg.Mongo)
	if err != nil {
		return err
	}
	defer envelopes.Close(ctx)

	rules, err := rulecatalog.Open(&cfg.Postgres)
	if err != nil {
		return err
	}
	defer rules.Close()

	reports, err := reportstore.Open(ctx, &cfg.S3)
	if err != nil {
		return err
	}

	handler := api.NewHandler(envelopes, rules, reports, envelope.DedupeAddresses)
	// chi accepts middleware only before routes, so CORS goes on a fresh
	// root router that mounts the API router.
	router := chi.NewRouter()
	config.AddCors(router, cfg)
	router.Mount("/", api.Router(handler, cfg.Auth.Token, cfg.Server.ContextPath))

	listenAddr := "0.0.0.0:" + strconv.Itoa(cfg.Server.Port)
	log.Printf("▶️  Report Engine listening on %s\n", listenAddr)
	return http.ListenAndServe(listenAddr, router)
}
