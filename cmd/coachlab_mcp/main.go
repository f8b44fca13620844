// Package main runs the coachlab MCP server over stdio, for local assistants.
// The backend serves the same tools over HTTP at /mcp when mcp_enabled is set.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2beens/coachlab/internal/assessments"
	"github.com/2beens/coachlab/internal/config"
	"github.com/2beens/coachlab/internal/db"
	coachlabmcp "github.com/2beens/coachlab/internal/mcp"
	"github.com/2beens/coachlab/internal/telemetry/metrics"
	"github.com/2beens/coachlab/internal/tenant"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | test | testing]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     os.Getenv("COACHLAB_POSTGRES_PASS"),
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	// stdio process, nothing scrapes these
	metricsManager := metrics.NewManager("coachlab", "mcp", metrics.SetupPrometheus())

	assessmentsService := assessments.NewService(
		assessments.NewRepo(dbPool),
		cfg.AnalysisCacheSizeMB,
		cfg.AnalysisCacheExpirySeconds,
		metricsManager,
	)
	server := coachlabmcp.NewServer(coachlabmcp.NewToolService(assessmentsService, tenant.NewRepo(dbPool)))

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
