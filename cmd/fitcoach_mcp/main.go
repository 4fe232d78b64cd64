// Package main runs the fitcoach MCP server over stdio (for local assistant use).
// The same MCP server is also mounted on the main backend at /mcp over HTTP.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/2beens/fitcoach/internal/config"
	"github.com/2beens/fitcoach/internal/datastore"
	fitnessmcp "github.com/2beens/fitcoach/internal/fitness/mcp"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	// stdout belongs to the MCP protocol
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store := datastore.NewFileStore(cfg.DataFilePath)
	if _, err := store.Load(context.Background()); err != nil {
		log.Fatalf("load data file: %v", err)
	}

	server := fitnessmcp.NewServer(store, "1.0.0")
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
