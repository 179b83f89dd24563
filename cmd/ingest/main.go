// Package main is the entry point for the knowledge base ingestion tool.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/gireesh-ai/portfolio/cmd/ingest/app"
)

func main() {
	app.NewApp().Run()
}
