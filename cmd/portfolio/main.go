// Package main is the entry point for the portfolio backend server.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/gireesh-ai/portfolio/cmd/portfolio/app"
)

func main() {
	app.NewApp().Run()
}
