// Package main is the entry point for pgedge-goldlayer.
package main

import (
	"fmt"
	"os"

	"github.com/pgEdge/pgedge-goldlayer/internal/cli"

	// Register table stores
	_ "github.com/pgEdge/pgedge-goldlayer/internal/store/lakehouse"
	_ "github.com/pgEdge/pgedge-goldlayer/internal/store/memory"
	_ "github.com/pgEdge/pgedge-goldlayer/internal/store/postgres"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
