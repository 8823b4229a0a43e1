// Package main is the entry point for churn-warehouse.
package main

import (
	"fmt"
	"os"

	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
