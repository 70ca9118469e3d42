package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ethanbaker/fanchat/internal/sheets"
	"github.com/ethanbaker/fanchat/pkg/utils"
)

// Verify the Google service account setup: print the identity the
// spreadsheet must be shared with, then try to open it and create the log
// worksheet
func main() {
	// Find env file
	envFile := ".env"
	if os.Getenv("ENV_FILE") != "" {
		envFile = os.Getenv("ENV_FILE")
	}

	// Load global config
	cfg := utils.NewConfigFromEnv(envFile)

	ctx := context.Background()

	service, err := sheets.NewService(ctx, cfg)
	if err != nil {
		log.Fatalf("[SACHECK]: Failed to load service account: %v", err)
	}

	fmt.Printf("Service account: %s\n", service.ServiceAccountEmail())
	fmt.Printf("Project:         %s\n", service.ProjectID())
	fmt.Println()
	fmt.Println("Share the log spreadsheet (and any Drive export folder) with the")
	fmt.Println("service account email above as Editor, or writes will fail.")
	fmt.Println()

	if err := service.EnsureWorksheet(ctx); err != nil {
		log.Fatalf("[SACHECK]: Could not access the spreadsheet: %v", err)
	}

	fmt.Printf("Spreadsheet is reachable and the %q worksheet is ready.\n", sheets.WorksheetTitle)
}
