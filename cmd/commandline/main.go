package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ethanbaker/fanchat/pkg/sdk"
	"github.com/ethanbaker/fanchat/pkg/utils"
)

func main() {
	// Find env file
	envFile := ".env"
	if os.Getenv("ENV_FILE") != "" {
		envFile = os.Getenv("ENV_FILE")
	}

	// Load global config
	cfg := utils.NewConfigFromEnv(envFile)

	// Create a client for the running API server
	client := sdk.NewClient(cfg.GetWithDefault("API_URL", "http://localhost:8080"), cfg.Get("API_KEY"))

	// Start interactive session
	ctx := context.Background()
	if err := startInteractiveSession(ctx, client); err != nil {
		log.Fatalf("Failed to start interactive session: %v", err)
	}
}

// startInteractiveSession initializes the command line chat interface
func startInteractiveSession(ctx context.Context, client *sdk.Client) error {
	fmt.Println("Persona chat started. Type 'exit' to quit, 'export' to save the transcript.")

	personas, err := client.ListPersonas(ctx)
	if err != nil {
		return fmt.Errorf("failed to list personas: %w", err)
	}

	names := make([]string, 0, len(personas))
	for _, p := range personas {
		names = append(names, p.Name)
	}
	fmt.Printf("Available personas: %s\n", strings.Join(names, ", "))

	// Create scanner for reading user input
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Print("Persona: ")
	if !scanner.Scan() {
		return scanner.Err()
	}
	personaName := strings.TrimSpace(scanner.Text())

	fmt.Print("Your name: ")
	if !scanner.Scan() {
		return scanner.Err()
	}
	userName := strings.TrimSpace(scanner.Text())
	if userName == "" {
		userName = "commandline-user"
	}

	// Create a single session on startup for the entire conversation
	sess, err := client.CreateSession(ctx, &sdk.CreateSessionRequest{
		UserName: userName,
		Persona:  personaName,
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer client.DeleteSession(ctx, sess.ID)

	fmt.Printf("Session created: %s\n", sess.ID)

	for {
		fmt.Print("\n> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())

		if input == "exit" {
			break
		}

		if input == "" {
			continue
		}

		if input == "export" || input == "export keywords" {
			if err := exportTranscript(ctx, client, sess.ID, input == "export keywords"); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			continue
		}

		// Relay the message through the backend
		resp, err := client.SendMessage(ctx, sess.ID, &sdk.PostMessageRequest{Content: input})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		fmt.Printf("%s: %s\n", personaName, resp.Answer)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	return nil
}

// exportTranscript downloads the session transcript and writes it to a CSV
// file in the working directory
func exportTranscript(ctx context.Context, client *sdk.Client, sessionID string, keywords bool) error {
	mode := "plain"
	filename := fmt.Sprintf("chat_log_%s.csv", sessionID)
	if keywords {
		mode = "keyword_split"
		filename = fmt.Sprintf("chat_log_keywords_%s.csv", sessionID)
	}

	data, err := client.ExportCSV(ctx, sessionID, mode, 0)
	if err != nil {
		return fmt.Errorf("failed to download export: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	fmt.Printf("Transcript written to %s\n", filename)
	return nil
}
