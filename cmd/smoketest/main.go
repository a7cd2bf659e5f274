// Command smoketest checks that a running server answers GET /api/quizzes.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := flag.String("url", "http://localhost:"+port(), "base URL of the running server")
	flag.Parse()

	if err := run(*baseURL); err != nil {
		log.Printf("Smoke test failed: %v", err)
		os.Exit(2)
	}
	log.Println("Done.")
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "3000"
}

func run(baseURL string) error {
	client := &http.Client{Timeout: 5 * time.Second}

	log.Println("Checking /api/quizzes")
	resp, err := client.Get(baseURL + "/api/quizzes")
	if err != nil {
		return fmt.Errorf("server not reachable (start it with `go run .`): %w", err)
	}
	defer resp.Body.Close()

	log.Printf("/api/quizzes %d", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var quizzes []struct {
		ID    uint   `json:"id"`
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&quizzes); err != nil {
		return fmt.Errorf("decode quiz list: %w", err)
	}
	log.Printf("%d quizzes listed", len(quizzes))
	return nil
}
