package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Smoke test against a running server: health, then one reconstruction.

func main() {
	baseURL := os.Getenv("VISIONSCRIBE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	fmt.Println("1. Checking health...")
	if !sendRequest(baseURL, "GET", "/healthz", nil) {
		fmt.Println("FAILED: Health")
		os.Exit(1)
	}
	fmt.Println("PASSED: Health")

	fmt.Println("2. Reconstructing a session...")
	payload := map[string]interface{}{
		"observations": []map[string]interface{}{
			{"id": "o1", "source_frame_id": "f1", "timestamp": 1.0, "content": "def main():\n    print('hello')", "confidence": 0.7},
			{"id": "o2", "source_frame_id": "f2", "timestamp": 3.2, "content": "def main():\n    print('hello')", "confidence": 0.95},
			{"id": "o3", "source_frame_id": "f3", "timestamp": 5.0, "content": "# Hello\nPrints a greeting.", "confidence": 0.9},
		},
	}
	if !sendRequest(baseURL, "POST", "/v1/reconstruct", payload) {
		fmt.Println("FAILED: Reconstruct")
		os.Exit(1)
	}
	fmt.Println("PASSED: Reconstruct")
}

func sendRequest(baseURL, method, endpoint string, payload interface{}) bool {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return false
	}
	fmt.Printf("Response: %s\n", string(respBody))
	return true
}
