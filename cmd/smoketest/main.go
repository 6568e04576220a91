package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "server base URL")
	claim := flag.String("claim", "The Earth orbits the Sun", "claim to verify")
	language := flag.String("language", "en", "claim language")
	flag.Parse()

	fmt.Println("Starting smoke test...")

	fmt.Println("1. Health check...")
	if _, ok := sendRequest(http.MethodGet, *baseURL+"/healthz", nil); !ok {
		fmt.Println("FAILED: Health check")
		os.Exit(1)
	}
	fmt.Println("PASSED: Health check")

	fmt.Println("2. Verifying claim...")
	body, ok := sendRequest(http.MethodPost, *baseURL+"/functions/v1/verify-claim", map[string]string{
		"claim":    *claim,
		"language": *language,
	})
	if !ok {
		fmt.Println("FAILED: Verify claim")
		os.Exit(1)
	}

	var result struct {
		Verdict    string  `json:"verdict"`
		Confidence float64 `json:"confidence"`
		Citations  []struct {
			Title string `json:"title"`
			URL   string `json:"url"`
		} `json:"citations"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("FAILED: Decode result: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Verdict: %s (confidence %.2f)\n", result.Verdict, result.Confidence)
	for _, c := range result.Citations {
		fmt.Printf("  - %s %s\n", c.Title, c.URL)
	}
	fmt.Println("PASSED: Verify claim")
}

func sendRequest(method, url string, payload interface{}) ([]byte, bool) {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return nil, false
	}
	fmt.Printf("Response: %s\n", string(respBody))
	return respBody, true
}
