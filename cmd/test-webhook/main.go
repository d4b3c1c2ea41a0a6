package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// Isolated test for the quote webhook endpoint
// Fires a canned Jira issue payload at a running server without needing
// a real Jira automation rule.

func main() {
	fmt.Println("=== Quote Webhook Test ===")
	fmt.Println("This tool posts a sample issue payload to the webhook endpoint")
	fmt.Println()

	url := flag.String("url", "http://localhost:8080/jira", "webhook endpoint")
	payloadPath := flag.String("payload", "", "JSON payload file; omit for the built-in sample")
	flag.Parse()

	payload := samplePayload()
	if *payloadPath != "" {
		raw, err := os.ReadFile(*payloadPath)
		if err != nil {
			log.Fatalf("Failed to read payload file: %v", err)
		}
		payload = raw
	}

	// Pretty-print what we are about to send
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, payload, "", "  "); err != nil {
		log.Fatalf("Payload is not valid JSON: %v", err)
	}
	fmt.Printf("POST %s\n%s\n\n", *url, pretty.String())

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Post(*url, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read response: %v", err)
	}

	fmt.Printf("Status: %s\n", resp.Status)
	fmt.Printf("Body:   %s\n", body)

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
	fmt.Println()
	fmt.Println("Webhook accepted the request")
}

func samplePayload() []byte {
	issue := map[string]interface{}{
		"key":        "QT-101",
		"clientName": "Acme Labs",
		"pocName":    "Jane Doe",
		"title":      "Quarterly water testing",
		"address":    "1 Main St, Springfield",

		"item1":        "WMS-101",
		"itemDescrip1": "Nitrate panel",
		"qty1":         "12",
		"price1":       "85.00",
		"Unit_1":       "EA",
		"itemMAX_1":    "6",

		"item2":        "WMS-204",
		"itemDescrip2": "Lead and copper panel",
		"qty2":         "4",
		"price2":       "120.00",
	}
	payload, _ := json.Marshal(map[string]interface{}{"issue": issue})
	return payload
}
