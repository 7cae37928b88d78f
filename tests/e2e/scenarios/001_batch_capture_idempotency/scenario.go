package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// ### Start - fixed configs (no change)
// These values define deterministic test data generation and must match expected results.
// DO NOT MODIFY: Changing these will break the test's deterministic behavior.
const (
	totalEvents     = 8000 // Total number of unique events to generate
	visitors        = 40   // Number of distinct anonymous IDs events are spread across
	rejectEvery     = 100  // Every Nth event is generated without an event name (expected rejected)
	conversionEvery = 400  // Every Nth event is the designated conversion event
)

var (
	paths      = []string{"/", "/pricing", "/docs", "/signup"}
	eventNames = []string{"page_viewed", "button_clicked", "form_submitted", "order_completed"}
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
	}
)

// ### End - fixed configs

type rawEvent struct {
	EventName   string         `json:"event_name,omitempty"`
	EventType   string         `json:"event_type"`
	Timestamp   string         `json:"timestamp"`
	AnonymousID string         `json:"anonymous_id"`
	MessageID   string         `json:"message_id"`
	Context     map[string]any `json:"context,omitempty"`
}

type eventBatch struct {
	SentAt string     `json:"sent_at"`
	Batch  []rawEvent `json:"batch"`
}

type itemOutcome struct {
	Index     int    `json:"index"`
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
	Reason    string `json:"reason"`
}

type batchResult struct {
	Outcomes []itemOutcome `json:"results"`
}

type batchToSend struct {
	batchIndex int
	jsonData   []byte
	isOriginal bool
}

type outcomeCounts struct {
	accepted  int64
	duplicate int64
	rejected  int64
	failed    int64
}

// main runs the e2e scenario: 001_batch_capture_idempotency
//
// This scenario tests the end-to-end flow of batch event capture with
// at-least-once delivery. It sends 8,000 events across multiple batches to
// the capture API, then resends a configurable number of duplicate batches
// to verify per-item idempotency.
//
// What it tests:
//   - Batch event capture via POST /v1/batch with a write key
//   - Per-item outcomes: accepted, duplicate, rejected, failed
//   - (tenant, message_id) idempotency: resubmitted items report duplicate,
//     never accepted twice
//   - Per-item rejection: items without an event name are rejected while the
//     rest of the batch lands
//   - Session assignment under concurrent batches for the same visitors
//
// Expected results:
//   - Every batch submission returns 200 with one outcome per submitted item
//   - Original batches: all items accepted except the generated no-name
//     items, which are rejected with reason missing_event_name
//   - Duplicate batches: every previously accepted item reports duplicate;
//     the no-name items are rejected again (rejection is stateless)
//   - accepted total == totalEvents - generated rejections, regardless of
//     how many duplicate batches are sent
func main() {
	// these configs can be changed to run the scenario
	baseURL := "http://localhost:8080" // Base URL of the capture API server
	dateUTC := "2025-12-28"            // Date used for generating event timestamps (UTC)
	itemsPerBatch := 20                // Number of events per batch. Original batches = totalEvents / itemsPerBatch
	parallel := 4                      // Number of concurrent batch requests to send
	totalDuplicates := 200             // Total number of duplicate batches to send across all batches
	writeKey := "wk_local_dev"         // Write key of a project seeded in the projects table

	if totalEvents%itemsPerBatch != 0 {
		fmt.Fprintf(os.Stderr, "ERROR: totalEvents (%d) must be divisible by itemsPerBatch (%d)\n", totalEvents, itemsPerBatch)
		os.Exit(1)
	}
	batchCount := totalEvents / itemsPerBatch

	fmt.Println("Starting e2e scenario: 001_batch_capture_idempotency")
	fmt.Printf("BASE_URL: %s\n", baseURL)
	fmt.Printf("DATE_UTC: %s\n", dateUTC)
	fmt.Printf("ITEMS_PER_BATCH: %d\n", itemsPerBatch)
	fmt.Printf("BATCH_COUNT: %d\n", batchCount)
	fmt.Printf("PARALLEL: %d\n", parallel)
	fmt.Printf("TOTAL_DUPLICATES: %d\n", totalDuplicates)
	fmt.Printf("TOTAL_EVENTS: %d\n", totalEvents)
	fmt.Println()

	// Generate all original batches
	fmt.Printf("Generating all batches (original + duplicates)...\n")
	batchesToSend := make([]batchToSend, 0, batchCount+totalDuplicates)
	for batchIndex := 1; batchIndex <= batchCount; batchIndex++ {
		jsonData, err := generateBatchJSON(batchIndex, itemsPerBatch, dateUTC)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to generate JSON for batch %d: %v\n", batchIndex, err)
			os.Exit(1)
		}
		batchesToSend = append(batchesToSend, batchToSend{
			batchIndex: batchIndex,
			jsonData:   jsonData,
			isOriginal: true,
		})
	}

	// Distribute duplicate batches evenly across batches using round-robin
	duplicatesAdded := 0
	batchIndex := 1
	for duplicatesAdded < totalDuplicates {
		jsonData := batchesToSend[batchIndex-1].jsonData
		batchesToSend = append(batchesToSend, batchToSend{
			batchIndex: batchIndex,
			jsonData:   jsonData,
			isOriginal: false,
		})
		duplicatesAdded++
		batchIndex++
		if batchIndex > batchCount {
			batchIndex = 1
		}
	}

	// Originals must land before their duplicates for the expected
	// accepted/duplicate split to be deterministic.
	sort.SliceStable(batchesToSend, func(i, j int) bool {
		return batchesToSend[i].isOriginal && !batchesToSend[j].isOriginal
	})

	fmt.Printf("Generated %d batches to send (%d original + %d duplicates)\n",
		len(batchesToSend), batchCount, len(batchesToSend)-batchCount)
	fmt.Println()

	originals := batchesToSend[:batchCount]
	duplicates := batchesToSend[batchCount:]

	originalCounts, originalErrs := sendAll(baseURL, writeKey, originals, parallel)
	duplicateCounts, duplicateErrs := sendAll(baseURL, writeKey, duplicates, parallel)

	fmt.Println()
	if len(originalErrs)+len(duplicateErrs) > 0 {
		fmt.Fprintf(os.Stderr, "ERROR: %d batch sends failed\n", len(originalErrs)+len(duplicateErrs))
		os.Exit(1)
	}

	expectedRejectedPerRun := int64(totalEvents / rejectEvery)
	expectedAccepted := int64(totalEvents) - expectedRejectedPerRun

	fmt.Println("All batches completed successfully")
	fmt.Println("=== Statistics ===")
	fmt.Printf("Original batches:  accepted=%d duplicate=%d rejected=%d failed=%d\n",
		originalCounts.accepted, originalCounts.duplicate, originalCounts.rejected, originalCounts.failed)
	fmt.Printf("Duplicate batches: accepted=%d duplicate=%d rejected=%d failed=%d\n",
		duplicateCounts.accepted, duplicateCounts.duplicate, duplicateCounts.rejected, duplicateCounts.failed)

	ok := true
	if originalCounts.accepted != expectedAccepted {
		fmt.Fprintf(os.Stderr, "FAIL: expected %d accepted on original batches, got %d\n", expectedAccepted, originalCounts.accepted)
		ok = false
	}
	if originalCounts.duplicate != 0 {
		fmt.Fprintf(os.Stderr, "FAIL: expected 0 duplicates on original batches, got %d\n", originalCounts.duplicate)
		ok = false
	}
	if originalCounts.rejected != expectedRejectedPerRun {
		fmt.Fprintf(os.Stderr, "FAIL: expected %d rejected on original batches, got %d\n", expectedRejectedPerRun, originalCounts.rejected)
		ok = false
	}
	if duplicateCounts.accepted != 0 {
		fmt.Fprintf(os.Stderr, "FAIL: expected 0 accepted on duplicate batches, got %d\n", duplicateCounts.accepted)
		ok = false
	}
	if originalCounts.failed+duplicateCounts.failed != 0 {
		fmt.Fprintf(os.Stderr, "FAIL: expected 0 failed items, got %d\n", originalCounts.failed+duplicateCounts.failed)
		ok = false
	}
	if !ok {
		os.Exit(1)
	}
	fmt.Println("Scenario completed successfully")
}

// sendAll pushes batches through a bounded worker pool and accumulates the
// per-item outcome counts reported by the server.
func sendAll(baseURL, writeKey string, batches []batchToSend, parallel int) (outcomeCounts, []error) {
	workerChan := make(chan struct{}, parallel)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var errors []error
	var counts outcomeCounts

	for _, batch := range batches {
		wg.Add(1)
		workerChan <- struct{}{} // Acquire worker slot

		go func(b batchToSend) {
			defer wg.Done()
			defer func() { <-workerChan }() // Release worker slot

			result, statusCode, err := sendBatch(baseURL, writeKey, b)
			if err != nil {
				mu.Lock()
				errors = append(errors, fmt.Errorf("batch %d (original=%v): %w", b.batchIndex, b.isOriginal, err))
				mu.Unlock()
				fmt.Fprintf(os.Stderr, "ERROR: Batch %d failed: %v\n", b.batchIndex, err)
				return
			}
			if statusCode != http.StatusOK {
				mu.Lock()
				errors = append(errors, fmt.Errorf("batch %d: unexpected status %d", b.batchIndex, statusCode))
				mu.Unlock()
				return
			}

			for _, outcome := range result.Outcomes {
				switch outcome.Status {
				case "accepted":
					atomic.AddInt64(&counts.accepted, 1)
				case "duplicate":
					atomic.AddInt64(&counts.duplicate, 1)
				case "rejected":
					atomic.AddInt64(&counts.rejected, 1)
				case "failed":
					atomic.AddInt64(&counts.failed, 1)
				}
			}
		}(batch)
	}

	wg.Wait()
	return counts, errors
}

// generateBatchJSON builds one deterministic batch. Event numbering is global
// across batches so message IDs never collide between batches.
func generateBatchJSON(batchIndex, itemsPerBatch int, dateUTC string) ([]byte, error) {
	base, err := time.Parse("2006-01-02", dateUTC)
	if err != nil {
		return nil, fmt.Errorf("invalid dateUTC: %w", err)
	}

	batch := eventBatch{
		SentAt: base.Add(18 * time.Hour).Format(time.RFC3339),
		Batch:  make([]rawEvent, 0, itemsPerBatch),
	}

	for i := 0; i < itemsPerBatch; i++ {
		eventNumber := (batchIndex-1)*itemsPerBatch + i + 1
		visitor := eventNumber % visitors
		// Spread each visitor's events over a few minutes so most land in
		// one session per visitor.
		at := base.Add(18*time.Hour + time.Duration(eventNumber/visitors)*time.Second)

		name := eventNames[eventNumber%len(eventNames)]
		if eventNumber%conversionEvery == 0 {
			name = "order_completed"
		}
		if eventNumber%rejectEvery == 0 {
			name = ""
		}

		batch.Batch = append(batch.Batch, rawEvent{
			EventName:   name,
			EventType:   "page",
			Timestamp:   at.Format(time.RFC3339),
			AnonymousID: fmt.Sprintf("b7a6c1e0-0000-4000-8000-%012d", visitor),
			MessageID:   fmt.Sprintf("m-%06d", eventNumber),
			Context: map[string]any{
				"page": map[string]any{
					"path": paths[eventNumber%len(paths)],
					"url":  "https://acme.io" + paths[eventNumber%len(paths)],
				},
				"user_agent": userAgents[eventNumber%len(userAgents)],
				"locale":     "en-US",
				"channel":    "web",
			},
		})
	}

	return json.Marshal(batch)
}

func sendBatch(baseURL, writeKey string, b batchToSend) (*batchResult, int, error) {
	req, err := http.NewRequest(http.MethodPost, baseURL+"/v1/batch", bytes.NewReader(b.jsonData))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Write-Key", writeKey)

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var result batchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, resp.StatusCode, nil
}
