// Command smoke drives a running attainment API through its main endpoints
// and reports per-endpoint status, for quick verification after deploys.
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
	"strings"
	"time"
)

type check struct {
	Name     string
	Method   string
	Path     string
	Body     string
	Expect   int
	Critical bool
}

type result struct {
	Check    check
	Status   int
	Duration time.Duration
	Err      error
}

func main() {
	var (
		base     string
		courseID string
		timeout  time.Duration
	)
	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&courseID, "course", "", "Course ID to probe (read-only checks are skipped when empty)")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "Per-request timeout")
	flag.Parse()

	checks := []check{
		{Name: "health", Method: http.MethodGet, Path: "/health", Expect: http.StatusOK, Critical: true},
		{Name: "ready", Method: http.MethodGet, Path: "/ready", Expect: http.StatusOK, Critical: true},
		{Name: "prometheus", Method: http.MethodGet, Path: "/metrics", Expect: http.StatusOK},
		{Name: "system metrics", Method: http.MethodGet, Path: "/api/v1/system/metrics", Expect: http.StatusOK},
	}
	if courseID != "" {
		prefix := "/api/v1/courses/" + courseID
		checks = append(checks,
			check{Name: "thresholds", Method: http.MethodGet, Path: prefix + "/thresholds", Expect: http.StatusOK, Critical: true},
			check{Name: "matrix", Method: http.MethodGet, Path: prefix + "/matrix", Expect: http.StatusOK, Critical: true},
			check{Name: "tests", Method: http.MethodGet, Path: prefix + "/tests", Expect: http.StatusOK},
			check{Name: "attainment", Method: http.MethodGet, Path: prefix + "/attainment", Expect: http.StatusOK, Critical: true},
		)
	}

	client := &http.Client{Timeout: timeout}
	results := make([]result, 0, len(checks))
	for _, c := range checks {
		results = append(results, run(client, base, c))
	}

	failed := 0
	criticalFailed := 0
	for _, r := range results {
		status := "ok"
		detail := fmt.Sprintf("%d in %s", r.Status, r.Duration.Round(time.Millisecond))
		if r.Err != nil {
			status = "error"
			detail = r.Err.Error()
		} else if r.Status != r.Check.Expect {
			status = "fail"
			detail = fmt.Sprintf("got %d, want %d", r.Status, r.Check.Expect)
		}
		if status != "ok" {
			failed++
			if r.Check.Critical {
				criticalFailed++
			}
		}
		fmt.Printf("%-16s %-6s %-45s %s (%s)\n", r.Check.Name, r.Check.Method, r.Check.Path, status, detail)
	}

	summary, _ := json.Marshal(map[string]int{"total": len(results), "failed": failed, "critical_failed": criticalFailed})
	fmt.Println(string(summary))
	if criticalFailed > 0 {
		os.Exit(1)
	}
}

func run(client *http.Client, base string, c check) result {
	url := strings.TrimRight(base, "/") + c.Path
	var body io.Reader
	if c.Body != "" {
		body = bytes.NewBufferString(c.Body)
	}
	req, err := http.NewRequest(c.Method, url, body)
	if err != nil {
		return result{Check: c, Err: err}
	}
	if c.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	start := time.Now()
	resp, err := client.Do(req)
	duration := time.Since(start)
	if err != nil {
		return result{Check: c, Duration: duration, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		log.Printf("drain %s: %v", url, err)
	}
	return result{Check: c, Status: resp.StatusCode, Duration: duration}
}
