// Command shadow_compare replays read-only requests against this API and the
// legacy school records service and reports status and body differences.
// Responses from this API are unwrapped from their {"data": ...} envelope
// before comparison.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// target is one request to replay. LegacyPath overrides Path on the legacy
// side when the routes differ.
type target struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	LegacyPath string `json:"legacyPath,omitempty"`
	Critical   bool   `json:"critical"`
}

type targetFile struct {
	Prefix  string   `json:"prefix"`
	Targets []target `json:"targets"`
}

type comparison struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	BodyMatch      bool
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

type options struct {
	goBase     string
	legacyBase string
	token      string
	ignore     []string
}

func main() {
	var (
		opts        options
		targetsPath string
		ignore      string
		timeout     time.Duration
		parallel    int
	)

	flag.StringVar(&opts.goBase, "go-base", "http://localhost:8080", "Go API base URL")
	flag.StringVar(&opts.legacyBase, "legacy-base", "http://localhost:3000", "Legacy API base URL")
	flag.StringVar(&opts.token, "token", os.Getenv("SHADOW_TOKEN"), "Bearer token sent to both services")
	flag.StringVar(&ignore, "ignore", "createdAt,updatedAt", "Comma separated JSON keys excluded from body comparison")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "shadow_compare", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.IntVar(&parallel, "parallel", 4, "Concurrent comparisons")
	flag.Parse()

	for _, key := range strings.Split(ignore, ",") {
		if key = strings.TrimSpace(key); key != "" {
			opts.ignore = append(opts.ignore, key)
		}
	}

	file, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	comparisons := make([]comparison, len(file.Targets))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(parallel, 1))
	for i, t := range file.Targets {
		i, t := i, t
		g.Go(func() error {
			comparisons[i] = compareTarget(ctx, client, opts, file.Prefix, t)
			return nil
		})
	}
	_ = g.Wait()

	printReport(comparisons)

	breaking, optional := tally(comparisons)
	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) (*targetFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return &file, nil
}

func tally(results []comparison) (breaking, optional int) {
	for _, comp := range results {
		if comp.Error == nil && comp.StatusMatch && comp.BodyMatch {
			continue
		}
		if comp.Target.Critical {
			breaking++
		} else if comp.Error == nil {
			optional++
		}
	}
	return breaking, optional
}

func compareTarget(ctx context.Context, client *http.Client, opts options, prefix string, tgt target) comparison {
	comp := comparison{Target: tgt}

	legacyPath := tgt.Path
	if tgt.LegacyPath != "" {
		legacyPath = tgt.LegacyPath
	}

	goStatus, goBody, goDur, goErr := performRequest(ctx, client, opts.goBase+prefix, tgt.Method, tgt.Path, opts.token)
	legacyStatus, legacyBody, legacyDur, legacyErr := performRequest(ctx, client, opts.legacyBase, tgt.Method, legacyPath, opts.token)
	comp.DurationGo = goDur
	comp.DurationLegacy = legacyDur

	if goErr != nil {
		comp.Error = fmt.Errorf("go request failed: %w", goErr)
		return comp
	}
	if legacyErr != nil {
		comp.Error = fmt.Errorf("legacy request failed: %w", legacyErr)
		return comp
	}

	comp.GoStatus = goStatus
	comp.LegacyStatus = legacyStatus
	comp.StatusMatch = goStatus == legacyStatus
	// Error envelopes differ between the services; only success payloads are compared.
	if goStatus >= http.StatusBadRequest {
		comp.BodyMatch = comp.StatusMatch
		return comp
	}
	comp.BodyMatch = bodiesEqual(unwrapEnvelope(goBody), legacyBody, opts.ignore)
	return comp
}

func performRequest(ctx context.Context, client *http.Client, base, method, path, token string) (int, []byte, time.Duration, error) {
	if client == nil {
		return 0, nil, 0, errors.New("nil client")
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := strings.TrimRight(base, "/") + path

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, time.Since(start), nil
}

// unwrapEnvelope returns the data member of a response envelope, or body
// unchanged when it is not one.
func unwrapEnvelope(body []byte) []byte {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Data) == 0 {
		return body
	}
	return env.Data
}

func bodiesEqual(a, b []byte, ignore []string) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	skip := make(map[string]struct{}, len(ignore))
	for _, key := range ignore {
		skip[key] = struct{}{}
	}
	normalize(&aj, skip)
	normalize(&bj, skip)
	return reflect.DeepEqual(aj, bj)
}

func normalize(v *interface{}, skip map[string]struct{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, v2 := range val {
			if _, ok := skip[k]; ok {
				delete(val, k)
				continue
			}
			normalize(&v2, skip)
			val[k] = v2
		}
	case []interface{}:
		for i, v2 := range val {
			normalize(&v2, skip)
			val[i] = v2
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func printReport(results []comparison) {
	fmt.Println("Shadow Compare Report")
	fmt.Println("======================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		fmt.Printf("  Go Status: %d (%s)\n", res.GoStatus, res.DurationGo)
		fmt.Printf("  Legacy Status: %d (%s)\n", res.LegacyStatus, res.DurationLegacy)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
		} else {
			fmt.Printf("  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Target.Critical)
		}
	}
}
