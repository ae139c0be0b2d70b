// Package parity replays requests against the Go API and the legacy JSON backend and
// reports where their answers differ.
package parity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"
)

// Target is one request to replay on both backends.
type Target struct {
	Method   string          `json:"method"`
	Path     string          `json:"path"`
	Body     json.RawMessage `json:"body,omitempty"`
	Critical bool            `json:"critical"`
	// Ignore lists top-level or per-element keys whose values may differ, such as tokens.
	Ignore []string `json:"ignore,omitempty"`
}

type targetFile struct {
	Targets []Target `json:"targets"`
}

// Comparison is the outcome of replaying one target.
type Comparison struct {
	Target         Target
	GoStatus       int
	LegacyStatus   int
	StatusMatch    bool
	BodyMatch      bool
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

// Diff reports whether the comparison failed or the answers differ.
func (c Comparison) Diff() bool {
	return c.Error != nil || !c.StatusMatch || !c.BodyMatch
}

// DefaultTargets are the read-only routes both backends serve.
var DefaultTargets = []Target{
	{Method: http.MethodGet, Path: "/teachers", Critical: true},
	{Method: http.MethodGet, Path: "/students", Critical: true},
	{Method: http.MethodGet, Path: "/groups", Critical: true},
	{Method: http.MethodGet, Path: "/payments", Critical: true},
	{Method: http.MethodGet, Path: "/tasks", Critical: true},
	{Method: http.MethodGet, Path: "/companies"},
	{Method: http.MethodGet, Path: "/branches"},
	{Method: http.MethodGet, Path: "/users", Critical: true},
	{Method: http.MethodGet, Path: "/no-such-endpoint"},
}

// LoadTargets reads a {"targets": [...]} file. An empty path yields DefaultTargets.
func LoadTargets(path string) ([]Target, error) {
	if path == "" {
		return DefaultTargets, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg targetFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

// Checker replays targets against two base URLs.
type Checker struct {
	Client     *http.Client
	GoBase     string
	LegacyBase string
}

// Run compares every target and returns the results in order.
func (c *Checker) Run(ctx context.Context, targets []Target) []Comparison {
	results := make([]Comparison, 0, len(targets))
	for _, t := range targets {
		results = append(results, c.compare(ctx, t))
	}
	return results
}

// Summary counts diffs on critical and optional targets.
func Summary(results []Comparison) (breaking, optional int) {
	for _, r := range results {
		if !r.Diff() {
			continue
		}
		if r.Target.Critical {
			breaking++
		} else {
			optional++
		}
	}
	return breaking, optional
}

func (c *Checker) compare(ctx context.Context, tgt Target) Comparison {
	comp := Comparison{Target: tgt}
	goStatus, goBody, goDur, goErr := c.perform(ctx, c.GoBase, tgt)
	legacyStatus, legacyBody, legacyDur, legacyErr := c.perform(ctx, c.LegacyBase, tgt)
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
	comp.BodyMatch = BodiesEqual(goBody, legacyBody, tgt.Ignore...)
	return comp
}

func (c *Checker) perform(ctx context.Context, base string, tgt Target) (int, []byte, time.Duration, error) {
	if c.Client == nil {
		return 0, nil, 0, errors.New("nil client")
	}
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if len(tgt.Body) > 0 {
		body = bytes.NewReader(tgt.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(base, "/")+path, body)
	if err != nil {
		return 0, nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, raw, time.Since(start), nil
}

// BodiesEqual compares two payloads as JSON, ignoring number formatting, key order and
// the named keys at any depth. Non-JSON payloads must match byte for byte.
func BodiesEqual(a, b []byte, ignore ...string) bool {
	if len(ignore) == 0 && bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
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

// WriteReport prints one block per comparison followed by the diff counts.
func WriteReport(w io.Writer, results []Comparison) {
	fmt.Fprintln(w, "Parity Report")
	fmt.Fprintln(w, "=============")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if res.Diff() {
			status = "DIFF"
		}
		fmt.Fprintf(w, "[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		fmt.Fprintf(w, "  Go Status: %d (%s)\n", res.GoStatus, res.DurationGo)
		fmt.Fprintf(w, "  Legacy Status: %d (%s)\n", res.LegacyStatus, res.DurationLegacy)
		if res.Error != nil {
			fmt.Fprintf(w, "  Error: %v\n", res.Error)
		} else {
			fmt.Fprintf(w, "  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Target.Critical)
		}
	}
	breaking, optional := Summary(results)
	fmt.Fprintf(w, "Breaking diffs: %d, Optional diffs: %d\n", breaking, optional)
}
