package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"searchgraph/internal/datastore"
	"searchgraph/internal/logging"
	"searchgraph/internal/rollover"
)

func writeTestFiles(t *testing.T) (catalogPath, queryPath string) {
	t.Helper()
	dir := t.TempDir()

	catalog, err := datastore.NewCatalog([]datastore.IndexDefinition{
		{
			Name:             "widgets",
			SearchExpression: "widgets__*",
			Rollover:         &datastore.RolloverDefinition{Frequency: rollover.Monthly, TimestampPath: "created_at"},
		},
	})
	if err != nil {
		t.Fatalf("NewCatalog() error: %v", err)
	}
	catalogPath = filepath.Join(dir, "indices.json")
	if err := datastore.SaveCatalog(catalogPath, catalog); err != nil {
		t.Fatalf("SaveCatalog() error: %v", err)
	}

	query := map[string]any{
		"filters": []map[string]any{{
			"workspace_id": map[string]any{"equal_to_any_of": []any{"t1"}},
			"created_at":   map[string]any{"gt": "2024-04-01"},
		}},
		"sort":  []map[string]any{{"field": "amount"}, {"field": "id", "direction": "desc"}},
		"first": 2,
	}
	data, err := json.Marshal(query)
	if err != nil {
		t.Fatal(err)
	}
	queryPath = filepath.Join(dir, "query.json")
	if err := os.WriteFile(queryPath, data, 0644); err != nil {
		t.Fatal(err)
	}
	return catalogPath, queryPath
}

func runExplainCmd(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newExplainCmd(logging.Discard())
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("explain error: %v\n%s", err, buf.String())
	}
	return buf.String()
}

func TestExplainPlanOutput(t *testing.T) {
	catalogPath, queryPath := writeTestFiles(t)

	out := runExplainCmd(t, queryPath,
		"--catalog", catalogPath,
		"--known-index", "widgets__2024-03",
		"--known-index", "widgets__2024-04",
		"--routing-field", "workspace_id",
	)

	for _, want := range []string{
		"routing: t1",
		"widgets__*,-widgets__2024-03",
		"size 3 (2 + detection row)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("plan output missing %q:\n%s", want, out)
		}
	}
}

func TestExplainMSearchOutput(t *testing.T) {
	catalogPath, queryPath := writeTestFiles(t)

	out := runExplainCmd(t, queryPath,
		"--catalog", catalogPath,
		"--known-index", "widgets__2024-03",
		"--routing-field", "workspace_id",
		"--output", "msearch",
	)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header and body:\n%s", len(lines), out)
	}
	var header map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &header); err != nil {
		t.Fatalf("header is not JSON: %v", err)
	}
	if header["routing"] != "t1" {
		t.Errorf("header routing = %v, want t1", header["routing"])
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["size"] != float64(3) {
		t.Errorf("body size = %v, want 3", body["size"])
	}
}

func TestReadQueryRejectsBadDirection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.json")
	if err := os.WriteFile(path, []byte(`{"sort":[{"field":"amount","direction":"sideways"}]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := readQuery(path); err == nil {
		t.Error("readQuery() accepted an unknown sort direction")
	}
}
