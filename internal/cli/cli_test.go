package cli

import (
	"bytes"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		buildStages = nil
		buildDryRun = false
		buildRunDate = ""
		storeName = ""
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestBuildMemoryStore(t *testing.T) {
	out, err := execute(t, "build", "--store", "memory", "--run-date", "2024-06-15", "--log-level", "error")
	if err != nil {
		t.Fatalf("build failed: %v\n%s", err, out)
	}

	if !strings.Contains(out, "run date 2024-06-15") {
		t.Errorf("Expected run date in report, got:\n%s", out)
	}
	for _, stage := range []string{"products", "customers", "sales", "calendar"} {
		if !strings.Contains(out, stage) {
			t.Errorf("Expected stage %s in report", stage)
		}
	}
	if n := strings.Count(out, "committed"); n != 4 {
		t.Errorf("Expected 4 committed stages, got %d:\n%s", n, out)
	}
}

func TestBuildDryRun(t *testing.T) {
	out, err := execute(t, "build", "--store", "memory", "--dry-run", "--stage", "products", "--log-level", "error")
	if err != nil {
		t.Fatalf("build failed: %v\n%s", err, out)
	}
	if n := strings.Count(out, "committed"); n != 1 {
		t.Errorf("Expected 1 committed stage, got %d:\n%s", n, out)
	}
}

func TestBuildUnknownStage(t *testing.T) {
	_, err := execute(t, "build", "--store", "memory", "--stage", "returns", "--log-level", "error")
	if err == nil {
		t.Fatal("Expected error for unknown stage")
	}
}

func TestBuildBadRunDate(t *testing.T) {
	_, err := execute(t, "build", "--store", "memory", "--run-date", "June 15", "--log-level", "error")
	if err == nil {
		t.Fatal("Expected error for bad run date")
	}
}

func TestSeedRejectsMemoryStore(t *testing.T) {
	_, err := execute(t, "seed", "--store", "memory", "--log-level", "error")
	if err == nil {
		t.Fatal("Expected error seeding the memory store")
	}
}

func TestShowNegativeRows(t *testing.T) {
	t.Cleanup(func() { showRows = 10 })
	_, err := execute(t, "show", "sales", "--store", "memory", "-n", "-1", "--log-level", "error")
	if err == nil {
		t.Fatal("Expected error for negative row count")
	}
	if !strings.Contains(err.Error(), "must not be negative") {
		t.Errorf("Expected negative row count error, got: %v", err)
	}
}

func TestStages(t *testing.T) {
	out, err := execute(t, "stages")
	if err != nil {
		t.Fatalf("stages failed: %v", err)
	}
	if !strings.Contains(out, "writes: calendar") {
		t.Errorf("Expected calendar output path, got:\n%s", out)
	}
	if !strings.Contains(out, "after:  sales") {
		t.Errorf("Expected calendar dependency, got:\n%s", out)
	}
	if !strings.Contains(out, "memory") {
		t.Errorf("Expected registered stores, got:\n%s", out)
	}
}
