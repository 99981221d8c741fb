package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestInitJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Out: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Str("table", "sales").Int64("rows", 3).Msg("Table replaced")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
	}
	if line["table"] != "sales" {
		t.Errorf("Expected table 'sales', got %v", line["table"])
	}
	if line["message"] != "Table replaced" {
		t.Errorf("Expected message 'Table replaced', got %v", line["message"])
	}
}

func TestInitInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "chatty", Out: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected debug output to be suppressed, got %q", buf.String())
	}

	Info().Msg("shown")
	if buf.Len() == 0 {
		t.Error("Expected info output")
	}
}

func TestStageLogger(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Out: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	log := Stage("calendar")
	log.Info().Msg("Stage complete")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("Expected JSON log line: %v", err)
	}
	if line["stage"] != "calendar" {
		t.Errorf("Expected stage 'calendar', got %v", line["stage"])
	}
}
