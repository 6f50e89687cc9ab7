package config

import (
	"reflect"
	"testing"
)

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("Expected default log output 'stderr', got %q", cfg.Logging.Output)
	}
}

func TestApplyDefaults_Compaction(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if !reflect.DeepEqual(cfg.Compaction.Policies, []string{"block", "file"}) {
		t.Errorf("Expected default policies [block file], got %v", cfg.Compaction.Policies)
	}
	if cfg.Compaction.RecordLayout {
		t.Error("Expected record_layout to default to false")
	}
}

func TestApplyDefaults_OutputAndShow(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Output.Format != "table" {
		t.Errorf("Expected default output format 'table', got %q", cfg.Output.Format)
	}
	if cfg.Show.MaxBlocks != 256 {
		t.Errorf("Expected default max_blocks 256, got %d", cfg.Show.MaxBlocks)
	}
	if cfg.Show.Width != 64 {
		t.Errorf("Expected default width 64, got %d", cfg.Show.Width)
	}
}

func TestApplyDefaults_Telemetry(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Telemetry.Enabled {
		t.Error("Expected telemetry to be disabled by default")
	}
	if cfg.Telemetry.Endpoint != "localhost:4317" {
		t.Errorf("Expected default endpoint 'localhost:4317', got %q", cfg.Telemetry.Endpoint)
	}
	if cfg.Telemetry.SampleRate != 1.0 {
		t.Errorf("Expected default sample rate 1.0, got %v", cfg.Telemetry.SampleRate)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  "warning",
			Format: "JSON",
			Output: "/var/log/defrag.log",
		},
		Compaction: CompactionConfig{Policies: []string{"file"}},
		Output:     OutputConfig{Format: "yaml"},
		Show:       ShowConfig{MaxBlocks: 10, Width: 5},
	}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected level normalized to 'WARN', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected format normalized to 'json', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "/var/log/defrag.log" {
		t.Errorf("Expected explicit output preserved, got %q", cfg.Logging.Output)
	}
	if !reflect.DeepEqual(cfg.Compaction.Policies, []string{"file"}) {
		t.Errorf("Expected explicit policies preserved, got %v", cfg.Compaction.Policies)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("Expected explicit output format preserved, got %q", cfg.Output.Format)
	}
	if cfg.Show.MaxBlocks != 10 || cfg.Show.Width != 5 {
		t.Errorf("Expected explicit show settings preserved, got %+v", cfg.Show)
	}
}

func TestGetDefaultConfig_IsValid(t *testing.T) {
	if err := Validate(GetDefaultConfig()); err != nil {
		t.Fatalf("Default config should be valid, got: %v", err)
	}
}
