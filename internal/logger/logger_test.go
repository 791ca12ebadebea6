package logger

import "testing"

func TestNewLoggerServiceReadsConfig(t *testing.T) {
	// yaml.v3 delivers numeric values as int
	l := NewLoggerService(map[string]interface{}{
		"enabled":        true,
		"folder_path":    "logs",
		"max_file_mb":    10,
		"retention_days": 14,
	})

	if l.maxFileBytes != 10*1024*1024 {
		t.Fatalf("maxFileBytes = %d, want %d", l.maxFileBytes, 10*1024*1024)
	}
	if l.retentionDays != 14 {
		t.Fatalf("retentionDays = %d, want 14", l.retentionDays)
	}
	if l.folderPath != "logs" {
		t.Fatalf("folderPath = %q, want %q", l.folderPath, "logs")
	}
}

func TestNewLoggerServiceFloatValues(t *testing.T) {
	l := NewLoggerService(map[string]interface{}{
		"max_file_mb":    float64(5),
		"retention_days": float64(7),
	})
	if l.maxFileBytes != 5*1024*1024 {
		t.Fatalf("maxFileBytes = %d, want %d", l.maxFileBytes, 5*1024*1024)
	}
	if l.retentionDays != 7 {
		t.Fatalf("retentionDays = %d, want 7", l.retentionDays)
	}
}

func TestNewLoggerServiceDefaults(t *testing.T) {
	l := NewLoggerService(map[string]interface{}{})
	if l.folderPath != "./logs" {
		t.Fatalf("folderPath = %q, want ./logs", l.folderPath)
	}
	if l.maxFileBytes != 0 {
		t.Fatalf("maxFileBytes = %d, rotation should stay off without config", l.maxFileBytes)
	}
}
