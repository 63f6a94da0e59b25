package logging

import "testing"

func TestSetLevel(t *testing.T) {
	orig := GetLevel()
	defer SetLevel(orig)

	SetLevel(LevelError)
	if GetLevel() != LevelError {
		t.Errorf("GetLevel() = %v, want error", GetLevel())
	}
	if IsDebugEnabled() {
		t.Error("debug must be disabled at error level")
	}

	SetLevel(LevelDebug)
	if !IsDebugEnabled() {
		t.Error("debug must be enabled at debug level")
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{Level(42), "unknown(42)"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", int(tt.level), got, tt.want)
		}
	}
}
