package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		json  bool
		debug bool
	}{
		{"console info", false, false},
		{"json info", true, false},
		{"console debug", false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			log, err := New(tc.json, tc.debug)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if log == nil {
				t.Fatalf("expected a logger")
			}

			if tc.debug && !log.Core().Enabled(zapcore.DebugLevel) {
				t.Fatalf("expected debug level to be enabled")
			}
			if !tc.debug && log.Core().Enabled(zapcore.DebugLevel) {
				t.Fatalf("debug level must be disabled by default")
			}
		})
	}
}
