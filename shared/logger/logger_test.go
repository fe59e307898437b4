package logger

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name    string
		debug   bool
		log     func(l *Logger)
		want    string
		wantOut bool
	}{
		{name: "info written", log: func(l *Logger) { l.Info("team %s created", "A") }, want: "INFO: team A created", wantOut: true},
		{name: "warn written", log: func(l *Logger) { l.Warn("slow") }, want: "WARN: slow", wantOut: true},
		{name: "error written", log: func(l *Logger) { l.Error("boom: %v", 1) }, want: "ERROR: boom: 1", wantOut: true},
		{name: "debug hidden by default", log: func(l *Logger) { l.Debug("noise") }, wantOut: false},
		{name: "debug shown when enabled", debug: true, log: func(l *Logger) { l.Debug("noise") }, want: "DEBUG: noise", wantOut: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(Options{Out: &buf, Debug: tt.debug, Service: "hunt-api"})
			tt.log(l)
			if !tt.wantOut {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), "[hunt-api]")
		})
	}
}

func TestLoggerFatalExits(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	l := New(Options{Out: &buf})
	code := -1
	l.exit = func(c int) { code = c }

	l.Fatal("cannot start: %s", "no mongo")

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "FATAL: cannot start: no mongo")
}
