package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"info level", false, false},
		{"debug level", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(&buf, tt.verbose)

			log.Debug("listing page", "bucket", "photos")
			log.Info("bucket completed", "bucket", "photos")

			out := buf.String()
			assert.Contains(t, out, "bucket completed")
			assert.Contains(t, out, "bucket=photos")
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("listing page")))
		})
	}
}
