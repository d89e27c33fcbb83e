package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewObject(t *testing.T) {
	tests := []struct {
		key  string
		kind ObjectKind
	}{
		{"a/b/c.txt", KindFile},
		{"a/b/", KindDirectory},
		{"/", KindDirectory},
		{"file", KindFile},
		{"", KindFile},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			obj := NewObject(tt.key, 42)
			assert.Equal(t, tt.key, obj.Key)
			assert.Equal(t, tt.kind, obj.Kind)
			assert.Equal(t, tt.kind == KindDirectory, obj.IsDirectory())
			assert.Equal(t, int64(42), obj.Size)
		})
	}
}

func TestObjectKindString(t *testing.T) {
	assert.Equal(t, "file", KindFile.String())
	assert.Equal(t, "directory", KindDirectory.String())
}
