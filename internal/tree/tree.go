// Package tree turns flat object keys into the set of directory and file
// paths that make up a bucket's hierarchy.
package tree

import (
	"sort"
	"strings"

	"s3backup/internal/models"
)

// Builder collects hierarchy paths. Directory paths end with "/".
// The zero value is not usable; call New.
type Builder struct {
	paths map[string]struct{}
}

func New() *Builder {
	return &Builder{paths: make(map[string]struct{})}
}

// Add records every directory prefix of obj.Key and, for regular objects,
// the key itself. Adding the same key again is a no-op.
func (b *Builder) Add(obj models.Object) {
	segments := strings.Split(obj.Key, models.KeySeparator)

	var prefix strings.Builder
	for _, segment := range segments[:len(segments)-1] {
		prefix.WriteString(segment)
		prefix.WriteString(models.KeySeparator)
		b.paths[prefix.String()] = struct{}{}
	}

	// A directory marker ends in "/", so its last segment is empty and the
	// marker itself was recorded as the final prefix above.
	if obj.IsDirectory() {
		return
	}
	b.paths[obj.Key] = struct{}{}
}

func (b *Builder) Len() int {
	return len(b.paths)
}

// Paths returns the collected paths in byte order.
func (b *Builder) Paths() []string {
	out := make([]string, 0, len(b.paths))
	for p := range b.paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
