package models

import "strings"

// KeySeparator is the hierarchy separator inside object keys.
const KeySeparator = "/"

// ObjectKind tells a directory marker apart from an object with content.
type ObjectKind int

const (
	KindFile ObjectKind = iota
	KindDirectory
)

func (k ObjectKind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// Object is a single listing entry. Kind is derived from the key once, in NewObject.
type Object struct {
	Key  string
	Kind ObjectKind
	Size int64
}

func NewObject(key string, size int64) Object {
	kind := KindFile
	if strings.HasSuffix(key, KeySeparator) {
		kind = KindDirectory
	}
	return Object{Key: key, Kind: kind, Size: size}
}

func (o Object) IsDirectory() bool {
	return o.Kind == KindDirectory
}

// ListingPage is one page of a bucket listing, in the order the API returned it.
type ListingPage struct {
	Objects           []Object
	IsTruncated       bool
	ContinuationToken string
}
