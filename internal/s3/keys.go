package s3

import (
	"strings"
)

const (
	RevisionSuffix = ".html"
	IndexObjectKey = "index.html"

	// RevisionMetadataKey is the user metadata entry on the live index object
	// naming the revision it was copied from.
	RevisionMetadataKey = "revision"
)

func RevisionObjectKey(tag string) string {
	return tag + RevisionSuffix
}

// ParseRevisionKey returns the revision tag for a listed object key. The live
// index object, nested keys, and non-HTML objects are not revisions.
func ParseRevisionKey(relativeKey string) (string, bool) {
	if relativeKey == IndexObjectKey || strings.Contains(relativeKey, "/") {
		return "", false
	}
	if !strings.HasSuffix(relativeKey, RevisionSuffix) {
		return "", false
	}
	tag := strings.TrimSuffix(relativeKey, RevisionSuffix)
	if tag == "" {
		return "", false
	}
	return tag, true
}
