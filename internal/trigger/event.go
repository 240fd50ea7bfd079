package trigger

import (
	"fmt"
	"net/url"
)

// Event is an S3-style upload notification. Only the fields needed to locate
// the uploaded object are decoded.
type Event struct {
	Records []EventRecord `json:"Records"`
}

// EventRecord describes one uploaded object.
type EventRecord struct {
	EventName string   `json:"eventName,omitempty"`
	S3        S3Entity `json:"s3"`
}

type S3Entity struct {
	Bucket S3Bucket `json:"bucket"`
	Object S3Object `json:"object"`
}

type S3Bucket struct {
	Name string `json:"name"`
}

type S3Object struct {
	Key  string `json:"key"`
	Size int64  `json:"size,omitempty"`
}

// Location returns the bucket and the decoded object key. Keys arrive
// URL-encoded with '+' for spaces.
func (r EventRecord) Location() (bucket, key string, err error) {
	bucket = r.S3.Bucket.Name
	if bucket == "" {
		return "", "", fmt.Errorf("event record has no bucket name")
	}
	if r.S3.Object.Key == "" {
		return "", "", fmt.Errorf("event record has no object key")
	}

	key, err = url.QueryUnescape(r.S3.Object.Key)
	if err != nil {
		return "", "", fmt.Errorf("invalid object key %q: %w", r.S3.Object.Key, err)
	}
	return bucket, key, nil
}
