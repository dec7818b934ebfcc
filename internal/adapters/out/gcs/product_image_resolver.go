package gcs

import (
	"log"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// ProductImageResolver resolves a stored image reference into a URL for
// catalog responses.
//
// The stored value can be:
// - http(s)://... (returned as-is)
// - an object path within the configured bucket (resolved to a signed URL,
//   falling back to the public URL when signing is unavailable)
type ProductImageResolver struct {
	Client *storage.Client
	Bucket string
}

func NewProductImageResolver(client *storage.Client, bucket string) *ProductImageResolver {
	return &ProductImageResolver{Client: client, Bucket: strings.TrimSpace(bucket)}
}

func (r *ProductImageResolver) Resolve(stored string) string {
	p := strings.TrimSpace(stored)
	if p == "" {
		return ""
	}

	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}

	p = strings.TrimLeft(p, "/")
	if r == nil || r.Bucket == "" {
		return ""
	}

	if r.Client != nil {
		u, err := r.Client.Bucket(r.Bucket).SignedURL(p, &storage.SignedURLOptions{
			Method:  "GET",
			Expires: time.Now().Add(1 * time.Hour),
			Scheme:  storage.SigningSchemeV4,
		})
		if err == nil {
			return u
		}
		log.Printf("[gcs] signed url failed object=%s: %v (falling back to public url)", p, err)
	}

	return "https://storage.googleapis.com/" + r.Bucket + "/" + p
}
