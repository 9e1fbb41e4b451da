package storage

import "mime/multipart"

// Client abstracts bucket operations for dependency injection and testing.
type Client interface {
	// UploadMenuImage streams a multipart upload into the bucket and returns
	// the public URL and the object key.
	UploadMenuImage(file multipart.File, filename, contentType string) (url string, key string, err error)

	// SignedUploadURL issues a short-lived presigned PUT URL for key, so the
	// dashboard can upload directly to the bucket.
	SignedUploadURL(key, contentType string) (string, error)

	// Delete removes an object by key.
	Delete(key string) error

	// PublicURL returns the public download URL for an object key.
	PublicURL(key string) string
}

// GCSClient is the real implementation backed by the Firebase storage bucket.
type GCSClient struct{}

func NewClient() Client {
	return &GCSClient{}
}

func (g *GCSClient) UploadMenuImage(file multipart.File, filename, contentType string) (string, string, error) {
	return uploadMenuImage(file, filename, contentType)
}

func (g *GCSClient) SignedUploadURL(key, contentType string) (string, error) {
	return signedUploadURL(key, contentType)
}

func (g *GCSClient) Delete(key string) error {
	return deleteObject(key)
}

func (g *GCSClient) PublicURL(key string) string {
	return publicURL(key)
}
