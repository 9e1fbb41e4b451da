package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"regexp"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

var App *firebase.App

const signedUploadTTL = 15 * time.Minute

// sanitizeFilename removes special characters from filenames and limits length.
func sanitizeFilename(filename string) string {
	re := regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	sanitized := re.ReplaceAllString(filename, "_")

	if len(sanitized) > 100 {
		sanitized = sanitized[:100]
	}

	if sanitized == "" || sanitized == "." || sanitized == ".." {
		sanitized = "file"
	}

	return sanitized
}

func Init() {
	credJSON := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")

	var opts []option.ClientOption

	if credJSON != "" {
		if strings.HasPrefix(credJSON, "{") {
			log.Println("Using storage credentials from environment variable")
			opts = append(opts, option.WithCredentialsJSON([]byte(credJSON)))
		} else {
			// It's a file path
			log.Println("Using storage credentials from file:", credJSON)
			opts = append(opts, option.WithCredentialsFile(credJSON))
		}
	} else {
		log.Println("Warning: GOOGLE_APPLICATION_CREDENTIALS not set, using default credentials")
	}

	app, err := firebase.NewApp(context.Background(), nil, opts...)
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}

	App = app
	log.Println("Storage initialized successfully")
}

func bucketHandle(ctx context.Context) (*gcs.BucketHandle, string, error) {
	if App == nil {
		return nil, "", fmt.Errorf("storage app not initialized")
	}

	bucketName := os.Getenv("FIREBASE_STORAGE_BUCKET")
	if bucketName == "" {
		return nil, "", fmt.Errorf("FIREBASE_STORAGE_BUCKET not set")
	}

	client, err := App.Storage(ctx)
	if err != nil {
		return nil, "", err
	}

	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, "", err
	}

	return bucket, bucketName, nil
}

// NewMenuObjectKey builds a fresh bucket key for a menu image. The extension
// follows the declared content type so the public URL serves correctly.
func NewMenuObjectKey(filename, contentType string) string {
	ext := path.Ext(filename)
	if ext == "" {
		switch contentType {
		case "image/png":
			ext = ".png"
		case "image/webp":
			ext = ".webp"
		case "image/gif":
			ext = ".gif"
		default:
			ext = ".jpg"
		}
	}
	return fmt.Sprintf("menu/%s%s", uuid.NewString(), ext)
}

func uploadMenuImage(file multipart.File, filename, contentType string) (string, string, error) {
	ctx := context.Background()

	bucket, bucketName, err := bucketHandle(ctx)
	if err != nil {
		return "", "", err
	}

	key := fmt.Sprintf(
		"menu/%d_%s",
		time.Now().Unix(),
		sanitizeFilename(filename),
	)

	obj := bucket.Object(key)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := io.Copy(wc, file); err != nil {
		wc.Close()
		return "", "", err
	}

	if err := wc.Close(); err != nil {
		return "", "", fmt.Errorf("failed to finalize upload: %v", err)
	}

	// Make object publicly readable so the URL works without authentication
	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		log.Printf("Warning: failed to set public ACL on %s: %v", key, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, key), key, nil
}

func signedUploadURL(key, contentType string) (string, error) {
	ctx := context.Background()

	bucket, _, err := bucketHandle(ctx)
	if err != nil {
		return "", err
	}

	url, err := bucket.SignedURL(key, &gcs.SignedURLOptions{
		Method:      http.MethodPut,
		Expires:     time.Now().Add(signedUploadTTL),
		ContentType: contentType,
		Scheme:      gcs.SigningSchemeV4,
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign upload URL for %s: %v", key, err)
	}

	return url, nil
}

func deleteObject(key string) error {
	ctx := context.Background()

	bucket, bucketName, err := bucketHandle(ctx)
	if err != nil {
		return err
	}

	if err := bucket.Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %s: %v", key, err)
	}

	log.Printf("Deleted object %s from bucket %s", key, bucketName)
	return nil
}

func publicURL(key string) string {
	bucketName := os.Getenv("FIREBASE_STORAGE_BUCKET")
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, key)
}
