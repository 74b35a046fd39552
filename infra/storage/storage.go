package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// MaxImageSize bounds profile image uploads.
const MaxImageSize = 5 << 20

var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Options configure the bucket store.
type Options struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UseSSL       bool
	AvatarBucket string
	BannerBucket string
	PublicURL    string
}

// Store uploads profile images to S3-compatible buckets.
type Store struct {
	client    *minio.Client
	buckets   map[string]string
	publicURL string
	now       func() time.Time
}

// New creates a Store. Nothing is contacted until the first upload.
func New(opts Options) (*Store, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	public := strings.TrimRight(opts.PublicURL, "/")
	if public == "" {
		scheme := "http"
		if opts.UseSSL {
			scheme = "https"
		}
		public = scheme + "://" + opts.Endpoint
	}
	return &Store{
		client: client,
		buckets: map[string]string{
			"avatar": opts.AvatarBucket,
			"banner": opts.BannerBucket,
		},
		publicURL: public,
		now:       time.Now,
	}, nil
}

// Upload stores the image at path under {userID}/{kind}-{ts}-{id}.{ext}
// and returns its public URL.
func (s *Store) Upload(ctx context.Context, kind, userID, path string) (string, error) {
	bucket, ok := s.buckets[kind]
	if !ok || bucket == "" {
		return "", fmt.Errorf("no bucket for %s images", kind)
	}
	contentType, err := ContentType(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	if info.Size() > MaxImageSize {
		return "", fmt.Errorf("image is %d bytes, limit is %d", info.Size(), MaxImageSize)
	}

	object := s.objectName(kind, userID, path)
	_, err = s.client.FPutObject(ctx, bucket, object, path, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		log.Warn().Err(err).Str("bucket", bucket).Str("object", object).Msg("image upload failed")
		return "", fmt.Errorf("uploading image: %w", err)
	}
	log.Debug().Str("bucket", bucket).Str("object", object).Msg("image uploaded")
	return s.URL(bucket, object), nil
}

// Remove deletes a previously uploaded object.
func (s *Store) Remove(ctx context.Context, kind, object string) error {
	bucket := s.buckets[kind]
	if err := s.client.RemoveObject(ctx, bucket, object, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing image: %w", err)
	}
	return nil
}

func (s *Store) objectName(kind, userID, path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	return fmt.Sprintf("%s/%s-%d-%s%s", userID, kind, s.now().Unix(), uuid.NewString()[:8], ext)
}

// URL returns the public address of an object.
func (s *Store) URL(bucket, object string) string {
	return s.publicURL + "/" + bucket + "/" + object
}

// ContentType maps an image file extension to its MIME type.
func ContentType(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	ct, ok := contentTypes[ext]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}
	return ct, nil
}
