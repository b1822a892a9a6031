package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

const (
	recordPrefix = "records/"
	pdfPrefix    = "pdfs/"
)

// DatasetStore keeps the published dataset in an object bucket: one JSON
// object per meeting record plus the rendered PDF. Reads use the service
// credentials configured at boot; writes require the caller's dataset token,
// which acts as the secret key of a per-run client.
type DatasetStore struct {
	reader      *minio.Client
	endpoint    string
	accessKeyID string
	useSSL      bool
	bucket      string
	publicURL   string
}

// NewDatasetStore connects to the object store and ensures the dataset bucket
// exists.
func NewDatasetStore(cfg *config.StorageConfig) (*DatasetStore, error) {
	reader, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	store := &DatasetStore{
		reader:      reader,
		endpoint:    cfg.Endpoint,
		accessKeyID: cfg.AccessKeyID,
		useSSL:      cfg.UseSSL,
		bucket:      cfg.BucketName,
		publicURL:   cfg.PublicURL,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return store, nil
}

func (s *DatasetStore) ensureBucket(ctx context.Context) error {
	exists, err := s.reader.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.reader.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// writeClient builds a client authenticated with the caller's dataset token.
func (s *DatasetStore) writeClient(token string) (*minio.Client, error) {
	return minio.New(s.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s.accessKeyID, token, ""),
		Secure: s.useSSL,
	})
}

// SaveRecord writes the record as records/<id>.json. PutObject overwrites the
// key, so retrying the same record never duplicates a dataset row.
func (s *DatasetStore) SaveRecord(ctx context.Context, token string, record *entities.MeetingRecord) error {
	client, err := s.writeClient(token)
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrPersistenceUnavailable, err)
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: encode record: %v", entities.ErrPersistenceUnavailable, err)
	}

	objectName := recordPrefix + record.ID.String() + ".json"
	_, err = client.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrPersistenceUnavailable, err)
	}
	return nil
}

// UploadPDF stores the rendered document and returns a time-limited download
// URL for it.
func (s *DatasetStore) UploadPDF(ctx context.Context, token string, recordID string, data []byte) (string, error) {
	client, err := s.writeClient(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entities.ErrPersistenceUnavailable, err)
	}

	objectName := pdfPrefix + recordID + ".pdf"
	_, err = client.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/pdf"})
	if err != nil {
		return "", fmt.Errorf("%w: %v", entities.ErrPersistenceUnavailable, err)
	}

	return s.GetFileURL(ctx, objectName, 24*time.Hour)
}

// GetFileURL returns a presigned URL for an object. When a public URL is
// configured (store behind a reverse proxy), the internal endpoint in the
// presigned URL is swapped for it.
func (s *DatasetStore) GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	url, err := s.reader.PresignedGetObject(ctx, s.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	if s.publicURL != "" {
		urlStr := url.String()
		bucketPos := len(url.Scheme) + 3 + len(url.Host)
		if bucketPos < len(urlStr) {
			return s.publicURL + urlStr[bucketPos:], nil
		}
	}

	return url.String(), nil
}

// Info reports the dataset bucket state: existence, endpoint and the number of
// stored records.
func (s *DatasetStore) Info(ctx context.Context) (map[string]interface{}, error) {
	exists, err := s.reader.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	info := map[string]interface{}{
		"bucket":        s.bucket,
		"bucket_exists": exists,
		"endpoint":      s.reader.EndpointURL().String(),
	}

	if exists {
		count := 0
		objectCh := s.reader.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
			Prefix:    recordPrefix,
			Recursive: true,
		})
		for object := range objectCh {
			if object.Err != nil {
				return nil, fmt.Errorf("error listing objects: %w", object.Err)
			}
			count++
		}
		info["total_records"] = count
	}

	return info, nil
}
