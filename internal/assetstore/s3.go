package assetstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// S3Store maps the folder-hierarchy contract onto an object bucket:
// folders are key prefixes (marked with a trailing-slash zero-byte
// object), the opaque file id is the object key, and move is a per-object
// copy+delete since objects cannot be renamed in place.
type S3Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	httpClient    *http.Client
	log           *zap.Logger
}

var _ Store = (*S3Store)(nil)

func NewS3Store(ctx context.Context, bucket, region, publicBaseURL string, log *zap.Logger) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "s3: load aws config")
	}
	return &S3Store{
		client:        s3.NewFromConfig(cfg),
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		log:           log,
	}, nil
}

// keyFor strips the leading slash folder-path convention down to an
// object key.
func keyFor(folderPath, fileName string) string {
	prefix := strings.Trim(folderPath, "/")
	if prefix == "" {
		return fileName
	}
	return prefix + "/" + fileName
}

func (s *S3Store) Upload(ctx context.Context, file, fileName, folderPath string) (Asset, error) {
	content, err := s.resolveContent(ctx, file)
	if err != nil {
		return Asset{}, errors.Wrapf(err, "s3: resolve content for %q", fileName)
	}

	key := keyFor(folderPath, fileName)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(content),
	})
	if err != nil {
		return Asset{}, errors.Wrapf(err, "s3: put %q", key)
	}
	s.log.Debug("uploaded object", zap.String("key", key))
	return Asset{Name: fileName, URL: s.publicBaseURL + "/" + key, FileID: key}, nil
}

// resolveContent turns the caller's file source into bytes: remote URLs
// are fetched, base64 payloads decoded, anything else taken verbatim.
func (s *S3Store) resolveContent(ctx context.Context, file string) ([]byte, error) {
	if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, file, nil)
		if err != nil {
			return nil, err
		}
		resp, err := s.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, errors.Errorf("fetch source: status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	if decoded, err := base64.StdEncoding.DecodeString(file); err == nil {
		return decoded, nil
	}
	return []byte(file), nil
}

func (s *S3Store) DeleteFile(ctx context.Context, fileID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileID),
	})
	return errors.Wrapf(err, "s3: delete %q", fileID)
}

func (s *S3Store) DeleteFolder(ctx context.Context, folderPath string) error {
	keys, err := s.listKeys(ctx, strings.Trim(folderPath, "/")+"/")
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return ErrNotFound
	}
	for _, key := range keys {
		if err := s.DeleteFile(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (s *S3Store) CreateFolder(ctx context.Context, folderName, parentPath string) error {
	key := keyFor(parentPath, folderName) + "/"
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(nil),
	})
	return errors.Wrapf(err, "s3: create folder marker %q", key)
}

func (s *S3Store) MoveFolder(ctx context.Context, sourcePath, destinationPath string) error {
	srcPrefix := strings.Trim(sourcePath, "/") + "/"
	segments := strings.Split(strings.Trim(sourcePath, "/"), "/")
	folderName := segments[len(segments)-1]
	dstPrefix := keyFor(destinationPath, folderName) + "/"

	keys, err := s.listKeys(ctx, srcPrefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return ErrNotFound
	}
	for _, key := range keys {
		dstKey := dstPrefix + strings.TrimPrefix(key, srcPrefix)
		_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
			Bucket:     aws.String(s.bucket),
			CopySource: aws.String(s.bucket + "/" + key),
			Key:        aws.String(dstKey),
		})
		if err != nil {
			return errors.Wrapf(err, "s3: copy %q to %q", key, dstKey)
		}
		if err := s.DeleteFile(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (s *S3Store) List(ctx context.Context, folderPath string, kind Kind) ([]Asset, error) {
	prefix := strings.Trim(folderPath, "/") + "/"
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "s3: list %q", prefix)
	}

	var assets []Asset
	switch kind {
	case KindFolder:
		for _, cp := range out.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), prefix), "/")
			assets = append(assets, Asset{Name: name})
		}
	default:
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			if key == prefix { // folder marker
				continue
			}
			assets = append(assets, Asset{
				Name:   strings.TrimPrefix(key, prefix),
				URL:    s.publicBaseURL + "/" + key,
				FileID: key,
			})
		}
	}
	return assets, nil
}

// listKeys returns every object key under prefix, recursively.
func (s *S3Store) listKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "s3: list %q", prefix)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}
