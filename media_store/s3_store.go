package media_store

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/gridfeed/gridfeed/utils"
	Logger "github.com/gridfeed/gridfeed/utils/log"
)

const (
	DefaultS3Region = "us-west-1"
	TestS3Bucket    = "gridfeed-media-dev"
	ProdS3Bucket    = "gridfeed-media"
)

// S3MediaStore holds uploaded photos where the write endpoint can
// reference them: the record_photo command carries the public url this
// store hands back.
type S3MediaStore struct {
	bucket                    string
	uploader                  *s3manager.Uploader
	svc                       *s3.S3
	client                    *http.Client
	processUrlBeforeFetchFunc ProcessUrlBeforeFetchFuncType
	customizeUploadedUrlFunc  CustomizeUploadedUrlType
}

func NewS3MediaStore(bucket string) (*S3MediaStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(DefaultS3Region),
	})
	if err != nil {
		return nil, err
	}

	return &S3MediaStore{
		bucket:                    bucket,
		uploader:                  s3manager.NewUploader(sess),
		svc:                       s3.New(sess),
		client:                    &http.Client{Timeout: 30 * time.Second},
		processUrlBeforeFetchFunc: func(s string) string { return s },
		customizeUploadedUrlFunc:  nil,
	}, nil
}

func (s *S3MediaStore) SetProcessUrlBeforeFetchFunc(f ProcessUrlBeforeFetchFuncType) {
	s.processUrlBeforeFetchFunc = f
}

func (s *S3MediaStore) SetCustomizeUploadedUrlFunc(f CustomizeUploadedUrlType) {
	s.customizeUploadedUrlFunc = f
}

func (s *S3MediaStore) Upload(ctx context.Context, fileName string, body io.Reader) (key string, err error) {
	key = uuid.New().String() + utils.GetUrlExtNameWithDot(fileName)
	_, err = s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		ACL:    aws.String("public-read"),
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return "", errors.Wrap(err, "upload media")
	}
	return key, nil
}

// FetchAndStore mirrors a remote reference into the bucket. A key that
// already exists is returned without re-uploading.
func (s *S3MediaStore) FetchAndStore(ctx context.Context, url string) (key string, err error) {
	key, err = keyFromUrl(url)
	if err != nil {
		return "", err
	}
	if s.IsKeyExisted(ctx, key) {
		return key, nil
	}

	eventualUrl := s.processUrlBeforeFetchFunc(url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, eventualUrl, nil)
	if err != nil {
		return "", err
	}
	response, err := s.client.Do(req)
	if err != nil {
		Logger.Log.Warnln("cannot fetch media from url:", eventualUrl, "err:", err)
		return "", err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return "", errors.Errorf("media fetch status %d for %s", response.StatusCode, eventualUrl)
	}

	_, err = s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		ACL:    aws.String("public-read"),
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   response.Body,
	})
	if err != nil {
		return "", errors.Wrap(err, "upload media")
	}
	return key, nil
}

func (s *S3MediaStore) IsKeyExisted(ctx context.Context, key string) bool {
	_, err := s.svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err == nil
}

func (s *S3MediaStore) UrlFromKey(key string) string {
	if s.customizeUploadedUrlFunc == nil {
		return "https://" + s.bucket + ".s3." + DefaultS3Region + ".amazonaws.com/" + key
	}
	return s.customizeUploadedUrlFunc(key)
}

func (s *S3MediaStore) CleanUp() {
	// nothing to release for s3
}
