package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/jhoicas/albaranes-api/pkg/config"
)

const (
	emptyAWSSessionToken      = ""
	errFailedCreateSessionFmt = "storage: crear sesión AWS: %w"
	errFailedPutObjectFmt     = "storage: subir %s: %w"
	errFailedGetObjectFmt     = "storage: descargar %s: %w"
)

// S3 guarda los objetos en un bucket. Endpoint opcional para MinIO o LocalStack.
type S3 struct {
	svc    *s3.S3
	bucket string
}

// NewS3 construye el cliente con credenciales estáticas.
func NewS3(_ context.Context, cfg config.StorageConfig) (*S3, error) {
	if cfg.S3Bucket == "" {
		return nil, errors.New("storage: S3_BUCKET es obligatorio con el driver s3")
	}
	awsCfg := &aws.Config{
		Region: aws.String(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.S3AccessKey, cfg.S3SecretKey, emptyAWSSessionToken)
	}
	if cfg.S3Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.S3Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateSessionFmt, err)
	}
	return &S3{svc: s3.New(sess), bucket: cfg.S3Bucket}, nil
}

// Save sube el objeto con su content type.
func (s *S3) Save(ctx context.Context, key string, data []byte, contentType string) error {
	clean, err := cleanKey(key)
	if err != nil {
		return err
	}
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(clean),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.svc.PutObjectWithContext(ctx, input); err != nil {
		return fmt.Errorf(errFailedPutObjectFmt, clean, err)
	}
	return nil
}

// Open descarga el objeto completo.
func (s *S3) Open(ctx context.Context, key string) ([]byte, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(clean),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf(errFailedGetObjectFmt, clean, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf(errFailedGetObjectFmt, clean, err)
	}
	return data, nil
}
