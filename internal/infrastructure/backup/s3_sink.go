package backup

import (
	"context"
	"fmt"
	"io"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config parámetros del bucket (AWS S3 o MinIO).
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // opcional; para MinIO u otro compatible
	PathStyle bool
	Prefix    string
}

// S3Sink sube los respaldos como objetos <prefix><name>.
type S3Sink struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Sink usa la cadena de credenciales por defecto (AWS_ACCESS_KEY_ID, perfil, rol).
func NewS3Sink(ctx context.Context, cfg S3Config, optFns ...func(*s3.Options)) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("backup: bucket s3 requerido")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("backup: configuración aws: %w", err)
	}
	opts := append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}}, optFns...)
	return &S3Sink{
		client: s3.NewFromConfig(awsCfg, opts...),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// Upload devuelve la ubicación como s3://bucket/key.
func (s *S3Sink) Upload(ctx context.Context, name string, body io.Reader, size int64) (string, error) {
	key := s.key(name)
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String("application/json"),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("backup: subir a s3: %w", err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}

func (s *S3Sink) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return strings.TrimSuffix(s.prefix, "/") + "/" + name
}
