package blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store define o contrato do colaborador de armazenamento de blobs (imagens de perfil).
// O serviço de perfil depende apenas desta interface.
type Store interface {
	Upload(ctx context.Context, key string, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

// S3Store é a implementação concreta da interface Store usando um endpoint
// compatível com S3 (AWS S3 ou MinIO).
type S3Store struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

// Config agrupa os parâmetros de conexão com o S3/MinIO.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
}

// NewS3Store cria o cliente S3 e retorna o Store pronto para uso.
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"", // token de sessão (não usado)
		)))
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar configuração AWS: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true // MinIO exige path-style
	})

	return &S3Store{
		client:   client,
		bucket:   cfg.Bucket,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
	}, nil
}

// Upload grava os bytes no bucket e retorna a URL durável do objeto.
func (s *S3Store) Upload(ctx context.Context, key string, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("falha no PutObject: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key), nil
}

// Delete remove o objeto referenciado pela URL durável.
// URLs que não pertencem a este bucket são ignoradas silenciosamente.
func (s *S3Store) Delete(ctx context.Context, url string) error {
	prefix := fmt.Sprintf("%s/%s/", s.endpoint, s.bucket)
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	key := strings.TrimPrefix(url, prefix)

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("falha no DeleteObject: %w", err)
	}
	return nil
}
