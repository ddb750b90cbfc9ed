// Package storage хранит загруженные фотографии объектов в MinIO.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ImagePrefix - префикс ключей объектов с фотографиями.
const ImagePrefix = "listings/"

// ImageStorage определяет интерфейс хранилища фотографий.
type ImageStorage interface {
	// UploadImage сохраняет изображение и возвращает его публичный URL.
	UploadImage(ctx context.Context, reader io.Reader, size int64, contentType, ext string) (string, error)
}

var _ ImageStorage = (*MinioClient)(nil)

// MinioClient реализует ImageStorage для MinIO.
type MinioClient struct {
	client     *minio.Client
	bucketName string
	publicURL  string
}

// MinioConfig содержит параметры для подключения к MinIO.
type MinioConfig struct {
	Endpoint        string // Адрес MinIO (например, "localhost:9000")
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	Region          string
	PublicURL       string // Базовый адрес для ссылок на файлы; по умолчанию строится из Endpoint
}

// ErrEmptyBucket возвращается, если не задано имя бакета.
var ErrEmptyBucket = errors.New("не задано имя бакета MinIO")

// NewMinioClient создает клиент MinIO и при необходимости создает бакет.
func NewMinioClient(ctx context.Context, cfg MinioConfig) (*MinioClient, error) {
	if cfg.BucketName == "" {
		return nil, ErrEmptyBucket
	}
	log.Printf("[Minio] Инициализация клиента для эндпоинта %s...", cfg.Endpoint)

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации клиента MinIO: %w", err)
	}

	exists, err := minioClient.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки существования бакета '%s': %w", cfg.BucketName, err)
	}
	if !exists {
		log.Printf("[Minio] Бакет '%s' не найден, создаем...", cfg.BucketName)
		if err = minioClient.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("ошибка создания бакета '%s': %w", cfg.BucketName, err)
		}
	}

	log.Printf("[Minio] Клиент инициализирован для бакета '%s'", cfg.BucketName)
	return &MinioClient{
		client:     minioClient,
		bucketName: cfg.BucketName,
		publicURL:  PublicBaseURL(cfg),
	}, nil
}

// UploadImage загружает изображение под новым уникальным ключом.
func (c *MinioClient) UploadImage(
	ctx context.Context,
	reader io.Reader,
	size int64,
	contentType string,
	ext string,
) (string, error) {
	key := ObjectKey(ext)
	log.Printf("[Minio] Загрузка файла '%s' в бакет '%s'...", key, c.bucketName)

	info, err := c.client.PutObject(ctx, c.bucketName, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		log.Printf("[Minio] Ошибка загрузки файла '%s': %v", key, err)
		return "", fmt.Errorf("ошибка загрузки файла в MinIO: %w", err)
	}

	log.Printf("[Minio] Файл '%s' загружен, размер: %d, ETag: %s", key, info.Size, info.ETag)
	return ObjectURL(c.publicURL, c.bucketName, key), nil
}

// ObjectKey возвращает новый ключ объекта вида listings/<uuid><ext>.
func ObjectKey(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ImagePrefix + uuid.NewString() + ext
}

// PublicBaseURL возвращает базовый адрес для публичных ссылок на файлы.
func PublicBaseURL(cfg MinioConfig) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + cfg.Endpoint
}

// ObjectURL собирает публичную ссылку на объект в бакете (path-style).
func ObjectURL(base, bucket, key string) string {
	u := base + "/" + url.PathEscape(bucket) + "/"
	for i, part := range strings.Split(key, "/") {
		if i > 0 {
			u += "/"
		}
		u += url.PathEscape(part)
	}
	return u
}
