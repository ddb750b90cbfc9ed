package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
)

const (
	defaultServerAddr  = "127.0.0.1:5000"
	defaultMinioBucket = "estate-images"

	// Переменные окружения.
	envServerAddr     = "SERVER_ADDR"
	envDatabaseDSN    = "DATABASE_DSN"
	envSessionSecret  = "SESSION_SECRET" //nolint:gosec // Имя переменной окружения, а не секрет
	envTLSCertFile    = "TLS_CERT_FILE"
	envTLSKeyFile     = "TLS_KEY_FILE"
	envMinioEndpoint  = "MINIO_ENDPOINT"
	envMinioUser      = "MINIO_USER"
	envMinioPassword  = "MINIO_PASSWORD" //nolint:gosec // Имя переменной окружения, а не секрет
	envMinioBucket    = "MINIO_BUCKET"
	envMinioPublicURL = "MINIO_PUBLIC_URL"
	envMinioUseSSL    = "MINIO_USE_SSL"
)

// minioConfig - параметры хранилища фотографий. Пустой Endpoint отключает загрузку.
type minioConfig struct {
	Endpoint  string
	User      string
	Password  string
	Bucket    string
	PublicURL string
	UseSSL    bool
}

// config хранит конфигурацию сервера.
type config struct {
	Addr          string
	DatabaseDSN   string
	SessionSecret string
	CertFile      string
	KeyFile       string
	Minio         minioConfig
}

// TLSEnabled сообщает, заданы ли сертификат и ключ.
func (c *config) TLSEnabled() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

// parseFlags разбирает флаги и переменные окружения, возвращает config или ошибку.
// Флаги имеют приоритет над переменными окружения.
func parseFlags() (*config, error) {
	cfg := &config{}

	flag.StringVar(&cfg.Addr, "addr", "",
		fmt.Sprintf("Адрес HTTP-сервера (env: %s, default: %s)", envServerAddr, defaultServerAddr))
	flag.StringVar(&cfg.DatabaseDSN, "database-dsn", "",
		fmt.Sprintf("Строка подключения к базе данных (env: %s)", envDatabaseDSN))
	flag.StringVar(&cfg.SessionSecret, "session-secret", "",
		fmt.Sprintf("Ключ подписи cookie сессии (env: %s)", envSessionSecret))
	flag.StringVar(&cfg.CertFile, "cert-file", "",
		fmt.Sprintf("Путь к файлу TLS-сертификата (env: %s)", envTLSCertFile))
	flag.StringVar(&cfg.KeyFile, "key-file", "",
		fmt.Sprintf("Путь к файлу TLS-ключа (env: %s)", envTLSKeyFile))
	flag.StringVar(&cfg.Minio.Endpoint, "minio-endpoint", "",
		fmt.Sprintf("Адрес MinIO для загрузки фотографий (env: %s)", envMinioEndpoint))
	flag.StringVar(&cfg.Minio.PublicURL, "minio-public-url", "",
		fmt.Sprintf("Публичный адрес для ссылок на фотографии (env: %s)", envMinioPublicURL))

	flag.Parse()

	// Применяем переменные окружения, если флаги не заданы
	applyEnv(&cfg.Addr, envServerAddr, defaultServerAddr)
	applyEnv(&cfg.DatabaseDSN, envDatabaseDSN, "")
	applyEnv(&cfg.SessionSecret, envSessionSecret, "")
	applyEnv(&cfg.CertFile, envTLSCertFile, "")
	applyEnv(&cfg.KeyFile, envTLSKeyFile, "")
	applyEnv(&cfg.Minio.Endpoint, envMinioEndpoint, "")
	applyEnv(&cfg.Minio.PublicURL, envMinioPublicURL, "")
	applyEnv(&cfg.Minio.User, envMinioUser, "")
	applyEnv(&cfg.Minio.Password, envMinioPassword, "")
	applyEnv(&cfg.Minio.Bucket, envMinioBucket, defaultMinioBucket)

	if value, ok := os.LookupEnv(envMinioUseSSL); ok {
		useSSL, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("некорректное значение %s: %w", envMinioUseSSL, err)
		}
		cfg.Minio.UseSSL = useSSL
	}

	// Проверяем обязательные параметры
	if cfg.DatabaseDSN == "" {
		return nil, errors.New("не указана строка подключения к БД (--database-dsn или " + envDatabaseDSN + ")")
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("не указан ключ сессии (--session-secret или " + envSessionSecret + ")")
	}
	if (cfg.CertFile == "") != (cfg.KeyFile == "") {
		return nil, errors.New("для TLS нужно указать и сертификат (--cert-file), и ключ (--key-file)")
	}

	return cfg, nil
}

// applyEnv заполняет незаданное значение из переменной окружения или значением по умолчанию.
func applyEnv(dst *string, key, fallback string) {
	if *dst != "" {
		return
	}
	if value, ok := os.LookupEnv(key); ok {
		*dst = value
		return
	}
	*dst = fallback
}
