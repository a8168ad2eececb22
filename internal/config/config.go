package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // TOLL_DATABASE_URL (required)
	HTTPAddr    string // TOLL_HTTP_ADDR (default ":8080")
	NATSURL     string // TOLL_NATS_URL (optional, empty = no events)
	AuthToken   string // TOLL_AUTH_TOKEN (optional, empty = auth disabled)

	// Snapshot export settings
	SnapshotInterval   time.Duration // TOLL_SNAPSHOT_INTERVAL (default 5m; 0 = disabled)
	SnapshotS3Bucket   string        // TOLL_SNAPSHOT_S3_BUCKET (enables S3 when set)
	SnapshotS3Endpoint string        // TOLL_SNAPSHOT_S3_ENDPOINT (custom endpoint for MinIO)
	SnapshotS3Region   string        // TOLL_SNAPSHOT_S3_REGION (default "us-east-1")
	SnapshotS3Key      string        // TOLL_SNAPSHOT_S3_KEY (default "tollgate/snapshot.jsonl")
	SnapshotFile       string        // TOLL_SNAPSHOT_FILE (enables file export when set)
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:        os.Getenv("TOLL_DATABASE_URL"),
		HTTPAddr:           envOrDefault("TOLL_HTTP_ADDR", ":8080"),
		NATSURL:            os.Getenv("TOLL_NATS_URL"),
		AuthToken:          os.Getenv("TOLL_AUTH_TOKEN"),
		SnapshotS3Bucket:   os.Getenv("TOLL_SNAPSHOT_S3_BUCKET"),
		SnapshotS3Endpoint: os.Getenv("TOLL_SNAPSHOT_S3_ENDPOINT"),
		SnapshotS3Region:   envOrDefault("TOLL_SNAPSHOT_S3_REGION", "us-east-1"),
		SnapshotS3Key:      envOrDefault("TOLL_SNAPSHOT_S3_KEY", "tollgate/snapshot.jsonl"),
		SnapshotFile:       os.Getenv("TOLL_SNAPSHOT_FILE"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("TOLL_DATABASE_URL is required")
	}

	intervalStr := envOrDefault("TOLL_SNAPSHOT_INTERVAL", "5m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("TOLL_SNAPSHOT_INTERVAL: %w", err)
		}
		c.SnapshotInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
