package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE", "AWS_REGION", "S3_BUCKET_NAME", "REDIS_ADDR", "REDIS_PASSWORD"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.Store != StoreDynamo {
		t.Fatalf("expected default store %q, got %q", StoreDynamo, cfg.Store)
	}
	if cfg.AWSRegion != "ap-south-1" {
		t.Fatalf("expected default region ap-south-1, got %q", cfg.AWSRegion)
	}
	if cfg.S3Bucket != "" || cfg.Redis.Addr != "" {
		t.Fatalf("optional settings must default empty: %+v", cfg)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE", StoreMemory)
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("S3_BUCKET_NAME", "samaj-media")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_PASSWORD", "secret")

	cfg := Load()
	if cfg.Port != "9000" || cfg.Store != StoreMemory || cfg.AWSRegion != "us-east-1" {
		t.Fatalf("environment not honored: %+v", cfg)
	}
	if cfg.S3Bucket != "samaj-media" || cfg.Redis.Addr != "localhost:6379" || cfg.Redis.Password != "secret" {
		t.Fatalf("optional settings not honored: %+v", cfg)
	}
}
