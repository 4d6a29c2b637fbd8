package config

import "os"

// R2Config holds the Cloudflare R2 credentials used for nightly CSV
// snapshots. Backups are disabled when the endpoint is unset.
type R2Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

func LoadR2() R2Config {
	cfg := R2Config{
		Endpoint:  os.Getenv("R2_ENDPOINT"),
		AccessKey: os.Getenv("R2_ACCESS_KEY"),
		SecretKey: os.Getenv("R2_SECRET_KEY"),
		Bucket:    os.Getenv("R2_BUCKET"),
		Region:    os.Getenv("R2_REGION"),
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "dairy-db-backups"
	}
	if cfg.Region == "" {
		cfg.Region = "auto"
	}
	return cfg
}

func (c R2Config) Enabled() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != ""
}
