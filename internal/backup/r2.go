// Package backup ships periodic CSV snapshots of the business tables
// to Cloudflare R2. The snapshots use the import formats, so recovery
// is a plain re-import.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	appconfig "dairy-backend/internal/config"
	"dairy-backend/internal/services"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Scheduler struct {
	cfg      appconfig.R2Config
	reports  *services.ReportService
	interval time.Duration
}

func NewScheduler(cfg appconfig.R2Config, reports *services.ReportService, interval time.Duration) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		reports:  reports,
		interval: interval,
	}
}

// Run takes a snapshot immediately and then on every tick until the
// context is canceled. Intended to run in its own goroutine.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.cfg.Enabled() {
		log.Printf("[Backup] R2 credentials not configured, backups disabled")
		return
	}

	if err := s.Snapshot(ctx); err != nil {
		log.Printf("[Backup] Initial snapshot failed: %v", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Snapshot(ctx); err != nil {
				log.Printf("[Backup] Snapshot failed: %v", err)
			}
		}
	}
}

// Snapshot exports customers, deliveries and payments and uploads all
// three under a timestamped prefix.
func (s *Scheduler) Snapshot(ctx context.Context) error {
	client, err := s.client(ctx)
	if err != nil {
		return err
	}

	prefix := time.Now().UTC().Format("snapshots/2006-01-02T15-04-05")

	exports := []struct {
		name string
		fn   func(context.Context) ([]byte, error)
	}{
		{"customers.csv", s.reports.ExportCustomersCSV},
		{"deliveries.csv", s.reports.ExportDeliveriesCSV},
		{"payments.csv", s.reports.ExportPaymentsCSV},
	}

	for _, export := range exports {
		data, err := export.fn(ctx)
		if err != nil {
			return fmt.Errorf("export %s: %w", export.name, err)
		}
		key := prefix + "/" + export.name
		_, err = client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.cfg.Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String("text/csv"),
		})
		if err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
	}

	log.Printf("[Backup] Snapshot uploaded under %s", prefix)
	return nil
}

func (s *Scheduler) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.AccessKey,
			s.cfg.SecretKey,
			"",
		)),
		awsconfig.WithRegion(s.cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("configure R2 client: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.cfg.Endpoint)
	}), nil
}
