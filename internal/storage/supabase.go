package storage

import (
	"bytes"
	"fmt"

	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
)

// SupabaseConfig holds the settings for the remote transcript mirror.
type SupabaseConfig struct {
	URL            string
	ServiceRoleKey string
	Bucket         string
}

// Enabled reports whether all required settings are present.
func (c SupabaseConfig) Enabled() bool {
	return c.URL != "" && c.ServiceRoleKey != "" && c.Bucket != ""
}

// SupabaseKV mirrors transcript slots into a Supabase storage bucket, one
// object per key.
type SupabaseKV struct {
	client *supabase.Client
	bucket string
}

// NewSupabaseKV constructs a bucket-backed store.
func NewSupabaseKV(cfg SupabaseConfig) (*SupabaseKV, error) {
	client, err := supabase.NewClient(cfg.URL, cfg.ServiceRoleKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("storage: create supabase client: %w", err)
	}
	return &SupabaseKV{client: client, bucket: cfg.Bucket}, nil
}

func (s *SupabaseKV) Get(key string) ([]byte, error) {
	data, err := s.client.Storage.DownloadFile(s.bucket, key+".json")
	if err != nil {
		return nil, fmt.Errorf("storage: download %s: %w", key, err)
	}
	return data, nil
}

func (s *SupabaseKV) Put(key string, data []byte) error {
	upsert := true
	contentType := "application/json"
	_, err := s.client.Storage.UploadFile(s.bucket, key+".json", bytes.NewReader(data), storage_go.FileOptions{
		Upsert:      &upsert,
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("storage: upload %s: %w", key, err)
	}
	return nil
}
