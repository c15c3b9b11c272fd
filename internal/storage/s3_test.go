package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"
)

func testStore(endpoint string) *S3Store {
	return NewS3Store(Config{
		Region:          "us-east-1",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Bucket:          "careline",
		Endpoint:        endpoint,
	})
}

func TestURL(t *testing.T) {
	if got := testStore("").URL("qrcodes/a.png"); got != "https://careline.s3.us-east-1.amazonaws.com/qrcodes/a.png" {
		t.Fatalf("unexpected aws url %s", got)
	}
	if got := testStore("http://minio:9000/").URL("qrcodes/a.png"); got != "http://minio:9000/careline/qrcodes/a.png" {
		t.Fatalf("unexpected endpoint url %s", got)
	}
}

func TestPresignUpload(t *testing.T) {
	s := testStore("http://minio:9000")

	raw, err := s.PresignUpload(context.Background(), "upload/0xabc/1.png", "image/png", 5*time.Minute)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Path != "/careline/upload/0xabc/1.png" {
		t.Fatalf("unexpected path %s", u.Path)
	}
	q := u.Query()
	if q.Get("X-Amz-Expires") != "300" {
		t.Fatalf("expected 300s expiry, got %q", q.Get("X-Amz-Expires"))
	}
	if !strings.HasPrefix(q.Get("X-Amz-Credential"), "AKIDEXAMPLE/") {
		t.Fatalf("unexpected credential %q", q.Get("X-Amz-Credential"))
	}
	if q.Get("X-Amz-Signature") == "" {
		t.Fatal("expected a signature")
	}
}
