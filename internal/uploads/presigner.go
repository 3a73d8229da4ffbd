package uploads

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const presignTTL = 15 * time.Minute

// Presigner hands out short-lived S3 PUT URLs so the mobile client can
// upload geo-tagged photos and documents directly.
type Presigner struct {
	client  *s3.PresignClient
	bucket  string
	baseURL string
}

func NewPresigner(ctx context.Context, bucket, region, publicBaseURL string) (*Presigner, error) {
	if bucket == "" {
		return nil, fmt.Errorf("upload bucket is not configured")
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	return &Presigner{
		client:  s3.NewPresignClient(s3.NewFromConfig(cfg)),
		bucket:  bucket,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

type PresignedUpload struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int64  `json:"expiresIn"`
}

// PresignPut signs a PUT for the given key. The client stores the
// returned fileUrl in the project's images or documents list.
func (p *Presigner) PresignPut(ctx context.Context, key, contentType string) (*PresignedUpload, error) {
	req, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	return &PresignedUpload{
		UploadURL: req.URL,
		FileURL:   p.baseURL + "/" + key,
		Key:       key,
		ExpiresIn: int64(presignTTL.Seconds()),
	}, nil
}

// ObjectKey builds the storage key for a new upload. Unknown kinds fall
// back to image.
func ObjectKey(kind, fileName string) string {
	if kind != "document" {
		kind = "image"
	}
	return fmt.Sprintf("uploads/%s/%s-%s", kind, uuid.New().String(), sanitizeName(fileName))
}

func sanitizeName(name string) string {
	name = path.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == "/" {
		return "file"
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
