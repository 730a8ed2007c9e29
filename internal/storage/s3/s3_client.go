package s3

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"

	"gallery/internal/config"
	"gallery/internal/domain"
	"gallery/internal/port"
	"gallery/internal/storage"
)

// metaOriginalFilename is the user metadata key holding the uploaded file's
// original name (path-escaped, since S3 metadata must be ASCII).
const metaOriginalFilename = "original-filename"

const defaultPresignExpiry = 15 * time.Minute

func init() {
	storage.RegisterProvider("s3", func(cfg *config.StorageConfig) (port.ObjectStorage, error) {
		return NewS3Client(cfg)
	})
}

type s3Client struct {
	client          *s3.Client
	presigner       *s3.PresignClient
	uploader        *manager.Uploader
	prefix          string
	publicBase      string
	presignExpiry   time.Duration
	listConcurrency int
}

// NewS3Client creates a new S3-backed ObjectStorage implementation.
func NewS3Client(cfg *config.StorageConfig) (port.ObjectStorage, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	listConcurrency := cfg.ListConcurrency
	if listConcurrency <= 0 {
		listConcurrency = 1
	}
	presignExpiry := time.Duration(cfg.PresignExpiry) * time.Second
	if presignExpiry <= 0 {
		presignExpiry = defaultPresignExpiry
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)
	return &s3Client{
		client:          client,
		presigner:       s3.NewPresignClient(client),
		uploader:        manager.NewUploader(client),
		prefix:          cfg.KeyPrefix(),
		publicBase:      strings.TrimRight(cfg.PublicBaseURL, "/"),
		presignExpiry:   presignExpiry,
		listConcurrency: listConcurrency,
	}, nil
}

func (c *s3Client) key(id string) string {
	return c.prefix + id
}

func (c *s3Client) Create(ctx context.Context, input port.CreateInput) (*port.StoredObject, error) {
	id := domain.NewObjectID(input.ID)

	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(input.Bucket),
		Key:         aws.String(c.key(id)),
		Body:        input.Body,
		ContentType: aws.String(input.ContentType),
		Metadata: map[string]string{
			metaOriginalFilename: url.PathEscape(input.Name),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("s3 upload: %w", err)
	}

	return &port.StoredObject{
		ID:          id,
		Name:        input.Name,
		ContentType: input.ContentType,
		Size:        input.Size,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (c *s3Client) List(ctx context.Context, bucket string) ([]port.StoredObject, error) {
	paginator := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(c.prefix),
	})

	var objects []port.StoredObject
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 list: %w", err)
		}
		for _, obj := range page.Contents {
			id := strings.TrimPrefix(aws.ToString(obj.Key), c.prefix)
			// Objects in nested "folders" were not created by the gallery.
			if id == "" || strings.Contains(id, "/") {
				continue
			}
			objects = append(objects, port.StoredObject{
				ID:        id,
				Size:      aws.ToInt64(obj.Size),
				CreatedAt: aws.ToTime(obj.LastModified),
			})
		}
	}

	// The listing carries no user metadata; fetch names with bounded HEADs.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.listConcurrency)
	for i := range objects {
		g.Go(func() error {
			head, err := c.client.HeadObject(gctx, &s3.HeadObjectInput{
				Bucket: aws.String(bucket),
				Key:    aws.String(c.key(objects[i].ID)),
			})
			if err != nil {
				return fmt.Errorf("s3 head %s: %w", objects[i].ID, err)
			}
			objects[i].Name = decodeName(head.Metadata[metaOriginalFilename])
			objects[i].ContentType = aws.ToString(head.ContentType)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if objects == nil {
		objects = []port.StoredObject{}
	}
	return objects, nil
}

func (c *s3Client) ResolveViewURL(ctx context.Context, bucket, id string) (string, error) {
	if c.publicBase != "" {
		return c.publicBase + "/" + c.key(id), nil
	}

	result, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(c.key(id)),
	}, s3.WithPresignExpires(c.presignExpiry))
	if err != nil {
		return "", fmt.Errorf("s3 presign: %w", err)
	}
	return result.URL, nil
}

func decodeName(v string) string {
	if v == "" {
		return ""
	}
	name, err := url.PathUnescape(v)
	if err != nil {
		return v
	}
	return name
}
