package s3

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// MaxDeleteBatch is the per-request key limit of DeleteObjects.
const MaxDeleteBatch = 1000

type Options struct {
	Endpoint           string
	Region             string
	AccessKey          string
	SecretKey          string
	Bucket             string
	Prefix             string
	PathStyle          bool
	InsecureSkipVerify bool

	// DisableRequestChecksums limits checksums to operations that require
	// them, for S3-compatible servers that reject the SDK defaults.
	DisableRequestChecksums bool
}

// ObjectInfo describes one listed object. Key is relative to the client prefix.
type ObjectInfo struct {
	Key          string
	LastModified time.Time
	Size         int64
	Metadata     map[string]string
}

// PutOptions carries the headers written with an object.
type PutOptions struct {
	ContentType  string
	CacheControl string
	Metadata     map[string]string
}

// RoutingRule redirects requests that match an HTTP error code.
type RoutingRule struct {
	HTTPErrorCode        string
	HostName             string
	ReplaceKeyPrefixWith string
}

// WebsiteConfig is the subset of the bucket website configuration managed here.
type WebsiteConfig struct {
	IndexSuffix  string
	ErrorKey     string
	RoutingRules []RoutingRule
}

type Client struct {
	client *s3.Client
	bucket string
	prefix string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}

	// The SDK adds AWS_CA_BUNDLE roots through transport options, which a
	// plain *http.Client does not support.
	httpClient := awshttp.NewBuildableClient()
	if opts.InsecureSkipVerify {
		httpClient = httpClient.WithTransportOptions(func(tr *http.Transport) {
			if tr.TLSClientConfig == nil {
				tr.TLSClientConfig = &tls.Config{}
			}
			tr.TLSClientConfig.InsecureSkipVerify = true
		})
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")),
		awsconfig.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	var baseEndpoint string
	if strings.TrimSpace(opts.Endpoint) != "" {
		endpointURL, err := url.Parse(strings.TrimSpace(opts.Endpoint))
		if err != nil {
			return nil, fmt.Errorf("s3 endpoint: %w", err)
		}
		if endpointURL.Scheme == "" {
			endpointURL, err = url.Parse("https://" + strings.TrimSpace(opts.Endpoint))
			if err != nil {
				return nil, fmt.Errorf("s3 endpoint: %w", err)
			}
		}
		baseEndpoint = strings.TrimSuffix(endpointURL.String(), "/")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = opts.PathStyle
		if baseEndpoint != "" {
			o.BaseEndpoint = aws.String(baseEndpoint)
		}
		if opts.DisableRequestChecksums {
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		}
	})

	return NewWithClient(client, opts.Bucket, opts.Prefix), nil
}

// NewWithClient wraps an already configured SDK client.
func NewWithClient(client *s3.Client, bucket, prefix string) *Client {
	return &Client{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (c *Client) Key(relative string) string {
	relative = strings.Trim(relative, "/")
	if c.prefix == "" {
		return relative
	}
	return path.Join(c.prefix, relative)
}

func (c *Client) relative(fullKey string) string {
	if c.prefix == "" {
		return fullKey
	}
	return strings.TrimPrefix(fullKey, c.prefix+"/")
}

func (c *Client) Bucket() string {
	return c.bucket
}

func (c *Client) Prefix() string {
	return c.prefix
}

func (c *Client) PutObject(ctx context.Context, key string, body []byte, opts PutOptions) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(c.Key(key)),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if opts.CacheControl != "" {
		input.CacheControl = aws.String(opts.CacheControl)
	}
	if len(opts.Metadata) > 0 {
		input.Metadata = opts.Metadata
	}
	if _, err := c.client.PutObject(ctx, input); err != nil {
		return classify(err, "put object "+key)
	}
	return nil
}

func (c *Client) GetObject(ctx context.Context, key string) ([]byte, error) {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.Key(key)),
	})
	if err != nil {
		return nil, classify(err, "get object "+key)
	}
	defer out.Body.Close()
	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return body, nil
}

// HeadObject returns the object's metadata, or ErrNotFound.
func (c *Client) HeadObject(ctx context.Context, key string) (*ObjectInfo, error) {
	out, err := c.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.Key(key)),
	})
	if err != nil {
		return nil, classify(err, "head object "+key)
	}
	info := &ObjectInfo{Key: key, Metadata: out.Metadata}
	if out.LastModified != nil {
		info.LastModified = *out.LastModified
	}
	if out.ContentLength != nil {
		info.Size = *out.ContentLength
	}
	return info, nil
}

// ListObjects lists the objects directly under the client prefix.
// Nested "directories" are not descended into.
func (c *Client) ListObjects(ctx context.Context) ([]ObjectInfo, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(c.bucket),
		Delimiter: aws.String("/"),
	}
	if c.prefix != "" {
		input.Prefix = aws.String(c.prefix + "/")
	}
	var objects []ObjectInfo
	paginator := s3.NewListObjectsV2Paginator(c.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify(err, "list objects")
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			info := ObjectInfo{Key: c.relative(*obj.Key)}
			if obj.LastModified != nil {
				info.LastModified = *obj.LastModified
			}
			if obj.Size != nil {
				info.Size = *obj.Size
			}
			objects = append(objects, info)
		}
	}
	return objects, nil
}

// DeleteObjects removes keys in batches of MaxDeleteBatch. Per-key failures
// reported by the backend are returned as an error.
func (c *Client) DeleteObjects(ctx context.Context, keys []string) error {
	for start := 0; start < len(keys); start += MaxDeleteBatch {
		end := start + MaxDeleteBatch
		if end > len(keys) {
			end = len(keys)
		}
		ids := make([]types.ObjectIdentifier, 0, end-start)
		for _, k := range keys[start:end] {
			ids = append(ids, types.ObjectIdentifier{Key: aws.String(c.Key(k))})
		}
		out, err := c.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(c.bucket),
			Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return classify(err, "delete objects")
		}
		if len(out.Errors) > 0 {
			first := out.Errors[0]
			return fmt.Errorf("delete objects: %d failed, first %s: %s", len(out.Errors), aws.ToString(first.Key), aws.ToString(first.Message))
		}
	}
	return nil
}

func (c *Client) PutWebsite(ctx context.Context, cfg WebsiteConfig) error {
	website := &types.WebsiteConfiguration{
		IndexDocument: &types.IndexDocument{Suffix: aws.String(cfg.IndexSuffix)},
	}
	if cfg.ErrorKey != "" {
		website.ErrorDocument = &types.ErrorDocument{Key: aws.String(cfg.ErrorKey)}
	}
	for _, r := range cfg.RoutingRules {
		redirect := &types.Redirect{}
		if r.HostName != "" {
			redirect.HostName = aws.String(r.HostName)
		}
		if r.ReplaceKeyPrefixWith != "" {
			redirect.ReplaceKeyPrefixWith = aws.String(r.ReplaceKeyPrefixWith)
		}
		rule := types.RoutingRule{Redirect: redirect}
		if r.HTTPErrorCode != "" {
			rule.Condition = &types.Condition{HttpErrorCodeReturnedEquals: aws.String(r.HTTPErrorCode)}
		}
		website.RoutingRules = append(website.RoutingRules, rule)
	}
	_, err := c.client.PutBucketWebsite(ctx, &s3.PutBucketWebsiteInput{
		Bucket:               aws.String(c.bucket),
		WebsiteConfiguration: website,
	})
	if err != nil {
		return classify(err, "put bucket website")
	}
	return nil
}

// GetWebsite returns the bucket website configuration, or ErrNotFound when
// the bucket has none.
func (c *Client) GetWebsite(ctx context.Context) (*WebsiteConfig, error) {
	out, err := c.client.GetBucketWebsite(ctx, &s3.GetBucketWebsiteInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		return nil, classify(err, "get bucket website")
	}
	cfg := &WebsiteConfig{}
	if out.IndexDocument != nil {
		cfg.IndexSuffix = aws.ToString(out.IndexDocument.Suffix)
	}
	if out.ErrorDocument != nil {
		cfg.ErrorKey = aws.ToString(out.ErrorDocument.Key)
	}
	for _, r := range out.RoutingRules {
		var rule RoutingRule
		if r.Condition != nil {
			rule.HTTPErrorCode = aws.ToString(r.Condition.HttpErrorCodeReturnedEquals)
		}
		if r.Redirect != nil {
			rule.HostName = aws.ToString(r.Redirect.HostName)
			rule.ReplaceKeyPrefixWith = aws.ToString(r.Redirect.ReplaceKeyPrefixWith)
		}
		cfg.RoutingRules = append(cfg.RoutingRules, rule)
	}
	return cfg, nil
}

func (c *Client) HeadBucket(ctx context.Context) error {
	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)})
	if err != nil {
		return classify(err, "head bucket")
	}
	return nil
}

// CreateBucket creates the bucket, treating "already owned by you" as success.
func (c *Client) CreateBucket(ctx context.Context) error {
	_, err := c.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(c.bucket)})
	if err == nil || isAlreadyOwned(err) {
		return nil
	}
	return classify(err, "create bucket")
}

func (c *Client) Client() *s3.Client {
	return c.client
}
