package s3wrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4Signer "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

const Scheme = "s3"

type Client struct {
	s3 *s3.Client
}

type noAcceptEncodingSigner struct {
	signer s3.HTTPSignerV4
}

func (signer *noAcceptEncodingSigner) SignHTTP(ctx context.Context, credentials aws.Credentials, r *http.Request, payloadHash string, service string, region string, signingTime time.Time, optFns ...func(*v4Signer.SignerOptions)) error {
	acceptEncoding := r.Header.Get("Accept-Encoding")
	r.Header.Del("Accept-Encoding")
	err := signer.signer.SignHTTP(ctx, credentials, r, payloadHash, service, region, signingTime, optFns...)
	if acceptEncoding != "" {
		r.Header.Set("Accept-Encoding", acceptEncoding)
	}
	return err
}

// New builds a client from the default AWS credential chain. S3-compatible stores
// usually need forcePathStyle.
func New(ctx context.Context, forcePathStyle bool) (*Client, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	otelaws.AppendMiddlewares(&config.APIOptions)

	s3Client := s3.NewFromConfig(config, func(options *s3.Options) {
		options.UsePathStyle = forcePathStyle
		defSigner := v4Signer.NewSigner(func(so *v4Signer.SignerOptions) {
			so.Logger = options.Logger
			so.LogSigning = options.ClientLogMode.IsSigning()
			so.DisableURIPathEscaping = true
		})
		options.HTTPSignerV4 = &noAcceptEncodingSigner{signer: defSigner}
	})

	return &Client{s3: s3Client}, nil
}

// Location is a parsed s3://bucket/key reference.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return Scheme + "://" + l.Bucket + "/" + l.Key
}

// ParseLocation parses s3://bucket/key. ok is false for anything that is not an s3 URL.
func ParseLocation(s string) (loc Location, ok bool, err error) {
	if !strings.HasPrefix(s, Scheme+"://") {
		return Location{}, false, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return Location{}, true, err
	}
	if u.Host == "" {
		return Location{}, true, fmt.Errorf("no bucket in %s", s)
	}

	return Location{
		Bucket: u.Host,
		Key:    strings.TrimPrefix(u.Path, "/"),
	}, true, nil
}

// describe turns service errors into something that names the failing operation.
func describe(op string, loc Location, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s %s: %s: %s", op, loc, apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return fmt.Errorf("%s %s: %w", op, loc, err)
}

type ObjectMetaData struct {
	Key       string
	Size      int64
	Timestamp time.Time
}

func (client *Client) ListObjects(ctx context.Context, loc Location) ([]ObjectMetaData, error) {
	params := &s3.ListObjectsV2Input{
		Bucket: &loc.Bucket,
	}
	if loc.Key != "" {
		params.Prefix = &loc.Key
	}

	var result []ObjectMetaData
	paginator := s3.NewListObjectsV2Paginator(client.s3, params)
	for paginator.HasMorePages() {
		resp, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, describe("list", loc, err)
		}

		for _, obj := range resp.Contents {
			if strings.HasSuffix(*obj.Key, "/") {
				// Quirk: GCS's XML API returns directries as a object. We'll filter them out.
				continue
			}

			result = append(result, ObjectMetaData{
				Key:       *obj.Key,
				Size:      aws.ToInt64(obj.Size),
				Timestamp: aws.ToTime(obj.LastModified),
			})
		}
	}

	return result, nil
}

type Object struct {
	Size int64
	Body io.ReadCloser
}

func (client *Client) GetObject(ctx context.Context, loc Location) (*Object, error) {
	resp, err := client.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &loc.Bucket,
		Key:    &loc.Key,
	})
	if err != nil {
		return nil, describe("get", loc, err)
	}

	return &Object{
		Size: aws.ToInt64(resp.ContentLength),
		Body: resp.Body,
	}, nil
}
