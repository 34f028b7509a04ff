package list

import (
	"context"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/halcyon-cloud/s3/internal/gateway"
	s3types "github.com/halcyon-cloud/s3/s3types"
)

// maxPageSize is the largest page the backend serves per request.
const maxPageSize = 1000

// Lister enumerates bucket contents through the gateway.
type Lister struct {
	gw *gateway.Gateway
}

// New creates a new Lister.
func New(gw *gateway.Gateway) *Lister {
	return &Lister{
		gw: gw,
	}
}

// Config holds configuration for list operations.
type Config struct {
	Bucket            string
	Prefix            string
	Delimiter         string
	MaxKeys           int32
	StartAfter        string
	ContinuationToken string
}

// Result represents one page of a listing.
type Result struct {
	Objects           []s3types.Object
	CommonPrefixes    []string
	IsTruncated       bool
	ContinuationToken string
	KeyCount          int
}

// Page fetches a single page of raw entries, folder markers included.
func (l *Lister) Page(ctx context.Context, config *Config) (*Result, error) {
	input := l.pageInput(config)
	if config.ContinuationToken != "" {
		input.ContinuationToken = aws.String(config.ContinuationToken)
	} else if config.StartAfter != "" {
		input.StartAfter = aws.String(config.StartAfter)
	}

	output, err := l.gw.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, err
	}

	return convertOutput(output), nil
}

// Descriptors accumulates the complete listing under prefix and projects it
// into object descriptors. Folder markers (zero-size keys ending in "/") are
// excluded. A non-empty search keeps only keys containing the substring. A
// positive limit truncates the accumulated result to its first limit entries;
// truncation happens after the full listing is materialized so the search
// filter sees every page.
func (l *Lister) Descriptors(
	ctx context.Context,
	bucket, prefix, search string,
	limit int,
) ([]s3types.ObjectDescriptor, error) {
	descriptors := []s3types.ObjectDescriptor{}

	paginator := l.Paginate(&Config{Bucket: bucket, Prefix: prefix})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}

		for _, obj := range page.Objects {
			if isFolderMarker(obj) {
				continue
			}
			if search != "" && !strings.Contains(obj.Key, search) {
				continue
			}
			descriptors = append(descriptors, s3types.ObjectDescriptor{
				Name:         path.Base(obj.Key),
				Bucket:       bucket,
				Key:          obj.Key,
				Size:         obj.Size,
				LastModified: obj.LastModified,
			})
		}
	}

	if limit > 0 && len(descriptors) > limit {
		descriptors = descriptors[:limit]
	}

	return descriptors, nil
}

// All streams every raw entry under the config's prefix. A page failure is
// delivered as the final entry with Err set, then the channel closes.
func (l *Lister) All(ctx context.Context, config *Config) <-chan s3types.ObjectResult {
	resultChan := make(chan s3types.ObjectResult, 100)

	go func() {
		defer close(resultChan)

		paginator := l.Paginate(config)
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				resultChan <- s3types.ObjectResult{Err: err}
				return
			}

			for _, obj := range page.Objects {
				select {
				case resultChan <- s3types.ObjectResult{Object: obj}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return resultChan
}

// Paginator walks a listing page by page, carrying the continuation token
// between calls.
type Paginator struct {
	lister            *Lister
	config            *Config
	continuationToken *string
	hasMorePages      bool
	firstPage         bool
}

// Paginate creates a paginator over the config's bucket and prefix.
func (l *Lister) Paginate(config *Config) *Paginator {
	return &Paginator{
		lister:    l,
		config:    config,
		firstPage: true,
	}
}

// HasMorePages returns true if there are more pages to fetch.
func (p *Paginator) HasMorePages() bool {
	return p.firstPage || p.hasMorePages
}

// NextPage fetches the next page of results.
func (p *Paginator) NextPage(ctx context.Context) (*Result, error) {
	input := p.lister.pageInput(p.config)
	if !p.firstPage && p.continuationToken != nil {
		input.ContinuationToken = p.continuationToken
	} else if p.firstPage && p.config.StartAfter != "" {
		input.StartAfter = aws.String(p.config.StartAfter)
	}

	output, err := p.lister.gw.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, err
	}

	p.firstPage = false
	p.hasMorePages = aws.ToBool(output.IsTruncated)
	p.continuationToken = output.NextContinuationToken

	return convertOutput(output), nil
}

// pageInput builds the request for one page of the config's listing.
func (l *Lister) pageInput(config *Config) *s3.ListObjectsV2Input {
	pageSize := config.MaxKeys
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(config.Bucket),
		Prefix:  aws.String(config.Prefix),
		MaxKeys: aws.Int32(pageSize),
	}
	if config.Delimiter != "" {
		input.Delimiter = aws.String(config.Delimiter)
	}

	return input
}

// isFolderMarker reports whether an entry is a zero-byte directory
// placeholder rather than a payload object.
func isFolderMarker(obj s3types.Object) bool {
	return obj.Size == 0 && strings.HasSuffix(obj.Key, "/")
}

// convertOutput converts backend page output to our Result type.
func convertOutput(output *s3.ListObjectsV2Output) *Result {
	result := &Result{
		Objects:        make([]s3types.Object, 0, len(output.Contents)),
		CommonPrefixes: make([]string, 0, len(output.CommonPrefixes)),
		IsTruncated:    aws.ToBool(output.IsTruncated),
		KeyCount:       int(aws.ToInt32(output.KeyCount)),
	}

	if output.NextContinuationToken != nil {
		result.ContinuationToken = *output.NextContinuationToken
	}

	for _, obj := range output.Contents {
		result.Objects = append(result.Objects, s3types.Object{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
			ETag:         aws.ToString(obj.ETag),
			StorageClass: string(obj.StorageClass),
		})
	}

	for _, prefix := range output.CommonPrefixes {
		result.CommonPrefixes = append(result.CommonPrefixes, aws.ToString(prefix.Prefix))
	}

	return result
}
