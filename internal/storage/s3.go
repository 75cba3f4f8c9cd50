// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// keyPrefix is prepended to every object key in the bucket.
const keyPrefix = "questions/"

// S3 stores images in an S3-compatible bucket using path-style addressing
// (required by CEPH/Hetzner and MinIO).
type S3 struct {
	s3     *s3.Client
	bucket string
}

// NewS3 creates an S3 backend with static credentials.
func NewS3(endpoint, region, accessKey, secretKey, bucket string) (*S3, error) {
	if endpoint == "" || accessKey == "" || bucket == "" {
		return nil, fmt.Errorf("s3 storage: endpoint, access key and bucket are required")
	}

	client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(strings.TrimRight(endpoint, "/")),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
		// Most S3-compatible stores reject the SDK's default trailing checksums.
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		ResponseChecksumValidation: aws.ResponseChecksumValidationWhenRequired,
	})

	return &S3{s3: client, bucket: bucket}, nil
}

// Save uploads an object with public-read ACL so a CDN can serve it directly.
func (b *S3) Save(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if err := ValidateName(filename); err != nil {
		return "", err
	}
	key := keyPrefix + filename
	_, err := b.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", b.bucket, key, err)
	}
	return PathFor(filename), nil
}

// Delete removes an object. S3 treats deleting a missing key as success.
func (b *S3) Delete(ctx context.Context, storedPath string) error {
	name, err := Basename(storedPath)
	if err != nil {
		return err
	}
	key := keyPrefix + name
	_, err = b.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("s3 delete %s/%s: %w", b.bucket, key, err)
	}
	return nil
}

// Open streams an object from the bucket.
func (b *S3) Open(ctx context.Context, filename string) (io.ReadCloser, string, error) {
	if err := ValidateName(filename); err != nil {
		return nil, "", err
	}
	key := keyPrefix + filename
	out, err := b.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, "", ErrNotExist
		}
		return nil, "", fmt.Errorf("s3 download %s/%s: %w", b.bucket, key, err)
	}
	contentType := aws.ToString(out.ContentType)
	if contentType == "" {
		contentType = ContentTypeFor(filename)
	}
	return out.Body, contentType, nil
}

func isNotFound(err error) bool {
	var noKey *s3types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
