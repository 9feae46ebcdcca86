// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("digits/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
// Datasets are streamed with ranged GETs; prediction files are streamed
// through the multipart uploader.
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Multipart uploads with CRC32C integrity checks
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
//   - DynamoDB-backed CURRENT pointer for concurrent publishers (DDBCommitStore)
package s3
