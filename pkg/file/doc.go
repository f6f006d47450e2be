// Package file stores uploaded logo images on the local filesystem or in
// Amazon S3 (and S3-compatible services such as MinIO).
//
// Both backends implement Storage, which addresses objects by a relative,
// slash-separated key. Keys are normalized and any ".." segment is rejected
// with ErrInvalidKey, so a key can never escape the configured directory or
// bucket prefix.
//
// # Usage
//
// Validate the upload first. The content type is sniffed from the bytes;
// the client-supplied name and Content-Type header are ignored:
//
//	fh := r.MultipartForm.File["logo"][0]
//	up, err := file.ValidateLogo(fh)
//	if err != nil {
//		return err // ErrFileTooLarge, ErrEmptyFile, ErrMIMETypeNotAllowed
//	}
//
//	obj, err := storage.Save(ctx, "codes/42/logo-"+id+up.Extension(), up.ContentType, up.Data)
//
// Local storage writes through a temporary file and rename. Handler serves
// stored files when no CDN sits in front:
//
//	storage, err := file.NewLocalStorage(file.LocalConfig{Dir: "./data/logos", BaseURL: "/logos/"})
//	r.Mount("/logos", storage.Handler())
//
// S3 storage accepts static credentials or falls back to the default AWS
// credential chain:
//
//	storage, err := file.NewS3Storage(ctx, file.S3Config{
//		Bucket:         "permaqr-logos",
//		Region:         "us-east-1",
//		Endpoint:       "http://minio:9000",
//		ForcePathStyle: true,
//	}, file.WithS3UploadTimeout(30*time.Second))
//
// # Error Handling
//
// S3 failures are mapped to ErrAccessDenied, ErrBucketNotFound,
// ErrServiceUnavailable, ErrOperationTimeout and ErrOperationCanceled.
// Deleting a key that does not exist succeeds on both backends.
package file
