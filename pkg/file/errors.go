package file

import "errors"

var (
	ErrInvalidKey    = errors.New("invalid storage key")
	ErrInvalidConfig = errors.New("invalid storage configuration")
	ErrFileNotFound  = errors.New("file not found")

	ErrNilFileHeader      = errors.New("file header is nil")
	ErrFileTooLarge       = errors.New("file size exceeds maximum allowed size")
	ErrEmptyFile          = errors.New("file is empty")
	ErrMIMETypeNotAllowed = errors.New("MIME type is not allowed")

	ErrFailedToReadFile        = errors.New("failed to read file")
	ErrFailedToWriteFile       = errors.New("failed to write file")
	ErrFailedToDeleteFile      = errors.New("failed to delete file")
	ErrFailedToCreateDirectory = errors.New("failed to create directory")
	ErrFailedToLoadConfig      = errors.New("failed to load AWS config")

	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
	ErrOperationTimeout   = errors.New("operation timed out")
	ErrOperationCanceled  = errors.New("operation canceled")
)
