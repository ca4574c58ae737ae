package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrRecordNotFound      = errors.New("record not found or expired")
	ErrNoFragments         = errors.New("no extraction fragments supplied")
	ErrInvalidFragments    = errors.New("fragments payload does not match expected format")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrExtractionFailed    = errors.New("document extraction failed")
	ErrExtractorDisabled   = errors.New("document extraction service is not configured")
	ErrUnsupportedFormat   = errors.New("unsupported export format")
	ErrSourceNotArchived   = errors.New("source document was not archived")
)
