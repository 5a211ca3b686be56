package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrVendorNotFound      = errors.New("vendor not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrBillNotFound        = errors.New("vendor bill not found")
	ErrDuplicateBill       = errors.New("bill number already exists for this vendor")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("photo upload to storage failed")
)
