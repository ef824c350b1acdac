package services

import "errors"

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	ErrOutOfStock      = errors.New("product is out of stock")
	ErrSizeRequired    = errors.New("size selection required")
	ErrInvalidSize     = errors.New("size not offered for product")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrLineNotFound    = errors.New("cart line not found")

	ErrMissingFile  = errors.New("no prescription file chosen")
	ErrFileTooLarge = errors.New("prescription file too large")
)
