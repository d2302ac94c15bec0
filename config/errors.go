package config

import "errors"

// Validation errors returned by Config.Validate.
var (
	ErrNoSiteURL      = errors.New("no site URL configured")
	ErrNoSelector     = errors.New("input and result selectors must be set")
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")
	ErrInvalidRate    = errors.New("invalid query rate: must be non-negative")
)
