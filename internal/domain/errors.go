package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrProviderFailure = errors.New("provider failure")
	ErrPollTimeout     = errors.New("poll budget exceeded")
	ErrUpstreamAuth    = errors.New("upstream authentication failed")
)
