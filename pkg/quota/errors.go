package quota

import "errors"

var (
	ErrEmptyConnectionURL = errors.New("quota: empty connection URL")
	ErrFailedToParseURL   = errors.New("quota: failed to parse connection URL")
	ErrConnectionFailed   = errors.New("quota: failed to establish connection")
	ErrHealthcheckFailed  = errors.New("quota: healthcheck failed")
	ErrUnknownCountField  = errors.New("quota: unknown notification count field")
	ErrUnknownStatusField = errors.New("quota: unknown annual limit status field")
	ErrCommandFailed      = errors.New("quota: redis command failed")
)
