package client

import (
	"context"
	"errors"
	"strings"
)

// ErrorCategory is a stable label for error classification in logs and metrics.
type ErrorCategory string

const (
	ErrorCategoryTimeout        ErrorCategory = "timeout"
	ErrorCategoryNetwork        ErrorCategory = "network"
	ErrorCategoryRemote         ErrorCategory = "remote"
	ErrorCategoryRateLimited    ErrorCategory = "rate_limited"
	ErrorCategoryDecode         ErrorCategory = "decode"
	ErrorCategoryInvalidRequest ErrorCategory = "invalid_request"
	ErrorCategoryUnknown        ErrorCategory = "unknown"
)

// CategorizeError maps an error to a stable ErrorCategory.
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrorCategoryTimeout
	}

	if errors.Is(err, ErrInvalidCoordinate) {
		return ErrorCategoryInvalidRequest
	}

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		switch fetchErr.Kind {
		case KindDecode:
			return ErrorCategoryDecode
		case KindRemote:
			if fetchErr.Status == 429 {
				return ErrorCategoryRateLimited
			}
			return ErrorCategoryRemote
		case KindTransport:
			if strings.Contains(fetchErr.Error(), "timeout") {
				return ErrorCategoryTimeout
			}
			return ErrorCategoryNetwork
		}
	}

	errStr := err.Error()
	if strings.Contains(errStr, "timeout") {
		return ErrorCategoryTimeout
	}
	if strings.Contains(errStr, "connection") || strings.Contains(errStr, "network") {
		return ErrorCategoryNetwork
	}
	if strings.Contains(errStr, "parse") || strings.Contains(errStr, "unmarshal") {
		return ErrorCategoryDecode
	}

	return ErrorCategoryUnknown
}
