package ingestors

import (
	"fmt"

	"event-analytics/internal/shared/svcerrors"
)

// IngestionService errors
const (
	codeValidationFailed = "CAP_1000"
	codeBatchTooLarge    = "CAP_1001"
	codeUnknownWriteKey  = "CAP_1100"
	codeOriginNotAllowed = "CAP_1101"
	codeRateLimited      = "CAP_1200"

	codeInternalProjectStoreFailed = "CAP_9000"
)

// errValidationFailed covers malformed envelopes: whole-batch client errors
// where no per-item processing is attempted.
func errValidationFailed(msg string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeValidationFailed, msg, cause)
}

// errBatchTooLarge rejects oversized batches wholesale; nothing is silently
// dropped.
func errBatchTooLarge(msg string) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeBatchTooLarge, msg, nil)
}

// errUnknownWriteKey rejects the batch before normalization when the write
// key resolves to no project.
func errUnknownWriteKey(cause error) *svcerrors.ServiceError {
	return svcerrors.NewUnauthenticatedError(codeUnknownWriteKey, "unknown write key", cause)
}

// errOriginNotAllowed rejects submissions from origins outside the
// project's allow-list.
func errOriginNotAllowed(origin string) *svcerrors.ServiceError {
	return svcerrors.NewPermissionDeniedError(codeOriginNotAllowed, fmt.Sprintf("origin %q not allowed for this project", origin), nil)
}

// ErrRateLimited is used by the HTTP layer when a write key exhausts its
// intake budget.
func ErrRateLimited() *svcerrors.ServiceError {
	return svcerrors.NewResourceLimitedError(codeRateLimited, "rate limit exceeded for write key", nil)
}

// errInternalProjectStoreFailed covers store failures while resolving the
// project, before any per-item outcome exists.
func errInternalProjectStoreFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalProjectStoreFailed, fmt.Errorf("projectStoreFailed: %w", cause))
}
