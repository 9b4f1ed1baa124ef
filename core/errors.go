package core

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

const (
	WebhookErrorValidation   = "WEBHOOK_VALIDATION"
	WebhookErrorUnauthorized = "WEBHOOK_UNAUTHORIZED"
	WebhookErrorDependency   = "WEBHOOK_DEPENDENCY"
	WebhookErrorInternal     = "WEBHOOK_INTERNAL"
)

// Stages of a message whose failure produces a dependency error.
const (
	StageGenerate = "generate"
	StageDeliver  = "deliver"
)

func NewValidationError(message string, metadata map[string]any) error {
	return newWebhookError(nil, message, goerrors.CategoryBadInput, http.StatusNotFound, WebhookErrorValidation, metadata)
}

func NewAuthorizationError(message string) error {
	return newWebhookError(nil, message, goerrors.CategoryAuth, http.StatusForbidden, WebhookErrorUnauthorized, nil)
}

// NewDependencyError records which message of the batch failed and where it
// was going, so the batch can be replayed by hand.
func NewDependencyError(cause error, stage string, index int, destination string) error {
	return newWebhookError(cause, "message processing failed at "+stage, goerrors.CategoryExternal, http.StatusInternalServerError, WebhookErrorDependency, map[string]any{
		"stage":       stage,
		"index":       index,
		"destination": destination,
	})
}

func NewUnexpectedError(cause error, message string) error {
	return newWebhookError(cause, message, goerrors.CategoryInternal, http.StatusInternalServerError, WebhookErrorInternal, nil)
}

func newWebhookError(source error, message string, category goerrors.Category, code int, textCode string, metadata map[string]any) error {
	var err *goerrors.Error
	if source == nil {
		err = goerrors.New(message, category)
	} else {
		err = goerrors.Wrap(source, category, message)
	}
	err = err.WithCode(code).WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

// StatusCode maps an error to the HTTP status returned to the webhook caller.
// Anything that is not one of our envelopes is unexpected and maps to 500.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.Code != 0 {
		return rich.Code
	}
	return http.StatusInternalServerError
}

func TextCode(err error) string {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode
	}
	return WebhookErrorInternal
}
