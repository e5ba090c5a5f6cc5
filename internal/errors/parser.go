package errors

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

// ErrorInfo pairs a code with a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps store and validation errors to a code and message without leaking
// driver details. context names the operation, e.g. "create product".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong, please try again later",
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return ErrorInfo{
			Code:    ValidationPayload,
			Message: verrs.Error(),
		}
	}

	errStrLower := strings.ToLower(err.Error())

	// postgres 23505 / sqlite UNIQUE constraint failed
	if strings.Contains(errStrLower, "duplicate key") ||
		strings.Contains(errStrLower, "unique constraint") ||
		errors.Is(err, gorm.ErrDuplicatedKey) {
		return parseDuplicateKeyError(errStrLower, context)
	}

	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "The record is still referenced by other content",
		}
	}

	if strings.Contains(errStrLower, "not null constraint") || strings.Contains(errStrLower, "violates not-null") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "An upstream service is unavailable, please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string, context string) ErrorInfo {
	if strings.Contains(errLower, "slug") {
		switch {
		case strings.Contains(context, "page"):
			return ErrorInfo{Code: PageSlugExists, Message: "This slug is already used by another page"}
		case strings.Contains(context, "product"):
			return ErrorInfo{Code: ProductSlugTaken, Message: "This slug is already used by another product"}
		}
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "This slug is already in use"}
	}
	if strings.Contains(errLower, "storage_key") {
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "An image with this key already exists"}
	}
	if strings.Contains(errLower, "username") {
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "This username is already taken"}
	}
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "The record already exists",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "catalog") || strings.Contains(contextLower, "category"):
		return "Catalog category not found"
	case strings.Contains(contextLower, "page"):
		return "Page not found"
	case strings.Contains(contextLower, "section"):
		return "Section not found"
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "tag"):
		return "Tag not found"
	case strings.Contains(contextLower, "image"):
		return "Image not found"
	}
	return "The requested record was not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Failed to create the record, please try again later"
	case strings.Contains(contextLower, "update"):
		return "Failed to save changes, please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete the record, please try again later"
	case strings.Contains(contextLower, "upload"):
		return "Failed to upload the file, please try again later"
	}
	return "Something went wrong, please try again later"
}

// ParseAndRespond parses err and writes the failure envelope.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		OK:    false,
		Error: errorInfo.Message,
		Code:  errorInfo.Code,
	})
}
