package errors

// Error code constants, format CATEGORY_DETAIL.
// Admin forms map these codes to banner messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthSessionExpired     = "AUTH_SESSION_EXPIRED"
	AuthSessionInvalid     = "AUTH_SESSION_INVALID"
	AuthTooManyAttempts    = "AUTH_TOO_MANY_ATTEMPTS"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationRequired      = "VALIDATION_REQUIRED"
	ValidationInvalidEnum   = "VALIDATION_INVALID_ENUM"
	ValidationPayload       = "VALIDATION_INVALID_PAYLOAD"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Pages (PAGE_) ====================
	PageNotFound      = "PAGE_NOT_FOUND"
	PageDefaultLocked = "PAGE_DEFAULT_LOCKED"
	PageSlugExists    = "PAGE_SLUG_EXISTS"

	// ==================== Catalog (CATALOG_) ====================
	ProductNotFound  = "PRODUCT_NOT_FOUND"
	ProductSlugTaken = "PRODUCT_SLUG_EXISTS"
	TagNotFound      = "TAG_NOT_FOUND"
	CategoryNotFound = "CATEGORY_NOT_FOUND"
	SectionNotFound  = "SECTION_NOT_FOUND"

	// ==================== Upload (UPLOAD_) ====================
	UploadMissingFile     = "UPLOAD_MISSING_FILE"
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"
	ImageNotFound         = "IMAGE_NOT_FOUND"

	// ==================== Translation (TRANSLATE_) ====================
	TranslateDisabled = "TRANSLATE_DISABLED"
	TranslateFailed   = "TRANSLATE_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
