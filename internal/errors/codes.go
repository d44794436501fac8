package errors

// Error codes returned in the "error" field of the response envelope.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to localized messages.
const (
	// auth
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthAccountInactive    = "AUTH_ACCOUNT_INACTIVE"
	AuthWrongPassword      = "AUTH_WRONG_PASSWORD"

	// authorization
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzOwnerOnly = "AUTHZ_OWNER_ONLY"

	// validation
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationTooShort     = "VALIDATION_TOO_SHORT"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// resources
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// locale routing
	LocaleNotSupported = "LOCALE_NOT_SUPPORTED"

	// catalog
	CategoryNotFound      = "CATEGORY_NOT_FOUND"
	CategoryNameExists    = "CATEGORY_NAME_EXISTS"
	CategoryInvalidParent = "CATEGORY_INVALID_PARENT"
	ProductNotFound       = "PRODUCT_NOT_FOUND"
	ReorderIncompleteSet  = "REORDER_INCOMPLETE_SET"
	ReorderMixedGroups    = "REORDER_MIXED_GROUPS"
	SearchQueryTooShort   = "SEARCH_QUERY_TOO_SHORT"
	CurrencyNotSupported  = "CURRENCY_NOT_SUPPORTED"

	// users
	UserNotFound  = "USER_NOT_FOUND"
	UserLastOwner = "USER_LAST_OWNER"

	// setup
	SetupAlreadyCompleted = "SETUP_ALREADY_COMPLETED"

	// uploads
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadNotConfigured   = "UPLOAD_NOT_CONFIGURED"

	// internal
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalDatabase    = "INTERNAL_DATABASE_ERROR"
)
