package errors

// Error code constants, format CATEGORY_SPECIFIC_DETAIL. The storefront maps
// these onto user-facing messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED" // login required
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Cart (CART_) ====================
	CartLineNotFound        = "CART_LINE_NOT_FOUND"
	CartConfirmRequired     = "CART_CONFIRM_REQUIRED"     // delete without confirmation
	CartIncrementRestricted = "CART_INCREMENT_RESTRICTED" // add-as-increment outside the cart view
	CartSyncFailed          = "CART_SYNC_FAILED"          // remote mutation failed after optimistic apply

	// ==================== Catalog (CATALOG_) ====================
	CatalogNotFound     = "CATALOG_NOT_FOUND"
	CatalogCreateFailed = "CATALOG_CREATE_FAILED"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Upstream / generic ====================
	UpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	ResourceNotFound    = "RESOURCE_NOT_FOUND"
	InternalServerError = "INTERNAL_SERVER_ERROR"
)
