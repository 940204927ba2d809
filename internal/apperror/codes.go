package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError       Code = "INTERNAL_ERROR"
	CodeModuleStartupFailed Code = "MODULE_STARTUP_FAILED"
	CodeUnknownError        Code = "UNKNOWN_ERROR"
)

// Seller research error codes
const (
	// Catalog backend errors
	CodeCatalogUnavailable  Code = "CATALOG_UNAVAILABLE"
	CodeCatalogUnauthorized Code = "CATALOG_UNAUTHORIZED"
	CodeCatalogServerError  Code = "CATALOG_SERVER_ERROR"
	CodeProductNotFound     Code = "PRODUCT_NOT_FOUND"
	CodeInvalidProduct      Code = "INVALID_PRODUCT"
	CodeFixtureLoadFailed   Code = "FIXTURE_LOAD_FAILED"

	// Change feed (WebSocket) errors
	CodeWebSocketConnectionError Code = "WEBSOCKET_CONNECTION_ERROR"
	CodeWebSocketClosed          Code = "WEBSOCKET_CLOSED"
	CodeWebSocketSendError       Code = "WEBSOCKET_SEND_ERROR"

	// Filter state errors
	CodeFilterStateCorrupt Code = "FILTER_STATE_CORRUPT"
	CodeFilterStateStore   Code = "FILTER_STATE_STORE_ERROR"
	CodeInvalidRange       Code = "INVALID_RANGE"
	CodeInvalidSessionID   Code = "INVALID_SESSION_ID"

	// Scoring errors
	CodeScoringFailed  Code = "SCORING_FAILED"
	CodeInvalidWeights Code = "INVALID_WEIGHTS"

	// Profit calculator errors
	CodeInvalidCostPrice    Code = "INVALID_COST_PRICE"
	CodeInvalidSellingPrice Code = "INVALID_SELLING_PRICE"

	// Circuit breaker errors
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
