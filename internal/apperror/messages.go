package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError:       "Internal server error",
	CodeModuleStartupFailed: "Module failed to start",
	CodeUnknownError:        "An unknown error occurred",

	// Catalog backend errors
	CodeCatalogUnavailable:  "Product catalog is unreachable",
	CodeCatalogUnauthorized: "Not authorized to read the product catalog",
	CodeCatalogServerError:  "Product catalog returned an error",
	CodeProductNotFound:     "Product not found",
	CodeInvalidProduct:      "Invalid product record",
	CodeFixtureLoadFailed:   "Failed to load product fixture",

	// Change feed (WebSocket) errors
	CodeWebSocketConnectionError: "WebSocket connection error",
	CodeWebSocketClosed:          "WebSocket connection closed",
	CodeWebSocketSendError:       "Failed to send WebSocket message",

	// Filter state errors
	CodeFilterStateCorrupt: "Stored filter state is corrupt",
	CodeFilterStateStore:   "Filter state store failure",
	CodeInvalidRange:       "Range minimum exceeds maximum",
	CodeInvalidSessionID:   "Invalid session identifier",

	// Scoring errors
	CodeScoringFailed:  "Opportunity scoring failed",
	CodeInvalidWeights: "Scoring weights are invalid",

	// Profit calculator errors
	CodeInvalidCostPrice:    "Cost price must be positive",
	CodeInvalidSellingPrice: "Selling price must be positive",

	// Circuit breaker errors
	CodeCircuitOpen: "Circuit breaker is open",
}
