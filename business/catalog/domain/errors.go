package domain

import "github.com/fd1az/seller-scout/internal/apperror"

// FetchErrorKind distinguishes catalog failures so callers can offer the right remediation.
type FetchErrorKind string

const (
	FetchConnectivity  FetchErrorKind = "connectivity"
	FetchAuthorization FetchErrorKind = "authorization"
	FetchServer        FetchErrorKind = "server"
	FetchNotFound      FetchErrorKind = "not_found"
	FetchUnknown       FetchErrorKind = "unknown"
)

// ClassifyFetchError maps a catalog error to its kind.
func ClassifyFetchError(err error) FetchErrorKind {
	if err == nil {
		return ""
	}
	switch apperror.GetCode(err) {
	case apperror.CodeCatalogUnavailable, apperror.CodeCircuitOpen, apperror.CodeServiceTimeout, apperror.CodeRateLimitExceeded:
		return FetchConnectivity
	case apperror.CodeCatalogUnauthorized:
		return FetchAuthorization
	case apperror.CodeCatalogServerError:
		return FetchServer
	case apperror.CodeProductNotFound:
		return FetchNotFound
	default:
		return FetchUnknown
	}
}

// Remediation is a short user facing hint for the kind.
func (k FetchErrorKind) Remediation() string {
	switch k {
	case FetchConnectivity:
		return "check your connection and retry"
	case FetchAuthorization:
		return "sign in again or check the API token"
	case FetchServer:
		return "the catalog service failed, try again later"
	case FetchNotFound:
		return "the product no longer exists"
	default:
		return "unexpected error"
	}
}
