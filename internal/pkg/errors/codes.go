package errors

import "net/http"

// Validation: never reach the network layer
var (
	ErrMissingCoordinates = New(
		"MISSING_COORDINATES",
		"Please enter latitude and longitude",
		KindValidation,
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		KindValidation,
		http.StatusBadRequest,
	)

	ErrInvalidRadius = New(
		"INVALID_RADIUS",
		"Radius must be between 1 and 100 km",
		KindValidation,
		http.StatusBadRequest,
	)

	ErrMissingVendorID = New(
		"MISSING_VENDOR_ID",
		"Unable to load products: vendor id is missing.",
		KindValidation,
		http.StatusBadRequest,
	)

	ErrInvalidVendorID = New(
		"INVALID_VENDOR_ID",
		"Unable to load products: invalid vendor id.",
		KindValidation,
		http.StatusBadRequest,
	)

	ErrInvalidProductID = New(
		"INVALID_PRODUCT_ID",
		"Unable to load reviews: invalid product id.",
		KindValidation,
		http.StatusBadRequest,
	)

	ErrInvalidRating = New(
		"INVALID_RATING",
		"Rating must be between 1 and 5",
		KindValidation,
		http.StatusBadRequest,
	)

	ErrInvalidTransition = New(
		"INVALID_TRANSITION",
		"Action is not available at the current level",
		KindValidation,
		http.StatusConflict,
	)

	ErrNoSelection = New(
		"NO_SELECTION",
		"Nothing is selected at this position",
		KindValidation,
		http.StatusNotFound,
	)

	ErrDirectionsUnavailable = New(
		"DIRECTIONS_UNAVAILABLE",
		"Vendor location is unavailable for directions",
		KindValidation,
		http.StatusUnprocessableEntity,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		KindValidation,
		http.StatusBadRequest,
	)
)

var (
	ErrUnauthenticated = New(
		"UNAUTHENTICATED",
		"Please login to add a review",
		KindUnauthenticated,
		http.StatusUnauthorized,
	)

	ErrInvalidToken = New(
		"INVALID_TOKEN",
		"Session token could not be read",
		KindUnauthenticated,
		http.StatusUnauthorized,
	)
)

// Backend / transport failures. Message is replaced with the backend's
// {error} payload when one is present.
var (
	ErrBackend = New(
		"BACKEND_ERROR",
		"Request to the directory backend failed",
		KindNetwork,
		http.StatusBadGateway,
	)

	ErrNetwork = New(
		"NETWORK_ERROR",
		"Directory backend is unreachable",
		KindNetwork,
		http.StatusBadGateway,
	)
)

// Degraded mode: optional capabilities
var (
	ErrPermissionDenied = New(
		"GEOLOCATION_PERMISSION_DENIED",
		"Unable to get your location. Please enter coordinates manually.",
		KindDegraded,
		http.StatusOK,
	)

	ErrLocationUnavailable = New(
		"GEOLOCATION_UNAVAILABLE",
		"Unable to get your location. Please enter coordinates manually.",
		KindDegraded,
		http.StatusOK,
	)

	ErrMapCredentialMissing = New(
		"MAP_CREDENTIAL_MISSING",
		"Map is unavailable: no access token configured",
		KindDegraded,
		http.StatusOK,
	)

	ErrMapLoadFailed = New(
		"MAP_LOAD_FAILED",
		"Map is unavailable: mapping library failed to load",
		KindDegraded,
		http.StatusOK,
	)
)

var (
	ErrScreenNotFound = New(
		"SCREEN_NOT_FOUND",
		"Screen session not found",
		KindValidation,
		http.StatusNotFound,
	)

	ErrSessionStore = New(
		"SESSION_STORE_ERROR",
		"Session store operation failed",
		KindInternal,
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		KindInternal,
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		KindInternal,
		http.StatusInternalServerError,
	)
)

// ErrSuperseded marks a response that lost to a newer request of the same
// kind. It is never shown to the user.
var ErrSuperseded = New(
	"SUPERSEDED",
	"Result superseded by a newer request",
	KindInternal,
	http.StatusConflict,
)
