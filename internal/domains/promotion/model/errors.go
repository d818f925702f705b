package model

import "errors"

var (
	ErrInvalidPromoKind  = errors.New("kind must be 'percent' or 'amount'")
	ErrInvalidPromoValue = errors.New("value must be > 0")
	ErrPercentageTooHigh = errors.New("percent discount cannot exceed 100")
)

type ErrorCode string

const (
	// Validation errors (400/404/429)
	ErrCodePromoNotFound         ErrorCode = "PROMO_NOT_FOUND"          // 404
	ErrCodePromoNotStarted       ErrorCode = "PROMO_NOT_STARTED"        // 400
	ErrCodePromoExpired          ErrorCode = "PROMO_EXPIRED"            // 400
	ErrCodePromoNotApplicable    ErrorCode = "PROMO_NOT_APPLICABLE"     // 400
	ErrCodePromoMinCartNotMet    ErrorCode = "PROMO_MIN_CART_NOT_MET"   // 400
	ErrCodePromoUsageLimit       ErrorCode = "PROMO_USAGE_LIMIT"        // 400
	ErrCodePromoUserLimit        ErrorCode = "PROMO_USER_LIMIT"         // 400
	ErrCodeRateLimited           ErrorCode = "RATE_LIMITED"             // 429

	// Admin operation errors
	ErrCodePromoDuplicateCode ErrorCode = "VAL_DUPLICATE_CODE"           // 400
	ErrCodePromoCannotDelete  ErrorCode = "BIZ_CANNOT_DELETE_USED_PROMO" // 400

	// Validation errors (400)
	ErrCodeValidationFailed ErrorCode = "VAL_INVALID_INPUT" // 400

	// System errors (500)
	ErrCodeInternalError ErrorCode = "SYS_INTERNAL_ERROR" // 500
)

type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Predefined errors
var (
	ErrPromoNotFound = &AppError{
		Code:       ErrCodePromoNotFound,
		Message:    "invalid or expired code",
		HTTPStatus: 404,
	}

	ErrPromoNotStarted = &AppError{
		Code:       ErrCodePromoNotStarted,
		Message:    "code is not yet active",
		HTTPStatus: 400,
	}

	ErrPromoExpired = &AppError{
		Code:       ErrCodePromoExpired,
		Message:    "code has expired",
		HTTPStatus: 400,
	}

	ErrPromoNotApplicable = &AppError{
		Code:       ErrCodePromoNotApplicable,
		Message:    "code is not valid for this item",
		HTTPStatus: 400,
	}

	ErrPromoUsageLimit = &AppError{
		Code:       ErrCodePromoUsageLimit,
		Message:    "usage limit reached",
		HTTPStatus: 400,
	}

	ErrPromoUserLimit = &AppError{
		Code:       ErrCodePromoUserLimit,
		Message:    "per-user limit reached",
		HTTPStatus: 400,
	}

	ErrRateLimited = &AppError{
		Code:       ErrCodeRateLimited,
		Message:    "too many requests",
		HTTPStatus: 429,
	}

	ErrInternal = &AppError{
		Code:       ErrCodeInternalError,
		Message:    "internal error",
		HTTPStatus: 500,
	}
)
