package server

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/shopkit/tradepost/internal/catalog/domain"
	channeldomain "github.com/shopkit/tradepost/internal/channel/domain"
	customerdomain "github.com/shopkit/tradepost/internal/customer/domain"
	customergroupdomain "github.com/shopkit/tradepost/internal/customergroup/domain"
	inventorydomain "github.com/shopkit/tradepost/internal/inventory/domain"
	locationdomain "github.com/shopkit/tradepost/internal/location/domain"
	orderdomain "github.com/shopkit/tradepost/internal/order/domain"
	organizationdomain "github.com/shopkit/tradepost/internal/organization/domain"
	reasondomain "github.com/shopkit/tradepost/internal/reason/domain"
	taxprofiledomain "github.com/shopkit/tradepost/internal/taxprofile/domain"
	taxratedomain "github.com/shopkit/tradepost/internal/taxrate/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

// fieldErrorsToValidation flattens the inventory validator's field map into
// the shared envelope, sorted by field so responses stay stable.
func fieldErrorsToValidation(fieldErrs inventorydomain.FieldErrors) *ValidationErrors {
	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := &ValidationErrors{Errors: make([]ValidationError, 0, len(fields))}
	for _, field := range fields {
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Code:    "invalid_" + field,
			Message: fieldErrs[field],
		})
	}
	return out
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog feeds the request logger's error_type/error_code
// fields without re-deciding the HTTP taxonomy.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 && payload.Errors[0].Code != "" {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isOrganizationValidationError(err),
		isTaxRateValidationError(err),
		isTaxProfileValidationError(err),
		isProductValidationError(err),
		isChannelValidationError(err),
		isLocationValidationError(err),
		isReasonValidationError(err),
		isCustomerGroupValidationError(err),
		isCustomerValidationError(err),
		isOrderValidationError(err),
		isInventoryValidationError(err):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, organizationdomain.ErrOrganizationExists),
		errors.Is(err, taxratedomain.ErrDuplicateName),
		errors.Is(err, taxprofiledomain.ErrDuplicateName),
		errors.Is(err, catalogdomain.ErrDuplicateSKU),
		errors.Is(err, channeldomain.ErrDuplicateCode),
		errors.Is(err, locationdomain.ErrDuplicateCode),
		errors.Is(err, reasondomain.ErrDuplicateName),
		errors.Is(err, customergroupdomain.ErrDuplicateName),
		errors.Is(err, orderdomain.ErrOrderNotEditable),
		errors.Is(err, inventorydomain.ErrSummaryBusy):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, taxratedomain.ErrTaxRateNotFound),
		errors.Is(err, taxprofiledomain.ErrProfileNotFound),
		errors.Is(err, catalogdomain.ErrProductNotFound),
		errors.Is(err, channeldomain.ErrChannelNotFound),
		errors.Is(err, locationdomain.ErrLocationNotFound),
		errors.Is(err, reasondomain.ErrReasonNotFound),
		errors.Is(err, customergroupdomain.ErrGroupNotFound),
		errors.Is(err, customerdomain.ErrCustomerNotFound),
		errors.Is(err, customerdomain.ErrContactNotFound),
		errors.Is(err, customerdomain.ErrAddressNotFound),
		errors.Is(err, customerdomain.ErrGroupNotFound),
		errors.Is(err, orderdomain.ErrOrderNotFound),
		errors.Is(err, orderdomain.ErrItemNotFound),
		errors.Is(err, orderdomain.ErrProductNotFound),
		errors.Is(err, orderdomain.ErrCustomerNotFound),
		errors.Is(err, orderdomain.ErrChannelNotFound),
		errors.Is(err, orderdomain.ErrLocationNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	switch code {
	case "invalid_request":
		return "request"
	case "empty_order":
		return "items"
	case "empty_seed", "mixed_seed", "invalid_seed_kind":
		return "kind"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "empty_order":
		return "order has no line items"
	case "empty_seed":
		return "seed payload has no entries"
	case "mixed_seed":
		return "seed payload mixes contacts and lists"
	default:
		return "invalid value"
	}
}
