package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeMissingSession     = "MISSING_SESSION"
	ErrCodeLoginRequired      = "LOGIN_REQUIRED"
	ErrCodeOutOfStock         = "OUT_OF_STOCK"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeEmptyCart          = "EMPTY_CART"
	ErrCodeMissingShipping    = "MISSING_SHIPPING"
	ErrCodeMissingPayment     = "MISSING_PAYMENT"
	ErrCodeUnknownShipping    = "UNKNOWN_SHIPPING"
	ErrCodeUnknownPayment     = "UNKNOWN_PAYMENT"
	ErrCodePaymentFailed      = "PAYMENT_FAILED"
	ErrCodeCheckoutClosed     = "CHECKOUT_CLOSED"
	ErrCodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors. Messages are shown to the shopper as-is.
var (
	ErrLoginRequired      = NewDomainError(ErrCodeLoginRequired, "Debes iniciar sesión para continuar.")
	ErrOutOfStock         = NewDomainError(ErrCodeOutOfStock, "Lo sentimos, el producto está agotado.")
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "Producto no encontrado.")
	ErrProductUnspecified = NewDomainError(ErrCodeMissingField, "Producto no especificado.")
	ErrEmptyCart          = NewDomainError(ErrCodeEmptyCart, "Tu carrito está vacío.")
	ErrMissingShipping    = NewDomainError(ErrCodeMissingShipping, "Por favor, selecciona una opción de envío.")
	ErrMissingPayment     = NewDomainError(ErrCodeMissingPayment, "Por favor, selecciona un método de pago.")
	ErrUnknownShipping    = NewDomainError(ErrCodeUnknownShipping, "La opción de envío no existe.")
	ErrUnknownPayment     = NewDomainError(ErrCodeUnknownPayment, "El método de pago no existe.")
	ErrPaymentFailed      = NewDomainError(ErrCodePaymentFailed, "Simulación de pago fallida por error bancario. Compra cancelada.")
	ErrCheckoutClosed     = NewDomainError(ErrCodeCheckoutClosed, "La compra ya fue finalizada.")
	ErrCatalogUnavailable = NewDomainError(ErrCodeCatalogUnavailable, "Ocurrió un error al cargar los productos.")
)
