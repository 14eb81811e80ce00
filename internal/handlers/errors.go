package handlers

import (
	"errors"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/order"
)

// errorResponse maps a service error to the status and message shown to the operator
func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrMissingToken):
		return http.StatusUnauthorized, "Access token is not set"
	case errors.Is(err, models.ErrSubmissionInFlight):
		return http.StatusConflict, "This order is already being submitted"
	case errors.Is(err, models.ErrDraftChanged):
		return http.StatusConflict, "This order was already submitted or reset"
	case errors.Is(err, models.ErrNotLoaded):
		return http.StatusConflict, "Directory is not loaded"
	case errors.Is(err, models.ErrProductNotFound):
		return http.StatusNotFound, "Product not found"
	case errors.Is(err, models.ErrCustomerNotFound):
		return http.StatusNotFound, "Customer not found"
	case errors.Is(err, order.ErrLineItemNotFound):
		return http.StatusNotFound, "Product is not in the order"
	case errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrInvalidDiscount),
		errors.Is(err, order.ErrInvalidPrice),
		errors.Is(err, order.ErrInvalidPriority),
		errors.Is(err, order.ErrInvalidPayment):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrDirectoryLoad):
		return http.StatusBadGateway, "Failed to load directory"
	case errors.Is(err, models.ErrUnexpectedResponse):
		return http.StatusBadGateway, "Remote API returned an unexpected response"
	case errors.Is(err, models.ErrRemoteRejected):
		return http.StatusBadGateway, "Remote API rejected the request"
	case errors.Is(err, models.ErrNetworkFailure):
		return http.StatusBadGateway, "Remote API is unreachable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
