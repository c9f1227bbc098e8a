package handler

import (
	"context"
	"net/http"

	"github.com/iho/creditapproval/internal/adapter/http/dto"
	"github.com/iho/creditapproval/internal/domain"
	"github.com/iho/creditapproval/internal/usecase"
)

// CustomerService defines the behavior needed by CustomerHandler.
type CustomerService interface {
	RegisterCustomer(ctx context.Context, input usecase.RegisterCustomerInput) (*domain.Customer, error)
}

// CustomerHandler handles customer registration.
type CustomerHandler struct {
	customerUC CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerUC CustomerService) *CustomerHandler {
	return &CustomerHandler{customerUC: customerUC}
}

// Register creates a customer and returns its approved limit.
func (h *CustomerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	customer, err := h.customerUC.RegisterCustomer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to register customer", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.CustomerFromDomain(customer))
}
