package restapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"wallet_dashboard/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrAlreadyExists):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides internal details of 5xx errors from clients.
func publicMessage(status int, err error) string {
	switch status {
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusBadGateway:
		return "Upstream provider unavailable"
	case http.StatusInternalServerError:
		return "Internal server error"
	}
	if errors.Is(err, entity.ErrAlreadyExists) {
		return "Wallet already in favorites"
	}
	return strings.TrimPrefix(err.Error(), entity.ErrInvalidInput.Error()+": ")
}

func respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: publicMessage(status, err)})
}

// bindingError turns a gin binding failure into an ErrInvalidInput with a readable message.
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: malformed request body", entity.ErrInvalidInput)
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		if field == "address" {
			return fmt.Errorf("%w: wallet address is required", entity.ErrInvalidInput)
		}
		return fmt.Errorf("%w: %s is required", entity.ErrInvalidInput, field)
	case "eth_addr":
		return fmt.Errorf("%w: invalid Ethereum address format", entity.ErrInvalidInput)
	case "max":
		return fmt.Errorf("%w: %s must be at most %s characters", entity.ErrInvalidInput, field, fe.Param())
	default:
		return fmt.Errorf("%w: %s failed %s validation", entity.ErrInvalidInput, field, fe.Tag())
	}
}
