package handler

import (
	"net/http"

	"github.com/FedyaB/restapi-server-spbstu/internal/apierror"
	"github.com/FedyaB/restapi-server-spbstu/internal/validation"

	"github.com/gin-gonic/gin"
)

var validate = validation.NewValidator()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes a 400 envelope if either step fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, apierror.WithMessage(http.StatusBadRequest, "invalid JSON body"))
		return false
	}
	if err := validate.Struct(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, apierror.WithMessage(http.StatusBadRequest, validation.Describe(err)))
		return false
	}
	return true
}

// respondError writes the envelope for err. 5xx causes are attached to the
// context so ErrorHandler logs them; clients only see the status text.
func respondError(c *gin.Context, err error) {
	resp := apierror.FromError(err)
	if resp.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(resp.Status, resp)
}
