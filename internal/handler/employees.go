package handler

import (
	"net/http"

	"github.com/FedyaB/restapi-server-spbstu/internal/apierror"
	"github.com/FedyaB/restapi-server-spbstu/internal/dto"
	"github.com/FedyaB/restapi-server-spbstu/internal/mapper"
	"github.com/FedyaB/restapi-server-spbstu/internal/middleware"
	"github.com/FedyaB/restapi-server-spbstu/internal/service"

	"github.com/gin-gonic/gin"
)

type EmployeesHandler struct{ svc service.EmployeeService }

func NewEmployeesHandler(svc service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{svc: svc}
}

// List godoc
// @Summary List employees, highest salary first
// @Tags employees
// @Produce json
// @Param page query int false "Page number, from 1"
// @Param filter query string false "Exact name or surname"
// @Success 200 {object} mapper.EmployeeList
// @Failure 400 {object} apierror.APIError
// @Router /employees [get]
func (h *EmployeesHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, apierror.New(http.StatusBadRequest))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get one employee
// @Tags employees
// @Produce json
// @Param id path int true "Employee id"
// @Success 200 {object} mapper.Employee
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /employees/{id} [get]
func (h *EmployeesHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Register an employee
// @Tags employees
// @Accept json
// @Produce json
// @Param body body dto.CreateEmployeeRequest true "Employee with password"
// @Success 201 {object} mapper.Ref
// @Failure 400 {object} apierror.APIError
// @Router /employees [post]
func (h *EmployeesHandler) Create(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary Replace the caller's own record
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Employee id"
// @Param body body dto.UpdateEmployeeRequest true "Employee"
// @Success 200 {object} mapper.Ref
// @Failure 400 {object} apierror.APIError
// @Failure 403 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /employees/{id} [put]
func (h *EmployeesHandler) Update(c *gin.Context) {
	// the body is decoded by the service after the key and identity checks
	body, err := c.GetRawData()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, apierror.New(http.StatusBadRequest))
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), c.Param("id"), middleware.GetIdentity(c), body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Delete the caller's own record
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Employee id"
// @Success 200 {object} mapper.Linked
// @Failure 400 {object} apierror.APIError
// @Failure 403 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /employees/{id} [delete]
func (h *EmployeesHandler) Delete(c *gin.Context) {
	resp, err := h.svc.Delete(c.Request.Context(), c.Param("id"), middleware.GetIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Index godoc
// @Summary Service entry point
// @Tags index
// @Produce json
// @Success 200 {object} mapper.Linked
// @Router / [get]
func Index(c *gin.Context) {
	c.JSON(http.StatusOK, mapper.WrapIndex())
}

// NotFound answers unrouted paths with the JSON envelope.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, apierror.New(http.StatusNotFound))
}
