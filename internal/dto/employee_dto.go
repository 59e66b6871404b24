package dto

import "github.com/FedyaB/restapi-server-spbstu/internal/model"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// EmployeeData is the business part of an employee body. Salary is a pointer
// so that an explicit 0 passes "required".
type EmployeeData struct {
	Name     string `json:"name"     validate:"required,empname"`
	Surname  string `json:"surname"  validate:"required,empname"`
	Position string `json:"position" validate:"required,position"`
	Birthday string `json:"birthday" validate:"required,birthday"`
	Salary   *int64 `json:"salary"   validate:"required,salary"`
}

// CreateEmployeeRequest is the POST /employees body.
type CreateEmployeeRequest struct {
	EmployeeData
	Password string `json:"password" validate:"required,password"`
}

// UpdateEmployeeRequest is the PUT /employees/:id body. ID is optional and
// always overwritten by the route key.
type UpdateEmployeeRequest struct {
	ID *int64 `json:"id" validate:"omitempty,employeeid"`
	EmployeeData
}

// ToModel builds a normalized employee from the body.
func (d EmployeeData) ToModel(id int64) model.Employee {
	var salary int64
	if d.Salary != nil {
		salary = *d.Salary
	}
	return model.NormalizeNames(model.Employee{
		ID:       id,
		Name:     d.Name,
		Surname:  d.Surname,
		Position: d.Position,
		Birthday: d.Birthday,
		Salary:   salary,
	})
}

// ListQuery holds the raw GET /employees query parameters.
type ListQuery struct {
	Page   string `form:"page"`
	Filter string `form:"filter"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// EmployeeResponse is an employee without credential material.
type EmployeeResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Position string `json:"position"`
	Birthday string `json:"birthday"`
	Salary   int64  `json:"salary"`
}

// NewEmployeeResponse strips salt and hash off e.
func NewEmployeeResponse(e model.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:       e.ID,
		Name:     e.Name,
		Surname:  e.Surname,
		Position: e.Position,
		Birthday: e.Birthday,
		Salary:   e.Salary,
	}
}
