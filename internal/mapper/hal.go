// Package mapper wraps API payloads with HAL hyperlinks so clients can
// discover the next page and the create/update/delete affordances.
package mapper

import (
	"math"
	"net/url"
	"strconv"

	"github.com/FedyaB/restapi-server-spbstu/internal/dto"
	"github.com/FedyaB/restapi-server-spbstu/internal/model"
)

// EmployeesRoute is the collection path.
const EmployeesRoute = "/employees"

// Link is a HAL link object.
type Link struct {
	Href      string `json:"href"`
	Templated bool   `json:"templated,omitempty"`
	Name      string `json:"name,omitempty"`
}

// Links maps a relation name to its link.
type Links map[string]Link

// EmployeeList is the GET /employees body.
type EmployeeList struct {
	Page     int              `json:"page"`
	Embedded EmbeddedEmployee `json:"_embedded"`
	Links    Links            `json:"_links"`
}

type EmbeddedEmployee struct {
	Employees []dto.EmployeeResponse `json:"employees"`
}

// Employee is a single employee with its links.
type Employee struct {
	dto.EmployeeResponse
	Links Links `json:"_links"`
}

// Ref is the body returned after create and update.
type Ref struct {
	ID    int64 `json:"id"`
	Links Links `json:"_links"`
}

// Linked is a body made of links only (delete result, index page).
type Linked struct {
	Links Links `json:"_links"`
}

func employeePath(key model.Key) string {
	return EmployeesRoute + "/" + strconv.FormatInt(key.ID, 10)
}

func listPath(page int, filter string) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if filter != "" {
		q.Set("filter", filter)
	}
	return EmployeesRoute + "?" + q.Encode()
}

func itemLinks(key model.Key) Links {
	self := employeePath(key)
	return Links{
		"self":   {Href: self},
		"put":    {Href: self},
		"delete": {Href: self},
	}
}

// WrapEmployees wraps one page of the employee list.
func WrapEmployees(list []model.Employee, page int, filter string) EmployeeList {
	items := make([]dto.EmployeeResponse, 0, len(list))
	for _, e := range list {
		items = append(items, dto.NewEmployeeResponse(e))
	}
	template := EmployeesRoute + "/{id}"
	links := Links{
		"self":            {Href: listPath(page, filter)},
		"filter":          {Href: EmployeesRoute + "{?filter}", Templated: true},
		"post":            {Href: EmployeesRoute},
		"employees":       {Href: template, Templated: true, Name: "employee"},
		"employee:put":    {Href: template, Templated: true},
		"employee:delete": {Href: template, Templated: true},
	}
	// the last representable page has no successor
	if page < math.MaxInt {
		links["next"] = Link{Href: listPath(page+1, filter)}
	}
	return EmployeeList{
		Page:     page,
		Embedded: EmbeddedEmployee{Employees: items},
		Links:    links,
	}
}

// WrapSingleEmployee wraps a full employee.
func WrapSingleEmployee(e model.Employee) Employee {
	return Employee{
		EmployeeResponse: dto.NewEmployeeResponse(e),
		Links:            itemLinks(model.KeyFromEntry(e)),
	}
}

// WrapEmployeeRef wraps the key of a created or updated employee.
func WrapEmployeeRef(key model.Key) Ref {
	return Ref{ID: key.ID, Links: itemLinks(key)}
}

// WrapEmployeeDeletion wraps the key of a deleted employee.
func WrapEmployeeDeletion(key model.Key) Linked {
	return Linked{Links: Links{"self": {Href: employeePath(key)}}}
}

// WrapIndex describes the service entry points.
func WrapIndex() Linked {
	return Linked{Links: Links{
		"self":      {Href: "/"},
		"employees": {Href: EmployeesRoute},
		"login":     {Href: "/users/login"},
	}}
}
