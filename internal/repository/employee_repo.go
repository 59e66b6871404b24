package repository

import (
	"context"
	"errors"
	"math"

	"github.com/FedyaB/restapi-server-spbstu/internal/model"
)

// PageSize is the number of employees on one list page.
const PageSize = 25

// ErrNotFound is returned by Get when no record matches the key.
var ErrNotFound = errors.New("employee not found")

// EmployeeRepository defines the data access contract for employees.
// Services depend on this interface, not on a concrete storage driver.
//
// Every method returns only after the backend durably reflects its effect.
type EmployeeRepository interface {
	// List returns page (1-based) of the employees ordered by salary
	// descending, id ascending. A non-empty filter keeps the records whose
	// name or surname equals it. Pages past the end are empty.
	List(ctx context.Context, page int, filter string) ([]model.Employee, error)
	Get(ctx context.Context, key model.Key) (*model.Employee, error)
	Exists(ctx context.Context, key model.Key) (bool, error)
	// NextID allocates an id that no other caller will receive.
	NextID(ctx context.Context) (int64, error)
	// Create persists e only if its key is absent and reports whether it did.
	Create(ctx context.Context, e *model.Employee) (bool, error)
	// Modify replaces the business fields of an existing record, keeping its
	// credentials, and reports whether the record existed.
	Modify(ctx context.Context, e *model.Employee) (bool, error)
	// Delete removes the record if present. Deleting an absent key succeeds.
	Delete(ctx context.Context, key model.Key) (bool, error)
	Ping(ctx context.Context) error
}

// pageOffset returns the number of rows before page. ok is false when the
// offset does not fit in an int, so the page can only be empty.
func pageOffset(page int) (offset int, ok bool) {
	if page < 1 {
		page = 1
	}
	if page-1 > math.MaxInt/PageSize {
		return 0, false
	}
	return (page - 1) * PageSize, true
}

func pageBounds(page, total int) (from, to int) {
	from, ok := pageOffset(page)
	if !ok || from > total {
		return total, total
	}
	to = from + PageSize
	if to > total {
		to = total
	}
	return from, to
}
