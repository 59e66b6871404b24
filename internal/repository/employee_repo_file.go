package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/FedyaB/restapi-server-spbstu/internal/infra"
	"github.com/FedyaB/restapi-server-spbstu/internal/model"
)

// EmployeesTable is the document-store table holding employee rows.
const EmployeesTable = "employees"

type employeeFileRepo struct{ store *infra.DocStore }

// NewEmployeeFileRepository returns a repository over a document store that
// has the employees table.
func NewEmployeeFileRepository(store *infra.DocStore) EmployeeRepository {
	return &employeeFileRepo{store: store}
}

func decodeRows(rows []json.RawMessage) ([]model.Employee, error) {
	out := make([]model.Employee, 0, len(rows))
	for i, raw := range rows {
		var e model.Employee
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("decode %s row %d: %w", EmployeesTable, i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *employeeFileRepo) all(tx *infra.Tx) ([]model.Employee, error) {
	return decodeRows(tx.Rows(EmployeesTable))
}

// indexOf returns the row position of key, or -1.
func indexOf(list []model.Employee, key model.Key) int {
	for i := range list {
		if model.KeyFromEntry(list[i]) == key {
			return i
		}
	}
	return -1
}

func (r *employeeFileRepo) List(ctx context.Context, page int, filter string) ([]model.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var list []model.Employee
	err := r.store.View(func(tx *infra.Tx) error {
		all, err := r.all(tx)
		if err != nil {
			return err
		}
		list = all[:0]
		for _, e := range all {
			if filter == "" || e.Name == filter || e.Surname == filter {
				list = append(list, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Salary != list[j].Salary {
			return list[i].Salary > list[j].Salary
		}
		return list[i].ID < list[j].ID
	})
	from, to := pageBounds(page, len(list))
	return list[from:to:to], nil
}

func (r *employeeFileRepo) Get(ctx context.Context, key model.Key) (*model.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var found *model.Employee
	err := r.store.View(func(tx *infra.Tx) error {
		all, err := r.all(tx)
		if err != nil {
			return err
		}
		if i := indexOf(all, key); i >= 0 {
			found = &all[i]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

func (r *employeeFileRepo) Exists(ctx context.Context, key model.Key) (bool, error) {
	_, err := r.Get(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (r *employeeFileRepo) NextID(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var id int64
	err := r.store.Update(func(tx *infra.Tx) error {
		all, err := r.all(tx)
		if err != nil {
			return err
		}
		// rows written by other tools may be ahead of the sequence
		var highest int64
		for _, e := range all {
			if e.ID > highest {
				highest = e.ID
			}
		}
		if err := tx.AdvanceSequence(EmployeesTable, highest); err != nil {
			return err
		}
		id, err = tx.NextSequence(EmployeesTable)
		return err
	})
	return id, err
}

func (r *employeeFileRepo) Create(ctx context.Context, e *model.Employee) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	created := false
	err := r.store.Update(func(tx *infra.Tx) error {
		all, err := r.all(tx)
		if err != nil {
			return err
		}
		if indexOf(all, model.KeyFromEntry(*e)) >= 0 {
			return nil
		}
		raw, err := json.Marshal(e)
		if err != nil {
			return err
		}
		rows := tx.Rows(EmployeesTable)
		next := make([]json.RawMessage, len(rows), len(rows)+1)
		copy(next, rows)
		created = true
		return tx.SetRows(EmployeesTable, append(next, raw))
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *employeeFileRepo) Modify(ctx context.Context, e *model.Employee) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	modified := false
	err := r.store.Update(func(tx *infra.Tx) error {
		all, err := r.all(tx)
		if err != nil {
			return err
		}
		i := indexOf(all, model.KeyFromEntry(*e))
		if i < 0 {
			return nil
		}

		updated := all[i]
		updated.Name = e.Name
		updated.Surname = e.Surname
		updated.Position = e.Position
		updated.Birthday = e.Birthday
		updated.Salary = e.Salary
		if e.Salt != "" && e.Hash != "" {
			updated.Credentials = e.Credentials
		}

		raw, err := json.Marshal(updated)
		if err != nil {
			return err
		}
		rows := tx.Rows(EmployeesTable)
		next := make([]json.RawMessage, len(rows))
		copy(next, rows)
		next[i] = raw
		modified = true
		return tx.SetRows(EmployeesTable, next)
	})
	if err != nil {
		return false, err
	}
	return modified, nil
}

func (r *employeeFileRepo) Delete(ctx context.Context, key model.Key) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	err := r.store.Update(func(tx *infra.Tx) error {
		all, err := r.all(tx)
		if err != nil {
			return err
		}
		i := indexOf(all, key)
		if i < 0 {
			return nil
		}
		rows := tx.Rows(EmployeesTable)
		next := make([]json.RawMessage, 0, len(rows)-1)
		next = append(next, rows[:i]...)
		next = append(next, rows[i+1:]...)
		return tx.SetRows(EmployeesTable, next)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *employeeFileRepo) Ping(_ context.Context) error {
	return r.store.Ping()
}
