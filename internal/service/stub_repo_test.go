package service

import (
	"context"
	"sort"
	"sync"

	"github.com/FedyaB/restapi-server-spbstu/internal/model"
	"github.com/FedyaB/restapi-server-spbstu/internal/repository"
)

// ── In-memory Repository Stub ─────────────────────────────────────────────────

type stubEmployeeRepo struct {
	mu     sync.Mutex
	rows   map[int64]model.Employee
	nextID int64
	writes int
}

func newStubRepo() *stubEmployeeRepo {
	return &stubEmployeeRepo{rows: make(map[int64]model.Employee)}
}

func (r *stubEmployeeRepo) List(_ context.Context, page int, filter string) ([]model.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]model.Employee, 0, len(r.rows))
	for _, e := range r.rows {
		if filter == "" || e.Name == filter || e.Surname == filter {
			list = append(list, e)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Salary != list[j].Salary {
			return list[i].Salary > list[j].Salary
		}
		return list[i].ID < list[j].ID
	})
	if page-1 >= len(list)/repository.PageSize+1 {
		return []model.Employee{}, nil
	}
	from := (page - 1) * repository.PageSize
	if from >= len(list) {
		return []model.Employee{}, nil
	}
	to := min(from+repository.PageSize, len(list))
	return list[from:to], nil
}

func (r *stubEmployeeRepo) Get(_ context.Context, key model.Key) (*model.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[key.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *stubEmployeeRepo) Exists(_ context.Context, key model.Key) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[key.ID]
	return ok, nil
}

func (r *stubEmployeeRepo) NextID(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	return r.nextID, nil
}

func (r *stubEmployeeRepo) Create(_ context.Context, e *model.Employee) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[e.ID]; ok {
		return false, nil
	}
	r.rows[e.ID] = *e
	r.writes++
	return true, nil
}

func (r *stubEmployeeRepo) Modify(_ context.Context, e *model.Employee) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.rows[e.ID]
	if !ok {
		return false, nil
	}
	upd := *e
	if upd.Salt == "" {
		upd.Credentials = old.Credentials
	}
	r.rows[e.ID] = upd
	r.writes++
	return true, nil
}

func (r *stubEmployeeRepo) Delete(_ context.Context, key model.Key) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[key.ID]; ok {
		delete(r.rows, key.ID)
		r.writes++
	}
	return true, nil
}

func (r *stubEmployeeRepo) Ping(_ context.Context) error { return nil }
