package repository

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/FedyaB/restapi-server-spbstu/internal/infra"
	"github.com/FedyaB/restapi-server-spbstu/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileRepo(t *testing.T) EmployeeRepository {
	t.Helper()
	store, err := infra.OpenDocStore(filepath.Join(t.TempDir(), "db.json"), EmployeesTable)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewEmployeeFileRepository(store)
}

func employee(id, salary int64, name, surname string) *model.Employee {
	return &model.Employee{
		ID: id, Name: name, Surname: surname,
		Position: model.PositionMiddle, Birthday: "01/01/1990", Salary: salary,
		Credentials: model.Credentials{Salt: "00", Hash: "ff"},
	}
}

func seed(t *testing.T, repo EmployeeRepository, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 1; i <= n; i++ {
		id, err := repo.NextID(ctx)
		require.NoError(t, err)
		ok, err := repo.Create(ctx, employee(id, int64((i*37)%11*1000), "Name", fmt.Sprintf("Surname%c", 'a'+i%26)))
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestFileRepo_CreateIsAtMostOncePerKey(t *testing.T) {
	repo := newFileRepo(t)
	ctx := context.Background()

	ok, err := repo.Create(ctx, employee(1, 100, "Ted", "Smith"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Create(ctx, employee(1, 999, "Bob", "Jones"))
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.Get(ctx, model.Key{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, "Ted", got.Name)
	assert.Equal(t, int64(100), got.Salary)
}

func TestFileRepo_ModifyAbsentKeyWritesNothing(t *testing.T) {
	repo := newFileRepo(t)
	ctx := context.Background()

	ok, err := repo.Modify(ctx, employee(5, 1, "Ted", "Smith"))
	require.NoError(t, err)
	assert.False(t, ok)

	exists, err := repo.Exists(ctx, model.Key{ID: 5})
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFileRepo_ModifyKeepsCredentials(t *testing.T) {
	repo := newFileRepo(t)
	ctx := context.Background()
	_, err := repo.Create(ctx, employee(1, 100, "Ted", "Smith"))
	require.NoError(t, err)

	upd := employee(1, 500, "Edward", "Smith")
	upd.Credentials = model.Credentials{}
	upd.Position = model.PositionLead
	ok, err := repo.Modify(ctx, upd)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.Get(ctx, model.Key{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, "Edward", got.Name)
	assert.Equal(t, model.PositionLead, got.Position)
	assert.Equal(t, int64(500), got.Salary)
	assert.Equal(t, "00", got.Salt)
	assert.Equal(t, "ff", got.Hash)
}

func TestFileRepo_DeleteIsIdempotent(t *testing.T) {
	repo := newFileRepo(t)
	ctx := context.Background()

	ok, err := repo.Delete(ctx, model.Key{ID: 9})
	require.NoError(t, err)
	assert.True(t, ok)
	exists, err := repo.Exists(ctx, model.Key{ID: 9})
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.Create(ctx, employee(9, 1, "Ted", "Smith"))
	require.NoError(t, err)
	ok, err = repo.Delete(ctx, model.Key{ID: 9})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.Get(ctx, model.Key{ID: 9})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileRepo_NextIDSkipsExistingRows(t *testing.T) {
	repo := newFileRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, employee(3, 1, "Ted", "Smith"))
	require.NoError(t, err)

	id, err := repo.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)

	id, err = repo.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
}

func TestFileRepo_PaginationReconstructsOrderedSet(t *testing.T) {
	repo := newFileRepo(t)
	ctx := context.Background()
	seed(t, repo, 60)

	var all []model.Employee
	for page := 1; ; page++ {
		list, err := repo.List(ctx, page, "")
		require.NoError(t, err)
		assert.LessOrEqual(t, len(list), PageSize)
		if len(list) == 0 {
			break
		}
		all = append(all, list...)
	}

	require.Len(t, all, 60)
	seen := map[int64]bool{}
	for i, e := range all {
		assert.False(t, seen[e.ID], "duplicate id %d", e.ID)
		seen[e.ID] = true
		if i > 0 {
			assert.GreaterOrEqual(t, all[i-1].Salary, e.Salary)
			if all[i-1].Salary == e.Salary {
				assert.Less(t, all[i-1].ID, e.ID)
			}
		}
	}
}

func TestFileRepo_OutOfRangePageIsEmpty(t *testing.T) {
	repo := newFileRepo(t)
	seed(t, repo, 10)

	list, err := repo.List(context.Background(), 2, "")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestFileRepo_HugePageIsEmpty(t *testing.T) {
	repo := newFileRepo(t)
	seed(t, repo, 3)

	for _, page := range []int{368934881474191034, math.MaxInt / PageSize, math.MaxInt} {
		list, err := repo.List(context.Background(), page, "")
		require.NoError(t, err, "page %d", page)
		assert.NotNil(t, list)
		assert.Empty(t, list, "page %d", page)
	}
}

func TestPageOffset(t *testing.T) {
	off, ok := pageOffset(1)
	assert.True(t, ok)
	assert.Zero(t, off)

	off, ok = pageOffset(3)
	assert.True(t, ok)
	assert.Equal(t, 2*PageSize, off)

	_, ok = pageOffset(math.MaxInt)
	assert.False(t, ok)
	_, ok = pageOffset(368934881474191034)
	assert.False(t, ok)
}

func TestFileRepo_FilterMatchesNameOrSurname(t *testing.T) {
	repo := newFileRepo(t)
	ctx := context.Background()
	_, _ = repo.Create(ctx, employee(1, 10, "Ted", "Smith"))
	_, _ = repo.Create(ctx, employee(2, 30, "Smith", "Jones"))
	_, _ = repo.Create(ctx, employee(3, 20, "Bob", "Brown"))

	list, err := repo.List(ctx, 1, "Smith")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)
	assert.Equal(t, int64(1), list[1].ID)

	list, err = repo.List(ctx, 1, "Nobody")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFileRepo_HonorsCancelledContext(t *testing.T) {
	repo := newFileRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Create(ctx, employee(1, 1, "Ted", "Smith"))
	assert.ErrorIs(t, err, context.Canceled)
}
