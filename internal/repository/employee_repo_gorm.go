package repository

import (
	"context"
	"errors"

	"github.com/FedyaB/restapi-server-spbstu/internal/infra"
	"github.com/FedyaB/restapi-server-spbstu/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var businessColumns = []string{"name", "surname", "position", "birthday", "salary"}

type employeeGormRepo struct{ db *gorm.DB }

// NewEmployeeGormRepository returns a repository over the postgres employees
// table created by infra.RunMigrations.
func NewEmployeeGormRepository(db *gorm.DB) EmployeeRepository {
	return &employeeGormRepo{db: db}
}

func (r *employeeGormRepo) List(ctx context.Context, page int, filter string) ([]model.Employee, error) {
	offset, ok := pageOffset(page)
	if !ok {
		return []model.Employee{}, nil
	}
	q := r.db.WithContext(ctx).Model(&model.Employee{})
	if filter != "" {
		q = q.Where("name = ? OR surname = ?", filter, filter)
	}
	list := make([]model.Employee, 0)
	err := q.Order("salary desc").Order("id asc").
		Offset(offset).
		Limit(PageSize).
		Find(&list).Error
	return list, err
}

func (r *employeeGormRepo) Get(ctx context.Context, key model.Key) (*model.Employee, error) {
	var e model.Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", key.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *employeeGormRepo) Exists(ctx context.Context, key model.Key) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Employee{}).Where("id = ?", key.ID).Count(&n).Error
	return n > 0, err
}

func (r *employeeGormRepo) NextID(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.WithContext(ctx).Raw("SELECT nextval('" + infra.EmployeeIDSequence + "')").Scan(&id).Error
	return id, err
}

func (r *employeeGormRepo) Create(ctx context.Context, e *model.Employee) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(e)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *employeeGormRepo) Modify(ctx context.Context, e *model.Employee) (bool, error) {
	columns := businessColumns
	if e.Salt != "" && e.Hash != "" {
		columns = append(append([]string{}, businessColumns...), "salt", "hash")
	}
	res := r.db.WithContext(ctx).Model(&model.Employee{}).
		Where("id = ?", e.ID).
		Select(columns).
		Updates(e)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *employeeGormRepo) Delete(ctx context.Context, key model.Key) (bool, error) {
	err := r.db.WithContext(ctx).Where("id = ?", key.ID).Delete(&model.Employee{}).Error
	return err == nil, err
}

func (r *employeeGormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
