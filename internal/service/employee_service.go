package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/FedyaB/restapi-server-spbstu/internal/apierror"
	"github.com/FedyaB/restapi-server-spbstu/internal/dto"
	"github.com/FedyaB/restapi-server-spbstu/internal/mapper"
	"github.com/FedyaB/restapi-server-spbstu/internal/model"
	"github.com/FedyaB/restapi-server-spbstu/internal/repository"
	"github.com/FedyaB/restapi-server-spbstu/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// EmployeeService implements the per-route contract of the employees
// resource. Every method checks its preconditions in route order and
// returns before touching the store when one fails.
type EmployeeService interface {
	List(ctx context.Context, q dto.ListQuery) (*mapper.EmployeeList, error)
	Get(ctx context.Context, rawKey string) (*mapper.Employee, error)
	Create(ctx context.Context, req dto.CreateEmployeeRequest) (*mapper.Ref, error)
	Update(ctx context.Context, rawKey string, identity *model.Key, body []byte) (*mapper.Ref, error)
	Delete(ctx context.Context, rawKey string, identity *model.Key) (*mapper.Linked, error)
}

type employeeService struct {
	repo     repository.EmployeeRepository
	auth     AuthService
	validate *validator.Validate
}

func NewEmployeeService(repo repository.EmployeeRepository, auth AuthService) EmployeeService {
	return &employeeService{repo: repo, auth: auth, validate: validation.NewValidator()}
}

func (s *employeeService) List(ctx context.Context, q dto.ListQuery) (*mapper.EmployeeList, error) {
	page := 1
	if q.Page != "" {
		if !validation.ValidPage(q.Page) {
			return nil, fmt.Errorf("%w: page must be a positive integer", apierror.ErrBadRequest)
		}
		page, _ = strconv.Atoi(q.Page)
	}

	filter := ""
	if q.Filter != "" {
		if !validation.ValidFilter(q.Filter) {
			return nil, fmt.Errorf("%w: filter must be a name", apierror.ErrBadRequest)
		}
		filter = model.NormalizeName(q.Filter)
	}

	list, err := s.repo.List(ctx, page, filter)
	if err != nil {
		return nil, err
	}
	wrapped := mapper.WrapEmployees(list, page, filter)
	return &wrapped, nil
}

func (s *employeeService) Get(ctx context.Context, rawKey string) (*mapper.Employee, error) {
	key, ok := model.KeyFromQuery(rawKey)
	if !ok {
		return nil, fmt.Errorf("%w: malformed employee id", apierror.ErrBadRequest)
	}
	e, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, notFound(err)
	}
	wrapped := mapper.WrapSingleEmployee(*e)
	return &wrapped, nil
}

func (s *employeeService) Create(ctx context.Context, req dto.CreateEmployeeRequest) (*mapper.Ref, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", apierror.ErrBadRequest, validation.Describe(err))
	}

	id, err := s.repo.NextID(ctx)
	if err != nil {
		return nil, err
	}
	e := req.EmployeeData.ToModel(id)
	if err := s.auth.SetPassword(&e.Credentials, req.Password); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &e)
	if err != nil {
		return nil, err
	}
	if !created {
		// unreachable while NextID never repeats an id
		return nil, fmt.Errorf("%w: employee %d already exists", apierror.ErrInternal, id)
	}

	log.Info().Int64("employee_id", id).Msg("employee created")
	ref := mapper.WrapEmployeeRef(model.KeyFromEntry(e))
	return &ref, nil
}

func (s *employeeService) Update(ctx context.Context, rawKey string, identity *model.Key, body []byte) (*mapper.Ref, error) {
	key, err := s.existingKey(ctx, rawKey)
	if err != nil {
		return nil, err
	}
	if !IsSameUser(identity, key) {
		return nil, fmt.Errorf("%w: an employee can only modify itself", apierror.ErrAccessDenied)
	}

	var req dto.UpdateEmployeeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON body", apierror.ErrBadRequest)
	}
	req.ID = &key.ID
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", apierror.ErrBadRequest, validation.Describe(err))
	}

	e := req.EmployeeData.ToModel(key.ID)
	modified, err := s.repo.Modify(ctx, &e)
	if err != nil {
		return nil, err
	}
	if !modified {
		// deleted between the existence check and the write
		return nil, fmt.Errorf("%w: employee %d", apierror.ErrNotFound, key.ID)
	}

	ref := mapper.WrapEmployeeRef(key)
	return &ref, nil
}

func (s *employeeService) Delete(ctx context.Context, rawKey string, identity *model.Key) (*mapper.Linked, error) {
	key, err := s.existingKey(ctx, rawKey)
	if err != nil {
		return nil, err
	}
	if !IsSameUser(identity, key) {
		return nil, fmt.Errorf("%w: an employee can only delete itself", apierror.ErrAccessDenied)
	}

	if _, err := s.repo.Delete(ctx, key); err != nil {
		return nil, err
	}

	log.Info().Int64("employee_id", key.ID).Msg("employee deleted")
	linked := mapper.WrapEmployeeDeletion(key)
	return &linked, nil
}

// existingKey parses the route key and checks that it is in the store.
func (s *employeeService) existingKey(ctx context.Context, rawKey string) (model.Key, error) {
	key, ok := model.KeyFromQuery(rawKey)
	if !ok {
		return model.Key{}, fmt.Errorf("%w: malformed employee id", apierror.ErrBadRequest)
	}
	exists, err := s.repo.Exists(ctx, key)
	if err != nil {
		return model.Key{}, err
	}
	if !exists {
		return model.Key{}, fmt.Errorf("%w: employee %d", apierror.ErrNotFound, key.ID)
	}
	return key, nil
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %v", apierror.ErrNotFound, err)
	}
	return err
}
