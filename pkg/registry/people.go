package registry

import (
	"context"
	"fmt"

	"github.com/sigat/asset-registry/pkg/models"
)

// CreateDepartment persists a new department.
func (s *Store) CreateDepartment(ctx context.Context, d *models.Department) error {
	return createEntity(ctx, s, d, "department name already in use")
}

// GetDepartment loads a department by id.
func (s *Store) GetDepartment(id uint) (*models.Department, error) {
	return loadByID[models.Department](s, id)
}

// ListDepartments returns all departments ordered by name.
func (s *Store) ListDepartments() ([]models.Department, error) {
	var out []models.Department
	if err := s.db.Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return out, nil
}

// UpdateDepartment saves a department and records the diff.
func (s *Store) UpdateDepartment(ctx context.Context, d *models.Department) error {
	before, err := loadByID[models.Department](s, d.ID)
	if err != nil {
		return err
	}
	d.CreatedAt = before.CreatedAt
	return updateEntity(ctx, s, before, d, "department name already in use")
}

// DeleteDepartment removes a department.
func (s *Store) DeleteDepartment(ctx context.Context, id uint) error {
	d, err := loadByID[models.Department](s, id)
	if err != nil {
		return err
	}
	return deleteEntity(ctx, s, d)
}

// CreateEmployee persists a new employee. RUT and email are unique.
func (s *Store) CreateEmployee(ctx context.Context, e *models.Employee) error {
	return createEntity(ctx, s, e, "rut or email already in use")
}

// GetEmployee loads an employee with their department.
func (s *Store) GetEmployee(id uint) (*models.Employee, error) {
	return loadByID[models.Employee](s, id, "Department")
}

// ListEmployees returns all employees ordered by last name.
func (s *Store) ListEmployees() ([]models.Employee, error) {
	var out []models.Employee
	if err := s.db.Preload("Department").Order("last_name, first_name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return out, nil
}

// UpdateEmployee saves an employee and records the diff.
func (s *Store) UpdateEmployee(ctx context.Context, e *models.Employee) error {
	before, err := loadByID[models.Employee](s, e.ID)
	if err != nil {
		return err
	}
	e.CreatedAt = before.CreatedAt
	return updateEntity(ctx, s, before, e, "rut or email already in use")
}

// DeleteEmployee removes an employee. Assigned assets keep a null
// assignment via the foreign-key constraint.
func (s *Store) DeleteEmployee(ctx context.Context, id uint) error {
	e, err := loadByID[models.Employee](s, id)
	if err != nil {
		return err
	}
	return deleteEntity(ctx, s, e)
}

// CreateSystemUser persists a new staff account.
func (s *Store) CreateSystemUser(ctx context.Context, u *models.SystemUser) error {
	return createEntity(ctx, s, u, "username already in use")
}

// GetSystemUser loads a staff account by id.
func (s *Store) GetSystemUser(id uint) (*models.SystemUser, error) {
	return loadByID[models.SystemUser](s, id)
}

// ListSystemUsers returns all staff accounts ordered by username.
func (s *Store) ListSystemUsers() ([]models.SystemUser, error) {
	var out []models.SystemUser
	if err := s.db.Order("username").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list system users: %w", err)
	}
	return out, nil
}

// UpdateSystemUser saves a staff account and records the diff. The audit
// diff never contains the credential hash.
func (s *Store) UpdateSystemUser(ctx context.Context, u *models.SystemUser) error {
	before, err := loadByID[models.SystemUser](s, u.ID)
	if err != nil {
		return err
	}
	u.CreatedAt = before.CreatedAt
	return updateEntity(ctx, s, before, u, "username already in use")
}

// DeleteSystemUser removes a staff account. Audit history keeps the
// denormalized username.
func (s *Store) DeleteSystemUser(ctx context.Context, id uint) error {
	u, err := loadByID[models.SystemUser](s, id)
	if err != nil {
		return err
	}
	return deleteEntity(ctx, s, u)
}
