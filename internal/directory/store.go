package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when an employee id does not exist.
var ErrNotFound = errors.New("employee not found")

// Store persists employees in SQLite via bun.
type Store struct {
	db *bun.DB
}

// OpenStore opens (creating if needed) the SQLite database at path and
// ensures the employees table exists.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	sqldb, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if _, err := db.NewCreateTable().Model((*Employee)(nil)).IfNotExists().Exec(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create employees table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// List returns all employees ordered by name.
func (s *Store) List(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	if err := s.db.NewSelect().Model(&employees).Order("name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	if employees == nil {
		employees = []Employee{}
	}
	return employees, nil
}

// Get returns the employee with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Employee, error) {
	emp := new(Employee)
	err := s.db.NewSelect().Model(emp).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// Create inserts a new employee and returns it with a generated id.
func (s *Store) Create(ctx context.Context, input EmployeeInput) (*Employee, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	emp := &Employee{
		ID:         uuid.NewString(),
		Name:       input.Name,
		Role:       input.Role,
		Email:      input.Email,
		Phone:      input.Phone,
		Department: input.Department,
	}
	if _, err := s.db.NewInsert().Model(emp).Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return emp, nil
}

// Update overwrites the mutable fields of an existing employee.
func (s *Store) Update(ctx context.Context, id string, input EmployeeInput) (*Employee, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	emp := &Employee{
		ID:         id,
		Name:       input.Name,
		Role:       input.Role,
		Email:      input.Email,
		Phone:      input.Phone,
		Department: input.Department,
	}
	res, err := s.db.NewUpdate().Model(emp).WherePK().Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return emp, nil
}

// Delete removes the employee with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().Model((*Employee)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func validateInput(input EmployeeInput) error {
	var missing []string
	if input.Name == "" {
		missing = append(missing, "name")
	}
	if input.Role == "" {
		missing = append(missing, "role")
	}
	if input.Email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
