package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/staffdeck/directory-api/internal/employee"
	"github.com/staffdeck/directory-api/internal/employee/entity"
)

// EmployeeRepo provides data access for the employees table using sqlx.
type EmployeeRepo struct {
	db *sqlx.DB
}

func NewEmployeeRepo(db *sqlx.DB) *EmployeeRepo { return &EmployeeRepo{db: db} }

const employeeColumns = `id, first_name, last_name, email, phone, department, title, location,
	avatar, custom_avatar, hire_date, salary, manager, is_active, created_at, updated_at`

// List returns the filtered page ordered newest-first plus the total match
// count before pagination. KSUIDs sort by creation time, so id gives a
// stable tie-break within equal timestamps.
func (r *EmployeeRepo) List(ctx context.Context, f entity.Filter) ([]entity.Employee, int, error) {
	where, args, limit, offset := BuildListQuery(f)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM employees"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}

	q := fmt.Sprintf("SELECT %s FROM employees%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		employeeColumns, where, len(args)+1, len(args)+2)

	rows := []entity.Employee{}
	if err := r.db.SelectContext(ctx, &rows, q, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("select employees: %w", err)
	}
	return rows, total, nil
}

// FindByID fetches one employee or employee.ErrNotFound.
func (r *EmployeeRepo) FindByID(ctx context.Context, id string) (*entity.Employee, error) {
	q := fmt.Sprintf("SELECT %s FROM employees WHERE id=$1", employeeColumns)
	var row entity.Employee
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		if isNoRows(err) {
			return nil, employee.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// FindByEmail looks up by email case-insensitively. Returns
// employee.ErrNotFound when no record matches.
func (r *EmployeeRepo) FindByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	q := fmt.Sprintf("SELECT %s FROM employees WHERE LOWER(email)=LOWER($1)", employeeColumns)
	var row entity.Employee
	if err := r.db.GetContext(ctx, &row, q, email); err != nil {
		if isNoRows(err) {
			return nil, employee.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// FindAll returns every employee row; used by the statistics aggregator.
func (r *EmployeeRepo) FindAll(ctx context.Context) ([]entity.Employee, error) {
	q := fmt.Sprintf("SELECT %s FROM employees ORDER BY created_at DESC, id DESC", employeeColumns)
	rows := []entity.Employee{}
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("select all employees: %w", err)
	}
	return rows, nil
}

const insertEmployee = `INSERT INTO employees
	(id, first_name, last_name, email, phone, department, title, location,
	 avatar, custom_avatar, hire_date, salary, manager, is_active, created_at, updated_at)
	VALUES (:id, :first_name, :last_name, :email, :phone, :department, :title, :location,
	 :avatar, :custom_avatar, :hire_date, :salary, :manager, :is_active, :created_at, :updated_at)`

// Insert persists a new employee. A unique_violation on the email index is
// translated to employee.ErrDuplicateEmail so the service-layer existence
// check stays a fast path, not the integrity backstop.
func (r *EmployeeRepo) Insert(ctx context.Context, e *entity.Employee) error {
	if _, err := r.db.NamedExecContext(ctx, insertEmployee, e); err != nil {
		return translateConflict(err)
	}
	return nil
}

// InsertBatch bulk-inserts seed records in one statement.
func (r *EmployeeRepo) InsertBatch(ctx context.Context, list []entity.Employee) error {
	if len(list) == 0 {
		return nil
	}
	if _, err := r.db.NamedExecContext(ctx, insertEmployee, list); err != nil {
		return translateConflict(err)
	}
	return nil
}

// Update persists the merged record by id.
func (r *EmployeeRepo) Update(ctx context.Context, e *entity.Employee) error {
	const q = `UPDATE employees SET
		first_name=:first_name, last_name=:last_name, email=:email, phone=:phone,
		department=:department, title=:title, location=:location,
		avatar=:avatar, custom_avatar=:custom_avatar, salary=:salary,
		manager=:manager, is_active=:is_active, updated_at=:updated_at
		WHERE id=:id`
	res, err := r.db.NamedExecContext(ctx, q, e)
	if err != nil {
		return translateConflict(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return employee.ErrNotFound
	}
	return nil
}

// Delete hard-deletes by id.
func (r *EmployeeRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM employees WHERE id=$1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return employee.ErrNotFound
	}
	return nil
}

// Count returns the total number of employee rows.
func (r *EmployeeRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM employees"); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *EmployeeRepo) Departments(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "department")
}

func (r *EmployeeRepo) Titles(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "title")
}

func (r *EmployeeRepo) Locations(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "location")
}

// distinct returns the sorted set of non-null values for a column. The
// column name always comes from the fixed callers above, never from input.
func (r *EmployeeRepo) distinct(ctx context.Context, column string) ([]string, error) {
	q := fmt.Sprintf("SELECT DISTINCT %s FROM employees WHERE %s IS NOT NULL ORDER BY %s ASC", column, column, column)
	values := []string{}
	if err := r.db.SelectContext(ctx, &values, q); err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	return values, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func translateConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return employee.ErrDuplicateEmail
	}
	return err
}
