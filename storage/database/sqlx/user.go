package sqlxrepos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core"
	"github.com/ShinzTer/phys-diary-sub000/core/user"
)

const userColumns = `id, name, COALESCE(username, '') AS username, COALESCE(email, '') AS email,
	role, is_active, password_hash, created_at, updated_at, last_login`

// blank usernames and emails are stored as NULL to keep them out of the unique constraints
const userValues = `:id, :name, NULLIF(:username, ''), NULLIF(:email, ''),
	:role, :is_active, :password_hash, :created_at, :updated_at, :last_login`

var (
	userConstraints = map[string]error{
		"users_username_key": user.ErrUsernameExists,
		"users_email_key":    user.ErrEmailExists,
	}

	userOrderingFields = []string{"name", "username", "email", "role", "is_active", "created_at", "last_login"}
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) mapErr(err error, msg string) error {
	if e := constraintErr(err, userConstraints); e != nil {
		return e
	}
	return errors.Wrap(err, msg)
}

func (repo *userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	var cond conditions
	cond.add("(LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?))", username, email)
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		cond.add("id NOT IN (?)", ids)
	}

	var users []user.User
	q := "SELECT " + userColumns + " FROM users" + cond.where() + " LIMIT 2"
	if err := selectIn(ctx, repo.db, &users, q, cond.args...); err != nil {
		return errors.Wrap(err, "checking user uniqueness")
	}
	for _, u := range users {
		if username != "" && strings.EqualFold(u.Username, username) {
			return user.ErrUsernameExists
		}
		if email != "" && strings.EqualFold(u.Email, email) {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == "" {
		usr.ID = user.NewID()
	}
	q := "INSERT INTO users (id, name, username, email, role, is_active, password_hash, created_at, updated_at, last_login) " +
		"VALUES (" + userValues + ")"
	if _, err := repo.db.NamedExecContext(ctx, q, usr); err != nil {
		return user.User{}, repo.mapErr(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) QueryUsers(ctx context.Context, filter *user.QueryFilter, ordering []core.DBOrdering) ([]user.User, error) {
	var cond conditions

	if filter != nil {
		// users with Name, Username or Email matching the search keyword
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			cond.add("(name ILIKE ? OR username ILIKE ? OR email ILIKE ?)", val, val, val)
		}
		if len(filter.Roles) > 0 {
			cond.add("role IN (?)", filter.Roles)
		}
		if filter.IsActive != nil {
			cond.add("is_active = ?", *filter.IsActive)
		}
		if !filter.CreatedFrom.IsZero() {
			cond.add("created_at >= ?", filter.CreatedFrom.UTC())
		}
		if !filter.CreatedTo.IsZero() {
			cond.add("created_at <= ?", filter.CreatedTo.UTC())
		}
	}

	orderBy := "created_at DESC, id"
	if ord := core.OrderBy(ordering, userOrderingFields...); ord != "" {
		orderBy = ord + ", " + orderBy
	}

	users := make([]user.User, 0)
	q := "SELECT " + userColumns + " FROM users" + cond.where() + " ORDER BY " + orderBy
	if err := selectIn(ctx, repo.db, &users, q, cond.args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return users, nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	var cond conditions

	switch {
	case filter.ID != "":
		if _, err := uuid.Parse(filter.ID); err != nil {
			return user.User{}, user.ErrNotFound
		}
		cond.add("id = ?", filter.ID)
	case filter.Username != "":
		cond.add("username = ?", filter.Username)
	case filter.Email != "":
		cond.add("email = ?", filter.Email)
	case len(filter.UsernameOrEmail) > 0:
		var email string
		uname := filter.UsernameOrEmail[0]
		if len(filter.UsernameOrEmail) == 2 {
			email = filter.UsernameOrEmail[1]
		}
		if email == "" {
			email = uname
		} else if uname == "" {
			uname = email
		}
		if uname == "" {
			return user.User{}, user.ErrNotFound
		}
		cond.add("(username = ? OR email = ?)", uname, email)
	default:
		return user.User{}, user.ErrNotFound
	}

	var usr user.User
	q := repo.db.Rebind("SELECT " + userColumns + " FROM users" + cond.where() + " LIMIT 1")
	if err := repo.db.GetContext(ctx, &usr, q, cond.args...); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "finding user")
	}
	return usr, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := `UPDATE users SET name = :name, username = NULLIF(:username, ''), email = NULLIF(:email, ''),
		role = :role, is_active = :is_active, password_hash = :password_hash,
		updated_at = :updated_at, last_login = :last_login
		WHERE id = :id`
	if err := namedUpdate(ctx, repo.db, q, usr, user.ErrNotFound); err != nil {
		if err == user.ErrNotFound {
			return user.User{}, err
		}
		return user.User{}, repo.mapErr(err, "updating user")
	}
	return usr, nil
}

func (repo *userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == "" {
		return repo.CreateUser(ctx, usr)
	}
	q := "INSERT INTO users (id, name, username, email, role, is_active, password_hash, created_at, updated_at, last_login) " +
		"VALUES (" + userValues + ") " +
		`ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, username = EXCLUDED.username, email = EXCLUDED.email,
		role = EXCLUDED.role, is_active = EXCLUDED.is_active, password_hash = EXCLUDED.password_hash,
		updated_at = EXCLUDED.updated_at, last_login = EXCLUDED.last_login`
	if _, err := repo.db.NamedExecContext(ctx, q, usr); err != nil {
		return user.User{}, repo.mapErr(err, "upserting user")
	}
	return usr, nil
}

// DeleteUsers relies on the foreign keys to delete the profiles and unset the record authors.
func (repo *userRepository) DeleteUsers(ctx context.Context, ids ...string) error {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	q, args, err := sqlx.In("DELETE FROM users WHERE id IN (?)", valid)
	if err != nil {
		return errors.Wrap(err, "deleting users")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
