package database

import "context"

const userColumns = "id, email, full_name, hashed_password, role, created_at"

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.HashedPassword, &u.Role, &u.CreatedAt)
	return u, err
}

// GetUserByEmail returns the user with the given email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

type UpsertUserParams struct {
	Email          string
	FullName       string
	HashedPassword string
	Role           string
}

// UpsertUser creates a user or refreshes an existing one by email. Used by
// the seed command.
func (q *Queries) UpsertUser(ctx context.Context, arg UpsertUserParams) (User, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO users (email, full_name, hashed_password, role)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (email) DO UPDATE SET full_name = $2, hashed_password = $3, role = $4
		 RETURNING `+userColumns,
		arg.Email, arg.FullName, arg.HashedPassword, arg.Role)
	return scanUser(row)
}
