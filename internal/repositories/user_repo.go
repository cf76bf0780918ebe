package repositories

import (
	"context"
	"time"

	"monktrader/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailOrProvider(ctx context.Context, email *string, providerUserID, provider string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (int64, error)
	TouchJWTStamps(ctx context.Context, userID int64, issuedAt, expiresAt time.Time) error
	UpdateProfile(ctx context.Context, userID int64, firstName, lastName, phoneNumber *string) error
	ListBlockedIDs(ctx context.Context) ([]int64, error)
}

type userRepo struct {
	db Database
}

func NewUserRepo(db Database) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, email, phone_number, firstname, lastname, provider, provider_user_id, is_blocked, jwt_iat, jwt_exp, created_at`

func (r *userRepo) scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.PhoneNumber, &user.FirstName, &user.LastName,
		&user.Provider, &user.ProviderUserID, &user.IsBlocked, &user.JWTIssuedAt, &user.JWTExpiresAt, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM mt_users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM mt_users WHERE LOWER(email) = LOWER($1)`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepo) FindByEmailOrProvider(ctx context.Context, email *string, providerUserID, provider string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM mt_users
		WHERE (email = $1 AND $1 IS NOT NULL)
		   OR (provider_user_id = $2 AND provider = $3)
		LIMIT 1
	`
	return r.scanUser(r.db.QueryRow(ctx, query, email, providerUserID, provider))
}

func (r *userRepo) Create(ctx context.Context, user *models.User) (int64, error) {
	query := `
		INSERT INTO mt_users (email, phone_number, firstname, lastname, provider, provider_user_id, is_blocked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, NOW())
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query, user.Email, user.PhoneNumber, user.FirstName, user.LastName,
		user.Provider, user.ProviderUserID).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *userRepo) TouchJWTStamps(ctx context.Context, userID int64, issuedAt, expiresAt time.Time) error {
	query := `UPDATE mt_users SET jwt_iat = $1, jwt_exp = $2 WHERE id = $3`
	_, err := r.db.Exec(ctx, query, issuedAt, expiresAt, userID)
	return err
}

func (r *userRepo) UpdateProfile(ctx context.Context, userID int64, firstName, lastName, phoneNumber *string) error {
	query := `
		UPDATE mt_users
		SET firstname = COALESCE($1, firstname),
		    lastname = COALESCE($2, lastname),
		    phone_number = COALESCE($3, phone_number)
		WHERE id = $4
	`
	_, err := r.db.Exec(ctx, query, firstName, lastName, phoneNumber, userID)
	return err
}

func (r *userRepo) ListBlockedIDs(ctx context.Context) ([]int64, error) {
	query := `SELECT id FROM mt_users WHERE is_blocked = TRUE`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
