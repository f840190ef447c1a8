package postgres

import (
	"context"

	"github.com/smartclinic/booking-api/internal/model"
)

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM admins
		WHERE username = $1
	`
	var admin model.Admin
	if err := r.db.GetContext(ctx, &admin, query, username); err != nil {
		return nil, translateErr(err)
	}
	return &admin, nil
}
