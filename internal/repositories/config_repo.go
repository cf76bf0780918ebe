package repositories

import "context"

type ConfigRepository interface {
	GetGSTPercent(ctx context.Context) (float64, error)
}

type configRepo struct {
	db Database
}

func NewConfigRepo(db Database) ConfigRepository {
	return &configRepo{db: db}
}

func (r *configRepo) GetGSTPercent(ctx context.Context) (float64, error) {
	var gst float64
	err := r.db.QueryRow(ctx, `SELECT gst FROM mt_config LIMIT 1`).Scan(&gst)
	if err != nil {
		return 0, err
	}
	return gst, nil
}
