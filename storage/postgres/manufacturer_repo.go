package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxipark/pkg/logger"
	"taxipark/pkg/models"
	"taxipark/storage"
)

type manufacturerRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewManufacturerRepo(db *pgxpool.Pool, log logger.ILogger) storage.IManufacturerStorage {
	return &manufacturerRepo{db: db, log: log}
}

func (r *manufacturerRepo) Create(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	var created models.Manufacturer
	query := `
		INSERT INTO manufacturers (name, country)
		VALUES ($1, $2)
		RETURNING id, name, country, created_at
	`
	err := r.db.QueryRow(ctx, query, m.Name, m.Country).Scan(
		&created.ID, &created.Name, &created.Country, &created.CreatedAt,
	)
	if err != nil {
		r.log.Error("failed to create manufacturer", logger.Error(err))
		return nil, err
	}
	return &created, nil
}

func (r *manufacturerRepo) Update(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	var updated models.Manufacturer
	query := `
		UPDATE manufacturers SET name = $2, country = $3
		WHERE id = $1
		RETURNING id, name, country, created_at
	`
	err := r.db.QueryRow(ctx, query, m.ID, m.Name, m.Country).Scan(
		&updated.ID, &updated.Name, &updated.Country, &updated.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.log.Error("failed to update manufacturer", logger.Int64("id", m.ID), logger.Error(err))
		return nil, err
	}
	return &updated, nil
}

func (r *manufacturerRepo) GetByID(ctx context.Context, id int64) (*models.Manufacturer, error) {
	var m models.Manufacturer
	query := `SELECT id, name, country, created_at FROM manufacturers WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.Country, &m.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.log.Error("failed to get manufacturer by id", logger.Error(err))
		return nil, err
	}
	return &m, nil
}

func (r *manufacturerRepo) GetAll(ctx context.Context) ([]*models.Manufacturer, error) {
	list, _, err := r.GetList(ctx, models.ListRequest{})
	return list, err
}

func (r *manufacturerRepo) GetList(ctx context.Context, req models.ListRequest) ([]*models.Manufacturer, int, error) {
	pattern := likePattern(req.Search)

	var total int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM manufacturers WHERE name ILIKE $1`, pattern).Scan(&total)
	if err != nil {
		r.log.Error("failed to count manufacturers", logger.Error(err))
		return nil, 0, err
	}

	query := `
		SELECT id, name, country, created_at FROM manufacturers
		WHERE name ILIKE $1
		ORDER BY name, id
		LIMIT NULLIF($2::int, 0) OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, pattern, req.Limit, req.Offset)
	if err != nil {
		r.log.Error("failed to list manufacturers", logger.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var list []*models.Manufacturer
	for rows.Next() {
		var m models.Manufacturer
		if err := rows.Scan(&m.ID, &m.Name, &m.Country, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, &m)
	}
	return list, total, rows.Err()
}

func (r *manufacturerRepo) Delete(ctx context.Context, id int64) error {
	// cars has ON DELETE CASCADE so the manufacturer's cars go with it
	_, err := r.db.Exec(ctx, `DELETE FROM manufacturers WHERE id = $1`, id)
	return err
}

func (r *manufacturerRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM manufacturers").Scan(&count)
	return count, err
}
