package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxipark/pkg/logger"
	"taxipark/pkg/models"
	"taxipark/storage"
)

const driverColumns = `id, username, password_hash, first_name, last_name, license_number, is_active, created_at, updated_at`

type driverRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewDriverRepo(db *pgxpool.Pool, log logger.ILogger) storage.IDriverStorage {
	return &driverRepo{db: db, log: log}
}

func scanDriver(row pgx.Row) (*models.Driver, error) {
	var d models.Driver
	err := row.Scan(
		&d.ID, &d.Username, &d.PasswordHash, &d.FirstName, &d.LastName, &d.LicenseNumber, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *driverRepo) Create(ctx context.Context, d *models.Driver) (*models.Driver, error) {
	query := `
		INSERT INTO drivers (username, password_hash, first_name, last_name, license_number, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING ` + driverColumns
	created, err := scanDriver(r.db.QueryRow(ctx, query, d.Username, d.PasswordHash, d.FirstName, d.LastName, d.LicenseNumber))
	if err != nil {
		r.log.Error("failed to create driver", logger.String("username", d.Username), logger.Error(err))
		return nil, mapError(err)
	}
	return created, nil
}

func (r *driverRepo) UpdateLicenseNumber(ctx context.Context, id int64, licenseNumber string) error {
	_, err := r.db.Exec(ctx, "UPDATE drivers SET license_number=$1, updated_at=NOW() WHERE id=$2", licenseNumber, id)
	if err != nil {
		r.log.Error("failed to update license number", logger.Int64("id", id), logger.Error(err))
		return mapError(err)
	}
	return nil
}

func (r *driverRepo) getOne(ctx context.Context, where string, arg interface{}) (*models.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE ` + where
	d, err := scanDriver(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.log.Error("failed to get driver", logger.String("where", where), logger.Error(err))
		return nil, err
	}
	return d, nil
}

func (r *driverRepo) GetByID(ctx context.Context, id int64) (*models.Driver, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *driverRepo) GetByUsername(ctx context.Context, username string) (*models.Driver, error) {
	return r.getOne(ctx, "username = $1", username)
}

func (r *driverRepo) GetByLicenseNumber(ctx context.Context, licenseNumber string) (*models.Driver, error) {
	return r.getOne(ctx, "license_number = $1", licenseNumber)
}

func (r *driverRepo) GetByIDs(ctx context.Context, ids []int64) ([]*models.Driver, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = ANY($1) ORDER BY username`
	return r.query(ctx, query, ids)
}

func (r *driverRepo) GetAll(ctx context.Context) ([]*models.Driver, error) {
	return r.query(ctx, `SELECT `+driverColumns+` FROM drivers ORDER BY username`)
}

func (r *driverRepo) GetList(ctx context.Context, req models.ListRequest) ([]*models.Driver, int, error) {
	pattern := likePattern(req.Search)

	var total int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM drivers WHERE username ILIKE $1`, pattern).Scan(&total)
	if err != nil {
		r.log.Error("failed to count drivers", logger.Error(err))
		return nil, 0, err
	}

	query := `SELECT ` + driverColumns + ` FROM drivers
		WHERE username ILIKE $1
		ORDER BY username
		LIMIT NULLIF($2::int, 0) OFFSET $3`
	list, err := r.query(ctx, query, pattern, req.Limit, req.Offset)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *driverRepo) query(ctx context.Context, query string, args ...interface{}) ([]*models.Driver, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to query drivers", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	var drivers []*models.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

func (r *driverRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	return err
}

func (r *driverRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM drivers").Scan(&count)
	return count, err
}
