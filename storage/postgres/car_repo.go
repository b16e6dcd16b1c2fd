package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxipark/pkg/logger"
	"taxipark/pkg/models"
	"taxipark/storage"
)

const carSelect = `
	SELECT c.id, c.model, c.manufacturer_id, c.created_at,
		m.id, m.name, m.country, m.created_at,
		COALESCE(array_agg(cd.driver_id ORDER BY cd.driver_id) FILTER (WHERE cd.driver_id IS NOT NULL), '{}')
	FROM cars c
	JOIN manufacturers m ON m.id = c.manufacturer_id
	LEFT JOIN car_drivers cd ON cd.car_id = c.id
`

type carRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewCarRepo(db *pgxpool.Pool, log logger.ILogger) storage.ICarStorage {
	return &carRepo{db: db, log: log}
}

func scanCar(row pgx.Row) (*models.Car, error) {
	var c models.Car
	var m models.Manufacturer
	err := row.Scan(
		&c.ID, &c.Model, &c.ManufacturerID, &c.CreatedAt,
		&m.ID, &m.Name, &m.Country, &m.CreatedAt,
		&c.DriverIDs,
	)
	if err != nil {
		return nil, err
	}
	c.Manufacturer = &m
	return &c, nil
}

func (r *carRepo) Create(ctx context.Context, c *models.Car) (*models.Car, error) {
	if len(c.DriverIDs) == 0 {
		return nil, storage.ErrCarWithoutDrivers
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `INSERT INTO cars (model, manufacturer_id) VALUES ($1, $2) RETURNING id`,
		c.Model, c.ManufacturerID).Scan(&id)
	if err != nil {
		r.log.Error("failed to create car", logger.Error(err))
		return nil, err
	}

	if err := insertCarDrivers(ctx, tx, id, c.DriverIDs); err != nil {
		r.log.Error("failed to assign car drivers", logger.Int64("car_id", id), logger.Error(err))
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *carRepo) Update(ctx context.Context, c *models.Car) (*models.Car, error) {
	if len(c.DriverIDs) == 0 {
		return nil, storage.ErrCarWithoutDrivers
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE cars SET model = $2, manufacturer_id = $3 WHERE id = $1`,
		c.ID, c.Model, c.ManufacturerID)
	if err != nil {
		r.log.Error("failed to update car", logger.Int64("id", c.ID), logger.Error(err))
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}

	if _, err := tx.Exec(ctx, `DELETE FROM car_drivers WHERE car_id = $1`, c.ID); err != nil {
		return nil, err
	}
	if err := insertCarDrivers(ctx, tx, c.ID, c.DriverIDs); err != nil {
		r.log.Error("failed to reassign car drivers", logger.Int64("car_id", c.ID), logger.Error(err))
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, c.ID)
}

func insertCarDrivers(ctx context.Context, tx pgx.Tx, carID int64, driverIDs []int64) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO car_drivers (car_id, driver_id) SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`,
		carID, driverIDs)
	return err
}

func (r *carRepo) GetByID(ctx context.Context, id int64) (*models.Car, error) {
	c, err := scanCar(r.db.QueryRow(ctx, carSelect+` WHERE c.id = $1 GROUP BY c.id, m.id`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.log.Error("failed to get car by id", logger.Int64("id", id), logger.Error(err))
		return nil, err
	}

	drivers, err := NewDriverRepo(r.db, r.log).GetByIDs(ctx, c.DriverIDs)
	if err != nil {
		return nil, err
	}
	c.Drivers = drivers
	return c, nil
}

func (r *carRepo) GetList(ctx context.Context, req models.ListRequest) ([]*models.Car, int, error) {
	pattern := likePattern(req.Search)

	var total int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM cars WHERE model ILIKE $1`, pattern).Scan(&total)
	if err != nil {
		r.log.Error("failed to count cars", logger.Error(err))
		return nil, 0, err
	}

	query := carSelect + `
		WHERE c.model ILIKE $1
		GROUP BY c.id, m.id
		ORDER BY c.model, c.id
		LIMIT NULLIF($2::int, 0) OFFSET $3`
	cars, err := r.query(ctx, query, pattern, req.Limit, req.Offset)
	if err != nil {
		return nil, 0, err
	}
	return cars, total, nil
}

func (r *carRepo) GetByDriver(ctx context.Context, driverID int64) ([]*models.Car, error) {
	query := carSelect + `
		WHERE c.id IN (SELECT car_id FROM car_drivers WHERE driver_id = $1)
		GROUP BY c.id, m.id
		ORDER BY c.model, c.id`
	return r.query(ctx, query, driverID)
}

func (r *carRepo) query(ctx context.Context, query string, args ...interface{}) ([]*models.Car, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to query cars", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	var cars []*models.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

func (r *carRepo) AddDriver(ctx context.Context, carID, driverID int64) error {
	_, err := r.db.Exec(ctx, `INSERT INTO car_drivers (car_id, driver_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, carID, driverID)
	return err
}

// RemoveDriver locks the car row so concurrent removals see each other's
// deletes before counting the remaining drivers.
func (r *carRepo) RemoveDriver(ctx context.Context, carID, driverID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `SELECT id FROM cars WHERE id = $1 FOR UPDATE`, carID).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil
		}
		r.log.Error("failed to lock car", logger.Int64("car_id", carID), logger.Error(err))
		return err
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM car_drivers
		WHERE car_id = $1 AND driver_id = $2
			AND (SELECT count(*) FROM car_drivers WHERE car_id = $1) > 1`, carID, driverID)
	if err != nil {
		r.log.Error("failed to remove car driver", logger.Int64("car_id", carID), logger.Error(err))
		return err
	}

	if tag.RowsAffected() == 0 {
		var assigned bool
		err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM car_drivers WHERE car_id = $1 AND driver_id = $2)`,
			carID, driverID).Scan(&assigned)
		if err != nil {
			return err
		}
		if assigned {
			return storage.ErrLastDriver
		}
	}

	return tx.Commit(ctx)
}

func (r *carRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	return err
}

func (r *carRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM cars").Scan(&count)
	return count, err
}
