package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type RideRow struct {
	RideDate   string
	Hr         int64
	Yr         int64
	Mnth       int64
	Season     int64
	Holiday    int64
	Workingday int64
	Weathersit int64
	Casual     int64
	Registered int64
	Cnt        int64
}

const listDailyRides = `
SELECT ride_date, 0, yr, mnth, season, holiday, workingday, weathersit, casual, registered, cnt
FROM daily_rides
ORDER BY id
`

func (q *Queries) ListDailyRides(ctx context.Context) ([]RideRow, error) {
	return q.listRides(ctx, listDailyRides)
}

const listHourlyRides = `
SELECT ride_date, hr, yr, mnth, season, holiday, workingday, weathersit, casual, registered, cnt
FROM hourly_rides
ORDER BY id
`

func (q *Queries) ListHourlyRides(ctx context.Context) ([]RideRow, error) {
	return q.listRides(ctx, listHourlyRides)
}

func (q *Queries) listRides(ctx context.Context, query string) ([]RideRow, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RideRow
	for rows.Next() {
		var i RideRow
		if err := rows.Scan(
			&i.RideDate,
			&i.Hr,
			&i.Yr,
			&i.Mnth,
			&i.Season,
			&i.Holiday,
			&i.Workingday,
			&i.Weathersit,
			&i.Casual,
			&i.Registered,
			&i.Cnt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertDailyRide = `
INSERT INTO daily_rides (ride_date, yr, mnth, season, holiday, workingday, weathersit, casual, registered, cnt)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertDailyRide(ctx context.Context, arg RideRow) error {
	_, err := q.db.ExecContext(ctx, insertDailyRide,
		arg.RideDate,
		arg.Yr,
		arg.Mnth,
		arg.Season,
		arg.Holiday,
		arg.Workingday,
		arg.Weathersit,
		arg.Casual,
		arg.Registered,
		arg.Cnt,
	)
	return err
}

const insertHourlyRide = `
INSERT INTO hourly_rides (ride_date, hr, yr, mnth, season, holiday, workingday, weathersit, casual, registered, cnt)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertHourlyRide(ctx context.Context, arg RideRow) error {
	_, err := q.db.ExecContext(ctx, insertHourlyRide,
		arg.RideDate,
		arg.Hr,
		arg.Yr,
		arg.Mnth,
		arg.Season,
		arg.Holiday,
		arg.Workingday,
		arg.Weathersit,
		arg.Casual,
		arg.Registered,
		arg.Cnt,
	)
	return err
}

const deleteDailyRides = `DELETE FROM daily_rides`

func (q *Queries) DeleteDailyRides(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteDailyRides)
	return err
}

const deleteHourlyRides = `DELETE FROM hourly_rides`

func (q *Queries) DeleteHourlyRides(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteHourlyRides)
	return err
}

const countDailyRides = `SELECT COUNT(*) FROM daily_rides`

func (q *Queries) CountDailyRides(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countDailyRides)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countHourlyRides = `SELECT COUNT(*) FROM hourly_rides`

func (q *Queries) CountHourlyRides(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countHourlyRides)
	var count int64
	err := row.Scan(&count)
	return count, err
}
