package postgres

import (
	"database/sql"
	"time"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

func timeToUnix(t time.Time) int64 {
	return t.UTC().Unix()
}

func unixToTime(v int64) time.Time {
	return time.Unix(v, 0).UTC()
}

func timePtrToUnixPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	v := timeToUnix(*t)
	return &v
}

func nullUnixToTimePtr(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := unixToTime(v.Int64)
	return &t
}
