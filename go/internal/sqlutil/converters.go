package sqlutil

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Helper functions for converting between Go types and sql.Null* types

// ToSqlTime converts a Go time pointer to sql.NullTime
func ToSqlTime(val *time.Time) sql.NullTime {
	if val == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *val, Valid: true}
}

// FromSqlTime converts sql.NullTime to a Go time pointer
func FromSqlTime(val sql.NullTime) *time.Time {
	if !val.Valid {
		return nil
	}
	t := val.Time
	return &t
}

// ToSqlUUID converts a UUID pointer to uuid.NullUUID
func ToSqlUUID(val *uuid.UUID) uuid.NullUUID {
	if val == nil {
		return uuid.NullUUID{Valid: false}
	}
	return uuid.NullUUID{UUID: *val, Valid: true}
}

// FromSqlUUID converts uuid.NullUUID to a UUID pointer
func FromSqlUUID(val uuid.NullUUID) *uuid.UUID {
	if !val.Valid {
		return nil
	}
	u := val.UUID
	return &u
}

// ToSqlString converts a Go string pointer to sql.NullString
func ToSqlString(val *string) sql.NullString {
	if val == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *val, Valid: true}
}
