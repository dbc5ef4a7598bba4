// Package sqldb implements the core store interfaces on database/sql.
// Each store creates its own schema and keeps prepared statements.
package sqldb

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aggrandize/agencydesk/core"
	"github.com/mattn/go-sqlite3"
)

func mustPrepare(db *sql.DB, query string) *sql.Stmt {
	stmt, err := db.Prepare(query)
	if err != nil {
		panic(fmt.Sprintf("preparing %q: %v", query, err))
	}
	return stmt
}

func now() int64 {
	return time.Now().Unix()
}

func dateOf(ts int64) string {
	return time.Unix(ts, 0).Format("2006-01-02")
}

// wrapErr maps driver errors onto the core taxonomy.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %v", core.ErrConflict, err)
	}
	// MySQL duplicate key, in case the binary is built with that driver
	if strings.Contains(err.Error(), "Duplicate entry") {
		return fmt.Errorf("%w: %v", core.ErrConflict, err)
	}
	return err
}
