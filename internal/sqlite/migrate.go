package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// migrateTo brings the live schema in line with the target schema.
//
// The migration is declarative: the target schema is created in an attached
// scratch database and diffed against sqlite_schema. Deleted tables are
// dropped, new tables created, and changed tables rebuilt with the
// copy-rename dance from https://www.sqlite.org/lang_altertable.html#otheralter.
// Inspired by https://david.rothlis.net/declarative-schema-migration-for-sqlite/
func (db *Database) migrateTo(ctx context.Context, schemaDefinition string) (err error) {
	start := time.Now()

	detach, err := db.attachTargetSchema(ctx, schemaDefinition)
	if err != nil {
		return fmt.Errorf("attach target schema: %w", err)
	}
	defer detach()

	// Foreign key validation must be off while tables are rebuilt.
	if _, err = db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return fmt.Errorf("disable foreign keys: %w", err)
	}
	defer func() {
		if _, fkErr := db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = ON"); fkErr != nil {
			err = errors.Join(err, fmt.Errorf("re-enable foreign keys: %w", fkErr))
		}
	}()

	tx, err := db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback transaction: %w", rollbackErr))
		}
	}()

	if err = db.migrateTables(ctx, tx); err != nil {
		return fmt.Errorf("migrate tables: %w", err)
	}
	if err = db.migrateIndexes(ctx, tx); err != nil {
		return fmt.Errorf("migrate indexes: %w", err)
	}

	if _, err = tx.ExecContext(ctx, "PRAGMA foreign_key_check"); err != nil {
		return fmt.Errorf("foreign key check: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	db.logger.LogAttrs(ctx, slog.LevelInfo, "migrated database", slog.Duration("duration", time.Since(start)))

	return nil
}

// attachTargetSchema creates an in-memory database initialised with the
// target schema and attaches it as schemaTarget. The returned function
// detaches it and must be called when the migration is done.
func (db *Database) attachTargetSchema(ctx context.Context, schemaDefinition string) (func(), error) {
	dataSourceName := fmt.Sprintf("file:%s?mode=memory&cache=shared", rand.Text())
	target, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("open target schema database: %w", err)
	}
	if _, err = target.ExecContext(ctx, schemaDefinition); err != nil {
		return nil, errors.Join(
			fmt.Errorf("execute target schema: %w", err),
			target.Close(),
		)
	}
	if _, err = db.ReadWrite.ExecContext(ctx, "ATTACH DATABASE ? AS schemaTarget", dataSourceName); err != nil {
		return nil, errors.Join(
			fmt.Errorf("attach target schema database: %w", err),
			target.Close(),
		)
	}
	return func() {
		if _, detachErr := db.ReadWrite.ExecContext(ctx, "DETACH DATABASE schemaTarget"); detachErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to detach target schema database",
				slog.Any("error", detachErr))
		}
		if closeErr := target.Close(); closeErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to close target schema database",
				slog.Any("error", closeErr))
		}
	}, nil
}

// migrateTables drops deleted tables, creates new ones, and rebuilds tables
// whose definition changed.
func (db *Database) migrateTables(ctx context.Context, tx *sql.Tx) error {
	deleted, err := queryStrings(ctx, tx, `
		SELECT live.name
		FROM sqlite_schema AS live
		         LEFT JOIN schemaTarget.sqlite_schema AS target
		                   ON live.name = target.name AND live.type = target.type
		WHERE live.type = 'table'
		  AND target.type IS NULL
		  AND live.name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return fmt.Errorf("query deleted tables: %w", err)
	}
	for _, table := range deleted {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping table", slog.String("table", table))
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %s", table)); err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}

	created, err := queryStrings(ctx, tx, `
		SELECT target.sql
		FROM schemaTarget.sqlite_schema AS target
		         LEFT JOIN sqlite_schema AS live
		                   ON live.name = target.name AND live.type = target.type
		WHERE target.type = 'table'
		  AND live.type IS NULL
		  AND target.name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return fmt.Errorf("query new tables: %w", err)
	}
	for _, createSQL := range created {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating table", slog.String("query", createSQL))
		if _, err = tx.ExecContext(ctx, createSQL); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	return db.rebuildChangedTables(ctx, tx)
}

// rebuildChangedTables runs the copy-rename rebuild for tables whose SQL
// differs between the live and target schemas.
func (db *Database) rebuildChangedTables(ctx context.Context, tx *sql.Tx) (err error) {
	type changed struct {
		name   string
		newSQL string
	}

	var rows *sql.Rows
	rows, err = tx.QueryContext(ctx, `
		SELECT live.name, target.sql
		FROM sqlite_schema AS live
		         JOIN schemaTarget.sqlite_schema AS target
		              ON live.name = target.name AND live.type = target.type
		WHERE live.type = 'table'
		  AND live.name NOT LIKE 'sqlite_%'
		  -- Rebuilding adds double quotes around the table name; strip them for the diff.
		  AND REPLACE(live.sql, '"', '') <> REPLACE(target.sql, '"', '')`)
	if err != nil {
		return fmt.Errorf("query changed tables: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var changes []changed
	for rows.Next() {
		var c changed
		if err = rows.Scan(&c.name, &c.newSQL); err != nil {
			return fmt.Errorf("scan changed table: %w", err)
		}
		changes = append(changes, c)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}

	for _, c := range changes {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "rebuilding table", slog.String("table", c.name))

		tempName := c.name + "_migration_temp"
		if _, err = tx.ExecContext(ctx, strings.Replace(c.newSQL, c.name, tempName, 1)); err != nil {
			return fmt.Errorf("create temporary table %s: %w", tempName, err)
		}

		// Copy the columns present in both the old and the new definition.
		commonColumns, err := queryStrings(ctx, tx, `
			SELECT '"' || target.name || '"'
			FROM PRAGMA_TABLE_INFO(:table_name) AS live
			         JOIN PRAGMA_TABLE_INFO(:table_name, 'schemaTarget') AS target
			              ON target.name = live.name`, sql.Named("table_name", c.name))
		if err != nil {
			return fmt.Errorf("query common columns: %w", err)
		}
		common := strings.Join(commonColumns, ", ")
		copySQL := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s;", //nolint:gosec // schema-derived, not user input.
			tempName, common, common, c.name)
		if _, err = tx.ExecContext(ctx, copySQL); err != nil {
			return fmt.Errorf("copy data: %w", err)
		}

		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %s;", c.name)); err != nil {
			return fmt.Errorf("drop old table: %w", err)
		}
		if _, err = tx.ExecContext(ctx,
			fmt.Sprintf("ALTER TABLE %s RENAME TO %s;", tempName, c.name)); err != nil {
			return fmt.Errorf("rename new table: %w", err)
		}
	}
	return nil
}

// migrateIndexes recreates indexes that are missing or changed and drops
// removed ones.
func (db *Database) migrateIndexes(ctx context.Context, tx *sql.Tx) error {
	deleted, err := queryStrings(ctx, tx, `
		SELECT live.name
		FROM sqlite_schema AS live
		         LEFT JOIN schemaTarget.sqlite_schema AS target
		                   ON live.name = target.name AND live.type = target.type
		WHERE live.type = 'index'
		  AND target.type IS NULL
		  AND live.sql IS NOT NULL`)
	if err != nil {
		return fmt.Errorf("query deleted indexes: %w", err)
	}
	for _, index := range deleted {
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP INDEX %s", index)); err != nil {
			return fmt.Errorf("drop index %s: %w", index, err)
		}
	}

	changed, err := queryStrings(ctx, tx, `
		SELECT live.name
		FROM sqlite_schema AS live
		         JOIN schemaTarget.sqlite_schema AS target
		              ON live.name = target.name AND live.type = target.type
		WHERE live.type = 'index'
		  AND live.sql <> target.sql`)
	if err != nil {
		return fmt.Errorf("query changed indexes: %w", err)
	}
	for _, index := range changed {
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP INDEX %s", index)); err != nil {
			return fmt.Errorf("drop changed index %s: %w", index, err)
		}
	}

	missing, err := queryStrings(ctx, tx, `
		SELECT target.sql
		FROM schemaTarget.sqlite_schema AS target
		         LEFT JOIN sqlite_schema AS live
		                   ON live.name = target.name AND live.type = target.type
		WHERE target.type = 'index'
		  AND target.sql IS NOT NULL
		  AND (live.type IS NULL OR live.sql <> target.sql)`)
	if err != nil {
		return fmt.Errorf("query missing indexes: %w", err)
	}
	for _, createSQL := range missing {
		if _, err = tx.ExecContext(ctx, createSQL); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// queryStrings returns the single string column produced by the query.
func queryStrings(ctx context.Context, tx *sql.Tx, query string, args ...any) (_ []string, err error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var results []string
	for rows.Next() {
		var result string
		if err = rows.Scan(&result); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		results = append(results, result)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return results, nil
}
