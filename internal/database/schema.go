package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Table DDL per dialect.  Column names match the wire format, so the
// reserved words `order` and `key` are quoted with backticks, which both
// SQLite and MySQL accept.
const (
	sqliteAdmin = "CREATE TABLE IF NOT EXISTS admin (" +
		"id INTEGER PRIMARY KEY AUTOINCREMENT, " +
		"username TEXT NOT NULL UNIQUE, " +
		"password TEXT NOT NULL)"

	sqliteProjects = "CREATE TABLE IF NOT EXISTS projects (" +
		"id INTEGER PRIMARY KEY AUTOINCREMENT, " +
		"title TEXT, " +
		"description TEXT, " +
		"repo_url TEXT, " +
		"demo_url TEXT, " +
		"tags TEXT, " +
		"stats TEXT, " +
		"`order` INTEGER DEFAULT 0, " +
		"active INTEGER DEFAULT 1)"

	sqliteContent = "CREATE TABLE IF NOT EXISTS content (" +
		"`key` TEXT PRIMARY KEY, " +
		"value TEXT)"

	mysqlAdmin = "CREATE TABLE IF NOT EXISTS admin (" +
		"id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY, " +
		"username VARCHAR(191) NOT NULL UNIQUE, " +
		"password VARCHAR(255) NOT NULL" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"

	mysqlProjects = "CREATE TABLE IF NOT EXISTS projects (" +
		"id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY, " +
		"title TEXT, " +
		"description TEXT, " +
		"repo_url TEXT, " +
		"demo_url TEXT, " +
		"tags TEXT, " +
		"stats TEXT, " +
		"`order` INT DEFAULT 0, " +
		"active TINYINT(1) DEFAULT 1" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"

	mysqlContent = "CREATE TABLE IF NOT EXISTS content (" +
		"`key` VARCHAR(191) NOT NULL PRIMARY KEY, " +
		"value MEDIUMTEXT" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
)

func schemaFor(dialect Dialect) ([]string, error) {
	switch dialect {
	case SQLite:
		return []string{sqliteAdmin, sqliteProjects, sqliteContent}, nil
	case MySQL:
		return []string{mysqlAdmin, mysqlProjects, mysqlContent}, nil
	}
	return nil, fmt.Errorf("no schema for dialect %q", dialect)
}

// EnsureSchema creates the admin, projects and content tables if they do not
// exist yet.  It is safe to call on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	stmts, err := schemaFor(dialect)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
