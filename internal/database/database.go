package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"todoweb/internal/config"
	"todoweb/internal/repositories"
)

// GetDSN は設定からドライバ用の接続文字列 (DSN) を構築します。
func GetDSN(c config.DBConfig) (string, error) {
	switch c.Driver {
	case config.DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Pass
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, portOr(c.Port, "3306"))
		mc.DBName = c.Name
		mc.ParseTime = true
		mc.Loc = time.UTC
		// UPDATE で値が変わらなくても一致行数を返させる
		mc.ClientFoundRows = true
		return mc.FormatDSN(), nil
	case config.DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Pass),
			Host:     net.JoinHostPort(c.Host, portOr(c.Port, "5432")),
			Path:     "/" + c.Name,
			RawQuery: "sslmode=disable",
		}
		return u.String(), nil
	default:
		return "", fmt.Errorf("no DSN for driver %q", c.Driver)
	}
}

func portOr(port, fallback string) string {
	if port == "" {
		return fallback
	}
	return port
}

// DialectFor はドライバ名に対応するSQL方言を返します。
func DialectFor(driver string) repositories.Dialect {
	if driver == config.DriverPostgres {
		return repositories.DialectPostgres
	}
	return repositories.DialectMySQL
}

// InitDB はデータベース接続を初期化します。
func InitDB(ctx context.Context, c config.DBConfig) (*sql.DB, error) {
	dsn, err := GetDSN(c)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(c.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Printf("Successfully connected to %s database!", c.Driver)
	return db, nil
}

var schemas = map[repositories.Dialect]string{
	repositories.DialectMySQL: `
		CREATE TABLE IF NOT EXISTS todos (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(200) NOT NULL,
			description TEXT NOT NULL,
			due_date DATE NULL,
			resolved BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			INDEX idx_todos_created_at (created_at)
		)`,
	repositories.DialectPostgres: `
		CREATE TABLE IF NOT EXISTS todos (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(200) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			due_date DATE NULL,
			resolved BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP(6) NOT NULL,
			updated_at TIMESTAMP(6) NOT NULL
		)`,
}

// Migrate は todos テーブルを作成します。既に存在する場合は何もしません。
func Migrate(ctx context.Context, db *sql.DB, dialect repositories.Dialect) error {
	schema, ok := schemas[dialect]
	if !ok {
		return fmt.Errorf("no schema for dialect %q", dialect)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create todos table: %w", err)
	}
	if dialect == repositories.DialectPostgres {
		if _, err := db.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS idx_todos_created_at ON todos (created_at)"); err != nil {
			return fmt.Errorf("failed to create todos index: %w", err)
		}
	}
	return nil
}

// OpenRepository は設定に応じた TodoRepository を返します。
// memory 以外では接続とマイグレーションも行い、close で接続を閉じます。
func OpenRepository(ctx context.Context, c config.DBConfig) (repo repositories.TodoRepository, closeFn func() error, err error) {
	if c.Driver == config.DriverMemory {
		log.Println("Using in-memory todo store; data is lost on exit")
		return repositories.NewMemoryTodoRepository(), func() error { return nil }, nil
	}
	db, err := InitDB(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	dialect := DialectFor(c.Driver)
	if err := Migrate(ctx, db, dialect); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repositories.NewSQLTodoRepository(db, dialect), db.Close, nil
}
