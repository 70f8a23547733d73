package config

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

var (
	DB   *sql.DB
	dbMu sync.Mutex
)

// ConnectDB initializes the shared DB connection (idempotent).
// An empty DSN leaves DB nil; the activity log is then disabled.
func ConnectDB(dsn string) *sql.DB {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB != nil {
		return DB
	}
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		log.Println("MYSQL_DSN vacío: registro de actividad deshabilitado")
		return nil
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Printf("No se pudo abrir la BD: %v", err)
		return nil
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Printf("No se pudo hacer ping a la BD: %v", err)
		_ = db.Close()
		return nil
	}

	DB = db
	log.Println("Conectado a la base de datos MySQL")
	return DB
}

func EnsureDB(ctx context.Context) error {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB == nil {
		return sql.ErrConnDone
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return DB.PingContext(ctx)
}

func CloseDB() {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB != nil {
		_ = DB.Close()
		DB = nil
	}
}
