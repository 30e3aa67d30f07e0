package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"dh2ocol/internal/config"
)

// Open conecta con MySQL, crea la base de datos si hace falta y deja el
// esquema de los widgets listo. El contexto acota todo el arranque.
func Open(ctx context.Context, cfg config.MySQLConfig) (*sql.DB, error) {
	dbName := strings.TrimSpace(cfg.DBName)
	if dbName == "" {
		return nil, fmt.Errorf("DB_NAME vacío")
	}

	if err := ensureDatabaseExists(ctx, cfg, dbName); err != nil {
		return nil, err
	}

	conn, err := sql.Open("mysql", dsn(cfg, dbName))
	if err != nil {
		return nil, err
	}

	// Tráfico de widgets: ráfagas cortas de visitor-count/chatbot, nada
	// parecido a un backoffice con reportes. Un pool chico alcanza.
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(3 * time.Minute)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := EnsureSchema(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("esquema: %w", err)
	}
	return conn, nil
}

// dsn arma la cadena de conexión; dbName vacío conecta al servidor sin
// seleccionar base de datos.
func dsn(cfg config.MySQLConfig, dbName string) string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci&multiStatements=true",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		dbName,
	)
}

func ensureDatabaseExists(ctx context.Context, cfg config.MySQLConfig, dbName string) error {
	adminDB, err := sql.Open("mysql", dsn(cfg, ""))
	if err != nil {
		return err
	}
	defer adminDB.Close()

	if err := adminDB.PingContext(ctx); err != nil {
		return err
	}

	stmt := fmt.Sprintf(
		"CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci",
		strings.ReplaceAll(dbName, "`", "``"),
	)
	_, createErr := adminDB.ExecContext(ctx, stmt)
	if createErr == nil {
		return nil
	}

	// Sin permiso de CREATE DATABASE: si la base ya existe y responde,
	// el arranque puede continuar.
	conn, err := sql.Open("mysql", dsn(cfg, dbName))
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.PingContext(ctx); err != nil {
		return fmt.Errorf("crear base de datos %q falló: %v; la conexión directa también: %w", dbName, createErr, err)
	}
	return nil
}
