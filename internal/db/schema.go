package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Statements kept MySQL 5.7 compatible; re-running is always safe.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS configuracion (
		id INT AUTO_INCREMENT PRIMARY KEY,
		clave VARCHAR(255) UNIQUE NOT NULL,
		valor TEXT,
		descripcion TEXT,
		fecha_actualizacion TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS usuarios (
		id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(80) UNIQUE NOT NULL,
		email VARCHAR(120) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		nombre VARCHAR(255),
		activo BOOLEAN DEFAULT TRUE,
		fecha_creacion TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS contactos (
		id INT AUTO_INCREMENT PRIMARY KEY,
		nombre VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		telefono VARCHAR(20),
		empresa VARCHAR(255),
		servicio_interes VARCHAR(255),
		mensaje TEXT NOT NULL,
		estado VARCHAR(50) DEFAULT 'nuevo',
		fecha_creacion TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS chatbot_preguntas (
		id INT AUTO_INCREMENT PRIMARY KEY,
		pregunta TEXT NOT NULL,
		respuesta TEXT NOT NULL,
		palabras_clave TEXT,
		categoria VARCHAR(100),
		activo BOOLEAN DEFAULT TRUE,
		orden INT DEFAULT 0,
		fecha_creacion TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		fecha_actualizacion TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS chatbot_conversaciones (
		id INT AUTO_INCREMENT PRIMARY KEY,
		session_id VARCHAR(255) NOT NULL,
		pregunta_usuario TEXT NOT NULL,
		respuesta_bot TEXT NOT NULL,
		pregunta_id INT,
		ip_usuario VARCHAR(45),
		user_agent TEXT,
		fecha_creacion TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		KEY idx_conversaciones_session (session_id)
	)`,
	`CREATE TABLE IF NOT EXISTS cotizaciones (
		id INT AUTO_INCREMENT PRIMARY KEY,
		servicio VARCHAR(50) NOT NULL,
		nombre_cliente VARCHAR(255),
		telefono_cliente VARCHAR(30),
		correo_cliente VARCHAR(255),
		valor_estimado BIGINT,
		tiempo_estimado VARCHAR(30),
		mensaje TEXT,
		image_urls TEXT,
		fecha_creacion TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS visitas_sesiones (
		session_id VARCHAR(255) PRIMARY KEY,
		primera_visita TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		ultima_visita TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS analytics (
		id INT AUTO_INCREMENT PRIMARY KEY,
		session_id VARCHAR(255),
		pagina VARCHAR(500),
		referrer VARCHAR(1000),
		user_agent TEXT,
		resolucion VARCHAR(30),
		idioma VARCHAR(20),
		zona_horaria VARCHAR(100),
		nuevo_visitante BOOLEAN DEFAULT FALSE,
		contador_local INT DEFAULT 0,
		fecha_creacion TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		KEY idx_analytics_fecha (fecha_creacion)
	)`,
	`CREATE TABLE IF NOT EXISTS almacen_navegador (
		ambito VARCHAR(64) NOT NULL,
		clave VARCHAR(255) NOT NULL,
		valor TEXT,
		fecha_actualizacion TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (ambito, clave)
	)`,
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema bootstrap: %w", err)
		}
	}
	return nil
}
