package internal

import (
	"fmt"

	"docgen/internal/config"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB(cfg *config.Config) error {
	dsn := cfg.Database.DSN()

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := autoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}

func autoMigrate() error {
	// Create tables only if they don't exist (preserve existing data)
	result := DB.Exec(`
        CREATE TABLE IF NOT EXISTS entities (
            id bigint unsigned AUTO_INCREMENT PRIMARY KEY,
            name varchar(255) NOT NULL,
            code varchar(255) NOT NULL,
            created_at datetime(3) NULL,
            UNIQUE INDEX idx_entities_code (code)
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create entities table: %w", result.Error)
	}

	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS clients (
            id bigint unsigned AUTO_INCREMENT PRIMARY KEY,
            name varchar(255) NOT NULL,
            created_at datetime(3) NULL,
            UNIQUE INDEX idx_clients_name (name)
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create clients table: %w", result.Error)
	}

	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS entity_values (
            id bigint unsigned AUTO_INCREMENT PRIMARY KEY,
            entity_id bigint unsigned NOT NULL,
            client_id bigint unsigned NOT NULL,
            value_text text,
            UNIQUE INDEX uq_entity_client (entity_id, client_id)
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create entity_values table: %w", result.Error)
	}

	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS document_templates (
            id bigint unsigned AUTO_INCREMENT PRIMARY KEY,
            filename varchar(255) NOT NULL,
            object_path varchar(1024) NOT NULL,
            file_size bigint,
            mime_type varchar(255),
            content_hash varchar(64),
            placeholders json,
            created_at datetime(3) NULL
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create document_templates table: %w", result.Error)
	}

	// Placeholder cache columns arrived after the initial schema; older
	// installations get them added in place.
	ensureTemplateColumns := map[string]string{
		"content_hash": "ALTER TABLE document_templates ADD COLUMN content_hash varchar(64)",
		"placeholders": "ALTER TABLE document_templates ADD COLUMN placeholders json",
	}
	for column, stmt := range ensureTemplateColumns {
		if err := ensureColumn("document_templates", column, stmt); err != nil {
			return err
		}
	}

	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS generation_history (
            id bigint unsigned AUTO_INCREMENT PRIMARY KEY,
            template_id bigint unsigned NOT NULL,
            client_id bigint unsigned NOT NULL,
            output_path varchar(1024) NOT NULL,
            created_at datetime(3) NULL,
            INDEX idx_generation_history_template_id (template_id),
            INDEX idx_generation_history_client_id (client_id),
            INDEX idx_generation_history_created_at (created_at)
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create generation_history table: %w", result.Error)
	}

	return nil
}

func ensureColumn(table, column, statement string) error {
	if DB.Migrator().HasColumn(table, column) {
		return nil
	}

	if err := DB.Exec(statement).Error; err != nil {
		return fmt.Errorf("failed to add column %s.%s: %w", table, column, err)
	}

	return nil
}

func CloseDB() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
