package database

import (
	"fmt"
	"log"

	"dossier-be/internal/model"

	"gorm.io/gorm"
)

var extensionSQL = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
	`CREATE EXTENSION IF NOT EXISTS vector;`,
}

// Foreign keys are added by hand: the models carry plain id columns and
// AutoMigrate only creates constraints for declared associations.
var constraintSQL = []string{
	`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_documents_case_file') THEN
		ALTER TABLE documents ADD CONSTRAINT fk_documents_case_file FOREIGN KEY (case_file_id) REFERENCES case_files(id) ON DELETE CASCADE;
	END IF; END $$;`,
	`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_facts_case_file') THEN
		ALTER TABLE facts ADD CONSTRAINT fk_facts_case_file FOREIGN KEY (case_file_id) REFERENCES case_files(id) ON DELETE CASCADE;
	END IF; END $$;`,
	`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_facts_document') THEN
		ALTER TABLE facts ADD CONSTRAINT fk_facts_document FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE SET NULL;
	END IF; END $$;`,
	`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_document_chunks_document') THEN
		ALTER TABLE document_chunks ADD CONSTRAINT fk_document_chunks_document FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE;
	END IF; END $$;`,
	`CREATE INDEX IF NOT EXISTS idx_document_chunks_embedding ON document_chunks USING hnsw (embedding_value vector_cosine_ops);`,
}

// Models is every table the application owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.CaseFile{},
		&model.Document{},
		&model.Fact{},
		&model.DocumentChunk{},
	}
}

// Migrate brings the schema up to date. It is idempotent.
func Migrate(db *gorm.DB) error {
	for _, sql := range extensionSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("extension setup: %w", err)
		}
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	for _, sql := range constraintSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}
	return nil
}

// Reset drops every application table. Used by integration tests.
func Reset(db *gorm.DB) error {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			return err
		}
	}
	return nil
}
