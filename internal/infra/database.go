package infra

import (
	"fmt"

	"gestaomesas/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for all tables, then applies the idempotent SQL patches that AutoMigrate
// cannot express (partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates/updates every table and applies schema patches.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Rota{},
		&model.Colaborador{},
		&model.Cliente{},
		&model.Mesa{},
		&model.Ciclo{},
		&model.Acerto{},
		&model.AcertoMesa{},
		&model.Despesa{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that GORM cannot express. Each
// statement guards itself so re-running on a patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Partial index backing the sync retry cron query.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_acertos_pending_sync') THEN
		    CREATE INDEX idx_acertos_pending_sync
		        ON acertos (next_retry_at)
		        WHERE sync_status = 'pendente' AND next_retry_at IS NOT NULL;
		  END IF;
		END $$`,
		// Partial unique index enforcing one finalized settlement per
		// (cliente, ciclo) at the storage layer as well.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uniq_acertos_cliente_ciclo_finalizado') THEN
		    CREATE UNIQUE INDEX uniq_acertos_cliente_ciclo_finalizado
		        ON acertos (cliente_id, ciclo_id)
		        WHERE status = 'finalizado';
		  END IF;
		END $$`,
		// Partial unique index enforcing one cycle em andamento per route.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uniq_ciclos_rota_em_andamento') THEN
		    CREATE UNIQUE INDEX uniq_ciclos_rota_em_andamento
		        ON ciclos (rota_id)
		        WHERE status = 'em_andamento';
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
