package infra

import (
	"fmt"

	"aseopro/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches that GORM
// cannot express. Schema changes happen here, once, at startup — never inside
// request-path error handling.
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

// RunMigrations applies the schema. Also used by integration tests against a
// throwaway container database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Cliente{},
		&model.Empleado{},
		&model.Asistencia{},
		&model.BancoHoras{},
		&model.Cita{},
		&model.Gasto{},
		&model.Proveedor{},
		&model.Producto{},
		&model.MovimientoStock{},
		&model.Pedido{},
		&model.PedidoItem{},
		&model.ContadorPedido{},
		&model.Compra{},
		&model.CompraItem{},
		&model.OTInsumo{},
		&model.Venta{},
		&model.VentaItem{},
		&model.VentaPago{},
		&model.ContadorTicket{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully handle.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Stock can never be negative: the registrar guards it in SQL, the
		// constraint is the backstop against any bypass.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_productos_stock_no_negativo') THEN
		    ALTER TABLE productos ADD CONSTRAINT chk_productos_stock_no_negativo CHECK (stock_actual >= 0);
		  END IF;
		END $$`,
		// Seed the single-row POS ticket counter.
		`INSERT INTO contadores_ticket (id, ultimo) VALUES (1, 0) ON CONFLICT (id) DO NOTHING`,
		// Partial index for the low-stock alert query.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_productos_stock_bajo') THEN
		    CREATE INDEX idx_productos_stock_bajo ON productos (stock_actual) WHERE activo = true;
		  END IF;
		END $$`,
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
