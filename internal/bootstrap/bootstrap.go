// Package bootstrap arma las dependencias compartidas por cmd/api y cmd/cmvctl
// según la configuración (driver de almacenamiento, migraciones, reportes).
package bootstrap

import (
	"context"
	"fmt"

	"golang.org/x/text/language"

	"github.com/jhoicas/cmv-api/internal/application/report"
	"github.com/jhoicas/cmv-api/internal/application/usecase"
	"github.com/jhoicas/cmv-api/internal/domain/repository"
	"github.com/jhoicas/cmv-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/cmv-api/internal/infrastructure/pdf"
	"github.com/jhoicas/cmv-api/internal/infrastructure/postgres"
	"github.com/jhoicas/cmv-api/pkg/config"
	"github.com/jhoicas/cmv-api/pkg/logger"
)

// Repositories repositorios y runner transaccional del driver elegido.
type Repositories struct {
	Products  repository.ProductRepository
	Suppliers repository.SupplierRepository
	Purchases repository.PurchaseRepository
	Snapshots repository.InventorySnapshotRepository
	Tx        usecase.TxRunner
	close     func()
}

// Close libera las conexiones del driver.
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// OpenRepositories conecta el almacenamiento configurado. Con postgres y
// DB_AUTO_MIGRATE aplica antes las migraciones embebidas.
func OpenRepositories(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &Repositories{
			Products:  s.Products,
			Suppliers: s.Suppliers,
			Purchases: s.Purchases,
			Snapshots: s.Snapshots,
			Tx:        s,
		}, nil

	case config.StoragePostgres:
		if cfg.DB.AutoMigrate {
			if err := Migrate(cfg, log, true); err != nil {
				return nil, err
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return &Repositories{
			Products:  postgres.NewProductRepository(pool),
			Suppliers: postgres.NewSupplierRepository(pool),
			Purchases: postgres.NewPurchaseRepository(pool),
			Snapshots: postgres.NewInventoryRepository(pool),
			Tx:        postgres.NewTxRunner(pool),
			close:     pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("STORAGE_DRIVER desconocido %q", cfg.Storage.Driver)
	}
}

// Migrate aplica (up) o revierte (down) el esquema embebido.
func Migrate(cfg *config.Config, log *logger.Logger, up bool) error {
	mg, err := postgres.NewMigrator(cfg.DB, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := mg.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrator")
		}
	}()
	if up {
		return mg.Up()
	}
	return mg.Down()
}

// ReportConfig traduce la configuración de reportes; un locale inválido es error de arranque.
func ReportConfig(cfg config.ReportConfig) (report.Config, error) {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return report.Config{}, fmt.Errorf("REPORT_LOCALE %q: %w", cfg.Locale, err)
	}
	return report.Config{DefaultHorizonDays: cfg.DefaultHorizonDays, Locale: tag}, nil
}

// NewReportUseCase arma el caso de uso de reportes sobre los repositorios abiertos.
func NewReportUseCase(cfg *config.Config, repos *Repositories, metrics report.ReportMetrics, log *logger.Logger) (*report.ReportUseCase, error) {
	rc, err := ReportConfig(cfg.Report)
	if err != nil {
		return nil, err
	}
	pdf := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	return report.NewReportUseCase(repos.Products, repos.Purchases, repos.Snapshots, pdf, metrics, log, rc), nil
}
