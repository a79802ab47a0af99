package bootstrap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/cmv-api/internal/application/dto"
	"github.com/jhoicas/cmv-api/internal/bootstrap"
	"github.com/jhoicas/cmv-api/pkg/config"
	"github.com/jhoicas/cmv-api/pkg/logger"
)

func memoryConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "cmv-test"},
		Storage: config.StorageConfig{Driver: config.StorageMemory},
		Report:  config.ReportConfig{DefaultHorizonDays: 10, Locale: "es-CO"},
	}
}

func TestOpenRepositories_Memoria(t *testing.T) {
	repos, err := bootstrap.OpenRepositories(context.Background(), memoryConfig(), logger.Nop())
	require.NoError(t, err)
	defer repos.Close()

	assert.NotNil(t, repos.Products)
	assert.NotNil(t, repos.Tx)
}

func TestOpenRepositories_DriverDesconocido(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.Driver = "sqlite"

	_, err := bootstrap.OpenRepositories(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}

func TestReportConfig(t *testing.T) {
	rc, err := bootstrap.ReportConfig(config.ReportConfig{DefaultHorizonDays: 7, Locale: "pt-BR"})
	require.NoError(t, err)
	assert.Equal(t, language.BrazilianPortuguese, rc.Locale)

	_, err = bootstrap.ReportConfig(config.ReportConfig{Locale: "no es un locale!"})
	assert.Error(t, err)
}

func TestNewReportUseCase_Memoria(t *testing.T) {
	cfg := memoryConfig()
	repos, err := bootstrap.OpenRepositories(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)

	uc, err := bootstrap.NewReportUseCase(cfg, repos, nil, logger.Nop())
	require.NoError(t, err)

	_, err = uc.GetPurchaseSuggestion(context.Background(), dto.PurchaseSuggestionRequest{InventoryID: 1})
	assert.Error(t, err, "inventario inexistente")
}
