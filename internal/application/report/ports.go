package report

import (
	"context"
	"time"

	"github.com/jhoicas/cmv-api/internal/application/dto"
)

// Tipos de reporte (etiqueta de métricas y logs).
const (
	KindCMV          = "cmv"
	KindPurchaseList = "purchase_list"
)

// ReportPDFGenerator puerto para la representación imprimible de los reportes.
type ReportPDFGenerator interface {
	GenerateCMVReportPDF(ctx context.Context, report *dto.CMVReportDTO) ([]byte, error)
	GeneratePurchaseSuggestionPDF(ctx context.Context, report *dto.PurchaseSuggestionDTO) ([]byte, error)
}

// ReportMetrics puerto de instrumentación de los reportes.
type ReportMetrics interface {
	ObserveReport(kind string, elapsed time.Duration, err error)
	AddAdvisories(kind, flag string, n int)
}

type noopMetrics struct{}

func (noopMetrics) ObserveReport(string, time.Duration, error) {}
func (noopMetrics) AddAdvisories(string, string, int)          {}
