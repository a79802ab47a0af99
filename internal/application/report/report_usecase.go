package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/jhoicas/cmv-api/internal/application/dto"
	"github.com/jhoicas/cmv-api/internal/domain"
	"github.com/jhoicas/cmv-api/internal/domain/entity"
	"github.com/jhoicas/cmv-api/internal/domain/inventory"
	"github.com/jhoicas/cmv-api/internal/domain/repository"
	"github.com/jhoicas/cmv-api/pkg/logger"
)

const (
	moneyPlaces    = 2
	quantityPlaces = 4
)

// Config parámetros de los reportes.
type Config struct {
	DefaultHorizonDays int          // horizonte de reposición si la solicitud no lo indica
	Locale             language.Tag // idioma para ordenar por nombre de producto
}

// ReportUseCase orquesta los reportes de CMV y lista de compras sugerida:
//   - Carga en paralelo las vistas de productos, compras e inventarios.
//   - Delega el cálculo al motor de inventario (puro, sin estado entre solicitudes).
//   - Convierte el resultado en DTO y registra las advertencias de calidad de datos.
type ReportUseCase struct {
	productRepo  repository.ProductRepository
	purchaseRepo repository.PurchaseRepository
	snapshotRepo repository.InventorySnapshotRepository
	pdf          ReportPDFGenerator
	metrics      ReportMetrics
	log          *logger.Logger
	cfg          Config
}

// NewReportUseCase construye el caso de uso. metrics puede ser nil.
func NewReportUseCase(
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
	snapshotRepo repository.InventorySnapshotRepository,
	pdf ReportPDFGenerator,
	metrics ReportMetrics,
	log *logger.Logger,
	cfg Config,
) *ReportUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if cfg.DefaultHorizonDays <= 0 {
		cfg.DefaultHorizonDays = inventory.DefaultHorizonDays
	}
	if cfg.Locale == language.Und {
		cfg.Locale = language.BrazilianPortuguese
	}
	return &ReportUseCase{
		productRepo:  productRepo,
		purchaseRepo: purchaseRepo,
		snapshotRepo: snapshotRepo,
		pdf:          pdf,
		metrics:      metrics,
		log:          log,
		cfg:          cfg,
	}
}

// GetCMVReport calcula el CMV del período [start_date, end_date].
func (uc *ReportUseCase) GetCMVReport(ctx context.Context, req dto.CMVReportRequest) (out *dto.CMVReportDTO, err error) {
	began := time.Now()
	defer func() { uc.metrics.ObserveReport(KindCMV, time.Since(began), err) }()

	start, end, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	engine, err := uc.loadEngine(ctx, end)
	if err != nil {
		return nil, err
	}
	result, err := engine.ComputeCMV(start, end)
	if err != nil {
		return nil, err
	}

	out = toCMVReportDTO(result)
	uc.logCMVAdvisories(out)
	return out, nil
}

// GetPurchaseSuggestion genera la lista de compras sugerida a partir de un inventario.
func (uc *ReportUseCase) GetPurchaseSuggestion(ctx context.Context, req dto.PurchaseSuggestionRequest) (out *dto.PurchaseSuggestionDTO, err error) {
	began := time.Now()
	defer func() { uc.metrics.ObserveReport(KindPurchaseList, time.Since(began), err) }()

	if req.InventoryID <= 0 {
		return nil, fmt.Errorf("%w: inventory_id requerido", domain.ErrInvalidInput)
	}
	horizon := req.HorizonDays
	if horizon == 0 {
		horizon = uc.cfg.DefaultHorizonDays
	}
	if horizon < 0 {
		return nil, fmt.Errorf("%w: horizon_days debe ser >= 1", domain.ErrInvalidRange)
	}

	current, err := uc.snapshotRepo.GetByID(ctx, req.InventoryID)
	if err != nil {
		return nil, fmt.Errorf("report: inventario: %w", err)
	}
	if current == nil {
		return nil, fmt.Errorf("%w: inventario %d", domain.ErrNotFound, req.InventoryID)
	}

	engine, err := uc.loadEngine(ctx, current.Date)
	if err != nil {
		return nil, err
	}
	result, err := engine.SuggestPurchases(current.ID, horizon)
	if err != nil {
		return nil, err
	}

	out = toPurchaseSuggestionDTO(result)
	uc.logSuggestionAdvisories(out)
	return out, nil
}

// RenderCMVReportPDF calcula el CMV y lo devuelve como PDF.
func (uc *ReportUseCase) RenderCMVReportPDF(ctx context.Context, req dto.CMVReportRequest) ([]byte, error) {
	out, err := uc.GetCMVReport(ctx, req)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateCMVReportPDF(ctx, out)
}

// RenderPurchaseSuggestionPDF genera la lista de compras sugerida como PDF.
func (uc *ReportUseCase) RenderPurchaseSuggestionPDF(ctx context.Context, req dto.PurchaseSuggestionRequest) ([]byte, error) {
	out, err := uc.GetPurchaseSuggestion(ctx, req)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GeneratePurchaseSuggestionPDF(ctx, out)
}

// loadEngine materializa las vistas necesarias hasta asOf (inclusive) y construye el motor.
// Las tres consultas son independientes y se ejecutan en paralelo.
func (uc *ReportUseCase) loadEngine(ctx context.Context, asOf time.Time) (*inventory.Engine, error) {
	var (
		products  []*entity.Product
		purchases []*entity.Purchase
		snapshots []*entity.InventorySnapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if products, err = uc.productRepo.List(gctx); err != nil {
			return fmt.Errorf("report: productos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if purchases, err = uc.purchaseRepo.List(gctx, nil, &asOf); err != nil {
			return fmt.Errorf("report: compras: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if snapshots, err = uc.snapshotRepo.List(gctx, nil, &asOf); err != nil {
			return fmt.Errorf("report: inventarios: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inventory.NewEngine(products, purchases, snapshots, inventory.WithLocale(uc.cfg.Locale))
}

func (uc *ReportUseCase) logCMVAdvisories(out *dto.CMVReportDTO) {
	var anomalous, estimated, noCost int
	for _, p := range out.Products {
		if p.Anomalous {
			anomalous++
		}
		if p.CostEstimated {
			estimated++
		}
		if p.NoCostBasis {
			noCost++
		}
	}
	uc.metrics.AddAdvisories(KindCMV, "anomalous", anomalous)
	uc.metrics.AddAdvisories(KindCMV, "cost_estimated", estimated)
	uc.metrics.AddAdvisories(KindCMV, "no_cost_basis", noCost)

	if uc.log == nil {
		return
	}
	if anomalous > 0 || noCost > 0 || out.MissingInitialBaseline || out.MissingFinalBaseline {
		uc.log.Warn().
			Str("start_date", out.Period.StartDate).
			Str("end_date", out.Period.EndDate).
			Int("anomalous", anomalous).
			Int("cost_estimated", estimated).
			Int("no_cost_basis", noCost).
			Bool("missing_initial_baseline", out.MissingInitialBaseline).
			Bool("missing_final_baseline", out.MissingFinalBaseline).
			Msg("reporte CMV con datos incompletos")
	}
	uc.log.Debug().
		Str("start_date", out.Period.StartDate).
		Str("end_date", out.Period.EndDate).
		Int("products", len(out.Products)).
		Str("total_cmv", out.TotalCMV.String()).
		Msg("reporte CMV generado")
}

func (uc *ReportUseCase) logSuggestionAdvisories(out *dto.PurchaseSuggestionDTO) {
	var insufficient, anomalous, noCost int
	for _, it := range out.Items {
		if it.InsufficientHistory {
			insufficient++
		}
		if it.Anomalous {
			anomalous++
		}
		if it.NoCostHistory {
			noCost++
		}
	}
	uc.metrics.AddAdvisories(KindPurchaseList, "insufficient_history", insufficient)
	uc.metrics.AddAdvisories(KindPurchaseList, "anomalous", anomalous)
	uc.metrics.AddAdvisories(KindPurchaseList, "no_cost_history", noCost)

	if uc.log == nil {
		return
	}
	if insufficient > 0 || anomalous > 0 || noCost > 0 {
		uc.log.Warn().
			Int64("inventory_id", out.InventoryID).
			Int("insufficient_history", insufficient).
			Int("anomalous", anomalous).
			Int("no_cost_history", noCost).
			Msg("lista de compras con datos incompletos")
	}
	uc.log.Debug().
		Int64("inventory_id", out.InventoryID).
		Int("horizon_days", out.HorizonDays).
		Int("items", len(out.Items)).
		Str("total_estimated_cost", out.TotalEstimatedCost.String()).
		Msg("lista de compras generada")
}

// parsePeriod convierte las fechas obligatorias del período; cualquier error es ErrInvalidRange.
func parsePeriod(startStr, endStr string) (start, end time.Time, err error) {
	startStr, endStr = strings.TrimSpace(startStr), strings.TrimSpace(endStr)
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date y end_date son obligatorios", domain.ErrInvalidRange)
	}
	start, err = time.Parse(dto.DateLayout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date inválido", domain.ErrInvalidRange)
	}
	end, err = time.Parse(dto.DateLayout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date inválido", domain.ErrInvalidRange)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date no puede ser posterior a end_date", domain.ErrInvalidRange)
	}
	return start, end, nil
}

// toCMVReportDTO redondea cada línea y suma los CMV ya redondeados, de modo que
// total_cmv coincide exactamente con la suma de las líneas publicadas.
func toCMVReportDTO(r *inventory.CMVReport) *dto.CMVReportDTO {
	out := &dto.CMVReportDTO{
		Period: dto.PeriodDTO{
			StartDate: r.StartDate.Format(dto.DateLayout),
			EndDate:   r.EndDate.Format(dto.DateLayout),
		},
		TotalCMV:               decimal.Zero,
		MissingInitialBaseline: r.MissingInitialBaseline,
		MissingFinalBaseline:   r.MissingFinalBaseline,
		Products:               make([]dto.CMVProductDTO, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		p := dto.CMVProductDTO{
			ProductID:         l.ProductID,
			ProductName:       l.ProductName,
			Unit:              l.Unit,
			InitialStock:      l.InitialStock.Round(quantityPlaces),
			PurchasesQuantity: l.PurchasedQty.Round(quantityPlaces),
			PurchasesCost:     l.PurchasedCost.Round(moneyPlaces),
			FinalStock:        l.FinalStock.Round(quantityPlaces),
			ConsumedQuantity:  l.ConsumedQty.Round(quantityPlaces),
			UnitCost:          l.UnitCost.Round(quantityPlaces),
			CMV:               l.CMV.Round(moneyPlaces),
			Anomalous:         l.Anomalous,
			CostEstimated:     l.CostEstimated,
			NoCostBasis:       l.NoCostBasis,
		}
		out.TotalCMV = out.TotalCMV.Add(p.CMV)
		out.Products = append(out.Products, p)
	}
	return out
}

func toPurchaseSuggestionDTO(r *inventory.SuggestionReport) *dto.PurchaseSuggestionDTO {
	out := &dto.PurchaseSuggestionDTO{
		InventoryID:        r.InventoryID,
		InventoryDate:      r.InventoryDate.Format(dto.DateLayout),
		HorizonDays:        r.HorizonDays,
		TotalEstimatedCost: decimal.Zero,
		Items:              make([]dto.PurchaseSuggestionItemDTO, 0, len(r.Lines)),
	}
	if r.PreviousInventoryID != 0 {
		prev := r.PreviousInventoryID
		out.PreviousInventoryID = &prev
	}
	for _, l := range r.Lines {
		it := dto.PurchaseSuggestionItemDTO{
			ProductID:           l.ProductID,
			ProductName:         l.ProductName,
			Unit:                l.Unit,
			CurrentStock:        l.CurrentStock.Round(quantityPlaces),
			DailyConsumption:    l.DailyRate.Round(quantityPlaces),
			RawDailyConsumption: l.RawDailyRate.Round(quantityPlaces),
			Consumption:         l.Consumption.Round(quantityPlaces),
			SuggestedQuantity:   l.SuggestedQty.Round(quantityPlaces),
			EstimatedUnitCost:   l.EstimatedUnitCost.Round(quantityPlaces),
			EstimatedCost:       l.EstimatedCost.Round(moneyPlaces),
			InsufficientHistory: l.InsufficientHistory,
			Anomalous:           l.Anomalous,
			NoCostHistory:       l.NoCostHistory,
		}
		out.TotalEstimatedCost = out.TotalEstimatedCost.Add(it.EstimatedCost)
		out.Items = append(out.Items, it)
	}
	return out
}
