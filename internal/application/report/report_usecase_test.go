package report_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cmv-api/internal/application/dto"
	"github.com/jhoicas/cmv-api/internal/application/report"
	"github.com/jhoicas/cmv-api/internal/domain"
	"github.com/jhoicas/cmv-api/internal/domain/entity"
	"github.com/jhoicas/cmv-api/internal/infrastructure/memory"
	"github.com/jhoicas/cmv-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

type fakePDF struct {
	cmv        *dto.CMVReportDTO
	suggestion *dto.PurchaseSuggestionDTO
}

func (f *fakePDF) GenerateCMVReportPDF(_ context.Context, r *dto.CMVReportDTO) ([]byte, error) {
	f.cmv = r
	return []byte("%PDF-cmv"), nil
}

func (f *fakePDF) GeneratePurchaseSuggestionPDF(_ context.Context, r *dto.PurchaseSuggestionDTO) ([]byte, error) {
	f.suggestion = r
	return []byte("%PDF-list"), nil
}

type fakeMetrics struct {
	mu         sync.Mutex
	reports    map[string]int
	errors     map[string]int
	advisories map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{reports: map[string]int{}, errors: map[string]int{}, advisories: map[string]int{}}
}

func (m *fakeMetrics) ObserveReport(kind string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[kind]++
	if err != nil {
		m.errors[kind]++
	}
}

func (m *fakeMetrics) AddAdvisories(kind, flag string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advisories[kind+"/"+flag] += n
}

// failingProducts simula una falla de la base al listar el catálogo.
type failingProducts struct{ *memory.ProductRepo }

func (failingProducts) List(context.Context) ([]*entity.Product, error) {
	return nil, errors.New("conexión perdida")
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "esperado %s, obtenido %s", want, got)
}

func mustCreate(t *testing.T, err error) {
	t.Helper()
	require.NoError(t, err)
}

// seedThirds deja dos productos cuyo CMV es 1/3 cada uno: la suma de líneas
// redondeadas (0,66) difiere del total sin redondear (0,67).
func seedThirds(t *testing.T, s *memory.Store) {
	t.Helper()
	ctx := context.Background()
	a := &entity.Product{Name: "Açúcar", Unit: "kg"}
	b := &entity.Product{Name: "Café", Unit: "kg"}
	mustCreate(t, s.Products.Create(ctx, a))
	mustCreate(t, s.Products.Create(ctx, b))

	mustCreate(t, s.Snapshots.Create(ctx, &entity.InventorySnapshot{Date: day("2024-01-01"), Items: []entity.InventoryItem{
		{ProductID: a.ID, Quantity: dec("0")}, {ProductID: b.ID, Quantity: dec("0")},
	}}))
	mustCreate(t, s.Purchases.Create(ctx, &entity.Purchase{Date: day("2024-01-10"), Items: []entity.PurchaseItem{
		{ProductID: a.ID, Quantity: dec("1"), UnitCost: dec("1")},
		{ProductID: b.ID, Quantity: dec("1"), UnitCost: dec("1")},
	}}))
	mustCreate(t, s.Purchases.Create(ctx, &entity.Purchase{Date: day("2024-01-20"), Items: []entity.PurchaseItem{
		{ProductID: a.ID, Quantity: dec("2"), UnitCost: dec("0")},
		{ProductID: b.ID, Quantity: dec("2"), UnitCost: dec("0")},
	}}))
	mustCreate(t, s.Snapshots.Create(ctx, &entity.InventorySnapshot{Date: day("2024-01-31"), Items: []entity.InventoryItem{
		{ProductID: a.ID, Quantity: dec("2")}, {ProductID: b.ID, Quantity: dec("2")},
	}}))
}

func newUseCase(s *memory.Store, pdf report.ReportPDFGenerator, m report.ReportMetrics, log *logger.Logger) *report.ReportUseCase {
	return report.NewReportUseCase(s.Products, s.Purchases, s.Snapshots, pdf, m, log, report.Config{})
}

// ──────────────────────────────────────────────────────────────────────────────
// CMV
// ──────────────────────────────────────────────────────────────────────────────

func TestGetCMVReport_TotalIgualASumaDeLineasRedondeadas(t *testing.T) {
	s := memory.NewStore()
	seedThirds(t, s)
	uc := newUseCase(s, &fakePDF{}, nil, nil)

	out, err := uc.GetCMVReport(context.Background(), dto.CMVReportRequest{StartDate: "2024-01-01", EndDate: "2024-01-31"})
	require.NoError(t, err)

	require.Len(t, out.Products, 2)
	sum := decimal.Zero
	for _, p := range out.Products {
		assertDec(t, "0.33", p.CMV)
		assertDec(t, "0.3333", p.UnitCost)
		sum = sum.Add(p.CMV)
	}
	assertDec(t, "0.66", out.TotalCMV)
	assert.True(t, sum.Equal(out.TotalCMV))
}

func TestGetCMVReport_Errores(t *testing.T) {
	uc := newUseCase(memory.NewStore(), &fakePDF{}, nil, nil)
	ctx := context.Background()

	_, err := uc.GetCMVReport(ctx, dto.CMVReportRequest{StartDate: "2024-02-01", EndDate: "2024-01-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = uc.GetCMVReport(ctx, dto.CMVReportRequest{EndDate: "2024-01-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = uc.GetCMVReport(ctx, dto.CMVReportRequest{StartDate: "2024-13-01", EndDate: "2024-12-31"})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestGetCMVReport_PropagaErrorDeRepositorio(t *testing.T) {
	s := memory.NewStore()
	m := newFakeMetrics()
	uc := report.NewReportUseCase(failingProducts{s.Products}, s.Purchases, s.Snapshots, &fakePDF{}, m, nil, report.Config{})

	_, err := uc.GetCMVReport(context.Background(), dto.CMVReportRequest{StartDate: "2024-01-01", EndDate: "2024-01-31"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conexión perdida")
	assert.Equal(t, 1, m.errors[report.KindCMV])
}

func TestGetCMVReport_RegistraAdvertencias(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	p := &entity.Product{Name: "Leite", Unit: "lt"}
	mustCreate(t, s.Products.Create(ctx, p))
	mustCreate(t, s.Purchases.Create(ctx, &entity.Purchase{Date: day("2023-12-20"), Items: []entity.PurchaseItem{
		{ProductID: p.ID, Quantity: dec("4"), UnitCost: dec("5")},
	}}))
	mustCreate(t, s.Snapshots.Create(ctx, &entity.InventorySnapshot{Date: day("2024-01-01"), Items: []entity.InventoryItem{
		{ProductID: p.ID, Quantity: dec("2")},
	}}))
	mustCreate(t, s.Snapshots.Create(ctx, &entity.InventorySnapshot{Date: day("2024-01-31"), Items: []entity.InventoryItem{
		{ProductID: p.ID, Quantity: dec("6")},
	}}))

	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})
	m := newFakeMetrics()
	uc := newUseCase(s, &fakePDF{}, m, log)

	out, err := uc.GetCMVReport(ctx, dto.CMVReportRequest{StartDate: "2024-01-01", EndDate: "2024-01-31"})
	require.NoError(t, err)

	require.Len(t, out.Products, 1)
	line := out.Products[0]
	assert.True(t, line.Anomalous, "el stock creció sin compras")
	assert.True(t, line.CostEstimated, "costo de la compra de diciembre")
	assertDec(t, "-4", line.ConsumedQuantity)
	assertDec(t, "-20", line.CMV)
	assertDec(t, "-20", out.TotalCMV)

	assert.Equal(t, 1, m.advisories["cmv/anomalous"])
	assert.Equal(t, 1, m.advisories["cmv/cost_estimated"])
	assert.Contains(t, buf.String(), "reporte CMV con datos incompletos")
}

// ──────────────────────────────────────────────────────────────────────────────
// Lista de compras
// ──────────────────────────────────────────────────────────────────────────────

func TestGetPurchaseSuggestion_HorizontePorDefecto(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	p := &entity.Product{Name: "Farinha", Unit: "kg"}
	mustCreate(t, s.Products.Create(ctx, p))
	first := &entity.InventorySnapshot{Date: day("2024-03-01"), Items: []entity.InventoryItem{{ProductID: p.ID, Quantity: dec("20")}}}
	mustCreate(t, s.Snapshots.Create(ctx, first))
	mustCreate(t, s.Purchases.Create(ctx, &entity.Purchase{Date: day("2024-03-03"), Items: []entity.PurchaseItem{
		{ProductID: p.ID, Quantity: dec("10"), UnitCost: dec("4.5")},
	}}))
	current := &entity.InventorySnapshot{Date: day("2024-03-11"), Items: []entity.InventoryItem{{ProductID: p.ID, Quantity: dec("10")}}}
	mustCreate(t, s.Snapshots.Create(ctx, current))

	uc := newUseCase(s, &fakePDF{}, nil, nil)
	out, err := uc.GetPurchaseSuggestion(ctx, dto.PurchaseSuggestionRequest{InventoryID: current.ID})
	require.NoError(t, err)

	// 20 + 10 - 10 = 20 en 10 días → 2/día; 7 días → 14; stock 10 → 4 × 4,50 = 18
	assert.Equal(t, 7, out.HorizonDays)
	require.NotNil(t, out.PreviousInventoryID)
	assert.Equal(t, first.ID, *out.PreviousInventoryID)
	require.Len(t, out.Items, 1)
	assertDec(t, "2", out.Items[0].DailyConsumption)
	assertDec(t, "14", out.Items[0].Consumption)
	assertDec(t, "4", out.Items[0].SuggestedQuantity)
	assertDec(t, "4.5", out.Items[0].EstimatedUnitCost)
	assertDec(t, "18", out.TotalEstimatedCost)
}

func TestGetPurchaseSuggestion_ConsumoNegativo(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	p := &entity.Product{Name: "Café", Unit: "kg"}
	mustCreate(t, s.Products.Create(ctx, p))
	mustCreate(t, s.Snapshots.Create(ctx, &entity.InventorySnapshot{Date: day("2024-03-01"), Items: []entity.InventoryItem{
		{ProductID: p.ID, Quantity: dec("2")},
	}}))
	current := &entity.InventorySnapshot{Date: day("2024-03-05"), Items: []entity.InventoryItem{{ProductID: p.ID, Quantity: dec("4")}}}
	mustCreate(t, s.Snapshots.Create(ctx, current))

	uc := newUseCase(s, &fakePDF{}, nil, nil)
	out, err := uc.GetPurchaseSuggestion(ctx, dto.PurchaseSuggestionRequest{InventoryID: current.ID})
	require.NoError(t, err)

	// 2 - 4 = -2 en 4 días → -0,5/día: se informa con signo y no se usa para sugerir
	require.Len(t, out.Items, 1)
	it := out.Items[0]
	assert.True(t, it.Anomalous)
	assertDec(t, "-0.5", it.RawDailyConsumption)
	assert.True(t, it.DailyConsumption.IsZero())
	assert.True(t, it.SuggestedQuantity.IsZero())
}

func TestGetPurchaseSuggestion_Errores(t *testing.T) {
	uc := newUseCase(memory.NewStore(), &fakePDF{}, nil, nil)
	ctx := context.Background()

	_, err := uc.GetPurchaseSuggestion(ctx, dto.PurchaseSuggestionRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetPurchaseSuggestion(ctx, dto.PurchaseSuggestionRequest{InventoryID: 5, HorizonDays: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = uc.GetPurchaseSuggestion(ctx, dto.PurchaseSuggestionRequest{InventoryID: 5})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// PDF
// ──────────────────────────────────────────────────────────────────────────────

func TestRenderPDF_UsaElMismoCalculo(t *testing.T) {
	s := memory.NewStore()
	seedThirds(t, s)
	pdf := &fakePDF{}
	uc := newUseCase(s, pdf, nil, nil)
	ctx := context.Background()

	body, err := uc.RenderCMVReportPDF(ctx, dto.CMVReportRequest{StartDate: "2024-01-01", EndDate: "2024-01-31"})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-cmv", string(body))
	require.NotNil(t, pdf.cmv)
	assertDec(t, "0.66", pdf.cmv.TotalCMV)

	_, err = uc.RenderPurchaseSuggestionPDF(ctx, dto.PurchaseSuggestionRequest{InventoryID: 99})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, pdf.suggestion, "no se genera PDF si el cálculo falla")
}
