// Package report expone los reportes de solo lectura (ventas, desempeño,
// inventario, stock bajo, dashboard) y el pronóstico de ventas.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/application/sales"
	"github.com/jhoicas/stock-ledger/internal/application/store"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domreport "github.com/jhoicas/stock-ledger/internal/domain/report"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
)

const (
	dashboardDays            = 7
	dashboardRecentMovements = 5
)

// UseCase agregador de reportes. Cada reporte se calcula sobre una sola instantánea.
type UseCase struct {
	st       inventory.StateStore
	renderer ports.ReportRenderer
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso. renderer puede ser nil (sin PDF).
func NewUseCase(st inventory.StateStore, renderer ports.ReportRenderer, log zerolog.Logger) *UseCase {
	return &UseCase{st: st, renderer: renderer, log: log}
}

// SalesReport ventas del período (más recientes primero) con totales por producto.
func (uc *UseCase) SalesReport(_ context.Context, in dto.PeriodRequest) (*dto.SalesReportDTO, error) {
	period, err := domreport.ParsePeriod(in.PeriodType, in.PeriodValue)
	if err != nil {
		return nil, err
	}
	snap := uc.st.Snapshot()
	filtered := period.Filter(snap.Sales())
	sales.SortNewestFirst(filtered)
	sum := domreport.Aggregate(filtered)
	names := snap.ProductNames()

	list := make([]dto.SaleResponse, 0, len(filtered))
	for _, s := range filtered {
		list = append(list, dto.NewSaleResponse(s, names))
	}
	return &dto.SalesReportDTO{
		Period:       period.Label(),
		TotalRevenue: sum.Revenue,
		SalesCount:   sum.Count,
		Sales:        list,
		Products:     performanceRows(sum, names),
	}, nil
}

// Performance filas por producto ordenadas por ingreso.
func (uc *UseCase) Performance(_ context.Context, in dto.PeriodRequest) (*dto.PerformanceReportDTO, error) {
	period, err := domreport.ParsePeriod(in.PeriodType, in.PeriodValue)
	if err != nil {
		return nil, err
	}
	snap := uc.st.Snapshot()
	sum := domreport.Aggregate(period.Filter(snap.Sales()))
	return &dto.PerformanceReportDTO{
		Period:       period.Label(),
		TotalRevenue: sum.Revenue,
		Rows:         performanceRows(sum, snap.ProductNames()),
	}, nil
}

// Inventory valorización del catálogo (stock × costo).
func (uc *UseCase) Inventory(_ context.Context) (*dto.InventoryReportDTO, error) {
	return inventoryReport(uc.st.Snapshot(), uc.st.Now()), nil
}

// InventoryPDF reporte de inventario en PDF.
func (uc *UseCase) InventoryPDF(ctx context.Context) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("%w: generador de PDF no configurado", domain.ErrUpstreamUnavailable)
	}
	rep, err := uc.Inventory(ctx)
	if err != nil {
		return nil, err
	}
	pdf, err := uc.renderer.RenderInventory(*rep)
	if err != nil {
		return nil, fmt.Errorf("generar reporte de inventario: %w", err)
	}
	return pdf, nil
}

// LowStock productos Low o Critical, los críticos primero.
func (uc *UseCase) LowStock(_ context.Context) (*dto.LowStockReportDTO, error) {
	return lowStock(uc.st.Snapshot()), nil
}

// Dashboard indicadores principales. Las secciones se calculan en paralelo sobre
// la misma instantánea.
func (uc *UseCase) Dashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	snap := uc.st.Snapshot()
	now := uc.st.Now()
	out := &dto.DashboardDTO{}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		products := snap.Products()
		out.TotalProducts = len(products)
		out.InventoryValue = domreport.InventoryValuation(products)
		out.StockByCategory = stockByCategory(products)
		return nil
	})
	g.Go(func() error {
		out.LowStockCount = len(lowStock(snap).Items)
		return nil
	})
	g.Go(func() error {
		all := snap.Sales()
		today := domreport.Period{Type: domreport.PeriodDay, Value: domreport.Key(domreport.PeriodDay, now)}
		sum := domreport.Aggregate(today.Filter(all))
		out.TodaySales = sum.Revenue
		out.TodaySalesCount = sum.Count
		days := domreport.LastDays(all, now, dashboardDays)
		out.Last7Days = make([]dto.DailySalesDTO, 0, len(days))
		for _, d := range days {
			out.Last7Days = append(out.Last7Days, dto.DailySalesDTO{Date: d.Date, Total: d.Total})
		}
		return nil
	})
	g.Go(func() error {
		movs := snap.Movements()
		stock.SortChronological(movs)
		names := snap.ProductNames()
		out.RecentMovements = make([]dto.MovementResponse, 0, dashboardRecentMovements)
		for i := len(movs) - 1; i >= 0 && len(out.RecentMovements) < dashboardRecentMovements; i-- {
			out.RecentMovements = append(out.RecentMovements, dto.NewMovementResponse(movs[i], names))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func performanceRows(sum domreport.Summary, names map[string]string) []dto.ProductPerformanceDTO {
	ranked := sum.Ranked()
	rows := make([]dto.ProductPerformanceDTO, 0, len(ranked))
	for _, pt := range ranked {
		rows = append(rows, dto.ProductPerformanceDTO{
			ProductID:    pt.ProductID,
			ProductName:  dto.ProductName(names, pt.ProductID),
			QuantitySold: pt.QuantitySold,
			Revenue:      pt.Revenue,
		})
	}
	return rows
}

func inventoryReport(snap store.Snapshot, now time.Time) *dto.InventoryReportDTO {
	settings := snap.Settings()
	products := snap.Products()
	out := &dto.InventoryReportDTO{
		CompanyName: settings.CompanyName,
		Currency:    settings.Currency,
		GeneratedAt: now,
		Rows:        make([]dto.InventoryRowDTO, 0, len(products)),
		TotalValue:  domreport.InventoryValuation(products),
	}
	for _, p := range products {
		out.TotalUnits += p.Stock
		out.Rows = append(out.Rows, dto.InventoryRowDTO{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Category:  p.Category,
			Stock:     p.Stock,
			Cost:      p.Cost,
			Price:     p.Price,
			Value:     p.Value(),
			Status:    string(stock.Classify(p, settings)),
		})
	}
	return out
}

func lowStock(snap store.Snapshot) *dto.LowStockReportDTO {
	settings := snap.Settings()
	out := &dto.LowStockReportDTO{Items: []dto.ProductResponse{}}
	var critical, low []dto.ProductResponse
	for _, p := range snap.Products() {
		switch st := stock.Classify(p, settings); st {
		case stock.StatusCritical:
			critical = append(critical, dto.NewProductResponse(p, string(st)))
		case stock.StatusLow:
			low = append(low, dto.NewProductResponse(p, string(st)))
		}
	}
	out.Critical, out.Low = len(critical), len(low)
	out.Items = append(append(out.Items, critical...), low...)
	return out
}

func stockByCategory(products []*entity.Product) []dto.CategoryStockDTO {
	byCat := make(map[string]int)
	for _, p := range products {
		cat := p.Category
		if cat == "" {
			cat = "Sin categoría"
		}
		byCat[cat] += p.Stock
	}
	out := make([]dto.CategoryStockDTO, 0, len(byCat))
	for cat, units := range byCat {
		out = append(out, dto.CategoryStockDTO{Category: cat, Stock: units})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
