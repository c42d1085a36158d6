// Package report builds read-only views over the inventory: the dashboard, inventory and
// movement reports, and product and alert statistics.
package report

import (
	"context"
	"sort"
	"time"

	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/rogerio-castellano/stocktrack/internal/repo"
	"github.com/rogerio-castellano/stocktrack/internal/settings"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultPeriod     = 30 * 24 * time.Hour
	recentWindow      = 7 * 24 * time.Hour
	topMovedLimit     = 10
	criticalListLimit = 5
	dateLayout        = "2006-01-02"
)

type Service struct {
	store    repo.Store
	settings *settings.Service
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(store repo.Store, settingsSvc *settings.Service, logger *zap.Logger) *Service {
	return &Service{store: store, settings: settingsSvc, logger: logger, now: time.Now}
}

// Period is a closed time range.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (p Period) contains(t time.Time) bool {
	return !t.Before(p.From) && !t.After(p.To)
}

// resolvePeriod fills a missing end with now and a missing start with thirty days before the end.
func (s *Service) resolvePeriod(from, to *time.Time) Period {
	p := Period{To: s.now()}
	if to != nil {
		p.To = *to
	}
	p.From = p.To.Add(-DefaultPeriod)
	if from != nil {
		p.From = *from
	}
	return p
}

func (s *Service) activeProducts(ctx context.Context, categoryID *int) ([]models.Product, error) {
	active := true
	products, _, err := s.store.Repos().Products.Filter(ctx, repo.ProductFilter{Active: &active, CategoryID: categoryID})
	return products, err
}

func (s *Service) movementsIn(ctx context.Context, f repo.MovementFilter) ([]models.Movement, error) {
	movements, _, err := s.store.Repos().Movements.Filter(ctx, f)
	return movements, err
}

func (s *Service) allAlerts(ctx context.Context, resolved *bool) ([]models.Alert, error) {
	alerts, _, err := s.store.Repos().Alerts.Filter(ctx, repo.AlertFilter{Resolved: resolved})
	return alerts, err
}

func (s *Service) names(ctx context.Context) (map[int]string, map[int]string, error) {
	repos := s.store.Repos()
	categories, err := repos.Categories.List(ctx, false)
	if err != nil {
		return nil, nil, err
	}
	suppliers, err := repos.Suppliers.List(ctx, false)
	if err != nil {
		return nil, nil, err
	}
	cat := make(map[int]string, len(categories))
	for _, c := range categories {
		cat[c.ID] = c.Name
	}
	sup := make(map[int]string, len(suppliers))
	for _, s := range suppliers {
		sup[s.ID] = s.Name
	}
	return cat, sup, nil
}

type GeneralStats struct {
	TotalProducts   int             `json:"total_productos"`
	LowStock        int             `json:"productos_stock_bajo"`
	OutOfStock      int             `json:"productos_agotados"`
	InventoryValue  decimal.Decimal `json:"valor_total_inventario"`
	RecentMovements int             `json:"movimientos_recientes"`
	ActiveAlerts    int             `json:"alertas_activas"`
	CriticalAlerts  int             `json:"alertas_criticas"`
}

type MovedProduct struct {
	Code          string `json:"codigo"`
	Name          string `json:"nombre"`
	Movements     int    `json:"total_movimientos"`
	TotalQuantity int    `json:"cantidad_total"`
}

type CriticalProduct struct {
	Code         string `json:"codigo"`
	Name         string `json:"nombre"`
	StockCurrent int    `json:"stock_actual"`
	StockMinimum int    `json:"stock_minimo"`
}

type Dashboard struct {
	General  GeneralStats      `json:"estadisticas_generales"`
	TopMoved []MovedProduct    `json:"productos_movimentados"`
	Critical []CriticalProduct `json:"productos_criticos"`
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	now := s.now()
	products, err := s.activeProducts(ctx, nil)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{General: GeneralStats{TotalProducts: len(products), InventoryValue: decimal.Zero}}
	byID := make(map[int]models.Product, len(products))
	var low []models.Product
	for _, p := range products {
		byID[p.ID] = p
		d.General.InventoryValue = d.General.InventoryValue.Add(p.InventoryValue())
		if p.NeedsAlert() {
			d.General.LowStock++
			low = append(low, p)
		}
		if p.StockCurrent == 0 {
			d.General.OutOfStock++
		}
	}

	recentFrom := now.Add(-recentWindow)
	recent, err := s.movementsIn(ctx, repo.MovementFilter{Since: &recentFrom})
	if err != nil {
		return Dashboard{}, err
	}
	d.General.RecentMovements = len(recent)

	open := false
	alerts, err := s.allAlerts(ctx, &open)
	if err != nil {
		return Dashboard{}, err
	}
	d.General.ActiveAlerts = len(alerts)
	for _, a := range alerts {
		if a.Priority == models.PriorityCritical {
			d.General.CriticalAlerts++
		}
	}

	monthFrom := now.Add(-DefaultPeriod)
	month, err := s.movementsIn(ctx, repo.MovementFilter{Since: &monthFrom})
	if err != nil {
		return Dashboard{}, err
	}
	d.TopMoved = topMoved(month, byID, topMovedLimit)

	sort.SliceStable(low, func(i, j int) bool { return low[i].StockCurrent < low[j].StockCurrent })
	if len(low) > criticalListLimit {
		low = low[:criticalListLimit]
	}
	d.Critical = make([]CriticalProduct, len(low))
	for i, p := range low {
		d.Critical[i] = CriticalProduct{Code: p.Code, Name: p.Name, StockCurrent: p.StockCurrent, StockMinimum: p.StockMinimum}
	}
	return d, nil
}

// topMoved ranks active products by movement count, breaking ties by code.
func topMoved(movements []models.Movement, products map[int]models.Product, limit int) []MovedProduct {
	agg := map[int]*MovedProduct{}
	for _, m := range movements {
		p, ok := products[m.ProductID]
		if !ok {
			continue
		}
		mp, ok := agg[m.ProductID]
		if !ok {
			mp = &MovedProduct{Code: p.Code, Name: p.Name}
			agg[m.ProductID] = mp
		}
		mp.Movements++
		mp.TotalQuantity += m.Quantity
	}

	out := make([]MovedProduct, 0, len(agg))
	for _, mp := range agg {
		out = append(out, *mp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Movements != out[j].Movements {
			return out[i].Movements > out[j].Movements
		}
		return out[i].Code < out[j].Code
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

type InventoryQuery struct {
	From       *time.Time
	To         *time.Time
	CategoryID *int
}

type InventoryRow struct {
	Code           string             `json:"codigo"`
	Name           string             `json:"nombre"`
	Category       string             `json:"categoria"`
	Supplier       string             `json:"proveedor"`
	StockCurrent   int                `json:"stock_actual"`
	StockMinimum   int                `json:"stock_minimo"`
	PurchasePrice  decimal.Decimal    `json:"precio_compra"`
	SalePrice      decimal.Decimal    `json:"precio_venta"`
	Entries        int                `json:"entradas"`
	Exits          int                `json:"salidas"`
	InventoryValue decimal.Decimal    `json:"valor_inventario"`
	Status         models.StockStatus `json:"estado_stock"`
	Location       string             `json:"ubicacion"`
}

type InventorySummary struct {
	TotalProducts int             `json:"total_productos"`
	TotalValue    decimal.Decimal `json:"valor_total"`
	LowStock      int             `json:"productos_stock_bajo"`
	Period        Period          `json:"periodo"`
}

type InventoryReport struct {
	Rows    []InventoryRow   `json:"datos"`
	Summary InventorySummary `json:"resumen"`
}

// Inventory reports every active product with the units that came in and went out during
// the period. Returns count as entries and losses as exits.
func (s *Service) Inventory(ctx context.Context, q InventoryQuery) (InventoryReport, error) {
	period := s.resolvePeriod(q.From, q.To)
	products, err := s.activeProducts(ctx, q.CategoryID)
	if err != nil {
		return InventoryReport{}, err
	}
	categories, suppliers, err := s.names(ctx)
	if err != nil {
		return InventoryReport{}, err
	}
	movements, err := s.movementsIn(ctx, repo.MovementFilter{Since: &period.From, Until: &period.To})
	if err != nil {
		return InventoryReport{}, err
	}

	entries := map[int]int{}
	exits := map[int]int{}
	for _, m := range movements {
		switch {
		case m.Kind.Inbound():
			entries[m.ProductID] += m.Quantity
		case m.Kind.Outbound():
			exits[m.ProductID] += m.Quantity
		}
	}

	rep := InventoryReport{
		Rows:    make([]InventoryRow, 0, len(products)),
		Summary: InventorySummary{TotalValue: decimal.Zero, Period: period},
	}
	for _, p := range products {
		row := InventoryRow{
			Code:           p.Code,
			Name:           p.Name,
			Category:       categories[p.CategoryID],
			Supplier:       suppliers[p.SupplierID],
			StockCurrent:   p.StockCurrent,
			StockMinimum:   p.StockMinimum,
			PurchasePrice:  p.PurchasePrice,
			SalePrice:      p.SalePrice,
			Entries:        entries[p.ID],
			Exits:          exits[p.ID],
			InventoryValue: p.InventoryValue(),
			Status:         p.Status(),
			Location:       p.Location,
		}
		rep.Rows = append(rep.Rows, row)
		rep.Summary.TotalValue = rep.Summary.TotalValue.Add(row.InventoryValue)
		if row.Status == models.StockLow || row.Status == models.StockCritical {
			rep.Summary.LowStock++
		}
	}
	rep.Summary.TotalProducts = len(rep.Rows)
	return rep, nil
}

type MovementQuery struct {
	ProductID *int
	Kind      models.MovementKind
	From      *time.Time
	To        *time.Time
}

type MovementRow struct {
	Date        time.Time           `json:"fecha"`
	ProductCode string              `json:"producto_codigo"`
	ProductName string              `json:"producto_nombre"`
	Kind        models.MovementKind `json:"tipo_movimiento"`
	Quantity    int                 `json:"cantidad"`
	StockBefore int                 `json:"stock_anterior"`
	StockAfter  int                 `json:"stock_nuevo"`
	Reason      string              `json:"motivo"`
	User        string              `json:"usuario"`
	Value       decimal.Decimal     `json:"valor_movimiento"`
}

type MovementSummary struct {
	Total       int    `json:"total_movimientos"`
	Entries     int    `json:"entradas"`
	Exits       int    `json:"salidas"`
	Adjustments int    `json:"ajustes"`
	Period      Period `json:"periodo"`
}

type MovementReport struct {
	Rows    []MovementRow   `json:"datos"`
	Summary MovementSummary `json:"resumen"`
}

// movementValue prices a movement at its unit cost, or at the product's purchase price
// when no cost was recorded.
func movementValue(m models.Movement, p models.Product) decimal.Decimal {
	price := p.PurchasePrice
	if m.UnitCost.Valid {
		price = m.UnitCost.Decimal
	}
	return price.Mul(decimal.NewFromInt(int64(m.Quantity)))
}

// Movements lists ledger entries of the period, newest first.
func (s *Service) Movements(ctx context.Context, q MovementQuery) (MovementReport, error) {
	period := s.resolvePeriod(q.From, q.To)
	f := repo.MovementFilter{ProductID: q.ProductID, Since: &period.From, Until: &period.To}
	if q.Kind != "" {
		f.Kind = &q.Kind
	}
	movements, err := s.movementsIn(ctx, f)
	if err != nil {
		return MovementReport{}, err
	}

	repos := s.store.Repos()
	products := map[int]models.Product{}
	users := map[int]string{}
	rep := MovementReport{Rows: make([]MovementRow, 0, len(movements)), Summary: MovementSummary{Period: period}}
	for _, m := range movements {
		p, ok := products[m.ProductID]
		if !ok {
			if p, err = repos.Products.GetByID(ctx, m.ProductID); err != nil {
				return MovementReport{}, err
			}
			products[m.ProductID] = p
		}

		user := "Sistema"
		if m.UserID != nil {
			name, ok := users[*m.UserID]
			if !ok {
				if u, err := repos.Users.GetByID(ctx, *m.UserID); err == nil {
					name = u.Name
				}
				users[*m.UserID] = name
			}
			if name != "" {
				user = name
			}
		}

		rep.Rows = append(rep.Rows, MovementRow{
			Date:        m.CreatedAt,
			ProductCode: p.Code,
			ProductName: p.Name,
			Kind:        m.Kind,
			Quantity:    m.Quantity,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			Reason:      m.Reason,
			User:        user,
			Value:       movementValue(m, p),
		})
		switch {
		case m.Kind.Inbound():
			rep.Summary.Entries++
		case m.Kind.Outbound():
			rep.Summary.Exits++
		default:
			rep.Summary.Adjustments++
		}
	}
	rep.Summary.Total = len(rep.Rows)
	return rep, nil
}

type CategoryStats struct {
	Category   string `json:"categoria"`
	Products   int    `json:"total_productos"`
	TotalStock int    `json:"stock_total"`
}

type ProductStats struct {
	TotalProducts  int             `json:"total_productos"`
	LowStock       int             `json:"productos_stock_bajo"`
	OutOfStock     int             `json:"productos_agotados"`
	InventoryValue decimal.Decimal `json:"valor_total_inventario"`
	ByCategory     []CategoryStats `json:"por_categoria"`
}

func (s *Service) ProductStats(ctx context.Context) (ProductStats, error) {
	products, err := s.activeProducts(ctx, nil)
	if err != nil {
		return ProductStats{}, err
	}
	categories, _, err := s.names(ctx)
	if err != nil {
		return ProductStats{}, err
	}

	st := ProductStats{TotalProducts: len(products), InventoryValue: decimal.Zero}
	byCategory := map[int]*CategoryStats{}
	for _, p := range products {
		st.InventoryValue = st.InventoryValue.Add(p.InventoryValue())
		if p.NeedsAlert() {
			st.LowStock++
		}
		if p.StockCurrent == 0 {
			st.OutOfStock++
		}
		cs, ok := byCategory[p.CategoryID]
		if !ok {
			cs = &CategoryStats{Category: categories[p.CategoryID]}
			byCategory[p.CategoryID] = cs
		}
		cs.Products++
		cs.TotalStock += p.StockCurrent
	}

	st.ByCategory = make([]CategoryStats, 0, len(byCategory))
	for _, cs := range byCategory {
		st.ByCategory = append(st.ByCategory, *cs)
	}
	sort.Slice(st.ByCategory, func(i, j int) bool { return st.ByCategory[i].Category < st.ByCategory[j].Category })
	return st, nil
}

type AlertStats struct {
	Total    int                      `json:"total_alertas"`
	Active   int                      `json:"alertas_activas"`
	Critical int                      `json:"alertas_criticas"`
	Overdue  int                      `json:"alertas_vencidas"`
	Resolved int                      `json:"alertas_resueltas"`
	ByKind   map[models.AlertKind]int `json:"por_tipo"`
}

// AlertStats counts alerts. Critical, overdue and per-kind counts only consider open alerts.
func (s *Service) AlertStats(ctx context.Context) (AlertStats, error) {
	alerts, err := s.allAlerts(ctx, nil)
	if err != nil {
		return AlertStats{}, err
	}

	days := s.settings.Number(ctx, settings.KeyOverdueDays, settings.DefaultOverdueDays)
	window := time.Duration(days * float64(24*time.Hour))
	now := s.now()

	st := AlertStats{Total: len(alerts), ByKind: map[models.AlertKind]int{}}
	for _, a := range alerts {
		if a.Resolved {
			st.Resolved++
			continue
		}
		st.Active++
		st.ByKind[a.Kind]++
		if a.Priority == models.PriorityCritical {
			st.Critical++
		}
		if a.Overdue(now, window) {
			st.Overdue++
		}
	}
	return st, nil
}
