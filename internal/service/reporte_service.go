package service

import (
	"context"
	"sort"
	"time"

	"aseopro/internal/dto"
	"aseopro/internal/model"
	"aseopro/internal/repository"

	"github.com/shopspring/decimal"
)

// reporteFetchCap bounds every report query. Reports built from a truncated
// fetch mark Meta.Truncado so dashboards can warn about under-counted totals.
const reporteFetchCap = 5000

const topClientesMax = 10

type ReporteService interface {
	Ingresos(ctx context.Context, filter dto.RangoFilter) (*dto.ReporteIngresosResponse, error)
	Gastos(ctx context.Context, filter dto.RangoFilter) (*dto.ReporteGastosResponse, error)
	TopClientes(ctx context.Context, filter dto.RangoFilter) (*dto.ReporteTopClientesResponse, error)
	DesempenoEmpleados(ctx context.Context, filter dto.RangoFilter) (*dto.ReporteDesempenoResponse, error)
}

type reporteService struct {
	pedidoRepo   repository.PedidoRepository
	citaRepo     repository.CitaRepository
	gastoRepo    repository.GastoRepository
	empleadoRepo repository.EmpleadoRepository
	ahora        func() time.Time
}

func NewReporteService(
	pedidoRepo repository.PedidoRepository,
	citaRepo repository.CitaRepository,
	gastoRepo repository.GastoRepository,
	empleadoRepo repository.EmpleadoRepository,
) ReporteService {
	return &reporteService{
		pedidoRepo:   pedidoRepo,
		citaRepo:     citaRepo,
		gastoRepo:    gastoRepo,
		empleadoRepo: empleadoRepo,
		ahora:        time.Now,
	}
}

// resolverRango parses the inclusive date range, defaulting to the last 12
// months. Hasta extends to end-of-day so same-day records are included.
func (s *reporteService) resolverRango(filter dto.RangoFilter) (time.Time, time.Time) {
	hasta := s.ahora()
	if filter.Hasta != "" {
		if t, err := time.Parse("2006-01-02", filter.Hasta); err == nil {
			hasta = t
		}
	}
	hasta = time.Date(hasta.Year(), hasta.Month(), hasta.Day(), 23, 59, 59, 0, hasta.Location())

	desde := hasta.AddDate(-1, 0, 0)
	if filter.Desde != "" {
		if t, err := time.Parse("2006-01-02", filter.Desde); err == nil {
			desde = t
		}
	}
	return desde, hasta
}

func (s *reporteService) Ingresos(ctx context.Context, filter dto.RangoFilter) (*dto.ReporteIngresosResponse, error) {
	desde, hasta := s.resolverRango(filter)

	citas, err := s.citaRepo.ListRango(ctx, desde, hasta, reporteFetchCap)
	if err != nil {
		return nil, err
	}
	pedidos, err := s.pedidoRepo.ListRango(ctx, desde, hasta, reporteFetchCap)
	if err != nil {
		return nil, err
	}

	type acumulado struct {
		citas    decimal.Decimal
		pedidos  decimal.Decimal
		cantidad int
	}
	meses := map[string]*acumulado{}
	mesDe := func(t time.Time) *acumulado {
		clave := t.Format("2006-01")
		if meses[clave] == nil {
			meses[clave] = &acumulado{citas: decimal.Zero, pedidos: decimal.Zero}
		}
		return meses[clave]
	}

	for _, c := range citas {
		m := mesDe(c.FechaHora)
		m.citas = m.citas.Add(c.Precio)
		m.cantidad++
	}
	for _, p := range pedidos {
		if p.Estado == model.PedidoCancelado {
			continue
		}
		m := mesDe(p.CreatedAt)
		m.pedidos = m.pedidos.Add(p.MontoPagado)
		m.cantidad++
	}

	claves := make([]string, 0, len(meses))
	for k := range meses {
		claves = append(claves, k)
	}
	sort.Strings(claves)

	resp := &dto.ReporteIngresosResponse{
		Meses: make([]dto.IngresoMensual, 0, len(claves)),
		Total: decimal.Zero,
		Meta: dto.ReporteMeta{
			Limite:   reporteFetchCap,
			Truncado: len(citas) >= reporteFetchCap || len(pedidos) >= reporteFetchCap,
		},
	}
	for _, clave := range claves {
		m := meses[clave]
		total := m.citas.Add(m.pedidos)
		resp.Meses = append(resp.Meses, dto.IngresoMensual{
			Mes:      clave,
			Citas:    m.citas,
			Pedidos:  m.pedidos,
			Total:    total,
			Cantidad: m.cantidad,
		})
		resp.Total = resp.Total.Add(total)
	}
	return resp, nil
}

func (s *reporteService) Gastos(ctx context.Context, filter dto.RangoFilter) (*dto.ReporteGastosResponse, error) {
	desde, hasta := s.resolverRango(filter)

	gastos, err := s.gastoRepo.ListRango(ctx, desde, hasta, reporteFetchCap)
	if err != nil {
		return nil, err
	}

	meses := map[string]decimal.Decimal{}
	type porCategoria struct {
		total    decimal.Decimal
		cantidad int
	}
	categorias := map[string]*porCategoria{}
	total := decimal.Zero

	for _, g := range gastos {
		mes := g.Fecha.Format("2006-01")
		meses[mes] = meses[mes].Add(g.Monto)
		if categorias[g.Categoria] == nil {
			categorias[g.Categoria] = &porCategoria{total: decimal.Zero}
		}
		categorias[g.Categoria].total = categorias[g.Categoria].total.Add(g.Monto)
		categorias[g.Categoria].cantidad++
		total = total.Add(g.Monto)
	}

	clavesMes := make([]string, 0, len(meses))
	for k := range meses {
		clavesMes = append(clavesMes, k)
	}
	sort.Strings(clavesMes)

	resp := &dto.ReporteGastosResponse{
		Meses:      make([]dto.GastoMensual, 0, len(clavesMes)),
		Categorias: make([]dto.GastoPorCategoria, 0, len(categorias)),
		Total:      total,
		Meta: dto.ReporteMeta{
			Limite:   reporteFetchCap,
			Truncado: len(gastos) >= reporteFetchCap,
		},
	}
	for _, mes := range clavesMes {
		resp.Meses = append(resp.Meses, dto.GastoMensual{Mes: mes, Total: meses[mes]})
	}
	for categoria, c := range categorias {
		resp.Categorias = append(resp.Categorias, dto.GastoPorCategoria{
			Categoria: categoria,
			Total:     c.total,
			Cantidad:  c.cantidad,
		})
	}
	sort.Slice(resp.Categorias, func(i, j int) bool {
		return resp.Categorias[i].Total.GreaterThan(resp.Categorias[j].Total)
	})
	return resp, nil
}

func (s *reporteService) TopClientes(ctx context.Context, filter dto.RangoFilter) (*dto.ReporteTopClientesResponse, error) {
	desde, hasta := s.resolverRango(filter)

	citas, err := s.citaRepo.ListRango(ctx, desde, hasta, reporteFetchCap)
	if err != nil {
		return nil, err
	}

	// Group by telefono; records sin telefono fall back to nombre, so distinct
	// customers sharing a name without phone merge into one entry.
	grupos := map[string]*dto.TopCliente{}
	for _, c := range citas {
		clave := c.ClienteTelefono
		if clave == "" {
			clave = c.ClienteNombre
		}
		if grupos[clave] == nil {
			grupos[clave] = &dto.TopCliente{
				Clave:    clave,
				Nombre:   c.ClienteNombre,
				Telefono: c.ClienteTelefono,
				Total:    decimal.Zero,
			}
		}
		grupos[clave].Total = grupos[clave].Total.Add(c.Precio)
		grupos[clave].Citas++
	}

	clientes := make([]dto.TopCliente, 0, len(grupos))
	for _, g := range grupos {
		clientes = append(clientes, *g)
	}
	sort.Slice(clientes, func(i, j int) bool {
		return clientes[i].Total.GreaterThan(clientes[j].Total)
	})
	if len(clientes) > topClientesMax {
		clientes = clientes[:topClientesMax]
	}

	return &dto.ReporteTopClientesResponse{
		Clientes: clientes,
		Meta: dto.ReporteMeta{
			Limite:   reporteFetchCap,
			Truncado: len(citas) >= reporteFetchCap,
		},
	}, nil
}

func (s *reporteService) DesempenoEmpleados(ctx context.Context, filter dto.RangoFilter) (*dto.ReporteDesempenoResponse, error) {
	desde, hasta := s.resolverRango(filter)

	empleados, err := s.empleadoRepo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	asistencias, err := s.empleadoRepo.ListAsistencias(ctx, nil,
		desde.Format("2006-01-02"), hasta.Format("2006-01-02"), reporteFetchCap)
	if err != nil {
		return nil, err
	}
	citas, err := s.citaRepo.ListRango(ctx, desde, hasta, reporteFetchCap)
	if err != nil {
		return nil, err
	}

	porEmpleado := map[string]*dto.DesempenoEmpleado{}
	for _, e := range empleados {
		porEmpleado[e.ID.String()] = &dto.DesempenoEmpleado{
			EmpleadoID:      e.ID.String(),
			Nombre:          e.Nombre,
			IngresoGenerado: decimal.Zero,
		}
	}

	for _, a := range asistencias {
		d := porEmpleado[a.EmpleadoID.String()]
		if d == nil {
			continue
		}
		switch a.Estado {
		case model.AsistenciaPresente:
			d.Presentes++
		case model.AsistenciaAusente:
			d.Ausentes++
		case model.AsistenciaTarde:
			d.Tardes++
		case model.AsistenciaPermiso:
			d.Permisos++
		}
	}

	for _, c := range citas {
		if c.EmpleadoID == nil {
			continue
		}
		d := porEmpleado[c.EmpleadoID.String()]
		if d == nil {
			continue
		}
		d.CitasCompletadas++
		d.IngresoGenerado = d.IngresoGenerado.Add(c.Precio)
	}

	resultado := make([]dto.DesempenoEmpleado, 0, len(porEmpleado))
	for _, d := range porEmpleado {
		resultado = append(resultado, *d)
	}
	sort.Slice(resultado, func(i, j int) bool {
		return resultado[i].Nombre < resultado[j].Nombre
	})

	return &dto.ReporteDesempenoResponse{
		Empleados: resultado,
		Meta: dto.ReporteMeta{
			Limite:   reporteFetchCap,
			Truncado: len(citas) >= reporteFetchCap || len(asistencias) >= reporteFetchCap,
		},
	}, nil
}
