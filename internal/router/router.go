package router

import (
	"time"

	"aseopro/internal/config"
	"aseopro/internal/handler"
	"aseopro/internal/infra"
	"aseopro/internal/middleware"
	"aseopro/internal/repository"
	"aseopro/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	storage := infra.NewStorage(cfg)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	otInsumoRepo := repository.NewOTInsumoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	empleadoRepo := repository.NewEmpleadoRepository(db)
	citaRepo := repository.NewCitaRepository(db)
	gastoRepo := repository.NewGastoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoRepo)
	productoSvc := service.NewProductoService(productoRepo, inventarioSvc, storage)
	pedidoSvc := service.NewPedidoService(pedidoRepo, productoRepo, inventarioSvc)
	compraSvc := service.NewCompraService(compraRepo, proveedorRepo, productoRepo, inventarioSvc)
	proveedorSvc := service.NewProveedorService(proveedorRepo)
	otInsumoSvc := service.NewOTInsumoService(otInsumoRepo, productoRepo, inventarioSvc)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, inventarioSvc)
	clienteSvc := service.NewClienteService(clienteRepo, storage)
	empleadoSvc := service.NewEmpleadoService(empleadoRepo, storage)
	citaSvc := service.NewCitaService(citaRepo, clienteRepo)
	gastoSvc := service.NewGastoService(gastoRepo, storage)
	reporteSvc := service.NewReporteService(pedidoRepo, citaRepo, gastoRepo, empleadoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	comprasH := handler.NewComprasHandler(compraSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	otInsumosH := handler.NewOTInsumosHandler(otInsumoSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	empleadosH := handler.NewEmpleadosHandler(empleadoSvc)
	citasH := handler.NewCitasHandler(citaSvc)
	gastosH := handler.NewGastosHandler(gastoSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)
	archivosH := handler.NewArchivosHandler(storage)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: operario, supervisor, administrador — declared per-endpoint
		todos := middleware.RequireRole("operario", "supervisor", "administrador")
		gestion := middleware.RequireRole("supervisor", "administrador")
		admin := middleware.RequireRole("administrador")

		// Catálogo — all roles can read, writes are supervisor+
		v1.GET("/productos", todos, productosH.Listar)
		v1.GET("/productos/:id", todos, productosH.Obtener)
		prods := v1.Group("/productos", gestion)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
		}

		inv := v1.Group("/inventario", gestion)
		{
			inv.POST("/movimientos", inventarioH.RegistrarMovimiento)
			inv.GET("/movimientos", inventarioH.ListarMovimientos)
			inv.GET("/alertas", inventarioH.Alertas)
			inv.POST("/reconciliar", inventarioH.Reconciliar)
		}

		pedidos := v1.Group("/pedidos", gestion)
		{
			pedidos.POST("", pedidosH.Crear)
			pedidos.GET("", pedidosH.Listar)
			pedidos.GET("/:id", pedidosH.Obtener)
			pedidos.PUT("/:id/estado", pedidosH.CambiarEstado)
			pedidos.POST("/:id/pagos", pedidosH.RegistrarPago)
		}

		compras := v1.Group("/compras", gestion)
		{
			compras.POST("", comprasH.Registrar)
			compras.GET("", comprasH.Listar)
			compras.GET("/:id", comprasH.Obtener)
			compras.DELETE("/:id", comprasH.Eliminar)
		}

		prov := v1.Group("/proveedores", gestion)
		{
			prov.POST("", proveedoresH.Crear)
			prov.GET("", proveedoresH.Listar)
			prov.GET("/:id", proveedoresH.Obtener)
			prov.PUT("/:id", proveedoresH.Actualizar)
			prov.DELETE("/:id", proveedoresH.Desactivar)
		}

		// Insumos de órdenes de trabajo — operarios register their own consumption
		otInsumos := v1.Group("/ot-insumos", todos)
		{
			otInsumos.POST("", otInsumosH.Crear)
			otInsumos.GET("", otInsumosH.ListarPorOT)
			otInsumos.PUT("/:id", otInsumosH.Actualizar)
			otInsumos.DELETE("/:id", otInsumosH.Eliminar)
		}

		v1.POST("/ventas", todos, ventasH.Registrar)
		v1.GET("/ventas", todos, ventasH.Listar)
		v1.GET("/ventas/:id", todos, ventasH.Obtener)
		v1.POST("/ventas/:id/anular", gestion, ventasH.Anular)

		clientes := v1.Group("/clientes", todos)
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.Obtener)
			clientes.PUT("/:id", clientesH.Actualizar)
		}
		v1.DELETE("/clientes/:id", gestion, clientesH.Desactivar)

		empleados := v1.Group("/empleados", gestion)
		{
			empleados.POST("", empleadosH.Crear)
			empleados.GET("", empleadosH.Listar)
			empleados.GET("/:id", empleadosH.Obtener)
			empleados.PUT("/:id", empleadosH.Actualizar)
			empleados.DELETE("/:id", empleadosH.Desactivar)
			empleados.POST("/asistencias", empleadosH.RegistrarAsistencia)
			empleados.GET("/asistencias", empleadosH.ListarAsistencias)
			empleados.POST("/horas", empleadosH.RegistrarHoras)
			empleados.GET("/:id/horas", empleadosH.SaldoHoras)
		}

		citas := v1.Group("/citas", todos)
		{
			citas.POST("", citasH.Crear)
			citas.GET("", citasH.Listar)
			citas.GET("/:id", citasH.Obtener)
			citas.PUT("/:id", citasH.Actualizar)
		}
		v1.DELETE("/citas/:id", gestion, citasH.Eliminar)

		gastos := v1.Group("/gastos", gestion)
		{
			gastos.POST("", gastosH.Crear)
			gastos.GET("", gastosH.Listar)
			gastos.GET("/:id", gastosH.Obtener)
			gastos.PUT("/:id", gastosH.Actualizar)
			gastos.DELETE("/:id", gastosH.Eliminar)
		}

		reportes := v1.Group("/reportes", gestion)
		{
			reportes.GET("/ingresos", reportesH.Ingresos)
			reportes.GET("/gastos", reportesH.Gastos)
			reportes.GET("/top-clientes", reportesH.TopClientes)
			reportes.GET("/desempeno-empleados", reportesH.DesempenoEmpleados)
		}

		v1.POST("/archivos", todos, archivosH.Subir)

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
