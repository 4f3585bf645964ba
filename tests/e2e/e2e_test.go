//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"aseopro/internal/config"
	"aseopro/internal/infra"
	"aseopro/internal/model"
	"aseopro/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Suite setup ──────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("aseopro_test"),
		tcPostgres.WithUsername("aseopro"),
		tcPostgres.WithPassword("aseopro"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("aseopro2026"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Usuario{
		Username:     "admin@e2e.test",
		Nombre:       "Admin E2E",
		PasswordHash: string(hash),
		Rol:          "administrador",
		Activo:       true,
	}).Error)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin@e2e.test", "password": "aseopro2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func crearProducto(t *testing.T, env *testEnv, nombre string, venta float64, stock int) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"nombre":        nombre,
			"precio_costo":  venta / 2,
			"precio_venta":  venta,
			"stock_inicial": stock,
			"stock_minimo":  2,
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

func stockDe(t *testing.T, env *testEnv, productoID string) int {
	t.Helper()
	resp := do(t, env.server, "GET", "/v1/productos/"+productoID, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var prod struct {
		StockActual int `json:"stock_actual"`
	}
	decodeJSON(t, resp, &prod)
	return prod.StockActual
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Ciclo completo de pedido: crear no toca stock, confirmar descuenta una sola
// vez, saldar promueve a pagado.
func TestE2E_CicloPedido(t *testing.T) {
	env := setupTestEnv(t)

	prodID := crearProducto(t, env, "Cloro gel 5L", 8000, 20)

	pedidoResp := do(t, env.server, "POST", "/v1/pedidos",
		jsonBody(t, map[string]any{
			"cliente_nombre":   "Condominio Los Aromos",
			"cliente_telefono": "+56911112222",
			"items": []map[string]any{
				{"producto_id": prodID, "cantidad": 3},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, pedidoResp.StatusCode)
	var pedido struct {
		ID     string `json:"id"`
		Numero string `json:"numero"`
		Estado string `json:"estado"`
		Total  string `json:"total"`
	}
	decodeJSON(t, pedidoResp, &pedido)
	assert.Equal(t, "creado", pedido.Estado)
	assert.Contains(t, pedido.Numero, "PED-")
	assert.Equal(t, 20, stockDe(t, env, prodID), "crear un pedido no reserva stock")

	estadoResp := do(t, env.server, "PUT", "/v1/pedidos/"+pedido.ID+"/estado",
		jsonBody(t, map[string]any{"estado": "confirmado"}), env.token)
	require.Equal(t, http.StatusOK, estadoResp.StatusCode)
	estadoResp.Body.Close()
	assert.Equal(t, 17, stockDe(t, env, prodID), "confirmar descuenta el stock")

	pagoResp := do(t, env.server, "POST", "/v1/pedidos/"+pedido.ID+"/pagos",
		jsonBody(t, map[string]any{"monto": 24000}), env.token)
	require.Equal(t, http.StatusOK, pagoResp.StatusCode)
	var pagado struct {
		Estado         string `json:"estado"`
		SaldoPendiente string `json:"saldo_pendiente"`
	}
	decodeJSON(t, pagoResp, &pagado)
	assert.Equal(t, "pagado", pagado.Estado)
	assert.Equal(t, "0", pagado.SaldoPendiente)
	assert.Equal(t, 17, stockDe(t, env, prodID), "el pago sobre pedido confirmado no vuelve a descontar")
}

// Venta de mostrador y anulación: el stock vuelve al valor previo.
func TestE2E_VentaYAnulacion(t *testing.T) {
	env := setupTestEnv(t)

	prodID := crearProducto(t, env, "Paño microfibra", 1500, 10)

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"items": []map[string]any{
				{"producto_id": prodID, "cantidad": 4},
			},
			"pagos": []map[string]any{
				{"metodo": "efectivo", "monto": 10000},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID           string `json:"id"`
		NumeroTicket int    `json:"numero_ticket"`
		Estado       string `json:"estado"`
		Vuelto       string `json:"vuelto"`
	}
	decodeJSON(t, ventaResp, &venta)
	assert.Equal(t, "completada", venta.Estado)
	assert.Equal(t, 1, venta.NumeroTicket)
	assert.Equal(t, "4000", venta.Vuelto)
	assert.Equal(t, 6, stockDe(t, env, prodID))

	anularResp := do(t, env.server, "POST", "/v1/ventas/"+venta.ID+"/anular",
		jsonBody(t, map[string]any{"motivo": "Error de digitación en caja"}), env.token)
	require.Equal(t, http.StatusNoContent, anularResp.StatusCode)
	anularResp.Body.Close()
	assert.Equal(t, 10, stockDe(t, env, prodID), "anular restaura el stock")
}

// Una compra incrementa stock y actualiza el costo; eliminarla lo revierte.
func TestE2E_CompraYReversa(t *testing.T) {
	env := setupTestEnv(t)

	prodID := crearProducto(t, env, "Detergente industrial", 12000, 5)

	provResp := do(t, env.server, "POST", "/v1/proveedores",
		jsonBody(t, map[string]any{"razon_social": "Distribuidora Sur Ltda"}), env.token)
	require.Equal(t, http.StatusCreated, provResp.StatusCode)
	var prov struct {
		ID string `json:"id"`
	}
	decodeJSON(t, provResp, &prov)

	compraResp := do(t, env.server, "POST", "/v1/compras",
		jsonBody(t, map[string]any{
			"proveedor_id": prov.ID,
			"factura":      "F-2026-0099",
			"items": []map[string]any{
				{"producto_id": prodID, "cantidad": 12, "costo_unitario": 5500},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, compraResp.StatusCode)
	var compra struct {
		ID     string `json:"id"`
		Numero string `json:"numero"`
	}
	decodeJSON(t, compraResp, &compra)
	assert.Equal(t, "C-F-2026-0099", compra.Numero)
	assert.Equal(t, 17, stockDe(t, env, prodID))

	delResp := do(t, env.server, "DELETE", "/v1/compras/"+compra.ID, nil, env.token)
	require.Equal(t, http.StatusNoContent, delResp.StatusCode)
	delResp.Body.Close()
	assert.Equal(t, 5, stockDe(t, env, prodID), "eliminar la compra revierte el ingreso")
}

// Ledger y stock cacheado coinciden tras una secuencia de movimientos.
func TestE2E_ReconciliacionSinDrift(t *testing.T) {
	env := setupTestEnv(t)

	prodID := crearProducto(t, env, "Bolsas 80L", 3000, 30)

	movResp := do(t, env.server, "POST", "/v1/inventario/movimientos",
		jsonBody(t, map[string]any{
			"producto_id": prodID,
			"tipo":        "salida",
			"cantidad":    7,
			"motivo":      "Merma por rotura",
		}), env.token)
	require.Equal(t, http.StatusCreated, movResp.StatusCode)
	var mov struct {
		StockAnterior int `json:"stock_anterior"`
		StockNuevo    int `json:"stock_nuevo"`
	}
	decodeJSON(t, movResp, &mov)
	assert.Equal(t, 30, mov.StockAnterior)
	assert.Equal(t, 23, mov.StockNuevo)

	recResp := do(t, env.server, "POST", "/v1/inventario/reconciliar", jsonBody(t, map[string]any{}), env.token)
	require.Equal(t, http.StatusOK, recResp.StatusCode)
	var rec struct {
		ProductosRevisados int   `json:"productos_revisados"`
		Drift              []any `json:"drift"`
	}
	decodeJSON(t, recResp, &rec)
	assert.Equal(t, 1, rec.ProductosRevisados)
	assert.Empty(t, rec.Drift)
}

// Un operario no puede tocar inventario ni reportes.
func TestE2E_RolesRestringenAcceso(t *testing.T) {
	env := setupTestEnv(t)

	crearResp := do(t, env.server, "POST", "/v1/usuarios",
		jsonBody(t, map[string]any{
			"username": "operario@e2e.test",
			"nombre":   "Operario E2E",
			"password": "clave-operario-1",
			"rol":      "operario",
		}), env.token)
	require.Equal(t, http.StatusCreated, crearResp.StatusCode)
	crearResp.Body.Close()

	loginResp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "operario@e2e.test", "password": "clave-operario-1"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &login)

	alertasResp := do(t, env.server, "GET", "/v1/inventario/alertas", nil, login.AccessToken)
	assert.Equal(t, http.StatusForbidden, alertasResp.StatusCode)
	alertasResp.Body.Close()

	prodResp := do(t, env.server, "GET", "/v1/productos", nil, login.AccessToken)
	assert.Equal(t, http.StatusOK, prodResp.StatusCode)
	prodResp.Body.Close()
}
