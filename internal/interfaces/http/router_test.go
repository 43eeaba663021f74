package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/Stockeando-api/internal/application/analytics"
	"github.com/jhoicas/Stockeando-api/internal/application/auth"
	"github.com/jhoicas/Stockeando-api/internal/application/dto"
	"github.com/jhoicas/Stockeando-api/internal/application/inventory"
	"github.com/jhoicas/Stockeando-api/internal/application/ledger"
	"github.com/jhoicas/Stockeando-api/internal/application/qr"
	"github.com/jhoicas/Stockeando-api/internal/application/validation"
	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/docstore"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/memory"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Stockeando-api/internal/interfaces/http"
)

// testServer API completa sobre un store en memoria, con admin y operario creados.
type testServer struct {
	app      *fiber.App
	admin    string
	operario string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()
	rec := metrics.NewRecorder()
	repos := docstore.New(memory.NewStore(), log, rec)

	ledgerSvc := ledger.NewService(repos.Movements, repos.ProductStates, repos.Inventory, repos.Machines, log, rec)
	codes := inventory.NewCodeGenerator(repos.Counter, time.UTC, inventory.DefaultMaxCodeAttempts)
	registry := inventory.NewRegistry(repos.Inventory, repos.Machines, repos.Rejections, ledgerSvc, codes, time.UTC, log)
	renderer := pdf.NewMarotoRenderer("")
	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}, log)

	_, err := authUC.EnsureAdmin(ctx, "admin", "admin123", "Administrador")
	require.NoError(t, err)
	_, err = authUC.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Password: "ana12345", Role: entity.RoleOperario})
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Registry:  registry,
		Ledger:    ledgerSvc,
		Validator: validation.NewValidator(repos.Inventory, repos.Machines, repos.ProductStates, codes, log, rec),
		ReportUC:  appanalytics.NewReportUseCase(repos.Movements, repos.Rejections, renderer),
		BackupUC:  appanalytics.NewBackupUseCase(ledgerSvc, repos.Inventory, repos.Categories, nil, log),
		Dashboard: appanalytics.NewRefresher(
			appanalytics.NewDashboardUseCase(repos.Movements, repos.Inventory, repos.Machines), time.Minute, log),
		QRUC:          qr.NewUseCase(repos.Inventory, repos.Machines, repos.QRCodes, ledgerSvc, renderer),
		AuthUC:        authUC,
		Metrics:       rec,
		JWTSecret:     testJWTSecret,
		ServiceName:   "stockeando-test",
		RetentionDays: 30,
	})

	s := &testServer{app: app}
	s.admin = s.login(t, "admin", "admin123")
	s.operario = s.login(t, "ana", "ana12345")
	return s
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	decode(t, resp, &out)
	return "Bearer " + out.Token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func intPtr(i int) *int { return &i }

func TestRouter_HealthYLoginPublicos(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "mala"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/locations/deposito", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "las rutas de inventario requieren token")
}

func TestRouter_IngresoMovimientoYUbicacion(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/items", s.operario, dto.CreateItemRequest{Location: "deposito", Name: "Rollo kraft", Lot: "L-1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var item entity.Item
	decode(t, resp, &item)
	require.NotEmpty(t, item.ID)
	assert.True(t, strings.HasPrefix(item.Code, "RO-"), "código generado a partir del nombre: %s", item.Code)

	resp = s.do(t, http.MethodPost, "/api/items/move", s.operario, dto.MoveItemRequest{ItemID: item.ID, From: "deposito", To: "planta1", Index: intPtr(0)})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var moved dto.MoveItemResponse
	decode(t, resp, &moved)
	assert.True(t, moved.Moved)

	resp = s.do(t, http.MethodGet, "/api/locations/planta1", s.operario, nil)
	var loc dto.LocationItemsResponse
	decode(t, resp, &loc)
	require.Len(t, loc.Items, 1)
	assert.Equal(t, item.ID, loc.Items[0].ID)

	resp = s.do(t, http.MethodGet, "/api/items/"+item.ID+"/location", s.operario, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cur dto.CurrentLocationResponse
	decode(t, resp, &cur)
	assert.Equal(t, "planta1", cur.Location)
	assert.Equal(t, "Planta 1", cur.Label)

	resp = s.do(t, http.MethodGet, "/api/items/"+item.ID+"/history", s.operario, nil)
	var hist dto.ItemHistoryResponse
	decode(t, resp, &hist)
	require.Len(t, hist.History, 2)
	assert.Equal(t, "ingreso", hist.History[0].From)
	assert.Equal(t, "ana", hist.History[1].User, "el usuario del token queda registrado en el movimiento")
}

func TestRouter_MoverPosicionInexistenteNoHaceNada(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/items/move", s.operario, dto.MoveItemRequest{From: "deposito", To: "planta1", Index: intPtr(3)})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var moved dto.MoveItemResponse
	decode(t, resp, &moved)
	assert.False(t, moved.Moved)

	resp = s.do(t, http.MethodGet, "/api/movements", s.operario, nil)
	var page dto.MovementsPage
	decode(t, resp, &page)
	assert.Equal(t, 0, page.Page.Total, "no se registra movimiento")
}

func TestRouter_ErroresDeValidacion(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/items/move", s.operario, map[string]any{"from": "deposito", "to": "planta1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "index es obligatorio")

	resp = s.do(t, http.MethodPost, "/api/items/move", s.operario, dto.MoveItemRequest{From: "deposito", To: "luna", Index: intPtr(0)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_LOCATION")

	resp = s.do(t, http.MethodPost, "/api/items", s.operario, dto.CreateItemRequest{Location: "plant1MachineA", Name: "Rollo"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "no se ingresa directo a una máquina")

	resp = s.do(t, http.MethodGet, "/api/reports?from=01-01-2024", s.operario, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/codes/unique", s.operario, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_CodigoDuplicado(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/items", s.operario, dto.CreateItemRequest{Location: "deposito", Name: "Rollo", Code: "RO-010124-A"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/codes/unique?code=RO-010124-A", s.operario, nil)
	var u dto.CodeUniqueResponse
	decode(t, resp, &u)
	assert.False(t, u.Unique)

	resp = s.do(t, http.MethodPost, "/api/items", s.operario, dto.CreateItemRequest{Location: "planta2", Name: "Otro", Code: "RO-010124-A"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRouter_RutasSoloAdmin(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/plants/reset", "/api/movements/cleanup", "/api/backup/import"} {
		resp := s.do(t, http.MethodPost, path, s.operario, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
	}

	resp := s.do(t, http.MethodPost, "/api/movements/cleanup", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.CleanupResponse
	decode(t, resp, &out)
	assert.Equal(t, 30, out.RetentionDays)

	resp = s.do(t, http.MethodPost, "/api/plants/reset", s.admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_RechazoReporteYDashboard(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/items", s.operario, dto.CreateItemRequest{Location: "planta2", Name: "Bobina"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var item entity.Item
	decode(t, resp, &item)

	resp = s.do(t, http.MethodGet, "/api/dashboard/summary", s.operario, nil)
	var before dto.DashboardSummaryDTO
	decode(t, resp, &before)
	assert.Equal(t, 1, before.Inventory["planta2"])

	resp = s.do(t, http.MethodPost, "/api/items/reject", s.operario, dto.RejectItemRequest{ItemID: item.ID, From: "planta2", Index: intPtr(0), Reason: "Humedad"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/dashboard/summary", s.operario, nil)
	var after dto.DashboardSummaryDTO
	decode(t, resp, &after)
	assert.Equal(t, 0, after.Inventory["planta2"], "la escritura invalida el resumen en caché")
	assert.Equal(t, 1, after.Inventory["rechazados"])
	assert.Equal(t, 1, after.Movements.Rejected)

	resp = s.do(t, http.MethodGet, "/api/reports?plant=2", s.operario, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report dto.ReportDTO
	decode(t, resp, &report)
	require.Len(t, report.RejectionsByReason, 1)
	assert.Equal(t, "Humedad", report.RejectionsByReason[0].Reason)

	resp = s.do(t, http.MethodGet, "/api/reports/movements.csv", s.operario, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	csv, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.HasPrefix(string(csv), appanalytics.CSVHeader))
}

func TestRouter_QRYEtiqueta(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/items", s.operario, dto.CreateItemRequest{Location: "deposito", Name: "Rollo"})
	var item entity.Item
	decode(t, resp, &item)

	resp = s.do(t, http.MethodPost, "/api/items/"+item.ID+"/qr", s.operario, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.QRResponse
	decode(t, resp, &out)
	assert.Equal(t, item.ID, out.Payload.ID)
	assert.Equal(t, "deposito", out.Payload.Location)
	assert.Contains(t, out.QRText, item.ID)

	resp = s.do(t, http.MethodGet, "/api/items/"+item.ID+"/label.pdf", s.operario, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	resp = s.do(t, http.MethodPost, "/api/items/no-existe/qr", s.operario, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_RespaldoSinDestino(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/backup/upload", s.admin, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/backup", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "stockeando-backup-")
}

func TestRouter_MetricasExpuestas(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/items", s.operario, dto.CreateItemRequest{Location: "deposito", Name: "Rollo"})

	resp := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `stockeando_movements_recorded_total{to="deposito"} 1`)
}
