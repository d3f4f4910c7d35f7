package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/clientes-admin/internal/application/dto"
	"github.com/jhoicas/clientes-admin/internal/application/usecase"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
	"github.com/jhoicas/clientes-admin/internal/infrastructure/export"
	"github.com/jhoicas/clientes-admin/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/clientes-admin/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp arma la API completa sobre un repositorio en memoria.
func buildTestApp(t *testing.T, seed ...*entity.Customer) *fiber.App {
	t.Helper()
	repo := memory.NewCustomerRepository(memory.WithSeed(seed...))
	uc := usecase.NewCustomerUseCase(repo, entity.PolicyTyped,
		usecase.WithEncoders(export.Encoders()...),
		usecase.WithSheetReader(export.XLSXReader{}),
	)
	app := apphttp.NewApp(apphttp.AppOptions{Name: "clientes-test", CORSOrigins: "*"})
	apphttp.Router(app, apphttp.RouterDeps{CustomerUC: uc, AppName: "clientes-test"})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func ayse() dto.CustomerRequest {
	return dto.CustomerRequest{Name: "Ayşe", Surname: "Yılmaz", Email: "ayse@ornek.com", Phone: "05551234567", Type: "individual"}
}

func mobilya() dto.CustomerRequest {
	return dto.CustomerRequest{Name: "Mobilya", Surname: "A.Ş.", Type: "corporate", CompanyName: "Mobilya A.Ş."}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	app := buildTestApp(t)
	resp := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestRequestID_ReutilizaElRecibido(t *testing.T) {
	app := buildTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(apphttp.HeaderRequestID, "abc-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(apphttp.HeaderRequestID))
}

func TestCustomers_CrearYObtener(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/customers", ayse())
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decode[dto.CustomerResponse](t, resp)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "/api/customers/1", resp.Header.Get(fiber.HeaderLocation))
	assert.Equal(t, "individual", created.Type)
	assert.False(t, created.CreatedAt.IsZero())

	resp = doJSON(t, app, http.MethodGet, "/api/customers/1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decode[dto.CustomerResponse](t, resp)
	assert.Equal(t, created, got)
}

func TestCustomers_ListaOrdenDescendente(t *testing.T) {
	app := buildTestApp(t)
	require.Equal(t, fiber.StatusCreated, doJSON(t, app, http.MethodPost, "/api/customers", ayse()).StatusCode)
	require.Equal(t, fiber.StatusCreated, doJSON(t, app, http.MethodPost, "/api/customers", mobilya()).StatusCode)

	resp := doJSON(t, app, http.MethodGet, "/api/customers", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decode[[]dto.CustomerResponse](t, resp)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)
	assert.Equal(t, "Mobilya A.Ş.", list[0].CompanyName)
	assert.Equal(t, int64(1), list[1].ID)
}

func TestCustomers_ListaVaciaEsArreglo(t *testing.T) {
	app := buildTestApp(t)
	resp := doJSON(t, app, http.MethodGet, "/api/customers", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestCustomers_PaginaFiltrada(t *testing.T) {
	app := buildTestApp(t)
	require.Equal(t, fiber.StatusCreated, doJSON(t, app, http.MethodPost, "/api/customers", ayse()).StatusCode)
	require.Equal(t, fiber.StatusCreated, doJSON(t, app, http.MethodPost, "/api/customers", mobilya()).StatusCode)

	resp := doJSON(t, app, http.MethodGet, "/api/customers?search=mobilya", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page := decode[dto.CustomerPageResponse](t, resp)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Mobilya", page.Items[0].Name)
	assert.Equal(t, 1, page.Page.Total)
	assert.Equal(t, 5, page.Page.PageSize)
	assert.False(t, page.Empty)

	resp = doJSON(t, app, http.MethodGet, "/api/customers?search=nadie", nil)
	page = decode[dto.CustomerPageResponse](t, resp)
	assert.Empty(t, page.Items)
	assert.True(t, page.Empty)
}

func TestCustomers_TamanoDePaginaInvalido(t *testing.T) {
	app := buildTestApp(t)
	resp := doJSON(t, app, http.MethodGet, "/api/customers?pageSize=7", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/customers?page=x", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_PAGE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestCustomers_NoEncontrado(t *testing.T) {
	app := buildTestApp(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/customers/99"},
		{http.MethodDelete, "/api/customers/99"},
	} {
		resp := doJSON(t, app, tc.method, tc.path, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, tc.method)
		assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
	}
	resp := doJSON(t, app, http.MethodPut, "/api/customers/99", ayse())
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCustomers_IDInvalido(t *testing.T) {
	app := buildTestApp(t)
	for _, path := range []string{"/api/customers/abc", "/api/customers/0", "/api/customers/-3"} {
		resp := doJSON(t, app, http.MethodGet, path, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, path)
		assert.Equal(t, "INVALID_ID", decode[dto.ErrorResponse](t, resp).Code, path)
	}
}

func TestCustomers_ValidacionDevuelveCampos(t *testing.T) {
	app := buildTestApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/customers", dto.CustomerRequest{
		Name: "Ana", Type: "corporate",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Fields, "surname")
	assert.NotContains(t, body.Fields, "name")
	assert.Contains(t, body.Fields, "companyName")
}

func TestCustomers_CuerpoInvalido(t *testing.T) {
	app := buildTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader("{"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, resp).Code)
}

func TestCustomers_ActualizarYCambiarACorporativo(t *testing.T) {
	app := buildTestApp(t)
	require.Equal(t, fiber.StatusCreated, doJSON(t, app, http.MethodPost, "/api/customers", ayse()).StatusCode)

	req := ayse()
	req.Type = "kurumsal"
	req.CompanyName = "Yılmaz Ltd."
	resp := doJSON(t, app, http.MethodPut, "/api/customers/1", req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decode[dto.CustomerResponse](t, resp)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "corporate", got.Type)
	assert.Equal(t, "Yılmaz Ltd.", got.CompanyName)
}

func TestCustomers_ActualizarConIDDistinto(t *testing.T) {
	app := buildTestApp(t)
	require.Equal(t, fiber.StatusCreated, doJSON(t, app, http.MethodPost, "/api/customers", ayse()).StatusCode)

	req := ayse()
	other := int64(2)
	req.ID = &other
	resp := doJSON(t, app, http.MethodPut, "/api/customers/1", req)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ID_MISMATCH", decode[dto.ErrorResponse](t, resp).Code)

	same := int64(1)
	req.ID = &same
	resp = doJSON(t, app, http.MethodPut, "/api/customers/1", req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCustomers_Eliminar(t *testing.T) {
	app := buildTestApp(t)
	require.Equal(t, fiber.StatusCreated, doJSON(t, app, http.MethodPost, "/api/customers", ayse()).StatusCode)

	resp := doJSON(t, app, http.MethodDelete, "/api/customers/1", nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/customers/1", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCustomers_ExportarYAML(t *testing.T) {
	app := buildTestApp(t)
	require.Equal(t, fiber.StatusCreated, doJSON(t, app, http.MethodPost, "/api/customers", mobilya()).StatusCode)

	resp := doJSON(t, app, http.MethodGet, "/api/customers/export?format=yaml", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), ".yaml")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var doc struct {
		Customers []map[string]any `yaml:"customers"`
	}
	require.NoError(t, yaml.Unmarshal(raw, &doc))
	require.Len(t, doc.Customers, 1)
	assert.Equal(t, "Mobilya A.Ş.", doc.Customers[0]["companyName"])
}

func TestCustomers_ExportarFormatoDesconocido(t *testing.T) {
	app := buildTestApp(t)
	resp := doJSON(t, app, http.MethodGet, "/api/customers/export?format=docx", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCustomers_ImportarPlanilla(t *testing.T) {
	var sheet bytes.Buffer
	require.NoError(t, export.XLSXEncoder{}.Encode(&sheet, []*entity.Customer{
		{ID: 7, CustomerInput: entity.CustomerInput{Name: "Carlos", Surname: "Gómez", Category: entity.Individual{}}},
		{ID: 8, CustomerInput: entity.CustomerInput{Name: "", Surname: "SinNombre", Category: entity.Individual{}}},
	}))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "clientes.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(sheet.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	app := buildTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/api/customers/import", &body)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decode[dto.ImportResponse](t, resp)
	require.Len(t, out.Created, 1)
	assert.Equal(t, "Carlos", out.Created[0].Name)
	assert.Equal(t, int64(1), out.Created[0].ID)
	require.Len(t, out.Skipped, 1)
	assert.Equal(t, 3, out.Skipped[0].Row)
}

func TestCustomers_ImportarSinArchivo(t *testing.T) {
	app := buildTestApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/customers/import", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_FILE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestRutaInexistente(t *testing.T) {
	app := buildTestApp(t)
	resp := doJSON(t, app, http.MethodGet, "/api/nada", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}
