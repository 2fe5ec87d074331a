package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/config"
	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/database"
	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/router"
)

var testDBSeq int

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDBSeq++
	dsn := fmt.Sprintf("file:handlertest%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: gin.TestMode},
		JWT:      config.JWTConfig{Secret: "secreto-de-prueba", ExpireHours: 1},
		Security: config.SecurityConfig{BcryptCost: 4},
	}
	return router.SetupRouter(cfg, db)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return m
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var l []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &l); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return l
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeMap(t, w)
	e, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("response has no tagged error envelope: %q", w.Body.String())
	}
	msgs, ok := e["messages"].([]any)
	if !ok || len(msgs) == 0 {
		t.Fatalf("error envelope has no messages: %q", w.Body.String())
	}
	s, _ := msgs[0].(string)
	return s
}

func signup(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@test.local",
		"password": "secreto123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register %s: status %d body %s", username, w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": username,
		"password": "secreto123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, w.Code, w.Body.String())
	}
	token, _ := decodeMap(t, w)["token"].(string)
	if token == "" {
		t.Fatalf("login %s returned no token", username)
	}
	return token
}

// ---------- auth ----------

func TestRegisterDuplicateEmail(t *testing.T) {
	r := newTestRouter(t)
	signup(t, r, "ana")

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "otra",
		"email":    "ana@test.local",
		"password": "secreto123",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if msg := errorMessage(t, w); msg != "el correo ya esta en uso" {
		t.Errorf("message = %q", msg)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	r := newTestRouter(t)
	signup(t, r, "ana")

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "ana",
		"password": "equivocada",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if msg := errorMessage(t, w); msg != "Incorrect password" {
		t.Errorf("message = %q", msg)
	}
}

func TestProtectedWithoutToken(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/finanzas", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "ana")

	if w := doJSON(t, r, http.MethodGet, "/api/auth/verify", token, nil); w.Code != http.StatusOK {
		t.Fatalf("verify before logout: %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/api/auth/logout", token, nil); w.Code != http.StatusOK {
		t.Fatalf("logout: %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/auth/verify", token, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("verify after logout = %d, want 401", w.Code)
	}
}

// ---------- finanzas ----------

func createFinanza(t *testing.T, r *gin.Engine, token string, valor float64, descripcion, tipo, fecha string) map[string]any {
	t.Helper()
	body := gin.H{"valor": valor, "descripcion": descripcion, "tipo": tipo}
	if fecha != "" {
		body["fecha"] = fecha
	}
	w := doJSON(t, r, http.MethodPost, "/api/finanzas", token, body)
	if w.Code != http.StatusOK {
		t.Fatalf("create finanza: status %d body %s", w.Code, w.Body.String())
	}
	return decodeMap(t, w)
}

func TestCreateFinanzaInvalidTipo(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "ana")

	w := doJSON(t, r, http.MethodPost, "/api/finanzas", token, gin.H{
		"valor": 100, "descripcion": "test", "tipo": "Otro",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if msg := errorMessage(t, w); msg != "El tipo debe ser gasto o Ingreso" {
		t.Errorf("message = %q", msg)
	}
}

func TestFinanzaCRUDAndOwnership(t *testing.T) {
	r := newTestRouter(t)
	ana := signup(t, r, "ana")
	beto := signup(t, r, "beto")

	created := createFinanza(t, r, ana, 200, "Venta", "Ingreso", "2025-01-01")
	id := int(created["id"].(float64))

	// owner reads it back
	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/finanzas/%d", id), ana, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: %d", w.Code)
	}

	// another user sees 404, not 403: existence is not revealed
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/finanzas/%d", id), beto, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-user get = %d, want 404", w.Code)
	}

	// partial update
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/finanzas/%d", id), ana, gin.H{"valor": 500})
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	updated := decodeMap(t, w)
	if updated["valor"].(float64) != 500 {
		t.Errorf("valor = %v, want 500", updated["valor"])
	}
	if updated["descripcion"] != "Venta" {
		t.Errorf("partial update must keep descripcion, got %v", updated["descripcion"])
	}

	// delete -> 204, then 404
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/finanzas/%d", id), ana, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete = %d, want 204", w.Code)
	}
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/finanzas/%d", id), ana, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("re-delete = %d, want 404", w.Code)
	}
}

func TestBalance(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "ana")

	createFinanza(t, r, token, 100, "a", "Ingreso", "")
	createFinanza(t, r, token, 200, "b", "Ingreso", "")
	createFinanza(t, r, token, 50, "c", "Gasto", "")

	w := doJSON(t, r, http.MethodGet, "/api/finanzasBalance", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("balance: %d %s", w.Code, w.Body.String())
	}
	body := decodeMap(t, w)
	if body["ingresos"].(float64) != 300 || body["gastos"].(float64) != 50 || body["balance"].(float64) != 250 {
		t.Errorf("balance = %v, want {300 50 250}", body)
	}
}

func TestBalancePeriodo(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "ana")

	createFinanza(t, r, token, 100, "enero", "Ingreso", "2025-01-15")
	createFinanza(t, r, token, 40, "enero gasto", "Gasto", "2025-01-20")
	createFinanza(t, r, token, 999, "febrero", "Ingreso", "2025-02-01")

	w := doJSON(t, r, http.MethodGet,
		"/api/finanzasPeriodo?fechaInicio=2025-01-01&fechaFin=2025-01-31", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("periodo: %d %s", w.Code, w.Body.String())
	}
	body := decodeMap(t, w)
	if body["ingresosPeriodo"].(float64) != 100 ||
		body["gastosPeriodo"].(float64) != 40 ||
		body["balancePeriodo"].(float64) != 60 {
		t.Errorf("periodo = %v, want {100 40 60}", body)
	}
	registros := body["registros"].([]any)
	if len(registros) != 2 {
		t.Errorf("registros = %d, want 2 (february entry excluded)", len(registros))
	}
}

func TestBalancePeriodoBadDates(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "ana")

	cases := []string{
		"/api/finanzasPeriodo",
		"/api/finanzasPeriodo?fechaInicio=2025-01-01",
		"/api/finanzasPeriodo?fechaInicio=no-es-fecha&fechaFin=2025-01-31",
		"/api/finanzasPeriodo?fechaInicio=2025-02-01&fechaFin=2025-01-01",
	}
	for _, path := range cases {
		w := doJSON(t, r, http.MethodGet, path, token, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, w.Code)
			continue
		}
		if msg := errorMessage(t, w); msg != "valores incorrectos" {
			t.Errorf("%s: message = %q", path, msg)
		}
	}
}

// ---------- metas ----------

func createMeta(t *testing.T, r *gin.Engine, token string, titulo string, objetivo float64) map[string]any {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/metas", token, gin.H{
		"titulo":        titulo,
		"descripcion":   "una meta",
		"valorObjetivo": objetivo,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create meta: status %d body %s", w.Code, w.Body.String())
	}
	return decodeMap(t, w)
}

func TestMetaAhorroOverTarget(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "ana")

	meta := createMeta(t, r, token, "Viaje", 1000)
	id := int(meta["id"].(float64))

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/metas/%d/ahorro", id), token,
		gin.H{"valorAhorro": 2000})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if msg := errorMessage(t, w); msg != "El ahorro no puede exceder el valor objetivo de la meta." {
		t.Errorf("message = %q", msg)
	}

	// stored saved amount unchanged
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/metas/%d", id), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get meta: %d", w.Code)
	}
	if got := decodeMap(t, w)["valorAhorroActual"].(float64); got != 0 {
		t.Errorf("valorAhorroActual = %v, want 0", got)
	}
}

func TestMetaCrossUserForbidden(t *testing.T) {
	r := newTestRouter(t)
	ana := signup(t, r, "ana")
	beto := signup(t, r, "beto")

	meta := createMeta(t, r, ana, "Casa", 5000)
	id := int(meta["id"].(float64))

	// caller B cannot update caller A's goal
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/metas/%d/ahorro", id), beto,
		gin.H{"valorAhorro": 100})
	if w.Code != http.StatusForbidden {
		t.Fatalf("cross-user update = %d, want 403", w.Code)
	}

	// A's own valid update succeeds and returns the updated record
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/metas/%d/ahorro", id), ana,
		gin.H{"valorAhorro": 500})
	if w.Code != http.StatusOK {
		t.Fatalf("own update = %d body %s", w.Code, w.Body.String())
	}
	if got := decodeMap(t, w)["valorAhorroActual"].(float64); got != 500 {
		t.Errorf("valorAhorroActual = %v, want 500", got)
	}

	// B cannot delete it either
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/metas/%d", id), beto, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("cross-user delete = %d, want 403", w.Code)
	}
}

func TestMetaUpdateTargetNotRetroactive(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "ana")

	meta := createMeta(t, r, token, "Moto", 1000)
	id := int(meta["id"].(float64))

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/metas/%d/ahorro", id), token,
		gin.H{"valorAhorro": 800})
	if w.Code != http.StatusOK {
		t.Fatalf("set ahorro: %d", w.Code)
	}

	// lowering the target below the saved amount is allowed: the
	// invariant is never enforced retroactively on target edits
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/metas/%d", id), token,
		gin.H{"valorObjetivo": 500})
	if w.Code != http.StatusOK {
		t.Fatalf("lower target = %d body %s", w.Code, w.Body.String())
	}
}

func TestMetaNotFound(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "ana")

	w := doJSON(t, r, http.MethodGet, "/api/metas/999", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if msg := errorMessage(t, w); msg != "Meta no encontrada" {
		t.Errorf("message = %q", msg)
	}
}

// ---------- historial ----------

func TestHistorial(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "ana")

	createFinanza(t, r, token, 500, "Pago", "Ingreso", "2024-01-10")
	createFinanza(t, r, token, 50, "Mercado", "Gasto", "2024-02-01")

	w := doJSON(t, r, http.MethodGet, "/api/historial", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("historial: %d %s", w.Code, w.Body.String())
	}
	items := decodeList(t, w)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	first := items[0]
	if first["tipo"] != "Finanza" || first["accion"] != "Gasto" ||
		first["descripcion"] != "Mercado" || first["monto"].(float64) != 50 {
		t.Errorf("first item = %v, want the most recent entry projected", first)
	}

	// bounded to january only
	w = doJSON(t, r, http.MethodGet, "/api/historial?fechaInicio=2024-01-01&fechaFin=2024-01-31", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("historial filtrado: %d", w.Code)
	}
	if items := decodeList(t, w); len(items) != 1 || items[0]["accion"] != "Ingreso" {
		t.Errorf("filtered items = %v, want only the january entry", items)
	}
}

func TestDescargarPDF(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "ana")
	createFinanza(t, r, token, 100, "Pago", "Ingreso", "2024-01-02")

	w := doJSON(t, r, http.MethodGet, "/api/historial/descargar?formato=pdf", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("descargar pdf: %d %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != "attachment; filename=historial.pdf" {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body is not a PDF document")
	}
}

func TestDescargarExcel(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "ana")
	createFinanza(t, r, token, 100, "Pago", "Ingreso", "2024-01-02")

	w := doJSON(t, r, http.MethodGet, "/api/historial/descargar?formato=excel", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("descargar excel: %d %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml.sheet") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != "attachment; filename=historial.xlsx" {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("PK")) {
		t.Error("body is not a zip-based workbook")
	}
}

func TestDescargarFormatoInvalido(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "ana")

	w := doJSON(t, r, http.MethodGet, "/api/historial/descargar?formato=txt", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if msg := errorMessage(t, w); msg != "Formato inválido" {
		t.Errorf("message = %q", msg)
	}
}
