package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/uleam/univoz-service/internal/models"
	"github.com/uleam/univoz-service/internal/repositories/postgres"
	"github.com/uleam/univoz-service/internal/services"
	"github.com/uleam/univoz-service/internal/testutil"
	"github.com/uleam/univoz-service/internal/utils"
	"github.com/uleam/univoz-service/internal/validator"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	require.NoError(t, postgres.Migrate(ctx, db))
	client, _ := testutil.SetupTestRedis(t)

	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: client,
		CacheTTL:    time.Minute,
	})

	sm := services.NewServiceManager(repo, slog.New(slog.NewTextHandler(io.Discard, nil)), validator.New(), services.ServiceManagerConfig{
		BcryptCost: bcrypt.MinCost,
		Seeds:      services.DefaultSeeds("123456", "admin123"),
	})
	require.NoError(t, sm.Initialize(ctx))
	_, err := sm.Auth().Bootstrap(ctx)
	require.NoError(t, err)

	router := gin.New()
	SetupMiddleware(router, utils.Discard(), nil)
	NewHandlerManager(sm, utils.Discard()).SetupRoutes(router)
	return router
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "seeded admin",
			body:       map[string]string{"email": "admin@live.uleam.edu.ec", "password": "123456"},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"success","email":"admin@live.uleam.edu.ec","rol":"admin"}`,
		},
		{
			name:       "wrong password",
			body:       map[string]string{"email": "admin@live.uleam.edu.ec", "password": "bad"},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Contraseña incorrecta"}`,
		},
		{
			name:       "unknown email",
			body:       map[string]string{"email": "ghost@x.com", "password": "123456"},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Usuario no encontrado"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, testutil.MakeRequest(http.MethodPost, "/api/login", tt.body))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestLogin_MalformedBody(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := serve(router, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBootstrapRoute(t *testing.T) {
	router := setupRouter(t)

	w := serve(router, testutil.MakeRequest(http.MethodGet, "/api/crear-usuarios", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "admin@live.uleam.edu.ec")
	assert.NotContains(t, w.Body.String(), "123456")

	users := serve(router, testutil.MakeRequest(http.MethodGet, "/api/usuarios", nil))
	var list []map[string]interface{}
	testutil.DecodeJSON(t, users, &list)
	assert.Len(t, list, 3, "re-running bootstrap adds no accounts")
}

func TestPendingAndVote(t *testing.T) {
	router := setupRouter(t)

	w := serve(router, testutil.MakeRequest(http.MethodGet, "/api/pendientes?email=new@x.com", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"pendientes":1,"estado":{"elecciones":false,"cafeteria":false,"laboratorios":false}}`, w.Body.String())

	vote := map[string]string{"email": "new@x.com", "candidato": "Lista A", "propuestas": "p", "comentarios": "c"}
	w = serve(router, testutil.MakeRequest(http.MethodPost, "/api/votar", vote))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","message":"Voto guardado"}`, w.Body.String())

	vote["candidato"] = "Lista B"
	w = serve(router, testutil.MakeRequest(http.MethodPost, "/api/votar", vote))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"Usuario ya votó"}`, w.Body.String())

	w = serve(router, testutil.MakeRequest(http.MethodGet, "/api/resultados", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"candidato":"Lista A","total":1}]`, w.Body.String())

	w = serve(router, testutil.MakeRequest(http.MethodGet, "/api/pendientes?email=new@x.com", nil))
	assert.JSONEq(t, `{"pendientes":0,"estado":{"elecciones":true,"cafeteria":false,"laboratorios":false}}`, w.Body.String())

	w = serve(router, testutil.MakeRequest(http.MethodDelete, "/api/votos", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","message":"Votos eliminados correctamente"}`, w.Body.String())

	w = serve(router, testutil.MakeRequest(http.MethodGet, "/api/resultados", nil))
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestOpinions(t *testing.T) {
	router := setupRouter(t)

	opinion := map[string]interface{}{"email": "a@x.com", "categoria": "cafeteria", "calificacion": 4, "comentario": "ok"}
	for i := 0; i < 2; i++ {
		w := serve(router, testutil.MakeRequest(http.MethodPost, "/api/opinion", opinion))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"success"}`, w.Body.String())
	}

	w := serve(router, testutil.MakeRequest(http.MethodGet, "/api/opiniones", nil))
	var rows []models.Opinion
	testutil.DecodeJSON(t, w, &rows)
	require.Len(t, rows, 2, "repeated opinions are stored")
	assert.Equal(t, uint(2), rows[0].ID)

	w = serve(router, testutil.MakeRequest(http.MethodDelete, "/api/opiniones-reset", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Falta la categoría"}`, w.Body.String())

	w = serve(router, testutil.MakeRequest(http.MethodDelete, "/api/opiniones/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, testutil.MakeRequest(http.MethodDelete, "/api/opiniones/1", nil))
	assert.JSONEq(t, `{"status":"success","message":"Opinión eliminada"}`, w.Body.String())

	w = serve(router, testutil.MakeRequest(http.MethodDelete, "/api/opiniones-reset?categoria=cafeteria", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","message":"Se reinició la categoría cafeteria"}`, w.Body.String())

	w = serve(router, testutil.MakeRequest(http.MethodGet, "/api/opiniones", nil))
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestFullReset(t *testing.T) {
	router := setupRouter(t)

	serve(router, testutil.MakeRequest(http.MethodPost, "/api/votar", map[string]string{"email": "a@x.com", "candidato": "Lista A"}))
	serve(router, testutil.MakeRequest(http.MethodPost, "/api/opinion", map[string]interface{}{"email": "a@x.com", "categoria": "laboratorios", "calificacion": 3}))

	w := serve(router, testutil.MakeRequest(http.MethodDelete, "/api/reset", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","message":"Sistema reiniciado"}`, w.Body.String())

	serve(router, testutil.MakeRequest(http.MethodPost, "/api/opinion", map[string]interface{}{"email": "b@x.com", "categoria": "laboratorios", "calificacion": 5}))
	w = serve(router, testutil.MakeRequest(http.MethodGet, "/api/opiniones", nil))
	var rows []models.Opinion
	testutil.DecodeJSON(t, w, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, uint(1), rows[0].ID, "ids restart after reset")
}

func TestUserAdministration(t *testing.T) {
	router := setupRouter(t)

	w := serve(router, testutil.MakeRequest(http.MethodPost, "/api/usuarios", map[string]string{"email": "ana@x.com", "password": "pw"}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","message":"Usuario creado"}`, w.Body.String())

	w = serve(router, testutil.MakeRequest(http.MethodPost, "/api/usuarios", map[string]string{"email": "ana@x.com", "password": "pw2", "rol": "admin"}))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Error al crear usuario (quizás el correo ya existe)"}`, w.Body.String())

	w = serve(router, testutil.MakeRequest(http.MethodGet, "/api/usuarios", nil))
	var users []map[string]interface{}
	testutil.DecodeJSON(t, w, &users)
	require.Len(t, users, 4)
	for _, u := range users {
		assert.NotContains(t, u, "password")
	}
	last := users[3]
	assert.Equal(t, "ana@x.com", last["email"])
	assert.Equal(t, "estudiante", last["rol"])

	w = serve(router, testutil.MakeRequest(http.MethodPut, "/api/usuarios/4/rol", map[string]string{"nuevoRol": "admin"}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success"}`, w.Body.String())

	w = serve(router, testutil.MakeRequest(http.MethodPost, "/api/login", map[string]string{"email": "ana@x.com", "password": "pw"}))
	assert.JSONEq(t, `{"status":"success","email":"ana@x.com","rol":"admin"}`, w.Body.String())

	w = serve(router, testutil.MakeRequest(http.MethodDelete, "/api/usuarios/999", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","message":"Usuario eliminado"}`, w.Body.String())

	w = serve(router, testutil.MakeRequest(http.MethodDelete, "/api/usuarios/x", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, testutil.MakeRequest(http.MethodPost, "/api/usuarios", map[string]string{"password": "pw"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExports(t *testing.T) {
	router := setupRouter(t)

	serve(router, testutil.MakeRequest(http.MethodPost, "/api/votar", map[string]string{"email": "a@x.com", "candidato": "Lista A"}))

	for _, path := range []string{"/api/resultados/export", "/api/opiniones/export?categoria=cafeteria", "/api/votos/export"} {
		w := serve(router, testutil.MakeRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"), path)
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx", path)
		assert.NotZero(t, w.Body.Len(), path)
	}
}

func TestHealthAndRequestID(t *testing.T) {
	router := setupRouter(t)

	req := testutil.MakeRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := serve(router, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"univoz-service"}`, w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = serve(router, testutil.MakeRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestMissingEmailKey(t *testing.T) {
	router := setupRouter(t)

	w := serve(router, testutil.MakeRequest(http.MethodPost, "/api/votar", map[string]string{"candidato": "Lista A"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, testutil.MakeRequest(http.MethodPost, "/api/opinion", map[string]interface{}{"categoria": "cafeteria", "calificacion": 2}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, testutil.MakeRequest(http.MethodPost, "/api/votar", map[string]string{"email": "", "candidato": "Lista A"}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","message":"Voto guardado"}`, w.Body.String())

	w = serve(router, testutil.MakeRequest(http.MethodPost, "/api/opinion", map[string]interface{}{"email": "", "categoria": "cafeteria", "calificacion": 2}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success"}`, w.Body.String())
}
