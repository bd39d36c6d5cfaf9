package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/albaranes-api/internal/application/auth"
	"github.com/jhoicas/albaranes-api/internal/application/deliverynote"
	"github.com/jhoicas/albaranes-api/internal/application/dto"
	appmail "github.com/jhoicas/albaranes-api/internal/application/mail"
	"github.com/jhoicas/albaranes-api/internal/application/usecase"
	"github.com/jhoicas/albaranes-api/internal/application/validation"
	infmail "github.com/jhoicas/albaranes-api/internal/infrastructure/mail"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/pdf"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/postgres"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/albaranes-api/internal/interfaces/http"
)

type apiEnv struct {
	app   *fiber.App
	queue *infmail.MemoryQueue
}

// newAPI monta la aplicación completa sobre SQLite en memoria y almacenamiento local temporal.
func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	db, err := postgres.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, postgres.AutoMigrate(db))
	t.Cleanup(func() { _ = postgres.Close(db) })

	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	queue := infmail.NewMemoryQueue(50)
	notifier := appmail.NewDispatcher(queue, "http://front.test", nil)

	users := postgres.NewUserRepository(db)
	clients := postgres.NewClientRepository(db)
	projects := postgres.NewProjectRepository(db)
	invitations := postgres.NewInvitationRepository(db)
	notes := postgres.NewDeliveryNoteRepository(db)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(nil, true)})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(users, notifier, auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}, nil),
		UserUC:         usecase.NewUserUseCase(users, notifier, nil),
		CompanyUC:      usecase.NewCompanyUseCase(users),
		InvitationUC:   usecase.NewInvitationUseCase(users, invitations, postgres.NewTxRunner(db), notifier, nil),
		ClientUC:       usecase.NewClientUseCase(clients, users, nil),
		ProjectUC:      usecase.NewProjectUseCase(projects, clients, nil),
		DeliveryNoteUC: deliverynote.NewUseCase(notes, projects, clients, users, store, pdf.NewMarotoPDFGenerator(), nil),
		Users:          users,
		Validator:      validation.NewValidator(),
		JWTSecret:      testJWTSecret,
		StorageDir:     store.Dir(),
	})
	return &apiEnv{app: app, queue: queue}
}

// call envía body como JSON (si no es nil) y devuelve la respuesta con el cuerpo leído.
func (e *apiEnv) call(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return e.do(t, req, token)
}

func (e *apiEnv) do(t *testing.T, req *http.Request, token string) (*http.Response, []byte) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

// register da de alta un usuario y devuelve su JWT.
func (e *apiEnv) register(t *testing.T, name, email, company string) string {
	t.Helper()
	resp, raw := e.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Name: name, Email: email, Password: "secreto1", CompanyName: company,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var out dto.AuthResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

// nextToken extrae el token del enlace del siguiente email encolado.
func (e *apiEnv) nextToken(t *testing.T, kind string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg, err := e.queue.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, kind, msg.Kind)
	u, err := url.Parse(msg.Text)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func signaturePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		img.Set(x, 10, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// signRequest construye el multipart con la imagen en el campo "firma".
func signRequest(t *testing.T, noteID, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="firma"; filename="firma.png"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPatch, "/api/deliverynotes/"+noteID+"/sign", &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

// seedNote crea cliente, proyecto y un albarán con líneas {10×50, 1×120}.
func (e *apiEnv) seedNote(t *testing.T, token string) dto.DeliveryNoteResponse {
	t.Helper()
	resp, raw := e.call(t, http.MethodPost, "/api/clients", token, dto.CreateClientRequest{Name: "Construcciones Sur"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	client := decode[dto.ClientResponse](t, raw)
	assert.Equal(t, "España", client.Address.Country)

	resp, raw = e.call(t, http.MethodPost, "/api/projects", token, dto.CreateProjectRequest{
		Name: "Reforma local", ClientID: client.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	project := decode[dto.ProjectResponse](t, raw)
	assert.Equal(t, "Pendiente", project.Status)

	ten, fifty := decimal.NewFromInt(10), decimal.NewFromInt(50)
	one, price := decimal.NewFromInt(1), decimal.NewFromInt(120)
	resp, raw = e.call(t, http.MethodPost, "/api/deliverynotes", token, dto.CreateDeliveryNoteRequest{
		Number:    "A-001",
		ProjectID: project.ID,
		Lines: []dto.DeliveryNoteLineRequest{
			{Description: "Horas de oficial", Quantity: &ten, Unit: "horas", UnitPrice: &fifty},
			{Description: "Material", Quantity: &one, UnitPrice: &price},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	note := decode[dto.DeliveryNoteResponse](t, raw)
	assert.Equal(t, client.ID, note.ClientID)
	return note
}

func TestAPI_FlujoCompletoAlbaran(t *testing.T) {
	env := newAPI(t)
	token := env.register(t, "Ana", "ana@example.com", "Acme")

	note := env.seedNote(t, token)
	assert.True(t, note.Total.Equal(decimal.NewFromInt(620)), "total = %s", note.Total)
	assert.Equal(t, "Borrador", note.Status)

	// Firma con imagen PNG.
	resp, raw := env.do(t, signRequest(t, note.ID, "image/png", signaturePNG(t)), token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	signed := decode[dto.DeliveryNoteResponse](t, raw)
	assert.Equal(t, "Firmado", signed.Status)
	assert.NotNil(t, signed.SignedAt)
	assert.Contains(t, signed.SignaturePath, "firmas/")

	// La firma queda servida como estático.
	resp, _ = env.call(t, http.MethodGet, "/storage/"+signed.SignaturePath, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Un albarán firmado no se puede eliminar.
	resp, raw = env.call(t, http.MethodDelete, "/api/deliverynotes/"+note.ID, token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_STATE", decode[dto.ErrorResponse](t, raw).Code)

	// PDF firmado almacenado.
	resp, raw = env.call(t, http.MethodPost, "/api/deliverynotes/"+note.ID+"/upload-signed-pdf", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	uploaded := decode[dto.SignedPDFResponse](t, raw)
	assert.Contains(t, uploaded.PDFPath, "ficheros-generados/")
	assert.Equal(t, uploaded.PDFPath, uploaded.Note.PDFPath)

	// Descarga.
	resp, raw = env.call(t, http.MethodGet, "/api/deliverynotes/"+note.ID+"/download-pdf", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "albaran_A-001.pdf")
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestAPI_FirmaRechazaArchivoNoImagen(t *testing.T) {
	env := newAPI(t)
	token := env.register(t, "Ana", "ana@example.com", "Acme")
	note := env.seedNote(t, token)

	resp, raw := env.do(t, signRequest(t, note.ID, "application/pdf", []byte("%PDF-1.4")), token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, raw).Code)

	resp, raw = env.call(t, http.MethodPost, "/api/deliverynotes/"+note.ID+"/upload-signed-pdf", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_STATE", decode[dto.ErrorResponse](t, raw).Code)
}

func TestAPI_BorradoYRecuperacionAlbaran(t *testing.T) {
	env := newAPI(t)
	token := env.register(t, "Ana", "ana@example.com", "Acme")
	note := env.seedNote(t, token)
	path := "/api/deliverynotes/" + note.ID

	resp, _ := env.call(t, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.call(t, http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw := env.call(t, http.MethodGet, "/api/deliverynotes", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, decode[dto.ListResponse[dto.DeliveryNoteResponse]](t, raw).Total)

	resp, raw = env.call(t, http.MethodPatch, path+"/recover", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.False(t, decode[dto.DeliveryNoteResponse](t, raw).Deleted)

	resp, _ = env.call(t, http.MethodDelete, path+"/hard", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.call(t, http.MethodPatch, path+"/recover", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_RecursosAislados(t *testing.T) {
	env := newAPI(t)
	ana := env.register(t, "Ana", "ana@example.com", "Acme")
	luis := env.register(t, "Luis", "luis@example.com", "Otra")
	note := env.seedNote(t, ana)

	resp, _ := env.call(t, http.MethodGet, "/api/deliverynotes/"+note.ID, luis, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw := env.call(t, http.MethodGet, "/api/clients", luis, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, decode[dto.ListResponse[dto.ClientResponse]](t, raw).Total)
}

func TestAPI_BorradoFisicoSoloPropio(t *testing.T) {
	env := newAPI(t)
	ana := env.register(t, "Ana", "ana@example.com", "Acme")
	luis := env.register(t, "Luis", "luis@example.com", "Otra")

	resp, raw := env.call(t, http.MethodGet, "/api/user/me", ana, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	anaID := decode[dto.UserResponse](t, raw).ID

	resp, raw = env.call(t, http.MethodDelete, "/api/user/"+anaID+"/hard-delete", luis, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(raw), "FORBIDDEN")

	resp, _ = env.call(t, http.MethodGet, "/api/user/me", ana, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.call(t, http.MethodDelete, "/api/user/"+anaID+"/hard-delete", ana, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@example.com", Password: "secreto1"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_ValidacionDevuelveErrores(t *testing.T) {
	env := newAPI(t)
	token := env.register(t, "Ana", "ana@example.com", "Acme")

	resp, raw := env.call(t, http.MethodPost, "/api/clients", token, map[string]string{"email": "no-es-email"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.NotEmpty(t, body.Errors)

	req := httptest.NewRequest(http.MethodPost, "/api/clients", bytes.NewBufferString("{roto"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, raw = env.do(t, req, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, raw).Code)
}

func TestAPI_RegistroDuplicadoYLogin(t *testing.T) {
	env := newAPI(t)
	env.register(t, "Ana", "ana@example.com", "Acme")

	resp, raw := env.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Name: "Ana", Email: "ANA@example.com", Password: "secreto1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EMAIL_EXISTS", decode[dto.ErrorResponse](t, raw).Code)

	resp, _ = env.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@example.com", Password: "mala-clave"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, raw = env.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@example.com", Password: "secreto1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decode[dto.AuthResponse](t, raw).Token)
}

func TestAPI_ValidacionDeEmail(t *testing.T) {
	env := newAPI(t)
	token := env.register(t, "Ana", "ana@example.com", "Acme")
	validationToken := env.nextToken(t, appmail.KindValidation)
	require.NotEmpty(t, validationToken)

	resp, _ := env.call(t, http.MethodPut, "/api/user/validation", "", dto.ValidateEmailRequest{Token: validationToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := env.call(t, http.MethodGet, "/api/user/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[dto.UserResponse](t, raw).Validated)

	// El token es de un solo uso.
	resp, raw = env.call(t, http.MethodPut, "/api/user/validation", "", dto.ValidateEmailRequest{Token: validationToken})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decode[dto.ErrorResponse](t, raw).Code)
}

func TestAPI_CuentaEliminadaBloqueaRecursos(t *testing.T) {
	env := newAPI(t)
	token := env.register(t, "Ana", "ana@example.com", "Acme")

	resp, _ := env.call(t, http.MethodPatch, "/api/user/me/soft-delete", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.call(t, http.MethodGet, "/api/clients", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// El perfil propio sigue accesible.
	resp, raw := env.call(t, http.MethodGet, "/api/user/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[dto.UserResponse](t, raw).IsDeleted)

	resp, _ = env.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@example.com", Password: "secreto1"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_InvitacionEmpresa(t *testing.T) {
	env := newAPI(t)
	ana := env.register(t, "Ana", "ana@example.com", "Acme")
	luis := env.register(t, "Luis", "luis@example.com", "")
	// Descarta los emails de validación.
	env.nextToken(t, appmail.KindValidation)
	env.nextToken(t, appmail.KindValidation)

	resp, raw := env.call(t, http.MethodPost, "/api/user/invite-to-company", ana, dto.InviteRequest{Email: "luis@example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	invitation := env.nextToken(t, appmail.KindInvitation)

	resp, raw = env.call(t, http.MethodPost, "/api/user/accept-company-invitation", luis, dto.AcceptInvitationRequest{Token: invitation})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = env.call(t, http.MethodGet, "/api/user/company", luis, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "Acme")
}

func TestAPI_RutaDesconocida(t *testing.T) {
	env := newAPI(t)

	resp, raw := env.call(t, http.MethodGet, "/no-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Contains(t, body.Message, "/no-existe")

	// Sin token, /api responde 401 antes de resolver la ruta.
	resp, _ = env.call(t, http.MethodGet, fmt.Sprintf("/api/clients/%s", testUserID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
