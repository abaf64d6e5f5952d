package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/ketchup/internal/db"
	"github.com/terraincognita07/ketchup/internal/i18n"
	"github.com/terraincognita07/ketchup/internal/models"
	"github.com/terraincognita07/ketchup/internal/services"
	"gorm.io/gorm"
)

const (
	testGatePassword = "korvbröd-42"
	testSecretKey    = "test-secret-key-with-enough-length-0123"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "ketchup-api.db"), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(database)
	})
	return database
}

func newTestHandler(t *testing.T, cooldown time.Duration) (*Handler, models.User) {
	t.Helper()
	return newTestHandlerOn(t, openTestDatabase(t), cooldown)
}

func newTestHandlerOn(t *testing.T, database *gorm.DB, cooldown time.Duration) (*Handler, models.User) {
	t.Helper()

	i18nManager, err := i18n.NewManager(i18n.LangSV)
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	handler, err := NewHandler(database, i18nManager, HandlerOptions{
		SecretKey:    testSecretKey,
		Location:     time.UTC,
		DoseCooldown: cooldown,
		Logger:       quietLogger(),
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	patient, _, err := handler.setupService.EnsurePatient(services.PatientSetup{
		Name:     "Bella",
		Password: testGatePassword,
	})
	if err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	return handler, patient
}

func newTestApp(t *testing.T, cooldown time.Duration) (*fiber.App, *Handler) {
	t.Helper()

	handler, _ := newTestHandler(t, cooldown)
	return newTestAppFor(handler), handler
}

func newTestAppFor(handler *Handler) *fiber.App {
	app := fiber.New()
	app.Use(handler.LanguageMiddleware)
	RegisterRoutes(app, handler)
	return app
}

func unlockAndExtractAuthCookie(t *testing.T, app *fiber.App, password string) string {
	t.Helper()

	response := doJSON(t, app, http.MethodPost, "/api/auth/unlock", "", map[string]string{"password": password})
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected unlock status 200, got %d", response.StatusCode)
	}
	for _, cookie := range response.Cookies() {
		if cookie.Name == authCookieName && cookie.Value != "" {
			return authCookieName + "=" + cookie.Value
		}
	}
	t.Fatal("expected unlock response to set auth cookie")
	return ""
}

func doJSON(t *testing.T, app *fiber.App, method string, path string, authCookie string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if authCookie != "" {
		request.Header.Set("Cookie", authCookie)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

func doGET(t *testing.T, app *fiber.App, authCookie string, path string, expectedStatus int) string {
	t.Helper()

	response := doJSON(t, app, http.MethodGet, path, authCookie, nil)
	defer response.Body.Close()

	if response.StatusCode != expectedStatus {
		t.Fatalf("GET %s expected status %d, got %d", path, expectedStatus, response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("GET %s read body failed: %v", path, err)
	}
	return string(body)
}

func decodeJSONBody(t *testing.T, response *http.Response, target any) {
	t.Helper()

	defer response.Body.Close()
	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}
