// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/tyreledger/backend/internal/application/usecase/auth"
	"github.com/tyreledger/backend/internal/application/usecase/backup"
	"github.com/tyreledger/backend/internal/application/usecase/creditnote"
	"github.com/tyreledger/backend/internal/application/usecase/entry"
	"github.com/tyreledger/backend/internal/application/usecase/reminder"
	"github.com/tyreledger/backend/internal/infra/server/router"
	"github.com/tyreledger/backend/internal/integration/adapters"
	"github.com/tyreledger/backend/internal/integration/email"
	"github.com/tyreledger/backend/internal/integration/entrypoint/controller"
	"github.com/tyreledger/backend/internal/integration/entrypoint/middleware"
	"github.com/tyreledger/backend/internal/integration/persistence"
	"github.com/tyreledger/backend/test/integration/mock"
)

const (
	testOperator = "admin"
	testPassword = "integration-pass"
	testJWTKey   = "integration-secret"
)

// The bcrypt hash is computed once; hashing per scenario would dominate the
// suite's runtime at cost 12.
var (
	operatorHashOnce sync.Once
	operatorHash     string
)

func testOperatorHash() string {
	operatorHashOnce.Do(func() {
		hash, err := adapters.NewBcryptPasswordService().HashPassword(testPassword)
		if err != nil {
			panic(err)
		}
		operatorHash = hash
	})
	return operatorHash
}

// TestContext holds the test state for each scenario.
type TestContext struct {
	// HTTP
	server       *httptest.Server
	response     *http.Response
	responseBody []byte

	// Request building
	requestHeaders map[string]string

	// Auth
	accessToken string

	// Backing stores
	db          *mock.Db
	redisClient *redis.Client
	emailSender *email.MockEmailSender
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
		// Disables the login rate limiter.
		_ = os.Setenv("ENV", "test")
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc := &TestContext{
			requestHeaders: make(map[string]string),
			db:             mock.NewDb(),
			redisClient:    mock.NewRedis(),
			emailSender:    email.NewMockEmailSender(),
		}

		if err := tc.db.Clear(); err != nil {
			return ctx, fmt.Errorf("failed to clear database: %w", err)
		}
		if err := mock.ClearRedis(tc.redisClient); err != nil {
			return ctx, fmt.Errorf("failed to clear redis: %w", err)
		}

		tc.server = httptest.NewServer(buildEngine(tc))

		return SetTestContext(ctx, tc), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc := GetTestContext(ctx)
		if tc != nil && tc.server != nil {
			tc.server.Close()
		}
		return ctx, nil
	})

	registerAPISteps(ctx)
	registerResponseSteps(ctx)
	registerLedgerSteps(ctx)
}

// buildEngine wires the whole application against the scenario's stores.
func buildEngine(tc *TestContext) *gin.Engine {
	entryRepo := persistence.NewEntryRepository(tc.db.DbConn)
	snapshots := persistence.NewRedisSnapshotStore(tc.redisClient, "tyre_ledger:test")

	passwordService := adapters.NewBcryptPasswordService()
	tokenService := adapters.NewJWTTokenService(testJWTKey, time.Hour)

	loginUseCase := auth.NewLoginOperatorUseCase(testOperator, testOperatorHash(), passwordService, tokenService)
	listUseCase := entry.NewListEntriesUseCase(entryRepo)
	createInvoiceUseCase := entry.NewCreateInvoiceUseCase(entryRepo, snapshots)
	recordPaymentUseCase := entry.NewRecordPaymentUseCase(entryRepo, snapshots)
	applyCNUseCase := creditnote.NewApplyCreditNoteUseCase(entryRepo, snapshots)
	updateUseCase := entry.NewUpdateEntryUseCase(entryRepo, snapshots)
	deleteUseCase := entry.NewDeleteEntryUseCase(entryRepo, snapshots)
	exportUseCase := backup.NewExportEntriesUseCase(entryRepo)
	exportCSVUseCase := backup.NewExportCSVUseCase(entryRepo)
	restoreUseCase := backup.NewRestoreEntriesUseCase(entryRepo, snapshots)
	reminderUseCase := reminder.NewSendOverdueReminderUseCase(entryRepo, tc.emailSender, "owner@example.com")

	healthController := controller.NewHealthController(func() bool { return true })
	authController := controller.NewAuthController(loginUseCase)
	ledgerController := controller.NewLedgerController(
		listUseCase,
		createInvoiceUseCase,
		recordPaymentUseCase,
		applyCNUseCase,
		updateUseCase,
		deleteUseCase,
	)
	backupController := controller.NewBackupController(exportUseCase, exportCSVUseCase, restoreUseCase)
	reminderController := controller.NewReminderController(reminderUseCase)

	r := router.NewRouter(
		healthController,
		authController,
		ledgerController,
		backupController,
		reminderController,
		middleware.NewRateLimiter(),
		middleware.NewAuthMiddleware(adapters.NewJWTTokenService(testJWTKey, time.Hour)),
	)
	return r.Setup("test")
}

// registerAPISteps registers HTTP request steps.
func registerAPISteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the API server is running$`, theAPIServerIsRunning)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, iSendARequestToWithBody)
	ctx.Step(`^I set header "([^"]*)" to "([^"]*)"$`, iSetHeaderTo)
	ctx.Step(`^I am authenticated as the operator$`, iAmAuthenticatedAsTheOperator)
}

// registerResponseSteps registers response validation steps.
func registerResponseSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Step(`^the response should be JSON$`, theResponseShouldBeJSON)
	ctx.Step(`^the response should contain "([^"]*)"$`, theResponseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should exist$`, theResponseFieldShouldExist)
}

// Step implementations

func theAPIServerIsRunning(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil || tc.server == nil {
		return fmt.Errorf("test server is not running")
	}
	return nil
}

func (tc *TestContext) doRequest(method, endpoint string, body io.Reader) error {
	req, err := http.NewRequest(method, tc.server.URL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range tc.requestHeaders {
		req.Header.Set(key, value)
	}
	if tc.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	tc.response = resp
	tc.responseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

func iSendARequestTo(ctx context.Context, method, endpoint string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	if err := tc.doRequest(method, endpoint, nil); err != nil {
		return ctx, err
	}
	return SetTestContext(ctx, tc), nil
}

func iSendARequestToWithBody(ctx context.Context, method, endpoint string, body *godog.DocString) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	if err := tc.doRequest(method, endpoint, bytes.NewBufferString(body.Content)); err != nil {
		return ctx, err
	}
	return SetTestContext(ctx, tc), nil
}

func iSetHeaderTo(ctx context.Context, header, value string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	tc.requestHeaders[header] = value
	return SetTestContext(ctx, tc), nil
}

func iAmAuthenticatedAsTheOperator(ctx context.Context) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	body := fmt.Sprintf(`{"username":%q,"password":%q}`, testOperator, testPassword)
	if err := tc.doRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body)); err != nil {
		return ctx, err
	}
	if tc.response.StatusCode != http.StatusOK {
		return ctx, fmt.Errorf("login failed with status %d: %s", tc.response.StatusCode, string(tc.responseBody))
	}

	var login struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(tc.responseBody, &login); err != nil {
		return ctx, fmt.Errorf("failed to parse login response: %w", err)
	}
	if login.AccessToken == "" {
		return ctx, fmt.Errorf("login response has no access token")
	}

	tc.accessToken = login.AccessToken
	return SetTestContext(ctx, tc), nil
}

func theResponseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if tc.response == nil {
		return fmt.Errorf("no response received")
	}
	if tc.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expectedStatus, tc.response.StatusCode, string(tc.responseBody))
	}
	return nil
}

func theResponseShouldBeJSON(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	var js json.RawMessage
	if err := json.Unmarshal(tc.responseBody, &js); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	return nil
}

func theResponseShouldContain(ctx context.Context, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if !strings.Contains(string(tc.responseBody), expected) {
		return fmt.Errorf("response does not contain '%s'. Body: %s", expected, string(tc.responseBody))
	}
	return nil
}

func theResponseFieldShouldBe(ctx context.Context, field, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	value, err := lookupField(tc.responseBody, field)
	if err != nil {
		return err
	}

	actual := fmt.Sprintf("%v", value)
	if actual != expected {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expected, actual)
	}
	return nil
}

func theResponseFieldShouldExist(ctx context.Context, field string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	_, err := lookupField(tc.responseBody, field)
	return err
}

// lookupField resolves a dotted path ("stats.outstanding") in a JSON object.
func lookupField(body []byte, path string) (interface{}, error) {
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	current := data
	for _, part := range strings.Split(path, ".") {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("field '%s' not found in response: %s is not an object", path, part)
		}
		current, ok = obj[part]
		if !ok {
			return nil, fmt.Errorf("field '%s' not found in response", path)
		}
	}
	return current, nil
}
