// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/config"
	"github.com/boi-gordo/backend/internal/infra/dependency"
	"github.com/boi-gordo/backend/internal/integration/cache"
	"github.com/boi-gordo/backend/internal/integration/persistence"
	"github.com/boi-gordo/backend/test/integration/mock"
)

const alertRecipient = "ops@boigordo.test"

// testContext holds the state shared by the steps of a scenario.
type testContext struct {
	server   *httptest.Server
	client   *http.Client
	injector *dependency.Injector
	db       *mock.Db
	emailAPI *mock.ApiMock
	timeMock *mock.Time
	redis    *mock.Redis

	headers  map[string]string
	response *response
	saved    map[string]string
}

type response struct {
	status int
	body   any
}

var suite *testContext

// InitializeTestSuite builds the application once over in-memory SQLite, miniredis
// and a mocked Resend API.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)

		db := mock.NewDb(persistence.Models()...)

		emailAPI := mock.NewApiServer()
		emailAPI.Start()

		cfg := config.Load()
		cfg.Server.Environment = "test"
		cfg.CORS.AllowedOrigins = nil
		cfg.RateLimit.ReconcileRequests = 3
		cfg.RateLimit.ReconcileWindow = time.Minute
		cfg.Allocation.DailyLaborCost = decimal.NewFromInt(100)
		cfg.Allocation.DailyInfrastructureCost = decimal.NewFromInt(50)
		cfg.Allocation.DailyVeterinaryCost = decimal.NewFromInt(30)
		cfg.Allocation.FeedPricePerKg = nil
		cfg.Notification.ResendAPIKey = "re_test_key"
		cfg.Notification.ResendBaseURL = emailAPI.GetUrl()
		cfg.Notification.AlertRecipient = alertRecipient
		cfg.Notification.WorkerEnabled = true

		redisMock := mock.NewRedis()
		reportCache := cache.NewRedisReportCache(redisMock.Client(), time.Minute)

		injector, err := dependency.NewInjector(cfg, db.DbConn, reportCache)
		if err != nil {
			panic("failed to wire dependencies: " + err.Error())
		}

		suite = &testContext{
			server:   httptest.NewServer(injector.Router.Setup(cfg.Server.Environment)),
			client:   &http.Client{Timeout: 10 * time.Second},
			injector: injector,
			db:       db,
			emailAPI: emailAPI,
			timeMock: mock.NewTime(),
			redis:    redisMock,
		}
	})

	ctx.AfterSuite(func() {
		if suite == nil {
			return
		}
		suite.server.Close()
		suite.emailAPI.Close()
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, suite.before()
	})

	// Background steps
	ctx.Given(`^the API server is running$`, theAPIServerIsRunning)
	ctx.Given(`^today is "([^"]*)"$`, todayIs)

	// Herd setup steps
	ctx.Given(`^a confined lot "([^"]*)" with (\d+) head weighing (\d+) kg$`, aConfinedLotWithHead)
	ctx.Given(`^a pen "([^"]*)" with capacity (\d+)$`, aPenWithCapacity)
	ctx.Given(`^the feed price is "([^"]*)" per kg from "([^"]*)"$`, theFeedPriceIsFrom)

	// Ledger setup steps
	ctx.Given(`^a cash ledger entry of "([^"]*)" without cash flow class on "([^"]*)"$`, aCashLedgerEntryWithoutClass)

	// Header steps
	ctx.Given(`^the header is empty$`, theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, iSendARequestToWithBody)
	ctx.When(`^I save the response field "([^"]*)" as "([^"]*)"$`, iSaveTheResponseFieldAs)
	ctx.When(`^the alert worker runs$`, theAlertWorkerRuns)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should have (\d+) items$`, theResponseFieldShouldHaveItems)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, theDbShouldContainObjectsInWithTheValues)

	// Cache assertion steps
	ctx.Then(`^the report cache should hold (\d+) entr(?:y|ies)$`, theReportCacheShouldHold)

	// Email API assertion steps
	ctx.Then(`^the email API should have received (\d+) requests? to "([^"]*)" "([^"]*)"$`, theEmailAPIShouldHaveReceived)
	ctx.Then(`^the email sent to the email API should contain "([^"]*)"$`, theEmailShouldContain)
}

func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.response = nil
	t.saved = map[string]string{"unknown_id": uuid.NewString()}
	t.timeMock.SetCurrentTime(time.Now())
	t.injector.Limiter.Reset()
	t.emailAPI.ClearResponses("POST", "/emails")
	t.emailAPI.SetResponse(-1, "POST", "/emails", http.StatusOK, map[string]any{"id": "re_mocked"})

	if err := t.redis.Clear(); err != nil {
		return err
	}
	return t.db.ClearDB()
}
