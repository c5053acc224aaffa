package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/application/usecase/allocation"
	"github.com/boi-gordo/backend/internal/domain/entity"
	"github.com/boi-gordo/backend/internal/domain/valueobject"
	"github.com/boi-gordo/backend/internal/integration/persistence"
)

func theAPIServerIsRunning() error {
	if suite == nil || suite.server == nil {
		return errors.New("test server is not running")
	}
	resp, err := suite.client.Get(suite.server.URL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

func todayIs(date string) error {
	day, err := valueobject.ParseDate(date)
	if err != nil {
		return err
	}
	suite.timeMock.SetCurrentTime(day.Add(12 * time.Hour))
	return nil
}

func aConfinedLotWithHead(code string, quantity, weight int) error {
	ctx := context.Background()
	uc := suite.injector.UseCases

	purchased := valueobject.TruncateDay(suite.timeMock.Now()).AddDate(0, 0, -30)
	lot, err := uc.RegisterLot.Execute(ctx, allocation.RegisterLotInput{
		Code:            code,
		Quantity:        quantity,
		EntryWeight:     decimal.NewFromInt(int64(weight)),
		AcquisitionCost: decimal.NewFromInt(int64(quantity) * 2500),
		PurchaseDate:    &purchased,
	})
	if err != nil {
		return err
	}

	for _, status := range []entity.LotStatus{entity.LotStatusConfirmed, entity.LotStatusReceived, entity.LotStatusConfined} {
		if _, err := uc.ChangeLotStatus.Execute(ctx, allocation.ChangeLotStatusInput{
			LotID:  lot.ID,
			Status: string(status),
			Date:   purchased,
		}); err != nil {
			return fmt.Errorf("move lot %s to %s: %w", code, status, err)
		}
	}

	suite.saved["lot_"+code] = lot.ID.String()
	return nil
}

func aPenWithCapacity(number string, capacity int) error {
	pen, err := suite.injector.UseCases.RegisterPen.Execute(context.Background(), allocation.RegisterPenInput{
		Number:   number,
		Capacity: capacity,
	})
	if err != nil {
		return err
	}
	suite.saved["pen_"+number] = pen.ID.String()
	return nil
}

func theFeedPriceIsFrom(price, from string) error {
	effectiveFrom, err := valueobject.ParseDate(from)
	if err != nil {
		return err
	}
	pricePerKg, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	return suite.injector.UseCases.SetFeedPrice.Execute(context.Background(), allocation.SetFeedPriceInput{
		EffectiveFrom: effectiveFrom,
		PricePerKg:    pricePerKg,
	})
}

// aCashLedgerEntryWithoutClass stores a ledger row no source record produces, so the
// period analysis has something to warn about.
func aCashLedgerEntryWithoutClass(amount, date string) error {
	day, err := valueobject.ParseDate(date)
	if err != nil {
		return err
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}

	tx := entity.NewTransaction(day, "Imported bank fee", value, entity.CategoryOperationalCosts, true, &day, nil)
	tx.SourceType = entity.SourceExpense
	return persistence.NewRepositories(suite.db.DbConn).Ledger.Create(context.Background(), tx)
}

func theHeaderIsEmpty() error {
	suite.headers = make(map[string]string)
	return nil
}

func theHeaderContainsTheKeyWith(key, value string) error {
	suite.headers[key] = value
	return nil
}

func iSendARequestTo(method, path string) error {
	return suite.executeRequest(method, suite.replacePlaceholders(path), nil)
}

func iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(suite.replacePlaceholders(body.Content))
	}
	return suite.executeRequest(method, suite.replacePlaceholders(path), payload)
}

func iSaveTheResponseFieldAs(field, name string) error {
	if suite.response == nil {
		return errors.New("no response received")
	}
	value := getFieldValue(suite.response.body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, suite.response.body)
	}
	suite.saved[name] = fmt.Sprintf("%v", value)
	return nil
}

func theAlertWorkerRuns() error {
	if suite.injector.Worker == nil {
		return errors.New("alert worker is not configured")
	}
	suite.injector.Worker.ProcessNow(context.Background())
	return nil
}

// replacePlaceholders expands {{today}} and every saved {{name}}.
func (t *testContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{today}}", t.timeMock.Today())
	for name, value := range t.saved {
		content = strings.ReplaceAll(content, "{{"+name+"}}", value)
	}
	return content
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	var req *http.Request
	var err error

	url := t.server.URL + path

	if payload != nil {
		req, err = http.NewRequest(method, url, bytes.NewReader(payload))
	} else {
		req, err = http.NewRequest(method, url, nil)
	}
	if err != nil {
		return err
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{status: resp.StatusCode}

	var responseBody any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
	} else {
		t.response.body = responseBody
	}
	return nil
}

func theResponseStatusShouldBe(expectedStatus int) error {
	if suite.response == nil {
		return errors.New("no response received")
	}
	if suite.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, suite.response.status, suite.response.body)
	}
	return nil
}

func theResponseShouldBeJSON() error {
	if suite.response == nil {
		return errors.New("no response received")
	}
	if _, ok := suite.response.body.(map[string]any); !ok {
		return fmt.Errorf("response is not JSON: %v", suite.response.body)
	}
	return nil
}

func theResponseShouldContain(field string) error {
	if suite.response == nil {
		return errors.New("no response received")
	}

	body, ok := suite.response.body.(map[string]any)
	if !ok {
		return fmt.Errorf("response is not a JSON object: %v", suite.response.body)
	}

	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func theResponseFieldShouldBe(field, expectedValue string) error {
	if suite.response == nil {
		return errors.New("no response received")
	}

	value := getFieldValue(suite.response.body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, suite.response.body)
	}

	expectedValue = suite.replacePlaceholders(expectedValue)
	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func theResponseFieldShouldExist(field string) error {
	if suite.response == nil {
		return errors.New("no response received")
	}

	if getFieldValue(suite.response.body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, suite.response.body)
	}
	return nil
}

func theResponseFieldShouldHaveItems(field string, count int) error {
	if suite.response == nil {
		return errors.New("no response received")
	}

	items, ok := getFieldValue(suite.response.body, field).([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not a list: %v", field, suite.response.body)
	}
	if len(items) != count {
		return fmt.Errorf("field '%s' expected %d items, got %d", field, count, len(items))
	}
	return nil
}

func theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	return countRows(quantity, table, nil)
}

func theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(suite.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}
	return countRows(quantity, table, criteria)
}

func countRows(quantity int, table string, criteria map[string]any) error {
	count, err := suite.db.Count(table, criteria)
	if err != nil {
		return err
	}
	if count != int64(quantity) {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

func theReportCacheShouldHold(entries int) error {
	if got := suite.redis.CountKeys(adapter.ReportCachePrefix); got != entries {
		return fmt.Errorf("expected %d cached reports, got %d", entries, got)
	}
	return nil
}

func theEmailAPIShouldHaveReceived(count int, method, path string) error {
	if got := suite.emailAPI.RequestCount(method, path); got != count {
		return fmt.Errorf("expected %d requests to %s %s, got %d", count, method, path, got)
	}
	return nil
}

func theEmailShouldContain(text string) error {
	body := suite.emailAPI.GetRequestBody("POST", "/emails", 0)
	if body == nil {
		return errors.New("no email was sent")
	}
	raw, _ := json.Marshal(body)
	if !strings.Contains(string(raw), text) {
		return fmt.Errorf("email does not contain '%s': %s", text, raw)
	}
	return nil
}

func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	fields := strings.Split(dotSeparatedField, ".")
	field := object

	for _, currentField := range fields {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			if arr, ok := field.([]any); ok && i < len(arr) {
				field = arr[i]
			} else {
				return nil
			}
		} else {
			if m, ok := field.(map[string]any); ok {
				field = m[currentField]
			} else {
				return nil
			}
		}
	}

	return field
}
