package customers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stripe-sync/core/payments"
	"stripe-sync/core/platform"
	"stripe-sync/feature/customers"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newApp(f *fixture) *fiber.App {
	app := fiber.New()
	_ = customers.NewFeature(f.service).Load(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string, out any) int {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHandleLookup(t *testing.T) {
	f := newFixture(t, "a@example.com", "b@example.com")
	f.stripeHas("a@example.com", "cus_a")
	f.stripeLacks("b@example.com")
	app := newApp(f)

	tests := []struct {
		name    string
		email   string
		status  int
		success bool
		message string
	}{
		{"Found", "a@example.com", http.StatusOK, true, customers.MsgCustomerSaved},
		{"Cached", "a@example.com", http.StatusOK, true, customers.MsgExistingCustomer},
		{"Invalid", "not-an-email", http.StatusBadRequest, false, customers.MsgInvalidEmail},
		{"NoUser", "ghost@example.com", http.StatusNotFound, false, customers.MsgUserNotFound},
		{"NoCustomer", "b@example.com", http.StatusNotFound, false, customers.MsgCustomerNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res customers.Result
			status := doJSON(t, app, "GET", "/customers/lookup?email="+tt.email, "", &res)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.success, res.Success)
			assert.Equal(t, tt.message, res.Message)
		})
	}
}

func TestHandleLookupBatch(t *testing.T) {
	t.Run("DelimitedString", func(t *testing.T) {
		f := newFixture(t, "a@x.com", "b@x.com")
		f.stripeHas("a@x.com", "cus_a")
		f.stripeLacks("b@x.com")

		var resp customers.LookupResponse
		status := doJSON(t, newApp(f), "POST", "/customers/lookup", `{"emails":"a@x.com, , b@x.com"}`, &resp)
		assert.Equal(t, http.StatusOK, status)
		require.Len(t, resp.Results, 2)
		assert.Equal(t, "a@x.com", resp.Results[0].Email)
		assert.True(t, resp.Results[0].Success)
		assert.Equal(t, "b@x.com", resp.Results[1].Email)
		assert.False(t, resp.Results[1].Success)
	})

	t.Run("Array", func(t *testing.T) {
		f := newFixture(t, "a@x.com")
		f.stripeHas("a@x.com", "cus_a")

		var resp customers.LookupResponse
		status := doJSON(t, newApp(f), "POST", "/customers/lookup", `{"emails":["a@x.com","nope"]}`, &resp)
		assert.Equal(t, http.StatusOK, status)
		require.Len(t, resp.Results, 2)
		assert.Equal(t, customers.MsgInvalidEmail, resp.Results[1].Message)
	})

	t.Run("MissingEmails", func(t *testing.T) {
		f := newFixture(t)
		status := doJSON(t, newApp(f), "POST", "/customers/lookup", `{}`, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("WrongType", func(t *testing.T) {
		f := newFixture(t)
		status := doJSON(t, newApp(f), "POST", "/customers/lookup", `{"emails":42}`, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestHandleSync(t *testing.T) {
	f := newFixture(t, "a@example.com")
	f.stripeHas("a@example.com", "cus_a")
	app := newApp(f)

	var resp customers.SyncResponse
	status := doJSON(t, app, "POST", "/customers/sync", "", &resp)
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, resp.Summary)
	assert.Equal(t, 1, resp.Summary.Mapped)
	assert.Contains(t, resp.Message, "1 newly mapped")

	status = doJSON(t, app, "POST", "/customers/sync/recent", "", &resp)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, resp.Summary.Mapped)
	assert.Equal(t, 1, resp.Summary.Skipped)
}

func TestHandleListing(t *testing.T) {
	f := newFixture(t, "a@example.com", "b@example.com")
	f.setMapping(t, 1, "cus_a")
	app := newApp(f)

	var mapped platform.Page
	assert.Equal(t, http.StatusOK, doJSON(t, app, "GET", "/customers/mapped?page=1", "", &mapped))
	require.Len(t, mapped.Users, 1)
	assert.Equal(t, "cus_a", mapped.Users[0].CustomerID)

	var unmapped platform.Page
	assert.Equal(t, http.StatusOK, doJSON(t, app, "GET", "/customers/unmapped", "", &unmapped))
	require.Len(t, unmapped.Users, 1)
	assert.Equal(t, "b@example.com", unmapped.Users[0].Email)
}

func TestHandleResync(t *testing.T) {
	f := newFixture(t, "a@example.com")
	f.stripeHas("a@example.com", "cus_a")
	app := newApp(f)

	var res customers.Result
	assert.Equal(t, http.StatusOK, doJSON(t, app, "POST", "/customers/1/resync", "", &res))
	assert.Equal(t, "cus_a", res.CustomerID)

	assert.Equal(t, http.StatusNotFound, doJSON(t, app, "POST", "/customers/9/resync", "", &res))
	assert.Equal(t, customers.MsgUserIDNotFound, res.Message)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, app, "POST", "/customers/abc/resync", "", nil))
}

func TestHandlePaymentMethods(t *testing.T) {
	f := newFixture(t, "a@example.com", "b@example.com", "c@example.com")
	f.setMapping(t, 1, "cus_a")
	f.setMapping(t, 3, "cus_c")
	f.client.On("ListPaymentMethods", mock.Anything, "cus_a", "card").
		Return([]payments.PaymentMethod{{ID: "pm_1", Brand: "visa", Last4: "4242"}}, nil)
	f.client.On("ListPaymentMethods", mock.Anything, "cus_c", "card").
		Return(nil, &payments.ProviderError{Op: "list_payment_methods", Status: 401, Message: "Invalid API Key provided"})
	app := newApp(f)

	var pm customers.PaymentMethods
	assert.Equal(t, http.StatusOK, doJSON(t, app, "GET", "/customers/1/payment-methods", "", &pm))
	require.Len(t, pm.PaymentMethods, 1)
	assert.Equal(t, "4242", pm.PaymentMethods[0].Last4)

	assert.Equal(t, http.StatusNotFound, doJSON(t, app, "GET", "/customers/2/payment-methods", "", nil))
	assert.Equal(t, http.StatusNotFound, doJSON(t, app, "GET", "/customers/7/payment-methods", "", nil))
	assert.Equal(t, http.StatusBadGateway, doJSON(t, app, "GET", "/customers/3/payment-methods", "", nil))
}
