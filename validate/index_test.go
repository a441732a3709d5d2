package validate

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"appliance_store/constants"
	"appliance_store/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, app *fiber.App, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var m map[string]any
	_ = json.Unmarshal(raw, &m)
	return resp.StatusCode, m
}

func echo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"input": c.Locals(constants.LOCAL_INPUT), "id": c.Locals(constants.LOCAL_INPUT_ID)})
}

func TestGetById(t *testing.T) {
	app := fiber.New()
	app.Get("/orders/:id", GetById("id"), echo)

	for _, bad := range []string{"abc", "0", "-3"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/orders/"+bad, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, bad)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/orders/42", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCreateOrder(t *testing.T) {
	app := fiber.New()
	app.Post("/orders", CreateOrder(), func(c *fiber.Ctx) error {
		in := c.Locals(constants.LOCAL_INPUT).(model.CreateOrderInput)
		return c.JSON(fiber.Map{"items": len(in.CartItems), "pos": in.VirtualPosConfigId})
	})

	addr := `"shippingAddress":{"fullName":"Ali Veli","phone":"0555","city":"Ankara","district":"Çankaya","addressLine":"Atatürk Blv. 1"}`

	cases := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"malformed", `{`, fiber.StatusBadRequest, constants.ERROR_INVALID_REQUEST},
		{"empty cart", `{"paymentMethod":"bank-transfer",` + addr + `,"cartItems":[]}`, fiber.StatusBadRequest, constants.ERROR_EMPTY_CART},
		{"no address", `{"paymentMethod":"bank-transfer","cartItems":[{"productId":1,"quantity":1}]}`, fiber.StatusBadRequest, constants.ERROR_MISSING_ADDRESS},
		{"credit card alias needs bank", `{"paymentMethod":"credit-card",` + addr + `,"cartItems":[{"productId":1,"quantity":1}]}`, fiber.StatusBadRequest, constants.ERROR_MISSING_POS},
		{"unknown method", `{"paymentMethod":"cash",` + addr + `,"cartItems":[{"productId":1,"quantity":1}]}`, fiber.StatusBadRequest, constants.ERROR_INVALID_REQUEST},
		{"zero quantity", `{"paymentMethod":"bank-transfer",` + addr + `,"cartItems":[{"productId":1,"quantity":0}]}`, fiber.StatusBadRequest, constants.ERROR_INVALID_REQUEST},
		{"bad warranty", `{"paymentMethod":"bank-transfer",` + addr + `,"cartItems":[{"productId":1,"quantity":1,"warranty":"10year"}]}`, fiber.StatusBadRequest, constants.ERROR_INVALID_REQUEST},
		{"ok", `{"paymentMethod":"virtual-pos","virtualPosConfigId":2,` + addr + `,"cartItems":[{"productId":1,"quantity":2,"warranty":"2year"}]}`, fiber.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, m := post(t, app, "/orders", tc.body)
			assert.Equal(t, tc.status, status)
			if tc.message != "" {
				assert.Equal(t, tc.message, m["message"])
			}
		})
	}
}

func TestCreateCouponAmounts(t *testing.T) {
	app := fiber.New()
	app.Post("/coupons", CreateCoupon(), echo)

	base := `"code":"X","validFrom":"2025-01-01T00:00:00Z"`
	status, m := post(t, app, "/coupons", `{`+base+`,"type":"percentage","value":"101"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, constants.ERROR_INVALID_AMOUNT, m["message"])

	status, _ = post(t, app, "/coupons", `{`+base+`,"type":"fixed","value":"0"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = post(t, app, "/coupons", `{`+base+`,"type":"fixed","value":"100","maxDiscount":"-1"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = post(t, app, "/coupons", `{`+base+`,"type":"fixed","value":"100","validUntil":"2024-01-01T00:00:00Z"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = post(t, app, "/coupons", `{`+base+`,"type":"fixed","value":"100"}`)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestValidateCouponAndPayment(t *testing.T) {
	app := fiber.New()
	app.Post("/coupons/validate/:code", ValidateCoupon(), echo)
	app.Post("/initiate", InitiatePayment(), echo)

	status, m := post(t, app, "/coupons/validate/SAVE10", `{"orderAmount":-10}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, constants.ERROR_INVALID_AMOUNT, m["message"])

	status, _ = post(t, app, "/coupons/validate/SAVE10", `{"orderAmount":"NaN"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = post(t, app, "/coupons/validate/SAVE10", `{"orderAmount":"1999.90"}`)
	assert.Equal(t, fiber.StatusOK, status)

	status, m = post(t, app, "/initiate", `{"orderId":1,"virtualPosConfigId":1,"amount":0}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, constants.ERROR_INVALID_AMOUNT, m["message"])

	status, _ = post(t, app, "/initiate", `{"orderId":1,"virtualPosConfigId":1,"amount":"10.50","installments":13}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = post(t, app, "/initiate", `{"orderId":1,"virtualPosConfigId":1,"amount":"10.50"}`)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestPaymentCallbackReadsQueryAndForm(t *testing.T) {
	app := fiber.New()
	handler := func(c *fiber.Ctx) error {
		cb := c.Locals(constants.LOCAL_INPUT).(model.PaymentCallback)
		return c.SendString(cb.OrderId + "/" + cb.Response)
	}
	app.Get("/cb", PaymentCallback(), handler)
	app.Post("/cb", PaymentCallback(), handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/cb?OrderId=ABC&Response=00", nil))
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ABC/00", string(raw))

	req := httptest.NewRequest(http.MethodPost, "/cb", strings.NewReader("OrderId=DEF&Response=99"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err = app.Test(req)
	require.NoError(t, err)
	raw, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "DEF/99", string(raw))
}
