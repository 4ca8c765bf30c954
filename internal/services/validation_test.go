package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"busticket/internal/domain"
)

func validationErr(t *testing.T, err error) domain.ValidationError {
	t.Helper()
	var ve domain.ValidationError
	require.True(t, errors.As(err, &ve), "expected validation error, got %v", err)
	return ve
}

func TestValidateReservationAcceptsAndNormalizes(t *testing.T) {
	req, err := ValidateReservation(decode(t, validReservation))
	require.NoError(t, err)

	require.Len(t, req.Passengers, 1)
	p := req.Passengers[0]
	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, "1020304050", p.DocumentNumber)
	assert.Equal(t, "12", p.Seat)
	assert.Equal(t, "ana.gomez@example.com", req.Billing.Email)
	assert.Equal(t, "3001234567", req.Billing.Phone)
	assert.Equal(t, DefaultBillingCountry, req.Billing.CountryCode)
	assert.Equal(t, "+573001234567", req.Billing.FullPhone)
	assert.Equal(t, "Bogotá", req.Trip.Origin)
	assert.True(t, req.AcceptedTerms)
}

func TestValidateReservationRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m map[string]any)
		code   string
		check  func(t *testing.T, d map[string]any)
	}{
		{
			name:   "missing top level fields",
			mutate: func(m map[string]any) { delete(m, "trip"); delete(m, "billing") },
			code:   CodeMissingFields,
			check: func(t *testing.T, d map[string]any) {
				assert.Equal(t, []string{"trip", "billing"}, d["missingFields"])
				assert.Equal(t, []string{"acceptedTerms", "passengers", "seats"}, d["receivedFields"])
			},
		},
		{
			name:   "empty passengers",
			mutate: func(m map[string]any) { m["passengers"] = []any{} },
			code:   CodeInvalidPassengers,
		},
		{
			name:   "passengers not a list",
			mutate: func(m map[string]any) { m["passengers"] = "Ana" },
			code:   CodeInvalidPassengers,
		},
		{
			name: "passenger missing name and string flag",
			mutate: func(m map[string]any) {
				p := m["passengers"].([]any)[0].(map[string]any)
				p["name"] = "   "
				p["hasMinors"] = "no"
			},
			code: CodeInvalidPassenger,
			check: func(t *testing.T, d map[string]any) {
				assert.Equal(t, 0, d["passengerIndex"])
				assert.Equal(t, []string{"name"}, d["missingFields"])
				assert.Equal(t, []string{"hasMinors"}, d["invalidFields"])
			},
		},
		{
			name: "billing without email",
			mutate: func(m map[string]any) {
				delete(m["billing"].(map[string]any), "email")
			},
			code: CodeInvalidBilling,
			check: func(t *testing.T, d map[string]any) {
				assert.Equal(t, []string{"email"}, d["missingFields"])
			},
		},
		{
			name: "trip without schedule",
			mutate: func(m map[string]any) {
				m["trip"].(map[string]any)["schedule"] = ""
			},
			code: CodeInvalidTrip,
			check: func(t *testing.T, d map[string]any) {
				assert.Equal(t, []string{"schedule"}, d["missingFields"])
			},
		},
		{
			name:   "seats not a list",
			mutate: func(m map[string]any) { m["seats"] = "12" },
			code:   CodeInvalidSeats,
		},
		{
			name:   "more seats than passengers",
			mutate: func(m map[string]any) { m["seats"] = []any{"12", "13"} },
			code:   CodeSeatsMismatch,
			check: func(t *testing.T, d map[string]any) {
				assert.Equal(t, 1, d["passengersCount"])
				assert.Equal(t, 2, d["seatsCount"])
			},
		},
		{
			name:   "terms rejected",
			mutate: func(m map[string]any) { m["acceptedTerms"] = false },
			code:   CodeTermsNotAccepted,
		},
		{
			name:   "terms as string",
			mutate: func(m map[string]any) { m["acceptedTerms"] = "true" },
			code:   CodeTermsNotAccepted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := decode(t, validReservation)
			tt.mutate(body)
			_, err := ValidateReservation(body)
			ve := validationErr(t, err)
			assert.Equal(t, tt.code, ve.Code)
			if tt.check != nil {
				tt.check(t, ve.Details)
			}
		})
	}
}

func TestValidateReservationOmittedTermsIsMissingField(t *testing.T) {
	body := decode(t, validReservation)
	delete(body, "acceptedTerms")
	_, err := ValidateReservation(body)
	assert.Equal(t, CodeMissingFields, validationErr(t, err).Code)
}

func TestValidateReservationFirstFailingRuleWins(t *testing.T) {
	body := decode(t, validReservation)
	body["seats"] = []any{"1", "2", "3"}
	body["acceptedTerms"] = false
	delete(body["billing"].(map[string]any), "phone")

	_, err := ValidateReservation(body)
	assert.Equal(t, CodeInvalidBilling, validationErr(t, err).Code)
}

func TestValidateReservationDuplicateSeats(t *testing.T) {
	body := decode(t, validReservation)
	second := map[string]any{}
	for k, v := range body["passengers"].([]any)[0].(map[string]any) {
		second[k] = v
	}
	body["passengers"] = append(body["passengers"].([]any), second)
	body["seats"] = []any{"7", "7"}

	_, err := ValidateReservation(body)
	ve := validationErr(t, err)
	assert.Equal(t, CodeDuplicateSeats, ve.Code)
	assert.Equal(t, []string{"7"}, ve.Details["duplicateSeats"])
}

func TestValidateReservationNumericSeatsAndDocuments(t *testing.T) {
	body := decode(t, `{
	  "passengers": [{"name": "Luis", "lastName": "Mora", "documentType": "CC", "documentNumber": 80123456,
	                  "birthDate": "1985-01-01", "hasMinors": true, "hasPets": false, "hasInsurance": true}],
	  "trip": {"origin": "Cali", "destination": "Pasto", "date": "2026-12-01", "schedule": "06:00"},
	  "seats": [4],
	  "acceptedTerms": true,
	  "billing": {"documentType": "CC", "documentNumber": 80123456, "name": "Luis Mora",
	              "phone": "3110000000", "email": "luis@example.com", "countryCode": "+1"}
	}`)

	req, err := ValidateReservation(body)
	require.NoError(t, err)
	assert.Equal(t, []string{"4"}, req.Seats)
	assert.Equal(t, "80123456", req.Passengers[0].DocumentNumber)
	assert.True(t, req.Passengers[0].HasInsurance)
	assert.Equal(t, "+13110000000", req.Billing.FullPhone)
}

func TestValidatePaymentRequest(t *testing.T) {
	card := `{"reservation": "TCK-1", "amount": 50000, "payment_method": "card",
	  "card_data": {"card_number": "4111 1111 1111 1111", "cardholder_name": "ANA GOMEZ", "expiry_date": "12/28", "cvv": "123"}}`

	req, err := ValidatePaymentRequest(decode(t, card))
	require.NoError(t, err)
	assert.Equal(t, "TCK-1", req.ReservationID)
	assert.Equal(t, int64(50000), req.Amount)
	assert.Equal(t, domain.MethodCard, req.Method)
	require.NotNil(t, req.Card)
	assert.Equal(t, "ANA GOMEZ", req.Card.CardholderName)

	withObject := `{"reservation": {"id": "TCK-2"}, "amount": 47000, "payment_method": "PSE",
	  "pse_data": {"document_number": "1020", "email": "A@B.CO", "bank_id": "1007"}}`
	req, err = ValidatePaymentRequest(decode(t, withObject))
	require.NoError(t, err)
	assert.Equal(t, "TCK-2", req.ReservationID)
	assert.Equal(t, int64(47000), req.Amount)
	assert.Equal(t, domain.MethodPSE, req.Method)
	assert.Equal(t, "a@b.co", req.PSE.Email)
}

func TestValidatePaymentRequestRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"missing amount", `{"reservation": "TCK-1", "payment_method": "card"}`, CodeMissingFields},
		{"bad reservation", `{"reservation": {"code": 1}, "amount": 1, "payment_method": "card"}`, CodeInvalidReservation},
		{"zero amount", `{"reservation": "TCK-1", "amount": 0, "payment_method": "card"}`, CodeInvalidAmount},
		{"fractional amount", `{"reservation": "TCK-1", "amount": 10.5, "payment_method": "card"}`, CodeInvalidAmount},
		{"amount as text", `{"reservation": "TCK-1", "amount": "50000", "payment_method": "card"}`, CodeInvalidAmount},
		{"unknown method", `{"reservation": "TCK-1", "amount": 10, "payment_method": "cash"}`, CodeInvalidMethod},
		{"card without cvv", `{"reservation": "TCK-1", "amount": 10, "payment_method": "card",
		  "card_data": {"card_number": "4111", "cardholder_name": "A", "expiry_date": "12/28"}}`, CodeInvalidCardData},
		{"pse without data", `{"reservation": "TCK-1", "amount": 10, "payment_method": "pse"}`, CodeInvalidPSEData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidatePaymentRequest(decode(t, tt.body))
			assert.Equal(t, tt.code, validationErr(t, err).Code)
		})
	}
}

func TestValidatePaymentRequestReportsMissingCardFields(t *testing.T) {
	_, err := ValidatePaymentRequest(decode(t, `{"reservation": "TCK-1", "amount": 10, "payment_method": "card",
	  "card_data": {"card_number": "4111"}}`))
	ve := validationErr(t, err)
	assert.Equal(t, []string{"cardholder_name", "expiry_date", "cvv"}, ve.Details["missingFields"])
}

func TestValidateQuote(t *testing.T) {
	trip, passengers, err := ValidateQuote(decode(t, `{"trip": {"origin": "Bogotá", "destination": "Cali"},
	  "passengers": [{"hasInsurance": true}, {}]}`))
	require.NoError(t, err)
	assert.Equal(t, "Cali", trip.Destination)
	require.Len(t, passengers, 2)
	assert.True(t, passengers[0].HasInsurance)
	assert.False(t, passengers[1].HasInsurance)

	_, _, err = ValidateQuote(decode(t, `{"trip": {"origin": "Bogotá"}, "passengers": [{}]}`))
	ve := validationErr(t, err)
	assert.Equal(t, CodeInvalidQuote, ve.Code)
	assert.Equal(t, []string{"destination"}, ve.Details["missingFields"])

	_, _, err = ValidateQuote(decode(t, `{"trip": {"origin": "A", "destination": "B"}, "passengers": []}`))
	assert.Equal(t, CodeInvalidQuote, validationErr(t, err).Code)
}
