package services

import (
	"encoding/json"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"busticket/internal/domain"
	"busticket/internal/domain/models"
	"busticket/internal/utils"
)

// Validation codes returned to clients. Each rule has its own code.
const (
	CodeMissingFields      = "MISSING_REQUIRED_FIELDS"
	CodeInvalidPassengers  = "INVALID_PASSENGERS"
	CodeInvalidPassenger   = "INVALID_PASSENGER_DATA"
	CodeInvalidBilling     = "INVALID_BILLING_DATA"
	CodeInvalidTrip        = "INVALID_TRIP_DATA"
	CodeInvalidSeats       = "INVALID_SEATS"
	CodeSeatsMismatch      = "SEATS_PASSENGERS_MISMATCH"
	CodeDuplicateSeats     = "DUPLICATE_SEATS"
	CodeTermsNotAccepted   = "TERMS_NOT_ACCEPTED"
	CodeEmptyUpdate        = "EMPTY_UPDATE"
	CodeFieldNotUpdatable  = "FIELD_NOT_UPDATABLE"
	CodeInvalidReservation = "INVALID_RESERVATION"
	CodeInvalidAmount      = "INVALID_AMOUNT"
	CodeAmountMismatch     = "AMOUNT_MISMATCH"
	CodeInvalidMethod      = "INVALID_PAYMENT_METHOD"
	CodeInvalidCardData    = "INVALID_CARD_DATA"
	CodeInvalidPSEData     = "INVALID_PSE_DATA"
	CodeInvalidQuote       = "INVALID_QUOTE_REQUEST"

	DefaultBillingCountry = "+57"
)

var (
	reservationFields   = []string{"passengers", "trip", "seats", "acceptedTerms", "billing"}
	passengerTextFields = []string{"name", "lastName", "documentType", "documentNumber", "birthDate"}
	passengerFlagFields = []string{"hasMinors", "hasPets"}
	billingFields       = []string{"documentType", "documentNumber", "name", "phone", "email"}
	tripFields          = []string{"origin", "destination", "date", "schedule"}
	paymentFields       = []string{"reservation", "amount", "payment_method"}
	quoteFields         = []string{"trip", "passengers"}
)

// ReservationRequest is a reservation body that passed every rule, already normalized.
type ReservationRequest struct {
	Passengers    []models.Passenger
	Trip          models.Trip
	Seats         []string
	Billing       models.Billing
	AcceptedTerms bool
}

func invalid(code, msg string, details map[string]any) error {
	return domain.ValidationError{Code: code, Msg: msg, Details: details}
}

// ValidateReservation runs the reservation rules in order; the first failing
// rule is reported.
func ValidateReservation(body map[string]any) (ReservationRequest, error) {
	var req ReservationRequest

	if missing := missingKeys(body, reservationFields); len(missing) > 0 {
		return req, invalid(CodeMissingFields, "missing required fields", map[string]any{
			"missingFields":  missing,
			"receivedFields": sortedKeys(body),
		})
	}

	passengers, err := validatePassengers(body["passengers"])
	if err != nil {
		return req, err
	}

	billing, err := validateBilling(body["billing"])
	if err != nil {
		return req, err
	}

	trip, err := validateTrip(body["trip"])
	if err != nil {
		return req, err
	}

	seats, err := validateSeats(body["seats"], len(passengers))
	if err != nil {
		return req, err
	}

	if accepted, ok := body["acceptedTerms"].(bool); !ok || !accepted {
		return req, invalid(CodeTermsNotAccepted, "terms and conditions must be accepted", map[string]any{
			"acceptedTerms": body["acceptedTerms"],
		})
	}

	req.Passengers = assignSeats(passengers, seats)
	req.Billing = billing
	req.Trip = trip
	req.Seats = seats
	req.AcceptedTerms = true
	return req, nil
}

// validatePassengers covers rules 2 and 3.
func validatePassengers(raw any) ([]models.Passenger, error) {
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return nil, invalid(CodeInvalidPassengers, "passengers must be a non-empty list", map[string]any{
			"passengers": raw,
		})
	}

	out := make([]models.Passenger, 0, len(list))
	for i, item := range list {
		p, ok := item.(map[string]any)
		if !ok {
			return nil, invalid(CodeInvalidPassengers, "every passenger must be an object", map[string]any{
				"passengerIndex": i,
				"passengers":     raw,
			})
		}

		missing := blankFields(p, passengerTextFields)
		badFlags := make([]string, 0)
		for _, f := range passengerFlagFields {
			if _, isBool := p[f].(bool); !isBool {
				badFlags = append(badFlags, f)
			}
		}
		if len(missing) > 0 || len(badFlags) > 0 {
			return nil, invalid(CodeInvalidPassenger, "passenger "+strconv.Itoa(i+1)+" has missing or invalid data", map[string]any{
				"passengerIndex": i,
				"missingFields":  missing,
				"invalidFields":  badFlags,
				"passenger":      p,
			})
		}

		hasInsurance, _ := p["hasInsurance"].(bool)
		out = append(out, models.Passenger{
			Name:           textField(p, "name"),
			LastName:       textField(p, "lastName"),
			DocumentType:   textField(p, "documentType"),
			DocumentNumber: textField(p, "documentNumber"),
			BirthDate:      textField(p, "birthDate"),
			HasMinors:      p["hasMinors"].(bool),
			HasPets:        p["hasPets"].(bool),
			HasInsurance:   hasInsurance,
		})
	}
	return out, nil
}

// validateBilling covers rule 4 and normalizes the contact data.
func validateBilling(raw any) (models.Billing, error) {
	b, ok := raw.(map[string]any)
	if !ok {
		return models.Billing{}, invalid(CodeInvalidBilling, "billing must be an object", map[string]any{
			"missingFields": billingFields,
			"billing":       raw,
		})
	}
	if missing := blankFields(b, billingFields); len(missing) > 0 {
		return models.Billing{}, invalid(CodeInvalidBilling, "billing data is incomplete", map[string]any{
			"missingFields": missing,
			"billing":       b,
		})
	}

	country := textField(b, "countryCode")
	if country == "" {
		country = DefaultBillingCountry
	}
	phone := textField(b, "phone")
	return models.Billing{
		DocumentType:   textField(b, "documentType"),
		DocumentNumber: textField(b, "documentNumber"),
		Name:           textField(b, "name"),
		Phone:          phone,
		Email:          utils.NormalizeEmail(textField(b, "email")),
		CountryCode:    country,
		FullPhone:      country + phone,
	}, nil
}

// validateTrip covers rule 5.
func validateTrip(raw any) (models.Trip, error) {
	t, ok := raw.(map[string]any)
	if !ok {
		return models.Trip{}, invalid(CodeInvalidTrip, "trip must be an object", map[string]any{
			"missingFields": tripFields,
			"trip":          raw,
		})
	}
	if missing := blankFields(t, tripFields); len(missing) > 0 {
		return models.Trip{}, invalid(CodeInvalidTrip, "trip data is incomplete", map[string]any{
			"missingFields": missing,
			"trip":          t,
		})
	}
	return models.Trip{
		Origin:      textField(t, "origin"),
		Destination: textField(t, "destination"),
		Date:        textField(t, "date"),
		Schedule:    textField(t, "schedule"),
	}, nil
}

// validateSeats covers rule 6: shape, count against passengers, uniqueness.
func validateSeats(raw any, passengers int) ([]string, error) {
	seats, err := parseSeats(raw)
	if err != nil {
		return nil, err
	}
	if err := checkSeatCount(seats, passengers); err != nil {
		return nil, err
	}
	return seats, nil
}

func parseSeats(raw any) ([]string, error) {
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return nil, invalid(CodeInvalidSeats, "seats must be a non-empty list", map[string]any{
			"seats": raw,
		})
	}
	seats := make([]string, 0, len(list))
	for _, s := range list {
		seat, ok := asText(s)
		if !ok || seat == "" {
			return nil, invalid(CodeInvalidSeats, "every seat must be a non-empty identifier", map[string]any{
				"seats": raw,
			})
		}
		seats = append(seats, seat)
	}
	return seats, nil
}

func checkSeatCount(seats []string, passengers int) error {
	if len(seats) != passengers {
		return invalid(CodeSeatsMismatch, "number of seats does not match number of passengers", map[string]any{
			"passengersCount": passengers,
			"seatsCount":      len(seats),
		})
	}
	seen := make(map[string]bool, len(seats))
	dups := make([]string, 0)
	for _, s := range seats {
		if seen[s] {
			dups = append(dups, s)
		}
		seen[s] = true
	}
	if len(dups) > 0 {
		return invalid(CodeDuplicateSeats, "a seat can only be assigned once per ticket", map[string]any{
			"duplicateSeats": dups,
		})
	}
	return nil
}

func assignSeats(passengers []models.Passenger, seats []string) []models.Passenger {
	out := make([]models.Passenger, len(passengers))
	for i, p := range passengers {
		p.Seat = seats[i]
		out[i] = p
	}
	return out
}

// ValidateQuote checks a price quote body: a trip with origin and destination
// and a non-empty passenger list. Only hasInsurance is read from passengers.
func ValidateQuote(body map[string]any) (models.Trip, []models.Passenger, error) {
	if missing := missingKeys(body, quoteFields); len(missing) > 0 {
		return models.Trip{}, nil, invalid(CodeInvalidQuote, "missing required fields", map[string]any{
			"missingFields":  missing,
			"receivedFields": sortedKeys(body),
		})
	}
	t, ok := body["trip"].(map[string]any)
	if !ok {
		return models.Trip{}, nil, invalid(CodeInvalidQuote, "trip must be an object", map[string]any{"trip": body["trip"]})
	}
	if missing := blankFields(t, []string{"origin", "destination"}); len(missing) > 0 {
		return models.Trip{}, nil, invalid(CodeInvalidQuote, "trip origin and destination are required", map[string]any{
			"missingFields": missing,
			"trip":          t,
		})
	}
	list, ok := body["passengers"].([]any)
	if !ok || len(list) == 0 {
		return models.Trip{}, nil, invalid(CodeInvalidQuote, "passengers must be a non-empty list", map[string]any{
			"passengers": body["passengers"],
		})
	}
	passengers := make([]models.Passenger, 0, len(list))
	for _, item := range list {
		p, _ := item.(map[string]any)
		insured, _ := p["hasInsurance"].(bool)
		passengers = append(passengers, models.Passenger{HasInsurance: insured})
	}
	trip := models.Trip{
		Origin:      textField(t, "origin"),
		Destination: textField(t, "destination"),
		Date:        textField(t, "date"),
		Schedule:    textField(t, "schedule"),
	}
	return trip, passengers, nil
}

// CardData is the card_data block of a payment request.
type CardData struct {
	CardNumber     string `json:"card_number" validate:"required"`
	CardholderName string `json:"cardholder_name" validate:"required"`
	ExpiryDate     string `json:"expiry_date" validate:"required"`
	CVV            string `json:"cvv" validate:"required"`
	Installments   string `json:"installments,omitempty"`
}

// PSEData is the pse_data block of a payment request.
type PSEData struct {
	DocumentNumber string `json:"document_number" validate:"required"`
	Email          string `json:"email" validate:"required"`
	BankID         string `json:"bank_id" validate:"required"`
	DocumentType   string `json:"document_type,omitempty"`
	PersonType     string `json:"person_type,omitempty"`
}

// PaymentRequest is a validated process-payment body.
type PaymentRequest struct {
	ReservationID string
	Amount        int64
	Method        domain.PaymentMethod
	Card          *CardData
	PSE           *PSEData
}

var methodDataValidator = newMethodDataValidator()

func newMethodDataValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidatePaymentRequest checks a process-payment body.
func ValidatePaymentRequest(body map[string]any) (PaymentRequest, error) {
	var req PaymentRequest

	if missing := missingKeys(body, paymentFields); len(missing) > 0 {
		return req, invalid(CodeMissingFields, "missing required fields", map[string]any{
			"missingFields":  missing,
			"receivedFields": sortedKeys(body),
		})
	}

	req.ReservationID = reservationID(body["reservation"])
	if req.ReservationID == "" {
		return req, invalid(CodeInvalidReservation, "reservation must be an id or an object with an id", map[string]any{
			"reservation": body["reservation"],
		})
	}

	amount, ok := asInt(body["amount"])
	if !ok || amount <= 0 {
		return req, invalid(CodeInvalidAmount, "amount must be a positive integer", map[string]any{
			"amount": body["amount"],
		})
	}
	req.Amount = amount

	method, _ := asText(body["payment_method"])
	switch domain.PaymentMethod(strings.ToLower(method)) {
	case domain.MethodCard:
		req.Method = domain.MethodCard
		card := CardData{}
		data, _ := body["card_data"].(map[string]any)
		card.CardNumber = textField(data, "card_number")
		card.CardholderName = textField(data, "cardholder_name")
		card.ExpiryDate = textField(data, "expiry_date")
		card.CVV = textField(data, "cvv")
		card.Installments = textField(data, "installments")
		if missing := missingByValidator(card); len(missing) > 0 {
			return req, invalid(CodeInvalidCardData, "card data is incomplete", map[string]any{
				"missingFields": missing,
			})
		}
		req.Card = &card
	case domain.MethodPSE:
		req.Method = domain.MethodPSE
		pse := PSEData{}
		data, _ := body["pse_data"].(map[string]any)
		pse.DocumentNumber = textField(data, "document_number")
		pse.Email = utils.NormalizeEmail(textField(data, "email"))
		pse.BankID = textField(data, "bank_id")
		pse.DocumentType = textField(data, "document_type")
		pse.PersonType = textField(data, "person_type")
		if missing := missingByValidator(pse); len(missing) > 0 {
			return req, invalid(CodeInvalidPSEData, "PSE data is incomplete", map[string]any{
				"missingFields": missing,
			})
		}
		req.PSE = &pse
	default:
		return req, invalid(CodeInvalidMethod, "payment_method must be card or pse", map[string]any{
			"payment_method": body["payment_method"],
			"allowedMethods": []domain.PaymentMethod{domain.MethodCard, domain.MethodPSE},
		})
	}
	return req, nil
}

func missingByValidator(v any) []string {
	err := methodDataValidator.Struct(v)
	if err == nil {
		return nil
	}
	var missing []string
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			missing = append(missing, fe.Field())
		}
		return missing
	}
	return []string{err.Error()}
}

func reservationID(raw any) string {
	if id, ok := asText(raw); ok {
		return id
	}
	if m, ok := raw.(map[string]any); ok {
		return textField(m, "id")
	}
	return ""
}

// missingKeys lists keys that are absent or null, in the order given.
func missingKeys(m map[string]any, keys []string) []string {
	missing := make([]string, 0)
	for _, k := range keys {
		if v, ok := m[k]; !ok || v == nil {
			missing = append(missing, k)
		}
	}
	return missing
}

// blankFields lists keys whose value is not a non-blank scalar.
func blankFields(m map[string]any, keys []string) []string {
	missing := make([]string, 0)
	for _, k := range keys {
		if textField(m, k) == "" {
			missing = append(missing, k)
		}
	}
	return missing
}

func textField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := asText(m[key])
	return s
}

// asText accepts strings and numbers, trimmed. Booleans, objects and lists are not text.
func asText(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), true
	case json.Number:
		return val.String(), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	default:
		return "", false
	}
}

func asInt(v any) (int64, bool) {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n, true
		}
		f, err := val.Float64()
		if err != nil || f != float64(int64(f)) {
			return 0, false
		}
		return int64(f), true
	case float64:
		if val != float64(int64(val)) {
			return 0, false
		}
		return int64(val), true
	default:
		return 0, false
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
