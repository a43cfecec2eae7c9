package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"trip_planner/internal/domain"
)

const MsgFieldsRequired = "All fields are required"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names ("days") instead of Go names ("Days")
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeTripRequest reads a JSON request body. An empty body decodes to an
// empty request so that Validate reports the missing fields.
func DecodeTripRequest(r io.Reader) (domain.TripRequest, error) {
	var raw struct {
		domain.TripRequest
		Budget json.RawMessage `json:"budget"`
		People json.RawMessage `json:"people"`
		Days   json.RawMessage `json:"days"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.TripRequest{}, nil
		}
		return domain.TripRequest{}, &domain.ValidationError{Message: "Request body must be a JSON object"}
	}

	req := raw.TripRequest
	for _, f := range []struct {
		name string
		src  json.RawMessage
		dst  *domain.Amount
	}{
		{"budget", raw.Budget, &req.Budget},
		{"people", raw.People, &req.People},
		{"days", raw.Days, &req.Days},
	} {
		if len(f.src) == 0 {
			continue
		}
		if err := f.dst.UnmarshalJSON(f.src); err != nil {
			return domain.TripRequest{}, &domain.ValidationError{Message: f.name + " must be a number"}
		}
	}
	return req, nil
}

// Validate checks the required fields and derives the budget tier.
func Validate(req domain.TripRequest) (domain.Plan, error) {
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return domain.Plan{}, &domain.ValidationError{Message: err.Error()}
		}
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				return domain.Plan{}, &domain.ValidationError{Message: MsgFieldsRequired}
			}
		}
		return domain.Plan{}, &domain.ValidationError{
			Message: fmt.Sprintf("%s must be greater than zero", verrs[0].Field()),
		}
	}
	return domain.Plan{TripRequest: req, Tier: ClassifyBudget(req.Budget.Int())}, nil
}
