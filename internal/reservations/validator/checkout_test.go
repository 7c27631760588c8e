package validator

import (
	"strings"
	"testing"
	"time"

	"roomly/pkg/logger"
)

func newValidator() *CheckoutValidator {
	return NewCheckoutValidator(logger.New(logger.Config{}))
}

func validStart() *StartCheckoutRequest {
	return &StartCheckoutRequest{
		ListingID:   "665f0000000000000000001a",
		MoveInDate:  time.Now().UTC().AddDate(0, 0, 7),
		LeaseMonths: 12,
	}
}

func TestValidateStartAccepts(t *testing.T) {
	if err := newValidator().ValidateStart(validStart()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateStartRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *StartCheckoutRequest)
		wantMsg string
	}{
		{
			name:    "missing listing",
			mutate:  func(r *StartCheckoutRequest) { r.ListingID = "" },
			wantMsg: "ListingID",
		},
		{
			name:    "malformed listing id",
			mutate:  func(r *StartCheckoutRequest) { r.ListingID = "not-an-object-id" },
			wantMsg: "ObjectID",
		},
		{
			name:    "past move-in",
			mutate:  func(r *StartCheckoutRequest) { r.MoveInDate = time.Now().UTC().AddDate(0, 0, -3) },
			wantMsg: "past",
		},
		{
			name:    "zero lease",
			mutate:  func(r *StartCheckoutRequest) { r.LeaseMonths = 0 },
			wantMsg: "LeaseMonths",
		},
		{
			name:    "lease too long",
			mutate:  func(r *StartCheckoutRequest) { r.LeaseMonths = 48 },
			wantMsg: "LeaseMonths",
		},
	}

	v := newValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validStart()
			tt.mutate(req)

			err := v.ValidateStart(req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected %q in error, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestValidateCompleteEndDateOrdering(t *testing.T) {
	v := newValidator()
	start := time.Now().UTC().AddDate(0, 0, 7)

	if err := v.ValidateComplete(&CompleteCheckoutRequest{StartDate: start}); err != nil {
		t.Fatalf("end date is optional: %v", err)
	}

	after := start.AddDate(1, 0, 0)
	if err := v.ValidateComplete(&CompleteCheckoutRequest{StartDate: start, EndDate: &after}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before := start.AddDate(0, 0, -1)
	if err := v.ValidateComplete(&CompleteCheckoutRequest{StartDate: start, EndDate: &before}); err == nil {
		t.Error("expected rejection for end before start")
	}
	if err := v.ValidateComplete(&CompleteCheckoutRequest{StartDate: start, EndDate: &start}); err == nil {
		t.Error("expected rejection for end equal to start")
	}
}
