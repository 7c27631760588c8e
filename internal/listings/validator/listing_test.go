package validator

import (
	"strings"
	"testing"

	"roomly/pkg/logger"
	"roomly/pkg/model"
)

func newValidator() *ListingValidator {
	return NewListingValidator(logger.New(logger.Config{}), 20)
}

func validListing() *model.Listing {
	return &model.Listing{
		OwnerID:      "owner-1",
		Title:        "Sunny room near campus",
		Address:      "12 College Ave, Apt 3",
		City:         "boston",
		Country:      "US",
		MonthlyPrice: 950,
		Currency:     "USD",
		Bedrooms:     3,
		Bathrooms:    1,
		LeaseMonths:  12,
		ContactPhone: "+12125551234",
		TotalSlots:   3,
	}
}

func TestValidateAccepts(t *testing.T) {
	if err := newValidator().Validate(validListing()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(l *model.Listing)
		wantMsg string
	}{
		{
			name:    "missing title",
			mutate:  func(l *model.Listing) { l.Title = "" },
			wantMsg: "Title",
		},
		{
			name:    "title too short",
			mutate:  func(l *model.Listing) { l.Title = "x" },
			wantMsg: "at least",
		},
		{
			name:    "bad currency",
			mutate:  func(l *model.Listing) { l.Currency = "DOLLARS" },
			wantMsg: "ISO 4217",
		},
		{
			name:    "bad country",
			mutate:  func(l *model.Listing) { l.Country = "USA" },
			wantMsg: "ISO 3166",
		},
		{
			name:    "bad phone",
			mutate:  func(l *model.Listing) { l.ContactPhone = "555-1234" },
			wantMsg: "E.164",
		},
		{
			name:    "zero slots",
			mutate:  func(l *model.Listing) { l.TotalSlots = 0 },
			wantMsg: "TotalSlots",
		},
		{
			name:    "too many slots",
			mutate:  func(l *model.Listing) { l.TotalSlots = 21 },
			wantMsg: "at most 20",
		},
		{
			name:    "bad photo url",
			mutate:  func(l *model.Listing) { l.PhotoURLs = []string{"not a url"} },
			wantMsg: "URL",
		},
	}

	v := newValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing := validListing()
			tt.mutate(listing)

			err := v.Validate(listing)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected %q in error, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestValidateUpdatePartial(t *testing.T) {
	v := newValidator()

	if err := v.ValidateUpdate(&model.ListingUpdate{}); err != nil {
		t.Fatalf("empty update is valid: %v", err)
	}

	badPrice := int64(-5)
	if err := v.ValidateUpdate(&model.ListingUpdate{MonthlyPrice: &badPrice}); err == nil {
		t.Error("expected rejection for negative price")
	}
}
