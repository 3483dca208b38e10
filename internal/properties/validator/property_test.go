package validator

import (
	"errors"
	"strings"
	"testing"

	"homeview/pkg/logger"
	"homeview/pkg/model"
	"homeview/pkg/validation"
)

func validProperty() *model.Property {
	return &model.Property{
		Title:     "Sea view penthouse",
		Type:      "penthouse",
		Price:     4200000,
		Bedrooms:  4,
		Bathrooms: 2,
		Address:   "1 Allenby St",
		City:      "Tel Aviv",
		Status:    model.PropertyAvailable,
		Amenities: []string{"pool"},
	}
}

func TestPropertyValidator_Validate(t *testing.T) {
	v := NewPropertyValidator(logger.Discard())

	tests := []struct {
		name      string
		mutate    func(*model.Property)
		wantField string
		wantMsg   string
	}{
		{
			name:   "valid property",
			mutate: func(*model.Property) {},
		},
		{
			name:      "missing title",
			mutate:    func(p *model.Property) { p.Title = "" },
			wantField: "title",
			wantMsg:   "title is required",
		},
		{
			name:      "negative price",
			mutate:    func(p *model.Property) { p.Price = -1 },
			wantField: "price",
			wantMsg:   "greater than or equal to 0",
		},
		{
			name:      "unknown status",
			mutate:    func(p *model.Property) { p.Status = "demolished" },
			wantField: "status",
			wantMsg:   "available, under-offer, sold, rented, off-market",
		},
		{
			name:      "agent is not an object id",
			mutate:    func(p *model.Property) { id := "agent-1"; p.AgentID = &id },
			wantField: "agent_id",
			wantMsg:   "24 character hex id",
		},
		{
			name:      "image without url",
			mutate:    func(p *model.Property) { p.Images = []model.PropertyImage{{Caption: "kitchen"}} },
			wantField: "url",
			wantMsg:   "url is required",
		},
		{
			name:      "empty amenity",
			mutate:    func(p *model.Property) { p.Amenities = []string{""} },
			wantField: "amenities[0]",
			wantMsg:   "at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProperty()
			tt.mutate(p)

			err := v.Validate(p)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error = %v", err)
				}
				return
			}

			var verrs validation.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Validate() error = %v, want ValidationErrors", err)
			}
			for _, ve := range verrs {
				if ve.Field == tt.wantField {
					if !strings.Contains(ve.Message, tt.wantMsg) {
						t.Errorf("message = %q, want it to contain %q", ve.Message, tt.wantMsg)
					}
					return
				}
			}
			t.Errorf("no error reported for field %q in %v", tt.wantField, verrs)
		})
	}
}

func TestPropertyValidator_Media(t *testing.T) {
	v := NewPropertyValidator(logger.Discard())

	good := []model.PropertyImage{{URL: "https://cdn.example.com/a.jpg"}}
	if err := v.ValidateImages(good); err != nil {
		t.Errorf("ValidateImages() unexpected error = %v", err)
	}

	bad := []model.PropertyImage{{URL: "https://cdn.example.com/a.jpg"}, {URL: "not a url"}}
	err := v.ValidateImages(bad)
	if err == nil || !strings.HasPrefix(err.Error(), "images[1]") {
		t.Errorf("ValidateImages() error = %v, want it to name images[1]", err)
	}

	if err := v.ValidateVideos([]model.PropertyVideo{{URL: "https://cdn.example.com/t.mp4", DurationSeconds: -5}}); err == nil {
		t.Error("ValidateVideos() expected error for negative duration")
	}
}
