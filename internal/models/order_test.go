package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrderStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"pending to preparing", StatusPending, StatusPreparing, true},
		{"pending to completed", StatusPending, StatusCompleted, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"preparing to completed", StatusPreparing, StatusCompleted, true},
		{"preparing to cancelled", StatusPreparing, StatusCancelled, true},
		{"preparing back to pending", StatusPreparing, StatusPending, false},
		{"completed is terminal", StatusCompleted, StatusPreparing, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"no self transition", StatusPending, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusPreparing, StatusCompleted, StatusCancelled} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if OrderStatus("shipped").Valid() {
		t.Error("expected unknown status to be invalid")
	}
}

func validRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		TableNumber: "7",
		Items: []OrderItem{
			{
				MenuItemID: 1,
				Name:       LocalizedText{"en": "Margherita"},
				Quantity:   2,
				Price:      decimal.RequireFromString("8.00"),
				Extras: []OrderOption{
					{ID: 10, Name: LocalizedText{"en": "Extra cheese"}, ExtraPrice: decimal.RequireFromString("1.50")},
				},
				LineTotal: decimal.RequireFromString("19.00"),
			},
		},
		Total: decimal.RequireFromString("19.00"),
	}
}

func TestCreateOrderRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateOrderRequest)
		wantErr bool
	}{
		{"valid request", func(r *CreateOrderRequest) {}, false},
		{"missing table number", func(r *CreateOrderRequest) { r.TableNumber = "" }, true},
		{"blank table number", func(r *CreateOrderRequest) { r.TableNumber = "   " }, true},
		{"empty items", func(r *CreateOrderRequest) { r.Items = nil }, true},
		{"zero quantity", func(r *CreateOrderRequest) { r.Items[0].Quantity = 0 }, true},
		{"negative price", func(r *CreateOrderRequest) { r.Items[0].Price = decimal.RequireFromString("-1") }, true},
		{"negative extra price", func(r *CreateOrderRequest) {
			r.Items[0].Extras[0].ExtraPrice = decimal.RequireFromString("-0.50")
		}, true},
		{"negative total", func(r *CreateOrderRequest) { r.Total = decimal.RequireFromString("-19.00") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			err := req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLocalizedTextGet(t *testing.T) {
	name := LocalizedText{"en": "Onion", "fr": "Oignon"}
	if got := name.Get("fr"); got != "Oignon" {
		t.Errorf("Get(fr) = %q, want Oignon", got)
	}
	if got := name.Get("ar"); got != "Onion" {
		t.Errorf("Get(ar) = %q, want English fallback", got)
	}
}
