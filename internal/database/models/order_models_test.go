package models

import "testing"

func TestCanTransitionOrderStatus(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusDelivered, true},
		{OrderStatusConfirmed, OrderStatusPrinting, true},
		{OrderStatusProcessing, OrderStatusShipped, true},

		{OrderStatusConfirmed, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusProcessing, false},
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusPending, false},

		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusCancelled, false},
		{OrderStatusPrinting, OrderStatusCancelled, false},

		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},

		{"bogus", OrderStatusConfirmed, false},
		{OrderStatusPending, "bogus", false},
	}
	for _, tc := range cases {
		if got := CanTransitionOrderStatus(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransitionOrderStatus(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCanCancelOrder(t *testing.T) {
	cases := []struct {
		status, payment string
		want            bool
	}{
		{OrderStatusPending, PaymentStatusPending, true},
		{OrderStatusConfirmed, PaymentStatusPending, true},
		{OrderStatusConfirmed, PaymentStatusFailed, true},

		{OrderStatusPending, PaymentStatusPaid, false},
		{OrderStatusConfirmed, PaymentStatusPaid, false},
		{OrderStatusProcessing, PaymentStatusPending, false},
		{OrderStatusDelivered, PaymentStatusPending, false},
		{OrderStatusCancelled, PaymentStatusPending, false},
	}
	for _, tc := range cases {
		if got := CanCancelOrder(tc.status, tc.payment); got != tc.want {
			t.Errorf("CanCancelOrder(%q, %q) = %v, want %v", tc.status, tc.payment, got, tc.want)
		}
	}
}

func TestCanTransitionPaymentStatus(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{PaymentStatusPending, PaymentStatusPaid, true},
		{PaymentStatusPending, PaymentStatusFailed, true},
		{PaymentStatusFailed, PaymentStatusPaid, true},
		{PaymentStatusPaid, PaymentStatusRefunded, true},

		{PaymentStatusPaid, PaymentStatusPending, false},
		{PaymentStatusPaid, PaymentStatusPaid, false},
		{PaymentStatusRefunded, PaymentStatusPaid, false},
		{PaymentStatusPending, PaymentStatusRefunded, false},
	}
	for _, tc := range cases {
		if got := CanTransitionPaymentStatus(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransitionPaymentStatus(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
