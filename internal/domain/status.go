package domain

import (
	"errors"
	"slices"

	"github.com/Skotchmaster/halkabite/internal/models"
)

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrUnknownStatus           = errors.New("unknown status")
)

var orderTransitions = map[string][]string{
	models.OrderStatusPending:        {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed:      {models.OrderStatusPreparing, models.OrderStatusCancelled},
	models.OrderStatusPreparing:      {models.OrderStatusReady},
	models.OrderStatusReady:          {models.OrderStatusOutForDelivery},
	models.OrderStatusOutForDelivery: {models.OrderStatusDelivered},
	models.OrderStatusDelivered:      {},
	models.OrderStatusCancelled:      {},
}

var paymentTransitions = map[string][]string{
	models.PaymentStatusPending:  {models.PaymentStatusPaid, models.PaymentStatusFailed},
	models.PaymentStatusFailed:   {models.PaymentStatusPaid},
	models.PaymentStatusPaid:     {models.PaymentStatusRefunded},
	models.PaymentStatusRefunded: {},
}

func IsOrderStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

func IsPaymentStatus(s string) bool {
	_, ok := paymentTransitions[s]
	return ok
}

func CanTransitionOrder(from, to string) bool {
	return slices.Contains(orderTransitions[from], to)
}

func CanTransitionPayment(from, to string) bool {
	return slices.Contains(paymentTransitions[from], to)
}

// Cancellable is true only before the kitchen starts preparing.
func Cancellable(status string) bool {
	return status == models.OrderStatusPending || status == models.OrderStatusConfirmed
}

func IsPaymentMethod(m string) bool {
	switch m {
	case models.PaymentBkash, models.PaymentNagad, models.PaymentRocket, models.PaymentCOD:
		return true
	}
	return false
}
