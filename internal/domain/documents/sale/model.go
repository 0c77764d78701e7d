// Package sale provides the Sale document. Sales are written by the checkout
// workflow and only change status afterwards; the report engines treat them
// as read-only input.
package sale

import (
	"time"

	"batchledger/internal/core/entity"
	"batchledger/internal/core/id"
	"batchledger/internal/core/types"
)

// PaymentStatus is the payment lifecycle of a sale.
type PaymentStatus string

const (
	PaymentInvoiceRequested PaymentStatus = "invoice_requested"
	PaymentPending          PaymentStatus = "pending_payment"
	PaymentPaid             PaymentStatus = "paid"
	PaymentAwaitingDelivery PaymentStatus = "awaiting_delivery"
	PaymentRefunded         PaymentStatus = "refunded"
)

// Sale is a customer order with its line items.
type Sale struct {
	entity.BaseEntity

	CustomerID    id.ID         `db:"customer_id" json:"customerId"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"paymentStatus"`
	OrderStatus   string        `db:"order_status" json:"orderStatus"`

	// Amount is the recorded order total. It may include delivery fees and
	// discounts that line items do not show.
	Amount      *types.Money `db:"amount" json:"amount,omitempty"`
	DeliveryFee *types.Money `db:"delivery_fee" json:"deliveryFee,omitempty"`

	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	Items     []LineItem `db:"-" json:"items"`
}

// IsPaid reports whether the sale's payment status is paid.
func (s *Sale) IsPaid() bool {
	return s.PaymentStatus == PaymentPaid
}

// Counted reports whether the sale counts as a sale for reporting: paid and not deleted.
func (s *Sale) Counted() bool {
	return s.IsPaid() && !s.IsDeleted()
}

// LineItem is one product line of a sale.
type LineItem struct {
	ProductID         id.ID             `json:"productId"`
	RequestedQuantity int               `json:"requestedQuantity"`
	FinalPrice        types.Money       `json:"finalPrice"`
	Allocations       []BatchAllocation `json:"allocations"`
}

// Revenue is FinalPrice * RequestedQuantity.
func (l LineItem) Revenue() types.Money {
	return l.FinalPrice.Mul(types.MoneyFromInt(l.RequestedQuantity))
}

// AllocatedQuantity sums the quantities drawn from batches.
func (l LineItem) AllocatedQuantity() int {
	total := 0
	for _, a := range l.Allocations {
		total += a.Quantity
	}
	return total
}

// BatchAllocation records how much of a line item was drawn from one batch.
type BatchAllocation struct {
	BatchID  id.ID `json:"batchId"`
	Quantity int   `json:"quantity"`
}
