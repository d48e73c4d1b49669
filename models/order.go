package models

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusReturned   OrderStatus = "RETURNED"
)

type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard      PaymentMethod = "DEBIT_CARD"
	PaymentUPI            PaymentMethod = "UPI"
	PaymentCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"index;not null" json:"user_id"`
	User        *User       `gorm:"foreignKey:UserID" json:"-"`
	OrderNumber string      `gorm:"uniqueIndex;size:50;not null" json:"order_number"`
	Status      OrderStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`

	TotalAmount    float64 `gorm:"not null" json:"total_amount"`
	Subtotal       float64 `gorm:"not null" json:"subtotal"`
	TaxAmount      float64 `gorm:"not null;default:0" json:"tax_amount"`
	ShippingAmount float64 `gorm:"not null;default:0" json:"shipping_amount"`
	TotalItems     int     `gorm:"not null" json:"total_items"`

	ShippingAddress string `gorm:"size:500" json:"shipping_address"`
	BillingAddress  string `gorm:"size:500" json:"billing_address"`

	PaymentMethod        PaymentMethod `gorm:"size:20" json:"payment_method"`
	PaymentStatus        PaymentStatus `gorm:"size:20;default:'PENDING'" json:"payment_status"`
	PaymentTransactionID string        `gorm:"size:100" json:"payment_transaction_id,omitempty"`

	Notes string `gorm:"size:500" json:"notes,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type OrderItem struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	OrderID       uint     `gorm:"index;not null" json:"order_id"`
	ProductID     uint     `gorm:"index;not null" json:"product_id"`
	Product       *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity      int      `gorm:"not null" json:"quantity"`
	UnitPrice     float64  `gorm:"not null" json:"unit_price"` // price snapshot at order time
	SelectedSize  string   `gorm:"size:10" json:"selected_size"`
	SelectedColor string   `gorm:"size:50" json:"selected_color"`
}
