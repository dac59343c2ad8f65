package models

import (
	"time"
)

// User model
type User struct {
	ID               int       `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Email            string    `gorm:"unique;not null;column:email" json:"email"`
	Username         string    `gorm:"unique;not null;column:username" json:"username"`
	Password         *string   `gorm:"column:password" json:"-"` // Don't expose password in JSON
	Role             Role      `gorm:"type:text;default:'CUSTOMER';column:role" json:"role"`
	Phone            *string   `gorm:"column:phone" json:"phone"`
	Address          *string   `gorm:"column:address" json:"address"`
	ImageURL         *string   `gorm:"column:imageUrl" json:"imageUrl"`
	TwoFactorSecret  *string   `gorm:"column:twoFactorSecret" json:"-"` // Don't expose secret
	TwoFactorEnabled bool      `gorm:"default:false;column:twoFactorEnabled" json:"twoFactorEnabled"`
	CreatedAt        time.Time `gorm:"autoCreateTime;column:createdAt" json:"createdAt"`

	// Relationships
	Restaurants  []Restaurant      `gorm:"foreignKey:OwnerID" json:"restaurants,omitempty"`
	Orders       []Order           `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	DeviceTokens []UserDeviceToken `gorm:"foreignKey:UserID" json:"deviceTokens,omitempty"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "User"
}

// Restaurant model — one owner per restaurant
type Restaurant struct {
	ID          int       `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	Phone       *string   `gorm:"column:phone" json:"phone"`
	Description *string   `gorm:"column:description" json:"description"`
	OwnerID     int       `gorm:"not null;column:ownerId" json:"ownerId"`
	CreatedAt   time.Time `gorm:"autoCreateTime;column:createdAt" json:"createdAt"`

	// Relationships
	Owner User  `gorm:"foreignKey:OwnerID;references:ID" json:"owner,omitempty"`
	Boxes []Box `gorm:"foreignKey:RestaurantID" json:"boxes,omitempty"`
}

// TableName specifies the table name for Restaurant model
func (Restaurant) TableName() string {
	return "Restaurant"
}

// Box model — a restaurant's sellable meal bundle
type Box struct {
	ID           int       `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Title        string    `gorm:"not null;column:title" json:"title"`
	Description  *string   `gorm:"column:description" json:"description"`
	Price        float64   `gorm:"not null;column:price" json:"price"`
	Quantity     int       `gorm:"not null;default:0;column:quantity" json:"quantity"`
	ImageURL     *string   `gorm:"column:imageUrl" json:"imageUrl"`
	IsHidden     bool      `gorm:"default:false;column:isHidden" json:"isHidden"`
	IsAvailable  bool      `gorm:"default:false;column:isAvailable" json:"isAvailable"`
	RestaurantID int       `gorm:"not null;column:restaurantId" json:"restaurantId"`
	CreatedAt    time.Time `gorm:"autoCreateTime;column:createdAt" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime;column:updatedAt" json:"updatedAt"`

	// Relationships
	Restaurant        Restaurant         `gorm:"foreignKey:RestaurantID;references:ID" json:"restaurant,omitempty"`
	Orders            []Order            `gorm:"foreignKey:BoxID" json:"orders,omitempty"`
	InventoryCommands []InventoryCommand `gorm:"foreignKey:BoxID" json:"inventoryCommands,omitempty"`
}

// TableName specifies the table name for Box model
func (Box) TableName() string {
	return "Box"
}

// ComputeAvailability applies the single derivation rule for the stored
// isAvailable flag: purchasable iff in stock and not manually hidden.
func (b *Box) ComputeAvailability() {
	b.IsAvailable = b.Quantity > 0 && !b.IsHidden
}

// Order model — one row per line item; quantity fixed at creation
type Order struct {
	ID          int         `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID      int         `gorm:"not null;column:userId" json:"userId"`
	BoxID       int         `gorm:"not null;column:boxId" json:"boxId"`
	Quantity    int         `gorm:"not null;column:quantity" json:"quantity"`
	TotalPrice  float64     `gorm:"not null;column:totalPrice" json:"totalPrice"`
	Status      OrderStatus `gorm:"type:text;default:'PENDING';column:status" json:"status"`
	IsCancelled bool        `gorm:"default:false;column:isCancelled" json:"isCancelled"`
	CreatedAt   time.Time   `gorm:"autoCreateTime;column:createdAt" json:"createdAt"`

	// Relationships
	User        User         `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Box         Box          `gorm:"foreignKey:BoxID;references:ID" json:"box,omitempty"`
	Payments    []Payment    `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
	CancelOrder *CancelOrder `gorm:"foreignKey:OrderID" json:"cancelOrder,omitempty"`
}

// TableName specifies the table name for Order model
func (Order) TableName() string {
	return "Order"
}

// Payment model — created atomically with its Order
type Payment struct {
	ID            int           `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	OrderID       int           `gorm:"not null;column:orderId" json:"orderId"`
	Amount        float64       `gorm:"not null;column:amount" json:"amount"`
	Status        PaymentStatus `gorm:"type:text;not null;column:status" json:"status"`
	Method        PaymentMethod `gorm:"type:text;not null;column:method" json:"method"`
	TransactionID string        `gorm:"not null;column:transactionId" json:"transactionId"`
	CreatedAt     time.Time     `gorm:"autoCreateTime;column:createdAt" json:"createdAt"`

	// Relationships
	Order Order `gorm:"foreignKey:OrderID;references:ID" json:"order,omitempty"`
}

// TableName specifies the table name for Payment model
func (Payment) TableName() string {
	return "Payment"
}

// CancelOrder model — records a cancellation request and its approval state
type CancelOrder struct {
	ID         int        `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	OrderID    int        `gorm:"unique;not null;column:orderId" json:"orderId"`
	UserID     int        `gorm:"not null;column:userId" json:"userId"`
	Reason     *string    `gorm:"column:reason" json:"reason"`
	IsApproved bool       `gorm:"default:false;column:isApproved" json:"isApproved"`
	AdminID    *int       `gorm:"column:adminId" json:"adminId"`
	ApprovedAt *time.Time `gorm:"column:approvedAt" json:"approvedAt"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;column:createdAt" json:"createdAt"`

	// Relationships
	Order Order `gorm:"foreignKey:OrderID;references:ID" json:"order,omitempty"`
}

// TableName specifies the table name for CancelOrder model
func (CancelOrder) TableName() string {
	return "CancelOrder"
}

// InventoryCommand model — append-only audit log of stock mutations.
// Never read back to reconstruct state; stock lives on Box.quantity.
type InventoryCommand struct {
	ID               int                  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	BoxID            int                  `gorm:"not null;column:boxId" json:"boxId"`
	Type             InventoryCommandType `gorm:"type:text;not null;column:type" json:"type"`
	Quantity         int                  `gorm:"not null;column:quantity" json:"quantity"`
	PreviousQuantity int                  `gorm:"not null;column:previousQuantity" json:"previousQuantity"`
	CreatedAt        time.Time            `gorm:"autoCreateTime;column:createdAt" json:"createdAt"`

	// Relationships
	Box Box `gorm:"foreignKey:BoxID;references:ID" json:"box,omitempty"`
}

// TableName specifies the table name for InventoryCommand model
func (InventoryCommand) TableName() string {
	return "InventoryCommand"
}

// UserDeviceToken model — FCM device registration
type UserDeviceToken struct {
	ID        int       `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID    int       `gorm:"not null;column:userId" json:"userId"`
	Token     string    `gorm:"unique;not null;column:token" json:"token"`
	Platform  *string   `gorm:"column:platform" json:"platform"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:createdAt" json:"createdAt"`

	// Relationships
	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// TableName specifies the table name for UserDeviceToken model
func (UserDeviceToken) TableName() string {
	return "UserDeviceToken"
}
