package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrObjectNotFound = errors.New("not found")
	ErrInvalidID      = errors.New("invalid identifier")
	ErrDuplicate      = errors.New("already exists")
	ErrForeignKey     = errors.New("referenced row does not exist")
)

// DefaultExecutorsLimit is the fixed size of the executors listing.
const DefaultExecutorsLimit = 12

const (
	RoleCustomer = "customer"
	RoleExecutor = "executor"

	OrderStatusPending = "pending"
	OfferStatusSent    = "sent"
)

type User struct {
	ID         int64      `db:"id"`
	TelegramID int64      `db:"telegram_id"`
	Name       *string    `db:"name"`
	Role       string     `db:"role"`
	CreatedAt  *time.Time `db:"created_at"`
	BirthDay   *time.Time `db:"birth_day"`
}

// Order references its customer and accepted executor by telegram id.
type Order struct {
	ID                 int64      `db:"id"`
	Description        string     `db:"description"`
	Urgency            string     `db:"urgency"`
	Status             string     `db:"status"`
	GroupMessageID     int64      `db:"group_message_id"`
	AcceptedPrice      *int       `db:"accepted_price"`
	CreatedAt          *time.Time `db:"created_at"`
	AcceptedExecutorID *int64     `db:"accepted_executor_id"`
	CustomerID         int64      `db:"customer_id"`
}

type Offer struct {
	ID                int64      `db:"id"`
	Price             int        `db:"price"`
	Comment           string     `db:"comment"`
	CreatedAt         *time.Time `db:"created_at"`
	Status            string     `db:"status"`
	CustomerMessageID int64      `db:"customer_message_id"`
	ExecutorID        int64      `db:"executor_id"`
	OrderID           int64      `db:"order_id"`
}

type Executor struct {
	ID              uuid.UUID  `db:"id"`
	UserID          int64      `db:"user_id"`
	Name            string     `db:"name"`
	Age             int        `db:"age"`
	Rating          float64    `db:"rating"`
	Description     *string    `db:"description"`
	ImageURL        *string    `db:"image_url"`
	Price           *int       `db:"price"`
	Experience      *int       `db:"experience"`
	CompletedOrders *int       `db:"completed_orders"`
	CreatedAt       *time.Time `db:"created_at"`
	Works           *string    `db:"works"`
}

type Feedback struct {
	ID         int64     `db:"id"`
	Star       *int      `db:"star"`
	Text       *string   `db:"text"`
	ExecutorID uuid.UUID `db:"executor_id"`
	CustomerID int64     `db:"customer_id"`
	OrderID    *int64    `db:"order_id"`
}
