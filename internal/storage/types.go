package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/pupkingeorgij/artmarket/internal/repository"
)

// ExecutorOut is the public JSON shape of an executor profile. Unset optional
// fields are encoded as null.
type ExecutorOut struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Age             int        `json:"age"`
	Rating          float64    `json:"rating"`
	Description     *string    `json:"description"`
	ImageURL        *string    `json:"image_url"`
	Price           *int       `json:"price"`
	Experience      *int       `json:"experience"`
	CompletedOrders *int       `json:"completed_orders"`
	CreatedAt       *time.Time `json:"created_at"`
	Works           *string    `json:"works"`
}

type ExecutorsListOut struct {
	Executors []ExecutorOut `json:"executors"`
}

func NewExecutorOut(e *repository.Executor) *ExecutorOut {
	if e == nil {
		return nil
	}
	return &ExecutorOut{
		ID:              e.ID,
		Name:            e.Name,
		Age:             e.Age,
		Rating:          e.Rating,
		Description:     e.Description,
		ImageURL:        e.ImageURL,
		Price:           e.Price,
		Experience:      e.Experience,
		CompletedOrders: e.CompletedOrders,
		CreatedAt:       e.CreatedAt,
		Works:           e.Works,
	}
}

func NewExecutorsListOut(executors []*repository.Executor) *ExecutorsListOut {
	out := &ExecutorsListOut{Executors: make([]ExecutorOut, 0, len(executors))}
	for _, e := range executors {
		if e == nil {
			continue
		}
		out.Executors = append(out.Executors, *NewExecutorOut(e))
	}
	return out
}
