// package models defines the data model for the watchlist
package models

import "context"

// Model defines the base interface for all persistent models.
type Model interface {
	Key() int64      // Key returns the identity assigned by the store, 0 before creation
	Validate() error // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(ctx context.Context, model T) error    // Create inserts a new model and assigns its identity
	Get(ctx context.Context, id int64) (T, error) // Get retrieves a model by its ID
	Update(ctx context.Context, model T) error    // Update modifies an existing model in the database
	Delete(ctx context.Context, id int64) error   // Delete removes a model from the database by its ID
	List(ctx context.Context) ([]T, error)        // List retrieves all models in insertion order
}
