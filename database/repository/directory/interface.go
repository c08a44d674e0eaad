// File: database/repository/directory/interface.go
package directoryRepo

import (
	"context"

	"fitstudio/database"
	"fitstudio/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// DirectoryRepository exposes the coach directory and the client preference
// store, both read-only from the scheduler's point of view.
type DirectoryRepository interface {
	// GetCoach fetches a coach directory entry. A missing coach is an error;
	// a coach without shift hours is not (the scheduler offers no slots).
	GetCoach(ctx context.Context, coachID string) (*models.Coach, error)

	// GetPreference fetches the client's stored time preference. A missing
	// record returns (nil, nil); callers fall back to system defaults.
	GetPreference(ctx context.Context, clientID string) (*models.ClientPreference, error)
}

type mongoDirectoryRepo struct {
	coachColl *mongo.Collection
	prefColl  *mongo.Collection
}

// NewMongoDirectoryRepo constructs a new MongoDB DirectoryRepository.
func NewMongoDirectoryRepo() DirectoryRepository {
	db := database.MongoClient.Database("fitstudio")
	return &mongoDirectoryRepo{
		coachColl: db.Collection("coaches"),
		prefColl:  db.Collection("client_preferences"),
	}
}
