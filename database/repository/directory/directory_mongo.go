package directoryRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitstudio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (repo *mongoDirectoryRepo) GetCoach(ctx context.Context, coachID string) (*models.Coach, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var coach models.Coach
	filter := bson.M{"id": coachID}
	if err := repo.coachColl.FindOne(ctx, filter).Decode(&coach); err != nil {
		return nil, fmt.Errorf("error fetching coach with id %s: %w", coachID, err)
	}
	return &coach, nil
}

func (repo *mongoDirectoryRepo) GetPreference(ctx context.Context, clientID string) (*models.ClientPreference, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var pref models.ClientPreference
	filter := bson.M{"client_id": clientID}
	err := repo.prefColl.FindOne(ctx, filter).Decode(&pref)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching preference for client %s: %w", clientID, err)
	}
	return &pref, nil
}
