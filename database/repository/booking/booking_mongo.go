package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"fitstudio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var activeStatuses = bson.A{models.BookingStatusPending, models.BookingStatusConfirmed}

// OccupancyCounts aggregates active bookings per (date, hour) studio-wide.
func (repo *mongoBookingRepo) OccupancyCounts(ctx context.Context, dateFrom, dateTo string) (map[string]int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"date":   bson.M{"$gte": dateFrom, "$lte": dateTo},
			"status": bson.M{"$in": activeStatuses},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"date": "$date", "hour": "$hour"},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := repo.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating occupancy counts: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		ID struct {
			Date string `bson:"date"`
			Hour int    `bson:"hour"`
		} `bson:"_id"`
		Count int `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error decoding occupancy counts: %w", err)
	}

	counts := make(map[string]int, len(results))
	for _, r := range results {
		counts[models.CellKey(r.ID.Date, r.ID.Hour)] = r.Count
	}
	return counts, nil
}

// ActiveForClient fetches the client's pending/confirmed bookings in range.
func (repo *mongoBookingRepo) ActiveForClient(ctx context.Context, clientID, dateFrom, dateTo string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"client_id": clientID,
		"date":      bson.M{"$gte": dateFrom, "$lte": dateTo},
		"status":    bson.M{"$in": activeStatuses},
	}
	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings for client %s: %w", clientID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// InsertPendingIfBelowCapacity runs the count-then-insert inside one Mongo
// transaction so concurrent commits against the same studio-hour serialize
// instead of racing.
func (repo *mongoBookingRepo) InsertPendingIfBelowCapacity(ctx context.Context, booking *models.Booking, capacity int) error {
	client := repo.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{
			"date":   booking.Date,
			"hour":   booking.Hour,
			"status": bson.M{"$in": activeStatuses},
		}
		used, err := repo.coll.CountDocuments(sc, filter)
		if err != nil {
			return fmt.Errorf("capacity count failed: %w", err)
		}
		if used >= int64(capacity) {
			return ErrCapacityExceeded
		}
		if _, err := repo.coll.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}

	return nil
}

// CancelIfPending releases a pending booking's capacity.
func (repo *mongoBookingRepo) CancelIfPending(ctx context.Context, bookingID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bookingID, "status": models.BookingStatusPending}
	update := bson.M{"$set": bson.M{"status": models.BookingStatusCancelled}}
	res, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to cancel pending booking %s: %w", bookingID, err)
	}
	return res.ModifiedCount > 0, nil
}
