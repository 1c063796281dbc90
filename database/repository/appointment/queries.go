package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"carelink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActiveSlotTimes returns the start instants (as Unix seconds) of all active
// appointments for the provider inside [from, to). The expansion engine uses
// this to annotate bookable slots.
func (repo *MongoAppointmentRepo) ActiveSlotTimes(ctx context.Context, providerID string, from, to time.Time) (map[int64]bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"provider_id": providerID,
		"active":      true,
		"datetime":    bson.M{"$gte": from, "$lt": to},
	}
	opts := options.Find().SetProjection(bson.M{"datetime": 1})

	cur, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query active slots: %w", err)
	}
	defer cur.Close(ctx)

	taken := make(map[int64]bool)
	for cur.Next(ctx) {
		var doc struct {
			Datetime time.Time `bson:"datetime"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode active slot: %w", err)
		}
		taken[doc.Datetime.Unix()] = true
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("active slot cursor failed: %w", err)
	}
	return taken, nil
}

// List returns one page of the actor's appointments plus the total match
// count. Results are ordered by datetime then id so page concatenation is
// stable.
func (repo *MongoAppointmentRepo) List(
	ctx context.Context,
	actorID string,
	role models.ActorRole,
	f models.AppointmentFilter,
	now time.Time,
) ([]models.Appointment, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if role == models.RoleProvider {
		filter["provider_id"] = actorID
	} else {
		filter["client_id"] = actorID
	}

	if f.Status != "" && f.Status != "all" {
		filter["status"] = f.Status
	}

	dt := bson.M{}
	switch f.Timeframe {
	case models.TimeframeUpcoming:
		dt["$gte"] = now
	case models.TimeframePast:
		dt["$lt"] = now
	}
	if !f.StartDate.IsZero() {
		if cur, ok := dt["$gte"].(time.Time); !ok || f.StartDate.After(cur) {
			dt["$gte"] = f.StartDate
		}
	}
	if !f.EndDate.IsZero() {
		dt["$lte"] = f.EndDate
	}
	if len(dt) > 0 {
		filter["datetime"] = dt
	}

	total, err := repo.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "datetime", Value: 1}, {Key: "id", Value: 1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer cur.Close(ctx)

	appointments := []models.Appointment{}
	for cur.Next(ctx) {
		var doc appointmentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("failed to decode appointment: %w", err)
		}
		appointments = append(appointments, doc.Appointment)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("appointment cursor failed: %w", err)
	}

	return appointments, int(total), nil
}
