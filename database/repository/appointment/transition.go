package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carelink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TransitionStatus performs a compare-and-set on the appointment status:
// the update is filtered on the expected current status, so a concurrent
// transition loses cleanly instead of overwriting. The active flag is kept
// in sync so terminal transitions release the slot for the partial index.
func (repo *MongoAppointmentRepo) TransitionStatus(
	ctx context.Context,
	id string,
	from, to models.AppointmentStatus,
	update StatusUpdate,
) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{
		"status":     to,
		"active":     !to.Terminal(),
		"updated_at": time.Now().UTC(),
	}
	if update.CancellationReason != "" {
		set["cancellation_reason"] = update.CancellationReason
	}
	if update.MeetingLink != "" {
		set["meeting_link"] = update.MeetingLink
	}

	filter := bson.M{"id": id, "status": from}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc appointmentDoc
	err := repo.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if err == nil {
		return &doc.Appointment, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to transition appointment %s: %w", id, err)
	}

	// No match: either the appointment is gone or another transition won.
	count, countErr := repo.coll.CountDocuments(ctx, bson.M{"id": id})
	if countErr != nil {
		return nil, fmt.Errorf("failed to check appointment %s: %w", id, countErr)
	}
	if count == 0 {
		return nil, ErrNotFound
	}
	return nil, ErrStatusChanged
}
