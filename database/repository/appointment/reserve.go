package appointmentRepo

import (
	"context"
	"fmt"

	"carelink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Reserve inserts the appointment after verifying inside a transaction that
// no active appointment occupies the same (provider, datetime). The partial
// unique index on (provider_id, datetime) backstops the check, so even a
// deployment without transaction support (standalone mongod) cannot admit a
// duplicate booking.
func (repo *MongoAppointmentRepo) Reserve(ctx context.Context, appt *models.Appointment) error {
	client := repo.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	doc := appointmentDoc{Appointment: *appt, Active: true}

	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{
			"provider_id": appt.ProviderID,
			"datetime":    appt.Datetime,
			"active":      true,
		}
		count, err := repo.coll.CountDocuments(sc, filter)
		if err != nil {
			return fmt.Errorf("conflict check failed: %w", err)
		}
		if count > 0 {
			return ErrSlotTaken
		}

		if _, err := repo.coll.InsertOne(sc, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrSlotTaken
			}
			return fmt.Errorf("insert appointment failed: %w", err)
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
