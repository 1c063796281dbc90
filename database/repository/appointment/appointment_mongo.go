package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carelink/database"
	"carelink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoAppointmentRepo is the MongoDB-backed system of record for
// appointments. Documents carry a denormalized "active" flag (true for
// pending/confirmed) so the exclusive-booking index stays a partial index on
// a plain equality predicate.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo returns a repo bound to the "appointments"
// collection of the configured database.
func NewMongoAppointmentRepo() *MongoAppointmentRepo {
	return &MongoAppointmentRepo{coll: database.DB().Collection("appointments")}
}

// appointmentDoc wraps the model with the active flag used by the partial
// unique index and the hot query paths.
type appointmentDoc struct {
	models.Appointment `bson:",inline"`
	Active             bool `bson:"active"`
}

func (repo *MongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc appointmentDoc
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch appointment %s: %w", id, err)
	}
	return &doc.Appointment, nil
}
