package availabilityRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carelink/database"
	"carelink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAvailabilityRepo stores one weekly template document per provider.
type MongoAvailabilityRepo struct {
	coll *mongo.Collection
}

func NewMongoAvailabilityRepo() *MongoAvailabilityRepo {
	return &MongoAvailabilityRepo{coll: database.DB().Collection("availability")}
}

// availabilityDoc flattens the weekday map into string keys; bson map keys
// must be strings.
type availabilityDoc struct {
	ProviderID string                               `bson:"provider_id"`
	Days       map[string][]models.TimeSlotTemplate `bson:"days"`
	UpdatedAt  time.Time                            `bson:"updated_at"`
}

func toDoc(a *models.WeeklyAvailability) availabilityDoc {
	days := make(map[string][]models.TimeSlotTemplate, len(a.Days))
	for day, slots := range a.Days {
		days[fmt.Sprintf("%d", int(day))] = slots
	}
	return availabilityDoc{ProviderID: a.ProviderID, Days: days, UpdatedAt: a.UpdatedAt}
}

func fromDoc(doc availabilityDoc) (*models.WeeklyAvailability, error) {
	days := make(map[time.Weekday][]models.TimeSlotTemplate, len(doc.Days))
	for key, slots := range doc.Days {
		var d int
		if _, err := fmt.Sscanf(key, "%d", &d); err != nil || d < 0 || d > 6 {
			return nil, fmt.Errorf("invalid weekday key %q in availability document", key)
		}
		days[time.Weekday(d)] = slots
	}
	return &models.WeeklyAvailability{
		ProviderID: doc.ProviderID,
		Days:       days,
		UpdatedAt:  doc.UpdatedAt,
	}, nil
}

func (repo *MongoAvailabilityRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "provider_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_provider"),
	})
	if err != nil {
		return fmt.Errorf("failed to create availability indexes: %w", err)
	}
	return nil
}

func (repo *MongoAvailabilityRepo) Get(ctx context.Context, providerID string) (*models.WeeklyAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc availabilityDoc
	err := repo.coll.FindOne(ctx, bson.M{"provider_id": providerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch availability for %s: %w", providerID, err)
	}
	return fromDoc(doc)
}

func (repo *MongoAvailabilityRepo) Set(ctx context.Context, availability *models.WeeklyAvailability) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	availability.UpdatedAt = time.Now().UTC()
	doc := toDoc(availability)

	opts := options.Replace().SetUpsert(true)
	if _, err := repo.coll.ReplaceOne(ctx, bson.M{"provider_id": availability.ProviderID}, doc, opts); err != nil {
		return fmt.Errorf("failed to store availability for %s: %w", availability.ProviderID, err)
	}
	return nil
}
