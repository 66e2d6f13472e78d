package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrUserExists        = errors.New("username or email already exists")
	ErrAlreadyRegistered = errors.New("user already registered for event")
)

type Repository struct {
	usersCol         *mongo.Collection
	eventsCol        *mongo.Collection
	registrationsCol *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		usersCol:         db.Collection("users"),
		eventsCol:        db.Collection("events"),
		registrationsCol: db.Collection("registrations"),
	}
}

// SeedEvents upserts the fixed catalog, keyed on name. Safe to run on
// every startup; an already seeded catalog is rewritten in place.
func (r *Repository) SeedEvents(ctx context.Context) error {
	for _, e := range SeedCatalog {
		update := bson.M{"$set": bson.M{"name": e.Name, "category": e.Category}}
		opts := options.Update().SetUpsert(true)
		if _, err := r.eventsCol.UpdateOne(ctx, bson.M{"name": e.Name}, update, opts); err != nil {
			return fmt.Errorf("seed event %q: %w", e.Name, err)
		}
	}
	return nil
}

// CreateUser inserts a new user after checking that neither the username
// nor the email is taken. The check and the insert are separate
// operations; there is no unique index backing them, so two concurrent
// identical calls can both pass the check.
func (r *Repository) CreateUser(ctx context.Context, username, email, phone, password string) (*User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}}
	err := r.usersCol.FindOne(ctx, filter).Err()
	switch {
	case err == nil:
		return nil, ErrUserExists
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	u := &User{
		Username:  username,
		Email:     email,
		Phone:     phone,
		Password:  password,
		CreatedAt: time.Now().UTC(),
	}
	res, err := r.usersCol.InsertOne(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return u, nil
}

// GetUser returns the user with the given id, or nil if none exists.
func (r *Repository) GetUser(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var u User
	if err := r.usersCol.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// ListEvents returns every event in store-native order.
func (r *Repository) ListEvents(ctx context.Context) ([]Event, error) {
	cur, err := r.eventsCol.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cur.Close(ctx)

	var result []Event
	for cur.Next(ctx) {
		var e Event
		if err := cur.Decode(&e); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		result = append(result, e)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list events cursor: %w", err)
	}
	return result, nil
}

// CreateRegistration records that userID signed up for eventID. Both ids
// are opaque strings; neither is checked against the users or events
// collections. Duplicate prevention is the same check-then-insert as
// CreateUser, with the same race window.
func (r *Repository) CreateRegistration(ctx context.Context, userID, eventID string) (*Registration, error) {
	filter := bson.M{"user": userID, "event": eventID}
	err := r.registrationsCol.FindOne(ctx, filter).Err()
	switch {
	case err == nil:
		return nil, ErrAlreadyRegistered
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, fmt.Errorf("check existing registration: %w", err)
	}

	reg := &Registration{
		User:         userID,
		Event:        eventID,
		RegisteredAt: time.Now().UTC(),
	}
	res, err := r.registrationsCol.InsertOne(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}
	reg.ID = res.InsertedID.(primitive.ObjectID)
	return reg, nil
}

// ListUserRegistrations returns every registration for userID, each
// enriched with the name and category of the event it references. The
// event lookup parses the stored string id; a malformed or dangling
// reference fails the whole listing.
func (r *Repository) ListUserRegistrations(ctx context.Context, userID string) ([]UserRegistration, error) {
	cur, err := r.registrationsCol.Find(ctx, bson.M{"user": userID})
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer cur.Close(ctx)

	var result []UserRegistration
	for cur.Next(ctx) {
		var reg Registration
		if err := cur.Decode(&reg); err != nil {
			return nil, fmt.Errorf("decode registration: %w", err)
		}

		eventID, err := primitive.ObjectIDFromHex(reg.Event)
		if err != nil {
			return nil, fmt.Errorf("parse event id %q: %w", reg.Event, err)
		}
		var ev Event
		if err := r.eventsCol.FindOne(ctx, bson.M{"_id": eventID}).Decode(&ev); err != nil {
			return nil, fmt.Errorf("resolve event %s: %w", reg.Event, err)
		}

		result = append(result, UserRegistration{
			ID:           reg.ID,
			User:         reg.User,
			Event:        EventSummary{Name: ev.Name, Category: ev.Category},
			RegisteredAt: reg.RegisteredAt,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list registrations cursor: %w", err)
	}
	return result, nil
}
