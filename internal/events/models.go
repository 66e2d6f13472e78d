package events

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CategoryTech     = "Tech"
	CategoryCultural = "Cultural"
	CategorySports   = "Sports"
	CategoryOther    = "Other"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username" json:"username"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	Password  string             `bson:"password" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Event struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Category string             `bson:"category" json:"category"`
}

// Registration references the user and event by plain string id, not by
// ObjectID: the ids arrive from the client as strings and are stored
// verbatim, without being resolved against the other collections.
type Registration struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User         string             `bson:"user" json:"user"`
	Event        string             `bson:"event" json:"event"`
	RegisteredAt time.Time          `bson:"registeredAt" json:"registeredAt"`
}

// EventSummary is the slice of an event embedded into a user's
// registration listing.
type EventSummary struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// UserRegistration is a registration enriched with the event it points to.
type UserRegistration struct {
	ID           primitive.ObjectID
	User         string
	Event        EventSummary
	RegisteredAt time.Time
}

// SeedCatalog is the fixed set of events upserted at startup, keyed on
// name so reseeding never duplicates an entry.
var SeedCatalog = []Event{
	{Name: "Hackathon", Category: CategoryTech},
	{Name: "Coding Contest", Category: CategoryTech},
	{Name: "AI Workshop", Category: CategoryTech},
	{Name: "Dance", Category: CategoryCultural},
	{Name: "Music", Category: CategoryCultural},
	{Name: "Drama", Category: CategoryCultural},
	{Name: "Football", Category: CategorySports},
	{Name: "Cricket", Category: CategorySports},
	{Name: "Basketball", Category: CategorySports},
	{Name: "Photography", Category: CategoryOther},
	{Name: "Quiz", Category: CategoryOther},
	{Name: "Debate", Category: CategoryOther},
}
