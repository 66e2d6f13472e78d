package events

import (
	"context"
	"os"
	"testing"

	"github.com/ayushbhandari/campus-events/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// setupTestRepo dials a local Mongo and hands back a repository over a
// dropped-clean test database. Tests are skipped when no server is
// reachable.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()

	uri := os.Getenv("CAMPUS_EVENTS_MONGO_URI")
	if uri == "" {
		uri = "mongodb://127.0.0.1:27017"
	}

	ctx := context.Background()
	client, err := db.OpenMongo(ctx, uri)
	if err != nil {
		t.Skipf("mongo unavailable at %s: %v", uri, err)
	}
	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
	})

	dbm := client.Database("campus_events_test")
	for _, col := range []string{"users", "events", "registrations"} {
		require.NoError(t, dbm.Collection(col).Drop(ctx), "drop %s", col)
	}
	return NewRepository(dbm)
}

func TestSeedEventsIdempotent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SeedEvents(ctx))
	require.NoError(t, repo.SeedEvents(ctx))

	list, err := repo.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, list, len(SeedCatalog))

	byName := make(map[string]Event, len(list))
	for _, e := range list {
		assert.False(t, e.ID.IsZero(), "event %q has no id", e.Name)
		byName[e.Name] = e
	}
	for _, want := range SeedCatalog {
		got, ok := byName[want.Name]
		require.True(t, ok, "seeded event %q missing", want.Name)
		assert.Equal(t, want.Category, got.Category)
	}
}

func TestCreateUserConflicts(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	u, err := repo.CreateUser(ctx, "alice", "a@x.com", "555", "pw")
	require.NoError(t, err)
	require.False(t, u.ID.IsZero())

	stored, err := repo.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "alice", stored.Username)
	assert.Equal(t, "a@x.com", stored.Email)
	assert.Equal(t, "555", stored.Phone)
	// Stored verbatim, no hashing.
	assert.Equal(t, "pw", stored.Password)
	assert.False(t, stored.CreatedAt.IsZero())

	_, err = repo.CreateUser(ctx, "alice", "other@x.com", "", "")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = repo.CreateUser(ctx, "bob", "a@x.com", "", "")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = repo.CreateUser(ctx, "bob", "b@x.com", "", "")
	assert.NoError(t, err)
}

func TestCreateRegistrationDuplicate(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	userID := primitive.NewObjectID().Hex()
	eventID := primitive.NewObjectID().Hex()

	reg, err := repo.CreateRegistration(ctx, userID, eventID)
	require.NoError(t, err)
	assert.False(t, reg.ID.IsZero())
	assert.Equal(t, userID, reg.User)
	assert.Equal(t, eventID, reg.Event)

	_, err = repo.CreateRegistration(ctx, userID, eventID)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	// Same user, different event is fine.
	_, err = repo.CreateRegistration(ctx, userID, primitive.NewObjectID().Hex())
	assert.NoError(t, err)
}

func TestCreateRegistrationSkipsReferentialChecks(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	// Neither id exists anywhere, yet the registration is recorded.
	reg, err := repo.CreateRegistration(ctx, primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.False(t, reg.ID.IsZero())
}

func TestListUserRegistrationsEnrichment(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SeedEvents(ctx))
	list, err := repo.ListEvents(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, list)

	userID := primitive.NewObjectID().Hex()
	for _, e := range list[:2] {
		_, err := repo.CreateRegistration(ctx, userID, e.ID.Hex())
		require.NoError(t, err)
	}

	regs, err := repo.ListUserRegistrations(ctx, userID)
	require.NoError(t, err)
	require.Len(t, regs, 2)
	for i, reg := range regs {
		assert.Equal(t, userID, reg.User)
		assert.Equal(t, list[i].Name, reg.Event.Name)
		assert.Equal(t, list[i].Category, reg.Event.Category)
		assert.False(t, reg.RegisteredAt.IsZero())
	}

	other, err := repo.ListUserRegistrations(ctx, primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestListUserRegistrationsDanglingEvent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	userID := primitive.NewObjectID().Hex()

	// Well-formed id that resolves to nothing.
	_, err := repo.CreateRegistration(ctx, userID, primitive.NewObjectID().Hex())
	require.NoError(t, err)

	_, err = repo.ListUserRegistrations(ctx, userID)
	assert.Error(t, err)
}

func TestListUserRegistrationsMalformedEvent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	userID := primitive.NewObjectID().Hex()

	_, err := repo.CreateRegistration(ctx, userID, "not-an-object-id")
	require.NoError(t, err)

	_, err = repo.ListUserRegistrations(ctx, userID)
	assert.Error(t, err)
}
