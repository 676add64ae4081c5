package userstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	paymentstore "github.com/getmeachai/getmeachai/internal/app/store/payments"
	userstore "github.com/getmeachai/getmeachai/internal/app/store/users"
	"github.com/getmeachai/getmeachai/internal/app/system/indexes"
	"github.com/getmeachai/getmeachai/internal/domain/models"
	"github.com/getmeachai/getmeachai/internal/testutil"
)

func setupStore(t *testing.T) (*userstore.Store, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	return userstore.New(db), db
}

func TestStore_Create(t *testing.T) {
	store, _ := setupStore(t)
	ctx := testutil.TestContext(t)

	created, err := store.Create(ctx, models.User{
		Name:  "Alice",
		Email: "Alice@Example.com",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Email != "alice@example.com" {
		t.Errorf("email not normalized: %q", created.Email)
	}
	if created.NameCI == "" {
		t.Error("expected NameCI to be set")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	store, _ := setupStore(t)
	ctx := testutil.TestContext(t)

	if _, err := store.Create(ctx, models.User{Name: "alice", Email: "a@example.com"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.User{Name: "alice2", Email: "a@example.com"})
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("got %v, want ErrDuplicateEmail", err)
	}
}

func TestStore_GetByName(t *testing.T) {
	store, db := setupStore(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	fx.CreateCreator(ctx, "alice", "alice@example.com")

	user, err := store.GetByName(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email: got %q", user.Email)
	}

	if _, err := store.GetByName(ctx, "nobody"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("missing user: got %v, want ErrNotFound", err)
	}
}

func TestStore_NameExists_CaseInsensitive(t *testing.T) {
	store, db := setupStore(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	fx.CreateCreator(ctx, "Alice", "alice@example.com")

	taken, err := store.NameExists(ctx, "ALICE")
	if err != nil {
		t.Fatalf("NameExists failed: %v", err)
	}
	if !taken {
		t.Error("expected case-insensitive match")
	}
}

func TestStore_UpdateProfile_RenameCascades(t *testing.T) {
	store, db := setupStore(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	user := fx.CreateCreator(ctx, "alice", "alice@example.com")
	fx.CreatePayment(ctx, "pi_1", "alice", "Ava", "hi", 100)
	fx.CreatePayment(ctx, "pi_2", "alice", "Ben", "yo", 200)

	err := store.UpdateProfile(ctx, userstore.ProfileUpdate{
		Name:  "alicia",
		Email: "alice@example.com",
	}, "alice")
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	got, err := store.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "alicia" {
		t.Errorf("name: got %q, want alicia", got.Name)
	}

	// Every historical payment follows the new handle.
	payStore := paymentstore.New(db)
	count, err := payStore.CountByRecipient(ctx, "alicia")
	if err != nil {
		t.Fatalf("CountByRecipient: %v", err)
	}
	if count != 2 {
		t.Errorf("payments under new handle: got %d, want 2", count)
	}
	count, err = payStore.CountByRecipient(ctx, "alice")
	if err != nil {
		t.Fatalf("CountByRecipient: %v", err)
	}
	if count != 0 {
		t.Errorf("payments under old handle: got %d, want 0", count)
	}
}

func TestStore_UpdateProfile_ConflictWritesNothing(t *testing.T) {
	store, db := setupStore(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	fx.CreateCreator(ctx, "bob", "bob@example.com")
	user := fx.CreateCreator(ctx, "alice", "alice@example.com")
	fx.CreatePayment(ctx, "pi_1", "alice", "Ava", "hi", 100)

	err := store.UpdateProfile(ctx, userstore.ProfileUpdate{
		Name:  "bob",
		Email: "alice@example.com",
	}, "alice")
	if !errors.Is(err, userstore.ErrUsernameTaken) {
		t.Fatalf("got %v, want ErrUsernameTaken", err)
	}

	got, err := store.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "alice" {
		t.Errorf("name changed on conflict: %q", got.Name)
	}
	count, err := paymentstore.New(db).CountByRecipient(ctx, "alice")
	if err != nil {
		t.Fatalf("CountByRecipient: %v", err)
	}
	if count != 1 {
		t.Errorf("ledger changed on conflict: %d payments under alice", count)
	}
}

func TestStore_UpdateProfile_CaseInsensitiveConflict(t *testing.T) {
	store, db := setupStore(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	fx.CreateCreator(ctx, "Bob", "bob@example.com")
	fx.CreateCreator(ctx, "alice", "alice@example.com")

	err := store.UpdateProfile(ctx, userstore.ProfileUpdate{
		Name:  "BOB",
		Email: "alice@example.com",
	}, "alice")
	if !errors.Is(err, userstore.ErrUsernameTaken) {
		t.Errorf("got %v, want ErrUsernameTaken", err)
	}
}

func TestStore_UpdateProfile_SameNameIsNotARename(t *testing.T) {
	store, db := setupStore(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	fx.CreateCreator(ctx, "alice", "alice@example.com")

	// Keeping the current handle must not trip the availability check
	// against the creator's own record.
	err := store.UpdateProfile(ctx, userstore.ProfileUpdate{
		Name:       "alice",
		Email:      "alice@example.com",
		ProfilePic: "https://img.example.com/new.png",
	}, "alice")
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	got, err := store.GetByName(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if got.ProfilePic != "https://img.example.com/new.png" {
		t.Errorf("profile pic not updated: %q", got.ProfilePic)
	}
}

func TestStore_UpdateProfile_UnknownEmail(t *testing.T) {
	store, _ := setupStore(t)
	ctx := testutil.TestContext(t)

	err := store.UpdateProfile(ctx, userstore.ProfileUpdate{
		Name:  "ghost",
		Email: "ghost@example.com",
	}, "ghost")
	if !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
