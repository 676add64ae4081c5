package dashboard_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/getmeachai/getmeachai/internal/app/features/dashboard"
	uierrors "github.com/getmeachai/getmeachai/internal/app/features/errors"
	paymentstore "github.com/getmeachai/getmeachai/internal/app/store/payments"
	userstore "github.com/getmeachai/getmeachai/internal/app/store/users"
	"github.com/getmeachai/getmeachai/internal/app/system/secrets"
	"github.com/getmeachai/getmeachai/internal/domain/models"
	"github.com/getmeachai/getmeachai/internal/testutil"
)

const testSealingKey = "test-sealing-key-0123456789abcdef"

func newTestHandler(t *testing.T) (*dashboard.Handler, *testutil.Fixtures, *secrets.Sealer) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sealer, err := secrets.NewSealer(testSealingKey)
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	h := dashboard.NewHandler(db, sealer, uierrors.NewErrorLogger(logger), logger)
	return h, testutil.NewFixtures(t, db), sealer
}

func updateRequest(user models.User, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", "/dashboard", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return testutil.WithUser(req, testutil.TestUser{
		ID:    user.ID.Hex(),
		Name:  user.Name,
		Email: user.Email,
	})
}

func TestHandleUpdate_SavesProfile(t *testing.T) {
	h, fx, sealer := newTestHandler(t)
	ctx := testutil.TestContext(t)
	user := fx.CreateCreator(ctx, "alice", "alice@example.com")

	form := url.Values{
		"name":            {"alice"},
		"email":           {"alice@example.com"},
		"profilepic":      {"https://img.example.com/alice.png"},
		"coverpic":        {"https://img.example.com/alice-cover.png"},
		"publishable_key": {"pk_test_alice"},
		"secret_key":      {"sk_test_alice"},
	}

	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, updateRequest(user, form))

	rec.AssertRedirect(t, "/dashboard?success=1")

	got, err := userstore.New(fx.DB()).GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.StripePublishableKey != "pk_test_alice" {
		t.Errorf("publishable key: got %q", got.StripePublishableKey)
	}
	if got.StripeSecretKey == "" || got.StripeSecretKey == "sk_test_alice" {
		t.Errorf("secret key should be stored sealed, got %q", got.StripeSecretKey)
	}
	if plain, err := sealer.Open(got.StripeSecretKey); err != nil || plain != "sk_test_alice" {
		t.Errorf("unsealed secret key: got %q, %v", plain, err)
	}
}

func TestHandleUpdate_BlankSecretKeyKeepsStored(t *testing.T) {
	h, fx, sealer := newTestHandler(t)
	ctx := testutil.TestContext(t)

	sealed, _ := sealer.Seal("sk_test_keep")
	user := fx.CreateConfiguredCreator(ctx, "alice", "alice@example.com", sealed, "pk_test_alice")

	form := url.Values{
		"name":       {"alice"},
		"email":      {"alice@example.com"},
		"secret_key": {""},
	}

	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, updateRequest(user, form))

	rec.AssertRedirect(t, "/dashboard?success=1")

	got, err := userstore.New(fx.DB()).GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.StripeSecretKey != sealed {
		t.Error("blank secret key field should keep the stored sealed value")
	}
}

func TestHandleUpdate_RenameRewritesLedger(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx := testutil.TestContext(t)
	user := fx.CreateCreator(ctx, "alice", "alice@example.com")
	fx.CreatePayment(ctx, "pi_1", "alice", "Ava", "keep going", 100)
	fx.CreatePayment(ctx, "pi_2", "alice", "Ben", "nice work", 250)

	form := url.Values{
		"name":  {"alicia"},
		"email": {"alice@example.com"},
	}

	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, updateRequest(user, form))

	rec.AssertRedirect(t, "/dashboard?success=1")

	payStore := paymentstore.New(fx.DB())
	moved, err := payStore.ListByRecipient(ctx, "alicia")
	if err != nil {
		t.Fatalf("ListByRecipient: %v", err)
	}
	if len(moved) != 2 {
		t.Fatalf("payments under new name: got %d, want 2", len(moved))
	}
	left, err := payStore.ListByRecipient(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByRecipient: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("payments left under old name: got %d, want 0", len(left))
	}
}

func TestHandleUpdate_RenameConflictLeavesStateUnchanged(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx := testutil.TestContext(t)
	fx.CreateCreator(ctx, "bob", "bob@example.com")
	user := fx.CreateCreator(ctx, "alice", "alice@example.com")
	fx.CreatePayment(ctx, "pi_1", "alice", "Ava", "keep going", 100)

	form := url.Values{
		"name":  {"bob"},
		"email": {"alice@example.com"},
	}

	rec := testutil.NewRecorder()
	func() {
		defer func() { _ = recover() }() // template render may panic without booted templates
		h.HandleUpdate(rec, updateRequest(user, form))
	}()

	got, err := userstore.New(fx.DB()).GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "alice" {
		t.Errorf("name changed on conflict: got %q", got.Name)
	}
	payments, err := paymentstore.New(fx.DB()).ListByRecipient(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByRecipient: %v", err)
	}
	if len(payments) != 1 {
		t.Errorf("ledger changed on conflict: got %d payments under alice", len(payments))
	}
}

func TestHandleUpdate_AnotherCreatorsEmailIsRejected(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx := testutil.TestContext(t)
	victim := fx.CreateCreator(ctx, "bob", "bob@example.com")
	user := fx.CreateCreator(ctx, "alice", "alice@example.com")

	// Alice submits Bob's email; the write must not touch Bob's document.
	form := url.Values{
		"name":       {"alice"},
		"email":      {"bob@example.com"},
		"profilepic": {"https://img.example.com/hijack.png"},
	}

	rec := testutil.NewRecorder()
	func() {
		defer func() { _ = recover() }() // template render may panic without booted templates
		h.HandleUpdate(rec, updateRequest(user, form))
	}()

	got, err := userstore.New(fx.DB()).GetByID(ctx, victim.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "bob" || got.Email != "bob@example.com" {
		t.Errorf("victim document changed: got name=%q email=%q", got.Name, got.Email)
	}
	if got.ProfilePic == "https://img.example.com/hijack.png" {
		t.Error("victim profile picture overwritten")
	}
}
