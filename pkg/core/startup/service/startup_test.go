package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/common/test/assert"

	apperr "startup-directory/pkg/common/errors"
	"startup-directory/pkg/core/startup/model"
	"startup-directory/pkg/testutil"
)

func ptr[T any](v T) *T { return &v }

func validInput(name string) Input {
	return Input{
		Name:          ptr(name),
		Tagline:       ptr("Rockets for everyone"),
		Industry:      ptr("tech"),
		Stage:         ptr("mvp"),
		FoundedDate:   ptr(time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)),
		BusinessModel: ptr("B2B"),
		FundingStatus: ptr("seedFunded"),
		FundingAmount: ptr(1000.0),
		RevenueModel:  ptr("Subscriptions and support"),
		YearsInOp:     ptr(3),
		CoverImage:    &model.Attachment{Data: []byte("png"), ContentType: "image/png", FileName: "cover.png"},
		PitchDeck:     &model.Attachment{Data: []byte("%PDF"), ContentType: "application/pdf", FileName: "deck.pdf"},
	}
}

func newStartupService(policy OwnershipPolicy) (*StartupService, *testutil.StartupStore) {
	store := testutil.NewStartupStore()
	return NewStartupService(store, policy), store
}

func TestCreateStampsCaller(t *testing.T) {
	svc, _ := newStartupService(PolicyLegacy)

	created, err := svc.Create(context.Background(), "owner-1", validInput("Acme"))
	assert.Nil(t, err)
	assert.DeepEqual(t, "owner-1", created.OwnerID)
	assert.Assert(t, created.ID != "")
	assert.DeepEqual(t, model.ContactMethods{"Email"}, created.PreferredContactMethod)
	assert.Assert(t, !created.NewsletterSubscription)
}

func TestCreateContactMethods(t *testing.T) {
	svc, _ := newStartupService(PolicyLegacy)
	in := validInput("Acme")
	in.PreferredContactMethod = ptr("Phone,Fax")

	created, err := svc.Create(context.Background(), "owner-1", in)
	assert.Nil(t, err)
	assert.DeepEqual(t, model.ContactMethods{"Phone", "Fax"}, created.PreferredContactMethod)
}

func TestCreateRejectsInvalidWithoutWriting(t *testing.T) {
	svc, store := newStartupService(PolicyLegacy)
	in := validInput("A")
	in.YearsInOp = ptr(10001)

	_, err := svc.Create(context.Background(), "owner-1", in)
	appErr, ok := apperr.As(err)
	assert.Assert(t, ok, err)
	assert.DeepEqual(t, apperr.KindValidation, appErr.Kind)
	assert.DeepEqual(t, 2, len(appErr.Violations))
	assert.DeepEqual(t, 0, store.Writes)
}

func TestCreateDuplicateName(t *testing.T) {
	svc, store := newStartupService(PolicyLegacy)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), "owner-1", validInput("Acme"))
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch appErr, _ := apperr.As(err); {
		case err == nil:
			successes++
		case appErr != nil && appErr.Kind == apperr.KindConflict:
			conflicts++
			assert.DeepEqual(t, []string{"name"}, appErr.Fields)
		}
	}
	assert.DeepEqual(t, 1, successes)
	assert.DeepEqual(t, 1, conflicts)
	assert.DeepEqual(t, 1, store.Len())
}

func TestUpdateKeepsOmittedFields(t *testing.T) {
	svc, _ := newStartupService(PolicyLegacy)
	created, err := svc.Create(context.Background(), "owner-1", validInput("Acme"))
	assert.Nil(t, err)

	updated, err := svc.Update(context.Background(), "owner-1", created.ID, Input{Tagline: ptr("new tagline text here")})
	assert.Nil(t, err)

	assert.DeepEqual(t, "new tagline text here", updated.Tagline)
	want := created
	want.Tagline = updated.Tagline
	want.UpdatedAt = updated.UpdatedAt
	assert.DeepEqual(t, want, updated)

	stored, _ := svc.Get(context.Background(), created.ID)
	assert.DeepEqual(t, "mvp", stored.Stage)
	assert.DeepEqual(t, "tech", stored.Industry)
	assert.DeepEqual(t, created.CoverImage, stored.CoverImage)
	assert.DeepEqual(t, created.PitchDeck, stored.PitchDeck)
}

func TestUpdateDistinguishesZeroFromAbsent(t *testing.T) {
	svc, _ := newStartupService(PolicyLegacy)
	in := validInput("Acme")
	in.NewsletterSubscription = ptr(true)
	created, _ := svc.Create(context.Background(), "owner-1", in)

	updated, err := svc.Update(context.Background(), "owner-1", created.ID, Input{
		FundingAmount:          ptr(0.0),
		YearsInOp:              ptr(0),
		NewsletterSubscription: ptr(false),
	})
	assert.Nil(t, err)
	assert.DeepEqual(t, 0.0, updated.FundingAmount)
	assert.DeepEqual(t, 0, updated.YearsInOp)
	assert.Assert(t, !updated.NewsletterSubscription)
}

func TestUpdateAttachmentsAndContacts(t *testing.T) {
	svc, _ := newStartupService(PolicyLegacy)
	in := validInput("Acme")
	in.PreferredContactMethod = ptr("Phone")
	created, _ := svc.Create(context.Background(), "owner-1", in)

	cover := model.Attachment{Data: []byte("jpeg"), ContentType: "image/jpeg", FileName: "new.jpg"}
	updated, err := svc.Update(context.Background(), "owner-1", created.ID, Input{
		CoverImage:             &cover,
		PreferredContactMethod: ptr(""),
	})
	assert.Nil(t, err)
	assert.DeepEqual(t, cover, updated.CoverImage)
	assert.DeepEqual(t, created.PitchDeck, updated.PitchDeck)
	assert.DeepEqual(t, model.ContactMethods{"Phone"}, updated.PreferredContactMethod)

	updated, err = svc.Update(context.Background(), "owner-1", created.ID, Input{PreferredContactMethod: ptr("Email,Fax")})
	assert.Nil(t, err)
	assert.DeepEqual(t, model.ContactMethods{"Email", "Fax"}, updated.PreferredContactMethod)
}

func TestUpdateInvalidLeavesRecord(t *testing.T) {
	svc, store := newStartupService(PolicyLegacy)
	created, _ := svc.Create(context.Background(), "owner-1", validInput("Acme"))
	writes := store.Writes

	_, err := svc.Update(context.Background(), "owner-1", created.ID, Input{Tagline: ptr("abc"), Stage: ptr("launched")})
	assert.Assert(t, errors.Is(err, apperr.ErrValidation), err)
	assert.DeepEqual(t, writes, store.Writes)

	stored, _ := svc.Get(context.Background(), created.ID)
	assert.DeepEqual(t, "mvp", stored.Stage)
}

func TestUpdateMissing(t *testing.T) {
	svc, _ := newStartupService(PolicyLegacy)
	_, err := svc.Update(context.Background(), "owner-1", "nope", Input{Tagline: ptr("whatever it is")})
	assert.Assert(t, errors.Is(err, apperr.ErrNotFound), err)
}

func TestUpdateRenameConflict(t *testing.T) {
	svc, _ := newStartupService(PolicyLegacy)
	svc.Create(context.Background(), "owner-1", validInput("Acme"))
	other, _ := svc.Create(context.Background(), "owner-1", validInput("Globex"))

	_, err := svc.Update(context.Background(), "owner-1", other.ID, Input{Name: ptr("Acme")})
	assert.Assert(t, errors.Is(err, apperr.ErrConflict), err)
}

func TestUpdateStoreFailureIsUnexpected(t *testing.T) {
	svc, store := newStartupService(PolicyLegacy)
	created, _ := svc.Create(context.Background(), "owner-1", validInput("Acme"))

	failing := &failingSave{StartupStore: store, err: errors.New("lost connection")}
	svc = NewStartupService(failing, PolicyLegacy)
	_, err := svc.Update(context.Background(), "owner-1", created.ID, Input{Tagline: ptr("still a tagline")})
	assert.DeepEqual(t, apperr.KindUnexpected, apperr.KindOf(err))
}

type failingSave struct {
	*testutil.StartupStore
	err error
}

func (f *failingSave) Save(context.Context, *model.Startup) error { return f.err }

func TestLegacyPolicy(t *testing.T) {
	svc, store := newStartupService(PolicyLegacy)
	created, _ := svc.Create(context.Background(), "owner-1", validInput("Acme"))

	updated, err := svc.Update(context.Background(), "intruder", created.ID, Input{Tagline: ptr("taken over tagline")})
	assert.Nil(t, err)
	assert.DeepEqual(t, "intruder", updated.OwnerID)

	assert.Nil(t, svc.Delete(context.Background(), "someone-else", created.ID))
	assert.DeepEqual(t, 0, store.Len())
}

func TestEnforcePolicy(t *testing.T) {
	svc, store := newStartupService(PolicyEnforce)
	created, _ := svc.Create(context.Background(), "owner-1", validInput("Acme"))

	_, err := svc.Update(context.Background(), "intruder", created.ID, Input{Tagline: ptr("taken over tagline")})
	assert.Assert(t, errors.Is(err, apperr.ErrForbidden), err)

	err = svc.Delete(context.Background(), "intruder", created.ID)
	assert.Assert(t, errors.Is(err, apperr.ErrForbidden), err)
	assert.DeepEqual(t, 1, store.Len())

	updated, err := svc.Update(context.Background(), "owner-1", created.ID, Input{Tagline: ptr("owner tagline here")})
	assert.Nil(t, err)
	assert.DeepEqual(t, "owner-1", updated.OwnerID)

	assert.Nil(t, svc.Delete(context.Background(), "owner-1", created.ID))
}

func TestDeleteMissingEchoesID(t *testing.T) {
	for _, policy := range []OwnershipPolicy{PolicyLegacy, PolicyEnforce} {
		svc, _ := newStartupService(policy)
		err := svc.Delete(context.Background(), "owner-1", "abc123")
		appErr, ok := apperr.As(err)
		assert.Assert(t, ok, err)
		assert.DeepEqual(t, apperr.KindNotFound, appErr.Kind)
		assert.DeepEqual(t, "No startup found with id: abc123", appErr.Message)
	}
}

func TestGetMissing(t *testing.T) {
	svc, _ := newStartupService(PolicyLegacy)
	_, err := svc.Get(context.Background(), "missing")
	appErr, _ := apperr.As(err)
	assert.DeepEqual(t, "no startup of this id", appErr.Message)
}

func TestListings(t *testing.T) {
	svc, _ := newStartupService(PolicyLegacy)
	svc.Create(context.Background(), "owner-1", validInput("Acme"))
	noCover := validInput("Globex")
	noCover.CoverImage = nil
	svc.Create(context.Background(), "owner-2", noCover)

	mine, err := svc.ListByOwner(context.Background(), "owner-1")
	assert.Nil(t, err)
	assert.DeepEqual(t, 1, len(mine))
	assert.DeepEqual(t, "Acme", mine[0].Name)
	assert.DeepEqual(t, "B2B", mine[0].BusinessModel)

	cards, err := svc.ListDashboard(context.Background())
	assert.Nil(t, err)
	assert.DeepEqual(t, 2, len(cards))
	assert.Assert(t, !cards[0].CoverImage.IsZero())
	assert.Assert(t, cards[1].CoverImage.IsZero())
}
