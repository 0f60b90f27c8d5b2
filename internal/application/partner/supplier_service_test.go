package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jobledger/backend/internal/domain/partner"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
	"github.com/jobledger/backend/tests/testutil"
)

func newTestOwnerID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func TestSupplierService_Create_WithRateCard(t *testing.T) {
	repo := new(testutil.MockSupplierRepository)
	service := NewSupplierService(repo)
	ctx := context.Background()
	ownerID := newTestOwnerID()

	repo.On("Save", ctx, mock.AnythingOfType("*partner.Supplier")).Return(nil)

	resp, changes, err := service.Create(ctx, ownerID, CreateSupplierRequest{
		Name:            "Lingua Partners",
		DefaultCurrency: "eur",
		RateCard: []RateCardEntryDTO{
			{ServiceType: "Translation", Unit: "word", Rate: decimal.RequireFromString("0.05"), Currency: "EUR"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "EUR", resp.DefaultCurrency)
	require.Len(t, resp.RateCard, 1)
	assert.Equal(t, "Translation", resp.RateCard[0].ServiceType)
	assert.Equal(t, []uuid.UUID{resp.ID}, changes.SupplierIDs)
	repo.AssertExpectations(t)
}

func TestSupplierService_Create_RejectsUnknownCurrency(t *testing.T) {
	repo := new(testutil.MockSupplierRepository)
	service := NewSupplierService(repo)

	_, _, err := service.Create(context.Background(), newTestOwnerID(), CreateSupplierRequest{
		Name:            "Lingua Partners",
		DefaultCurrency: "XYZ",
	})

	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, shared.KindValidation, de.Kind)
	assert.Equal(t, "default_currency", de.Field)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSupplierService_SetRateCard_DuplicateServiceType(t *testing.T) {
	repo := new(testutil.MockSupplierRepository)
	service := NewSupplierService(repo)
	ctx := context.Background()
	ownerID := newTestOwnerID()

	supplier, err := partner.NewSupplier(ownerID, "Lingua Partners", valueobject.EUR)
	require.NoError(t, err)
	repo.On("FindByIDForOwner", ctx, ownerID, supplier.ID).Return(supplier, nil)

	_, _, err = service.SetRateCard(ctx, ownerID, supplier.ID, SetRateCardRequest{
		Entries: []RateCardEntryDTO{
			{ServiceType: "Translation", Unit: "word", Rate: decimal.RequireFromString("0.05"), Currency: "EUR"},
			{ServiceType: "TRANSLATION", Unit: "word", Rate: decimal.RequireFromString("0.06"), Currency: "EUR"},
		},
	})

	require.Error(t, err)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "DUPLICATE_SERVICE_TYPE", de.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSupplierService_Delete_InUse(t *testing.T) {
	repo := new(testutil.MockSupplierRepository)
	service := NewSupplierService(repo)
	ctx := context.Background()
	ownerID := newTestOwnerID()

	supplier, err := partner.NewSupplier(ownerID, "Lingua Partners", valueobject.EUR)
	require.NoError(t, err)
	repo.On("FindByIDForOwner", ctx, ownerID, supplier.ID).Return(supplier, nil)
	repo.On("IsReferenced", ctx, ownerID, supplier.ID).Return(true, nil)

	_, err = service.Delete(ctx, ownerID, supplier.ID)

	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "SUPPLIER_IN_USE", de.Code)
	repo.AssertNotCalled(t, "DeleteForOwner", mock.Anything, mock.Anything, mock.Anything)
}

func TestClientService_Create_DefaultTerms(t *testing.T) {
	repo := new(testutil.MockClientRepository)
	service := NewClientService(repo)
	ctx := context.Background()

	repo.On("Save", ctx, mock.AnythingOfType("*partner.Client")).Return(nil)

	resp, _, err := service.Create(ctx, newTestOwnerID(), CreateClientRequest{
		Name:            "Acme Publishing",
		DefaultCurrency: "USD",
	})

	require.NoError(t, err)
	assert.Equal(t, partner.DefaultPaymentTermsDays, resp.PaymentTermsDays)
	assert.Equal(t, "USD", resp.DefaultCurrency)
}

func TestClientService_Update_Partial(t *testing.T) {
	repo := new(testutil.MockClientRepository)
	service := NewClientService(repo)
	ctx := context.Background()
	ownerID := newTestOwnerID()

	client, err := partner.NewClient(ownerID, "Acme Publishing", valueobject.USD)
	require.NoError(t, err)
	client.Email = "billing@acme.test"
	repo.On("FindByIDForOwner", ctx, ownerID, client.ID).Return(client, nil)
	repo.On("Save", ctx, client).Return(nil)

	terms := 45
	resp, changes, err := service.Update(ctx, ownerID, client.ID, UpdateClientRequest{PaymentTermsDays: &terms})

	require.NoError(t, err)
	assert.Equal(t, 45, resp.PaymentTermsDays)
	assert.Equal(t, "billing@acme.test", resp.Email)
	assert.Equal(t, []uuid.UUID{client.ID}, changes.ClientIDs)
}

func TestClientService_Delete(t *testing.T) {
	ctx := context.Background()
	ownerID := newTestOwnerID()

	t.Run("refuses a referenced client", func(t *testing.T) {
		repo := new(testutil.MockClientRepository)
		service := NewClientService(repo)
		client, _ := partner.NewClient(ownerID, "Acme Publishing", valueobject.USD)
		repo.On("FindByIDForOwner", ctx, ownerID, client.ID).Return(client, nil)
		repo.On("IsReferenced", ctx, ownerID, client.ID).Return(true, nil)

		_, err := service.Delete(ctx, ownerID, client.ID)

		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "CLIENT_IN_USE", de.Code)
	})

	t.Run("deletes an unused client", func(t *testing.T) {
		repo := new(testutil.MockClientRepository)
		service := NewClientService(repo)
		client, _ := partner.NewClient(ownerID, "Acme Publishing", valueobject.USD)
		repo.On("FindByIDForOwner", ctx, ownerID, client.ID).Return(client, nil)
		repo.On("IsReferenced", ctx, ownerID, client.ID).Return(false, nil)
		repo.On("DeleteForOwner", ctx, ownerID, client.ID).Return(nil)

		changes, err := service.Delete(ctx, ownerID, client.ID)

		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{client.ID}, changes.ClientIDs)
		repo.AssertExpectations(t)
	})

	t.Run("missing client", func(t *testing.T) {
		repo := new(testutil.MockClientRepository)
		service := NewClientService(repo)
		id := uuid.New()
		repo.On("FindByIDForOwner", ctx, ownerID, id).Return(nil, shared.ErrNotFound)

		_, err := service.Delete(ctx, ownerID, id)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
