package partner

import (
	"context"
	"testing"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/partner"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCustomerService_Update_KeepsAddress(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockCustomerRepository)
	svc := NewCustomerService(repo, shared.NoOpTransactionScope{}, zap.NewNop())

	stored, err := partner.NewCustomer("Initech", "", "", "", "Av. Siempre Viva 742")
	require.NoError(t, err)
	stored.ID = 2
	repo.On("FindByID", ctx, uint(2)).Return(stored, nil)
	repo.On("ExistsByName", ctx, "Initech SA", uint(2)).Return(false, nil)
	repo.On("SaveWithLock", ctx, stored).Return(nil)

	resp, err := svc.Update(ctx, testActor, 2, &UpdateCustomerRequest{
		Name:    "Initech SA",
		Address: "Av. Siempre Viva 742",
		Version: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, "Initech SA", resp.Name)
	assert.Equal(t, "Av. Siempre Viva 742", resp.Address)
	assert.Equal(t, 2, resp.Version)
	require.NotNil(t, stored.UpdatedBy)
	assert.Equal(t, testActor.UserID, *stored.UpdatedBy)
}

func TestCustomerService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockCustomerRepository)
	svc := NewCustomerService(repo, shared.NoOpTransactionScope{}, zap.NewNop())
	repo.On("FindByID", ctx, uint(11)).Return(nil, shared.ErrNotFound)

	_, err := svc.GetByID(ctx, 11)

	assertDomainCode(t, err, CodeCustomerNotFound)
}
