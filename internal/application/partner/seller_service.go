package partner

import (
	"context"
	"errors"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/partner"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// Seller error codes
const (
	CodeSellerNotFound          = "SELLER_NOT_FOUND"
	CodeSomeSellersNotFound     = "SOME_SELLERS_NOT_FOUND"
	CodeSellerHasAssociations   = "SELLER_HAS_ASSOCIATIONS"
	CodeSellerNameAlreadyExists = "SELLER_NAME_ALREADY_EXISTS"
)

// SellerService handles seller-related business operations
type SellerService struct {
	sellerRepo partner.SellerRepository
	txScope     shared.TransactionScope
	logger      *zap.Logger
}

// NewSellerService creates a new SellerService
func NewSellerService(sellerRepo partner.SellerRepository, txScope shared.TransactionScope, logger *zap.Logger) *SellerService {
	return &SellerService{
		sellerRepo: sellerRepo,
		txScope:     txScope,
		logger:      logger,
	}
}

// List returns a page of sellers, newest first
func (s *SellerService) List(ctx context.Context, filter *shared.Filter) (*shared.Paginated[SellerResponse], error) {
	f, err := shared.NormalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	sellers, err := s.sellerRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.sellerRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToSellerResponses(sellers), total, f.Page, f.PageSize)
	return &page, nil
}

// GetByID retrieves a seller by ID
func (s *SellerService) GetByID(ctx context.Context, id uint) (*SellerResponse, error) {
	seller, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSellerResponse(seller)
	return &response, nil
}

// Create creates a new seller
func (s *SellerService) Create(ctx context.Context, actor shared.Actor, req *CreateSellerRequest) (*SellerResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}
	if err := s.ensureUniqueName(ctx, req.Name, 0); err != nil {
		return nil, err
	}

	seller, err := partner.NewSeller(req.Name, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	seller.MarkCreatedBy(actor)

	if err := s.sellerRepo.Create(ctx, seller); err != nil {
		return nil, s.translateWriteError(err, req.Name)
	}

	s.logger.Info("Seller created",
		zap.Uint("seller_id", seller.ID),
		zap.Uint("actor_id", actor.UserID))

	response := ToSellerResponse(seller)
	return &response, nil
}

// Update updates a seller, rejecting stale versions
func (s *SellerService) Update(ctx context.Context, actor shared.Actor, id uint, req *UpdateSellerRequest) (*SellerResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}
	seller, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := seller.CheckVersion(req.Version); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, req.Name, id); err != nil {
		return nil, err
	}

	if err := seller.Update(req.Name, req.Email, req.Phone); err != nil {
		return nil, err
	}
	seller.MarkUpdatedBy(actor)

	if err := s.sellerRepo.SaveWithLock(ctx, seller); err != nil {
		return nil, s.translateWriteError(err, req.Name)
	}

	s.logger.Info("Seller updated",
		zap.Uint("seller_id", seller.ID),
		zap.Int("version", seller.Version),
		zap.Uint("actor_id", actor.UserID))

	response := ToSellerResponse(seller)
	return &response, nil
}

// Delete deletes a single seller
func (s *SellerService) Delete(ctx context.Context, actor shared.Actor, id uint) error {
	_, err := shared.BulkDelete(ctx, s.txScope, s.sellerRepo, []uint{id}, shared.BulkDeleteErrors{
		NotFound:        shared.EntityNotFound(CodeSellerNotFound, "Seller"),
		HasAssociations: shared.HasAssociations(CodeSellerHasAssociations, "sellers"),
	})
	if err != nil {
		return err
	}
	s.logger.Info("Seller deleted", zap.Uint("seller_id", id), zap.Uint("actor_id", actor.UserID))
	return nil
}

// BulkDelete deletes a set of sellers. Either all of them are removed or none.
func (s *SellerService) BulkDelete(ctx context.Context, actor shared.Actor, ids []uint) error {
	deleted, err := shared.BulkDelete(ctx, s.txScope, s.sellerRepo, ids, shared.BulkDeleteErrors{
		NotFound:        shared.SomeNotFound(CodeSomeSellersNotFound, "sellers"),
		HasAssociations: shared.HasAssociations(CodeSellerHasAssociations, "sellers"),
	})
	if err != nil {
		return err
	}
	if len(deleted) > 0 {
		s.logger.Info("Sellers deleted", zap.Uints("seller_ids", deleted), zap.Uint("actor_id", actor.UserID))
	}
	return nil
}

func (s *SellerService) find(ctx context.Context, id uint) (*partner.Seller, error) {
	seller, err := s.sellerRepo.FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.EntityNotFound(CodeSellerNotFound, "Seller")
		}
		return nil, err
	}
	return seller, nil
}

func (s *SellerService) ensureUniqueName(ctx context.Context, name string, excludeID uint) error {
	exists, err := s.sellerRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.AlreadyExists(CodeSellerNameAlreadyExists, "seller", "name", name)
	}
	return nil
}

func (s *SellerService) translateWriteError(err error, name string) error {
	switch {
	case errors.Is(err, shared.ErrDuplicateKey):
		return shared.AlreadyExists(CodeSellerNameAlreadyExists, "seller", "name", name)
	case shared.IsNotFound(err):
		return shared.EntityNotFound(CodeSellerNotFound, "Seller")
	}
	return err
}
