package partner

import (
	"context"
	"errors"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/partner"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// Carrier error codes
const (
	CodeCarrierNotFound          = "CARRIER_NOT_FOUND"
	CodeSomeCarriersNotFound     = "SOME_CARRIERS_NOT_FOUND"
	CodeCarrierHasAssociations   = "CARRIER_HAS_ASSOCIATIONS"
	CodeCarrierNameAlreadyExists = "CARRIER_NAME_ALREADY_EXISTS"
)

// CarrierService handles carrier-related business operations
type CarrierService struct {
	carrierRepo partner.CarrierRepository
	txScope     shared.TransactionScope
	logger      *zap.Logger
}

// NewCarrierService creates a new CarrierService
func NewCarrierService(carrierRepo partner.CarrierRepository, txScope shared.TransactionScope, logger *zap.Logger) *CarrierService {
	return &CarrierService{
		carrierRepo: carrierRepo,
		txScope:     txScope,
		logger:      logger,
	}
}

// List returns a page of carriers, newest first
func (s *CarrierService) List(ctx context.Context, filter *shared.Filter) (*shared.Paginated[CarrierResponse], error) {
	f, err := shared.NormalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	carriers, err := s.carrierRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.carrierRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToCarrierResponses(carriers), total, f.Page, f.PageSize)
	return &page, nil
}

// GetByID retrieves a carrier by ID
func (s *CarrierService) GetByID(ctx context.Context, id uint) (*CarrierResponse, error) {
	carrier, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCarrierResponse(carrier)
	return &response, nil
}

// Create creates a new carrier
func (s *CarrierService) Create(ctx context.Context, actor shared.Actor, req *CreateCarrierRequest) (*CarrierResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}
	if err := s.ensureUniqueName(ctx, req.Name, 0); err != nil {
		return nil, err
	}

	carrier, err := partner.NewCarrier(req.Name, req.TaxID, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	carrier.MarkCreatedBy(actor)

	if err := s.carrierRepo.Create(ctx, carrier); err != nil {
		return nil, s.translateWriteError(err, req.Name)
	}

	s.logger.Info("Carrier created",
		zap.Uint("carrier_id", carrier.ID),
		zap.Uint("actor_id", actor.UserID))

	response := ToCarrierResponse(carrier)
	return &response, nil
}

// Update updates a carrier, rejecting stale versions
func (s *CarrierService) Update(ctx context.Context, actor shared.Actor, id uint, req *UpdateCarrierRequest) (*CarrierResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}
	carrier, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := carrier.CheckVersion(req.Version); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, req.Name, id); err != nil {
		return nil, err
	}

	if err := carrier.Update(req.Name, req.TaxID, req.Email, req.Phone); err != nil {
		return nil, err
	}
	carrier.MarkUpdatedBy(actor)

	if err := s.carrierRepo.SaveWithLock(ctx, carrier); err != nil {
		return nil, s.translateWriteError(err, req.Name)
	}

	s.logger.Info("Carrier updated",
		zap.Uint("carrier_id", carrier.ID),
		zap.Int("version", carrier.Version),
		zap.Uint("actor_id", actor.UserID))

	response := ToCarrierResponse(carrier)
	return &response, nil
}

// Delete deletes a single carrier
func (s *CarrierService) Delete(ctx context.Context, actor shared.Actor, id uint) error {
	_, err := shared.BulkDelete(ctx, s.txScope, s.carrierRepo, []uint{id}, shared.BulkDeleteErrors{
		NotFound:        shared.EntityNotFound(CodeCarrierNotFound, "Carrier"),
		HasAssociations: shared.HasAssociations(CodeCarrierHasAssociations, "carriers"),
	})
	if err != nil {
		return err
	}
	s.logger.Info("Carrier deleted", zap.Uint("carrier_id", id), zap.Uint("actor_id", actor.UserID))
	return nil
}

// BulkDelete deletes a set of carriers. Either all of them are removed or none.
func (s *CarrierService) BulkDelete(ctx context.Context, actor shared.Actor, ids []uint) error {
	deleted, err := shared.BulkDelete(ctx, s.txScope, s.carrierRepo, ids, shared.BulkDeleteErrors{
		NotFound:        shared.SomeNotFound(CodeSomeCarriersNotFound, "carriers"),
		HasAssociations: shared.HasAssociations(CodeCarrierHasAssociations, "carriers"),
	})
	if err != nil {
		return err
	}
	if len(deleted) > 0 {
		s.logger.Info("Carriers deleted", zap.Uints("carrier_ids", deleted), zap.Uint("actor_id", actor.UserID))
	}
	return nil
}

func (s *CarrierService) find(ctx context.Context, id uint) (*partner.Carrier, error) {
	carrier, err := s.carrierRepo.FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.EntityNotFound(CodeCarrierNotFound, "Carrier")
		}
		return nil, err
	}
	return carrier, nil
}

func (s *CarrierService) ensureUniqueName(ctx context.Context, name string, excludeID uint) error {
	exists, err := s.carrierRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.AlreadyExists(CodeCarrierNameAlreadyExists, "carrier", "name", name)
	}
	return nil
}

func (s *CarrierService) translateWriteError(err error, name string) error {
	switch {
	case errors.Is(err, shared.ErrDuplicateKey):
		return shared.AlreadyExists(CodeCarrierNameAlreadyExists, "carrier", "name", name)
	case shared.IsNotFound(err):
		return shared.EntityNotFound(CodeCarrierNotFound, "Carrier")
	}
	return err
}
