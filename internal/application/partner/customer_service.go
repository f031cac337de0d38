package partner

import (
	"context"
	"errors"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/partner"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// Customer error codes
const (
	CodeCustomerNotFound          = "CUSTOMER_NOT_FOUND"
	CodeSomeCustomersNotFound     = "SOME_CUSTOMERS_NOT_FOUND"
	CodeCustomerHasAssociations   = "CUSTOMER_HAS_ASSOCIATIONS"
	CodeCustomerNameAlreadyExists = "CUSTOMER_NAME_ALREADY_EXISTS"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	txScope     shared.TransactionScope
	logger      *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, txScope shared.TransactionScope, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		txScope:     txScope,
		logger:      logger,
	}
}

// List returns a page of customers, newest first
func (s *CustomerService) List(ctx context.Context, filter *shared.Filter) (*shared.Paginated[CustomerResponse], error) {
	f, err := shared.NormalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	customers, err := s.customerRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.customerRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToCustomerResponses(customers), total, f.Page, f.PageSize)
	return &page, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id uint) (*CustomerResponse, error) {
	customer, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, actor shared.Actor, req *CreateCustomerRequest) (*CustomerResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}
	if err := s.ensureUniqueName(ctx, req.Name, 0); err != nil {
		return nil, err
	}

	customer, err := partner.NewCustomer(req.Name, req.TaxID, req.Email, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}
	customer.MarkCreatedBy(actor)

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, s.translateWriteError(err, req.Name)
	}

	s.logger.Info("Customer created",
		zap.Uint("customer_id", customer.ID),
		zap.Uint("actor_id", actor.UserID))

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Update updates a customer, rejecting stale versions
func (s *CustomerService) Update(ctx context.Context, actor shared.Actor, id uint, req *UpdateCustomerRequest) (*CustomerResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}
	customer, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := customer.CheckVersion(req.Version); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, req.Name, id); err != nil {
		return nil, err
	}

	if err := customer.Update(req.Name, req.TaxID, req.Email, req.Phone, req.Address); err != nil {
		return nil, err
	}
	customer.MarkUpdatedBy(actor)

	if err := s.customerRepo.SaveWithLock(ctx, customer); err != nil {
		return nil, s.translateWriteError(err, req.Name)
	}

	s.logger.Info("Customer updated",
		zap.Uint("customer_id", customer.ID),
		zap.Int("version", customer.Version),
		zap.Uint("actor_id", actor.UserID))

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete deletes a single customer
func (s *CustomerService) Delete(ctx context.Context, actor shared.Actor, id uint) error {
	_, err := shared.BulkDelete(ctx, s.txScope, s.customerRepo, []uint{id}, shared.BulkDeleteErrors{
		NotFound:        shared.EntityNotFound(CodeCustomerNotFound, "Customer"),
		HasAssociations: shared.HasAssociations(CodeCustomerHasAssociations, "customers"),
	})
	if err != nil {
		return err
	}
	s.logger.Info("Customer deleted", zap.Uint("customer_id", id), zap.Uint("actor_id", actor.UserID))
	return nil
}

// BulkDelete deletes a set of customers. Either all of them are removed or none.
func (s *CustomerService) BulkDelete(ctx context.Context, actor shared.Actor, ids []uint) error {
	deleted, err := shared.BulkDelete(ctx, s.txScope, s.customerRepo, ids, shared.BulkDeleteErrors{
		NotFound:        shared.SomeNotFound(CodeSomeCustomersNotFound, "customers"),
		HasAssociations: shared.HasAssociations(CodeCustomerHasAssociations, "customers"),
	})
	if err != nil {
		return err
	}
	if len(deleted) > 0 {
		s.logger.Info("Customers deleted", zap.Uints("customer_ids", deleted), zap.Uint("actor_id", actor.UserID))
	}
	return nil
}

func (s *CustomerService) find(ctx context.Context, id uint) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.EntityNotFound(CodeCustomerNotFound, "Customer")
		}
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) ensureUniqueName(ctx context.Context, name string, excludeID uint) error {
	exists, err := s.customerRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.AlreadyExists(CodeCustomerNameAlreadyExists, "customer", "name", name)
	}
	return nil
}

func (s *CustomerService) translateWriteError(err error, name string) error {
	switch {
	case errors.Is(err, shared.ErrDuplicateKey):
		return shared.AlreadyExists(CodeCustomerNameAlreadyExists, "customer", "name", name)
	case shared.IsNotFound(err):
		return shared.EntityNotFound(CodeCustomerNotFound, "Customer")
	}
	return err
}
