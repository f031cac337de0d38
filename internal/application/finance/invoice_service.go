package finance

import (
	"context"
	"errors"

	tradeapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/trade"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/delivery"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/finance"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/partner"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// Invoice error codes
const (
	CodeInvoiceNotFound      = "INVOICE_NOT_FOUND"
	CodeSomeInvoicesNotFound = "SOME_INVOICES_NOT_FOUND"
)

// InvoiceService handles invoice-related business operations
type InvoiceService struct {
	invoiceRepo      finance.InvoiceRepository
	carrierRepo      partner.CarrierRepository
	deliveryNoteRepo delivery.DeliveryNoteRepository
	orderGate        *tradeapp.OrderGate
	txScope          shared.TransactionScope
	events           shared.EventPublisher
	logger           *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo finance.InvoiceRepository,
	carrierRepo partner.CarrierRepository,
	deliveryNoteRepo delivery.DeliveryNoteRepository,
	orderGate *tradeapp.OrderGate,
	txScope shared.TransactionScope,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:      invoiceRepo,
		carrierRepo:      carrierRepo,
		deliveryNoteRepo: deliveryNoteRepo,
		orderGate:        orderGate,
		txScope:          txScope,
		logger:           logger,
	}
}

// SetEventPublisher sets the publisher for invoice events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// List returns a page of invoices. Supported filters: order_id, carrier_id.
func (s *InvoiceService) List(ctx context.Context, filter *shared.Filter) (*shared.Paginated[InvoiceResponse], error) {
	f, err := shared.NormalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoiceRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToInvoiceResponses(invoices), total, f.Page, f.PageSize)
	return &page, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, id uint) (*InvoiceResponse, error) {
	invoice, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Create creates an invoice for an open order.
// The order must be open, the number and the (order, carrier) pair unused,
// and the carrier must have no pending delivery notes for the order.
func (s *InvoiceService) Create(ctx context.Context, actor shared.Actor, req *CreateInvoiceRequest) (*InvoiceResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}
	invoice, err := finance.NewInvoice(req.InvoiceNumber, req.OrderID, req.CarrierID, req.Amount, req.IssueDate)
	if err != nil {
		return nil, err
	}
	invoice.MarkCreatedBy(actor)

	err = s.txScope.Execute(ctx, func(ctx context.Context) error {
		if err := s.checkRules(ctx, invoice, 0); err != nil {
			return err
		}
		return s.invoiceRepo.Create(ctx, invoice)
	})
	if err != nil {
		return nil, s.translateWriteError(err, invoice.InvoiceNumber)
	}

	s.logger.Info("Invoice created",
		zap.Uint("invoice_id", invoice.ID),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Uint("order_id", invoice.OrderID),
		zap.Uint("actor_id", actor.UserID))

	if s.events != nil {
		if err := s.events.Publish(ctx, finance.NewInvoiceCreatedEvent(invoice, actor)); err != nil {
			s.logger.Error("Failed to publish invoice created event", zap.Error(err))
		}
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Update updates an invoice. Both the current and the target order must be open.
func (s *InvoiceService) Update(ctx context.Context, actor shared.Actor, id uint, req *UpdateInvoiceRequest) (*InvoiceResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}

	var invoice *finance.Invoice
	err := s.txScope.Execute(ctx, func(ctx context.Context) error {
		var err error
		invoice, err = s.find(ctx, id)
		if err != nil {
			return err
		}
		if err := invoice.CheckVersion(req.Version); err != nil {
			return err
		}
		if err := s.orderGate.EnsureOpen(ctx, invoice.OrderID); err != nil {
			return err
		}
		if err := invoice.Update(req.InvoiceNumber, req.OrderID, req.CarrierID, req.Amount, req.IssueDate); err != nil {
			return err
		}
		if err := s.checkRules(ctx, invoice, id); err != nil {
			return err
		}
		invoice.MarkUpdatedBy(actor)
		return s.invoiceRepo.SaveWithLock(ctx, invoice)
	})
	if err != nil {
		return nil, s.translateWriteError(err, req.InvoiceNumber)
	}

	s.logger.Info("Invoice updated",
		zap.Uint("invoice_id", invoice.ID),
		zap.Int("version", invoice.Version),
		zap.Uint("actor_id", actor.UserID))

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Delete deletes a single invoice of an open order
func (s *InvoiceService) Delete(ctx context.Context, actor shared.Actor, id uint) error {
	if _, err := s.deleteMany(ctx, []uint{id}, shared.EntityNotFound(CodeInvoiceNotFound, "Invoice")); err != nil {
		return err
	}
	s.logger.Info("Invoice deleted", zap.Uint("invoice_id", id), zap.Uint("actor_id", actor.UserID))
	return nil
}

// BulkDelete deletes a set of invoices atomically
func (s *InvoiceService) BulkDelete(ctx context.Context, actor shared.Actor, ids []uint) error {
	deleted, err := s.deleteMany(ctx, ids, shared.SomeNotFound(CodeSomeInvoicesNotFound, "invoices"))
	if err != nil {
		return err
	}
	if len(deleted) > 0 {
		s.logger.Info("Invoices deleted", zap.Uints("invoice_ids", deleted), zap.Uint("actor_id", actor.UserID))
	}
	return nil
}

func (s *InvoiceService) deleteMany(ctx context.Context, ids []uint, notFound *shared.DomainError) ([]uint, error) {
	unique, err := shared.UniqueIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(unique) == 0 {
		return unique, nil
	}

	err = s.txScope.Execute(ctx, func(ctx context.Context) error {
		invoices, err := s.invoiceRepo.FindByIDs(ctx, unique)
		if err != nil {
			return err
		}
		found := make([]uint, len(invoices))
		orderIDs := make([]uint, len(invoices))
		for i := range invoices {
			found[i] = invoices[i].ID
			orderIDs[i] = invoices[i].OrderID
		}
		if len(shared.MissingIDs(unique, found)) > 0 {
			return notFound
		}
		if err := s.orderGate.EnsureOpen(ctx, orderIDs...); err != nil {
			return err
		}
		return s.invoiceRepo.DeleteByIDs(ctx, unique)
	})
	if err != nil {
		return nil, err
	}
	return unique, nil
}

// checkRules runs the order, carrier, uniqueness and pending delivery note gates
func (s *InvoiceService) checkRules(ctx context.Context, invoice *finance.Invoice, excludeID uint) error {
	if err := s.orderGate.EnsureOpen(ctx, invoice.OrderID); err != nil {
		return err
	}
	if _, err := s.carrierRepo.FindByID(ctx, invoice.CarrierID); err != nil {
		return shared.NotFoundAs(err, shared.EntityNotFound(tradeapp.CodeCarrierNotFound, "Carrier"))
	}

	exists, err := s.invoiceRepo.ExistsByNumber(ctx, invoice.InvoiceNumber, excludeID)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Warn("Invoice rule rejected", zap.String("code", finance.CodeInvoiceNumberAlreadyExists))
		return invoiceNumberTaken(invoice.InvoiceNumber)
	}

	exists, err = s.invoiceRepo.ExistsByOrderAndCarrier(ctx, invoice.OrderID, invoice.CarrierID, excludeID)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Warn("Invoice rule rejected", zap.String("code", finance.CodeInvoiceCarrierOrderAlreadyExists))
		return invoiceCarrierOrderTaken()
	}

	pending, err := s.deliveryNoteRepo.ExistsPendingForOrderAndCarrier(ctx, invoice.OrderID, invoice.CarrierID)
	if err != nil {
		return err
	}
	if pending {
		s.logger.Warn("Invoice rule rejected", zap.String("code", finance.CodeCarrierHasPendingDeliveryNotes))
		return shared.NewConflictError(finance.CodeCarrierHasPendingDeliveryNotes,
			"The carrier has pending delivery notes for this order")
	}
	return nil
}

func (s *InvoiceService) find(ctx context.Context, id uint) (*finance.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NotFoundAs(err, shared.EntityNotFound(CodeInvoiceNotFound, "Invoice"))
	}
	return invoice, nil
}

// translateWriteError maps repository errors; specific not-found errors from the gates pass through
func (s *InvoiceService) translateWriteError(err error, number string) error {
	switch {
	case errors.Is(err, finance.ErrCarrierOrderTaken):
		return invoiceCarrierOrderTaken()
	case errors.Is(err, shared.ErrDuplicateKey):
		return invoiceNumberTaken(number)
	case errors.Is(err, shared.ErrNotFound):
		return shared.EntityNotFound(CodeInvoiceNotFound, "Invoice")
	}
	return err
}

func invoiceCarrierOrderTaken() *shared.DomainError {
	return shared.NewConflictError(finance.CodeInvoiceCarrierOrderAlreadyExists,
		"An invoice for this order and carrier already exists")
}

func invoiceNumberTaken(number string) *shared.DomainError {
	return shared.AlreadyExists(finance.CodeInvoiceNumberAlreadyExists, "invoice", "number", number)
}
