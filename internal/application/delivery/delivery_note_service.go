package delivery

import (
	"context"
	"errors"

	tradeapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/trade"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/delivery"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/partner"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// Delivery note error codes
const (
	CodeDeliveryNoteNotFound            = "DELIVERY_NOTE_NOT_FOUND"
	CodeSomeDeliveryNotesNotFound       = "SOME_DELIVERY_NOTES_NOT_FOUND"
	CodeDeliveryNoteNumberAlreadyExists = "DELIVERY_NOTE_NUMBER_ALREADY_EXISTS"
)

// DeliveryNoteService handles delivery note business operations
type DeliveryNoteService struct {
	noteRepo    delivery.DeliveryNoteRepository
	carrierRepo partner.CarrierRepository
	orderGate   *tradeapp.OrderGate
	txScope     shared.TransactionScope
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewDeliveryNoteService creates a new DeliveryNoteService
func NewDeliveryNoteService(
	noteRepo delivery.DeliveryNoteRepository,
	carrierRepo partner.CarrierRepository,
	orderGate *tradeapp.OrderGate,
	txScope shared.TransactionScope,
	logger *zap.Logger,
) *DeliveryNoteService {
	return &DeliveryNoteService{
		noteRepo:    noteRepo,
		carrierRepo: carrierRepo,
		orderGate:   orderGate,
		txScope:     txScope,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher for delivery note events
func (s *DeliveryNoteService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// List returns a page of delivery notes. Supported filters: status, order_id, carrier_id.
func (s *DeliveryNoteService) List(ctx context.Context, filter *shared.Filter) (*shared.Paginated[DeliveryNoteResponse], error) {
	f, err := shared.NormalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	notes, err := s.noteRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.noteRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToDeliveryNoteResponses(notes), total, f.Page, f.PageSize)
	return &page, nil
}

// GetByID retrieves a delivery note by ID
func (s *DeliveryNoteService) GetByID(ctx context.Context, id uint) (*DeliveryNoteResponse, error) {
	note, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToDeliveryNoteResponse(note)
	return &response, nil
}

// Create creates a pending delivery note for an open order
func (s *DeliveryNoteService) Create(ctx context.Context, actor shared.Actor, req *CreateDeliveryNoteRequest) (*DeliveryNoteResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}
	note, err := delivery.NewDeliveryNote(req.DeliveryNoteNumber, req.OrderID, req.CarrierID, req.Date, req.Notes)
	if err != nil {
		return nil, err
	}
	note.MarkCreatedBy(actor)

	err = s.txScope.Execute(ctx, func(ctx context.Context) error {
		if err := s.checkRules(ctx, note, 0); err != nil {
			return err
		}
		return s.noteRepo.Create(ctx, note)
	})
	if err != nil {
		return nil, s.translateWriteError(err, note.DeliveryNoteNumber)
	}

	s.logger.Info("Delivery note created",
		zap.Uint("delivery_note_id", note.ID),
		zap.String("delivery_note_number", note.DeliveryNoteNumber),
		zap.Uint("order_id", note.OrderID),
		zap.Uint("actor_id", actor.UserID))

	response := ToDeliveryNoteResponse(note)
	return &response, nil
}

// Update updates a delivery note
func (s *DeliveryNoteService) Update(ctx context.Context, actor shared.Actor, id uint, req *UpdateDeliveryNoteRequest) (*DeliveryNoteResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}

	var note *delivery.DeliveryNote
	err := s.txScope.Execute(ctx, func(ctx context.Context) error {
		var err error
		if note, err = s.find(ctx, id); err != nil {
			return err
		}
		if err := note.CheckVersion(req.Version); err != nil {
			return err
		}
		if err := s.orderGate.EnsureOpen(ctx, note.OrderID); err != nil {
			return err
		}
		if err := note.Update(req.DeliveryNoteNumber, req.OrderID, req.CarrierID, req.Date, req.Notes); err != nil {
			return err
		}
		if err := s.checkRules(ctx, note, id); err != nil {
			return err
		}
		note.MarkUpdatedBy(actor)
		return s.noteRepo.SaveWithLock(ctx, note)
	})
	if err != nil {
		return nil, s.translateWriteError(err, req.DeliveryNoteNumber)
	}

	s.logger.Info("Delivery note updated",
		zap.Uint("delivery_note_id", note.ID),
		zap.Int("version", note.Version),
		zap.Uint("actor_id", actor.UserID))

	response := ToDeliveryNoteResponse(note)
	return &response, nil
}

// ChangeStatus approves or cancels a delivery note
func (s *DeliveryNoteService) ChangeStatus(ctx context.Context, actor shared.Actor, id uint, req *ChangeDeliveryNoteStatusRequest) (*DeliveryNoteResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}

	var (
		note *delivery.DeliveryNote
		from delivery.DeliveryNoteStatus
	)
	err := s.txScope.Execute(ctx, func(ctx context.Context) error {
		var err error
		if note, err = s.find(ctx, id); err != nil {
			return err
		}
		if err := note.CheckVersion(req.Version); err != nil {
			return err
		}
		if err := s.orderGate.EnsureOpen(ctx, note.OrderID); err != nil {
			return err
		}
		from = note.Status
		if err := note.ChangeStatus(delivery.DeliveryNoteStatus(req.Status)); err != nil {
			s.logger.Warn("Delivery note status change rejected",
				zap.Uint("delivery_note_id", id),
				zap.String("from", string(from)),
				zap.String("to", req.Status))
			return err
		}
		note.MarkUpdatedBy(actor)
		return s.noteRepo.SaveWithLock(ctx, note)
	})
	if err != nil {
		return nil, s.translateWriteError(err, "")
	}

	s.logger.Info("Delivery note status changed",
		zap.Uint("delivery_note_id", note.ID),
		zap.String("from", string(from)),
		zap.String("to", string(note.Status)),
		zap.Uint("actor_id", actor.UserID))

	if s.events != nil {
		if err := s.events.Publish(ctx, delivery.NewDeliveryNoteStatusChangedEvent(note, from, actor)); err != nil {
			s.logger.Error("Failed to publish delivery note status event", zap.Error(err))
		}
	}

	response := ToDeliveryNoteResponse(note)
	return &response, nil
}

// Delete deletes a single delivery note
func (s *DeliveryNoteService) Delete(ctx context.Context, actor shared.Actor, id uint) error {
	if err := s.deleteMany(ctx, []uint{id}, shared.EntityNotFound(CodeDeliveryNoteNotFound, "Delivery note")); err != nil {
		return err
	}
	s.logger.Info("Delivery note deleted", zap.Uint("delivery_note_id", id), zap.Uint("actor_id", actor.UserID))
	return nil
}

// BulkDelete deletes a set of delivery notes atomically
func (s *DeliveryNoteService) BulkDelete(ctx context.Context, actor shared.Actor, ids []uint) error {
	if err := s.deleteMany(ctx, ids, shared.SomeNotFound(CodeSomeDeliveryNotesNotFound, "delivery notes")); err != nil {
		return err
	}
	s.logger.Info("Delivery notes deleted", zap.Uints("requested_ids", ids), zap.Uint("actor_id", actor.UserID))
	return nil
}

func (s *DeliveryNoteService) deleteMany(ctx context.Context, ids []uint, notFound *shared.DomainError) error {
	unique, err := shared.UniqueIDs(ids)
	if err != nil || len(unique) == 0 {
		return err
	}

	return s.txScope.Execute(ctx, func(ctx context.Context) error {
		notes, err := s.noteRepo.FindByIDs(ctx, unique)
		if err != nil {
			return err
		}
		if len(notes) != len(unique) {
			return notFound
		}
		orderIDs := make([]uint, len(notes))
		for i, n := range notes {
			orderIDs[i] = n.OrderID
		}
		if err := s.orderGate.EnsureOpen(ctx, orderIDs...); err != nil {
			return err
		}
		return s.noteRepo.DeleteByIDs(ctx, unique)
	})
}

func (s *DeliveryNoteService) checkRules(ctx context.Context, note *delivery.DeliveryNote, excludeID uint) error {
	if err := s.orderGate.EnsureOpen(ctx, note.OrderID); err != nil {
		return err
	}
	if _, err := s.carrierRepo.FindByID(ctx, note.CarrierID); err != nil {
		return shared.NotFoundAs(err, shared.EntityNotFound(tradeapp.CodeCarrierNotFound, "Carrier"))
	}
	exists, err := s.noteRepo.ExistsByNumber(ctx, note.DeliveryNoteNumber, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return numberTaken(note.DeliveryNoteNumber)
	}
	return nil
}

func (s *DeliveryNoteService) find(ctx context.Context, id uint) (*delivery.DeliveryNote, error) {
	note, err := s.noteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NotFoundAs(err, shared.EntityNotFound(CodeDeliveryNoteNotFound, "Delivery note"))
	}
	return note, nil
}

func (s *DeliveryNoteService) translateWriteError(err error, number string) error {
	switch {
	case errors.Is(err, shared.ErrDuplicateKey):
		return numberTaken(number)
	case errors.Is(err, shared.ErrNotFound):
		return shared.EntityNotFound(CodeDeliveryNoteNotFound, "Delivery note")
	}
	return err
}

func numberTaken(number string) *shared.DomainError {
	return shared.AlreadyExists(CodeDeliveryNoteNumberAlreadyExists, "delivery note", "number", number)
}
