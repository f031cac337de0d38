package event

import (
	"testing"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/tests/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry(t *testing.T) {
	typed := testutil.NewEventRecorder("InvoiceCreated")
	catchAll := testutil.NewEventRecorder()

	t.Run("typed handlers come before catch-all handlers", func(t *testing.T) {
		r := NewHandlerRegistry()
		r.Register(catchAll)
		r.Register(typed, "InvoiceCreated")

		assert.Equal(t, []shared.EventHandler{typed, catchAll}, r.GetHandlers("InvoiceCreated"))
		assert.Equal(t, []shared.EventHandler{catchAll}, r.GetHandlers("OrderCreated"))
	})

	t.Run("duplicate registration is ignored", func(t *testing.T) {
		r := NewHandlerRegistry()
		r.Register(typed, "InvoiceCreated")
		r.Register(typed, "InvoiceCreated")

		assert.Len(t, r.GetHandlers("InvoiceCreated"), 1)
	})

	t.Run("unregister removes every subscription", func(t *testing.T) {
		r := NewHandlerRegistry()
		r.Register(typed, "InvoiceCreated", "InvoiceUpdated")
		r.Register(catchAll)

		r.Unregister(typed)

		assert.Equal(t, []shared.EventHandler{catchAll}, r.GetHandlers("InvoiceCreated"))
		assert.Equal(t, []shared.EventHandler{catchAll}, r.GetHandlers("InvoiceUpdated"))
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		r := NewHandlerRegistry()
		r.Register(typed, "InvoiceCreated")

		got := r.GetHandlers("InvoiceCreated")
		got[0] = catchAll

		assert.Equal(t, []shared.EventHandler{typed}, r.GetHandlers("InvoiceCreated"))
	})
}
