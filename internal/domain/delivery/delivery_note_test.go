package delivery

import (
	"testing"
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeliveryNote(t *testing.T) {
	d, err := NewDeliveryNote("RM-1", 1, 2, time.Time{}, "fragile")
	require.NoError(t, err)
	assert.Equal(t, DeliveryNoteStatusPending, d.Status)
	assert.False(t, d.Date.IsZero())

	_, err = NewDeliveryNote("", 1, 2, time.Now(), "")
	assert.Error(t, err)
	_, err = NewDeliveryNote("RM-1", 0, 2, time.Now(), "")
	assert.Error(t, err)
	_, err = NewDeliveryNote("RM-1", 1, 0, time.Now(), "")
	assert.Error(t, err)
}

func TestDeliveryNote_ChangeStatus(t *testing.T) {
	tests := []struct {
		name    string
		path    []DeliveryNoteStatus
		wantErr shared.ErrorKind
	}{
		{"approve", []DeliveryNoteStatus{DeliveryNoteStatusApproved}, ""},
		{"cancel pending", []DeliveryNoteStatus{DeliveryNoteStatusCancelled}, ""},
		{"cancel approved", []DeliveryNoteStatus{DeliveryNoteStatusApproved, DeliveryNoteStatusCancelled}, ""},
		{"cancelled is final", []DeliveryNoteStatus{DeliveryNoteStatusCancelled, DeliveryNoteStatusPending}, shared.KindConflict},
		{"approved cannot return to pending", []DeliveryNoteStatus{DeliveryNoteStatusApproved, DeliveryNoteStatusPending}, shared.KindConflict},
		{"unknown status", []DeliveryNoteStatus{"Lost"}, shared.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDeliveryNote("RM-1", 1, 2, time.Now(), "")
			require.NoError(t, err)

			var last error
			for _, s := range tt.path {
				if last = d.ChangeStatus(s); last != nil {
					break
				}
			}
			if tt.wantErr == "" {
				require.NoError(t, last)
				assert.Equal(t, tt.path[len(tt.path)-1], d.Status)
				return
			}
			assert.Equal(t, tt.wantErr, shared.KindOf(last))
		})
	}
}

func TestNewDeliveryNoteStatusChangedEvent(t *testing.T) {
	d, err := NewDeliveryNote("RM-9", 1, 2, time.Now(), "")
	require.NoError(t, err)
	d.ID = 9
	require.NoError(t, d.ChangeStatus(DeliveryNoteStatusApproved))

	evt := NewDeliveryNoteStatusChangedEvent(d, DeliveryNoteStatusPending, shared.NewActor(2, "Logistics"))
	assert.Equal(t, EventTypeDeliveryNoteStatusChanged, evt.EventType())
	assert.Equal(t, uint(9), evt.AggregateID())
}
