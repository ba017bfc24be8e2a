package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pawclinic/vet-api/internal/model"
)

var allStatuses = []model.AppointmentStatus{
	model.AppointmentStatusScheduled,
	model.AppointmentStatusConfirmed,
	model.AppointmentStatusCheckedIn,
	model.AppointmentStatusInProgress,
	model.AppointmentStatusCompleted,
	model.AppointmentStatusCancelled,
	model.AppointmentStatusNoShow,
}

func TestCanTransition(t *testing.T) {
	allowed := map[model.AppointmentStatus]map[model.AppointmentStatus]bool{
		model.AppointmentStatusScheduled: {
			model.AppointmentStatusConfirmed: true,
			model.AppointmentStatusCheckedIn: true,
			model.AppointmentStatusCancelled: true,
			model.AppointmentStatusNoShow:    true,
		},
		model.AppointmentStatusConfirmed: {
			model.AppointmentStatusCheckedIn: true,
			model.AppointmentStatusCancelled: true,
			model.AppointmentStatusNoShow:    true,
		},
		model.AppointmentStatusCheckedIn: {
			model.AppointmentStatusInProgress: true,
			model.AppointmentStatusCancelled:  true,
		},
		model.AppointmentStatusInProgress: {
			model.AppointmentStatusCompleted: true,
		},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowed[from][to]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	assert.False(t, CanTransition("bogus", model.AppointmentStatusConfirmed))
	assert.False(t, CanTransition(model.AppointmentStatusScheduled, "bogus"))
}

func TestIsTerminal(t *testing.T) {
	terminal := map[model.AppointmentStatus]bool{
		model.AppointmentStatusCompleted: true,
		model.AppointmentStatusCancelled: true,
		model.AppointmentStatusNoShow:    true,
	}

	for _, status := range allStatuses {
		assert.Equal(t, terminal[status], IsTerminal(status), "%s", status)
	}
}

func TestTerminalStatusesAbsorb(t *testing.T) {
	for _, from := range allStatuses {
		if !IsTerminal(from) {
			continue
		}
		for _, to := range allStatuses {
			assert.False(t, CanTransition(from, to), "%s must not leave terminal state (-> %s)", from, to)
		}
	}
}
