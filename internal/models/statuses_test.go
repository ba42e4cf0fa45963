package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLessorApplicationStatus_CanTransitionTo(t *testing.T) {
	all := []LessorApplicationStatus{LessorApplicationPending, LessorApplicationApproved, LessorApplicationRejected}

	for _, from := range all {
		for _, to := range all {
			want := from == LessorApplicationPending && to != LessorApplicationPending
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestAppointmentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		want     bool
	}{
		{AppointmentPending, AppointmentAccepted, true},
		{AppointmentPending, AppointmentDeclined, true},
		{AppointmentPending, AppointmentCancelled, true},
		{AppointmentPending, AppointmentCompleted, false},
		{AppointmentAccepted, AppointmentCancelled, true},
		{AppointmentAccepted, AppointmentCompleted, true},
		{AppointmentAccepted, AppointmentDeclined, false},
		{AppointmentDeclined, AppointmentAccepted, false},
		{AppointmentCompleted, AppointmentCancelled, false},
		{AppointmentCancelled, AppointmentPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestStatusValidity(t *testing.T) {
	assert.True(t, UserRoleLessor.IsValid())
	assert.False(t, UserRole("owner").IsValid())
	assert.True(t, PostStatusPublished.IsValid())
	assert.False(t, PostStatus("archived").IsValid())
	assert.False(t, AppointmentStatus("").IsValid())
}
