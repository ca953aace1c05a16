package attendance_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/attendance-engine/attendance"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		client   bool
		notFound bool
		conflict bool
	}{
		{"invalid policy", fmt.Errorf("%w: bad shift", attendance.ErrInvalidPolicy), true, false, false},
		{"invalid range", attendance.ErrInvalidRange, true, false, false},
		{"malformed record", &attendance.MalformedRecordError{UserID: "u1", Reason: "x"}, true, false, false},
		{"policy not found", fmt.Errorf("%w: p1", attendance.ErrPolicyNotFound), false, true, false},
		{"employee not found", attendance.ErrEmployeeNotFound, false, true, false},
		{"duplicate", fmt.Errorf("%w: holiday", attendance.ErrDuplicate), false, false, true},
		{"configuration gap", attendance.ErrConfigurationGap, false, false, false},
		{"other", errors.New("disk full"), false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.client, attendance.IsClientError(tt.err))
			assert.Equal(t, tt.notFound, attendance.IsNotFound(tt.err))
			assert.Equal(t, tt.conflict, attendance.IsConflict(tt.err))
		})
	}
}

func TestAmbiguousAssignment_Error(t *testing.T) {
	a := attendance.AmbiguousAssignment{
		UserID: "alice", Earlier: "a1", Later: "a2",
		From: date(2025, 3, 10), To: date(2025, 3, 12),
	}
	assert.Equal(t,
		"overlapping policy assignments for alice: a1 and a2 both cover 2025-03-10..2025-03-12 (a2 applied)",
		a.Error())
}
