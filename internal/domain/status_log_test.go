package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logRow(seq int64, status Status, modifiedBy string, modifiedAt time.Time) StatusLogEntry {
	return StatusLogEntry{
		Seq:        seq,
		SubjectID:  "run-1",
		Status:     status,
		ModifiedBy: modifiedBy,
		ModifiedAt: modifiedAt,
	}
}

func TestCurrentStatus(t *testing.T) {
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	t.Run("empty log reports no status", func(t *testing.T) {
		_, ok := CurrentStatus(nil)
		assert.False(t, ok)
	})

	t.Run("latest timestamp wins", func(t *testing.T) {
		log := []StatusLogEntry{
			logRow(1, StatusRunSubmitted, "u1", base),
			logRow(2, StatusRunApprovedByDH, "u2", base.Add(time.Hour)),
			logRow(3, StatusRunFinalized, "u3", base.Add(2*time.Hour)),
		}
		current, ok := CurrentStatus(log)
		require.True(t, ok)
		assert.Equal(t, StatusRunFinalized, current.Status)
		assert.Equal(t, "u3", current.ModifiedBy)
	})

	t.Run("equal timestamps break ties by highest seq", func(t *testing.T) {
		log := []StatusLogEntry{
			logRow(5, StatusRunSubmitted, "u1", base),
			logRow(7, StatusRunApprovedByDH, "u2", base),
			logRow(6, StatusRunSubmitted, "u1", base),
		}
		current, ok := CurrentStatus(log)
		require.True(t, ok)
		assert.Equal(t, int64(7), current.Seq)
		assert.Equal(t, StatusRunApprovedByDH, current.Status)
	})

	t.Run("order of rows does not matter", func(t *testing.T) {
		log := []StatusLogEntry{
			logRow(3, StatusRunFinalized, "u3", base.Add(2*time.Hour)),
			logRow(1, StatusRunSubmitted, "u1", base),
			logRow(2, StatusRunApprovedByDH, "u2", base.Add(time.Hour)),
		}
		current, ok := CurrentStatus(log)
		require.True(t, ok)
		assert.Equal(t, StatusRunFinalized, current.Status)
	})
}

func TestStatusAt(t *testing.T) {
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	log := []StatusLogEntry{
		logRow(1, StatusRunSubmitted, "instructor", base),
		logRow(2, StatusRunApprovedByDH, "head", base.Add(time.Hour)),
		logRow(3, StatusRunFinalized, "backoffice", base.Add(2*time.Hour)),
	}

	t.Run("approval row survives later stages", func(t *testing.T) {
		approval, ok := StatusAt(log, StatusRunApprovedByDH)
		require.True(t, ok)
		assert.Equal(t, "head", approval.ModifiedBy)
		assert.Equal(t, base.Add(time.Hour), approval.ModifiedAt)
	})

	t.Run("missing status reports not found", func(t *testing.T) {
		_, ok := StatusAt(log[:1], StatusRunFinalized)
		assert.False(t, ok)
	})

	t.Run("repeated status resolves to most recent row", func(t *testing.T) {
		repeated := append(log,
			logRow(4, StatusRunApprovedByDH, "other-head", base.Add(3*time.Hour)))
		approval, ok := StatusAt(repeated, StatusRunApprovedByDH)
		require.True(t, ok)
		assert.Equal(t, "other-head", approval.ModifiedBy)
	})
}

func TestStatusDefinitions(t *testing.T) {
	assert.Equal(t, 2, StatusEntryCreated.DefinitionID())
	assert.Equal(t, 11, StatusEntryBilled.DefinitionID())
	assert.Equal(t, 20, StatusRunSubmitted.DefinitionID())
	assert.Equal(t, 21, StatusRunApprovedByDH.DefinitionID())
	assert.Equal(t, 22, StatusRunFinalized.DefinitionID())

	assert.True(t, StatusRunSubmitted.Valid())
	assert.False(t, Status("BOGUS").Valid())
	assert.Equal(t, "Approved by department head", StatusRunApprovedByDH.DisplayName())
	assert.Equal(t, "BOGUS", Status("BOGUS").DisplayName())
}
