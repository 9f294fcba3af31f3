package member

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRoster(t *testing.T) {
	expiry := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	planID := 3
	members := []Member{
		{MemberCode: "MEM-1", Name: "Ana", Email: "ana@example.com", Status: StatusActive,
			JoinDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), ExpiryDate: &expiry, PlanID: &planID},
		{MemberCode: "MEM-2", Name: "Ben", Status: StatusInactive,
			JoinDate: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)},
	}

	data, err := Roster(members)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(rosterSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, rosterHeader, rows[0])
	assert.Equal(t, []string{"MEM-1", "Ana", "ana@example.com", "", "Active", "2024-01-15", "2024-02-15", "3"}, rows[1])
	assert.Equal(t, "MEM-2", rows[2][0])
	assert.Equal(t, "Inactive", rows[2][4])
}

func TestRosterEmpty(t *testing.T) {
	data, err := Roster(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(rosterSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
