package export

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/handicapstudent/ppt-project/internal/config"
	"github.com/handicapstudent/ppt-project/internal/models"
)

func newTestExporter(t *testing.T) *Exporter {
	t.Helper()
	logger := zerolog.Nop()
	return NewExporter(config.ExportConfig{Path: t.TempDir()}, &logger)
}

func TestExportReservations(t *testing.T) {
	e := newTestExporter(t)

	start := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)
	path, err := e.ExportReservations([]*models.Reservation{
		{
			ID:         1,
			UserID:     "2021001",
			Restaurant: "한빛식당",
			Seat:       "0-3",
			StartTime:  start,
			EndTime:    start.Add(models.SlotDuration),
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetCellValue("Reservations", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2021001", got)

	got, err = f.GetCellValue("Reservations", "E2")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01 12:00", got)
}

func TestExportUsersOmitsSecrets(t *testing.T) {
	e := newTestExporter(t)

	path, err := e.ExportUsers([]*models.User{
		{
			UserID:           "2021001",
			Password:         "hunter2",
			SecurityQuestion: "first pet's name",
			SecurityAnswer:   "nabi",
			CertBlob:         []byte{0x01},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Users")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2021001", "first pet's name", "Yes"}, rows[1])

	for _, row := range rows {
		assert.NotContains(t, row, "hunter2")
		assert.NotContains(t, row, "nabi")
	}
}

func TestExportReviews(t *testing.T) {
	e := newTestExporter(t)

	path, err := e.ExportReviews([]*models.Review{
		{
			ID:        7,
			UserID:    "2021002",
			Rating:    4,
			Text:      "soup was good",
			Timestamp: time.Date(2026, 9, 1, 13, 30, 0, 0, time.Local),
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetCellValue("Reviews", "D2")
	require.NoError(t, err)
	assert.Equal(t, "soup was good", got)
}
