package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-desk-backend/config"
	"clinic-desk-backend/internal/calendar"
	"clinic-desk-backend/internal/model"
	"clinic-desk-backend/internal/period"
)

func TestPrintGrid(t *testing.T) {
	today := time.Date(2025, 11, 18, 9, 0, 0, 0, time.UTC)
	grid := calendar.Build([]model.Shift{
		{Date: "2025-11-18", TimePeriod: 1, DoctorName: "王建国"},
		{Date: "2025-11-18", TimePeriod: 1, DoctorName: "李芳", ClinicPlace: "门诊楼202"},
		{Date: "2025-11-18", TimePeriod: 9, DoctorName: "王建国"},
	}, today, period.Default())

	var out bytes.Buffer
	require.NoError(t, printGrid(&out, grid))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Contains(t, lines[0], "今天 11.18")
	assert.Contains(t, lines[1], "王建国")
	assert.Contains(t, lines[2], "门诊楼202")
	assert.Contains(t, out.String(), "skipped 2025-11-18 period 9")
}

func TestVocabulary(t *testing.T) {
	testCases := []struct {
		name  string
		cfg   config.DashboardConfig
		label string
	}{
		{name: "default", cfg: config.DashboardConfig{}, label: "上午"},
		{name: "configured", cfg: config.DashboardConfig{Periods: []config.PeriodConfig{{Code: 1, Label: "早班"}}}, label: "早班"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.label, vocabulary(tc.cfg).Label(1))
		})
	}
}
