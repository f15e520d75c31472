package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"clinic-desk-backend/internal/calendar"
	"clinic-desk-backend/internal/db"
)

func scheduleCmd(configPath *string) *cobra.Command {
	var doctorID string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print a doctor's two-week schedule grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			loc := cfg.Dashboard.Location()
			src, err := newBackend(cfg, loc)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			shifts, err := src.SelfShifts(ctx, doctorID)
			if err != nil {
				return fmt.Errorf("loading shifts for %s: %w", doctorID, err)
			}

			grid := calendar.Build(shifts, time.Now().In(loc), vocabulary(cfg.Dashboard))
			return printGrid(cmd.OutOrStdout(), grid)
		},
	}
	cmd.Flags().StringVar(&doctorID, "doctor", "", "doctor id")
	_ = cmd.MarkFlagRequired("doctor")
	return cmd
}

func printGrid(w io.Writer, grid calendar.Grid) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := []string{""}
	for _, c := range grid.Columns {
		header = append(header, c.Label+" "+c.DayDate)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, r := range grid.Rows {
		line := []string{r.Label}
		for _, c := range grid.Columns {
			cell := r.Cells[c.Key]
			if cell == "" {
				cell = "-"
			}
			line = append(line, cell)
		}
		fmt.Fprintln(tw, strings.Join(line, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, d := range grid.Dropped {
		fmt.Fprintf(w, "skipped %s period %d (%s): %s\n", d.Shift.Date, d.Shift.TimePeriod, d.Shift.DoctorName, d.Reason)
	}
	return nil
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if _, err := db.Init(&cfg.Database); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
