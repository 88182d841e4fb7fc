package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/pflag"

	"github.com/asimihsan/release_gate/internal/audit/sqlite"
)

func runHistoryCommand(ctx context.Context, args []string, w io.Writer) error {
	flags := pflag.NewFlagSet("history", pflag.ContinueOnError)
	dbPath := flags.String("db", ".release-gate/history.db", "SQLite decision history path")
	limit := flags.Int("limit", 20, "Number of decisions to list")
	if err := flags.Parse(args); err != nil {
		return err
	}

	// Listing must not create an empty database.
	if _, err := os.Stat(*dbPath); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(w, "No decisions recorded in %s\n", *dbPath)
		return nil
	} else if err != nil {
		return err
	}

	store, err := sqlite.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(ctx, *limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(w, "No decisions recorded in %s\n", store.Path())
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Recorded", "Build", "Version", "Previous", "Revision", "Publish", "Error"})
	for _, e := range entries {
		publish := "-"
		if e.PublishAllowed != nil {
			publish = strconv.FormatBool(*e.PublishAllowed)
			if !*e.PublishAllowed && len(e.DenyReasons) > 0 {
				publish += " (" + strings.Join(e.DenyReasons, "; ") + ")"
			}
		}
		t.AppendRow(table.Row{
			e.ID,
			e.RecordedAt.Local().Format("2006-01-02 15:04:05"),
			e.ShouldBuild,
			e.Version,
			e.PreviousVersion,
			e.CurrentRevision,
			publish,
			e.Error,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}
