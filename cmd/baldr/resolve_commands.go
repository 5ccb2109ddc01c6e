package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"baldr/internal/catalog"
	"baldr/internal/schedule"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <uri>...",
		Short: "Resolve media addresses and everything they link to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx := invocationContext(cmd)
			sess, err := ctx.openSession(runCtx, cmd, schedule.NewLoop())
			if err != nil {
				return err
			}
			if _, err := sess.resolver.Resolve(runCtx, args...); err != nil {
				return err
			}
			snapshot := catalog.FromRegistry(sess.resolver.Registry(), time.Now())
			if ctx.jsonOutput() {
				return writeJSON(cmd, snapshot.Assets)
			}
			writeAssetTable(cmd.OutOrStdout(), snapshot.Assets)
			return nil
		},
	}
}

func newSamplesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "samples <uri>",
		Short: "List the samples of an audio or video asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx := invocationContext(cmd)
			sess, err := ctx.openSession(runCtx, cmd, schedule.NewLoop())
			if err != nil {
				return err
			}
			assets, err := sess.resolver.Resolve(runCtx, args[0])
			if err != nil {
				return err
			}
			a := assets[0]
			if !a.IsPlayable() {
				return fmt.Errorf("%s is a %s asset without samples", a.Ref(), a.Kind())
			}
			snapshot := catalog.FromRegistry(sess.resolver.Registry(), time.Now())
			record, ok := findRecord(snapshot.Assets, a.Ref())
			if !ok {
				return fmt.Errorf("%s: asset missing from registry", a.Ref())
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, record.Samples)
			}
			writeSampleTable(cmd.OutOrStdout(), record.Samples)
			return nil
		},
	}
}

type selectionPart struct {
	Position int    `json:"position"`
	Part     int    `json:"part"`
	URL      string `json:"url"`
}

type selectionView struct {
	URI     string          `json:"uri"`
	UUIDURI string          `json:"uuid_uri"`
	Parts   []selectionPart `json:"parts"`
}

func newSelectionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "selection <uri#parts>",
		Short: "Show the parts a multi-part selection addresses",
		Example: "  baldr selection ref:Score#2-4\n" +
			"  baldr selection ref:Score#1,3,7-",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx := invocationContext(cmd)
			sess, err := ctx.openSession(runCtx, cmd, schedule.NewLoop())
			if err != nil {
				return err
			}
			sel, err := sess.resolver.ResolveSelection(runCtx, args[0])
			if err != nil {
				return err
			}
			if sel == nil {
				return errors.New("address has no part selection; append one like #2-4")
			}

			view := selectionView{URI: sel.URI(), UUIDURI: sel.UUIDURI()}
			for i, no := range sel.PartNos() {
				url, err := sel.MultiPartHTTPURLByNo(i + 1)
				if err != nil {
					return err
				}
				view.Parts = append(view.Parts, selectionPart{Position: i + 1, Part: no, URL: url})
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%d of %d parts)\n", view.URI, sel.PartCount(), sel.Asset().MultiPartCount())
			rows := make([][]string, 0, len(view.Parts))
			for _, p := range view.Parts {
				rows = append(rows, []string{strconv.Itoa(p.Position), strconv.Itoa(p.Part), p.URL})
			}
			writeTable(out, []string{"#", "Part", "URL"}, rows, []columnAlignment{alignRight, alignRight, alignLeft})
			return nil
		},
	}
}
