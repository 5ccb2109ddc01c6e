package main

import (
	"fmt"
	"io"
	"strconv"

	"baldr/internal/catalog"
	"baldr/internal/metadata"
)

func writeAssetTable(out io.Writer, records []catalog.AssetRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No assets")
		return
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Shortcut,
			r.Ref,
			r.Kind,
			r.Title,
			strconv.Itoa(r.MultiPartCount),
			strconv.Itoa(len(r.Samples)),
		})
	}
	writeTable(out,
		[]string{"Key", "Ref", "Kind", "Title", "Parts", "Samples"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	)
}

func writeSampleTable(out io.Writer, records []catalog.SampleRecord) {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Shortcut,
			r.Ref,
			r.Title,
			metadata.FormatDuration(r.StartTime),
			metadata.FormatDuration(r.Duration),
			formatSeconds(r.FadeIn),
			formatSeconds(r.FadeOut),
		})
	}
	writeTable(out,
		[]string{"Key", "Ref", "Title", "Start", "Duration", "Fade in", "Fade out"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "s"
}

func findRecord(records []catalog.AssetRecord, ref string) (catalog.AssetRecord, bool) {
	for _, r := range records {
		if r.Ref == ref {
			return r, true
		}
	}
	return catalog.AssetRecord{}, false
}
