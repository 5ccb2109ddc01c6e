package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"baldr/internal/preflight"
)

type checkView struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Optional bool   `json:"optional"`
	Detail   string `json:"detail"`
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the media directory, catalog location and tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(invocationContext(cmd), cfg)

			if ctx.jsonOutput() {
				views := make([]checkView, 0, len(results))
				for _, r := range results {
					views = append(views, checkView(r))
				}
				if err := writeJSON(cmd, views); err != nil {
					return err
				}
			} else {
				rows := make([][]string, 0, len(results))
				for _, r := range results {
					rows = append(rows, []string{r.Name, checkStatus(r), r.Detail})
				}
				writeTable(cmd.OutOrStdout(), []string{"Check", "Status", "Detail"}, rows, nil)
			}

			if preflight.Failed(results) {
				return errors.New("doctor: required checks failed")
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "All required checks passed")
			return nil
		},
	}
}

func checkStatus(r preflight.Result) string {
	switch {
	case r.Passed:
		return "ok"
	case r.Optional:
		return "missing (optional)"
	default:
		return "failed"
	}
}
