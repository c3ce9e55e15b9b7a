package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var jobsLimit int

var jobsCmd = &cobra.Command{
	Use:   "jobs <company-id>",
	Short: "List the most recently stored jobs of a company",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobs,
}

func init() {
	jobsCmd.Flags().IntVarP(&jobsLimit, "limit", "n", 20, "maximum number of jobs to show")
	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	return writeJobList(cmd.Context(), cmd.OutOrStdout(), a, args[0], jobsLimit)
}

// writeJobList prints up to limit stored jobs of one company, newest first.
func writeJobList(ctx context.Context, out io.Writer, a *app, companyID string, limit int) error {
	c, err := a.backing.GetCompany(ctx, companyID)
	if err != nil {
		return err
	}
	jobs, err := a.backing.ListJobs(ctx, c.ID, max(limit, 1))
	if err != nil {
		return err
	}

	platform := string(c.Platform)
	if platform == "" {
		platform = "unresolved"
	}
	fmt.Fprintf(out, "%s (%s)\n", c.Name, platform)
	fmt.Fprintln(out, strings.Repeat("─", 72))
	if len(jobs) == 0 {
		fmt.Fprintln(out, "no jobs stored")
		return nil
	}
	for _, j := range jobs {
		where := j.Location
		if j.Remote && !strings.Contains(strings.ToLower(where), "remote") {
			where = strings.TrimSpace(where + " (remote)")
		}
		fmt.Fprintf(out, "%-40s %-22s %s\n", j.Title, where, humanize.Time(j.FirstSeen))
		if j.PostingURL != "" {
			fmt.Fprintf(out, "  %s\n", j.PostingURL)
		}
	}
	return nil
}
