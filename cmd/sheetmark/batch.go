package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"sheetmark/adapters/artifact"
	"sheetmark/adapters/report"
	"sheetmark/app"
	"sheetmark/domain/core"
	"sheetmark/domain/grade"

	"github.com/spf13/cobra"
)

type batchOptions struct {
	keyFile     string
	schemeID    string
	concurrency int
	outDir      string
}

func newBatchCmd(appCtx *appContext) *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch <submissions-dir>",
		Short: "Grade every workbook in a directory and print a cohort summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, appCtx, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.keyFile, "key", "k", "", "answer key workbook (defaults to ANSWER_KEY_FILE)")
	cmd.Flags().StringVarP(&opts.schemeID, "scheme", "s", "", "mark scheme ID (defaults to the built-in scheme)")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "c", 0, "parallel submissions (defaults to BATCH_CONCURRENCY)")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "write a text report per submission to this directory")
	return cmd
}

func runBatch(cmd *cobra.Command, appCtx *appContext, opts *batchOptions, dir string) error {
	keyFile := opts.keyFile
	if keyFile == "" {
		keyFile = appCtx.cfg.Grading.AnswerKeyFile
	}
	if keyFile == "" {
		return fmt.Errorf("no answer key: pass --key or set ANSWER_KEY_FILE")
	}
	answerKey, err := os.ReadFile(keyFile)
	if err != nil {
		return fmt.Errorf("read answer key: %w", err)
	}

	requests, err := collectSubmissions(dir, answerKey, core.SchemeID(opts.schemeID))
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No .xlsx submissions found.")
		return nil
	}

	service, err := appCtx.service(false)
	if err != nil {
		return err
	}

	concurrency := opts.concurrency
	if concurrency < 1 {
		concurrency = appCtx.cfg.Grading.BatchConcurrency
	}

	ctx, cancel := context.WithTimeout(cmd.Context(),
		appCtx.cfg.Grading.Timeout*time.Duration(len(requests)))
	defer cancel()

	items := service.GradeBatch(ctx, requests, concurrency)

	var results []grade.EvaluationResult
	for _, item := range items {
		if item.Err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "FAILED  %s: %v\n", item.Request.StudentFile, item.Err)
			continue
		}
		results = append(results, *item.Result)
		fmt.Fprintf(cmd.OutOrStdout(), "%-40s %s/%s (%.1f%%)\n",
			item.Request.StudentFile,
			formatMarks(item.Result.Awarded), formatMarks(item.Result.Total),
			item.Result.Percentage)
	}

	if opts.outDir != "" && len(results) > 0 {
		if err := writeReports(ctx, opts.outDir, results); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reports written to %s\n", opts.outDir)
	}

	if len(results) > 0 {
		summary, err := app.BuildCohortSummary(results)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nCohort summary\n%s\n", summary)
	}
	return nil
}

func collectSubmissions(dir string, answerKey []byte, schemeID core.SchemeID) ([]app.GradeRequest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read submissions dir: %w", err)
	}

	var requests []app.GradeRequest
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".xlsx") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read submission %s: %w", entry.Name(), err)
		}
		requests = append(requests, app.GradeRequest{
			AnswerKey:   answerKey,
			Submission:  data,
			SchemeID:    schemeID,
			StudentFile: entry.Name(),
		})
	}
	return requests, nil
}

func writeReports(ctx context.Context, dir string, results []grade.EvaluationResult) error {
	store, err := artifact.NewLocalStore(dir)
	if err != nil {
		return err
	}
	for _, r := range results {
		name := strings.TrimSuffix(r.StudentFile, filepath.Ext(r.StudentFile)) + "_report.txt"
		if _, err := store.PutArtifact(ctx, name, "text/plain", []byte(report.Text(r))); err != nil {
			return err
		}
	}
	return nil
}

func formatMarks(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
