package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"sheetmark/adapters/report"
	"sheetmark/app"
	"sheetmark/domain/core"

	"github.com/spf13/cobra"
)

type gradeOptions struct {
	keyFile     string
	schemeID    string
	studentName string
	format      string
	annotateOut string
}

func newGradeCmd(appCtx *appContext) *cobra.Command {
	opts := &gradeOptions{}

	cmd := &cobra.Command{
		Use:   "grade <submission.xlsx>",
		Short: "Grade one submission and print its report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrade(cmd, appCtx, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.keyFile, "key", "k", "", "answer key workbook (defaults to ANSWER_KEY_FILE)")
	cmd.Flags().StringVarP(&opts.schemeID, "scheme", "s", "", "mark scheme ID (defaults to the built-in scheme)")
	cmd.Flags().StringVarP(&opts.studentName, "name", "n", "", "student name (derived from the filename when empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "report format: text or html")
	cmd.Flags().StringVar(&opts.annotateOut, "annotate", "", "also write an annotated copy of the submission to this path")
	return cmd
}

func runGrade(cmd *cobra.Command, appCtx *appContext, opts *gradeOptions, submissionPath string) error {
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
	submission, err := os.ReadFile(submissionPath)
	if err != nil {
		return fmt.Errorf("read submission: %w", err)
	}

	service, err := appCtx.service(false)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), appCtx.cfg.Grading.Timeout)
	defer cancel()

	result, err := service.Grade(ctx, app.GradeRequest{
		AnswerKey:   answerKey,
		Submission:  submission,
		StudentName: opts.studentName,
		StudentFile: filepath.Base(submissionPath),
		SchemeID:    core.SchemeID(opts.schemeID),
	})
	if err != nil {
		return err
	}

	switch opts.format {
	case "html":
		cmd.OutOrStdout().Write(report.Document(*result))
	default:
		fmt.Fprintln(cmd.OutOrStdout(), report.Text(*result))
	}

	if opts.annotateOut != "" {
		annotated, err := service.AnnotateSubmission(submission, *result)
		if err != nil {
			return fmt.Errorf("annotate submission: %w", err)
		}
		if err := os.WriteFile(opts.annotateOut, annotated, 0o644); err != nil {
			return fmt.Errorf("write annotated workbook: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Annotated workbook written to %s\n", opts.annotateOut)
	}
	return nil
}
