package service

import (
	"context"
	"errors"
	"io"
	"time"

	"phonesanitizer/internal/phones/repository"
	apperrors "phonesanitizer/pkg/errors"
	"phonesanitizer/pkg/logger"
	"phonesanitizer/pkg/model"

	"github.com/google/uuid"
)

type JobOptions struct {
	BatchSize       int
	ContinueOnError bool
	RunID           string
	Log             *logger.Logger
	Audit           io.Writer
	Notifier        Notifier
}

type Report struct {
	RunID     string
	Summaries []Summary
	Duration  time.Duration
}

// Updated is the number of records rewritten across all collections.
func (r Report) Updated() int {
	total := 0
	for _, s := range r.Summaries {
		total += s.Updated
	}
	return total
}

type step func(ctx context.Context) (Summary, error)

// Job sanitizes Contacts and then Accounts, one collection at a time.
type Job struct {
	opts  JobOptions
	env   Env
	steps []step
}

func NewJob(
	contacts repository.Store[*model.Contact],
	accounts repository.Store[*model.Account],
	opts JobOptions,
) *Job {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Log == nil {
		opts.Log = logger.Discard()
	}

	env := Env{
		RunID:    opts.RunID,
		Log:      opts.Log.With(logger.RUN_ID, opts.RunID),
		Audit:    opts.Audit,
		Notifier: opts.Notifier,
	}

	contactType := model.ContactType(contacts.Collection())
	accountType := model.AccountType(accounts.Collection())

	return &Job{
		opts: opts,
		env:  env,
		steps: []step{
			func(ctx context.Context) (Summary, error) {
				return Run(ctx, env, contactType.Name, contacts, contactType.Fields, opts.BatchSize)
			},
			func(ctx context.Context) (Summary, error) {
				return Run(ctx, env, accountType.Name, accounts, accountType.Fields, opts.BatchSize)
			},
		},
	}
}

func (j *Job) RunID() string {
	return j.opts.RunID
}

// Run executes every collection in order. The first failure stops the job
// unless ContinueOnError is set, in which case the remaining collections still
// run and all failures are joined.
func (j *Job) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	report := Report{RunID: j.opts.RunID}

	j.env.Log.Info("Phone sanitizer job started",
		"batch_size", j.opts.BatchSize,
		"continue_on_error", j.opts.ContinueOnError,
	)

	var errs []error
	for _, run := range j.steps {
		summary, err := run(ctx)
		report.Summaries = append(report.Summaries, summary)
		if err == nil {
			continue
		}
		errs = append(errs, err)
		if !j.opts.ContinueOnError || ctx.Err() != nil {
			break
		}
	}

	report.Duration = time.Since(start)
	err := errors.Join(errs...)
	if err != nil {
		j.env.Log.Error("Phone sanitizer job failed",
			"code", apperrors.AsAppError(err).Code,
			"updated", report.Updated(),
			"duration", report.Duration,
			"error", err,
		)
		return report, err
	}

	j.env.Log.Info("Phone sanitizer job completed",
		"updated", report.Updated(),
		"duration", report.Duration,
	)
	return report, nil
}
