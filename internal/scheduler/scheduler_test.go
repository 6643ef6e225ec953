package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jdpx/vidsweep/internal/analysis"
	"github.com/jdpx/vidsweep/internal/config"
	"github.com/jdpx/vidsweep/internal/models"
	"github.com/jdpx/vidsweep/internal/trash"
)

type fakeRunner struct {
	mu   sync.Mutex
	reqs []analysis.Request
	err  error
}

func (f *fakeRunner) Run(_ context.Context, req analysis.Request) (*models.RunResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &models.RunResult{RunID: "r1", FolderPath: req.Folder, TotalFiles: 3, DeletedCount: 1}, nil
}

func TestNew_RegistersJobs(t *testing.T) {
	jobs := []Job{
		{Name: "nightly", Folder: "/a", Cron: "0 3 * * *"},
		{Folder: "/b", Cron: "@hourly"},
	}
	s, err := New(&fakeRunner{}, &trash.Recorder{}, jobs, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Stop()

	entries := s.Entries()
	if len(entries) != 2 {
		t.Fatalf("entries = %v", entries)
	}
	if _, ok := entries["nightly"]; !ok {
		t.Error("nightly not registered")
	}
	if _, ok := entries["job-2"]; !ok {
		t.Error("unnamed job should get a generated name")
	}
}

func TestNew_RejectsBadJobs(t *testing.T) {
	if _, err := New(&fakeRunner{}, nil, []Job{{Name: "x", Cron: "not cron"}}, nil); err == nil {
		t.Error("expected error for invalid cron")
	}
	dup := []Job{{Name: "x", Cron: "@daily"}, {Name: "x", Cron: "@hourly"}}
	if _, err := New(&fakeRunner{}, nil, dup, nil); err == nil {
		t.Error("expected error for duplicate names")
	}
}

func TestRunJob_CallsRunnerAndHandler(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{}
	rec := &trash.Recorder{}
	var got *models.RunResult
	s, err := New(runner, rec, nil, func(job Job, r *models.RunResult) { got = r })
	if err != nil {
		t.Fatal(err)
	}
	defer s.Stop()

	p, _ := models.NewCleanupPolicy(5, models.Aspect9x16)
	s.runJob(Job{Name: "phone", Folder: dir, Cron: "@daily", Policy: p, DryRun: true})

	if len(runner.reqs) != 1 {
		t.Fatalf("runner called %d times", len(runner.reqs))
	}
	req := runner.reqs[0]
	if req.Folder != dir || req.Policy != p || !req.DryRun || req.Trash != rec {
		t.Errorf("request = %+v", req)
	}
	if got == nil || got.DeletedCount != 1 {
		t.Errorf("handler result = %+v", got)
	}
}

func TestRunJob_SkipsMissingFolderAndErrors(t *testing.T) {
	runner := &fakeRunner{}
	calls := 0
	s, _ := New(runner, &trash.Recorder{}, nil, func(Job, *models.RunResult) { calls++ })
	defer s.Stop()

	s.runJob(Job{Name: "gone", Folder: filepath.Join(t.TempDir(), "missing")})
	if len(runner.reqs) != 0 {
		t.Error("runner called for missing folder")
	}

	runner.err = errors.New("boom")
	s.runJob(Job{Name: "err", Folder: t.TempDir()})
	if calls != 0 {
		t.Errorf("handler called %d times after failures", calls)
	}
}

func TestJobsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Schedule.Cron = "0 4 * * *"
	cfg.Policy.Tolerance = 0.03
	cfg.Schedule.Jobs = []config.JobConfig{
		{Name: "a", Folder: "/a", MinDurationSeconds: 8, AspectRatio: "1:1"},
		{Name: "b", Folder: "/b", Cron: "@weekly", MinDurationSeconds: 2},
	}
	jobs, err := JobsFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if jobs[0].Cron != "0 4 * * *" || jobs[1].Cron != "@weekly" {
		t.Errorf("crons = %q, %q", jobs[0].Cron, jobs[1].Cron)
	}
	if jobs[0].Policy.AspectRatio != models.Aspect1x1 || jobs[0].Policy.Tolerance != 0.03 {
		t.Errorf("policy = %+v", jobs[0].Policy)
	}

	cfg.Schedule.Jobs = []config.JobConfig{{Folder: "/x", AspectRatio: "7:5"}}
	if _, err := JobsFromConfig(cfg); err == nil {
		t.Error("expected error for bad aspect ratio")
	}
}
