package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/L1nMay/cidrscan/internal/model"
	"github.com/L1nMay/cidrscan/internal/report"
	"github.com/L1nMay/cidrscan/internal/scan"
)

var statusColors = map[model.Status]*color.Color{
	model.StatusOpen:    color.New(color.FgGreen, color.Bold),
	model.StatusClosed:  color.New(color.FgRed),
	model.StatusTimeout: color.New(color.FgYellow),
	model.StatusError:   color.New(color.FgMagenta),
}

// startProgress drives a progress bar from the runner's hub until the
// returned func is called.
func startProgress(r *scan.Runner, w io.Writer) func() {
	ch := r.HubSubscribe()
	bar := progressbar.NewOptions64(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("scanning"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range ch {
			if p.Total > 0 && bar.GetMax64() != p.Total {
				bar.ChangeMax64(p.Total)
			}
			if p.Done > 0 {
				_ = bar.Set64(p.Done)
			}
		}
	}()

	return func() {
		r.HubUnsubscribe(ch)
		<-done
		_ = bar.Finish()
	}
}

func printReport(w io.Writer, run *model.ScanRun, rep *report.Report, all bool) {
	entries := rep.Open()
	if all {
		entries = rep.Entries()
	}

	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "HOST\tPORT\tSTATE\tINFO")
	for _, e := range entries {
		state := statusColors[e.Outcome.Status].Sprint(e.Outcome.Status)
		fmt.Fprintf(tw, "%s\t%d/tcp\t%s\t%s\n", e.Target.Host, e.Target.Port, state, e.Outcome.Detail)
	}
	_ = tw.Flush()

	suffix := ""
	if !rep.Complete() {
		suffix = " (incomplete)"
	}
	color.New(color.FgCyan).Fprintf(w,
		"\n%s: %d targets, %d open, %d closed, %d timeout, %d errors in %s%s\n",
		run.Hosts, rep.Len(), run.Open, run.Closed, run.TimedOut, run.Errors,
		run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond), suffix)
}

func writeJSON(w io.Writer, run *model.ScanRun, rep *report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Run    *model.ScanRun `json:"run"`
		Report *report.Report `json:"report"`
	}{run, rep})
}
