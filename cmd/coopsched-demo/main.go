// Demonstration loop for the coopsched library.
//
// Two periodic tasks share the step loop: a reporter that samples system
// load/uptime and repaints a status line, and a beat task submitted from a
// separate goroutine through the ISR handoff path, standing in for interrupt
// context. On exit the per-task runtime stats are printed together with a
// randomart fingerprint of the run.

package main

import (
	"crypto/sha1"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docker/go-units"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/bgp59/coopsched"
)

// VERSION is injected by buildflags
var VERSION = "SELFBUILD"

const (
	DEMO_REPORT_INTERVAL_DEFAULT = 1 * time.Second
	DEMO_BEAT_INTERVAL_DEFAULT   = 250 * time.Millisecond
	DEMO_STEP_PAUSE              = 10 * time.Millisecond
)

type DemoConfig struct {
	ReportInterval time.Duration `yaml:"report_interval"`
	BeatInterval   time.Duration `yaml:"beat_interval"`
}

func defaultDemoConfig() *DemoConfig {
	return &DemoConfig{
		ReportInterval: DEMO_REPORT_INTERVAL_DEFAULT,
		BeatInterval:   DEMO_BEAT_INTERVAL_DEFAULT,
	}
}

// The reporter task context:
type reporter struct {
	scheduler *coopsched.Scheduler
	term      *coopsched.AnsiTerm
	interval  time.Duration
	useAnsi   bool
	beats     *uint64
}

func (r *reporter) taskFunc(ctx, arg any) {
	status, err := readSysStats()
	if err != nil {
		status = fmt.Sprintf("sys stats: %v", err)
	}
	if r.useAnsi {
		r.term.EraseLine()
		r.term.SetColors(coopsched.ANSI_TERM_COLOR_GREEN, coopsched.ANSI_TERM_COLOR_DEFAULT)
		r.term.Printf("%s", status)
		r.term.ResetColors()
		r.term.Printf("  beats=%d", *r.beats)
	} else {
		fmt.Printf("%s  beats=%d\n", status, *r.beats)
	}
	// Drift free periodic rescheduling, relative to the task's own deadline:
	r.scheduler.RescheduleIn(r.interval)
}

func runDemo(c *cli.Context) error {
	demoConfig := defaultDemoConfig()
	var schedulerConfig *coopsched.SchedulerConfig
	if cfgFile := c.String("config"); cfgFile != "" {
		coopschedConfig, err := coopsched.LoadConfig(cfgFile, demoConfig)
		if err != nil {
			return errors.Wrap(err, "load config")
		}
		if err := coopsched.SetLogger(coopschedConfig.LoggerConfig); err != nil {
			return errors.Wrap(err, "set logger")
		}
		schedulerConfig = coopschedConfig.SchedulerConfig
	}
	if interval := c.Duration("report-interval"); interval > 0 {
		demoConfig.ReportInterval = interval
	}

	scheduler, err := coopsched.NewScheduler(schedulerConfig)
	if err != nil {
		return errors.Wrap(err, "new scheduler")
	}

	beats := uint64(0)
	beatTask := coopsched.NewTask(
		func(ctx, arg any) { beats++ },
		nil,
		"beat",
	)

	rep := &reporter{
		scheduler: scheduler,
		term:      coopsched.NewAnsiTerm(os.Stdout),
		interval:  demoConfig.ReportInterval,
		useAnsi:   !c.Bool("no-ansi"),
		beats:     &beats,
	}
	reportTask := coopsched.NewTask(rep.taskFunc, nil, "report")
	if err := scheduler.SubmitNow(reportTask); err != nil {
		return err
	}

	// The beat producer runs on its own goroutine and submits through the
	// ISR path only, the Go stand-in for interrupt context:
	producerDone := make(chan struct{})
	producerStopped := make(chan struct{})
	go func() {
		defer close(producerStopped)
		ticker := time.NewTicker(demoConfig.BeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-producerDone:
				return
			case <-ticker.C:
				// A Full error just drops the beat:
				scheduler.ISRSubmitNow(beatTask)
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	stopTs := time.Now().Add(c.Duration("runtime"))
	runtimeExpired := false
	for !runtimeExpired {
		select {
		case <-sigChan:
			runtimeExpired = true
		default:
			if err := scheduler.Step(); err != nil {
				return err
			}
			if time.Now().After(stopTs) {
				runtimeExpired = true
			} else {
				time.Sleep(DEMO_STEP_PAUSE)
			}
		}
	}
	close(producerDone)
	<-producerStopped
	scheduler.Reset()
	if rep.useAnsi {
		rep.term.Printf("\n")
	}

	// The run's fingerprint: per-task stats and the randomart of their
	// digest.
	summary := ""
	for _, task := range []*coopsched.Task{reportTask, beatTask} {
		stats := task.SnapStats()
		summary += fmt.Sprintf(
			"task %s: calls=%d, total=%s, max=%s\n",
			task,
			stats[coopsched.TASK_STATS_CALL_COUNT],
			time.Duration(stats[coopsched.TASK_STATS_TOTAL_RUNTIME]),
			time.Duration(stats[coopsched.TASK_STATS_MAX_RUNTIME]),
		)
	}
	digest := sha1.Sum([]byte(summary))
	fmt.Printf(
		"\nran for %s:\n%s%s\n",
		units.HumanDuration(c.Duration("runtime")),
		summary,
		coopsched.DrunkenBishop(digest[:]),
	)
	return nil
}

func main() {
	myApp := cli.NewApp()
	myApp.Name = "coopsched-demo"
	myApp.Usage = "cooperative scheduler demonstration loop"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config,c",
			Usage: "YAML config file (coopsched_config + app_config sections)",
		},
		cli.DurationFlag{
			Name:  "runtime,t",
			Value: 10 * time.Second,
			Usage: "how long to run the step loop",
		},
		cli.DurationFlag{
			Name:  "report-interval,r",
			Usage: "override the report task interval",
		},
		cli.BoolFlag{
			Name:  "no-ansi",
			Usage: "plain line-by-line output, no terminal escapes",
		},
	}
	myApp.Action = runDemo
	if err := myApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
