// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// createCommand submits a new clip generation job.
func createCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Submit a clip generation job",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "url",
				Aliases:  []string{"u"},
				Usage:    "YouTube video URL",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "duration",
				Aliases: []string{"d"},
				Usage:   "Clip duration in seconds",
				Value:   30,
			},
			&cli.IntFlag{
				Name:  "clips",
				Usage: "Number of clips to generate",
				Value: 1,
			},
			&cli.StringFlag{
				Name:  "start",
				Usage: "Manual start time (MM:SS or seconds); omit for auto-detection",
			},
			&cli.StringFlag{
				Name:  "end",
				Usage: "Manual end time (MM:SS or seconds)",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Follow progress until the job finishes",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Create,
	}
}

// statusCommand fetches one job's state.
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the current state of a job",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "job_id"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Status,
	}
}

// watchCommand follows live job progress.
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Follow live progress events for a job",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "job_id"},
		},
		Action: r.Watch,
	}
}

// clipsCommand lists rendered clip files on the server.
func clipsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "clips",
		Usage: "List rendered clips available on the server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Clips,
	}
}

// activityCommand lists the session's recent server-side activity.
func activityCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "activity",
		Usage: "List recently completed jobs for this session",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Activity,
	}
}

// historyCommand manages the local submission history cache.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Local job submission history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List locally recorded submissions, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of entries to show",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "prune",
				Usage: "Delete all but the newest entries",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "keep",
						Usage: "Number of entries to keep",
						Value: 50,
					},
				},
				Action: r.HistoryPrune,
			},
		},
	}
}

// jobCommand groups the job recovery operations.
func jobCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "job",
		Usage: "Job inspection and recovery",
		Commands: []*cli.Command{
			{
				Name:  "debug",
				Usage: "Inspect server-side job state",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "job_id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.JobDebug,
			},
			{
				Name:  "fix",
				Usage: "Reconstruct missing clip data from server files",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "job_id"},
				},
				Action: r.JobFix,
			},
			{
				Name:  "refresh",
				Usage: "Re-extract captions and refresh the video URL",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "job_id"},
				},
				Action: r.JobRefresh,
			},
		},
	}
}

// editCommand opens the caption editor for a finished job.
func editCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "edit",
		Usage: "Open the interactive caption editor for a job",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "job_id"},
		},
		Action: r.Edit,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive clip workflow",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "job",
				Usage: "Resume watching an existing job instead of the input form",
			},
		},
		Action: r.TUI,
	}
}

// setupCommand handles setup operations for configuration and the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a starter config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the local history database",
				Action: r.SetupDatabase,
			},
		},
	}
}
