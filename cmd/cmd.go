// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// endpointFlags builds the connection flag set for one endpoint. An empty
// prefix yields bare --type/--path/--uri/--db flags for single-store
// commands; "source" and "target" prefix the migration pair.
func endpointFlags(prefix, usage string) []cli.Flag {
	name := func(s string) string {
		if prefix == "" {
			return s
		}
		return prefix + "-" + s
	}

	return []cli.Flag{
		&cli.StringFlag{
			Name:  name("type"),
			Usage: usage + " storage type (sqlite or mongodb)",
		},
		&cli.StringFlag{
			Name:  name("path"),
			Usage: usage + " SQLite file path",
		},
		&cli.StringFlag{
			Name:  name("uri"),
			Usage: usage + " MongoDB URI",
		},
		&cli.StringFlag{
			Name:  name("db"),
			Usage: usage + " MongoDB database name",
		},
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "vaultx.toml",
	}
}

// migrateCommand copies both entity batches from the source store to the target store
func migrateCommand(r *Runner) *cli.Command {
	flags := []cli.Flag{configFlag()}
	flags = append(flags, endpointFlags("source", "Source")...)
	flags = append(flags, endpointFlags("target", "Target")...)
	flags = append(flags,
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Preview changes without writing",
		},
		&cli.BoolFlag{
			Name:  "skip-cookies",
			Usage: "Exclude cookies from the migrated accounts",
		},
		&cli.BoolFlag{
			Name:  "strict-decode",
			Usage: "Fail on malformed stored cookies or member lists instead of dropping them",
		},
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "Skip the confirmation prompt",
		},
		&cli.FloatFlag{
			Name:  "throttle",
			Usage: "Cap upserts per second during writes (0 disables)",
		},
	)

	return &cli.Command{
		Name:   "migrate",
		Usage:  "Copy accounts and groups from one store to another",
		Flags:  flags,
		Action: r.MigrateRun,
	}
}

// verifyCommand compares the contents of two stores
func verifyCommand(r *Runner) *cli.Command {
	flags := []cli.Flag{configFlag()}
	flags = append(flags, endpointFlags("source", "Source")...)
	flags = append(flags, endpointFlags("target", "Target")...)
	flags = append(flags, &cli.BoolFlag{
		Name:  "strict-decode",
		Usage: "Fail on malformed stored cookies or member lists instead of dropping them",
	})

	return &cli.Command{
		Name:   "verify",
		Usage:  "Check that a target store matches its source after migration",
		Flags:  flags,
		Action: r.VerifyRun,
	}
}

// inspectCommand lists one store's contents
func inspectCommand(r *Runner) *cli.Command {
	flags := []cli.Flag{configFlag()}
	flags = append(flags, endpointFlags("", "Store")...)
	flags = append(flags, &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: text, json, or csv",
		Value:   "text",
	})

	return &cli.Command{
		Name:   "inspect",
		Usage:  "List the accounts and groups held in a store",
		Flags:  flags,
		Action: r.InspectRun,
	}
}

// seedCommand writes sample data into a store
func seedCommand(r *Runner) *cli.Command {
	flags := []cli.Flag{configFlag()}
	flags = append(flags, endpointFlags("", "Store")...)
	flags = append(flags,
		&cli.IntFlag{
			Name:  "accounts",
			Usage: "Number of sample accounts to create",
			Value: 3,
		},
		&cli.IntFlag{
			Name:  "groups",
			Usage: "Number of sample groups to create",
			Value: 1,
		},
	)

	return &cli.Command{
		Name:   "seed",
		Usage:  "Write sample accounts and groups into a store",
		Flags:  flags,
		Action: r.SeedRun,
	}
}

// browseCommand launches the interactive store browser
func browseCommand(r *Runner) *cli.Command {
	flags := []cli.Flag{configFlag()}
	flags = append(flags, endpointFlags("", "Store")...)

	return &cli.Command{
		Name:   "browse",
		Usage:  "Browse a store's accounts and groups interactively",
		Flags:  flags,
		Action: r.BrowseTUI,
	}
}
