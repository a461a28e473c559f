// Command ledgerctl is a command-line client for a splitledger server.
//
// The server URL is read from SPLITLEDGER_URL (default
// http://localhost:8080) and the session token from SPLITLEDGER_TOKEN, as
// printed by "ledgerctl login".
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

var commands = []subcommands.Command{
	&loginCmd{},
	&balancesCmd{},
	&pairCmd{},
	&groupCmd{},
	&activityCmd{},
	&settleCmd{},
}

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
