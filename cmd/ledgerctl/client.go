package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/google/subcommands"

	"github.com/mmynk/splitledger/pkg/api"
)

const defaultURL = "http://localhost:8080"

var errNoToken = errors.New("SPLITLEDGER_TOKEN is not set; run ledgerctl login first")

func newClient() *api.Client {
	url := os.Getenv("SPLITLEDGER_URL")
	if url == "" {
		url = defaultURL
	}
	return api.NewClient(&http.Client{Timeout: 30 * time.Second}, url)
}

// sessionClient returns a client carrying the token from the environment.
func sessionClient() (*api.Client, error) {
	token := os.Getenv("SPLITLEDGER_TOKEN")
	if token == "" {
		return nil, errNoToken
	}
	return newClient().WithToken(token), nil
}

// fail prints err and picks an exit status: usage errors for rejected
// input, failure for everything else.
func fail(w io.Writer, err error) subcommands.ExitStatus {
	fmt.Fprintf(w, "Error: %v\n", err)
	switch connect.CodeOf(err) {
	case connect.CodeInvalidArgument, connect.CodeUnauthenticated:
		return subcommands.ExitUsageError
	}
	if errors.Is(err, errNoToken) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
