package telemetry

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/posthog/posthog-go"
)

type client struct {
	posthog.Client
}

var c *client

// apiKey is set at build time with
// -ldflags "-X github.com/ergomake/envform/internal/telemetry.apiKey=<key>".
var apiKey = ""

const endpoint = "https://app.posthog.com"

func getAPIKey() string {
	if key := os.Getenv("EF_TELEMETRY_KEY"); key != "" {
		return key
	}

	return apiKey
}

// Init is a no-op when telemetry is disabled or no key is available.
func Init() {
	if !isEnabled() {
		return
	}

	ph, err := posthog.NewWithConfig(getAPIKey(), posthog.Config{Endpoint: endpoint})
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "fail to init telemetry"))
		return
	}

	c = &client{ph}
}

func isEnabled() bool {
	if getAPIKey() == "" {
		return false
	}

	env := strings.ToLower(os.Getenv("EF_TELEMETRY_DISABLED"))
	return env != "1" && env != "yes" && env != "true"
}

func Close() {
	if c == nil || !isEnabled() {
		return
	}

	err := c.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "fail to close telemetry"))
	}
}

type Event string

const EventRunCommand Event = "user run command"

// Push never reports the names or values of variables, only the command
// and the type of context it ran against.
func Push(event Event, command, contextType string) {
	if c == nil || !isEnabled() {
		return
	}

	err := c.Enqueue(posthog.Capture{
		DistinctId: getDistinctId(),
		Event:      string(event),
		Properties: posthog.NewProperties().Set("command", command).Set("contextType", contextType),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "fail to enqueue telemetry"))
	}
}

func getDistinctId() string {
	id := uuid.NewString()

	homedir, err := os.UserHomeDir()
	if err != nil {
		return id
	}

	efDir := path.Join(homedir, ".envform")
	err = os.MkdirAll(efDir, 0700)
	if err != nil {
		return id
	}

	fpath := path.Join(efDir, "userid")

	bs, err := os.ReadFile(fpath)
	if err != nil {
		os.WriteFile(fpath, []byte(id), 0644)
		return id
	}

	prevId, err := uuid.ParseBytes(bs)
	if err != nil {
		os.WriteFile(fpath, []byte(id), 0644)
		return id
	}

	return prevId.String()
}
