package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command. The command list comes from
// DefaultRegistry.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskboard help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, HelpText(DefaultRegistry))
	return exitcode.Success
}

// HelpText renders the usage summary for every command in reg.
func HelpText(reg *Registry) string {
	var b strings.Builder
	b.WriteString("Usage:\n")
	b.WriteString("  taskboard                List tasks\n")
	for _, cmd := range reg.All() {
		fmt.Fprintf(&b, "  %-24s %s\n", cmd.Name(), cmd.Synopsis())
		fmt.Fprintf(&b, "      %s\n", cmd.Usage())
	}
	b.WriteString(commonFlagsText)
	return b.String()
}

const commonFlagsText = `
Statuses: Pending, "In Progress", Completed (also todo, doing, done)

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  TASKBOARD_API_URL   Task backend base URL (default http://localhost:8000)
`
