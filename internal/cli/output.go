package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"freqctl/internal/composecli"
	"freqctl/internal/fleet"
	"freqctl/internal/pairlist"
	"freqctl/internal/userdata"
)

// OutputFormat represents the output format for CLI commands
type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (expected table, json or yaml)", s)
	}
}

// RendererOptions contains options for result rendering
type RendererOptions struct {
	Format OutputFormat
	Quiet  bool
}

// Renderer writes command results in the requested output format.
type Renderer struct {
	out     io.Writer
	options RendererOptions
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer, options RendererOptions) *Renderer {
	if options.Format == "" {
		options.Format = OutputFormatTable
	}
	return &Renderer{out: out, options: options}
}

// BotRow couples a bot's compose definition with its observed container
// state.
type BotRow struct {
	fleet.Bot `yaml:",inline"`
	State     composecli.BotState `json:"state" yaml:"state"`
}

// Fleet renders the bot listing.
func (r *Renderer) Fleet(rows []BotRow) error {
	if rows == nil {
		rows = []BotRow{}
	}
	switch r.options.Format {
	case OutputFormatJSON:
		return r.renderJSON(rows)
	case OutputFormatYAML:
		return r.renderYAML(rows)
	default:
		if len(rows) == 0 {
			r.println(text.FgYellow.Sprint("No bots in the fleet"))
			return nil
		}
		t := r.newTable()
		t.AppendHeader(headerRow("name", "state", "strategy", "config", "pairlist", "api endpoint"))
		for _, row := range rows {
			t.AppendRow(table.Row{
				row.Name,
				formatState(row.State),
				row.Strategy,
				row.ConfigFile,
				row.Pairlist,
				dashIfEmpty(row.APIEndpoint()),
			})
		}
		t.Render()
		return nil
	}
}

// Bot renders one bot as a property table.
func (r *Renderer) Bot(row BotRow) error {
	switch r.options.Format {
	case OutputFormatJSON:
		return r.renderJSON(row)
	case OutputFormatYAML:
		return r.renderYAML(row)
	default:
		t := r.newTable()
		t.AppendHeader(headerRow("property", "value"))
		pairs := []struct {
			key   string
			value interface{}
		}{
			{"name", row.Name},
			{"state", formatState(row.State)},
			{"strategy", row.Strategy},
			{"config", row.ConfigFile},
			{"pairlist", row.Pairlist},
			{"image", row.Image},
			{"restart", row.Restart},
			{"api port", dashIfZero(row.APIPort)},
			{"endpoint", dashIfEmpty(row.APIEndpoint())},
		}
		for _, p := range pairs {
			t.AppendRow(table.Row{text.FgYellow.Sprint(p.key), p.value})
		}
		t.Render()
		return nil
	}
}

// Strategies renders the strategy catalog.
func (r *Renderer) Strategies(list []userdata.Strategy) error {
	if list == nil {
		list = []userdata.Strategy{}
	}
	switch r.options.Format {
	case OutputFormatJSON:
		return r.renderJSON(list)
	case OutputFormatYAML:
		return r.renderYAML(list)
	default:
		if len(list) == 0 {
			r.println(text.FgYellow.Sprint("No strategies found"))
			return nil
		}
		t := r.newTable()
		t.AppendHeader(headerRow("name", "class", "category", "modified"))
		for _, s := range list {
			t.AppendRow(table.Row{
				s.Name,
				s.ClassName,
				text.FgCyan.Sprint(s.Category),
				s.Modified,
			})
		}
		t.Render()
		return nil
	}
}

// Configs renders the bot config catalog.
func (r *Renderer) Configs(list []userdata.Config) error {
	if list == nil {
		list = []userdata.Config{}
	}
	switch r.options.Format {
	case OutputFormatJSON:
		return r.renderJSON(list)
	case OutputFormatYAML:
		return r.renderYAML(list)
	default:
		if len(list) == 0 {
			r.println(text.FgYellow.Sprint("No config files found"))
			return nil
		}
		t := r.newTable()
		t.AppendHeader(headerRow("file", "strategy", "mode", "timeframe", "trading", "freqai", "modified"))
		for _, c := range list {
			t.AppendRow(table.Row{
				c.Name,
				c.Strategy,
				text.FgCyan.Sprint(c.TradingMode),
				c.Timeframe,
				formatTrading(c.DryRun),
				formatEnabled(c.FreqAIEnabled),
				c.Modified,
			})
		}
		t.Render()
		return nil
	}
}

// Pairlists renders the pairlist catalog.
func (r *Renderer) Pairlists(list []pairlist.Info) error {
	if list == nil {
		list = []pairlist.Info{}
	}
	switch r.options.Format {
	case OutputFormatJSON:
		return r.renderJSON(list)
	case OutputFormatYAML:
		return r.renderYAML(list)
	default:
		if len(list) == 0 {
			r.println(text.FgYellow.Sprint("No pairlists found"))
			return nil
		}
		t := r.newTable()
		t.AppendHeader(headerRow("name", "pairs", "category"))
		for _, p := range list {
			t.AppendRow(table.Row{p.Name, p.PairCount, text.FgCyan.Sprint(p.Category)})
		}
		t.Render()
		return nil
	}
}

// PairlistDetail renders one pairlist's contents.
func (r *Renderer) PairlistDetail(p *pairlist.Pairlist) error {
	switch r.options.Format {
	case OutputFormatJSON, OutputFormatYAML:
		v := map[string]interface{}{
			"name":           p.Name,
			"pair_whitelist": p.Whitelist,
			"pair_blacklist": append([]string{}, p.Blacklist...),
		}
		if r.options.Format == OutputFormatJSON {
			return r.renderJSON(v)
		}
		return r.renderYAML(v)
	default:
		t := r.newTable()
		t.AppendHeader(headerRow("pair", "list"))
		for _, pair := range p.Whitelist {
			t.AppendRow(table.Row{pair, text.FgGreen.Sprint("whitelist")})
		}
		for _, pair := range p.Blacklist {
			t.AppendRow(table.Row{pair, text.FgRed.Sprint("blacklist")})
		}
		t.Render()
		return nil
	}
}

// State renders a single bot's container state.
func (r *Renderer) State(name string, state composecli.BotState) error {
	switch r.options.Format {
	case OutputFormatJSON:
		return r.renderJSON(map[string]string{"name": name, "state": string(state)})
	case OutputFormatYAML:
		return r.renderYAML(map[string]string{"name": name, "state": string(state)})
	default:
		fmt.Fprintf(r.out, "%s: %s\n", name, formatState(state))
		return nil
	}
}

// Message prints a human confirmation line. It is suppressed in quiet
// mode and under machine-readable formats, where it would corrupt the
// output stream.
func (r *Renderer) Message(format string, args ...interface{}) {
	if r.options.Quiet || r.options.Format != OutputFormatTable {
		return
	}
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Raw writes pre-formatted text as-is, regardless of format.
func (r *Renderer) Raw(s string) {
	fmt.Fprint(r.out, s)
	if !strings.HasSuffix(s, "\n") {
		fmt.Fprintln(r.out)
	}
}

func (r *Renderer) renderJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Fprintln(r.out, string(data))
	return nil
}

func (r *Renderer) renderYAML(v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	fmt.Fprint(r.out, string(data))
	return nil
}

func (r *Renderer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleRounded)
	return t
}

func (r *Renderer) println(s string) {
	if r.options.Quiet {
		return
	}
	fmt.Fprintln(r.out, s)
}

func headerRow(cols ...string) table.Row {
	row := make(table.Row, len(cols))
	for i, col := range cols {
		row[i] = text.FgHiCyan.Sprint(strings.ToUpper(col))
	}
	return row
}

// formatState adds color coding to container states
func formatState(state composecli.BotState) string {
	switch state {
	case composecli.StateRunning:
		return text.FgGreen.Sprint("🟢 " + string(state))
	case composecli.StateStopped:
		return text.FgRed.Sprint("🔴 " + string(state))
	case composecli.StateNotFound:
		return text.FgHiBlack.Sprint("⚫ " + string(state))
	default:
		return text.FgYellow.Sprint("🟡 " + string(state))
	}
}

// formatTrading makes live trading stand out; a dry run is the safe
// default.
func formatTrading(dryRun bool) string {
	if dryRun {
		return text.FgGreen.Sprint("dry-run")
	}
	return text.FgRed.Sprint("LIVE")
}

func formatEnabled(enabled bool) string {
	if enabled {
		return text.FgCyan.Sprint("enabled")
	}
	return text.FgHiBlack.Sprint("-")
}

func dashIfEmpty(s string) string {
	if s == "" {
		return text.FgHiBlack.Sprint("-")
	}
	return s
}

func dashIfZero(n int) interface{} {
	if n == 0 {
		return text.FgHiBlack.Sprint("-")
	}
	return n
}
