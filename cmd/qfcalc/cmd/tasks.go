package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// moneyPlaces is the rounding applied to currency amounts in output.
const moneyPlaces = 2

type format int

const (
	formatJSON format = iota
	formatYAML
)

// taskHeader is decoded from every task before its kind-specific fields.
type taskHeader struct {
	TaskID string `json:"task_id" yaml:"task_id"`
}

// taskOutput is one line item of the command output.
type taskOutput[T any] struct {
	TaskID string `json:"task_id"`
	Error  string `json:"error,omitempty"`
	Result *T     `json:"result,omitempty"`
}

// decoder fills v from one raw task.
type decoder func(v any) error

func newTaskCmd[In, Out any](opts *options, use, short string, process func(In) (Out, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, f, err := readInput(opts.inputPath, cmd.InOrStdin())
			if err != nil {
				writeFatal(cmd.OutOrStdout(), fmt.Sprintf("read input: %v", err))
				return ErrTasksFailed
			}
			return runTasks(cmd.OutOrStdout(), opts.logger, use, raw, f, process)
		},
	}
}

// runTasks decodes, processes and reports every task in raw, in order.
func runTasks[In, Out any](w io.Writer, logger zerolog.Logger, kind string, raw []byte, f format, process func(In) (Out, error)) error {
	decs, isArray, err := splitTasks(raw, f)
	if err != nil {
		writeFatal(w, fmt.Sprintf("parse input: %v", err))
		return ErrTasksFailed
	}

	failed := 0
	outputs := make([]taskOutput[Out], 0, len(decs))
	for i, dec := range decs {
		start := time.Now()
		out := runOne(i, dec, process)

		ev := logger.Debug()
		if out.Error != "" {
			failed++
			ev = logger.Warn().Str("error", out.Error)
		}
		ev.Str("task_id", out.TaskID).Str("kind", kind).Dur("elapsed", time.Since(start)).Msg("task finished")
		outputs = append(outputs, out)
	}

	var b []byte
	if isArray {
		b, err = json.Marshal(outputs)
	} else {
		b, err = json.Marshal(outputs[0])
	}
	if err != nil {
		writeFatal(w, fmt.Sprintf("encode output: %v", err))
		return ErrTasksFailed
	}
	fmt.Fprintln(w, string(b))

	if failed > 0 {
		logger.Info().Str("kind", kind).Int("failed", failed).Int("total", len(outputs)).Msg("done with errors")
		return ErrTasksFailed
	}
	return nil
}

func runOne[In, Out any](i int, dec decoder, process func(In) (Out, error)) taskOutput[Out] {
	var hdr taskHeader
	if err := dec(&hdr); err != nil {
		return taskOutput[Out]{TaskID: uuid.NewString(), Error: fmt.Sprintf("task %d: %v", i, err)}
	}
	out := taskOutput[Out]{TaskID: strings.TrimSpace(hdr.TaskID)}
	if out.TaskID == "" {
		out.TaskID = uuid.NewString()
	}

	var in In
	if err := dec(&in); err != nil {
		out.Error = fmt.Sprintf("task %d: %v", i, err)
		return out
	}
	res, err := process(in)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Result = &res
	return out
}

func readInput(path string, stdin io.Reader) ([]byte, format, error) {
	path = strings.TrimSpace(path)
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, formatJSON, err
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			return raw, formatYAML, nil
		}
		return raw, formatJSON, nil
	}

	if f, ok := stdin.(*os.File); ok {
		if st, err := f.Stat(); err == nil && (st.Mode()&os.ModeCharDevice) != 0 {
			return nil, formatJSON, errors.New("no input: pass --input or pipe tasks on stdin")
		}
	}
	raw, err := io.ReadAll(stdin)
	if err != nil {
		return nil, formatJSON, err
	}
	return raw, sniffFormat(raw), nil
}

// sniffFormat treats input that opens with '{' or '[' as JSON.
func sniffFormat(raw []byte) format {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return formatJSON
	}
	return formatYAML
}

// splitTasks returns one decoder per task and whether the input was a list.
func splitTasks(raw []byte, f format) ([]decoder, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, errors.New("empty input")
	}
	if f == formatYAML {
		return splitYAML(trimmed)
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, true, err
		}
		if len(items) == 0 {
			return nil, true, errors.New("empty input array")
		}
		decs := make([]decoder, len(items))
		for i, item := range items {
			item := item
			decs[i] = func(v any) error { return json.Unmarshal(item, v) }
		}
		return decs, true, nil
	}
	if !json.Valid(trimmed) {
		return nil, false, errors.New("invalid JSON")
	}
	return []decoder{func(v any) error { return json.Unmarshal(trimmed, v) }}, false, nil
}

func splitYAML(raw []byte) ([]decoder, bool, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, false, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, false, errors.New("empty input")
	}
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if len(root.Content) == 0 {
			return nil, true, errors.New("empty input array")
		}
		decs := make([]decoder, len(root.Content))
		for i, node := range root.Content {
			decs[i] = node.Decode
		}
		return decs, true, nil
	case yaml.MappingNode:
		return []decoder{root.Decode}, false, nil
	}
	return nil, false, fmt.Errorf("expected a task mapping or a list of tasks at line %d", root.Line)
}

func writeFatal(w io.Writer, msg string) {
	b, _ := json.Marshal(taskOutput[struct{}]{Error: msg})
	fmt.Fprintln(w, string(b))
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(moneyPlaces)
}
