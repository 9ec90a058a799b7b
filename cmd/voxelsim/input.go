package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/voxelrealm/simcore/internal/dispatcher"
	"github.com/voxelrealm/simcore/internal/parser"
)

// readCommands dispatches one command per input line and writes one reply
// line per command: "ok <result>" or "error <message>". End of input stops
// reading but leaves the simulation running.
func (h *host) readCommands(ctx context.Context, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		command, args, ok := parser.ParseLine(scanner.Text())
		if !ok {
			continue
		}
		result, err := h.dispatch.Dispatch(dispatcher.Event{Command: command, Args: args})
		fmt.Fprintln(out, reply(result, err))
	}
	if err := scanner.Err(); err != nil {
		h.logger.Error("Input stream failed", "error", err)
		return
	}
	h.logger.Info("Input closed, simulation keeps running until signalled")
}

func reply(result any, err error) string {
	if err != nil {
		return "error " + err.Error()
	}
	switch v := result.(type) {
	case nil:
		return "ok"
	case string:
		return "ok " + v
	default:
		body, jerr := json.Marshal(v)
		if jerr != nil {
			return fmt.Sprintf("ok %v", v)
		}
		return "ok " + string(body)
	}
}
