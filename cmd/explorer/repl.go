package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/topicexplorer/internal/engine"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/event"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/render"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/topic"
)

var (
	replLogLevel string
	replNoColor  bool
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Explore from the terminal",
	Long: `Commands:
  topic <query>     look up a topic and start a new exploration
  open <n|text>     explore subtopic number n, or the subtopic named text
  back, fwd         move through the explored topics
  limit <n>         show at most n subtopics
  order <pref>      subtopic order: default or random
  graph             print the exploration graph
  quit              leave`,
	RunE: runREPL,
}

func init() {
	replCmd.Flags().StringVar(&replLogLevel, "log-level", "error", "log level while the REPL runs")
	replCmd.Flags().BoolVar(&replNoColor, "no-color", false, "disable colored output")
	rootCmd.AddCommand(replCmd)
}

func runREPL(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if replNoColor {
		color.NoColor = true
	}
	rt, err := setup(ctx, replLogLevel)
	if err != nil {
		return err
	}
	defer rt.close()

	r := newREPL(rt.eng, cmd.OutOrStdout())
	return r.run(ctx, cmd.InOrStdin())
}

var errQuit = errors.New("quit")

// repl runs one command at a time. An exploration blocks the prompt until
// its result is in.
type repl struct {
	eng   *engine.Engine
	out   io.Writer
	style render.Style
	last  render.View
}

func newREPL(eng *engine.Engine, out io.Writer) *repl {
	if out == nil {
		out = os.Stdout
	}
	return &repl{
		eng: eng,
		out: out,
		style: render.Style{
			Heading: color.New(color.Bold, color.FgCyan).SprintFunc(),
			Error:   color.New(color.FgRed).SprintFunc(),
			Dim:     color.New(color.Faint).SprintFunc(),
		},
	}
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	r.show(r.eng.Store().State())

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		c, err := parseCommand(sc.Text(), r.last)
		switch {
		case errors.Is(err, errQuit):
			return nil
		case err != nil:
			fmt.Fprintln(r.out, err)
		case c.graph:
			_ = render.WriteGraph(r.out, render.Full(r.eng.Store().State()))
		case c.ev != nil:
			if err := r.exec(ctx, c.ev); err != nil {
				fmt.Fprintln(r.out, err)
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return sc.Err()
}

func (r *repl) exec(ctx context.Context, ev *event.Event) error {
	if !ev.IsExploration() {
		st, err := r.eng.Handle(ctx, ev)
		if errors.Is(err, event.ErrIgnored) {
			return nil
		}
		if err == nil {
			r.show(st)
		}
		return err
	}

	states, unsubscribe := r.eng.Store().Subscribe()
	defer unsubscribe()
	<-states // current State, already shown

	st, err := r.eng.Handle(ctx, ev)
	r.show(st)
	if err != nil {
		return err
	}
	for {
		select {
		case st, ok := <-states:
			if !ok {
				return nil
			}
			if !st.IsLoading {
				r.show(st)
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *repl) show(st topic.State) {
	r.last = render.Project(st, nil)
	_ = r.style.WriteText(r.out, r.last)
}

// command is one parsed input line: an event for the engine, or a request
// to print the graph.
type command struct {
	ev    *event.Event
	graph bool
}

// parseCommand turns one input line into a command. last is the view the
// user is looking at; "open n" refers to its numbering. A blank line gives
// the zero command.
func parseCommand(line string, last render.View) (command, error) {
	verb, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(verb) {
	case "":
		return command{}, nil
	case "quit", "exit":
		return command{}, errQuit
	case "topic", "t":
		if arg == "" {
			return command{}, errors.New("usage: topic <query>")
		}
		return command{ev: &event.Event{Type: event.TypeKeySubmit, Key: event.SubmitKey, Query: arg}}, nil
	case "open", "o":
		ev, err := openEvent(arg, last)
		return command{ev: ev}, err
	case "back", "b":
		return command{ev: &event.Event{Type: event.TypeNavigateBack}}, nil
	case "fwd", "forward", "f":
		return command{ev: &event.Event{Type: event.TypeNavigateForward}}, nil
	case "limit":
		return command{ev: &event.Event{Type: event.TypeChangeLimit, Value: arg}}, nil
	case "order":
		return command{ev: &event.Event{Type: event.TypeChangePreference, Value: arg}}, nil
	case "graph":
		return command{graph: true}, nil
	default:
		return command{}, fmt.Errorf("unknown command %q (try: topic, open, back, fwd, limit, order, graph, quit)", verb)
	}
}

func openEvent(arg string, last render.View) (*event.Event, error) {
	if !last.ShowContent {
		return nil, errors.New("nothing to open yet")
	}
	if arg == "" {
		return nil, errors.New("usage: open <n|text>")
	}
	var item *render.SubtopicItem
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(last.Subtopics) {
			return nil, fmt.Errorf("no subtopic %d (1-%d)", n, len(last.Subtopics))
		}
		item = &last.Subtopics[n-1]
	} else {
		for i := range last.Subtopics {
			if strings.EqualFold(last.Subtopics[i].Text, arg) {
				item = &last.Subtopics[i]
				break
			}
		}
		if item == nil {
			return nil, fmt.Errorf("no subtopic named %q", arg)
		}
	}
	idx := item.TopicIndex
	return &event.Event{Type: event.TypeSubtopicClick, TopicIndex: &idx, Subtopic: item.Text}, nil
}
