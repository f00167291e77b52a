package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/delaneyj/servable/binding"
	"github.com/delaneyj/servable/model"
	"github.com/delaneyj/servable/node"
	"github.com/delaneyj/servable/observability"
	"github.com/delaneyj/servable/observable"
	"github.com/delaneyj/servable/prefs"
	"github.com/delaneyj/servable/reference"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
)

const bestKey = "demo.best"

func demoCommand() *cli.Command {
	return &cli.Command{
		Name:   "demo",
		Usage:  "Bind a small scoreboard to a HUD and print what happened",
		Action: demo,
	}
}

// scoreboard is the demo model. Its members are found by reflection.
type scoreboard struct {
	Score *observable.Data[int]
	Best  *observable.Data[int]
	Reset *observable.Command
	Bonus *observable.Command1[int]
}

func newScoreboard() *scoreboard {
	return &scoreboard{
		Score: observable.NewData(0),
		Best:  observable.NewData(0),
		Reset: observable.NewCommand(),
		Bonus: observable.NewCommand1[int](),
	}
}

// hud renders the scoreboard it finds above its node.
type hud struct {
	binding.Base
	board *scoreboard
	out   io.Writer
}

var hudDecl = binding.Declare[*hud]().
	Method("enabled", func(h *hud) { fmt.Fprintln(h.out, "hud: shown") }, binding.OnEnable()).
	Method("disabled", func(h *hud) { fmt.Fprintln(h.out, "hud: hidden") }, binding.OnDisable()).
	Method("destroyed", func(h *hud) { fmt.Fprintln(h.out, "hud: destroyed") }, binding.OnDestroy()).
	Method("score", (*hud).score, binding.OnData("Score")).
	Method("best", (*hud).best, binding.OnData("Best")).
	Method("reset", (*hud).reset, binding.OnCommand("Reset")).
	Method("bonus", (*hud).bonus, binding.OnCommand("Bonus"))

func newHUD(n *node.Entity, board *scoreboard, out io.Writer, o observability.Observer) *hud {
	h := &hud{board: board, out: out}
	binding.Bind(hudDecl, h,
		binding.WithNode(n),
		binding.WithSource(board),
		binding.WithObserver(o),
	)
	return h
}

func (h *hud) score(v int) { fmt.Fprintf(h.out, "hud: score %d\n", v) }
func (h *hud) best(v int)  { fmt.Fprintf(h.out, "hud: best %d\n", v) }
func (h *hud) reset()      { fmt.Fprintln(h.out, "hud: reset") }

func (h *hud) bonus(points int) {
	fmt.Fprintf(h.out, "hud: bonus %d\n", points)
	h.board.Score.SetValue(h.board.Score.Value() + points)
}

func demo(ctx context.Context, cmd *cli.Command) error {
	return withStore(cmd, func(rt *env) error {
		reg := prometheus.NewRegistry()
		metrics, err := observability.NewPrometheusObserver(reg)
		if err != nil {
			return err
		}
		obs := observability.NewMultiObserver(observability.NewSlogObserver(rt.logger), metrics)
		observability.SetDefault(obs)
		defer observability.SetDefault(nil)
		prev := observable.SetErrorHandler(observability.Reporter(obs, observability.EventListenerFailure, "observable"))
		defer observable.SetErrorHandler(prev)

		out := rt.out
		game := node.New("game")
		screen := node.New("hud")
		game.AddChild(screen)

		board := newScoreboard()
		game.AddComponent(board)
		fmt.Fprintf(out, "best score loaded: %d\n", prefs.Get(rt.store, bestKey, 0))
		saver := prefs.Connect(board.Best, rt.store, bestKey, 0)

		view := newHUD(screen, board, out, obs)
		if found, ok := node.Parent[*scoreboard](view.Cache()); !ok || found != board {
			return fmt.Errorf("hud cannot see the scoreboard")
		}
		screen.AddComponent(view)

		opts := []reference.Option{reference.WithTTL(rt.cfg.ResolverTTL)}
		tracker := binding.NewDataBinding(reference.NewData[int](board, "Score", opts...), func(v int) {
			if v > board.Best.Value() {
				board.Best.SetValue(v)
			}
		}, binding.WithNode(screen), binding.WithObserver(obs))
		screen.AddComponent(tracker)

		resetter := binding.NewCommandBinding(reference.NewCommand(board, "Reset", opts...), func() {
			board.Score.SetValue(0)
		}, binding.WithNode(screen), binding.WithObserver(obs))
		screen.AddComponent(resetter)

		for _, points := range []int{10, 25, 5} {
			board.Score.SetValue(board.Score.Value() + points)
		}
		board.Bonus.Emit(50)
		resetter.Emit()

		screen.SetActive(false)
		board.Score.SetValue(7)
		screen.SetActive(true)

		printMembers(out, board)
		game.Destroy()
		board.Best.RemoveListener(saver)

		fmt.Fprintf(out, "best score saved: %d\n", prefs.Get(rt.store, bestKey, 0))
		fmt.Fprintf(out, "listeners left: %d\n", board.Score.ListenerCount()+board.Best.ListenerCount()+
			board.Reset.ListenerCount()+board.Bonus.ListenerCount())
		return printMetrics(out, reg)
	})
}

func printMembers(w io.Writer, target any) {
	tbl := table.NewWriter()
	tbl.SetTitle("Members")
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"member", "kind", "type", "value", "listeners"})
	for _, m := range model.Describe(target) {
		tbl.AppendRow(table.Row{m.Name, m.Kind, m.PayloadType, m.Value, m.Listeners})
	}
	tbl.Render()
}

func printMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	tbl := table.NewWriter()
	tbl.SetTitle("Events")
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"metric", "labels", "count"})
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			tbl.AppendRow(table.Row{mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue()})
		}
	}
	tbl.Render()
	return nil
}
