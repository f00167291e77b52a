package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/servable/binding"
	"github.com/delaneyj/servable/observability"
	"github.com/delaneyj/servable/observable"
	"github.com/delaneyj/servable/reference"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
)

var profile = flag.String("profile", "", "write a CPU profile to this file")

func main() {
	flag.Parse()

	if *profile != "" {
		f, err := os.Create(*profile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	observability.SetDefault(observability.NoOpObserver{})

	log.Printf("warming up")
	benchmarkPropagate(false)

	benchmarkPropagate(true)
	benchmarkCommands(true)
	benchmarkBindings(true)
	benchmarkResolve(true)
}

var (
	ww    = []int{1, 10, 100, 1_000}
	hh    = []int{1, 10, 100}
	iters = 100
)

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func appendCalc(tbl table.Writer, name string, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	tbl.AppendRows([]table.Row{
		{
			name,
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		},
	})
}

// chain links h Data values behind src, each one set to its predecessor
// plus one, and returns the last.
func chain(src *observable.Data[int], h int) *observable.Data[int] {
	last := src
	for j := 0; j < h; j++ {
		next := observable.NewData(0)
		last.AddListener(func(v int) { next.SetValue(v + 1) })
		last = next
	}
	return last
}

func benchmarkPropagate(shouldRender bool) {
	tbl := newTable("Data propagation")

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			src := observable.NewData(1)
			for i := 0; i < w; i++ {
				chain(src, h).AddListener(func(int) {})
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.SetValue(src.Value() + 1)
				tach.AddTime(time.Since(start))
			}
			appendCalc(tbl, fmt.Sprintf("propagate: %d * %d", w, h), tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

func benchmarkCommands(shouldRender bool) {
	tbl := newTable("Command fan-out")

	for _, w := range ww {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		cmd := observable.NewCommand1[int]()
		sum := 0
		for i := 0; i < w; i++ {
			cmd.AddListener(func(v int) { sum += v })
		}

		for i := 0; i < iters; i++ {
			start := time.Now()
			cmd.Emit(i)
			tach.AddTime(time.Since(start))
		}
		appendCalc(tbl, fmt.Sprintf("emit: %s listeners", humanize.Comma(int64(w))), tach)
	}

	if shouldRender {
		tbl.Render()
	}
}

type counter struct {
	Value *observable.Data[int]
}

func benchmarkBindings(shouldRender bool) {
	tbl := newTable("Bound handlers")

	for _, w := range ww {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		model := &counter{Value: observable.NewData(0)}
		bindings := make([]*binding.DataBinding[int], 0, w)
		for i := 0; i < w; i++ {
			b := binding.NewDataBinding(reference.NewData[int](model, "Value"), func(int) {})
			b.Construct()
			bindings = append(bindings, b)
		}

		for i := 0; i < iters; i++ {
			start := time.Now()
			model.Value.SetValue(model.Value.Value() + 1)
			tach.AddTime(time.Since(start))
		}
		for _, b := range bindings {
			b.Destroy()
		}
		if n := model.Value.ListenerCount(); n != 0 {
			log.Fatalf("%d listeners left after destroy", n)
		}
		appendCalc(tbl, fmt.Sprintf("bound: %s bindings", humanize.Comma(int64(w))), tach)
	}

	if shouldRender {
		tbl.Render()
	}
}

func benchmarkResolve(shouldRender bool) {
	tbl := newTable("Reference resolution")

	model := &counter{Value: observable.NewData(0)}
	for _, ttl := range []time.Duration{0, reference.DefaultTTL} {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})
		ref := reference.NewData[int](model, "Value", reference.WithTTL(ttl))

		for i := 0; i < iters; i++ {
			start := time.Now()
			if ref.Observable() == nil {
				log.Fatal("reference did not resolve")
			}
			tach.AddTime(time.Since(start))
		}
		appendCalc(tbl, fmt.Sprintf("resolve: ttl %s", ttl), tach)
	}

	if shouldRender {
		tbl.Render()
	}
}
