// Command lincheck checks a recorded execution trace for sequential
// consistency under a chosen covering.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"
	"sort"
	"strings"

	"github.com/go-lincheck/lincheck/checker"
	"github.com/go-lincheck/lincheck/covering"
	"github.com/go-lincheck/lincheck/report"
	"github.com/go-lincheck/lincheck/trace"
)

func main() {
	traceFile := flag.String("trace", "", "path to a textual execution trace")
	coveringName := flag.String("covering", "external-causality", "dependency covering: program-order or external-causality")
	json := flag.Bool("json", false, "output the verdict as json")
	plain := flag.Bool("plain", true, "output the verdict as colored plain text")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file")
	ls := flag.Bool("ls", false, "list available coverings and exit")

	flag.Parse()

	if *ls {
		names := covering.Names()
		sort.Strings(names)
		fmt.Println(strings.Join(names, "\n"))
		return
	}

	if *traceFile == "" {
		fmt.Fprintln(os.Stderr, "lincheck: -trace is required")
		os.Exit(2)
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "lincheck:", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintln(os.Stderr, "lincheck:", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	abs, _ := filepath.Abs(*traceFile)
	fmt.Println("lincheck: loading trace:", abs)

	f, err := os.Open(*traceFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lincheck:", err)
		os.Exit(1)
	}
	defer f.Close()

	exec, err := trace.Load(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lincheck: loading trace:", err)
		os.Exit(1)
	}

	cov := covering.Get(*coveringName)
	verdict := checker.New(cov).Check(exec)

	if verdict == nil {
		if *json {
			fmt.Println(`{"consistent":true}`)
		} else if *plain {
			fmt.Println("sequentially consistent")
		}
		return
	}

	if *json {
		fmt.Printf(`{"consistent":false,"error":%q}`+"\n", verdict.Error())
	} else {
		report.Violation(exec, verdict, report.Severe)
	}
	os.Exit(1)
}
