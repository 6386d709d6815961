// Package report turns the `go test -json` event stream into a TestReport
// and renders it for a terminal.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"conduit-e2e/internal/domain/entity"

	"github.com/fatih/color"
)

type caseKey struct {
	pkg  string
	name string
}

// Collector accumulates events. Lines that are not JSON events, such as
// build failures, are kept as package-level output.
type Collector struct {
	cases   map[caseKey]*entity.TestCaseResult
	order   []caseKey
	started time.Time
	ended   time.Time
	stray   []string

	pkgOutput map[string][]string
	pkgFailed []string
}

func NewCollector() *Collector {
	return &Collector{
		cases:     make(map[caseKey]*entity.TestCaseResult),
		pkgOutput: make(map[string][]string),
	}
}

func (c *Collector) Add(ev entity.TestEvent) {
	if !ev.Time.IsZero() {
		if c.started.IsZero() || ev.Time.Before(c.started) {
			c.started = ev.Time
		}
		if ev.Time.After(c.ended) {
			c.ended = ev.Time
		}
	}
	if ev.Test == "" {
		c.addPackageEvent(ev)
		return
	}

	key := caseKey{pkg: ev.Package, name: ev.Test}
	tc, ok := c.cases[key]
	if !ok {
		tc = &entity.TestCaseResult{Package: ev.Package, Name: ev.Test}
		c.cases[key] = tc
		c.order = append(c.order, key)
	}

	switch ev.Action {
	case "output":
		tc.Output = append(tc.Output, strings.TrimRight(ev.Output, "\n"))
	case "pass":
		tc.Outcome = entity.OutcomePass
		tc.Duration = seconds(ev.Elapsed)
	case "fail":
		tc.Outcome = entity.OutcomeFail
		tc.Duration = seconds(ev.Elapsed)
	case "skip":
		tc.Outcome = entity.OutcomeSkip
		tc.Duration = seconds(ev.Elapsed)
	}
}

func (c *Collector) addPackageEvent(ev entity.TestEvent) {
	switch ev.Action {
	case "output", "build-output":
		line := strings.TrimRight(ev.Output, "\n")
		if ev.Package != "" && strings.TrimSpace(line) != "" {
			c.pkgOutput[ev.Package] = append(c.pkgOutput[ev.Package], line)
		}
	case "fail", "build-fail":
		// build-fail carries only ImportPath. The package's own fail event
		// follows it.
		if ev.Package != "" && !slices.Contains(c.pkgFailed, ev.Package) {
			c.pkgFailed = append(c.pkgFailed, ev.Package)
		}
	}
}

func (c *Collector) AddLine(line []byte) {
	var ev entity.TestEvent
	if err := json.Unmarshal(line, &ev); err != nil || ev.Action == "" {
		if s := strings.TrimSpace(string(line)); s != "" {
			c.stray = append(c.stray, s)
		}
		return
	}
	c.Add(ev)
}

// Stray returns lines that were not test events.
func (c *Collector) Stray() []string {
	return c.stray
}

// Report returns finished cases in the order they started. A case that never
// reported an outcome, because the binary crashed or timed out, counts as
// failed. A failed package whose cases all passed, or that has no cases, is
// reported as a package failure.
func (c *Collector) Report() entity.TestReport {
	r := entity.TestReport{Duration: c.ended.Sub(c.started)}
	explained := map[string]bool{}
	for _, key := range c.order {
		tc := *c.cases[key]
		if tc.Outcome == "" {
			tc.Outcome = entity.OutcomeFail
		}
		if tc.Outcome == entity.OutcomeFail {
			explained[tc.Package] = true
		}
		r.Cases = append(r.Cases, tc)
	}
	for _, pkg := range c.pkgFailed {
		if explained[pkg] {
			continue
		}
		r.PackageFailures = append(r.PackageFailures, entity.PackageFailure{
			Package: pkg,
			Output:  c.pkgOutput[pkg],
		})
	}
	return r
}

func Parse(r io.Reader) (entity.TestReport, error) {
	c := NewCollector()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		c.AddLine(sc.Bytes())
	}
	if err := sc.Err(); err != nil {
		return entity.TestReport{}, fmt.Errorf("failed to read test events: %w", err)
	}
	return c.Report(), nil
}

// Render writes one line per top-level case, output for failures, and a
// summary. Colour follows fatih/color's terminal detection.
func Render(w io.Writer, r entity.TestReport) {
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()
	skip := color.New(color.FgYellow).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	cases := append([]entity.TestCaseResult(nil), r.Cases...)
	sort.SliceStable(cases, func(i, j int) bool { return cases[i].Package < cases[j].Package })

	for _, tc := range cases {
		indent := strings.Repeat("  ", strings.Count(tc.Name, "/"))
		var mark string
		switch tc.Outcome {
		case entity.OutcomePass:
			mark = pass("PASS")
		case entity.OutcomeSkip:
			mark = skip("SKIP")
		default:
			mark = fail("FAIL")
		}
		fmt.Fprintf(w, "%s%s %s %s\n", indent, mark, tc.Name, dim(fmt.Sprintf("(%s)", tc.Duration.Round(time.Millisecond))))
		if tc.Outcome == entity.OutcomeFail {
			for _, line := range tc.Output {
				if strings.HasPrefix(strings.TrimSpace(line), "=== ") || strings.HasPrefix(strings.TrimSpace(line), "--- ") {
					continue
				}
				fmt.Fprintf(w, "%s    %s\n", indent, line)
			}
		}
	}

	for _, pf := range r.PackageFailures {
		fmt.Fprintf(w, "%s %s %s\n", fail("FAIL"), pf.Package, dim("(package)"))
		for _, line := range pf.Output {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}

	summary := fmt.Sprintf("%d passed, %d failed, %d skipped in %s",
		r.Count(entity.OutcomePass), r.Count(entity.OutcomeFail), r.Count(entity.OutcomeSkip), r.Duration.Round(time.Millisecond))
	if n := len(r.PackageFailures); n > 0 {
		summary += fmt.Sprintf(", %d package(s) failed", n)
	}
	if r.Passed() {
		fmt.Fprintln(w, pass(summary))
	} else {
		fmt.Fprintln(w, fail(summary))
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
