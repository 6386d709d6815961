package entity

import "time"

// TestEvent mirrors one line of `go test -json` output.
type TestEvent struct {
	Time    time.Time `json:"Time"`
	Action  string    `json:"Action"`
	Package string    `json:"Package"`
	Test    string    `json:"Test"`
	Elapsed float64   `json:"Elapsed"`
	Output  string    `json:"Output"`
}

type TestOutcome string

const (
	OutcomePass TestOutcome = "pass"
	OutcomeFail TestOutcome = "fail"
	OutcomeSkip TestOutcome = "skip"
)

type TestCaseResult struct {
	Package  string
	Name     string
	Outcome  TestOutcome
	Duration time.Duration
	Output   []string
}

// PackageFailure is a package that failed without a failing case to show for
// it: a build error, a panic in TestMain, or a non-zero exit after all cases
// passed.
type PackageFailure struct {
	Package string
	Output  []string
}

type TestReport struct {
	Cases           []TestCaseResult
	PackageFailures []PackageFailure
	Duration        time.Duration
}

func (r TestReport) Count(o TestOutcome) int {
	n := 0
	for _, c := range r.Cases {
		if c.Outcome == o {
			n++
		}
	}
	return n
}

// Passed is true when no case and no package failed.
func (r TestReport) Passed() bool {
	return r.Count(OutcomeFail) == 0 && len(r.PackageFailures) == 0
}
