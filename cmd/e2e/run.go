package main

import (
	"bufio"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"conduit-e2e/internal/infrastructure/env"
	"conduit-e2e/internal/infrastructure/report"

	"github.com/spf13/cobra"
)

const (
	defaultPackage = "./e2e/..."
	reportFileName = "last-report.jsonl"
)

var errTestsFailed = errors.New("tests failed")

type runOptions struct {
	files    []string
	profile  string
	pattern  string
	parallel int
	pkg      string
	verbose  bool
}

func newRunCmd() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the browser scenarios",
		Long: `Run all scenarios, or only those declared in the files given with --file.
The exit code is non-zero when any scenario fails.`,
		Example: `  e2e run
  e2e run --file e2e/login_test.go
  e2e run --profile pw-firefox --parallel 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(cmd, opts)
		},
	}
	cmd.Flags().StringSliceVarP(&opts.files, "file", "f", nil, "only run tests declared in these files")
	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "browser profile (see `e2e profiles`)")
	cmd.Flags().StringVar(&opts.pattern, "run", "", "go test -run pattern; with --file it narrows the file's tests")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 0, "maximum parallel tests (go test -parallel)")
	cmd.Flags().StringVar(&opts.pkg, "pkg", defaultPackage, "package pattern holding the scenarios")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "echo raw go test output")
	return cmd
}

func runSuite(cmd *cobra.Command, opts runOptions) error {
	pattern := opts.pattern
	if len(opts.files) > 0 {
		names, err := testNamesInFiles(opts.files)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			return fmt.Errorf("no tests found in %s", strings.Join(opts.files, ", "))
		}
		if pattern, err = filePattern(names, opts.pattern); err != nil {
			return err
		}
	}

	envSvc := env.NewEnvService()
	artifacts := envSvc.GetWithDefault(env.KeyArtifactsDir, "artifacts")
	if err := os.MkdirAll(artifacts, 0o755); err != nil {
		return err
	}
	out, err := os.Create(filepath.Join(artifacts, reportFileName))
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer out.Close()

	args := goTestArgs(pattern, opts.parallel, opts.pkg)
	goCmd := exec.CommandContext(cmd.Context(), "go", args...)
	goCmd.Env = os.Environ()
	if opts.profile != "" {
		goCmd.Env = append(goCmd.Env, env.KeyProfile+"="+opts.profile)
	}
	goCmd.Stderr = cmd.ErrOrStderr()
	stdout, err := goCmd.StdoutPipe()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "go %s\n", strings.Join(args, " "))
	if err := goCmd.Start(); err != nil {
		return fmt.Errorf("failed to start go test: %w", err)
	}

	collector := report.NewCollector()
	var echo io.Writer = io.Discard
	if opts.verbose {
		echo = cmd.ErrOrStderr()
	}
	sc := bufio.NewScanner(io.TeeReader(stdout, out))
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		collector.AddLine(sc.Bytes())
		fmt.Fprintln(echo, sc.Text())
	}
	waitErr := goCmd.Wait()

	for _, line := range collector.Stray() {
		fmt.Fprintln(cmd.ErrOrStderr(), line)
	}
	r := collector.Report()
	report.Render(cmd.OutOrStdout(), r)

	if !r.Passed() || waitErr != nil {
		return errTestsFailed
	}
	return nil
}

func goTestArgs(pattern string, parallel int, pkg string) []string {
	args := []string{"test", "-tags", "e2e", "-json", "-count=1"}
	if pattern != "" {
		args = append(args, "-run", pattern)
	}
	if parallel > 0 {
		args = append(args, "-parallel", fmt.Sprint(parallel))
	}
	return append(args, pkg)
}

// testNamesInFiles lists the top-level TestXxx(t *testing.T) functions
// declared in files.
func testNamesInFiles(files []string) ([]string, error) {
	fset := token.NewFileSet()
	seen := map[string]bool{}
	for _, f := range files {
		file, err := parser.ParseFile(fset, f, nil, parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f, err)
		}
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv != nil || !isTestName(fn.Name.Name) || !takesTestingT(fn) {
				continue
			}
			seen[fn.Name.Name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func isTestName(name string) bool {
	if name == "TestMain" || !strings.HasPrefix(name, "Test") {
		return false
	}
	rest := name[len("Test"):]
	return rest == "" || !(rest[0] >= 'a' && rest[0] <= 'z')
}

func takesTestingT(fn *ast.FuncDecl) bool {
	params := fn.Type.Params.List
	if len(params) != 1 || len(params[0].Names) > 1 {
		return false
	}
	star, ok := params[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}
	sel, ok := star.X.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && pkg.Name == "testing" && sel.Sel.Name == "T"
}

// filePattern narrows the tests found in --file by a --run pattern. The first
// element of run filters the top-level names. Any subtest elements are kept.
func filePattern(names []string, run string) (string, error) {
	if run == "" {
		return runPattern(names), nil
	}
	top, sub, hasSub := strings.Cut(run, "/")
	re, err := regexp.Compile(top)
	if err != nil {
		return "", fmt.Errorf("invalid --run pattern: %w", err)
	}
	var kept []string
	for _, n := range names {
		if re.MatchString(n) {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		return "", fmt.Errorf("no tests in --file match --run %q", run)
	}
	pattern := runPattern(kept)
	if hasSub {
		pattern += "/" + sub
	}
	return pattern, nil
}

func runPattern(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}
	return "^(" + strings.Join(quoted, "|") + ")$"
}
