package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioFile = `//go:build e2e

package e2e

import "testing"

func TestMain(m *testing.M) {}

func TestLogin_EmptyForm(t *testing.T) {}

func TestLogin_EmailOnly(t *testing.T) {}

func Testlowercase(t *testing.T) {}

func TestHelper(tb testing.TB) {}

func BenchmarkLogin(b *testing.B) {}

func helper(t *testing.T) {}
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "login_test.go")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestTestNamesInFiles(t *testing.T) {
	names, err := testNamesInFiles([]string{writeFile(t, scenarioFile)})

	require.NoError(t, err)
	assert.Equal(t, []string{"TestLogin_EmailOnly", "TestLogin_EmptyForm"}, names)
}

func TestTestNamesInFiles_ParseError(t *testing.T) {
	_, err := testNamesInFiles([]string{writeFile(t, "package e2e\nfunc {")})

	assert.ErrorContains(t, err, "failed to parse")
}

func TestRunPattern(t *testing.T) {
	pattern := runPattern([]string{"TestLogin_EmailOnly", "TestLogin_EmptyForm"})

	assert.Equal(t, "^(TestLogin_EmailOnly|TestLogin_EmptyForm)$", pattern)
	re := regexp.MustCompile(pattern)
	assert.True(t, re.MatchString("TestLogin_EmptyForm"))
	assert.False(t, re.MatchString("TestLogin_EmptyFormX"))
}

func TestGoTestArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"test", "-tags", "e2e", "-json", "-count=1", "./e2e/..."},
		goTestArgs("", 0, defaultPackage))
	assert.Equal(t,
		[]string{"test", "-tags", "e2e", "-json", "-count=1", "-run", "^(TestA)$", "-parallel", "2", "./e2e/..."},
		goTestArgs("^(TestA)$", 2, defaultPackage))
}

func TestIsTestName(t *testing.T) {
	assert.True(t, isTestName("Test"))
	assert.True(t, isTestName("TestLogin"))
	assert.True(t, isTestName("Test_login"))
	assert.False(t, isTestName("Testlogin"))
	assert.False(t, isTestName("TestMain"))
	assert.False(t, isTestName("Login"))
}

func TestReportCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"Action":"pass","Package":"conduit-e2e/e2e","Test":"TestLogin_EmptyForm","Elapsed":0.5}`+"\n"), 0o600))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"report", "--from", path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "TestLogin_EmptyForm")
	assert.Contains(t, out.String(), "1 passed, 0 failed, 0 skipped")
}

func TestReportCmd_Missing(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"report", "--from", filepath.Join(t.TempDir(), "missing.jsonl")})

	assert.Error(t, cmd.Execute())
}

func TestProfilesCmd(t *testing.T) {
	t.Setenv("E2E_PROFILES_FILE", "")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"profiles"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "pw-webkit")
	assert.Contains(t, out.String(), "(default)")
}

func TestReportCmd_PackageFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	stream := `{"Action":"pass","Package":"conduit-e2e/e2e","Test":"TestLogin_EmptyForm","Elapsed":0.5}
{"Action":"fail","Package":"conduit-e2e/other","Elapsed":0}
`
	require.NoError(t, os.WriteFile(path, []byte(stream), 0o600))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"report", "--from", path})

	assert.ErrorIs(t, cmd.Execute(), errTestsFailed)
	assert.Contains(t, out.String(), "FAIL conduit-e2e/other (package)")
}

func TestFilePattern(t *testing.T) {
	names := []string{"TestLogin_EmailOnly", "TestLogin_EmptyForm", "TestLogin_ValidCredentials"}

	all, err := filePattern(names, "")
	require.NoError(t, err)
	assert.Equal(t, runPattern(names), all)

	narrowed, err := filePattern(names, "Empty|Valid")
	require.NoError(t, err)
	assert.Equal(t, "^(TestLogin_EmptyForm|TestLogin_ValidCredentials)$", narrowed)

	sub, err := filePattern(names, "EmailOnly/disabled")
	require.NoError(t, err)
	assert.Equal(t, "^(TestLogin_EmailOnly)$/disabled", sub)
}

func TestFilePattern_NoMatch(t *testing.T) {
	_, err := filePattern([]string{"TestLogin_EmptyForm"}, "Registration")

	assert.ErrorContains(t, err, `no tests in --file match --run "Registration"`)
}

func TestFilePattern_BadRegexp(t *testing.T) {
	_, err := filePattern([]string{"TestLogin_EmptyForm"}, "(")

	assert.ErrorContains(t, err, "invalid --run pattern")
}
