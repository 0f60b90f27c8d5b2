package router

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	routerAnnotation = regexp.MustCompile(`(?m)^// @Router\s+(\S+) \[(\w+)\]$`)
	pathParam        = regexp.MustCompile(`\{(\w+)\}`)
)

// documentedRoutes collects the @Router annotations of the handler package in
// Routes() form
func documentedRoutes(t *testing.T) []string {
	t.Helper()
	files, err := filepath.Glob(filepath.Join("..", "handler", "*.go"))
	require.NoError(t, err)

	var out []string
	for _, f := range files {
		if strings.HasSuffix(f, "_test.go") {
			continue
		}
		src, err := os.ReadFile(f)
		require.NoError(t, err)
		for _, m := range routerAnnotation.FindAllStringSubmatch(string(src), -1) {
			if m[1] == "/health" {
				continue
			}
			out = append(out, strings.ToUpper(m[2])+" "+pathParam.ReplaceAllString(m[1], ":$1"))
		}
	}
	return out
}

func TestAPIAnnotations_MatchRegisteredRoutes(t *testing.T) {
	ledger := NewRouteGroup("")
	registerLedgerRoutes(ledger, Handlers{})

	documented := documentedRoutes(t)
	require.NotEmpty(t, documented)
	assert.ElementsMatch(t, ledger.Routes(), documented)
}
