// Package diagnostics holds the self checks offered by the interactive shell.
package diagnostics

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"tempcast/internal/weather"
)

const rule = "=================================================="

// Result is the outcome of one check
type Result struct {
	Title  string
	Output string
	OK     bool
}

// Check runs a diagnostic and reports its outcome
type Check func(ctx context.Context) Result

// SchemaCheck validates the embedded sample payload with the given validator.
func SchemaCheck(validator weather.Validator) Check {
	return func(ctx context.Context) Result {
		res := Result{Title: "Schema Check Results"}

		if err := ctx.Err(); err != nil {
			res.Output = err.Error()
			return res
		}

		result, err := validator.Validate(weather.SamplePayload)
		if err != nil {
			res.Output = fmt.Sprintf("✗ Sample payload failed validation: %v", err)
			return res
		}

		site := result.Site()
		var b strings.Builder
		b.WriteString("✓ Sample payload validated\n")
		fmt.Fprintf(&b, "  - Temperature data: %d entries\n", result.Hourly().Len())
		fmt.Fprintf(&b, "  - Location: %g, %g\n", site.Latitude, site.Longitude)
		fmt.Fprintf(&b, "  - Timezone: %s\n", site.Timezone)

		res.Output = b.String()
		res.OK = true
		return res
	}
}

// BuildInfo lists the Go version, main module and dependencies of the running binary.
func BuildInfo(ctx context.Context) Result {
	return buildInfo(debug.ReadBuildInfo)
}

func buildInfo(read func() (*debug.BuildInfo, bool)) Result {
	res := Result{Title: "Build Info"}

	info, ok := read()
	if !ok {
		res.Output = "build information is not available"
		return res
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Go version: %s\n", info.GoVersion)
	fmt.Fprintf(&b, "Module: %s %s\n", info.Main.Path, info.Main.Version)
	if len(info.Deps) > 0 {
		b.WriteString("\nDependencies:\n")
	}
	for _, dep := range info.Deps {
		version := dep.Version
		if dep.Replace != nil {
			version = fmt.Sprintf("%s => %s %s", version, dep.Replace.Path, dep.Replace.Version)
		}
		fmt.Fprintf(&b, "  %s %s\n", dep.Path, version)
	}

	res.Output = b.String()
	res.OK = true
	return res
}

// Format renders a result the way the diagnostics view shows it
func (r Result) Format() string {
	return r.Title + ":\n" + rule + "\n\n" + r.Output
}
