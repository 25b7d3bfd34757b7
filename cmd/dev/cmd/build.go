package cmd

import (
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gophertribe/devtool/build"
)

const buildImage = "gophertribe/gobuild:1.25-bookworm"

// target is a platform the cli is shipped for.
type target struct {
	name string
	os   string
	arch string
}

func (t target) native() bool {
	return t.os == runtime.GOOS && t.arch == runtime.GOARCH
}

// output is the binary path under dist/; cross builds carry the platform suffix.
func (t target) output() string {
	if t.native() {
		return "dist/htu21"
	}
	return fmt.Sprintf("dist/htu21-%s-%s", t.os, t.arch)
}

var targets = []target{
	{name: "rpi", os: "linux", arch: "arm64"},
	{name: "rpi32", os: "linux", arch: "arm"},
}

func resolveTarget(name string) (target, error) {
	if name == "" || name == "native" {
		return target{name: "native", os: runtime.GOOS, arch: runtime.GOARCH}, nil
	}
	i := slices.IndexFunc(targets, func(t target) bool { return t.name == name })
	if i < 0 {
		names := []string{"native"}
		for _, t := range targets {
			names = append(names, t.name)
		}
		return target{}, fmt.Errorf("unknown target %q, expected one of %s", name, strings.Join(names, ", "))
	}
	return targets[i], nil
}

// goBuildOpts injects AppVersion, GitCommit, GitBranch and BuildTime into
// cmd/htu21. Without hid the MCP2221 adapter is compiled out with cgo.
func goBuildOpts(t target, version string, hid bool) build.GoBuildOpts {
	return build.GoBuildOpts{
		Version:       version,
		InjectVersion: true,
		ConfigPackage: "main",
		EnableCgo:     hid,
		OS:            t.os,
		Arch:          t.arch,
	}
}

func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the htu21 cli for this host or a Raspberry Pi",
		Long: `Builds cmd/htu21 into dist/.

Targets: native (default), rpi (linux/arm64) and rpi32 (linux/arm). Cross
builds run inside the gobuild docker image, which carries the arm toolchains
needed by the cgo based hid library.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("target")
			version, _ := cmd.Flags().GetString("version")
			noHID, _ := cmd.Flags().GetBool("no-hid")
			inContainer, _ := cmd.Flags().GetBool("in-container")
			t, err := resolveTarget(name)
			if err != nil {
				return err
			}

			if t.native() || inContainer {
				slog.Info("building htu21", "target", t.name, "output", t.output(), "version", version)
				return build.GoBuild(t.output(), "./cmd/htu21", goBuildOpts(t, version, !noHID))
			}

			noCache, _ := cmd.Flags().GetBool("no-cache")
			containerArgs := []string{"run", "./cmd/dev", "build", "--in-container", "--target", t.name, "--version", version}
			if noHID {
				containerArgs = append(containerArgs, "--no-hid")
			}
			return build.Docker(cmd.Context(), "go", containerArgs, build.DockerBuildOpts{
				NoCache: noCache,
				Image:   buildImage,
			})
		},
	}
	cmd.Flags().String("target", "native", "platform to build for: native, rpi or rpi32")
	cmd.Flags().String("version", "latest", "version injected into the cli")
	cmd.Flags().Bool("no-hid", false, "build without cgo, dropping MCP2221 support")
	cmd.Flags().Bool("no-cache", false, "do not reuse the go build cache in the build container")
	cmd.Flags().Bool("in-container", false, "cross compile directly; set when running inside the build image")
	_ = cmd.Flags().MarkHidden("in-container")
	return cmd
}
