// Package cli implements the mvnkit command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mvnkit/pkg/buildinfo"
	"github.com/matzehuels/mvnkit/pkg/errors"
	"github.com/matzehuels/mvnkit/pkg/workspace"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "mvnkit"

	// defaultBuildFile is read when --file is not given.
	defaultBuildFile = "mvnkit.toml"

	// defaultNamespace is the Redis workspace shared by every invocation
	// that does not pick one.
	defaultNamespace = "default"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose        bool
	buildFile      string
	defines        []string
	offline        bool
	redisAddr      string
	redisNamespace string

	index *workspace.Index
	close func() error
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "mvnkit resolves, installs and deploys Maven artifacts",
		Long:         `mvnkit reads a declarative build file listing POMs, dependency sets and build artifacts, resolves dependencies through a shared workspace and Maven repositories, and installs or deploys artifacts.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.Close()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVarP(&c.buildFile, "file", "f", defaultBuildFile, "build file (TOML or YAML)")
	flags.StringArrayVarP(&c.defines, "define", "D", nil, "set a property (key=value)")
	flags.BoolVar(&c.offline, "offline", false, "never contact remote repositories")
	flags.StringVar(&c.redisAddr, "redis", "", "share the workspace through Redis at host:port")
	flags.StringVar(&c.redisNamespace, "namespace", defaultNamespace, "Redis workspace namespace")

	root.AddCommand(c.coordsCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.installCommand())
	root.AddCommand(c.deployCommand())
	root.AddCommand(c.workspaceCommand())
	root.AddCommand(c.settingsCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Close releases the workspace store.
func (c *CLI) Close() error {
	if c.close == nil {
		return nil
	}
	err := c.close()
	c.close = nil
	c.index = nil
	return err
}

// =============================================================================
// Shared Helpers
// =============================================================================

// workspace returns the workspace index: a Redis namespace when --redis is
// set, the in-process index otherwise.
func (c *CLI) workspace(ctx context.Context) (*workspace.Index, error) {
	if c.index != nil {
		return c.index, nil
	}
	if c.redisAddr == "" {
		c.index = workspace.Default()
		return c.index, nil
	}
	store, err := workspace.DialRedis(ctx, workspace.RedisConfig{
		Addr:      c.redisAddr,
		Password:  os.Getenv("MVNKIT_REDIS_PASSWORD"),
		Namespace: c.redisNamespace,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "open workspace")
	}
	loggerFromContext(ctx).Debug("workspace", "redis", c.redisAddr, "namespace", store.Namespace())
	c.index = workspace.New(store)
	c.close = store.Close
	return c.index, nil
}

// properties parses the -D flags.
func (c *CLI) properties() (map[string]string, error) {
	return parseDefines(c.defines)
}

func parseDefines(defines []string) (map[string]string, error) {
	props := make(map[string]string, len(defines))
	for _, d := range defines {
		k, v, ok := strings.Cut(d, "=")
		if !ok || k == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid property %q, want key=value", d)
		}
		props[k] = v
	}
	return props, nil
}

// printProperties prints props sorted by key.
func printProperties(w io.Writer, props map[string]string) {
	for _, k := range slices.Sorted(maps.Keys(props)) {
		fmt.Fprintf(w, "%s=%s\n", k, props[k])
	}
}
