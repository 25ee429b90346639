// Command autoload 根据配置文件解析类名、查看已注册的自动加载器以及生成类映射。
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/qq1060656096/autoload/config"
	"github.com/qq1060656096/autoload/hook"
	"github.com/qq1060656096/autoload/internal/ctxlog"
	"github.com/qq1060656096/autoload/registry"
)

// errUnresolved 表示 resolve 命令中至少有一个类没有找到。
var errUnresolved = errors.New("one or more classes could not be resolved")

func main() {
	if err := run(context.Background(), os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// run 执行命令行，便于在测试中替换输出。
func run(ctx context.Context, out, errOut io.Writer, args []string) error {
	root := newRootCommand(out, errOut)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// rootOptions 是所有子命令共享的参数。
type rootOptions struct {
	configs []string
	verbose bool
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "autoload",
		Short:         "Resolve class names through configured autoloaders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.PersistentFlags().StringArrayVarP(&opts.configs, "config", "c", nil, "Autoloader config file (yaml, json or hcl); repeatable")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newResolveCommand(opts))
	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newClassMapCommand())
	return cmd
}

// buildRegistry 按顺序读取配置文件并注册自动加载器。
// 没有配置文件时注册默认策略。
func buildRegistry(ctx context.Context, configs []string) (registry.Registry, *hook.Stack, error) {
	reg, stack := registry.NewWithStack()
	if len(configs) == 0 {
		if err := reg.Configure(ctx, nil); err != nil {
			return nil, nil, err
		}
		return reg, stack, nil
	}
	for _, path := range configs {
		spec, err := config.Load(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		if err := reg.Configure(ctx, spec); err != nil {
			return nil, nil, fmt.Errorf("configure from %q: %w", path, err)
		}
	}
	return reg, stack, nil
}
