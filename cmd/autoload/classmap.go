package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qq1060656096/autoload/classmap"
)

func newClassMapCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classmap",
		Short: "Class map tools",
	}
	cmd.AddCommand(newClassMapGenerateCommand())
	return cmd
}

func newClassMapGenerateCommand() *cobra.Command {
	var (
		output    string
		extension string
		exclude   []string
		workers   int
		relative  bool
	)
	cmd := &cobra.Command{
		Use:   "generate DIR",
		Short: "Scan DIR for class declarations and write a class map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := classmap.GenerateOptions{
				Extension: extension,
				Exclude:   exclude,
				Workers:   workers,
			}
			if relative && output != "" {
				// 相对路径以输出文件所在目录为基准，与 classmap.Load 的解析方式一致
				dir, err := outputDir(output)
				if err != nil {
					return err
				}
				opts.RelativeTo = dir
			}

			m, err := classmap.Generate(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			data, err := classmap.Encode(m)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d classes to %s\n", len(m), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (.json); stdout when empty")
	cmd.Flags().StringVar(&extension, "extension", classmap.DefaultExtension, "Source file extension")
	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, "Glob of paths to skip; repeatable")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel file scanners (0 = GOMAXPROCS)")
	cmd.Flags().BoolVar(&relative, "relative", true, "Write paths relative to the output file")
	return cmd
}
