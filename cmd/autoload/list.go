package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/qq1060656096/autoload/loader"
	"github.com/qq1060656096/autoload/maputil"
)

// autoloaderSummary 是 list 命令输出的单个自动加载器信息。
type autoloaderSummary struct {
	ID           string            `json:"id"`
	Position     int               `json:"position"`
	Namespaces   map[string]string `json:"namespaces,omitempty"`
	Prefixes     map[string]string `json:"prefixes,omitempty"`
	Fallback     bool              `json:"fallback_autoloader,omitempty"`
	IncludePaths []string          `json:"include_paths,omitempty"`
	Maps         []string          `json:"maps,omitempty"`
	Classes      int               `json:"classes,omitempty"`
}

func summarize(position int, l loader.Loader) autoloaderSummary {
	s := autoloaderSummary{ID: string(l.Kind()), Position: position}
	switch v := l.(type) {
	case *loader.Standard:
		s.Namespaces = v.Namespaces()
		s.Prefixes = v.Prefixes()
		s.Fallback = v.IsFallbackAutoloader()
		s.IncludePaths = v.IncludePaths()
	case *loader.ClassMap:
		s.Maps = v.MapsLoaded()
		s.Classes = len(v.AutoloadMap())
	}
	return s
}

func newListCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered autoloaders in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := buildRegistry(cmd.Context(), opts.configs)
			if err != nil {
				return err
			}
			summaries := make([]autoloaderSummary, 0)
			for i, l := range reg.Autoloaders() {
				summaries = append(summaries, summarize(i, l))
			}

			w := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(summaries, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(data))
				return nil
			}
			for _, s := range summaries {
				fmt.Fprintf(w, "%d\t%s\n", s.Position, s.ID)
				for _, ns := range maputil.SortedKeys(s.Namespaces) {
					fmt.Fprintf(w, "\tnamespace %s => %s\n", ns, s.Namespaces[ns])
				}
				for _, p := range maputil.SortedKeys(s.Prefixes) {
					fmt.Fprintf(w, "\tprefix %s => %s\n", p, s.Prefixes[p])
				}
				if s.Fallback {
					fmt.Fprintln(w, "\tfallback autoloader")
				}
				for _, m := range s.Maps {
					fmt.Fprintf(w, "\tmap %s\n", m)
				}
				if s.ID == string(loader.KindClassMap) {
					fmt.Fprintf(w, "\t%d classes\n", s.Classes)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}
