package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okanagi/leafview/internal/epub"
	"github.com/okanagi/leafview/internal/render"
	"github.com/okanagi/leafview/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "leafview",
	Short: "Inspect and read EPUB books from the command line",
	Long: `leafview parses EPUB containers and normalizes their content for
rendering: it builds the reading order and table of contents, strips the
book's own styling, and inlines every image so each chapter is
self-contained.`,
	SilenceUsage: true,
}

var infoCmd = &cobra.Command{
	Use:   "info <book.epub>",
	Short: "Show book structure and metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openBook(args[0])
		if err != nil {
			return err
		}

		md := session.Package.Metadata
		fmt.Printf("Title:    %s\n", session.Title())
		for _, c := range md.Creators {
			if c.Role != "" {
				fmt.Printf("Creator:  %s (%s)\n", c.Name, c.Role)
			} else {
				fmt.Printf("Creator:  %s\n", c.Name)
			}
		}
		if md.Language != "" {
			fmt.Printf("Language: %s\n", md.Language)
		}
		if md.Identifier != "" {
			fmt.Printf("ID:       %s\n", md.Identifier)
		}
		fmt.Printf("Package:  %s\n", session.Package.Path)
		fmt.Printf("Spine:    %d entries\n", session.SpineLength())
		fmt.Printf("TOC:      %d top-level entries\n", len(session.Nav))
		if cover := session.Package.DetectCover(); cover != nil {
			fmt.Printf("Cover:    %s (via %s)\n", cover.Path, cover.Method)
		}
		return nil
	},
}

var tocCmd = &cobra.Command{
	Use:   "toc <book.epub>",
	Short: "Print the table of contents tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openBook(args[0])
		if err != nil {
			return err
		}
		if len(session.Nav) == 0 {
			fmt.Println("(no navigation recovered)")
			return nil
		}
		printNav(session.Nav, 0)
		return nil
	},
}

var readCmd = &cobra.Command{
	Use:   "read <book.epub>",
	Short: "Print one normalized chapter and record reading progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chapter, _ := cmd.Flags().GetInt("chapter")
		statePath, _ := cmd.Flags().GetString("state")

		bookPath := args[0]
		session, err := openBook(bookPath)
		if err != nil {
			return err
		}

		progress, err := openProgressStore(statePath)
		if err != nil {
			return err
		}
		defer progress.Close()

		start := chapter
		if start < 0 {
			// Restore the persisted position; an invalid one falls back to 0.
			if rec, ok, err := progress.Load(cmd.Context(), bookPath); err == nil && ok && rec.Mode == store.ModeChapter {
				start = int(rec.Position)
			} else {
				start = 0
			}
		}

		view := session.Chapter(start)
		frag := view.Current()
		fmt.Fprintf(os.Stderr, "-- %s (%s) --\n", view.PositionLabel(), frag.Path)
		fmt.Println(frag.HTML)

		return progress.Save(cmd.Context(), store.Record{
			BookPath: bookPath,
			Mode:     store.ModeChapter,
			Position: float64(view.Index()),
			Progress: view.Progress(),
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <book.epub>",
	Short: "Assemble the whole book into one self-contained HTML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputPath, _ := cmd.Flags().GetString("output")

		inputPath := args[0]
		if outputPath == "" {
			outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".html"
		}

		session, err := openBook(inputPath)
		if err != nil {
			return err
		}

		book, err := session.BuildBook(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to assemble book: %w", err)
		}

		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\"/>\n")
		fmt.Fprintf(&b, "<title>%s</title>\n", session.Title())
		b.WriteString("<style>")
		b.WriteString(render.BaseStylesheet)
		b.WriteString("</style>\n</head>\n<body>\n")
		b.WriteString(book.HTML)
		b.WriteString("\n</body>\n</html>\n")

		if err := os.WriteFile(outputPath, []byte(b.String()), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outputPath, err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s (%d sections)\n", outputPath, len(book.Sections))
		return nil
	},
}

// openBook reads a container from disk and opens a session over it. All
// structural open failures surface as one message here.
func openBook(path string) (*render.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return render.OpenSession(data, path)
}

// openProgressStore opens the progress database, defaulting to a per-user
// state file.
func openProgressStore(path string) (*store.Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving state directory: %w", err)
		}
		dir := filepath.Join(home, ".leafview")
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating state directory: %w", err)
		}
		path = filepath.Join(dir, "progress.db")
	}
	return store.Open(path)
}

func printNav(nodes []epub.NavNode, depth int) {
	for _, node := range nodes {
		fmt.Printf("%s%s", strings.Repeat("  ", depth), node.Label)
		if node.Href != "" {
			fmt.Printf("  ->  %s", node.Href)
		}
		fmt.Println()
		printNav(node.Children, depth+1)
	}
}

func init() {
	readCmd.Flags().IntP("chapter", "c", -1, "Spine index to read (default: resume from saved position)")
	readCmd.Flags().String("state", "", "Progress database path (default: ~/.leafview/progress.db)")
	exportCmd.Flags().StringP("output", "o", "", "Output file path (default: input with .html extension)")

	rootCmd.AddCommand(infoCmd, tocCmd, readCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
