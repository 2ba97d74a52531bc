// Package topics adds topic-based help to a Cobra application. Topics are
// markdown or text files read from an fs.FS, usually embedded in the binary,
// and are shown by "help TOPIC" next to the regular command help.
package topics

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// TopicManager manages help topics for a Cobra application
type TopicManager struct {
	fsys         fs.FS
	topics       map[string]*Topic
	originalHelp func(*cobra.Command, []string)
	extensions   []string
	renderer     Renderer
}

// Topic represents a help topic
type Topic struct {
	Name     string
	FilePath string
	Content  string
}

// Options configures the TopicManager
type Options struct {
	// Extensions is the list of file extensions to consider as topics
	// Defaults to [".txt", ".md"] if not specified
	Extensions []string

	// Renderer for formatting topic content (optional)
	// Defaults to PlainRenderer if not specified
	Renderer Renderer
}

// New creates a TopicManager over fsys with default options
func New(fsys fs.FS) *TopicManager {
	return NewWithOptions(fsys, Options{})
}

// NewWithOptions creates a TopicManager over fsys
func NewWithOptions(fsys fs.FS, opts Options) *TopicManager {
	tm := &TopicManager{
		fsys:       fsys,
		topics:     make(map[string]*Topic),
		extensions: opts.Extensions,
		renderer:   opts.Renderer,
	}
	if len(tm.extensions) == 0 {
		tm.extensions = []string{".txt", ".md"}
	}
	if tm.renderer == nil {
		tm.renderer = &PlainRenderer{}
	}
	return tm
}

// Scan loads every topic file found in the file system
func (tm *TopicManager) Scan() error {
	if tm.fsys == nil {
		return nil
	}
	return fs.WalkDir(tm.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := path.Ext(p)
		if !tm.supported(ext) {
			return nil
		}

		content, err := fs.ReadFile(tm.fsys, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), ext)
		tm.topics[name] = &Topic{Name: name, FilePath: p, Content: string(content)}
		return nil
	})
}

func (tm *TopicManager) supported(ext string) bool {
	for _, valid := range tm.extensions {
		if ext == valid {
			return true
		}
	}
	return false
}

// GetTopic retrieves a topic by name. "--flag" and "-flag" find the
// "option-flag" topic.
func (tm *TopicManager) GetTopic(name string) (*Topic, bool) {
	name = strings.TrimPrefix(name, "--")
	name = strings.TrimPrefix(name, "-")

	if topic, ok := tm.topics[name]; ok {
		return topic, true
	}
	topic, ok := tm.topics["option-"+name]
	return topic, ok
}

// ListTopics returns all topic names, sorted
func (tm *TopicManager) ListTopics() []string {
	names := make([]string, 0, len(tm.topics))
	for name := range tm.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render writes the rendered topic
func (tm *TopicManager) Render(w io.Writer, topic *Topic) {
	fmt.Fprint(w, tm.renderer.Render(topic.Content, path.Ext(topic.FilePath)))
}

// WriteList writes the topic index
func (tm *TopicManager) WriteList(w io.Writer, program string) {
	names := tm.ListTopics()
	if len(names) == 0 {
		fmt.Fprintln(w, "No help topics available.")
		return
	}

	var options, general []string
	for _, name := range names {
		if strings.HasPrefix(name, "option-") {
			options = append(options, strings.TrimPrefix(name, "option-"))
		} else {
			general = append(general, name)
		}
	}

	fmt.Fprintln(w, "Available help topics:")
	if len(general) > 0 {
		fmt.Fprintln(w, "\nGeneral topics:")
		for _, name := range general {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(options) > 0 {
		fmt.Fprintln(w, "\nOption topics:")
		for _, name := range options {
			fmt.Fprintf(w, "  --%s\n", name)
		}
	}
	fmt.Fprintf(w, "\nUse '%s help <topic>' to read about a specific topic.\n", program)
}

// Initialize sets up topic help with default options
func Initialize(rootCmd *cobra.Command, fsys fs.FS) (*TopicManager, error) {
	return InitializeWithOptions(rootCmd, fsys, Options{})
}

// InitializeWithOptions replaces the help command of rootCmd with one that
// also knows about topics
func InitializeWithOptions(rootCmd *cobra.Command, fsys fs.FS, opts Options) (*TopicManager, error) {
	tm := NewWithOptions(fsys, opts)
	if err := tm.Scan(); err != nil {
		return nil, fmt.Errorf("failed to scan topics: %w", err)
	}

	tm.originalHelp = rootCmd.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic in the application.
Simply type ` + rootCmd.Name() + ` help [path to command or topic] for full details.

To see all available help topics:
  ` + rootCmd.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, tm.ListTopics()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				tm.originalHelp(rootCmd, []string{})
				return
			}
			if args[0] == "topics" {
				tm.WriteList(cmd.OutOrStdout(), rootCmd.Name())
				return
			}
			if topic, ok := tm.GetTopic(args[0]); ok {
				tm.Render(cmd.OutOrStdout(), topic)
				return
			}
			if target, _, err := rootCmd.Find(args); err == nil && target != rootCmd {
				tm.originalHelp(target, []string{})
				return
			}
			tm.originalHelp(rootCmd, args)
		},
	}

	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			rootCmd.RemoveCommand(cmd)
			break
		}
	}
	rootCmd.SetHelpCommand(helpCmd)

	return tm, nil
}
