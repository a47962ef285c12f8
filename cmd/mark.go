package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/timvw/tmux-marks/internal/control"
	"github.com/timvw/tmux-marks/internal/model"
)

var (
	flagMarkName    string
	flagMarkBufType string
)

var markCmd = &cobra.Command{
	Use:   "mark",
	Short: "Manage marks held by a running picker or serve process",
	Long: `Marks are file + line bookmarks. They live in memory in a running
"tmux-marks picker" or "tmux-marks serve" process and are reached over the
control socket. They are gone when that process exits.`,
}

var markAddCmd = &cobra.Command{
	Use:   "add <path> <line>",
	Short: "Add a mark",
	Long: `Add a mark for <path> at <line>.

--buftype carries the editor's buffer type (vim's &buftype). Anything other
than a normal file buffer is rejected, so an editor hook can pass it through
unchanged.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		line, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid line %q: %w", args[1], err)
		}
		resp, err := controlDo(cmd, control.Request{
			Op:      control.OpAddMark,
			Path:    path,
			Line:    line,
			Name:    flagMarkName,
			BufType: flagMarkBufType,
		})
		if err != nil {
			return err
		}
		printMarks(resp.Marks)
		return nil
	},
}

var markListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List marks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := controlDo(cmd, control.Request{Op: control.OpListMarks})
		if err != nil {
			return err
		}
		printMarks(resp.Marks)
		return nil
	},
}

var markRmCmd = &cobra.Command{
	Use:     "rm <index>",
	Aliases: []string{"remove"},
	Short:   "Remove the mark at a 1-based index",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[0], err)
		}
		resp, err := controlDo(cmd, control.Request{Op: control.OpRemoveMark, Index: index})
		if err != nil {
			return err
		}
		printMarks(resp.Marks)
		return nil
	},
}

var markJumpCmd = &cobra.Command{
	Use:   "jump <index>",
	Short: "Jump to the mark at a 1-based index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[0], err)
		}
		list, err := controlDo(cmd, control.Request{Op: control.OpListMarks})
		if err != nil {
			return err
		}
		if index < 1 || index > len(list.Marks) {
			return fmt.Errorf("no mark at index %d", index)
		}
		m := list.Marks[index-1]
		resp, err := controlDo(cmd, control.Request{Op: control.OpJump, Path: m.Path, Line: m.Line})
		if err != nil {
			return err
		}
		if resp.Target != nil {
			fmt.Println(resp.Target)
		}
		return nil
	},
}

func controlDo(cmd *cobra.Command, req control.Request) (control.Response, error) {
	cfg, err := loadConfig()
	if err != nil {
		return control.Response{}, err
	}
	return control.NewClient(cfg.SocketPath).Do(cmd.Context(), req)
}

func printMarks(marks []model.Mark) {
	for i, m := range marks {
		fmt.Printf("%2d  %s:%d  %s\n", i+1, m.Name, m.Line, m.Path)
	}
}

func init() {
	markAddCmd.Flags().StringVar(&flagMarkName, "name", "", "display name (default: file name)")
	markAddCmd.Flags().StringVar(&flagMarkBufType, "buftype", "", "editor buffer type; only normal file buffers (empty) are accepted")
	markCmd.AddCommand(markAddCmd, markListCmd, markRmCmd, markJumpCmd)
	rootCmd.AddCommand(markCmd)
}
