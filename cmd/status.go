package cmd

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	syncerrors "github.com/penwyp/syncpush/internal/errors"
	"github.com/penwyp/syncpush/internal/git"
	"github.com/penwyp/syncpush/internal/workflow"
	"github.com/penwyp/syncpush/ui"
	"github.com/spf13/cobra"
)

// newStatusCmd 创建 status 命令：只读展示仓库状态，不运行 git
func newStatusCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show branch, merge state and remotes of the repository",
		Long: `Show what syncpush would work with: the checked-out branch, whether a merge
is in progress (and would therefore be aborted), and the configured remotes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, _, err := resolveSettings(cmd, f)
			if err != nil {
				return err
			}
			repo, err := workflow.CheckRepoPath(resolved.Options.RepoPath)
			if err != nil {
				return err
			}

			st, err := git.Inspect(repo)
			if err != nil {
				return syncerrors.Wrap(syncerrors.ErrTypeEnvironment, "cannot read repository", err).
					WithSuggestion("run syncpush inside a git repository or pass --repo")
			}

			renderStatus(cmd.OutOrStdout(), st, resolved.Options)
			return nil
		},
	}
}

func renderStatus(w io.Writer, st *git.RepoStatus, opts workflow.Options) {
	styles := ui.DefaultStyles()

	branch := st.Branch
	switch {
	case st.Detached:
		branch = "(detached HEAD)"
	case st.Unborn:
		branch += " (no commits yet)"
	}
	merge := "no"
	if st.MergeInProgress {
		merge = "yes"
	}

	fmt.Fprint(w, ui.RenderKeyValues([]ui.KeyValue{
		{Key: "Repository", Value: st.Root},
		{Key: "Branch", Value: branch},
		{Key: "HEAD", Value: st.Head},
		{Key: "Merge in progress", Value: merge},
		{Key: "Sync target", Value: opts.Remote + "/" + opts.Branch},
	}, styles))

	if len(st.Remotes) == 0 {
		fmt.Fprintln(w, styles.Warning.Render("No git remotes found"))
	} else {
		fmt.Fprintln(w)
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Remote", "Fetch URL", "Push URL"})
		table.SetAutoWrapText(false)
		for _, r := range st.Remotes {
			table.Append([]string{r.Name, r.FetchURL, r.PushURL})
		}
		table.Render()
	}

	if st.MergeInProgress {
		fmt.Fprintln(w, ui.RenderStatusLine("!", "A merge is in progress: syncpush will run git merge --abort first", styles.Warning))
	}
}
