package convo

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/pkg/openhands"
	v0 "github.com/openhands/skillctl/pkg/openhands/v0"
)

var (
	createMessage      string
	createFromFile     string
	createAppendFile   string
	createRepo         string
	createBranch       string
	createGitProvider  string
	createInstructions string
	createJSON         bool
)

func init() {
	createCmd.Flags().StringVarP(&createMessage, "message", "m", "", "initial user message")
	createCmd.Flags().StringVar(&createFromFile, "from-file", "", "read the initial message from a prompt file")
	createCmd.Flags().StringVar(&createAppendFile, "append-file", "", "append this file to the prompt (skipped when missing)")
	createCmd.Flags().StringVar(&createRepo, "repo", "", "attach a repository (owner/repo)")
	createCmd.Flags().StringVar(&createBranch, "branch", "", "git branch to work on")
	createCmd.Flags().StringVar(&createGitProvider, "git-provider", "", "git provider hint (github, gitlab, ...)")
	createCmd.Flags().StringVar(&createInstructions, "instructions", "", "extra conversation instructions")
	createCmd.Flags().BoolVar(&createJSON, "json", false, "print the raw API response")
	Cmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Start a new conversation",
	Long: `Start a conversation with an initial user message.

The message comes from --message or from a prompt file via --from-file.
With --append-file, that file's content is joined to the prompt; a
missing append file is skipped so shared tails stay optional.`,
	Example: `  # From a literal message
  skillctl convo create --message "fix the failing tests in pkg/parser"

  # Against a repository branch
  skillctl convo create --message "update the changelog" \
    --repo example/website --branch main

  # From a prompt file with a shared tail
  skillctl convo create --from-file prompts/review.md \
    --append-file prompts/_conventions.md`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, _ []string) error {
	return runCreateWithWriter(cmd, os.Stdout)
}

// runCreateWithWriter allows injecting a writer for testing.
func runCreateWithWriter(cmd *cobra.Command, w io.Writer) error {
	if createMessage == "" && createFromFile == "" {
		return errors.NewUsageError(
			errors.New("either --message or --from-file is required"),
			"See: skillctl convo create --help")
	}
	if createMessage != "" && createFromFile != "" {
		return errors.NewUsageError(
			errors.New("--message and --from-file are mutually exclusive"),
			"Pick one prompt source")
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	var raw []byte
	if createFromFile != "" {
		raw, err = client.CreateFromPromptFile(cmd.Context(), v0.CreateFromPromptFileRequest{
			PromptFile:     createFromFile,
			AppendFile:     createAppendFile,
			Repository:     createRepo,
			SelectedBranch: createBranch,
		})
	} else {
		raw, err = client.CreateConversation(cmd.Context(), v0.CreateConversationRequest{
			InitialUserMsg:           createMessage,
			Repository:               createRepo,
			SelectedBranch:           createBranch,
			GitProvider:              createGitProvider,
			ConversationInstructions: createInstructions,
		})
	}
	if err != nil {
		return err
	}

	if createJSON {
		return printRaw(w, raw)
	}

	fmt.Fprintf(w, "Conversation created: %s\n", openhands.ConversationID(raw))
	if status := openhands.Status(raw); status != "" {
		fmt.Fprintf(w, "Status: %s\n", status)
	}
	if url := openhands.ConversationURL(raw); url != "" {
		fmt.Fprintf(w, "URL: %s\n", url)
	}
	return nil
}
