package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mattdini/typeMyClipboard/internal/app"
	"github.com/mattdini/typeMyClipboard/internal/clipboard"
	"github.com/mattdini/typeMyClipboard/internal/config"
	"github.com/mattdini/typeMyClipboard/internal/keyboard"
	keypost "github.com/mattdini/typeMyClipboard/internal/keyboard/poster"
	"github.com/mattdini/typeMyClipboard/internal/logging"
	"github.com/mattdini/typeMyClipboard/internal/permission"
	"github.com/mattdini/typeMyClipboard/internal/typer"
	"github.com/mattdini/typeMyClipboard/internal/updater"
)

// newRootCmd builds the command tree. Running without a subcommand starts
// the tray app.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "typemyclipboard",
		Short: "Type the clipboard into the focused application",
		Long: "TypeMyClipboard sits in the menu bar and types the clipboard text as\n" +
			"individual keystrokes, for places where paste is blocked.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")
			if force {
				killExisting()
			}
			runTray()
			return nil
		},
	}
	rootCmd.Flags().Bool("force", false, "kill other running instances first")

	typeCmd := &cobra.Command{
		Use:   "type",
		Short: "Type the clipboard once and exit",
		Args:  cobra.NoArgs,
		RunE:  runType,
	}
	typeCmd.Flags().Bool("wait", false, "wait 3 seconds before typing")
	typeCmd.Flags().String("text", "", "type this text instead of the clipboard")
	typeCmd.Flags().Bool("dry-run", false, "type into a virtual keyboard and print the key events")

	permissionCmd := &cobra.Command{
		Use:   "permission",
		Short: "Show whether input injection is authorized",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prompt, _ := cmd.Flags().GetBool("prompt")
			trusted := permission.NewChecker().Trusted(prompt)
			out := cmd.OutOrStdout()
			if trusted {
				fmt.Fprintln(out, "Accessibility permission: granted")
				return nil
			}
			fmt.Fprintln(out, "Accessibility permission: not granted")
			if !prompt {
				fmt.Fprintln(out, "Run with --prompt to request it.")
			}
			return nil
		},
	}
	permissionCmd.Flags().Bool("prompt", false, "ask the OS to show its permission request")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "TypeMyClipboard %s\n", updater.Version)
		},
	}

	rootCmd.AddCommand(typeCmd, permissionCmd, versionCmd)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// allowAll authorizes the virtual keyboard, which needs no OS permission.
type allowAll struct{}

func (allowAll) EnsureAuthorized() bool { return true }

// printer reports app events on the terminal instead of the desktop.
type printer struct{ w io.Writer }

func (p printer) Notify(body string) { fmt.Fprintln(p.w, body) }

func (p printer) PermissionDenied() {
	fmt.Fprintln(p.w, "Accessibility permission is required to type.")
	fmt.Fprintln(p.w, "Grant it in System Settings → Privacy & Security → Accessibility, then retry.")
}

func runType(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	wait, _ := flags.GetBool("wait")
	text, _ := flags.GetString("text")
	dryRun, _ := flags.GetBool("dry-run")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.SetLevel(config.Load().LogLevel)

	var clip clipboard.Reader = clipboard.System{}
	if flags.Changed("text") {
		clip = clipboard.Static(text)
	}

	rec := &keyboard.Recorder{}
	var (
		poster keyboard.EventPoster = rec
		gate   typer.Authorizer     = allowAll{}
	)
	if !dryRun {
		poster = keypost.New()
		gate = permission.NewGate(permission.NewChecker())
	}

	out := cmd.OutOrStdout()
	ty := typer.New(gate, keyboard.NewSynthesizer(poster, nil), nil)
	a := app.New(clip, ty, printer{w: out}, printer{w: cmd.ErrOrStderr()}, app.Options{})

	var delay = app.TypeDelay
	if !wait {
		delay = 0
	}
	_, err := a.Type(ctx, delay)
	if errors.Is(err, app.ErrEmpty) {
		return errors.New("nothing to type: clipboard is empty")
	}
	if errors.Is(err, context.Canceled) {
		return errors.New("interrupted")
	}
	if err != nil {
		return err
	}

	if dryRun {
		for _, e := range rec.Events() {
			fmt.Fprintln(out, e)
		}
		typed, err := rec.Text()
		if err != nil {
			return fmt.Errorf("virtual keyboard: %w", err)
		}
		fmt.Fprintf(out, "typed: %q\n", typed)
	}
	return nil
}
