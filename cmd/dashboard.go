package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"clementus360/study-assistant/dashboard"
	"clementus360/study-assistant/history"
	"clementus360/study-assistant/prefs"
	"clementus360/study-assistant/quiz"
	"clementus360/study-assistant/render"
	"clementus360/study-assistant/types"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive dashboard",
	Long:  `Open the interactive dashboard. Type "help" inside it for the command list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := buildApp(ctx, settings)
		if err != nil {
			return err
		}
		defer a.close()

		store, err := a.sessionStore(ctx)
		if err != nil {
			return err
		}
		if !store.SignedIn() {
			return types.NewValidationError("Not signed in. Run: study-assistant login --email <email>")
		}

		hist := history.New(settings.HistoryLimit)
		if a.track != nil {
			unsubscribe := hist.Subscribe(a.track)
			defer unsubscribe()
		}

		d := dashboard.New(dashboard.Deps{
			Session:  store,
			API:      a.api,
			Storage:  a.storage,
			History:  hist,
			Settings: settings,
		})
		defer d.Close()

		return newShell(d, a.kv, cmd.OutOrStdout()).run(ctx, cmd.InOrStdin())
	},
}

const shellHelp = `Commands:
  features                 list the dashboard features
  select <feature>         open a feature (upload, link, paste, quiz)
  back                     return to the feature list
  upload <path>            upload a document to chat with
  ask <question>           ask about the uploaded document
  explain <code>           explain a code snippet
  video <url>              summarize a YouTube video
  followup <question>      ask a follow-up about the video
  quiz <path>              generate a quiz from a document
  answer <n> <option>      answer question n
  submit                   score the quiz
  history                  show recent activity
  theme [light|dark|toggle]
  logout                   sign out and leave
  quit                     leave the dashboard`

type shell struct {
	d   *dashboard.Dashboard
	kv  prefs.KV
	out io.Writer
	p   render.Palette
}

func newShell(d *dashboard.Dashboard, kv prefs.KV, out io.Writer) *shell {
	return &shell{d: d, kv: kv, out: out, p: palette(kv)}
}

func (s *shell) println(text string) {
	fmt.Fprintln(s.out, text)
}

func (s *shell) run(ctx context.Context, in io.Reader) error {
	s.println(s.p.Identity(s.d.Session.Current()))
	s.println(s.features())

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		done, err := s.exec(ctx, line)
		if err != nil {
			s.println(s.p.Failure(err))
		}
		if done || s.d.SignedOut() {
			return nil
		}
	}
}

// exec runs one shell line and reports whether the shell should exit.
func (s *shell) exec(ctx context.Context, line string) (bool, error) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "help", "?":
		s.println(shellHelp)

	case "features":
		s.println(s.features())

	case "select":
		f, err := dashboard.ParseFeature(arg)
		if err != nil {
			return false, err
		}
		s.d.Select(f)
		s.println(s.p.Heading(f.Title()))

	case "back":
		s.d.Back()
		s.println(s.features())

	case "upload":
		if s.d.Active() != dashboard.FeatureUpload {
			s.d.Select(dashboard.FeatureUpload)
		}
		s.println(s.p.Muted.Render("Uploading..."))
		ref, err := s.d.UploadDocument(ctx, arg)
		if err != nil {
			return false, err
		}
		s.println(s.p.Success.Render(ref.FileName + " is ready. Ask away."))

	case "ask":
		if !s.d.Chat.CanSend() {
			return false, types.NewValidationError("Upload a document first.")
		}
		s.d.Chat.Send(ctx, arg)
		s.println(s.p.Transcript(s.d.Chat.Messages(), s.d.Chat.Pending()))

	case "explain":
		s.d.Select(dashboard.FeaturePaste)
		s.d.Code.Submit(ctx, arg)
		s.println(s.p.Artifact("Explanation", s.d.Code.Artifact(), s.d.Code.Loading()))

	case "video":
		s.d.Select(dashboard.FeatureLink)
		s.d.Video.Submit(ctx, arg)
		s.println(s.p.Artifact("Summary", s.d.Video.Artifact(), s.d.Video.Loading()))

	case "followup":
		if !s.d.Video.CanFollowUp() {
			return false, types.NewValidationError("Summarize a video first.")
		}
		s.d.Video.AskFollowUp(ctx, arg)
		s.println(s.p.Artifact("Summary", s.d.Video.Artifact(), s.d.Video.Loading()))

	case "quiz":
		s.d.Select(dashboard.FeatureQuiz)
		s.println(s.p.Muted.Render("Generating quiz..."))
		if err := s.d.GenerateQuiz(ctx, arg); err != nil {
			return false, err
		}
		s.println(s.quizView())

	case "answer":
		n, option, _ := strings.Cut(arg, " ")
		index, err := strconv.Atoi(n)
		if err != nil {
			return false, types.NewValidationError("Usage: answer <question number> <option>")
		}
		if err := s.d.Quiz.RecordAnswer(index-1, strings.TrimSpace(option)); err != nil {
			return false, err
		}
		s.println(s.quizView())

	case "submit":
		if !s.d.Quiz.HasQuestions() {
			return false, types.NewValidationError("Generate a quiz first.")
		}
		s.d.Quiz.SubmitQuiz()
		s.println(s.quizView())

	case "history":
		s.println(s.p.History(s.d.History.Entries()))

	case "theme":
		theme, err := s.setTheme(arg)
		if err != nil {
			return false, err
		}
		s.p = render.ForTheme(theme)
		s.println("Theme: " + string(theme))

	case "logout":
		if err := s.d.Session.SignOut(ctx); err != nil {
			return false, err
		}
		s.println("Signed out.")
		return true, nil

	case "quit", "exit":
		return true, nil

	default:
		return false, types.NewValidationError("Unknown command %q. Type help for the list.", name)
	}
	return false, nil
}

func (s *shell) features() string {
	lines := []string{s.p.Heading("What would you like to do?")}
	active := s.d.Active()
	for _, f := range dashboard.Features {
		label := fmt.Sprintf("  %-7s %s", f, f.Title())
		if f == active {
			lines = append(lines, s.p.Selected.Render(label))
		} else {
			lines = append(lines, label)
		}
	}
	return strings.Join(lines, "\n")
}

func (s *shell) quizView() string {
	var score *quiz.Score
	if sc, ok := s.d.Quiz.Score(); ok {
		score = &sc
	}
	return s.p.Quiz(s.d.Quiz.Items(), s.d.Quiz.Answers(), score)
}

func (s *shell) setTheme(arg string) (prefs.ThemeName, error) {
	switch arg {
	case "":
		return prefs.Theme(s.kv)
	case "toggle":
		return prefs.ToggleTheme(s.kv)
	}
	theme, err := prefs.ParseTheme(arg)
	if err != nil {
		return "", err
	}
	return theme, prefs.SetTheme(s.kv, theme)
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
