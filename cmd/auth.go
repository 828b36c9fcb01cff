package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"clementus360/study-assistant/prefs"
	"clementus360/study-assistant/render"
	"clementus360/study-assistant/session"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginEmail    string
	loginPassword string

	signupForm session.SignUpForm
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context(), settings)
		if err != nil {
			return err
		}
		defer a.close()

		store, err := a.sessionStore(cmd.Context())
		if err != nil {
			return err
		}

		password := loginPassword
		if password == "" {
			password = promptSecret(cmd, bufio.NewReader(cmd.InOrStdin()), "Password: ")
		}
		if err := store.SignIn(cmd.Context(), loginEmail, password); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), palette(a.kv).Identity(store.Current()))
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		form := signupForm
		if form.Password == "" {
			in := bufio.NewReader(cmd.InOrStdin())
			form.Password = promptSecret(cmd, in, "Password: ")
			form.ConfirmPassword = promptSecret(cmd, in, "Confirm password: ")
		}
		if err := form.Validate(); err != nil {
			return err
		}

		a, err := buildApp(cmd.Context(), settings)
		if err != nil {
			return err
		}
		defer a.close()

		store, err := a.sessionStore(cmd.Context())
		if err != nil {
			return err
		}
		if err := store.SignUp(cmd.Context(), form); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if store.SignedIn() {
			fmt.Fprintln(out, palette(a.kv).Identity(store.Current()))
		} else {
			fmt.Fprintln(out, "Account created. Check your email to confirm it, then run login.")
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context(), settings)
		if err != nil {
			return err
		}
		defer a.close()

		store, err := a.sessionStore(cmd.Context())
		if err != nil {
			return err
		}
		if err := store.SignOut(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context(), settings)
		if err != nil {
			return err
		}
		defer a.close()

		store, err := a.sessionStore(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), palette(a.kv).Identity(store.Current()))
		return nil
	},
}

// promptSecret reads a password without echo when stdin is a terminal and
// falls back to a plain line read otherwise.
func promptSecret(cmd *cobra.Command, in *bufio.Reader, label string) string {
	out := cmd.OutOrStdout()
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(out, label)
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err == nil {
			return string(secret)
		}
	}
	return prompt(in, out, label)
}

func prompt(in *bufio.Reader, out io.Writer, label string) string {
	fmt.Fprint(out, label)
	line, _ := in.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

func palette(kv prefs.KV) render.Palette {
	theme, err := prefs.Theme(kv)
	if err != nil {
		theme = prefs.ThemeLight
	}
	return render.ForTheme(theme)
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")

	signupCmd.Flags().StringVar(&signupForm.FirstName, "first-name", "", "First name")
	signupCmd.Flags().StringVar(&signupForm.LastName, "last-name", "", "Last name")
	signupCmd.Flags().StringVar(&signupForm.Email, "email", "", "Account email")
	signupCmd.Flags().StringVar(&signupForm.Password, "password", "", "Password (prompted when omitted)")
	signupCmd.Flags().StringVar(&signupForm.ConfirmPassword, "confirm-password", "", "Repeat the password")

	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)
}
