package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/jrsteele09/go-flight-admin/auth"
	"github.com/jrsteele09/go-flight-admin/flights"
	"github.com/jrsteele09/go-flight-admin/token/jwt"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var req flights.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the reservation service",
		Long:  "Sign in and keep the session for later commands. Missing credentials are prompted for on a terminal.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.interactive && (req.CorreoElectronico == "" || req.Password == "") {
				if err := promptLogin(&req); err != nil {
					return err
				}
			}

			role, err := a.auth.Login(cmd.Context(), a.session, req)
			if err != nil {
				return authFailure(err)
			}
			printSuccess(cmd.OutOrStdout(), "Signed in as %s (%s)", a.session.Email(), role)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.CorreoElectronico, "email", "", "Account email (prompted if omitted)")
	cmd.Flags().StringVar(&req.Password, "password", "", "Account password (prompted if omitted)")
	return cmd
}

func newSignupCmd(a *app) *cobra.Command {
	var req flights.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a customer account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.interactive && signupIncomplete(req) {
				if err := promptSignup(&req); err != nil {
					return err
				}
			}

			if err := a.auth.Signup(cmd.Context(), req); err != nil {
				return authFailure(err)
			}
			printSuccess(cmd.OutOrStdout(), "Account created for %s. Run `aeroctl login` to sign in.", req.CorreoElectronico)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Nombre, "first-name", "", "First name")
	f.StringVar(&req.Apellido, "last-name", "", "Last name")
	f.StringVar(&req.Direccion, "address", "", "Postal address")
	f.StringVar(&req.Telefono, "phone", "", "Phone number, digits only")
	f.StringVar(&req.CorreoElectronico, "email", "", "Email address")
	f.StringVar(&req.Password, "password", "", "Password, at least 8 characters")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.auth.Logout(cmd.Context(), a.session); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			state := a.session.State()
			if !state.LoggedIn() {
				printMuted(out, "Not signed in.")
				return nil
			}
			printField(out, "Email", orDash(state.Email))
			printField(out, "Role", state.Role.String())
			if state.ClientID != "" {
				printField(out, "Client", state.ClientID)
			}
			if exp, ok := jwt.ExpiresAt(state.Token); ok {
				printField(out, "Expires", exp.Local().Format(time.DateTime)+" ("+humanize.RelTime(exp, a.nowTime(), "ago", "from now")+")")
			}
			return nil
		},
	}
}

// authFailure turns a login or signup error into the message shown to the user.
func authFailure(err error) error {
	msg := auth.UserMessage(err)
	fields := auth.FieldMessages(err)
	if len(fields) == 0 {
		return fmt.Errorf("%s", msg)
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(msg)
	for _, name := range names {
		fmt.Fprintf(&b, "\n  %s: %s", name, fields[name])
	}
	return fmt.Errorf("%s", b.String())
}

func signupIncomplete(r flights.SignupRequest) bool {
	for _, v := range []string{r.Nombre, r.Apellido, r.Direccion, r.Telefono, r.CorreoElectronico, r.Password} {
		if v == "" {
			return true
		}
	}
	return false
}

func promptLogin(req *flights.LoginRequest) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Email").Value(&req.CorreoElectronico),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&req.Password),
	))
	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

func promptSignup(req *flights.SignupRequest) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("First name").Value(&req.Nombre),
		huh.NewInput().Title("Last name").Value(&req.Apellido),
		huh.NewInput().Title("Address").Value(&req.Direccion),
		huh.NewInput().Title("Phone").Value(&req.Telefono),
		huh.NewInput().Title("Email").Value(&req.CorreoElectronico),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&req.Password),
	))
	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
