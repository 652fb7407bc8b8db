package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Charlesbasis/portfolio-app/internal/client/api"
	"github.com/Charlesbasis/portfolio-app/internal/client/session"
)

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the saved token and show where the session stands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := c.boot(cmd)
			printSession(cmd.OutOrStdout(), c.ctl)
			if st != session.Authenticated {
				return nil
			}
			tok, err := c.ctl.Token()
			if err != nil {
				return err
			}
			stats, err := c.client.DashboardStats(cmd.Context(), tok)
			if err != nil {
				return fmt.Errorf("dashboard: %w", err)
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireSignedOut(cmd); err != nil {
				return err
			}
			if password == "" {
				password = c.v.GetString("password")
			}
			if _, err := c.ctl.Login(cmd.Context(), email, password); err != nil {
				return describe(err)
			}
			printSession(cmd.OutOrStdout(), c.ctl)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (env PORTFOLIO_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var in api.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireSignedOut(cmd); err != nil {
				return err
			}
			if in.Password == "" {
				in.Password = c.v.GetString("password")
			}
			in.PasswordConfirmation = in.Password
			if _, err := c.ctl.Register(cmd.Context(), in); err != nil {
				return describe(err)
			}
			printSession(cmd.OutOrStdout(), c.ctl)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "account password (env PORTFOLIO_PASSWORD)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the token and forget it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.boot(cmd)
			if _, err := c.ctl.Logout(cmd.Context()); err != nil {
				return err
			}
			printSession(cmd.OutOrStdout(), c.ctl)
			return nil
		},
	}
}

func (c *cli) onboardCmd() *cobra.Command {
	var in api.OnboardingInput
	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Fill in the profile to finish onboarding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch c.boot(cmd) {
			case session.OnboardingIncomplete:
			case session.Authenticated:
				fmt.Fprintln(cmd.OutOrStdout(), "onboarding already completed")
				return nil
			default:
				return errors.New("not signed in: run login first")
			}
			if _, err := c.ctl.CompleteOnboarding(cmd.Context(), in); err != nil {
				return describe(err)
			}
			printSession(cmd.OutOrStdout(), c.ctl)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Headline, "headline", "", "professional headline")
	f.StringVar(&in.Bio, "bio", "", "short bio")
	f.StringVar(&in.Location, "location", "", "city or country")
	f.StringVar(&in.Website, "website", "", "personal site URL")
	f.StringVar(&in.AvatarURL, "avatar-url", "", "avatar image URL")
	f.StringToStringVar(&in.Socials, "social", nil, "social links, e.g. --social github=https://github.com/me")
	_ = cmd.MarkFlagRequired("headline")
	return cmd
}

func (c *cli) requireSignedOut(cmd *cobra.Command) error {
	st := c.boot(cmd)
	if st == session.Unauthenticated {
		return nil
	}
	if u, ok := c.ctl.User(); ok {
		return fmt.Errorf("already signed in as %s: run logout first", u.Email)
	}
	return fmt.Errorf("session is %s", st)
}

// describe раскрывает ошибки полей из ответа 422
func describe(err error) error {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || len(apiErr.Fields) == 0 {
		return err
	}
	msg := apiErr.Message
	for field, msgs := range apiErr.Fields {
		for _, m := range msgs {
			msg += fmt.Sprintf("\n  %s: %s", field, m)
		}
	}
	return errors.New(msg)
}
