package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Charlesbasis/portfolio-app/internal/client/api"
	"github.com/Charlesbasis/portfolio-app/internal/client/session"
	"github.com/Charlesbasis/portfolio-app/internal/domain"
)

const envPrefix = "PORTFOLIO"

// cli: общее окружение команд, собирается в PersistentPreRunE
type cli struct {
	v      *viper.Viper
	log    *zap.Logger
	client *api.Client
	ctl    *session.Controller
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "portfolioctl", "token")
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:           "portfolioctl",
		Short:         "Command-line client for the portfolio content store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.String("api", "http://localhost:8080", "API base URL (env PORTFOLIO_API)")
	pf.String("token-file", defaultTokenFile(), "where the session token is kept (env PORTFOLIO_TOKEN_FILE)")
	pf.Duration("timeout", 15*time.Second, "HTTP timeout")
	pf.BoolP("verbose", "v", false, "log session transitions")
	_ = c.v.BindPFlags(pf)

	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root.AddCommand(
		c.statusCmd(),
		c.loginCmd(),
		c.registerCmd(),
		c.logoutCmd(),
		c.onboardCmd(),
	)
	return root
}

func (c *cli) setup() error {
	if c.v.GetBool("verbose") {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		c.log = l
	} else {
		c.log = zap.NewNop()
	}

	c.client = api.New(c.v.GetString("api"), api.WithHTTPClient(newHTTPClient(c.v.GetDuration("timeout"))))
	store := session.NewFileStore(c.v.GetString("token-file"))
	c.ctl = session.NewController(c.client, store, c.log)
	return nil
}

// boot: сетевую ошибку показываем, но команду не прерываем
func (c *cli) boot(cmd *cobra.Command) session.State {
	st, err := c.ctl.Boot(cmd.Context())
	if err != nil {
		c.log.Warn("session check failed", zap.Error(err))
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	return st
}

func printSession(w io.Writer, ctl *session.Controller) {
	fmt.Fprintf(w, "state: %s\n", ctl.State())
	if r := ctl.Redirect(); r != "" {
		fmt.Fprintf(w, "next: %s\n", r)
	}
	if u, ok := ctl.User(); ok {
		fmt.Fprintf(w, "user: %s <%s>\n", u.Name, u.Email)
	}
}

func printStats(w io.Writer, st domain.DashboardStats) {
	row := func(name string, rc domain.ResourceCounts) {
		fmt.Fprintf(w, "  %-13s %d total, %d published\n", name, rc.Total, rc.Published)
	}
	fmt.Fprintln(w, "dashboard:")
	row("projects", st.Projects)
	row("testimonials", st.Testimonials)
	row("services", st.Services)
	row("skills", st.Skills)
	fmt.Fprintf(w, "  %-13s %d total, %d unread\n", "messages", st.Messages, st.UnreadMessages)
}
