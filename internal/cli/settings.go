package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mvnkit/pkg/settings"
)

// settingsCommand shows where settings come from and what they resolve to.
func (c *CLI) settingsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show the effective Maven settings",
		Long: `Show the settings files mvnkit reads and the values taken from them.

User settings come from -Dmaven.settings.user, $MVNKIT_USER_SETTINGS or
~/.m2/settings.xml. Global settings come from -Dmaven.settings.global,
$MVNKIT_GLOBAL_SETTINGS or conf/settings.xml below -Dmaven.home, $MAVEN_HOME
or $M2_HOME. Without a build file only -D properties are considered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(c.buildFile); err == nil {
				e, err := c.loadEnv(cmd.Context())
				if err != nil {
					return err
				}
				showSettings(e.locations, e.settings, e.local.Root, e.offline)
				for _, r := range e.remotes {
					printKeyValue("remote", r.ID+" "+StyleLink.Render(r.URL))
				}
				return nil
			}

			props, err := c.properties()
			if err != nil {
				return err
			}
			loc := settings.Locate(props, os.LookupEnv)
			s, err := settings.Load(loc)
			if err != nil {
				return err
			}
			showSettings(loc, s, settings.LocalRepository(s, props), c.offline || s.Offline)
			return nil
		},
	}
}

func showSettings(loc settings.Locations, s *settings.Settings, localRepo string, offline bool) {
	printKeyValue("user", orNone(loc.User))
	printKeyValue("global", orNone(loc.Global))
	for _, f := range s.Files {
		printKeyValue("read", f)
	}
	printKeyValue("local repo", localRepo)
	if offline {
		printKeyValue("offline", "true")
	}
	for _, m := range s.Mirrors {
		printKeyValue("mirror", m.ID+" of "+m.MirrorOf+" "+StyleLink.Render(m.URL))
	}
}

func orNone(s string) string {
	if s == "" {
		return StyleDim.Render("(none)")
	}
	return s
}
