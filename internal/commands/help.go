package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for flowstate",
	Long:  `Display detailed help for all flowstate commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), helpText)
	},
}

const helpText = `
┏━╸╻  ┏━┓╻ ╻┏━┓╺┳╸┏━┓╺┳╸┏━╸
┣╸ ┃  ┃ ┃┃╻┃┗━┓ ┃ ┣━┫ ┃ ┣╸
╹  ┗━╸┗━┛┗┻┛┗━┛ ╹ ╹ ╹ ╹ ┗━╸

flowstate - focus timer, planner and crystal sanctuary

ACCOUNT:

  signup <name>           Create an account (-p password, prompted if omitted)
  login <name>            Log in
  logout                  Log out, data stays saved
  whoami                  Show user, streak and balance

PLANNING:

  task add <title>        Add a timeline task with smart parsing
    --at HH:MM            Start time (defaults to now)
    --for 45m             Length
    -c, --category        wellness|work|personal
    --emoji, --color      Decoration

    Smart syntax:
      🧘            Leading emoji
      @category     Set category
      at:07:30      Start time
      for:1h30m     Length

    Example:
      flowstate task add "🧘 Stretch @wellness at:07:30 for:15m"

  task edit <id> [title]  Edit a task (same syntax and flags)
  task done <id>          Toggle done
  task rm <id>            Delete
  task ls                 Today's timeline, ▶ marks the current task

  todo add <title>        Add a to-do (+high, +medium, +low)
  todo done|rm <id>       Toggle or delete
  todo ls                 List to-dos

  plan <goal>             AI breakdown into 3-5 to-dos (15 dust)
  search <query>          Fuzzy-search tasks and to-dos

FOCUS:

  focus                   Countdown on the current task
    --task <id>           Target a specific task
    -m, --minutes N       Countdown length, 1-180
    --stopwatch           Open-ended session, finish with f
    --no-ui               Plain ticker, Ctrl+C to stop
    --strict              Pause when you look away (Pro)
    --auto-start          Break, then next session (Pro)

    Timer keys:
      s             Start
      p/space       Pause/resume
      f             Finish stopwatch
      x             Abandon
      +/-           Adjust length
      m             Countdown/stopwatch
      b             Skip break
      q/esc         Quit

REWARDS:

  challenges              Daily, weekly and lifetime rituals
  claim [id]              Claim ritual dust (all when no id)
  sanctuary               Crystal collection
  fuse <type>             3 crystals into 1 of the next tier
  achievements            Achievement ladder
  redeem cash|crystal|dust  Unlock Pro
  block add|rm|ls <app>   Distracting apps list (Pro)

  dashboard               Interactive overview
  version                 Print version
  help                    Show this help

Configuration lives in ~/.flowstate/config.toml and FLOWSTATE_* variables.

`
