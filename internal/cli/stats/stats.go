package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dailyq/internal/cli"
)

type StatsCmd struct {
	Days int  `help:"Number of days shown in the calendar." default:"30"`
	JSON bool `help:"Print insights as JSON."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 || c.Days > 366 {
		return fmt.Errorf("--days must be between 1 and 366")
	}
	if _, err := ctx.Session(); err != nil {
		return err
	}

	insights, err := ctx.Reflection.Insights(c.Days)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(insights)
	}

	streaks := lipgloss.JoinHorizontal(lipgloss.Top,
		cli.BoxStyle.Render(fmt.Sprintf("Current streak\n%s", cli.TitleStyle.Render(days(insights.Current)))),
		" ",
		cli.BoxStyle.Render(fmt.Sprintf("Longest streak\n%s", cli.TitleStyle.Render(days(insights.Longest)))),
	)
	fmt.Println(streaks)
	fmt.Println()

	fmt.Printf("Today     %s\n", cli.CompletionBar(insights.TodayCompletion))
	fmt.Printf("7 days    %s\n", cli.CompletionBar(insights.Weekly))
	fmt.Printf("30 days   %s\n", cli.CompletionBar(insights.Monthly))
	fmt.Println()

	if len(insights.Calendar) > 0 {
		first := insights.Calendar[0].Date
		last := insights.Calendar[len(insights.Calendar)-1].Date
		fmt.Printf("%s\n%s\n", cli.CalendarRow(insights.Calendar), cli.MutedStyle.Render(first+strings.Repeat(" ", max(1, len(insights.Calendar)-2*len(first)))+last))
	}
	return nil
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
