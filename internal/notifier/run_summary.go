package notifier

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/scvsar/incidentharvest/internal/models"
)

// RunSummary is what gets reported about one harvest run.
type RunSummary struct {
	RunID          string
	Status         models.RunStatus
	Termination    models.Termination
	TotalIncidents int
	ReportedTotal  int
	PageSize       int
	PagesFetched   int
	SnapshotPath   string
	StartedAt      time.Time
	FinishedAt     time.Time
	Error          string
}

// BuildRunPayload renders summary as a single-embed webhook message.
func BuildRunPayload(summary RunSummary, mentionRoleIDs []string) DiscordMessagePayload {
	embed := DiscordEmbed{
		Title:     runTitle(summary.Status),
		Color:     runColor(summary.Status),
		Timestamp: summary.FinishedAt.UTC().Format(time.RFC3339),
		Footer:    &DiscordEmbedFooter{Text: "Run " + summary.RunID},
		Fields: []DiscordEmbedField{
			{Name: "Incidents", Value: incidentsValue(summary), Inline: true},
			{Name: "Page size", Value: strconv.Itoa(summary.PageSize), Inline: true},
			{Name: "Pages fetched", Value: strconv.Itoa(summary.PagesFetched), Inline: true},
		},
	}

	if summary.Termination != "" {
		embed.Fields = append(embed.Fields, DiscordEmbedField{Name: "Stopped because", Value: string(summary.Termination), Inline: true})
	}
	if !summary.StartedAt.IsZero() && !summary.FinishedAt.IsZero() {
		embed.Fields = append(embed.Fields, DiscordEmbedField{
			Name:   "Duration",
			Value:  summary.FinishedAt.Sub(summary.StartedAt).Round(time.Second).String(),
			Inline: true,
		})
	}
	if summary.SnapshotPath != "" {
		embed.Fields = append(embed.Fields, DiscordEmbedField{Name: "Snapshot", Value: "`" + summary.SnapshotPath + "`"})
	}
	if summary.Error != "" {
		embed.Fields = append(embed.Fields, DiscordEmbedField{Name: "Error", Value: truncateField(summary.Error)})
	}

	payload := DiscordMessagePayload{
		Username: webhookUsername,
		Embeds:   []DiscordEmbed{embed},
	}
	if len(mentionRoleIDs) > 0 && summary.Status != models.RunStatusCompleted {
		mentions := make([]string, len(mentionRoleIDs))
		for i, id := range mentionRoleIDs {
			mentions[i] = "<@&" + id + ">"
		}
		payload.Content = strings.Join(mentions, " ")
		payload.AllowedMentions = &DiscordAllowedMention{Roles: mentionRoleIDs}
	}
	return payload
}

func incidentsValue(summary RunSummary) string {
	if summary.ReportedTotal > 0 {
		return fmt.Sprintf("%d of %d", summary.TotalIncidents, summary.ReportedTotal)
	}
	return strconv.Itoa(summary.TotalIncidents)
}

func runTitle(status models.RunStatus) string {
	switch status {
	case models.RunStatusCompleted:
		return "Incident harvest completed"
	case models.RunStatusPartial:
		return "Incident harvest incomplete"
	default:
		return "Incident harvest failed"
	}
}

func runColor(status models.RunStatus) int {
	switch status {
	case models.RunStatusCompleted:
		return SuccessEmbedColor
	case models.RunStatusPartial:
		return WarningEmbedColor
	default:
		return ErrorEmbedColor
	}
}

// truncateField limits s to maxFieldValueLength characters.
func truncateField(s string) string {
	r := []rune(s)
	if len(r) <= maxFieldValueLength {
		return s
	}
	return string(r[:maxFieldValueLength-3]) + "..."
}
