package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"

	"github.com/drpaneas/gitinsight/internal/model"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	labelColor = color.New(color.Bold)
	warnColor  = color.New(color.FgYellow)
	goodColor  = color.New(color.FgGreen)
	badColor   = color.New(color.FgRed)
)

// wantJSON reports whether results should be printed as JSON. Pipes and
// redirects always get JSON.
func wantJSON() bool {
	return cfg.JSON || !term.IsTerminal(int(os.Stdout.Fd()))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderRepository(w io.Writer, res *model.AnalysisResult) error {
	r := res.Repository
	titleColor.Fprintln(w, r.FullName)
	if r.Description != "" {
		fmt.Fprintln(w, r.Description)
	}
	fmt.Fprintln(w)
	field(w, "Rating", stars(res.StarRating))
	field(w, "Language", orDash(r.Language))
	field(w, "Stars", strconv.Itoa(r.Stars))
	field(w, "Commits", strconv.Itoa(r.CommitCount))
	field(w, "Tech stack", orDash(strings.Join(res.TechStack, ", ")))
	fmt.Fprintln(w)
	labelColor.Fprintln(w, "Structure")
	fmt.Fprintln(w, res.FileStructureSummary)
	fmt.Fprintln(w)

	if len(res.Items) > 0 {
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Kind", "Name", "Path"})
		var data [][]string
		for _, it := range res.Items {
			data = append(data, []string{string(it.Kind), it.Name, it.Path})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	fetched := 0
	for _, f := range res.SampledFiles {
		if f.FetchSucceeded {
			fetched++
		}
	}
	fmt.Fprintf(w, "Sampled %d files (%d fetched)\n", len(res.SampledFiles), fetched)
	renderDegradations(w, res.Degradations)
	return nil
}

func renderProfile(w io.Writer, res *model.ProfileAnalysisResult) error {
	u := res.User
	title := u.Login
	if u.DisplayName != "" {
		title = fmt.Sprintf("%s (%s)", u.DisplayName, u.Login)
	}
	titleColor.Fprintln(w, title)
	if u.Bio != "" {
		fmt.Fprintln(w, u.Bio)
	}
	fmt.Fprintln(w)
	field(w, "Rating", stars(res.StarRating))
	field(w, "Health", healthColor(res.HealthScore).Sprintf("%d/100", res.HealthScore))
	field(w, "Followers", strconv.Itoa(u.Followers))
	field(w, "Repos", strconv.Itoa(u.PublicRepoCount))
	field(w, "Total stars", strconv.Itoa(res.TotalStars))
	field(w, "Expertise", orDash(strings.Join(res.MainExpertise, ", ")))
	field(w, "Languages", orDash(languagesLine(res.Languages)))
	if res.Calendar.Available {
		field(w, "Contributions", fmt.Sprintf("%d in the last year", res.Calendar.Total))
	} else {
		field(w, "Contributions", "unavailable")
	}
	fmt.Fprintln(w)
	labelColor.Fprintln(w, "Summary")
	fmt.Fprintln(w, res.ProfileSummary)
	fmt.Fprintln(w)

	if len(res.TopRepos) > 0 {
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Repository", "Language", "Stars", "Quality", "Pitch"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignLeft
		})
		var data [][]string
		for _, r := range res.TopRepos {
			data = append(data, []string{r.Name, orDash(r.Language), strconv.Itoa(r.Stars), strconv.Itoa(r.QualityScore), r.Pitch})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	labelColor.Fprintln(w, "Badges")
	for _, b := range res.Badges {
		if b.Earned {
			goodColor.Fprintf(w, "  [x] %s", b.Name)
		} else {
			fmt.Fprintf(w, "  [ ] %s", b.Name)
		}
		fmt.Fprintf(w, " - %s\n", b.Description)
	}

	if len(res.Suggestions) > 0 {
		fmt.Fprintln(w)
		labelColor.Fprintln(w, "Suggestions")
		for _, s := range res.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	renderDegradations(w, res.Degradations)
	return nil
}

func renderDegradations(w io.Writer, ds []model.Degradation) {
	if len(ds) == 0 {
		return
	}
	fmt.Fprintln(w)
	warnColor.Fprintln(w, "Partial result:")
	for _, d := range ds {
		warnColor.Fprintf(w, "  %s: %s\n", d.Source, d.Reason)
	}
}

func field(w io.Writer, label, value string) {
	labelColor.Fprintf(w, "%-15s", label+":")
	fmt.Fprintln(w, value)
}

// stars renders a 1-5 rating, rounded to the nearest whole star.
func stars(rating float64) string {
	n := int(rating + 0.5)
	n = max(0, min(5, n))
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n) + fmt.Sprintf(" %.1f", rating)
}

func healthColor(score int) *color.Color {
	switch {
	case score >= 70:
		return goodColor
	case score >= 40:
		return warnColor
	default:
		return badColor
	}
}

// languagesLine lists languages by repository count, highest first.
func languagesLine(langs model.LanguageDistribution) string {
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if langs[names[i]] != langs[names[j]] {
			return langs[names[i]] > langs[names[j]]
		}
		return names[i] < names[j]
	})
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s (%d)", name, langs[name])
	}
	return strings.Join(parts, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
