package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/russross/blackfriday/v2"

	"github.com/spacesedan/ulasan/internal/models"
)

const (
	DEFAULT_COLOR    = "#607D8B"
	CHART_TOP_WORDS  = 20
	DEFAULT_TITLE    = "Analisis Komentar"
	COUNT_AXIS_LABEL = "Jumlah Komentar"
)

var sentimentColors = map[string]string{
	string(models.Positive): "#4CAF50",
	string(models.Negative): "#F44336",
	string(models.Neutral):  "#9E9E9E",
}

var sentimentNames = map[string]string{
	string(models.Positive): "Positif",
	string(models.Negative): "Negatif",
	string(models.Neutral):  "Netral",
}

var emotionColors = map[string]string{
	"senang":    "#4CAF50",
	"sedih":     "#2196F3",
	"marah":     "#F44336",
	"takut":     "#9C27B0",
	"unlabeled": "#9E9E9E",
}

// RenderHTML writes a standalone page: a markdown summary followed by the
// sentiment, emotion and top word charts.
func RenderHTML(w io.Writer, s Summary, title string) error {
	if title == "" {
		title = DEFAULT_TITLE
	}

	page := components.NewPage()
	page.SetPageTitle(title)
	page.AddCharts(
		countBar("Distribusi Sentimen", s.Sentiment, sentimentColors, sentimentNames),
		countBar("Distribusi Emosi", s.Emotion, emotionColors, nil),
		topWordsBar(s.TopWords),
	)

	content := page.RenderContent()
	summary := SummaryHTML(s, title)

	out := bytes.Replace(content, []byte("<body>"), append([]byte("<body>\n"), summary...), 1)
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("[Report] failed to write HTML: %w", err)
	}
	return nil
}

// SummaryHTML renders the summary tables through markdown.
func SummaryHTML(s Summary, title string) []byte {
	return blackfriday.Run([]byte(SummaryMarkdown(s, title)),
		blackfriday.WithExtensions(blackfriday.CommonExtensions))
}

func SummaryMarkdown(s Summary, title string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", html.EscapeString(title))
	fmt.Fprintf(&b, "**%d** komentar dianalisis.\n\n", s.Total)

	writeTable(&b, "Sentimen", s.Sentiment, sentimentNames)
	writeTable(&b, "Emosi", s.Emotion, nil)

	if len(s.Topics) > 0 {
		b.WriteString("## Topik Komentar\n\n")
		for _, t := range s.Topics {
			fmt.Fprintf(&b, "#### Topik %d: %s\n\n%s\n\n",
				t.ID+1, html.EscapeString(t.Label), html.EscapeString(strings.Join(t.Words, ", ")))
		}
	}
	return b.String()
}

func writeTable(b *strings.Builder, heading string, counts []LabelCount, names map[string]string) {
	fmt.Fprintf(b, "| %s | Jumlah |\n|---|---:|\n", heading)
	for _, c := range counts {
		fmt.Fprintf(b, "| %s | %d |\n", html.EscapeString(displayName(c.Label, names)), c.Count)
	}
	b.WriteString("\n")
}

func displayName(label string, names map[string]string) string {
	if name, ok := names[label]; ok {
		return name
	}
	return label
}

func colorFor(label string, palette map[string]string) string {
	if c, ok := palette[label]; ok {
		return c
	}
	return DEFAULT_COLOR
}

func countBar(title string, counts []LabelCount, palette, names map[string]string) *charts.Bar {
	labels := make([]string, 0, len(counts))
	data := make([]opts.BarData, 0, len(counts))
	for _, c := range counts {
		labels = append(labels, displayName(c.Label, names))
		data = append(data, opts.BarData{
			Value:     c.Count,
			ItemStyle: &opts.ItemStyle{Color: colorFor(c.Label, palette)},
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: COUNT_AXIS_LABEL}),
	)
	bar.SetXAxis(labels).AddSeries(COUNT_AXIS_LABEL, data)
	return bar
}

// topWordsBar draws horizontal bars with the most frequent word on top.
func topWordsBar(words []LabelCount) *charts.Bar {
	if len(words) > CHART_TOP_WORDS {
		words = words[:CHART_TOP_WORDS]
	}

	labels := make([]string, 0, len(words))
	data := make([]opts.BarData, 0, len(words))
	for i := len(words) - 1; i >= 0; i-- {
		labels = append(labels, words[i].Label)
		data = append(data, opts.BarData{Value: words[i].Count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Kata Teratas"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: labels}),
	)
	bar.AddSeries("Frekuensi", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: DEFAULT_COLOR}))
	return bar
}
