package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
)

var lang = language.English

// Summary describes the distribution of one per-game metric.
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	Max    float64 `json:"max"`
}

// Summarize computes a Summary over xs. xs is not modified.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	sorted := slices.Clone(xs)
	sort.Float64s(sorted)
	mean, std := stat.PopMeanStdDev(sorted, nil)
	return Summary{
		Mean:   mean,
		StdDev: std,
		Min:    sorted[0],
		P50:    stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:    stat.Quantile(0.9, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
}

// Report aggregates a batch of simulated games.
type Report struct {
	Strategy     string        `json:"strategy"`
	Games        int           `json:"games"`
	MovesPerGame int           `json:"moves_per_game"`
	Seed         uint64        `json:"seed"`
	Board        string        `json:"board"`
	Elapsed      time.Duration `json:"elapsed_ns"`

	Score         Summary     `json:"score"`
	PointsPerMove Summary     `json:"points_per_move"`
	MaxDepth      Summary     `json:"max_depth"`
	Promotions    Summary     `json:"promotions"`
	Shuffles      Summary     `json:"shuffles"`
	DepthCounts   map[int]int `json:"depth_counts"` // cascade depth -> moves
	Best          GameResult  `json:"-"`
	BestSeed      uint64      `json:"best_seed"`
}

// NewReport builds a report from per-game results.
func NewReport(strategy string, opts Options, results []GameResult, elapsed time.Duration) *Report {
	r := &Report{
		Strategy:     strategy,
		Games:        len(results),
		MovesPerGame: opts.MovesPerGame,
		Seed:         opts.Seed,
		Board:        fmt.Sprintf("%dx%d/%d", opts.Width, opts.Height, opts.Gems),
		Elapsed:      elapsed,
		DepthCounts:  make(map[int]int),
	}

	scores := make([]float64, 0, len(results))
	depths := make([]float64, 0, len(results))
	promos := make([]float64, 0, len(results))
	shuffles := make([]float64, 0, len(results))
	var ppm []float64
	for i, res := range results {
		scores = append(scores, float64(res.Score))
		depths = append(depths, float64(res.MaxDepth))
		promos = append(promos, float64(res.Promotions))
		shuffles = append(shuffles, float64(res.Shuffles))
		for _, p := range res.Points {
			ppm = append(ppm, float64(p))
		}
		for _, d := range res.Depths {
			r.DepthCounts[d]++
		}
		if i == 0 || res.Score > r.Best.Score {
			r.Best = res
		}
	}
	r.BestSeed = r.Best.Seed

	r.Score = Summarize(scores)
	r.PointsPerMove = Summarize(ppm)
	r.MaxDepth = Summarize(depths)
	r.Promotions = Summarize(promos)
	r.Shuffles = Summarize(shuffles)
	return r
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Table renders the report as a bordered two-column table.
func (r *Report) Table() string {
	p := message.NewPrinter(lang)
	msg := map[string]string{
		"Strategy":        r.Strategy,
		"Board":           r.Board,
		"Games":           p.Sprintf("%d", r.Games),
		"Moves / Game":    p.Sprintf("%d", r.MovesPerGame),
		"Base Seed":       fmt.Sprintf("%d", r.Seed),
		"Score Mean":      p.Sprintf("%.1f", r.Score.Mean),
		"Score STD":       p.Sprintf("%.1f", r.Score.StdDev),
		"Score P50 / P90": p.Sprintf("%.0f / %.0f", r.Score.P50, r.Score.P90),
		"Score Max":       p.Sprintf("%.0f (seed %d)", r.Score.Max, r.BestSeed),
		"Points / Move":   p.Sprintf("%.2f", r.PointsPerMove.Mean),
		"Best Cascade":    p.Sprintf("%.0f", r.MaxDepth.Max),
		"Promotions":      p.Sprintf("%.2f / game", r.Promotions.Mean),
		"Shuffles":        p.Sprintf("%.2f / game", r.Shuffles.Mean),
		"Cascade Depths":  r.depthLine(),
		"Elapsed":         formatDuration(r.Elapsed, r.Games),
	}
	keys := []string{
		"Strategy", "Board", "Games", "Moves / Game", "Base Seed",
		"Score Mean", "Score STD", "Score P50 / P90", "Score Max",
		"Points / Move", "Best Cascade", "Promotions", "Shuffles",
		"Cascade Depths", "Elapsed",
	}
	return fmtTable("Gemcrush Simulation", keys, msg)
}

func (r *Report) depthLine() string {
	depths := make([]int, 0, len(r.DepthCounts))
	for d := range r.DepthCounts {
		depths = append(depths, d)
	}
	sort.Ints(depths)
	p := message.NewPrinter(lang)
	parts := make([]string, 0, len(depths))
	for _, d := range depths {
		parts = append(parts, p.Sprintf("%d:%d", d, r.DepthCounts[d]))
	}
	return strings.Join(parts, " ")
}

func formatDuration(d time.Duration, games int) string {
	p := message.NewPrinter(lang)
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	gps := int(float64(games) / sec)
	if sec < 60 {
		return p.Sprintf("%.2fs (%d games/sec)", sec, gps)
	}
	return p.Sprintf("%s (%d games/sec)", d.Round(time.Second), gps)
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	left := max((totalInner-titleW)/2, 0)
	right := totalInner - titleW - left

	var b strings.Builder
	b.WriteString(top)
	fmt.Fprintf(&b, "|%s%s%s|\n", blank(left), title, blank(right))
	b.WriteString(divider)
	for _, k := range keys {
		fmt.Fprintf(&b, "| %s%s | %s%s |\n",
			k, blank(maxKeyLen-2-runewidth.StringWidth(k)),
			msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	b.WriteString(divider)
	return b.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
