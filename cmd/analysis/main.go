//go:build analysis

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/bits"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"dahu/bf"
	"dahu/catalog"
	"dahu/rsf"
	"dahu/search"
	"dahu/transform"
)

type summaryStats struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	Max      float64 `json:"max"`
	IQR      float64 `json:"iqr"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis_excess"`
}

// ------------------------------ stats utilities ------------------------------

func computeStats(x []float64) summaryStats {
	n := len(x)
	if n == 0 {
		return summaryStats{}
	}
	cp := append([]float64(nil), x...)
	sort.Float64s(cp)
	minv, maxv := cp[0], cp[n-1]
	median := quantileSorted(cp, 0.5)
	q1 := quantileSorted(cp, 0.25)
	q3 := quantileSorted(cp, 0.75)
	iqr := q3 - q1
	var m float64
	for _, v := range x {
		m += v
	}
	m /= float64(n)
	var m2, m3, m4 float64
	for _, v := range x {
		d := v - m
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	var std float64
	if n > 1 {
		std = math.Sqrt(m2 / float64(n-1))
	}
	var skew, kurtEx float64
	if std > 0 {
		m2n := m2 / float64(n)
		m3n := m3 / float64(n)
		m4n := m4 / float64(n)
		skew = m3n / math.Pow(m2n, 1.5)
		kurtEx = m4n/m2n/m2n - 3.0
	}
	return summaryStats{Count: n, Mean: m, Std: std, Min: minv, Q1: q1, Median: median, Q3: q3, Max: maxv, IQR: iqr, Skewness: skew, Kurtosis: kurtEx}
}

func quantileSorted(sorted []float64, p float64) float64 {
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := p * float64(len(sorted)-1)
	l := int(math.Floor(pos))
	r := int(math.Ceil(pos))
	if l == r {
		return sorted[l]
	}
	w := pos - float64(l)
	return sorted[l]*(1-w) + sorted[r]*w
}

// freedmanDiaconisBins picks a bin count for x. Spectra are integer valued
// with few distinct values, so one bin per distinct value is used whenever
// there are at most maxDistinctBins of them.
func freedmanDiaconisBins(x []float64) int {
	n := len(x)
	if n < 2 {
		return 1
	}
	cp := append([]float64(nil), x...)
	sort.Float64s(cp)
	if k := distinctValues(cp); k <= maxDistinctBins {
		return k
	}
	iqr := quantileSorted(cp, 0.75) - quantileSorted(cp, 0.25)
	if iqr == 0 {
		if n < 200 {
			return n
		}
		return 200
	}
	bw := 2 * iqr * math.Pow(float64(n), -1.0/3.0)
	if bw <= 0 {
		if n < 200 {
			return n
		}
		return 200
	}
	r := cp[n-1] - cp[0]
	k := int(math.Ceil(r / bw))
	if k < 50 {
		k = 50
	}
	if k > 2000 {
		k = 2000
	}
	return k
}

const maxDistinctBins = 64

func distinctValues(sorted []float64) int {
	k := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1] {
			k++
			if k > maxDistinctBins {
				break
			}
		}
	}
	return k
}

func computeHistogram(values []float64, nbins int) (edges []float64, counts []int) {
	if len(values) == 0 {
		return []float64{0, 1}, []int{0}
	}
	cp := append([]float64(nil), values...)
	sort.Float64s(cp)
	minv, maxv := cp[0], cp[len(cp)-1]
	if nbins < 1 {
		nbins = 1
	}
	width := (maxv - minv) / float64(nbins)
	if width <= 0 {
		width = 1
	}
	edges = make([]float64, nbins+1)
	for i := 0; i <= nbins; i++ {
		edges[i] = minv + float64(i)*width
	}
	counts = make([]int, nbins)
	for _, v := range values {
		idx := int(math.Floor((v - minv) / width))
		if idx < 0 {
			idx = 0
		}
		if idx >= nbins {
			idx = nbins - 1
		}
		counts[idx]++
	}
	return
}

// ------------------------- collection helpers -------------------------

func appendInts(vals []float64, xs []int) []float64 {
	for _, v := range xs {
		vals = append(vals, float64(v))
	}
	return vals
}

// functionProfile holds the spectral data of one function.
type functionProfile struct {
	walsh        []int
	anfDegrees   []int
	nonlinearity int
	resiliency   int
	degree       int
}

func profileBF(f *bf.BF) (functionProfile, error) {
	var p functionProfile
	if err := f.UpdateANF(); err != nil {
		return p, err
	}
	if err := f.UpdateWS(); err != nil {
		return p, err
	}
	ws, err := f.WalshSpectrum(0, -1)
	if err != nil {
		return p, err
	}
	anf, err := f.ANF(0, -1)
	if err != nil {
		return p, err
	}
	if p.degree, err = f.Degree(); err != nil {
		return p, err
	}
	p.walsh = ws
	maxAbs := 0
	for _, w := range ws {
		if w < 0 {
			w = -w
		}
		if w > maxAbs {
			maxAbs = w
		}
	}
	p.nonlinearity = len(ws)/2 - maxAbs/2
	for m, b := range anf {
		if b == 1 {
			p.anfDegrees = append(p.anfDegrees, bits.OnesCount(uint(m)))
		}
	}
	p.resiliency = -1
	for r := 0; r < f.Locality(); r++ {
		ok, err := f.IsResilient(r)
		if err != nil {
			return p, err
		}
		if !ok {
			break
		}
		p.resiliency = r
	}
	return p, nil
}

// collectResults profiles every function of a search result log.
func collectResults(path string, l int) ([]functionProfile, error) {
	records, _, err := search.ReadResults(path)
	if err != nil {
		return nil, err
	}
	caches, err := rsf.NewCaches()
	if err != nil {
		return nil, err
	}
	g, err := rsf.New(caches, l)
	if err != nil {
		return nil, err
	}
	f, err := bf.New(l)
	if err != nil {
		return nil, err
	}
	out := make([]functionProfile, 0, len(records))
	for _, rec := range records {
		if err := g.SetSANF(rec.SANF); err != nil {
			return nil, err
		}
		if err := g.UpdateTT(); err != nil {
			return nil, err
		}
		tt, err := g.TruthTable()
		if err != nil {
			return nil, err
		}
		if err := f.SetTruthTable(tt); err != nil {
			return nil, err
		}
		p, err := profileBF(f)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ------------------------- plotting: go-echarts HTML -------------------------

func toBarItems(vals []int) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func newHistogramChart(title string, values []float64, stats summaryStats) *charts.Bar {
	nbins := freedmanDiaconisBins(values)
	edges, counts := computeHistogram(values, nbins)
	xLabels := make([]string, nbins)
	for i := 0; i < nbins; i++ {
		center := 0.5 * (edges[i] + edges[i+1])
		xLabels[i] = fmt.Sprintf("%.2f", center)
	}
	bar := charts.NewBar()
	subtitle := fmt.Sprintf("n=%d, mean=%.3f, std=%.3f, median=%.3f, IQR=%.3f", stats.Count, stats.Mean, stats.Std, stats.Median, stats.IQR)
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(xLabels).
		AddSeries("count", toBarItems(counts)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

// ------------------------------ JSON and I/O ------------------------------

func saveJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// ------------------------------- main routine -------------------------------

func main() {
	locality := flag.Int("l", 9, "number of variables")
	ttArg := flag.String("tt", catalog.Dahu9Hex, "truth table (0x hex or 0/1 string) to analyse")
	results := flag.String("results", "", "analyse every function of this result log instead of -tt")
	outDir := flag.String("out", "Measure_Reports", "output directory for reports")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}

	var profiles []functionProfile
	if *results != "" {
		ps, err := collectResults(*results, *locality)
		if err != nil {
			log.Fatalf("collect results: %v", err)
		}
		log.Printf("[analysis] %d functions read from %s", len(ps), *results)
		profiles = ps
	} else {
		tt, err := transform.ParseTruthTable(*ttArg, *locality)
		if err != nil {
			log.Fatalf("truth table: %v", err)
		}
		f, err := bf.New(*locality)
		if err != nil {
			log.Fatalf("new function: %v", err)
		}
		if err := f.SetTruthTable(tt); err != nil {
			log.Fatalf("set truth table: %v", err)
		}
		p, err := profileBF(f)
		if err != nil {
			log.Fatalf("profile: %v", err)
		}
		profiles = append(profiles, p)
	}

	// Accumulate over every function
	var allWS, allAbsWS, allDeg, allNL, allRes, allDegree []float64
	for _, p := range profiles {
		allWS = appendInts(allWS, p.walsh)
		for _, w := range p.walsh {
			allAbsWS = append(allAbsWS, math.Abs(float64(w)))
		}
		allDeg = appendInts(allDeg, p.anfDegrees)
		allNL = append(allNL, float64(p.nonlinearity))
		allRes = append(allRes, float64(p.resiliency))
		allDegree = append(allDegree, float64(p.degree))
	}

	outStats := map[string]summaryStats{
		"walsh":        computeStats(allWS),
		"walsh_abs":    computeStats(allAbsWS),
		"anf_degree":   computeStats(allDeg),
		"nonlinearity": computeStats(allNL),
		"resiliency":   computeStats(allRes),
		"degree":       computeStats(allDegree),
	}

	ts := time.Now().Format("20060102_150405")
	jsonPath := filepath.Join(*outDir, fmt.Sprintf("walsh_stats_%s.json", ts))
	if err := saveJSON(jsonPath, outStats); err != nil {
		log.Fatalf("save stats: %v", err)
	}

	// Build a single HTML page with multiple histograms
	page := components.NewPage()

	add := func(name string, vals []float64) {
		if len(vals) == 0 {
			return
		}
		st := computeStats(vals)
		page.AddCharts(newHistogramChart(name, vals, st))
	}
	add("Walsh coefficients", allWS)
	add("|Walsh coefficients|", allAbsWS)
	add("ANF monomial degrees", allDeg)
	if len(profiles) > 1 {
		add("nonlinearity", allNL)
		add("resiliency order", allRes)
	}

	htmlPath := filepath.Join(*outDir, fmt.Sprintf("walsh_histograms_%s.html", ts))
	f, err := os.Create(htmlPath)
	if err != nil {
		log.Fatalf("create html: %v", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatalf("render html: %v", err)
	}
	fmt.Println("Histogram page:", htmlPath)
	fmt.Println("Stats JSON:", jsonPath)
}
