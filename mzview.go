// Copyright 2018 Rob Marissen.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/524D/mzview/internal/mzidentml"
	"github.com/524D/mzview/internal/mzml"
	"github.com/524D/mzview/internal/peptide"
	"github.com/524D/mzview/internal/plotout"
	"github.com/524D/mzview/internal/tic"
	"github.com/524D/mzview/internal/ticplot"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

const progName = "mzView"

var progVersion = `Unknown`

const (
	infoDefault = iota
	infoSilent
	infoVerbose
)

// Command line parameters
type params struct {
	mzMLFilename  string
	outFilename   string
	format        string  // Output format, svg, png or pdf
	width         float64 // Output width in inch
	height        float64 // Output height in inch
	rt            string  // Visible retention time range in minutes
	chromatogram  string  // Chromatogram id, empty for the TIC
	minDistancePx float64 // Minimum distance between label anchors
	debugPeaks    string  // Print debug output for given peak rank range
	verbosity     int     // Verbosity of progress messages (infoDefault...)
	debug         bool    // Enable debug info (environment variable MZVIEW_DEBUG=1)

	mzIdentMlFilename string
	pep               string   // Peptide id or sequence in the mzIdentML file
	seq               string   // Literal peptide sequence
	prefix            []string // Literal prefix ions, e.g. 1:a1,b1
	suffix            []string // Literal suffix ions
}

var (
	ErrRangeSpec = errors.New("invalid range specified")
	ErrIonSpec   = errors.New("invalid ion specification")
)

// Parse string like "-12:6" into 2 values, -12 and 6
// Parameters min and max are the "default" min/max values,
// when a value is not specified (e.g. "-12:"), the default is assigned
func parseIntRange(r string, min int, max int) (int, int, error) {
	re := regexp.MustCompile(`\s*(\-?\d*):(\-?\d*)`)
	m := re.FindStringSubmatch(r)
	minOut := min
	maxOut := max
	if len(m) >= 2 && m[1] != "" {
		minOut, _ = strconv.Atoi(m[1])
		if minOut < min {
			minOut = min
		}
	}
	if len(m) >= 3 && m[2] != "" {
		maxOut, _ = strconv.Atoi(m[2])
		if maxOut > max {
			maxOut = max
		}
	}
	var err error
	if minOut > maxOut {
		err = ErrRangeSpec
		minOut = maxOut
	}
	return minOut, maxOut, err
}

// Parse string like "-12.01e1:+6" into 2 values, -120.1 and 6.0
// Parameters min and max are the "default" min/max values,
// when a value is not specified (e.g. "-12.01e1:"), the default is assigned
func parseFloat64Range(r string, min float64, max float64) (
	float64, float64, error) {
	re := regexp.MustCompile(`\s*([-+]?[0-9]*\.?[0-9]*([eE][-+]?[0-9]+)?):([-+]?[0-9]*\.?[0-9]*([eE][-+]?[0-9]+)?)`)
	m := re.FindStringSubmatch(r)
	minOut := min
	maxOut := max
	if len(m) >= 2 && m[1] != "" {
		minOut, _ = strconv.ParseFloat(m[1], 64)
		if minOut < min {
			minOut = min
		}
	}
	if len(m) >= 4 && m[3] != "" {
		maxOut, _ = strconv.ParseFloat(m[3], 64)
		if maxOut > max {
			maxOut = max
		}
	}
	var err error
	if minOut > maxOut {
		err = ErrRangeSpec
		minOut = maxOut
	}
	return minOut, maxOut, err
}

// Parse ion specifications like "3:a3,b3" into a map from position
// to ion names
func parseIons(specs []string) (map[int][]string, error) {
	ions := make(map[int][]string)
	for _, s := range specs {
		pos, names, ok := strings.Cut(s, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrIonSpec, s)
		}
		p, err := strconv.Atoi(strings.TrimSpace(pos))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrIonSpec, s)
		}
		for _, n := range strings.Split(names, ",") {
			if n = strings.TrimSpace(n); n != "" {
				ions[p] = append(ions[p], n)
			}
		}
	}
	return ions, nil
}

// outName returns the output file name and format. An explicit format
// wins over the extension of an explicit file name.
func outName(out, format, input, suffix string) (string, string) {
	if format == "" {
		format = plotout.FormatOf(out)
	}
	if format == "" {
		format = "svg"
	}
	if out == "" {
		ext := filepath.Ext(input)
		out = input[:len(input)-len(ext)] + suffix + "." + format
	}
	return out, format
}

func readChromatogram(par *params) (*mzml.MzML, mzml.Chromatogram, error) {
	t := time.Now()
	if par.verbosity == infoVerbose {
		fmt.Fprintf(os.Stderr, "Reading %s: ", par.mzMLFilename)
	}
	mzFile, err := os.Open(par.mzMLFilename)
	if err != nil {
		return nil, mzml.Chromatogram{}, err
	}
	defer mzFile.Close()
	mzML, err := mzml.Read(mzFile)
	if err != nil {
		return nil, mzml.Chromatogram{}, fmt.Errorf("mzml.Read %s: %w", par.mzMLFilename, err)
	}
	var chrom mzml.Chromatogram
	if par.chromatogram == "" {
		chrom, err = mzML.TIC()
	} else {
		chrom, err = mzML.Chromatogram(par.chromatogram)
	}
	if err != nil {
		return nil, chrom, fmt.Errorf("%s: %w", par.mzMLFilename, err)
	}
	if par.verbosity == infoVerbose {
		fmt.Fprintf(os.Stderr, "%s\n", time.Since(t))
		fmt.Fprintf(os.Stderr, "Chromatograms: %s\n", strings.Join(mzML.ChromatogramIDs(), " "))
		if chrom.SpectrumIndex != nil {
			fmt.Fprintf(os.Stderr, "No TIC chromatogram, computed from %d MS1 spectra\n", chrom.Len())
		}
	}
	return &mzML, chrom, nil
}

func runTIC(cmd *cobra.Command, par *params) error {
	mzML, chrom, err := readChromatogram(par)
	if err != nil {
		return err
	}

	canvas := ticplot.New(ticplot.Config{
		Width:  vg.Length(par.width) * vg.Inch,
		Height: vg.Length(par.height) * vg.Inch,
	})
	view := tic.NewView(canvas)
	view.Placer().MinDistancePx = par.minDistancePx
	canvas.Watch(view.OnRangeChanged)
	if err := view.Load(chrom.Times, chrom.Intensities); err != nil {
		return fmt.Errorf("chromatogram %s: %w", chrom.ID, err)
	}

	extent := view.Series().Extent()
	rtMin, rtMax, err := parseFloat64Range(par.rt, extent.Min, extent.Max)
	if err != nil {
		return fmt.Errorf("rt %q: %w", par.rt, err)
	}
	canvas.SetTimeRange(rtMin, rtMax)

	if par.debug && par.debugPeaks == "" {
		par.debugPeaks = ":"
	}
	debugLogPeaks(cmd.OutOrStdout(), par.debugPeaks, view, &chrom, mzML)

	suffix := "-tic"
	if par.chromatogram != "" {
		suffix = "-chrom"
	}
	out, format := outName(par.outFilename, par.format, par.mzMLFilename, suffix)
	if err := canvas.Save(out, format); err != nil {
		return err
	}
	if par.verbosity != infoSilent {
		fmt.Fprintf(os.Stderr, "%s: %d peaks, %d labelled, written to %s\n",
			chrom.ID, len(view.Peaks()), len(view.Labels()), out)
	}
	return nil
}

func readLadder(par *params) (peptide.Ladder, error) {
	if par.mzIdentMlFilename == "" {
		prefix, err := parseIons(par.prefix)
		if err != nil {
			return peptide.Ladder{}, err
		}
		suffix, err := parseIons(par.suffix)
		if err != nil {
			return peptide.Ladder{}, err
		}
		l := peptide.Ladder{Sequence: par.seq, Prefix: prefix, Suffix: suffix}
		return l, l.Validate()
	}

	f, err := os.Open(par.mzIdentMlFilename)
	if err != nil {
		return peptide.Ladder{}, err
	}
	defer f.Close()
	mzIdentML, err := mzidentml.Read(f)
	if err != nil {
		return peptide.Ladder{}, fmt.Errorf("mzidentml.Read %s: %w", par.mzIdentMlFilename, err)
	}
	pep := par.pep
	if pep == "" {
		pep = par.seq
	}
	i, err := mzIdentML.FindPeptide(pep)
	if err != nil {
		return peptide.Ladder{}, err
	}
	return mzIdentML.Ladder(i)
}

func runPeptide(par *params) error {
	l, err := readLadder(par)
	if err != nil {
		return err
	}
	if par.verbosity == infoVerbose {
		for _, k := range sortedKeys(l.Prefix) {
			fmt.Fprintf(os.Stderr, "prefix %d: %s\n", k, strings.Join(l.Prefix[k], " "))
		}
		for _, k := range sortedKeys(l.Suffix) {
			fmt.Fprintf(os.Stderr, "suffix %d: %s\n", k, strings.Join(l.Suffix[k], " "))
		}
	}
	lay, err := l.Layout(peptide.DefaultMetrics)
	if err != nil {
		return err
	}
	out, format := outName(par.outFilename, par.format, l.Sequence, "")
	if err := lay.Save(out, format); err != nil {
		return err
	}
	if par.verbosity != infoSilent {
		fmt.Fprintf(os.Stderr, "%s: %d prefix and %d suffix positions, written to %s\n",
			l.Sequence, len(l.Prefix), len(l.Suffix), out)
	}
	return nil
}

func newRootCmd() *cobra.Command {
	var par params
	var verbose, quiet bool

	rootCmd := &cobra.Command{
		Use:   "mzview",
		Short: "mzView - chromatogram and peptide fragmentation viewer",
		Long: `mzView renders mass spectrometry data: the total ion chromatogram of
an mzML file with its most significant peaks labelled, and the fragment
ion ladder of an identified peptide.`,
		Version:       progVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				par.verbosity = infoVerbose
			}
			if quiet {
				par.verbosity = infoSilent
			}
			// Check if debug output should be enabled
			par.debug = os.Getenv("MZVIEW_DEBUG") == `1`
		},
	}
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Print more verbose progress information")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Don't print any output except for errors")
	rootCmd.PersistentFlags().StringVarP(&par.outFilename, "out", "o", "", "Output `filename`, the extension selects the format")
	rootCmd.PersistentFlags().StringVar(&par.format, "format", "",
		"Output format: "+strings.Join(plotout.Formats, ", ")+" (default from --out, else svg)")

	ticCmd := &cobra.Command{
		Use:   "tic <mzMLfile>",
		Short: "Plot the total ion chromatogram with peak labels",
		Long: `Plot the total ion chromatogram of an mzML file. Local maxima are
labelled with their retention time in minutes, most intense first; labels
that would overlap a more intense one are left out.

If the file has no TIC chromatogram, it is computed from the MS1 spectra.

Examples:
  mzview tic yeast.mzML
    Write yeast-tic.svg showing the full run.

  mzview tic --rt 20:35 -o yeast.png yeast.mzML
    Show 20 to 35 minutes only, as PNG.

Environment variable MZVIEW_DEBUG=1 prints debug output for all peaks.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			par.mzMLFilename = args[0]
			return runTIC(cmd, &par)
		},
	}
	ticCmd.Flags().Float64Var(&par.width, "width", 8, "Plot width in inch")
	ticCmd.Flags().Float64Var(&par.height, "height", 4, "Plot height in inch")
	ticCmd.Flags().StringVar(&par.rt, "rt", "", "Visible retention time `range` in minutes, e.g. 20:35 (default all)")
	ticCmd.Flags().StringVar(&par.chromatogram, "chromatogram", "", "`id` of the chromatogram to plot (default the TIC)")
	ticCmd.Flags().Float64Var(&par.minDistancePx, "label-distance", tic.DefaultMinDistancePx,
		"Minimum horizontal distance between labels in points")
	ticCmd.Flags().StringVar(&par.debugPeaks, "debug", "", "Print debug output for given peak rank `range` e.g. 0:9")

	pepCmd := &cobra.Command{
		Use:   "peptide",
		Short: "Draw the fragment ion ladder of a peptide",
		Long: `Draw a peptide sequence with its observed prefix (a, b, c) and suffix
(x, y, z) fragment ions, taken from an mzIdentML file or given literally.

Examples:
  mzview peptide --mzid yeast.mzid --pep PEP_42
    Draw the first identification of peptide PEP_42 to <sequence>.svg.

  mzview peptide --seq PEPTIDE --prefix 1:a1,b1 --prefix 3:b3 --suffix 2:y2
    Draw a literal ladder.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if par.seq == "" && (par.mzIdentMlFilename == "" || par.pep == "") {
				return errors.New("either --seq or --mzid with --pep is required")
			}
			return runPeptide(&par)
		},
	}
	pepCmd.Flags().StringVar(&par.mzIdentMlFilename, "mzid", "", "mzIdentML `filename`")
	pepCmd.Flags().StringVar(&par.pep, "pep", "", "Peptide `id` or sequence in the mzIdentML file")
	pepCmd.Flags().StringVar(&par.seq, "seq", "", "Peptide `sequence`")
	pepCmd.Flags().StringArrayVar(&par.prefix, "prefix", nil, "Prefix ions at a position, e.g. 1:a1,b1 (repeatable)")
	pepCmd.Flags().StringArrayVar(&par.suffix, "suffix", nil, "Suffix ions at a position, e.g. 2:y2 (repeatable)")

	rootCmd.AddCommand(ticCmd, pepCmd)
	return rootCmd
}

// sortedKeys returns the keys of m in ascending order
func sortedKeys(m map[int][]string) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("%s: %v", progName, err)
	}
}
