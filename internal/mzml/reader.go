package mzml

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"

	"golang.org/x/net/html/charset"
	"gonum.org/v1/gonum/floats"
)

// Chromatogram holds the samples of one chromatogram. Times are in
// seconds.
type Chromatogram struct {
	ID          string
	Times       []float64
	Intensities []float64
	// SpectrumIndex maps each sample to the spectrum it was computed
	// from. It is nil for chromatograms stored in the file.
	SpectrumIndex []int
}

// Len returns the number of samples
func (c *Chromatogram) Len() int {
	return len(c.Times)
}

// Read reads mzML file from an io.Reader
func Read(reader io.Reader) (MzML, error) {
	var mzML MzML

	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel

	// We are only interested in mzML content, so skip over indexedmzML
	// and everything else
	for {
		t, tokenErr := d.Token()
		if tokenErr != nil {
			if tokenErr == io.EOF {
				break
			}
			return mzML, tokenErr
		}
		switch t := t.(type) {
		case xml.StartElement:
			if t.Name.Local == "mzML" {
				if err := d.DecodeElement(&mzML.content, &t); err != nil {
					return mzML, err
				}
			}
		}
	}

	if err := mzML.traverseScan(); err != nil {
		return mzML, err
	}
	mzML.indexChromatograms()
	return mzML, nil
}

// arrayPars holds the decoded CV terms of a mzML binaryDataArray
type arrayPars struct {
	zlibCompression bool
	bits64          bool
	mzArray         bool
	intensityArray  bool
	timeArray       bool
	timeScale       float64 // factor to seconds
}

// binaryDataPars decodes the CV terms in a mzML binarydata section
//
// CV Terms for binary data compression
// MS:1000574 zlib compression
// MS:1000576 No Compression
// MS:1002312 MS-Numpress linear prediction compression
// MS:1002313 MS-Numpress positive integer compression
// MS:1002314 MS-Numpress short logged float compression
// MS:1002746 MS-Numpress linear prediction compression followed by zlib compression
// MS:1002747 MS-Numpress positive integer compression followed by zlib compression
// MS:1002748 MS-Numpress short logged float compression followed by zlib compression
//
// CV Terms for binary data array types
// MS:1000514 m/z array
// MS:1000515 intensity array
// MS:1000595 time array
//
// CV Terms for binary-data-type
// MS:1000521 32-bit float
// MS:1000523 64-bit float
func binaryDataPars(binaryDataArray *binaryDataArray) (arrayPars, error) {
	p := arrayPars{timeScale: 1} // Default: no compression, 32 bits
	for _, cvParam := range binaryDataArray.CvPar {
		switch cvParam.Accession {
		case `MS:1000574`: // zlib compression
			p.zlibCompression = true
		case `MS:1000514`: // m/z array
			p.mzArray = true
		case `MS:1000515`: // intensity array
			p.intensityArray = true
		case `MS:1000595`: // time array
			p.timeArray = true
			switch cvParam.UnitAccession {
			case "", "UO:0000010": // second
			case "UO:0000031", "MS:1000038": // minute
				p.timeScale = 60
			default:
				return p, fmt.Errorf("%w: time array in %s", ErrUnknownUnit, cvParam.UnitAccession)
			}
		case `MS:1000523`: // 64-bit float
			p.bits64 = true
		case `MS:1002312`, `MS:1002313`, `MS:1002314`,
			`MS:1002746`, `MS:1002747`, `MS:1002748`:
			// MS-Numpress compression types
			return p, fmt.Errorf("%w (CV term %s)", ErrUnsupportedCompression, cvParam.Accession)
		}
	}
	return p, nil
}

// decodeArray returns the values of a binary data array
func decodeArray(binaryDataArray *binaryDataArray, pars arrayPars) ([]float64, error) {
	data, err := base64.StdEncoding.DecodeString(binaryDataArray.Binary)
	if err != nil {
		return nil, err
	}
	if pars.zlibCompression {
		z, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer z.Close()
		d, err := io.ReadAll(z)
		if err != nil {
			return nil, err
		}
		data = d
	}
	var v []float64
	if pars.bits64 {
		cnt := len(data) / 8
		v = make([]float64, cnt)
		for i := 0; i < cnt; i++ {
			bits := binary.LittleEndian.Uint64(data[i*8:])
			v[i] = math.Float64frombits(bits)
		}
	} else {
		cnt := len(data) / 4
		v = make([]float64, cnt)
		for i := 0; i < cnt; i++ {
			bits := binary.LittleEndian.Uint32(data[i*4:])
			v[i] = float64(math.Float32frombits(bits))
		}
	}
	return v, nil
}

// NumSpecs returns the number of spectra
func (f *MzML) NumSpecs() int {
	if f.content.Run.SpectrumList == nil {
		return 0
	}
	return len(f.content.Run.SpectrumList.Spectrum)
}

func (f *MzML) spectrum(scanIndex int) (*spectrum, error) {
	if scanIndex < 0 || scanIndex >= f.NumSpecs() {
		return nil, ErrInvalidScanIndex
	}
	return &f.content.Run.SpectrumList.Spectrum[scanIndex], nil
}

// RetentionTime returns the retention time of a spectrum in seconds,
// or -1 if the spectrum has none
func (f *MzML) RetentionTime(scanIndex int) (float64, error) {
	spec, err := f.spectrum(scanIndex)
	if err != nil {
		return 0.0, err
	}
	for _, scan := range spec.ScanList.Scan {
		for _, cvParam := range scan.CvPar {
			if cvParam.Accession == "MS:1000016" {
				retentionTime, err := strconv.ParseFloat(cvParam.Value, 64)
				// Check if the retention time is in minutes, otherwise assume it's seconds
				if cvParam.UnitAccession == "UO:0000031" ||
					cvParam.UnitAccession == "MS:1000038" {
					retentionTime *= 60
				}

				return retentionTime, err
			}
		}
	}
	return -1.0, nil
}

// TotalIonCurrent returns the total ion current, or NaN if not found
func (f *MzML) TotalIonCurrent(scanIndex int) (float64, error) {
	spec, err := f.spectrum(scanIndex)
	if err != nil {
		return 0.0, err
	}
	for _, cvParam := range spec.CvPar {
		if cvParam.Accession == "MS:1000285" { // total ion current
			tic, err := strconv.ParseFloat(cvParam.Value, 64)
			return tic, err
		}
	}
	return math.NaN(), nil
}

// summedIntensity adds up the intensity array of a spectrum
func (f *MzML) summedIntensity(scanIndex int) (float64, error) {
	spec, err := f.spectrum(scanIndex)
	if err != nil {
		return 0.0, err
	}
	for i := range spec.BinaryDataArrayList.BinaryDataArray {
		b := &spec.BinaryDataArrayList.BinaryDataArray[i]
		pars, err := binaryDataPars(b)
		if err != nil {
			return 0.0, err
		}
		if pars.intensityArray {
			v, err := decodeArray(b, pars)
			if err != nil {
				return 0.0, err
			}
			return floats.Sum(v), nil
		}
	}
	return 0.0, nil
}

// MSLevel returns the MS level of a scan
func (f *MzML) MSLevel(scanIndex int) (int, error) {
	spec, err := f.spectrum(scanIndex)
	if err != nil {
		return 0, err
	}
	for _, cvParam := range spec.CvPar {
		if cvParam.Accession == "MS:1000511" { // ms level
			msLevel, err := strconv.ParseInt(cvParam.Value, 10, 64)
			return int(msLevel), err
		}
	}
	return 1, nil // If nothing else, guess it's MS1
}

// traverseScan traverses all scans,
// collects info of all scans and
// and fills the arrays f.index2id and f.id2Index to make scans accessible
func (f *MzML) traverseScan() error {
	f.index2id = make([]string, f.NumSpecs())
	f.id2Index = make(map[string]int, f.NumSpecs())

	for i := 0; i < f.NumSpecs(); i++ {
		if err := f.addSpecToIndex(i); err != nil {
			return err
		}
	}
	return nil
}

func (f *MzML) addSpecToIndex(i int) error {
	spec := &f.content.Run.SpectrumList.Spectrum[i]
	if i != spec.Index {
		return ErrInvalidScanIndex
	}
	f.index2id[i] = spec.ID
	f.id2Index[spec.ID] = i
	return nil
}

// ScanIndex converts a scan identifier (the string used in the mzML file)
// into an index that is used to access the scans
func (f *MzML) ScanIndex(scanID string) (int, error) {
	if index, ok := f.id2Index[scanID]; ok {
		return index, nil
	}
	return 0, ErrInvalidScanID
}

// ScanID converts a scan index (used to access the scan data) into a scan id
// (used in the mzML file)
func (f *MzML) ScanID(scanIndex int) (string, error) {
	if scanIndex >= 0 && scanIndex < f.NumSpecs() {
		return f.index2id[scanIndex], nil
	}
	return "", ErrInvalidScanIndex
}

func (f *MzML) indexChromatograms() {
	f.chromIdx = make(map[string]int)
	if f.content.Run.ChromatogramList == nil {
		return
	}
	for i, c := range f.content.Run.ChromatogramList.Chromatogram {
		f.chromIdx[c.ID] = i
	}
}

// ChromatogramIDs returns the ids of the chromatograms stored in the
// file, in file order
func (f *MzML) ChromatogramIDs() []string {
	if f.content.Run.ChromatogramList == nil {
		return nil
	}
	ids := make([]string, 0, len(f.content.Run.ChromatogramList.Chromatogram))
	for _, c := range f.content.Run.ChromatogramList.Chromatogram {
		ids = append(ids, c.ID)
	}
	return ids
}

// Chromatogram decodes the chromatogram with the given id
func (f *MzML) Chromatogram(id string) (Chromatogram, error) {
	i, ok := f.chromIdx[id]
	if !ok {
		return Chromatogram{}, fmt.Errorf("%w: %q", ErrNoChromatogram, id)
	}
	return decodeChromatogram(&f.content.Run.ChromatogramList.Chromatogram[i])
}

func decodeChromatogram(c *chromatogram) (Chromatogram, error) {
	chrom := Chromatogram{ID: c.ID}
	for i := range c.BinaryDataArrayList.BinaryDataArray {
		b := &c.BinaryDataArrayList.BinaryDataArray[i]
		pars, err := binaryDataPars(b)
		if err != nil {
			return chrom, err
		}
		if !pars.timeArray && !pars.intensityArray {
			continue
		}
		v, err := decodeArray(b, pars)
		if err != nil {
			return chrom, fmt.Errorf("chromatogram %q: %w", c.ID, err)
		}
		if pars.timeArray {
			if pars.timeScale != 1 {
				floats.Scale(pars.timeScale, v)
			}
			chrom.Times = v
		} else {
			chrom.Intensities = v
		}
	}
	if len(chrom.Times) != len(chrom.Intensities) {
		return chrom, fmt.Errorf("chromatogram %q: %w (%d, %d)", c.ID, ErrArrayMismatch,
			len(chrom.Times), len(chrom.Intensities))
	}
	return chrom, nil
}

// TIC returns the total ion current chromatogram. If the file has no
// chromatogram marked as such (MS:1000235), it is computed from the MS1
// spectra: the total ion current of each spectrum, or the sum of its
// intensities if the spectrum doesn't report one, at its scan start time.
func (f *MzML) TIC() (Chromatogram, error) {
	if f.content.Run.ChromatogramList != nil {
		for i := range f.content.Run.ChromatogramList.Chromatogram {
			c := &f.content.Run.ChromatogramList.Chromatogram[i]
			for _, cvParam := range c.CvPar {
				if cvParam.Accession == "MS:1000235" { // total ion current chromatogram
					return decodeChromatogram(c)
				}
			}
		}
	}
	return f.ticFromSpectra()
}

func (f *MzML) ticFromSpectra() (Chromatogram, error) {
	chrom := Chromatogram{ID: "TIC"}
	for i := 0; i < f.NumSpecs(); i++ {
		msLevel, err := f.MSLevel(i)
		if err != nil {
			return chrom, err
		}
		if msLevel != 1 {
			continue
		}
		rt, err := f.RetentionTime(i)
		if err != nil {
			return chrom, err
		}
		if rt < 0 {
			continue
		}
		tic, err := f.TotalIonCurrent(i)
		if err != nil {
			return chrom, err
		}
		if math.IsNaN(tic) {
			tic, err = f.summedIntensity(i)
			if err != nil {
				return chrom, err
			}
		}
		chrom.Times = append(chrom.Times, rt)
		chrom.Intensities = append(chrom.Intensities, tic)
		chrom.SpectrumIndex = append(chrom.SpectrumIndex, i)
	}
	if chrom.Len() == 0 {
		return chrom, fmt.Errorf("%w: no MS1 spectra with a scan start time", ErrNoChromatogram)
	}
	return chrom, nil
}
