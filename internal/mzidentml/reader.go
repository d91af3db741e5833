package mzidentml

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	peptidepkg "github.com/524D/mzview/internal/peptide"

	"golang.org/x/net/html/charset"
)

// Read reads mzIdentML content from io.reader
func Read(reader io.Reader) (MzIdentML, error) {
	var mzIdentML MzIdentML
	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel
	err := d.Decode(&mzIdentML.content)
	if err != nil {
		return mzIdentML, err
	}
	mzIdentML.buildPepID2Sequence()
	mzIdentML.buildIdentList()
	return mzIdentML, err
}

func (m *MzIdentML) buildPepID2Sequence() {
	m.seqID2PepIdx = make(map[string]int, len(m.content.Peptide))
	for i, p := range m.content.Peptide {
		m.seqID2PepIdx[p.ID] = i
	}
}

func (m *MzIdentML) buildIdentList() {
	for i := range m.content.SpectrumIdentificationResult {
		for j := range m.content.SpectrumIdentificationResult[i].SpectrumIdentificationItem {
			var iRef identRef
			iRef.specResultIdx = i
			iRef.specIDIdx = j
			m.identList = append(m.identList, iRef)
		}
	}
}

// NumIdents returns the total number of identifications in the mzIdentML file
// Note that for some spectra, multiple identifications may be present
// The identifications can be accessed using the Ident() method, which takes
// an index as argument. The index runs from 0 to NumIdents()-1
func (m *MzIdentML) NumIdents() int {
	return len(m.identList)
}

// Ident returns a spectrum identification from the mzIdentML file.
// Parameter i is the index of the identification to return. The index runs
// from 0 to NumIdents()-1
func (m *MzIdentML) Ident(i int) (Identification, error) {

	var ident Identification

	if i < 0 || i >= len(m.identList) {
		return ident, ErrInvalidIdentIndex
	}
	specResult := &m.content.SpectrumIdentificationResult[m.identList[i].specResultIdx]
	item := &specResult.SpectrumIdentificationItem[m.identList[i].specIDIdx]

	pepIdx, ok := m.seqID2PepIdx[item.PeptideRef]
	if !ok {
		return ident, fmt.Errorf("%w: %q referenced by %s", ErrPeptideNotFound, item.PeptideRef, specResult.SpectrumID)
	}
	ident.PepSeq = m.content.Peptide[pepIdx].PeptideSequence
	ident.PepID = m.content.Peptide[pepIdx].ID
	ident.Charge = item.ChargeState
	ident.Rank = item.Rank
	for _, mod := range m.content.Peptide[pepIdx].Modification {
		ident.ModMass += mod.MonoisotopicMassDelta
	}
	ident.SpecID = specResult.SpectrumID
	ident.RetentionTime = float64(-1)
	prio := math.MaxInt32
	for _, cv := range specResult.CvPar {
		// There are multiple CV terms that can be used to report the
		// retention time. In order of decreasing preference we use:
		// 1. MS:1000016 - scan start time
		// 2. MS:1000894 - retention time
		// 3. MS:1000826 - elution time
		// 4. MS:1001114 - retention time (deprecated)
		useTime := false
		switch cv.Accession {
		case "MS:1000016":
			if prio > 1 {
				prio = 1
				useTime = true
			}
		case "MS:1000894":
			if prio > 2 {
				prio = 2
				useTime = true
			}
		case "MS:1000826":
			if prio > 3 {
				prio = 3
				useTime = true
			}
		case "MS:1001114":
			if prio > 4 {
				prio = 4
				useTime = true
			}
		}
		// If a (higher priority) term was found, process/store the retention time
		if useTime {
			retentionTime, err := strconv.ParseFloat(cv.Value, 64)
			if err != nil {
				return ident, err
			}
			// Check if the retention time is in minutes, otherwise assume it's seconds
			if cv.UnitAccession == "UO:0000031" || cv.UnitAccession == "MS:1000038" {
				retentionTime *= 60
			}
			ident.RetentionTime = retentionTime
		}
	}

	for _, it := range item.IonType {
		ion := ionLetter(it.CvPar)
		if ion == "" {
			continue
		}
		frag := Fragment{Ion: ion, Charge: it.Charge}
		for _, s := range strings.Fields(it.Index) {
			idx, err := strconv.Atoi(s)
			if err != nil {
				return ident, fmt.Errorf("ion index of %s: %w", ident.SpecID, err)
			}
			frag.Indices = append(frag.Indices, idx)
		}
		ident.Fragments = append(ident.Fragments, frag)
	}
	return ident, nil
}

// CV terms of the plain fragment ion types. Ions with neutral losses
// or internal ions are not part of a ladder.
var ionTerms = map[string]string{
	"MS:1001229": "a",
	"MS:1001224": "b",
	"MS:1001231": "c",
	"MS:1001228": "x",
	"MS:1001220": "y",
	"MS:1001230": "z",
}

var ionNameRe = regexp.MustCompile(`^frag: ([abcxyz]) ion$`)

func ionLetter(cvs []cvParam) string {
	for _, cv := range cvs {
		if l, ok := ionTerms[cv.Accession]; ok {
			return l
		}
		if m := ionNameRe.FindStringSubmatch(cv.Name); m != nil {
			return m[1]
		}
	}
	return ""
}

// FindPeptide returns the index of the first identification of the
// peptide with the given id or, failing that, sequence. Identifications
// that can't be read are skipped.
func (m *MzIdentML) FindPeptide(pep string) (int, error) {
	bySeq := -1
	for i := range m.identList {
		ident, err := m.Ident(i)
		if err != nil {
			continue
		}
		if ident.PepID == pep {
			return i, nil
		}
		if bySeq < 0 && ident.PepSeq == pep {
			bySeq = i
		}
	}
	if bySeq >= 0 {
		return bySeq, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrPeptideNotFound, pep)
}

// Ladder returns the fragment ion ladder of identification i. a, b and
// c ions are prefix ions, x, y and z ions suffix ions; each is named by
// its letter and index. Indices outside the sequence are skipped.
func (m *MzIdentML) Ladder(i int) (peptidepkg.Ladder, error) {
	ident, err := m.Ident(i)
	if err != nil {
		return peptidepkg.Ladder{}, err
	}
	l := peptidepkg.Ladder{Sequence: ident.PepSeq}
	for _, frag := range ident.Fragments {
		for _, idx := range frag.Indices {
			if idx < 1 || idx >= len(l.Sequence) {
				continue
			}
			name := frag.Ion + strconv.Itoa(idx)
			switch frag.Ion {
			case "a", "b", "c":
				l.AddPrefix(idx, name)
			default:
				l.AddSuffix(idx, name)
			}
		}
	}
	return l, l.Validate()
}
