package mzidentml

import (
	"errors"
	"strings"
	"testing"

	peptidepkg "github.com/524D/mzview/internal/peptide"
	"github.com/google/go-cmp/cmp"
)

const testDoc = `<?xml version="1.0" encoding="UTF-8"?>
<MzIdentML xmlns="http://psidev.info/psi/pi/mzIdentML/1.1" id="test" version="1.1.0">
<SequenceCollection>
  <Peptide id="PEP_1">
    <PeptideSequence>PEPTIDE</PeptideSequence>
    <Modification location="4" monoisotopicMassDelta="79.966331"/>
  </Peptide>
  <Peptide id="PEP_2">
    <PeptideSequence>SAMPLER</PeptideSequence>
  </Peptide>
</SequenceCollection>
<DataCollection>
<AnalysisData>
<SpectrumIdentificationList id="SIL_1">
  <SpectrumIdentificationResult id="SIR_1" spectrumID="scan=12">
    <SpectrumIdentificationItem id="SII_1_1" rank="1" chargeState="2" peptide_ref="PEP_1">
      <Fragmentation>
        <IonType index="1 3" charge="1">
          <cvParam cvRef="PSI-MS" accession="MS:1001224" name="frag: b ion"/>
        </IonType>
        <IonType index="3" charge="2">
          <cvParam cvRef="PSI-MS" accession="MS:1001224" name="frag: b ion"/>
        </IonType>
        <IonType index="1 2 4 7" charge="1">
          <cvParam cvRef="PSI-MS" accession="MS:1001220" name="frag: y ion"/>
        </IonType>
        <IonType index="2" charge="1">
          <cvParam cvRef="PSI-MS" accession="MS:1001222" name="frag: b ion - H2O"/>
        </IonType>
        <IonType index="1" charge="1">
          <cvParam cvRef="PSI-MS" name="frag: a ion"/>
        </IonType>
      </Fragmentation>
      <cvParam cvRef="PSI-MS" accession="MS:1002049" name="MS-GF:RawScore" value="42"/>
    </SpectrumIdentificationItem>
    <SpectrumIdentificationItem id="SII_1_2" rank="2" chargeState="2" peptide_ref="PEP_2"/>
    <cvParam cvRef="PSI-MS" accession="MS:1000894" name="retention time" value="30.5" unitAccession="UO:0000010"/>
    <cvParam cvRef="PSI-MS" accession="MS:1000016" name="scan start time" value="1.5" unitAccession="UO:0000031"/>
  </SpectrumIdentificationResult>
  <SpectrumIdentificationResult id="SIR_2" spectrumID="scan=20">
    <SpectrumIdentificationItem id="SII_2_1" rank="1" chargeState="3" peptide_ref="PEP_9"/>
  </SpectrumIdentificationResult>
</SpectrumIdentificationList>
</AnalysisData>
</DataCollection>
</MzIdentML>`

func readTestDoc(t *testing.T) MzIdentML {
	t.Helper()
	m, err := Read(strings.NewReader(testDoc))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return m
}

func TestIdent(t *testing.T) {
	m := readTestDoc(t)
	if n := m.NumIdents(); n != 3 {
		t.Fatalf("NumIdents() = %d, want 3", n)
	}
	ident, err := m.Ident(0)
	if err != nil {
		t.Fatalf("Ident(0): %v", err)
	}
	want := Identification{
		PepSeq:        "PEPTIDE",
		PepID:         "PEP_1",
		Charge:        2,
		ModMass:       79.966331,
		SpecID:        "scan=12",
		RetentionTime: 90,
		Rank:          1,
		Fragments: []Fragment{
			{Ion: "b", Charge: 1, Indices: []int{1, 3}},
			{Ion: "b", Charge: 2, Indices: []int{3}},
			{Ion: "y", Charge: 1, Indices: []int{1, 2, 4, 7}},
			{Ion: "a", Charge: 1, Indices: []int{1}},
		},
	}
	if diff := cmp.Diff(want, ident); diff != "" {
		t.Errorf("Ident(0) mismatch (-want +got):\n%s", diff)
	}

	second, err := m.Ident(1)
	if err != nil {
		t.Fatalf("Ident(1): %v", err)
	}
	if second.PepSeq != "SAMPLER" || second.Rank != 2 || second.SpecID != "scan=12" {
		t.Errorf("Ident(1) = %+v, want rank 2 SAMPLER of scan=12", second)
	}

	if _, err := m.Ident(2); !errors.Is(err, ErrPeptideNotFound) {
		t.Errorf("Ident(2) error = %v, want ErrPeptideNotFound", err)
	}
	if _, err := m.Ident(3); err != ErrInvalidIdentIndex {
		t.Errorf("Ident(3) error = %v, want ErrInvalidIdentIndex", err)
	}
}

func TestLadder(t *testing.T) {
	m := readTestDoc(t)
	l, err := m.Ladder(0)
	if err != nil {
		t.Fatalf("Ladder(0): %v", err)
	}
	want := peptidepkg.Ladder{
		Sequence: "PEPTIDE",
		Prefix:   map[int][]string{1: {"b1", "a1"}, 3: {"b3"}},
		Suffix:   map[int][]string{1: {"y1"}, 2: {"y2"}, 4: {"y4"}},
	}
	if diff := cmp.Diff(want, l); diff != "" {
		t.Errorf("Ladder(0) mismatch (-want +got):\n%s", diff)
	}

	bare, err := m.Ladder(1)
	if err != nil {
		t.Fatalf("Ladder(1): %v", err)
	}
	if bare.Sequence != "SAMPLER" || len(bare.Prefix) != 0 || len(bare.Suffix) != 0 {
		t.Errorf("Ladder(1) = %+v, want SAMPLER without ions", bare)
	}
}

func TestFindPeptide(t *testing.T) {
	m := readTestDoc(t)
	tests := []struct {
		pep     string
		want    int
		wantErr error
	}{
		{"PEP_2", 1, nil},
		{"PEPTIDE", 0, nil},
		{"PEP_1", 0, nil},
		{"PEP_9", 0, ErrPeptideNotFound},
	}
	for _, tt := range tests {
		got, err := m.FindPeptide(tt.pep)
		if !errors.Is(err, tt.wantErr) || got != tt.want {
			t.Errorf("FindPeptide(%q) = %d, %v, want %d, %v", tt.pep, got, err, tt.want, tt.wantErr)
		}
	}
}
