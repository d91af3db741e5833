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
)

// Encoding selects how binary arrays are written
type Encoding struct {
	Zlib   bool
	Bits64 bool
}

// WriteTIC writes an mzML file holding c as its only chromatogram,
// marked as total ion current chromatogram. Times are written in
// seconds.
func WriteTIC(writer io.Writer, c Chromatogram, enc Encoding) error {
	if len(c.Times) != len(c.Intensities) {
		return ErrArrayMismatch
	}
	timeArr, err := newBinaryDataArray(c.Times, enc, CVParam{
		Accession: "MS:1000595", Name: "time array",
		UnitCvRef: "UO", UnitAccession: "UO:0000010", UnitName: "second",
	})
	if err != nil {
		return err
	}
	intensArr, err := newBinaryDataArray(c.Intensities, enc, CVParam{
		Accession: "MS:1000515", Name: "intensity array",
		UnitCvRef: "MS", UnitAccession: "MS:1000131", UnitName: "number of detector counts",
	})
	if err != nil {
		return err
	}

	var content mzMLContentWrite
	content.Sl1 = "http://psi.hupo.org/ms/mzml http://psidev.info/files/ms/mzML/xsd/mzML1.1.0.xsd"
	content.Version = "1.1.0"
	content.Sl2 = "http://www.w3.org/2001/XMLSchema-instance"
	content.Run.ID = "run"
	content.Run.ChromatogramList = &chromatogramList{
		Count: 1,
		Chromatogram: []chromatogram{{
			ID:                 c.ID,
			DefaultArrayLength: int64(c.Len()),
			CvPar: []CVParam{{
				Accession: "MS:1000235", Name: "total ion current chromatogram",
			}},
			BinaryDataArrayList: binaryDataArrayList{
				Count:           2,
				BinaryDataArray: []binaryDataArray{timeArr, intensArr},
			},
		}},
	}

	if _, err := io.WriteString(writer, `<?xml version="1.0" encoding="utf-8"?>
`); err != nil {
		return err
	}
	e := xml.NewEncoder(writer)
	e.Indent(``, `  `)
	if err := e.Encode(&content); err != nil {
		return fmt.Errorf("write mzML: %w", err)
	}
	return nil
}

func newBinaryDataArray(v []float64, enc Encoding, kind CVParam) (binaryDataArray, error) {
	b64, err := encodeBinary(v, enc.Zlib, enc.Bits64)
	if err != nil {
		return binaryDataArray{}, err
	}
	b := binaryDataArray{
		EncodedLength: len(b64),
		ArrayLength:   len(v),
		Binary:        b64,
	}
	if enc.Bits64 {
		b.CvPar = append(b.CvPar, CVParam{Accession: "MS:1000523", Name: "64-bit float"})
	} else {
		b.CvPar = append(b.CvPar, CVParam{Accession: "MS:1000521", Name: "32-bit float"})
	}
	if enc.Zlib {
		b.CvPar = append(b.CvPar, CVParam{Accession: "MS:1000574", Name: "zlib compression"})
	} else {
		b.CvPar = append(b.CvPar, CVParam{Accession: "MS:1000576", Name: "no compression"})
	}
	b.CvPar = append(b.CvPar, kind)
	return b, nil
}

func encodeBinary(v []float64, zlibCompression bool, bits64 bool) (string, error) {
	var rawUncompressed []byte
	if bits64 {
		rawUncompressed = make([]byte, len(v)*8)
		for i, x := range v {
			binary.LittleEndian.PutUint64(rawUncompressed[(8*i):], math.Float64bits(x))
		}
	} else {
		rawUncompressed = make([]byte, len(v)*4)
		for i, x := range v {
			binary.LittleEndian.PutUint32(rawUncompressed[(4*i):], math.Float32bits(float32(x)))
		}
	}
	data := rawUncompressed
	if zlibCompression {
		var b bytes.Buffer
		z := zlib.NewWriter(&b)
		if _, err := z.Write(rawUncompressed); err != nil {
			return "", err
		}
		// zlib writer must explicitly be closed here, otherwise result is invalid
		if err := z.Close(); err != nil {
			return "", err
		}
		data = b.Bytes()
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
