package main

// This file defines junctionWriter and junctionReader. Type junctionWriter
// dumps the detected junctions into a recordio file, and junctionReader reads
// them back. The recordio file can be used to bypass junction detection and
// run only clustering and classification.

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/recordio"
	"github.com/grailbio/base/recordio/recordiozstd"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/svcaller/sv"
)

const (
	// <fileVersionHeader, fileVersion> is stored in a recordio header.
	fileVersionHeader = "svversion"
	fileVersion       = "SV_V1"
)

// contig is a reference sequence of the input alignment file.
type contig struct {
	Name   string
	Length int
}

// junctionFileHeader is stored in the trailer section of the recordio file.
type junctionFileHeader struct {
	// Opts is the list of options used to detect the junctions.
	Opts sv.Opts
	// Stats are the detection stats.
	Stats sv.Stats
	// Contigs lists the references of the input, for the VCF header.
	Contigs []contig
}

// junctionRecord is the serialized form of sv.Junction.
type junctionRecord struct {
	Mate1, Mate2 sv.Breakend
	InsertedSeq  string
	ReadName     string
}

func newContigs(refs []*sam.Reference) []contig {
	contigs := make([]contig, len(refs))
	for i, ref := range refs {
		contigs[i] = contig{Name: ref.Name(), Length: ref.Len()}
	}
	return contigs
}

func (c contig) reference() (*sam.Reference, error) {
	return sam.NewReference(c.Name, "", "", c.Length, nil, nil)
}

// junctionWriter is for writing junctions to a recordio file.
type junctionWriter struct {
	out file.File
	w   recordio.Writer
	h   junctionFileHeader
}

func newJunctionWriter(ctx context.Context, outPath string, h junctionFileHeader) (*junctionWriter, error) {
	recordiozstd.Init()
	out, err := file.Create(ctx, outPath)
	if err != nil {
		return nil, err
	}
	w := recordio.NewWriter(out.Writer(ctx), recordio.WriterOpts{
		Transformers: []string{recordiozstd.Name},
	})
	w.AddHeader(fileVersionHeader, fileVersion)
	w.AddHeader(recordio.KeyTrailer, true)
	return &junctionWriter{out: out, w: w, h: h}, nil
}

// Write adds a junction.
func (w *junctionWriter) Write(j sv.Junction) error {
	b := bytes.NewBuffer(nil)
	if err := gob.NewEncoder(b).Encode(junctionRecord{
		Mate1:       j.Mate1(),
		Mate2:       j.Mate2(),
		InsertedSeq: j.InsertedSequence(),
		ReadName:    j.ReadName(),
	}); err != nil {
		return err
	}
	w.w.Append(b.Bytes())
	return nil
}

// Close closes the writer. It must be called exactly once, after writing all
// the junctions.
func (w *junctionWriter) Close(ctx context.Context) error {
	b := bytes.NewBuffer(nil)
	once := errors.Once{}
	once.Set(gob.NewEncoder(b).Encode(w.h))
	w.w.SetTrailer(b.Bytes())
	once.Set(w.w.Finish())
	once.Set(w.out.Close(ctx))
	return once.Err()
}

// readJunctions reads a file created by junctionWriter.
func readJunctions(ctx context.Context, inPath string) (junctions []sv.Junction, h junctionFileHeader, err error) {
	in, err := file.Open(ctx, inPath)
	if err != nil {
		return nil, h, err
	}
	defer file.CloseAndReport(ctx, in, &err)
	recordiozstd.Init()
	r := recordio.NewScanner(in.Reader(ctx), recordio.ScannerOpts{})
	versionFound := false
	for _, kv := range r.Header() {
		if kv.Key == fileVersionHeader {
			if v, _ := kv.Value.(string); v != fileVersion {
				return nil, h, fmt.Errorf("%s: junction file version mismatch, got %v, expect %v", inPath, kv.Value, fileVersion)
			}
			versionFound = true
			break
		}
	}
	if !versionFound {
		return nil, h, fmt.Errorf("%s: %s not found", inPath, fileVersionHeader)
	}
	if err := gob.NewDecoder(bytes.NewReader(r.Trailer())).Decode(&h); err != nil {
		return nil, h, err
	}
	for r.Scan() {
		var rec junctionRecord
		if err := gob.NewDecoder(bytes.NewReader(r.Get().([]byte))).Decode(&rec); err != nil {
			return nil, h, err
		}
		junctions = append(junctions, sv.NewJunction(rec.Mate1, rec.Mate2, rec.InsertedSeq, rec.ReadName))
	}
	if err := r.Err(); err != nil {
		return nil, h, err
	}
	return junctions, h, nil
}
