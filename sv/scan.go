package sv

import (
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/svcaller/encoding/bamprovider"
)

// invalidSeq marks the last result sent by a worker, which carries its stats.
const invalidSeq = math.MaxUint64

type scanReq struct {
	seq uint64
	rec *sam.Record
}

type scanRes struct {
	seq       uint64
	junctions []Junction

	// stats is sent as the very last result, with seq=invalidSeq.
	stats Stats
}

func detectRequests(reqCh chan scanReq, resCh chan scanRes, opts Opts) {
	stats := Stats{}
	for req := range reqCh {
		stats.Records++
		rec := NewAlignmentRecord(req.rec)
		if rec.skip(opts) {
			stats.SkippedRecords++
			continue
		}
		junctions, err := DetectJunctions(rec, &stats, opts)
		if err != nil {
			log.Error.Printf("%s: ignoring SA tag %q: %v", rec.Name, rec.SA, err)
		}
		if len(junctions) > 0 {
			resCh <- scanRes{seq: req.seq, junctions: junctions}
		}
	}
	resCh <- scanRes{seq: invalidSeq, stats: stats}
}

// ScanJunctions reads all the records of the provider and detects the
// junctions in each of them, using opts.Parallelism goroutines. Junctions are
// returned in file order, as if the records were processed sequentially.
//
// It returns an error wrapping bamprovider.ErrUnsorted if the input is not
// sorted by coordinate. Corrupt SA tags are logged and counted, but are not
// errors.
func ScanJunctions(provider bamprovider.Provider, opts Opts) ([]Junction, Stats, error) {
	reqCh := make(chan scanReq, 1024*64)
	resCh := make(chan scanRes, 1024)

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	wg1 := sync.WaitGroup{}
	for i := 0; i < parallelism; i++ {
		wg1.Add(1)
		go func() {
			detectRequests(reqCh, resCh, opts)
			wg1.Done()
		}()
	}

	wg2 := sync.WaitGroup{}
	wg2.Add(1)
	var (
		results []scanRes
		stats   Stats
	)
	go func() {
		for res := range resCh {
			if res.seq == invalidSeq {
				stats = stats.Merge(res.stats)
				continue
			}
			results = append(results, res)
		}
		wg2.Done()
	}()

	iter := provider.NewIterator()
	var seq uint64
	for iter.Scan() {
		reqCh <- scanReq{seq: seq, rec: iter.Record()}
		seq++
		if seq%(1024*1024) == 0 {
			log.Printf("Read %dMi records", seq/(1024*1024))
		}
	}
	once := errors.Once{}
	once.Set(iter.Close())
	close(reqCh)
	wg1.Wait()
	close(resCh)
	wg2.Wait()
	if err := once.Err(); err != nil {
		return nil, stats, err
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].seq < results[j].seq })
	var junctions []Junction
	for _, r := range results {
		junctions = append(junctions, r.junctions...)
	}
	return junctions, stats, nil
}
