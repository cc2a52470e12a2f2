// Package catalog persists descriptiveness verdicts so repeat runs and
// duplicate candidates never hit the solver twice.
package catalog

import (
	"encoding/binary"
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"github.com/dgraph-io/badger/v3"

	"github.com/dqg-systems/dqg/godqg"
)

/***

Catalog database format:

	gCatalogStateKey => CatalogState (varint codec)

	0x02, candidateKey => [1]byte(Verdict)
		...

A candidate key is the graph fingerprint followed by the orbit partition
encoding, so the same partition of the same graph always lands on the
same entry regardless of which heuristic produced it.

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
	gVerdictPrefix   = []byte{0x02}
)

const (
	kMajorVers = 2024
	kMinorVers = 1

	// How many adds may accumulate before the state record is rewritten.
	kFlushEvery = 512
)

type catalogState struct {
	MajorVers   uint32
	MinorVers   uint32
	NumVerdicts [3]uint64 // indexed by Verdict
}

func (state *catalogState) Marshal() []byte {
	buf := make([]byte, 0, 24)
	buf = binary.AppendUvarint(buf, uint64(state.MajorVers))
	buf = binary.AppendUvarint(buf, uint64(state.MinorVers))
	for _, n := range state.NumVerdicts {
		buf = binary.AppendUvarint(buf, n)
	}
	return buf
}

func (state *catalogState) Unmarshal(src []byte) error {
	fields := make([]uint64, 0, 5)
	for len(src) > 0 {
		x, n := binary.Uvarint(src)
		if n <= 0 {
			return errors.Wrap(godqg.ErrCatalogVersion, "corrupt catalog state")
		}
		fields = append(fields, x)
		src = src[n:]
	}
	if len(fields) != 5 {
		return errors.Wrap(godqg.ErrCatalogVersion, "corrupt catalog state")
	}
	state.MajorVers = uint32(fields[0])
	state.MinorVers = uint32(fields[1])
	for vi := range state.NumVerdicts {
		state.NumVerdicts[vi] = fields[2+vi]
	}
	return nil
}

type catalog struct {
	ctx        godqg.CatalogContext
	readOnly   bool
	stateMu    sync.Mutex
	stateDirty int
	state      catalogState
	db         *badger.DB
}

func OpenCatalog(ctx godqg.CatalogContext, opts godqg.CatalogOpts) (godqg.Catalog, error) {
	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // single writer, so skip the bookkeeping
	dbOpts.Logger = nil

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(godqg.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	// Once the db is open, the context blocks until the catalog closes.
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = 1
		cat.state.MajorVers = kMajorVers
		cat.state.MinorVers = kMinorVers
	}
	if err == nil && (cat.state.MajorVers != kMajorVers || cat.state.MinorVers != kMinorVers) {
		err = errors.Wrap(godqg.ErrCatalogVersion, "catalog version is incompatible")
	}

	if err != nil {
		cat.Close()
		return nil, err
	}
	return cat, nil
}

func (cat *catalog) loadState() error {
	return cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cat.state.Unmarshal(val)
		})
	})
}

func (cat *catalog) flushState() {
	cat.stateMu.Lock()
	defer cat.stateMu.Unlock()
	cat.flushStateLocked()
}

func (cat *catalog) flushStateLocked() {
	if cat.stateDirty == 0 || cat.readOnly {
		return
	}
	err := cat.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gCatalogStateKey, cat.state.Marshal())
	})
	if err != nil {
		panic(err)
	}
	cat.stateDirty = 0
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func (cat *catalog) NumVerdicts(of godqg.Verdict) int64 {
	cat.stateMu.Lock()
	defer cat.stateMu.Unlock()
	if int(of) >= len(cat.state.NumVerdicts) {
		return 0
	}
	return int64(cat.state.NumVerdicts[of])
}

func (cat *catalog) LookupVerdict(key []byte) (godqg.Verdict, bool) {
	verdict := godqg.VerdictUnknown
	found := false

	cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cat.formVerdictKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) == 1 {
				verdict = godqg.Verdict(val[0])
				found = true
			}
			return nil
		})
	})
	return verdict, found
}

func (cat *catalog) TryAddVerdict(key []byte, verdict godqg.Verdict) bool {
	if cat.readOnly {
		return false
	}

	added := false
	err := cat.db.Update(func(txn *badger.Txn) error {
		dbKey := cat.formVerdictKey(key)
		if _, err := txn.Get(dbKey); err != badger.ErrKeyNotFound {
			return err
		}
		added = true
		return txn.Set(dbKey, []byte{byte(verdict)})
	})
	if err != nil || !added {
		return false
	}

	cat.stateMu.Lock()
	if int(verdict) < len(cat.state.NumVerdicts) {
		cat.state.NumVerdicts[verdict]++
	}
	cat.stateDirty++
	if cat.stateDirty >= kFlushEvery {
		cat.flushStateLocked()
	}
	cat.stateMu.Unlock()
	return true
}

func (cat *catalog) formVerdictKey(key []byte) []byte {
	dbKey := make([]byte, 0, len(gVerdictPrefix)+len(key))
	dbKey = append(dbKey, gVerdictPrefix...)
	return append(dbKey, key...)
}

func (cat *catalog) Close() error {
	cat.flushState()
	if cat.db != nil {
		cat.db.Close()
		cat.db = nil
		cat.ctx.DetachCatalog(cat)
		cat.ctx = nil
	}
	return nil
}
