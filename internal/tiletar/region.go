// Package tiletar memory-maps a tar archive of fixed tile blobs and exposes
// each member as a byte range addressed by GraphId. The mapping is a
// read-only or read-write mmap kept alive under reference counting so tile
// handles can outlive the Archive that produced them.
package tiletar

import (
	"os"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/tilegraph/tilegraph-engine/internal/tgerr"
)

// Region is a reference-counted memory mapping. The mapping is unmapped
// once the last Release brings the count to zero.
type Region struct {
	data     []byte
	writable bool
	refs     atomic.Int64
}

func mapFile(path string, writable bool) (*Region, error) {
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR
	}

	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, tgerr.Wrap(tgerr.ArchiveError, "archive not found: "+path, err)
		}
		return nil, tgerr.Wrap(tgerr.IoError, "open archive: "+path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, tgerr.Wrap(tgerr.IoError, "stat archive: "+path, err)
	}
	size := st.Size()
	if size == 0 {
		return nil, tgerr.New(tgerr.ArchiveError, "archive is empty: "+path)
	}

	prot := unix.PROT_READ
	if writable {
		prot |= unix.PROT_WRITE
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), prot, unix.MAP_SHARED)
	if err != nil {
		return nil, tgerr.Wrap(tgerr.IoError, "mmap archive: "+path, err)
	}

	r := &Region{data: data, writable: writable}
	r.refs.Store(1)
	return r, nil
}

// Acquire increments the reference count and returns r, for a caller (a
// tile handle) that wants to keep the mapping alive independently of the
// Archive it came from.
func (r *Region) Acquire() *Region {
	r.refs.Add(1)
	return r
}

// Release decrements the reference count, unmapping on the last release.
func (r *Region) Release() error {
	if r.refs.Add(-1) == 0 {
		data := r.data
		r.data = nil
		return unix.Munmap(data)
	}
	return nil
}

// Bytes returns the mapped region. Valid until Release brings the refcount
// to zero.
func (r *Region) Bytes() []byte { return r.data }
