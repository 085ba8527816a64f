package neuroshare

import "unsafe"

// lastErrorBufSize bounds the buffer handed to ns_GetLastErrorMsg.
const lastErrorBufSize = 1024

// Library is a loaded Neuroshare vendor library: the native module handle
// plus the resolved entry-point table. It is created by Open, consumed by
// Close, and not safe for concurrent use.
type Library struct {
	path   string
	handle uintptr
	unload func() error
	open   bool
	fn     entryPoints
}

// LibraryInfo describes a vendor library: who built it, which API revision
// it implements and how many files it can hold open at once.
type LibraryInfo struct {
	Description   string
	Creator       string
	LibVersionMaj uint32
	LibVersionMin uint32
	APIVersionMaj uint32
	APIVersionMin uint32
	TimeYear      uint32
	TimeMonth     uint32
	TimeDay       uint32
	MaxFiles      uint32
}

// Open loads the vendor shared library at path and resolves its entry
// points. Symbols the library does not export are tolerated; the miss is
// reported as a SymbolError by the first operation that needs it.
func Open(path string) (*Library, error) {
	handle, err := openLibrary(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	lib := &Library{
		path:   path,
		handle: handle,
		unload: func() error { return closeLibrary(handle) },
		open:   true,
	}
	lib.fn.resolve(handle)
	return lib, nil
}

// Close unloads the vendor library. The handle is consumed even when the
// native unload reports failure; every later operation, including a second
// Close, fails with ErrClosed. Files opened through the library must be
// closed first, which is the caller's responsibility.
func (l *Library) Close() error {
	if !l.open {
		return ErrClosed
	}
	l.open = false
	l.fn = entryPoints{}
	unload := l.unload
	l.unload = nil
	l.handle = 0
	if unload == nil {
		return nil
	}
	if err := unload(); err != nil {
		return &UnloadError{Path: l.path, Err: err}
	}
	return nil
}

// Path returns the path the library was loaded from.
func (l *Library) Path() string { return l.path }

// Info reads the vendor library's self-description.
func (l *Library) Info() (*LibraryInfo, error) {
	if !l.open {
		return nil, ErrClosed
	}
	if l.fn.getLibraryInfo == nil {
		return nil, &SymbolError{Name: symGetLibraryInfo}
	}
	var rec libraryInfoRecord
	st := l.fn.getLibraryInfo(&rec, uint32(unsafe.Sizeof(rec)))
	if err := l.check(symGetLibraryInfo, st); err != nil {
		return nil, err
	}
	return &LibraryInfo{
		Description:   cString(rec.Description[:]),
		Creator:       cString(rec.Creator[:]),
		LibVersionMaj: rec.LibVersionMaj,
		LibVersionMin: rec.LibVersionMin,
		APIVersionMaj: rec.APIVersionMaj,
		APIVersionMin: rec.APIVersionMin,
		TimeYear:      rec.TimeYear,
		TimeMonth:     rec.TimeMonth,
		TimeDay:       rec.TimeDay,
		MaxFiles:      rec.MaxFiles,
	}, nil
}

// check translates a native status into an error. Anything other than
// StatusOK fetches the vendor's last-error text and becomes a CallError;
// every native call site routes its status through here.
func (l *Library) check(op string, st Status) error {
	if st == StatusOK {
		return nil
	}
	return &CallError{Op: op, Status: st, Message: l.lastError()}
}

// lastError drains ns_GetLastErrorMsg into a bounded buffer. Best effort:
// an unresolved or failing accessor yields an empty message.
func (l *Library) lastError() string {
	if l.fn.getLastErrorMsg == nil {
		return ""
	}
	var buf [lastErrorBufSize]byte
	if st := l.fn.getLastErrorMsg(&buf[0], uint32(len(buf))); st != StatusOK {
		return ""
	}
	return cString(buf[:])
}
