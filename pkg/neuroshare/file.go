package neuroshare

import "unsafe"

// File is one open recording within a vendor library. It pairs the opaque
// numeric file id the vendor returned with the metadata snapshot taken at
// open time. A File is only meaningful relative to the Library that opened
// it and, like the Library, is not safe for concurrent use.
type File struct {
	lib  *Library
	id   uint32
	open bool
	info FileInfo
}

// FileInfo is the file-level metadata snapshot taken when a recording is
// opened.
type FileInfo struct {
	FileType            string
	AppName             string
	FileComment         string
	EntityCount         uint32
	TimeStampResolution float64
	TimeSpan            float64
	TimeYear            uint32
	TimeMonth           uint32
	TimeDay             uint32
	TimeHour            uint32
	TimeMin             uint32
	TimeSec             uint32
	TimeMilliSec        uint32
}

// OpenFile opens a recording through the vendor library and snapshots its
// file-level metadata.
func (l *Library) OpenFile(path string) (*File, error) {
	if !l.open {
		return nil, ErrClosed
	}
	if l.fn.openFile == nil {
		return nil, &SymbolError{Name: symOpenFile}
	}
	var id uint32
	st := l.fn.openFile(path, &id)
	if err := l.check(symOpenFile, st); err != nil {
		return nil, err
	}
	f := &File{lib: l, id: id, open: true}
	if err := f.readFileInfo(); err != nil {
		// Release the native file before reporting.
		if l.fn.closeFile != nil {
			l.fn.closeFile(id)
		}
		return nil, err
	}
	return f, nil
}

func (f *File) readFileInfo() error {
	fn := f.lib.fn
	if fn.getFileInfo == nil {
		return &SymbolError{Name: symGetFileInfo}
	}
	var rec fileInfoRecord
	st := fn.getFileInfo(f.id, &rec, uint32(unsafe.Sizeof(rec)))
	if err := f.lib.check(symGetFileInfo, st); err != nil {
		return err
	}
	f.info = FileInfo{
		FileType:            cString(rec.FileType[:]),
		AppName:             cString(rec.AppName[:]),
		FileComment:         cString(rec.FileComment[:]),
		EntityCount:         rec.EntityCount,
		TimeStampResolution: rec.TimeStampResolution,
		TimeSpan:            rec.TimeSpan,
		TimeYear:            rec.TimeYear,
		TimeMonth:           rec.TimeMonth,
		TimeDay:             rec.TimeDay,
		TimeHour:            rec.TimeHour,
		TimeMin:             rec.TimeMin,
		TimeSec:             rec.TimeSec,
		TimeMilliSec:        rec.TimeMilliSec,
	}
	return nil
}

// Close releases the native file. The File is consumed; a second Close
// fails with ErrClosed.
func (f *File) Close() error {
	if !f.open || !f.lib.open {
		return ErrClosed
	}
	f.open = false
	if f.lib.fn.closeFile == nil {
		return &SymbolError{Name: symCloseFile}
	}
	st := f.lib.fn.closeFile(f.id)
	return f.lib.check(symCloseFile, st)
}

// Info returns the metadata snapshot taken when the file was opened.
func (f *File) Info() FileInfo { return f.info }

// ID returns the vendor's numeric handle for the file.
func (f *File) ID() uint32 { return f.id }

// guard rejects operations on a file whose own handle, or whose library,
// has been closed.
func (f *File) guard() error {
	if !f.open || !f.lib.open {
		return ErrClosed
	}
	return nil
}
