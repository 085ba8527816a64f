//go:build windows

package neuroshare

import "golang.org/x/sys/windows"

// Most vendor libraries are distributed as Windows DLLs, so this loader is
// the one the acquisition machines actually exercise.

func openLibrary(path string) (uintptr, error) {
	handle, err := windows.LoadLibrary(path)
	if err != nil {
		return 0, err
	}
	return uintptr(handle), nil
}

func lookupSymbol(handle uintptr, name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(handle), name)
}

func closeLibrary(handle uintptr) error {
	return windows.FreeLibrary(windows.Handle(handle))
}
